package scheduler

import (
	"fmt"
	"sort"

	"github.com/dlemaire/roster-api-go/pkg/models"
)

// DateRange is an inclusive span of days to schedule over.
type DateRange struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// Filters narrows which slots an auto-assign run covers. Empty fields
// match everything. Unknown slot IDs are a caller error and abort the run.
type Filters struct {
	SlotIDs []string `json:"slot_ids,omitempty"`
	Kinds   []string `json:"kinds,omitempty"`
	Group   string   `json:"group,omitempty"`
}

// Result is the outcome of an auto-assign run: the newly created
// assignments plus the conflict list for the covered window. Partial
// coverage is a success with a non-empty conflict list, never an error.
type Result struct {
	Assignments []models.Assignment `json:"assignments"`
	Conflicts   []models.Conflict   `json:"conflicts"`
}

// AutoAssign greedily fills under-covered slots across the date range.
// For each (date, slot) short of min_staff it ranks eligible employees by
// fit score and commits candidates one at a time, discarding any whose
// tentative assignment the conflict detector would flag at high severity.
// Pre-existing assignments are read but never mutated or returned.
//
// The pass is deterministic: dates ascend, slots iterate by ID, and
// candidate ranking breaks score ties by lower recent-assignment count,
// then by employee ID. Two runs over the same snapshot produce identical
// output, which makes preview-before-commit safe.
func AutoAssign(dateRange DateRange, slots []models.Slot, employees []models.Employee, existing []models.Assignment, filters Filters, weights ScoreWeights) (*Result, error) {
	dates, err := models.DatesBetween(dateRange.From, dateRange.To)
	if err != nil {
		return nil, models.NewValidationError(err.Error())
	}

	slotByID := slotsByID(slots)
	for _, id := range filters.SlotIDs {
		if _, ok := slotByID[id]; !ok {
			return nil, models.NewValidationError(fmt.Sprintf("unknown slot id %q in filter", id))
		}
	}
	for i := range slots {
		if slots[i].MinStaff > slots[i].MaxStaff {
			return nil, models.NewValidationError(
				fmt.Sprintf("slot %s: min_staff %d exceeds max_staff %d", slots[i].ID, slots[i].MinStaff, slots[i].MaxStaff))
		}
	}

	targets := filterSlots(slots, filters)
	empByID := employeesByID(employees)

	// working grows as assignments commit; created tracks only this run's.
	working := make([]models.Assignment, len(existing))
	copy(working, existing)
	var created []models.Assignment

	for _, date := range dates {
		for _, slot := range targets {
			count := staffedCount(working, slot.ID, date)
			if count >= slot.MinStaff {
				continue
			}

			candidates := eligibleCandidates(employees, slot, date)
			if len(candidates) == 0 {
				// Left uncovered; surfaces below as an understaffed conflict.
				continue
			}
			rankCandidates(candidates, slot, date, working, weights)

			needed := slot.MinStaff - count
			if max := slot.MaxStaff - count; needed > max {
				needed = max
			}

			added := 0
			for _, cand := range candidates {
				if added >= needed {
					break
				}
				tentative := models.Assignment{
					ID:         pendingID(slot.ID, date, cand.employee.ID),
					EmployeeID: cand.employee.ID,
					SlotID:     slot.ID,
					Date:       date,
					StartTime:  slot.StartTime,
					EndTime:    slot.EndTime,
					Status:     models.AssignmentScheduled,
				}
				trial := append(working[:len(working):len(working)], tentative)
				if hasHighConflict(assignmentConflicts(trial, empByID, slotByID), tentative.ID) {
					continue
				}
				working = append(working, tentative)
				created = append(created, tentative)
				added++
			}
		}
	}

	conflicts := assignmentConflicts(working, empByID, slotByID)
	conflicts = append(conflicts, coverageConflicts(windowPairs(dates, targets), working, slotByID)...)

	return &Result{Assignments: created, Conflicts: conflicts}, nil
}

// pendingID is a deterministic placeholder; the store assigns real IDs
// when the assignment is persisted.
func pendingID(slotID, date, employeeID string) string {
	return "pending:" + slotID + ":" + date + ":" + employeeID
}

type candidate struct {
	employee *models.Employee
	score    float64
	recent   int
}

// eligibleCandidates applies the hard pre-filter: active, available on the
// date, covering every required skill, and serving the slot's group.
func eligibleCandidates(employees []models.Employee, slot *models.Slot, date string) []*candidate {
	var out []*candidate
	for i := range employees {
		emp := &employees[i]
		if emp.Status != models.EmployeeActive {
			continue
		}
		if emp.UnavailableOn(date) {
			continue
		}
		if !emp.HasSkills(slot.RequiredSkills) {
			continue
		}
		if !emp.ServesGroup(slot.Group) {
			continue
		}
		out = append(out, &candidate{employee: emp})
	}
	return out
}

// rankCandidates orders candidates best-first: score descending, then
// fewer recent assignments, then employee ID ascending. The chain is part
// of the engine's contract; preview/commit parity depends on it.
func rankCandidates(candidates []*candidate, slot *models.Slot, date string, working []models.Assignment, weights ScoreWeights) {
	for _, c := range candidates {
		c.score = ScoreCandidate(c.employee, slot, date, working, weights)
		c.recent = RecentAssignmentCount(c.employee.ID, date, working, weights.LoadWindowDays)
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if a.score != b.score {
			return a.score > b.score
		}
		if a.recent != b.recent {
			return a.recent < b.recent
		}
		return a.employee.ID < b.employee.ID
	})
}

func filterSlots(slots []models.Slot, filters Filters) []*models.Slot {
	idSet := make(map[string]bool, len(filters.SlotIDs))
	for _, id := range filters.SlotIDs {
		idSet[id] = true
	}
	kindSet := make(map[string]bool, len(filters.Kinds))
	for _, k := range filters.Kinds {
		kindSet[k] = true
	}

	var out []*models.Slot
	for i := range slots {
		s := &slots[i]
		if !s.Active {
			continue
		}
		if len(idSet) > 0 && !idSet[s.ID] {
			continue
		}
		if len(kindSet) > 0 && !kindSet[s.Kind] {
			continue
		}
		if filters.Group != "" && s.Group != filters.Group {
			continue
		}
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func staffedCount(assignments []models.Assignment, slotID, date string) int {
	n := 0
	for i := range assignments {
		a := &assignments[i]
		if !a.Cancelled() && a.SlotID == slotID && a.Date == date {
			n++
		}
	}
	return n
}

func hasHighConflict(conflicts []models.Conflict, assignmentID string) bool {
	for _, c := range conflicts {
		if c.High() && c.AssignmentID == assignmentID {
			return true
		}
	}
	return false
}

// windowPairs enumerates every (slot, date) the run was asked to cover, so
// coverage conflicts include slots that received no assignments at all.
func windowPairs(dates []string, targets []*models.Slot) []slotDate {
	pairs := make([]slotDate, 0, len(dates)*len(targets))
	for _, date := range dates {
		for _, slot := range targets {
			pairs = append(pairs, slotDate{slot.ID, date})
		}
	}
	return pairs
}
