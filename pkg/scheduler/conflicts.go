// Package scheduler holds the staff scheduling engine: conflict detection,
// candidate fit scoring, and greedy auto-assignment. Every function here is
// pure and CPU-bound; all I/O lives behind the gateway.
package scheduler

import (
	"fmt"

	"github.com/dlemaire/roster-api-go/pkg/models"
)

// DetectConflicts classifies every supplied assignment against the six
// per-assignment conflict kinds, then appends coverage conflicts for each
// distinct (slot, date) pair appearing in the input. It is deterministic:
// conflicts come back in input order, coverage pairs in first-appearance
// order. One assignment may surface several conflict kinds at once.
func DetectConflicts(assignments []models.Assignment, employees []models.Employee, slots []models.Slot) []models.Conflict {
	empByID := employeesByID(employees)
	slotByID := slotsByID(slots)

	conflicts := assignmentConflicts(assignments, empByID, slotByID)

	var pairs []slotDate
	seen := make(map[slotDate]bool)
	for i := range assignments {
		p := slotDate{assignments[i].SlotID, assignments[i].Date}
		if _, ok := slotByID[p.slotID]; !ok {
			continue
		}
		if !seen[p] {
			seen[p] = true
			pairs = append(pairs, p)
		}
	}
	return append(conflicts, coverageConflicts(pairs, assignments, slotByID)...)
}

type slotDate struct {
	slotID string
	date   string
}

func assignmentConflicts(assignments []models.Assignment, empByID map[string]*models.Employee, slotByID map[string]*models.Slot) []models.Conflict {
	var conflicts []models.Conflict
	for i := range assignments {
		a := &assignments[i]
		if a.Cancelled() {
			continue
		}
		emp, okEmp := empByID[a.EmployeeID]
		slot, okSlot := slotByID[a.SlotID]
		if !okEmp || !okSlot {
			// Dangling reference is a caller error, not a scheduling conflict.
			continue
		}

		if emp.Status != models.EmployeeActive {
			conflicts = append(conflicts, models.Conflict{
				Kind:         models.ConflictInactiveEmployee,
				Severity:     models.SeverityHigh,
				AssignmentID: a.ID,
				SlotID:       a.SlotID,
				Date:         a.Date,
				Message:      fmt.Sprintf("employee %s is %s", emp.ID, emp.Status),
			})
		}
		if emp.UnavailableOn(a.Date) {
			conflicts = append(conflicts, models.Conflict{
				Kind:         models.ConflictUnavailableEmployee,
				Severity:     models.SeverityHigh,
				AssignmentID: a.ID,
				SlotID:       a.SlotID,
				Date:         a.Date,
				Message:      fmt.Sprintf("employee %s is unavailable on %s", emp.ID, a.Date),
			})
		}
		if !emp.HasSkills(slot.RequiredSkills) {
			conflicts = append(conflicts, models.Conflict{
				Kind:         models.ConflictSkillMismatch,
				Severity:     models.SeverityHigh,
				AssignmentID: a.ID,
				SlotID:       a.SlotID,
				Date:         a.Date,
				Message:      fmt.Sprintf("employee %s lacks required skills for slot %s", emp.ID, slot.ID),
			})
		}
		if slot.Group != "" && !emp.ServesGroup(slot.Group) {
			conflicts = append(conflicts, models.Conflict{
				Kind:         models.ConflictGroupMismatch,
				Severity:     models.SeverityHigh,
				AssignmentID: a.ID,
				SlotID:       a.SlotID,
				Date:         a.Date,
				Message:      fmt.Sprintf("employee %s is not eligible for group %s", emp.ID, slot.Group),
			})
		}
		if other := firstOverlap(i, assignments, slotByID); other != nil {
			conflicts = append(conflicts, models.Conflict{
				Kind:         models.ConflictDoubleBooking,
				Severity:     models.SeverityHigh,
				AssignmentID: a.ID,
				SlotID:       a.SlotID,
				Date:         a.Date,
				Message:      fmt.Sprintf("employee %s is double-booked on %s (overlaps assignment to slot %s)", emp.ID, a.Date, other.SlotID),
			})
		}
	}
	return conflicts
}

// firstOverlap finds the first other non-cancelled assignment of the same
// employee on the same date whose half-open interval overlaps assignment i.
func firstOverlap(i int, assignments []models.Assignment, slotByID map[string]*models.Slot) *models.Assignment {
	a := &assignments[i]
	slot, ok := slotByID[a.SlotID]
	if !ok {
		return nil
	}
	aStart, aEnd, err := a.Interval(slot)
	if err != nil {
		return nil
	}
	for j := range assignments {
		if j == i {
			continue
		}
		b := &assignments[j]
		if b.Cancelled() || b.EmployeeID != a.EmployeeID || b.Date != a.Date {
			continue
		}
		bSlot, ok := slotByID[b.SlotID]
		if !ok {
			continue
		}
		bStart, bEnd, err := b.Interval(bSlot)
		if err != nil {
			continue
		}
		if models.Overlaps(aStart, aEnd, bStart, bEnd) {
			return b
		}
	}
	return nil
}

// coverageConflicts checks staffing counts for the given (slot, date)
// pairs: understaffed is medium severity, overstaffed low.
func coverageConflicts(pairs []slotDate, assignments []models.Assignment, slotByID map[string]*models.Slot) []models.Conflict {
	counts := make(map[slotDate]int)
	for i := range assignments {
		a := &assignments[i]
		if a.Cancelled() {
			continue
		}
		counts[slotDate{a.SlotID, a.Date}]++
	}

	var conflicts []models.Conflict
	for _, p := range pairs {
		slot, ok := slotByID[p.slotID]
		if !ok {
			continue
		}
		n := counts[p]
		if n < slot.MinStaff {
			conflicts = append(conflicts, models.Conflict{
				Kind:     models.ConflictUnderstaffed,
				Severity: models.SeverityMedium,
				SlotID:   p.slotID,
				Date:     p.date,
				Message:  fmt.Sprintf("slot %s on %s has %d of %d required staff", p.slotID, p.date, n, slot.MinStaff),
			})
		}
		if n > slot.MaxStaff {
			conflicts = append(conflicts, models.Conflict{
				Kind:     models.ConflictOverstaffed,
				Severity: models.SeverityLow,
				SlotID:   p.slotID,
				Date:     p.date,
				Message:  fmt.Sprintf("slot %s on %s has %d staff, max is %d", p.slotID, p.date, n, slot.MaxStaff),
			})
		}
	}
	return conflicts
}

func employeesByID(employees []models.Employee) map[string]*models.Employee {
	m := make(map[string]*models.Employee, len(employees))
	for i := range employees {
		m[employees[i].ID] = &employees[i]
	}
	return m
}

func slotsByID(slots []models.Slot) map[string]*models.Slot {
	m := make(map[string]*models.Slot, len(slots))
	for i := range slots {
		m[slots[i].ID] = &slots[i]
	}
	return m
}
