package scheduler

import (
	"testing"

	"github.com/dlemaire/roster-api-go/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func activeEmployee(id string, skills ...string) models.Employee {
	return models.Employee{
		ID:     id,
		Name:   "Employee " + id,
		Skills: skills,
		Status: models.EmployeeActive,
	}
}

func basicSlot(id, start, end string) models.Slot {
	return models.Slot{
		ID:        id,
		Kind:      "morning_shift",
		MinStaff:  1,
		MaxStaff:  2,
		StartTime: start,
		EndTime:   end,
		Active:    true,
	}
}

func TestDetectConflicts_InactiveEmployee(t *testing.T) {
	emp := activeEmployee("e1")
	emp.Status = models.EmployeeOnLeave
	slot := basicSlot("s1", "09:00", "12:00")

	conflicts := DetectConflicts(
		[]models.Assignment{{ID: "a1", EmployeeID: "e1", SlotID: "s1", Date: "2024-06-10", Status: models.AssignmentScheduled}},
		[]models.Employee{emp},
		[]models.Slot{slot},
	)

	require.NotEmpty(t, conflicts)
	assert.Equal(t, models.ConflictInactiveEmployee, conflicts[0].Kind)
	assert.Equal(t, models.SeverityHigh, conflicts[0].Severity)
	assert.Equal(t, "a1", conflicts[0].AssignmentID)
}

func TestDetectConflicts_UnavailableEmployee(t *testing.T) {
	emp := activeEmployee("e1")
	emp.UnavailableDates = []string{"2024-06-10"}
	slot := basicSlot("s1", "09:00", "12:00")

	conflicts := DetectConflicts(
		[]models.Assignment{{ID: "a1", EmployeeID: "e1", SlotID: "s1", Date: "2024-06-10", Status: models.AssignmentScheduled}},
		[]models.Employee{emp},
		[]models.Slot{slot},
	)

	require.Len(t, conflicts, 1)
	assert.Equal(t, models.ConflictUnavailableEmployee, conflicts[0].Kind)
	assert.Equal(t, models.SeverityHigh, conflicts[0].Severity)
}

func TestDetectConflicts_SkillAndGroupMismatch(t *testing.T) {
	emp := activeEmployee("e1", "english")
	slot := basicSlot("s1", "09:00", "12:00")
	slot.RequiredSkills = []string{"math"}
	slot.Group = "grade5"

	conflicts := DetectConflicts(
		[]models.Assignment{{ID: "a1", EmployeeID: "e1", SlotID: "s1", Date: "2024-06-10", Status: models.AssignmentScheduled}},
		[]models.Employee{emp},
		[]models.Slot{slot},
	)

	// The same assignment surfaces every applicable kind, not just the first.
	kinds := make([]models.ConflictKind, 0, len(conflicts))
	for _, c := range conflicts {
		if c.AssignmentID == "a1" {
			kinds = append(kinds, c.Kind)
		}
	}
	assert.Contains(t, kinds, models.ConflictSkillMismatch)
	assert.Contains(t, kinds, models.ConflictGroupMismatch)
}

func TestDetectConflicts_DoubleBooking(t *testing.T) {
	emp := activeEmployee("e1")
	s1 := basicSlot("s1", "09:00", "12:00")
	s2 := basicSlot("s2", "11:00", "14:00")

	conflicts := DetectConflicts(
		[]models.Assignment{
			{ID: "a1", EmployeeID: "e1", SlotID: "s1", Date: "2024-06-10", Status: models.AssignmentScheduled},
			{ID: "a2", EmployeeID: "e1", SlotID: "s2", Date: "2024-06-10", Status: models.AssignmentScheduled},
		},
		[]models.Employee{emp},
		[]models.Slot{s1, s2},
	)

	// Symmetric: both assignments get flagged.
	var flagged []string
	for _, c := range conflicts {
		if c.Kind == models.ConflictDoubleBooking {
			assert.Equal(t, models.SeverityHigh, c.Severity)
			flagged = append(flagged, c.AssignmentID)
		}
	}
	assert.ElementsMatch(t, []string{"a1", "a2"}, flagged)
}

func TestDetectConflicts_BoundaryTouchIsNotDoubleBooking(t *testing.T) {
	emp := activeEmployee("e1")
	s1 := basicSlot("s1", "09:00", "12:00")
	s2 := basicSlot("s2", "12:00", "15:00")

	conflicts := DetectConflicts(
		[]models.Assignment{
			{ID: "a1", EmployeeID: "e1", SlotID: "s1", Date: "2024-06-10", Status: models.AssignmentScheduled},
			{ID: "a2", EmployeeID: "e1", SlotID: "s2", Date: "2024-06-10", Status: models.AssignmentScheduled},
		},
		[]models.Employee{emp},
		[]models.Slot{s1, s2},
	)

	for _, c := range conflicts {
		assert.NotEqual(t, models.ConflictDoubleBooking, c.Kind,
			"back-to-back intervals must not be flagged")
	}
}

func TestDetectConflicts_CancelledAssignmentsIgnored(t *testing.T) {
	emp := activeEmployee("e1")
	s1 := basicSlot("s1", "09:00", "12:00")
	s2 := basicSlot("s2", "10:00", "13:00")

	conflicts := DetectConflicts(
		[]models.Assignment{
			{ID: "a1", EmployeeID: "e1", SlotID: "s1", Date: "2024-06-10", Status: models.AssignmentScheduled},
			{ID: "a2", EmployeeID: "e1", SlotID: "s2", Date: "2024-06-10", Status: models.AssignmentCancelled},
		},
		[]models.Employee{emp},
		[]models.Slot{s1, s2},
	)

	for _, c := range conflicts {
		assert.NotEqual(t, models.ConflictDoubleBooking, c.Kind)
	}
}

func TestDetectConflicts_CrossMidnightOverlap(t *testing.T) {
	emp := activeEmployee("e1")
	night := basicSlot("night", "22:00", "02:00")
	late := basicSlot("late", "23:00", "23:45")

	conflicts := DetectConflicts(
		[]models.Assignment{
			{ID: "a1", EmployeeID: "e1", SlotID: "night", Date: "2024-06-10", Status: models.AssignmentScheduled},
			{ID: "a2", EmployeeID: "e1", SlotID: "late", Date: "2024-06-10", Status: models.AssignmentScheduled},
		},
		[]models.Employee{emp},
		[]models.Slot{night, late},
	)

	found := false
	for _, c := range conflicts {
		if c.Kind == models.ConflictDoubleBooking {
			found = true
		}
	}
	assert.True(t, found, "a slot running past midnight still overlaps a late-evening slot")
}

func TestDetectConflicts_Coverage(t *testing.T) {
	emp := activeEmployee("e1")
	under := basicSlot("under", "09:00", "12:00")
	under.MinStaff = 2
	under.MaxStaff = 3
	over := basicSlot("over", "13:00", "15:00")
	over.MinStaff = 0
	over.MaxStaff = 1

	conflicts := DetectConflicts(
		[]models.Assignment{
			{ID: "a1", EmployeeID: "e1", SlotID: "under", Date: "2024-06-10", Status: models.AssignmentScheduled},
			{ID: "a2", EmployeeID: "e1", SlotID: "over", Date: "2024-06-10", Status: models.AssignmentScheduled},
			{ID: "a3", EmployeeID: "e2", SlotID: "over", Date: "2024-06-10", Status: models.AssignmentScheduled},
		},
		[]models.Employee{emp, activeEmployee("e2")},
		[]models.Slot{under, over},
	)

	var understaffed, overstaffed *models.Conflict
	for i := range conflicts {
		switch conflicts[i].Kind {
		case models.ConflictUnderstaffed:
			understaffed = &conflicts[i]
		case models.ConflictOverstaffed:
			overstaffed = &conflicts[i]
		}
	}

	require.NotNil(t, understaffed)
	assert.Equal(t, models.SeverityMedium, understaffed.Severity)
	assert.Equal(t, "under", understaffed.SlotID)
	assert.Equal(t, "2024-06-10", understaffed.Date)

	require.NotNil(t, overstaffed)
	assert.Equal(t, models.SeverityLow, overstaffed.Severity)
	assert.Equal(t, "over", overstaffed.SlotID)
}

func TestDetectConflicts_MissingReferencesSkipped(t *testing.T) {
	conflicts := DetectConflicts(
		[]models.Assignment{
			{ID: "a1", EmployeeID: "ghost", SlotID: "s1", Date: "2024-06-10", Status: models.AssignmentScheduled},
			{ID: "a2", EmployeeID: "e1", SlotID: "ghost", Date: "2024-06-10", Status: models.AssignmentScheduled},
		},
		[]models.Employee{activeEmployee("e1")},
		[]models.Slot{basicSlot("s1", "09:00", "12:00")},
	)

	for _, c := range conflicts {
		assert.NotEqual(t, "a1", c.AssignmentID)
		assert.NotEqual(t, "a2", c.AssignmentID)
	}
}

func TestDetectConflicts_OrderingFollowsInput(t *testing.T) {
	e1 := activeEmployee("e1")
	e1.Status = models.EmployeeInactive
	e2 := activeEmployee("e2")
	e2.UnavailableDates = []string{"2024-06-10"}
	slot := basicSlot("s1", "09:00", "12:00")
	slot.MinStaff = 0

	conflicts := DetectConflicts(
		[]models.Assignment{
			{ID: "a1", EmployeeID: "e1", SlotID: "s1", Date: "2024-06-10", Status: models.AssignmentScheduled},
			{ID: "a2", EmployeeID: "e2", SlotID: "s1", Date: "2024-06-10", Status: models.AssignmentScheduled},
		},
		[]models.Employee{e1, e2},
		[]models.Slot{slot},
	)

	require.GreaterOrEqual(t, len(conflicts), 2)
	assert.Equal(t, "a1", conflicts[0].AssignmentID)
	assert.Equal(t, "a2", conflicts[1].AssignmentID)
}
