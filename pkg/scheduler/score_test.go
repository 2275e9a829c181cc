package scheduler

import (
	"testing"

	"github.com/dlemaire/roster-api-go/pkg/models"
	"github.com/stretchr/testify/assert"
)

func TestDefaultWeights_ComponentsSumToScale(t *testing.T) {
	w := DefaultWeights()
	assert.InDelta(t, 100.0, w.Skill+w.Preference+w.Experience+w.Load, 0.001)
}

func TestScoreCandidate_Components(t *testing.T) {
	w := DefaultWeights()
	slot := basicSlot("s1", "09:00", "12:00")
	slot.RequiredSkills = []string{"math", "physics"}

	tests := []struct {
		name     string
		employee models.Employee
		existing []models.Assignment
		want     ScoreBreakdown
	}{
		{
			name:     "full skill match only",
			employee: activeEmployee("e1", "math", "physics"),
			want:     ScoreBreakdown{Skill: 40, Load: 20, Total: 60},
		},
		{
			name:     "half skill match",
			employee: activeEmployee("e1", "math"),
			want:     ScoreBreakdown{Skill: 20, Load: 20, Total: 40},
		},
		{
			name: "preference adds its full weight",
			employee: func() models.Employee {
				e := activeEmployee("e1", "math", "physics")
				e.PreferredSlotKinds = []string{"morning_shift"}
				return e
			}(),
			want: ScoreBreakdown{Skill: 40, Preference: 15, Load: 20, Total: 75},
		},
		{
			name: "experience capped at component weight",
			employee: func() models.Employee {
				e := activeEmployee("e1", "math", "physics")
				e.ExperienceYears = 20 // 60 points uncapped
				return e
			}(),
			want: ScoreBreakdown{Skill: 40, Experience: 25, Load: 20, Total: 85},
		},
		{
			name:     "recent load erodes the load component",
			employee: activeEmployee("e1", "math", "physics"),
			existing: []models.Assignment{
				{ID: "a1", EmployeeID: "e1", SlotID: "s1", Date: "2024-06-09", Status: models.AssignmentScheduled},
				{ID: "a2", EmployeeID: "e1", SlotID: "s1", Date: "2024-06-08", Status: models.AssignmentScheduled},
				{ID: "a3", EmployeeID: "e1", SlotID: "s1", Date: "2024-06-07", Status: models.AssignmentScheduled},
			},
			want: ScoreBreakdown{Skill: 40, Load: 14, Total: 54},
		},
		{
			name:     "load floors at zero",
			employee: activeEmployee("e1", "math", "physics"),
			existing: manyAssignments("e1", 15),
			want:     ScoreBreakdown{Skill: 40, Load: 0, Total: 40},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ScoreCandidateDetail(&tt.employee, &slot, "2024-06-10", tt.existing, w)
			assert.Equal(t, tt.want, got)
		})
	}
}

// manyAssignments stacks n same-week assignments on one employee.
func manyAssignments(employeeID string, n int) []models.Assignment {
	dates := []string{"2024-06-10", "2024-06-09", "2024-06-08", "2024-06-07", "2024-06-06"}
	out := make([]models.Assignment, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, models.Assignment{
			ID:         "a" + string(rune('a'+i)),
			EmployeeID: employeeID,
			SlotID:     "s1",
			Date:       dates[i%len(dates)],
			Status:     models.AssignmentScheduled,
		})
	}
	return out
}

func TestScoreCandidate_NoRequiredSkillsScoresFullSkillMarks(t *testing.T) {
	slot := basicSlot("s1", "09:00", "12:00")
	emp := activeEmployee("e1") // no skills at all

	got := ScoreCandidateDetail(&emp, &slot, "2024-06-10", nil, DefaultWeights())
	assert.Equal(t, 40.0, got.Skill)
}

func TestScoreCandidate_LoadWindowExcludesOldAndCancelled(t *testing.T) {
	w := DefaultWeights()
	slot := basicSlot("s1", "09:00", "12:00")
	emp := activeEmployee("e1")

	existing := []models.Assignment{
		// Outside the trailing 7-day window ending at 2024-06-10.
		{ID: "a1", EmployeeID: "e1", SlotID: "s1", Date: "2024-06-03", Status: models.AssignmentScheduled},
		// Cancelled never counts.
		{ID: "a2", EmployeeID: "e1", SlotID: "s1", Date: "2024-06-09", Status: models.AssignmentCancelled},
		// First day inside the window.
		{ID: "a3", EmployeeID: "e1", SlotID: "s1", Date: "2024-06-04", Status: models.AssignmentScheduled},
	}

	assert.Equal(t, 1, RecentAssignmentCount("e1", "2024-06-10", existing, w.LoadWindowDays))
	got := ScoreCandidateDetail(&emp, &slot, "2024-06-10", existing, w)
	assert.Equal(t, 18.0, got.Load)
}

func TestScoreCandidate_Deterministic(t *testing.T) {
	slot := basicSlot("s1", "09:00", "12:00")
	slot.RequiredSkills = []string{"math"}
	emp := activeEmployee("e1", "math")
	emp.ExperienceYears = 4
	existing := manyAssignments("e1", 3)

	first := ScoreCandidate(&emp, &slot, "2024-06-10", existing, DefaultWeights())
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, ScoreCandidate(&emp, &slot, "2024-06-10", existing, DefaultWeights()))
	}
}
