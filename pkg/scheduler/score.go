package scheduler

import (
	"github.com/dlemaire/roster-api-go/pkg/models"
)

// ScoreWeights is the tunable weight table behind candidate scoring. The
// four component weights sum to 100 so the total lands on a 0-100 scale.
type ScoreWeights struct {
	Skill      float64 `json:"skill"`
	Preference float64 `json:"preference"`
	Experience float64 `json:"experience"`
	Load       float64 `json:"load"`

	// ExperiencePerYear points are granted per year of experience, capped
	// at the Experience weight.
	ExperiencePerYear float64 `json:"experience_per_year"`
	// LoadPenalty points are deducted from the Load weight for each
	// non-cancelled assignment in the trailing window, floored at zero.
	LoadPenalty float64 `json:"load_penalty"`
	// LoadWindowDays is the length of the trailing window ending at the
	// candidate date.
	LoadWindowDays int `json:"load_window_days"`
}

// DefaultWeights emphasizes qualification over convenience: skill match
// dominates, preference is a nudge, and the load component spreads work
// instead of repeatedly picking the top-skilled person.
func DefaultWeights() ScoreWeights {
	return ScoreWeights{
		Skill:             40,
		Preference:        15,
		Experience:        25,
		Load:              20,
		ExperiencePerYear: 3,
		LoadPenalty:       2,
		LoadWindowDays:    7,
	}
}

// ScoreBreakdown itemizes a candidate score so rankings stay auditable.
type ScoreBreakdown struct {
	Skill      float64 `json:"skill"`
	Preference float64 `json:"preference"`
	Experience float64 `json:"experience"`
	Load       float64 `json:"load"`
	Total      float64 `json:"total"`
}

// ScoreCandidate rates how well an employee fits a slot on a date, in
// [0, 100]. Deterministic for identical inputs, including the snapshot of
// existing assignments used for load balancing.
func ScoreCandidate(emp *models.Employee, slot *models.Slot, date string, existing []models.Assignment, w ScoreWeights) float64 {
	return ScoreCandidateDetail(emp, slot, date, existing, w).Total
}

// ScoreCandidateDetail is ScoreCandidate with the per-component breakdown.
func ScoreCandidateDetail(emp *models.Employee, slot *models.Slot, date string, existing []models.Assignment, w ScoreWeights) ScoreBreakdown {
	var b ScoreBreakdown

	// A slot with no required skills scores full marks on this component.
	if len(slot.RequiredSkills) == 0 {
		b.Skill = w.Skill
	} else {
		matched := 0
		for _, r := range slot.RequiredSkills {
			if emp.HasSkills([]string{r}) {
				matched++
			}
		}
		b.Skill = w.Skill * float64(matched) / float64(len(slot.RequiredSkills))
	}

	if emp.PrefersKind(slot.Kind) {
		b.Preference = w.Preference
	}

	b.Experience = float64(emp.ExperienceYears) * w.ExperiencePerYear
	if b.Experience > w.Experience {
		b.Experience = w.Experience
	}

	recent := RecentAssignmentCount(emp.ID, date, existing, w.LoadWindowDays)
	b.Load = w.Load - w.LoadPenalty*float64(recent)
	if b.Load < 0 {
		b.Load = 0
	}

	b.Total = b.Skill + b.Preference + b.Experience + b.Load
	if b.Total < 0 {
		b.Total = 0
	}
	if b.Total > 100 {
		b.Total = 100
	}
	return b
}

// RecentAssignmentCount counts an employee's non-cancelled assignments in
// the trailing window of windowDays days ending at (and including) date.
func RecentAssignmentCount(employeeID, date string, assignments []models.Assignment, windowDays int) int {
	n := 0
	for i := range assignments {
		a := &assignments[i]
		if a.Cancelled() || a.EmployeeID != employeeID {
			continue
		}
		if models.WithinTrailingDays(a.Date, date, windowDays) {
			n++
		}
	}
	return n
}
