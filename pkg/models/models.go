package models

// EmploymentType describes how an employee is contracted.
type EmploymentType string

const (
	FullTime EmploymentType = "full_time"
	PartTime EmploymentType = "part_time"
	Contract EmploymentType = "contract"
)

// EmployeeStatus describes whether an employee can currently be scheduled.
type EmployeeStatus string

const (
	EmployeeActive   EmployeeStatus = "active"
	EmployeeInactive EmployeeStatus = "inactive"
	EmployeeOnLeave  EmployeeStatus = "on_leave"
)

// AssignmentStatus tracks the lifecycle of an assignment.
type AssignmentStatus string

const (
	AssignmentScheduled AssignmentStatus = "scheduled"
	AssignmentConfirmed AssignmentStatus = "confirmed"
	AssignmentCompleted AssignmentStatus = "completed"
	AssignmentCancelled AssignmentStatus = "cancelled"
)

// ConflictKind classifies a scheduling conflict.
type ConflictKind string

const (
	ConflictDoubleBooking       ConflictKind = "double_booking"
	ConflictUnavailableEmployee ConflictKind = "unavailable_employee"
	ConflictSkillMismatch       ConflictKind = "skill_mismatch"
	ConflictGroupMismatch       ConflictKind = "group_mismatch"
	ConflictInactiveEmployee    ConflictKind = "inactive_employee"
	ConflictUnderstaffed        ConflictKind = "understaffed"
	ConflictOverstaffed         ConflictKind = "overstaffed"
)

// Severity grades how serious a conflict is. High-severity conflicts are
// hard-blocking for the auto-assigner; the rest are advisory.
type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// Employee is a staff member that can be assigned to slots. Records are
// owned by the external store and read-only during a scheduling run.
type Employee struct {
	ID                 string         `json:"id" validate:"required"`
	Name               string         `json:"name"`
	EmploymentType     EmploymentType `json:"employment_type" validate:"omitempty,oneof=full_time part_time contract"`
	Skills             []string       `json:"skills"`
	EligibleGroups     []string       `json:"eligible_groups"`
	MaxHoursPerWeek    int            `json:"max_hours_per_week" validate:"gte=0"`
	PreferredSlotKinds []string       `json:"preferred_slot_kinds"`
	UnavailableDates   []string       `json:"unavailable_dates" validate:"dive,datetime=2006-01-02"`
	Status             EmployeeStatus `json:"status" validate:"required,oneof=active inactive on_leave"`
	ExperienceYears    int            `json:"experience_years" validate:"gte=0"`
}

// HasSkills reports whether the employee covers every required skill.
func (e *Employee) HasSkills(required []string) bool {
	for _, r := range required {
		found := false
		for _, s := range e.Skills {
			if s == r {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// UnavailableOn reports whether the employee is blocked on the given date.
func (e *Employee) UnavailableOn(date string) bool {
	for _, d := range e.UnavailableDates {
		if d == date {
			return true
		}
	}
	return false
}

// ServesGroup reports whether the employee may serve the given group.
// An empty group means the slot has no group restriction.
func (e *Employee) ServesGroup(group string) bool {
	if group == "" {
		return true
	}
	for _, g := range e.EligibleGroups {
		if g == group {
			return true
		}
	}
	return false
}

// PrefersKind reports whether the slot kind is among the employee's
// preferred kinds.
func (e *Employee) PrefersKind(kind string) bool {
	for _, k := range e.PreferredSlotKinds {
		if k == kind {
			return true
		}
	}
	return false
}

// Slot is a unit of required coverage: a shift or a class session.
type Slot struct {
	ID             string   `json:"id" validate:"required"`
	Kind           string   `json:"kind"`
	RequiredSkills []string `json:"required_skills"`
	Group          string   `json:"group,omitempty"`
	MinStaff       int      `json:"min_staff" validate:"gte=0"`
	MaxStaff       int      `json:"max_staff" validate:"gte=0"`
	StartTime      string   `json:"start_time" validate:"required,datetime=15:04"`
	EndTime        string   `json:"end_time" validate:"required,datetime=15:04"`
	BreakMinutes   int      `json:"break_minutes" validate:"gte=0"`
	Active         bool     `json:"active"`
}

// Interval returns the slot's [start, end) in minutes from midnight of the
// slot's date. An end before the start means the slot crosses midnight, so
// the end lands in the next day.
func (s *Slot) Interval() (start, end int, err error) {
	return clockInterval(s.StartTime, s.EndTime)
}

// DurationMinutes is the working duration net of break time, floored at zero.
func (s *Slot) DurationMinutes() (int, error) {
	start, end, err := s.Interval()
	if err != nil {
		return 0, err
	}
	d := end - start - s.BreakMinutes
	if d < 0 {
		d = 0
	}
	return d, nil
}

// Assignment binds one employee to one slot on one date. Start and end
// times may be empty, in which case the slot's times apply.
type Assignment struct {
	ID         string           `json:"id,omitempty"`
	EmployeeID string           `json:"employee_id" validate:"required"`
	SlotID     string           `json:"slot_id" validate:"required"`
	Date       string           `json:"date" validate:"required,datetime=2006-01-02"`
	StartTime  string           `json:"start_time,omitempty" validate:"omitempty,datetime=15:04"`
	EndTime    string           `json:"end_time,omitempty" validate:"omitempty,datetime=15:04"`
	Status     AssignmentStatus `json:"status" validate:"required,oneof=scheduled confirmed completed cancelled"`
}

// Cancelled reports whether the assignment no longer counts toward coverage.
func (a *Assignment) Cancelled() bool {
	return a.Status == AssignmentCancelled
}

// Interval returns the assignment's [start, end) in minutes from midnight
// of its date, falling back to the slot when the assignment does not
// override its times.
func (a *Assignment) Interval(slot *Slot) (start, end int, err error) {
	startTime, endTime := a.StartTime, a.EndTime
	if startTime == "" || endTime == "" {
		startTime, endTime = slot.StartTime, slot.EndTime
	}
	return clockInterval(startTime, endTime)
}

// Conflict is a detected scheduling problem. Conflicts are derived data,
// never persisted: a schedule with conflicts is still a valid schedule.
type Conflict struct {
	Kind         ConflictKind `json:"kind"`
	Severity     Severity     `json:"severity"`
	AssignmentID string       `json:"assignment_id,omitempty"`
	SlotID       string       `json:"slot_id,omitempty"`
	Date         string       `json:"date,omitempty"`
	Message      string       `json:"message"`
}

// High reports whether the conflict is hard-blocking.
func (c Conflict) High() bool {
	return c.Severity == SeverityHigh
}

// Snapshot is the run-scoped copy of store data a scheduling pass
// computes over.
type Snapshot struct {
	Employees   []Employee   `json:"employees"`
	Slots       []Slot       `json:"slots"`
	Assignments []Assignment `json:"assignments"`
}
