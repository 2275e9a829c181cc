package gateway

import (
	"fmt"
)

// Error wraps a transport or store failure so callers can tell "store
// unreachable" apart from "no eligible candidate". The underlying error is
// surfaced without transformation.
type Error struct {
	Op     string // "load employees", "save assignments", ...
	Status int    // HTTP status, 0 when the request never completed
	Err    error
}

func (e *Error) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("store: %s: status %d: %v", e.Op, e.Status, e.Err)
	}
	return fmt.Sprintf("store: %s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// StaleScheduleError means the store rejected a save because the schedule
// changed since the snapshot was loaded. The caller should reload and
// recompute rather than retry the same write.
type StaleScheduleError struct {
	ETag string
}

func (e *StaleScheduleError) Error() string {
	return "store: schedule changed since snapshot was loaded, save rejected"
}
