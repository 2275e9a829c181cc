package models

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// FieldError points a validation failure at a specific record field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError reports malformed input. It aborts a scheduling run
// before any computation or persistence happens.
type ValidationError struct {
	Msg    string       `json:"error"`
	Fields []FieldError `json:"fields,omitempty"`
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return e.Msg
	}
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+": "+f.Message)
	}
	return e.Msg + " (" + strings.Join(parts, "; ") + ")"
}

// NewValidationError builds a ValidationError from a message and optional
// field details.
func NewValidationError(msg string, fields ...FieldError) *ValidationError {
	return &ValidationError{Msg: msg, Fields: fields}
}

// Validate rejects unknown-shape input at the gateway boundary: struct-tag
// checks per record, duplicate IDs, capacity bounds, and parseable times.
func (s *Snapshot) Validate() error {
	var fields []FieldError

	empIDs := make(map[string]bool)
	for i := range s.Employees {
		e := &s.Employees[i]
		ref := fmt.Sprintf("employees[%d]", i)
		if err := validate.Struct(e); err != nil {
			fields = append(fields, tagErrors(ref, err)...)
		}
		if e.ID != "" && empIDs[e.ID] {
			fields = append(fields, FieldError{ref + ".id", "duplicate employee id " + e.ID})
		}
		empIDs[e.ID] = true
	}

	slotIDs := make(map[string]bool)
	for i := range s.Slots {
		sl := &s.Slots[i]
		ref := fmt.Sprintf("slots[%d]", i)
		if err := validate.Struct(sl); err != nil {
			fields = append(fields, tagErrors(ref, err)...)
		}
		if sl.ID != "" && slotIDs[sl.ID] {
			fields = append(fields, FieldError{ref + ".id", "duplicate slot id " + sl.ID})
		}
		slotIDs[sl.ID] = true
		if sl.MinStaff > sl.MaxStaff {
			fields = append(fields, FieldError{
				ref + ".min_staff",
				fmt.Sprintf("min_staff %d exceeds max_staff %d", sl.MinStaff, sl.MaxStaff),
			})
		}
	}

	asgnIDs := make(map[string]bool)
	for i := range s.Assignments {
		a := &s.Assignments[i]
		ref := fmt.Sprintf("assignments[%d]", i)
		if err := validate.Struct(a); err != nil {
			fields = append(fields, tagErrors(ref, err)...)
		}
		if a.ID != "" {
			if asgnIDs[a.ID] {
				fields = append(fields, FieldError{ref + ".id", "duplicate assignment id " + a.ID})
			}
			asgnIDs[a.ID] = true
		}
	}

	if len(fields) > 0 {
		return NewValidationError("invalid snapshot", fields...)
	}
	return nil
}

func tagErrors(ref string, err error) []FieldError {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return []FieldError{{ref, err.Error()}}
	}
	fields := make([]FieldError, 0, len(verrs))
	for _, ve := range verrs {
		fields = append(fields, FieldError{
			Field:   ref + "." + ve.Field(),
			Message: fmt.Sprintf("failed %q check", ve.Tag()),
		})
	}
	return fields
}
