// Package apperrors holds the error kinds shared by the scheduling and layout
// libraries. All of them are recoverable by the caller: the request can be
// corrected and submitted again.
package apperrors

import "errors"

type Kind string

const (
	KindInvalidPartySize     Kind = "invalid_party_size"
	KindCapacityExceeded     Kind = "capacity_exceeded"
	KindInvalidInterval      Kind = "invalid_interval"
	KindTableConflict        Kind = "table_conflict"
	KindMissingContact       Kind = "missing_contact"
	KindDuplicateTableNumber Kind = "duplicate_table_number"
	KindBlankTableNumber     Kind = "blank_table_number"
	KindNotFound             Kind = "not_found"
	KindPlanInUse            Kind = "plan_in_use"
)

// Error is a typed validation failure.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string {
	if e.Message == "" {
		return string(e.Kind)
	}
	return e.Message
}

// Is matches on Kind so errors.Is(err, ErrTableConflict) works for any message.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

var (
	ErrInvalidPartySize     = New(KindInvalidPartySize, "party size must be a positive integer")
	ErrCapacityExceeded     = New(KindCapacityExceeded, "party size exceeds table seats")
	ErrInvalidInterval      = New(KindInvalidInterval, "reservation end must be after start")
	ErrTableConflict        = New(KindTableConflict, "table is already reserved for this time")
	ErrMissingContact       = New(KindMissingContact, "guest name and phone are required")
	ErrDuplicateTableNumber = New(KindDuplicateTableNumber, "table numbers must be unique within a floor plan")
	ErrBlankTableNumber     = New(KindBlankTableNumber, "every table needs a number")
	ErrNotFound             = New(KindNotFound, "not found")
	ErrPlanInUse            = New(KindPlanInUse, "the last floor plan cannot be deleted")
)

// ErrStorageUnavailable is returned when the backing store cannot be reached.
// It is not a validation outcome; callers decide on degraded behaviour.
var ErrStorageUnavailable = errors.New("storage unavailable")

// KindOf extracts the Kind of a typed error anywhere in err's chain.
func KindOf(err error) (Kind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return "", false
}

// NotFound builds a NotFound error naming the missing resource.
func NotFound(what string) *Error {
	return New(KindNotFound, what+" not found")
}
