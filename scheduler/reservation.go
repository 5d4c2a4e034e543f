package scheduler

import (
	"fmt"
	"time"
)

// Status of a reservation. The set is closed.
type Status string

const (
	StatusNew       Status = "new"
	StatusConfirmed Status = "confirmed"
	StatusCancelled Status = "cancelled"
)

// DefaultDuration is applied when a request carries neither an end nor a duration.
const DefaultDuration = 120 * time.Minute

// MaxDuration caps a duration given in minutes. Longer requests are an
// InvalidInterval.
const MaxDuration = 24 * time.Hour

func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusNew, StatusConfirmed, StatusCancelled:
		return Status(s), nil
	}
	return "", fmt.Errorf("unknown reservation status %q", s)
}

func (s Status) Valid() bool {
	_, err := ParseStatus(string(s))
	return err == nil
}

// CanTransition reports whether an admin edit may move a reservation from s
// to next. Every status can be reached from every other one by a manual edit;
// nothing expires on its own.
func (s Status) CanTransition(next Status) bool {
	return s.Valid() && next.Valid()
}

// Reservation is the normalized record handed to persistence.
type Reservation struct {
	ID         uint
	TenantID   uint
	TableLabel *string
	TableSeats *int
	Start      time.Time
	End        time.Time
	PartySize  int
	Name       string
	Phone      string
	Comment    *string
	Status     Status
	CreatedAt  time.Time
}

func (r Reservation) Duration() time.Duration {
	return r.End.Sub(r.Start)
}

// Request describes a new booking. Either End or DurationMinutes may be set;
// End wins when both are present.
type Request struct {
	TenantID        uint
	TableLabel      *string
	TableSeats      *int
	PartySize       int
	Start           time.Time
	End             *time.Time
	DurationMinutes *int
	Name            string
	Phone           string
	Comment         *string
	Status          *Status
}

// Patch carries the fields an admin edit changes. Nil means unchanged.
// An empty TableLabel removes the table assignment.
type Patch struct {
	TableLabel      *string
	TableSeats      *int
	PartySize       *int
	Start           *time.Time
	End             *time.Time
	DurationMinutes *int
	Name            *string
	Phone           *string
	Comment         *string
	Status          *Status
}
