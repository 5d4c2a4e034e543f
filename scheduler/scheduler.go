// Package scheduler decides whether a reservation can be placed on a table and
// produces the normalized record to persist. It performs no I/O of its own:
// the only outside call is Repository.FindOverlapping.
package scheduler

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/yeremiapane/taplink-saas/apperrors"
)

// Repository answers the single question the scheduler asks of storage.
// Implementations must filter by tenant and table and ignore cancelled
// reservations and the reservation with id excludeID (0 excludes nothing).
type Repository interface {
	FindOverlapping(ctx context.Context, tenantID uint, tableLabel string, start, end time.Time, excludeID uint) (*Reservation, error)
}

type Scheduler struct {
	repo Repository
	now  func() time.Time
}

func New(repo Repository) *Scheduler {
	if repo == nil {
		panic("scheduler repository is required")
	}
	return &Scheduler{repo: repo, now: time.Now}
}

// WithClock replaces the clock used to stamp CreatedAt.
func (s *Scheduler) WithClock(now func() time.Time) *Scheduler {
	s.now = now
	return s
}

// Schedule validates a new booking request.
func (s *Scheduler) Schedule(ctx context.Context, req Request) (Reservation, error) {
	status := StatusNew
	if req.Status != nil {
		if !req.Status.Valid() {
			return Reservation{}, fmt.Errorf("unknown reservation status %q", *req.Status)
		}
		status = *req.Status
	}

	r := Reservation{
		TenantID:   req.TenantID,
		TableLabel: trimmedOrNil(req.TableLabel),
		TableSeats: req.TableSeats,
		Start:      req.Start,
		End:        endOf(req.Start, req.End, req.DurationMinutes),
		PartySize:  req.PartySize,
		Name:       strings.TrimSpace(req.Name),
		Phone:      strings.TrimSpace(req.Phone),
		Comment:    trimmedOrNil(req.Comment),
		Status:     status,
		CreatedAt:  s.now(),
	}

	if err := s.validate(ctx, r, 0); err != nil {
		return Reservation{}, err
	}
	return r, nil
}

// Reschedule merges patch over existing and validates the result, never
// counting existing as a conflict with itself.
func (s *Scheduler) Reschedule(ctx context.Context, existing Reservation, patch Patch) (Reservation, error) {
	r := existing

	if patch.TableLabel != nil {
		label := trimmedOrNil(patch.TableLabel)
		if !sameLabel(label, existing.TableLabel) {
			// seats described the previous table
			r.TableSeats = nil
		}
		r.TableLabel = label
	}
	if patch.TableSeats != nil {
		r.TableSeats = patch.TableSeats
	}
	if patch.PartySize != nil {
		r.PartySize = *patch.PartySize
	}

	switch {
	case patch.End != nil || patch.DurationMinutes != nil:
		start := existing.Start
		if patch.Start != nil {
			start = *patch.Start
		}
		r.Start = start
		r.End = endOf(start, patch.End, patch.DurationMinutes)
	case patch.Start != nil:
		r.Start = *patch.Start
		r.End = patch.Start.Add(existing.Duration())
	}

	if patch.Name != nil {
		r.Name = *patch.Name
	}
	if patch.Phone != nil {
		r.Phone = *patch.Phone
	}
	r.Name = strings.TrimSpace(r.Name)
	r.Phone = strings.TrimSpace(r.Phone)
	if patch.Comment != nil {
		r.Comment = trimmedOrNil(patch.Comment)
	}
	if patch.Status != nil {
		if !existing.Status.CanTransition(*patch.Status) {
			return Reservation{}, fmt.Errorf("reservation status cannot change from %q to %q", existing.Status, *patch.Status)
		}
		r.Status = *patch.Status
	}

	if err := s.validate(ctx, r, existing.ID); err != nil {
		return Reservation{}, err
	}
	return r, nil
}

func (s *Scheduler) validate(ctx context.Context, r Reservation, excludeID uint) error {
	if r.PartySize <= 0 {
		return apperrors.ErrInvalidPartySize
	}
	if r.TableSeats != nil && r.PartySize > *r.TableSeats {
		return apperrors.New(apperrors.KindCapacityExceeded,
			fmt.Sprintf("party of %d does not fit a table with %d seats", r.PartySize, *r.TableSeats))
	}
	if !r.End.After(r.Start) {
		return apperrors.ErrInvalidInterval
	}
	// a cancelled reservation occupies nothing
	if r.TableLabel != nil && r.Status != StatusCancelled {
		other, err := s.repo.FindOverlapping(ctx, r.TenantID, *r.TableLabel, r.Start, r.End, excludeID)
		if err != nil {
			return fmt.Errorf("find overlapping reservations: %w", err)
		}
		if other != nil {
			return apperrors.New(apperrors.KindTableConflict,
				fmt.Sprintf("table %s is already reserved from %s to %s",
					*r.TableLabel, other.Start.Format(time.RFC3339), other.End.Format(time.RFC3339)))
		}
	}
	if r.Name == "" || r.Phone == "" {
		return apperrors.ErrMissingContact
	}
	return nil
}

func endOf(start time.Time, end *time.Time, durationMinutes *int) time.Time {
	if end != nil {
		return *end
	}
	if durationMinutes != nil {
		// an empty interval fails validation as InvalidInterval
		if *durationMinutes > int(MaxDuration/time.Minute) {
			return start
		}
		return start.Add(time.Duration(*durationMinutes) * time.Minute)
	}
	return start.Add(DefaultDuration)
}

func trimmedOrNil(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}

func sameLabel(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
