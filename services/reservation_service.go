package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/yeremiapane/taplink-saas/apperrors"
	"github.com/yeremiapane/taplink-saas/models"
	"github.com/yeremiapane/taplink-saas/scheduler"
	"github.com/yeremiapane/taplink-saas/utils"
)

// exclusionViolation is the PostgreSQL SQLSTATE raised by the overlap constraint.
const exclusionViolation = "23P01"

// ReservationNotifier is told about bookings after they are stored.
type ReservationNotifier interface {
	ReservationCreated(ctx context.Context, reservation models.Reservation)
}

type ReservationService struct {
	db       *gorm.DB
	plans    *FloorPlanService
	locker   BookingLocker
	notifier ReservationNotifier
	now      func() time.Time
}

func NewReservationService(db *gorm.DB, plans *FloorPlanService, locker BookingLocker, notifier ReservationNotifier) *ReservationService {
	if locker == nil {
		locker = NewMemoryLocker()
	}
	return &ReservationService{
		db:       db,
		plans:    plans,
		locker:   locker,
		notifier: notifier,
		now:      time.Now,
	}
}

// ListFilter narrows List. Zero values match everything.
type ListFilter struct {
	From       *time.Time
	To         *time.Time
	Status     *scheduler.Status
	TableLabel string
}

// gormRepository answers the scheduler's overlap question inside the
// caller's transaction.
type gormRepository struct {
	tx *gorm.DB
}

func (r gormRepository) FindOverlapping(ctx context.Context, tenantID uint, tableLabel string, start, end time.Time, excludeID uint) (*scheduler.Reservation, error) {
	q := r.tx.WithContext(ctx).
		Where("tenant_id = ? AND table_label = ? AND status <> ?", tenantID, tableLabel, string(scheduler.StatusCancelled)).
		Where("start_at < ? AND end_at > ?", end, start)
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}

	var rows []models.Reservation
	if err := q.Order("start_at").Limit(1).Find(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	found := rows[0].ToDomain()
	return &found, nil
}

// Create books a reservation for the tenant. When a table is named without a
// seat count, the seats come from the tenant's active floor plan.
func (s *ReservationService) Create(ctx context.Context, tenantID uint, req scheduler.Request) (*models.Reservation, error) {
	req.TenantID = tenantID
	req.Start = normalizeTime(req.Start)
	if req.End != nil {
		end := normalizeTime(*req.End)
		req.End = &end
	}

	label := trimmed(req.TableLabel)
	if label != "" && req.TableSeats == nil {
		table, err := s.plans.TableByLabel(ctx, tenantID, label)
		if err != nil {
			return nil, err
		}
		seats := table.Seats
		req.TableSeats = &seats
	}

	unlock, err := s.lockTable(ctx, tenantID, label)
	if err != nil {
		return nil, err
	}
	defer unlock()

	tx := s.db.WithContext(ctx).Begin()
	if err := tx.Error; err != nil {
		return nil, fmt.Errorf("%w: begin: %v", apperrors.ErrStorageUnavailable, err)
	}

	if err := lockTenant(tx, tenantID); err != nil {
		tx.Rollback()
		return nil, err
	}

	sched := scheduler.New(gormRepository{tx: tx}).WithClock(s.now)
	record, err := sched.Schedule(ctx, req)
	if err != nil {
		tx.Rollback()
		return nil, err
	}

	row := models.Reservation{
		TenantID:    tenantID,
		PublicToken: uuid.NewString(),
	}
	row.Apply(record)
	if err := tx.Create(&row).Error; err != nil {
		tx.Rollback()
		return nil, translateWriteError(err, "create reservation")
	}

	if err := tx.Commit().Error; err != nil {
		return nil, translateWriteError(err, "commit reservation")
	}

	utils.InfoLogger.WithFields(logrus.Fields{
		"tenant_id":      tenantID,
		"reservation_id": row.ID,
		"table":          label,
	}).Info("reservation created")

	if s.notifier != nil {
		s.notifier.ReservationCreated(ctx, row)
	}
	return &row, nil
}

// Reschedule applies an admin edit to a stored reservation.
func (s *ReservationService) Reschedule(ctx context.Context, tenantID, id uint, patch scheduler.Patch) (*models.Reservation, error) {
	current, err := s.Get(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	if patch.Start != nil {
		start := normalizeTime(*patch.Start)
		patch.Start = &start
	}
	if patch.End != nil {
		end := normalizeTime(*patch.End)
		patch.End = &end
	}

	label := trimmed(current.TableLabel)
	if patch.TableLabel != nil {
		label = trimmed(patch.TableLabel)
		if label != "" && label != trimmed(current.TableLabel) && patch.TableSeats == nil {
			table, err := s.plans.TableByLabel(ctx, tenantID, label)
			if err != nil {
				return nil, err
			}
			seats := table.Seats
			patch.TableSeats = &seats
		}
	}

	unlock, err := s.lockTable(ctx, tenantID, label)
	if err != nil {
		return nil, err
	}
	defer unlock()

	tx := s.db.WithContext(ctx).Begin()
	if err := tx.Error; err != nil {
		return nil, fmt.Errorf("%w: begin: %v", apperrors.ErrStorageUnavailable, err)
	}

	if err := lockTenant(tx, tenantID); err != nil {
		tx.Rollback()
		return nil, err
	}

	var row models.Reservation
	if err := tx.Where("tenant_id = ?", tenantID).First(&row, id).Error; err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound(fmt.Sprintf("reservation %d", id))
		}
		return nil, fmt.Errorf("load reservation: %w", err)
	}

	sched := scheduler.New(gormRepository{tx: tx}).WithClock(s.now)
	record, err := sched.Reschedule(ctx, row.ToDomain(), patch)
	if err != nil {
		tx.Rollback()
		return nil, err
	}

	row.Apply(record)
	if err := tx.Save(&row).Error; err != nil {
		tx.Rollback()
		return nil, translateWriteError(err, "update reservation")
	}

	if err := tx.Commit().Error; err != nil {
		return nil, translateWriteError(err, "commit reservation")
	}
	return &row, nil
}

// SetStatus is the direct admin status edit.
func (s *ReservationService) SetStatus(ctx context.Context, tenantID, id uint, status scheduler.Status) (*models.Reservation, error) {
	return s.Reschedule(ctx, tenantID, id, scheduler.Patch{Status: &status})
}

func (s *ReservationService) Get(ctx context.Context, tenantID, id uint) (*models.Reservation, error) {
	var row models.Reservation
	err := s.db.WithContext(ctx).Where("tenant_id = ?", tenantID).First(&row, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.NotFound(fmt.Sprintf("reservation %d", id))
	}
	if err != nil {
		return nil, fmt.Errorf("load reservation: %w", err)
	}
	return &row, nil
}

func (s *ReservationService) List(ctx context.Context, tenantID uint, filter ListFilter) ([]models.Reservation, error) {
	q := s.db.WithContext(ctx).Where("tenant_id = ?", tenantID)
	if filter.From != nil {
		q = q.Where("end_at > ?", normalizeTime(*filter.From))
	}
	if filter.To != nil {
		q = q.Where("start_at < ?", normalizeTime(*filter.To))
	}
	if filter.Status != nil {
		q = q.Where("status = ?", string(*filter.Status))
	}
	if label := strings.TrimSpace(filter.TableLabel); label != "" {
		q = q.Where("table_label = ?", label)
	}

	var rows []models.Reservation
	if err := q.Order("start_at, id").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list reservations: %w", err)
	}
	return rows, nil
}

func (s *ReservationService) Delete(ctx context.Context, tenantID, id uint) error {
	res := s.db.WithContext(ctx).Where("tenant_id = ?", tenantID).Delete(&models.Reservation{}, id)
	if res.Error != nil {
		return fmt.Errorf("delete reservation: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return apperrors.NotFound(fmt.Sprintf("reservation %d", id))
	}
	return nil
}

// CancelByToken lets a guest cancel their own booking with the token handed
// out at booking time. Cancelling twice is not an error.
func (s *ReservationService) CancelByToken(ctx context.Context, tenantID uint, token string) (*models.Reservation, error) {
	var row models.Reservation
	err := s.db.WithContext(ctx).
		Where("tenant_id = ? AND public_token = ?", tenantID, strings.TrimSpace(token)).
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.NotFound("reservation")
	}
	if err != nil {
		return nil, fmt.Errorf("load reservation: %w", err)
	}
	if row.Status == string(scheduler.StatusCancelled) {
		return &row, nil
	}
	return s.SetStatus(ctx, tenantID, row.ID, scheduler.StatusCancelled)
}

// AvailableTables lists the active plan's tables that seat the party and have
// no live reservation overlapping [start, end).
func (s *ReservationService) AvailableTables(ctx context.Context, tenantID uint, start, end time.Time, partySize int) ([]models.FloorTable, error) {
	if partySize <= 0 {
		return nil, apperrors.ErrInvalidPartySize
	}
	start, end = normalizeTime(start), normalizeTime(end)
	if !end.After(start) {
		return nil, apperrors.ErrInvalidInterval
	}

	plan, err := s.plans.Active(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	var busy []string
	err = s.db.WithContext(ctx).Model(&models.Reservation{}).
		Where("tenant_id = ? AND table_label IS NOT NULL AND status <> ?", tenantID, string(scheduler.StatusCancelled)).
		Where("start_at < ? AND end_at > ?", end, start).
		Distinct().Pluck("table_label", &busy).Error
	if err != nil {
		return nil, fmt.Errorf("find busy tables: %w", err)
	}
	taken := make(map[string]struct{}, len(busy))
	for _, label := range busy {
		taken[label] = struct{}{}
	}

	free := make([]models.FloorTable, 0, len(plan.Tables))
	for _, t := range plan.Tables {
		if t.Seats < partySize {
			continue
		}
		if _, ok := taken[strings.TrimSpace(t.Number)]; ok {
			continue
		}
		free = append(free, t)
	}
	return free, nil
}

func (s *ReservationService) lockTable(ctx context.Context, tenantID uint, label string) (func(), error) {
	if label == "" {
		return func() {}, nil
	}
	return s.locker.Lock(ctx, bookingKey(tenantID, label))
}

// translateWriteError reports an overlap rejected by the database constraint
// as the same conflict the scheduler would have returned.
func translateWriteError(err error, op string) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == exclusionViolation {
		return apperrors.New(apperrors.KindTableConflict, "table is already reserved for this time")
	}
	return fmt.Errorf("%s: %w", op, err)
}

// normalizeTime stores instants in UTC at whole-second precision so that
// every driver compares them consistently.
func normalizeTime(t time.Time) time.Time {
	return t.UTC().Truncate(time.Second)
}

func trimmed(s *string) string {
	if s == nil {
		return ""
	}
	return strings.TrimSpace(*s)
}
