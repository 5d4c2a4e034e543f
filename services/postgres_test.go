package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/gorm"

	"github.com/yeremiapane/taplink-saas/apperrors"
	"github.com/yeremiapane/taplink-saas/config"
	"github.com/yeremiapane/taplink-saas/database"
	"github.com/yeremiapane/taplink-saas/models"
	"github.com/yeremiapane/taplink-saas/scheduler"
)

func setupPostgres(t *testing.T) *gorm.DB {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping postgres integration test in short mode")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Minute)
	defer cancel()

	pgContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("taplink"),
		postgres.WithUsername("postgres"),
		postgres.WithPassword("postgres"),
		testcontainers.WithWaitStrategy(wait.ForListeningPort("5432/tcp").WithStartupTimeout(2*time.Minute)),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = pgContainer.Terminate(context.Background())
	})

	connString, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := config.InitDB(config.Config{DBDriver: "postgres", DatabaseURL: connString, GinMode: "release"})
	require.NoError(t, err)
	require.NoError(t, database.NewStorage(db).Initialize())
	return db
}

func TestPostgresOverlapConstraint(t *testing.T) {
	db := setupPostgres(t)
	tenant := seedTenant(t, db, "pg")
	ctx := context.Background()

	insert := func(start, end string, status scheduler.Status) error {
		r := models.Reservation{
			TenantID:    tenant.ID,
			TableLabel:  ptr("A1"),
			StartAt:     at(start),
			EndAt:       at(end),
			PartySize:   2,
			Name:        "Guest",
			Phone:       "+7700",
			Status:      string(status),
			PublicToken: start + string(status),
		}
		return translateWriteError(db.WithContext(ctx).Create(&r).Error, "create reservation")
	}

	require.NoError(t, insert("2024-01-01T10:00:00Z", "2024-01-01T12:00:00Z", scheduler.StatusNew))

	// a write that skipped the scheduler is still rejected by the database
	err := insert("2024-01-01T11:00:00Z", "2024-01-01T13:00:00Z", scheduler.StatusConfirmed)
	assert.ErrorIs(t, err, apperrors.ErrTableConflict)

	assert.NoError(t, insert("2024-01-01T12:00:00Z", "2024-01-01T14:00:00Z", scheduler.StatusNew))
	assert.NoError(t, insert("2024-01-01T11:00:00Z", "2024-01-01T13:00:00Z", scheduler.StatusCancelled))
}

func TestPostgresReservationFlow(t *testing.T) {
	db := setupPostgres(t)
	tenant := seedTenant(t, db, "pg")
	seedTables(t, db, tenant.ID, map[string]int{"A1": 4})
	svc := NewReservationService(db, NewFloorPlanService(db), nil, nil)
	ctx := context.Background()

	r, err := svc.Create(ctx, tenant.ID, bookingRequest("A1", "2024-01-01T19:00:00Z", 120))
	require.NoError(t, err)
	assert.True(t, at("2024-01-01T21:00:00Z").Equal(r.EndAt))

	_, err = svc.Create(ctx, tenant.ID, bookingRequest("A1", "2024-01-01T20:00:00Z", 60))
	assert.ErrorIs(t, err, apperrors.ErrTableConflict)

	moved, err := svc.Reschedule(ctx, tenant.ID, r.ID, scheduler.Patch{Start: ptr(at("2024-01-01T20:00:00Z"))})
	require.NoError(t, err)
	assert.True(t, at("2024-01-01T22:00:00Z").Equal(moved.EndAt))
}
