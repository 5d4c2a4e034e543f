package services

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/yeremiapane/taplink-saas/database"
	"github.com/yeremiapane/taplink-saas/models"
	"github.com/yeremiapane/taplink-saas/scheduler"
)

// setupTestDB opens a private in-memory database for the test. A single
// connection keeps every statement on the same SQLite database.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := gorm.Open(sqlite.Open("file:"+name+"?mode=memory&cache=shared"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, database.NewStorage(db).Initialize())
	return db
}

func seedTenant(t *testing.T, db *gorm.DB, slug string) models.Tenant {
	t.Helper()
	tenant, err := NewTenantService(db).Create(context.Background(), slug, strings.ToUpper(slug), "Asia/Almaty", "KZT")
	require.NoError(t, err)
	return *tenant
}

// seedTables stores tables on the tenant's active plan.
func seedTables(t *testing.T, db *gorm.DB, tenantID uint, tables map[string]int) {
	t.Helper()
	plan, err := NewFloorPlanService(db).Active(context.Background(), tenantID)
	require.NoError(t, err)

	x := 0.0
	for number, seats := range tables {
		require.NoError(t, db.Create(&models.FloorTable{
			TenantID:    tenantID,
			FloorPlanID: plan.ID,
			Number:      number,
			Seats:       seats,
			X:           x,
			Width:       72,
			Height:      72,
		}).Error)
		x += 96
	}
}

func at(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		panic(err)
	}
	return t
}

func ptr[T any](v T) *T {
	return &v
}

func bookingRequest(table string, start string, minutes int) scheduler.Request {
	return scheduler.Request{
		TableLabel:      ptr(table),
		PartySize:       2,
		Start:           at(start),
		DurationMinutes: ptr(minutes),
		Name:            "Aigul",
		Phone:           "+77001112233",
	}
}
