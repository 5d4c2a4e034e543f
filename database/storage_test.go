package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/yeremiapane/taplink-saas/models"
)

func TestInitializeCreatesSchema(t *testing.T) {
	db, err := gorm.Open(sqlite.Open("file:storage_init?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	s := NewStorage(db)
	require.NoError(t, s.Initialize())
	require.NoError(t, s.Initialize(), "initialize is repeatable")

	for _, m := range models.All() {
		assert.True(t, db.Migrator().HasTable(m), "%T", m)
	}
	assert.True(t, db.Migrator().HasIndex(&models.Reservation{}, "idx_reservation_slot"))
}
