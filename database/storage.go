package database

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/yeremiapane/taplink-saas/models"
	"github.com/yeremiapane/taplink-saas/utils"
)

// OverlapConstraint is the PostgreSQL exclusion constraint that forbids two
// live reservations on the same table from overlapping.
const OverlapConstraint = "reservations_no_overlap"

var postgresStatements = []string{
	`CREATE EXTENSION IF NOT EXISTS btree_gist`,
	`DO $$
BEGIN
	IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = '` + OverlapConstraint + `') THEN
		ALTER TABLE reservations ADD CONSTRAINT ` + OverlapConstraint + `
			EXCLUDE USING gist (
				tenant_id WITH =,
				table_label WITH =,
				tstzrange(start_at, end_at, '[)') WITH &&
			) WHERE (status <> 'cancelled' AND table_label IS NOT NULL);
	END IF;
END
$$`,
}

type Storage struct {
	DB *gorm.DB
}

func NewStorage(db *gorm.DB) *Storage {
	return &Storage{DB: db}
}

// Initialize creates the schema. It is run once by the composition root and
// is safe to repeat.
func (s *Storage) Initialize() error {
	if err := s.DB.AutoMigrate(models.All()...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	utils.InfoLogger.Println("AutoMigrate completed.")

	if s.DB.Dialector.Name() != "postgres" {
		return nil
	}
	for _, stmt := range postgresStatements {
		if err := s.DB.Exec(stmt).Error; err != nil {
			return fmt.Errorf("install overlap constraint: %w", err)
		}
	}
	utils.InfoLogger.Printf("Constraint %s verified", OverlapConstraint)
	return nil
}
