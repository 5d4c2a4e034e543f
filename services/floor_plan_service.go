package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/yeremiapane/taplink-saas/apperrors"
	"github.com/yeremiapane/taplink-saas/layout"
	"github.com/yeremiapane/taplink-saas/models"
)

type FloorPlanService struct {
	db *gorm.DB
}

func NewFloorPlanService(db *gorm.DB) *FloorPlanService {
	return &FloorPlanService{db: db}
}

func withTables(db *gorm.DB) *gorm.DB {
	return db.Preload("Tables", func(db *gorm.DB) *gorm.DB {
		return db.Order("id")
	})
}

// Active returns the tenant's active plan with its tables. A tenant without
// any plan gets the default one; a tenant whose plans are all inactive gets
// the oldest one activated.
func (s *FloorPlanService) Active(ctx context.Context, tenantID uint) (*models.FloorPlan, error) {
	var plan models.FloorPlan
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockTenant(tx, tenantID); err != nil {
			return err
		}

		var plans []models.FloorPlan
		if err := tx.Where("tenant_id = ?", tenantID).Order("id").Find(&plans).Error; err != nil {
			return fmt.Errorf("list floor plans: %w", err)
		}
		for _, p := range plans {
			if p.IsActive {
				plan = p
				return nil
			}
		}

		if len(plans) > 0 {
			plan = plans[0]
			plan.IsActive = true
			return tx.Model(&plan).Update("is_active", true).Error
		}

		plan = models.FloorPlan{
			TenantID:     tenantID,
			Name:         layout.DefaultPlanName,
			IsActive:     true,
			CanvasWidth:  layout.DefaultCanvasWidth,
			CanvasHeight: layout.DefaultCanvasHeight,
		}
		return tx.Create(&plan).Error
	})
	if err != nil {
		return nil, err
	}

	if err := withTables(s.db.WithContext(ctx)).First(&plan, plan.ID).Error; err != nil {
		return nil, fmt.Errorf("load active floor plan: %w", err)
	}
	return &plan, nil
}

func (s *FloorPlanService) List(ctx context.Context, tenantID uint) ([]models.FloorPlan, error) {
	var plans []models.FloorPlan
	if err := s.db.WithContext(ctx).Where("tenant_id = ?", tenantID).Order("id").Find(&plans).Error; err != nil {
		return nil, fmt.Errorf("list floor plans: %w", err)
	}
	return plans, nil
}

func (s *FloorPlanService) Get(ctx context.Context, tenantID, planID uint) (*models.FloorPlan, error) {
	return findPlan(withTables(s.db.WithContext(ctx)), tenantID, planID)
}

func findPlan(db *gorm.DB, tenantID, planID uint) (*models.FloorPlan, error) {
	var plan models.FloorPlan
	err := db.Where("tenant_id = ?", tenantID).First(&plan, planID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.NotFound(fmt.Sprintf("floor plan %d", planID))
	}
	if err != nil {
		return nil, fmt.Errorf("load floor plan: %w", err)
	}
	return &plan, nil
}

// Create adds an inactive plan, or the active one when it is the tenant's first.
func (s *FloorPlanService) Create(ctx context.Context, tenantID uint, name string, width, height float64) (*models.FloorPlan, error) {
	plan := models.FloorPlan{
		TenantID:     tenantID,
		Name:         strings.TrimSpace(name),
		CanvasWidth:  width,
		CanvasHeight: height,
	}
	if plan.Name == "" {
		plan.Name = layout.DefaultPlanName
	}
	if plan.CanvasWidth <= 0 {
		plan.CanvasWidth = layout.DefaultCanvasWidth
	}
	if plan.CanvasHeight <= 0 {
		plan.CanvasHeight = layout.DefaultCanvasHeight
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockTenant(tx, tenantID); err != nil {
			return err
		}
		var count int64
		if err := tx.Model(&models.FloorPlan{}).Where("tenant_id = ?", tenantID).Count(&count).Error; err != nil {
			return err
		}
		plan.IsActive = count == 0
		return tx.Create(&plan).Error
	})
	if err != nil {
		return nil, err
	}
	return &plan, nil
}

// Activate makes planID the only active plan of the tenant.
func (s *FloorPlanService) Activate(ctx context.Context, tenantID, planID uint) (*models.FloorPlan, error) {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockTenant(tx, tenantID); err != nil {
			return err
		}
		if _, err := findPlan(tx, tenantID, planID); err != nil {
			return err
		}
		if err := tx.Model(&models.FloorPlan{}).
			Where("tenant_id = ? AND id <> ?", tenantID, planID).
			Update("is_active", false).Error; err != nil {
			return err
		}
		return tx.Model(&models.FloorPlan{}).
			Where("tenant_id = ? AND id = ?", tenantID, planID).
			Update("is_active", true).Error
	})
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, tenantID, planID)
}

// Delete removes a plan and its tables. The last plan of a tenant cannot be
// deleted; deleting the active plan activates the oldest remaining one.
func (s *FloorPlanService) Delete(ctx context.Context, tenantID, planID uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockTenant(tx, tenantID); err != nil {
			return err
		}
		plan, err := findPlan(tx, tenantID, planID)
		if err != nil {
			return err
		}

		var count int64
		if err := tx.Model(&models.FloorPlan{}).Where("tenant_id = ?", tenantID).Count(&count).Error; err != nil {
			return err
		}
		if count <= 1 {
			return apperrors.ErrPlanInUse
		}

		if err := tx.Where("tenant_id = ? AND floor_plan_id = ?", tenantID, planID).Delete(&models.FloorTable{}).Error; err != nil {
			return fmt.Errorf("delete floor tables: %w", err)
		}
		if err := tx.Delete(plan).Error; err != nil {
			return fmt.Errorf("delete floor plan: %w", err)
		}
		if !plan.IsActive {
			return nil
		}

		var next models.FloorPlan
		if err := tx.Where("tenant_id = ?", tenantID).Order("id").First(&next).Error; err != nil {
			return err
		}
		return tx.Model(&next).Update("is_active", true).Error
	})
}

// SaveLayout replaces the plan's tables with the submitted set. Tables with an
// id are updated, tables without one are inserted and stored tables missing
// from the set are deleted, all in one transaction.
func (s *FloorPlanService) SaveLayout(ctx context.Context, tenantID, planID uint, submitted layout.Plan) (*models.FloorPlan, error) {
	if err := layout.ValidateLayout(submitted.Tables); err != nil {
		return nil, err
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		plan, err := findPlan(tx, tenantID, planID)
		if err != nil {
			return err
		}
		if name := strings.TrimSpace(submitted.Name); name != "" {
			plan.Name = name
		}
		if submitted.CanvasWidth > 0 {
			plan.CanvasWidth = submitted.CanvasWidth
		}
		if submitted.CanvasHeight > 0 {
			plan.CanvasHeight = submitted.CanvasHeight
		}
		if err := tx.Model(plan).Select("name", "canvas_width", "canvas_height").Updates(plan).Error; err != nil {
			return fmt.Errorf("update floor plan: %w", err)
		}

		var stored []models.FloorTable
		if err := tx.Where("tenant_id = ? AND floor_plan_id = ?", tenantID, planID).Find(&stored).Error; err != nil {
			return fmt.Errorf("load floor tables: %w", err)
		}
		existing := make(map[uint]models.FloorTable, len(stored))
		for _, t := range stored {
			existing[t.ID] = t
		}

		target := layout.Plan{CanvasWidth: plan.CanvasWidth, CanvasHeight: plan.CanvasHeight}
		kept := make(map[uint]struct{}, len(submitted.Tables))
		for _, in := range submitted.Tables {
			t := layout.Normalize(target, in)
			row := models.FloorTable{
				TenantID:    tenantID,
				FloorPlanID: planID,
				Number:      t.Number,
				Label:       t.Label,
				Seats:       t.Seats,
				X:           t.X,
				Y:           t.Y,
				Width:       t.Width,
				Height:      t.Height,
				Rotation:    t.Rotation,
			}
			if row.Seats <= 0 {
				row.Seats = layout.DefaultSeats
			}

			if t.ID == 0 {
				if err := tx.Create(&row).Error; err != nil {
					return fmt.Errorf("insert table %s: %w", row.Number, err)
				}
				continue
			}
			old, ok := existing[t.ID]
			if !ok {
				return apperrors.NotFound(fmt.Sprintf("table %d", t.ID))
			}
			row.ID = old.ID
			row.CreatedAt = old.CreatedAt
			if err := tx.Save(&row).Error; err != nil {
				return fmt.Errorf("update table %s: %w", row.Number, err)
			}
			kept[row.ID] = struct{}{}
		}

		var removed []uint
		for id := range existing {
			if _, ok := kept[id]; !ok {
				removed = append(removed, id)
			}
		}
		if len(removed) > 0 {
			if err := tx.Where("tenant_id = ?", tenantID).Delete(&models.FloorTable{}, removed).Error; err != nil {
				return fmt.Errorf("delete tables: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, tenantID, planID)
}

// NextTable drafts the table the editor adds next. Nothing is stored.
func (s *FloorPlanService) NextTable(ctx context.Context, tenantID, planID uint) (layout.Table, error) {
	plan, err := s.Get(ctx, tenantID, planID)
	if err != nil {
		return layout.Table{}, err
	}
	return layout.AddTable(plan.Layout()), nil
}

// TableByLabel finds a table of the active plan by its trimmed number.
func (s *FloorPlanService) TableByLabel(ctx context.Context, tenantID uint, label string) (*models.FloorTable, error) {
	plan, err := s.Active(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	label = strings.TrimSpace(label)
	for i := range plan.Tables {
		if strings.TrimSpace(plan.Tables[i].Number) == label {
			return &plan.Tables[i], nil
		}
	}
	return nil, apperrors.NotFound(fmt.Sprintf("table %q", label))
}

// lockTenant takes the tenant row lock that serializes per-tenant writes.
// SQLite has no row locks; its single writer already serializes.
func lockTenant(tx *gorm.DB, tenantID uint) error {
	q := tx
	if tx.Dialector.Name() != "sqlite" {
		q = tx.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var tenant models.Tenant
	if err := q.Select("id").First(&tenant, tenantID).Error; err != nil {
		return lookupError("tenant", err)
	}
	return nil
}
