package models

import (
	"time"

	"github.com/yeremiapane/taplink-saas/layout"
)

type FloorPlan struct {
	ID           uint         `gorm:"primaryKey" json:"id"`
	TenantID     uint         `gorm:"not null;index" json:"tenant_id"`
	Name         string       `gorm:"type:varchar(100);not null" json:"name"`
	IsActive     bool         `gorm:"not null;default:false" json:"is_active"`
	CanvasWidth  float64      `gorm:"not null" json:"canvas_width"`
	CanvasHeight float64      `gorm:"not null" json:"canvas_height"`
	Tables       []FloorTable `gorm:"foreignKey:FloorPlanID;constraint:OnDelete:CASCADE" json:"tables,omitempty"`
	CreatedAt    time.Time    `gorm:"not null" json:"created_at"`
	UpdatedAt    time.Time    `gorm:"not null" json:"updated_at"`
}

type FloorTable struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	TenantID    uint      `gorm:"not null;index" json:"tenant_id"`
	FloorPlanID uint      `gorm:"not null;index" json:"floor_plan_id"`
	Number      string    `gorm:"type:varchar(50);not null" json:"number"`
	Label       *string   `gorm:"type:varchar(100)" json:"label,omitempty"`
	Seats       int       `gorm:"not null" json:"seats"`
	X           float64   `gorm:"not null" json:"x"`
	Y           float64   `gorm:"not null" json:"y"`
	Width       float64   `gorm:"not null" json:"width"`
	Height      float64   `gorm:"not null" json:"height"`
	Rotation    *float64  `json:"rotation,omitempty"`
	CreatedAt   time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time `gorm:"not null" json:"updated_at"`
}

// Layout converts the plan and its loaded tables for the layout engine.
func (p FloorPlan) Layout() layout.Plan {
	out := layout.Plan{
		ID:           p.ID,
		Name:         p.Name,
		CanvasWidth:  p.CanvasWidth,
		CanvasHeight: p.CanvasHeight,
		Tables:       make([]layout.Table, 0, len(p.Tables)),
	}
	for _, t := range p.Tables {
		out.Tables = append(out.Tables, t.Layout())
	}
	return out
}

func (t FloorTable) Layout() layout.Table {
	return layout.Table{
		ID:       t.ID,
		Key:      layout.KeyFor(t.ID),
		Number:   t.Number,
		Label:    t.Label,
		Seats:    t.Seats,
		X:        t.X,
		Y:        t.Y,
		Width:    t.Width,
		Height:   t.Height,
		Rotation: t.Rotation,
	}
}
