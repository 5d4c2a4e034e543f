package models

import "time"

type MenuCategory struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	TenantID  uint       `gorm:"not null;uniqueIndex:idx_category_tenant_name" json:"tenant_id"`
	Name      string     `gorm:"type:varchar(100);not null;uniqueIndex:idx_category_tenant_name" json:"name"`
	Position  int        `gorm:"not null;default:0" json:"position"`
	Items     []MenuItem `gorm:"foreignKey:CategoryID" json:"items,omitempty"`
	CreatedAt time.Time  `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time  `gorm:"not null" json:"updated_at"`
}
