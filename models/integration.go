package models

import "time"

const IntegrationTelegram = "telegram"

// Integration holds the settings of one external channel for a tenant.
type Integration struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	TenantID  uint      `gorm:"not null;uniqueIndex:idx_integration_tenant_kind" json:"tenant_id"`
	Kind      string    `gorm:"type:varchar(32);not null;uniqueIndex:idx_integration_tenant_kind" json:"kind"`
	Enabled   bool      `gorm:"not null;default:false" json:"enabled"`
	BotToken  string    `gorm:"type:varchar(255)" json:"-"`
	ChatID    string    `gorm:"type:varchar(64)" json:"chat_id"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}
