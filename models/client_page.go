package models

import "time"

// ClientPage is the tenant's public taplink configuration.
type ClientPage struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	TenantID       uint      `gorm:"not null;uniqueIndex" json:"tenant_id"`
	Title          string    `gorm:"type:varchar(255)" json:"title"`
	WelcomeText    string    `gorm:"type:text" json:"welcome_text"`
	AccentColor    string    `gorm:"type:varchar(16);not null;default:'#111827'" json:"accent_color"`
	LogoURL        *string   `gorm:"type:varchar(500)" json:"logo_url,omitempty"`
	CoverURL       *string   `gorm:"type:varchar(500)" json:"cover_url,omitempty"`
	WhatsAppPhone  *string   `gorm:"type:varchar(50)" json:"whatsapp_phone,omitempty"`
	Instagram      *string   `gorm:"type:varchar(100)" json:"instagram,omitempty"`
	Address        *string   `gorm:"type:varchar(500)" json:"address,omitempty"`
	OpeningHours   *string   `gorm:"type:varchar(255)" json:"opening_hours,omitempty"`
	BookingEnabled bool      `gorm:"not null" json:"booking_enabled"`
	MenuEnabled    bool      `gorm:"not null" json:"menu_enabled"`
	CreatedAt      time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt      time.Time `gorm:"not null" json:"updated_at"`
}

// DefaultClientPage is the page a new tenant starts with.
func DefaultClientPage(tenantID uint, title string) ClientPage {
	return ClientPage{
		TenantID:       tenantID,
		Title:          title,
		AccentColor:    "#111827",
		BookingEnabled: true,
		MenuEnabled:    true,
	}
}
