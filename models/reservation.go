package models

import (
	"time"

	"github.com/yeremiapane/taplink-saas/scheduler"
)

type Reservation struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	TenantID    uint      `gorm:"not null;index:idx_reservation_slot,priority:1" json:"tenant_id"`
	Tenant      Tenant    `gorm:"foreignKey:TenantID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	TableLabel  *string   `gorm:"type:varchar(50);index:idx_reservation_slot,priority:2" json:"table_label,omitempty"`
	TableSeats  *int      `json:"table_seats,omitempty"`
	StartAt     time.Time `gorm:"not null;index:idx_reservation_slot,priority:3" json:"start"`
	EndAt       time.Time `gorm:"not null" json:"end"`
	PartySize   int       `gorm:"not null" json:"party_size"`
	Name        string    `gorm:"type:varchar(255);not null" json:"name"`
	Phone       string    `gorm:"type:varchar(50);not null" json:"phone"`
	Comment     *string   `gorm:"type:text" json:"comment,omitempty"`
	Status      string    `gorm:"type:varchar(20);not null;default:'new';index" json:"status"`
	PublicToken string    `gorm:"type:varchar(36);uniqueIndex;not null" json:"-"`
	CreatedAt   time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time `gorm:"not null" json:"updated_at"`
}

// ToDomain converts the row to the scheduler's record.
func (r Reservation) ToDomain() scheduler.Reservation {
	return scheduler.Reservation{
		ID:         r.ID,
		TenantID:   r.TenantID,
		TableLabel: r.TableLabel,
		TableSeats: r.TableSeats,
		Start:      r.StartAt,
		End:        r.EndAt,
		PartySize:  r.PartySize,
		Name:       r.Name,
		Phone:      r.Phone,
		Comment:    r.Comment,
		Status:     scheduler.Status(r.Status),
		CreatedAt:  r.CreatedAt,
	}
}

// Apply copies the scheduler's normalized fields onto the row.
// ID, TenantID and PublicToken are left as they are.
func (r *Reservation) Apply(d scheduler.Reservation) {
	r.TableLabel = d.TableLabel
	r.TableSeats = d.TableSeats
	r.StartAt = d.Start
	r.EndAt = d.End
	r.PartySize = d.PartySize
	r.Name = d.Name
	r.Phone = d.Phone
	r.Comment = d.Comment
	r.Status = string(d.Status)
	if r.CreatedAt.IsZero() {
		r.CreatedAt = d.CreatedAt
	}
}
