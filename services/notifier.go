package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/yeremiapane/taplink-saas/models"
	"github.com/yeremiapane/taplink-saas/utils"
)

// TelegramNotifier posts new bookings to the tenant's Telegram chat when the
// integration is enabled. Delivery failures are logged and never reach the
// guest.
type TelegramNotifier struct {
	db     *gorm.DB
	client *resty.Client
}

type telegramResponse struct {
	OK          bool   `json:"ok"`
	Description string `json:"description"`
}

func NewTelegramNotifier(db *gorm.DB, baseURL string, timeout time.Duration) *TelegramNotifier {
	client := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetTimeout(timeout).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")

	return &TelegramNotifier{db: db, client: client}
}

func (n *TelegramNotifier) ReservationCreated(ctx context.Context, r models.Reservation) {
	log := utils.ErrorLogger.WithFields(logrus.Fields{
		"tenant_id":      r.TenantID,
		"reservation_id": r.ID,
	})

	var integration models.Integration
	err := n.db.WithContext(ctx).
		Where("tenant_id = ? AND kind = ? AND enabled = ?", r.TenantID, models.IntegrationTelegram, true).
		First(&integration).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return
	}
	if err != nil {
		log.Errorf("load telegram integration: %v", err)
		return
	}
	if integration.BotToken == "" || integration.ChatID == "" {
		return
	}

	var tenant models.Tenant
	if err := n.db.WithContext(ctx).First(&tenant, r.TenantID).Error; err != nil {
		log.Errorf("load tenant: %v", err)
		return
	}

	if err := n.send(ctx, integration, bookingMessage(tenant, r)); err != nil {
		log.Errorf("telegram notification failed: %v", err)
	}
}

func (n *TelegramNotifier) send(ctx context.Context, integration models.Integration, text string) error {
	var result telegramResponse
	resp, err := n.client.R().
		SetContext(ctx).
		SetPathParam("token", integration.BotToken).
		SetBody(map[string]interface{}{
			"chat_id": integration.ChatID,
			"text":    text,
		}).
		SetResult(&result).
		SetError(&result).
		Post("/bot{token}/sendMessage")
	if err != nil {
		return fmt.Errorf("call telegram: %w", err)
	}
	if resp.IsError() || !result.OK {
		return fmt.Errorf("telegram returned %d: %s", resp.StatusCode(), result.Description)
	}
	return nil
}

func bookingMessage(tenant models.Tenant, r models.Reservation) string {
	loc, err := time.LoadLocation(tenant.Timezone)
	if err != nil {
		loc = time.UTC
	}
	start, end := r.StartAt.In(loc), r.EndAt.In(loc)

	var b strings.Builder
	fmt.Fprintf(&b, "New booking #%d at %s\n", r.ID, tenant.Name)
	fmt.Fprintf(&b, "%s %s–%s, %d guests\n", start.Format("02.01.2006"), start.Format("15:04"), end.Format("15:04"), r.PartySize)
	if r.TableLabel != nil {
		fmt.Fprintf(&b, "Table: %s\n", *r.TableLabel)
	}
	fmt.Fprintf(&b, "%s, %s", r.Name, r.Phone)
	if r.Comment != nil {
		fmt.Fprintf(&b, "\n%s", *r.Comment)
	}
	return b.String()
}
