package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/yeremiapane/taplink-saas/apperrors"
	"github.com/yeremiapane/taplink-saas/hub"
	"github.com/yeremiapane/taplink-saas/models"
	"github.com/yeremiapane/taplink-saas/scheduler"
	"github.com/yeremiapane/taplink-saas/services"
	"github.com/yeremiapane/taplink-saas/utils"
)

// BookingController serves the guest-facing taplink page of a tenant.
type BookingController struct {
	DB           *gorm.DB
	Tenants      *services.TenantService
	Reservations *services.ReservationService
	Hub          *hub.Hub
}

func NewBookingController(db *gorm.DB, tenants *services.TenantService, reservations *services.ReservationService, h *hub.Hub) *BookingController {
	return &BookingController{DB: db, Tenants: tenants, Reservations: reservations, Hub: h}
}

func (bc *BookingController) tenant(c *gin.Context) (*models.Tenant, bool) {
	tenant, err := bc.Tenants.GetBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		utils.RespondAppError(c, err)
		return nil, false
	}
	return tenant, true
}

func (bc *BookingController) page(c *gin.Context, tenantID uint) (*models.ClientPage, bool) {
	var page models.ClientPage
	err := bc.DB.WithContext(c.Request.Context()).Where("tenant_id = ?", tenantID).First(&page).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		page = models.DefaultClientPage(tenantID, "")
		return &page, true
	}
	if err != nil {
		utils.RespondAppError(c, err)
		return nil, false
	}
	return &page, true
}

// GetPage GET /t/:slug
func (bc *BookingController) GetPage(c *gin.Context) {
	tenant, ok := bc.tenant(c)
	if !ok {
		return
	}
	page, ok := bc.page(c, tenant.ID)
	if !ok {
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Client page", gin.H{
		"tenant": gin.H{
			"name":     tenant.Name,
			"slug":     tenant.Slug,
			"timezone": tenant.Timezone,
			"currency": tenant.Currency,
		},
		"page": page,
	})
}

type publicMenuItem struct {
	ID             uint    `json:"id"`
	Name           string  `json:"name"`
	Description    string  `json:"description"`
	Price          float64 `json:"price"`
	PriceFormatted string  `json:"price_formatted"`
	ImageURL       *string `json:"image_url,omitempty"`
}

type publicMenuCategory struct {
	ID    uint             `json:"id"`
	Name  string           `json:"name"`
	Items []publicMenuItem `json:"items"`
}

// GetMenu GET /t/:slug/menu
func (bc *BookingController) GetMenu(c *gin.Context) {
	tenant, ok := bc.tenant(c)
	if !ok {
		return
	}
	page, ok := bc.page(c, tenant.ID)
	if !ok {
		return
	}
	if !page.MenuEnabled {
		utils.RespondAppError(c, apperrors.NotFound("menu"))
		return
	}

	var categories []models.MenuCategory
	err := bc.DB.WithContext(c.Request.Context()).
		Where("tenant_id = ?", tenant.ID).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Where("is_available = ?", true).Order("position, id")
		}).
		Order("position, id").
		Find(&categories).Error
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}

	menu := make([]publicMenuCategory, 0, len(categories))
	for _, cat := range categories {
		if len(cat.Items) == 0 {
			continue
		}
		out := publicMenuCategory{ID: cat.ID, Name: cat.Name}
		for _, item := range cat.Items {
			out.Items = append(out.Items, publicMenuItem{
				ID:             item.ID,
				Name:           item.Name,
				Description:    item.Description,
				Price:          item.Price,
				PriceFormatted: utils.FormatPrice(item.Price, tenant.Currency),
				ImageURL:       item.ImageURL,
			})
		}
		menu = append(menu, out)
	}
	utils.RespondJSON(c, http.StatusOK, "Menu", menu)
}

// GetAvailability GET /t/:slug/availability?start=&duration_minutes=&party_size=
func (bc *BookingController) GetAvailability(c *gin.Context) {
	tenant, ok := bc.tenant(c)
	if !ok {
		return
	}

	start, ok := queryTime(c, "start")
	if !ok {
		return
	}
	if start == nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("start is required"))
		return
	}
	duration := scheduler.DefaultDuration
	if raw := c.Query("duration_minutes"); raw != "" {
		minutes, err := strconv.Atoi(raw)
		if err != nil || minutes <= 0 || minutes > int(scheduler.MaxDuration/time.Minute) {
			utils.RespondError(c, http.StatusBadRequest, errors.New("invalid duration_minutes"))
			return
		}
		duration = time.Duration(minutes) * time.Minute
	}
	partySize, err := strconv.Atoi(c.Query("party_size"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("invalid party_size"))
		return
	}

	tables, err := bc.Reservations.AvailableTables(c.Request.Context(), tenant.ID, *start, start.Add(duration), partySize)
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}

	out := make([]gin.H, 0, len(tables))
	for _, t := range tables {
		out = append(out, gin.H{"id": t.ID, "number": t.Number, "label": t.Label, "seats": t.Seats})
	}
	utils.RespondJSON(c, http.StatusOK, "Available tables", out)
}

type bookingRequest struct {
	TableLabel      *string   `json:"table_label"`
	PartySize       int       `json:"party_size"`
	Start           time.Time `json:"start" binding:"required"`
	DurationMinutes *int      `json:"duration_minutes"`
	Name            string    `json:"name"`
	Phone           string    `json:"phone"`
	Comment         *string   `json:"comment"`
}

// CreateBooking POST /t/:slug/reservations
// Guests cannot choose the status or claim a seat count; both come from the
// server side.
func (bc *BookingController) CreateBooking(c *gin.Context) {
	tenant, ok := bc.tenant(c)
	if !ok {
		return
	}
	page, ok := bc.page(c, tenant.ID)
	if !ok {
		return
	}
	if !page.BookingEnabled {
		utils.RespondError(c, http.StatusForbidden, errors.New("online booking is disabled"))
		return
	}

	var body bookingRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	reservation, err := bc.Reservations.Create(c.Request.Context(), tenant.ID, scheduler.Request{
		TableLabel:      body.TableLabel,
		PartySize:       body.PartySize,
		Start:           body.Start,
		DurationMinutes: body.DurationMinutes,
		Name:            body.Name,
		Phone:           body.Phone,
		Comment:         body.Comment,
	})
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}

	bc.Hub.Broadcast(tenant.ID, hub.EventReservationCreated, reservation)
	utils.RespondJSON(c, http.StatusCreated, "Booking received", gin.H{
		"reservation":  reservation,
		"cancel_token": reservation.PublicToken,
	})
}

// CancelBooking POST /t/:slug/reservations/:token/cancel
func (bc *BookingController) CancelBooking(c *gin.Context) {
	tenant, ok := bc.tenant(c)
	if !ok {
		return
	}

	reservation, err := bc.Reservations.CancelByToken(c.Request.Context(), tenant.ID, c.Param("token"))
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}

	bc.Hub.Broadcast(tenant.ID, hub.EventReservationUpdated, reservation)
	utils.RespondJSON(c, http.StatusOK, "Booking cancelled", reservation)
}
