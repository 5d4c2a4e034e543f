package controllers

import (
	"errors"
	"net/http"
	"regexp"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/yeremiapane/taplink-saas/middlewares"
	"github.com/yeremiapane/taplink-saas/models"
	"github.com/yeremiapane/taplink-saas/utils"
)

var hexColor = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

type ClientPageController struct {
	DB *gorm.DB
}

func NewClientPageController(db *gorm.DB) *ClientPageController {
	return &ClientPageController{DB: db}
}

type clientPageRequest struct {
	Title          *string `json:"title"`
	WelcomeText    *string `json:"welcome_text"`
	AccentColor    *string `json:"accent_color"`
	LogoURL        *string `json:"logo_url"`
	CoverURL       *string `json:"cover_url"`
	WhatsAppPhone  *string `json:"whatsapp_phone"`
	Instagram      *string `json:"instagram"`
	Address        *string `json:"address"`
	OpeningHours   *string `json:"opening_hours"`
	BookingEnabled *bool   `json:"booking_enabled"`
	MenuEnabled    *bool   `json:"menu_enabled"`
}

// optional stores a trimmed value, or nil for a blank one.
func optional(dst **string, src *string) {
	if src == nil {
		return
	}
	if v := strings.TrimSpace(*src); v != "" {
		*dst = &v
		return
	}
	*dst = nil
}

func (r clientPageRequest) apply(page *models.ClientPage) error {
	if r.AccentColor != nil {
		color := strings.TrimSpace(*r.AccentColor)
		if !hexColor.MatchString(color) {
			return errors.New("accent_color must be a hex color")
		}
		page.AccentColor = color
	}
	if r.Title != nil {
		page.Title = strings.TrimSpace(*r.Title)
	}
	if r.WelcomeText != nil {
		page.WelcomeText = *r.WelcomeText
	}
	optional(&page.LogoURL, r.LogoURL)
	optional(&page.CoverURL, r.CoverURL)
	optional(&page.WhatsAppPhone, r.WhatsAppPhone)
	optional(&page.Instagram, r.Instagram)
	optional(&page.Address, r.Address)
	optional(&page.OpeningHours, r.OpeningHours)
	if r.BookingEnabled != nil {
		page.BookingEnabled = *r.BookingEnabled
	}
	if r.MenuEnabled != nil {
		page.MenuEnabled = *r.MenuEnabled
	}
	return nil
}

// load returns the tenant's page, creating the default one on first access.
func (cc *ClientPageController) load(c *gin.Context) (*models.ClientPage, bool) {
	tenantID := middlewares.TenantID(c)
	db := cc.DB.WithContext(c.Request.Context())

	var page models.ClientPage
	err := db.Where("tenant_id = ?", tenantID).First(&page).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		page = models.DefaultClientPage(tenantID, "")
		err = db.Create(&page).Error
	}
	if err != nil {
		utils.RespondAppError(c, err)
		return nil, false
	}
	return &page, true
}

// GetClientPage GET /admin/client-page
func (cc *ClientPageController) GetClientPage(c *gin.Context) {
	page, ok := cc.load(c)
	if !ok {
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Client page", page)
}

// UpdateClientPage PUT /admin/client-page
func (cc *ClientPageController) UpdateClientPage(c *gin.Context) {
	var body clientPageRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	page, ok := cc.load(c)
	if !ok {
		return
	}
	if err := body.apply(page); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	if err := cc.DB.WithContext(c.Request.Context()).Save(page).Error; err != nil {
		utils.RespondAppError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Client page updated", page)
}
