package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/yeremiapane/taplink-saas/middlewares"
	"github.com/yeremiapane/taplink-saas/models"
	"github.com/yeremiapane/taplink-saas/utils"
)

var supportedIntegrations = map[string]bool{
	models.IntegrationTelegram: true,
}

type IntegrationController struct {
	DB *gorm.DB
}

func NewIntegrationController(db *gorm.DB) *IntegrationController {
	return &IntegrationController{DB: db}
}

// integrationView hides the bot token and reports only whether one is set.
type integrationView struct {
	models.Integration
	Configured bool `json:"configured"`
}

func viewOf(i models.Integration) integrationView {
	return integrationView{Integration: i, Configured: i.BotToken != "" && i.ChatID != ""}
}

// GetIntegrations GET /admin/integrations
func (ic *IntegrationController) GetIntegrations(c *gin.Context) {
	var rows []models.Integration
	err := ic.DB.WithContext(c.Request.Context()).
		Where("tenant_id = ?", middlewares.TenantID(c)).
		Order("kind").
		Find(&rows).Error
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}

	out := make([]integrationView, 0, len(rows))
	for _, row := range rows {
		out = append(out, viewOf(row))
	}
	utils.RespondJSON(c, http.StatusOK, "Integrations", out)
}

// UpdateIntegration PUT /admin/integrations/:kind
// An omitted bot_token keeps the stored one.
func (ic *IntegrationController) UpdateIntegration(c *gin.Context) {
	kind := strings.ToLower(c.Param("kind"))
	if !supportedIntegrations[kind] {
		utils.RespondError(c, http.StatusBadRequest, fmt.Errorf("unsupported integration %q", kind))
		return
	}

	var body struct {
		Enabled  *bool   `json:"enabled"`
		BotToken *string `json:"bot_token"`
		ChatID   *string `json:"chat_id"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	tenantID := middlewares.TenantID(c)
	db := ic.DB.WithContext(c.Request.Context())

	var row models.Integration
	err := db.Where("tenant_id = ? AND kind = ?", tenantID, kind).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		row = models.Integration{TenantID: tenantID, Kind: kind}
	} else if err != nil {
		utils.RespondAppError(c, err)
		return
	}

	if body.BotToken != nil {
		row.BotToken = strings.TrimSpace(*body.BotToken)
	}
	if body.ChatID != nil {
		row.ChatID = strings.TrimSpace(*body.ChatID)
	}
	if body.Enabled != nil {
		row.Enabled = *body.Enabled
	}
	if row.Enabled && (row.BotToken == "" || row.ChatID == "") {
		utils.RespondError(c, http.StatusBadRequest, errors.New("bot_token and chat_id are required to enable telegram"))
		return
	}

	if err := db.Save(&row).Error; err != nil {
		utils.RespondAppError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Integration updated", viewOf(row))
}
