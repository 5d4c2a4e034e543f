package controllers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/yeremiapane/taplink-saas/apperrors"
	"github.com/yeremiapane/taplink-saas/middlewares"
	"github.com/yeremiapane/taplink-saas/models"
	"github.com/yeremiapane/taplink-saas/utils"
)

type MenuController struct {
	DB *gorm.DB
}

func NewMenuController(db *gorm.DB) *MenuController {
	return &MenuController{DB: db}
}

type menuItemRequest struct {
	CategoryID  *uint    `json:"category_id"`
	Name        *string  `json:"name"`
	Description *string  `json:"description"`
	Price       *float64 `json:"price"`
	ImageURL    *string  `json:"image_url"`
	IsAvailable *bool    `json:"is_available"`
	Position    *int     `json:"position"`
}

// apply copies the set fields onto item and checks the result.
func (r menuItemRequest) apply(item *models.MenuItem) error {
	if r.CategoryID != nil {
		item.CategoryID = *r.CategoryID
	}
	if r.Name != nil {
		item.Name = strings.TrimSpace(*r.Name)
	}
	if r.Description != nil {
		item.Description = *r.Description
	}
	if r.Price != nil {
		item.Price = *r.Price
	}
	if r.ImageURL != nil {
		if url := strings.TrimSpace(*r.ImageURL); url != "" {
			item.ImageURL = &url
		} else {
			item.ImageURL = nil
		}
	}
	if r.IsAvailable != nil {
		item.IsAvailable = *r.IsAvailable
	}
	if r.Position != nil {
		item.Position = *r.Position
	}

	switch {
	case item.CategoryID == 0:
		return errors.New("category_id is required")
	case item.Name == "":
		return errors.New("name is required")
	case item.Price < 0:
		return errors.New("price cannot be negative")
	}
	return nil
}

func (mc *MenuController) categoryExists(c *gin.Context, tenantID, categoryID uint) bool {
	var count int64
	err := mc.DB.WithContext(c.Request.Context()).Model(&models.MenuCategory{}).
		Where("tenant_id = ? AND id = ?", tenantID, categoryID).
		Count(&count).Error
	if err != nil {
		utils.RespondAppError(c, err)
		return false
	}
	if count == 0 {
		utils.RespondAppError(c, apperrors.NotFound("menu category"))
		return false
	}
	return true
}

func (mc *MenuController) find(c *gin.Context) (*models.MenuItem, bool) {
	id, ok := paramID(c, "menu_id")
	if !ok {
		return nil, false
	}

	var item models.MenuItem
	err := mc.DB.WithContext(c.Request.Context()).
		Where("tenant_id = ?", middlewares.TenantID(c)).
		First(&item, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		utils.RespondAppError(c, apperrors.NotFound("menu item"))
		return nil, false
	}
	if err != nil {
		utils.RespondAppError(c, err)
		return nil, false
	}
	return &item, true
}

// GetAllMenus GET /admin/menu/items?category_id=
func (mc *MenuController) GetAllMenus(c *gin.Context) {
	query := mc.DB.WithContext(c.Request.Context()).
		Where("tenant_id = ?", middlewares.TenantID(c))
	if raw := c.Query("category_id"); raw != "" {
		query = query.Where("category_id = ?", raw)
	}

	var items []models.MenuItem
	if err := query.Order("category_id, position, id").Find(&items).Error; err != nil {
		utils.RespondAppError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of menu items", items)
}

// CreateMenu POST /admin/menu/items
func (mc *MenuController) CreateMenu(c *gin.Context) {
	var body menuItemRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	tenantID := middlewares.TenantID(c)
	item := models.MenuItem{TenantID: tenantID, IsAvailable: true}
	if err := body.apply(&item); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	if !mc.categoryExists(c, tenantID, item.CategoryID) {
		return
	}

	if err := mc.DB.WithContext(c.Request.Context()).Omit("Category").Create(&item).Error; err != nil {
		utils.RespondAppError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Menu item created", item)
}

// GetMenuByID GET /admin/menu/items/:menu_id
func (mc *MenuController) GetMenuByID(c *gin.Context) {
	item, ok := mc.find(c)
	if !ok {
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Menu item detail", item)
}

// UpdateMenu PUT /admin/menu/items/:menu_id
func (mc *MenuController) UpdateMenu(c *gin.Context) {
	var body menuItemRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	item, ok := mc.find(c)
	if !ok {
		return
	}
	if err := body.apply(item); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	if body.CategoryID != nil && !mc.categoryExists(c, item.TenantID, item.CategoryID) {
		return
	}

	if err := mc.DB.WithContext(c.Request.Context()).Omit("Category").Save(item).Error; err != nil {
		utils.RespondAppError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Menu item updated", item)
}

// DeleteMenu DELETE /admin/menu/items/:menu_id
func (mc *MenuController) DeleteMenu(c *gin.Context) {
	item, ok := mc.find(c)
	if !ok {
		return
	}

	if err := mc.DB.WithContext(c.Request.Context()).Delete(item).Error; err != nil {
		utils.RespondAppError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Menu item deleted", gin.H{"menu_id": item.ID})
}
