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

type MenuCategoryController struct {
	DB *gorm.DB
}

func NewMenuCategoryController(db *gorm.DB) *MenuCategoryController {
	return &MenuCategoryController{DB: db}
}

func (mcc *MenuCategoryController) find(c *gin.Context) (*models.MenuCategory, bool) {
	id, ok := paramID(c, "cat_id")
	if !ok {
		return nil, false
	}

	var category models.MenuCategory
	err := mcc.DB.WithContext(c.Request.Context()).
		Where("tenant_id = ?", middlewares.TenantID(c)).
		First(&category, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		utils.RespondAppError(c, apperrors.NotFound("menu category"))
		return nil, false
	}
	if err != nil {
		utils.RespondAppError(c, err)
		return nil, false
	}
	return &category, true
}

func (mcc *MenuCategoryController) nameTaken(c *gin.Context, name string, exceptID uint) (bool, error) {
	var count int64
	err := mcc.DB.WithContext(c.Request.Context()).Model(&models.MenuCategory{}).
		Where("tenant_id = ? AND name = ? AND id <> ?", middlewares.TenantID(c), name, exceptID).
		Count(&count).Error
	return count > 0, err
}

// GetAllCategories GET /admin/menu/categories
func (mcc *MenuCategoryController) GetAllCategories(c *gin.Context) {
	var categories []models.MenuCategory
	err := mcc.DB.WithContext(c.Request.Context()).
		Where("tenant_id = ?", middlewares.TenantID(c)).
		Order("position, id").
		Find(&categories).Error
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "All menu categories", categories)
}

// CreateCategory POST /admin/menu/categories
func (mcc *MenuCategoryController) CreateCategory(c *gin.Context) {
	var body struct {
		Name     string `json:"name" binding:"required"`
		Position int    `json:"position"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	name := strings.TrimSpace(body.Name)
	if name == "" {
		utils.RespondError(c, http.StatusBadRequest, errors.New("name is required"))
		return
	}
	taken, err := mcc.nameTaken(c, name, 0)
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}
	if taken {
		utils.RespondError(c, http.StatusConflict, errors.New("category already exists"))
		return
	}

	category := models.MenuCategory{
		TenantID: middlewares.TenantID(c),
		Name:     name,
		Position: body.Position,
	}
	if err := mcc.DB.WithContext(c.Request.Context()).Create(&category).Error; err != nil {
		utils.RespondAppError(c, err)
		return
	}

	utils.RespondJSON(c, http.StatusCreated, "Category created", category)
}

// GetCategoryByID GET /admin/menu/categories/:cat_id
func (mcc *MenuCategoryController) GetCategoryByID(c *gin.Context) {
	category, ok := mcc.find(c)
	if !ok {
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Category detail", category)
}

// UpdateCategory PUT /admin/menu/categories/:cat_id
func (mcc *MenuCategoryController) UpdateCategory(c *gin.Context) {
	var body struct {
		Name     string `json:"name"`
		Position *int   `json:"position"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	category, ok := mcc.find(c)
	if !ok {
		return
	}

	if name := strings.TrimSpace(body.Name); name != "" && name != category.Name {
		taken, err := mcc.nameTaken(c, name, category.ID)
		if err != nil {
			utils.RespondAppError(c, err)
			return
		}
		if taken {
			utils.RespondError(c, http.StatusConflict, errors.New("category already exists"))
			return
		}
		category.Name = name
	}
	if body.Position != nil {
		category.Position = *body.Position
	}

	if err := mcc.DB.WithContext(c.Request.Context()).Save(category).Error; err != nil {
		utils.RespondAppError(c, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Category updated", category)
}

// DeleteCategory DELETE /admin/menu/categories/:cat_id
// A category that still holds items is kept.
func (mcc *MenuCategoryController) DeleteCategory(c *gin.Context) {
	category, ok := mcc.find(c)
	if !ok {
		return
	}

	var items int64
	if err := mcc.DB.WithContext(c.Request.Context()).Model(&models.MenuItem{}).
		Where("tenant_id = ? AND category_id = ?", category.TenantID, category.ID).
		Count(&items).Error; err != nil {
		utils.RespondAppError(c, err)
		return
	}
	if items > 0 {
		utils.RespondError(c, http.StatusConflict, errors.New("category still has menu items"))
		return
	}

	if err := mcc.DB.WithContext(c.Request.Context()).Delete(category).Error; err != nil {
		utils.RespondAppError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Category deleted", gin.H{"category_id": category.ID})
}
