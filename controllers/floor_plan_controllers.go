package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yeremiapane/taplink-saas/hub"
	"github.com/yeremiapane/taplink-saas/layout"
	"github.com/yeremiapane/taplink-saas/middlewares"
	"github.com/yeremiapane/taplink-saas/services"
	"github.com/yeremiapane/taplink-saas/utils"
)

type FloorPlanController struct {
	Plans *services.FloorPlanService
	Hub   *hub.Hub
}

func NewFloorPlanController(plans *services.FloorPlanService, h *hub.Hub) *FloorPlanController {
	return &FloorPlanController{Plans: plans, Hub: h}
}

// ListPlans GET /admin/floor-plans
func (fc *FloorPlanController) ListPlans(c *gin.Context) {
	plans, err := fc.Plans.List(c.Request.Context(), middlewares.TenantID(c))
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of floor plans", plans)
}

// GetActivePlan GET /admin/floor-plans/active
func (fc *FloorPlanController) GetActivePlan(c *gin.Context) {
	plan, err := fc.Plans.Active(c.Request.Context(), middlewares.TenantID(c))
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Active floor plan", plan.Layout())
}

// CreatePlan POST /admin/floor-plans
func (fc *FloorPlanController) CreatePlan(c *gin.Context) {
	var body struct {
		Name         string  `json:"name" binding:"required"`
		CanvasWidth  float64 `json:"canvas_width"`
		CanvasHeight float64 `json:"canvas_height"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	plan, err := fc.Plans.Create(c.Request.Context(), middlewares.TenantID(c), body.Name, body.CanvasWidth, body.CanvasHeight)
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Floor plan created", plan)
}

// GetPlan GET /admin/floor-plans/:id
func (fc *FloorPlanController) GetPlan(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	plan, err := fc.Plans.Get(c.Request.Context(), middlewares.TenantID(c), id)
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Floor plan detail", plan.Layout())
}

// ActivatePlan POST /admin/floor-plans/:id/activate
func (fc *FloorPlanController) ActivatePlan(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	tenantID := middlewares.TenantID(c)
	plan, err := fc.Plans.Activate(c.Request.Context(), tenantID, id)
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}

	fc.Hub.Broadcast(tenantID, hub.EventLayoutSaved, plan.Layout())
	utils.RespondJSON(c, http.StatusOK, "Floor plan activated", plan)
}

// SaveLayout PUT /admin/floor-plans/:id/layout
func (fc *FloorPlanController) SaveLayout(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var body layout.Plan
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	tenantID := middlewares.TenantID(c)
	plan, err := fc.Plans.SaveLayout(c.Request.Context(), tenantID, id, body)
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}

	saved := plan.Layout()
	if plan.IsActive {
		fc.Hub.Broadcast(tenantID, hub.EventLayoutSaved, saved)
	}
	utils.RespondJSON(c, http.StatusOK, "Layout saved", saved)
}

// NextTable POST /admin/floor-plans/:id/tables/next
func (fc *FloorPlanController) NextTable(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	table, err := fc.Plans.NextTable(c.Request.Context(), middlewares.TenantID(c), id)
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "New table draft", table)
}

// DeletePlan DELETE /admin/floor-plans/:id
func (fc *FloorPlanController) DeletePlan(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	if err := fc.Plans.Delete(c.Request.Context(), middlewares.TenantID(c), id); err != nil {
		utils.RespondAppError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Floor plan deleted", gin.H{"id": id})
}
