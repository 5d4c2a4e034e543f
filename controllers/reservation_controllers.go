package controllers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yeremiapane/taplink-saas/hub"
	"github.com/yeremiapane/taplink-saas/middlewares"
	"github.com/yeremiapane/taplink-saas/scheduler"
	"github.com/yeremiapane/taplink-saas/services"
	"github.com/yeremiapane/taplink-saas/utils"
)

type ReservationController struct {
	Reservations *services.ReservationService
	Tenants      *services.TenantService
	Hub          *hub.Hub
}

func NewReservationController(reservations *services.ReservationService, tenants *services.TenantService, h *hub.Hub) *ReservationController {
	return &ReservationController{Reservations: reservations, Tenants: tenants, Hub: h}
}

type reservationRequest struct {
	TableLabel      *string    `json:"table_label"`
	TableSeats      *int       `json:"table_seats"`
	PartySize       int        `json:"party_size"`
	Start           time.Time  `json:"start" binding:"required"`
	End             *time.Time `json:"end"`
	DurationMinutes *int       `json:"duration_minutes"`
	Name            string     `json:"name"`
	Phone           string     `json:"phone"`
	Comment         *string    `json:"comment"`
	Status          *string    `json:"status"`
}

type reservationPatch struct {
	TableLabel      *string    `json:"table_label"`
	TableSeats      *int       `json:"table_seats"`
	PartySize       *int       `json:"party_size"`
	Start           *time.Time `json:"start"`
	End             *time.Time `json:"end"`
	DurationMinutes *int       `json:"duration_minutes"`
	Name            *string    `json:"name"`
	Phone           *string    `json:"phone"`
	Comment         *string    `json:"comment"`
	Status          *string    `json:"status"`
}

func parseStatus(raw *string) (*scheduler.Status, error) {
	if raw == nil {
		return nil, nil
	}
	status, err := scheduler.ParseStatus(*raw)
	if err != nil {
		return nil, err
	}
	return &status, nil
}

// ListReservations GET /admin/reservations?from=&to=&status=&table=
func (rc *ReservationController) ListReservations(c *gin.Context) {
	filter, ok := listFilter(c)
	if !ok {
		return
	}

	rows, err := rc.Reservations.List(c.Request.Context(), middlewares.TenantID(c), filter)
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of reservations", rows)
}

func listFilter(c *gin.Context) (services.ListFilter, bool) {
	var filter services.ListFilter
	var ok bool
	if filter.From, ok = queryTime(c, "from"); !ok {
		return filter, false
	}
	if filter.To, ok = queryTime(c, "to"); !ok {
		return filter, false
	}
	if raw := c.Query("status"); raw != "" {
		status, err := scheduler.ParseStatus(raw)
		if err != nil {
			utils.RespondError(c, http.StatusBadRequest, err)
			return filter, false
		}
		filter.Status = &status
	}
	filter.TableLabel = c.Query("table")
	return filter, true
}

// CreateReservation POST /admin/reservations
func (rc *ReservationController) CreateReservation(c *gin.Context) {
	var body reservationRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	status, err := parseStatus(body.Status)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	tenantID := middlewares.TenantID(c)
	reservation, err := rc.Reservations.Create(c.Request.Context(), tenantID, scheduler.Request{
		TableLabel:      body.TableLabel,
		TableSeats:      body.TableSeats,
		PartySize:       body.PartySize,
		Start:           body.Start,
		End:             body.End,
		DurationMinutes: body.DurationMinutes,
		Name:            body.Name,
		Phone:           body.Phone,
		Comment:         body.Comment,
		Status:          status,
	})
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}

	rc.Hub.Broadcast(tenantID, hub.EventReservationCreated, reservation)
	utils.RespondJSON(c, http.StatusCreated, "Reservation created", reservation)
}

// GetReservation GET /admin/reservations/:id
func (rc *ReservationController) GetReservation(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	reservation, err := rc.Reservations.Get(c.Request.Context(), middlewares.TenantID(c), id)
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Reservation detail", reservation)
}

// UpdateReservation PATCH /admin/reservations/:id
func (rc *ReservationController) UpdateReservation(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var body reservationPatch
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	status, err := parseStatus(body.Status)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	tenantID := middlewares.TenantID(c)
	reservation, err := rc.Reservations.Reschedule(c.Request.Context(), tenantID, id, scheduler.Patch{
		TableLabel:      body.TableLabel,
		TableSeats:      body.TableSeats,
		PartySize:       body.PartySize,
		Start:           body.Start,
		End:             body.End,
		DurationMinutes: body.DurationMinutes,
		Name:            body.Name,
		Phone:           body.Phone,
		Comment:         body.Comment,
		Status:          status,
	})
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}

	rc.Hub.Broadcast(tenantID, hub.EventReservationUpdated, reservation)
	utils.RespondJSON(c, http.StatusOK, "Reservation updated", reservation)
}

// UpdateReservationStatus PATCH /admin/reservations/:id/status
func (rc *ReservationController) UpdateReservationStatus(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var body struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	status, err := scheduler.ParseStatus(body.Status)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	tenantID := middlewares.TenantID(c)
	reservation, err := rc.Reservations.SetStatus(c.Request.Context(), tenantID, id, status)
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}

	rc.Hub.Broadcast(tenantID, hub.EventReservationUpdated, reservation)
	utils.RespondJSON(c, http.StatusOK, "Reservation status updated", reservation)
}

// DeleteReservation DELETE /admin/reservations/:id
func (rc *ReservationController) DeleteReservation(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	tenantID := middlewares.TenantID(c)
	if err := rc.Reservations.Delete(c.Request.Context(), tenantID, id); err != nil {
		utils.RespondAppError(c, err)
		return
	}

	rc.Hub.Broadcast(tenantID, hub.EventReservationDeleted, gin.H{"id": id})
	utils.RespondJSON(c, http.StatusOK, "Reservation deleted", gin.H{"id": id})
}

// ExportReservations GET /admin/reservations/export?from=&to=&status=
func (rc *ReservationController) ExportReservations(c *gin.Context) {
	filter, ok := listFilter(c)
	if !ok {
		return
	}

	tenantID := middlewares.TenantID(c)
	tenant, err := rc.Tenants.GetByID(c.Request.Context(), tenantID)
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}
	rows, err := rc.Reservations.List(c.Request.Context(), tenantID, filter)
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}

	loc, err := time.LoadLocation(tenant.Timezone)
	if err != nil {
		loc = time.UTC
	}
	data, err := services.ExportReservations(rows, loc)
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}

	filename := fmt.Sprintf("reservations-%s-%s.xlsx", tenant.Slug, time.Now().In(loc).Format("20060102"))
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}
