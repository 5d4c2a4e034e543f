package controllers_test

import (
	"context"
	"net/http"
	"strconv"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yeremiapane/taplink-saas/middlewares"
	"github.com/yeremiapane/taplink-saas/services"
)

func adminBooking(table, start string) gin.H {
	return gin.H{
		"table_label": table,
		"party_size":  2,
		"start":       start,
		"end":         "2030-06-01T16:00:00Z",
		"name":        "Daniyar",
		"phone":       "+77015550000",
		"status":      "confirmed",
	}
}

func (s *testServer) createReservation(token string, body gin.H) reservationView {
	s.t.Helper()
	w := s.do(http.MethodPost, "/admin/reservations", token, body)
	require.Equal(s.t, http.StatusCreated, w.Code, w.Body.String())
	var got reservationView
	decode(s.t, w, &got)
	return got
}

func TestAdminRequiresToken(t *testing.T) {
	s := newServer(t)

	w := s.do(http.MethodGet, "/admin/reservations", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = s.do(http.MethodGet, "/admin/reservations", "garbage", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAdminReservationLifecycle(t *testing.T) {
	s := newServer(t)
	s.seedTables(4, 6)
	staff := s.token(middlewares.RoleStaff)

	created := s.createReservation(staff, adminBooking("1", "2030-06-01T14:00:00Z"))
	assert.Equal(t, "confirmed", created.Status)
	require.NotNil(t, created.TableSeats)
	assert.Equal(t, 4, *created.TableSeats)
	path := "/admin/reservations/" + strconv.FormatUint(uint64(created.ID), 10)

	w := s.do(http.MethodGet, path, staff, nil)
	require.Equal(t, http.StatusOK, w.Code)

	// moving the start keeps the two hour duration
	w = s.do(http.MethodPatch, path, staff, gin.H{"start": "2030-06-01T18:00:00Z"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var moved reservationView
	decode(t, w, &moved)
	assert.Equal(t, "2030-06-01T20:00:00Z", moved.End.UTC().Format("2006-01-02T15:04:05Z07:00"))

	// a party that does not fit the new table
	w = s.do(http.MethodPatch, path, staff, gin.H{"table_label": "1", "party_size": 5})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	w = s.do(http.MethodPatch, path, staff, gin.H{"table_label": "2", "party_size": 5})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	decode(t, w, &moved)
	assert.Equal(t, 6, *moved.TableSeats)

	w = s.do(http.MethodPatch, path+"/status", staff, gin.H{"status": "cancelled"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	decode(t, w, &moved)
	assert.Equal(t, "cancelled", moved.Status)

	w = s.do(http.MethodPatch, path+"/status", staff, gin.H{"status": "seated"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(http.MethodDelete, path, staff, nil)
	require.Equal(t, http.StatusOK, w.Code)
	w = s.do(http.MethodGet, path, staff, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAdminReservationConflict(t *testing.T) {
	s := newServer(t)
	s.seedTables(4)

	s.createReservation(s.owner(), adminBooking("1", "2030-06-01T14:00:00Z"))

	w := s.do(http.MethodPost, "/admin/reservations", s.owner(), adminBooking("1", "2030-06-01T15:59:00Z"))
	assert.Equal(t, http.StatusConflict, w.Code)

	body := adminBooking("1", "2030-06-01T16:00:00Z")
	body["end"] = "2030-06-01T18:00:00Z"
	w = s.do(http.MethodPost, "/admin/reservations", s.owner(), body)
	assert.Equal(t, http.StatusCreated, w.Code, "back to back bookings do not overlap")

	body = adminBooking("1", "2030-06-01T17:00:00Z")
	body["end"] = "2030-06-01T17:00:00Z"
	w = s.do(http.MethodPost, "/admin/reservations", s.owner(), body)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, "invalid_interval", decode(t, w, nil).Code)

	w = s.do(http.MethodPost, "/admin/reservations", s.owner(), gin.H{"name": "no start"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAdminReservationsAreTenantScoped(t *testing.T) {
	s := newServer(t)
	s.seedTables(4)
	created := s.createReservation(s.owner(), adminBooking("1", "2030-06-01T14:00:00Z"))

	other, err := services.NewTenantService(s.db).Create(context.Background(), "steppe", "Steppe Cafe", "UTC", "KZT")
	require.NoError(t, err)
	outsider := s.tokenFor(other.ID, middlewares.RoleOwner)

	path := "/admin/reservations/" + strconv.FormatUint(uint64(created.ID), 10)
	assert.Equal(t, http.StatusNotFound, s.do(http.MethodGet, path, outsider, nil).Code)
	assert.Equal(t, http.StatusNotFound, s.do(http.MethodDelete, path, outsider, nil).Code)

	var rows []reservationView
	decode(t, s.do(http.MethodGet, "/admin/reservations", outsider, nil), &rows)
	assert.Empty(t, rows)

	// a booking without a table needs no floor plan
	w := s.do(http.MethodPost, "/admin/reservations", outsider, gin.H{
		"party_size": 2, "start": "2030-06-01T14:00:00Z", "name": "Aruzhan", "phone": "+77010000000",
	})
	assert.Equal(t, http.StatusCreated, w.Code, w.Body.String())
}

func TestAdminListFilters(t *testing.T) {
	s := newServer(t)
	s.seedTables(4, 4)

	s.createReservation(s.owner(), adminBooking("1", "2030-06-01T14:00:00Z"))
	body := adminBooking("2", "2030-06-02T14:00:00Z")
	body["end"] = "2030-06-02T16:00:00Z"
	body["status"] = "new"
	s.createReservation(s.owner(), body)

	var rows []reservationView
	decode(t, s.do(http.MethodGet, "/admin/reservations", s.owner(), nil), &rows)
	assert.Len(t, rows, 2)

	decode(t, s.do(http.MethodGet, "/admin/reservations?from=2030-06-02T00:00:00Z", s.owner(), nil), &rows)
	require.Len(t, rows, 1)
	assert.Equal(t, "2", *rows[0].TableLabel)

	decode(t, s.do(http.MethodGet, "/admin/reservations?status=confirmed", s.owner(), nil), &rows)
	require.Len(t, rows, 1)
	assert.Equal(t, "1", *rows[0].TableLabel)

	decode(t, s.do(http.MethodGet, "/admin/reservations?table=2", s.owner(), nil), &rows)
	assert.Len(t, rows, 1)

	assert.Equal(t, http.StatusBadRequest, s.do(http.MethodGet, "/admin/reservations?status=maybe", s.owner(), nil).Code)
	assert.Equal(t, http.StatusBadRequest, s.do(http.MethodGet, "/admin/reservations?from=yesterday", s.owner(), nil).Code)
}

func TestAdminExport(t *testing.T) {
	s := newServer(t)
	s.seedTables(4)
	s.createReservation(s.owner(), adminBooking("1", "2030-06-01T14:00:00Z"))

	w := s.do(http.MethodGet, "/admin/reservations/export", s.owner(), nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "reservations-nomad-")
	assert.Equal(t, "PK", w.Body.String()[:2], "xlsx files are zip archives")
}
