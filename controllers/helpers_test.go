package controllers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/yeremiapane/taplink-saas/config"
	"github.com/yeremiapane/taplink-saas/database"
	"github.com/yeremiapane/taplink-saas/hub"
	"github.com/yeremiapane/taplink-saas/middlewares"
	"github.com/yeremiapane/taplink-saas/models"
	"github.com/yeremiapane/taplink-saas/router"
	"github.com/yeremiapane/taplink-saas/services"
	"github.com/yeremiapane/taplink-saas/utils"
)

const testSecret = "controllers-test-secret"

func init() {
	gin.SetMode(gin.TestMode)
	utils.InitLogger("error")
}

type testServer struct {
	t      *testing.T
	db     *gorm.DB
	hub    *hub.Hub
	router *gin.Engine
	tenant models.Tenant
}

type envelope struct {
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	Code    string          `json:"code"`
	Data    json.RawMessage `json:"data"`
}

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := gorm.Open(sqlite.Open("file:"+name+"?mode=memory&cache=shared"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, database.NewStorage(db).Initialize())
	return db
}

func newServer(t *testing.T) *testServer {
	t.Helper()
	db := setupTestDB(t)

	tenant, err := services.NewTenantService(db).Create(context.Background(), "nomad", "Nomad Grill", "Asia/Almaty", "KZT")
	require.NoError(t, err)

	h := hub.New()
	r := router.SetupRouter(router.Deps{
		DB: db,
		Config: config.Config{
			JWTSecret:          testSecret,
			CORSAllowedOrigins: []string{"http://localhost:3000"},
			PublicRateLimit:    1000,
			PublicRateBurst:    1000,
		},
		Hub: h,
	})
	return &testServer{t: t, db: db, hub: h, router: r, tenant: *tenant}
}

func (s *testServer) token(role string) string {
	return s.tokenFor(s.tenant.ID, role)
}

func (s *testServer) tokenFor(tenantID uint, role string) string {
	s.t.Helper()
	token, err := utils.GenerateToken([]byte(testSecret), tenantID, "tester", role, time.Hour)
	require.NoError(s.t, err)
	return token
}

func (s *testServer) owner() string { return s.token(middlewares.RoleOwner) }

// do sends a request; body is JSON encoded unless it is nil.
func (s *testServer) do(method, path, token string, body interface{}) *httptest.ResponseRecorder {
	s.t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(s.t, err)
		reader = bytes.NewReader(payload)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

// decode reads the envelope and, when out is not nil, its data.
func decode(t *testing.T, w *httptest.ResponseRecorder, out interface{}) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	if out != nil {
		require.NoError(t, json.Unmarshal(env.Data, out), string(env.Data))
	}
	return env
}

// seedTables stores numbered tables on the tenant's active plan.
func (s *testServer) seedTables(seats ...int) {
	s.t.Helper()
	plan, err := services.NewFloorPlanService(s.db).Active(context.Background(), s.tenant.ID)
	require.NoError(s.t, err)

	for i, n := range seats {
		require.NoError(s.t, s.db.Create(&models.FloorTable{
			TenantID:    s.tenant.ID,
			FloorPlanID: plan.ID,
			Number:      strconv.Itoa(i + 1),
			Seats:       n,
			X:           float64(i) * 96,
			Width:       72,
			Height:      72,
		}).Error)
	}
}

type reservationView struct {
	ID         uint      `json:"id"`
	TableLabel *string   `json:"table_label"`
	TableSeats *int      `json:"table_seats"`
	Start      time.Time `json:"start"`
	End        time.Time `json:"end"`
	PartySize  int       `json:"party_size"`
	Name       string    `json:"name"`
	Status     string    `json:"status"`
}
