package utils

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yeremiapane/taplink-saas/apperrors"
)

func TestFormatPrice(t *testing.T) {
	cases := []struct {
		amount   float64
		currency string
		want     string
	}{
		{0, "KZT", "0 ₸"},
		{950, "KZT", "950 ₸"},
		{12500, "kzt", "12 500 ₸"},
		{1234567.5, "USD", "1 234 567,50 $"},
		{99.999, "EUR", "100 €"},
		{1500, "GEL", "1 500 GEL"},
		{1500, "", "1 500"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, FormatPrice(tc.amount, tc.currency), "%v %s", tc.amount, tc.currency)
	}
}

func TestTokenRoundTrip(t *testing.T) {
	secret := []byte("secret")
	token, err := GenerateToken(secret, 7, "user-1", "owner", time.Hour)
	require.NoError(t, err)

	claims, err := ParseToken(secret, token)
	require.NoError(t, err)
	assert.Equal(t, uint(7), claims.TenantID)
	assert.Equal(t, "user-1", claims.Subject)
	assert.Equal(t, "owner", claims.Role)

	_, err = ParseToken([]byte("other"), token)
	assert.Error(t, err)
}

func TestParseTokenRejectsExpiredAndTenantless(t *testing.T) {
	secret := []byte("secret")

	expired, err := GenerateToken(secret, 1, "u", "owner", -time.Minute)
	require.NoError(t, err)
	_, err = ParseToken(secret, expired)
	assert.Error(t, err)

	noTenant, err := GenerateToken(secret, 0, "u", "owner", time.Hour)
	require.NoError(t, err)
	_, err = ParseToken(secret, noTenant)
	assert.Error(t, err)
}

func TestRespondAppError(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cases := []struct {
		err  error
		code int
		kind string
	}{
		{apperrors.New(apperrors.KindTableConflict, "taken"), http.StatusConflict, "table_conflict"},
		{fmt.Errorf("wrapped: %w", apperrors.ErrCapacityExceeded), http.StatusUnprocessableEntity, "capacity_exceeded"},
		{apperrors.NotFound("reservation"), http.StatusNotFound, "not_found"},
		{apperrors.ErrPlanInUse, http.StatusConflict, "plan_in_use"},
		{fmt.Errorf("tenant: %w", apperrors.ErrStorageUnavailable), http.StatusServiceUnavailable, "storage_unavailable"},
		{errors.New("boom"), http.StatusInternalServerError, ""},
	}

	for _, tc := range cases {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		RespondAppError(c, tc.err)

		assert.Equal(t, tc.code, w.Code)
		var body JSONResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.False(t, body.Status)
		assert.Equal(t, tc.kind, body.Code)
	}
}
