package controllers

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yeremiapane/taplink-saas/utils"
)

// paramID reads a positive numeric path parameter. It answers 400 itself
// when the value is not usable.
func paramID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		utils.RespondError(c, http.StatusBadRequest, fmt.Errorf("invalid %s", name))
		return 0, false
	}
	return uint(id), true
}

// queryTime reads an optional RFC 3339 query parameter.
func queryTime(c *gin.Context, name string) (*time.Time, bool) {
	raw := c.Query(name)
	if raw == "" {
		return nil, true
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, fmt.Errorf("%s must be an RFC 3339 timestamp", name))
		return nil, false
	}
	return &t, true
}
