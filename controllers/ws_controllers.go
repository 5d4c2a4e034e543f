package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/yeremiapane/taplink-saas/hub"
	"github.com/yeremiapane/taplink-saas/middlewares"
	"github.com/yeremiapane/taplink-saas/utils"
)

type WSController struct {
	Hub      *hub.Hub
	upgrader websocket.Upgrader
}

func NewWSController(h *hub.Hub, allowedOrigins []string) *WSController {
	return &WSController{
		Hub: h,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return middlewares.AllowedOrigin(allowedOrigins, r.Header.Get("Origin"))
			},
		},
	}
}

// Dashboard GET /admin/ws?token=
// Streams reservation and layout events of the caller's tenant.
func (wc *WSController) Dashboard(c *gin.Context) {
	tenantID := middlewares.TenantID(c)
	if tenantID == 0 {
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	ws, err := wc.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		utils.InfoLogger.Warnf("websocket upgrade failed: %v", err)
		return
	}

	wc.Hub.Register(ws, tenantID)
	defer wc.Hub.Unregister(ws)

	// Clients only listen; reading keeps control frames flowing and notices
	// the disconnect.
	for {
		if _, _, err := ws.ReadMessage(); err != nil {
			break
		}
	}
}
