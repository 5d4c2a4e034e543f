// Package hub pushes live dashboard updates to the admin websocket clients of
// a tenant.
package hub

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/yeremiapane/taplink-saas/utils"
)

const (
	EventReservationCreated = "reservation_created"
	EventReservationUpdated = "reservation_updated"
	EventReservationDeleted = "reservation_deleted"
	EventLayoutSaved        = "layout_saved"
)

const writeWait = 5 * time.Second

type Message struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

// Hub tracks connections per tenant. Writes happen under the hub mutex, so a
// connection never has two concurrent writers.
type Hub struct {
	clients map[*websocket.Conn]uint // conn -> tenant id
	mutex   sync.Mutex
}

func New() *Hub {
	return &Hub{clients: make(map[*websocket.Conn]uint)}
}

func (h *Hub) Register(conn *websocket.Conn, tenantID uint) {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	h.clients[conn] = tenantID
}

func (h *Hub) Unregister(conn *websocket.Conn) {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	h.drop(conn)
}

func (h *Hub) drop(conn *websocket.Conn) {
	if _, ok := h.clients[conn]; !ok {
		return
	}
	delete(h.clients, conn)
	conn.Close()
}

// Clients reports how many connections a tenant has open.
func (h *Hub) Clients(tenantID uint) int {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	n := 0
	for _, id := range h.clients {
		if id == tenantID {
			n++
		}
	}
	return n
}

// Broadcast sends an event to every connection of the tenant. Connections
// that fail to receive it are closed.
func (h *Hub) Broadcast(tenantID uint, event string, data interface{}) {
	payload, err := json.Marshal(Message{Event: event, Data: data})
	if err != nil {
		utils.ErrorLogger.Errorf("marshal %s event: %v", event, err)
		return
	}

	h.mutex.Lock()
	defer h.mutex.Unlock()

	sent := 0
	for conn, id := range h.clients {
		if id != tenantID {
			continue
		}
		conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			utils.ErrorLogger.WithField("tenant_id", tenantID).Errorf("send %s event: %v", event, err)
			h.drop(conn)
			continue
		}
		sent++
	}
	utils.InfoLogger.WithField("tenant_id", tenantID).Debugf("broadcast %s to %d clients", event, sent)
}
