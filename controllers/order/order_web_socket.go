package orderControllers

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/aaditya09750/Agroreach-sub000/models"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type orderEvent struct {
	Event string        `json:"event"`
	Order *models.Order `json:"order"`
}

// Hub pushes order events to connected back-office dashboards. It implements
// services.Notifier, so delivery failures drop the client and never touch
// order state.
type Hub struct {
	mu      sync.Mutex
	clients map[*websocket.Conn]bool
}

func NewHub() *Hub {
	return &Hub{clients: make(map[*websocket.Conn]bool)}
}

// GET /orders/ws
func (h *Hub) Handler(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	h.mu.Lock()
	h.clients[conn] = true
	h.mu.Unlock()

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			h.mu.Lock()
			delete(h.clients, conn)
			h.mu.Unlock()
			break
		}
	}
}

func (h *Hub) broadcast(event string, order *models.Order) {
	data, err := json.Marshal(orderEvent{Event: event, Order: order})
	if err != nil {
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for client := range h.clients {
		if err := client.WriteMessage(websocket.TextMessage, data); err != nil {
			client.Close()
			delete(h.clients, client)
		}
	}
}

func (h *Hub) OrderPlaced(order *models.Order)        { h.broadcast("order_placed", order) }
func (h *Hub) OrderStatusChanged(order *models.Order) { h.broadcast("order_status_changed", order) }
func (h *Hub) OrderCancelled(order *models.Order)     { h.broadcast("order_cancelled", order) }
