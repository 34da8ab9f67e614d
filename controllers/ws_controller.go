package controllers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/egnner/project-delivery-sub001/services"
)

// upgrader accepts any origin; the browser clients live on a different host
// than the API and CORS policy is enforced on the REST routes.
var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// StaffSocket handles GET /api/v1/staff/ws - subscribes the dashboard to
// every order lifecycle event
func StaffSocket(c *gin.Context) {
	if _, ok := currentStaff(c); !ok {
		return
	}

	serveSocket(c, func(client *services.Client) {
		services.GetHub().JoinStaff(client)
	})
}

// OrderSocket handles GET /api/v1/orders/:id/ws - subscribes a customer to
// the lifecycle events of one order
func OrderSocket(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	// Refuse the upgrade for orders that do not exist.
	if _, err := services.GetOrderService().GetOrder(id); err != nil {
		respondServiceError(c, err)
		return
	}

	serveSocket(c, func(client *services.Client) {
		services.GetHub().JoinOrder(client, id)
	})
}

// serveSocket upgrades the connection, joins the hub and pumps events until
// the peer goes away. Undelivered events are simply dropped with the
// connection; the client re-fetches state on reconnect.
func serveSocket(c *gin.Context, join func(*services.Client)) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("websocket upgrade failed: %v", err)
		return
	}

	client := services.NewClient()
	join(client)

	// Writer: drain the hub channel onto the wire. Ends when Leave closes
	// the channel or the write fails.
	go func() {
		for event := range client.Events() {
			if err := conn.WriteJSON(event); err != nil {
				break
			}
		}
		conn.Close()
	}()

	// Reader: we never expect inbound messages, but reading is how we learn
	// the peer disconnected.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}

	services.GetHub().Leave(client)
	conn.Close()
}
