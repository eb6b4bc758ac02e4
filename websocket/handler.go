package websocket

import (
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// HandleWebSocket upgrades the connection and keeps the client registered
// until the peer goes away. The subscription is push-only: inbound frames are
// drained and discarded.
func HandleWebSocket(c echo.Context, hub *Hub, userID primitive.ObjectID) error {
	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return err
	}

	client := &Client{
		UserID: userID,
		Conn:   conn,
	}

	hub.register <- client

	// A failed greeting means the connection is already dead; unregister
	// instead of leaving it parked until the read loop would notice
	if err := client.writeJSON(Event{
		Type:    "connected",
		Message: "Live update subscription established",
		UserID:  userID.Hex(),
	}); err != nil {
		hub.unregister <- client
		return nil
	}

	go func() {
		defer func() {
			hub.unregister <- client
		}()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	return nil
}
