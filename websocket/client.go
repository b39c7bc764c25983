package websocket

import (
	"net/http"
	"time"

	"harmonic/types"

	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)

// The desktop shell serves its pages from a custom scheme, so origins are not checked
var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Client represents one window's WebSocket connection
type Client struct {
	hub   Hub
	conn  *websocket.Conn
	send  chan types.WindowEvent
	label string
}

// NewClient creates a new WebSocket client for the window with the given label
func NewClient(hub Hub, conn *websocket.Conn, label string) *Client {
	return &Client{
		hub:   hub,
		conn:  conn,
		send:  make(chan types.WindowEvent, 256),
		label: label,
	}
}

// Label returns the window label the client registered with
func (c *Client) Label() string {
	return c.label
}

// StartPumps starts the read and write pumps for the client
func (c *Client) StartPumps() {
	go c.writePump()
	go c.readPump()
}

// readPump drains the connection so pongs and close frames are processed
func (c *Client) readPump() {
	defer func() {
		c.hub.UnregisterClient(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(512)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Warnf("WebSocket error for window %s: %v", c.label, err)
			}
			return
		}
	}
}

// writePump sends queued events and keeps the connection alive
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case event, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.conn.WriteJSON(event); err != nil {
				log.Warnf("WebSocket write error for window %s: %v", c.label, err)
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// Serve upgrades an HTTP request to a window connection and registers it with hub
func Serve(hub Hub, w http.ResponseWriter, r *http.Request, label string) (*Client, error) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return nil, err
	}

	client := NewClient(hub, conn, label)
	hub.RegisterClient(client)
	client.StartPumps()
	return client, nil
}
