package handlers

import (
	"net/http"

	"harmonic/websocket"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

// WindowHandler relays window commands to the desktop shell
type WindowHandler struct {
	hub websocket.Hub
}

// NewWindowHandler creates a new window handler
func NewWindowHandler(hub websocket.Hub) *WindowHandler {
	return &WindowHandler{hub: hub}
}

type ignoreCursorEventsRequest struct {
	Ignore bool `json:"ignore"`
}

// SetIgnoreCursorEvents toggles mouse pass-through for a window. It always
// answers 204: the toggle is best effort and failures are only logged.
func (h *WindowHandler) SetIgnoreCursorEvents(c *gin.Context) {
	var req ignoreCursorEventsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warnf("Invalid ignore-cursor-events request for window %s: %v", c.Param("label"), err)
		c.Status(http.StatusNoContent)
		return
	}

	h.hub.SetIgnoreCursorEvents(c.Param("label"), req.Ignore)
	c.Status(http.StatusNoContent)
}

// HandleWebSocketConnection connects a desktop window to the hub
func (h *WindowHandler) HandleWebSocketConnection(c *gin.Context) {
	label := c.Param("label")
	if _, err := websocket.Serve(h.hub, c.Writer, c.Request, label); err != nil {
		log.Warnf("Failed to upgrade connection for window %s: %v", label, err)
	}
}
