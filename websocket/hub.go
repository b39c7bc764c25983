package websocket

import (
	"sync"
	"time"

	"harmonic/types"

	log "github.com/sirupsen/logrus"
)

// Hub interface defines the methods for managing window connections
type Hub interface {
	Run()
	Broadcast(event types.WindowEvent) bool
	SetIgnoreCursorEvents(label string, ignore bool)
	NotifyLibraryChanged(path, op string)
	NotifySettingsChanged(settings any)
	IsConnected(label string) bool
	RegisterClient(client *Client)
	UnregisterClient(client *Client)
}

// hub maintains the set of connected windows and dispatches events to them
type hub struct {
	// Registered clients mapped by window label
	clients map[string]map[*Client]bool

	broadcast  chan types.WindowEvent
	register   chan *Client
	unregister chan *Client

	mu sync.RWMutex
}

// NewHub creates a new window hub
func NewHub() Hub {
	return &hub{
		clients:    make(map[string]map[*Client]bool),
		broadcast:  make(chan types.WindowEvent, 64),
		register:   make(chan *Client),
		unregister: make(chan *Client),
	}
}

// Run starts the hub's main event loop
func (h *hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			if h.clients[client.label] == nil {
				h.clients[client.label] = make(map[*Client]bool)
			}
			h.clients[client.label][client] = true
			h.mu.Unlock()
			log.Infof("Window %s connected", client.label)

		case client := <-h.unregister:
			h.mu.Lock()
			h.removeLocked(client)
			h.mu.Unlock()
			log.Infof("Window %s disconnected", client.label)

		case event := <-h.broadcast:
			h.mu.Lock()
			if event.Label == types.AllWindows {
				for label := range h.clients {
					h.deliverLocked(label, event)
				}
			} else {
				h.deliverLocked(event.Label, event)
				h.deliverLocked(types.AllWindows, event)
			}
			h.mu.Unlock()
		}
	}
}

// deliverLocked sends event to every client of label, dropping clients whose buffer is full
func (h *hub) deliverLocked(label string, event types.WindowEvent) {
	for client := range h.clients[label] {
		select {
		case client.send <- event:
		default:
			log.Warnf("Window %s is not reading, dropping connection", label)
			h.removeLocked(client)
		}
	}
}

func (h *hub) removeLocked(client *Client) {
	clients, ok := h.clients[client.label]
	if !ok {
		return
	}
	if _, ok := clients[client]; ok {
		delete(clients, client)
		close(client.send)
		if len(clients) == 0 {
			delete(h.clients, client.label)
		}
	}
}

// Broadcast queues an event for the windows with its label and for "all" listeners.
// Events labelled "all" go to every window. It reports false when the queue
// is full and the event was dropped.
func (h *hub) Broadcast(event types.WindowEvent) bool {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	select {
	case h.broadcast <- event:
		return true
	default:
		log.Warnf("Window broadcast channel full, dropping %s event for %s", event.Type, event.Label)
		return false
	}
}

// SetIgnoreCursorEvents asks a window to let mouse input pass through it.
// It is best effort: failures are only logged.
func (h *hub) SetIgnoreCursorEvents(label string, ignore bool) {
	if !h.IsConnected(label) {
		log.Warnf("Failed to set ignore cursor events: window %s is not connected", label)
		return
	}

	h.Broadcast(types.WindowEvent{
		Type:   types.EventIgnoreCursorEvents,
		Label:  label,
		Ignore: &ignore,
	})
}

// NotifyLibraryChanged tells every window that a file in the library changed
func (h *hub) NotifyLibraryChanged(path, op string) {
	h.Broadcast(types.WindowEvent{
		Type:  types.EventLibraryChanged,
		Label: types.AllWindows,
		Path:  path,
		Op:    op,
	})
}

// NotifySettingsChanged sends updated settings so other windows can sync
func (h *hub) NotifySettingsChanged(settings any) {
	h.Broadcast(types.WindowEvent{
		Type:    types.EventSettingsChanged,
		Label:   types.AllWindows,
		Payload: settings,
	})
}

// IsConnected reports whether at least one client is registered for label
func (h *hub) IsConnected(label string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[label]) > 0
}

// RegisterClient registers a new client with the hub
func (h *hub) RegisterClient(client *Client) {
	h.register <- client
}

// UnregisterClient unregisters a client from the hub
func (h *hub) UnregisterClient(client *Client) {
	h.unregister <- client
}
