package types

import "time"

// Window event types sent to the desktop shell
const (
	EventIgnoreCursorEvents = "ignore-cursor-events"
	EventSettingsChanged    = "settings-changed"
	EventLibraryChanged     = "library-changed"
)

// AllWindows is the label used by clients that want every event
const AllWindows = "all"

// WindowEvent represents a WebSocket message for a desktop window
type WindowEvent struct {
	Type      string    `json:"type"`             // one of the Event* constants
	Label     string    `json:"label"`            // target window label
	Ignore    *bool     `json:"ignore,omitempty"` // pass-through state for ignore-cursor-events
	Path      string    `json:"path,omitempty"`   // changed file for library-changed
	Op        string    `json:"op,omitempty"`     // fs operation for library-changed
	Payload   any       `json:"payload,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}
