package models

import "time"

// EventKind classifies an entry in the gateway event log.
type EventKind string

const (
	// EventAuthRejected is appended when a connection attempt fails
	// authentication, for any reason (bad token, backend rejection, malformed
	// handshake).
	EventAuthRejected EventKind = "auth_rejected"
	// EventConnected is appended when an authenticated session joins its room.
	EventConnected EventKind = "connected"
	// EventDisconnected is appended when a session leaves its room.
	EventDisconnected EventKind = "disconnected"
	// EventDocumentLoaded is appended when a room's document handle is created
	// for its first member.
	EventDocumentLoaded EventKind = "document_loaded"
)

// Event is one immutable record in the gateway event log. It exists only for
// operator introspection and never drives gateway behavior.
type Event struct {
	Timestamp time.Time `json:"timestamp"`
	Kind      EventKind `json:"event"`
	User      string    `json:"user,omitempty"`
	Room      string    `json:"room,omitempty"`
	SessionID string    `json:"sessionId,omitempty"`
	// UserCount is the room's member count right after the transition that
	// produced this event.
	UserCount int `json:"userCount,omitempty"`
}
