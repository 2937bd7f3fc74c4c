package registry

import "encoding/json"

// Handle is an opaque reference to one live duplex connection. The transport
// layer owns the handle's lifecycle; the registry only looks it up and writes
// to it. IsOpen must report the live transport state, not a cached value.
type Handle interface {
	// IsOpen reports whether the underlying transport can still accept writes.
	IsOpen() bool

	// Send writes one text frame. It must not block indefinitely.
	Send(data []byte) error

	// Close shuts the connection down with a close code and reason.
	Close(code int, reason string) error
}

// participant is one user's live presence in one chat room. The same user may
// appear more than once (one entry per open tab).
type participant struct {
	handle Handle
	userID int64
}

// Participant is the exported view of a chat-room entry.
type Participant struct {
	Handle Handle
	UserID int64
}

// Envelope kinds that cross the socket.
const (
	TypeConnected    = "connected"
	TypePresenceInit = "presence_init"
	TypePresence     = "presence"
	TypeNotification = "notification"
	TypeChatMessage  = "chat_message"
)

// envelope wraps an opaque payload for notification and chat fan-out.
type envelope struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

// presenceInitEvent is sent once to a freshly registered notification
// connection, listing every other currently-online user id.
type presenceInitEvent struct {
	Type string  `json:"type"`
	Data []int64 `json:"data"`
}

// presenceEvent announces one user's online/offline transition.
type presenceEvent struct {
	Type     string `json:"type"`
	UserID   int64  `json:"userId"`
	IsOnline bool   `json:"isOnline"`
}

// marshalEnvelope encodes payload under the type/data envelope.
func marshalEnvelope(kind string, payload any) ([]byte, error) {
	return json.Marshal(envelope{Type: kind, Data: payload})
}
