package registry

// Kind distinguishes the two ledgers in observer callbacks.
type Kind string

const (
	KindNotification Kind = "notification"
	KindChat         Kind = "chat"
)

// Observer receives registry lifecycle and delivery events. Implementations
// must be cheap and non-blocking; callbacks may fire from any connection's
// goroutine. The metrics package provides the production implementation.
type Observer interface {
	// ConnectionRegistered fires after a handle is added to a ledger.
	ConnectionRegistered(kind Kind)

	// ConnectionUnregistered fires after a handle is removed. It does not
	// fire for no-op unregisters of unknown handles.
	ConnectionUnregistered(kind Kind)

	// EventPublished fires once per publish call, regardless of how many
	// sockets were open to receive it.
	EventPublished(kind Kind)

	// MessageSent fires for every frame written to an open handle.
	MessageSent(kind Kind)

	// SendFailed fires when a write to an open handle returns an error.
	SendFailed(kind Kind)

	// PresenceBroadcast fires once per presence transition broadcast.
	PresenceBroadcast(online bool)
}

// NopObserver discards all events.
type NopObserver struct{}

func (NopObserver) ConnectionRegistered(Kind)   {}
func (NopObserver) ConnectionUnregistered(Kind) {}
func (NopObserver) EventPublished(Kind)         {}
func (NopObserver) MessageSent(Kind)            {}
func (NopObserver) SendFailed(Kind)             {}
func (NopObserver) PresenceBroadcast(bool)      {}
