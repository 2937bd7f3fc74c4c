package registry

import (
	"log/slog"
	"sync"
)

// Config holds registry policy settings.
type Config struct {
	// BroadcastOffline controls whether removing a user's last notification
	// connection broadcasts an isOnline:false presence transition. Online
	// transitions are always broadcast on register.
	BroadcastOffline bool
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		BroadcastOffline: true,
	}
}

// Registry is the process-wide connection ledger. Construct one instance at
// startup and inject it into every collaborator that registers connections or
// publishes events. All methods are safe for concurrent use.
type Registry struct {
	cfg      Config
	logger   *slog.Logger
	observer Observer

	// Notification ledger: user id → handles, insertion order.
	notifyMu sync.Mutex
	notify   map[int64][]Handle

	// Chat ledger: conversation id → participants, insertion order.
	chatMu sync.Mutex
	rooms  map[int64][]participant
}

// New creates an empty registry.
func New(cfg Config, logger *slog.Logger, observer Observer) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	if observer == nil {
		observer = NopObserver{}
	}

	return &Registry{
		cfg:      cfg,
		logger:   logger,
		observer: observer,
		notify:   make(map[int64][]Handle),
		rooms:    make(map[int64][]participant),
	}
}

// sendTo writes one pre-encoded frame to every open handle in the set.
// Closed handles are skipped and left in place; cleanup is the transport
// layer's job via unregister. Write errors are logged and counted, never
// propagated: one failing socket must not abort the rest of the fan-out.
func (r *Registry) sendTo(kind Kind, handles []Handle, frame []byte) {
	for _, h := range handles {
		if !h.IsOpen() {
			continue
		}
		if err := h.Send(frame); err != nil {
			r.observer.SendFailed(kind)
			r.logger.Warn("send failed", "kind", string(kind), "error", err)
			continue
		}
		r.observer.MessageSent(kind)
	}
}

// removeHandle deletes the first entry equal to h (reference equality) and
// returns the filtered slice plus whether anything was removed.
func removeHandle(handles []Handle, h Handle) ([]Handle, bool) {
	for i, cur := range handles {
		if cur == h {
			return append(handles[:i], handles[i+1:]...), true
		}
	}
	return handles, false
}
