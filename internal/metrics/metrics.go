// Package metrics counts registry lifecycle and delivery events.
//
// Key counters:
//   - connections registered/unregistered per ledger
//   - events published and frames delivered per ledger
//   - send failures per ledger
//   - presence transitions broadcast
//
// Counters implement registry.Observer and are exposed through /stats.
package metrics

import (
	"sync/atomic"

	"github.com/opencircle/realtime/internal/registry"
)

// Counters is an atomic, allocation-free registry.Observer.
type Counters struct {
	notifyRegistered   atomic.Int64
	notifyUnregistered atomic.Int64
	notifyPublished    atomic.Int64
	notifySent         atomic.Int64
	notifySendFailed   atomic.Int64

	chatRegistered   atomic.Int64
	chatUnregistered atomic.Int64
	chatPublished    atomic.Int64
	chatSent         atomic.Int64
	chatSendFailed   atomic.Int64

	presenceOnline  atomic.Int64
	presenceOffline atomic.Int64
}

// NewCounters creates a zeroed counter set.
func NewCounters() *Counters {
	return &Counters{}
}

func (c *Counters) ConnectionRegistered(kind registry.Kind) {
	c.pick(kind, &c.notifyRegistered, &c.chatRegistered).Add(1)
}

func (c *Counters) ConnectionUnregistered(kind registry.Kind) {
	c.pick(kind, &c.notifyUnregistered, &c.chatUnregistered).Add(1)
}

func (c *Counters) EventPublished(kind registry.Kind) {
	c.pick(kind, &c.notifyPublished, &c.chatPublished).Add(1)
}

func (c *Counters) MessageSent(kind registry.Kind) {
	c.pick(kind, &c.notifySent, &c.chatSent).Add(1)
}

func (c *Counters) SendFailed(kind registry.Kind) {
	c.pick(kind, &c.notifySendFailed, &c.chatSendFailed).Add(1)
}

func (c *Counters) PresenceBroadcast(online bool) {
	if online {
		c.presenceOnline.Add(1)
		return
	}
	c.presenceOffline.Add(1)
}

func (c *Counters) pick(kind registry.Kind, notify, chat *atomic.Int64) *atomic.Int64 {
	if kind == registry.KindChat {
		return chat
	}
	return notify
}

// LedgerSnapshot holds the counters of one ledger.
type LedgerSnapshot struct {
	Registered   int64 `json:"registered"`
	Unregistered int64 `json:"unregistered"`
	Published    int64 `json:"published"`
	Sent         int64 `json:"sent"`
	SendFailed   int64 `json:"sendFailed"`
}

// Snapshot is a point-in-time copy of all counters.
type Snapshot struct {
	Notifications   LedgerSnapshot `json:"notifications"`
	Chat            LedgerSnapshot `json:"chat"`
	PresenceOnline  int64          `json:"presenceOnline"`
	PresenceOffline int64          `json:"presenceOffline"`
}

// Snapshot returns a consistent-enough copy for diagnostics. Individual
// loads are atomic; the set as a whole is not, which is fine for counters.
func (c *Counters) Snapshot() Snapshot {
	return Snapshot{
		Notifications: LedgerSnapshot{
			Registered:   c.notifyRegistered.Load(),
			Unregistered: c.notifyUnregistered.Load(),
			Published:    c.notifyPublished.Load(),
			Sent:         c.notifySent.Load(),
			SendFailed:   c.notifySendFailed.Load(),
		},
		Chat: LedgerSnapshot{
			Registered:   c.chatRegistered.Load(),
			Unregistered: c.chatUnregistered.Load(),
			Published:    c.chatPublished.Load(),
			Sent:         c.chatSent.Load(),
			SendFailed:   c.chatSendFailed.Load(),
		},
		PresenceOnline:  c.presenceOnline.Load(),
		PresenceOffline: c.presenceOffline.Load(),
	}
}
