package metrics

import (
	"testing"

	"github.com/opencircle/realtime/internal/registry"
)

func TestCounters_PerLedger(t *testing.T) {
	c := NewCounters()

	c.ConnectionRegistered(registry.KindNotification)
	c.ConnectionRegistered(registry.KindNotification)
	c.ConnectionRegistered(registry.KindChat)
	c.ConnectionUnregistered(registry.KindNotification)
	c.EventPublished(registry.KindChat)
	c.MessageSent(registry.KindChat)
	c.MessageSent(registry.KindChat)
	c.SendFailed(registry.KindNotification)

	snap := c.Snapshot()
	if snap.Notifications.Registered != 2 {
		t.Errorf("Notifications.Registered = %d, want 2", snap.Notifications.Registered)
	}
	if snap.Notifications.Unregistered != 1 {
		t.Errorf("Notifications.Unregistered = %d, want 1", snap.Notifications.Unregistered)
	}
	if snap.Notifications.SendFailed != 1 {
		t.Errorf("Notifications.SendFailed = %d, want 1", snap.Notifications.SendFailed)
	}
	if snap.Chat.Registered != 1 {
		t.Errorf("Chat.Registered = %d, want 1", snap.Chat.Registered)
	}
	if snap.Chat.Published != 1 {
		t.Errorf("Chat.Published = %d, want 1", snap.Chat.Published)
	}
	if snap.Chat.Sent != 2 {
		t.Errorf("Chat.Sent = %d, want 2", snap.Chat.Sent)
	}
}

func TestCounters_Presence(t *testing.T) {
	c := NewCounters()

	c.PresenceBroadcast(true)
	c.PresenceBroadcast(true)
	c.PresenceBroadcast(false)

	snap := c.Snapshot()
	if snap.PresenceOnline != 2 {
		t.Errorf("PresenceOnline = %d, want 2", snap.PresenceOnline)
	}
	if snap.PresenceOffline != 1 {
		t.Errorf("PresenceOffline = %d, want 1", snap.PresenceOffline)
	}
}

func TestCounters_ObserverThroughRegistry(t *testing.T) {
	c := NewCounters()
	r := registry.New(registry.DefaultConfig(), nil, c)

	h := &openHandle{}
	r.RegisterNotify(1, h)
	r.PublishNotification(1, map[string]string{"msg": "hi"})
	r.UnregisterNotify(1, h)

	snap := c.Snapshot()
	if snap.Notifications.Registered != 1 {
		t.Errorf("Registered = %d, want 1", snap.Notifications.Registered)
	}
	if snap.Notifications.Published != 1 {
		t.Errorf("Published = %d, want 1", snap.Notifications.Published)
	}
	if snap.Notifications.Unregistered != 1 {
		t.Errorf("Unregistered = %d, want 1", snap.Notifications.Unregistered)
	}
	if snap.PresenceOnline != 1 {
		t.Errorf("PresenceOnline = %d, want 1", snap.PresenceOnline)
	}
	if snap.PresenceOffline != 1 {
		t.Errorf("PresenceOffline = %d, want 1", snap.PresenceOffline)
	}
}

type openHandle struct{}

func (openHandle) IsOpen() bool            { return true }
func (openHandle) Send([]byte) error       { return nil }
func (openHandle) Close(int, string) error { return nil }
