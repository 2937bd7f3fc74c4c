package registry

import "testing"

func TestStats_Empty(t *testing.T) {
	r := newTestRegistry()

	snap := r.Stats()
	if snap.ConnectedUsers != 0 || snap.ActiveRooms != 0 {
		t.Errorf("empty snapshot = %+v, want zero counts", snap)
	}
	if snap.NotificationSockets != 0 || snap.ChatSockets != 0 {
		t.Errorf("empty snapshot sockets = %+v, want zero", snap)
	}
}

func TestStats_CountsBothLedgers(t *testing.T) {
	r := newTestRegistry()

	a1 := newFakeHandle()
	a2 := newFakeHandle()
	b := newFakeHandle()
	r.RegisterNotify(1, a1)
	r.RegisterNotify(1, a2)
	r.RegisterNotify(2, b)

	r.RegisterChat(100, newFakeHandle(), 1)
	r.RegisterChat(100, newFakeHandle(), 2)
	r.RegisterChat(200, newFakeHandle(), 1)

	snap := r.Stats()
	if snap.ConnectedUsers != 2 {
		t.Errorf("ConnectedUsers = %d, want 2", snap.ConnectedUsers)
	}
	if snap.NotificationSockets != 3 {
		t.Errorf("NotificationSockets = %d, want 3", snap.NotificationSockets)
	}
	if snap.ActiveRooms != 2 {
		t.Errorf("ActiveRooms = %d, want 2", snap.ActiveRooms)
	}
	if snap.ChatSockets != 3 {
		t.Errorf("ChatSockets = %d, want 3", snap.ChatSockets)
	}
}

func TestStats_PerUserStatesAndOrder(t *testing.T) {
	r := newTestRegistry()

	open := newFakeHandle()
	stale := newFakeHandle()
	r.RegisterNotify(7, open)
	r.RegisterNotify(7, stale)
	r.RegisterNotify(3, newFakeHandle())
	stale.setOpen(false)

	snap := r.Stats()
	if len(snap.Users) != 2 {
		t.Fatalf("len(Users) = %d, want 2", len(snap.Users))
	}

	// Sorted ascending by user id.
	if snap.Users[0].UserID != 3 || snap.Users[1].UserID != 7 {
		t.Errorf("user order = [%d %d], want [3 7]", snap.Users[0].UserID, snap.Users[1].UserID)
	}

	u7 := snap.Users[1]
	if u7.ConnectionCount != 2 {
		t.Errorf("ConnectionCount = %d, want 2", u7.ConnectionCount)
	}
	if len(u7.ConnectionStates) != 2 || u7.ConnectionStates[0] != "open" || u7.ConnectionStates[1] != "closed" {
		t.Errorf("ConnectionStates = %v, want [open closed]", u7.ConnectionStates)
	}
}

func TestStats_IsPureRead(t *testing.T) {
	r := newTestRegistry()

	a := newFakeHandle()
	r.RegisterNotify(1, a)
	before := len(a.decoded(t))

	r.Stats()
	r.Stats()

	if got := len(a.decoded(t)); got != before {
		t.Errorf("frames after Stats = %d, want %d", got, before)
	}
	if got := len(r.NotifyConnections(1)); got != 1 {
		t.Errorf("len(NotifyConnections) = %d, want 1", got)
	}
}
