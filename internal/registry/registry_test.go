package registry

import (
	"sync"
	"testing"
)

// Drives both ledgers from many goroutines at once; meaningful under -race.
func TestRegistry_ConcurrentLifecycles(t *testing.T) {
	r := newTestRegistry()

	const users = 8
	const connsPerUser = 4

	var wg sync.WaitGroup
	for u := int64(1); u <= users; u++ {
		for c := 0; c < connsPerUser; c++ {
			wg.Add(1)
			go func(userID int64) {
				defer wg.Done()

				h := newFakeHandle()
				r.RegisterNotify(userID, h)
				r.PublishNotification(userID, map[string]string{"msg": "hi"})
				r.RegisterChat(userID, h, userID)
				r.PublishChat(userID, map[string]string{"content": "x"})
				r.UnregisterChat(userID, h)
				r.UnregisterNotify(userID, h)
				// Duplicate close events race in from the transport layer.
				r.UnregisterNotify(userID, h)
			}(u)
		}
	}

	done := make(chan struct{})
	go func() {
		for i := 0; i < 100; i++ {
			r.Stats()
		}
		close(done)
	}()

	wg.Wait()
	<-done

	snap := r.Stats()
	if snap.ConnectedUsers != 0 || snap.NotificationSockets != 0 {
		t.Errorf("notification ledger not drained: %+v", snap)
	}
	if snap.ActiveRooms != 0 || snap.ChatSockets != 0 {
		t.Errorf("chat ledger not drained: %+v", snap)
	}
}
