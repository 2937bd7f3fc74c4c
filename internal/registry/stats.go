package registry

import "sort"

// UserStat describes one user's notification connections.
type UserStat struct {
	UserID           int64    `json:"userId"`
	ConnectionCount  int      `json:"connectionCount"`
	ConnectionStates []string `json:"connectionStates"`
}

// Snapshot is a point-in-time view of registry health.
type Snapshot struct {
	ConnectedUsers      int        `json:"connectedUsers"`
	ActiveRooms         int        `json:"activeRooms"`
	NotificationSockets int        `json:"notificationSockets"`
	ChatSockets         int        `json:"chatSockets"`
	Users               []UserStat `json:"users"`
}

// Stats returns a read-only snapshot of both ledgers for diagnostics. It is
// a pure read: handle states are queried live and nothing is mutated. Cost is
// proportional to the current registry size.
func (r *Registry) Stats() Snapshot {
	snap := Snapshot{Users: []UserStat{}}

	r.notifyMu.Lock()
	snap.ConnectedUsers = len(r.notify)
	for id, handles := range r.notify {
		states := make([]string, len(handles))
		for i, h := range handles {
			if h.IsOpen() {
				states[i] = "open"
			} else {
				states[i] = "closed"
			}
		}
		snap.NotificationSockets += len(handles)
		snap.Users = append(snap.Users, UserStat{
			UserID:           id,
			ConnectionCount:  len(handles),
			ConnectionStates: states,
		})
	}
	r.notifyMu.Unlock()

	r.chatMu.Lock()
	snap.ActiveRooms = len(r.rooms)
	for _, parts := range r.rooms {
		snap.ChatSockets += len(parts)
	}
	r.chatMu.Unlock()

	// Stable output for clients and tests.
	sort.Slice(snap.Users, func(i, j int) bool { return snap.Users[i].UserID < snap.Users[j].UserID })

	return snap
}
