package registry

import (
	"encoding/json"
	"sort"
)

// RegisterNotify adds a notification connection for a user. The new handle
// immediately receives a presence_init frame listing every other
// currently-online user, and every other user's connections receive an
// isOnline:true presence transition. Registering never fails: there are no
// duplicate checks or capacity limits at this layer.
func (r *Registry) RegisterNotify(userID int64, h Handle) {
	r.notifyMu.Lock()
	r.notify[userID] = append(r.notify[userID], h)
	online := r.otherOnlineUsersLocked(userID)
	r.notifyMu.Unlock()

	r.observer.ConnectionRegistered(KindNotification)
	r.logger.Debug("notification connection registered", "user_id", userID)

	init, err := json.Marshal(presenceInitEvent{Type: TypePresenceInit, Data: online})
	if err == nil {
		r.sendTo(KindNotification, []Handle{h}, init)
	}

	// The new handle already holds the full snapshot, so the transition goes
	// only to everyone else.
	r.BroadcastPresence(userID, true)
}

// UnregisterNotify removes a notification connection by reference equality.
// Unknown handles are a no-op, which tolerates duplicate close events. When
// the last handle for a user is removed the user's entry is deleted, and an
// isOnline:false transition is broadcast if the offline policy is enabled.
func (r *Registry) UnregisterNotify(userID int64, h Handle) {
	r.notifyMu.Lock()
	handles, removed := removeHandle(r.notify[userID], h)
	emptied := false
	if removed {
		if len(handles) == 0 {
			delete(r.notify, userID)
			emptied = true
		} else {
			r.notify[userID] = handles
		}
	}
	r.notifyMu.Unlock()

	if !removed {
		return
	}

	r.observer.ConnectionUnregistered(KindNotification)
	r.logger.Debug("notification connection unregistered",
		"user_id", userID,
		"last", emptied,
	)

	if emptied && r.cfg.BroadcastOffline {
		r.BroadcastPresence(userID, false)
	}
}

// NotifyConnections returns a copy of the user's live notification handles,
// in insertion order. Unknown users yield an empty slice.
func (r *Registry) NotifyConnections(userID int64) []Handle {
	r.notifyMu.Lock()
	defer r.notifyMu.Unlock()

	out := make([]Handle, len(r.notify[userID]))
	copy(out, r.notify[userID])
	return out
}

// PublishNotification fans payload out to every open connection of userID,
// wrapped in a notification envelope. Delivery is best-effort and at most
// once: closed sockets are skipped, failed writes are logged, and an unknown
// user is silently a no-op. Durability of missed events belongs to the
// notification store, not this registry.
func (r *Registry) PublishNotification(userID int64, payload any) {
	frame, err := marshalEnvelope(TypeNotification, payload)
	if err != nil {
		r.logger.Warn("drop unencodable notification", "user_id", userID, "error", err)
		return
	}

	r.observer.EventPublished(KindNotification)

	handles := r.NotifyConnections(userID)
	if len(handles) == 0 {
		return
	}

	r.sendTo(KindNotification, handles, frame)
}

// BroadcastPresence announces userID's online/offline transition to every
// open connection of every other user.
func (r *Registry) BroadcastPresence(userID int64, isOnline bool) {
	frame, err := json.Marshal(presenceEvent{Type: TypePresence, UserID: userID, IsOnline: isOnline})
	if err != nil {
		return
	}

	r.notifyMu.Lock()
	var targets []Handle
	for id, handles := range r.notify {
		if id == userID {
			continue
		}
		targets = append(targets, handles...)
	}
	r.notifyMu.Unlock()

	r.observer.PresenceBroadcast(isOnline)
	r.sendTo(KindNotification, targets, frame)
}

// otherOnlineUsersLocked returns the distinct ids of every online user except
// userID, ascending. Callers must hold notifyMu.
func (r *Registry) otherOnlineUsersLocked(userID int64) []int64 {
	ids := make([]int64, 0, len(r.notify))
	for id := range r.notify {
		if id != userID {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
