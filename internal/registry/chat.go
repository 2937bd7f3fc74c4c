package registry

// RegisterChat adds a (connection, participant) pair to a conversation's
// ledger, creating the room entry if absent. Unlike notification register
// there is no snapshot side effect: room membership is established by the
// REST layer before the socket ever connects.
func (r *Registry) RegisterChat(conversationID int64, h Handle, userID int64) {
	r.chatMu.Lock()
	r.rooms[conversationID] = append(r.rooms[conversationID], participant{handle: h, userID: userID})
	r.chatMu.Unlock()

	r.observer.ConnectionRegistered(KindChat)
	r.logger.Debug("chat connection registered",
		"conversation_id", conversationID,
		"user_id", userID,
	)
}

// UnregisterChat removes the entry whose handle matches by reference
// equality. Lookup is by handle, not user id, since one user may hold several
// connections in the same room. The room entry is deleted once empty.
// Unknown handles are a no-op.
func (r *Registry) UnregisterChat(conversationID int64, h Handle) {
	r.chatMu.Lock()
	parts := r.rooms[conversationID]
	removed := false
	for i, p := range parts {
		if p.handle == h {
			parts = append(parts[:i], parts[i+1:]...)
			removed = true
			break
		}
	}
	if removed {
		if len(parts) == 0 {
			delete(r.rooms, conversationID)
		} else {
			r.rooms[conversationID] = parts
		}
	}
	r.chatMu.Unlock()

	if !removed {
		return
	}

	r.observer.ConnectionUnregistered(KindChat)
	r.logger.Debug("chat connection unregistered", "conversation_id", conversationID)
}

// ChatConnections returns a copy of the room's live participant entries, in
// insertion order. Unknown rooms yield an empty slice.
func (r *Registry) ChatConnections(conversationID int64) []Participant {
	r.chatMu.Lock()
	defer r.chatMu.Unlock()

	parts := r.rooms[conversationID]
	out := make([]Participant, len(parts))
	for i, p := range parts {
		out[i] = Participant{Handle: p.handle, UserID: p.userID}
	}
	return out
}

// PublishChat fans payload out to every open participant connection in the
// room, wrapped in a chat_message envelope. The payload is a fully-formed
// message assembled by the message service; the registry passes it through
// opaquely. Same best-effort semantics as notification publish.
func (r *Registry) PublishChat(conversationID int64, payload any) {
	frame, err := marshalEnvelope(TypeChatMessage, payload)
	if err != nil {
		r.logger.Warn("drop unencodable chat message",
			"conversation_id", conversationID,
			"error", err,
		)
		return
	}

	r.observer.EventPublished(KindChat)

	r.chatMu.Lock()
	parts := r.rooms[conversationID]
	handles := make([]Handle, len(parts))
	for i, p := range parts {
		handles[i] = p.handle
	}
	r.chatMu.Unlock()

	if len(handles) == 0 {
		return
	}

	r.sendTo(KindChat, handles, frame)
}
