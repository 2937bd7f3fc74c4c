package transport

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/opencircle/realtime/internal/version"
)

// maxPublishBytes caps the payload size of internal publish requests.
const maxPublishBytes = 1 << 20

// handleNotificationsWS upgrades a notification stream. The connection stays
// registered for exactly as long as the read loop runs; unregister on the way
// out is idempotent, so racing close events are harmless.
func (s *Server) handleNotificationsWS(w http.ResponseWriter, r *http.Request) {
	claims, err := s.authenticate(r)
	if err != nil {
		render.Status(r, http.StatusUnauthorized)
		render.JSON(w, r, map[string]string{"error": "authentication required"})
		return
	}

	ws, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already written the error response.
		s.logger.Warn("notification upgrade failed", "user_id", claims.UserID, "error", err)
		return
	}

	conn := newConn(ws, s.cfg.WebSocket, s.logger.With("user_id", claims.UserID))
	s.logger.Info("notification connection opened", "user_id", claims.UserID, "conn_id", conn.ID())

	conn.sendConnected("notification stream established")
	s.registry.RegisterNotify(claims.UserID, conn)

	go conn.runPingLoop()
	conn.runReadLoop()

	s.registry.UnregisterNotify(claims.UserID, conn)
	s.logger.Info("notification connection closed", "user_id", claims.UserID, "conn_id", conn.ID())
}

// handleChatWS upgrades a chat-room stream. Room membership was already
// validated by the REST layer that handed the client this room's id.
func (s *Server) handleChatWS(w http.ResponseWriter, r *http.Request) {
	claims, err := s.authenticate(r)
	if err != nil {
		render.Status(r, http.StatusUnauthorized)
		render.JSON(w, r, map[string]string{"error": "authentication required"})
		return
	}

	conversationID, err := strconv.ParseInt(chi.URLParam(r, "conversationID"), 10, 64)
	if err != nil {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, map[string]string{"error": "invalid conversation id"})
		return
	}

	ws, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("chat upgrade failed",
			"user_id", claims.UserID,
			"conversation_id", conversationID,
			"error", err,
		)
		return
	}

	conn := newConn(ws, s.cfg.WebSocket, s.logger.With(
		"user_id", claims.UserID,
		"conversation_id", conversationID,
	))
	s.logger.Info("chat connection opened",
		"user_id", claims.UserID,
		"conversation_id", conversationID,
		"conn_id", conn.ID(),
	)

	conn.sendConnected("chat stream established")
	s.registry.RegisterChat(conversationID, conn, claims.UserID)

	go conn.runPingLoop()
	conn.runReadLoop()

	s.registry.UnregisterChat(conversationID, conn)
	s.logger.Info("chat connection closed",
		"user_id", claims.UserID,
		"conversation_id", conversationID,
		"conn_id", conn.ID(),
	)
}

// handlePublishNotification is the notification service contract: the body is
// an already-persisted notification object, fanned out as-is. The response is
// 202 regardless of how many sockets were reachable; live push is best-effort
// and must never fail the caller's transaction.
func (s *Server) handlePublishNotification(w http.ResponseWriter, r *http.Request) {
	userID, err := strconv.ParseInt(chi.URLParam(r, "userID"), 10, 64)
	if err != nil {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, map[string]string{"error": "invalid user id"})
		return
	}

	payload, ok := readJSONPayload(w, r)
	if !ok {
		return
	}

	s.registry.PublishNotification(userID, payload)

	render.Status(r, http.StatusAccepted)
	render.JSON(w, r, map[string]string{"status": "accepted"})
}

// handlePublishChat is the message service contract, analogous to above.
func (s *Server) handlePublishChat(w http.ResponseWriter, r *http.Request) {
	conversationID, err := strconv.ParseInt(chi.URLParam(r, "conversationID"), 10, 64)
	if err != nil {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, map[string]string{"error": "invalid conversation id"})
		return
	}

	payload, ok := readJSONPayload(w, r)
	if !ok {
		return
	}

	s.registry.PublishChat(conversationID, payload)

	render.Status(r, http.StatusAccepted)
	render.JSON(w, r, map[string]string{"status": "accepted"})
}

// handleStats returns the registry snapshot plus delivery counters.
func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, map[string]any{
		"instance": s.cfg.Instance.ID,
		"registry": s.registry.Stats(),
		"delivery": s.counters.Snapshot(),
	})
}

// handleHealthz is a trivial liveness probe.
func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, map[string]string{
		"status":  "ok",
		"version": version.String(),
	})
}

// readJSONPayload reads and validates an opaque JSON body. The registry never
// inspects payload schemas, but a body that is not JSON at all could never
// cross the socket inside an envelope, so it is rejected here.
func readJSONPayload(w http.ResponseWriter, r *http.Request) (json.RawMessage, bool) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxPublishBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			render.Status(r, http.StatusRequestEntityTooLarge)
			render.JSON(w, r, map[string]string{"error": "payload too large"})
			return nil, false
		}
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, map[string]string{"error": "unreadable body"})
		return nil, false
	}

	if !json.Valid(body) {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, map[string]string{"error": "body must be valid json"})
		return nil, false
	}

	return json.RawMessage(body), true
}
