package transport

import (
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/render"
	"github.com/gorilla/websocket"

	"github.com/opencircle/realtime/internal/auth"
	"github.com/opencircle/realtime/internal/config"
	"github.com/opencircle/realtime/internal/metrics"
	"github.com/opencircle/realtime/internal/registry"
)

// Server wires the registry, token verifier, and counters behind the HTTP
// and WebSocket surface.
type Server struct {
	cfg      *config.Config
	registry *registry.Registry
	verifier *auth.Verifier
	counters *metrics.Counters
	logger   *slog.Logger
	upgrader websocket.Upgrader
}

// NewServer creates the transport server.
func NewServer(
	cfg *config.Config,
	reg *registry.Registry,
	verifier *auth.Verifier,
	counters *metrics.Counters,
	logger *slog.Logger,
) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	s := &Server{
		cfg:      cfg,
		registry: reg,
		verifier: verifier,
		counters: counters,
		logger:   logger,
	}
	s.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     s.checkOrigin,
	}
	return s
}

// Routes builds the HTTP router.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	if len(s.cfg.Server.AllowedOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   s.cfg.Server.AllowedOrigins,
			AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
			AllowedHeaders:   []string{"Authorization", "Content-Type"},
			AllowCredentials: true,
		}))
	}

	r.Get("/healthz", s.handleHealthz)
	r.Get("/stats", s.handleStats)

	r.Get("/ws/notifications", s.handleNotificationsWS)
	r.Get("/ws/chat/{conversationID}", s.handleChatWS)

	// In-process call contracts of the notification and message services,
	// exposed over loopback HTTP for the rest of the backend.
	r.Route("/internal", func(r chi.Router) {
		r.Use(s.requireInternalToken)
		r.Post("/notifications/{userID}", s.handlePublishNotification)
		r.Post("/conversations/{conversationID}/messages", s.handlePublishChat)
	})

	return r
}

// checkOrigin implements the upgrade-time origin policy: an explicit
// whitelist when configured, same-host otherwise. Non-browser clients send
// no Origin header and always pass.
func (s *Server) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}

	if len(s.cfg.Server.AllowedOrigins) == 0 {
		u, err := url.Parse(origin)
		return err == nil && strings.EqualFold(u.Host, r.Host)
	}

	for _, allowed := range s.cfg.Server.AllowedOrigins {
		if strings.EqualFold(allowed, origin) {
			return true
		}
	}
	return false
}

// authenticate resolves the caller's claims from the Authorization header or,
// for browser WebSocket clients that cannot set headers, a token query param.
func (s *Server) authenticate(r *http.Request) (*auth.Claims, error) {
	token := ""
	if h := r.Header.Get("Authorization"); h != "" {
		parts := strings.SplitN(h, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
			token = parts[1]
		}
	}
	if token == "" {
		token = r.URL.Query().Get("token")
	}
	if token == "" {
		return nil, auth.ErrInvalidToken
	}

	return s.verifier.Verify(token)
}

// requireInternalToken guards the publish endpoints with a shared secret.
func (s *Server) requireInternalToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		want := s.cfg.Server.InternalToken
		if want != "" && r.Header.Get("X-Internal-Token") != want {
			render.Status(r, http.StatusUnauthorized)
			render.JSON(w, r, map[string]string{"error": "invalid internal token"})
			return
		}
		next.ServeHTTP(w, r)
	})
}
