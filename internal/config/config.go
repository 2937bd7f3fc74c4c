package config

import "time"

// Config is the root configuration for a realtime instance.
type Config struct {
	Instance  InstanceConfig  `yaml:"instance"`
	Server    ServerConfig    `yaml:"server"`
	Auth      AuthConfig      `yaml:"auth"`
	Presence  PresenceConfig  `yaml:"presence"`
	WebSocket WebSocketConfig `yaml:"websocket"`
}

// InstanceConfig identifies this realtime instance.
type InstanceConfig struct {
	ID string `yaml:"id"`
}

// ServerConfig holds the HTTP/WebSocket server settings.
type ServerConfig struct {
	Addr string `yaml:"addr"`

	// AllowedOrigins whitelists browser origins for the WebSocket upgrade and
	// CORS. Empty means same-origin only.
	AllowedOrigins []string `yaml:"allowed_origins"`

	// InternalToken guards the /internal publish endpoints used by the
	// notification and message services. Empty disables the check (local dev).
	InternalToken string `yaml:"internal_token"`

	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// AuthConfig holds token verification settings for the upgrade handshake.
type AuthConfig struct {
	JWTSecret string `yaml:"jwt_secret"`
}

// PresenceConfig holds presence broadcast policy.
type PresenceConfig struct {
	// BroadcastOffline controls whether dropping a user's last connection
	// broadcasts an isOnline:false transition. Unset means enabled.
	BroadcastOffline *bool `yaml:"broadcast_offline"`
}

// OfflineEnabled resolves the offline broadcast policy.
func (p PresenceConfig) OfflineEnabled() bool {
	return p.BroadcastOffline == nil || *p.BroadcastOffline
}

// WebSocketConfig holds per-connection transport settings.
type WebSocketConfig struct {
	WriteTimeout time.Duration `yaml:"write_timeout"`
	PongTimeout  time.Duration `yaml:"pong_timeout"`
	PingInterval time.Duration `yaml:"ping_interval"`
	ReadLimit    int64         `yaml:"read_limit"`
}
