package config

import (
	"errors"
	"fmt"
)

// Validate checks that all required fields are set and values are valid.
func (c *Config) Validate() error {
	if c.Instance.ID == "" {
		return errors.New("instance.id is required")
	}

	if c.Server.Addr == "" {
		return errors.New("server.addr is required")
	}

	if c.Auth.JWTSecret == "" {
		return errors.New("auth.jwt_secret is required")
	}

	if c.WebSocket.WriteTimeout <= 0 {
		return errors.New("websocket.write_timeout must be positive")
	}
	if c.WebSocket.PongTimeout <= 0 {
		return errors.New("websocket.pong_timeout must be positive")
	}
	if c.WebSocket.PingInterval <= 0 {
		return errors.New("websocket.ping_interval must be positive")
	}
	if c.WebSocket.PingInterval >= c.WebSocket.PongTimeout {
		return fmt.Errorf("websocket.ping_interval (%s) must be shorter than pong_timeout (%s)",
			c.WebSocket.PingInterval, c.WebSocket.PongTimeout)
	}
	if c.WebSocket.ReadLimit < 1024 {
		return fmt.Errorf("websocket.read_limit must be >= 1024, got %d", c.WebSocket.ReadLimit)
	}

	return nil
}
