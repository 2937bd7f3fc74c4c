// Package transport implements the WebSocket layer in front of the
// connection registry.
//
// The transport owns connection lifecycles end to end:
//   - authenticates and upgrades inbound requests
//   - wraps each socket in a Conn implementing registry.Handle
//   - runs per-connection read and keepalive loops
//   - registers on connect and unregisters on close or error
//
// It also exposes the HTTP contracts of the registry's collaborators: the
// internal publish endpoints called by the notification and message services,
// plus health and stats introspection.
package transport
