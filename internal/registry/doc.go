// Package registry implements the Connection Registry, the in-memory ledger of
// live WebSocket connections for the realtime layer.
//
// The registry owns two independent ledgers:
//   - Notifications: user id → live connections (one user may hold several,
//     one per tab or device). Registering the first connection announces the
//     user online; removing the last one can announce them offline.
//   - Chat rooms: conversation id → live (connection, participant) pairs.
//
// The registry is a passive ledger, not a health monitor: it holds non-owning
// handle references, re-queries IsOpen at send time, and relies on the
// transport layer to unregister handles when they die. Every publish is
// best-effort fan-out with no retry, queueing, or persistence.
package registry
