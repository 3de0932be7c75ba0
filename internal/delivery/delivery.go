// Package delivery defines the contract every transport-facing server
// implements, so the entrypoint can start them uniformly.
package delivery

import "context"

// Delivery is a long-running server (HTTP, websocket, worker).
type Delivery interface {
	// Serve blocks until the server stops or the context is cancelled.
	Serve(ctx context.Context) error
}
