// Package connect exposes Pippin over long-lived connections.
package connect

import (
	"context"
)

// Channel is a surface that pushes replies to connected clients.
type Channel interface {
	Name() string
	Start(ctx context.Context) error
	Broadcast(message string) error
}

var _ Channel = (*WebSocketChannel)(nil)
