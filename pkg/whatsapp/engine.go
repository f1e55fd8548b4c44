package whatsapp

import (
	"context"

	"go.mau.fi/whatsmeow/store"
)

// Engine creates whatsmeow-backed connections for the session manager.
type Engine struct {
	ProxyURL string
}

// RefreshVersion negotiates the protocol version before a connection is
// built. Errors leave the previously applied version in place.
func (e *Engine) RefreshVersion(ctx context.Context) error {
	_, _, err := RefreshWAVersion(ctx, false)
	return err
}

func (e *Engine) NewConn(device *store.Device, handler func(any)) Conn {
	return NewClient(device, handler, e.ProxyURL)
}
