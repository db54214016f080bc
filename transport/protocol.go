// Package transport delivers finished rasters to remote presentation
// clients over websocket and plain HTTP.
//
// A websocket client connects to the server's /ws endpoint and receives a
// JSON Header message. When the header carries no error it is followed by a
// single binary message holding the encoded raster; otherwise the connection
// is closed after the header.
package transport

import (
	"errors"
	"fmt"
)

// ErrRemote wraps a render failure reported by the server.
var ErrRemote = errors.New("transport: remote render failed")

// ErrProtocol is returned for an unexpected message from the peer.
var ErrProtocol = errors.New("transport: protocol error")

// MaxImageBytes bounds the binary image message a client accepts.
const MaxImageBytes = 256 << 20

// Header is the first message of every websocket exchange.
type Header struct {
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Format string `json:"format,omitempty"`
	Error  string `json:"error,omitempty"`
}

// Err returns the remote failure carried by h, or nil.
func (h Header) Err() error {
	if h.Error == "" {
		return nil
	}
	return fmt.Errorf("%w: %s", ErrRemote, h.Error)
}
