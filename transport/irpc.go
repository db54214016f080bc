package transport

import (
	"context"
	"fmt"
	"image"
	"io"
	"net"
	"strings"

	"github.com/coder/websocket"
	"github.com/marben/irpc"
	mandel "github.com/marben/strip_mandel"
)

// FetchIrpc connects to the irpc ImgProvider service at addr and returns the
// rendered image. addr is either a ws:// or wss:// url of the server's irpc
// websocket endpoint or a host:port of its tcp listener.
func FetchIrpc(ctx context.Context, addr string) (*image.RGBA, error) {
	if strings.HasPrefix(addr, "ws://") || strings.HasPrefix(addr, "wss://") {
		c, _, err := websocket.Dial(ctx, addr, nil)
		if err != nil {
			return nil, fmt.Errorf("websocket.Dial: %w", err)
		}
		c.SetReadLimit(MaxImageBytes)
		return ReadIrpc(ctx, websocket.NetConn(ctx, c, websocket.MessageBinary))
	}

	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("net.Dial: %w", err)
	}
	return ReadIrpc(ctx, conn)
}

// ReadIrpc calls GetImage on the service at the other end of conn and closes
// conn once the call returns.
func ReadIrpc(ctx context.Context, conn io.ReadWriteCloser) (*image.RGBA, error) {
	ep := irpc.NewEndpoint(conn)
	defer ep.Close()

	client, err := mandel.NewImgProviderIrpcClient(ep)
	if err != nil {
		return nil, err
	}

	img, err := client.GetImage(ctx)
	if err != nil {
		return nil, fmt.Errorf("client.GetImage: %w", err)
	}
	if img == nil {
		return nil, fmt.Errorf("%w: no image", ErrProtocol)
	}
	if w, h := img.Rect.Dx(), img.Rect.Dy(); w <= 0 || h <= 0 || img.Stride != 4*w || len(img.Pix) != img.Stride*h {
		return nil, fmt.Errorf("%w: malformed %dx%d raster", ErrProtocol, w, h)
	}
	return img, nil
}
