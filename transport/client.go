package transport

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/draw"
	"image/png"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
)

// Fetch dials url and reads the raster the server sends.
func Fetch(ctx context.Context, url string) (*image.RGBA, error) {
	c, _, err := websocket.Dial(ctx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("websocket.Dial: %w", err)
	}
	defer c.CloseNow()

	img, err := ReadRaster(ctx, c)
	if err != nil {
		return nil, err
	}
	c.Close(websocket.StatusNormalClosure, "")
	return img, nil
}

// ReadRaster reads one header and image exchange from c. A failure reported
// by the server is returned wrapping ErrRemote.
func ReadRaster(ctx context.Context, c *websocket.Conn) (*image.RGBA, error) {
	c.SetReadLimit(MaxImageBytes)

	var h Header
	if err := wsjson.Read(ctx, c, &h); err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	if err := h.Err(); err != nil {
		return nil, err
	}

	typ, data, err := c.Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("read image: %w", err)
	}
	if typ != websocket.MessageBinary {
		return nil, fmt.Errorf("%w: image sent as %s message", ErrProtocol, typ)
	}

	decoded, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	if b := decoded.Bounds(); b.Dx() != h.Width || b.Dy() != h.Height {
		return nil, fmt.Errorf("%w: header says %dx%d, image is %dx%d", ErrProtocol, h.Width, h.Height, b.Dx(), b.Dy())
	}
	return toRGBA(decoded), nil
}

func toRGBA(img image.Image) *image.RGBA {
	if rgba, ok := img.(*image.RGBA); ok && rgba.Rect.Min == (image.Point{}) {
		return rgba
	}
	b := img.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(rgba, rgba.Bounds(), img, b.Min, draw.Src)
	return rgba
}
