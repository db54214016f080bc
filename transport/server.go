package transport

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	mandel "github.com/marben/strip_mandel"
	"github.com/marben/strip_mandel/display"
)

// WriteTimeout bounds sending one raster to a websocket client.
const WriteTimeout = 30 * time.Second

// HandlerOptions configures Handler.
type HandlerOptions struct {
	// OriginPatterns is passed to websocket.Accept. nil allows same-origin
	// requests only.
	OriginPatterns []string
}

// Handler serves the raster of p to websocket clients. GetImage is called
// once per connection, so clients connecting before the render finishes
// wait for it.
func Handler(p mandel.ImgProvider, opts HandlerOptions) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			OriginPatterns: opts.OriginPatterns,
		})
		if err != nil {
			mandel.Logger().Warn("websocket accept failed", "remote", r.RemoteAddr, "err", err)
			return
		}
		defer c.CloseNow()

		if err := serveConn(r.Context(), c, p); err != nil {
			mandel.Logger().Warn("websocket client failed", "remote", r.RemoteAddr, "err", err)
			return
		}
		c.Close(websocket.StatusNormalClosure, "")
	}
}

func serveConn(ctx context.Context, c *websocket.Conn, p mandel.ImgProvider) error {
	// Notices a client that disconnects while the render is still running.
	ctx = c.CloseRead(ctx)

	img, err := p.GetImage(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		wctx, cancel := context.WithTimeout(ctx, WriteTimeout)
		defer cancel()
		return wsjson.Write(wctx, c, Header{Error: err.Error()})
	}

	var buf bytes.Buffer
	if err := display.Encode(&buf, img, display.PNG); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, WriteTimeout)
	defer cancel()

	b := img.Bounds()
	if err := wsjson.Write(ctx, c, Header{Width: b.Dx(), Height: b.Dy(), Format: string(display.PNG)}); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	if err := c.Write(ctx, websocket.MessageBinary, buf.Bytes()); err != nil {
		return fmt.Errorf("write image: %w", err)
	}

	mandel.Logger().Debug("image sent", "bytes", buf.Len())
	return nil
}

// ImageHandler serves the raster of p as an image file. The optional query
// parameters are w (preview width, aspect ratio kept) and format (png,
// jpeg, bmp or tiff).
func ImageHandler(p mandel.ImgProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		format := display.PNG
		if f := r.URL.Query().Get("format"); f != "" {
			var err error
			if format, err = display.ParseFormat(f); err != nil {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
		}
		width := 0
		if s := r.URL.Query().Get("w"); s != "" {
			n, err := strconv.Atoi(s)
			if err != nil || n < 1 {
				http.Error(w, "transport: invalid width "+strconv.Quote(s), http.StatusBadRequest)
				return
			}
			width = n
		}

		img, err := p.GetImage(r.Context())
		if err != nil {
			status := http.StatusInternalServerError
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				status = http.StatusServiceUnavailable
			}
			http.Error(w, err.Error(), status)
			return
		}

		out := display.Scale(img, width)
		var buf bytes.Buffer
		if err := display.Encode(&buf, out, format); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", format.ContentType())
		w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
		if _, err := w.Write(buf.Bytes()); err != nil {
			mandel.Logger().Warn("image write failed", "remote", r.RemoteAddr, "err", err)
		}
	}
}
