// Package render computes Mandelbrot strips on the local CPU.
package render

import (
	"context"
	"fmt"

	mandel "github.com/marben/strip_mandel"
	"github.com/marben/strip_mandel/complexnum"
)

// RendererImpl renders strips with Evaluate. The zero value is ready to use.
type RendererImpl struct {
	// OnStripRender, if set, is called before a strip is computed.
	OnStripRender func(s mandel.Strip)
	// Palette colors each pixel. nil means Evaluate.
	Palette Palette
}

var _ mandel.Renderer = RendererImpl{}

// RenderStrip colors every pixel of s and returns the strip-local fragment.
// Pixels are mapped around the center of the full p.Width × p.Height raster,
// so neighbouring strips join without seams.
func (imp RendererImpl) RenderStrip(ctx context.Context, p mandel.Params, s mandel.Strip) (mandel.Fragment, error) {
	if s.StartX < 0 || s.EndX > p.Width || s.StartX > s.EndX || s.StartY < 0 || s.EndY > p.Height || s.StartY > s.EndY {
		return mandel.Fragment{}, fmt.Errorf("%w: strip %d [%d,%d)x[%d,%d) outside %dx%d raster",
			mandel.ErrInvalidParams, s.ID, s.StartX, s.EndX, s.StartY, s.EndY, p.Width, p.Height)
	}
	if imp.OnStripRender != nil {
		imp.OnStripRender(s)
	}
	mandel.Logger().Debug("rendering strip", "strip", s.ID, "x0", s.StartX, "x1", s.EndX)

	palette := imp.Palette
	if palette == nil {
		palette = Evaluate
	}

	frag := mandel.NewFragment(s)
	for py := s.StartY; py < s.EndY; py++ {
		if err := ctx.Err(); err != nil {
			return mandel.Fragment{}, err
		}
		for px := s.StartX; px < s.EndX; px++ {
			c, err := Coordinate(p, px, py)
			if err != nil {
				return mandel.Fragment{}, fmt.Errorf("pixel (%d, %d): %w", px, py, err)
			}
			col := palette(c, p.MaxIterations, p.ColorScheme)
			if err := frag.Set(px-s.StartX, py-s.StartY, col); err != nil {
				return mandel.Fragment{}, err
			}
		}
	}

	return frag, nil
}

// Coordinate maps pixel (x, y) of the full raster to the complex plane:
// ((x - W/2)/zoom + CenterX, (y - H/2)/zoom + CenterY).
func Coordinate(p mandel.Params, x, y int) (complexnum.Number, error) {
	re := (float64(x)-float64(p.Width)/2)/p.Zoom + p.CenterX
	im := (float64(y)-float64(p.Height)/2)/p.Zoom + p.CenterY
	return complexnum.New(re, im)
}
