package mandel

import (
	"context"
	"image"
)

// Display is the presentation side of a render. It receives either the
// finished raster or the single fatal error, never both and never a partial
// image.
type Display interface {
	Show(img *image.RGBA) error
	Fail(err error)
}

// Renderer computes one strip of the full raster described by p.
type Renderer interface {
	RenderStrip(ctx context.Context, p Params, s Strip) (Fragment, error)
}

// ImgProvider hands out the finished raster. GetImage blocks until the
// render is done or ctx ends.
type ImgProvider interface {
	GetImage(ctx context.Context) (*image.RGBA, error)
}
