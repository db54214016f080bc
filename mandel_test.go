package mandel_test

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"log/slog"
	"math"
	"strings"
	"testing"

	mandel "github.com/marben/strip_mandel"
	"github.com/stretchr/testify/require"
)

func TestParamsValidate(t *testing.T) {
	require.NoError(t, mandel.DefaultParams(800, 600).Validate())

	bad := []func(*mandel.Params){
		func(p *mandel.Params) { p.Width = 0 },
		func(p *mandel.Params) { p.Height = -1 },
		func(p *mandel.Params) { p.MaxIterations = 0 },
		func(p *mandel.Params) { p.Zoom = 0 },
		func(p *mandel.Params) { p.Zoom = math.NaN() },
		func(p *mandel.Params) { p.Zoom = math.Inf(1) },
		func(p *mandel.Params) { p.ColorScheme = 0 },
		func(p *mandel.Params) { p.CenterY = math.Inf(-1) },
	}
	for i, mutate := range bad {
		p := mandel.DefaultParams(800, 600)
		mutate(&p)
		require.ErrorIs(t, p.Validate(), mandel.ErrInvalidParams, "case %d", i)
	}
}

func TestDefaultParams(t *testing.T) {
	p := mandel.DefaultParams(1920, 1080)
	require.Equal(t, 3000, p.MaxIterations)
	require.Equal(t, 400.0, p.Zoom)
	require.Equal(t, 10, p.ColorScheme)
	require.Zero(t, p.CenterX)
	require.Zero(t, p.CenterY)
}

func TestRegionViewport(t *testing.T) {
	cx, cy, zoom := mandel.FullSet.Viewport(1920)
	require.InDelta(t, 0, cx, 1e-12)
	require.InDelta(t, 0, cy, 1e-12)
	require.InDelta(t, mandel.DefaultZoom, zoom, 1e-9)

	p := mandel.SeahorseValley.Apply(mandel.DefaultParams(1000, 1000))
	require.InDelta(t, -0.75, p.CenterX, 1e-12)
	require.InDelta(t, 0.1, p.CenterY, 1e-12)
	require.InDelta(t, 10000, p.Zoom, 1e-6)
	require.NoError(t, p.Validate())
}

func TestRegionNames(t *testing.T) {
	names := mandel.RegionNames()
	require.Len(t, names, len(mandel.Regions))
	require.Contains(t, names, "seahorse")
	require.IsIncreasing(t, names)
}

func TestFragmentSet(t *testing.T) {
	f := mandel.NewFragment(mandel.Strip{ID: 2, StartX: 10, EndX: 14, StartY: 0, EndY: 3})
	require.Equal(t, 2, f.ID)
	require.Equal(t, image.Pt(4, 3), f.Size())

	c := color.RGBA{R: 1, G: 2, B: 3, A: 255}
	require.NoError(t, f.Set(3, 2, c))
	require.Equal(t, c, f.Pixels.RGBAAt(3, 2))

	for _, p := range []image.Point{{-1, 0}, {4, 0}, {0, 3}, {10, 0}} {
		err := f.Set(p.X, p.Y, c)
		require.ErrorIs(t, err, mandel.ErrOutOfBounds, "point %v", p)
	}

	require.ErrorIs(t, mandel.Fragment{}.Set(0, 0, c), mandel.ErrOutOfBounds)
	require.Equal(t, image.Point{}, mandel.Fragment{}.Size())
}

func TestRenderError(t *testing.T) {
	cause := fmt.Errorf("wrapped: %w", mandel.ErrOutOfBounds)
	err := error(&mandel.RenderError{Op: "strip", StripID: 3, Err: cause})

	require.ErrorIs(t, err, mandel.ErrRenderFailed)
	require.ErrorIs(t, err, mandel.ErrOutOfBounds)
	require.Contains(t, err.Error(), "strip 3")

	var re *mandel.RenderError
	require.True(t, errors.As(err, &re))
	require.Equal(t, 3, re.StripID)

	err = &mandel.RenderError{Op: "barrier", StripID: -1, Err: mandel.ErrResultCount}
	require.NotContains(t, err.Error(), "strip -1")
	require.ErrorIs(t, err, mandel.ErrResultCount)
}

func TestLogger(t *testing.T) {
	orig := mandel.Logger()
	t.Cleanup(func() { mandel.SetLogger(orig) })

	var buf bytes.Buffer
	mandel.SetLogger(slog.New(slog.NewTextHandler(&buf, nil)))
	mandel.Logger().Info("hello", "strip", 1)
	require.True(t, strings.Contains(buf.String(), "hello"))

	mandel.SetLogger(nil)
	require.NotNil(t, mandel.Logger())
	require.False(t, mandel.Logger().Enabled(t.Context(), slog.LevelError))
}
