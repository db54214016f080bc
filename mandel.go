package mandel

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"sort"
)

const (
	DefaultMaxIterations = 3000
	DefaultZoom          = 400
	DefaultColorScheme   = 10
)

// Params describes one render. It is shared read-only by all workers.
type Params struct {
	Width, Height int
	MaxIterations int
	// Zoom is the number of pixels per unit of the complex plane.
	Zoom float64
	// ColorScheme divides the smooth iteration count before coloring.
	ColorScheme int
	// CenterX, CenterY is the complex point shown at the raster center.
	CenterX, CenterY float64
}

// DefaultParams returns the default viewport for a w×h raster.
func DefaultParams(w, h int) Params {
	return Params{
		Width:         w,
		Height:        h,
		MaxIterations: DefaultMaxIterations,
		Zoom:          DefaultZoom,
		ColorScheme:   DefaultColorScheme,
	}
}

// Validate checks that p can be rendered.
func (p Params) Validate() error {
	switch {
	case p.Width < 1 || p.Height < 1:
		return fmt.Errorf("%w: raster %dx%d", ErrInvalidParams, p.Width, p.Height)
	case p.MaxIterations < 1:
		return fmt.Errorf("%w: max iterations %d", ErrInvalidParams, p.MaxIterations)
	case !(p.Zoom > 0) || math.IsInf(p.Zoom, 0):
		return fmt.Errorf("%w: zoom %v", ErrInvalidParams, p.Zoom)
	case p.ColorScheme < 1:
		return fmt.Errorf("%w: color scheme %d", ErrInvalidParams, p.ColorScheme)
	case math.IsNaN(p.CenterX) || math.IsInf(p.CenterX, 0) || math.IsNaN(p.CenterY) || math.IsInf(p.CenterY, 0):
		return fmt.Errorf("%w: center (%v, %v)", ErrInvalidParams, p.CenterX, p.CenterY)
	}
	return nil
}

// Region within the Mandelbrot set
type Region struct {
	Xmin, Xmax float64
	Ymin, Ymax float64
}

// Viewport returns the center and the zoom that fit r's width into a raster
// width pixels wide.
func (r Region) Viewport(width int) (cx, cy, zoom float64) {
	return (r.Xmin + r.Xmax) / 2, (r.Ymin + r.Ymax) / 2, float64(width) / (r.Xmax - r.Xmin)
}

// Apply returns p re-centered and re-zoomed on r.
func (r Region) Apply(p Params) Params {
	p.CenterX, p.CenterY, p.Zoom = r.Viewport(p.Width)
	return p
}

// Classic regions / landmarks in the Mandelbrot set
var (
	// Whole set, as framed by the default zoom on a 1920 wide raster
	FullSet = Region{
		Xmin: -2.4,
		Xmax: 2.4,
		Ymin: -1.35,
		Ymax: 1.35,
	}

	// Seahorse Valley – dense filaments and repeating “seahorse” curls
	SeahorseValley = Region{
		Xmin: -0.8,
		Xmax: -0.7,
		Ymin: 0.05,
		Ymax: 0.15,
	}

	// Elephant Valley – large bulb with trunk-like tendrils
	ElephantValley = Region{
		Xmin: -1.85,
		Xmax: -1.75,
		Ymin: -0.10,
		Ymax: -0.02,
	}

	// Spiral Minibrot – small Mandelbrot copy with tight spiral arms
	SpiralMinibrot = Region{
		Xmin: -0.7435,
		Xmax: -0.7420,
		Ymin: 0.1310,
		Ymax: 0.1325,
	}

	// Triple Spiral – threefold symmetric spiral structure
	TripleSpiral = Region{
		Xmin: -0.7480,
		Xmax: -0.7450,
		Ymin: 0.0950,
		Ymax: 0.0980,
	}

	// Valley of the Dragon – deep, highly detailed spiral filaments
	ValleyOfTheDragon = Region{
		Xmin: -0.7400,
		Xmax: -0.7350,
		Ymin: 0.1800,
		Ymax: 0.1850,
	}

	// Minibrot in a Mini-Spiral – self-similar Mandelbrot copy inside a spiral arm
	MinibrotInMiniSpiral = Region{
		Xmin: -1.7390,
		Xmax: -1.7375,
		Ymin: -0.0235,
		Ymax: -0.0220,
	}
)

// Regions indexes the landmarks by the names accepted on the command line.
var Regions = map[string]Region{
	"full":          FullSet,
	"seahorse":      SeahorseValley,
	"elephant":      ElephantValley,
	"spiral":        SpiralMinibrot,
	"triple-spiral": TripleSpiral,
	"dragon":        ValleyOfTheDragon,
	"mini-spiral":   MinibrotInMiniSpiral,
}

// RegionNames returns the keys of Regions, sorted.
func RegionNames() []string {
	names := make([]string, 0, len(Regions))
	for n := range Regions {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Strip is a half-open pixel range [StartX, EndX) × [StartY, EndY) of the
// full raster. IDs start at 0 and grow left to right.
type Strip struct {
	ID           int
	StartX, EndX int
	StartY, EndY int
}

// Width returns EndX - StartX.
func (s Strip) Width() int { return s.EndX - s.StartX }

// Height returns EndY - StartY.
func (s Strip) Height() int { return s.EndY - s.StartY }

// Fragment is the computed output of one strip. Pixels is indexed in
// strip-local coordinates starting at (0, 0).
type Fragment struct {
	ID     int
	Pixels *image.RGBA
}

// NewFragment allocates the local buffer for s.
func NewFragment(s Strip) Fragment {
	return Fragment{
		ID:     s.ID,
		Pixels: image.NewRGBA(image.Rect(0, 0, s.Width(), s.Height())),
	}
}

// Set writes c at strip-local (x, y). Writes outside the buffer are a
// coordinate-mapping defect and fail with ErrOutOfBounds.
func (f Fragment) Set(x, y int, c color.RGBA) error {
	if f.Pixels == nil || !(image.Point{X: x, Y: y}).In(f.Pixels.Rect) {
		return fmt.Errorf("%w: (%d, %d) in fragment %d", ErrOutOfBounds, x, y, f.ID)
	}
	f.Pixels.SetRGBA(x, y, c)
	return nil
}

// Size returns the fragment's pixel dimensions.
func (f Fragment) Size() image.Point {
	if f.Pixels == nil {
		return image.Point{}
	}
	return f.Pixels.Rect.Size()
}
