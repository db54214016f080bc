// Package config holds the render settings shared by the commands and binds
// them to command line flags.
package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	mandel "github.com/marben/strip_mandel"
	"github.com/marben/strip_mandel/render"
	"github.com/marben/strip_mandel/scheduler"
	"github.com/spf13/pflag"
)

// ErrInvalidConfig is returned by Validate.
var ErrInvalidConfig = errors.New("config: invalid configuration")

const (
	DefaultWidth   = 1920
	DefaultHeight  = 1080
	DefaultTimeout = 5 * time.Minute
	DefaultPalette = "classic"
)

// Config is the full set of render settings.
type Config struct {
	Width, Height int
	MaxIterations int
	Zoom          float64
	ColorScheme   int
	CenterX       float64
	CenterY       float64
	// Region, when set, names a mandel.Regions landmark that replaces Zoom,
	// CenterX and CenterY.
	Region  string
	Palette string

	// Workers fixes the pool size; 0 derives it from the CPU count.
	Workers       int
	ReservedCores int
	Timeout       time.Duration

	Verbose bool
}

// Default returns the stock configuration.
func Default() Config {
	return Config{
		Width:         DefaultWidth,
		Height:        DefaultHeight,
		MaxIterations: mandel.DefaultMaxIterations,
		Zoom:          mandel.DefaultZoom,
		ColorScheme:   mandel.DefaultColorScheme,
		Palette:       DefaultPalette,
		ReservedCores: scheduler.DefaultReservedCores,
		Timeout:       DefaultTimeout,
	}
}

// AddFlags binds c's fields to fs. Current values become the flag defaults.
func (c *Config) AddFlags(fs *pflag.FlagSet) {
	fs.IntVar(&c.Width, "width", c.Width, "image width in pixels")
	fs.IntVar(&c.Height, "height", c.Height, "image height in pixels")
	fs.IntVarP(&c.MaxIterations, "iterations", "i", c.MaxIterations, "maximum escape-time iterations per pixel")
	fs.Float64VarP(&c.Zoom, "zoom", "z", c.Zoom, "pixels per unit of the complex plane")
	fs.IntVar(&c.ColorScheme, "color-scheme", c.ColorScheme, "divisor applied to the smooth iteration count before coloring")
	fs.Float64Var(&c.CenterX, "center-x", c.CenterX, "real part of the image center")
	fs.Float64Var(&c.CenterY, "center-y", c.CenterY, "imaginary part of the image center")
	fs.StringVarP(&c.Region, "region", "r", c.Region,
		"landmark to render, overrides zoom and center ("+strings.Join(mandel.RegionNames(), ", ")+")")
	fs.StringVar(&c.Palette, "palette", c.Palette, "coloring ("+strings.Join(render.PaletteNames(), ", ")+")")
	fs.IntVarP(&c.Workers, "workers", "w", c.Workers, "worker pool size, 0 = CPUs minus reserved cores")
	fs.IntVar(&c.ReservedCores, "reserved-cores", c.ReservedCores, "CPUs left free when the pool size is automatic")
	fs.DurationVar(&c.Timeout, "timeout", c.Timeout, "abort the render after this long, 0 = never")
	fs.BoolVarP(&c.Verbose, "verbose", "v", c.Verbose, "log per-strip progress")
}

// Validate checks c as a whole, including the render parameters it yields.
func (c Config) Validate() error {
	switch {
	case c.Workers < 0:
		return fmt.Errorf("%w: workers %d", ErrInvalidConfig, c.Workers)
	case c.ReservedCores < 0:
		return fmt.Errorf("%w: reserved cores %d", ErrInvalidConfig, c.ReservedCores)
	case c.Timeout < 0:
		return fmt.Errorf("%w: timeout %s", ErrInvalidConfig, c.Timeout)
	}
	if _, err := c.palette(); err != nil {
		return err
	}
	p, err := c.Params()
	if err != nil {
		return err
	}
	if err := p.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return nil
}

// Params returns the render parameters, with Region applied when set.
func (c Config) Params() (mandel.Params, error) {
	p := mandel.Params{
		Width:         c.Width,
		Height:        c.Height,
		MaxIterations: c.MaxIterations,
		Zoom:          c.Zoom,
		ColorScheme:   c.ColorScheme,
		CenterX:       c.CenterX,
		CenterY:       c.CenterY,
	}
	if c.Region == "" {
		return p, nil
	}
	r, ok := mandel.Regions[c.Region]
	if !ok {
		return mandel.Params{}, fmt.Errorf("%w: unknown region %q", ErrInvalidConfig, c.Region)
	}
	return r.Apply(p), nil
}

// Renderer returns the strip renderer for c's palette.
func (c Config) Renderer() (render.RendererImpl, error) {
	pal, err := c.palette()
	if err != nil {
		return render.RendererImpl{}, err
	}
	return render.RendererImpl{Palette: pal}, nil
}

// Scheduler returns a scheduler configured from c.
func (c Config) Scheduler(opts ...scheduler.Option) (*scheduler.Scheduler, error) {
	r, err := c.Renderer()
	if err != nil {
		return nil, err
	}
	base := []scheduler.Option{
		scheduler.WithWorkers(c.Workers),
		scheduler.WithReservedCores(c.ReservedCores),
		scheduler.WithTimeout(c.Timeout),
	}
	return scheduler.New(r, append(base, opts...)...), nil
}

func (c Config) palette() (render.Palette, error) {
	name := c.Palette
	if name == "" {
		name = DefaultPalette
	}
	pal, ok := render.Palettes[name]
	if !ok {
		return nil, fmt.Errorf("%w: unknown palette %q", ErrInvalidConfig, c.Palette)
	}
	return pal, nil
}

// NewLogger returns a text logger writing to w: debug level when Verbose is
// set, info otherwise.
func (c Config) NewLogger(w io.Writer) *slog.Logger {
	level := slog.LevelInfo
	if c.Verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
