package config_test

import (
	"bytes"
	"testing"
	"time"

	mandel "github.com/marben/strip_mandel"
	"github.com/marben/strip_mandel/config"
	"github.com/marben/strip_mandel/scheduler"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"
)

func parse(t *testing.T, args ...string) config.Config {
	t.Helper()
	c := config.Default()
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	c.AddFlags(fs)
	require.NoError(t, fs.Parse(args))
	return c
}

func TestDefault(t *testing.T) {
	c := config.Default()
	require.NoError(t, c.Validate())

	p, err := c.Params()
	require.NoError(t, err)
	require.Equal(t, mandel.DefaultParams(1920, 1080), p)
	require.Equal(t, 2, c.ReservedCores)
	require.Equal(t, 5*time.Minute, c.Timeout)
}

func TestAddFlags(t *testing.T) {
	c := parse(t,
		"--width", "800", "--height=600",
		"-i", "100", "--zoom", "200", "--color-scheme", "7",
		"--center-x", "-0.5", "--center-y", "0.25",
		"-w", "4", "--reserved-cores", "1", "--timeout", "30s",
		"--palette", "orbit-trap", "-v",
	)
	require.NoError(t, c.Validate())
	require.Equal(t, 4, c.Workers)
	require.Equal(t, 1, c.ReservedCores)
	require.Equal(t, 30*time.Second, c.Timeout)
	require.True(t, c.Verbose)

	p, err := c.Params()
	require.NoError(t, err)
	require.Equal(t, mandel.Params{
		Width: 800, Height: 600, MaxIterations: 100, Zoom: 200, ColorScheme: 7,
		CenterX: -0.5, CenterY: 0.25,
	}, p)
}

func TestRegion(t *testing.T) {
	c := parse(t, "--region", "seahorse", "--width", "1000", "--zoom", "3")
	p, err := c.Params()
	require.NoError(t, err)
	require.InDelta(t, -0.75, p.CenterX, 1e-12)
	require.InDelta(t, 0.1, p.CenterY, 1e-12)
	require.InDelta(t, 10000, p.Zoom, 1e-6)

	c.Region = "atlantis"
	_, err = c.Params()
	require.ErrorIs(t, err, config.ErrInvalidConfig)
	require.ErrorIs(t, c.Validate(), config.ErrInvalidConfig)
}

func TestValidate(t *testing.T) {
	mutate := []func(*config.Config){
		func(c *config.Config) { c.Workers = -1 },
		func(c *config.Config) { c.ReservedCores = -1 },
		func(c *config.Config) { c.Timeout = -time.Second },
		func(c *config.Config) { c.Palette = "sepia" },
		func(c *config.Config) { c.Width = 0 },
		func(c *config.Config) { c.MaxIterations = 0 },
		func(c *config.Config) { c.ColorScheme = 0 },
		func(c *config.Config) { c.Zoom = -1 },
	}
	for i, m := range mutate {
		c := config.Default()
		m(&c)
		require.ErrorIs(t, c.Validate(), config.ErrInvalidConfig, "case %d", i)
	}

	c := config.Default()
	c.Width = 0
	require.ErrorIs(t, c.Validate(), mandel.ErrInvalidParams)
}

func TestScheduler(t *testing.T) {
	c := config.Default()
	c.Workers = 3
	s, err := c.Scheduler()
	require.NoError(t, err)
	require.Equal(t, 3, s.Workers())

	c.Workers = 0
	s, err = c.Scheduler(scheduler.WithAvailableParallelism(8))
	require.NoError(t, err)
	require.Equal(t, 6, s.Workers())

	c.Palette = "sepia"
	_, err = c.Scheduler()
	require.ErrorIs(t, err, config.ErrInvalidConfig)
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	c := config.Default()
	c.NewLogger(&buf).Debug("hidden")
	require.Empty(t, buf.String())

	c.Verbose = true
	c.NewLogger(&buf).Debug("shown", "strip", 3)
	require.Contains(t, buf.String(), "shown")
	require.Contains(t, buf.String(), "strip=3")
}
