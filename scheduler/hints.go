package scheduler

import (
	"context"
	"runtime/pprof"
	"strconv"

	mandel "github.com/marben/strip_mandel"
)

// Hints annotates the goroutine computing a strip. Hints are advisory: an
// error is logged and the task runs unannotated.
type Hints interface {
	Apply(ctx context.Context, s mandel.Strip) (context.Context, error)
}

// HintsFunc adapts a function to Hints.
type HintsFunc func(ctx context.Context, s mandel.Strip) (context.Context, error)

func (f HintsFunc) Apply(ctx context.Context, s mandel.Strip) (context.Context, error) {
	return f(ctx, s)
}

// LabelHints names the task goroutine through pprof labels, so profiles
// and goroutine dumps show which strip each goroutine computes.
type LabelHints struct {
	// Priority is recorded as the "priority" label. Go has no goroutine
	// priorities; the label documents intent only. Defaults to "high".
	Priority string
}

func (h LabelHints) Apply(ctx context.Context, s mandel.Strip) (context.Context, error) {
	prio := h.Priority
	if prio == "" {
		prio = "high"
	}
	id := strconv.Itoa(s.ID)
	ctx = pprof.WithLabels(ctx, pprof.Labels(
		"name", "computing strip "+id,
		"strip", id,
		"priority", prio,
	))
	pprof.SetGoroutineLabels(ctx)
	return ctx, nil
}
