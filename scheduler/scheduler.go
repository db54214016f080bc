// Package scheduler renders a full Mandelbrot raster by splitting it into
// vertical strips, computing them on a fixed-size pool and merging the
// fragments in strip order.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/draw"
	"runtime"
	"sync"
	"time"

	mandel "github.com/marben/strip_mandel"
	"golang.org/x/sync/errgroup"
)

// DefaultReservedCores is the number of CPUs left free for the rest of the
// process when the worker count is derived automatically.
const DefaultReservedCores = 2

// WorkerCount returns max(1, available-reserved).
func WorkerCount(available, reserved int) int {
	return max(1, available-reserved)
}

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithWorkers fixes the pool size. n < 1 restores the automatic count.
func WithWorkers(n int) Option {
	return func(s *Scheduler) { s.workers = n }
}

// WithReservedCores sets how many CPUs the automatic count leaves free.
func WithReservedCores(n int) Option {
	return func(s *Scheduler) { s.reserved = n }
}

// WithAvailableParallelism overrides runtime.NumCPU as the number of CPUs
// the automatic count starts from.
func WithAvailableParallelism(n int) Option {
	return func(s *Scheduler) { s.available = n }
}

// WithTimeout bounds the barrier wait. A render still running after d fails
// with context.DeadlineExceeded even if a task ignores cancellation.
// Zero disables the bound.
func WithTimeout(d time.Duration) Option {
	return func(s *Scheduler) { s.timeout = d }
}

// WithHints sets the per-task scheduler hints. nil disables them.
func WithHints(h Hints) Option {
	return func(s *Scheduler) { s.hints = h }
}

// WithProgress registers fn to be called after each finished strip with the
// number of finished and total pixels. fn may be called concurrently.
func WithProgress(fn func(done, total int)) Option {
	return func(s *Scheduler) { s.onProgress = fn }
}

// Scheduler is safe for concurrent use; every Render call gets its own pool.
type Scheduler struct {
	renderer   mandel.Renderer
	workers    int
	reserved   int
	available  int
	timeout    time.Duration
	hints      Hints
	onProgress func(done, total int)
}

// New returns a Scheduler computing strips with r.
func New(r mandel.Renderer, opts ...Option) *Scheduler {
	s := &Scheduler{
		renderer:  r,
		reserved:  DefaultReservedCores,
		available: runtime.NumCPU(),
		hints:     LabelHints{},
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Workers returns the pool size (and strip count) used by Render.
func (s *Scheduler) Workers() int {
	if s.workers > 0 {
		return s.workers
	}
	return WorkerCount(s.available, s.reserved)
}

// RenderTo renders p and hands the result to d. On failure d.Fail receives
// the error, Show is not called, and the error is returned.
func (s *Scheduler) RenderTo(ctx context.Context, p mandel.Params, d mandel.Display) error {
	img, err := s.Render(ctx, p)
	if err != nil {
		d.Fail(err)
		return err
	}
	if err := d.Show(img); err != nil {
		return fmt.Errorf("display: %w", err)
	}
	return nil
}

// Render computes the full p.Width × p.Height raster. Any failing,
// panicking or cancelled task aborts the whole render with a
// *mandel.RenderError and no image.
func (s *Scheduler) Render(ctx context.Context, p mandel.Params) (*image.RGBA, error) {
	log := mandel.Logger()
	if err := p.Validate(); err != nil {
		return nil, &mandel.RenderError{Op: "partition", StripID: -1, Err: err}
	}

	workers := s.Workers()
	strips, err := mandel.SplitStrips(p.Width, p.Height, workers)
	if err != nil {
		return nil, &mandel.RenderError{Op: "partition", StripID: -1, Err: err}
	}

	var cancel context.CancelFunc
	if s.timeout > 0 {
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
	} else {
		ctx, cancel = context.WithCancel(ctx)
	}
	defer cancel()

	start := time.Now()
	log.Info("render started", "width", p.Width, "height", p.Height, "workers", workers,
		"max_iterations", p.MaxIterations, "zoom", p.Zoom)

	frags, err := s.compute(ctx, p, strips, workers)
	if err != nil {
		log.Error("render failed", "err", err)
		return nil, err
	}

	img, err := merge(p, strips, frags)
	if err != nil {
		log.Error("render failed", "err", err)
		return nil, err
	}

	log.Info("render finished", "elapsed", time.Since(start), "strips", len(strips))
	return img, nil
}

// compute runs one task per strip and waits for all of them. Each task
// writes only its own slot of the returned slice.
func (s *Scheduler) compute(ctx context.Context, p mandel.Params, strips []mandel.Strip, workers int) ([]mandel.Fragment, error) {
	frags := make([]mandel.Fragment, len(strips))
	prog := &progress{total: p.Width * p.Height, fn: s.onProgress}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for _, st := range strips {
		g.Go(func() error {
			frag, err := s.runTask(gctx, p, st)
			if err != nil {
				return err
			}
			frags[st.ID] = frag
			prog.stripFinished(st)
			return nil
		})
	}

	waitErr := make(chan error, 1)
	go func() { waitErr <- g.Wait() }()

	select {
	case err := <-waitErr:
		if err != nil {
			return nil, err
		}
	case <-ctx.Done():
		return nil, &mandel.RenderError{Op: "barrier", StripID: -1, Err: context.Cause(ctx)}
	}

	collected := 0
	for _, f := range frags {
		if f.Pixels != nil {
			collected++
		}
	}
	if collected != len(strips) {
		return nil, &mandel.RenderError{Op: "barrier", StripID: -1,
			Err: fmt.Errorf("%w: %d fragments for %d tasks", mandel.ErrResultCount, collected, len(strips))}
	}

	return frags, nil
}

// runTask renders one strip, converting panics and mismatching fragments
// into errors.
func (s *Scheduler) runTask(ctx context.Context, p mandel.Params, st mandel.Strip) (frag mandel.Fragment, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &mandel.RenderError{Op: "strip", StripID: st.ID, Err: fmt.Errorf("%w: %v", mandel.ErrTaskPanicked, r)}
		}
	}()

	if s.hints != nil {
		hctx, herr := s.hints.Apply(ctx, st)
		switch {
		case herr != nil:
			mandel.Logger().Warn("scheduler hint ignored", "strip", st.ID, "err", herr)
		case hctx != nil:
			ctx = hctx
		}
	}

	frag, err = s.renderer.RenderStrip(ctx, p, st)
	if err != nil {
		return mandel.Fragment{}, &mandel.RenderError{Op: "strip", StripID: st.ID, Err: err}
	}

	want := image.Pt(st.Width(), st.Height())
	if frag.ID != st.ID || frag.Pixels == nil || frag.Size() != want {
		return mandel.Fragment{}, &mandel.RenderError{Op: "strip", StripID: st.ID,
			Err: fmt.Errorf("%w: got id %d size %v, want id %d size %v", mandel.ErrFragmentMismatch, frag.ID, frag.Size(), st.ID, want)}
	}

	return frag, nil
}

// merge places the fragments left to right in ascending id order. Fragment
// i lands at mandel.Offset(strips, i).
func merge(p mandel.Params, strips []mandel.Strip, frags []mandel.Fragment) (*image.RGBA, error) {
	if len(frags) != len(strips) {
		return nil, &mandel.RenderError{Op: "merge", StripID: -1,
			Err: fmt.Errorf("%w: %d fragments for %d strips", mandel.ErrResultCount, len(frags), len(strips))}
	}

	img := image.NewRGBA(image.Rect(0, 0, p.Width, p.Height))
	for id, frag := range frags {
		if frag.ID != id {
			return nil, &mandel.RenderError{Op: "merge", StripID: id,
				Err: fmt.Errorf("%w: fragment %d in slot %d", mandel.ErrFragmentMismatch, frag.ID, id)}
		}
		st := strips[id]
		if got, want := frag.Size(), image.Pt(st.Width(), st.Height()); got != want {
			return nil, &mandel.RenderError{Op: "merge", StripID: id,
				Err: fmt.Errorf("%w: fragment is %v, strip is %v", mandel.ErrFragmentMismatch, got, want)}
		}
		x := mandel.Offset(strips, id)
		dst := image.Rect(x, 0, x+st.Width(), p.Height)
		draw.Draw(img, dst, frag.Pixels, image.Point{}, draw.Src)
	}

	return img, nil
}

type progress struct {
	m        sync.Mutex
	total    int
	finished int
	fn       func(done, total int)
}

func (pr *progress) stripFinished(s mandel.Strip) {
	pr.m.Lock()
	pr.finished += s.Width() * s.Height()
	done := pr.finished
	pr.m.Unlock()

	mandel.Logger().Debug("strip finished", "strip", s.ID, "finished", float32(done)/float32(pr.total))
	if pr.fn != nil {
		pr.fn(done, pr.total)
	}
}

// IsTimeout reports whether err is a render aborted by the barrier deadline.
func IsTimeout(err error) bool {
	return errors.Is(err, mandel.ErrRenderFailed) && errors.Is(err, context.DeadlineExceeded)
}
