package main

import (
	"context"
	"errors"
	"image"
	"log"
	"sync"

	mandel "github.com/marben/strip_mandel"
	"github.com/marben/strip_mandel/transport"
)

var errRenderPending = errors.New("render still running")

// renderJob receives the scheduler's result and hands it to every client.
// ctx is cancelled once the render either finished or failed.
type renderJob struct {
	width, height int
	workers       int

	ctx       context.Context
	ctxCancel context.CancelFunc

	totalPixels    int
	finishedPixels int

	img *image.RGBA
	err error
	m   sync.Mutex
}

var (
	_ mandel.Display     = (*renderJob)(nil)
	_ mandel.ImgProvider = (*renderJob)(nil)
)

func newRenderJob(w, h, workers int) *renderJob {
	ctx, cancel := context.WithCancel(context.Background())
	return &renderJob{
		width:       w,
		height:      h,
		workers:     workers,
		totalPixels: w * h,
		ctx:         ctx,
		ctxCancel:   cancel,
	}
}

// Show implements mandel.Display.
func (j *renderJob) Show(img *image.RGBA) error {
	j.m.Lock()
	j.img = img
	j.finishedPixels = j.totalPixels
	j.m.Unlock()

	j.ctxCancel()
	log.Printf("render finished, serving %dx%d image", img.Rect.Dx(), img.Rect.Dy())
	return nil
}

// Fail implements mandel.Display.
func (j *renderJob) Fail(err error) {
	j.m.Lock()
	j.err = err
	j.m.Unlock()

	j.ctxCancel()
	log.Printf("render failed: %v", err)
}

// GetImage implements mandel.ImgProvider.
func (j *renderJob) GetImage(ctx context.Context) (*image.RGBA, error) {
	select {
	case <-j.ctx.Done():
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	j.m.Lock()
	defer j.m.Unlock()
	if j.err != nil {
		return nil, j.err
	}
	if j.img == nil {
		return nil, errRenderPending
	}
	return j.img, nil
}

// progress is the scheduler's progress callback.
func (j *renderJob) progress(done, total int) {
	j.m.Lock()
	j.finishedPixels = done
	j.totalPixels = total
	j.m.Unlock()
}

func (j *renderJob) finished() float32 {
	j.m.Lock()
	defer j.m.Unlock()
	if j.totalPixels == 0 {
		return 0
	}
	return float32(j.finishedPixels) / float32(j.totalPixels)
}

func (j *renderJob) status() transport.Status {
	s := transport.Status{
		Width:    j.width,
		Height:   j.height,
		Workers:  j.workers,
		Finished: j.finished(),
	}

	select {
	case <-j.ctx.Done():
		s.Done = true
	default:
	}

	j.m.Lock()
	if j.err != nil {
		s.Error = j.err.Error()
	}
	j.m.Unlock()
	return s
}
