package mandel

import (
	"errors"
	"fmt"
)

// Every message is prefixed with "mandel:". Match with errors.Is.
var (
	// ErrInvalidParams is returned for non-positive sizes, iteration counts,
	// color schemes or zoom, and for a worker count below one.
	ErrInvalidParams = errors.New("mandel: invalid parameters")

	// ErrOutOfBounds is returned by Fragment.Set for a write outside the
	// fragment's strip-local buffer.
	ErrOutOfBounds = errors.New("mandel: pixel out of fragment bounds")

	// ErrRenderFailed is matched by every *RenderError.
	ErrRenderFailed = errors.New("mandel: render failed")

	// ErrResultCount signals that the barrier collected a different number of
	// fragments than tasks were submitted.
	ErrResultCount = errors.New("mandel: result count mismatch")

	// ErrFragmentMismatch signals a fragment whose id or size does not match
	// the strip it was rendered for.
	ErrFragmentMismatch = errors.New("mandel: fragment does not match strip")

	// ErrTaskPanicked wraps a panic recovered from a compute task.
	ErrTaskPanicked = errors.New("mandel: compute task panicked")
)

// RenderError is the single fatal error a render attempt reports to its
// caller. No raster is produced when it is returned.
type RenderError struct {
	// Op names the stage that failed: "partition", "strip", "barrier" or "merge".
	Op string
	// StripID is the failing strip, or -1 when the failure is not tied to one.
	StripID int
	Err     error
}

func (e *RenderError) Error() string {
	if e.StripID >= 0 {
		return fmt.Sprintf("mandel: render failed: %s strip %d: %v", e.Op, e.StripID, e.Err)
	}
	return fmt.Sprintf("mandel: render failed: %s: %v", e.Op, e.Err)
}

func (e *RenderError) Unwrap() error { return e.Err }

// Is makes every RenderError match ErrRenderFailed.
func (e *RenderError) Is(target error) bool { return target == ErrRenderFailed }
