package overlay

import "errors"

// Errors returned by the overlay pipeline. Both are recoverable: the
// caller skips the update, keeps the previous cache state and waits for
// the next viewport event.
var (
	// ErrInvalidViewport marks a viewport that degenerates after pole
	// clamping (north bound not above south bound) or carries unusable
	// spans. Expected during extreme pans; skip and retry.
	ErrInvalidViewport = errors.New("overlay: invalid viewport")

	// ErrResolutionExhausted marks a resolve that failed at every ladder
	// resolution and at the base-cell floor itself.
	ErrResolutionExhausted = errors.New("overlay: resolution ladder exhausted")
)
