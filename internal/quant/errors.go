package quant

import "errors"

// Sentinel errors returned by Quantizer. Callers compare with errors.Is;
// an instance that has returned any of these is poisoned and must be
// discarded rather than retried.
var (
	// ErrInvalidState is returned when an operation is called out of
	// lifecycle order (see the ordering in lifecycleState's doc comment).
	ErrInvalidState = errors.New("quant: invalid state")

	// ErrCapacityExceeded is returned by AddColor once more than the N
	// pixels declared to Prepare have been added.
	ErrCapacityExceeded = errors.New("quant: capacity exceeded")

	// ErrOutOfRange is returned when the index stream is exhausted, or
	// when BuildPalette is asked for a K outside [2, 256].
	ErrOutOfRange = errors.New("quant: out of range")

	// ErrArithmeticSaturation guards the 64-bit moment accumulators.
	// It should not trigger for any image up to ~2^32 pixels; the check
	// is an explicit assertion rather than an assumption.
	ErrArithmeticSaturation = errors.New("quant: arithmetic saturation")
)
