package twim

import "errors"

var (
	// ErrImageTooSmall is returned by Encode when either dimension is
	// below 8 pixels.
	ErrImageTooSmall = errors.New("twim: image is too small (minimum 8x8)")

	// ErrCorruptStream is returned by Decode when the input fails a
	// structural check: an invalid node type, an invalid partition level,
	// a zero-line distance range, or a range-coder health check.
	ErrCorruptStream = errors.New("twim: corrupt stream")

	// ErrEmptyPartition is returned by encode when params.Variants is empty,
	// which Encode itself never produces (Params.Validate fills in
	// DefaultVariants); it only guards a direct call into the unexported
	// encode with a hand-built, variant-less Params.
	ErrEmptyPartition = errors.New("twim: partition is empty")

	errTargetSizeRequired = errors.New("twim: Params.TargetSize must be positive")
)
