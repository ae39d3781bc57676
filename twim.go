// Package twim implements the twim lossy image codec: an image is
// recursively partitioned into polygonal regions by half-plane cuts at
// quantized angles, each leaf region is filled with one representative
// color, and the result is serialized under a byte budget with an
// ANS-style entropy coder.
package twim

import "runtime"

// Variant is one point in the encoder's tuning space: a packed partition
// code, a line limit, and a bitmask of color codes to try.
type Variant struct {
	PartitionCode int32
	LineLimit     int32
	ColorOptions  uint64
}

// DefaultVariants returns a small, reasonable sweep: every partition code,
// a fixed mid-range line limit, trying every fixed-grid color code (bits
// 0..9) together with the largest palette size (bit 16, a 128-color
// palette).
func DefaultVariants() []Variant {
	variants := make([]Variant, 0, kMaxPartitionCode)
	for code := int32(0); code < kMaxPartitionCode; code++ {
		variants = append(variants, Variant{
			PartitionCode: code,
			LineLimit:     20,
			ColorOptions:  ((uint64(1) << kNumColorQuantOptions) - 1) | (uint64(1) << (kMaxColorCode - 1)),
		})
	}
	return variants
}

// Params configures an Encode call: the byte budget to aim for, the set of
// tuning variants to try, how many worker goroutines to run them with, and
// whether the driver reports its winning variant to stderr.
type Params struct {
	TargetSize int
	Variants   []Variant
	NumThreads int

	// Verbose, when true, makes Encode report the winning variant and MSE
	// to os.Stderr once the search completes.
	Verbose bool
}

// Validate reports whether p is usable, filling in defaults for zero
// values.
func (p *Params) Validate() error {
	if p.TargetSize <= 0 {
		return errTargetSizeRequired
	}
	if len(p.Variants) == 0 {
		p.Variants = DefaultVariants()
	}
	if p.NumThreads <= 0 {
		p.NumThreads = runtime.GOMAXPROCS(0)
	}
	return nil
}

// Result is the outcome of a successful Encode: the encoded bytes, the
// winning variant (with ColorOptions narrowed to the single color code
// that was used), and the resulting mean squared error.
type Result struct {
	Data    []byte
	Variant Variant
	MSE     float32
}

// Encode compresses src to fit within params.TargetSize bytes (best
// effort; the search tries every variant in params.Variants and keeps the
// one with lowest squared error). Returns ErrImageTooSmall if either
// dimension is below 8 pixels.
func Encode(src Image, params Params) (Result, error) {
	if err := params.Validate(); err != nil {
		return Result{}, err
	}
	return encode(src, params)
}
