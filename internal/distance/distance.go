// Package distance computes the quantized set of candidate cut-line
// distances for a region along one candidate angle.
package distance

import "github.com/twim/twim/internal/sincos"

// Params is the subset of the partition's tuning parameters a DistanceRange
// needs: the base line-distance quantum and the cap on how many distinct
// lines a single angle may offer.
type Params interface {
	LineQuant() int32
	LineLimit() int32
}

// Scanline is the minimal region view DistanceRange needs: one scanline span
// per row.
type Scanline interface {
	Len() int
	Row(i int) (y, x0, x1 int32)
}

// Range holds the projected min/max distance of a region's scanlines onto a
// candidate cut direction, quantized into NumLines candidate cut positions.
type Range struct {
	NumLines           uint32
	min, max, lineQuant int32
}

// Invalid marks a DistanceRange computed over an empty region.
const Invalid = ^uint32(0)

// Update recomputes r for region projected along angle, using cp's base
// line quantum and line-count cap. An empty region yields NumLines ==
// Invalid.
func (r *Range) Update(region Scanline, angle int, cp Params) {
	n := region.Len()
	if n == 0 {
		r.NumLines = Invalid
		return
	}

	nx := sincos.Sin[angle]
	ny := sincos.Cos[angle]

	mi := int32(1<<31 - 1)
	ma := int32(-1 << 31)
	for i := 0; i < n; i++ {
		y, x0, x1 := region.Row(i)
		d0 := ny*y + nx*x0
		d1 := ny*y + nx*(x1-1)
		if d0 < mi {
			mi = d0
		}
		if d1 > ma {
			ma = d1
		}
	}
	r.min = mi
	r.max = ma

	quant := cp.LineQuant()
	limit := uint32(cp.LineLimit())
	for {
		r.NumLines = uint32((ma - mi) / quant)
		if r.NumLines > limit {
			quant = quant + quant/16
		} else {
			break
		}
	}
	r.lineQuant = quant
}

// Distance returns the signed distance (consumed by region.SplitLine) of the
// line-th candidate cut line (0 <= line < NumLines), the lines spaced
// lineQuant apart and centered in [min, max].
func (r *Range) Distance(line uint32) int32 {
	if r.NumLines > 1 {
		return r.min + ((r.max-r.min)-int32(r.NumLines-1)*r.lineQuant)/2 + r.lineQuant*int32(line)
	}
	return (r.max + r.min) / 2
}
