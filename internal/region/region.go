// Package region implements the scanline-compact polygon representation
// used to carve an image into leaf patches, and the half-plane cut that
// splits one region into two.
package region

import "github.com/twim/twim/internal/sincos"

// Region is a horizontally convex polygon stored as one scanline span per
// row: row Y[i] covers the half-open interval [X0[i], X1[i]).
type Region struct {
	Y, X0, X1 []int32
}

// NewRegion returns an empty region with capacity for n scanlines.
func NewRegion(n int) Region {
	return Region{
		Y:  make([]int32, 0, n),
		X0: make([]int32, 0, n),
		X1: make([]int32, 0, n),
	}
}

// Len returns the number of scanlines in the region.
func (r Region) Len() int {
	return len(r.Y)
}

// Row returns the y, x0, x1 triplet for scanline i, satisfying the
// distance.Scanline interface.
func (r Region) Row(i int) (y, x0, x1 int32) {
	return r.Y[i], r.X0[i], r.X1[i]
}

// Append adds one scanline span to the region.
func (r *Region) Append(y, x0, x1 int32) {
	r.Y = append(r.Y, y)
	r.X0 = append(r.X0, x0)
	r.X1 = append(r.X1, x1)
}

// Full builds the rectangular region covering [0, width) x [0, height).
func Full(width, height int32) Region {
	r := NewRegion(int(height))
	for y := int32(0); y < height; y++ {
		r.Append(y, 0, width)
	}
	return r
}

// SplitLine partitions region by the half-plane cut at the given quantized
// angle and signed distance d, writing the two sides into left and right.
// angle indexes sincos.Sin/sincos.Cos; nx == 0 is the vertical special case.
func SplitLine(src Region, angle int, d int32) (left, right Region) {
	n := src.Len()
	left = NewRegion(n)
	right = NewRegion(n)

	nx := sincos.Sin[angle]
	ny := sincos.Cos[angle]

	if nx == 0 {
		for i := 0; i < n; i++ {
			y := src.Y[i]
			if y*ny >= d {
				left.Append(y, src.X0[i], src.X1[i])
			} else {
				right.Append(y, src.X0[i], src.X1[i])
			}
		}
		return left, right
	}

	d2 := 2*d + nx
	ny2 := 2 * ny
	nx2 := 2 * nx
	for i := 0; i < n; i++ {
		y := src.Y[i]
		x0 := src.X0[i]
		x1 := src.X1[i]
		x := (d2 - y*ny2) / nx2
		if x < x1 {
			left.Append(y, max32(x, x0), x1)
		}
		if x > x0 {
			right.Append(y, x0, min32(x, x1))
		}
	}
	return left, right
}

func max32(a, b int32) int32 {
	if a > b {
		return a
	}
	return b
}

func min32(a, b int32) int32 {
	if a < b {
		return a
	}
	return b
}
