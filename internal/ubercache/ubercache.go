// Package ubercache holds the image-wide integral image and the per-region
// scratch buffers the partition search uses to sum pixel statistics over a
// scanline region in O(1) per row.
package ubercache

import "github.com/twim/twim/internal/region"

// Stats bundles the four running sums tracked for a set of pixels: the
// per-channel color sum and the pixel count.
type Stats struct {
	R, G, B, Count float32
}

// Diff returns plus - minus, channel-wise.
func Diff(plus, minus Stats) Stats {
	return Stats{
		R:     plus.R - minus.R,
		G:     plus.G - minus.G,
		B:     plus.B - minus.B,
		Count: plus.Count - minus.Count,
	}
}

// UberCache is the whole-image cumulative sum table: row y, column x holds
// the sum of R/G/B/1 over the pixels of row y with column < x (column 0 is
// all zero and column Width carries the row's total). Any scanline span's
// per-channel sum can then be read in O(1) as a difference of two such sums.
type UberCache struct {
	Width, Height int
	Stride        int
	Sum           []float32
	RGB2          [3]float32
}

// New builds the integral image from planar 8-bit channels.
func New(width, height int, r, g, b []uint8) *UberCache {
	stride := 4 * (width + 1)
	u := &UberCache{
		Width:  width,
		Height: height,
		Stride: stride,
		Sum:    make([]float32, stride*height),
	}
	for y := 0; y < height; y++ {
		var rowRGB2 [3]float32
		srcOff := y * width
		dstOff := y * stride
		u.Sum[dstOff+0] = 0
		u.Sum[dstOff+1] = 0
		u.Sum[dstOff+2] = 0
		u.Sum[dstOff+3] = 0
		for x := 0; x < width; x++ {
			off := dstOff + 4*x
			rv := float32(r[srcOff+x])
			gv := float32(g[srcOff+x])
			bv := float32(b[srcOff+x])
			u.Sum[off+4] = u.Sum[off+0] + rv
			u.Sum[off+5] = u.Sum[off+1] + gv
			u.Sum[off+6] = u.Sum[off+2] + bv
			u.Sum[off+7] = u.Sum[off+3] + 1
			rowRGB2[0] += rv * rv
			rowRGB2[1] += gv * gv
			rowRGB2[2] += bv * bv
		}
		u.RGB2[0] += rowRGB2[0]
		u.RGB2[1] += rowRGB2[1]
		u.RGB2[2] += rowRGB2[2]
	}
	return u
}

// Cache is per-region scratch state reused across the many regions visited
// while searching for the best subdivision of one node.
type Cache struct {
	Uber *UberCache

	Plus, Minus Stats
	LineStats   []Stats

	Count     int
	RowOffset []int32
	Y         []float32
	X0, X1, X []int32
}

// NewCache returns empty scratch state over uber; Prepare sizes it for each
// region.
func NewCache(uber *UberCache) *Cache {
	return &Cache{Uber: uber}
}

// Prepare loads r's scanlines into the cache's working arrays.
func (c *Cache) Prepare(r region.Region) {
	n := r.Len()
	c.RowOffset = growI32(c.RowOffset, n)
	c.Y = growF32(c.Y, n)
	c.X0 = growI32(c.X0, n)
	c.X1 = growI32(c.X1, n)
	c.X = growI32(c.X, n)
	stride := int32(c.Uber.Stride)
	for i := 0; i < n; i++ {
		y, x0, x1 := r.Row(i)
		c.Y[i] = float32(y)
		c.X0[i] = x0
		c.X1[i] = x1
		c.RowOffset[i] = y * stride
	}
	c.Count = n
}

// Sum returns the pixel statistics for the column set in regionX. When abs
// is false, regionX holds plain x-coordinates and is combined with the
// cache's row offsets; when true (set by package fragment's updateGe) regionX
// already holds the fully resolved table offset.
func (c *Cache) Sum(regionX []int32, abs bool) Stats {
	var s Stats
	sum := c.Uber.Sum
	for i := 0; i < c.Count; i++ {
		var offset int32
		if abs {
			offset = regionX[i]
		} else {
			offset = c.RowOffset[i] + 4*regionX[i]
		}
		s.R += sum[offset+0]
		s.G += sum[offset+1]
		s.B += sum[offset+2]
		s.Count += sum[offset+3]
	}
	return s
}

// EnsureLineStats grows LineStats to at least n entries.
func (c *Cache) EnsureLineStats(n int) {
	if cap(c.LineStats) < n {
		c.LineStats = make([]Stats, n)
	} else {
		c.LineStats = c.LineStats[:n]
	}
}

func growI32(s []int32, n int) []int32 {
	if cap(s) < n {
		return make([]int32, n)
	}
	return s[:n]
}

func growF32(s []float32, n int) []float32 {
	if cap(s) < n {
		return make([]float32, n)
	}
	return s[:n]
}
