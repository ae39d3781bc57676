// Package fragment implements one node of the partition tree: a scanline
// region, either a filled leaf or split by a half-plane cut into two child
// regions, plus the search that picks the best cut for a node.
package fragment

import (
	"math"

	"github.com/twim/twim/internal/distance"
	"github.com/twim/twim/internal/palette"
	"github.com/twim/twim/internal/rangecode"
	"github.com/twim/twim/internal/region"
	"github.com/twim/twim/internal/sincos"
	"github.com/twim/twim/internal/ubercache"
)

// Node type tags written into the bitstream ahead of each fragment.
const (
	NodeFill      = 0
	NodeHalfPlane = 1
	nodeTypeCount = 2

	// NodeTypeCount is the number of node type tags (exported for callers
	// that need to charge its bit cost, e.g. the partition builder's tax).
	NodeTypeCount = nodeTypeCount
)

// noOrdinal marks a fragment that has not yet been admitted into a
// partition (so IsLeaf treats it as a leaf by default).
const noOrdinal = math.MaxInt32

// Params is the subset of CodecParams a subdivision search needs.
type Params interface {
	distance.Params
	GetLevel(region.Region) int32
	AngleBits(level int32) int32
}

// Fragment is one node of the partition tree.
type Fragment struct {
	Region      region.Region
	Left, Right *Fragment

	Stats ubercache.Stats

	Ordinal       int
	Level         int32
	BestAngleCode int32
	BestLine      uint32
	BestScore     float32
	BestNumLines  uint32
	BestCost      float32
}

// New wraps region as a fresh, unsplit fragment.
func New(r region.Region) *Fragment {
	return &Fragment{Region: r, Ordinal: noOrdinal}
}

// IsLeaf reports whether f is a leaf of a partition admitting numNonLeaf
// interior nodes (the first numNonLeaf fragments built, by admission
// order, are interior; everything else is a leaf).
func (f *Fragment) IsLeaf(numNonLeaf int) bool {
	return f.Ordinal >= numNonLeaf
}

func updateGeHorizontal(cache *ubercache.Cache, d int32) {
	ny := sincos.Cos[0]
	dny := float32(d) / float32(ny)
	for i := 0; i < cache.Count; i++ {
		y := cache.Y[i]
		offset := cache.RowOffset[i]
		x0 := cache.X0[i]
		x1 := cache.X1[i]
		x := x0
		if y < dny {
			x = x1
		}
		cache.X[i] = 4*x + offset
	}
}

func updateGeGeneric(cache *ubercache.Cache, angle int, d int32) {
	mNyNx := sincos.MinusCot[angle]
	dNx := float32(float64(d)*sincos.InvSin[angle] + 0.5)
	for i := 0; i < cache.Count; i++ {
		y := cache.Y[i]
		offset := cache.RowOffset[i]
		xf := y*mNyNx + dNx
		x := int32(xf)
		x0 := cache.X0[i]
		x1 := cache.X1[i]
		if x < x0 {
			x = x0
		}
		if x > x1 {
			x = x1
		}
		cache.X[i] = 4*x + offset
	}
}

func updateGe(cache *ubercache.Cache, angle int, d int32) {
	if angle == 0 {
		updateGeHorizontal(cache, d)
	} else {
		updateGeGeneric(cache, angle, d)
	}
}

// score is the between-class-variance gain of splitting whole into left and
// right. Only the R/G/B channels are summed: the pixel-count channel always
// contributes exactly zero to this formula (whole_average[count] and
// left_average[count] are both identically 1, so their difference
// vanishes), so it is omitted rather than carried through as dead weight.
func score(whole, left, right ubercache.Stats) float32 {
	if left.Count <= 0 || right.Count <= 0 {
		return 0
	}
	invWhole := 1 / whole.Count
	invLeft := 1 / left.Count
	invRight := 1 / right.Count

	wholeC := [3]float32{whole.R, whole.G, whole.B}
	leftC := [3]float32{left.R, left.G, left.B}
	rightC := [3]float32{right.R, right.G, right.B}

	var total float32
	for c := 0; c < 3; c++ {
		wholeAvg := wholeC[c] * invWhole
		leftAvg := leftC[c] * invLeft
		rightAvg := rightC[c] * invRight
		leftSum := (wholeAvg - leftAvg) * (left.Count*(wholeAvg+leftAvg) - 2*leftC[c])
		rightSum := (wholeAvg - rightAvg) * (right.Count*(wholeAvg+rightAvg) - 2*rightC[c])
		total += leftSum + rightSum
	}
	return total
}

// FindBestSubdivision searches every quantized angle available at f's
// partition depth for the cut line maximizing score, and on success
// populates f.Left/f.Right with the two halves.
func (f *Fragment) FindBestSubdivision(cache *ubercache.Cache, cp Params) {
	level := cp.GetLevel(f.Region)
	angleMax := int32(1) << uint(cp.AngleBits(level))
	angleMult := sincos.KMaxAngle / int(angleMax)

	cache.Prepare(f.Region)
	plus := cache.Sum(cache.X1, false)
	minus := cache.Sum(cache.X0, false)
	whole := ubercache.Diff(plus, minus)

	var bestAngleCode int32
	var bestLine uint32
	bestScore := float32(-1.0)

	for angleCode := int32(0); angleCode < angleMax; angleCode++ {
		angle := int(angleCode) * angleMult
		var dr distance.Range
		dr.Update(f.Region, angle, cp)
		numLines := dr.NumLines

		cache.EnsureLineStats(int(numLines) + 2)
		cache.LineStats[0] = ubercache.Stats{}
		for line := uint32(0); line < numLines; line++ {
			updateGe(cache, angle, dr.Distance(line))
			m := cache.Sum(cache.X, true)
			cache.LineStats[line+1] = ubercache.Diff(plus, m)
		}
		cache.LineStats[numLines+1] = whole

		for line := uint32(0); line < numLines; line++ {
			left := cache.LineStats[line+1]
			right := ubercache.Diff(whole, left)
			s := score(whole, left, right)
			if s > bestScore {
				bestAngleCode = angleCode
				bestLine = line
				bestScore = s
			}
		}
	}

	f.Level = level
	f.Stats = whole
	f.BestScore = bestScore

	if bestScore < 0 {
		f.BestCost = -1
		return
	}

	bestAngle := int(bestAngleCode) * angleMult
	var dr distance.Range
	dr.Update(f.Region, bestAngle, cp)
	left, right := region.SplitLine(f.Region, bestAngle, dr.Distance(bestLine))

	f.Left = New(left)
	f.Right = New(right)
	f.BestAngleCode = bestAngleCode
	f.BestNumLines = dr.NumLines
	f.BestLine = bestLine
	f.BestCost = sincos.BitCost(nodeTypeCount * int(angleMax) * int(dr.NumLines))
}

// Encode writes f's bitstream representation: a FILL tag plus a quantized
// color for a leaf, or a HALF_PLANE tag plus the chosen angle/line for an
// interior node. For interior nodes it returns the two children to enqueue
// next; for leaves it returns nil.
func (f *Fragment) Encode(dst rangecode.Writer, maxAngle uint32, colorQuant, paletteSize int32, isLeaf bool, paletteColors []float32) []*Fragment {
	if isLeaf {
		dst.WriteNumber(nodeTypeCount, NodeFill)
		if paletteSize == 0 {
			quant := float32(colorQuant-1) / 255.0
			channels := [3]float32{f.Stats.R, f.Stats.G, f.Stats.B}
			for c := 0; c < 3; c++ {
				v := uint32(math.Round(float64(quant * channels[c] / f.Stats.Count)))
				dst.WriteNumber(uint32(colorQuant), v)
			}
		} else {
			rgb := [3]float32{
				f.Stats.R / f.Stats.Count,
				f.Stats.G / f.Stats.Count,
				f.Stats.B / f.Stats.Count,
			}
			index, _ := palette.Nearest(rgb, paletteColors)
			dst.WriteNumber(uint32(paletteSize), uint32(index))
		}
		return nil
	}
	dst.WriteNumber(nodeTypeCount, NodeHalfPlane)
	dst.WriteNumber(maxAngle, uint32(f.BestAngleCode))
	dst.WriteNumber(f.BestNumLines, f.BestLine)
	return []*Fragment{f.Left, f.Right}
}
