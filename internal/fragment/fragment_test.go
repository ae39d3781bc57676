package fragment

import (
	"math"
	"testing"

	"github.com/twim/twim/internal/sincos"
	"github.com/twim/twim/internal/ubercache"
)

func TestScoreZeroWhenEitherSideEmpty(t *testing.T) {
	whole := ubercache.Stats{R: 10, Count: 2}
	left := ubercache.Stats{R: 3, Count: 1}
	right := ubercache.Stats{}
	if s := score(whole, left, right); s != 0 {
		t.Fatalf("score with empty right side = %v, want 0", s)
	}
	if s := score(whole, ubercache.Stats{}, left); s != 0 {
		t.Fatalf("score with empty left side = %v, want 0", s)
	}
}

func TestScoreMatchesHandComputedVariance(t *testing.T) {
	// Two pixels, values 3 and 7 on the R channel, G/B all zero. Splitting
	// them into singleton left/right classes should score the full
	// between-class variance gain for R and nothing for G/B.
	whole := ubercache.Stats{R: 10, Count: 2}
	left := ubercache.Stats{R: 3, Count: 1}
	right := ubercache.Stats{R: 7, Count: 1}

	got := score(whole, left, right)
	const want = float32(8)
	if math.Abs(float64(got-want)) > 1e-4 {
		t.Fatalf("score = %v, want %v", got, want)
	}
}

func TestUpdateGeHorizontalPicksX1AboveLineX0BelowOrOn(t *testing.T) {
	// ny == sincos.Cos[0] == sincos.KOne, so d == sincos.Cos[0] makes
	// dny == 1.0: row 0 (y < 1) lies outside the y*ny >= d half-plane and
	// takes x1, row 1 (y >= 1) lies inside it and takes x0.
	cache := &ubercache.Cache{
		Count:     2,
		Y:         []float32{0, 1},
		X0:        []int32{2, 3},
		X1:        []int32{5, 6},
		RowOffset: []int32{100, 200},
		X:         make([]int32, 2),
	}
	updateGeHorizontal(cache, sincos.Cos[0])

	if want := int32(4*5 + 100); cache.X[0] != want {
		t.Fatalf("row 0: X = %d, want %d (expected x1)", cache.X[0], want)
	}
	if want := int32(4*3 + 200); cache.X[1] != want {
		t.Fatalf("row 1: X = %d, want %d (expected x0)", cache.X[1], want)
	}
}

func TestUpdateGeGenericClampsToRegionBounds(t *testing.T) {
	// With every row at y == 0, the y*MinusCot term vanishes regardless of
	// angle, so the unclamped column is driven entirely by d and angle's
	// InvSin: x == floor(d*InvSin[angle] + 0.5). Deriving d as a multiple of
	// sincos.Sin[angle] keeps the expected column an exact integer
	// independent of any particular rounding in the sin/cos tables.
	angle := sincos.KMaxAngle / 2
	d := int32(3 * sincos.Sin[angle])

	cache := &ubercache.Cache{
		Count:     3,
		Y:         []float32{0, 0, 0},
		X0:        []int32{0, 0, 4},
		X1:        []int32{5, 2, 10},
		RowOffset: []int32{100, 200, 300},
		X:         make([]int32, 3),
	}
	updateGeGeneric(cache, angle, d)

	if want := int32(4*3 + 100); cache.X[0] != want {
		t.Fatalf("row 0 (unclamped): X = %d, want %d", cache.X[0], want)
	}
	if want := int32(4*2 + 200); cache.X[1] != want {
		t.Fatalf("row 1 (clamped to x1=2): X = %d, want %d", cache.X[1], want)
	}
	if want := int32(4*4 + 300); cache.X[2] != want {
		t.Fatalf("row 2 (clamped to x0=4): X = %d, want %d", cache.X[2], want)
	}
}
