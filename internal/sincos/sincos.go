// Package sincos holds the fixed-point angle tables shared by the region
// splitter and the subdivision search.
package sincos

import "math"

const (
	// KMaxAngleBits is the number of bits needed to index the full angle
	// table.
	KMaxAngleBits = 9
	// KMaxAngle is the number of distinct quantized angles in [0, pi).
	KMaxAngle = 1 << KMaxAngleBits
	// KOne is the fixed-point unit scaling Sin/Cos.
	KOne = 1 << 18
)

// Sin holds round(KOne * sin(pi*i/KMaxAngle)) for i in [0, KMaxAngle).
// Sin is non-negative for every entry.
var Sin [KMaxAngle]int32

// Cos holds round(KOne * cos(pi*i/KMaxAngle)) for i in [0, KMaxAngle).
// Cos is positive for i < KMaxAngle/2 and non-positive afterwards.
var Cos [KMaxAngle]int32

// InvSin holds 1/Sin[i] (0 at i == 0), used by the oblique branch of
// updateGe.
var InvSin [KMaxAngle]float64

// MinusCot holds -Cos[i]/Sin[i].
var MinusCot [KMaxAngle]float32

// Log2 holds log2(i) for i in [0, len(Log2)), with Log2[0] == 0.
var Log2 [2049]float32

func init() {
	for i := 0; i < KMaxAngle; i++ {
		theta := math.Pi * float64(i) / KMaxAngle
		Sin[i] = int32(math.Round(KOne * math.Sin(theta)))
		Cos[i] = int32(math.Round(KOne * math.Cos(theta)))
	}
	InvSin[0] = 0.0
	for i := 1; i < KMaxAngle; i++ {
		InvSin[i] = 1.0 / float64(Sin[i])
	}
	for i := 0; i < KMaxAngle; i++ {
		MinusCot[i] = float32(-float64(Cos[i]) * InvSin[i])
	}
	Log2[0] = 0
	for i := 1; i < len(Log2); i++ {
		Log2[i] = float32(math.Log2(float64(i)))
	}
}

// BitCost returns the bit cost of encoding one value uniformly drawn out of
// rng possibilities, i.e. log2(rng).
func BitCost(rng int) float32 {
	if rng >= 0 && rng < len(Log2) {
		return Log2[rng]
	}
	return float32(math.Log2(float64(rng)))
}
