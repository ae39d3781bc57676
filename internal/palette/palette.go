// Package palette builds a k-means++ color palette over a partition's leaf
// patches and scores the squared-error cost of either color model (a fixed
// per-channel grid, or an explicit palette).
package palette

import "math"

// seed is the fixed xorshift32 seed documented for palette seeding
// reproducibility.
const seed = 0x23DE605F

// Patch is one leaf's summary: its mean color and pixel count.
type Patch struct {
	R, G, B, Count float32
}

// Nearest returns the index of colors' nearest center to rgb (stride-4
// entries: R, G, B, unused) and the squared distance to it.
func Nearest(rgb [3]float32, colors []float32) (index int, dist2 float32) {
	best := float32(math.MaxFloat32)
	bestJ := 0
	m := len(colors) / 4
	for j := 0; j < m; j++ {
		dr := rgb[0] - colors[4*j]
		dg := rgb[1] - colors[4*j+1]
		db := rgb[2] - colors[4*j+2]
		d2 := dr*dr + dg*dg + db*db
		if d2 < best {
			best = d2
			bestJ = j
		}
	}
	return bestJ, best
}

// Build runs k-means++ seeding followed by Lloyd iteration to produce size
// centers (stride-4: R, G, B, 0) over patches, weighted by pixel count. A
// size of 0 returns an empty palette.
func Build(patches []Patch, size int) []float32 {
	if size == 0 {
		return nil
	}
	n := len(patches)
	centers := make([]float32, 4*size)
	rng := newXorshift32(seed)

	// First center: uniformly at random, weighted by pixel count.
	var total float32
	for _, p := range patches {
		total += p.Count
	}
	target := total * rng.float01()
	i := 0
	var partial float32
	for ; i < n; i++ {
		partial += patches[i].Count
		if partial >= target {
			break
		}
	}
	if i >= n {
		i = n - 1
	}
	centers[0], centers[1], centers[2] = patches[i].R, patches[i].G, patches[i].B

	weights := make([]float32, n)
	for j := 1; j < size; j++ {
		var wtotal float32
		for i, p := range patches {
			_, d2 := Nearest([3]float32{p.R, p.G, p.B}, centers[:4*j])
			w := d2 * p.Count
			weights[i] = w
			wtotal += w
		}
		target := wtotal * rng.float01()
		var partial float32
		pick := n - 1
		for i := range patches {
			partial += weights[i]
			if partial >= target {
				pick = i
				break
			}
		}
		centers[4*j], centers[4*j+1], centers[4*j+2] = patches[pick].R, patches[pick].G, patches[pick].B
	}

	// Lloyd iteration: reassign, recompute centroids, stop once the score
	// stops improving meaningfully.
	acc := make([]float32, 4*size)
	lastScore := float32(math.MaxFloat32)
	for {
		for i := range acc {
			acc[i] = 0
		}
		var score float32
		for _, p := range patches {
			idx, d2 := Nearest([3]float32{p.R, p.G, p.B}, centers)
			score += d2 * p.Count
			acc[4*idx+0] += p.R * p.Count
			acc[4*idx+1] += p.G * p.Count
			acc[4*idx+2] += p.B * p.Count
			acc[4*idx+3] += p.Count
		}
		for j := 0; j < size; j++ {
			cnt := acc[4*j+3]
			if cnt >= 0.5 {
				centers[4*j] = acc[4*j] / cnt
				centers[4*j+1] = acc[4*j+1] / cnt
				centers[4*j+2] = acc[4*j+2] / cnt
			}
			// An orphaned center (cnt < 0.5) is left where it was.
		}
		if lastScore-score < 1.0 {
			break
		}
		lastScore = score
	}
	return centers
}

// SimulateEncode returns Σ count·Σ_c color_c·(color_c − 2·orig_c) over every
// patch, under either the fixed-grid quantizer (paletteColors == nil) or
// nearest-palette-color assignment. This is the squared-error sum up to the
// constant Σ orig², which the caller re-adds from UberCache.RGB2.
func SimulateEncode(patches []Patch, colorQuant int32, paletteColors []float32) float32 {
	var result float32
	if len(paletteColors) == 0 {
		vMax := float32(colorQuant - 1)
		quant := vMax / 255.0
		dequant := float32(255.0) / vMax
		for _, p := range patches {
			orig := [3]float32{p.R, p.G, p.B}
			for c := 0; c < 3; c++ {
				v := float32(math.Round(float64(quant * orig[c])))
				color := v * dequant
				result += p.Count * color * (color - 2*orig[c])
			}
		}
		return result
	}
	for _, p := range patches {
		orig := [3]float32{p.R, p.G, p.B}
		idx, _ := Nearest(orig, paletteColors)
		for c := 0; c < 3; c++ {
			color := paletteColors[4*idx+c]
			result += p.Count * color * (color - 2*orig[c])
		}
	}
	return result
}
