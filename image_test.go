package twim

import (
	"image"
	"image/color"
	"testing"
)

func TestFromImageDropsAlphaAndMatchesPixels(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 2, 2))
	src.Set(0, 0, color.RGBA{R: 10, G: 20, B: 30, A: 255})
	src.Set(1, 0, color.RGBA{R: 40, G: 50, B: 60, A: 128})
	src.Set(0, 1, color.RGBA{R: 70, G: 80, B: 90, A: 0})
	src.Set(1, 1, color.RGBA{R: 100, G: 110, B: 120, A: 255})

	img := FromImage(src)
	if img.Width != 2 || img.Height != 2 {
		t.Fatalf("size = %dx%d, want 2x2", img.Width, img.Height)
	}
	want := [][3]uint8{{10, 20, 30}, {40, 50, 60}, {70, 80, 90}, {100, 110, 120}}
	for i, w := range want {
		if img.R[i] != w[0] || img.G[i] != w[1] || img.B[i] != w[2] {
			t.Fatalf("pixel %d = (%d,%d,%d), want (%d,%d,%d)", i, img.R[i], img.G[i], img.B[i], w[0], w[1], w[2])
		}
	}
}
