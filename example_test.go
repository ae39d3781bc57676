package twim_test

import (
	"fmt"

	"github.com/twim/twim"
)

// ExampleEncode demonstrates basic encoding and decoding of an image.
func ExampleEncode() {
	width, height := int32(16), int32(16)
	img := twim.NewImage(width, height)
	for y := int32(0); y < height; y++ {
		for x := int32(0); x < width; x++ {
			i := int(y)*int(width) + int(x)
			if x < width/2 {
				img.R[i], img.G[i], img.B[i] = 10, 10, 10
			} else {
				img.R[i], img.G[i], img.B[i] = 240, 240, 240
			}
		}
	}

	result, err := twim.Encode(img, twim.Params{TargetSize: 128, NumThreads: 1})
	if err != nil {
		fmt.Println("encode failed:", err)
		return
	}

	decoded, err := twim.Decode(result.Data)
	if err != nil {
		fmt.Println("decode failed:", err)
		return
	}

	fmt.Printf("decoded ok: %v, size: %dx%d\n", decoded.OK, decoded.Width, decoded.Height)
	// Output:
	// decoded ok: true, size: 16x16
}

// ExampleEncode_fromRGBA demonstrates building an Image from packed RGBA
// bytes, e.g. as decoded by image/png or image/jpeg via color.RGBA.
func ExampleEncode_fromRGBA() {
	width, height := int32(8), int32(8)
	rgba := make([]byte, int(width)*int(height)*4)
	for i := 0; i < len(rgba); i += 4 {
		rgba[i+0] = 128
		rgba[i+1] = 64
		rgba[i+2] = 32
		rgba[i+3] = 255
	}

	img := twim.FromRGBA(rgba, width, height)
	result, err := twim.Encode(img, twim.Params{TargetSize: 64, NumThreads: 1})
	if err != nil {
		fmt.Println("encode failed:", err)
		return
	}

	fmt.Printf("encoded: %v\n", len(result.Data) > 0)
	// Output:
	// encoded: true
}
