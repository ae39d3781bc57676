package twim

import "testing"

func checkerboardImage(width, height int32) Image {
	img := NewImage(width, height)
	w := int(width)
	for y := int32(0); y < height; y++ {
		for x := int32(0); x < width; x++ {
			i := int(y)*w + int(x)
			if (x/4+y/4)%2 == 0 {
				img.R[i], img.G[i], img.B[i] = 20, 30, 40
			} else {
				img.R[i], img.G[i], img.B[i] = 200, 210, 220
			}
		}
	}
	return img
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	img := checkerboardImage(32, 32)
	params := Params{
		TargetSize: 256,
		Variants: []Variant{
			{PartitionCode: 0, LineLimit: 20, ColorOptions: 1},
			{PartitionCode: 50, LineLimit: 20, ColorOptions: 1 << 1},
		},
		NumThreads: 1,
	}

	result, err := Encode(img, params)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	if len(result.Data) == 0 {
		t.Fatalf("Encode produced no data")
	}

	decoded, err := Decode(result.Data)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if !decoded.OK {
		t.Fatalf("decoded image not OK")
	}
	if decoded.Width != img.Width || decoded.Height != img.Height {
		t.Fatalf("decoded size = %dx%d, want %dx%d", decoded.Width, decoded.Height, img.Width, img.Height)
	}

	var sqErr float64
	n := int(img.Width) * int(img.Height)
	for i := 0; i < n; i++ {
		dr := float64(img.R[i]) - float64(decoded.R[i])
		dg := float64(img.G[i]) - float64(decoded.G[i])
		db := float64(img.B[i]) - float64(decoded.B[i])
		sqErr += dr*dr + dg*dg + db*db
	}
	mse := sqErr / float64(n)
	if mse > 5000 {
		t.Fatalf("mse = %v, too high for a two-tone checkerboard", mse)
	}
}

func TestEncodeRejectsSmallImages(t *testing.T) {
	img := NewImage(4, 4)
	_, err := Encode(img, Params{TargetSize: 64})
	if err != ErrImageTooSmall {
		t.Fatalf("err = %v, want ErrImageTooSmall", err)
	}
}

func TestEncodeFillsInDefaultParams(t *testing.T) {
	img := checkerboardImage(16, 16)
	_, err := Encode(img, Params{TargetSize: 64})
	if err != nil {
		t.Fatalf("Encode with default variants/threads failed: %v", err)
	}
}

func TestDecodeHandlesGarbageWithoutPanicking(t *testing.T) {
	inputs := [][]byte{
		nil,
		{},
		{0x00},
		{0xFF, 0xFF, 0xFF, 0xFF},
		make([]byte, 64),
	}
	for _, in := range inputs {
		func() {
			defer func() {
				if r := recover(); r != nil {
					t.Fatalf("Decode panicked on %v: %v", in, r)
				}
			}()
			Decode(in)
		}()
	}
}

func FuzzDecode(f *testing.F) {
	img := checkerboardImage(16, 16)
	result, err := Encode(img, Params{TargetSize: 96, NumThreads: 1})
	if err == nil {
		f.Add(result.Data)
	}
	f.Add([]byte{})
	f.Add(make([]byte, 16))

	f.Fuzz(func(t *testing.T, data []byte) {
		defer func() {
			if r := recover(); r != nil {
				t.Fatalf("Decode panicked: %v", r)
			}
		}()
		Decode(data)
	})
}
