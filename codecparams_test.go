package twim

import (
	"testing"

	"github.com/twim/twim/internal/rangecoder"
)

func TestCodecParamsRoundTrip(t *testing.T) {
	cp := NewCodecParams(37, 59)
	cp.SetPartitionCode(123)
	cp.SetColorCode(9)
	cp.lineLimit = 17

	enc := rangecoder.NewEncoder()
	cp.Write(enc)
	data := enc.Finish()

	got := ReadCodecParams(rangecoder.NewDecoder(data))
	if got.Width != cp.Width || got.Height != cp.Height {
		t.Fatalf("dimensions = %dx%d, want %dx%d", got.Width, got.Height, cp.Width, cp.Height)
	}
	if got.lineLimit != cp.lineLimit {
		t.Fatalf("lineLimit = %d, want %d", got.lineLimit, cp.lineLimit)
	}
	if got.colorCode != cp.colorCode || got.colorQuant != cp.colorQuant {
		t.Fatalf("color = (%d,%d), want (%d,%d)", got.colorCode, got.colorQuant, cp.colorCode, cp.colorQuant)
	}
	if got.partition != cp.partition {
		t.Fatalf("partition = %v, want %v", got.partition, cp.partition)
	}
	if got.angleBits != cp.angleBits {
		t.Fatalf("angleBits = %v, want %v", got.angleBits, cp.angleBits)
	}
}

func TestMakeColorQuantMonotonic(t *testing.T) {
	prev := int32(0)
	for code := int32(0); code < kMaxColorCode; code++ {
		q := MakeColorQuant(code)
		if q <= prev {
			t.Fatalf("MakeColorQuant(%d) = %d, want > %d", code, q, prev)
		}
		prev = q
	}
}

func TestDequantizeColorRange(t *testing.T) {
	for code := int32(0); code < kMaxColorCode; code++ {
		q := MakeColorQuant(code)
		for v := int32(0); v < q; v++ {
			c := DequantizeColor(v, q)
			if c < 0 || c > 255 {
				t.Fatalf("DequantizeColor(%d, %d) = %d, out of [0,255]", v, q, c)
			}
		}
	}
}
