package twim

import (
	"github.com/twim/twim/internal/distance"
	"github.com/twim/twim/internal/fragment"
	"github.com/twim/twim/internal/rangecode"
	"github.com/twim/twim/internal/region"
	"github.com/twim/twim/internal/sincos"
	"github.com/twim/twim/internal/xrangecoder"
)

// maxDecodePixels bounds the width*height Decode will attempt to allocate
// for a single image, guarding against a corrupted or adversarial header.
const maxDecodePixels = 1 << 28

// decodeReader is the entropy-reader surface Decode needs: number/size
// framing plus a health check, so a structurally corrupt stream is
// detected rather than silently producing garbage numbers.
type decodeReader interface {
	rangecode.Reader
	OK() bool
}

type paintColor struct {
	r, g, b uint8
}

func readColor(src decodeReader, cp *CodecParams, pal []paintColor) paintColor {
	if cp.PaletteSize() == 0 {
		q := cp.ColorQuant()
		r := DequantizeColor(int32(src.ReadNumber(uint32(q))), q)
		g := DequantizeColor(int32(src.ReadNumber(uint32(q))), q)
		b := DequantizeColor(int32(src.ReadNumber(uint32(q))), q)
		return paintColor{uint8(r), uint8(g), uint8(b)}
	}
	return pal[src.ReadNumber(uint32(cp.PaletteSize()))]
}

// decodeFragment is one node of the tree being reconstructed from the
// bitstream: either a painted leaf or an interior split awaiting its two
// children.
type decodeFragment struct {
	region      region.Region
	fill        bool
	color       paintColor
	left, right *decodeFragment
}

func (f *decodeFragment) parse(src decodeReader, cp *CodecParams, pal []paintColor) ([]*decodeFragment, bool) {
	nodeType := src.ReadNumber(fragment.NodeTypeCount)

	level := cp.GetLevel(f.region)
	if level < 0 {
		return nil, false
	}

	if nodeType == fragment.NodeFill {
		f.fill = true
		f.color = readColor(src, cp, pal)
		return nil, true
	}
	if nodeType != fragment.NodeHalfPlane {
		return nil, false
	}

	angleMax := uint32(1) << uint(cp.AngleBits(level))
	angleCode := src.ReadNumber(angleMax)
	angle := int(angleCode) * (sincos.KMaxAngle / int(angleMax))

	var dr distance.Range
	dr.Update(f.region, angle, cp)
	numLines := dr.NumLines
	if numLines == 0 || numLines == distance.Invalid {
		return nil, false
	}
	line := src.ReadNumber(numLines)

	left, right := region.SplitLine(f.region, angle, dr.Distance(line))
	f.left = &decodeFragment{region: left}
	f.right = &decodeFragment{region: right}
	return []*decodeFragment{f.left, f.right}, true
}

func (f *decodeFragment) render(img Image) {
	if f.fill {
		width := int(img.Width)
		n := f.region.Len()
		for i := 0; i < n; i++ {
			y, x0, x1 := f.region.Row(i)
			base := int(y) * width
			for x := x0; x < x1; x++ {
				img.R[base+int(x)] = f.color.r
				img.G[base+int(x)] = f.color.g
				img.B[base+int(x)] = f.color.b
			}
		}
		return
	}
	f.left.render(img)
	f.right.render(img)
}

// Decode parses an encoded byte stream back into an approximate image. On
// any structural corruption it returns a zero-value Image (OK == false)
// and ErrCorruptStream; no panic, regardless of how the input was
// truncated or mangled.
func Decode(data []byte) (Image, error) {
	src := xrangecoder.NewDecoder(data)
	cp := ReadCodecParams(src)

	// A corrupted header's width/height can claim an arbitrarily large
	// image; maxDecodePixels bounds the allocation Decode is willing to
	// attempt before it will trust those fields.
	if cp.Width < 8 || cp.Height < 8 || int64(cp.Width)*int64(cp.Height) > maxDecodePixels {
		return Image{}, ErrCorruptStream
	}

	pal := make([]paintColor, cp.PaletteSize())
	for j := range pal {
		r := src.ReadNumber(256)
		g := src.ReadNumber(256)
		b := src.ReadNumber(256)
		pal[j] = paintColor{uint8(r), uint8(g), uint8(b)}
	}

	root := &decodeFragment{region: region.Full(cp.Width, cp.Height)}
	queue := []*decodeFragment{root}
	for cursor := 0; cursor < len(queue); cursor++ {
		children, ok := queue[cursor].parse(src, cp, pal)
		if !ok || !src.OK() {
			return Image{}, ErrCorruptStream
		}
		queue = append(queue, children...)
	}
	if !src.OK() {
		return Image{}, ErrCorruptStream
	}

	img := NewImage(cp.Width, cp.Height)
	root.render(img)
	return img, nil
}
