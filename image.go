package twim

import (
	"image"
	"image/color"
)

// Image is a planar RGB raster: one contiguous byte slice per channel,
// row-major, no padding.
type Image struct {
	Width, Height int32
	R, G, B       []uint8

	// OK is false for a zero-value Image and for whatever Decode returns
	// when the input is corrupted; a caller should not trust R/G/B unless
	// OK is true.
	OK bool
}

// NewImage allocates a blank image of the given size.
func NewImage(width, height int32) Image {
	n := int(width) * int(height)
	return Image{
		Width:  width,
		Height: height,
		R:      make([]uint8, n),
		G:      make([]uint8, n),
		B:      make([]uint8, n),
		OK:     true,
	}
}

// FromRGBA demultiplexes a packed RGBA buffer (4 bytes per pixel, row-major)
// into a planar Image, dropping alpha.
func FromRGBA(src []byte, width, height int32) Image {
	img := NewImage(width, height)
	n := int(width) * int(height)
	for i := 0; i < n; i++ {
		img.R[i] = src[4*i+0]
		img.G[i] = src[4*i+1]
		img.B[i] = src[4*i+2]
	}
	return img
}

// FromImage converts any stdlib image.Image into a planar Image, dropping
// alpha. This accepts whatever the caller decoded with image/png,
// image/jpeg, and so on, rather than requiring a concrete pixel type.
func FromImage(src image.Image) Image {
	bounds := src.Bounds()
	width, height := int32(bounds.Dx()), int32(bounds.Dy())
	img := NewImage(width, height)
	for y := 0; y < bounds.Dy(); y++ {
		for x := 0; x < bounds.Dx(); x++ {
			rgba := color.RGBAModel.Convert(src.At(bounds.Min.X+x, bounds.Min.Y+y)).(color.RGBA)
			i := y*int(width) + x
			img.R[i] = rgba.R
			img.G[i] = rgba.G
			img.B[i] = rgba.B
		}
	}
	return img
}
