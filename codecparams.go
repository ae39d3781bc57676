package twim

import (
	"fmt"
	"math"

	"github.com/twim/twim/internal/rangecode"
	"github.com/twim/twim/internal/region"
	"github.com/twim/twim/internal/sincos"
)

const (
	maxLevel          = 7
	maxF1             = 4
	maxF2             = 5
	maxF3             = 5
	maxF4             = 5
	scaleStepFactor   = 40
	baseScaleFactor   = 36
	kMaxLineLimit     = 63
	kMaxColorCode     = 17
	kMaxPartitionCode = maxF1 * maxF2 * maxF3 * maxF4

	// kNumColorQuantOptions is the number of color codes assigned to the
	// fixed-grid quantizer; codes at or above it select a palette instead,
	// with palette size growing as a power of two in the remaining codes.
	kNumColorQuantOptions = 10
)

// kTax is the size, in code points, of the joint (partition code, line
// limit, color code) tuning space a variant search sweeps over.
const kTax = kMaxPartitionCode * kMaxLineLimit * kMaxColorCode

// CodecParams is the self-describing header of an encoded stream: image
// dimensions plus the tuning knobs controlling how finely the partition
// search subdivides and how colors are quantized.
type CodecParams struct {
	Width, Height int32

	levelScale [maxLevel]int32
	partition  [4]int32
	angleBits  [maxLevel]int32

	colorCode   int32
	colorQuant  int32
	paletteSize int32
	lineLimit   int32
}

// NewCodecParams returns params for an image of the given size, with
// default partition code 0 and the maximum line limit; callers should call
// SetPartitionCode/SetColorCode (or Read) before use.
func NewCodecParams(width, height int32) *CodecParams {
	cp := &CodecParams{Width: width, Height: height, lineLimit: kMaxLineLimit}
	cp.SetPartitionCode(0)
	cp.SetColorCode(0)
	return cp
}

// LineQuant is the base quantum between candidate cut lines, one fixed-point
// unit.
func (cp *CodecParams) LineQuant() int32 {
	return sincos.KOne
}

// LineLimit is the maximum number of candidate cut lines a single angle may
// offer before its quantum is coarsened.
func (cp *CodecParams) LineLimit() int32 {
	return cp.lineLimit
}

// SetLineLimit sets the line limit directly; SetPartitionCode leaves it
// untouched, so a variant search can sweep line limits independently of
// partition code.
func (cp *CodecParams) SetLineLimit(limit int32) {
	cp.lineLimit = limit
}

// ColorQuant returns the active color quantization step (0 in palette
// mode).
func (cp *CodecParams) ColorQuant() int32 {
	return cp.colorQuant
}

// PaletteSize returns the active palette size (0 in fixed-grid mode).
func (cp *CodecParams) PaletteSize() int32 {
	return cp.paletteSize
}

// AngleBits returns the number of bits used to encode a cut angle at the
// given partition depth.
func (cp *CodecParams) AngleBits(level int32) int32 {
	return cp.angleBits[level]
}

// MakeColorQuant maps a color code in [0, kMaxColorCode) to the number of
// representable levels along one channel.
func MakeColorQuant(code int32) int32 {
	return 1 + ((4 + (code & 3)) << uint(code>>2))
}

// DequantizeColor maps a quantized channel value back to [0, 255].
func DequantizeColor(v, q int32) int32 {
	return (255*v + q - 2) / (q - 1)
}

// SetColorCode selects the color quantization code. Codes below
// kNumColorQuantOptions derive a fixed-grid ColorQuant; codes at or above it
// derive a PaletteSize instead (a power of two growing with the code).
func (cp *CodecParams) SetColorCode(code int32) {
	cp.colorCode = code
	if code < kNumColorQuantOptions {
		cp.colorQuant = MakeColorQuant(code)
		cp.paletteSize = 0
	} else {
		cp.colorQuant = 0
		cp.paletteSize = int32(1) << uint(code-kNumColorQuantOptions+1)
	}
}

func splitPartitionCode(code int32) [4]int32 {
	var p [4]int32
	p[0] = code % maxF1
	code /= maxF1
	p[1] = code % maxF2
	code /= maxF2
	p[2] = code % maxF3
	code /= maxF3
	p[3] = code % maxF4
	return p
}

// SetPartitionCode selects the partition tuning code and derives the
// level-scale and angle-bit schedules.
func (cp *CodecParams) SetPartitionCode(code int32) {
	cp.setPartitionParams(splitPartitionCode(code))
}

func (cp *CodecParams) setPartitionParams(p [4]int32) {
	cp.partition = p
	f1 := p[0]
	f2 := p[1] + 2
	f3 := int32(math.Pow(10, 3-float64(p[2])/5.0))
	f4 := p[3]

	scale := (cp.Width*cp.Width + cp.Height*cp.Height) * f2 * f2
	for i := 0; i < maxLevel; i++ {
		cp.levelScale[i] = scale / baseScaleFactor
		scale = (scale * scaleStepFactor) / f3
	}

	bits := int32(sincos.KMaxAngleBits) - f1
	for i := int32(0); i < maxLevel; i++ {
		v := bits - i - (i*f4)/2
		if v < 0 {
			v = 0
		}
		cp.angleBits[i] = v
	}
}

// Tax is the flat bit cost of the (partition code, line limit, color code)
// tuning tuple, charged once per image regardless of its content.
func (cp *CodecParams) Tax() float32 {
	return sincos.BitCost(kTax)
}

// String renders a short human-readable summary, matching the layout the
// reference encoder logs for each tuning variant it tries.
func (cp *CodecParams) String() string {
	return fmt.Sprintf("p: %d%d%d%d, l: %d, c: %d",
		cp.partition[0], cp.partition[1], cp.partition[2], cp.partition[3],
		cp.lineLimit, cp.colorCode)
}

// GetLevel returns the partition depth bucket for a region's bounding box,
// used to look up its angle-bit budget.
func (cp *CodecParams) GetLevel(r region.Region) int32 {
	n := r.Len()
	if n == 0 {
		return -1
	}
	minY, maxY := cp.Height+1, int32(-1)
	minX, maxX := cp.Width+1, int32(-1)
	for i := 0; i < n; i++ {
		y, x0, x1 := r.Row(i)
		if y < minY {
			minY = y
		}
		if y > maxY {
			maxY = y
		}
		if x0 < minX {
			minX = x0
		}
		if x1 > maxX {
			maxX = x1
		}
	}
	dx := maxX - minX
	dy := maxY + 1 - minY
	d := dx*dx + dy*dy
	for i := int32(0); i < maxLevel; i++ {
		if d >= cp.levelScale[i] {
			return i
		}
	}
	return maxLevel - 1
}

// Write serializes the header.
func (cp *CodecParams) Write(dst rangecode.Writer) {
	dst.WriteSize(uint32(cp.Width))
	dst.WriteSize(uint32(cp.Height))
	dst.WriteNumber(maxF1, uint32(cp.partition[0]))
	dst.WriteNumber(maxF2, uint32(cp.partition[1]))
	dst.WriteNumber(maxF3, uint32(cp.partition[2]))
	dst.WriteNumber(maxF4, uint32(cp.partition[3]))
	dst.WriteNumber(kMaxLineLimit, uint32(cp.lineLimit-1))
	dst.WriteNumber(kMaxColorCode, uint32(cp.colorCode))
}

// ReadCodecParams parses a header written by Write.
func ReadCodecParams(src rangecode.Reader) *CodecParams {
	width := int32(src.ReadSize())
	height := int32(src.ReadSize())
	cp := &CodecParams{Width: width, Height: height}
	p := [4]int32{
		int32(src.ReadNumber(maxF1)),
		int32(src.ReadNumber(maxF2)),
		int32(src.ReadNumber(maxF3)),
		int32(src.ReadNumber(maxF4)),
	}
	cp.setPartitionParams(p)
	cp.lineLimit = int32(src.ReadNumber(kMaxLineLimit)) + 1
	cp.SetColorCode(int32(src.ReadNumber(kMaxColorCode)))
	return cp
}
