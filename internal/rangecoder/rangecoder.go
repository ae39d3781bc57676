// Package rangecoder implements the nibble-renormalizing arithmetic coder
// ("range coder"). The top-level encoder and decoder serialize the partition
// tree with package xrangecoder instead. [Encoder] pairs with [Decoder];
// byte layouts of the range coder and the xrange (ANS) coder are not
// interchangeable.
package rangecoder

const (
	numNibbles      = 6
	nibbleBits      = 8
	nibbleMask      = uint64(0xFF)
	valueBits       = numNibbles * nibbleBits
	valueMask       = (uint64(1) << valueBits) - 1
	headNibbleShift = valueBits - nibbleBits
	headStart       = uint64(1) << headNibbleShift
	rangeLimitBits  = headNibbleShift - nibbleBits
	rangeLimitMask  = (uint64(1) << rangeLimitBits) - 1
)

// Triplet is one encode/decode step: the value's interval [bottom, top) out
// of total_range equiprobable slots.
type Triplet struct {
	Bottom, Top, Total uint32
}

// Encoder accumulates (value, max) pairs and serializes them on Finish.
type Encoder struct {
	triplets []Triplet
}

// NewEncoder returns an empty range encoder.
func NewEncoder() *Encoder {
	return &Encoder{}
}

// WriteNumber records value, a uniformly distributed integer in [0, max).
func (e *Encoder) WriteNumber(max, value uint32) {
	if max == 1 {
		return
	}
	e.triplets = append(e.triplets, Triplet{Bottom: value, Top: value + 1, Total: max})
}

// WriteSize encodes value (value >= 8) with the shared variable-length size
// coding (see package rangecode).
func (e *Encoder) WriteSize(value uint32) {
	writeSize(e, value)
}

// Finish serializes all recorded numbers and returns the encoded bytes,
// trimming trailing bytes where the decoder would still parse correctly.
func (e *Encoder) Finish() []byte {
	return e.optimize(e.encode())
}

func (e *Encoder) encode() []byte {
	var out []byte
	low := uint64(0)
	rng := valueMask
	for _, t := range e.triplets {
		rng /= uint64(t.Total)
		low += uint64(t.Bottom) * rng
		rng *= uint64(t.Top - t.Bottom)
		for {
			if (low ^ (low + rng - 1)) >= headStart {
				if rng > rangeLimitMask {
					break
				}
				rng = (-low) & rangeLimitMask
			}
			out = append(out, byte(low>>headNibbleShift))
			rng = ((rng << nibbleBits) & valueMask) | nibbleMask
			low = (low << nibbleBits) & valueMask
		}
	}
	for i := 0; i < numNibbles; i++ {
		out = append(out, byte(low>>headNibbleShift))
		low = (low << nibbleBits) & valueMask
	}
	return out
}

// replayDecoder mirrors Decoder exactly; it exists so Encoder.optimize can
// verify that a truncated, nudged tail still decodes every recorded triplet.
type replayDecoder struct {
	data       []byte
	dataLength int
	offset     int
	code       uint64
	low        uint64
	rng        uint64
}

func (d *replayDecoder) readNibble() uint64 {
	if d.offset < d.dataLength {
		v := uint64(d.data[d.offset])
		d.offset++
		return v
	}
	return 0
}

func (d *replayDecoder) decodeRange(t Triplet) bool {
	d.rng /= uint64(t.Total)
	if d.rng == 0 {
		return false
	}
	count := uint32((d.code - d.low) / d.rng)
	if count < t.Bottom || count >= t.Top {
		return false
	}
	d.low += uint64(t.Bottom) * d.rng
	d.rng *= uint64(t.Top - t.Bottom)
	for {
		if (d.low ^ (d.low + d.rng - 1)) >= headStart {
			if d.rng > rangeLimitMask {
				break
			}
			d.rng = (-d.low) & rangeLimitMask
		}
		d.code = ((d.code << nibbleBits) & valueMask) | d.readNibble()
		d.rng = ((d.rng << nibbleBits) & valueMask) | nibbleMask
		d.low = (d.low << nibbleBits) & valueMask
	}
	return true
}

// optimize is the KISS byte-trimming pass described in spec: shave up to
// numNibbles trailing bytes and nudge the new last byte by -1/0/+1, keeping
// whichever variant still decodes every triplet.
func (e *Encoder) optimize(data []byte) []byte {
	if len(data) <= 2*numNibbles {
		return data
	}

	cur := &replayDecoder{data: data, dataLength: len(data), rng: valueMask}
	for i := 0; i < numNibbles; i++ {
		cur.code = (cur.code << nibbleBits) | uint64(cur.data[cur.offset])
		cur.offset++
	}
	cur.rng = valueMask
	good := *cur

	tripletsSize := len(e.triplets)
	i := 0
	for i < tripletsSize {
		cur.decodeRange(e.triplets[i])
		if cur.offset+2*numNibbles > len(data) {
			break
		}
		good = *cur
		i++
	}

	bestCut := 0
	bestCutDelta := int32(0)
	for cut := 1; cut <= numNibbles; cut++ {
		good.dataLength = len(data) - cut
		originalTail := data[good.dataLength-1]
		for delta := int32(-1); delta <= 1; delta++ {
			current := good
			data[current.dataLength-1] = byte(int32(originalTail) + delta)
			j := i
			ok := true
			for ok && j < tripletsSize {
				ok = current.decodeRange(e.triplets[j])
				j++
			}
			if ok {
				bestCut = cut
				bestCutDelta = delta
			}
		}
		data[good.dataLength-1] = originalTail
	}

	data = data[:len(data)-bestCut]
	data[len(data)-1] = byte(int32(data[len(data)-1]) + bestCutDelta)
	return data
}

// Decoder reads a byte stream produced by Encoder.
type Decoder struct {
	data    []byte
	low     uint64
	rng     uint64
	code    uint64
	offset  int
	healthy bool
}

// NewDecoder prepares a decoder over encoded bytes.
func NewDecoder(data []byte) *Decoder {
	d := &Decoder{data: data, rng: valueMask, healthy: true}
	for i := 0; i < numNibbles; i++ {
		d.code = (d.code << nibbleBits) | d.readNibble()
	}
	return d
}

// OK reports whether the stream has been healthy so far; once corrupted
// input is detected it stays false.
func (d *Decoder) OK() bool {
	return d.healthy
}

func (d *Decoder) readNibble() uint64 {
	if d.offset < len(d.data) {
		v := uint64(d.data[d.offset])
		d.offset++
		return v
	}
	return 0
}

func (d *Decoder) removeRange(bottom, top uint32) {
	d.low += uint64(bottom) * d.rng
	d.rng *= uint64(top - bottom)
	for {
		if (d.low ^ (d.low + d.rng - 1)) >= headStart {
			if d.rng > rangeLimitMask {
				break
			}
			d.rng = (-d.low) & rangeLimitMask
		}
		d.code = ((d.code << nibbleBits) & valueMask) | d.readNibble()
		d.rng = ((d.rng << nibbleBits) & valueMask) | nibbleMask
		d.low = (d.low << nibbleBits) & valueMask
	}
}

func (d *Decoder) currentCount(totalRange uint32) uint32 {
	d.rng /= uint64(totalRange)
	result := int64((d.code - d.low) / d.rng)
	if result < 0 || result > int64(totalRange) {
		d.healthy = false
		return 0
	}
	return uint32(result)
}

// ReadNumber reads one integer uniformly distributed in [0, max).
func (d *Decoder) ReadNumber(max uint32) uint32 {
	if max < 2 {
		return 0
	}
	result := d.currentCount(max)
	d.removeRange(result, result+1)
	return result
}

// ReadSize reads a value written by Encoder.WriteSize.
func (d *Decoder) ReadSize() uint32 {
	return readSize(d)
}
