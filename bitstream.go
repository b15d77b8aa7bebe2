package go_parquet

import "encoding/binary"

// BitWriter appends little-endian, LSB-first bit-packed values into a
// caller-owned buffer of fixed declared capacity. It never grows the
// buffer: callers size it up front the way the teacher's columnChunkReader
// sizes its offsetReader around a known chunk length.
//
// The accumulator is 64 bits wide (a single put_bits call never straddles
// more than one refill), and PutBits accepts widths of 1 to 64 bits.
type BitWriter struct {
	buf      []byte
	maxBytes int

	byteOffset int
	bitBuffer  uint64
	bitCount   int // bits currently buffered, not yet committed to buf
}

// NewBitWriter wraps buf, whose full length is the declared capacity.
func NewBitWriter(buf []byte) *BitWriter {
	return &BitWriter{buf: buf, maxBytes: len(buf)}
}

// PutBits writes the n LSBs of v. The caller must ensure the upper 64-n
// bits of v are already zero. Spec section 4.1's primary contract caps n at
// 32; the accumulator itself tolerates up to 64 (spec section 9's open
// question on accumulator width), which DELTA_BINARY_PACKED miniblocks for
// INT64 rely on when a miniblock's bit width exceeds 32.
func (w *BitWriter) PutBits(v uint64, n uint) error {
	if n < 1 || n > 64 {
		return malformedf("put_bits: n=%d out of range [1,64]", n)
	}
	if v>>n != 0 {
		return malformedf("put_bits: value 0x%x does not fit in %d bits", v, n)
	}
	if w.byteOffset*8+w.bitCount+int(n) > w.maxBytes*8 {
		return bufferFullf("put_bits: not enough space for %d more bits", n)
	}

	w.bitBuffer |= v << uint(w.bitCount)
	w.bitCount += int(n)
	if w.bitCount >= 64 {
		binary.LittleEndian.PutUint64(w.buf[w.byteOffset:w.byteOffset+8], w.bitBuffer)
		w.byteOffset += 8
		w.bitCount -= 64
		if w.bitCount == 0 {
			w.bitBuffer = 0
		} else {
			w.bitBuffer = v >> (n - uint(w.bitCount))
		}
	}
	return nil
}

// Flush copies any partially buffered word into the output buffer. When
// align is true, the bit cursor advances to the next byte boundary so a
// following PutBits starts a fresh byte; when false, the partial byte is
// made visible in the output buffer but the cursor does not move, so the next
// PutBits keeps packing into (and overwriting) the same trailing byte.
func (w *BitWriter) Flush(align bool) error {
	if w.bitCount == 0 {
		return nil
	}
	nbytes := (w.bitCount + 7) / 8
	if w.byteOffset+nbytes > w.maxBytes {
		return bufferFullf("flush: not enough space for %d trailing bytes", nbytes)
	}
	var tmp [8]byte
	binary.LittleEndian.PutUint64(tmp[:], w.bitBuffer)
	copy(w.buf[w.byteOffset:w.byteOffset+nbytes], tmp[:nbytes])
	if align {
		w.byteOffset += nbytes
		w.bitBuffer = 0
		w.bitCount = 0
	}
	return nil
}

// PutAligned flushes to the next byte boundary, then writes nbytes
// little-endian bytes from v.
func (w *BitWriter) PutAligned(v uint64, nbytes int) error {
	if err := w.Flush(true); err != nil {
		return err
	}
	if w.byteOffset+nbytes > w.maxBytes {
		return bufferFullf("put_aligned: not enough space for %d bytes", nbytes)
	}
	var tmp [8]byte
	binary.LittleEndian.PutUint64(tmp[:], v)
	copy(w.buf[w.byteOffset:w.byteOffset+nbytes], tmp[:nbytes])
	w.byteOffset += nbytes
	return nil
}

// PutVlq writes v as an unsigned VLQ: 7 bits per byte, MSB as continuation.
func (w *BitWriter) PutVlq(v uint32) error {
	for {
		b := uint64(v & 0x7f)
		v >>= 7
		if v != 0 {
			b |= 0x80
		}
		if err := w.PutAligned(b, 1); err != nil {
			return err
		}
		if v == 0 {
			return nil
		}
	}
}

// PutZigzagVlq writes v zigzag-encoded then VLQ-encoded.
func (w *BitWriter) PutZigzagVlq(v int32) error {
	u := uint32(v<<1) ^ uint32(v>>31)
	return w.PutVlq(u)
}

// BytesWritten reports the output length including any partial trailing byte.
func (w *BitWriter) BytesWritten() int {
	return w.byteOffset + (w.bitCount+7)/8
}

// BitReader is the symmetric counterpart of BitWriter.
type BitReader struct {
	buf     []byte
	bitPos  int
	maxBits int
}

// NewBitReader wraps buf for reading from its start.
func NewBitReader(buf []byte) *BitReader {
	return &BitReader{buf: buf, maxBits: len(buf) * 8}
}

// BytesLeft is max_bytes - byte_offset - ceil(bit_offset/8).
func (r *BitReader) BytesLeft() int {
	return len(r.buf) - r.bitPos/8 - boolToInt(r.bitPos%8 != 0)
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// GetBits returns the next n bits as the low bits of a uint64. n is in
// [1,32] for the spec's primary BitStream contract; up to 64 is tolerated
// for DELTA_BINARY_PACKED INT64 miniblocks (see PutBits).
func (r *BitReader) GetBits(n uint) (uint64, error) {
	if n < 1 || n > 64 {
		return 0, malformedf("get_bits: n=%d out of range [1,64]", n)
	}
	if r.bitPos+int(n) > r.maxBits {
		return 0, bufferUnderrunf("get_bits: need %d bits, %d left", n, r.maxBits-r.bitPos)
	}
	var v uint64
	for i := uint(0); i < n; i++ {
		pos := r.bitPos + int(i)
		bit := (r.buf[pos/8] >> uint(pos%8)) & 1
		v |= uint64(bit) << i
	}
	r.bitPos += int(n)
	return v, nil
}

// unpack8 extracts 8 values of the given bit width from a byte-aligned,
// exactly-width-byte source slice (one Parquet bit-packed "group"). It is a
// single generic loop that extracts one bit at a time for every width;
// there are no unpackers specialised per width, and groups are 8 values,
// not 32. GetBatch below calls it once per full byte-aligned group of 8,
// and falls back to GetBits for any unaligned head/tail residual.
func unpack8(width int, src []byte, dst []uint64) {
	bitPos := 0
	for i := 0; i < 8; i++ {
		var v uint64
		for b := 0; b < width; b++ {
			byteIdx := bitPos / 8
			bitIdx := uint(bitPos % 8)
			bit := (src[byteIdx] >> bitIdx) & 1
			v |= uint64(bit) << uint(b)
			bitPos++
		}
		dst[i] = v
	}
}

// GetBatch reads up to len(out) values of the given bit width, returning the
// number actually read (which may be less than len(out) if the stream ends
// early; that is not itself an error). Full groups of 8 use the bulk
// unpacker when the reader is byte-aligned; everything else falls back to
// GetBits one value at a time.
func (r *BitReader) GetBatch(width uint, out []uint64) (int, error) {
	if width < 1 || width > 64 {
		return 0, malformedf("get_batch: width=%d out of range [1,64]", width)
	}
	n := 0
	for n < len(out) {
		if r.bitPos >= r.maxBits {
			break
		}
		if r.bitPos%8 == 0 && len(out)-n >= 8 {
			groupBytes := int(width)
			byteStart := r.bitPos / 8
			if byteStart+groupBytes <= len(r.buf) {
				var tmp [8]uint64
				unpack8(int(width), r.buf[byteStart:byteStart+groupBytes], tmp[:])
				copy(out[n:n+8], tmp[:])
				r.bitPos += int(width) * 8
				n += 8
				continue
			}
		}
		v, err := r.GetBits(width)
		if err != nil {
			if _, ok := err.(*CodecError); ok {
				break
			}
			return n, err
		}
		out[n] = v
		n++
	}
	return n, nil
}

// GetAligned skips to the next byte boundary then reads nbytes LE bytes.
func (r *BitReader) GetAligned(nbytes int) (uint64, error) {
	if r.bitPos%8 != 0 {
		r.bitPos += 8 - r.bitPos%8
	}
	byteStart := r.bitPos / 8
	if byteStart+nbytes > len(r.buf) {
		return 0, bufferUnderrunf("get_aligned: need %d bytes, only %d left", nbytes, len(r.buf)-byteStart)
	}
	var tmp [8]byte
	copy(tmp[:], r.buf[byteStart:byteStart+nbytes])
	r.bitPos = (byteStart + nbytes) * 8
	return binary.LittleEndian.Uint64(tmp[:]), nil
}

// GetVlq is the inverse of PutVlq; decoding fails after 5 bytes.
func (r *BitReader) GetVlq() (uint32, error) {
	var result uint32
	for shift := uint(0); shift < 35; shift += 7 {
		b, err := r.GetAligned(1)
		if err != nil {
			return 0, err
		}
		result |= uint32(b&0x7f) << shift
		if b&0x80 == 0 {
			return result, nil
		}
	}
	return 0, malformedf("get_vlq: more than 5 continuation bytes")
}

// GetZigzagVlq is the inverse of PutZigzagVlq.
func (r *BitReader) GetZigzagVlq() (int32, error) {
	u, err := r.GetVlq()
	if err != nil {
		return 0, err
	}
	return int32(u>>1) ^ -int32(u&1), nil
}

// GetVlqU64 is GetVlq's 64-bit counterpart, the inverse of
// growBuffer.putVlqU64; DELTA_BINARY_PACKED first_value/min_delta headers
// need the full range for INT64 columns.
func (r *BitReader) GetVlqU64() (uint64, error) {
	var result uint64
	for shift := uint(0); shift < 70; shift += 7 {
		b, err := r.GetAligned(1)
		if err != nil {
			return 0, err
		}
		result |= uint64(b&0x7f) << shift
		if b&0x80 == 0 {
			return result, nil
		}
	}
	return 0, malformedf("get_vlq_u64: more than 10 continuation bytes")
}

// GetZigzagVlqI64 is GetZigzagVlq's 64-bit counterpart, the inverse of
// growBuffer.putZigzagVlq.
func (r *BitReader) GetZigzagVlqI64() (int64, error) {
	u, err := r.GetVlqU64()
	if err != nil {
		return 0, err
	}
	return int64(u>>1) ^ -int64(u&1), nil
}
