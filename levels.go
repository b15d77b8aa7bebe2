package go_parquet

import (
	"encoding/binary"
	"math/bits"
)

// levels.go implements LevelCodec (spec section 4.3): rep/def level streams
// inside a v1 data page are RLE-hybrid encoded with a 4-byte little-endian
// length prefix. Grounded on segmentio/parquet-go's levelDecoder wrapper
// (encoding/rle/decoder.go in other_examples), which reads the same prefix
// before handing the remainder to the hybrid decoder.

// levelBitWidth is ceil(log2(maxLevel+1)); a maxLevel of 0 needs no bits at
// all (spec section 4.2, "bit width discovery").
func levelBitWidth(maxLevel int) int {
	if maxLevel == 0 {
		return 0
	}
	return bits.Len(uint(maxLevel))
}

// EncodeLevels serializes one page's worth of rep or def level entries. If
// maxLevel is 0 the stream is empty by construction (no header, no bytes)
// per spec section 4.2's "bit width discovery" and is not length-prefixed
// either, since a page with max_level==0 omits the level stream entirely
// (spec section 3 invariants).
func EncodeLevels(levels []uint16, maxLevel int) ([]byte, error) {
	if maxLevel == 0 {
		return nil, nil
	}
	width := levelBitWidth(maxLevel)
	enc := newRLEEncoder(width)
	for _, lvl := range levels {
		if int(lvl) > maxLevel {
			return nil, malformedf("encode_levels: level %d exceeds max %d", lvl, maxLevel)
		}
		if err := enc.Put(uint64(lvl)); err != nil {
			return nil, err
		}
	}
	body, err := enc.Finish()
	if err != nil {
		return nil, err
	}

	out := make([]byte, 4+len(body))
	binary.LittleEndian.PutUint32(out[:4], uint32(len(body)))
	copy(out[4:], body)
	return out, nil
}

// DecodeLevels reads count level entries from a length-prefixed stream,
// returning the entries and the number of bytes consumed from data.
func DecodeLevels(data []byte, maxLevel int, count int) ([]uint16, int, error) {
	if maxLevel == 0 {
		out := make([]uint16, count)
		return out, 0, nil
	}
	if len(data) < 4 {
		return nil, 0, bufferUnderrunf("decode_levels: missing 4-byte length prefix")
	}
	size := int(binary.LittleEndian.Uint32(data[:4]))
	if size < 0 || 4+size > len(data) {
		return nil, 0, malformedf("decode_levels: declared length %d exceeds available %d", size, len(data)-4)
	}

	width := levelBitWidth(maxLevel)
	dec := newRLEDecoder(width, data[4:4+size])
	out := make([]uint16, count)
	u64 := make([]uint64, count)
	n, err := dec.GetBatch(u64)
	if err != nil {
		return nil, 0, err
	}
	if n != count {
		return nil, 0, malformedf("decode_levels: expected %d entries, got %d", count, n)
	}
	for i, v := range u64 {
		if int(v) > maxLevel {
			return nil, 0, malformedf("decode_levels: decoded level %d exceeds max %d", v, maxLevel)
		}
		out[i] = uint16(v)
	}
	return out, 4 + size, nil
}
