package go_parquet

// values_delta.go implements DELTA_BINARY_PACKED for INT32/INT64 (spec
// section 4.4): block_size/miniblock_count_per_block/total_value_count/
// first_value header, then per-block min_delta + per-miniblock bit widths
// + bit-packed deltas-minus-min. Grounded on joechenrh-data-writer's
// src-parquet_writer.go and src-generator-parquet_generator.go (sampled
// into other_examples/), which lay out the same block/miniblock framing on
// the writer side; the decoder is this spec's inverse, including the
// "miniblock bit width must be >= actual required width" check spec
// section 4.4 calls out explicitly.

const (
	deltaBlockSize          = 128
	deltaMiniblockCount     = 4
	deltaMiniblockSize      = deltaBlockSize / deltaMiniblockCount
)

// deltaBinaryPackedEncode renders values (already widened to int64) as one
// DELTA_BINARY_PACKED page.
func deltaBinaryPackedEncode(values []int64) ([]byte, error) {
	g := newGrowBuffer()
	if err := g.putVlqU64(uint64(deltaBlockSize)); err != nil {
		return nil, err
	}
	if err := g.putVlqU64(uint64(deltaMiniblockCount)); err != nil {
		return nil, err
	}
	if err := g.putVlqU64(uint64(len(values))); err != nil {
		return nil, err
	}
	if len(values) == 0 {
		if err := g.putZigzagVlq(0); err != nil {
			return nil, err
		}
		return g.bytes(), nil
	}
	if err := g.putZigzagVlq(values[0]); err != nil {
		return nil, err
	}

	deltas := make([]int64, len(values)-1)
	for i := 1; i < len(values); i++ {
		deltas[i-1] = values[i] - values[i-1]
	}

	for off := 0; off < len(deltas); off += deltaBlockSize {
		end := off + deltaBlockSize
		if end > len(deltas) {
			end = len(deltas)
		}
		block := deltas[off:end]

		minDelta := block[0]
		for _, d := range block {
			if d < minDelta {
				minDelta = d
			}
		}
		if err := g.putZigzagVlq(minDelta); err != nil {
			return nil, err
		}

		widths := make([]int, deltaMiniblockCount)
		miniblocks := make([][]uint64, deltaMiniblockCount)
		for m := 0; m < deltaMiniblockCount; m++ {
			mOff := m * deltaMiniblockSize
			vals := make([]uint64, deltaMiniblockSize)
			maxVal := uint64(0)
			for i := 0; i < deltaMiniblockSize; i++ {
				if mOff+i < len(block) {
					v := uint64(block[mOff+i] - minDelta)
					vals[i] = v
					if v > maxVal {
						maxVal = v
					}
				}
			}
			w := 0
			for maxVal != 0 {
				w++
				maxVal >>= 1
			}
			widths[m] = w
			miniblocks[m] = vals
		}

		for _, w := range widths {
			g.putByte(byte(w))
		}
		for m, vals := range miniblocks {
			w := widths[m]
			if w == 0 {
				continue
			}
			for i := 0; i < deltaMiniblockSize; i += bitPackGroupSize {
				if err := g.putBitPackedGroup(w, vals[i:i+bitPackGroupSize]); err != nil {
					return nil, err
				}
			}
		}
	}

	return g.bytes(), nil
}

// deltaBinaryPackedDecode is deltaBinaryPackedEncode's inverse, returning
// the full widened int64 value sequence for the page.
func deltaBinaryPackedDecode(data []byte) ([]int64, error) {
	r := NewBitReader(data)

	blockSizeU, err := r.GetVlq()
	if err != nil {
		return nil, malformedf("delta_binary_packed: missing block_size: %v", err)
	}
	blockSize := int(blockSizeU)
	if blockSize <= 0 || blockSize%128 != 0 {
		return nil, malformedf("delta_binary_packed: block_size %d is not a positive multiple of 128", blockSize)
	}

	miniblocksU, err := r.GetVlq()
	if err != nil {
		return nil, malformedf("delta_binary_packed: missing miniblock_count: %v", err)
	}
	miniblocks := int(miniblocksU)
	if miniblocks <= 0 || blockSize%miniblocks != 0 {
		return nil, malformedf("delta_binary_packed: miniblock_count %d does not divide block_size %d", miniblocks, blockSize)
	}
	miniblockSize := blockSize / miniblocks
	if miniblockSize%bitPackGroupSize != 0 {
		return nil, malformedf("delta_binary_packed: miniblock size %d is not a multiple of %d", miniblockSize, bitPackGroupSize)
	}

	totalU, err := r.GetVlq()
	if err != nil {
		return nil, malformedf("delta_binary_packed: missing total_value_count: %v", err)
	}
	total := int(totalU)

	first, err := r.GetZigzagVlqI64()
	if err != nil {
		return nil, malformedf("delta_binary_packed: missing first_value: %v", err)
	}

	out := make([]int64, 0, total)
	if total == 0 {
		return out, nil
	}
	out = append(out, first)

	for len(out) < total {
		minDelta, err := r.GetZigzagVlqI64()
		if err != nil {
			return nil, malformedf("delta_binary_packed: missing min_delta: %v", err)
		}

		widths := make([]int, miniblocks)
		for m := 0; m < miniblocks; m++ {
			wb, err := r.GetAligned(1)
			if err != nil {
				return nil, malformedf("delta_binary_packed: missing miniblock width byte: %v", err)
			}
			widths[m] = int(wb)
			if widths[m] > 64 {
				return nil, malformedf("delta_binary_packed: miniblock width %d exceeds 64", widths[m])
			}
		}

		for m := 0; m < miniblocks && len(out) < total; m++ {
			w := widths[m]
			raw := make([]uint64, miniblockSize)
			if w > 0 {
				n, err := r.GetBatch(uint(w), raw)
				if err != nil {
					return nil, err
				}
				if n != miniblockSize {
					return nil, malformedf("delta_binary_packed: truncated miniblock, got %d of %d", n, miniblockSize)
				}
				for _, v := range raw {
					need := bitsNeeded(v)
					if need > w {
						return nil, malformedf("delta_binary_packed: miniblock declared width %d but value needs %d", w, need)
					}
				}
			}
			for i := 0; i < miniblockSize && len(out) < total; i++ {
				prev := out[len(out)-1]
				out = append(out, prev+minDelta+int64(raw[i]))
			}
		}
	}

	return out, nil
}

func bitsNeeded(v uint64) int {
	w := 0
	for v != 0 {
		w++
		v >>= 1
	}
	return w
}

// --- wiring into the ValueCodec interfaces ---

type int32DeltaBPEncoder struct{ values []int64 }

func (e *int32DeltaBPEncoder) encodeValues(in []interface{}) error {
	for _, v := range in {
		n, ok := v.(int32)
		if !ok {
			return malformedf("int32 delta encoder: value is not int32")
		}
		e.values = append(e.values, int64(n))
	}
	return nil
}

func (e *int32DeltaBPEncoder) finish() ([]byte, error) { return deltaBinaryPackedEncode(e.values) }

type int32DeltaBPDecoder struct {
	values []int64
	pos    int
}

func (d *int32DeltaBPDecoder) init(data []byte) error {
	v, err := deltaBinaryPackedDecode(data)
	if err != nil {
		return err
	}
	d.values = v
	return nil
}

func (d *int32DeltaBPDecoder) decodeValues(out []interface{}) (int, error) {
	for i := range out {
		if d.pos >= len(d.values) {
			return i, bufferUnderrunf("int32 delta decoder: exhausted")
		}
		out[i] = int32(d.values[d.pos])
		d.pos++
	}
	return len(out), nil
}

type int64DeltaBPEncoder struct{ values []int64 }

func (e *int64DeltaBPEncoder) encodeValues(in []interface{}) error {
	for _, v := range in {
		n, ok := v.(int64)
		if !ok {
			return malformedf("int64 delta encoder: value is not int64")
		}
		e.values = append(e.values, n)
	}
	return nil
}

func (e *int64DeltaBPEncoder) finish() ([]byte, error) { return deltaBinaryPackedEncode(e.values) }

type int64DeltaBPDecoder struct {
	values []int64
	pos    int
}

func (d *int64DeltaBPDecoder) init(data []byte) error {
	v, err := deltaBinaryPackedDecode(data)
	if err != nil {
		return err
	}
	d.values = v
	return nil
}

func (d *int64DeltaBPDecoder) decodeValues(out []interface{}) (int, error) {
	for i := range out {
		if d.pos >= len(d.values) {
			return i, bufferUnderrunf("int64 delta decoder: exhausted")
		}
		out[i] = d.values[d.pos]
		d.pos++
	}
	return len(out), nil
}
