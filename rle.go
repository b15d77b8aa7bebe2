package go_parquet

// rle.go implements the Parquet hybrid RLE/bit-packed integer codec (spec
// section 4.2), shared by LevelCodec (rep/def levels) and dictionary index
// streams. Grounded on segmentio/parquet-go's encoding/rle package
// (bitPackDecoder/runLengthDecoder state machine) and loopmachine's
// from-scratch rle32Decoder, both sampled into other_examples/.

const bitPackGroupSize = 8

// rleEncoder buffers a run of identical values and a run of bit-packed
// 8-value groups, flushing whichever is active when the other kind of run
// starts, following the encoder policy in spec section 4.2.
type rleEncoder struct {
	bitWidth int
	byteSize int // ceil(bitWidth/8), size of one RLE-run repeated value

	out *growBuffer

	// bit-packed run under construction
	bpGroup    [bitPackGroupSize]uint64
	bpGroupLen int
	bpGroups   [][bitPackGroupSize]uint64 // completed groups awaiting flush

	// rle run under construction
	rleValue uint64
	rleCount int
}

func newRLEEncoder(bitWidth int) *rleEncoder {
	return &rleEncoder{
		bitWidth: bitWidth,
		byteSize: (bitWidth + 7) / 8,
		out:      newGrowBuffer(),
	}
}

func (e *rleEncoder) reset() {
	e.out = newGrowBuffer()
	e.bpGroupLen = 0
	e.bpGroups = e.bpGroups[:0]
	e.rleCount = 0
}

// Put appends one value (already known to fit in bitWidth bits).
func (e *rleEncoder) Put(v uint64) error {
	if e.rleCount > 0 && v == e.rleValue {
		e.rleCount++
		return nil
	}
	if e.rleCount >= bitPackGroupSize {
		// a qualifying run was already buffered: emit it now.
		if err := e.flushRLE(); err != nil {
			return err
		}
	} else if e.rleCount > 0 {
		// too short to be worth an RLE run: push back into bit-packing.
		for i := 0; i < e.rleCount; i++ {
			if err := e.pushBitPacked(e.rleValue); err != nil {
				return err
			}
		}
		e.rleCount = 0
	}

	e.rleValue = v
	e.rleCount = 1
	return nil
}

func (e *rleEncoder) pushBitPacked(v uint64) error {
	e.bpGroup[e.bpGroupLen] = v
	e.bpGroupLen++
	if e.bpGroupLen == bitPackGroupSize {
		e.bpGroups = append(e.bpGroups, e.bpGroup)
		e.bpGroupLen = 0
	}
	return nil
}

func (e *rleEncoder) flushRLE() error {
	if e.rleCount == 0 {
		return nil
	}
	// A partial bit-packed group holds values that came before the run, so
	// top it up from the run first; callers only flush runs of at least 8,
	// so at least one value is left for the RLE run itself.
	for e.bpGroupLen > 0 {
		if err := e.pushBitPacked(e.rleValue); err != nil {
			return err
		}
		e.rleCount--
	}
	if err := e.flushBitPacked(false); err != nil {
		return err
	}
	header := uint32(e.rleCount) << 1
	if err := e.out.putVlq(header); err != nil {
		return err
	}
	if err := e.out.putLE(e.rleValue, e.byteSize); err != nil {
		return err
	}
	e.rleCount = 0
	return nil
}

// flushBitPacked writes out any complete groups (and, if pad is true, pads a
// trailing partial group with zeros up to a full group of 8, per spec
// section 9's explicit padded-to-8 decision).
func (e *rleEncoder) flushBitPacked(pad bool) error {
	if pad && e.bpGroupLen > 0 {
		for e.bpGroupLen < bitPackGroupSize {
			e.bpGroup[e.bpGroupLen] = 0
			e.bpGroupLen++
		}
		e.bpGroups = append(e.bpGroups, e.bpGroup)
		e.bpGroupLen = 0
	}
	if len(e.bpGroups) == 0 {
		return nil
	}
	header := uint32(len(e.bpGroups))<<1 | 1
	if err := e.out.putVlq(header); err != nil {
		return err
	}
	for _, g := range e.bpGroups {
		if err := e.out.putBitPackedGroup(e.bitWidth, g[:]); err != nil {
			return err
		}
	}
	e.bpGroups = e.bpGroups[:0]
	return nil
}

// Finish flushes any buffered run (RLE or bit-packed, padding a trailing
// partial group) and returns the encoded bytes.
func (e *rleEncoder) Finish() ([]byte, error) {
	if e.rleCount >= bitPackGroupSize {
		if err := e.flushRLE(); err != nil {
			return nil, err
		}
	} else if e.rleCount > 0 {
		for i := 0; i < e.rleCount; i++ {
			if err := e.pushBitPacked(e.rleValue); err != nil {
				return nil, err
			}
		}
		e.rleCount = 0
	}
	if err := e.flushBitPacked(true); err != nil {
		return nil, err
	}
	return e.out.bytes(), nil
}

// rleDecoder is the inverse state machine: READ_HEADER, IN_RLE, IN_BITPACK.
type rleDecoder struct {
	bitWidth int
	byteSize int

	r *BitReader

	rleRemain   int
	rleValue    uint64
	bpRemainGrp int
	leftover    []uint64
}

func newRLEDecoder(bitWidth int, data []byte) *rleDecoder {
	return &rleDecoder{
		bitWidth: bitWidth,
		byteSize: (bitWidth + 7) / 8,
		r:        NewBitReader(data),
	}
}

// GetBatch fills up to len(out) values, crossing run boundaries as needed,
// and returns the number actually produced (fewer than len(out) only at
// end of stream).
func (d *rleDecoder) GetBatch(out []uint64) (int, error) {
	n := 0
	for n < len(out) {
		if len(d.leftover) > 0 {
			m := len(d.leftover)
			if rem := len(out) - n; rem < m {
				m = rem
			}
			copy(out[n:n+m], d.leftover[:m])
			d.leftover = d.leftover[m:]
			n += m
			continue
		}

		if d.rleRemain == 0 && d.bpRemainGrp == 0 {
			if err := d.readHeader(); err != nil {
				if err == errRLEExhausted {
					break
				}
				return n, err
			}
			continue
		}

		if d.rleRemain > 0 {
			m := d.rleRemain
			if rem := len(out) - n; rem < m {
				m = rem
			}
			for i := 0; i < m; i++ {
				out[n+i] = d.rleValue
			}
			n += m
			d.rleRemain -= m
			continue
		}

		// bit-packed: bpRemainGrp counts remaining whole groups of 8.
		rem := len(out) - n
		fullGroupsWanted := rem / bitPackGroupSize
		if fullGroupsWanted > d.bpRemainGrp {
			fullGroupsWanted = d.bpRemainGrp
		}
		if fullGroupsWanted > 0 {
			want := fullGroupsWanted * bitPackGroupSize
			read, err := d.r.GetBatch(uint(d.bitWidth), out[n:n+want])
			if err != nil {
				return n, err
			}
			if read != want {
				return n, malformedf("rle: truncated bit-packed run, wanted %d got %d", want, read)
			}
			d.bpRemainGrp -= fullGroupsWanted
			n += want
			continue
		}

		// Fewer than 8 slots remain in out but a whole group must be decoded
		// at once: decode into scratch and stash the unused tail.
		var tmp [bitPackGroupSize]uint64
		read, err := d.r.GetBatch(uint(d.bitWidth), tmp[:])
		if err != nil {
			return n, err
		}
		if read != bitPackGroupSize {
			return n, malformedf("rle: truncated bit-packed group, got %d of 8", read)
		}
		d.bpRemainGrp--
		copyN := len(out) - n
		copy(out[n:], tmp[:copyN])
		n += copyN
		d.leftover = append(d.leftover[:0], tmp[copyN:]...)
	}
	return n, nil
}

var errRLEExhausted = malformedf("rle: no more runs")

func (d *rleDecoder) readHeader() error {
	header, err := d.r.GetVlq()
	if err != nil {
		return errRLEExhausted
	}
	isBitPacked := header&1 == 1
	count := header >> 1
	if count == 0 {
		return malformedf("rle: zero-length run in header")
	}
	if isBitPacked {
		d.bpRemainGrp = int(count)
	} else {
		d.rleRemain = int(count)
		v, err := d.r.GetAligned(d.byteSize)
		if err != nil {
			return malformedf("rle: truncated RLE run value: %v", err)
		}
		d.rleValue = v
	}
	return nil
}
