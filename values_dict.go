package go_parquet

import "math/bits"

// values_dict.go implements PLAIN_DICTIONARY/RLE_DICTIONARY (spec section
// 4.4): a dictionary page in PLAIN form, and data pages carrying a 1-byte
// bit-width prefix followed by RLE-hybrid-encoded indices. Grounded on the
// teacher file's dictDecoder/dictionaryPage types (chunk_reader.go) for the
// reader side, and segmentio/parquet-go's column.go/column_pages.go
// (sampled into other_examples/) for the column-chunk-scoped dictionary
// lifecycle: built while the first data page of a chunk is encoded,
// frozen at dictionary-page emission, falls back to PLAIN once it grows
// past a size limit.

const (
	// DefaultDictionaryByteLimit and DefaultDictionaryEntryLimit are the
	// spec section 9 "implementation-chosen" dictionary fallback
	// thresholds: 1 MiB of accumulated dictionary value bytes, or 2^20
	// entries, whichever comes first.
	DefaultDictionaryByteLimit  = 1 << 20
	DefaultDictionaryEntryLimit = 1 << 20
)

// dictDecoder reads RLE_DICTIONARY-encoded index streams and resolves them
// against a dictionary page's decoded values, exactly like the teacher's
// dictDecoder{values: dictValues}.
type dictDecoder struct {
	values []interface{}
	width  int
	dec    *rleDecoder
}

func (d *dictDecoder) init(data []byte) error {
	if len(data) < 1 {
		return bufferUnderrunf("dict decoder: missing bit-width byte")
	}
	d.width = int(data[0])
	if d.width == 0 {
		// spec section 4.4: width 0 is only valid when the dictionary has
		// exactly one entry; the index stream is then implicitly all zero
		// and no further bytes are read.
		if len(d.values) != 1 {
			return malformedf("dict decoder: bit width 0 requires a dictionary of size 1, got %d", len(d.values))
		}
		return nil
	}
	d.dec = newRLEDecoder(d.width, data[1:])
	return nil
}

func (d *dictDecoder) decodeValues(out []interface{}) (int, error) {
	if d.width == 0 {
		for i := range out {
			out[i] = d.values[0]
		}
		return len(out), nil
	}
	idx := make([]uint64, len(out))
	n, err := d.dec.GetBatch(idx)
	if err != nil {
		return n, err
	}
	for i := 0; i < n; i++ {
		if int(idx[i]) >= len(d.values) {
			return i, malformedf("dict decoder: index %d >= dictionary size %d", idx[i], len(d.values))
		}
		out[i] = d.values[idx[i]]
	}
	return n, nil
}

// dictionaryEncoder owns a column chunk's growing value-to-index map. It is
// created when the first data page of a chunk chooses dictionary encoding
// and frozen (no more new entries, see falls-back-to-PLAIN behavior) once
// it exceeds the fallback thresholds, per spec section 4.4's writer
// contract and section 3's chunk-scoped dictionary lifecycle.
type dictionaryEncoder struct {
	typ        Type
	typeLength *int32

	indexOf    map[string]int
	dictValues []interface{}
	dictBytes  int
	fellBack   bool
}

func newDictionaryEncoder(typ Type, typeLength *int32) *dictionaryEncoder {
	return &dictionaryEncoder{
		typ:        typ,
		typeLength: typeLength,
		indexOf:    map[string]int{},
	}
}

// FellBack reports whether the dictionary has permanently fallen back to
// PLAIN; per spec section 4.4, once true it stays true for the rest of the
// chunk.
func (e *dictionaryEncoder) FellBack() bool {
	return e.fellBack
}

func (e *dictionaryEncoder) plainKeyOf(v interface{}) (string, error) {
	enc, err := getValuesEncoder(e.typ, e.typeLength, Encoding_PLAIN)
	if err != nil {
		return "", err
	}
	if err := enc.encodeValues([]interface{}{v}); err != nil {
		return "", err
	}
	b, err := enc.finish()
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// indexFor returns v's dictionary index, inserting it if new and there is
// still room; once room runs out it flips fellBack and returns false.
func (e *dictionaryEncoder) indexFor(v interface{}) (idx int, ok bool, err error) {
	if e.fellBack {
		return 0, false, nil
	}
	key, err := e.plainKeyOf(v)
	if err != nil {
		return 0, false, err
	}
	if i, found := e.indexOf[key]; found {
		return i, true, nil
	}
	if len(e.dictValues) >= DefaultDictionaryEntryLimit || e.dictBytes+len(key) > DefaultDictionaryByteLimit {
		e.fellBack = true
		return 0, false, nil
	}
	idx = len(e.dictValues)
	e.dictValues = append(e.dictValues, v)
	e.indexOf[key] = idx
	e.dictBytes += len(key)
	return idx, true, nil
}

// BitWidth is ceil(log2(dictionary_size)), clamped to >= 1 (spec section 3).
func (e *dictionaryEncoder) BitWidth() int {
	n := len(e.dictValues)
	if n <= 1 {
		return 1
	}
	return bits.Len(uint(n - 1))
}

// DictionaryPageBytes renders the accumulated dictionary in PLAIN form.
func (e *dictionaryEncoder) DictionaryPageBytes() ([]byte, error) {
	enc, err := getValuesEncoder(e.typ, e.typeLength, Encoding_PLAIN)
	if err != nil {
		return nil, err
	}
	if err := enc.encodeValues(e.dictValues); err != nil {
		return nil, err
	}
	return enc.finish()
}

// EncodeDataPage encodes one data page's worth of values as dictionary
// indices (1-byte bit width prefix + RLE-hybrid body). If the dictionary
// falls back mid-page, it returns ok=false and the caller must re-encode
// the whole page with PLAIN instead (and every later page in the chunk),
// per spec section 4.4.
func (e *dictionaryEncoder) EncodeDataPage(values []interface{}) (data []byte, ok bool, err error) {
	if e.fellBack {
		return nil, false, nil
	}
	indices := make([]uint64, 0, len(values))
	for _, v := range values {
		idx, inserted, err := e.indexFor(v)
		if err != nil {
			return nil, false, err
		}
		if !inserted {
			return nil, false, nil
		}
		indices = append(indices, uint64(idx))
	}

	width := e.BitWidth()
	rle := newRLEEncoder(width)
	for _, idx := range indices {
		if err := rle.Put(idx); err != nil {
			return nil, false, err
		}
	}
	body, err := rle.Finish()
	if err != nil {
		return nil, false, err
	}

	out := make([]byte, 1+len(body))
	out[0] = byte(width)
	copy(out[1:], body)
	return out, true, nil
}
