package go_parquet

import (
	"io"

	"github.com/pkg/errors"
)

// chunk_reader.go adapts the teacher file (Moonshile-parquet-go/
// chunk_reader.go, itself a column chunk reader from
// github.com/fraugster/parquet-go) to this repo's own format/value/level
// types. It keeps the teacher's shape — an offsetReader cursor, a
// columnChunkReader that walks dictionary-page-then-data-pages, a
// pageReader interface with dictionaryPage/dataPageV1 implementations —
// but the Thrift-decoded *parquet.PageHeader the teacher reads directly
// off the wire is replaced by a PageHeaderSource collaborator, since
// Thrift metadata decoding is an explicit non-goal (spec section 1, 6):
// the core only ever sees already-parsed headers and already-decompressed
// page bytes.

var errEndOfChunk = errors.New("end of column chunk")

// offsetReader wraps an io.Reader, tracking how many bytes have been
// consumed so callers can compare against TotalCompressedSize. Kept
// verbatim in spirit from the teacher file.
type offsetReader struct {
	inner  io.Reader
	offset int64
	count  int64
}

func (r *offsetReader) Read(p []byte) (int, error) {
	n, err := r.inner.Read(p)
	r.count += int64(n)
	return n, err
}

func (r *offsetReader) Count() int64 { return r.count }

// PageHeaderSource stands in for the Thrift metadata reader collaborator
// (spec section 6): given the chunk's byte stream positioned at a page
// boundary, it returns the next page's already-decoded header and the
// (still compressed) page body bytes.
type PageHeaderSource interface {
	ReadPageHeader(r io.Reader) (*PageHeader, []byte, error)
}

// pageReader is the interface data pages implement (dataPageV1), matching
// the teacher's pageReader/dataPageV1 pair.
type pageReader interface {
	readValues(out []interface{}) (n int, dLevel, rLevel []uint16, err error)
}

// dictionaryPage is not itself a data page (spec section 3, "Lifecycles":
// dictionaries are column-chunk scoped, frozen once read), so it does not
// implement pageReader; columnChunkReader.readPage loops past it.
type dictionaryPage struct {
	values []interface{}
}

func (dp *dictionaryPage) read(body []byte, typ Type, typeLength *int32, numValues int32) error {
	dec, err := getDictValuesDecoder(typ, typeLength)
	if err != nil {
		return err
	}
	if err := dec.init(body); err != nil {
		return err
	}
	dp.values = make([]interface{}, numValues)
	n, err := dec.decodeValues(dp.values)
	if err != nil {
		return errors.Wrapf(err, "expected %d dictionary values, read %d", numValues, n)
	}
	return nil
}

// dataPageV1 is the column-encoding core of this spec wired to one page's
// already-decompressed bytes: level streams up front (length-prefixed,
// spec section 4.3), then the value stream (spec section 4.4).
type dataPageV1 struct {
	leaf *LeafDescriptor

	numValues int32
	position  int

	dLevels []uint16
	rLevels []uint16
	values  []interface{}
}

func (dp *dataPageV1) read(body []byte, leaf *LeafDescriptor, encoding Encoding, numValues int32, dict []interface{}) error {
	dp.leaf = leaf
	dp.numValues = numValues

	dLevels, n1, err := DecodeLevels(body, leaf.MaxDefLevel, int(numValues))
	if err != nil {
		return errors.Wrap(err, "decode definition levels")
	}
	rLevels, n2, err := DecodeLevels(body[n1:], leaf.MaxRepLevel, int(numValues))
	if err != nil {
		return errors.Wrap(err, "decode repetition levels")
	}
	dp.dLevels, dp.rLevels = dLevels, rLevels

	notNull := 0
	for _, d := range dLevels {
		if int(d) == leaf.MaxDefLevel {
			notNull++
		}
	}

	valuesDec, err := getValuesDecoder(leaf.PhysicalType, leaf.TypeLength, encoding, dict)
	if err != nil {
		return err
	}
	if err := valuesDec.init(body[n1+n2:]); err != nil {
		return err
	}
	dp.values = make([]interface{}, notNull)
	if notNull > 0 {
		if n, err := valuesDec.decodeValues(dp.values); err != nil {
			return errors.Wrapf(err, "read values from page failed, need %d read %d", notNull, n)
		}
	}
	return nil
}

func (dp *dataPageV1) readValues(out []interface{}) (int, []uint16, []uint16, error) {
	size := len(out)
	if rem := int(dp.numValues) - dp.position; rem < size {
		size = rem
	}
	if size == 0 {
		return 0, nil, nil, nil
	}

	dLevel := dp.dLevels[dp.position : dp.position+size]
	rLevel := dp.rLevels[dp.position : dp.position+size]

	notNullBefore := 0
	for _, d := range dp.dLevels[:dp.position] {
		if int(d) == dp.leaf.MaxDefLevel {
			notNullBefore++
		}
	}
	notNull := 0
	for _, d := range dLevel {
		if int(d) == dp.leaf.MaxDefLevel {
			notNull++
		}
	}
	copy(out[:notNull], dp.values[notNullBefore:notNullBefore+notNull])

	dp.position += size
	return size, dLevel, rLevel, nil
}

// columnChunkReader reads successive pages out of one column chunk,
// following the teacher's columnChunkReader: one optional dictionary
// page, then one or more data pages.
type columnChunkReader struct {
	leaf   *LeafDescriptor
	meta   *ColumnMetaData
	source PageHeaderSource
	comp   Compressor

	reader     *offsetReader
	dictPage   *dictionaryPage
	activePage pageReader
}

func newColumnChunkReader(r io.Reader, leaf *LeafDescriptor, meta *ColumnMetaData, source PageHeaderSource) (*columnChunkReader, error) {
	comp, err := CompressorFor(meta.Codec)
	if err != nil {
		return nil, err
	}
	return &columnChunkReader{
		leaf:   leaf,
		meta:   meta,
		source: source,
		comp:   comp,
		reader: &offsetReader{inner: r},
	}, nil
}

func (cr *columnChunkReader) readPage() (pageReader, error) {
	if cr.meta.TotalCompressedSize-cr.reader.Count() <= 0 {
		return nil, errEndOfChunk
	}

	ph, compressedBody, err := cr.source.ReadPageHeader(cr.reader)
	if err != nil {
		return nil, err
	}

	body, err := cr.comp.Decompress(compressedBody, int(ph.UncompressedPageSize))
	if err != nil {
		return nil, errors.Wrap(err, "decompress page")
	}

	switch ph.Type {
	case PageType_DICTIONARY_PAGE:
		if cr.dictPage != nil {
			return nil, errors.New("column chunk carries more than one dictionary page")
		}
		if ph.DictionaryPageHeader == nil {
			return nil, errors.New("dictionary page without DictionaryPageHeader")
		}
		dp := &dictionaryPage{}
		if err := dp.read(body, cr.leaf.PhysicalType, cr.leaf.TypeLength, ph.DictionaryPageHeader.NumValues); err != nil {
			return nil, err
		}
		cr.dictPage = dp
		return cr.readPage()

	case PageType_DATA_PAGE:
		if ph.DataPageHeader == nil {
			return nil, errors.New("data page without DataPageHeader")
		}
		var dict []interface{}
		if cr.dictPage != nil {
			dict = cr.dictPage.values
		}
		dp := &dataPageV1{}
		if err := dp.read(body, cr.leaf, ph.DataPageHeader.Encoding, ph.DataPageHeader.NumValues, dict); err != nil {
			return nil, err
		}
		return dp, nil

	case PageType_DATA_PAGE_V2:
		return nil, unsupportedf("data page v2 is not covered by this spec")

	default:
		return nil, errors.Errorf("unknown page type %d", ph.Type)
	}
}

// Read returns up to len(values) level entries from the active page with
// their definition/repetition levels; n counts level entries, and the
// non-null values among them are packed at the front of values. Each call
// reads from a single page, moving on to the next page once the active one
// is exhausted. It returns n==0, nil error at end of chunk.
func (cr *columnChunkReader) Read(values []interface{}) (n int, dLevel []uint16, rLevel []uint16, err error) {
	for {
		if cr.activePage == nil {
			cr.activePage, err = cr.readPage()
			if err == errEndOfChunk {
				return 0, nil, nil, nil
			}
			if err != nil {
				return 0, nil, nil, errors.Wrap(err, "read page")
			}
		}
		n, dLevel, rLevel, err = cr.activePage.readValues(values)
		if n > 0 || err != nil || len(values) == 0 {
			return n, dLevel, rLevel, err
		}
		cr.activePage = nil
	}
}
