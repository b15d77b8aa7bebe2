package go_parquet

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memPageStore is an in-memory PageSink/PageHeaderSource pair used to drive
// columnChunkWriter/columnChunkReader end-to-end in tests, without any real
// file or Thrift encoding involved.
type memPageStore struct {
	headers []*PageHeader
	bodies  [][]byte
	pos     int
}

func (s *memPageStore) WriteDictionaryPage(header *PageHeader, body []byte) error {
	s.headers = append(s.headers, header)
	s.bodies = append(s.bodies, body)
	return nil
}

func (s *memPageStore) WriteDataPage(header *PageHeader, body []byte) error {
	s.headers = append(s.headers, header)
	s.bodies = append(s.bodies, body)
	return nil
}

func (s *memPageStore) ReadPageHeader(r io.Reader) (*PageHeader, []byte, error) {
	if s.pos >= len(s.headers) {
		return nil, nil, io.EOF
	}
	h := s.headers[s.pos]
	b := s.bodies[s.pos]
	s.pos++
	// Drain r by the body's compressed length so offsetReader.Count tracks
	// real consumption, mirroring a real Thrift-then-bytes read.
	io.CopyN(io.Discard, r, int64(h.CompressedPageSize))
	return h, b, nil
}

func (s *memPageStore) totalCompressedSize() int64 {
	var n int64
	for _, h := range s.headers {
		n += int64(h.CompressedPageSize)
	}
	return n
}

func TestColumnChunkRoundTripPlainInt32(t *testing.T) {
	leaf := &LeafDescriptor{
		PhysicalType: Type_INT32,
		Encoding:     Encoding_PLAIN,
		MaxDefLevel:  0,
		MaxRepLevel:  0,
	}
	store := &memPageStore{}
	w, err := newColumnChunkWriter(leaf, CompressionCodec_UNCOMPRESSED, store)
	require.NoError(t, err)

	values := []interface{}{int32(1), int32(2), int32(3), int32(4)}
	dLevels := []uint16{0, 0, 0, 0}
	rLevels := []uint16{0, 0, 0, 0}
	require.NoError(t, w.WriteBatch(values, dLevels, rLevels))

	meta, err := w.Close()
	require.NoError(t, err)
	assert.Equal(t, Encoding_PLAIN, meta.Encoding)
	meta.TotalCompressedSize = store.totalCompressedSize()

	reader := bytes.NewReader(make([]byte, meta.TotalCompressedSize))
	cr, err := newColumnChunkReader(reader, leaf, meta, store)
	require.NoError(t, err)

	out := make([]interface{}, len(values))
	n, gotD, gotR, err := cr.Read(out)
	require.NoError(t, err)
	assert.Equal(t, len(values), n)
	assert.Equal(t, values, out)
	assert.Equal(t, dLevels, gotD)
	assert.Equal(t, rLevels, gotR)
}

func TestColumnChunkRoundTripWithNullsAndRepetition(t *testing.T) {
	leaf := &LeafDescriptor{
		PhysicalType: Type_BYTE_ARRAY,
		Encoding:     Encoding_PLAIN,
		MaxDefLevel:  1,
		MaxRepLevel:  1,
	}
	store := &memPageStore{}
	w, err := newColumnChunkWriter(leaf, CompressionCodec_SNAPPY, store)
	require.NoError(t, err)

	// 3 rows: ["a","b"], [null], ["c"]
	values := []interface{}{[]byte("a"), []byte("b"), []byte("c")}
	dLevels := []uint16{1, 1, 0, 1}
	rLevels := []uint16{0, 1, 0, 0}
	require.NoError(t, w.WriteBatch(values, dLevels, rLevels))

	meta, err := w.Close()
	require.NoError(t, err)
	meta.TotalCompressedSize = store.totalCompressedSize()

	cr, err := newColumnChunkReader(bytes.NewReader(nil), leaf, meta, store)
	require.NoError(t, err)

	out := make([]interface{}, len(dLevels))
	n, gotD, gotR, err := cr.Read(out)
	require.NoError(t, err)
	assert.Equal(t, len(dLevels), n)
	assert.Equal(t, dLevels, gotD)
	assert.Equal(t, rLevels, gotR)
	assert.Equal(t, values, out[:3])
}

func TestColumnChunkRoundTripDictionary(t *testing.T) {
	leaf := &LeafDescriptor{
		PhysicalType: Type_INT32,
		Encoding:     Encoding_RLE_DICTIONARY,
		MaxDefLevel:  0,
		MaxRepLevel:  0,
	}
	store := &memPageStore{}
	w, err := newColumnChunkWriter(leaf, CompressionCodec_UNCOMPRESSED, store)
	require.NoError(t, err)

	values := []interface{}{int32(7), int32(7), int32(8), int32(7), int32(9), int32(8)}
	dLevels := make([]uint16, len(values))
	rLevels := make([]uint16, len(values))
	require.NoError(t, w.WriteBatch(values, dLevels, rLevels))

	meta, err := w.Close()
	require.NoError(t, err)
	assert.Equal(t, Encoding_RLE_DICTIONARY, meta.Encoding)
	meta.TotalCompressedSize = store.totalCompressedSize()
	require.Len(t, store.headers, 2)
	assert.Equal(t, PageType_DICTIONARY_PAGE, store.headers[0].Type)
	assert.Equal(t, PageType_DATA_PAGE, store.headers[1].Type)

	cr, err := newColumnChunkReader(bytes.NewReader(nil), leaf, meta, store)
	require.NoError(t, err)
	out := make([]interface{}, len(values))
	n, _, _, err := cr.Read(out)
	require.NoError(t, err)
	assert.Equal(t, len(values), n)
	assert.Equal(t, values, out)
}

func TestColumnChunkWriterRejectsMismatchedLevelLengths(t *testing.T) {
	leaf := &LeafDescriptor{PhysicalType: Type_INT32, Encoding: Encoding_PLAIN}
	w, err := newColumnChunkWriter(leaf, CompressionCodec_UNCOMPRESSED, &memPageStore{})
	require.NoError(t, err)
	err = w.WriteBatch([]interface{}{int32(1)}, []uint16{0}, []uint16{0, 0})
	assert.Error(t, err)
}

func TestColumnChunkWriterRejectsNonNullCountMismatch(t *testing.T) {
	leaf := &LeafDescriptor{PhysicalType: Type_INT32, Encoding: Encoding_PLAIN, MaxDefLevel: 1}
	w, err := newColumnChunkWriter(leaf, CompressionCodec_UNCOMPRESSED, &memPageStore{})
	require.NoError(t, err)
	err = w.WriteBatch([]interface{}{int32(1), int32(2)}, []uint16{1, 0}, []uint16{0, 0})
	assert.Error(t, err)
}
