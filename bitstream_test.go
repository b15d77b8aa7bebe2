package go_parquet

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBitWriterReaderRoundTrip(t *testing.T) {
	buf := make([]byte, 64)
	w := NewBitWriter(buf)
	values := []uint64{0, 1, 2, 3, 7, 15, 31, 0, 9, 16}
	for _, v := range values {
		require.NoError(t, w.PutBits(v, 5))
	}
	require.NoError(t, w.Flush(true))

	r := NewBitReader(buf[:w.BytesWritten()])
	for _, want := range values {
		got, err := r.GetBits(5)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
}

func TestBitWriterRejectsOversizedValue(t *testing.T) {
	w := NewBitWriter(make([]byte, 8))
	err := w.PutBits(1<<5, 5)
	assert.Error(t, err)
}

func TestBitWriterRejectsOutOfRangeWidth(t *testing.T) {
	w := NewBitWriter(make([]byte, 8))
	assert.Error(t, w.PutBits(0, 0))
	assert.Error(t, w.PutBits(0, 65))
}

func TestBitReaderBufferUnderrun(t *testing.T) {
	r := NewBitReader([]byte{0xFF})
	_, err := r.GetBits(1)
	require.NoError(t, err)
	_, err = r.GetBits(8)
	assert.Error(t, err)
}

func TestPutGetVlq(t *testing.T) {
	buf := make([]byte, 32)
	w := NewBitWriter(buf)
	values := []uint32{0, 1, 127, 128, 16384, 1<<28 - 1, 1 << 30}
	for _, v := range values {
		require.NoError(t, w.PutVlq(v))
	}

	r := NewBitReader(buf[:w.BytesWritten()])
	for _, want := range values {
		got, err := r.GetVlq()
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
}

func TestPutGetZigzagVlq(t *testing.T) {
	buf := make([]byte, 64)
	w := NewBitWriter(buf)
	values := []int32{0, 1, -1, 63, -64, 1000000, -1000000}
	for _, v := range values {
		require.NoError(t, w.PutZigzagVlq(v))
	}

	r := NewBitReader(buf[:w.BytesWritten()])
	for _, want := range values {
		got, err := r.GetZigzagVlq()
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
}

func TestBitWriterPutAlignedRealignsCursor(t *testing.T) {
	buf := make([]byte, 16)
	w := NewBitWriter(buf)
	require.NoError(t, w.PutBits(0x3, 3))
	require.NoError(t, w.PutAligned(0xAB, 1))
	r := NewBitReader(buf[:w.BytesWritten()])
	_, err := r.GetBits(3)
	require.NoError(t, err)
	v, err := r.GetAligned(1)
	require.NoError(t, err)
	assert.Equal(t, uint64(0xAB), v)
}

func TestGetBatchBulkMatchesGetBits(t *testing.T) {
	const width = 6
	buf := make([]byte, 64)
	w := NewBitWriter(buf)
	values := make([]uint64, 20)
	for i := range values {
		values[i] = uint64(i*7) % (1 << width)
		require.NoError(t, w.PutBits(values[i], width))
	}
	require.NoError(t, w.Flush(true))

	r := NewBitReader(buf[:w.BytesWritten()])
	out := make([]uint64, len(values))
	n, err := r.GetBatch(width, out)
	require.NoError(t, err)
	assert.Equal(t, len(values), n)
	assert.Equal(t, values, out)
}

func TestGetBatchStopsShortAtEndOfStream(t *testing.T) {
	buf := make([]byte, 8)
	w := NewBitWriter(buf)
	require.NoError(t, w.PutBits(1, 4))
	require.NoError(t, w.PutBits(2, 4))
	require.NoError(t, w.Flush(true))

	r := NewBitReader(buf[:w.BytesWritten()])
	out := make([]uint64, 5)
	n, err := r.GetBatch(4, out)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestDelta64BitAccumulatorTolerance(t *testing.T) {
	buf := make([]byte, 32)
	w := NewBitWriter(buf)
	require.NoError(t, w.PutBits(1, 60))
	require.NoError(t, w.PutBits(0x1F, 40))
	require.NoError(t, w.Flush(true))

	r := NewBitReader(buf[:w.BytesWritten()])
	v1, err := r.GetBits(60)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), v1)
	v2, err := r.GetBits(40)
	require.NoError(t, err)
	assert.Equal(t, uint64(0x1F), v2)
}
