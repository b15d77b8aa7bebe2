package go_parquet

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rleRoundTrip(t *testing.T, bitWidth int, values []uint64) []uint64 {
	t.Helper()
	enc := newRLEEncoder(bitWidth)
	for _, v := range values {
		require.NoError(t, enc.Put(v))
	}
	data, err := enc.Finish()
	require.NoError(t, err)

	dec := newRLEDecoder(bitWidth, data)
	out := make([]uint64, len(values))
	n, err := dec.GetBatch(out)
	require.NoError(t, err)
	require.Equal(t, len(values), n)
	return out
}

func TestRLEPureRun(t *testing.T) {
	values := make([]uint64, 100)
	for i := range values {
		values[i] = 5
	}
	assert.Equal(t, values, rleRoundTrip(t, 4, values))
}

func TestRLEPureBitPacked(t *testing.T) {
	values := []uint64{0, 1, 2, 3, 0, 1, 2, 3, 0, 1, 2, 3, 0, 1, 2, 3}
	assert.Equal(t, values, rleRoundTrip(t, 2, values))
}

func TestRLEMixedRunsAndBitPacking(t *testing.T) {
	var values []uint64
	for i := 0; i < 20; i++ {
		values = append(values, 7)
	}
	for i := 0; i < 13; i++ {
		values = append(values, uint64(i%5))
	}
	for i := 0; i < 9; i++ {
		values = append(values, 2)
	}
	assert.Equal(t, values, rleRoundTrip(t, 3, values))
}

func TestRLEShortRunFoldsIntoBitPacking(t *testing.T) {
	// A run shorter than one bit-packed group (8) must not be emitted as an
	// RLE run; it still round-trips through bit-packing instead.
	values := []uint64{1, 1, 1, 2, 2, 2, 2, 2, 2, 2, 2, 2, 2}
	assert.Equal(t, values, rleRoundTrip(t, 2, values))
}

func TestRLEGetBatchAcrossSmallChunks(t *testing.T) {
	values := []uint64{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16, 17}
	enc := newRLEEncoder(5)
	for _, v := range values {
		require.NoError(t, enc.Put(v))
	}
	data, err := enc.Finish()
	require.NoError(t, err)

	dec := newRLEDecoder(5, data)
	var out []uint64
	for len(out) < len(values) {
		chunk := make([]uint64, 3)
		n, err := dec.GetBatch(chunk)
		require.NoError(t, err)
		require.Greater(t, n, 0)
		out = append(out, chunk[:n]...)
	}
	assert.Equal(t, values, out)
}

func TestRLEEmptyInput(t *testing.T) {
	enc := newRLEEncoder(3)
	data, err := enc.Finish()
	require.NoError(t, err)
	dec := newRLEDecoder(3, data)
	out := make([]uint64, 0)
	n, err := dec.GetBatch(out)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestRLEMalformedHeaderZeroCount(t *testing.T) {
	dec := newRLEDecoder(3, []byte{0x00})
	out := make([]uint64, 4)
	_, err := dec.GetBatch(out)
	assert.Error(t, err)
}
