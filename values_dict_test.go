package go_parquet

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDictionaryEncoderAssignsStableIndices(t *testing.T) {
	enc := newDictionaryEncoder(Type_BYTE_ARRAY, nil)

	idxA, ok, err := enc.indexFor([]byte("alpha"))
	require.NoError(t, err)
	require.True(t, ok)

	idxB, ok, err := enc.indexFor([]byte("beta"))
	require.NoError(t, err)
	require.True(t, ok)
	assert.NotEqual(t, idxA, idxB)

	idxAAgain, ok, err := enc.indexFor([]byte("alpha"))
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, idxA, idxAAgain)
}

func TestDictionaryEncodeDecodeRoundTrip(t *testing.T) {
	enc := newDictionaryEncoder(Type_INT32, nil)
	values := []interface{}{int32(10), int32(20), int32(10), int32(30), int32(20), int32(10)}
	for _, v := range values {
		_, ok, err := enc.indexFor(v)
		require.NoError(t, err)
		require.True(t, ok)
	}

	dictBytes, err := enc.DictionaryPageBytes()
	require.NoError(t, err)

	dictDec, err := getDictValuesDecoder(Type_INT32, nil)
	require.NoError(t, err)
	require.NoError(t, dictDec.init(dictBytes))
	dictValues := make([]interface{}, len(enc.dictValues))
	n, err := dictDec.decodeValues(dictValues)
	require.NoError(t, err)
	require.Equal(t, len(enc.dictValues), n)

	data, ok, err := enc.EncodeDataPage(values)
	require.NoError(t, err)
	require.True(t, ok)

	dd := &dictDecoder{values: dictValues}
	require.NoError(t, dd.init(data))
	out := make([]interface{}, len(values))
	n, err = dd.decodeValues(out)
	require.NoError(t, err)
	require.Equal(t, len(values), n)
	assert.Equal(t, values, out)
}

func TestDictionaryEncoderFallsBackPastEntryLimit(t *testing.T) {
	enc := newDictionaryEncoder(Type_INT32, nil)
	enc.dictValues = make([]interface{}, DefaultDictionaryEntryLimit)

	_, ok, err := enc.indexFor(int32(999999))
	require.NoError(t, err)
	assert.False(t, ok)
	assert.True(t, enc.FellBack())

	_, ok, err = enc.indexFor(int32(1))
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestDictDecoderWidthZeroRequiresSingleEntry(t *testing.T) {
	dd := &dictDecoder{values: []interface{}{int32(42)}}
	require.NoError(t, dd.init([]byte{0}))
	out := make([]interface{}, 3)
	n, err := dd.decodeValues(out)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	for _, v := range out {
		assert.Equal(t, int32(42), v)
	}
}

func TestDictDecoderWidthZeroRejectsMultiEntryDictionary(t *testing.T) {
	dd := &dictDecoder{values: []interface{}{int32(1), int32(2)}}
	err := dd.init([]byte{0})
	assert.Error(t, err)
}

func TestDictDecoderRejectsOutOfRangeIndex(t *testing.T) {
	dd := &dictDecoder{values: []interface{}{int32(1), int32(2)}}
	rle := newRLEEncoder(2)
	require.NoError(t, rle.Put(3))
	body, err := rle.Finish()
	require.NoError(t, err)
	data := append([]byte{2}, body...)
	require.NoError(t, dd.init(data))
	out := make([]interface{}, 1)
	_, err = dd.decodeValues(out)
	assert.Error(t, err)
}

func TestBitWidthGrowsWithDictionarySize(t *testing.T) {
	enc := newDictionaryEncoder(Type_INT32, nil)
	assert.Equal(t, 1, enc.BitWidth())
	for i := 0; i < 3; i++ {
		_, _, err := enc.indexFor(int32(i))
		require.NoError(t, err)
	}
	assert.Equal(t, 2, enc.BitWidth())
	for i := 3; i < 5; i++ {
		_, _, err := enc.indexFor(int32(i))
		require.NoError(t, err)
	}
	assert.Equal(t, 3, enc.BitWidth())
}

func TestDictionaryByteLimitTriggersFallback(t *testing.T) {
	enc := newDictionaryEncoder(Type_BYTE_ARRAY, nil)
	enc.dictBytes = DefaultDictionaryByteLimit - 2

	_, ok, err := enc.indexFor([]byte("a much longer value than remaining budget"))
	require.NoError(t, err)
	assert.False(t, ok)
	assert.True(t, enc.FellBack())
}
