package go_parquet

import "github.com/pkg/errors"

// chunk_writer.go is chunk_reader.go's inverse: it assembles one column
// chunk's pages from batches of (values, definition levels, repetition
// levels) the caller hands it. There is no writer-side equivalent in the
// teacher file (chunk_reader.go only reads), so this is grounded on the
// write-path shape of joechenrh-data-writer's src-parquet_writer.go
// (WriteBatch(values, defLevels, repLevels) per column, one page per
// batch) and segmentio/parquet-go's column.go dictionary-then-fallback
// lifecycle, both sampled into other_examples/.
//
// Page offsets within the physical file are a file-level I/O concern (an
// explicit non-goal, spec section 1/6); PageSink's job is exactly
// chunk_reader.go's PageHeaderSource in reverse — accept an already-built
// header and already-compressed bytes, place them in the file however it
// likes, and hand back nothing this layer needs.

// PageSink is a column chunk writer's collaborator for placing pages into
// the physical file.
type PageSink interface {
	WriteDictionaryPage(header *PageHeader, body []byte) error
	WriteDataPage(header *PageHeader, body []byte) error
}

type pendingBatch struct {
	values  []interface{}
	dLevels []uint16
	rLevels []uint16
}

// columnChunkWriter accumulates batches in memory for the lifetime of one
// column chunk, then resolves dictionary-vs-PLAIN and emits pages on
// Close. Buffering the whole chunk is what lets a late dictionary
// fallback (spec section 4.4) still produce a single consistently-encoded
// chunk instead of a mix of dictionary and PLAIN data pages.
type columnChunkWriter struct {
	leaf *LeafDescriptor
	comp Compressor
	sink PageSink

	useDictionary bool
	dict          *dictionaryEncoder

	batches   []pendingBatch
	numValues int32
	closed    bool
}

func newColumnChunkWriter(leaf *LeafDescriptor, codec CompressionCodec, sink PageSink) (*columnChunkWriter, error) {
	comp, err := CompressorFor(codec)
	if err != nil {
		return nil, err
	}
	useDict := leaf.Encoding == Encoding_RLE_DICTIONARY || leaf.Encoding == Encoding_PLAIN_DICTIONARY
	var dict *dictionaryEncoder
	if useDict {
		dict = newDictionaryEncoder(leaf.PhysicalType, leaf.TypeLength)
	}
	return &columnChunkWriter{
		leaf:          leaf,
		comp:          comp,
		sink:          sink,
		useDictionary: useDict,
		dict:          dict,
	}, nil
}

// WriteBatch buffers one run of rows. len(dLevels) must equal len(rLevels)
// (one entry per value occurrence, spec section 4.3), and the number of
// entries equal to leaf.MaxDefLevel must equal len(values) (spec section
// 3: "non-null leaf occurrences").
func (cw *columnChunkWriter) WriteBatch(values []interface{}, dLevels, rLevels []uint16) error {
	if cw.closed {
		return errors.New("column chunk writer: WriteBatch after Close")
	}
	if len(dLevels) != len(rLevels) {
		return malformedf("column chunk writer: %d definition levels but %d repetition levels", len(dLevels), len(rLevels))
	}
	notNull := 0
	for _, d := range dLevels {
		if int(d) > cw.leaf.MaxDefLevel {
			return malformedf("column chunk writer: level %d exceeds max %d", d, cw.leaf.MaxDefLevel)
		}
		if int(d) == cw.leaf.MaxDefLevel {
			notNull++
		}
	}
	if notNull != len(values) {
		return malformedf("column chunk writer: %d non-null occurrences but %d values", notNull, len(values))
	}

	if cw.useDictionary && !cw.dict.FellBack() {
		for _, v := range values {
			if _, _, err := cw.dict.indexFor(v); err != nil {
				return err
			}
		}
	}

	cw.batches = append(cw.batches, pendingBatch{values: values, dLevels: dLevels, rLevels: rLevels})
	cw.numValues += int32(len(dLevels))
	return nil
}

func (cw *columnChunkWriter) emitPage(body []byte, numValues int, encoding Encoding) (int64, error) {
	compressed, err := cw.comp.Compress(body)
	if err != nil {
		return 0, errors.Wrap(err, "compress data page")
	}
	header := &PageHeader{
		Type:                 PageType_DATA_PAGE,
		CompressedPageSize:   int32(len(compressed)),
		UncompressedPageSize: int32(len(body)),
		DataPageHeader: &DataPageHeader{
			NumValues: int32(numValues),
			Encoding:  encoding,
		},
	}
	if err := cw.sink.WriteDataPage(header, compressed); err != nil {
		return 0, err
	}
	return int64(len(compressed)), nil
}

func (cw *columnChunkWriter) pageBody(b pendingBatch, valuesEnc valuesEncoder) ([]byte, error) {
	dBytes, err := EncodeLevels(b.dLevels, cw.leaf.MaxDefLevel)
	if err != nil {
		return nil, err
	}
	rBytes, err := EncodeLevels(b.rLevels, cw.leaf.MaxRepLevel)
	if err != nil {
		return nil, err
	}
	if err := valuesEnc.encodeValues(b.values); err != nil {
		return nil, err
	}
	valBytes, err := valuesEnc.finish()
	if err != nil {
		return nil, err
	}
	out := make([]byte, 0, len(dBytes)+len(rBytes)+len(valBytes))
	out = append(out, dBytes...)
	out = append(out, rBytes...)
	out = append(out, valBytes...)
	return out, nil
}

// Close resolves the chunk's final encoding (dictionary, if it never fell
// back; PLAIN otherwise, for every page) and flushes all buffered pages to
// the sink, returning the chunk's metadata.
func (cw *columnChunkWriter) Close() (*ColumnMetaData, error) {
	if cw.closed {
		return nil, errors.New("column chunk writer: Close called twice")
	}
	cw.closed = true

	var totalCompressed int64
	var chosenEncoding Encoding

	if cw.useDictionary && !cw.dict.FellBack() {
		dictBytes, err := cw.dict.DictionaryPageBytes()
		if err != nil {
			return nil, err
		}
		compressedDict, err := cw.comp.Compress(dictBytes)
		if err != nil {
			return nil, errors.Wrap(err, "compress dictionary page")
		}
		dictHeader := &PageHeader{
			Type:                 PageType_DICTIONARY_PAGE,
			CompressedPageSize:   int32(len(compressedDict)),
			UncompressedPageSize: int32(len(dictBytes)),
			DictionaryPageHeader: &DictionaryPageHeader{
				NumValues: int32(len(cw.dict.dictValues)),
				Encoding:  Encoding_PLAIN,
			},
		}
		if err := cw.sink.WriteDictionaryPage(dictHeader, compressedDict); err != nil {
			return nil, err
		}
		totalCompressed += int64(len(compressedDict))

		chosenEncoding = Encoding_RLE_DICTIONARY
		for _, b := range cw.batches {
			encodedIdx, ok, err := cw.dict.EncodeDataPage(b.values)
			if err != nil {
				return nil, err
			}
			if !ok {
				return nil, errors.New("column chunk writer: dictionary fell back after it was already finalized")
			}
			dBytes, err := EncodeLevels(b.dLevels, cw.leaf.MaxDefLevel)
			if err != nil {
				return nil, err
			}
			rBytes, err := EncodeLevels(b.rLevels, cw.leaf.MaxRepLevel)
			if err != nil {
				return nil, err
			}
			body := make([]byte, 0, len(dBytes)+len(rBytes)+len(encodedIdx))
			body = append(body, dBytes...)
			body = append(body, rBytes...)
			body = append(body, encodedIdx...)

			n, err := cw.emitPage(body, len(b.dLevels), chosenEncoding)
			if err != nil {
				return nil, err
			}
			totalCompressed += n
		}
	} else {
		chosenEncoding = cw.leaf.Encoding
		if chosenEncoding == Encoding_RLE_DICTIONARY || chosenEncoding == Encoding_PLAIN_DICTIONARY {
			chosenEncoding = Encoding_PLAIN
		}
		for _, b := range cw.batches {
			enc, err := getValuesEncoder(cw.leaf.PhysicalType, cw.leaf.TypeLength, chosenEncoding)
			if err != nil {
				return nil, err
			}
			body, err := cw.pageBody(b, enc)
			if err != nil {
				return nil, err
			}
			n, err := cw.emitPage(body, len(b.dLevels), chosenEncoding)
			if err != nil {
				return nil, err
			}
			totalCompressed += n
		}
	}

	return &ColumnMetaData{
		Type:                cw.leaf.PhysicalType,
		Encoding:            chosenEncoding,
		Codec:               codecTagOf(cw.comp),
		TotalCompressedSize: totalCompressed,
	}, nil
}

// codecTagOf recovers the CompressionCodec a Compressor implementation was
// built for, so Close can report it on ColumnMetaData without threading an
// extra field through newColumnChunkWriter.
func codecTagOf(c Compressor) CompressionCodec {
	switch c.(type) {
	case uncompressedCodec:
		return CompressionCodec_UNCOMPRESSED
	case snappyCodec:
		return CompressionCodec_SNAPPY
	case gzipCodec:
		return CompressionCodec_GZIP
	case zstdCodec:
		return CompressionCodec_ZSTD
	default:
		return CompressionCodec_UNCOMPRESSED
	}
}
