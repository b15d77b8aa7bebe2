package go_parquet

// values.go defines the ValueCodec surface (spec section 4.4): the
// valuesDecoder/valuesEncoder interfaces and the (physical type, encoding)
// factory functions that pick an implementation, mirroring the teacher
// file's getValuesDecoder/getDictValuesEncoder switch statements almost
// 1:1 in shape, rebound to this repo's own format.Type/format.Encoding
// enums instead of fraugster/parquet-go's thrift-generated package.
//
// Values travel boxed in []interface{}, exactly as chunk_reader.go does
// (dp.values = make([]interface{}, dp.numValues)); this keeps the codec
// agnostic of the physical type at the call site, at the cost of boxing,
// which is the same tradeoff the teacher repo made.

// valuesDecoder decodes a typed value stream out of a page's raw bytes.
type valuesDecoder interface {
	// init primes the decoder with the (already decompressed) page bytes.
	init(data []byte) error
	// decodeValues fills out with up to len(out) values, returning the
	// count actually produced.
	decodeValues(out []interface{}) (int, error)
}

// valuesEncoder encodes a typed value stream into page bytes.
type valuesEncoder interface {
	// encodeValues appends in to the encoder's internal buffer.
	encodeValues(in []interface{}) error
	// finish returns the encoded bytes; the encoder is not reusable after.
	finish() ([]byte, error)
}

// getValuesDecoder picks a reader-side codec for a leaf's physical type and
// a data page's declared encoding, consulting the column-chunk dictionary
// when the encoding is (RLE_)DICTIONARY.
func getValuesDecoder(typ Type, typeLength *int32, encoding Encoding, dict []interface{}) (valuesDecoder, error) {
	if encoding == Encoding_PLAIN_DICTIONARY {
		encoding = Encoding_RLE_DICTIONARY
	}

	if encoding == Encoding_RLE_DICTIONARY {
		return &dictDecoder{values: dict}, nil
	}

	switch typ {
	case Type_BOOLEAN:
		switch encoding {
		case Encoding_PLAIN:
			return &booleanPlainDecoder{}, nil
		case Encoding_RLE:
			return &booleanRLEDecoder{}, nil
		}
	case Type_INT32:
		switch encoding {
		case Encoding_PLAIN:
			return &int32PlainDecoder{}, nil
		case Encoding_DELTA_BINARY_PACKED:
			return &int32DeltaBPDecoder{}, nil
		}
	case Type_INT64:
		switch encoding {
		case Encoding_PLAIN:
			return &int64PlainDecoder{}, nil
		case Encoding_DELTA_BINARY_PACKED:
			return &int64DeltaBPDecoder{}, nil
		}
	case Type_INT96:
		if encoding == Encoding_PLAIN {
			return &int96PlainDecoder{}, nil
		}
	case Type_FLOAT:
		if encoding == Encoding_PLAIN {
			return &floatPlainDecoder{}, nil
		}
	case Type_DOUBLE:
		if encoding == Encoding_PLAIN {
			return &doublePlainDecoder{}, nil
		}
	case Type_BYTE_ARRAY:
		if encoding == Encoding_PLAIN {
			return &byteArrayPlainDecoder{}, nil
		}
	case Type_FIXED_LEN_BYTE_ARRAY:
		if encoding == Encoding_PLAIN {
			if typeLength == nil {
				return nil, schemaInvalidf("%s with nil type_length", typ)
			}
			return &byteArrayPlainDecoder{length: int(*typeLength)}, nil
		}
	}

	return nil, unsupportedf("unsupported encoding %s for %s type", encoding, typ)
}

// getValuesEncoder is getValuesDecoder's writer-side counterpart.
func getValuesEncoder(typ Type, typeLength *int32, encoding Encoding) (valuesEncoder, error) {
	switch typ {
	case Type_BOOLEAN:
		if encoding == Encoding_PLAIN {
			return &booleanPlainEncoder{}, nil
		}
	case Type_INT32:
		switch encoding {
		case Encoding_PLAIN:
			return &int32PlainEncoder{}, nil
		case Encoding_DELTA_BINARY_PACKED:
			return &int32DeltaBPEncoder{}, nil
		}
	case Type_INT64:
		switch encoding {
		case Encoding_PLAIN:
			return &int64PlainEncoder{}, nil
		case Encoding_DELTA_BINARY_PACKED:
			return &int64DeltaBPEncoder{}, nil
		}
	case Type_INT96:
		if encoding == Encoding_PLAIN {
			return &int96PlainEncoder{}, nil
		}
	case Type_FLOAT:
		if encoding == Encoding_PLAIN {
			return &floatPlainEncoder{}, nil
		}
	case Type_DOUBLE:
		if encoding == Encoding_PLAIN {
			return &doublePlainEncoder{}, nil
		}
	case Type_BYTE_ARRAY:
		if encoding == Encoding_PLAIN {
			return &byteArrayPlainEncoder{}, nil
		}
	case Type_FIXED_LEN_BYTE_ARRAY:
		if encoding == Encoding_PLAIN {
			if typeLength == nil {
				return nil, schemaInvalidf("%s with nil type_length", typ)
			}
			return &byteArrayPlainEncoder{length: int(*typeLength)}, nil
		}
	}

	return nil, unsupportedf("unsupported encoding %s for %s type", encoding, typ)
}

// getDictValuesDecoder picks the PLAIN-form decoder used to read a
// dictionary page, per spec section 4.4 ("The dictionary page carries
// values in PLAIN form").
func getDictValuesDecoder(typ Type, typeLength *int32) (valuesDecoder, error) {
	switch typ {
	case Type_BYTE_ARRAY:
		return &byteArrayPlainDecoder{}, nil
	case Type_FIXED_LEN_BYTE_ARRAY:
		if typeLength == nil {
			return nil, schemaInvalidf("%s with nil type_length", typ)
		}
		return &byteArrayPlainDecoder{length: int(*typeLength)}, nil
	case Type_FLOAT:
		return &floatPlainDecoder{}, nil
	case Type_DOUBLE:
		return &doublePlainDecoder{}, nil
	case Type_INT32:
		return &int32PlainDecoder{}, nil
	case Type_INT64:
		return &int64PlainDecoder{}, nil
	case Type_INT96:
		return &int96PlainDecoder{}, nil
	}
	return nil, unsupportedf("type %s is not supported for dictionary values", typ)
}
