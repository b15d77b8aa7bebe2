package go_parquet

// format.go sketches the handful of Parquet metadata value types the core
// needs to hand off to, and accept from, the collaborators spec section 6
// scopes out (Thrift metadata serdes, page assembly). These are plain Go
// structs with no wire codec of their own — encoding them to/from the
// compact Thrift binary protocol is the explicit non-goal described in
// spec section 1 and 6; a real deployment plugs in its own Thrift layer
// behind PageHeaderSource/PageSink. The shapes themselves are modeled
// on the parquet.* types the teacher file (chunk_reader.go) consumes.

// Type is the closed physical type set (spec section 3).
type Type int32

const (
	Type_BOOLEAN Type = iota
	Type_INT32
	Type_INT64
	Type_INT96
	Type_FLOAT
	Type_DOUBLE
	Type_BYTE_ARRAY
	Type_FIXED_LEN_BYTE_ARRAY
)

func (t Type) String() string {
	switch t {
	case Type_BOOLEAN:
		return "BOOLEAN"
	case Type_INT32:
		return "INT32"
	case Type_INT64:
		return "INT64"
	case Type_INT96:
		return "INT96"
	case Type_FLOAT:
		return "FLOAT"
	case Type_DOUBLE:
		return "DOUBLE"
	case Type_BYTE_ARRAY:
		return "BYTE_ARRAY"
	case Type_FIXED_LEN_BYTE_ARRAY:
		return "FIXED_LEN_BYTE_ARRAY"
	default:
		return "UNKNOWN_TYPE"
	}
}

// Encoding is the closed encoding set (spec section 3).
type Encoding int32

const (
	Encoding_PLAIN Encoding = iota
	Encoding_PLAIN_DICTIONARY
	Encoding_RLE
	Encoding_RLE_DICTIONARY
	Encoding_DELTA_BINARY_PACKED
)

func (e Encoding) String() string {
	switch e {
	case Encoding_PLAIN:
		return "PLAIN"
	case Encoding_PLAIN_DICTIONARY:
		return "PLAIN_DICTIONARY"
	case Encoding_RLE:
		return "RLE"
	case Encoding_RLE_DICTIONARY:
		return "RLE_DICTIONARY"
	case Encoding_DELTA_BINARY_PACKED:
		return "DELTA_BINARY_PACKED"
	default:
		return "UNKNOWN_ENCODING"
	}
}

// CompressionCodec names the compressor a column chunk recorded; the core
// never inspects it beyond passing it through to the Compressor
// collaborator (spec section 6, compressor.go).
type CompressionCodec int32

const (
	CompressionCodec_UNCOMPRESSED CompressionCodec = iota
	CompressionCodec_SNAPPY
	CompressionCodec_GZIP
	CompressionCodec_ZSTD
)

// FieldRepetitionType is a schema node's repetition marker in the flat
// element list.
type FieldRepetitionType int32

const (
	FieldRepetitionType_REQUIRED FieldRepetitionType = iota
	FieldRepetitionType_OPTIONAL
	FieldRepetitionType_REPEATED
)

// ConvertedType records a logical-type annotation opaquely (spec section 6:
// "passed through opaquely to metadata and do not affect the physical
// codec").
type ConvertedType int32

const (
	ConvertedType_UTF8 ConvertedType = iota
	ConvertedType_LIST
	ConvertedType_MAP
	ConvertedType_DECIMAL
	ConvertedType_TIMESTAMP_MILLIS
	ConvertedType_TIMESTAMP_MICROS
)

// LogicalType mirrors ConvertedType at the Node level; kept distinct so
// schema.go can carry "no logical type" (LogicalTypeNone) without a pointer.
type LogicalType int32

const (
	LogicalTypeNone LogicalType = -1
)

// PageType distinguishes the page kinds a column chunk can contain.
type PageType int32

const (
	PageType_DATA_PAGE PageType = iota
	PageType_DATA_PAGE_V2
	PageType_DICTIONARY_PAGE
)

// SchemaElement is one entry of SchemaFlattener's flat output list.
type SchemaElement struct {
	Name          string
	Repetition    FieldRepetitionType
	NumChildren   *int32
	Type          *Type
	TypeLength    *int32
	ConvertedType *ConvertedType
	LogicalType   LogicalType
}

// DictionaryPageHeader describes a dictionary page (spec section 3,
// "Lifecycles").
type DictionaryPageHeader struct {
	NumValues int32
	Encoding  Encoding
}

// DataPageHeader describes a v1 data page.
type DataPageHeader struct {
	NumValues int32
	Encoding  Encoding
}

// DataPageHeaderV2 describes a v2 data page; out of scope per spec section
// 4.3 ("Data page v2 framing is not covered by this spec") but kept as a
// pass-through shape so chunk_reader.go can still reject it explicitly
// instead of silently misreading it.
type DataPageHeaderV2 struct {
	NumValues                  int32
	RepetitionLevelsByteLength int32
	DefinitionLevelsByteLength int32
	Encoding                   Encoding
}

// PageHeader is the common envelope around the three page kinds.
type PageHeader struct {
	Type                 PageType
	CompressedPageSize   int32
	UncompressedPageSize int32

	DataPageHeader       *DataPageHeader
	DataPageHeaderV2     *DataPageHeaderV2
	DictionaryPageHeader *DictionaryPageHeader
}

// ColumnMetaData is the subset of a column chunk's metadata the core's
// orchestration layer needs.
type ColumnMetaData struct {
	Type                 Type
	Encoding             Encoding
	Codec                CompressionCodec
	DataPageOffset       int64
	DictionaryPageOffset *int64
	TotalCompressedSize  int64
}
