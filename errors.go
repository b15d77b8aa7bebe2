package go_parquet

import "github.com/pkg/errors"

// ErrorKind classifies a CodecError the way spec section 7 enumerates them.
type ErrorKind int

const (
	// ErrBufferFull means a write ran out of declared output capacity.
	ErrBufferFull ErrorKind = iota
	// ErrBufferUnderrun means a read ran out of available input bytes/bits.
	ErrBufferUnderrun
	// ErrMalformedInput means the bytes decoded do not describe a valid
	// stream: bad RLE header, over-long VLQ, bad miniblock width, dictionary
	// index out of range, truncated fixed-length value, zero bit width where
	// a positive one is required.
	ErrMalformedInput
	// ErrSchemaInvalid means the logical schema itself is ill-formed.
	ErrSchemaInvalid
	// ErrUnsupported means the requested (physical type, encoding) pair is
	// outside the table in spec section 4.4.
	ErrUnsupported
)

func (k ErrorKind) String() string {
	switch k {
	case ErrBufferFull:
		return "BUFFER_FULL"
	case ErrBufferUnderrun:
		return "BUFFER_UNDERRUN"
	case ErrMalformedInput:
		return "MALFORMED_INPUT"
	case ErrSchemaInvalid:
		return "SCHEMA_INVALID"
	case ErrUnsupported:
		return "UNSUPPORTED"
	default:
		return "UNKNOWN"
	}
}

// CodecError is the error type the bit stream, RLE, level, value and schema
// codecs return on failure; errors from the compression library and some
// chunk orchestration errors are plain (wrapped) errors instead. Wrap it with
// errors.Wrap when adding context; callers that need the kind use errors.As
// to unwrap it back out.
type CodecError struct {
	Kind ErrorKind
	msg  string
}

func (e *CodecError) Error() string {
	return e.Kind.String() + ": " + e.msg
}

func newCodecError(kind ErrorKind, format string, args ...interface{}) error {
	return &CodecError{Kind: kind, msg: errors.Errorf(format, args...).Error()}
}

func bufferFullf(format string, args ...interface{}) error {
	return newCodecError(ErrBufferFull, format, args...)
}

func bufferUnderrunf(format string, args ...interface{}) error {
	return newCodecError(ErrBufferUnderrun, format, args...)
}

func malformedf(format string, args ...interface{}) error {
	return newCodecError(ErrMalformedInput, format, args...)
}

func schemaInvalidf(format string, args ...interface{}) error {
	return newCodecError(ErrSchemaInvalid, format, args...)
}

func unsupportedf(format string, args ...interface{}) error {
	return newCodecError(ErrUnsupported, format, args...)
}
