package go_parquet

import (
	"bytes"
	"io"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/snappy"
	"github.com/klauspost/compress/zstd"
	"github.com/pkg/errors"
)

// compressor.go sketches the Compressor collaborator spec section 6
// describes ("takes a byte slice, returns a compressed slice; codec passes
// raw uncompressed bytes and never inspects the compression choice beyond
// recording it per leaf"). The core package never calls these directly —
// chunk_reader.go/chunk_writer.go hold one behind a small registry keyed
// by format.CompressionCodec, exactly the boundary the spec draws. Backed
// by github.com/klauspost/compress, the real third-party dependency the
// pack's dsnet-compress module pulls in for the same concern.

// Compressor is the page assembler's view of a compression codec.
type Compressor interface {
	Compress(uncompressed []byte) ([]byte, error)
	Decompress(compressed []byte, uncompressedSize int) ([]byte, error)
}

type uncompressedCodec struct{}

func (uncompressedCodec) Compress(b []byte) ([]byte, error) { return b, nil }
func (uncompressedCodec) Decompress(b []byte, size int) ([]byte, error) {
	if len(b) != size {
		return nil, malformedf("uncompressed codec: declared size %d does not match %d bytes", size, len(b))
	}
	return b, nil
}

type snappyCodec struct{}

func (snappyCodec) Compress(b []byte) ([]byte, error) {
	return snappy.Encode(nil, b), nil
}

func (snappyCodec) Decompress(b []byte, size int) ([]byte, error) {
	out, err := snappy.Decode(make([]byte, 0, size), b)
	if err != nil {
		return nil, errors.Wrap(err, "snappy decompress")
	}
	return out, nil
}

type gzipCodec struct{}

func (gzipCodec) Compress(b []byte) ([]byte, error) {
	var buf bytes.Buffer
	gw := gzip.NewWriter(&buf)
	if _, err := gw.Write(b); err != nil {
		return nil, errors.Wrap(err, "gzip compress")
	}
	if err := gw.Close(); err != nil {
		return nil, errors.Wrap(err, "gzip compress")
	}
	return buf.Bytes(), nil
}

func (gzipCodec) Decompress(b []byte, size int) ([]byte, error) {
	gr, err := gzip.NewReader(bytes.NewReader(b))
	if err != nil {
		return nil, errors.Wrap(err, "gzip decompress")
	}
	defer gr.Close()
	out := make([]byte, size)
	if _, err := io.ReadFull(gr, out); err != nil {
		return nil, errors.Wrap(err, "gzip decompress")
	}
	return out, nil
}

type zstdCodec struct{}

func (zstdCodec) Compress(b []byte) ([]byte, error) {
	enc, err := zstd.NewWriter(nil)
	if err != nil {
		return nil, errors.Wrap(err, "zstd compress")
	}
	defer enc.Close()
	return enc.EncodeAll(b, nil), nil
}

func (zstdCodec) Decompress(b []byte, size int) ([]byte, error) {
	dec, err := zstd.NewReader(nil)
	if err != nil {
		return nil, errors.Wrap(err, "zstd decompress")
	}
	defer dec.Close()
	out, err := dec.DecodeAll(b, make([]byte, 0, size))
	if err != nil {
		return nil, errors.Wrap(err, "zstd decompress")
	}
	return out, nil
}

// CompressorFor returns the Compressor implementation for a recorded
// CompressionCodec. newColumnChunkReader and newColumnChunkWriter call it;
// the value and level codecs only record the choice per leaf (spec section
// 3) and never call it.
func CompressorFor(codec CompressionCodec) (Compressor, error) {
	switch codec {
	case CompressionCodec_UNCOMPRESSED:
		return uncompressedCodec{}, nil
	case CompressionCodec_SNAPPY:
		return snappyCodec{}, nil
	case CompressionCodec_GZIP:
		return gzipCodec{}, nil
	case CompressionCodec_ZSTD:
		return zstdCodec{}, nil
	default:
		return nil, unsupportedf("unknown compression codec %d", codec)
	}
}
