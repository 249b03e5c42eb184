package execution

import (
	"bytes"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/andybalholm/brotli"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

type CompressType = int8

const (
	CompressTypeNone CompressType = 0
	CompressTypeGzip CompressType = 1
	CompressTypeZstd CompressType = 2
	CompressTypeBr   CompressType = 3
)

var (
	gzipMagic = []byte{0x1f, 0x8b}
	zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}
)

// maxDecompressedSize bounds what a compressed file may expand to.
var maxDecompressedSize int64 = 1 << 30

// DetectCompression looks at the leading magic bytes first. Brotli streams
// have no magic, so they are recognised by a .br suffix only.
func DetectCompression(name string, data []byte) CompressType {
	switch {
	case bytes.HasPrefix(data, gzipMagic):
		return CompressTypeGzip
	case bytes.HasPrefix(data, zstdMagic):
		return CompressTypeZstd
	case strings.EqualFold(filepath.Ext(name), ".br"):
		return CompressTypeBr
	default:
		return CompressTypeNone
	}
}

func CompressTypeName(t CompressType) string {
	return [...]string{"none", "gzip", "zstd", "br"}[t]
}

// Decompress returns data unchanged for CompressTypeNone.
func Decompress(data []byte, compressType CompressType) ([]byte, error) {
	switch compressType {
	case CompressTypeNone:
		return data, nil
	case CompressTypeGzip:
		z, err := gzip.NewReader(bytes.NewReader(data))
		if err != nil {
			return nil, err
		}
		defer func() { _ = z.Close() }()
		return readLimited(z)
	case CompressTypeZstd:
		d, err := zstd.NewReader(nil, zstd.WithDecoderMaxMemory(uint64(maxDecompressedSize)))
		if err != nil {
			return nil, err
		}
		defer d.Close()
		return d.DecodeAll(data, nil)
	case CompressTypeBr:
		return readLimited(brotli.NewReader(bytes.NewReader(data)))
	default:
		return nil, fmt.Errorf("unsupported compression type: %v", compressType)
	}
}

func readLimited(r io.Reader) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, maxDecompressedSize+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > maxDecompressedSize {
		return nil, fmt.Errorf("decompressed content exceeds %d bytes", maxDecompressedSize)
	}
	return data, nil
}
