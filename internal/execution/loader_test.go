package execution

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/andybalholm/brotli"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jopnelli/n8n-debugger/internal/model"
)

const sampleExecution = `{
  "id": "437776",
  "status": "success",
  "data": {"resultData": {"runData": {
    "Webhook": [{"executionStatus": "success", "executionTime": 1, "data": {"main": [[{"body": {}}]]}}],
    "Get many rows Katalog": [{"executionStatus": "success", "executionTime": 12, "data": {"main": [[{"x": 1}, {"x": 2}]]}}],
    "Send Mail": [{"executionStatus": "error", "executionTime": 40}]
  }}}
}`

func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func TestLoad(t *testing.T) {
	path := writeFile(t, "437776_manual_success.json", []byte(sampleExecution))

	doc, err := Load(zerolog.Nop(), path)
	require.NoError(t, err)
	assert.Equal(t, "437776", doc.ID.String())

	runData, err := ResolveRunData(doc)
	require.NoError(t, err)
	assert.Equal(t, []string{"Webhook", "Get many rows Katalog", "Send Mail"}, model.NodeNames(runData))
}

func TestLoad_FileNotFound(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.json")

	_, err := Load(zerolog.Nop(), path)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrFileNotFound))
	assert.Equal(t, "File not found: "+path, err.Error())
}

func TestLoad_Directory(t *testing.T) {
	_, err := Load(zerolog.Nop(), t.TempDir())
	require.Error(t, err)
	assert.Equal(t, CodeReadFailed, CodeOf(err))
}

func TestLoad_InvalidJSON(t *testing.T) {
	tests := map[string]string{
		"truncated": `{"id": "1", "data": `,
		"empty":     ``,
		"not json":  `id=1`,
	}

	for name, content := range tests {
		t.Run(name, func(t *testing.T) {
			path := writeFile(t, "broken.json", []byte(content))

			_, err := Load(zerolog.Nop(), path)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidJSON), "got %v", err)
			assert.True(t, strings.HasPrefix(err.Error(), "Invalid JSON in file: "))
			assert.NotNil(t, errors.Unwrap(err))
		})
	}
}

func TestLoad_Compressed(t *testing.T) {
	tests := []struct {
		name     string
		file     string
		compress func(t *testing.T, data []byte) []byte
	}{
		{
			name: "Gzip",
			file: "execution.json.gz",
			compress: func(t *testing.T, data []byte) []byte {
				var buf bytes.Buffer
				w := gzip.NewWriter(&buf)
				_, err := w.Write(data)
				require.NoError(t, err)
				require.NoError(t, w.Close())
				return buf.Bytes()
			},
		},
		{
			name: "Zstd",
			file: "execution.json.zst",
			compress: func(t *testing.T, data []byte) []byte {
				enc, err := zstd.NewWriter(nil)
				require.NoError(t, err)
				defer enc.Close()
				return enc.EncodeAll(data, nil)
			},
		},
		{
			name: "Brotli",
			file: "execution.json.br",
			compress: func(t *testing.T, data []byte) []byte {
				var buf bytes.Buffer
				w := brotli.NewWriter(&buf)
				_, err := w.Write(data)
				require.NoError(t, err)
				require.NoError(t, w.Close())
				return buf.Bytes()
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, tt.file, tt.compress(t, []byte(sampleExecution)))

			doc, err := Load(zerolog.Nop(), path)
			require.NoError(t, err)

			runData, err := ResolveRunData(doc)
			require.NoError(t, err)
			assert.Equal(t, 3, runData.Len())
		})
	}
}

func TestLoad_CorruptCompressed(t *testing.T) {
	path := writeFile(t, "execution.json.gz", []byte{0x1f, 0x8b, 0x00, 0x01})

	_, err := Load(zerolog.Nop(), path)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrReadFailed))
	assert.Contains(t, err.Error(), path)
}

func TestDecompress_SizeLimit(t *testing.T) {
	previous := maxDecompressedSize
	maxDecompressedSize = 64
	t.Cleanup(func() { maxDecompressedSize = previous })

	payload := bytes.Repeat([]byte("a"), 4096)

	var gz bytes.Buffer
	gw := gzip.NewWriter(&gz)
	_, err := gw.Write(payload)
	require.NoError(t, err)
	require.NoError(t, gw.Close())

	var br bytes.Buffer
	bw := brotli.NewWriter(&br)
	_, err = bw.Write(payload)
	require.NoError(t, err)
	require.NoError(t, bw.Close())

	tests := []struct {
		name string
		data []byte
		kind CompressType
	}{
		{"Gzip", gz.Bytes(), CompressTypeGzip},
		{"Brotli", br.Bytes(), CompressTypeBr},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decompress(tt.data, tt.kind)
			require.Error(t, err)
			assert.Contains(t, err.Error(), "exceeds 64 bytes")
		})
	}

	t.Run("WithinLimit", func(t *testing.T) {
		var small bytes.Buffer
		w := gzip.NewWriter(&small)
		_, err := w.Write([]byte(`{"id": "1"}`))
		require.NoError(t, err)
		require.NoError(t, w.Close())

		out, err := Decompress(small.Bytes(), CompressTypeGzip)
		require.NoError(t, err)
		assert.Equal(t, `{"id": "1"}`, string(out))
	})
}

func TestDetectCompression(t *testing.T) {
	tests := []struct {
		name     string
		file     string
		data     []byte
		expected CompressType
	}{
		{"plain", "a.json", []byte(`{}`), CompressTypeNone},
		{"gzip magic", "a.json", []byte{0x1f, 0x8b, 0x08}, CompressTypeGzip},
		{"zstd magic", "a.bin", []byte{0x28, 0xb5, 0x2f, 0xfd, 0x00}, CompressTypeZstd},
		{"brotli suffix", "a.json.BR", []byte{0x0b, 0x02}, CompressTypeBr},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, DetectCompression(tt.file, tt.data))
		})
	}
}

func TestDecode_WrongShape(t *testing.T) {
	for _, doc := range []string{`[1, 2]`, `"execution"`} {
		t.Run(doc, func(t *testing.T) {
			_, err := Decode([]byte(doc))
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrNoExecutionData), "got %v", err)
		})
	}
}

func TestResolveRunData_Missing(t *testing.T) {
	docs := []string{
		`null`,
		`{}`,
		`{"data": {}}`,
		`{"data": {"resultData": {}}}`,
		`{"data": {"resultData": {"runData": null}}}`,
	}

	for _, raw := range docs {
		t.Run(raw, func(t *testing.T) {
			doc, err := Decode([]byte(raw))
			require.NoError(t, err)

			_, err = ResolveRunData(doc)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrNoExecutionData))
			assert.Equal(t, "No node execution data found in this file", err.Error())
		})
	}
}

func TestResolveRunData_EmptyMapping(t *testing.T) {
	doc, err := Decode([]byte(`{"data": {"resultData": {"runData": {}}}}`))
	require.NoError(t, err)

	runData, err := ResolveRunData(doc)
	require.NoError(t, err)
	assert.Equal(t, 0, runData.Len())
}

func TestFindNode(t *testing.T) {
	doc, err := Decode([]byte(sampleExecution))
	require.NoError(t, err)
	runData, err := ResolveRunData(doc)
	require.NoError(t, err)

	run, err := FindNode(runData, "Get many rows Katalog")
	require.NoError(t, err)
	assert.Equal(t, 2, run.ItemCount())

	_, err = FindNode(runData, "Get rows")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNodeNotFound))

	var execErr *Error
	require.True(t, errors.As(err, &execErr))
	assert.Equal(t, "Get rows", execErr.Node)
	assert.Equal(t, []string{"Webhook", "Get many rows Katalog", "Send Mail"}, execErr.Available)
	assert.Equal(t, `Node "Get rows" not found in execution.`, err.Error())
}

func TestErrorMessages(t *testing.T) {
	cause := fmt.Errorf("unexpected end of JSON input")

	tests := []struct {
		name     string
		err      *Error
		expected string
	}{
		{"file not found", &Error{Code: CodeFileNotFound, Path: "x.json"}, "File not found: x.json"},
		{"read failed", &Error{Code: CodeReadFailed, Path: "x.json", cause: cause}, "Cannot read file: x.json: unexpected end of JSON input"},
		{"invalid json", &Error{Code: CodeInvalidJSON, cause: cause}, "Invalid JSON in file: unexpected end of JSON input"},
		{"no data", &Error{Code: CodeNoExecutionData}, "No node execution data found in this file"},
		{"node", &Error{Code: CodeNodeNotFound, Node: "A"}, `Node "A" not found in execution.`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.err.Error())
		})
	}
}

func TestErrorIsAndCodeOf(t *testing.T) {
	err := fmt.Errorf("loading: %w", &Error{Code: CodeInvalidJSON})

	assert.True(t, errors.Is(err, ErrInvalidJSON))
	assert.False(t, errors.Is(err, ErrFileNotFound))
	assert.Equal(t, CodeInvalidJSON, CodeOf(err))
	assert.Equal(t, Code(""), CodeOf(errors.New("plain")))
}
