// Package execution loads execution result files and resolves the parts of
// them that the report modes read.
package execution

import (
	"errors"
	"io/fs"
	"os"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/jopnelli/n8n-debugger/internal/model"
)

// Load reads, decompresses and decodes the execution file at path.
func Load(logger zerolog.Logger, path string) (*model.Execution, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &Error{Code: CodeFileNotFound, Path: path, cause: err}
		}
		return nil, &Error{Code: CodeReadFailed, Path: path, cause: err}
	}

	compressType := DetectCompression(path, raw)
	data, err := Decompress(raw, compressType)
	if err != nil {
		return nil, &Error{Code: CodeReadFailed, Path: path, cause: err}
	}

	logger.Debug().
		Str("path", path).
		Int("bytes", len(raw)).
		Str("compression", CompressTypeName(compressType)).
		Msg("read execution file")

	doc, err := Decode(data)
	if err != nil {
		var execErr *Error
		if errors.As(err, &execErr) {
			execErr.Path = path
		}
		return nil, err
	}
	return doc, nil
}

// Decode parses an execution document. Syntactically broken input is
// CodeInvalidJSON; valid JSON of the wrong shape is CodeNoExecutionData.
func Decode(data []byte) (*model.Execution, error) {
	var doc model.Execution
	if err := json.Unmarshal(data, &doc); err != nil {
		if json.Valid(data) {
			return nil, &Error{Code: CodeNoExecutionData, cause: err}
		}
		return nil, &Error{Code: CodeInvalidJSON, cause: err}
	}
	return &doc, nil
}

// ResolveRunData returns the run-data mapping of doc.
func ResolveRunData(doc *model.Execution) (*model.RunData, error) {
	runData, ok := doc.RunData()
	if !ok {
		return nil, &Error{Code: CodeNoExecutionData}
	}
	return runData, nil
}

// FindNode returns the first run of name, or a CodeNodeNotFound error listing
// every valid name in document order.
func FindNode(runData *model.RunData, name string) (model.NodeRun, error) {
	run, ok := model.FirstRun(runData, name)
	if !ok {
		return model.NodeRun{}, &Error{
			Code:      CodeNodeNotFound,
			Node:      name,
			Available: model.NodeNames(runData),
		}
	}
	return run, nil
}
