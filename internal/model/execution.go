// Package model describes the execution result documents written by an n8n
// run and the render-ready summaries derived from them.
package model

import (
	"strconv"

	"github.com/goccy/go-json"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Scalar holds a loosely typed JSON value exactly as it was stored.
// A nil Scalar means the field was absent from the document.
type Scalar []byte

func (s *Scalar) UnmarshalJSON(data []byte) error {
	*s = append((*s)[:0], data...)
	return nil
}

func (s Scalar) MarshalJSON() ([]byte, error) {
	if len(s) == 0 {
		return []byte("null"), nil
	}
	return s, nil
}

// MarshalYAML emits the decoded value so yaml output shows 12 rather than a byte list.
func (s Scalar) MarshalYAML() (any, error) {
	if len(s) == 0 {
		return nil, nil
	}
	var v any
	if err := json.Unmarshal(s, &v); err != nil {
		return string(s), nil
	}
	return v, nil
}

// IsSet reports whether the field was present in the document.
func (s Scalar) IsSet() bool {
	return len(s) > 0
}

// String renders the value the way it reads in a console line: strings
// unquoted, numbers in shortest form, absent values as "undefined".
func (s Scalar) String() string {
	if len(s) == 0 {
		return "undefined"
	}
	if string(s) == "null" {
		return "null"
	}
	var str string
	if err := json.Unmarshal(s, &str); err == nil {
		return str
	}
	if num, ok := s.Number(); ok {
		return FormatNumber(num)
	}
	return string(s)
}

// Number returns the value as a float64 when it is a JSON number.
func (s Scalar) Number() (float64, bool) {
	if len(s) == 0 {
		return 0, false
	}
	var num float64
	if err := json.Unmarshal(s, &num); err != nil {
		return 0, false
	}
	return num, true
}

// FormatNumber prints a number without a trailing fraction when it is whole.
func FormatNumber(n float64) string {
	return strconv.FormatFloat(n, 'f', -1, 64)
}

// Execution is the top-level execution document.
type Execution struct {
	ID     Scalar         `json:"id"`
	Status Scalar         `json:"status"`
	Data   *ExecutionData `json:"data"`
}

type ExecutionData struct {
	ResultData *ResultData `json:"resultData"`
}

type ResultData struct {
	RunData *RunData `json:"runData"`
}

// RunData maps node names to their recorded runs, in document order.
type RunData = orderedmap.OrderedMap[string, []NodeRun]

// RunData walks data.resultData.runData and reports false if any level is missing.
func (e *Execution) RunData() (*RunData, bool) {
	if e == nil || e.Data == nil || e.Data.ResultData == nil || e.Data.ResultData.RunData == nil {
		return nil, false
	}
	return e.Data.ResultData.RunData, true
}

// NodeNames lists the node names of rd in document order.
func NodeNames(rd *RunData) []string {
	if rd == nil {
		return nil
	}
	names := make([]string, 0, rd.Len())
	for pair := rd.Oldest(); pair != nil; pair = pair.Next() {
		names = append(names, pair.Key)
	}
	return names
}

// FirstRun returns the first recorded run of name. Later runs are retries and
// are never consulted. A node with an empty run list yields a zero NodeRun.
func FirstRun(rd *RunData, name string) (NodeRun, bool) {
	if rd == nil {
		return NodeRun{}, false
	}
	runs, ok := rd.Get(name)
	if !ok {
		return NodeRun{}, false
	}
	if len(runs) == 0 {
		return NodeRun{}, true
	}
	return runs[0], true
}

// NodeRun is one execution record of a node. Data is kept raw so a
// malformed output on one node never fails the whole document.
type NodeRun struct {
	ExecutionStatus Scalar          `json:"executionStatus"`
	ExecutionTime   Scalar          `json:"executionTime"`
	Data            json.RawMessage `json:"data"`
}

type nodeRunData struct {
	Main []json.RawMessage `json:"main"`
}

// UnmarshalJSON reads a record that is not an object as a zero NodeRun.
func (r *NodeRun) UnmarshalJSON(data []byte) error {
	type plain NodeRun
	var run plain
	if err := json.Unmarshal(data, &run); err != nil {
		*r = NodeRun{}
		return nil
	}
	*r = NodeRun(run)
	return nil
}

// Succeeded is true only for the string status "success".
func (r NodeRun) Succeeded() bool {
	if len(r.ExecutionStatus) == 0 {
		return false
	}
	var status string
	return json.Unmarshal(r.ExecutionStatus, &status) == nil && status == "success"
}

// Items returns the items of the first main output. Any level that is
// missing, null or of the wrong shape yields no items.
func (r NodeRun) Items() []json.RawMessage {
	if len(r.Data) == 0 {
		return nil
	}
	var data nodeRunData
	if err := json.Unmarshal(r.Data, &data); err != nil || len(data.Main) == 0 {
		return nil
	}
	var items []json.RawMessage
	if err := json.Unmarshal(data.Main[0], &items); err != nil {
		return nil
	}
	return items
}

func (r NodeRun) ItemCount() int {
	return len(r.Items())
}

// ElapsedMillis is executionTime with absent, null or non-numeric values read as 0.
func (r NodeRun) ElapsedMillis() float64 {
	ms, ok := r.ExecutionTime.Number()
	if !ok {
		return 0
	}
	return ms
}
