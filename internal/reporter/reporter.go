package reporter

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"github.com/jopnelli/n8n-debugger/internal/model"
)

type Reporter interface {
	ReportSummary(summary model.ExecutionSummary) error
	ReportNodeDetail(detail model.NodeDetail) error
}

const (
	ReportFormatConsole = "console"
	ReportFormatJSON    = "json"
	ReportFormatYAML    = "yaml"
	ReportFormatJUnit   = "junit"
)

// ParseFormat normalises a --format value. Reports always go to standard
// output, so the format[:path] form is rejected.
func ParseFormat(raw string) (string, error) {
	format := strings.ToLower(strings.TrimSpace(raw))
	if format == "" {
		return ReportFormatConsole, nil
	}

	if idx := strings.Index(format, ":"); idx >= 0 {
		return "", fmt.Errorf("%s reporter does not accept a path; reports are written to standard output", format[:idx])
	}

	switch format {
	case ReportFormatConsole, ReportFormatJSON, ReportFormatYAML, ReportFormatJUnit:
		return format, nil
	default:
		return "", fmt.Errorf("unsupported report format %q", raw)
	}
}

// ReporterOptions contains configuration options for reporters.
type ReporterOptions struct {
	Program  string // command name shown in the console drill-down hint
	ShowHint bool
}

func New(format string, w io.Writer, opts ReporterOptions) (Reporter, error) {
	switch format {
	case ReportFormatConsole:
		return newConsoleReporter(w, opts), nil
	case ReportFormatJSON:
		return &jsonReporter{w: w}, nil
	case ReportFormatYAML:
		return &yamlReporter{w: w}, nil
	case ReportFormatJUnit:
		return &junitReporter{w: w}, nil
	default:
		return nil, fmt.Errorf("unsupported reporter format %q", format)
	}
}

// FormatItems renders items as one JSON array indented by two spaces,
// keeping every item byte-for-byte apart from whitespace.
func FormatItems(items []json.RawMessage) (string, error) {
	var array bytes.Buffer
	array.WriteByte('[')
	for i, item := range items {
		if i > 0 {
			array.WriteByte(',')
		}
		array.Write(item)
	}
	array.WriteByte(']')

	var out bytes.Buffer
	if err := json.Indent(&out, array.Bytes(), "", "  "); err != nil {
		return "", fmt.Errorf("formatting output items: %w", err)
	}
	return out.String(), nil
}

type jsonReporter struct {
	w io.Writer
}

func (j *jsonReporter) ReportSummary(summary model.ExecutionSummary) error {
	if summary.Nodes == nil {
		summary.Nodes = []model.NodeSummary{}
	}
	return j.write(summary)
}

func (j *jsonReporter) ReportNodeDetail(detail model.NodeDetail) error {
	if detail.Items == nil {
		detail.Items = []json.RawMessage{}
	}
	return j.write(detail)
}

func (j *jsonReporter) write(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("serializing json report: %w", err)
	}
	data = append(data, '\n')
	if _, err := j.w.Write(data); err != nil {
		return fmt.Errorf("writing json report: %w", err)
	}
	return nil
}

type yamlReporter struct {
	w io.Writer
}

type yamlNodeDetail struct {
	model.NodeDetail `yaml:",inline"`
	Items            []*yaml.Node `yaml:"items"`
}

func (y *yamlReporter) ReportSummary(summary model.ExecutionSummary) error {
	if summary.Nodes == nil {
		summary.Nodes = []model.NodeSummary{}
	}
	return y.write(summary)
}

func (y *yamlReporter) ReportNodeDetail(detail model.NodeDetail) error {
	view := yamlNodeDetail{NodeDetail: detail, Items: make([]*yaml.Node, 0, len(detail.Items))}
	for i, item := range detail.Items {
		var doc yaml.Node
		if err := yaml.Unmarshal(item, &doc); err != nil {
			return fmt.Errorf("converting item %d to yaml: %w", i, err)
		}
		if len(doc.Content) == 0 {
			continue
		}
		node := doc.Content[0]
		blockStyle(node)
		view.Items = append(view.Items, node)
	}
	return y.write(view)
}

func (y *yamlReporter) write(v any) error {
	enc := yaml.NewEncoder(y.w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("serializing yaml report: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("writing yaml report: %w", err)
	}
	return nil
}

// blockStyle drops the flow/quoted styles a JSON source leaves on parsed
// nodes; tags are kept so strings like "true" stay quoted.
func blockStyle(n *yaml.Node) {
	n.Style = 0
	for _, child := range n.Content {
		blockStyle(child)
	}
}

type junitReporter struct {
	w io.Writer
}

type junitTestSuites struct {
	XMLName xml.Name         `xml:"testsuites"`
	Suites  []junitTestSuite `xml:"testsuite"`
}

type junitTestSuite struct {
	XMLName  xml.Name        `xml:"testsuite"`
	Name     string          `xml:"name,attr"`
	Tests    int             `xml:"tests,attr"`
	Failures int             `xml:"failures,attr"`
	Time     string          `xml:"time,attr"`
	Cases    []junitTestCase `xml:"testcase"`
}

type junitTestCase struct {
	XMLName   xml.Name      `xml:"testcase"`
	Name      string        `xml:"name,attr"`
	Time      string        `xml:"time,attr"`
	Failure   *junitFailure `xml:"failure,omitempty"`
	SystemOut string        `xml:"system-out,omitempty"`
}

type junitFailure struct {
	Message string `xml:"message,attr"`
	Type    string `xml:"type,attr,omitempty"`
	Data    string `xml:",chardata"`
}

func (j *junitReporter) ReportSummary(summary model.ExecutionSummary) error {
	suite := junitTestSuite{
		Name:  fmt.Sprintf("Execution %s", summary.ID),
		Tests: len(summary.Nodes),
		Cases: make([]junitTestCase, 0, len(summary.Nodes)),
	}

	var totalMillis float64
	for _, node := range summary.Nodes {
		totalMillis += node.ExecutionTime
		testCase := junitTestCase{
			Name: node.Name,
			Time: millisToSeconds(node.ExecutionTime),
		}
		if !node.Success {
			testCase.Failure = newJUnitFailure(node.Status)
			suite.Failures++
		}
		suite.Cases = append(suite.Cases, testCase)
	}
	suite.Time = millisToSeconds(totalMillis)

	return j.write(junitTestSuites{Suites: []junitTestSuite{suite}})
}

func (j *junitReporter) ReportNodeDetail(detail model.NodeDetail) error {
	ms, _ := detail.ExecutionTime.Number()
	testCase := junitTestCase{
		Name: detail.Name,
		Time: millisToSeconds(ms),
	}
	if detail.Status.String() != "success" {
		testCase.Failure = newJUnitFailure(detail.Status.String())
	}
	if len(detail.Items) > 0 {
		out, err := FormatItems(detail.Items)
		if err != nil {
			return err
		}
		testCase.SystemOut = out
	}

	suite := junitTestSuite{
		Name:  detail.Name,
		Tests: 1,
		Time:  testCase.Time,
		Cases: []junitTestCase{testCase},
	}
	if testCase.Failure != nil {
		suite.Failures = 1
	}
	return j.write(junitTestSuites{Suites: []junitTestSuite{suite}})
}

func newJUnitFailure(status string) *junitFailure {
	failureType := status
	if failureType == "" || failureType == "undefined" {
		failureType = "Failure"
	}
	return &junitFailure{Message: failureType, Type: failureType}
}

func (j *junitReporter) write(output junitTestSuites) error {
	data, err := xml.MarshalIndent(output, "", "  ")
	if err != nil {
		return fmt.Errorf("serializing junit report: %w", err)
	}

	header := []byte(xml.Header)
	data = append(header, data...)
	data = append(data, '\n')

	if _, err := j.w.Write(data); err != nil {
		return fmt.Errorf("writing junit report: %w", err)
	}
	return nil
}

func millisToSeconds(ms float64) string {
	return fmt.Sprintf("%.6f", ms/1000)
}
