package reporter

import (
	"fmt"
	"io"
	"strings"

	"github.com/jopnelli/n8n-debugger/internal/model"
)

type consoleReporter struct {
	w        io.Writer
	program  string
	showHint bool
}

func newConsoleReporter(w io.Writer, opts ReporterOptions) Reporter {
	program := opts.Program
	if program == "" {
		program = "n8n-debugger"
	}
	return &consoleReporter{w: w, program: program, showHint: opts.ShowHint}
}

func statusIcon(success bool) string {
	if success {
		return "✅"
	}
	return "❌"
}

func (c *consoleReporter) ReportSummary(summary model.ExecutionSummary) error {
	var b strings.Builder

	fmt.Fprintf(&b, "\n📊 Execution %s - %s\n\n", summary.ID, summary.Status)
	if summary.Filtered() {
		fmt.Fprintf(&b, "Nodes executed (%d of %d):\n\n", len(summary.Nodes), summary.TotalNodes)
	} else {
		fmt.Fprintf(&b, "Nodes executed (%d):\n\n", summary.TotalNodes)
	}

	for _, node := range summary.Nodes {
		fmt.Fprintf(&b, "%s %s\n", statusIcon(node.Success), node.Name)
		fmt.Fprintf(&b, "   Items: %d, Time: %sms\n", node.Items, model.FormatNumber(node.ExecutionTime))
	}

	if c.showHint {
		fmt.Fprintf(&b, "\nUse: %s %s \"<node-name>\" to see node output\n\n", c.program, summary.Source)
	}

	_, err := io.WriteString(c.w, b.String())
	return err
}

func (c *consoleReporter) ReportNodeDetail(detail model.NodeDetail) error {
	var b strings.Builder

	fmt.Fprintf(&b, "\n📦 Node: %s\n", detail.Name)
	fmt.Fprintf(&b, "Status: %s\n", detail.Status)
	fmt.Fprintf(&b, "Execution time: %sms\n", detail.ExecutionTime)
	fmt.Fprintf(&b, "Items: %d\n\n", detail.ItemCount)

	if len(detail.Items) > 0 {
		out, err := FormatItems(detail.Items)
		if err != nil {
			return err
		}
		b.WriteString("Output data:\n\n")
		b.WriteString(out)
		b.WriteString("\n")
	} else {
		b.WriteString("No output data\n")
	}
	b.WriteString("\n")

	_, err := io.WriteString(c.w, b.String())
	return err
}

// PrintNodeNotFound writes the not-found message and every valid node name.
// It is the same for all formats.
func PrintNodeNotFound(w io.Writer, name string, available []string) error {
	_, err := fmt.Fprintf(w, "\nNode \"%s\" not found in execution.\n\nAvailable nodes: %s\n\n", name, strings.Join(available, ", "))
	return err
}
