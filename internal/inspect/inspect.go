// Package inspect is the execution report reader: it summarises every node
// of an execution file or shows the output of one node.
package inspect

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/jopnelli/n8n-debugger/internal/execution"
	"github.com/jopnelli/n8n-debugger/internal/model"
	"github.com/jopnelli/n8n-debugger/internal/reporter"
)

// Summarize builds list mode: one entry per node in document order, each
// taken from the node's first run.
func Summarize(doc *model.Execution, filter *Filter) (model.ExecutionSummary, error) {
	runData, err := execution.ResolveRunData(doc)
	if err != nil {
		return model.ExecutionSummary{}, err
	}

	summary := model.ExecutionSummary{
		ID:         doc.ID.String(),
		Status:     doc.Status.String(),
		TotalNodes: runData.Len(),
		Filter:     filter.String(),
		Nodes:      make([]model.NodeSummary, 0, runData.Len()),
	}

	for pair := runData.Oldest(); pair != nil; pair = pair.Next() {
		var run model.NodeRun
		if len(pair.Value) > 0 {
			run = pair.Value[0]
		}

		node := model.NodeSummary{
			Name:          pair.Key,
			Status:        run.ExecutionStatus.String(),
			Success:       run.Succeeded(),
			Items:         run.ItemCount(),
			ExecutionTime: run.ElapsedMillis(),
		}

		matched, err := filter.Match(node)
		if err != nil {
			return model.ExecutionSummary{}, err
		}
		if matched {
			summary.Nodes = append(summary.Nodes, node)
		}
	}

	return summary, nil
}

// Show builds detail mode for name. Status and execution time are passed on
// raw; only the item count falls back to zero.
func Show(doc *model.Execution, name string) (model.NodeDetail, error) {
	runData, err := execution.ResolveRunData(doc)
	if err != nil {
		return model.NodeDetail{}, err
	}

	run, err := execution.FindNode(runData, name)
	if err != nil {
		return model.NodeDetail{}, err
	}

	items := run.Items()
	if items == nil {
		items = []json.RawMessage{}
	}

	return model.NodeDetail{
		Name:          name,
		Status:        run.ExecutionStatus,
		ExecutionTime: run.ExecutionTime,
		ItemCount:     len(items),
		Items:         items,
	}, nil
}

type Options struct {
	File     string
	Node     string
	Filter   string
	Format   string
	Program  string
	ShowHint bool
}

type Runner struct {
	logger zerolog.Logger
	stdout io.Writer
	stderr io.Writer
}

func NewRunner(logger zerolog.Logger, stdout, stderr io.Writer) *Runner {
	return &Runner{logger: logger, stdout: stdout, stderr: stderr}
}

// Run loads opts.File and renders list mode, or detail mode when opts.Node is
// set. Nothing is written to stdout before the document is known to be usable.
func (r *Runner) Run(ctx context.Context, opts Options) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	format, err := reporter.ParseFormat(opts.Format)
	if err != nil {
		return err
	}

	filter, err := CompileFilter(opts.Filter)
	if err != nil {
		return err
	}
	if filter != nil {
		r.logger.Debug().Str("filter", filter.String()).Msg("compiled node filter")
	}

	rep, err := reporter.New(format, r.stdout, reporter.ReporterOptions{
		Program:  opts.Program,
		ShowHint: opts.ShowHint,
	})
	if err != nil {
		return err
	}

	doc, err := execution.Load(r.logger, opts.File)
	if err != nil {
		return err
	}

	if opts.Node == "" {
		return r.summarize(rep, doc, filter, opts)
	}

	if filter != nil {
		r.logger.Warn().Str("filter", filter.String()).Msg("filter applies to list mode only, ignoring")
	}
	return r.show(rep, doc, opts)
}

func (r *Runner) summarize(rep reporter.Reporter, doc *model.Execution, filter *Filter, opts Options) error {
	summary, err := Summarize(doc, filter)
	if err != nil {
		return err
	}
	summary.Source = opts.File

	r.logger.Debug().
		Int("nodes", summary.TotalNodes).
		Int("shown", len(summary.Nodes)).
		Msg("rendering execution summary")

	return rep.ReportSummary(summary)
}

func (r *Runner) show(rep reporter.Reporter, doc *model.Execution, opts Options) error {
	detail, err := Show(doc, opts.Node)
	if err != nil {
		var execErr *execution.Error
		if errors.As(err, &execErr) && execErr.Code == execution.CodeNodeNotFound {
			if printErr := reporter.PrintNodeNotFound(r.stdout, execErr.Node, execErr.Available); printErr != nil {
				return printErr
			}
			for _, suggestion := range Suggest(execErr.Available, execErr.Node) {
				fmt.Fprintf(r.stderr, "Did you mean \"%s\"?\n", suggestion)
			}
		}
		return err
	}
	detail.Source = opts.File

	r.logger.Debug().
		Str("node", detail.Name).
		Int("items", detail.ItemCount).
		Msg("rendering node detail")

	return rep.ReportNodeDetail(detail)
}
