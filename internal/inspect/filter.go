package inspect

import (
	"fmt"
	"strings"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/jopnelli/n8n-debugger/internal/model"
)

// filterEnv is what a --filter expression can see of one node.
type filterEnv struct {
	Name    string  `expr:"name"`
	Status  string  `expr:"status"`
	Success bool    `expr:"success"`
	Items   int     `expr:"items"`
	Time    float64 `expr:"time"`
}

// Filter selects nodes in list mode. A nil *Filter matches every node.
type Filter struct {
	source  string
	program *vm.Program
}

// CompileFilter compiles a boolean expression such as
// `!success || items == 0`. An empty source yields a nil Filter.
func CompileFilter(source string) (*Filter, error) {
	source = strings.TrimSpace(source)
	if source == "" {
		return nil, nil
	}

	program, err := expr.Compile(source, expr.Env(filterEnv{}), expr.AsBool())
	if err != nil {
		return nil, fmt.Errorf("invalid filter: %w", err)
	}
	return &Filter{source: source, program: program}, nil
}

func (f *Filter) String() string {
	if f == nil {
		return ""
	}
	return f.source
}

func (f *Filter) Match(node model.NodeSummary) (bool, error) {
	if f == nil {
		return true, nil
	}

	output, err := expr.Run(f.program, filterEnv{
		Name:    node.Name,
		Status:  node.Status,
		Success: node.Success,
		Items:   node.Items,
		Time:    node.ExecutionTime,
	})
	if err != nil {
		return false, fmt.Errorf("evaluating filter on node %q: %w", node.Name, err)
	}
	matched, _ := output.(bool)
	return matched, nil
}
