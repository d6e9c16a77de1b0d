package datexport

import (
	"fmt"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// rowEnv returns the environment a filter expression is evaluated against.
func rowEnv(index int, key string, association, row []string) map[string]any {
	return map[string]any{
		"key":         key,
		"association": association,
		"row":         row,
		"index":       index,
	}
}

// RowFilter decides whether a transformed row is exported.
type RowFilter struct {
	source  string
	program *vm.Program
}

// CompileFilter compiles a filter expression such as
// `key startsWith "GPU"` or `len(association) > 0`.
func CompileFilter(expression string) (*RowFilter, error) {
	program, err := expr.Compile(expression, expr.Env(rowEnv(0, "", []string{}, []string{})), expr.AsBool())
	if err != nil {
		return nil, fmt.Errorf("compile filter %q: %w", expression, err)
	}
	return &RowFilter{source: expression, program: program}, nil
}

// String returns the expression the filter was compiled from.
func (f *RowFilter) String() string {
	return f.source
}

// Match evaluates the filter for one row.
func (f *RowFilter) Match(index int, key string, association, row []string) (bool, error) {
	out, err := expr.Run(f.program, rowEnv(index, key, association, row))
	if err != nil {
		return false, fmt.Errorf("evaluate filter %q on row %d: %w", f.source, index, err)
	}
	b, ok := out.(bool)
	if !ok {
		return false, fmt.Errorf("filter %q evaluated to %T, expected bool", f.source, out)
	}
	return b, nil
}
