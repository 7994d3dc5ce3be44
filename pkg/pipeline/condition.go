package pipeline

import (
	"fmt"
	"reflect"

	"github.com/google/cel-go/cel"
	"github.com/google/cel-go/common"

	"github.com/l7mp/linq/pkg/provider"
)

var celBaseEnv *cel.Env

func init() {
	env, err := cel.NewEnv(
		cel.Variable("doc", cel.MapType(cel.StringType, cel.DynType)),
		cel.CrossTypeNumericComparisons(true),
		cel.EagerlyValidateDeclarations(true),
	)
	if err != nil {
		panic(fmt.Sprintf("failed to construct CEL base env: %v", err))
	}
	celBaseEnv = env
}

// Condition is a compiled CEL predicate over the variable "doc".
type Condition struct {
	source  string
	program cel.Program
}

// CompileCondition compiles a boolean CEL expression.
func CompileCondition(source string) (*Condition, error) {
	ast, issues := celBaseEnv.CompileSource(common.NewStringSource(source, "condition"))
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidQuery, NewExpressionError("CEL", source, issues.Err()))
	}

	out := ast.OutputType()
	if !reflect.DeepEqual(out, cel.BoolType) && !reflect.DeepEqual(out, cel.DynType) {
		return nil, fmt.Errorf("%w: expected a bool condition expression output, but got '%s'",
			ErrInvalidQuery, out)
	}

	prg, err := celBaseEnv.Program(ast)
	if err != nil {
		return nil, NewExpressionError("CEL", source, err)
	}

	return &Condition{source: source, program: prg}, nil
}

// Evaluate runs the predicate on a document.
func (c *Condition) Evaluate(doc provider.Document) (bool, error) {
	out, _, err := c.program.Eval(map[string]any{"doc": doc})
	if err != nil {
		return false, NewExpressionError("CEL", c.source, err)
	}
	b, ok := out.Value().(bool)
	if !ok {
		return false, NewExpressionError("CEL", c.source,
			fmt.Errorf("expected a boolean, got %T", out.Value()))
	}
	return b, nil
}

// String implements fmt.Stringer.
func (c *Condition) String() string { return c.source }
