package pipeline

import (
	"fmt"
	"strings"

	"github.com/ohler55/ojg/jp"

	"github.com/l7mp/linq/pkg/provider"
)

// Path is a compiled value expression: a JSONPath expression rooted at the document or a
// literal.
type Path struct {
	raw     string
	exp     jp.Expr
	literal any
}

// CompilePath compiles a value expression. Strings starting with "$" are JSONPath expressions,
// everything else is a literal.
func CompilePath(v any) (*Path, error) {
	s, ok := v.(string)
	if !ok || !strings.HasPrefix(s, "$") {
		return &Path{raw: fmt.Sprint(v), literal: v}, nil
	}

	// "$." is the root ref, which ojg/jp spells as "$"
	query := s
	if query == "$." {
		query = "$"
	}
	exp, err := jp.ParseString(query)
	if err != nil {
		return nil, NewExpressionError("JSONPath", s, err)
	}
	return &Path{raw: s, exp: exp}, nil
}

// Get evaluates the expression on a document. A JSONPath expression that matches nothing
// yields nil.
func (p *Path) Get(doc provider.Document) any {
	if p.exp == nil {
		return p.literal
	}
	values := p.exp.Get(doc)
	if len(values) == 0 {
		return nil
	}
	return values[0]
}

// String implements fmt.Stringer.
func (p *Path) String() string { return p.raw }

// GetJSONPathExp evaluates a JSONPath expression on the specified object and returns the first
// match, or nil.
func GetJSONPathExp(query string, object any) (any, error) {
	je, err := jp.ParseString(query)
	if err != nil {
		return nil, err
	}
	values := je.Get(object)
	if len(values) == 0 {
		return nil, nil
	}
	return values[0], nil
}
