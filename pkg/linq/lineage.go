package linq

import (
	"fmt"
	"strings"
)

// Lineage records the operator that produced a sequence and the lineage of its inputs. It is
// informational only and never affects evaluation.
type Lineage struct {
	Op     string
	Detail string
	Inputs []*Lineage
}

func newLineage(op, detail string, inputs ...*Lineage) *Lineage {
	return &Lineage{Op: op, Detail: detail, Inputs: inputs}
}

// Label returns the operator with its detail, e.g. "take[2]".
func (l *Lineage) Label() string {
	if l == nil {
		return "empty"
	}
	if l.Detail == "" {
		return l.Op
	}
	return fmt.Sprintf("%s[%s]", l.Op, l.Detail)
}

// String renders the lineage as a nested call chain, e.g. "take[2](where(from[slice:3]))".
func (l *Lineage) String() string {
	b := &strings.Builder{}
	l.write(b)
	return b.String()
}

func (l *Lineage) write(b *strings.Builder) {
	b.WriteString(l.Label())
	if l == nil || len(l.Inputs) == 0 {
		return
	}
	b.WriteString("(")
	for i, in := range l.Inputs {
		if i > 0 {
			b.WriteString(", ")
		}
		in.write(b)
	}
	b.WriteString(")")
}

// Depth returns the length of the longest operator chain below l.
func (l *Lineage) Depth() int {
	if l == nil {
		return 0
	}
	d := 0
	for _, in := range l.Inputs {
		d = max(d, in.Depth())
	}
	return d + 1
}
