package pipeline

import (
	"fmt"

	"github.com/go-logr/logr"

	"github.com/l7mp/linq/pkg/linq"
	"github.com/l7mp/linq/pkg/provider"
	"github.com/l7mp/linq/pkg/util"
)

// Result is the outcome of running a query: the documents of the pipeline, or the value of
// the terminal aggregate if the query has one.
type Result struct {
	Documents []provider.Document `json:"documents,omitempty"`
	Value     any                 `json:"value,omitempty"`
}

// Pipeline is a query that knows how to compile itself into a sequence.
type Pipeline struct {
	query *Query
	log   logr.Logger
}

// NewPipeline creates a pipeline from a parsed query.
func NewPipeline(q *Query, log logr.Logger) *Pipeline {
	return &Pipeline{query: q, log: log}
}

// Query returns the query of the pipeline.
func (p *Pipeline) Query() *Query { return p.query }

// Compile builds the sequence of the pipeline over the collections of conn without
// evaluating it. The terminal aggregate, if any, is not part of the sequence.
func (p *Pipeline) Compile(conn provider.Connection) (*linq.Sequence[provider.Document], error) {
	seq, err := conn.Collection(p.query.From)
	if err != nil {
		return nil, NewPipelineError(err)
	}
	seq.WithLogger(p.log)

	for i := range p.query.Pipeline {
		s := &p.query.Pipeline[i]
		if seq, err = p.compileStage(conn, seq, s); err != nil {
			return nil, NewPipelineError(NewStageError(s.Op, err))
		}
		if err := seq.Err(); err != nil {
			return nil, NewPipelineError(NewStageError(s.Op, err))
		}
	}

	p.log.V(2).Info("pipeline compiled", "from", p.query.From, "lineage", seq.String())

	return seq, nil
}

// Run compiles the pipeline, evaluates it and applies the terminal aggregate.
func (p *Pipeline) Run(conn provider.Connection) (*Result, error) {
	seq, err := p.Compile(conn)
	if err != nil {
		return nil, err
	}

	if p.query.Aggregate != nil {
		v, err := p.aggregate(seq, p.query.Aggregate)
		if err != nil {
			return nil, NewPipelineError(err)
		}
		p.log.V(1).Info("eval ready", "aggregate", p.query.Aggregate.Op, "result", util.Stringify(v))
		return &Result{Value: v}, nil
	}

	docs, err := seq.ToList()
	if err != nil {
		return nil, NewPipelineError(err)
	}
	p.log.V(1).Info("eval ready", "documents", len(docs))

	return &Result{Documents: docs}, nil
}

// String implements fmt.Stringer.
func (p *Pipeline) String() string {
	return fmt.Sprintf("pipeline(from=%s, stages=%v, aggregate=%v)", p.query.From,
		p.query.Pipeline, p.query.Aggregate)
}
