package pipeline

import (
	"github.com/l7mp/linq/pkg/linq"
	"github.com/l7mp/linq/pkg/provider"
)

// aggregate evaluates a terminal stage on the sequence.
func (p *Pipeline) aggregate(seq docs, s *Stage) (any, error) {
	v, err := p.evalAggregate(seq, s)
	if err != nil {
		return nil, NewAggregationError(s.String(), err)
	}
	return v, nil
}

func (p *Pipeline) evalAggregate(seq docs, s *Stage) (any, error) {
	switch s.Op {
	case "@count":
		return seq.Count()

	case "@sum", "@min", "@max", "@avg", "@median":
		path, err := p.decodePath(s)
		if err != nil {
			return nil, err
		}
		vals := linq.Select(seq, keyOf(path))
		switch s.Op {
		case "@sum":
			return linq.Sum[any, float64](vals, nil)
		case "@min":
			return linq.Min[any, float64](vals, nil)
		case "@max":
			return linq.Max[any, float64](vals, nil)
		case "@avg":
			return linq.Avg[any, float64](vals, nil)
		}
		return linq.Median[any, float64](vals, nil)

	case "@first", "@last", "@any":
		filtered, err := p.filter(seq, s, false)
		if err != nil {
			return nil, err
		}
		switch s.Op {
		case "@first":
			return filtered.First(nil)
		case "@last":
			return filtered.Last(nil)
		}
		if filtered == seq {
			return seq.Any(nil)
		}
		return filtered.Any(func(provider.Document) bool { return true })

	case "@single":
		filtered, err := p.filter(seq, s, true)
		if err != nil {
			return nil, err
		}
		return filtered.Single(func(provider.Document) bool { return true })

	case "@elementAt":
		var n int
		if err := s.decode(&n); err != nil {
			return nil, err
		}
		return seq.ElementAt(n)
	}

	return nil, NewInvalidArgumentsError("aggregate", s.Op)
}

// filter applies the optional CEL condition of a terminal stage.
func (p *Pipeline) filter(seq docs, s *Stage, required bool) (docs, error) {
	var source string
	found, err := s.decodeOptional(&source)
	if err != nil {
		return nil, err
	}
	if !found {
		if required {
			return nil, NewInvalidArgumentsError(s.Op, string(s.Arg))
		}
		return seq, nil
	}
	cond, err := CompileCondition(source)
	if err != nil {
		return nil, err
	}
	return seq.WhereErr(cond.Evaluate), nil
}
