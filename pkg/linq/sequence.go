package linq

import (
	"fmt"
	"iter"

	"github.com/go-logr/logr"
)

// producer pushes elements into yield until the source is exhausted or yield returns false.
type producer[T any] func(yield func(T) bool) error

// Sequence is a lazily evaluated query over elements of type T. Operators return new
// sequences wrapping a pending transformation of the receiver; nothing is computed until a
// terminal operator or an iteration via All pulls elements through the chain.
//
// After the first complete traversal the sequence replaces its producer with the captured
// elements, so later traversals yield the same ordered elements even if the underlying source
// could be consumed only once.
type Sequence[T any] struct {
	src     producer[T]
	buf     []T
	cached  bool
	err     error
	log     logr.Logger
	lineage *Lineage
}

// upstream is the type-erased view of a sequence used when deriving a new sequence from one
// or more inputs of possibly different element types.
type upstream interface {
	Lineage() *Lineage
	logger() logr.Logger
	stickyErr() error
}

// derive creates a sequence downstream of parents. The first parent donates the logger, and
// the first sticky error among the parents is inherited.
func derive[U any](op, detail string, src producer[U], parents ...upstream) *Sequence[U] {
	ret := &Sequence[U]{src: src, log: logr.Discard()}
	inputs := make([]*Lineage, 0, len(parents))
	for i, p := range parents {
		inputs = append(inputs, p.Lineage())
		if i == 0 {
			ret.log = p.logger()
		}
		if ret.err == nil {
			ret.err = p.stickyErr()
		}
	}
	ret.lineage = newLineage(op, detail, inputs...)
	return ret
}

// materialized returns a sequence over an already evaluated slice. The slice is not copied.
func materialized[T any](elems []T, log logr.Logger, lineage *Lineage) *Sequence[T] {
	return &Sequence[T]{buf: elems, cached: true, log: log, lineage: lineage}
}

// withErr sets the sticky error unless an upstream error is already recorded.
func (s *Sequence[T]) withErr(err error) *Sequence[T] {
	if s.err == nil {
		s.err = err
	}
	return s
}

func (s *Sequence[T]) logger() logr.Logger { return s.log }
func (s *Sequence[T]) stickyErr() error    { return s.err }

// each runs one traversal of the sequence. Elements are captured as they are yielded; when
// the traversal runs to completion the capture replaces the producer.
func (s *Sequence[T]) each(yield func(T) bool) error {
	if s.err != nil {
		return s.err
	}

	if s.src == nil {
		// the zero Sequence is empty
		s.cached = true
	}

	if s.cached {
		for _, v := range s.buf {
			if !yield(v) {
				return nil
			}
		}
		return nil
	}

	var capture []T
	complete := true
	if err := s.src(func(v T) bool {
		capture = append(capture, v)
		if !yield(v) {
			complete = false
			return false
		}
		return true
	}); err != nil {
		s.err = err
		s.log.V(4).Info("evaluation failed", "op", s.lineage.Label(), "error", err.Error())
		return err
	}

	if complete && !s.cached {
		s.buf, s.cached, s.src = capture, true, nil
		s.log.V(6).Info("sequence captured", "op", s.lineage.Label(), "size", len(capture))
	}

	return nil
}

// collect evaluates the sequence into a slice. The result must not be modified: it may be the
// sequence's own capture.
func (s *Sequence[T]) collect() ([]T, error) {
	if s.err != nil {
		return nil, s.err
	}
	if s.cached {
		return s.buf, nil
	}
	var out []T
	if err := s.each(func(v T) bool { out = append(out, v); return true }); err != nil {
		return nil, err
	}
	return out, nil
}

// All returns an iterator over the elements of the sequence. An evaluation error stops the
// iteration and is reported by Err.
func (s *Sequence[T]) All() iter.Seq[T] {
	return func(yield func(T) bool) {
		_ = s.each(yield)
	}
}

// Err returns the sticky error of the sequence: an invalid operator argument or the failure of
// an earlier evaluation.
func (s *Sequence[T]) Err() error { return s.err }

// WithLogger sets the logger of the sequence. Sequences derived afterwards inherit it.
func (s *Sequence[T]) WithLogger(log logr.Logger) *Sequence[T] {
	s.log = log
	return s
}

// Lineage returns the operator chain that produced the sequence.
func (s *Sequence[T]) Lineage() *Lineage { return s.lineage }

// String returns a one-line rendering of the sequence's lineage.
func (s *Sequence[T]) String() string {
	state := "pending"
	switch {
	case s.err != nil:
		state = "failed"
	case s.cached:
		state = fmt.Sprintf("%d elements", len(s.buf))
	}
	return fmt.Sprintf("Sequence<%s>{%s}", state, s.lineage.String())
}
