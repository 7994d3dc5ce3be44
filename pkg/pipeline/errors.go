package pipeline

import (
	"errors"
	"fmt"
)

// ErrInvalidQuery is returned for queries that cannot be compiled.
var ErrInvalidQuery = errors.New("invalid query")

type ErrPipeline = error

func NewPipelineError(err error) ErrPipeline {
	return fmt.Errorf("failed to evaluate pipeline: %w", err)
}

type ErrStage = error

func NewStageError(op string, err error) ErrStage {
	return fmt.Errorf("stage %s: %w", op, err)
}

type ErrInvalidArguments = error

func NewInvalidArgumentsError(op, content string) ErrInvalidArguments {
	return fmt.Errorf("%w: invalid arguments to %s at %q", ErrInvalidQuery, op, content)
}

type ErrUnmarshal = error

func NewUnmarshalError(kind, content string) ErrUnmarshal {
	return fmt.Errorf("%w: JSON parsing error in %s at %q", ErrInvalidQuery, kind, content)
}

type ErrExpression = error

func NewExpressionError(kind, content string, err error) ErrExpression {
	return fmt.Errorf("failed to evaluate %s expression %q: %w", kind, content, err)
}

type ErrAggregation = error

func NewAggregationError(content string, err error) ErrAggregation {
	return fmt.Errorf("failed to evaluate aggregation %q: %w", content, err)
}
