package pipeline

import (
	"encoding/json"
	"fmt"
	"strings"

	"sigs.k8s.io/yaml"
)

// Query is a declarative query over the collections of a connection.
type Query struct {
	// From is the source collection.
	From string `json:"from"`
	// Pipeline is the chain of stages applied to the source in order.
	Pipeline []Stage `json:"pipeline,omitempty"`
	// Aggregate is the optional terminal operation.
	Aggregate *Stage `json:"aggregate,omitempty"`
}

// Stage is a single operation of a query, written as a map with a single "@op" key.
type Stage struct {
	Op  string
	Arg json.RawMessage
}

// Parse parses a query from YAML or JSON.
func Parse(data []byte) (*Query, error) {
	q := &Query{}
	if err := yaml.UnmarshalStrict(data, q); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidQuery, err)
	}
	if q.From == "" {
		return nil, fmt.Errorf("%w: no source collection", ErrInvalidQuery)
	}
	return q, nil
}

// UnmarshalJSON parses a stage from a single-key object.
func (s *Stage) UnmarshalJSON(b []byte) error {
	m := map[string]json.RawMessage{}
	if err := json.Unmarshal(b, &m); err != nil || len(m) != 1 {
		return NewUnmarshalError("stage", string(b))
	}
	for op, arg := range m {
		if !strings.HasPrefix(op, "@") {
			return NewUnmarshalError("stage", string(b))
		}
		*s = Stage{Op: op, Arg: arg}
	}
	return nil
}

// MarshalJSON encodes the stage as a single-key object.
func (s Stage) MarshalJSON() ([]byte, error) {
	arg := s.Arg
	if len(arg) == 0 {
		arg = json.RawMessage("null")
	}
	return json.Marshal(map[string]json.RawMessage{s.Op: arg})
}

// String implements fmt.Stringer.
func (s Stage) String() string {
	if len(s.Arg) == 0 {
		return s.Op
	}
	return fmt.Sprintf("%s:%s", s.Op, string(s.Arg))
}

// decode unmarshals the stage argument into v.
func (s *Stage) decode(v any) error {
	if len(s.Arg) == 0 {
		return NewInvalidArgumentsError(s.Op, "")
	}
	if err := json.Unmarshal(s.Arg, v); err != nil {
		return NewInvalidArgumentsError(s.Op, string(s.Arg))
	}
	return nil
}

// decodeOptional is like decode but accepts a missing, null or empty object argument.
func (s *Stage) decodeOptional(v any) (bool, error) {
	switch strings.TrimSpace(string(s.Arg)) {
	case "", "null", "{}":
		return false, nil
	}
	return true, s.decode(v)
}
