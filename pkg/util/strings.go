package util

import (
	"encoding/json"
	"fmt"

	"sigs.k8s.io/yaml"
)

// Stringify renders a value as compact JSON for log lines, falling back to Go syntax for
// values JSON cannot encode.
func Stringify(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("%#v", v)
	}
	return string(b)
}

// Render encodes a value in an output format: "json" (indented) or "yaml".
func Render(v any, format string) ([]byte, error) {
	switch format {
	case "json", "":
		b, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return nil, err
		}
		return append(b, '\n'), nil
	case "yaml":
		return yaml.Marshal(v)
	}
	return nil, fmt.Errorf("unknown output format %q", format)
}
