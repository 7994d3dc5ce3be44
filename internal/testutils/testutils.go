// Package testutils holds document fixtures shared by the tests.
package testutils

import (
	"maps"
	"os"
	"path/filepath"

	"sigs.k8s.io/yaml"

	"github.com/l7mp/linq/pkg/provider"
)

var (
	// TestUsers is a collection of user documents.
	TestUsers = []provider.Document{
		{"name": "alice", "age": int64(34), "dept": "eng", "tags": []any{"admin", "dev"}},
		{"name": "bob", "age": int64(25), "dept": "ops", "tags": []any{"oncall"}},
		{"name": "carol", "age": int64(41), "dept": "eng", "tags": []any{}},
		{"name": "dave", "age": int64(25), "dept": "sales"},
	}

	// TestOrders is a collection of order documents referring to users by name.
	TestOrders = []provider.Document{
		{"id": int64(1), "user": "alice", "total": 10.0},
		{"id": int64(2), "user": "carol", "total": 5.5},
		{"id": int64(3), "user": "alice", "total": 2.0},
		{"id": int64(4), "user": "erin", "total": 7.0},
	}

	// TestAdmins is a collection overlapping TestUsers.
	TestAdmins = []provider.Document{
		{"name": "alice"},
		{"name": "erin"},
	}
)

// TestDataset returns a fresh copy of the fixture collections.
func TestDataset() map[string][]provider.Document {
	return map[string][]provider.Document{
		"users":  clone(TestUsers),
		"orders": clone(TestOrders),
		"admins": clone(TestAdmins),
	}
}

// WriteDataset writes the fixture collections as YAML into dir and returns the path.
func WriteDataset(dir, name string) (string, error) {
	data, err := yaml.Marshal(TestDataset())
	if err != nil {
		return "", err
	}
	path := filepath.Join(dir, name)
	return path, os.WriteFile(path, data, 0o600)
}

func clone(docs []provider.Document) []provider.Document {
	ret := make([]provider.Document, len(docs))
	for i, doc := range docs {
		ret[i] = maps.Clone(doc)
	}
	return ret
}
