package provider

import (
	"fmt"
	"os"
	"strings"

	"github.com/klauspost/compress/zstd"
	"sigs.k8s.io/yaml"
)

var _ Driver = &FileDriver{}

// FileDriver loads the collections of a connection from a JSON or YAML file. JSON is parsed as
// YAML, so the two drivers differ only in their scheme.
type FileDriver struct {
	name string
}

// NewJSONDriver returns the driver of json:<path> connection strings.
func NewJSONDriver() *FileDriver { return &FileDriver{name: "json"} }

// NewYAMLDriver returns the driver of yaml:<path> connection strings.
func NewYAMLDriver() *FileDriver { return &FileDriver{name: "yaml"} }

func (d *FileDriver) Name() string { return d.name }

// Open reads and parses the file named by the connection string.
func (d *FileDriver) Open(uri string) (Connection, error) {
	path := target(uri)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, NewLoadError(uri, err)
	}

	if strings.HasSuffix(path, ".zst") {
		if data, err = decompress(data); err != nil {
			return nil, NewLoadError(uri, err)
		}
	}

	colls, err := ParseCollections(data)
	if err != nil {
		return nil, NewLoadError(uri, err)
	}

	return newConnection(uri, colls), nil
}

// ParseCollections parses either a map of collection names to documents or a bare list of
// documents, which becomes the collection "default".
func ParseCollections(data []byte) (map[string][]Document, error) {
	var list []Document
	if err := yaml.Unmarshal(data, &list); err == nil {
		return map[string][]Document{"default": list}, nil
	}

	colls := map[string][]Document{}
	if err := yaml.Unmarshal(data, &colls); err != nil {
		return nil, fmt.Errorf("expected a list of documents or a map of collections: %w", err)
	}
	return colls, nil
}

func decompress(data []byte) ([]byte, error) {
	dec, err := zstd.NewReader(nil)
	if err != nil {
		return nil, err
	}
	defer dec.Close()
	return dec.DecodeAll(data, nil)
}
