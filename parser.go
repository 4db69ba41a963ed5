package schemacheck

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// mappingFiles are the accepted names of the mapping file of an index
// directory, in lookup order.
var mappingFiles = []string{"_mapping.json", "_mapping.yml", "_mapping.yaml"}

// parseSchemas scans the schema directory and parses all index subdirectories.
func parseSchemas(dir string) ([]*schemaFixture, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading schema directory %q: %w", dir, err)
	}

	var fixtures []*schemaFixture
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		f, err := parseIndexDir(filepath.Join(dir, entry.Name()), entry.Name())
		if err != nil {
			return nil, fmt.Errorf("parsing index %q: %w", entry.Name(), err)
		}
		fixtures = append(fixtures, f)
	}

	if len(fixtures) == 0 {
		return nil, fmt.Errorf("no index directories found in %q", dir)
	}

	return fixtures, nil
}

// parseIndexDir parses the mapping file of a single index directory.
func parseIndexDir(dir string, name string) (*schemaFixture, error) {
	for _, file := range mappingFiles {
		path := filepath.Join(dir, file)
		if _, err := os.Stat(path); err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, fmt.Errorf("reading %s: %w", file, err)
		}

		schema, err := LoadIndexSchema(path, name)
		if err != nil {
			return nil, err
		}
		return &schemaFixture{name: name, path: path, schema: schema}, nil
	}

	return nil, fmt.Errorf("no mapping file in %q (expected one of %s)", dir, strings.Join(mappingFiles, ", "))
}

// LoadIndexSchema reads the expected schema of index name from a JSON or
// YAML file holding the body of a mappings object, either per type or
// typeless.
func LoadIndexSchema(path, name string) (*IndexSchema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading file: %w", err)
	}

	if ext := filepath.Ext(path); ext == ".yml" || ext == ".yaml" {
		data, err = yamlToJSON(data)
		if err != nil {
			return nil, fmt.Errorf("parsing %q: %w", path, err)
		}
	} else if !json.Valid(data) {
		return nil, fmt.Errorf("invalid JSON in %q", path)
	}

	mappings, err := decodeMappings(data)
	if err != nil {
		return nil, fmt.Errorf("parsing %q: %w", path, err)
	}

	return &IndexSchema{Name: name, Mappings: mappings}, nil
}

// yamlToJSON re-encodes a YAML document as JSON so that the model is only
// ever decoded from JSON.
func yamlToJSON(data []byte) ([]byte, error) {
	var doc map[string]interface{}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("unmarshaling YAML: %w", err)
	}
	if doc == nil {
		return []byte("null"), nil
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(doc); err != nil {
		return nil, fmt.Errorf("converting YAML to JSON: %w", err)
	}
	return buf.Bytes(), nil
}
