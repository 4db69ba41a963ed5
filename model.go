package schemacheck

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// DataType is the "type" attribute of a property mapping.
// The zero value means the attribute is absent.
type DataType string

const (
	DataTypeString   DataType = "string"
	DataTypeInteger  DataType = "integer"
	DataTypeLong     DataType = "long"
	DataTypeDouble   DataType = "double"
	DataTypeFloat    DataType = "float"
	DataTypeBoolean  DataType = "boolean"
	DataTypeDate     DataType = "date"
	DataTypeObject   DataType = "object"
	DataTypeGeoPoint DataType = "geo_point"
)

// IndexType is the "index" attribute of a property mapping.
type IndexType string

const (
	IndexAnalyzed    IndexType = "analyzed"
	IndexNotAnalyzed IndexType = "not_analyzed"
	IndexNo          IndexType = "no"
)

// UnmarshalJSON accepts the string form as well as the boolean form that
// Elasticsearch 5 and later use: false means IndexNo and true leaves the
// attribute absent, so the default of the property type applies.
func (i *IndexType) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")), bytes.Equal(data, []byte("true")):
		*i = ""
		return nil
	case bytes.Equal(data, []byte("false")):
		*i = IndexNo
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("decoding index attribute: %w", err)
	}
	*i = IndexType(strings.ToLower(s))
	return nil
}

// MarshalJSON writes IndexNo as false, which every Elasticsearch version
// since 5 accepts, and anything else as a string.
func (i IndexType) MarshalJSON() ([]byte, error) {
	if i == IndexNo {
		return []byte("false"), nil
	}
	return json.Marshal(string(i))
}

// DynamicType is the "dynamic" attribute of a type mapping.
type DynamicType string

const (
	DynamicTrue   DynamicType = "true"
	DynamicFalse  DynamicType = "false"
	DynamicStrict DynamicType = "strict"
)

// UnmarshalJSON accepts both the boolean and the string form.
func (d *DynamicType) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*d = ""
		return nil
	case bytes.Equal(data, []byte("true")):
		*d = DynamicTrue
		return nil
	case bytes.Equal(data, []byte("false")):
		*d = DynamicFalse
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("decoding dynamic attribute: %w", err)
	}
	*d = DynamicType(strings.ToLower(s))
	return nil
}

// MarshalJSON writes true and false as booleans and anything else as a string.
func (d DynamicType) MarshalJSON() ([]byte, error) {
	switch d {
	case DynamicTrue, DynamicFalse:
		return []byte(d), nil
	}
	return json.Marshal(string(d))
}

// formatSeparator separates the formats of a date field in mapping JSON.
const formatSeparator = "||"

// Formats is the ordered list held by the "format" attribute.
// The first element is the format used for output. A nil list means absent.
type Formats []string

// UnmarshalJSON accepts "a||b" as well as a JSON array. An empty string
// means absent.
func (f *Formats) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*f = nil
		return nil
	}

	if len(data) > 0 && data[0] == '[' {
		var list []string
		if err := json.Unmarshal(data, &list); err != nil {
			return fmt.Errorf("decoding format attribute: %w", err)
		}
		*f = Formats(list)
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("decoding format attribute: %w", err)
	}
	if s == "" {
		*f = nil
		return nil
	}
	*f = Formats(strings.Split(s, formatSeparator))
	return nil
}

// MarshalJSON writes the list in the "a||b" form.
func (f Formats) MarshalJSON() ([]byte, error) {
	if f == nil {
		return []byte("null"), nil
	}
	return json.Marshal(strings.Join(f, formatSeparator))
}

// IndexSchema is the schema of one index: its type mappings by name.
type IndexSchema struct {
	Name     string                  `json:"-"`
	Mappings map[string]*TypeMapping `json:"mappings"`
}

// TypeMapping is the structural definition of one document type.
// Object properties reuse it for their own nested attributes.
type TypeMapping struct {
	Dynamic    DynamicType                 `json:"dynamic,omitempty"`
	Properties map[string]*PropertyMapping `json:"properties,omitempty"`
}

// PropertyMapping describes a single field.
type PropertyMapping struct {
	TypeMapping

	Type      DataType                    `json:"type,omitempty"`
	Format    Formats                     `json:"format,omitempty"`
	Boost     *float32                    `json:"boost,omitempty"`
	Index     IndexType                   `json:"index,omitempty"`
	DocValues *bool                       `json:"doc_values,omitempty"`
	Store     *bool                       `json:"store,omitempty"`
	NullValue *Primitive                  `json:"null_value,omitempty"`
	Analyzer  string                      `json:"analyzer,omitempty"`
	Fields    map[string]*PropertyMapping `json:"fields,omitempty"`
}

// typelessMappingName names the single mapping of an index whose mappings
// object holds properties directly instead of per-type definitions.
const typelessMappingName = "_doc"

// decodeMappings builds the mappings of an index from the "mappings" object
// of the mapping API. Both the per-type form and the typeless form are accepted.
func decodeMappings(data json.RawMessage) (map[string]*TypeMapping, error) {
	if len(bytes.TrimSpace(data)) == 0 || bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		return map[string]*TypeMapping{}, nil
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decoding mappings: %w", err)
	}

	if isTypeless(raw) {
		var m TypeMapping
		if err := json.Unmarshal(data, &m); err != nil {
			return nil, fmt.Errorf("decoding mapping %q: %w", typelessMappingName, err)
		}
		return map[string]*TypeMapping{typelessMappingName: &m}, nil
	}

	mappings := make(map[string]*TypeMapping, len(raw))
	for name, body := range raw {
		var m TypeMapping
		if err := json.Unmarshal(body, &m); err != nil {
			return nil, fmt.Errorf("decoding mapping %q: %w", name, err)
		}
		mappings[name] = &m
	}
	return mappings, nil
}

func isTypeless(raw map[string]json.RawMessage) bool {
	if len(raw) == 0 {
		return false
	}
	for _, key := range []string{"properties", "dynamic", "_source", "_meta", "dynamic_templates", "_routing"} {
		if _, ok := raw[key]; ok {
			return true
		}
	}
	return false
}

// UnmarshalJSON decodes a {"mappings": {...}} body. Name is left untouched.
func (s *IndexSchema) UnmarshalJSON(data []byte) error {
	var body struct {
		Mappings json.RawMessage `json:"mappings"`
	}
	if err := json.Unmarshal(data, &body); err != nil {
		return fmt.Errorf("decoding index schema: %w", err)
	}

	mappings, err := decodeMappings(body.Mappings)
	if err != nil {
		return err
	}
	s.Mappings = mappings
	return nil
}

// MarshalJSON writes a {"mappings": {...}} body. A schema whose only mapping
// is the typeless one is written in the typeless form.
func (s IndexSchema) MarshalJSON() ([]byte, error) {
	if m, ok := s.Mappings[typelessMappingName]; ok && len(s.Mappings) == 1 {
		return json.Marshal(struct {
			Mappings *TypeMapping `json:"mappings"`
		}{m})
	}
	return json.Marshal(struct {
		Mappings map[string]*TypeMapping `json:"mappings"`
	}{s.Mappings})
}
