package schemacheck

import (
	"fmt"
	"strings"
)

// FindingKind classifies a validation finding.
type FindingKind int

const (
	// MappingMissing: an expected type mapping is absent from the index.
	MappingMissing FindingKind = iota + 1
	// PropertyMissing: an expected property is absent from its mapping.
	PropertyMissing
	// FieldMissing: an expected multi-field is absent from its property.
	FieldMissing
	// InvalidAttributeValue: an attribute differs from the expected value.
	InvalidAttributeValue
	// InvalidOutputFormat: the first format of a format list differs.
	InvalidOutputFormat
	// InvalidInputFormat: a format list misses or adds formats.
	InvalidInputFormat
)

// String returns the snake_case name used in metric labels.
func (k FindingKind) String() string {
	switch k {
	case MappingMissing:
		return "mapping_missing"
	case PropertyMissing:
		return "property_missing"
	case FieldMissing:
		return "field_missing"
	case InvalidAttributeValue:
		return "invalid_attribute_value"
	case InvalidOutputFormat:
		return "invalid_output_format"
	case InvalidInputFormat:
		return "invalid_input_format"
	}
	return fmt.Sprintf("FindingKind(%d)", int(k))
}

// Messages renders findings as human-readable text.
// Absent values are passed as nil.
type Messages interface {
	ErrorIntro(loc Location) string
	MappingMissing() string
	PropertyMissing() string
	FieldMissing() string
	InvalidAttributeValue(attribute string, expected, actual any) string
	InvalidOutputFormat(attribute string, expected, actual any) string
	InvalidInputFormat(attribute string, expected, actual, missing, unexpected []string) string
}

// DefaultMessages returns the English message templates.
func DefaultMessages() Messages {
	return defaultMessages{}
}

type defaultMessages struct{}

func (defaultMessages) ErrorIntro(loc Location) string {
	switch {
	case loc.FieldName != "":
		return fmt.Sprintf("Index '%s', mapping '%s', property '%s', field '%s':",
			loc.IndexName, loc.MappingName, loc.Path, loc.FieldName)
	case loc.Path != "":
		return fmt.Sprintf("Index '%s', mapping '%s', property '%s':", loc.IndexName, loc.MappingName, loc.Path)
	case loc.MappingName != "":
		return fmt.Sprintf("Index '%s', mapping '%s':", loc.IndexName, loc.MappingName)
	}
	return fmt.Sprintf("Index '%s':", loc.IndexName)
}

func (defaultMessages) MappingMissing() string {
	return "Missing type mapping"
}

func (defaultMessages) PropertyMissing() string {
	return "Missing property mapping"
}

func (defaultMessages) FieldMissing() string {
	return "Missing field mapping"
}

func (defaultMessages) InvalidAttributeValue(attribute string, expected, actual any) string {
	return fmt.Sprintf("Invalid value for attribute '%s'. Expected '%s', actual is '%s'",
		attribute, formatValue(expected), formatValue(actual))
}

func (defaultMessages) InvalidOutputFormat(attribute string, expected, actual any) string {
	return fmt.Sprintf("The output format (the first format in the '%s' attribute) is invalid. Expected '%s', actual is '%s'",
		attribute, formatValue(expected), formatValue(actual))
}

func (defaultMessages) InvalidInputFormat(attribute string, expected, actual, missing, unexpected []string) string {
	return fmt.Sprintf("Invalid formats for attribute '%s'. Every required format must be in the list,"+
		" though not necessarily in the same order, and the list must not contain unexpected formats."+
		" Expected '%s', actual is '%s', missing elements are '%s', unexpected elements are '%s'",
		attribute, formatList(expected), formatList(actual), formatList(missing), formatList(unexpected))
}

func formatValue(v any) string {
	if v == nil {
		return "null"
	}
	return fmt.Sprint(v)
}

func formatList(l []string) string {
	return "[" + strings.Join(l, ", ") + "]"
}
