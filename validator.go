package schemacheck

import (
	"errors"
	"log/slog"
	"maps"
	"slices"

	"github.com/prometheus/client_golang/prometheus"
)

// Validator checks that the schema of an index, as reported by
// Elasticsearch, is compatible with an expected schema.
//
// Only attributes set on the expected side are checked: mappings, properties,
// fields and attributes that exist only on the actual side are ignored.
// A Validator is safe for concurrent use.
type Validator struct {
	msgs    Messages
	logger  *slog.Logger
	metrics *validatorMetrics
}

// ValidatorOption configures a Validator.
type ValidatorOption func(*Validator)

// WithMessages sets the templates used to render findings.
func WithMessages(m Messages) ValidatorOption {
	return func(v *Validator) {
		v.msgs = m
	}
}

// WithValidatorLogger sets the logger of the Validator.
// If not set, nothing is logged.
func WithValidatorLogger(l *slog.Logger) ValidatorOption {
	return func(v *Validator) {
		v.logger = l
	}
}

// WithRegisterer registers validation counters with reg.
func WithRegisterer(reg prometheus.Registerer) ValidatorOption {
	return func(v *Validator) {
		v.metrics = newValidatorMetrics(reg)
	}
}

// NewValidator creates a Validator.
func NewValidator(opts ...ValidatorOption) *Validator {
	v := &Validator{
		msgs:   DefaultMessages(),
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// run is the state of a single Validate call.
type run struct {
	errs *errorCollector
	msgs Messages
}

// errNilExpected is returned by Validate when there is nothing to validate
// against.
var errNilExpected = errors.New("schemacheck: expected schema must not be nil")

// Validate compares actual against expected and returns a *ValidationError
// listing every finding, or nil if the schemas are compatible. A nil actual
// schema is treated as empty; a nil expected schema is an error.
func (v *Validator) Validate(expected, actual *IndexSchema) error {
	if expected == nil {
		return errNilExpected
	}
	if actual == nil {
		actual = &IndexSchema{Name: expected.Name}
	}

	v.logger.Debug("validating index schema", "index", expected.Name, "mappings", len(expected.Mappings))

	r := &run{errs: newErrorCollector(), msgs: v.msgs}
	func() {
		defer r.errs.setIndexName(expected.Name)()
		r.validateIndex(expected, actual)
	}()

	groups := r.errs.drain()
	v.metrics.observe(groups)
	if len(groups) == 0 {
		return nil
	}

	err := &ValidationError{Index: expected.Name, Groups: groups, msgs: v.msgs}
	v.logger.Warn("index schema validation failed", "index", expected.Name, "findings", len(err.Findings()))
	return err
}

func (r *run) validateIndex(expected, actual *IndexSchema) {
	for _, name := range sortedKeys(expected.Mappings) {
		r.validateMapping(name, expected.Mappings[name], actual.Mappings[name])
	}
}

func (r *run) validateMapping(name string, expected, actual *TypeMapping) {
	defer r.errs.setMappingName(name)()

	if expected == nil {
		expected = &TypeMapping{}
	}
	if actual == nil {
		r.errs.addError(MappingMissing, r.msgs.MappingMissing())
		return
	}
	r.validateTypeMapping(expected, actual)
}

func (r *run) validateTypeMapping(expected, actual *TypeMapping) {
	if expected.Dynamic != "" {
		validateEqualWithDefault(r, "dynamic", present(expected.Dynamic), present(actual.Dynamic), present(DynamicTrue))
	}
	r.validateProperties(expected.Properties, actual.Properties)
}

func (r *run) validateProperties(expected, actual map[string]*PropertyMapping) {
	for _, name := range sortedKeys(expected) {
		r.validateProperty(name, expected[name], actual[name])
	}
}

func (r *run) validateProperty(name string, expected, actual *PropertyMapping) {
	defer r.errs.pushPath(name)()

	if expected == nil {
		expected = &PropertyMapping{}
	}
	if actual == nil {
		r.errs.addError(PropertyMissing, r.msgs.PropertyMissing())
		return
	}
	r.validatePropertyMapping(expected, actual)
}

// validatePropertyMapping checks the attributes of a property, then its
// nested properties and its fields. The order of the checks is the order of
// the resulting findings.
func (r *run) validatePropertyMapping(expected, actual *PropertyMapping) {
	validateEqualWithDefault(r, "type", present(expected.Type), present(actual.Type), present(DataTypeObject))

	var formatDefault Formats
	if expected.Type == DataTypeDate {
		formatDefault = defaultDateFormat
	}
	validateFormatWithDefault(r, "format", expected.Format, actual.Format, formatDefault)

	defaultBoost := float32(1)
	validateNumberWithDefault(r, "boost", expected.Boost, actual.Boost, defaultFloatDelta, &defaultBoost)

	// index: no means the caller does not need the field indexed at all.
	if expected.Index != IndexNo {
		indexDefault := IndexNotAnalyzed
		if expected.Type == DataTypeString {
			indexDefault = IndexAnalyzed
		}
		validateEqualWithDefault(r, "index", present(expected.Index), present(actual.Index), &indexDefault)
	}

	// Elasticsearch documents doc_values as enabled by default on most
	// types, but mappings it returns behave as if the default were false.
	disabled := false
	if expected.DocValues != nil && *expected.DocValues {
		validateEqualWithDefault(r, "doc_values", expected.DocValues, actual.DocValues, &disabled)
	}
	if expected.Store != nil && *expected.Store {
		validateEqualWithDefault(r, "store", expected.Store, actual.Store, &disabled)
	}

	validatePrimitive(r, expected.Type, "null_value", expected.NullValue, actual.NullValue)

	validateEqualWithDefault(r, "analyzer", present(expected.Analyzer), present(actual.Analyzer), nil)

	r.validateTypeMapping(&expected.TypeMapping, &actual.TypeMapping)

	r.validateFields(expected.Fields, actual.Fields)
}

func (r *run) validateFields(expected, actual map[string]*PropertyMapping) {
	for _, name := range sortedKeys(expected) {
		r.validateField(name, expected[name], actual[name])
	}
}

func (r *run) validateField(name string, expected, actual *PropertyMapping) {
	defer r.errs.setFieldName(name)()

	if expected == nil {
		expected = &PropertyMapping{}
	}
	if actual == nil {
		r.errs.addError(FieldMissing, r.msgs.FieldMissing())
		return
	}
	r.validatePropertyMapping(expected, actual)
}

func sortedKeys[V any](m map[string]V) []string {
	return slices.Sorted(maps.Keys(m))
}
