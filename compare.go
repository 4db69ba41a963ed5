package schemacheck

import "math"

const (
	defaultDoubleDelta         = 0.001
	defaultFloatDelta  float32 = 0.001
)

// defaultDateFormat is the format Elasticsearch applies to date fields
// that do not declare one.
var defaultDateFormat = Formats{"strict_date_optional_time", "epoch_millis"}

// present returns nil for the zero value, so that zero-valued model
// attributes count as absent.
func present[T comparable](v T) *T {
	var zero T
	if v == zero {
		return nil
	}
	return &v
}

func valueOf[T any](p *T) any {
	if p == nil {
		return nil
	}
	return *p
}

func withDefault[T any](v, def *T) *T {
	if v == nil {
		return def
	}
	return v
}

// validateEqualWithDefault checks that expected and actual are equal once
// def has been substituted for any absent side. The finding reports the
// actual value as found, not defaulted.
func validateEqualWithDefault[T comparable](r *run, attribute string, expected, actual, def *T) {
	validateEqualFunc(r, attribute, expected, actual, def, func(a, b T) bool { return a == b })
}

func validateEqualFunc[T any](r *run, attribute string, expected, actual, def *T, equal func(a, b T) bool) {
	de := withDefault(expected, def)
	da := withDefault(actual, def)

	switch {
	case de == nil && da == nil:
		return
	case de != nil && da != nil && equal(*de, *da):
		return
	}
	r.errs.addError(InvalidAttributeValue, r.msgs.InvalidAttributeValue(attribute, valueOf(de), valueOf(actual)))
}

// validateNumberWithDefault is validateEqualWithDefault for floating-point
// values: values at most delta apart are equal.
func validateNumberWithDefault[T float32 | float64](r *run, attribute string, expected, actual *T, delta T, def *T) {
	validateEqualFunc(r, attribute, expected, actual, def, func(a, b T) bool {
		return a == b || math.Abs(float64(a)-float64(b)) <= float64(delta)
	})
}

// validateFormatWithDefault checks a format list: the first element, used by
// the engine for output, must match, and both lists must hold the same
// formats in any order. The two checks are reported independently.
func validateFormatWithDefault(r *run, attribute string, expected, actual, def Formats) {
	de := expected
	if de == nil {
		de = def
	}
	da := actual
	if da == nil {
		da = def
	}
	if len(de) == 0 {
		return
	}

	expectedOutput := de[0]
	var actualOutput any
	if len(da) > 0 {
		actualOutput = da[0]
	}
	if actualOutput != expectedOutput {
		r.errs.addError(InvalidOutputFormat, r.msgs.InvalidOutputFormat(attribute, expectedOutput, actualOutput))
	}

	missing := difference(de, da)
	unexpected := difference(da, de)
	if len(missing) > 0 || len(unexpected) > 0 {
		r.errs.addError(InvalidInputFormat, r.msgs.InvalidInputFormat(attribute, de, da, missing, unexpected))
	}
}

// difference returns the elements of a not found in b, in order.
func difference(a, b []string) []string {
	in := make(map[string]struct{}, len(b))
	for _, s := range b {
		in[s] = struct{}{}
	}
	var out []string
	for _, s := range a {
		if _, ok := in[s]; !ok {
			out = append(out, s)
		}
	}
	return out
}

type primitiveComparator func(r *run, attribute string, expected, actual *Primitive)

// nullValueComparators selects how "null_value" is compared for each data
// type. Every DataType constant must have an entry.
var nullValueComparators = map[DataType]primitiveComparator{
	DataTypeString:   validatePrimitiveEqual,
	DataTypeInteger:  validatePrimitiveEqual,
	DataTypeLong:     validatePrimitiveEqual,
	DataTypeDouble:   validatePrimitiveDouble,
	DataTypeFloat:    validatePrimitiveFloat,
	DataTypeBoolean:  validatePrimitiveEqual,
	DataTypeDate:     validatePrimitiveEqual,
	DataTypeObject:   validatePrimitiveEqual,
	DataTypeGeoPoint: validatePrimitiveEqual,
}

// validatePrimitive compares two primitives according to the data type
// of the property that holds them. An absent type counts as object.
func validatePrimitive(r *run, dataType DataType, attribute string, expected, actual *Primitive) {
	if dataType == "" {
		dataType = DataTypeObject
	}
	compare, ok := nullValueComparators[dataType]
	if !ok {
		compare = validatePrimitiveEqual
	}
	compare(r, attribute, expected, actual)
}

func validatePrimitiveEqual(r *run, attribute string, expected, actual *Primitive) {
	validateEqualFunc(r, attribute, expected, actual, nil, Primitive.Equal)
}

func validatePrimitiveDouble(r *run, attribute string, expected, actual *Primitive) {
	e, a, ok := bothNumbers(expected, actual)
	if !ok {
		validatePrimitiveEqual(r, attribute, expected, actual)
		return
	}
	validateNumberWithDefault(r, attribute, &e, &a, defaultDoubleDelta, nil)
}

func validatePrimitiveFloat(r *run, attribute string, expected, actual *Primitive) {
	e, a, ok := bothNumbers(expected, actual)
	if !ok {
		validatePrimitiveEqual(r, attribute, expected, actual)
		return
	}
	ef, af := float32(e), float32(a)
	validateNumberWithDefault(r, attribute, &ef, &af, defaultFloatDelta, nil)
}

func bothNumbers(expected, actual *Primitive) (float64, float64, bool) {
	if expected == nil || actual == nil || !expected.IsNumber() || !actual.IsNumber() {
		return 0, 0, false
	}
	e, err := expected.Float64()
	if err != nil {
		return 0, 0, false
	}
	a, err := actual.Float64()
	if err != nil {
		return 0, 0, false
	}
	return e, a, true
}
