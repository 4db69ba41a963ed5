package schemacheck

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

type primitiveKind int

const (
	primitiveString primitiveKind = iota + 1
	primitiveNumber
	primitiveBool
	primitiveRaw
)

// Primitive is the value of an attribute such as "null_value": usually a
// JSON scalar. Numbers keep their literal form until they are compared.
// Arrays and objects, as accepted for geo_point, are kept as normalized JSON.
type Primitive struct {
	kind primitiveKind
	str  string
	num  json.Number
	b    bool
	raw  json.RawMessage
}

// StringValue returns a string primitive.
func StringValue(s string) Primitive {
	return Primitive{kind: primitiveString, str: s}
}

// NumberValue returns a number primitive.
func NumberValue(f float64) Primitive {
	return Primitive{kind: primitiveNumber, num: json.Number(strconv.FormatFloat(f, 'g', -1, 64))}
}

// IntValue returns an integral number primitive.
func IntValue(i int64) Primitive {
	return Primitive{kind: primitiveNumber, num: json.Number(strconv.FormatInt(i, 10))}
}

// BoolValue returns a boolean primitive.
func BoolValue(b bool) Primitive {
	return Primitive{kind: primitiveBool, b: b}
}

// IsNumber reports whether p holds a number.
func (p Primitive) IsNumber() bool {
	return p.kind == primitiveNumber
}

// Float64 returns the number held by p.
func (p Primitive) Float64() (float64, error) {
	if !p.IsNumber() {
		return 0, fmt.Errorf("primitive %s is not a number", p)
	}
	return p.num.Float64()
}

// Equal reports whether p and other hold the same value. Integral numbers
// are compared as integers and other numbers as float64.
func (p Primitive) Equal(other Primitive) bool {
	if p.kind != other.kind {
		return false
	}

	switch p.kind {
	case primitiveString:
		return p.str == other.str
	case primitiveBool:
		return p.b == other.b
	case primitiveRaw:
		return bytes.Equal(p.raw, other.raw)
	case primitiveNumber:
		if a, err := p.num.Int64(); err == nil {
			if b, err := other.num.Int64(); err == nil {
				return a == b
			}
		}
		a, errA := p.num.Float64()
		b, errB := other.num.Float64()
		if errA != nil || errB != nil {
			return p.num == other.num
		}
		return a == b
	}
	return true
}

// String renders p the way it appears in reports.
func (p Primitive) String() string {
	switch p.kind {
	case primitiveString:
		return p.str
	case primitiveNumber:
		return p.num.String()
	case primitiveBool:
		return strconv.FormatBool(p.b)
	case primitiveRaw:
		return string(p.raw)
	}
	return "null"
}

// UnmarshalJSON accepts any JSON value.
func (p *Primitive) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return fmt.Errorf("decoding primitive: %w", err)
	}

	switch t := v.(type) {
	case string:
		*p = StringValue(t)
	case json.Number:
		*p = Primitive{kind: primitiveNumber, num: t}
	case bool:
		*p = BoolValue(t)
	case nil:
		*p = Primitive{}
	default:
		// Re-encoding sorts object keys and drops insignificant whitespace.
		raw, err := json.Marshal(t)
		if err != nil {
			return fmt.Errorf("decoding primitive: %w", err)
		}
		*p = Primitive{kind: primitiveRaw, raw: raw}
	}
	return nil
}

// MarshalJSON writes p in the form it was read.
func (p Primitive) MarshalJSON() ([]byte, error) {
	switch p.kind {
	case primitiveString:
		return json.Marshal(p.str)
	case primitiveNumber:
		return []byte(p.num), nil
	case primitiveBool:
		return json.Marshal(p.b)
	case primitiveRaw:
		return p.raw, nil
	}
	return []byte("null"), nil
}
