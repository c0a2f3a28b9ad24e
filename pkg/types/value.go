package types

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/arthur-debert/prefsync/pkg/errors"
)

// Kind identifies the concrete type held by a Value.
type Kind string

const (
	KindBool   Kind = "bool"
	KindInt    Kind = "int"
	KindFloat  Kind = "float"
	KindString Kind = "string"
	KindList   Kind = "list"
)

// Value is a closed tagged union over the preference value types the
// preference store understands: boolean, integer, float, string and an
// ordered list of values. Equality is typed: an integer never equals a
// float or a string, regardless of textual representation.
type Value struct {
	kind Kind
	b    bool
	i    int64
	f    float64
	s    string
	list []Value
}

// BoolValue returns a boolean Value
func BoolValue(b bool) Value { return Value{kind: KindBool, b: b} }

// IntValue returns an integer Value
func IntValue(i int64) Value { return Value{kind: KindInt, i: i} }

// FloatValue returns a float Value
func FloatValue(f float64) Value { return Value{kind: KindFloat, f: f} }

// StringValue returns a string Value
func StringValue(s string) Value { return Value{kind: KindString, s: s} }

// ListValue returns a list Value holding the given elements in order
func ListValue(elems ...Value) Value { return Value{kind: KindList, list: elems} }

// Kind returns the concrete type tag of the value
func (v Value) Kind() Kind { return v.kind }

// Bool returns the boolean payload; valid only when Kind() == KindBool
func (v Value) Bool() bool { return v.b }

// Int returns the integer payload; valid only when Kind() == KindInt
func (v Value) Int() int64 { return v.i }

// Float returns the float payload; valid only when Kind() == KindFloat
func (v Value) Float() float64 { return v.f }

// Str returns the string payload; valid only when Kind() == KindString
func (v Value) Str() string { return v.s }

// List returns the list payload; valid only when Kind() == KindList
func (v Value) List() []Value { return v.list }

// Equal reports whether two values are equal under typed equality.
// Values of different kinds are never equal.
func (v Value) Equal(other Value) bool {
	if v.kind != other.kind {
		return false
	}
	switch v.kind {
	case KindBool:
		return v.b == other.b
	case KindInt:
		return v.i == other.i
	case KindFloat:
		return v.f == other.f
	case KindString:
		return v.s == other.s
	case KindList:
		if len(v.list) != len(other.list) {
			return false
		}
		for i := range v.list {
			if !v.list[i].Equal(other.list[i]) {
				return false
			}
		}
		return true
	}
	return false
}

// String renders the value for human-facing reports
func (v Value) String() string {
	switch v.kind {
	case KindBool:
		return strconv.FormatBool(v.b)
	case KindInt:
		return strconv.FormatInt(v.i, 10)
	case KindFloat:
		return strconv.FormatFloat(v.f, 'g', -1, 64)
	case KindString:
		return v.s
	case KindList:
		parts := make([]string, len(v.list))
		for i, e := range v.list {
			parts[i] = e.String()
		}
		return "[" + strings.Join(parts, ", ") + "]"
	}
	return ""
}

// FromInterface converts a decoded configuration value (as produced by
// the TOML parser) into a Value. Maps and other compound types beyond
// homogeneous-or-mixed arrays are not representable.
func FromInterface(raw interface{}) (Value, error) {
	switch t := raw.(type) {
	case bool:
		return BoolValue(t), nil
	case int:
		return IntValue(int64(t)), nil
	case int64:
		return IntValue(t), nil
	case float64:
		return FloatValue(t), nil
	case string:
		return StringValue(t), nil
	case []interface{}:
		elems := make([]Value, 0, len(t))
		for _, e := range t {
			ev, err := FromInterface(e)
			if err != nil {
				return Value{}, err
			}
			elems = append(elems, ev)
		}
		return ListValue(elems...), nil
	default:
		return Value{}, errors.Newf(errors.ErrConfigInvalid,
			"unsupported preference value type %T", raw)
	}
}

// jsonValue is the persisted form of Value in the snapshot file
type jsonValue struct {
	Type  Kind            `json:"type"`
	Value json.RawMessage `json:"value"`
}

// MarshalJSON implements json.Marshaler
func (v Value) MarshalJSON() ([]byte, error) {
	var payload interface{}
	switch v.kind {
	case KindBool:
		payload = v.b
	case KindInt:
		payload = v.i
	case KindFloat:
		payload = v.f
	case KindString:
		payload = v.s
	case KindList:
		payload = v.list
	default:
		return nil, fmt.Errorf("cannot marshal zero Value")
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return json.Marshal(jsonValue{Type: v.kind, Value: raw})
}

// UnmarshalJSON implements json.Unmarshaler
func (v *Value) UnmarshalJSON(data []byte) error {
	var jv jsonValue
	if err := json.Unmarshal(data, &jv); err != nil {
		return err
	}
	switch jv.Type {
	case KindBool:
		var b bool
		if err := json.Unmarshal(jv.Value, &b); err != nil {
			return err
		}
		*v = BoolValue(b)
	case KindInt:
		var i int64
		if err := json.Unmarshal(jv.Value, &i); err != nil {
			return err
		}
		*v = IntValue(i)
	case KindFloat:
		var f float64
		if err := json.Unmarshal(jv.Value, &f); err != nil {
			return err
		}
		*v = FloatValue(f)
	case KindString:
		var s string
		if err := json.Unmarshal(jv.Value, &s); err != nil {
			return err
		}
		*v = StringValue(s)
	case KindList:
		var elems []Value
		if err := json.Unmarshal(jv.Value, &elems); err != nil {
			return err
		}
		*v = ListValue(elems...)
	default:
		return fmt.Errorf("unknown value type %q", jv.Type)
	}
	return nil
}
