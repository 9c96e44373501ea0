package analyzer

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// Value is a statically reconstructed source value. The concrete types are
// StringValue, IdentifierValue, NumberValue, BoolValue, NullValue,
// ArrayValue, MapValue, CallValue and ConditionalValue.
type Value interface {
	json.Marshaler
	isValue()
}

// StringValue is a string or template literal.
type StringValue string

// IdentifierValue is a bare identifier reference. It encodes as its name.
type IdentifierValue string

// NumberValue holds a normalized numeric literal.
type NumberValue string

type BoolValue bool

type NullValue struct{}

// ArrayValue is an ordered list. Elided elements are NullValue.
type ArrayValue []Value

// MapValue is an object literal with keys in source order.
type MapValue struct {
	Entries []MapEntry
}

type MapEntry struct {
	Key   string
	Value Value
}

// CallValue is a call expression, e.g. a nested helper inside a config.
type CallValue struct {
	Callee    string
	Arguments []Value
}

// ConditionalValue is a ternary passed to a class-name utility.
type ConditionalValue struct {
	Condition  string `json:"condition"`
	TrueValue  string `json:"trueValue"`
	FalseValue string `json:"falseValue"`
}

func (StringValue) isValue()      {}
func (IdentifierValue) isValue()  {}
func (NumberValue) isValue()      {}
func (BoolValue) isValue()        {}
func (NullValue) isValue()        {}
func (ArrayValue) isValue()       {}
func (MapValue) isValue()         {}
func (CallValue) isValue()        {}
func (ConditionalValue) isValue() {}

func (v StringValue) MarshalJSON() ([]byte, error)     { return json.Marshal(string(v)) }
func (v IdentifierValue) MarshalJSON() ([]byte, error) { return json.Marshal(string(v)) }
func (v BoolValue) MarshalJSON() ([]byte, error)       { return json.Marshal(bool(v)) }
func (NullValue) MarshalJSON() ([]byte, error)         { return []byte("null"), nil }

func (v NumberValue) MarshalJSON() ([]byte, error) {
	if _, err := strconv.ParseFloat(string(v), 64); err == nil && json.Valid([]byte(v)) {
		return []byte(v), nil
	}
	// BigInt and other literals JSON cannot express stay strings.
	return json.Marshal(string(v))
}

func (v ArrayValue) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('[')
	for i, elem := range v {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := writeValue(&buf, elem); err != nil {
			return nil, err
		}
	}
	buf.WriteByte(']')
	return buf.Bytes(), nil
}

func (v MapValue) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, entry := range v.Entries {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(entry.Key)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		if err := writeValue(&buf, entry.Value); err != nil {
			return nil, err
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (v CallValue) MarshalJSON() ([]byte, error) {
	args := ArrayValue(v.Arguments)
	return json.Marshal(struct {
		Type      string     `json:"type"`
		Callee    string     `json:"callee"`
		Arguments ArrayValue `json:"arguments"`
	}{"call", v.Callee, args})
}

func (v ConditionalValue) MarshalJSON() ([]byte, error) {
	type plain ConditionalValue
	return json.Marshal(plain(v))
}

func writeValue(buf *bytes.Buffer, v Value) error {
	if v == nil {
		buf.WriteString("null")
		return nil
	}
	b, err := v.MarshalJSON()
	if err != nil {
		return err
	}
	buf.Write(b)
	return nil
}

// Len returns the number of entries.
func (v MapValue) Len() int { return len(v.Entries) }

// Get returns the value stored under key.
func (v MapValue) Get(key string) (Value, bool) {
	for _, entry := range v.Entries {
		if entry.Key == key {
			return entry.Value, true
		}
	}
	return nil, false
}

// Set replaces the value under key in place, or appends a new entry.
func (v *MapValue) Set(key string, value Value) {
	for i := range v.Entries {
		if v.Entries[i].Key == key {
			v.Entries[i].Value = value
			return
		}
	}
	v.Entries = append(v.Entries, MapEntry{Key: key, Value: value})
}

// Keys returns the keys in order.
func (v MapValue) Keys() []string {
	keys := make([]string, len(v.Entries))
	for i, entry := range v.Entries {
		keys[i] = entry.Key
	}
	return keys
}

// Text returns the string content of string-like values.
func Text(v Value) (string, bool) {
	switch t := v.(type) {
	case StringValue:
		return string(t), true
	case IdentifierValue:
		return string(t), true
	}
	return "", false
}

// Strings calls fn for every string leaf of v, recursing into arrays, maps
// and call arguments.
func Strings(v Value, fn func(s string)) {
	switch t := v.(type) {
	case StringValue:
		fn(string(t))
	case ArrayValue:
		for _, elem := range t {
			Strings(elem, fn)
		}
	case MapValue:
		for _, entry := range t.Entries {
			Strings(entry.Value, fn)
		}
	case CallValue:
		for _, arg := range t.Arguments {
			Strings(arg, fn)
		}
	}
}

// DecodeValue reads a Value back from JSON. Object key order is preserved.
// Identifiers come back as StringValue since both encode as strings.
func DecodeValue(data []byte) (Value, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	return decodeValue(dec)
}

func decodeValue(dec *json.Decoder) (Value, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}

	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			var m MapValue
			for dec.More() {
				keyTok, err := dec.Token()
				if err != nil {
					return nil, err
				}
				key, ok := keyTok.(string)
				if !ok {
					return nil, fmt.Errorf("unexpected object key %v", keyTok)
				}
				v, err := decodeValue(dec)
				if err != nil {
					return nil, err
				}
				m.Set(key, v)
			}
			if _, err := dec.Token(); err != nil {
				return nil, err
			}
			if call, ok := asCall(m); ok {
				return call, nil
			}
			return m, nil
		case '[':
			arr := ArrayValue{}
			for dec.More() {
				v, err := decodeValue(dec)
				if err != nil {
					return nil, err
				}
				arr = append(arr, v)
			}
			if _, err := dec.Token(); err != nil {
				return nil, err
			}
			return arr, nil
		}
		return nil, fmt.Errorf("unexpected delimiter %v", t)
	case string:
		return StringValue(t), nil
	case json.Number:
		return NumberValue(t.String()), nil
	case bool:
		return BoolValue(t), nil
	case nil:
		return NullValue{}, nil
	}
	return nil, fmt.Errorf("unexpected token %v", tok)
}

func asCall(m MapValue) (CallValue, bool) {
	if m.Len() != 3 {
		return CallValue{}, false
	}
	typ, _ := m.Get("type")
	if s, ok := typ.(StringValue); !ok || s != "call" {
		return CallValue{}, false
	}
	callee, _ := m.Get("callee")
	args, _ := m.Get("arguments")
	calleeName, ok := callee.(StringValue)
	arr, isArr := args.(ArrayValue)
	if !ok || !isArr {
		return CallValue{}, false
	}
	return CallValue{Callee: string(calleeName), Arguments: arr}, true
}

func (v *MapValue) UnmarshalJSON(data []byte) error {
	decoded, err := DecodeValue(data)
	if err != nil {
		return err
	}
	m, ok := decoded.(MapValue)
	if !ok {
		return fmt.Errorf("expected JSON object, got %T", decoded)
	}
	*v = m
	return nil
}

func (v *ArrayValue) UnmarshalJSON(data []byte) error {
	decoded, err := DecodeValue(data)
	if err != nil {
		return err
	}
	switch t := decoded.(type) {
	case ArrayValue:
		*v = t
	case NullValue:
		*v = ArrayValue{}
	default:
		return fmt.Errorf("expected JSON array, got %T", decoded)
	}
	return nil
}

func (a *TypedArg) UnmarshalJSON(data []byte) error {
	var raw struct {
		Kind  ArgKind         `json:"kind"`
		Value json.RawMessage `json:"value"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	a.Kind = raw.Kind
	if len(raw.Value) == 0 {
		a.Value = StringValue("")
		return nil
	}

	if raw.Kind == ArgConditional {
		var cond ConditionalValue
		if err := json.Unmarshal(raw.Value, &cond); err != nil {
			return err
		}
		a.Value = cond
		return nil
	}

	value, err := DecodeValue(raw.Value)
	if err != nil {
		return err
	}
	a.Value = value
	return nil
}
