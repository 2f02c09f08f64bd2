// Package ir defines the in-memory representation of a workflow: the
// dynamic Value tree used for node inputs and outputs, and the typed
// Workflow/Node/RetryPolicy records produced by the loader.
package ir

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Kind discriminates the variant held by a Value.
type Kind int

// Value variants, per spec.md §9 Design Notes: a tagged sum of
// null | bool | number | string | sequence | mapping.
const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindString
	KindSequence
	KindMapping
)

// Entry is one key/value pair of a Mapping, preserving decode order.
type Entry struct {
	Key   string
	Value Value
}

// Value is a dynamic, tagged JSON/YAML-equivalent value. Inputs, resolved
// inputs, and handler outputs are all represented this way so the resolver
// can walk them with a single recursive function regardless of the
// concrete workflow format (JSON or YAML) they were decoded from.
type Value struct {
	kind     Kind
	boolean  bool
	number   float64
	str      string
	sequence []Value
	mapping  []Entry
}

// Null returns the null Value.
func Null() Value { return Value{kind: KindNull} }

// Bool wraps a boolean as a Value.
func Bool(b bool) Value { return Value{kind: KindBool, boolean: b} }

// Number wraps a float64 as a Value.
func Number(n float64) Value { return Value{kind: KindNumber, number: n} }

// String wraps a string as a Value.
func String(s string) Value { return Value{kind: KindString, str: s} }

// Sequence wraps a slice of Values as a Value.
func Sequence(items []Value) Value { return Value{kind: KindSequence, sequence: items} }

// Mapping wraps an ordered list of Entry as a Value.
func Mapping(entries []Entry) Value { return Value{kind: KindMapping, mapping: entries} }

// Kind reports which variant this Value holds.
func (v Value) Kind() Kind { return v.kind }

// IsNull reports whether this Value is null (or zero-valued).
func (v Value) IsNull() bool { return v.kind == KindNull }

// Bool returns the boolean payload and whether the Value held a bool.
func (v Value) Bool() (bool, bool) { return v.boolean, v.kind == KindBool }

// Number returns the numeric payload and whether the Value held a number.
func (v Value) Number() (float64, bool) { return v.number, v.kind == KindNumber }

// Str returns the string payload and whether the Value held a string.
func (v Value) Str() (string, bool) { return v.str, v.kind == KindString }

// Items returns the sequence payload and whether the Value held a sequence.
func (v Value) Items() ([]Value, bool) { return v.sequence, v.kind == KindSequence }

// Entries returns the mapping payload and whether the Value held a mapping.
func (v Value) Entries() ([]Entry, bool) { return v.mapping, v.kind == KindMapping }

// Field looks up a key in a Mapping Value. Reports false if the Value is
// not a Mapping or the key is absent.
func (v Value) Field(key string) (Value, bool) {
	if v.kind != KindMapping {
		return Value{}, false
	}
	for _, e := range v.mapping {
		if e.Key == key {
			return e.Value, true
		}
	}
	return Value{}, false
}

// Index looks up a position in a Sequence Value. Reports false if the
// Value is not a Sequence or the index is out of range.
func (v Value) Index(i int) (Value, bool) {
	if v.kind != KindSequence || i < 0 || i >= len(v.sequence) {
		return Value{}, false
	}
	return v.sequence[i], true
}

// IsRef reports whether this Value is a mapping with exactly one key,
// "$ref", whose value is a string — the only leaf shape the resolver
// substitutes (spec.md §4.3).
func (v Value) IsRef() (string, bool) {
	if v.kind != KindMapping || len(v.mapping) != 1 {
		return "", false
	}
	entry := v.mapping[0]
	if entry.Key != "$ref" {
		return "", false
	}
	s, ok := entry.Value.Str()
	return s, ok
}

// MarshalJSON renders the Value back into standard JSON, preserving
// mapping key order.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindNull:
		return []byte("null"), nil
	case KindBool:
		return json.Marshal(v.boolean)
	case KindNumber:
		return json.Marshal(v.number)
	case KindString:
		return json.Marshal(v.str)
	case KindSequence:
		items := make([]json.RawMessage, len(v.sequence))
		for i, item := range v.sequence {
			raw, err := item.MarshalJSON()
			if err != nil {
				return nil, err
			}
			items[i] = raw
		}
		return json.Marshal(items)
	case KindMapping:
		var buf []byte
		buf = append(buf, '{')
		for i, e := range v.mapping {
			if i > 0 {
				buf = append(buf, ',')
			}
			key, err := json.Marshal(e.Key)
			if err != nil {
				return nil, err
			}
			val, err := e.Value.MarshalJSON()
			if err != nil {
				return nil, err
			}
			buf = append(buf, key...)
			buf = append(buf, ':')
			buf = append(buf, val...)
		}
		buf = append(buf, '}')
		return buf, nil
	default:
		return nil, fmt.Errorf("ir: unknown value kind %d", v.kind)
	}
}

// UnmarshalJSON decodes a JSON value into a Value tree, preserving object
// key order using json.Decoder's token stream.
func (v *Value) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytesReader(data))
	dec.UseNumber()
	val, err := decodeJSONValue(dec)
	if err != nil {
		return err
	}
	*v = val
	return nil
}

// UnmarshalYAML decodes a YAML node into a Value tree, preserving mapping
// key order as written in the document.
func (v *Value) UnmarshalYAML(node *yaml.Node) error {
	val, err := decodeYAMLValue(node)
	if err != nil {
		return err
	}
	*v = val
	return nil
}

// Equal reports deep structural equality between two Values.
func Equal(a, b Value) bool {
	if a.kind != b.kind {
		return false
	}
	switch a.kind {
	case KindNull:
		return true
	case KindBool:
		return a.boolean == b.boolean
	case KindNumber:
		return a.number == b.number
	case KindString:
		return a.str == b.str
	case KindSequence:
		if len(a.sequence) != len(b.sequence) {
			return false
		}
		for i := range a.sequence {
			if !Equal(a.sequence[i], b.sequence[i]) {
				return false
			}
		}
		return true
	case KindMapping:
		if len(a.mapping) != len(b.mapping) {
			return false
		}
		for i := range a.mapping {
			if a.mapping[i].Key != b.mapping[i].Key || !Equal(a.mapping[i].Value, b.mapping[i].Value) {
				return false
			}
		}
		return true
	}
	return false
}
