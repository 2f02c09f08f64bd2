package ir

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"gopkg.in/yaml.v3"
)

func bytesReader(data []byte) io.Reader {
	return bytes.NewReader(data)
}

// decodeJSONValue reads exactly one JSON value from dec's token stream,
// preserving object key order (the stdlib's map-based decoding does not).
func decodeJSONValue(dec *json.Decoder) (Value, error) {
	tok, err := dec.Token()
	if err != nil {
		return Value{}, err
	}
	return decodeJSONToken(dec, tok)
}

func decodeJSONToken(dec *json.Decoder, tok json.Token) (Value, error) {
	switch t := tok.(type) {
	case nil:
		return Null(), nil
	case bool:
		return Bool(t), nil
	case json.Number:
		f, err := strconv.ParseFloat(t.String(), 64)
		if err != nil {
			return Value{}, fmt.Errorf("ir: invalid number %q: %w", t.String(), err)
		}
		return Number(f), nil
	case string:
		return String(t), nil
	case json.Delim:
		switch t {
		case '[':
			var items []Value
			for dec.More() {
				item, err := decodeJSONValue(dec)
				if err != nil {
					return Value{}, err
				}
				items = append(items, item)
			}
			if _, err := dec.Token(); err != nil { // consume ']'
				return Value{}, err
			}
			return Sequence(items), nil
		case '{':
			var entries []Entry
			for dec.More() {
				keyTok, err := dec.Token()
				if err != nil {
					return Value{}, err
				}
				key, ok := keyTok.(string)
				if !ok {
					return Value{}, fmt.Errorf("ir: expected string object key, got %v", keyTok)
				}
				val, err := decodeJSONValue(dec)
				if err != nil {
					return Value{}, err
				}
				entries = append(entries, Entry{Key: key, Value: val})
			}
			if _, err := dec.Token(); err != nil { // consume '}'
				return Value{}, err
			}
			return Mapping(entries), nil
		}
	}
	return Value{}, fmt.Errorf("ir: unexpected JSON token %v", tok)
}

// decodeYAMLValue converts a decoded yaml.Node into a Value, preserving
// mapping key order as written in the source document.
func decodeYAMLValue(node *yaml.Node) (Value, error) {
	switch node.Kind {
	case yaml.DocumentNode:
		if len(node.Content) == 0 {
			return Null(), nil
		}
		return decodeYAMLValue(node.Content[0])
	case yaml.AliasNode:
		return decodeYAMLValue(node.Alias)
	case yaml.ScalarNode:
		return decodeYAMLScalar(node)
	case yaml.SequenceNode:
		items := make([]Value, 0, len(node.Content))
		for _, child := range node.Content {
			v, err := decodeYAMLValue(child)
			if err != nil {
				return Value{}, err
			}
			items = append(items, v)
		}
		return Sequence(items), nil
	case yaml.MappingNode:
		if len(node.Content)%2 != 0 {
			return Value{}, fmt.Errorf("ir: malformed YAML mapping at line %d", node.Line)
		}
		entries := make([]Entry, 0, len(node.Content)/2)
		for i := 0; i < len(node.Content); i += 2 {
			keyNode := node.Content[i]
			valNode := node.Content[i+1]
			if keyNode.Kind != yaml.ScalarNode {
				return Value{}, fmt.Errorf("ir: non-scalar YAML mapping key at line %d", keyNode.Line)
			}
			val, err := decodeYAMLValue(valNode)
			if err != nil {
				return Value{}, err
			}
			entries = append(entries, Entry{Key: keyNode.Value, Value: val})
		}
		return Mapping(entries), nil
	default:
		return Null(), nil
	}
}

func decodeYAMLScalar(node *yaml.Node) (Value, error) {
	switch node.Tag {
	case "!!null":
		return Null(), nil
	case "!!bool":
		var b bool
		if err := node.Decode(&b); err != nil {
			return Value{}, err
		}
		return Bool(b), nil
	case "!!int", "!!float":
		var f float64
		if err := node.Decode(&f); err != nil {
			return Value{}, err
		}
		return Number(f), nil
	default:
		return String(node.Value), nil
	}
}
