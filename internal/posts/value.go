package posts

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Kind tags the shape of a metadata Value.
type Kind uint8

const (
	KindNull Kind = iota
	KindScalar
	KindList
	KindObject
)

func (k Kind) String() string {
	switch k {
	case KindScalar:
		return "scalar"
	case KindList:
		return "list"
	case KindObject:
		return "object"
	default:
		return "null"
	}
}

// Value is a decoded metadata value. Exactly one of Scalar, List or Object is
// meaningful, as selected by Kind.
type Value struct {
	Kind   Kind
	Scalar string
	List   []Value
	Object map[string]Value
}

// ScalarValue wraps a string as a scalar Value.
func ScalarValue(s string) Value {
	return Value{Kind: KindScalar, Scalar: s}
}

// ListValue wraps scalars as a list Value.
func ListValue(items ...string) Value {
	list := make([]Value, 0, len(items))
	for _, item := range items {
		list = append(list, ScalarValue(item))
	}
	return Value{Kind: KindList, List: list}
}

// IsNull reports whether the value is absent or explicitly null.
func (v Value) IsNull() bool {
	return v.Kind == KindNull
}

// Text returns the scalar contents trimmed of surrounding whitespace.
func (v Value) Text() (string, bool) {
	if v.Kind != KindScalar {
		return "", false
	}
	return strings.TrimSpace(v.Scalar), true
}

// Field looks up a key on an object value.
func (v Value) Field(name string) (Value, bool) {
	if v.Kind != KindObject {
		return Value{}, false
	}
	field, ok := v.Object[name]
	return field, ok
}

// Keys returns the object keys in lexical order.
func (v Value) Keys() []string {
	if v.Kind != KindObject {
		return nil
	}
	keys := make([]string, 0, len(v.Object))
	for key := range v.Object {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// Interface converts the value into plain Go values (string, []any,
// map[string]any, nil) for JSON export or templates.
func (v Value) Interface() any {
	switch v.Kind {
	case KindScalar:
		return v.Scalar
	case KindList:
		out := make([]any, 0, len(v.List))
		for _, item := range v.List {
			out = append(out, item.Interface())
		}
		return out
	case KindObject:
		out := make(map[string]any, len(v.Object))
		for key, item := range v.Object {
			out[key] = item.Interface()
		}
		return out
	default:
		return nil
	}
}

// Clone returns a deep copy.
func (v Value) Clone() Value {
	out := Value{Kind: v.Kind, Scalar: v.Scalar}
	if v.List != nil {
		out.List = make([]Value, len(v.List))
		for i, item := range v.List {
			out.List[i] = item.Clone()
		}
	}
	if v.Object != nil {
		out.Object = make(map[string]Value, len(v.Object))
		for key, item := range v.Object {
			out.Object[key] = item.Clone()
		}
	}
	return out
}

func valueFromNode(node *yaml.Node) (Value, error) {
	if node == nil || node.Kind == 0 {
		return Value{}, nil
	}
	switch node.Kind {
	case yaml.DocumentNode:
		if len(node.Content) == 0 {
			return Value{}, nil
		}
		return valueFromNode(node.Content[0])
	case yaml.AliasNode:
		return valueFromNode(node.Alias)
	case yaml.ScalarNode:
		if node.Tag == "!!null" {
			return Value{}, nil
		}
		return ScalarValue(node.Value), nil
	case yaml.SequenceNode:
		list := make([]Value, 0, len(node.Content))
		for _, child := range node.Content {
			item, err := valueFromNode(child)
			if err != nil {
				return Value{}, err
			}
			list = append(list, item)
		}
		return Value{Kind: KindList, List: list}, nil
	case yaml.MappingNode:
		object := make(map[string]Value, len(node.Content)/2)
		for i := 0; i+1 < len(node.Content); i += 2 {
			keyNode := node.Content[i]
			if keyNode.Kind != yaml.ScalarNode {
				return Value{}, fmt.Errorf("line %d: mapping keys must be scalars", keyNode.Line)
			}
			if _, dup := object[keyNode.Value]; dup {
				return Value{}, fmt.Errorf("line %d: mapping key %q already defined", keyNode.Line, keyNode.Value)
			}
			item, err := valueFromNode(node.Content[i+1])
			if err != nil {
				return Value{}, err
			}
			object[keyNode.Value] = item
		}
		return Value{Kind: KindObject, Object: object}, nil
	default:
		return Value{}, fmt.Errorf("line %d: unsupported yaml node", node.Line)
	}
}

// valueFromAny converts the generic tree produced by the TOML decoder.
func valueFromAny(raw any) Value {
	switch typed := raw.(type) {
	case nil:
		return Value{}
	case string:
		return ScalarValue(typed)
	case time.Time:
		return ScalarValue(typed.Format(time.RFC3339Nano))
	case []any:
		list := make([]Value, 0, len(typed))
		for _, item := range typed {
			list = append(list, valueFromAny(item))
		}
		return Value{Kind: KindList, List: list}
	case []map[string]any:
		list := make([]Value, 0, len(typed))
		for _, item := range typed {
			list = append(list, valueFromAny(item))
		}
		return Value{Kind: KindList, List: list}
	case map[string]any:
		object := make(map[string]Value, len(typed))
		for key, item := range typed {
			object[key] = valueFromAny(item)
		}
		return Value{Kind: KindObject, Object: object}
	default:
		return ScalarValue(fmt.Sprint(typed))
	}
}

func valueToNode(v Value) *yaml.Node {
	switch v.Kind {
	case KindScalar:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: v.Scalar}
	case KindList:
		node := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for _, item := range v.List {
			node.Content = append(node.Content, valueToNode(item))
		}
		return node
	case KindObject:
		node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		for _, key := range v.Keys() {
			node.Content = append(node.Content,
				&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: key},
				valueToNode(v.Object[key]),
			)
		}
		return node
	default:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}
	}
}
