// Package query implements the resolve/combinator query language AST used by
// federated dataset search: parsing and serializing the nested-array wire
// form, relocating resolve expressions under a joined superstructure, and
// synthesizing cross-data-type join conditions from linked field sets.
package query

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Operator tags recognized in the wire form. Any other "#"-prefixed tag is
// preserved as an Opaque node.
const (
	TagResolve     = "#resolve"
	TagEquality    = "#eq"
	TagConjunction = "#and"
)

// ArrayItemMarker is the path segment that denotes "iterate this array" in a
// resolve path. It delimits index-combination boundaries.
const ArrayItemMarker = "[item]"

// Node is a query AST node. Nodes are immutable; rewrites produce new nodes.
type Node interface {
	node()
	json.Marshaler
}

// Literal is a leaf value: a bare JSON scalar, object, or any array whose
// head is not an operator tag. Unrecognized structures are deliberately left
// untouched rather than rejected.
type Literal struct {
	Value interface{}
}

// Resolve reads a value at an ordered path of field/array traversal segments.
type Resolve struct {
	Path []string
}

// Equality compares the values of its two operands.
type Equality struct {
	Left  Node
	Right Node
}

// Conjunction is true when all of its operands are true.
type Conjunction struct {
	Operands []Node
}

// Opaque is a tagged node whose operator this package does not recognize.
// Rewrites recurse into its operands but never alter its tag.
type Opaque struct {
	Tag      string
	Operands []Node
}

func (*Literal) node()     {}
func (*Resolve) node()     {}
func (*Equality) node()    {}
func (*Conjunction) node() {}
func (*Opaque) node()      {}

// True is the literal boolean true query, which matches everything.
func True() *Literal {
	return &Literal{Value: true}
}

// IsLiteralTrue reports whether n is exactly the literal true. Other truthy
// literals do not qualify; they carry different search semantics.
func IsLiteralTrue(n Node) bool {
	lit, ok := n.(*Literal)
	if !ok {
		return false
	}
	b, ok := lit.Value.(bool)
	return ok && b
}

// Eq builds an equality node over two operands.
func Eq(left, right Node) *Equality {
	return &Equality{Left: left, Right: right}
}

// And builds a binary conjunction, matching the pairwise shape the join
// builder emits.
func And(left, right Node) *Conjunction {
	return &Conjunction{Operands: []Node{left, right}}
}

// NewResolve builds a resolve node over a copy of the given path segments.
func NewResolve(path ...string) *Resolve {
	p := make([]string, len(path))
	copy(p, path)
	return &Resolve{Path: p}
}

// FromValue converts a decoded JSON value into an AST node. An array whose
// first element is a "#"-prefixed string is a tagged expression; everything
// else is a literal leaf.
func FromValue(v interface{}) (Node, error) {
	arr, ok := v.([]interface{})
	if !ok || len(arr) == 0 {
		return &Literal{Value: v}, nil
	}

	tag, ok := arr[0].(string)
	if !ok || !strings.HasPrefix(tag, "#") {
		return &Literal{Value: v}, nil
	}

	switch tag {
	case TagResolve:
		path := make([]string, 0, len(arr)-1)
		for _, seg := range arr[1:] {
			s, ok := seg.(string)
			if !ok {
				return nil, fmt.Errorf("resolve path segment must be a string, got %T", seg)
			}
			path = append(path, s)
		}
		return &Resolve{Path: path}, nil

	case TagEquality:
		if len(arr) != 3 {
			return nil, fmt.Errorf("equality expects 2 operands, got %d", len(arr)-1)
		}
		left, err := FromValue(arr[1])
		if err != nil {
			return nil, err
		}
		right, err := FromValue(arr[2])
		if err != nil {
			return nil, err
		}
		return &Equality{Left: left, Right: right}, nil

	case TagConjunction:
		operands, err := operandsFromValues(arr[1:])
		if err != nil {
			return nil, err
		}
		return &Conjunction{Operands: operands}, nil

	default:
		operands, err := operandsFromValues(arr[1:])
		if err != nil {
			return nil, err
		}
		return &Opaque{Tag: tag, Operands: operands}, nil
	}
}

func operandsFromValues(values []interface{}) ([]Node, error) {
	operands := make([]Node, 0, len(values))
	for _, v := range values {
		n, err := FromValue(v)
		if err != nil {
			return nil, err
		}
		operands = append(operands, n)
	}
	return operands, nil
}

// Parse decodes a query from its JSON wire form.
func Parse(data []byte) (Node, error) {
	var v interface{}
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("failed to decode query: %w", err)
	}
	return FromValue(v)
}

// ToValue converts a node back into the nested-array wire value.
func ToValue(n Node) interface{} {
	switch q := n.(type) {
	case nil:
		return nil
	case *Literal:
		return q.Value
	case *Resolve:
		out := make([]interface{}, 0, len(q.Path)+1)
		out = append(out, TagResolve)
		for _, seg := range q.Path {
			out = append(out, seg)
		}
		return out
	case *Equality:
		return []interface{}{TagEquality, ToValue(q.Left), ToValue(q.Right)}
	case *Conjunction:
		out := make([]interface{}, 0, len(q.Operands)+1)
		out = append(out, TagConjunction)
		for _, op := range q.Operands {
			out = append(out, ToValue(op))
		}
		return out
	case *Opaque:
		out := make([]interface{}, 0, len(q.Operands)+1)
		out = append(out, q.Tag)
		for _, op := range q.Operands {
			out = append(out, ToValue(op))
		}
		return out
	default:
		return nil
	}
}

// MarshalJSON emits the literal's value unchanged.
func (q *Literal) MarshalJSON() ([]byte, error) { return json.Marshal(ToValue(q)) }

// MarshalJSON emits ["#resolve", segments...].
func (q *Resolve) MarshalJSON() ([]byte, error) { return json.Marshal(ToValue(q)) }

// MarshalJSON emits ["#eq", left, right].
func (q *Equality) MarshalJSON() ([]byte, error) { return json.Marshal(ToValue(q)) }

// MarshalJSON emits ["#and", operands...].
func (q *Conjunction) MarshalJSON() ([]byte, error) { return json.Marshal(ToValue(q)) }

// MarshalJSON emits the node with its original tag.
func (q *Opaque) MarshalJSON() ([]byte, error) { return json.Marshal(ToValue(q)) }
