package query

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// FieldBinding names one field of one data type participating in a linked
// field set.
type FieldBinding struct {
	DataType string
	Field    []string
}

// LinkedFieldSet is an ordered set of fields across data types whose values
// must be equal for records to join. Sets with fewer than two bindings carry
// no constraint.
type LinkedFieldSet []FieldBinding

// UnmarshalJSON decodes the {"dataType": ["field", ...], ...} wire shape,
// keeping the document's key order so pair enumeration is deterministic.
func (s *LinkedFieldSet) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return fmt.Errorf("failed to decode linked field set: %w", err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("linked field set must be a JSON object")
	}

	var out LinkedFieldSet
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return fmt.Errorf("failed to decode linked field set: %w", err)
		}
		dataType := keyTok.(string)

		var field []string
		if err := dec.Decode(&field); err != nil {
			return fmt.Errorf("invalid field path for %q: %w", dataType, err)
		}
		out = append(out, FieldBinding{DataType: dataType, Field: field})
	}

	if _, err := dec.Token(); err != nil {
		return fmt.Errorf("failed to decode linked field set: %w", err)
	}
	*s = out
	return nil
}

// MarshalJSON emits the set as a JSON object in binding order.
func (s LinkedFieldSet) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, b := range s {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(b.DataType)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		val, err := json.Marshal(b.Field)
		if err != nil {
			return nil, err
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// joinFragment pairs two bound fields into an equality over their resolved
// superstructure paths.
func joinFragment(a, b FieldBinding) *Equality {
	return Eq(bindingResolve(a), bindingResolve(b))
}

func bindingResolve(b FieldBinding) *Resolve {
	path := make([]string, 0, len(b.Field)+2)
	path = append(path, b.DataType, ArrayItemMarker)
	path = append(path, b.Field...)
	return &Resolve{Path: path}
}

// JoinFromLinkedFieldSets synthesizes a conjunctive join condition from the
// linked field sets, considering only bindings whose data type is in
// dataTypes. Pairs are enumerated in binding order (i < j), reduced to a
// chain of pairwise conjunctions. Returns nil when no enforceable join
// exists: no sets, or the first set has fewer than two bindings over the
// queried data types. Later sets that yield no pairs are dropped rather than
// poisoning the conjunction.
func JoinFromLinkedFieldSets(sets []LinkedFieldSet, dataTypes map[string]struct{}) Node {
	if len(sets) == 0 {
		return nil
	}

	var pairs []*Equality
	first := sets[0]
	for i := 0; i < len(first); i++ {
		if _, ok := dataTypes[first[i].DataType]; !ok {
			continue
		}
		for j := i + 1; j < len(first); j++ {
			if _, ok := dataTypes[first[j].DataType]; !ok {
				continue
			}
			pairs = append(pairs, joinFragment(first[i], first[j]))
		}
	}

	// Fewer than two queried data types overlap this set; there is nothing
	// to enforce.
	if len(pairs) == 0 {
		return nil
	}

	head := reducePairs(pairs)
	rest := JoinFromLinkedFieldSets(sets[1:], dataTypes)
	if rest == nil {
		return head
	}
	return And(head, rest)
}

// reducePairs folds equalities into a right-nested chain of binary
// conjunctions; a single pair stays a bare equality.
func reducePairs(pairs []*Equality) Node {
	if len(pairs) == 1 {
		return pairs[0]
	}
	return And(pairs[0], reducePairs(pairs[1:]))
}
