package query

// Augment returns a copy of the query in which every resolve expression is
// prefixed with the given path segments. This relocates a query written
// against a single data type so it resolves correctly once that data type's
// records are nested under a joined superstructure.
//
// Literals are returned unchanged. Tagged nodes keep their tag and arity;
// only their operands are rewritten.
func Augment(n Node, prefix ...string) Node {
	switch q := n.(type) {
	case nil:
		return nil
	case *Literal:
		return q
	case *Resolve:
		path := make([]string, 0, len(prefix)+len(q.Path))
		path = append(path, prefix...)
		path = append(path, q.Path...)
		return &Resolve{Path: path}
	case *Equality:
		return &Equality{
			Left:  Augment(q.Left, prefix...),
			Right: Augment(q.Right, prefix...),
		}
	case *Conjunction:
		return &Conjunction{Operands: augmentAll(q.Operands, prefix)}
	case *Opaque:
		return &Opaque{Tag: q.Tag, Operands: augmentAll(q.Operands, prefix)}
	default:
		return n
	}
}

func augmentAll(operands []Node, prefix []string) []Node {
	out := make([]Node, len(operands))
	for i, op := range operands {
		out[i] = Augment(op, prefix...)
	}
	return out
}
