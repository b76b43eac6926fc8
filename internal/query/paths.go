package query

// PathRoot is the sentinel root of every array resolve path.
const PathRoot = "_root"

// ArrayResolvePaths collects the dotted array-boundary paths a query resolves
// through, rooted at PathRoot. Each [item] marker in a resolve path emits the
// path accumulated from the non-marker segments seen before it; markers
// themselves never appear in emitted paths. The result enumerates which index
// combinations can appear in joined results, so it must be computed on the
// join query alone, before it is combined with the per-data-type queries.
//
// Paths are emitted in operand order; duplicates are not removed.
func ArrayResolvePaths(n Node) []string {
	switch q := n.(type) {
	case *Resolve:
		var out []string
		path := PathRoot
		for _, seg := range q.Path {
			if seg == ArrayItemMarker {
				out = append(out, path)
				continue
			}
			path = path + "." + seg
		}
		return out
	case *Equality:
		return append(ArrayResolvePaths(q.Left), ArrayResolvePaths(q.Right)...)
	case *Conjunction:
		return collectAll(q.Operands)
	case *Opaque:
		return collectAll(q.Operands)
	default:
		return nil
	}
}

func collectAll(operands []Node) []string {
	var out []string
	for _, op := range operands {
		out = append(out, ArrayResolvePaths(op)...)
	}
	return out
}
