package query

// Combine conjoins the join query with every data-type query, each relocated
// under its (dataType, [item]) superstructure prefix so all of them resolve
// against the same joined object. Queries are folded in the map's insertion
// order, each new conjunction wrapping the running result.
//
// A nil join query yields nil: with no cross-table constraint there is no
// superstructure, and each table's own request already carries its query.
func Combine(join Node, dataTypeQueries *DataTypeQueries) Node {
	if join == nil {
		return nil
	}

	for _, dataType := range dataTypeQueries.Keys() {
		q, _ := dataTypeQueries.Get(dataType)
		join = And(Augment(q, dataType, ArrayItemMarker), join)
	}
	return join
}
