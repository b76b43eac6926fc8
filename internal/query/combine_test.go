package query

import (
	"encoding/json"
	"testing"
)

func TestCombineAbsentJoin(t *testing.T) {
	queries := NewDataTypeQueries()
	queries.Set("A", True())

	if n := Combine(nil, queries); n != nil {
		t.Errorf("absent join query should stay absent, got %#v", n)
	}
}

func TestCombineWrapsInInsertionOrder(t *testing.T) {
	join := Eq(
		NewResolve("A", "[item]", "x"),
		NewResolve("B", "[item]", "y"),
	)

	queries := NewDataTypeQueries()
	queries.Set("A", True())
	qb, err := Parse([]byte(`["#eq",["#resolve","sex"],"XX"]`))
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	queries.Set("B", qb)

	out, err := json.Marshal(Combine(join, queries))
	if err != nil {
		t.Fatalf("Marshal() error: %v", err)
	}

	// B is folded last, so it is the outermost conjunction; B's resolve is
	// relocated under (B, [item]).
	want := `["#and",` +
		`["#eq",["#resolve","B","[item]","sex"],"XX"],` +
		`["#and",true,` +
		`["#eq",["#resolve","A","[item]","x"],["#resolve","B","[item]","y"]]]]`
	if string(out) != want {
		t.Errorf("expected %s, got %s", want, out)
	}
}

func TestParseDataTypeQueriesKeepsDocumentOrder(t *testing.T) {
	queries, err := ParseDataTypeQueries([]byte(`{"zeta": true, "alpha": true, "mid": true}`))
	if err != nil {
		t.Fatalf("ParseDataTypeQueries() error: %v", err)
	}

	keys := queries.Keys()
	want := []string{"zeta", "alpha", "mid"}
	for i, k := range want {
		if keys[i] != k {
			t.Fatalf("expected key order %v, got %v", want, keys)
		}
	}
}

func TestParseDataTypeQueriesRejectsNonObject(t *testing.T) {
	if _, err := ParseDataTypeQueries([]byte(`[true]`)); err == nil {
		t.Error("expected an error for a non-object document")
	}
}
