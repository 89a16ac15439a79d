package types

import "testing"

func TestUtilityTransformsKeepDocs(t *testing.T) {
	in := NewInterner()
	b := in.Builtins()
	props := in.NewObject([]Member{
		{Name: "someProp", Type: b.String, Optional: true, Doc: deprecated("reason")},
		{Name: "someProp2", Type: b.String, Optional: true, Doc: deprecated("reason2")},
		{Name: "someProp3", Type: b.String, Optional: true},
	}, nil)
	keys := in.Union(in.StringLiteral("someProp2"), in.StringLiteral("someProp"))

	picked := in.Pick(props, keys)
	if got := names(in.Properties(picked)); got != "someProp2,someProp" {
		t.Fatalf("Pick order = %s", got)
	}
	partial := in.Partial(in.Intersection(picked, in.NewObject([]Member{{Name: "other", Type: b.Number}}, nil)))
	ps := in.Properties(partial)
	if names(ps) != "someProp2,someProp,other" {
		t.Fatalf("Partial members = %s", names(ps))
	}
	for _, m := range ps {
		if !m.Optional {
			t.Fatalf("%s must be optional", m.Name)
		}
	}
	if ps[1].Doc == nil || ps[1].Doc.Tags[0].Text != "reason" {
		t.Fatalf("doc lost through Pick/Partial: %+v", ps[1])
	}

	required := in.Properties(in.Required(props))
	if required[0].Optional {
		t.Fatalf("Required must clear optional flag")
	}
	omitted := in.Properties(in.Omit(props, in.StringLiteral("someProp")))
	if names(omitted) != "someProp2,someProp3" {
		t.Fatalf("Omit = %s", names(omitted))
	}
}

func TestKeyofAndIndexedAccess(t *testing.T) {
	in := NewInterner()
	b := in.Builtins()
	obj := in.NewObject([]Member{
		{Name: "a", Type: b.String},
		{Name: "b", Type: b.Number},
	}, nil)
	if got := in.Label(in.Keyof(obj)); got != `"a" | "b"` {
		t.Fatalf("keyof = %s", got)
	}
	if got := in.IndexedAccess(obj, in.StringLiteral("b")); got != b.Number {
		t.Fatalf("T['b'] = %s", in.Label(got))
	}
	if got := in.IndexedAccess(obj, b.String); got != b.Any {
		t.Fatalf("T[string] = %s", in.Label(got))
	}
}

func TestRecord(t *testing.T) {
	in := NewInterner()
	b := in.Builtins()
	rec := in.Record(in.Union(in.StringLiteral("x"), in.StringLiteral("y")), b.Number)
	if got := in.Label(rec); got != "{ x: number; y: number; }" {
		t.Fatalf("Record = %s", got)
	}
}

func TestPartialDistributesOverUnion(t *testing.T) {
	in := NewInterner()
	b := in.Builtins()
	a := in.NewObject([]Member{{Name: "k", Type: b.String}}, nil)
	u := in.Partial(in.Union(a, b.Null))
	if in.KindOf(u) != KindUnion {
		t.Fatalf("Partial over union = %s", in.Label(u))
	}
	m, ok := in.Property(u, "k")
	if !ok || !m.Optional {
		t.Fatalf("k = %+v, %v", m, ok)
	}
}
