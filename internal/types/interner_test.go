package types

import "testing"

func TestInternerBuiltins(t *testing.T) {
	in := NewInterner()
	b := in.Builtins()
	if b.Any == NoTypeID || b.String == NoTypeID {
		t.Fatalf("builtins not initialized")
	}
	str, _ := in.Lookup(b.String)
	if str.Kind != KindString {
		t.Fatalf("expected string kind, got %v", str.Kind)
	}
	if in.Widen(b.True) != b.Boolean {
		t.Fatalf("true must widen to boolean")
	}
}

func TestInternerDeduplicatesDescriptors(t *testing.T) {
	in := NewInterner()
	elem := in.Builtins().String
	arr1 := in.Intern(MakeArray(elem))
	arr2 := in.Intern(MakeArray(elem))
	if arr1 != arr2 {
		t.Fatalf("array types should be deduplicated")
	}
	if in.StringLiteral("a") != in.StringLiteral("a") {
		t.Fatalf("literal types should be deduplicated")
	}
}

func TestObjectsKeepIdentity(t *testing.T) {
	in := NewInterner()
	a := in.RegisterObject("Props", srcSpan())
	b := in.RegisterObject("Props", srcSpan())
	if a == b {
		t.Fatalf("registered objects must not be deduplicated")
	}
}

func TestUnionNormalization(t *testing.T) {
	in := NewInterner()
	b := in.Builtins()
	tests := []struct {
		name    string
		members []TypeID
		want    string
	}{
		{"single collapses", []TypeID{b.String}, "string"},
		{"duplicates dropped", []TypeID{b.String, b.String, b.Number}, "string | number"},
		{"never dropped", []TypeID{b.Never, b.Null}, "null"},
		{"any absorbs", []TypeID{b.String, b.Any}, "any"},
		{"nested flattened", []TypeID{in.Union(b.String, b.Number), b.Null}, "string | number | null"},
		{"empty is never", nil, "never"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := in.Label(in.Union(tt.members...)); got != tt.want {
				t.Fatalf("Union = %q, want %q", got, tt.want)
			}
		})
	}
	u1 := in.Union(b.String, b.Number)
	u2 := in.Union(b.String, b.Number)
	if u1 != u2 {
		t.Fatalf("equal unions should share an id")
	}
}

func TestIntersectionNormalization(t *testing.T) {
	in := NewInterner()
	b := in.Builtins()
	obj := in.NewObject([]Member{{Name: "a", Type: b.String}}, nil)
	if got := in.Intersection(obj, b.Unknown); got != obj {
		t.Fatalf("unknown should be dropped, got %s", in.Label(got))
	}
	if got := in.Intersection(obj, b.Never); got != b.Never {
		t.Fatalf("never should absorb, got %s", in.Label(got))
	}
	if got := in.Intersection(); got != b.Unknown {
		t.Fatalf("empty intersection = %s", in.Label(got))
	}
}

func TestNonNullable(t *testing.T) {
	in := NewInterner()
	b := in.Builtins()
	got := in.NonNullable(in.Union(b.String, b.Null, b.Undefined))
	if got != b.String {
		t.Fatalf("NonNullable = %s", in.Label(got))
	}
}
