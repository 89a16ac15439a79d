package types

import (
	"strings"
	"testing"

	"propguard/internal/jsdoc"
	"propguard/internal/source"
)

func srcSpan() source.Span { return source.Span{} }

func deprecated(reason string) *jsdoc.Comment {
	return &jsdoc.Comment{Tags: []jsdoc.Tag{{Name: jsdoc.TagDeprecated, Text: reason}}}
}

func names(ms []Member) string {
	parts := make([]string, len(ms))
	for i, m := range ms {
		parts[i] = m.Name
	}
	return strings.Join(parts, ",")
}

func TestIntersectionLastDeclarationWins(t *testing.T) {
	in := NewInterner()
	b := in.Builtins()
	left := in.NewObject([]Member{
		{Name: "a", Type: b.String, Doc: deprecated("old")},
		{Name: "b", Type: b.Number},
	}, nil)
	right := in.NewObject([]Member{
		{Name: "c", Type: b.Number},
		{Name: "a", Type: b.Boolean},
	}, nil)

	props := in.Properties(in.Intersection(left, right))
	if got := names(props); got != "a,b,c" {
		t.Fatalf("member order = %s", got)
	}
	if props[0].Type != b.Boolean || props[0].Doc != nil {
		t.Fatalf("later member must replace earlier one: %+v", props[0])
	}
}

func TestUnionExposesCommonMembers(t *testing.T) {
	in := NewInterner()
	b := in.Builtins()
	first := in.NewObject([]Member{
		{Name: "a", Type: b.String},
		{Name: "shared", Type: b.String},
	}, nil)
	last := in.NewObject([]Member{
		{Name: "shared", Type: b.Number, Doc: deprecated("x")},
		{Name: "z", Type: b.Number},
	}, nil)

	props := in.Properties(in.Union(first, last, b.Undefined))
	if got := names(props); got != "shared" {
		t.Fatalf("common members = %s", got)
	}
	if props[0].Type != b.Number || props[0].Doc == nil {
		t.Fatalf("member must come from the last constituent: %+v", props[0])
	}
}

func TestCallSignaturesOfOptionalFunction(t *testing.T) {
	in := NewInterner()
	b := in.Builtins()
	fn := in.Function([]Param{{Name: "props", Type: b.Any}}, b.Void)
	sigs := in.CallSignatures(in.Union(fn, b.Undefined))
	if len(sigs) != 1 || sigs[0].Params[0].Name != "props" {
		t.Fatalf("signatures = %+v", sigs)
	}
	if sigs := in.CallSignatures(in.Union(fn, in.Function(nil, b.Void))); sigs != nil {
		t.Fatalf("ambiguous union must have no signatures: %+v", sigs)
	}
}

func TestMergeMembers(t *testing.T) {
	got := MergeMembers(
		[]Member{{Name: "a"}, {Name: "b"}},
		[]Member{{Name: "b", Optional: true}, {Name: "c"}},
	)
	if names(got) != "a,b,c" || !got[1].Optional {
		t.Fatalf("merged = %+v", got)
	}
}
