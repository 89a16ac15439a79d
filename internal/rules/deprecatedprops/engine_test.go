package deprecatedprops

import (
	"strings"
	"testing"

	"propguard/internal/ast"
	"propguard/internal/jsdoc"
	"propguard/internal/source"
	"propguard/internal/symbols"
	"propguard/internal/types"
)

// fakeOracle answers the queries Scan and Match make; everything else panics
// through the nil embedded interface.
type fakeOracle struct {
	Oracle
	members map[types.TypeID][]types.Member
	symAt   map[ast.IdentID]symbols.SymbolID
	symType map[symbols.SymbolID]types.TypeID
}

func (f fakeOracle) Members(t types.TypeID) []types.Member { return f.members[t] }
func (f fakeOracle) SymbolAtLocation(id ast.IdentID) symbols.SymbolID {
	return f.symAt[id]
}
func (f fakeOracle) TypeOfSymbol(s symbols.SymbolID) types.TypeID { return f.symType[s] }

func member(name, doc string) types.Member {
	m := types.Member{Name: name}
	if doc != "" {
		c, ok := jsdoc.Parse(doc)
		if !ok {
			panic("bad doc " + doc)
		}
		m.Doc = &c
	}
	return m
}

const (
	propsType types.TypeID = 1
	objType   types.TypeID = 2
	objSym                 = symbols.SymbolID(7)
	objIdent               = ast.IdentID(3)
)

func newFake() fakeOracle {
	return fakeOracle{
		members: map[types.TypeID][]types.Member{
			propsType: {
				member("someProp", "/** @deprecated reason */"),
				member("someOtherProp", ""),
				member("linked", "/** @deprecated use {@link other} instead */"),
				member("private", "/** @private */"),
				member("bare", "/** @deprecated */"),
			},
			objType: {member("someProp", ""), member("bare", "")},
		},
		symAt:   map[ast.IdentID]symbols.SymbolID{objIdent: objSym},
		symType: map[symbols.SymbolID]types.TypeID{objSym: objType},
	}
}

func render(fs []Finding) string {
	out := make([]string, len(fs))
	for i, f := range fs {
		out[i] = f.Kind.String() + ":" + f.Spread + ":" + f.Member + ":" + f.Reason
	}
	return strings.Join(out, ",")
}

func TestScan(t *testing.T) {
	got := Scan(newFake(), propsType)
	var parts []string
	for _, m := range got {
		parts = append(parts, m.Name+"="+m.Reason+"|"+m.Lead)
	}
	want := "someProp=reason|reason,linked=use {@link other} instead|use ,bare=|"
	if s := strings.Join(parts, ","); s != want {
		t.Fatalf("Scan = %s, want %s", s, want)
	}
	if Scan(newFake(), objType) != nil {
		t.Fatalf("undocumented members reported as deprecated")
	}
}

func TestMatch(t *testing.T) {
	o := newFake()
	deprecated := Scan(o, propsType)
	attr := func(name string, at uint32) Attribute {
		return Attribute{Name: name, Span: source.Span{Start: at, End: at + uint32(len(name))}}
	}
	spread := Spread{Ident: objIdent, Name: "obj", Span: source.Span{Start: 100, End: 103}}

	cases := []struct {
		name string
		site Site
		cfg  Config
		want string
	}{
		{
			name: "direct use",
			site: Site{Attrs: []Attribute{attr("someProp", 0), attr("someOtherProp", 20)}},
			cfg:  DefaultConfig(),
			want: "direct::someProp:reason",
		},
		{
			name: "two direct uses in source order",
			site: Site{Attrs: []Attribute{attr("bare", 0), attr("someProp", 10)}},
			cfg:  DefaultConfig(),
			want: "direct::bare:,direct::someProp:reason",
		},
		{
			name: "pass-through",
			site: Site{Attrs: []Attribute{attr("someOtherProp", 0), attr("private", 20)}},
			cfg:  DefaultConfig(),
			want: "",
		},
		{
			name: "spreads come first",
			site: Site{Attrs: []Attribute{attr("linked", 0)}, Spreads: []Spread{spread}},
			cfg:  DefaultConfig(),
			want: "spread:obj:someProp:reason,spread:obj:bare:,direct::linked:use {@link other} instead",
		},
		{
			name: "spread toggle off",
			site: Site{Spreads: []Spread{spread}},
			cfg:  Config{CheckSpreadArguments: false},
			want: "",
		},
		{
			name: "non-identifier spread",
			site: Site{Spreads: []Spread{{Span: source.Span{Start: 5, End: 9}}}},
			cfg:  DefaultConfig(),
			want: "",
		},
		{
			name: "unresolved spread",
			site: Site{Spreads: []Spread{{Ident: ast.IdentID(99), Name: "ghost"}}},
			cfg:  DefaultConfig(),
			want: "",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := render(Match(o, tc.site, deprecated, tc.cfg)); got != tc.want {
				t.Fatalf("Match = %q, want %q", got, tc.want)
			}
		})
	}

	if got := Match(o, Site{Attrs: []Attribute{attr("someProp", 0)}}, nil, DefaultConfig()); got != nil {
		t.Fatalf("no deprecated members: %v", got)
	}
}

func TestFindingData(t *testing.T) {
	d := Finding{Kind: SpreadUse, Member: "a", Spread: "obj", Reason: "r"}.Data()
	if d["name"] != "obj" || d["propName"] != "a" || d["reason"] != "r" {
		t.Fatalf("spread data = %v", d)
	}
	d = Finding{Kind: DirectUse, Member: "a", Reason: "r"}.Data()
	if d["name"] != "a" || d["reason"] != "r" || len(d) != 2 {
		t.Fatalf("direct data = %v", d)
	}
	if SpreadUse.MessageID() != MsgAvoidDeprecatedSpread || DirectUse.MessageID() != MsgAvoidDeprecated {
		t.Fatalf("message ids")
	}
}

func TestConfigFrom(t *testing.T) {
	if !ConfigFrom(nil).CheckSpreadArguments {
		t.Fatalf("spread check must default to on")
	}
	if ConfigFrom(map[string]any{OptCheckSpreadArguments: false}).CheckSpreadArguments {
		t.Fatalf("option ignored")
	}
}
