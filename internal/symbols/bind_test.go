package symbols

import (
	"context"
	"path"
	"strings"
	"testing"

	"propguard/internal/ast"
	"propguard/internal/diag"
	"propguard/internal/parser"
	"propguard/internal/source"
)

type program struct {
	b     *ast.Builder
	table *Table
	files map[string]ast.FileID
	bag   *diag.Bag
}

// bindProgram parses every file into one builder and binds them together.
// Relative specifiers resolve by base name, extension ignored.
func bindProgram(t *testing.T, reportUnresolved bool, files ...[2]string) *program {
	t.Helper()
	fs := source.NewFileSet()
	b := ast.NewBuilder(ast.Hints{}, nil)
	bag := diag.NewBag(100)
	p := &program{b: b, files: make(map[string]ast.FileID), bag: bag}
	for _, f := range files {
		id := fs.AddVirtual(f[0], []byte(f[1]))
		res, err := parser.ParseFile(context.Background(), fs, id, b, parser.Options{MaxErrors: 10, Reporter: diag.BagReporter{Bag: bag}})
		if err != nil {
			t.Fatalf("parse %s: %v", f[0], err)
		}
		p.files[strings.TrimSuffix(f[0], path.Ext(f[0]))] = res.File
	}
	if bag.Len() != 0 {
		t.Fatalf("unexpected parse diagnostics: %+v", bag.Items())
	}
	resolver := ModuleResolverFunc(func(_ ast.FileID, spec string) (ast.FileID, bool) {
		id, ok := p.files[strings.TrimPrefix(spec, "./")]
		return id, ok
	})
	p.table = Bind(b, BindOptions{Resolver: resolver, Reporter: diag.BagReporter{Bag: bag}, ReportUnresolved: reportUnresolved})
	return p
}

func (p *program) lookup(t *testing.T, file, name string, meaning Meaning) *Symbol {
	t.Helper()
	f := p.b.File(p.files[file])
	id := p.table.LookupAt(f.Scope, p.b.Strings.Intern(name), meaning)
	if !id.IsValid() {
		t.Fatalf("%s: %q not declared", file, name)
	}
	return p.table.Symbol(id)
}

func TestBindDeclarations(t *testing.T) {
	p := bindProgram(t, false, [2]string{"a.ts", `const a = 1;
function f(p: number) { var v; { let blockOnly; } }
type T = { x: string };
interface I { a: string }
interface I { b: string }
`})

	if sym := p.lookup(t, "a", "a", MeaningValue); sym.Kind != SymbolVariable || sym.Decl.Kind != DeclVariable {
		t.Fatalf("a = %s/%s", sym.Kind, sym.Decl.Kind)
	}
	if sym := p.lookup(t, "a", "f", MeaningValue); sym.Kind != SymbolFunction || sym.Decl.Kind != DeclFunction {
		t.Fatalf("f = %s/%s", sym.Kind, sym.Decl.Kind)
	}
	if sym := p.lookup(t, "a", "T", MeaningType); sym.Kind != SymbolTypeAlias || sym.Decl.Kind != DeclNone {
		t.Fatalf("T = %s/%s", sym.Kind, sym.Decl.Kind)
	}
	iface := p.lookup(t, "a", "I", MeaningType)
	if iface.Kind != SymbolInterface || len(iface.Decls()) != 2 {
		t.Fatalf("interface I must merge both declarations, got %d", len(iface.Decls()))
	}

	file := p.b.File(p.files["a"])
	if id := p.table.LookupAt(file.Scope, p.b.Strings.Intern("T"), MeaningValue); id.IsValid() {
		t.Fatalf("type alias must not be visible as a value")
	}
	if id := p.table.LookupAt(file.Scope, p.b.Strings.Intern("v"), MeaningValue); id.IsValid() {
		t.Fatalf("function-local var leaked into file scope")
	}

	fn := p.b.Func(p.b.Stmt(file.Stmts[1]).Func)
	fnScope := p.table.Scopes.Get(p.table.ScopeOf(fn.Scope))
	if _, ok := fnScope.Values[p.b.Strings.Intern("v")]; !ok {
		t.Fatalf("var must be hoisted to the function scope")
	}
	if _, ok := fnScope.Values[p.b.Strings.Intern("blockOnly")]; ok {
		t.Fatalf("let must stay in its block")
	}
	param := p.table.Symbol(fnScope.Values[p.b.Strings.Intern("p")])
	if param == nil || param.Kind != SymbolParam || param.Decl.Index != 0 {
		t.Fatalf("param = %+v", param)
	}
}

func TestBindBindingElements(t *testing.T) {
	p := bindProgram(t, false, [2]string{"a.ts", `declare const obj: { a: string; b: number };
const { a, b: renamed } = obj;
`})
	for _, name := range []string{"a", "renamed"} {
		sym := p.lookup(t, "a", name, MeaningValue)
		if sym.Kind != SymbolBindingElement || sym.Decl.Kind != DeclBindingElement {
			t.Fatalf("%s = %s/%s", name, sym.Kind, sym.Decl.Kind)
		}
	}
	obj := p.lookup(t, "a", "obj", MeaningValue)
	if obj.Decl.Kind != DeclVariable || obj.Flags&SymbolFlagAmbient == 0 {
		t.Fatalf("declare const = %s flags=%v", obj.Decl.Kind, obj.Flags.Strings())
	}
}

func TestImportAliasResolvesToExport(t *testing.T) {
	p := bindProgram(t, false,
		[2]string{"a.ts", `export const C = () => null;
export interface P { x: string }
`},
		[2]string{"b.tsx", `import { C as D, P } from './a';
import * as NS from './a';
`},
	)

	d := p.lookup(t, "b", "D", MeaningValue)
	if !d.IsAlias() || d.Kind != SymbolImport {
		t.Fatalf("D = %s", d.Kind)
	}
	id := p.table.LookupAt(p.b.File(p.files["b"]).Scope, p.b.Strings.Intern("D"), MeaningValue)
	target := p.table.Symbol(p.table.ResolveAlias(id, MeaningValue))
	if target == nil || target.Kind != SymbolVariable || p.b.Str(target.Name) != "C" {
		t.Fatalf("D resolves to %+v", target)
	}

	pid := p.table.LookupAt(p.b.File(p.files["b"]).Scope, p.b.Strings.Intern("P"), MeaningType)
	if sym := p.table.Symbol(p.table.ResolveAlias(pid, MeaningType)); sym == nil || sym.Kind != SymbolInterface {
		t.Fatalf("P resolves to %+v", sym)
	}

	ns := p.table.LookupAt(p.b.File(p.files["b"]).Scope, p.b.Strings.Intern("NS"), MeaningValue)
	if got := p.table.ResolveAlias(ns, MeaningValue); got != p.table.Module(p.files["a"]).Symbol {
		t.Fatalf("namespace import must resolve to the module symbol")
	}
}

func TestReExportChains(t *testing.T) {
	p := bindProgram(t, false,
		[2]string{"a.ts", `export const C = 1;
const hidden = 2;
export { hidden as shown };
export default hidden;
`},
		[2]string{"b.ts", `export { C as Renamed } from './a';
export * from './a';
`},
		[2]string{"c.ts", `import { Renamed, C, shown } from './b';
import Def from './a';
`},
	)

	tests := []struct {
		local, want string
	}{
		{"Renamed", "C"},
		{"C", "C"},
		{"shown", "hidden"},
		{"Def", "hidden"},
	}
	scope := p.b.File(p.files["c"]).Scope
	for _, tt := range tests {
		id := p.table.LookupAt(scope, p.b.Strings.Intern(tt.local), MeaningValue)
		target := p.table.ResolveAlias(id, MeaningValue)
		if got := p.table.Name(target); got != tt.want {
			t.Errorf("%s resolves to %q, want %q", tt.local, got, tt.want)
		}
	}
	names := p.table.ExportNames(p.files["b"])
	if strings.Join(names, ",") != "Renamed,C,shown" {
		t.Fatalf("export names of b = %v", names)
	}
}

func TestUnresolvedModules(t *testing.T) {
	src := [2]string{"a.tsx", "import React from 'react';\n"}

	quiet := bindProgram(t, false, src)
	if quiet.bag.Len() != 0 {
		t.Fatalf("unresolved modules must be silent by default: %+v", quiet.bag.Items())
	}
	react := quiet.lookup(t, "a", "React", MeaningValue)
	if react.Alias == nil || react.Alias.Module != "react" || react.Alias.File.IsValid() {
		t.Fatalf("alias = %+v", react.Alias)
	}

	loud := bindProgram(t, true, src)
	items := loud.bag.Items()
	if len(items) != 1 || items[0].Code != diag.SemaUnresolvedModule || items[0].Severity != diag.SevWarning {
		t.Fatalf("diagnostics = %+v", items)
	}
}

func TestReExportCycleIsReported(t *testing.T) {
	p := bindProgram(t, false,
		[2]string{"a.ts", "export { x } from './b';\n"},
		[2]string{"b.ts", "export { x } from './a';\n"},
		[2]string{"c.ts", "import { x } from './a';\n"},
	)
	items := p.bag.Items()
	if len(items) != 1 || items[0].Code != diag.SemaImportCycle {
		t.Fatalf("diagnostics = %+v", items)
	}
}
