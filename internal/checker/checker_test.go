package checker

import (
	"context"
	"errors"
	"path"
	"strings"
	"testing"

	"propguard/internal/ast"
	"propguard/internal/diag"
	"propguard/internal/jsdoc"
	"propguard/internal/parser"
	"propguard/internal/source"
	"propguard/internal/symbols"
	"propguard/internal/types"
)

type program struct {
	b     *ast.Builder
	table *symbols.Table
	c     *Checker
	files map[string]ast.FileID
}

func check(t *testing.T, files ...[2]string) *program {
	t.Helper()
	fs := source.NewFileSet()
	b := ast.NewBuilder(ast.Hints{}, nil)
	bag := diag.NewBag(100)
	p := &program{b: b, files: make(map[string]ast.FileID)}
	for _, f := range files {
		id := fs.AddVirtual(f[0], []byte(f[1]))
		res, err := parser.ParseFile(context.Background(), fs, id, b, parser.Options{MaxErrors: 10, Reporter: diag.BagReporter{Bag: bag}})
		if err != nil {
			t.Fatalf("parse %s: %v", f[0], err)
		}
		name := strings.TrimSuffix(f[0], path.Ext(f[0]))
		p.files[strings.TrimSuffix(name, ".d")] = res.File
	}
	if bag.Len() != 0 {
		t.Fatalf("unexpected parse diagnostics: %+v", bag.Items())
	}
	resolver := symbols.ModuleResolverFunc(func(_ ast.FileID, spec string) (ast.FileID, bool) {
		id, ok := p.files[strings.TrimPrefix(spec, "./")]
		return id, ok
	})
	p.table = symbols.Bind(b, symbols.BindOptions{Resolver: resolver})
	p.c = New(b, p.table, nil)
	return p
}

// ident finds the n-th occurrence (0-based) of name with the given role.
func (p *program) ident(t *testing.T, file, name string, role ast.IdentRole, n int) ast.IdentID {
	t.Helper()
	fid := p.files[file]
	count := p.b.Idents.Arena.Len()
	for i := uint32(1); i <= count; i++ {
		id := ast.IdentID(i)
		ident := p.b.Ident(id)
		if ident.Role != role || p.b.Str(ident.Name) != name || p.b.FileOfScope(ident.Scope) != fid {
			continue
		}
		if n == 0 {
			return id
		}
		n--
	}
	t.Fatalf("%s: no %s identifier %q", file, role, name)
	return ast.NoIdentID
}

func (p *program) props(t *testing.T, file, tag string) types.TypeID {
	t.Helper()
	sym := p.c.AliasedSymbol(p.c.SymbolAtLocation(p.ident(t, file, tag, ast.RoleJSXTag, 0)))
	if !sym.IsValid() {
		t.Fatalf("<%s> does not resolve", tag)
	}
	sigs := p.c.CallSignatures(p.c.TypeOfSymbol(sym))
	if len(sigs) == 0 {
		t.Fatalf("<%s> has no call signatures", tag)
	}
	params := p.c.Parameters(sigs[0])
	if len(params) == 0 {
		t.Fatalf("<%s> takes no props", tag)
	}
	return p.c.TypeOfParameter(params[0])
}

// deprecated renders "name:reason" for every deprecated member of t.
func (p *program) deprecated(t types.TypeID) string {
	var out []string
	for _, m := range p.c.Members(t) {
		if m.Doc == nil {
			continue
		}
		if tag, ok := m.Doc.Find(jsdoc.TagDeprecated); ok {
			out = append(out, m.Name+":"+tag.Text)
		}
	}
	return strings.Join(out, ",")
}

func memberNames(ms []types.Member) string {
	names := make([]string, len(ms))
	for i, m := range ms {
		names[i] = m.Name
	}
	return strings.Join(names, ",")
}

const spreadFixture = `import React from 'react';

type TComponentProps = {
  /**
   * @deprecated reason
   * More elaborate description...
   * */
  someProp?: string;
  /** @deprecated reason2 */
  someProp2?: string;
  /** @deprecated reason3 */
  someProp3?: string;
  someProp4?: string;
}

type ComponentProps = Pick<TComponentProps, 'someProp' | 'someProp2'> & {
  /** @deprecated reason3 */
  someProp3?: string;
  /** @deprecated reason4 */
  someProp4?: boolean;
  someOtherProp: number;
}

type TComponentPropsAlt = Partial<ComponentProps>;
const Component = ({ someProp, someOtherProp }: TComponentPropsAlt) => null;

export const Test = () => {
  const props1: Partial<ComponentProps> = { someProp: '', someOtherProp: 1 };
  const prop3 = { someProp2: '' };
  const props2: ComponentProps = { ...prop3, someOtherProp: 1 };
  return <Component {...props2} {...props1} someProp4 />;
};
`

func TestComposedPropsType(t *testing.T) {
	p := check(t, [2]string{"spread.tsx", spreadFixture})

	props := p.props(t, "spread", "Component")
	want := "someProp:reason\nMore elaborate description...,someProp2:reason2,someProp3:reason3,someProp4:reason4"
	if got := p.deprecated(props); got != want {
		t.Fatalf("deprecated members:\n got %q\nwant %q", got, want)
	}
	for _, m := range p.c.Members(props) {
		if !m.Optional {
			t.Errorf("Partial must make %s optional", m.Name)
		}
	}

	for _, name := range []string{"props1", "props2"} {
		sym := p.c.SymbolAtLocation(p.ident(t, "spread", name, ast.RoleRef, 0))
		if got := memberNames(p.c.Members(p.c.TypeOfSymbol(sym))); got != "someProp,someProp2,someProp3,someProp4,someOtherProp" {
			t.Errorf("%s members = %s", name, got)
		}
	}

	prop3 := p.c.SymbolAtLocation(p.ident(t, "spread", "prop3", ast.RoleRef, 0))
	if got := memberNames(p.c.Members(p.c.TypeOfSymbol(prop3))); got != "someProp2" {
		t.Fatalf("prop3 members = %s", got)
	}
}

func TestInterfaceExtendsAndMerging(t *testing.T) {
	p := check(t, [2]string{"a.tsx", `interface Base {
  /** @deprecated use other */
  old?: string;
  shared: number;
}
interface Props extends Base {
  /** own docs win */
  shared: number;
  fresh: string;
}
interface Props {
  /** @deprecated merged */
  later?: boolean;
}
function Comp(props: Props) { return null; }
const el = <Comp old="" />;
`})
	props := p.props(t, "a", "Comp")
	if got := memberNames(p.c.Members(props)); got != "shared,fresh,later,old" {
		t.Fatalf("members = %s", got)
	}
	if got := p.deprecated(props); got != "later:merged,old:use other" {
		t.Fatalf("deprecated = %q", got)
	}
	sym := p.c.SymbolAtLocation(p.ident(t, "a", "Comp", ast.RoleJSXTag, 0))
	if kind := p.c.ValueDeclKind(sym); kind != symbols.DeclFunction {
		t.Fatalf("function component decl kind = %s", kind)
	}
}

func TestGenericsAndUtilities(t *testing.T) {
	p := check(t, [2]string{"a.tsx", `type Box<T, U = number> = {
  /** @deprecated */
  value: T;
  extra: U;
};
type Keys = 'a' | 'b';
type Rec = Record<Keys, string>;
type Narrow = Omit<Box<string>, 'extra'>;
declare const C: (props: Box<string> & { rec: Rec; narrow: Narrow }) => null;
const el = <C value="" />;
`})
	props := p.props(t, "a", "C")
	value, ok := p.c.Types().Property(props, "value")
	if !ok || value.Type != p.c.Types().Builtins().String {
		t.Fatalf("Box<string>.value = %s", p.c.Types().Label(value.Type))
	}
	extra, _ := p.c.Types().Property(props, "extra")
	if extra.Type != p.c.Types().Builtins().Number {
		t.Fatalf("defaulted type argument = %s", p.c.Types().Label(extra.Type))
	}
	if got := p.deprecated(props); got != "value:" {
		t.Fatalf("deprecated = %q", got)
	}
	rec, _ := p.c.Types().Property(props, "rec")
	if got := memberNames(p.c.Members(rec.Type)); got != "a,b" {
		t.Fatalf("Record members = %s", got)
	}
	narrow, _ := p.c.Types().Property(props, "narrow")
	if got := memberNames(p.c.Members(narrow.Type)); got != "value" {
		t.Fatalf("Omit members = %s", got)
	}
}

func TestCrossModuleProps(t *testing.T) {
	p := check(t,
		[2]string{"types.ts", `export type ComponentProps = {
  /** @deprecated reason */
  someProp?: string;
  someOtherProp: number;
};
`},
		[2]string{"pkg.d.ts", `interface WithInterfaceProps {
  /** @deprecated reason2 */
  someProp2?: string;
}
declare const WithInterface: ({ someProp2 }: WithInterfaceProps) => JSX.Element;
export { WithInterface };
`},
		[2]string{"app.tsx", `import { ComponentProps } from './types';
import { WithInterface as Renamed } from './pkg';
const Component = ({ someProp }: ComponentProps) => null;
const a = <Component someProp="" />;
const b = <Renamed someProp2="" />;
`},
	)
	if got := p.deprecated(p.props(t, "app", "Component")); got != "someProp:reason" {
		t.Fatalf("imported props type: %q", got)
	}
	if got := p.deprecated(p.props(t, "app", "Renamed")); got != "someProp2:reason2" {
		t.Fatalf("imported component: %q", got)
	}

	tag := p.c.SymbolAtLocation(p.ident(t, "app", "Renamed", ast.RoleJSXTag, 0))
	if !p.c.IsAlias(tag) {
		t.Fatalf("imported tag must resolve to the import alias")
	}
	if kind := p.c.ValueDeclKind(p.c.AliasedSymbol(tag)); kind != symbols.DeclVariable {
		t.Fatalf("declare const decl kind = %s", kind)
	}
}

func TestReactHelpers(t *testing.T) {
	p := check(t, [2]string{"a.tsx", `import React, { FC, memo, forwardRef } from 'react';
type P = {
  /** @deprecated gone */
  old?: string;
};
const A: FC<P> = (props) => null;
const B = memo(A);
const C: React.FunctionComponent<React.PropsWithChildren<P>> = ({ old }) => null;
const D = forwardRef<HTMLDivElement, P>((props, ref) => null);
const E = React.memo((props: React.ComponentProps<typeof A>) => null);
const els = [<A />, <B />, <C />, <D />, <E />];
`})
	for _, tag := range []string{"A", "B", "C", "D", "E"} {
		if got := p.deprecated(p.props(t, "a", tag)); got != "old:gone" {
			t.Errorf("<%s> deprecated = %q", tag, got)
		}
	}
	param := p.c.SymbolAtLocation(p.ident(t, "a", "props", ast.RoleDecl, 0))
	if got := p.deprecated(p.c.TypeOfSymbol(param)); got != "old:gone" {
		t.Fatalf("contextually typed parameter = %q", got)
	}
}

func TestBindingElementSymbols(t *testing.T) {
	p := check(t, [2]string{"a.ts", `type P = { /** @deprecated */ a?: string; b: number };
function f({ a, b: renamed }: P) {}
`})
	local := p.c.SymbolAtLocation(p.ident(t, "a", "a", ast.RoleBindingElement, 0))
	if kind := p.c.ValueDeclKind(local); kind != symbols.DeclBindingElement {
		t.Fatalf("binding element decl kind = %s", kind)
	}
	pattern := p.table.Symbol(local).Decl.Pattern
	owner := p.b.Pattern(pattern).Owner.Parent
	prop := p.c.PropertyOfType(p.c.TypeAtLocation(ast.PatternNode(owner)), "b")
	if prop == symbols.NoSymbolID || p.c.ValueDeclKind(prop) != symbols.DeclProperty {
		t.Fatalf("property b of the pattern type = %v", prop)
	}
	key := p.c.SymbolAtLocation(p.ident(t, "a", "b", ast.RoleBindingElement, 0))
	if key != prop {
		t.Fatalf("key of `b: renamed` must resolve to the property symbol")
	}
	if ty := p.c.TypeOfSymbol(p.c.SymbolAtLocation(p.ident(t, "a", "renamed", ast.RoleBindingElement, 0))); ty != p.c.Types().Builtins().Number {
		t.Fatalf("renamed = %s", p.c.Types().Label(ty))
	}
}

func TestDestructuringAssignmentProperty(t *testing.T) {
	p := check(t, [2]string{"a.ts", `let a, b;
const src = { a: 'x', nested: { b: 1 } };
({ a, nested: { b } } = src);
const plain = { a };
`})
	sym, err := p.c.DestructuringAssignmentProperty(p.ident(t, "a", "a", ast.RolePropertyKey, 1))
	if err != nil {
		t.Fatalf("destructuring target: %v", err)
	}
	if sym != p.c.PropertyOfType(p.c.TypeOfSymbol(p.c.SymbolAtLocation(p.ident(t, "a", "src", ast.RoleRef, 0))), "a") {
		t.Fatalf("a must resolve to the member of src")
	}
	nested, err := p.c.DestructuringAssignmentProperty(p.ident(t, "a", "b", ast.RolePropertyKey, 1))
	if err != nil || !nested.IsValid() {
		t.Fatalf("nested target: %v, %v", nested, err)
	}

	_, err = p.c.DestructuringAssignmentProperty(p.ident(t, "a", "a", ast.RolePropertyKey, 2))
	if !errors.Is(err, ErrNotDestructuring) {
		t.Fatalf("plain object literal: err = %v", err)
	}
}

func TestRecursiveTypesTerminate(t *testing.T) {
	p := check(t, [2]string{"a.tsx", `interface Node { children: Node[]; parent?: Node }
type Loop = Loop | { x: number };
declare const C: (props: Node) => null;
declare const loop: Loop;
const el = <C />;
`})
	props := p.props(t, "a", "C")
	if got := memberNames(p.c.Members(props)); got != "children,parent" {
		t.Fatalf("members = %s", got)
	}
	parent, _ := p.c.Types().Property(props, "parent")
	if parent.Type != props {
		t.Fatalf("self reference must yield the same interface type")
	}
	loop := p.c.SymbolAtLocation(p.ident(t, "a", "loop", ast.RoleDecl, 0))
	if kind := p.c.Types().KindOf(p.c.TypeOfSymbol(loop)); kind != types.KindAny {
		t.Fatalf("circular alias = %s", kind)
	}
}
