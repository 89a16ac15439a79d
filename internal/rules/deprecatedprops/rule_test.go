package deprecatedprops

import (
	"context"
	"fmt"
	"path"
	"strings"
	"testing"

	"propguard/internal/ast"
	"propguard/internal/checker"
	"propguard/internal/diag"
	"propguard/internal/lint"
	"propguard/internal/parser"
	"propguard/internal/source"
	"propguard/internal/symbols"
)

type file struct{ name, src string }

// lintFiles type checks files and lints the first one. Each diagnostic is
// rendered as "line:col-endcol CODE message".
func lintFiles(t *testing.T, opts lint.Options, typed bool, files ...file) []string {
	t.Helper()
	fs := source.NewFileSet()
	b := ast.NewBuilder(ast.Hints{}, nil)
	bag := diag.NewBag(100)
	ids := make(map[string]ast.FileID)
	var target ast.FileID
	for i, f := range files {
		id := fs.AddVirtual(f.name, []byte(f.src))
		res, err := parser.ParseFile(context.Background(), fs, id, b, parser.Options{MaxErrors: 10, Reporter: diag.BagReporter{Bag: bag}})
		if err != nil {
			t.Fatalf("parse %s: %v", f.name, err)
		}
		name := strings.TrimSuffix(f.name, path.Ext(f.name))
		ids[strings.TrimSuffix(name, ".d")] = res.File
		if i == 0 {
			target = res.File
		}
	}
	if bag.Len() != 0 {
		t.Fatalf("unexpected parse diagnostics: %+v", bag.Items())
	}
	resolver := symbols.ModuleResolverFunc(func(_ ast.FileID, spec string) (ast.FileID, bool) {
		id, ok := ids[strings.TrimPrefix(spec, "./")]
		return id, ok
	})
	table := symbols.Bind(b, symbols.BindOptions{Resolver: resolver})
	var c *checker.Checker
	if typed {
		c = checker.New(b, table, nil)
	}

	out := diag.NewBag(100)
	runner := lint.NewRunner(b, c, []lint.Enabled{{Rule: New(), Severity: diag.SevWarning, Options: opts}})
	runner.LintFile(target, diag.BagReporter{Bag: out})

	var lines []string
	for _, d := range out.Items() {
		start, end := fs.Resolve(d.Primary)
		if d.Rule != Name || d.Severity != diag.SevWarning {
			t.Errorf("diagnostic %+v: wrong rule or severity", d)
		}
		lines = append(lines, fmt.Sprintf("%d:%d-%d %s %s", start.Line, start.Col, end.Col, d.Code.ID(), d.Message))
	}
	return lines
}

func expect(t *testing.T, got []string, want ...string) {
	t.Helper()
	if strings.Join(got, "\n") != strings.Join(want, "\n") {
		t.Fatalf("diagnostics:\n%s\nwant:\n%s", strings.Join(got, "\n"), strings.Join(want, "\n"))
	}
}

const scenarioTypes = `
type Props = {
  /** @deprecated reason */
  someProp?: string;
  /** @deprecated reason2 */
  someProp2?: string;
  someOtherProp: number;
};
const C = (props: Props) => null;
`

func TestDirectUse(t *testing.T) {
	got := lintFiles(t, nil, true, file{"a.tsx", scenarioTypes + `const el = <C someProp="" someOtherProp={1} />;`})
	expect(t, got, `10:15-23 LNT9001 Prop 'someProp' is deprecated. reason`)
}

func TestTwoDirectUses(t *testing.T) {
	got := lintFiles(t, nil, true, file{"a.tsx", scenarioTypes + `const el = <C someProp2="" someProp="" someOtherProp={1} />;`})
	expect(t, got,
		`10:15-24 LNT9001 Prop 'someProp2' is deprecated. reason2`,
		`10:28-36 LNT9001 Prop 'someProp' is deprecated. reason`,
	)
}

func TestSpreadUse(t *testing.T) {
	src := scenarioTypes + `const obj = { someProp: '' };
const el = <C {...obj} otherProp={1} />;`
	got := lintFiles(t, nil, true, file{"a.tsx", src})
	expect(t, got, `11:19-22 LNT9002 Spread object 'obj' may contain deprecated prop 'someProp'. reason`)

	if got := lintFiles(t, lint.Options{OptCheckSpreadArguments: false}, true, file{"a.tsx", src}); len(got) != 0 {
		t.Fatalf("spread check disabled, got %v", got)
	}
}

func TestNoAttributes(t *testing.T) {
	got := lintFiles(t, nil, true, file{"a.tsx", scenarioTypes + `const el = <C></C>;`})
	expect(t, got)
}

func TestPassThrough(t *testing.T) {
	src := scenarioTypes + `const el = <C someOtherProp={1} {...{ someProp: '' }} />;
const nested = <div><C someOtherProp={2}>text</C></div>;`
	expect(t, lintFiles(t, nil, true, file{"a.tsx", src}))
}

func TestSkippedDeclarations(t *testing.T) {
	src := `
type Props = { /** @deprecated gone */ old?: string };
function Decl(props: Props) { return null; }
const Lib = { Button: (props: Props) => null };
const { Picked } = { Picked: (props: Props) => null };
const a = <Decl old="" />;
const b = <Lib.Button old="" />;
const c = <Picked old="" />;
`
	expect(t, lintFiles(t, nil, true, file{"a.tsx", src}))
}

func TestWithoutTypeInformation(t *testing.T) {
	got := lintFiles(t, nil, false, file{"a.tsx", scenarioTypes + `const el = <C someProp="" />;`})
	expect(t, got)
}

func TestNestedSameTagElements(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want []string
	}{
		{
			"element in attribute value",
			`const el = <C render={<C someProp="" />} someProp2="" />;`,
			[]string{
				`10:42-51 LNT9001 Prop 'someProp2' is deprecated. reason2`,
				`10:26-34 LNT9001 Prop 'someProp' is deprecated. reason`,
			},
		},
		{
			"element as child",
			`const el = <C someProp2=""><C someProp="" /></C>;`,
			[]string{
				`10:15-24 LNT9001 Prop 'someProp2' is deprecated. reason2`,
				`10:31-39 LNT9001 Prop 'someProp' is deprecated. reason`,
			},
		},
		{
			"inner element without attributes",
			`const el = <C someProp="" render={<C />} />;`,
			[]string{
				`10:15-23 LNT9001 Prop 'someProp' is deprecated. reason`,
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			expect(t, lintFiles(t, nil, true, file{"a.tsx", scenarioTypes + tt.src}), tt.want...)
		})
	}
}

func TestInlineLinkInReason(t *testing.T) {
	src := `type L = { /** @deprecated use {@link b} instead */ a?: string; b?: string };
const Linked = (props: L) => null;
const o = { a: '' };
const e = <Linked {...o} a="" />;`
	expect(t, lintFiles(t, nil, true, file{"a.tsx", src}),
		`4:23-24 LNT9002 Spread object 'o' may contain deprecated prop 'a'. use `,
		`4:26-27 LNT9001 Prop 'a' is deprecated. use {@link b} instead`,
	)
}

// Union members come from the last constituent, so its deprecation text wins.
func TestUnionPropsUseLastConstituent(t *testing.T) {
	src := `type A = { /** @deprecated x */ a?: string };
type B = { /** @deprecated y */ a?: string };
const U = (props: A | B) => null;
const e = <U a="" />;`
	expect(t, lintFiles(t, nil, true, file{"a.tsx", src}), `4:14-15 LNT9001 Prop 'a' is deprecated. y`)
}

func TestReactComponentHelpers(t *testing.T) {
	src := `import React, { FC, memo } from 'react';
type Props = { /** @deprecated use size */ scale?: number; size?: number };
const Plain: FC<Props> = () => null;
const Memo = memo(Plain);
const Ref = React.forwardRef<HTMLElement, Props>((props, ref) => null);
const el = <>
  <Plain scale={1} />
  <Memo scale={1} size={2} />
  <Ref scale={1} />
</>;
`
	got := lintFiles(t, nil, true, file{"a.tsx", src})
	expect(t, got,
		`7:10-15 LNT9001 Prop 'scale' is deprecated. use size`,
		`8:9-14 LNT9001 Prop 'scale' is deprecated. use size`,
		`9:8-13 LNT9001 Prop 'scale' is deprecated. use size`,
	)
}
