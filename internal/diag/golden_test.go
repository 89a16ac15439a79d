package diag

import (
	"testing"

	"propguard/internal/source"
)

func TestFormatGoldenDiagnostics(t *testing.T) {
	fs := source.NewFileSet()
	fs.SetBaseDir("/workspace")

	userFile := fs.Add("/workspace/src/App.tsx", []byte("a\nb\n"), 0)
	depFile := fs.Add("/workspace/node_modules/ui/index.d.ts", []byte("x\n"), 0)

	diags := []Diagnostic{
		{
			Severity: SevWarning,
			Code:     LintDeprecatedProp,
			Message:  "Prop 'someProp' is deprecated. reason\nMore elaborate description...",
			Primary:  source.Span{File: userFile, Start: 2, End: 3},
			Notes: []Note{
				{Span: source.Span{File: depFile, Start: 0, End: 1}, Msg: "skip me"},
			},
		},
		{
			Severity: SevError,
			Code:     SynUnexpectedToken,
			Message:  "unexpected syntax",
			Primary:  source.Span{File: userFile, Start: 0, End: 1},
		},
	}

	expected := "error SYN2001 src/App.tsx:1:1 unexpected syntax\n" +
		"warning LNT9001 src/App.tsx:2:1 Prop 'someProp' is deprecated. reason More elaborate description..."

	if got := FormatGoldenDiagnostics(diags, fs, true); got != expected {
		t.Fatalf("unexpected golden diagnostics:\nwant:\n%s\n\ngot:\n%s", expected, got)
	}

	short := FormatShortDiagnostics(diags, fs, true)
	if want := "note LNT9001 node_modules/ui/index.d.ts:1:1 skip me\n" + expected; short != want {
		t.Fatalf("unexpected short diagnostics:\nwant:\n%s\n\ngot:\n%s", want, short)
	}
}

func TestFormatGoldenDiagnosticsEmpty(t *testing.T) {
	if got := FormatGoldenDiagnostics(nil, source.NewFileSet(), false); got != "" {
		t.Fatalf("expected empty output, got %q", got)
	}
}
