package diagfmt

import (
	"bytes"
	"encoding/json"
	"testing"

	"propguard/internal/diag"
	"propguard/internal/source"
)

const sampleTSX = `const Button = (p: Props) => null;
const el = <Button color="red" />;
`

// sampleBag returns a warning for the "color" attribute on line 2.
func sampleBag(path string) (*source.FileSet, *diag.Bag) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual(path, []byte(sampleTSX))
	bag := diag.NewBag(10)
	// "color" начинается на смещении 54
	d := diag.New(
		diag.SevWarning,
		diag.LintDeprecatedProp,
		source.Span{File: fileID, Start: 54, End: 59},
		"Prop 'color' is deprecated. use tone",
	).WithRule("deprecated-props")
	bag.Add(d)
	return fs, bag
}

// TestJSONBasic проверяет базовое JSON форматирование
func TestJSONBasic(t *testing.T) {
	fs, bag := sampleBag("button.tsx")

	var buf bytes.Buffer
	opts := JSONOpts{
		IncludePositions: true,
		PathMode:         PathModeBasename,
	}
	if err := JSON(&buf, bag, fs, opts); err != nil {
		t.Fatalf("JSON() error: %v", err)
	}

	var output DiagnosticsOutput
	if err := json.Unmarshal(buf.Bytes(), &output); err != nil {
		t.Fatalf("Invalid JSON output: %v\nOutput: %s", err, buf.String())
	}
	if output.Count != 1 || len(output.Diagnostics) != 1 {
		t.Fatalf("Expected 1 diagnostic, got %d", output.Count)
	}

	d := output.Diagnostics[0]
	if d.Severity != "WARNING" {
		t.Errorf("Expected severity=WARNING, got %s", d.Severity)
	}
	if d.Code != "LNT9001" {
		t.Errorf("Expected code=LNT9001, got %s", d.Code)
	}
	if d.Rule != "deprecated-props" {
		t.Errorf("Expected rule=deprecated-props, got %s", d.Rule)
	}
	if d.Location.File != "button.tsx" {
		t.Errorf("Expected file=button.tsx, got %s", d.Location.File)
	}
	if d.Location.StartByte != 54 || d.Location.EndByte != 59 {
		t.Errorf("Expected bytes 54..59, got %d..%d", d.Location.StartByte, d.Location.EndByte)
	}
	if d.Location.StartLine != 2 || d.Location.StartCol != 20 || d.Location.EndCol != 25 {
		t.Errorf("Expected 2:20-25, got %d:%d-%d", d.Location.StartLine, d.Location.StartCol, d.Location.EndCol)
	}
}

func TestJSONWithoutPositions(t *testing.T) {
	fs, bag := sampleBag("button.tsx")

	var buf bytes.Buffer
	if err := JSON(&buf, bag, fs, JSONOpts{PathMode: PathModeBasename}); err != nil {
		t.Fatalf("JSON() error: %v", err)
	}
	if bytes.Contains(buf.Bytes(), []byte("start_line")) {
		t.Fatalf("positions must be omitted, got:\n%s", buf.String())
	}
}

func TestJSONNotes(t *testing.T) {
	fs, bag := sampleBag("button.tsx")
	d := bag.Items()[0]
	bag = diag.NewBag(0)
	bag.Add(d.WithNote(source.Span{File: d.Primary.File, Start: 6, End: 12}, "declared here"))

	for _, include := range []bool{false, true} {
		out := BuildDiagnosticsOutput(bag, fs, JSONOpts{IncludeNotes: include, IncludePositions: true})
		notes := out.Diagnostics[0].Notes
		if !include {
			if len(notes) != 0 {
				t.Fatalf("notes must be skipped, got %v", notes)
			}
			continue
		}
		if len(notes) != 1 || notes[0].Message != "declared here" || notes[0].Location.StartCol != 7 {
			t.Fatalf("unexpected notes %+v", notes)
		}
	}
}

func TestJSONMaxLimit(t *testing.T) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("many.tsx", []byte(sampleTSX))
	bag := diag.NewBag(0)
	for i := range 5 {
		bag.Add(diag.New(diag.SevWarning, diag.LintDeprecatedProp, source.Span{File: fileID, Start: uint32(i), End: uint32(i + 1)}, "x"))
	}

	out := BuildDiagnosticsOutput(bag, fs, JSONOpts{Max: 3})
	if out.Count != 3 || out.Total != 5 {
		t.Fatalf("count=%d total=%d, want 3/5", out.Count, out.Total)
	}
}

// TestJSONPathModes проверяет различные режимы путей
func TestJSONPathModes(t *testing.T) {
	fs, bag := sampleBag("/home/user/project/src/button.tsx")
	fs.SetBaseDir("/home/user/project")

	tests := []struct {
		name     string
		pathMode PathMode
		want     string
	}{
		{"Absolute", PathModeAbsolute, "/home/user/project/src/button.tsx"},
		{"Relative", PathModeRelative, "src/button.tsx"},
		{"Basename", PathModeBasename, "button.tsx"},
		{"Auto", PathModeAuto, "src/button.tsx"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := BuildDiagnosticsOutput(bag, fs, JSONOpts{PathMode: tt.pathMode})
			if got := out.Diagnostics[0].Location.File; got != tt.want {
				t.Errorf("file = %q, want %q", got, tt.want)
			}
		})
	}

	// вне базового каталога auto оставляет короткий путь как есть
	fs.SetBaseDir("/elsewhere")
	out := BuildDiagnosticsOutput(bag, fs, JSONOpts{PathMode: PathModeAuto})
	if got := out.Diagnostics[0].Location.File; got != "/home/user/project/src/button.tsx" {
		t.Errorf("auto outside base dir = %q", got)
	}
}

func TestSarif(t *testing.T) {
	fs, bag := sampleBag("button.tsx")
	bag.Add(diag.NewError(diag.SynUnexpectedToken, source.Span{File: 0, Start: 0, End: 5}, "unexpected token"))

	var buf bytes.Buffer
	meta := SarifRunMeta{
		ToolName:       "propguard",
		ToolVersion:    "1.2.3",
		InvocationArgs: []string{"lint", "src"},
		Rules: []SarifRule{{
			Name:    "deprecated-props",
			HelpURI: "https://example.com/rules/deprecated-props",
			Codes:   []string{"LNT9001", "LNT9002"},
		}},
	}
	if err := Sarif(&buf, bag, fs, meta); err != nil {
		t.Fatalf("Sarif() error: %v", err)
	}

	var log struct {
		Version string `json:"version"`
		Runs    []struct {
			Tool struct {
				Driver struct {
					Name  string `json:"name"`
					Rules []struct {
						ID      string `json:"id"`
						Name    string `json:"name"`
						HelpURI string `json:"helpUri"`
					} `json:"rules"`
				} `json:"driver"`
			} `json:"tool"`
			Invocations []struct {
				ExecutionSuccessful bool `json:"executionSuccessful"`
			} `json:"invocations"`
			Results []struct {
				RuleID    string `json:"ruleId"`
				RuleIndex int    `json:"ruleIndex"`
				Level     string `json:"level"`
			} `json:"results"`
		} `json:"runs"`
	}
	if err := json.Unmarshal(buf.Bytes(), &log); err != nil {
		t.Fatalf("invalid SARIF: %v\n%s", err, buf.String())
	}
	if log.Version != "2.1.0" || len(log.Runs) != 1 {
		t.Fatalf("unexpected log header: %+v", log)
	}
	run := log.Runs[0]
	if run.Tool.Driver.Name != "propguard" || len(run.Tool.Driver.Rules) != 2 {
		t.Fatalf("unexpected driver: %+v", run.Tool.Driver)
	}
	// правила отсортированы по id: LNT9001 < SYN2001
	lnt := run.Tool.Driver.Rules[0]
	if lnt.ID != "LNT9001" || lnt.Name != "deprecated-props" || lnt.HelpURI == "" {
		t.Errorf("unexpected rule descriptor %+v", lnt)
	}
	if len(run.Results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(run.Results))
	}
	if r := run.Results[0]; r.RuleID != "LNT9001" || r.RuleIndex != 0 || r.Level != "warning" {
		t.Errorf("unexpected result %+v", r)
	}
	if r := run.Results[1]; r.RuleID != "SYN2001" || r.RuleIndex != 1 || r.Level != "error" {
		t.Errorf("unexpected result %+v", r)
	}
	if len(run.Invocations) != 1 || run.Invocations[0].ExecutionSuccessful {
		t.Errorf("invocation must report failure: %+v", run.Invocations)
	}
}
