package diagfmt

import (
	"bytes"
	"strings"
	"testing"

	"propguard/internal/diag"
	"propguard/internal/source"
)

// TestPathModes проверяет различные режимы форматирования путей
func TestPathModes(t *testing.T) {
	fs, bag := sampleBag("/home/user/project/src/button.tsx")
	fs.SetBaseDir("/home/user/project")

	tests := []struct {
		name     string
		mode     PathMode
		contains string
	}{
		{"Absolute path", PathModeAbsolute, "/home/user/project/src/button.tsx:2:20"},
		{"Relative path", PathModeRelative, "src/button.tsx:2:20"},
		{"Basename only", PathModeBasename, "button.tsx:2:20"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			Pretty(&buf, bag, fs, PrettyOpts{Context: 1, PathMode: tt.mode})
			output := buf.String()

			if !strings.Contains(output, tt.contains) {
				t.Errorf("Expected output to contain %q, got:\n%s", tt.contains, output)
			}
			if !strings.Contains(output, "WARNING LNT9001: Prop 'color' is deprecated. use tone") {
				t.Errorf("Expected header line, got:\n%s", output)
			}
		})
	}
}

func TestPrettySnippet(t *testing.T) {
	fs, bag := sampleBag("button.tsx")

	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{Context: 1, PathMode: PathModeBasename, ShowRule: true})

	want := strings.Join([]string{
		"button.tsx:2:20: WARNING LNT9001: Prop 'color' is deprecated. use tone",
		"  |",
		"1 | const Button = (p: Props) => null;",
		"2 | const el = <Button color=\"red\" />;",
		"  |                    ^~~~~",
		"  = rule: deprecated-props",
		"",
	}, "\n")
	if got := buf.String(); got != want {
		t.Fatalf("unexpected output:\n%s\nwant:\n%s", got, want)
	}
}

func TestPrettyMultilineMessageAndNotes(t *testing.T) {
	fs := source.NewFileSet()
	content := []byte("const el = <Box {...rest} />;\n")
	fileID := fs.AddVirtual("box.tsx", content)

	bag := diag.NewBag(4)
	d := diag.New(
		diag.SevError,
		diag.LintDeprecatedSpreadProp,
		source.Span{File: fileID, Start: 20, End: 24},
		"Spread object 'rest' may contain deprecated prop 'tone'. old\nuse color instead",
	).WithNote(source.Span{File: fileID, Start: 12, End: 15}, "component declared here")
	bag.Add(d)

	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{PathMode: PathModeBasename, ShowNotes: true})
	output := buf.String()

	for _, want := range []string{
		"box.tsx:1:21: ERROR LNT9002: Spread object 'rest' may contain deprecated prop 'tone'. old\n",
		"\n    use color instead\n",
		"1 | const el = <Box {...rest} />;\n",
		"  |                     ^~~~\n",
		"= note: box.tsx:1:13: component declared here",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("expected %q in output:\n%s", want, output)
		}
	}
}

func TestUnderlineWideRunes(t *testing.T) {
	tests := []struct {
		text     string
		from, to int
		pad      string
		marker   string
	}{
		{"abc def", 4, 7, "    ", "^~~"},
		{"\tx = 1", 1, 2, "\t", "^"},
		{"日本 = x", 7, 8, "     ", "^"},
		{"a = 日本", 4, 10, "    ", "^~~~"},
		{"short", 9, 12, "     ", "^"},
	}
	for _, tt := range tests {
		pad, marker := underline(tt.text, tt.from, tt.to)
		if pad != tt.pad || marker != tt.marker {
			t.Errorf("underline(%q, %d, %d) = %q, %q; want %q, %q", tt.text, tt.from, tt.to, pad, marker, tt.pad, tt.marker)
		}
	}
}

func TestShort(t *testing.T) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("a.tsx", []byte(sampleTSX))
	bag := diag.NewBag(0)
	bag.Add(diag.New(diag.SevWarning, diag.LintDeprecatedProp, source.Span{File: fileID, Start: 54, End: 59}, "Prop 'color' is deprecated. first\nsecond").WithRule("deprecated-props"))
	bag.Add(diag.NewError(diag.SynUnexpectedToken, source.Span{File: fileID, Start: 0, End: 5}, "unexpected token"))

	var buf bytes.Buffer
	if err := Short(&buf, bag, fs, PathModeBasename); err != nil {
		t.Fatalf("Short: %v", err)
	}
	want := "a.tsx:2:20: WARNING LNT9001: Prop 'color' is deprecated. first second [deprecated-props]\n" +
		"a.tsx:1:1: ERROR SYN2001: unexpected token\n"
	if got := buf.String(); got != want {
		t.Fatalf("got:\n%s\nwant:\n%s", got, want)
	}
}

func TestParsePathMode(t *testing.T) {
	for in, want := range map[string]PathMode{
		"":         PathModeAuto,
		"auto":     PathModeAuto,
		"absolute": PathModeAbsolute,
		"REL":      PathModeRelative,
		"basename": PathModeBasename,
	} {
		got, err := ParsePathMode(in)
		if err != nil || got != want {
			t.Errorf("ParsePathMode(%q) = %v, %v", in, got, err)
		}
	}
	if _, err := ParsePathMode("sideways"); err == nil {
		t.Error("expected an error for an unknown mode")
	}
}
