package source

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFileSetVersioning(t *testing.T) {
	fs := NewFileSet()

	id1 := fs.Add("test.tsx", []byte("hello world"), 0)
	id2 := fs.Add("test.tsx", []byte("hello universe"), 0)
	if id1 != 0 || id2 != 1 {
		t.Fatalf("unexpected ids %d, %d", id1, id2)
	}

	latest, ok := fs.GetLatest("test.tsx")
	if !ok || latest != id2 {
		t.Fatalf("GetLatest = %d, %v; want %d", latest, ok, id2)
	}
	if got := string(fs.Get(id1).Content); got != "hello world" {
		t.Errorf("first version content = %q", got)
	}
	if fs.Len() != 2 {
		t.Errorf("Len = %d, want 2", fs.Len())
	}
}

func TestAddDetectsLanguage(t *testing.T) {
	fs := NewFileSet()
	tests := []struct {
		path string
		lang Lang
		decl bool
	}{
		{"a/Button.tsx", LangTSX, false},
		{"a/types.ts", LangTS, false},
		{"node_modules/pkg/index.d.ts", LangTS, true},
		{"legacy.jsx", LangTSX, false},
		{"README.md", LangUnknown, false},
	}
	for _, tt := range tests {
		f := fs.Get(fs.AddVirtual(tt.path, nil))
		if f.Lang != tt.lang {
			t.Errorf("%s: lang = %s, want %s", tt.path, f.Lang, tt.lang)
		}
		if f.IsDeclaration() != tt.decl {
			t.Errorf("%s: IsDeclaration = %v, want %v", tt.path, f.IsDeclaration(), tt.decl)
		}
		if f.Flags&FileVirtual == 0 {
			t.Errorf("%s: expected FileVirtual flag", tt.path)
		}
	}
}

func TestResolve(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("x.tsx", []byte("const a = 1;\n  <C someProp />\n"))

	start, end := fs.Resolve(Span{File: id, Start: 18, End: 26})
	if start.Line != 2 || start.Col != 6 {
		t.Errorf("start = %+v, want 2:6", start)
	}
	if end.Line != 2 || end.Col != 14 {
		t.Errorf("end = %+v, want 2:14", end)
	}
	if got := fs.Text(Span{File: id, Start: 18, End: 26}); got != "someProp" {
		t.Errorf("Text = %q", got)
	}

	start, _ = fs.Resolve(Span{File: id, Start: 0, End: 0})
	if start.Line != 1 || start.Col != 1 {
		t.Errorf("offset 0 = %+v, want 1:1", start)
	}
	// '\n' принадлежит строке, которую он завершает
	start, _ = fs.Resolve(Span{File: id, Start: 12, End: 12})
	if start.Line != 1 || start.Col != 13 {
		t.Errorf("newline offset = %+v, want 1:13", start)
	}
}

func TestGetLine(t *testing.T) {
	fs := NewFileSet()
	f := fs.Get(fs.AddVirtual("x.ts", []byte("one\ntwo\nthree")))
	cases := map[uint32]string{0: "", 1: "one", 2: "two", 3: "three", 4: ""}
	for line, want := range cases {
		if got := f.GetLine(line); got != want {
			t.Errorf("GetLine(%d) = %q, want %q", line, got, want)
		}
	}
}

func TestLoadNormalizesContent(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "crlf.tsx")
	if err := os.WriteFile(path, []byte("\xEF\xBB\xBFa\r\nb\r\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	fs := NewFileSet()
	id, err := fs.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	f := fs.Get(id)
	if string(f.Content) != "a\nb\n" {
		t.Errorf("content = %q", f.Content)
	}
	if f.Flags&FileHadBOM == 0 || f.Flags&FileNormalizedCRLF == 0 {
		t.Errorf("flags = %b, want BOM and CRLF bits", f.Flags)
	}
	if _, err := fs.Load(filepath.Join(dir, "missing.tsx")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestFormatPath(t *testing.T) {
	f := &File{Path: "/work/project/src/components/Button.tsx"}
	if got := f.FormatPath("basename", ""); got != "Button.tsx" {
		t.Errorf("basename = %q", got)
	}
	if got := f.FormatPath("relative", "/work/project"); got != "src/components/Button.tsx" {
		t.Errorf("relative = %q", got)
	}
	if got := f.FormatPath("", ""); got != f.Path {
		t.Errorf("default = %q", got)
	}
}
