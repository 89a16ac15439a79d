package project

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseDefaults(t *testing.T) {
	cfg, err := Parse("")
	if err != nil {
		t.Fatal(err)
	}
	if strings.Join(cfg.Lint.Extensions, ",") != ".tsx,.jsx,.ts" || len(cfg.Resolve.NodeModules) != 1 {
		t.Fatalf("defaults = %+v", cfg)
	}
}

func TestParseDefaultTOML(t *testing.T) {
	cfg, err := Parse(DefaultTOML)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Join(cfg.Lint.Include, ",") != "src" {
		t.Fatalf("include = %v", cfg.Lint.Include)
	}
	rules := cfg.RuleSettings()
	if len(rules) != 1 || rules[0].Name != "deprecated-props" || rules[0].Severity != "warning" {
		t.Fatalf("rules = %+v", rules)
	}
	if v, ok := rules[0].Options["checkSpreadArguments"].(bool); !ok || !v {
		t.Fatalf("options = %+v", rules[0].Options)
	}
}

func TestParseRejects(t *testing.T) {
	cases := map[string]string{
		"unknown section": "[lnt]\ninclude = []\n",
		"unknown key":     "[lint]\nincludes = []\n",
		"bad extension":   "[lint]\nextensions = [\"tsx\"]\n",
		"bad severity":    "[rules.x]\nseverity = 2\n",
		"syntax":          "[lint\n",
	}
	for name, text := range cases {
		if _, err := Parse(text); !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("%s: err = %v", name, err)
		}
	}
}

func TestCamelCase(t *testing.T) {
	for in, want := range map[string]string{
		"check-spread-arguments": "checkSpreadArguments",
		"checkSpreadArguments":   "checkSpreadArguments",
		"a--b":                   "aB",
	} {
		if got := CamelCase(in); got != want {
			t.Errorf("CamelCase(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestFindConfigAndWriteDefault(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "src", "components")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}
	if _, ok, err := FindConfig(nested); err != nil || ok {
		t.Fatalf("found config in empty tree: ok=%v err=%v", ok, err)
	}
	path, err := WriteDefault(root)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := WriteDefault(root); err == nil {
		t.Fatalf("second WriteDefault succeeded")
	}
	found, ok, err := FindConfig(nested)
	if err != nil || !ok || found != path {
		t.Fatalf("FindConfig = %q, %v, %v", found, ok, err)
	}
	dir, ok, _ := FindProjectRoot(nested)
	if !ok || dir != root {
		t.Fatalf("FindProjectRoot = %q", dir)
	}
	cfg, err := Load(path)
	if err != nil || cfg.Root != root {
		t.Fatalf("Load = %+v, %v", cfg, err)
	}
	if _, err := Load(filepath.Join(root, "missing.toml")); !errors.Is(err, ErrConfigNotFound) {
		t.Fatalf("missing config: err = %v", err)
	}
}

func TestHashStringsIsOrderIndependent(t *testing.T) {
	if HashStrings("a", "b") != HashStrings("b", "a") || HashStrings("a") == HashStrings("b") {
		t.Fatalf("HashStrings order dependence")
	}
	if Combine(HashStrings("x")) == Combine(HashStrings("x"), HashStrings("y")) {
		t.Fatalf("Combine ignores deps")
	}
}
