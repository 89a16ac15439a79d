package driver

import (
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"propguard/internal/diag"
	"propguard/internal/lint"
	"propguard/internal/project"
	"propguard/internal/rules"
)

func mustParse(t *testing.T, text string) *project.Config {
	t.Helper()
	cfg, err := project.Parse(text)
	if err != nil {
		t.Fatalf("Parse(%q): %v", text, err)
	}
	return cfg
}

func TestEnabledRules(t *testing.T) {
	yes, no := true, false
	tests := []struct {
		name   string
		config string
		ov     RuleOverrides
		sev    diag.Severity
		spread any // nil: option unset
		off    bool
	}{
		{name: "defaults", sev: diag.SevWarning},
		{name: "alias", config: "[rules.deprecated-jsx-props]\nseverity = \"error\"\n", sev: diag.SevError},
		{name: "kebab option", config: "[rules.deprecated-props]\ncheck-spread-arguments = false\n", sev: diag.SevWarning, spread: false},
		{name: "off", config: "[rules.deprecated-props]\nseverity = \"off\"\n", off: true},
		{name: "override severity", config: "[rules.deprecated-props]\nseverity = \"error\"\n", ov: RuleOverrides{Severity: "info"}, sev: diag.SevInfo},
		{name: "override enables", config: "[rules.deprecated-props]\nseverity = \"off\"\n", ov: RuleOverrides{Severity: "warn"}, sev: diag.SevWarning},
		{name: "override spread", config: "[rules.deprecated-props]\ncheckSpreadArguments = false\n", ov: RuleOverrides{CheckSpreadArguments: &yes}, sev: diag.SevWarning, spread: true},
		{name: "override spread off", ov: RuleOverrides{CheckSpreadArguments: &no}, sev: diag.SevWarning, spread: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := mustParse(t, tt.config)
			enabled, err := EnabledRules(rules.Registry(), cfg, tt.ov)
			if err != nil {
				t.Fatalf("EnabledRules: %v", err)
			}
			if tt.off {
				if len(enabled) != 0 {
					t.Fatalf("expected no rules, got %d", len(enabled))
				}
				return
			}
			if len(enabled) != 1 {
				t.Fatalf("expected 1 rule, got %d", len(enabled))
			}
			e := enabled[0]
			if e.Rule.Meta().Name != "deprecated-props" {
				t.Fatalf("rule = %s", e.Rule.Meta().Name)
			}
			if e.Severity != tt.sev {
				t.Errorf("severity = %v, want %v", e.Severity, tt.sev)
			}
			got, set := e.Options["checkSpreadArguments"]
			if tt.spread == nil && set {
				t.Errorf("checkSpreadArguments = %v, want unset", got)
			}
			if tt.spread != nil && got != tt.spread {
				t.Errorf("checkSpreadArguments = %v, want %v", got, tt.spread)
			}
		})
	}
}

func TestEnabledRulesErrors(t *testing.T) {
	tests := []struct {
		name   string
		config string
		ov     RuleOverrides
		code   diag.Code
		target error
	}{
		{name: "unknown rule", config: "[rules.no-such-rule]\nseverity = \"error\"\n", code: diag.CfgUnknownRule},
		{name: "bad severity", config: "[rules.deprecated-props]\nseverity = \"loud\"\n", code: diag.CfgInvalidSeverity},
		{name: "unknown option", config: "[rules.deprecated-props]\ncheck-everything = true\n", code: diag.CfgInvalidOption, target: lint.ErrUnknownOption},
		{name: "option type", config: "[rules.deprecated-props]\ncheck-spread-arguments = \"yes\"\n", code: diag.CfgInvalidOption, target: lint.ErrOptionType},
		{name: "bad override", ov: RuleOverrides{Severity: "fatal"}, code: diag.CfgInvalidSeverity},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := EnabledRules(rules.Registry(), mustParse(t, tt.config), tt.ov)
			var cfgErr *ConfigError
			if !errors.As(err, &cfgErr) {
				t.Fatalf("err = %v, want *ConfigError", err)
			}
			if cfgErr.Code != tt.code {
				t.Fatalf("code = %s, want %s", cfgErr.Code.ID(), tt.code.ID())
			}
			if tt.target != nil && !errors.Is(err, tt.target) {
				t.Fatalf("err = %v, want wrapping %v", err, tt.target)
			}
			if !strings.HasPrefix(err.Error(), tt.code.ID()+": ") {
				t.Fatalf("message %q lacks code prefix", err.Error())
			}
		})
	}
}

func TestUnknownRuleListsKnownRules(t *testing.T) {
	_, err := EnabledRules(rules.Registry(), mustParse(t, "[rules.nope]\nseverity = \"error\"\n"), RuleOverrides{})
	if err == nil || !strings.Contains(err.Error(), "rules.nope") || !strings.Contains(err.Error(), "deprecated-props") {
		t.Fatalf("err = %v", err)
	}
}

func TestCollectTargets(t *testing.T) {
	cfg := project.Default()
	got, err := CollectTargets([]string{fixtures}, cfg)
	if err != nil {
		t.Fatalf("CollectTargets: %v", err)
	}
	if len(got) != 9 {
		t.Fatalf("got %d files: %v", len(got), got)
	}
	for _, p := range got {
		if strings.Contains(p, "node_modules") {
			t.Errorf("excluded path collected: %s", p)
		}
		if !filepath.IsAbs(filepath.FromSlash(p)) {
			t.Errorf("path not absolute: %s", p)
		}
	}

	// явный файл и каталог с ним не дают дубликатов
	again, err := CollectTargets([]string{fixtures, filepath.Join(fixtures, "local-type.tsx")}, cfg)
	if err != nil || len(again) != 9 {
		t.Fatalf("dedup: %d files, err %v", len(again), err)
	}
}

func TestCollectTargetsConfig(t *testing.T) {
	root := t.TempDir()
	files := []string{"src/a.tsx", "src/b.jsx", "src/c.ts", "src/d.js", "src/gen/e.tsx", "other/f.tsx"}
	for _, f := range files {
		p := filepath.Join(root, filepath.FromSlash(f))
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(p, nil, 0o644); err != nil {
			t.Fatal(err)
		}
	}
	cfg := mustParse(t, "[lint]\ninclude = [\"src\"]\nexclude = [\"gen\"]\n")
	cfg.Root = root

	got, err := CollectTargets(nil, cfg)
	if err != nil {
		t.Fatalf("CollectTargets: %v", err)
	}
	var rel []string
	for _, p := range got {
		r, _ := filepath.Rel(root, filepath.FromSlash(p))
		rel = append(rel, filepath.ToSlash(r))
	}
	if want := "src/a.tsx,src/b.jsx,src/c.ts"; strings.Join(rel, ",") != want {
		t.Fatalf("got %v, want %s", rel, want)
	}

	if _, err := CollectTargets([]string{filepath.Join(root, "src", "d.js")}, cfg); err == nil {
		t.Fatal("expected an error for an unsupported extension")
	}
	if _, err := CollectTargets([]string{filepath.Join(root, "missing")}, cfg); err == nil {
		t.Fatal("expected an error for a missing path")
	}
}

func TestModuleResolver(t *testing.T) {
	root := t.TempDir()
	files := map[string]string{
		"app/src/main.tsx":                               "",
		"app/src/local.ts":                               "",
		"app/src/widget.tsx":                             "",
		"app/src/comp/index.tsx":                         "",
		"app/node_modules/lib/package.json":              `{"types": "dist/lib"}`,
		"app/node_modules/lib/dist/lib.d.ts":             "",
		"app/node_modules/@types/scoped__pkg/index.d.ts": "",
		"node_modules/hoisted/index.d.ts":                "",
		"app/node_modules/broken/package.json":           `{"types": `,
		"app/node_modules/broken/index.ts":               "",
		"app/node_modules/typings/package.json":          `{"typings": "main.d.ts"}`,
		"app/node_modules/typings/main.d.ts":             "",
		"app/node_modules/deep/sub/path.d.ts":            "",
	}
	for name, content := range files {
		p := filepath.Join(root, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	base := filepath.ToSlash(root)
	from := base + "/app/src/main.tsx"
	r := newModuleResolver(nil, discardLogger())

	tests := []struct {
		spec string
		want string // relative to root, "" when unresolved
	}{
		{"./local", "app/src/local.ts"},
		{"./local.js", "app/src/local.ts"},
		{"./widget", "app/src/widget.tsx"},
		{"./comp", "app/src/comp/index.tsx"},
		{"../src/local.ts", "app/src/local.ts"},
		{"lib", "app/node_modules/lib/dist/lib.d.ts"},
		{"@scoped/pkg", "app/node_modules/@types/scoped__pkg/index.d.ts"},
		{"hoisted", "node_modules/hoisted/index.d.ts"},
		{"broken", "app/node_modules/broken/index.ts"},
		{"typings", "app/node_modules/typings/main.d.ts"},
		{"deep/sub/path", "app/node_modules/deep/sub/path.d.ts"},
		{"./missing", ""},
		{"no-such-package", ""},
		{"", ""},
	}
	for _, tt := range tests {
		got, ok := r.Resolve(from, tt.spec)
		if tt.want == "" {
			if ok {
				t.Errorf("Resolve(%q) = %s, want unresolved", tt.spec, got)
			}
			continue
		}
		if !ok || got != base+"/"+tt.want {
			t.Errorf("Resolve(%q) = %q, %v; want %s", tt.spec, got, ok, tt.want)
		}
	}
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestSplitPackage(t *testing.T) {
	tests := []struct{ spec, pkg, sub, types string }{
		{"react", "react", "", "react"},
		{"react/jsx-runtime", "react", "jsx-runtime", "react"},
		{"@scope/name", "@scope/name", "", "scope__name"},
		{"@scope/name/deep/file", "@scope/name", "deep/file", "scope__name"},
	}
	for _, tt := range tests {
		pkg, sub := splitPackage(tt.spec)
		if pkg != tt.pkg || sub != tt.sub {
			t.Errorf("splitPackage(%q) = %q, %q", tt.spec, pkg, sub)
		}
		if got := typesName(pkg); got != tt.types {
			t.Errorf("typesName(%q) = %q, want %q", pkg, got, tt.types)
		}
	}
}
