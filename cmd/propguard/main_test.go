package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"propguard/internal/diag"
	"propguard/internal/diagfmt"
	"propguard/internal/driver"
	"propguard/internal/project"
	"propguard/internal/rules"
	"propguard/internal/source"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(args)
	defer func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	}()
	err := rootCmd.Execute()
	finishRun()
	return out.String(), err
}

func TestLintCommandJSON(t *testing.T) {
	dir := t.TempDir()
	cfg, err := project.WriteDefault(dir)
	if err != nil {
		t.Fatalf("WriteDefault: %v", err)
	}
	fixture := filepath.Join("..", "..", "internal", "driver", "testdata", "fixtures", "local-interface.tsx")

	out, err := execute(t, "lint", "--ui", "off", "--format", "json", "--config", cfg, fixture)
	if err != nil {
		t.Fatalf("lint: %v", err)
	}
	var res diagfmt.DiagnosticsOutput
	if err := json.Unmarshal([]byte(out), &res); err != nil {
		t.Fatalf("invalid json: %v\n%s", err, out)
	}
	if res.Count != 2 {
		t.Fatalf("count = %d, want 2\n%s", res.Count, out)
	}
	for _, d := range res.Diagnostics {
		if d.Code != "LNT9001" || d.Severity != "WARNING" || d.Rule != "deprecated-props" {
			t.Errorf("unexpected diagnostic %+v", d)
		}
	}
}

func TestVersionCommandJSON(t *testing.T) {
	out, err := execute(t, "version", "--format", "json", "--full")
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	var payload versionPayload
	if err := json.Unmarshal([]byte(out), &payload); err != nil {
		t.Fatalf("invalid json: %v\n%s", err, out)
	}
	if payload.Tool != "propguard" || payload.Version == "" {
		t.Fatalf("unexpected payload %+v", payload)
	}
	// --full заполняет пустые поля
	if payload.GitCommit == "" || payload.BuildDate == "" {
		t.Fatalf("--full must report every field: %+v", payload)
	}
}

func TestInitCommand(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "app")
	out, err := execute(t, "init", dir)
	if err != nil {
		t.Fatalf("init: %v", err)
	}
	path := filepath.Join(dir, project.ConfigFileName)
	if !strings.Contains(out, path) {
		t.Errorf("output %q does not name %s", out, path)
	}
	if _, err := project.Load(path); err != nil {
		t.Fatalf("written config does not load: %v", err)
	}
	if _, err := execute(t, "init", dir); err == nil {
		t.Fatal("second init must fail")
	}

	file := filepath.Join(t.TempDir(), "file")
	if err := os.WriteFile(file, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := execute(t, "init", file); err == nil {
		t.Fatal("init into a file must fail")
	}
}

func TestRulesJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := renderRulesJSON(&buf, rules.Registry().All()); err != nil {
		t.Fatalf("renderRulesJSON: %v", err)
	}
	var payload []rulePayload
	if err := json.Unmarshal(buf.Bytes(), &payload); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if len(payload) != 1 {
		t.Fatalf("expected one rule, got %d", len(payload))
	}
	p := payload[0]
	if p.Name != "deprecated-props" || p.Severity != "warning" {
		t.Errorf("unexpected rule %+v", p)
	}
	if strings.Join(p.Codes, ",") != "LNT9001,LNT9002" {
		t.Errorf("codes = %v", p.Codes)
	}
	if len(p.Aliases) != 1 || p.Aliases[0] != "deprecated-jsx-props" {
		t.Errorf("aliases = %v", p.Aliases)
	}
}

func TestRulesPretty(t *testing.T) {
	var buf bytes.Buffer
	renderRulesPretty(&buf, rules.Registry().All())
	out := buf.String()
	for _, want := range []string{"deprecated-props", "Do not use deprecated jsx props.", "aliases: deprecated-jsx-props", "checkSpreadArguments"} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in:\n%s", want, out)
		}
	}
}

func TestSarifRules(t *testing.T) {
	enabled, err := driver.EnabledRules(rules.Registry(), project.Default(), driver.RuleOverrides{})
	if err != nil {
		t.Fatalf("EnabledRules: %v", err)
	}
	got := sarifRules(enabled)
	if len(got) != 1 {
		t.Fatalf("expected one rule, got %d", len(got))
	}
	if got[0].Name != "deprecated-props" || strings.Join(got[0].Codes, ",") != "LNT9001,LNT9002" {
		t.Errorf("unexpected sarif rule %+v", got[0])
	}
}

func warningBag() *diag.Bag {
	bag := diag.NewBag(0)
	span := source.Span{File: 0, Start: 0, End: 1}
	bag.Add(diag.New(diag.SevWarning, diag.LintDeprecatedProp, span, "w"))
	bag.Add(diag.New(diag.SevInfo, diag.LintDeprecatedProp, span, "i"))
	bag.Add(diag.NewError(diag.SynUnexpectedToken, span, "e"))
	return bag
}

func TestApplyWarningPolicy(t *testing.T) {
	tests := []struct {
		name                 string
		noWarnings, asErrors bool
		total, errors        int
	}{
		{"keep", false, false, 3, 1},
		{"drop warnings", true, false, 2, 1},
		{"warnings as errors", false, true, 3, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bag := applyWarningPolicy(warningBag(), tt.noWarnings, tt.asErrors)
			if bag.Len() != tt.total || bag.Count(diag.SevError) != tt.errors {
				t.Fatalf("len=%d errors=%d, want %d/%d", bag.Len(), bag.Count(diag.SevError), tt.total, tt.errors)
			}
		})
	}
}

func TestPrintSummary(t *testing.T) {
	var buf bytes.Buffer
	printSummary(&buf, diag.NewBag(0), 1, 0)
	if got := buf.String(); got != "no problems in 1 file\n" {
		t.Errorf("clean summary = %q", got)
	}

	buf.Reset()
	printSummary(&buf, warningBag(), 4, 2)
	if got := buf.String(); got != "\n3 problems (1 error, 1 warning, 1 info) in 4 files, 2 cached\n" {
		t.Errorf("summary = %q", got)
	}
}

func TestReadToggle(t *testing.T) {
	for in, want := range map[string]toggle{
		"":       toggleAuto,
		"AUTO":   toggleAuto,
		"on":     toggleOn,
		"always": toggleOn,
		"off":    toggleOff,
		"never":  toggleOff,
	} {
		got, err := readToggle("--ui", in)
		if err != nil || got != want {
			t.Errorf("readToggle(%q) = %q, %v", in, got, err)
		}
	}
	if _, err := readToggle("--ui", "sometimes"); err == nil {
		t.Error("expected an error for an unknown value")
	}
	if shouldUseTUI(toggleOn, "json") != true || shouldUseTUI(toggleOff, "pretty") != false {
		t.Error("explicit --ui must win")
	}
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, project.ConfigFileName)
	if err := os.WriteFile(path, []byte("[lint]\ninclude = [\"src\"]\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := loadConfig(path)
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if len(cfg.Lint.Include) != 1 || cfg.Lint.Include[0] != "src" {
		t.Errorf("include = %v", cfg.Lint.Include)
	}
	if cfg.Root != dir {
		t.Errorf("root = %q, want %q", cfg.Root, dir)
	}

	if _, err := loadConfig(filepath.Join(dir, "missing.toml")); err == nil {
		t.Error("expected an error for a missing explicit config")
	}

	if err := os.WriteFile(path, []byte("include = ["), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := loadConfig(path); !errors.Is(err, project.ErrInvalidConfig) {
		t.Errorf("broken config: got %v, want ErrInvalidConfig", err)
	}
}
