package project

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
)

var (
	// ErrConfigNotFound is returned when an explicitly requested config file does not exist.
	ErrConfigNotFound = errors.New("config file not found")
	// ErrInvalidConfig wraps every structural problem of a config file.
	ErrInvalidConfig = errors.New("invalid config")
)

// Config is the decoded propguard.toml.
type Config struct {
	// Path is the file the config was read from, empty for defaults.
	Path string `toml:"-"`
	// Root is the directory relative paths in the config are resolved against.
	Root string `toml:"-"`

	Lint    LintConfig    `toml:"lint"`
	Resolve ResolveConfig `toml:"resolve"`
	// Rules maps a rule name to its settings table.
	Rules map[string]map[string]any `toml:"rules"`
}

// LintConfig selects the files to lint.
type LintConfig struct {
	Include    []string `toml:"include"`
	Exclude    []string `toml:"exclude"`
	Extensions []string `toml:"extensions"`
}

// ResolveConfig controls module resolution.
type ResolveConfig struct {
	// NodeModules are the directory names searched for bare specifiers.
	NodeModules []string `toml:"node-modules"`
}

// RuleSettings is one [rules.<name>] table split into severity and options.
type RuleSettings struct {
	Name     string
	Severity string
	// Options use the rule's own option names (camelCase).
	Options map[string]any
}

// Default returns the configuration used when no propguard.toml exists.
func Default() *Config {
	return &Config{
		Lint: LintConfig{
			Exclude:    []string{"node_modules", "dist", "build", ".git"},
			Extensions: []string{".tsx", ".jsx", ".ts"},
		},
		Resolve: ResolveConfig{NodeModules: []string{"node_modules"}},
		Rules:   map[string]map[string]any{},
	}
}

// Load reads path and fills unset fields from Default.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%s: %w", path, ErrConfigNotFound)
		}
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	cfg, err := Parse(string(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	cfg.Path = path
	cfg.Root = filepath.Dir(path)
	return cfg, nil
}

// Parse decodes TOML text. Keys outside the known sections are errors.
func Parse(text string) (*Config, error) {
	cfg := Default()
	var raw Config
	meta, err := toml.Decode(text, &raw)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to parse TOML: %w", ErrInvalidConfig, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, fmt.Errorf("%w: unknown keys: %s", ErrInvalidConfig, strings.Join(keys, ", "))
	}

	if meta.IsDefined("lint", "include") {
		cfg.Lint.Include = raw.Lint.Include
	}
	if meta.IsDefined("lint", "exclude") {
		cfg.Lint.Exclude = raw.Lint.Exclude
	}
	if meta.IsDefined("lint", "extensions") {
		cfg.Lint.Extensions = raw.Lint.Extensions
		for _, ext := range cfg.Lint.Extensions {
			if !strings.HasPrefix(ext, ".") {
				return nil, fmt.Errorf("%w: lint.extensions: %q must start with a dot", ErrInvalidConfig, ext)
			}
		}
	}
	if meta.IsDefined("resolve", "node-modules") {
		cfg.Resolve.NodeModules = raw.Resolve.NodeModules
	}
	for name, table := range raw.Rules {
		if sev, ok := table["severity"]; ok {
			if _, isString := sev.(string); !isString {
				return nil, fmt.Errorf("%w: rules.%s.severity must be a string", ErrInvalidConfig, name)
			}
		}
		cfg.Rules[name] = table
	}
	return cfg, nil
}

// RuleSettings returns the configured rules sorted by name.
func (c *Config) RuleSettings() []RuleSettings {
	names := make([]string, 0, len(c.Rules))
	for name := range c.Rules {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]RuleSettings, 0, len(names))
	for _, name := range names {
		rs := RuleSettings{Name: name, Options: map[string]any{}}
		for key, value := range c.Rules[name] {
			if key == "severity" {
				rs.Severity, _ = value.(string)
				continue
			}
			rs.Options[CamelCase(key)] = value
		}
		out = append(out, rs)
	}
	return out
}

// CamelCase turns a kebab-case key into the camelCase rule option name.
// Keys without dashes are returned unchanged.
func CamelCase(key string) string {
	if !strings.Contains(key, "-") {
		return key
	}
	parts := strings.Split(key, "-")
	var b strings.Builder
	b.WriteString(parts[0])
	for _, p := range parts[1:] {
		if p == "" {
			continue
		}
		b.WriteString(strings.ToUpper(p[:1]))
		b.WriteString(p[1:])
	}
	return b.String()
}

// DefaultTOML is the file written by `propguard init`.
const DefaultTOML = `[lint]
include = ["src"]
exclude = ["node_modules", "dist", "build"]
extensions = [".tsx", ".jsx", ".ts"]

[resolve]
node-modules = ["node_modules"]

[rules.deprecated-props]
severity = "warning"          # off | info | warning | error
check-spread-arguments = true
`

// WriteDefault writes DefaultTOML into dir unless a config already exists.
func WriteDefault(dir string) (string, error) {
	path := filepath.Join(dir, ConfigFileName)
	if _, err := os.Stat(path); err == nil {
		return path, fmt.Errorf("%s already exists", path)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	if err := os.WriteFile(path, []byte(DefaultTOML), 0o644); err != nil {
		return "", err
	}
	return path, nil
}

// Encode writes the effective configuration as TOML.
func (c *Config) Encode(w io.Writer) error {
	return toml.NewEncoder(w).Encode(c)
}
