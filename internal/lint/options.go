package lint

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	ErrUnknownOption = errors.New("unknown rule option")
	ErrOptionType    = errors.New("invalid rule option value")
)

type OptionKind uint8

const (
	OptionBool OptionKind = iota
	OptionString
	OptionInt
)

func (k OptionKind) String() string {
	switch k {
	case OptionBool:
		return "boolean"
	case OptionString:
		return "string"
	case OptionInt:
		return "integer"
	}
	return "unknown"
}

// OptionSpec is one property of a rule's option object.
type OptionSpec struct {
	Name string
	Kind OptionKind
	Doc  string
}

// Options is the option object a rule is configured with.
type Options map[string]any

// Bool returns the boolean option name, or def when it is unset or not a bool.
func (o Options) Bool(name string, def bool) bool {
	if v, ok := o[name].(bool); ok {
		return v
	}
	return def
}

// ValidateOptions rejects option names the rule does not declare and values
// of the wrong kind.
func ValidateOptions(meta Meta, opts Options) error {
	specs := make(map[string]OptionSpec, len(meta.Options))
	for _, s := range meta.Options {
		specs[s.Name] = s
	}
	names := make([]string, 0, len(opts))
	for name := range opts {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		spec, ok := specs[name]
		if !ok {
			return fmt.Errorf("%s: %w %q (known: %s)", meta.Name, ErrUnknownOption, name, knownOptions(meta))
		}
		if !kindMatches(spec.Kind, opts[name]) {
			return fmt.Errorf("%s: %w: %q must be a %s", meta.Name, ErrOptionType, name, spec.Kind)
		}
	}
	return nil
}

func kindMatches(k OptionKind, v any) bool {
	switch k {
	case OptionBool:
		_, ok := v.(bool)
		return ok
	case OptionString:
		_, ok := v.(string)
		return ok
	case OptionInt:
		switch v.(type) {
		case int, int64:
			return true
		}
	}
	return false
}

func knownOptions(meta Meta) string {
	if len(meta.Options) == 0 {
		return "none"
	}
	names := make([]string, len(meta.Options))
	for i, s := range meta.Options {
		names[i] = s.Name
	}
	return strings.Join(names, ", ")
}
