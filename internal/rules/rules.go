// Package rules lists the built-in lint rules.
package rules

import (
	"propguard/internal/lint"
	"propguard/internal/rules/deprecatedprops"
)

// Builtin returns every built-in rule.
func Builtin() []lint.Rule {
	return []lint.Rule{
		deprecatedprops.New(),
	}
}

// Registry returns a registry holding the built-in rules.
func Registry() *lint.Registry {
	r := lint.NewRegistry()
	for _, rule := range Builtin() {
		r.MustRegister(rule)
	}
	return r
}
