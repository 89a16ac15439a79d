package rules

import (
	"testing"

	"propguard/internal/lint"
	"propguard/internal/rules/deprecatedprops"
)

func TestRegistry(t *testing.T) {
	r := Registry()
	for _, name := range []string{deprecatedprops.Name, deprecatedprops.LegacyName} {
		rule, ok := r.Lookup(name)
		if !ok {
			t.Fatalf("%s not registered", name)
		}
		meta := rule.Meta()
		if meta.Type != lint.TypeProblem || !meta.RequiresTypeChecking {
			t.Fatalf("%s meta = %+v", name, meta)
		}
	}
}

func TestBuiltinMetaIsComplete(t *testing.T) {
	for _, rule := range Builtin() {
		meta := rule.Meta()
		if meta.Description == "" || meta.URL == "" || len(meta.Messages) == 0 {
			t.Errorf("%s: incomplete meta %+v", meta.Name, meta)
		}
		for id, msg := range meta.Messages {
			if msg.Template == "" || msg.Code == 0 {
				t.Errorf("%s: message %s has no template or code", meta.Name, id)
			}
		}
		if err := lint.ValidateOptions(meta, lint.Options{"unknownOption": true}); err == nil {
			t.Errorf("%s: unknown option accepted", meta.Name)
		}
	}
}
