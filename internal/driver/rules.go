package driver

import (
	"fmt"
	"sort"
	"strings"

	"propguard/internal/diag"
	"propguard/internal/lint"
	"propguard/internal/project"
)

// SeverityOff disables a rule in propguard.toml or --severity.
const SeverityOff = "off"

// EnabledRules resolves which rules run and how. Every registered rule runs
// at its default severity unless the config or the overrides say otherwise.
// Config entries may use a rule's name or one of its aliases.
func EnabledRules(reg *lint.Registry, cfg *project.Config, ov RuleOverrides) ([]lint.Enabled, error) {
	all := reg.All()
	states := make(map[string]*ruleState, len(all))
	for _, r := range all {
		states[r.Meta().Name] = &ruleState{rule: r, sev: r.Meta().DefaultSeverity, opts: lint.Options{}}
	}

	for _, rs := range cfg.RuleSettings() {
		r, ok := reg.Lookup(rs.Name)
		if !ok {
			return nil, &ConfigError{Code: diag.CfgUnknownRule, Rule: rs.Name, Err: fmt.Errorf("unknown rule (known: %s)", knownRules(all))}
		}
		st := states[r.Meta().Name]
		if rs.Severity != "" {
			if err := st.setSeverity(rs.Severity); err != nil {
				return nil, &ConfigError{Code: diag.CfgInvalidSeverity, Rule: rs.Name, Err: err}
			}
		}
		for k, v := range rs.Options {
			st.opts[k] = v
		}
		if err := lint.ValidateOptions(r.Meta(), st.opts); err != nil {
			return nil, &ConfigError{Code: diag.CfgInvalidOption, Rule: rs.Name, Err: err}
		}
	}

	out := make([]lint.Enabled, 0, len(all))
	for _, r := range all {
		st := states[r.Meta().Name]
		if ov.Severity != "" {
			if err := st.setSeverity(ov.Severity); err != nil {
				return nil, &ConfigError{Code: diag.CfgInvalidSeverity, Err: fmt.Errorf("--severity: %w", err)}
			}
		}
		if ov.CheckSpreadArguments != nil && declares(r.Meta(), "checkSpreadArguments") {
			st.opts["checkSpreadArguments"] = *ov.CheckSpreadArguments
		}
		if st.off {
			continue
		}
		out = append(out, lint.Enabled{Rule: st.rule, Severity: st.sev, Options: st.opts})
	}
	return out, nil
}

type ruleState struct {
	rule lint.Rule
	sev  diag.Severity
	off  bool
	opts lint.Options
}

func (st *ruleState) setSeverity(s string) error {
	if strings.EqualFold(strings.TrimSpace(s), SeverityOff) {
		st.off = true
		return nil
	}
	sev, err := diag.ParseSeverity(s)
	if err != nil {
		return err
	}
	st.sev, st.off = sev, false
	return nil
}

func declares(meta lint.Meta, option string) bool {
	for _, o := range meta.Options {
		if o.Name == option {
			return true
		}
	}
	return false
}

func knownRules(all []lint.Rule) string {
	names := make([]string, 0, len(all))
	for _, r := range all {
		names = append(names, r.Meta().Name)
	}
	sort.Strings(names)
	return strings.Join(names, ", ")
}
