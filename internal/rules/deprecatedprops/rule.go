package deprecatedprops

import (
	"propguard/internal/ast"
	"propguard/internal/diag"
	"propguard/internal/lint"
	"propguard/internal/source"
	"propguard/internal/symbols"
)

const (
	Name       = "deprecated-props"
	LegacyName = "deprecated-jsx-props"

	MsgAvoidDeprecated       = "avoidDeprecated"
	MsgAvoidDeprecatedSpread = "avoidDeprecatedSpread"

	OptCheckSpreadArguments = "checkSpreadArguments"
)

// Config is the rule option object.
type Config struct {
	CheckSpreadArguments bool
}

func DefaultConfig() Config {
	return Config{CheckSpreadArguments: true}
}

// ConfigFrom reads the rule options, defaulting what is unset.
func ConfigFrom(opts lint.Options) Config {
	cfg := DefaultConfig()
	cfg.CheckSpreadArguments = opts.Bool(OptCheckSpreadArguments, cfg.CheckSpreadArguments)
	return cfg
}

type Rule struct{}

func New() Rule { return Rule{} }

func (Rule) Meta() lint.Meta {
	return lint.Meta{
		Name:                 Name,
		Aliases:              []string{LegacyName},
		Type:                 lint.TypeProblem,
		Description:          "Do not use deprecated jsx props.",
		RequiresTypeChecking: true,
		URL:                  "https://github.com/sebakerckhof/eslint-plugin-deprecated-jsx-props",
		Messages: map[string]lint.Message{
			MsgAvoidDeprecated: {
				Template: "Prop '{{ name }}' is deprecated. {{ reason }}",
				Code:     diag.LintDeprecatedProp,
			},
			MsgAvoidDeprecatedSpread: {
				Template: "Spread object '{{ name }}' may contain deprecated prop '{{ propName }}'. {{ reason }}",
				Code:     diag.LintDeprecatedSpreadProp,
			},
		},
		Options: []lint.OptionSpec{
			{Name: OptCheckSpreadArguments, Kind: lint.OptionBool, Doc: "report spread objects whose type has deprecated props (default true)"},
		},
		DefaultSeverity: diag.SevWarning,
	}
}

// Create registers the JSX identifier handler. Without a checker there is no
// type information and the rule stays silent.
func (Rule) Create(ctx *lint.Context) lint.Handlers {
	if ctx.Checker == nil {
		return lint.Handlers{}
	}
	v := &visitor{
		b:      ctx.Builder,
		oracle: ctx.Checker,
		cfg:    ConfigFrom(ctx.Options),
		report: ctx.Report,
	}
	return lint.Handlers{JSXIdentifier: v.check}
}

type visitor struct {
	b      *ast.Builder
	oracle Oracle
	cfg    Config
	report func(span source.Span, messageID string, data map[string]string)
}

// Findings runs the engine for one JSX identifier.
func Findings(b *ast.Builder, o Oracle, cfg Config, id ast.IdentID, ancestors []ast.Node) []Finding {
	r := NewResolver(b, o)
	sym := r.Resolve(id)
	if !sym.IsValid() || o.ValueDeclKind(sym) != symbols.DeclVariable {
		return nil
	}
	el, ok := OpeningElement(b, ancestors, id)
	if !ok {
		return nil
	}
	site := CollectSite(b, el, cfg.CheckSpreadArguments)
	if site.Empty() {
		return nil
	}
	props, ok := r.PropsTypeOf(id)
	if !ok {
		return nil
	}
	return Match(o, site, Scan(o, props), cfg)
}

func (v *visitor) check(id ast.IdentID, ancestors []ast.Node) {
	for _, f := range Findings(v.b, v.oracle, v.cfg, id, ancestors) {
		v.report(f.Span, f.Kind.MessageID(), f.Data())
	}
}
