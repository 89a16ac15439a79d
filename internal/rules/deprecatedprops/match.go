package deprecatedprops

import (
	"propguard/internal/source"
)

// Kind tells a direct attribute finding from a spread one.
type Kind uint8

const (
	DirectUse Kind = iota
	SpreadUse
)

func (k Kind) String() string {
	switch k {
	case DirectUse:
		return "direct"
	case SpreadUse:
		return "spread"
	}
	return "unknown"
}

// MessageID is the report message the finding renders with.
func (k Kind) MessageID() string {
	if k == SpreadUse {
		return MsgAvoidDeprecatedSpread
	}
	return MsgAvoidDeprecated
}

// Finding is one deprecated prop passed at a usage site.
type Finding struct {
	Kind   Kind
	Span   source.Span
	Member string
	// Spread names the spread object for SpreadUse.
	Spread string
	Reason string
}

// Data is the template data of the finding's message.
func (f Finding) Data() map[string]string {
	if f.Kind == SpreadUse {
		return map[string]string{"name": f.Spread, "propName": f.Member, "reason": f.Reason}
	}
	return map[string]string{"name": f.Member, "reason": f.Reason}
}

// Match cross-references deprecated members with a usage site. Spread
// findings come first, spreads in source order and members in the order of
// the spread object's type; direct attributes follow in source order.
func Match(o Oracle, site Site, deprecated []Member, cfg Config) []Finding {
	if len(deprecated) == 0 {
		return nil
	}
	var out []Finding
	if cfg.CheckSpreadArguments {
		for _, s := range site.Spreads {
			if !s.Ident.IsValid() {
				continue
			}
			sym := o.SymbolAtLocation(s.Ident)
			if !sym.IsValid() {
				continue
			}
			for _, m := range o.Members(o.TypeOfSymbol(sym)) {
				d, ok := find(deprecated, m.Name)
				if !ok {
					continue
				}
				out = append(out, Finding{Kind: SpreadUse, Span: s.Span, Member: d.Name, Spread: s.Name, Reason: d.Lead})
			}
		}
	}
	for _, a := range site.Attrs {
		if d, ok := find(deprecated, a.Name); ok {
			out = append(out, Finding{Kind: DirectUse, Span: a.Span, Member: d.Name, Reason: d.Reason})
		}
	}
	return out
}
