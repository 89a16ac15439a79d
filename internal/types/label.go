package types

import (
	"strconv"
	"strings"
)

// Label renders a type for diagnostics and tests.
func (in *Interner) Label(id TypeID) string {
	return in.label(id, 0)
}

func (in *Interner) label(id TypeID, depth int) string {
	tt, ok := in.Lookup(id)
	if !ok {
		return "<invalid>"
	}
	switch tt.Kind {
	case KindLiteral:
		lit, _ := in.LiteralValue(id)
		if lit.Kind == LitString {
			return strconv.Quote(lit.Text)
		}
		return lit.Text
	case KindArray:
		return in.label(tt.Elem, depth) + "[]"
	case KindUnion, KindIntersection, KindTuple:
		parts := in.Constituents(id)
		labels := make([]string, len(parts))
		for i, p := range parts {
			labels[i] = in.label(p, depth)
		}
		switch tt.Kind {
		case KindUnion:
			return strings.Join(labels, " | ")
		case KindIntersection:
			return strings.Join(labels, " & ")
		}
		return "[" + strings.Join(labels, ", ") + "]"
	case KindObject:
		info := in.objectInfo(id)
		if info == nil {
			return "{}"
		}
		if depth > 0 && info.Name != "" {
			return info.Name
		}
		var sb strings.Builder
		sb.WriteString("{")
		for _, sig := range info.Signatures {
			sb.WriteString(" (")
			for i, p := range sig.Params {
				if i > 0 {
					sb.WriteString(", ")
				}
				sb.WriteString(p.Name)
				sb.WriteString(": ")
				sb.WriteString(in.label(p.Type, depth+1))
			}
			sb.WriteString("): ")
			sb.WriteString(in.label(sig.Result, depth+1))
			sb.WriteString(";")
		}
		for _, m := range info.Members {
			sb.WriteString(" ")
			if m.Readonly {
				sb.WriteString("readonly ")
			}
			sb.WriteString(m.Name)
			if m.Optional {
				sb.WriteString("?")
			}
			sb.WriteString(": ")
			sb.WriteString(in.label(m.Type, depth+1))
			sb.WriteString(";")
		}
		sb.WriteString(" }")
		return sb.String()
	}
	return tt.Kind.String()
}
