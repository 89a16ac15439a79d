package types

import "propguard/internal/source"

// Utility type transforms. Each one flattens its operand first and produces a
// fresh object type. Member docs and symbols are carried over.

// Partial marks every member optional. Unions are mapped constituent-wise.
func (in *Interner) Partial(id TypeID) TypeID {
	return in.mapMembers(id, "Partial", func(m *Member) bool {
		m.Optional = true
		return true
	})
}

// Required clears the optional flag of every member.
func (in *Interner) Required(id TypeID) TypeID {
	return in.mapMembers(id, "Required", func(m *Member) bool {
		m.Optional = false
		return true
	})
}

// Readonly marks every member readonly.
func (in *Interner) Readonly(id TypeID) TypeID {
	return in.mapMembers(id, "Readonly", func(m *Member) bool {
		m.Readonly = true
		return true
	})
}

// Omit drops the members named by keys.
func (in *Interner) Omit(id, keys TypeID) TypeID {
	drop := make(map[string]struct{})
	for _, k := range in.LiteralStrings(keys) {
		drop[k] = struct{}{}
	}
	return in.mapMembers(id, "Omit", func(m *Member) bool {
		_, skip := drop[m.Name]
		return !skip
	})
}

// Pick keeps the members named by keys, in key order.
func (in *Interner) Pick(id, keys TypeID) TypeID {
	if in.passThrough(id) {
		return id
	}
	props := in.Properties(id)
	byName := make(map[string]Member, len(props))
	for _, p := range props {
		byName[p.Name] = p
	}
	var out []Member
	for _, k := range in.LiteralStrings(keys) {
		if m, ok := byName[k]; ok {
			out = append(out, m)
		}
	}
	return in.named("Pick", out, nil)
}

// Record builds { [K in keys]: value }. Non-literal keys produce an empty object.
func (in *Interner) Record(keys, value TypeID) TypeID {
	var out []Member
	for _, k := range in.LiteralStrings(keys) {
		out = append(out, Member{Name: k, Type: value})
	}
	return in.named("Record", out, nil)
}

// Keyof returns the union of member names as string literal types.
func (in *Interner) Keyof(id TypeID) TypeID {
	if in.passThrough(id) {
		return in.Union(in.builtins.String, in.builtins.Number, in.builtins.Symbol)
	}
	props := in.Properties(id)
	keys := make([]TypeID, 0, len(props))
	for _, p := range props {
		keys = append(keys, in.StringLiteral(p.Name))
	}
	return in.Union(keys...)
}

// IndexedAccess resolves T[K] for literal keys; unknown keys yield any.
func (in *Interner) IndexedAccess(id, key TypeID) TypeID {
	names := in.LiteralStrings(key)
	if len(names) == 0 || in.passThrough(id) {
		return in.builtins.Any
	}
	parts := make([]TypeID, 0, len(names))
	for _, n := range names {
		m, ok := in.Property(id, n)
		if !ok {
			return in.builtins.Any
		}
		parts = append(parts, m.Type)
	}
	return in.Union(parts...)
}

// LiteralStrings lists the string literal constituents of a type.
func (in *Interner) LiteralStrings(id TypeID) []string {
	cands := []TypeID{id}
	if in.KindOf(id) == KindUnion {
		cands = in.Constituents(id)
	}
	var out []string
	for _, c := range cands {
		if lit, ok := in.LiteralValue(c); ok && lit.Kind == LitString {
			out = append(out, lit.Text)
		}
	}
	return out
}

// passThrough reports types that mapped transforms return unchanged.
func (in *Interner) passThrough(id TypeID) bool {
	switch in.KindOf(id) {
	case KindAny, KindUnknown, KindNever, KindInvalid:
		return true
	}
	return false
}

func (in *Interner) mapMembers(id TypeID, name string, fn func(m *Member) bool) TypeID {
	if in.passThrough(id) {
		return id
	}
	if in.KindOf(id) == KindUnion {
		parts := in.Constituents(id)
		for i, p := range parts {
			if !in.KindOf(p).IsNullish() {
				parts[i] = in.mapMembers(p, name, fn)
			}
		}
		return in.Union(parts...)
	}
	props := in.Properties(id)
	out := props[:0]
	for _, m := range props {
		if fn(&m) {
			out = append(out, m)
		}
	}
	return in.named(name, out, nil)
}

func (in *Interner) named(name string, members []Member, sigs []Signature) TypeID {
	id := in.RegisterObject(name, source.Span{})
	in.SetMembers(id, members, sigs)
	return id
}
