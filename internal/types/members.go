package types

// Properties returns the flattened member set of a type.
//
// Intersections merge their parts left to right: a later member with the same
// name replaces the earlier one but keeps its position. Unions expose only the
// members present in every non-nullish constituent, taking the member from the
// last constituent.
func (in *Interner) Properties(id TypeID) []Member {
	return in.properties(id, make(map[TypeID]struct{}))
}

func (in *Interner) properties(id TypeID, visiting map[TypeID]struct{}) []Member {
	if _, busy := visiting[id]; busy {
		return nil
	}
	tt, ok := in.Lookup(id)
	if !ok {
		return nil
	}
	switch tt.Kind {
	case KindObject:
		info := in.objectInfo(id)
		if info == nil {
			return nil
		}
		out := make([]Member, len(info.Members))
		copy(out, info.Members)
		return out

	case KindIntersection:
		visiting[id] = struct{}{}
		defer delete(visiting, id)
		var ms memberSet
		for _, part := range in.Constituents(id) {
			ms.merge(in.properties(part, visiting))
		}
		return ms.list

	case KindUnion:
		visiting[id] = struct{}{}
		defer delete(visiting, id)
		var (
			common []Member
			first  = true
		)
		for _, part := range in.Constituents(id) {
			if in.KindOf(part).IsNullish() {
				continue
			}
			props := in.properties(part, visiting)
			if first {
				common = props
				first = false
				continue
			}
			byName := make(map[string]Member, len(props))
			for _, p := range props {
				byName[p.Name] = p
			}
			kept := common[:0]
			for _, m := range common {
				if next, ok := byName[m.Name]; ok {
					kept = append(kept, next)
				}
			}
			common = kept
		}
		return common
	}
	return nil
}

// Property returns the member called name, if the flattened type has one.
func (in *Interner) Property(id TypeID, name string) (Member, bool) {
	for _, m := range in.Properties(id) {
		if m.Name == name {
			return m, true
		}
	}
	return Member{}, false
}

// CallSignatures returns the call signatures of a type. Intersections
// concatenate the signatures of their parts; a union has signatures only when
// exactly one constituent is not nullish.
func (in *Interner) CallSignatures(id TypeID) []Signature {
	tt, ok := in.Lookup(id)
	if !ok {
		return nil
	}
	switch tt.Kind {
	case KindObject:
		if info := in.objectInfo(id); info != nil {
			return cloneSignatures(info.Signatures)
		}
	case KindIntersection:
		var out []Signature
		for _, part := range in.Constituents(id) {
			out = append(out, in.CallSignatures(part)...)
		}
		return out
	case KindUnion:
		var only TypeID
		for _, part := range in.Constituents(id) {
			if in.KindOf(part).IsNullish() {
				continue
			}
			if only != NoTypeID {
				return nil
			}
			only = part
		}
		return in.CallSignatures(only)
	}
	return nil
}

// memberSet merges member lists by name, last declaration wins.
type memberSet struct {
	list  []Member
	index map[string]int
}

func (s *memberSet) merge(members []Member) {
	if s.index == nil {
		s.index = make(map[string]int, len(members))
	}
	for _, m := range members {
		if i, ok := s.index[m.Name]; ok {
			s.list[i] = m
			continue
		}
		s.index[m.Name] = len(s.list)
		s.list = append(s.list, m)
	}
}

// MergeMembers concatenates member lists with the same last-wins rule as
// intersections. Interface bases and object spreads are merged this way.
func MergeMembers(lists ...[]Member) []Member {
	var ms memberSet
	for _, l := range lists {
		ms.merge(l)
	}
	return ms.list
}
