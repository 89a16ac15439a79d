package types

import (
	"fmt"
	"slices"

	"fortio.org/safecast"
)

// listKey identifies a union, intersection or tuple by its ordered members.
type listKey struct {
	Kind    Kind
	Members string
}

func makeListKey(kind Kind, members []TypeID) listKey {
	buf := make([]byte, 0, len(members)*5)
	for _, m := range members {
		buf = fmt.Appendf(buf, "%d,", m)
	}
	return listKey{Kind: kind, Members: string(buf)}
}

func (in *Interner) internList(kind Kind, members []TypeID) TypeID {
	key := makeListKey(kind, members)
	if id, ok := in.listIdx[key]; ok {
		return id
	}
	in.lists = append(in.lists, slices.Clone(members))
	slot, err := safecast.Conv[uint32](len(in.lists) - 1)
	if err != nil {
		panic(fmt.Errorf("type list overflow: %w", err))
	}
	id := in.internRaw(Type{Kind: kind, Payload: slot})
	in.listIdx[key] = id
	return id
}

// Union builds T1 | T2 | ... Nested unions are flattened, duplicates and
// `never` dropped; `any` and `unknown` absorb everything else.
func (in *Interner) Union(members ...TypeID) TypeID {
	flat := make([]TypeID, 0, len(members))
	seen := make(map[TypeID]struct{}, len(members))
	var add func(id TypeID) bool
	add = func(id TypeID) bool {
		switch in.KindOf(id) {
		case KindInvalid, KindNever:
			return true
		case KindAny, KindUnknown:
			return false
		case KindUnion:
			for _, m := range in.Constituents(id) {
				if !add(m) {
					return false
				}
			}
			return true
		}
		if _, dup := seen[id]; !dup {
			seen[id] = struct{}{}
			flat = append(flat, id)
		}
		return true
	}
	for _, m := range members {
		if !add(m) {
			if in.KindOf(m) == KindUnknown {
				return in.builtins.Unknown
			}
			return in.builtins.Any
		}
	}
	switch len(flat) {
	case 0:
		return in.builtins.Never
	case 1:
		return flat[0]
	}
	return in.internList(KindUnion, flat)
}

// Intersection builds T1 & T2 & ... Nested intersections are flattened and
// `unknown` dropped; `any` and `never` absorb everything else.
func (in *Interner) Intersection(members ...TypeID) TypeID {
	flat := make([]TypeID, 0, len(members))
	seen := make(map[TypeID]struct{}, len(members))
	var add func(id TypeID) (TypeID, bool)
	add = func(id TypeID) (TypeID, bool) {
		switch in.KindOf(id) {
		case KindInvalid, KindUnknown:
			return NoTypeID, true
		case KindAny, KindNever:
			return id, false
		case KindIntersection:
			for _, m := range in.Constituents(id) {
				if stop, ok := add(m); !ok {
					return stop, false
				}
			}
			return NoTypeID, true
		}
		if _, dup := seen[id]; !dup {
			seen[id] = struct{}{}
			flat = append(flat, id)
		}
		return NoTypeID, true
	}
	for _, m := range members {
		if stop, ok := add(m); !ok {
			return stop
		}
	}
	switch len(flat) {
	case 0:
		return in.builtins.Unknown
	case 1:
		return flat[0]
	}
	return in.internList(KindIntersection, flat)
}

// Tuple builds [T1, T2, ...].
func (in *Interner) Tuple(elems ...TypeID) TypeID {
	return in.internList(KindTuple, elems)
}

// Constituents returns the members of a union, intersection or tuple.
func (in *Interner) Constituents(id TypeID) []TypeID {
	tt, ok := in.Lookup(id)
	if !ok {
		return nil
	}
	switch tt.Kind {
	case KindUnion, KindIntersection, KindTuple:
		if tt.Payload == 0 || int(tt.Payload) >= len(in.lists) {
			return nil
		}
		return slices.Clone(in.lists[tt.Payload])
	}
	return nil
}

// NonNullable removes null, undefined and void from a union.
func (in *Interner) NonNullable(id TypeID) TypeID {
	if in.KindOf(id).IsNullish() {
		return in.builtins.Never
	}
	if in.KindOf(id) != KindUnion {
		return id
	}
	var kept []TypeID
	for _, m := range in.Constituents(id) {
		if !in.KindOf(m).IsNullish() {
			kept = append(kept, m)
		}
	}
	return in.Union(kept...)
}
