package types

import (
	"fmt"
	"slices"

	"fortio.org/safecast"

	"propguard/internal/jsdoc"
	"propguard/internal/source"
	"propguard/internal/symbols"
)

// Member is a named property of an object type.
type Member struct {
	Name     string
	Type     TypeID
	Optional bool
	Readonly bool
	// Doc is the JSDoc of the declaring property, nil when undocumented.
	Doc    *jsdoc.Comment
	Symbol symbols.SymbolID
	Span   source.Span
}

// Tags returns the JSDoc block tags of the member.
func (m Member) Tags() []jsdoc.Tag {
	if m.Doc == nil {
		return nil
	}
	return m.Doc.Tags
}

// Param is one parameter of a call signature.
type Param struct {
	Name     string
	Type     TypeID
	Optional bool
	Rest     bool
	Symbol   symbols.SymbolID
}

// Signature is a call signature.
type Signature struct {
	Params []Param
	Result TypeID
}

// ObjectInfo stores metadata for an object type.
type ObjectInfo struct {
	Name       string
	Decl       source.Span
	Members    []Member
	Signatures []Signature
}

// RegisterObject allocates an object type slot and returns its TypeID.
// Members are filled in later with SetMembers so that self-referencing
// declarations can hand out the id before it is complete.
func (in *Interner) RegisterObject(name string, decl source.Span) TypeID {
	slot := in.appendObjectInfo(ObjectInfo{Name: name, Decl: decl})
	return in.internRaw(Type{Kind: KindObject, Payload: slot})
}

// SetMembers stores the resolved members and call signatures of an object type.
func (in *Interner) SetMembers(typeID TypeID, members []Member, sigs []Signature) {
	info := in.objectInfo(typeID)
	if info == nil {
		return
	}
	info.Members = slices.Clone(members)
	info.Signatures = cloneSignatures(sigs)
}

// NewObject registers and fills an anonymous object type in one step.
func (in *Interner) NewObject(members []Member, sigs []Signature) TypeID {
	id := in.RegisterObject("", source.Span{})
	in.SetMembers(id, members, sigs)
	return id
}

// Function builds an object type with a single call signature.
func (in *Interner) Function(params []Param, result TypeID) TypeID {
	return in.NewObject(nil, []Signature{{Params: params, Result: result}})
}

// ObjectInfo returns metadata for the provided object TypeID.
func (in *Interner) ObjectInfo(typeID TypeID) (*ObjectInfo, bool) {
	info := in.objectInfo(typeID)
	if info == nil {
		return nil, false
	}
	return info, true
}

func (in *Interner) objectInfo(typeID TypeID) *ObjectInfo {
	if typeID == NoTypeID {
		return nil
	}
	tt, ok := in.Lookup(typeID)
	if !ok || tt.Kind != KindObject {
		return nil
	}
	if tt.Payload == 0 || int(tt.Payload) >= len(in.objects) {
		return nil
	}
	return &in.objects[tt.Payload]
}

func (in *Interner) appendObjectInfo(info ObjectInfo) uint32 {
	if in.objects == nil {
		in.objects = append(in.objects, ObjectInfo{})
	}
	in.objects = append(in.objects, ObjectInfo{
		Name:       info.Name,
		Decl:       info.Decl,
		Members:    slices.Clone(info.Members),
		Signatures: cloneSignatures(info.Signatures),
	})
	slot, err := safecast.Conv[uint32](len(in.objects) - 1)
	if err != nil {
		panic(fmt.Errorf("object info overflow: %w", err))
	}
	return slot
}

func cloneSignatures(sigs []Signature) []Signature {
	if len(sigs) == 0 {
		return nil
	}
	out := make([]Signature, len(sigs))
	for i, sig := range sigs {
		out[i] = Signature{Params: slices.Clone(sig.Params), Result: sig.Result}
	}
	return out
}
