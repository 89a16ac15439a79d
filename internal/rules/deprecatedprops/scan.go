package deprecatedprops

import (
	"propguard/internal/jsdoc"
	"propguard/internal/types"
)

// Member is a deprecated member of a props type.
type Member struct {
	Name string
	// Reason is the full @deprecated text.
	Reason string
	// Lead is the text before the first inline tag; spread reports use it.
	Lead string
}

// Scan returns the members of t carrying a deprecated tag, in member order.
func Scan(o Oracle, t types.TypeID) []Member {
	var out []Member
	for _, m := range o.Members(t) {
		for _, tag := range m.Tags() {
			if tag.Name != jsdoc.TagDeprecated {
				continue
			}
			out = append(out, Member{Name: m.Name, Reason: tag.Text, Lead: tag.LeadingText()})
			break
		}
	}
	return out
}

func find(members []Member, name string) (Member, bool) {
	for _, m := range members {
		if m.Name == name {
			return m, true
		}
	}
	return Member{}, false
}
