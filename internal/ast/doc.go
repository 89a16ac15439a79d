package ast

import (
	"propguard/internal/jsdoc"
	"propguard/internal/source"
)

// Doc is the JSDoc attached to a declaration or member.
type Doc struct {
	jsdoc.Comment
	Span source.Span
}
