// Package jsdoc parses /** ... */ documentation blocks into a description and
// a list of block tags.
package jsdoc

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// TagDeprecated is the block tag that marks a member as deprecated.
const TagDeprecated = "deprecated"

// Tag is a single block tag such as "@deprecated use size instead".
type Tag struct {
	Name string
	Text string
}

// Comment is a parsed documentation block.
type Comment struct {
	Description string
	Tags        []Tag
}

// IsDocComment reports whether raw is a /** */ block (and not the empty /**/).
func IsDocComment(raw string) bool {
	return strings.HasPrefix(raw, "/**") && !strings.HasPrefix(raw, "/**/") && strings.HasSuffix(raw, "*/")
}

// Parse splits a raw documentation block into its description and tags.
// Tag text spans the rest of the tag line plus every following line up to the
// next tag; lines are joined with "\n" and the result is trimmed.
func Parse(raw string) (Comment, bool) {
	if !IsDocComment(raw) {
		return Comment{}, false
	}
	body := strings.TrimSuffix(strings.TrimPrefix(raw, "/**"), "*/")

	var (
		c       Comment
		desc    []string
		current *Tag
		text    []string
	)
	flush := func() {
		if current == nil {
			return
		}
		current.Text = joinLines(text)
		c.Tags = append(c.Tags, *current)
		current = nil
		text = nil
	}

	for _, line := range strings.Split(body, "\n") {
		line = stripMargin(line)
		if name, rest, ok := splitTag(line); ok {
			flush()
			current = &Tag{Name: name}
			text = append(text, rest)
			continue
		}
		if current != nil {
			text = append(text, line)
		} else {
			desc = append(desc, line)
		}
	}
	flush()
	c.Description = joinLines(desc)
	return c, true
}

// Find returns the first tag with the given name.
func (c Comment) Find(name string) (Tag, bool) {
	for _, tag := range c.Tags {
		if tag.Name == name {
			return tag, true
		}
	}
	return Tag{}, false
}

// Merge concatenates the tags of several blocks attached to the same node in
// source order. The description of the last block wins.
func Merge(blocks ...Comment) Comment {
	var out Comment
	for _, b := range blocks {
		out.Tags = append(out.Tags, b.Tags...)
		if b.Description != "" {
			out.Description = b.Description
		}
	}
	return out
}

// stripMargin removes leading whitespace and one leading '*' gutter.
func stripMargin(line string) string {
	line = strings.TrimRight(line, "\r")
	trimmed := strings.TrimLeftFunc(line, unicode.IsSpace)
	if strings.HasPrefix(trimmed, "*") {
		trimmed = strings.TrimPrefix(trimmed, "*")
		trimmed = strings.TrimPrefix(trimmed, " ")
	}
	return trimmed
}

func splitTag(line string) (name, rest string, ok bool) {
	s := strings.TrimLeftFunc(line, unicode.IsSpace)
	if !strings.HasPrefix(s, "@") {
		return "", "", false
	}
	s = s[1:]
	end := strings.IndexFunc(s, func(r rune) bool {
		return unicode.IsSpace(r) || r == '{' || r == '}'
	})
	if end < 0 {
		end = len(s)
	}
	if end == 0 {
		return "", "", false
	}
	return s[:end], strings.TrimLeftFunc(s[end:], unicode.IsSpace), true
}

func joinLines(lines []string) string {
	for i := range lines {
		lines[i] = strings.TrimRightFunc(lines[i], unicode.IsSpace)
	}
	return norm.NFC.String(strings.TrimSpace(strings.Join(lines, "\n")))
}

// LeadingText is the tag text up to the first inline tag such as {@link x}.
// Whitespace before the inline tag is kept.
func (t Tag) LeadingText() string {
	if i := strings.Index(t.Text, "{@"); i >= 0 {
		return t.Text[:i]
	}
	return t.Text
}
