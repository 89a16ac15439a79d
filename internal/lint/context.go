package lint

import (
	"regexp"
	"strings"

	"propguard/internal/ast"
	"propguard/internal/checker"
	"propguard/internal/diag"
	"propguard/internal/source"
)

// Context is what a rule sees while handling one file.
type Context struct {
	Builder *ast.Builder
	// Checker is nil when the program was not type checked.
	Checker  *checker.Checker
	File     ast.FileID
	Options  Options
	Severity diag.Severity

	meta     Meta
	reporter diag.Reporter
	reported int
}

// NewContext binds a rule to a file and a reporter.
func NewContext(meta Meta, b *ast.Builder, c *checker.Checker, file ast.FileID, opts Options, sev diag.Severity, r diag.Reporter) *Context {
	return &Context{
		Builder:  b,
		Checker:  c,
		File:     file,
		Options:  opts,
		Severity: sev,
		meta:     meta,
		reporter: r,
	}
}

// Meta returns the meta of the rule the context was created for.
func (c *Context) Meta() Meta { return c.meta }

// Reported is the number of diagnostics emitted through the context.
func (c *Context) Reported() int { return c.reported }

// Report renders the message template messageID with data and emits it at span.
// Unknown message ids are reported verbatim under diag.LintInfo.
func (c *Context) Report(span source.Span, messageID string, data map[string]string) {
	msg, ok := c.meta.Messages[messageID]
	if !ok {
		msg = Message{Template: messageID, Code: diag.LintInfo}
	}
	diag.NewReportBuilder(c.reporter, c.Severity, msg.Code, span, Interpolate(msg.Template, data)).
		WithRule(c.meta.Name).
		Emit()
	c.reported++
}

var placeholder = regexp.MustCompile(`\{\{([^{}]+?)\}\}`)

// Interpolate replaces `{{ key }}` with data[key]. Placeholders without data
// are left as written.
func Interpolate(template string, data map[string]string) string {
	return placeholder.ReplaceAllStringFunc(template, func(m string) string {
		key := strings.TrimSpace(m[2 : len(m)-2])
		if v, ok := data[key]; ok {
			return v
		}
		return m
	})
}
