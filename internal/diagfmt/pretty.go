package diagfmt

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"propguard/internal/diag"
	"propguard/internal/source"
)

type palette struct {
	path   *color.Color
	err    *color.Color
	warn   *color.Color
	info   *color.Color
	code   *color.Color
	gutter *color.Color
	note   *color.Color
}

func newPalette(enabled bool) palette {
	mk := func(attrs ...color.Attribute) *color.Color {
		c := color.New(attrs...)
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
		return c
	}
	return palette{
		path:   mk(color.Bold),
		err:    mk(color.FgRed, color.Bold),
		warn:   mk(color.FgYellow, color.Bold),
		info:   mk(color.FgCyan, color.Bold),
		code:   mk(color.Faint),
		gutter: mk(color.FgBlue),
		note:   mk(color.FgGreen),
	}
}

func (p palette) severity(s diag.Severity) *color.Color {
	switch s {
	case diag.SevError:
		return p.err
	case diag.SevWarning:
		return p.warn
	default:
		return p.info
	}
}

// Pretty форматирует диагностики в человекочитаемый вид.
// Идёт по bag.Items() (ожидается bag.Sort() заранее).
// Для каждого diag печатает:
// <path>:<line>:<col>: <SEV> <CODE>: <Message>
// затем контекст строки с подчёркиванием ^~~~ по Span, затем Notes с аналогичным форматом.
// Цвет включается опцией.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) {
	p := newPalette(opts.Color)
	for i, d := range bag.Items() {
		if i > 0 {
			fmt.Fprintln(w)
		}
		prettyOne(w, &d, fs, opts, p)
	}
}

func prettyOne(w io.Writer, d *diag.Diagnostic, fs *source.FileSet, opts PrettyOpts, p palette) {
	start, end := fs.Resolve(d.Primary)
	loc := fmt.Sprintf("%s:%d:%d", displayPath(fs, d.Primary.File, opts.PathMode), start.Line, start.Col)
	msg := strings.Split(d.Message, "\n")
	fmt.Fprintf(w, "%s: %s %s: %s\n",
		p.path.Sprint(loc),
		p.severity(d.Severity).Sprint(d.Severity.String()),
		p.code.Sprint(d.Code.ID()),
		msg[0],
	)
	// многострочные причины из JSDoc
	for _, line := range msg[1:] {
		fmt.Fprintf(w, "    %s\n", line)
	}

	writeSnippet(w, fs.Get(d.Primary.File), start, end, p.severity(d.Severity), opts, p)

	if opts.ShowRule && d.Rule != "" {
		fmt.Fprintf(w, "  %s rule: %s\n", p.gutter.Sprint("="), d.Rule)
	}
	if opts.ShowNotes {
		for _, n := range d.Notes {
			ns, _ := fs.Resolve(n.Span)
			fmt.Fprintf(w, "  %s %s %s:%d:%d: %s\n",
				p.gutter.Sprint("="),
				p.note.Sprint("note:"),
				displayPath(fs, n.Span.File, opts.PathMode), ns.Line, ns.Col,
				n.Msg,
			)
		}
	}
}

// writeSnippet prints the primary line with opts.Context lines around it and
// underlines the span on the primary line.
func writeSnippet(w io.Writer, f *source.File, start, end source.LineCol, caret *color.Color, opts PrettyOpts, p palette) {
	total := lineCount(f)
	line := int(start.Line)
	if line < 1 || line > total {
		return
	}
	ctx := max(int(opts.Context), 0)
	first := max(line-ctx, 1)
	last := min(line+ctx, total)
	width := len(strconv.Itoa(last))
	blank := strings.Repeat(" ", width)
	bar := p.gutter.Sprint("|")

	fmt.Fprintf(w, "%s %s\n", blank, bar)
	for ln := first; ln <= last; ln++ {
		text := f.GetLine(uint32(ln))
		shown := text
		if opts.Width > 0 {
			shown = runewidth.Truncate(text, int(opts.Width), "…")
		}
		num := p.gutter.Sprint(fmt.Sprintf("%*d", width, ln))
		fmt.Fprintf(w, "%s %s %s\n", num, bar, shown)
		if ln != line {
			continue
		}
		stop := len(text)
		if end.Line == start.Line {
			stop = int(end.Col) - 1
		}
		pad, marker := underline(text, int(start.Col)-1, stop)
		fmt.Fprintf(w, "%s %s %s%s\n", blank, bar, pad, caret.Sprint(marker))
	}
}

// underline returns the indentation and the ^~~~ marker for the byte range
// [from, to) of text, measured in display columns.
func underline(text string, from, to int) (string, string) {
	from = min(max(from, 0), len(text))
	to = min(max(to, from), len(text))

	var pad strings.Builder
	for _, r := range text[:from] {
		if r == '\t' {
			pad.WriteByte('\t')
			continue
		}
		pad.WriteString(strings.Repeat(" ", runewidth.RuneWidth(r)))
	}
	n := max(runewidth.StringWidth(text[from:to]), 1)
	return pad.String(), "^" + strings.Repeat("~", n-1)
}

func lineCount(f *source.File) int {
	n := len(f.LineIdx)
	if len(f.Content) > 0 && f.Content[len(f.Content)-1] != '\n' {
		n++
	}
	return n
}
