package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"propguard/internal/diag"
	"propguard/internal/source"
)

// Short печатает по одной строке на диагностику:
// <path>:<line>:<col>: <SEV> <CODE>: <Message> [rule]
// Переводы строк в сообщении заменяются пробелом.
func Short(w io.Writer, bag *diag.Bag, fs *source.FileSet, mode PathMode) error {
	for _, d := range bag.Items() {
		start, _ := fs.Resolve(d.Primary)
		msg := strings.Join(strings.Fields(strings.ReplaceAll(d.Message, "\n", " ")), " ")
		line := fmt.Sprintf("%s:%d:%d: %s %s: %s",
			displayPath(fs, d.Primary.File, mode), start.Line, start.Col,
			d.Severity, d.Code.ID(), msg)
		if d.Rule != "" {
			line += " [" + d.Rule + "]"
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}
