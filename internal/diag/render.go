package diag

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
)

// RenderOptions controls how Render prints diagnostics.
type RenderOptions struct {
	Color  bool
	Source string // original program text, for source excerpts; may be empty
}

// Render writes one block per diagnostic: the header line and, when the
// source is known, the offending line with a caret under the column.
func Render(w io.Writer, list List, opts RenderOptions) error {
	header := color.New(color.FgRed, color.Bold)
	kind := color.New(color.FgYellow)
	caret := color.New(color.FgGreen, color.Bold)
	for _, c := range []*color.Color{header, kind, caret} {
		if opts.Color {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}

	for _, d := range list {
		line, col := d.Line, d.Column
		if line == 0 && opts.Source != "" {
			if l, c, ok := LocateContext(opts.Source, d.Context); ok {
				line, col = l, c
			}
		}
		if _, err := header.Fprintf(w, "Semantic Error at %d:%d", line, col); err != nil {
			return err
		}
		if _, err := fmt.Fprint(w, " -- "); err != nil {
			return err
		}
		if _, err := kind.Fprintf(w, "[%s] ", d.Kind); err != nil {
			return err
		}
		if _, err := fmt.Fprintln(w, d.Message); err != nil {
			return err
		}
		src, ok := SourceLine(opts.Source, line)
		if !ok {
			continue
		}
		if _, err := fmt.Fprintf(w, "  %s\n", src); err != nil {
			return err
		}
		pad := col - 1
		if pad < 0 {
			pad = 0
		}
		if _, err := fmt.Fprint(w, "  "+strings.Repeat(" ", pad)); err != nil {
			return err
		}
		if _, err := caret.Fprintln(w, "^"); err != nil {
			return err
		}
	}
	return nil
}

// SourceLine returns the 1-based line of source, tabs expanded to spaces.
func SourceLine(source string, line int) (string, bool) {
	if source == "" || line <= 0 {
		return "", false
	}
	lines := strings.Split(source, "\n")
	if line > len(lines) {
		return "", false
	}
	return strings.ReplaceAll(lines[line-1], "\t", " "), true
}
