package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/sambeau/frost/pkg/frost/errors"
	"github.com/sambeau/frost/pkg/frost/syntax"
)

// getColor returns a color that is forced on or off regardless of what
// fatih/color guessed from the process' own stdout.
func getColor(enabled bool, attributes ...color.Attribute) *color.Color {
	if !enabled {
		c := color.New()
		c.DisableColor()
		return c
	}
	c := color.New(attributes...)
	c.EnableColor()
	return c
}

// treePainter colors debug tree lines by the kind they describe.
// It returns nil when colors are off so the tree is written as plain text.
func treePainter(enabled bool) syntax.Painter {
	if !enabled {
		return nil
	}

	operator := getColor(true, color.FgMagenta)
	palette := map[syntax.Kind]*color.Color{
		syntax.Error:      getColor(true, color.FgRed, color.Bold),
		syntax.ErrorNode:  getColor(true, color.FgRed),
		syntax.Whitespace: getColor(true, color.FgHiBlack),
		syntax.Comment:    getColor(true, color.FgHiBlack, color.Italic),
		syntax.Number:     getColor(true, color.FgCyan),
		syntax.Ident:      getColor(true, color.FgYellow),
		syntax.LetKw:      getColor(true, color.FgBlue),
		syntax.FnKw:       getColor(true, color.FgBlue),
		syntax.Plus:       operator,
		syntax.Minus:      operator,
		syntax.Star:       operator,
		syntax.Slash:      operator,
		syntax.Equals:     operator,
		syntax.Root:       getColor(true, color.Bold),
	}

	return func(kind syntax.Kind, line string) string {
		if c, ok := palette[kind]; ok {
			return c.Sprint(line)
		}
		return line
	}
}

// printDiagnostics writes each error followed by the source line it points at.
func printDiagnostics(w io.Writer, source string, errs []*errors.FrostError, useColor bool) {
	header := getColor(useColor, color.FgRed, color.Bold)
	pointer := getColor(useColor, color.FgRed)
	lines := syntax.NewLineIndex(source)

	for _, err := range errs {
		pretty := err.PrettyString()
		first, rest, _ := strings.Cut(pretty, "\n")
		fmt.Fprintln(w, header.Sprint(first))
		if rest != "" {
			fmt.Fprintln(w, rest)
		}
		if err.Line > 0 && err.Line <= lines.LineCount() {
			printSourceContext(w, lines.Line(err.Line), err.Column, pointer)
		}
	}
}

// printSourceContext prints the source line and error pointer
func printSourceContext(w io.Writer, sourceLine string, colNum int, pointerColor *color.Color) {
	// Calculate how many columns to trim from the left
	trimCount := 0
	for _, r := range sourceLine {
		if r == '\t' {
			trimCount += 8
		} else if r == ' ' {
			trimCount++
		} else {
			break
		}
	}

	trimmedLine := strings.TrimLeft(sourceLine, " \t")
	fmt.Fprintf(w, "    %s\n", trimmedLine)

	if colNum <= 0 {
		return
	}

	// Visual column of the error, with tabs as 8 columns
	visualCol := 0
	i := 0
	for _, r := range sourceLine {
		if i >= colNum-1 {
			break
		}
		if r == '\t' {
			visualCol += 8
		} else {
			visualCol++
		}
		i++
	}

	adjustedCol := max(visualCol-trimCount, 0)
	fmt.Fprintf(w, "    %s%s\n", strings.Repeat(" ", adjustedCol), pointerColor.Sprint("^"))
}

// writeTree writes the debug tree of root, painted when colors are on.
func writeTree(gs *globalState, root *syntax.Node) error {
	return syntax.WriteDebugTree(gs.stdout, root, treePainter(gs.color))
}
