package main

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
)

var (
	green  = color.New(color.FgGreen)
	yellow = color.New(color.FgYellow)
	red    = color.New(color.FgRed, color.Bold)
	cyan   = color.New(color.FgCyan)
)

var stdout io.Writer = os.Stdout

func success(format string, a ...any) {
	green.Fprintf(stdout, "✓ "+format+"\n", a...)
}

func warning(format string, a ...any) {
	yellow.Fprintf(stdout, "! "+format+"\n", a...)
}

func step(format string, a ...any) {
	cyan.Fprintf(stdout, "→ "+format+"\n", a...)
}

// errorf prints a failure with its cause and any suggestions to stderr and
// returns a short error for cobra.
func errorf(title string, cause error, suggestions ...string) error {
	red.Fprintf(os.Stderr, "%s\n\n", title)
	fmt.Fprintf(os.Stderr, "%s\n", cause)
	for _, s := range suggestions {
		fmt.Fprintf(os.Stderr, "\n%s\n", s)
	}
	return fmt.Errorf("%s: %w", title, cause)
}

func table(w io.Writer, header []string, rows [][]string) error {
	t := tablewriter.NewWriter(w)
	hdr := make([]any, len(header))
	for i, h := range header {
		hdr[i] = h
	}
	t.Header(hdr...)
	for _, r := range rows {
		if err := t.Append(r); err != nil {
			return err
		}
	}
	return t.Render()
}
