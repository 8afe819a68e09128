package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// PrintBanner writes the scientist banner to w.
func PrintBanner(w io.Writer) {
	p := termenv.ColorProfile()
	s1 := termenv.String(" ┏━┓┏━╸╻┏━╸┏┓╻╺┳╸╻┏━┓╺┳╸").Foreground(p.Color("#34d399"))
	s2 := termenv.String(" ┗━┓┃  ┃┣╸ ┃┗┫ ┃ ┃┗━┓ ┃ ").Foreground(p.Color("#22d3ee"))
	s3 := termenv.String(" ┗━┛┗━╸╹┗━╸╹ ╹ ╹ ╹┗━┛ ╹ ").Foreground(p.Color("#818cf8"))

	fmt.Fprintln(w)
	fmt.Fprintln(w, s1)
	fmt.Fprintln(w, s2)
	fmt.Fprintln(w, s3)
	fmt.Fprintln(w)
}

// Verdict colors a match verdict for terminal output.
func Verdict(matched bool) string {
	p := termenv.ColorProfile()
	if matched {
		return termenv.String("match").Foreground(p.Color("#34d399")).String()
	}
	return termenv.String("MISMATCH").Foreground(p.Color("#f87171")).Bold().String()
}
