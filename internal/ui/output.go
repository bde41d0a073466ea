// Package ui provides user interface utilities for formatted terminal output.
package ui

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
)

// Styles
var (
	boldStyle   = []color.Attribute{color.Bold}
	dimStyle    = []color.Attribute{color.Faint}
	greenStyle  = []color.Attribute{color.FgGreen}
	cyanStyle   = []color.Attribute{color.FgCyan}
	yellowStyle = []color.Attribute{color.FgYellow}
	redStyle    = []color.Attribute{color.FgRed, color.Bold}
)

// Printer writes styled messages to one destination. Colors are used only
// when that destination is a terminal and NO_COLOR is not set.
type Printer struct {
	w     io.Writer
	color bool
}

// New returns a Printer writing to w. A nil w writes to os.Stderr.
func New(w io.Writer) *Printer {
	if w == nil {
		w = os.Stderr
	}
	return &Printer{w: w, color: isTerminal(w)}
}

// isTerminal reports whether w is a terminal that should get colors.
// color.NoColor carries the NO_COLOR and TERM=dumb checks.
func isTerminal(w io.Writer) bool {
	if color.NoColor {
		return false
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// Writer returns the underlying destination.
func (p *Printer) Writer() io.Writer {
	return p.w
}

// Bold styles s for this printer's destination.
func (p *Printer) Bold(s string) string {
	return p.paint(s, boldStyle)
}

func (p *Printer) paint(s string, attrs []color.Attribute) string {
	if !p.color {
		return s
	}
	c := color.New(attrs...)
	c.EnableColor()
	return c.Sprint(s)
}

// Line prints an unstyled line.
func (p *Printer) Line(format string, args ...interface{}) {
	fmt.Fprintf(p.w, format+"\n", args...)
}

// Error prints "Error: <message>" with a red label.
func (p *Printer) Error(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintf(p.w, "%s %s\n", p.paint("Error:", redStyle), msg)
}

// Info prints an informational message with a cyan marker.
func (p *Printer) Info(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintf(p.w, " %s %s\n", p.paint("*", cyanStyle), msg)
}

// Success prints a success message with a green checkmark.
func (p *Printer) Success(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintf(p.w, " %s %s\n", p.paint("✔", greenStyle), msg)
}

// Warn prints a warning message with a yellow circle.
func (p *Printer) Warn(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintf(p.w, " %s %s\n", p.paint("○", yellowStyle), msg)
}

// DimMsg prints a dimmed message.
func (p *Printer) DimMsg(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintf(p.w, "   %s\n", p.paint(msg, dimStyle))
}
