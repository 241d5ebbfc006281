// Package ui renders hookgate diagnostics. Hooks run inside a host that
// shows their stderr to a person, so failure reports get the same styling
// care as an interactive tool.
package ui

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/indent"
	"github.com/muesli/reflow/wordwrap"
	"golang.org/x/term"
)

// reportWidth is the wrap width for multi-line diagnostics.
const reportWidth = 100

// Palette colors, shared with no regard for terminal background: these are
// ANSI-16 so the terminal's own theme decides the exact shade.
var (
	successColor = lipgloss.Color("2")
	warnColor    = lipgloss.Color("3")
	errorColor   = lipgloss.Color("1")
	mutedColor   = lipgloss.Color("8")
)

// Printer writes styled messages to an output and a diagnostic stream.
type Printer struct {
	Out io.Writer
	Err io.Writer

	color   bool
	success lipgloss.Style
	warn    lipgloss.Style
	errs    lipgloss.Style
	muted   lipgloss.Style
}

// NewPrinter builds a Printer. Styling is applied only when color is
// requested; callers disable it for non-TTY streams or --no-color.
func NewPrinter(out, errOut io.Writer, color bool) *Printer {
	return &Printer{
		Out:     out,
		Err:     errOut,
		color:   color,
		success: lipgloss.NewStyle().Foreground(successColor),
		warn:    lipgloss.NewStyle().Foreground(warnColor),
		errs:    lipgloss.NewStyle().Foreground(errorColor).Bold(true),
		muted:   lipgloss.NewStyle().Foreground(mutedColor),
	}
}

// IsTerminal reports whether w is an interactive terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func (p *Printer) render(style lipgloss.Style, s string) string {
	if !p.color {
		return s
	}
	return style.Render(s)
}

// Successf prints a success message to the output stream.
func (p *Printer) Successf(format string, args ...any) {
	fmt.Fprintln(p.Out, p.render(p.success, fmt.Sprintf(format, args...)))
}

// Infof prints a neutral progress message to the output stream.
func (p *Printer) Infof(format string, args ...any) {
	fmt.Fprintf(p.Out, format+"\n", args...)
}

// Warnf prints a warning to the diagnostic stream.
func (p *Printer) Warnf(format string, args ...any) {
	fmt.Fprintln(p.Err, p.render(p.warn, fmt.Sprintf(format, args...)))
}

// Errorf prints an error to the diagnostic stream.
func (p *Printer) Errorf(format string, args ...any) {
	fmt.Fprintln(p.Err, p.render(p.errs, fmt.Sprintf(format, args...)))
}

// Mutedf prints de-emphasised detail to the diagnostic stream.
func (p *Printer) Mutedf(format string, args ...any) {
	fmt.Fprintln(p.Err, p.render(p.muted, fmt.Sprintf(format, args...)))
}

// Block prints a wrapped, indented detail block to the diagnostic stream.
func (p *Printer) Block(text string, level int) {
	wrapped := wordwrap.String(text, reportWidth-level*2)
	indented := indent.String(wrapped, uint(level*2)) //nolint:gosec
	fmt.Fprintln(p.Err, strings.TrimRight(indented, "\n"))
}
