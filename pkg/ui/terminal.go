package ui

import (
	"fmt"
	"io"
	"os"

	"golang.org/x/term"
)

// Banner printed when the wizard starts
const Banner = `
  ┌──────────────────────────────────────┐
  │   VK photo backup                    │
  │   local disk · Yandex.Disk · S3      │
  └──────────────────────────────────────┘
`

// ANSI colour sequences
const (
	colorCyan    = "\033[36m"
	colorYellow  = "\033[33m"
	colorRed     = "\033[31m"
	colorGreen   = "\033[32m"
	colorMagenta = "\033[35m"
	colorDim     = "\033[2m"
	colorReset   = "\033[0m"
)

// Terminal writes coloured status lines. Colours are used only when the
// output is a terminal.
type Terminal struct {
	out   io.Writer
	color bool
}

// NewTerminal creates a Terminal writing to out. A nil out means stdout.
func NewTerminal(out io.Writer) *Terminal {
	if out == nil {
		out = os.Stdout
	}
	return &Terminal{out: out, color: isTerminal(out)}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func (t *Terminal) paint(color, text string) string {
	if !t.color {
		return text
	}
	return color + text + colorReset
}

func (t *Terminal) Cyan(text string) string    { return t.paint(colorCyan, text) }
func (t *Terminal) Yellow(text string) string  { return t.paint(colorYellow, text) }
func (t *Terminal) Red(text string) string     { return t.paint(colorRed, text) }
func (t *Terminal) Green(text string) string   { return t.paint(colorGreen, text) }
func (t *Terminal) Magenta(text string) string { return t.paint(colorMagenta, text) }
func (t *Terminal) Dim(text string) string     { return t.paint(colorDim, text) }

// PrintBanner prints the start banner
func (t *Terminal) PrintBanner() {
	fmt.Fprint(t.out, t.Cyan(Banner))
}

// Error prints an error message in red, followed by err when given
func (t *Terminal) Error(msg string, err ...error) {
	if len(err) > 0 && err[0] != nil {
		msg = msg + ": " + err[0].Error()
	}
	fmt.Fprintln(t.out, t.Red(msg))
}

// Success prints a success message in green
func (t *Terminal) Success(msg string) {
	fmt.Fprintln(t.out, t.Green(msg))
}

// Info prints "label: value"
func (t *Terminal) Info(label, value string) {
	fmt.Fprintf(t.out, "%s: %s\n", t.Cyan(label), t.Yellow(value))
}

// Warning prints a warning message in yellow
func (t *Terminal) Warning(msg string) {
	fmt.Fprintln(t.out, t.Yellow(msg))
}

// Highlight prints a message in magenta
func (t *Terminal) Highlight(msg string) {
	fmt.Fprintln(t.out, t.Magenta(msg))
}

// Printf writes formatted text without colour
func (t *Terminal) Printf(format string, args ...interface{}) {
	fmt.Fprintf(t.out, format, args...)
}

// Println writes a line without colour
func (t *Terminal) Println(args ...interface{}) {
	fmt.Fprintln(t.out, args...)
}
