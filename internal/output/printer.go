// Package output provides the line-oriented terminal output of the CLI.
package output

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/fatih/color"
)

// Printer writes progress lines to out and errors to err. It is safe for
// concurrent use so workers can report from several goroutines.
type Printer struct {
	mu        sync.Mutex
	out       io.Writer
	err       io.Writer
	useColors bool
	quiet     bool
}

// NewPrinter creates a printer on stdout/stderr. Colors follow fatih/color's
// terminal detection, which also honours NO_COLOR.
func NewPrinter(quiet bool) *Printer {
	return NewPrinterWithWriters(os.Stdout, os.Stderr, !color.NoColor, quiet)
}

// NewPrinterWithWriters creates a printer on custom writers.
func NewPrinterWithWriters(out, err io.Writer, useColors, quiet bool) *Printer {
	return &Printer{out: out, err: err, useColors: useColors, quiet: quiet}
}

// Out is the writer used for regular output.
func (p *Printer) Out() io.Writer { return p.out }

// Info prints an informational message
func (p *Printer) Info(format string, args ...any) {
	p.write(p.out, color.FgCyan, format, args...)
}

// Success prints a success message
func (p *Printer) Success(format string, args ...any) {
	p.write(p.out, color.FgGreen, format, args...)
}

// Warning prints a warning message
func (p *Printer) Warning(format string, args ...any) {
	p.write(p.err, color.FgYellow, format, args...)
}

// Error prints an error message
func (p *Printer) Error(format string, args ...any) {
	p.write(p.err, color.FgRed, format, args...)
}

// Print prints a plain message
func (p *Printer) Print(format string, args ...any) {
	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprintf(p.out, format+"\n", args...)
}

// Progress prints a per-item progress line. It is the only output that
// quiet mode suppresses.
func (p *Printer) Progress(format string, args ...any) {
	if p.quiet {
		return
	}
	p.Print(format, args...)
}

func (p *Printer) write(w io.Writer, attr color.Attribute, format string, args ...any) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.useColors {
		color.New(attr).Fprintf(w, format+"\n", args...)
		return
	}
	fmt.Fprintf(w, format+"\n", args...)
}
