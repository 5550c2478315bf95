// Package logger provides verbose logging for the noteverify CLI.
// When verbose mode is enabled via the --verbose flag, debug messages
// are printed to stderr to follow a run through retrieval, extraction
// and matching.
package logger

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/fatih/color"
)

var (
	mu       sync.RWMutex
	verbose  bool
	colorize bool
	output   io.Writer = os.Stderr
)

// SetVerbose enables or disables verbose logging.
func SetVerbose(v bool) {
	mu.Lock()
	defer mu.Unlock()
	verbose = v
}

// IsVerbose returns true if verbose mode is enabled.
func IsVerbose() bool {
	mu.RLock()
	defer mu.RUnlock()
	return verbose
}

// SetColor enables ANSI colouring of the level tags.
// Callers enable it only when the output is a terminal.
func SetColor(c bool) {
	mu.Lock()
	defer mu.Unlock()
	colorize = c
}

// SetOutput sets the output writer for verbose logs.
// Defaults to os.Stderr. Useful for testing.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	output = w
}

// tag renders a level tag, coloured when enabled. Callers hold mu.
func tag(level string, attr color.Attribute) string {
	t := "[" + level + "]"
	if !colorize {
		return t
	}
	c := color.New(attr)
	c.EnableColor()
	return c.Sprint(t)
}

func write(level string, attr color.Attribute, always bool, format string, args []any) {
	mu.Lock()
	defer mu.Unlock()
	if verbose || always {
		fmt.Fprintf(output, tag(level, attr)+" "+format+"\n", args...)
	}
}

// Debug prints a message if verbose mode is enabled.
func Debug(format string, args ...any) {
	write("DEBUG", color.FgHiBlack, false, format, args)
}

// Section prints a section header if verbose mode is enabled.
func Section(name string) {
	mu.Lock()
	defer mu.Unlock()
	if !verbose {
		return
	}
	header := fmt.Sprintf("=== %s ===", name)
	if colorize {
		c := color.New(color.Bold)
		c.EnableColor()
		header = c.Sprint(header)
	}
	fmt.Fprintf(output, "\n%s\n", header)
}

// Info prints an informational message if verbose mode is enabled.
func Info(format string, args ...any) {
	write("INFO", color.FgCyan, false, format, args)
}

// Warn prints a warning message if verbose mode is enabled.
func Warn(format string, args ...any) {
	write("WARN", color.FgYellow, false, format, args)
}

// Error prints a message regardless of verbose mode.
func Error(format string, args ...any) {
	write("ERROR", color.FgRed, true, format, args)
}
