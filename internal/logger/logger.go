package logger

import (
	"io"

	"github.com/fatih/color" // Import the fatih/color package for colored console output
)

// Define colorized printing functions for the different log levels using fatih/color.
// They behave like fmt.Printf, but write colored text to color.Output.

// Info logs informational messages in green color.
var Info = color.New(color.FgGreen).PrintfFunc()

// Warn logs warning messages in bright magenta color.
// Used for recoverable problems such as a mirror that failed before the next one is tried.
var Warn = color.New(color.FgHiMagenta).PrintfFunc()

// Error logs error messages in red color.
var Error = color.New(color.FgRed).PrintfFunc()

// Debug logs debug messages in cyan color if enabled, otherwise is a no-op.
// It starts out as a no-op so packages can log before Init has run (tests, library use).
var Debug = func(format string, a ...any) {}

// Init initializes the logger package.
// Parameters:
// - enableDebug: turn debug messages on or off.
// - noColor: strip ANSI colors, e.g. when output is redirected to a build log.
func Init(enableDebug, noColor bool) {
	if noColor {
		color.NoColor = true
	}
	if enableDebug {
		Debug = color.New(color.FgCyan).PrintfFunc()
	} else {
		Debug = func(format string, a ...any) {}
	}
}

// SetOutput redirects every level to w and returns the previous writer.
func SetOutput(w io.Writer) io.Writer {
	prev := color.Output
	color.Output = w
	return prev
}
