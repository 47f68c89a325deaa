package logger

import (
	"github.com/fatih/color" // Colored console output for each log level
)

// Colorized printing functions for each log level. They behave like fmt.Printf
// and write to color.Output, which is stdout unless a test swaps it.

// Info logs informational messages in green.
var Info = color.New(color.FgGreen).PrintfFunc()

// Warn logs warnings in bright magenta so they stand out without looking fatal.
var Warn = color.New(color.FgHiMagenta).PrintfFunc()

// Error logs error messages in red.
var Error = color.New(color.FgRed).PrintfFunc()

// Debug logs debug messages in cyan once Init(true) has been called.
// Until then it is a no-op so packages can log before the CLI has parsed flags.
var Debug = func(format string, a ...any) {}

// success is bold green, used for the check-marked lines the bootstrap prints
// when a step finishes.
var success = color.New(color.FgGreen, color.Bold).PrintfFunc()

// Init enables or disables debug logging.
// When enabled, Debug prints in cyan; otherwise it silently drops messages.
func Init(enableDebug bool) {
	if enableDebug {
		Debug = color.New(color.FgCyan).PrintfFunc()
	} else {
		Debug = func(format string, a ...any) {}
	}
}

// Success prints a completed step, e.g. "✅ requirements.txt created."
func Success(format string, a ...any) {
	success("✅ "+format+"\n", a...)
}
