package testutil

import (
	"bytes"
	"testing"

	"github.com/fatih/color"
)

// CaptureLog redirects the logger's output (color.Output) into a buffer for
// the rest of the test. Tests using it must not run in parallel.
func CaptureLog(t *testing.T) *bytes.Buffer {
	t.Helper()

	var buf bytes.Buffer
	prev := color.Output
	color.Output = &buf
	t.Cleanup(func() { color.Output = prev })
	return &buf
}
