package testutil

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"sync"
)

// FakeRunner records commands instead of executing them. Commands are
// keyed by the base name of the executable followed by its arguments, e.g.
// "pip install -e .", so tests do not depend on temp directory paths.
type FakeRunner struct {
	mu    sync.Mutex
	Calls []string

	// Outputs maps a command-line prefix to what Output returns for it.
	Outputs map[string]string
	// Failures maps a command-line prefix to the error Run/Output return.
	Failures map[string]error
	// Missing lists executables LookPath should not find.
	Missing map[string]bool
}

func (f *FakeRunner) record(name string, args []string) string {
	line := strings.Join(append([]string{filepath.Base(name)}, args...), " ")
	f.mu.Lock()
	f.Calls = append(f.Calls, line)
	f.mu.Unlock()
	return line
}

func lookup[V any](m map[string]V, line string) (V, bool) {
	for prefix, v := range m {
		if strings.HasPrefix(line, prefix) {
			return v, true
		}
	}
	var zero V
	return zero, false
}

func (f *FakeRunner) Run(_ context.Context, _, name string, args ...string) error {
	line := f.record(name, args)
	err, _ := lookup(f.Failures, line)
	return err
}

func (f *FakeRunner) Output(_ context.Context, _, name string, args ...string) (string, error) {
	line := f.record(name, args)
	if err, ok := lookup(f.Failures, line); ok {
		return "", err
	}
	out, _ := lookup(f.Outputs, line)
	return out, nil
}

func (f *FakeRunner) LookPath(name string) (string, error) {
	if f.Missing[name] {
		return "", errors.New("executable file not found in $PATH")
	}
	return "/usr/bin/" + name, nil
}

// Ran reports whether a recorded command starts with prefix.
func (f *FakeRunner) Ran(prefix string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.Calls {
		if strings.HasPrefix(c, prefix) {
			return true
		}
	}
	return false
}

// StaticAsker answers questions from a map keyed by question text and falls
// back to the default. Every question asked is recorded.
type StaticAsker struct {
	Answers map[string]string
	Asked   []string
}

func (a *StaticAsker) Ask(question, def string) string {
	a.Asked = append(a.Asked, question)
	if v, ok := a.Answers[question]; ok {
		return v
	}
	return def
}
