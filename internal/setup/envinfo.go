package setup

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"
)

// envProbe prints the interpreter facts the report needs as one JSON object.
const envProbe = `import json, platform, site, sys
sp = site.getsitepackages()[0] if hasattr(site, "getsitepackages") else "N/A"
print(json.dumps({
    "version": platform.python_version(),
    "executable": sys.executable,
    "prefix": sys.prefix,
    "base_prefix": getattr(sys, "base_prefix", sys.prefix),
    "site_packages": sp,
}))`

// EnvInfo describes the Python interpreter of the project environment.
type EnvInfo struct {
	Version      string `json:"version"`       // e.g. "3.12.4"
	Executable   string `json:"executable"`    // sys.executable
	Prefix       string `json:"prefix"`        // sys.prefix, the venv root inside a venv
	BasePrefix   string `json:"base_prefix"`   // prefix of the interpreter the venv was made from
	SitePackages string `json:"site_packages"` // first site-packages dir, or "N/A"
}

// InVenv reports whether the interpreter runs inside a virtual environment.
func (e EnvInfo) InVenv() bool {
	return e.Prefix != e.BasePrefix
}

// CollectEnvInfo asks the environment's interpreter about itself. For pip
// that is the venv python; for poetry it is whatever `poetry run` selects.
func (b *Bootstrap) CollectEnvInfo(ctx context.Context, m Manager) (EnvInfo, error) {
	var out string
	var err error
	if m == Poetry {
		out, err = b.Runner.Output(ctx, b.Dir, "poetry", "run", "python", "-c", envProbe)
	} else {
		out, err = b.Runner.Output(ctx, b.Dir, b.venvBin("python"), "-c", envProbe)
	}
	if err != nil {
		return EnvInfo{}, err
	}

	// Interpreter start-up noise may precede the JSON; it is always the last line.
	lines := strings.Split(strings.TrimSpace(out), "\n")
	var info EnvInfo
	if err := json.Unmarshal([]byte(lines[len(lines)-1]), &info); err != nil {
		return EnvInfo{}, fmt.Errorf("decode interpreter info: %w", err)
	}
	return info, nil
}

// PrintEnvInfo writes the environment report to b.Out.
func (b *Bootstrap) PrintEnvInfo(ctx context.Context, m Manager) error {
	info, err := b.CollectEnvInfo(ctx, m)
	if err != nil {
		return err
	}

	fmt.Fprintf(b.Out, "\n🔎 Python Environment Info\n%s\n", strings.Repeat("=", 30))
	fmt.Fprintf(b.Out, "📦 Python Version     : %s\n", info.Version)
	fmt.Fprintf(b.Out, "🐍 Python Executable  : %s\n", info.Executable)
	fmt.Fprintf(b.Out, "📂 sys.prefix         : %s\n", info.Prefix)
	fmt.Fprintf(b.Out, "📂 Base Prefix        : %s\n", info.BasePrefix)
	fmt.Fprintf(b.Out, "🧠 site-packages path : %s\n", info.SitePackages)
	inVenv := "No"
	if info.InVenv() {
		inVenv = "Yes"
	}
	fmt.Fprintf(b.Out, "✅ In Virtual Env     : %s\n", inVenv)
	if info.InVenv() {
		fmt.Fprintf(b.Out, "📁 Virtual Env Name   : %s\n", filepath.Base(info.Prefix))
	}
	return nil
}
