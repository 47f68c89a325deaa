package main

import (
	"os"

	"pysetup/cmd"
)

// main delegates to cmd.Execute, which parses flags, decides whether to pull
// the latest setup profile, bootstraps the Python project and reports the
// exit code to hand back to the shell.
//
// pysetup prepares a Python project for development:
//   - decides, from -u/--update/--ci, -n/--no-update or an interactive
//     prompt, whether to pull the latest setup profile first
//   - fetches that profile over HTTP, optionally from a release archive and
//     verified with a minisign signature
//   - creates requirements files and pyproject.toml when they are missing
//   - builds the environment with pip (venv + requirements + editable
//     install) or poetry (installing Poetry itself when needed)
//   - prints a report of the resulting interpreter
//
// A failing pip or poetry command makes pysetup exit with that command's exit code.
func main() {
	os.Exit(cmd.Execute())
}
