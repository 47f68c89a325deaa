package cmd

import (
	"path/filepath"

	"github.com/spf13/cobra"
	"pysetup/internal/config"
	"pysetup/internal/setup"
	"pysetup/internal/state"
)

// newInfoCmd prints the environment report for an already bootstrapped project.
func newInfoCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Print Python environment info for the project",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true

			profilePath, statePath := o.paths()
			profile, err := config.LoadProfile(profilePath)
			if err != nil {
				return err
			}
			st := state.LoadState(statePath)

			b, err := o.newBootstrap(profile, st, nil)
			if err != nil {
				return err
			}
			return b.PrintEnvInfo(cmd.Context(), managerFor(b.Dir, st))
		},
	}
}

// managerFor prefers what the last bootstrap recorded and falls back to the
// project's pyproject.toml.
func managerFor(dir string, st *state.State) setup.Manager {
	if st.Project.Manager != "" {
		return setup.Manager(st.Project.Manager)
	}
	if setup.DetectProjectTool(filepath.Join(dir, "pyproject.toml")) == setup.ToolPoetry {
		return setup.Poetry
	}
	return setup.Pip
}
