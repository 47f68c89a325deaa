package cmd

import (
	"github.com/spf13/cobra"
	"pysetup/internal/config"
	"pysetup/internal/setup"
	"pysetup/internal/state"
)

// newUpdateCmd pulls the latest profile without bootstrapping anything.
func newUpdateCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "update",
		Short: "Pull the latest setup profile only",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true

			profilePath, statePath := o.paths()
			profile, err := config.LoadProfile(profilePath)
			if err != nil {
				return err
			}
			st := state.LoadState(statePath)

			sync := &setup.ProfileSync{Path: profilePath, Current: profile, State: st, Client: o.httpClient()}
			if _, err := sync.Run(cmd.Context()); err != nil {
				return err
			}
			return state.SaveState(statePath, st)
		},
	}
}
