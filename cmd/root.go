package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"
	"pysetup/internal/config"
	"pysetup/internal/fetch"
	"pysetup/internal/logger"
	"pysetup/internal/prompt"
	"pysetup/internal/setup"
	"pysetup/internal/state"
	"pysetup/internal/updatemode"
)

// options holds every flag value plus the collaborators tests replace.
type options struct {
	debug      bool
	update     bool
	ci         bool
	noUpdate   bool
	configPath string
	dir        string

	runner      setup.Runner
	newPrompter func(forceDefaults bool) *prompt.Prompter // defaults to prompt.Stdio
	client      *http.Client
	out         io.Writer
}

// newRootCmd builds the `pysetup` command tree around o.
func newRootCmd(o *options) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "pysetup",
		Short: "Bootstrap a Python project environment with pip or poetry",
		Long: `pysetup prepares a Python project: requirement files, pyproject.toml and a
virtual environment managed by pip or poetry.

Before bootstrapping it can pull the latest setup profile. Without flags it
asks; -u/--update/--ci always pull, -n/--no-update never do.

Pulling needs source_url set in the profile (see --config). The built-in
profile has none, so until one is configured an update only prints a
warning and the local profile is used.`,
		Args:          cobra.NoArgs,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logger.Init(o.debug)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			// Flag errors above print usage; failures from here on do not.
			cmd.SilenceUsage = true
			return runBootstrap(cmd.Context(), o)
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.BoolVar(&o.debug, "debug", false, "Enable debug logging")
	pf.StringVarP(&o.configPath, "config", "c", config.DefaultProfilePath, "Path to the setup profile (relative to --dir)")
	pf.StringVarP(&o.dir, "dir", "C", ".", "Project directory")

	f := rootCmd.Flags()
	f.BoolVarP(&o.update, "update", "u", false, "Always pull the latest setup profile from source_url, without prompting")
	f.BoolVar(&o.ci, "ci", false, "Same as --update, and answer every other question with its default")
	f.BoolVarP(&o.noUpdate, "no-update", "n", false, "Never pull the setup profile, without prompting")
	rootCmd.MarkFlagsMutuallyExclusive("update", "no-update")
	rootCmd.MarkFlagsMutuallyExclusive("ci", "no-update")

	rootCmd.AddCommand(newUpdateCmd(o))
	rootCmd.AddCommand(newInfoCmd(o))
	return rootCmd
}

// Execute runs the CLI and returns the process exit code. When a package
// manager command fails, its own exit code is returned.
func Execute() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	o := &options{}
	err := newRootCmd(o).ExecuteContext(ctx)
	if err != nil {
		logger.Error("[ERROR] %v\n", err)
	}
	return exitCode(err)
}

func exitCode(err error) int {
	if err == nil {
		return 0
	}
	var ce *setup.CommandError
	if errors.As(err, &ce) {
		return ce.ExitCode()
	}
	return 1
}

// paths resolves the profile and state locations against the project dir.
func (o *options) paths() (profilePath, statePath string) {
	profilePath = o.configPath
	if !filepath.IsAbs(profilePath) {
		profilePath = filepath.Join(o.dir, profilePath)
	}
	return profilePath, filepath.Join(o.dir, state.DefaultPath)
}

func (o *options) prompterFor(forceDefaults bool) *prompt.Prompter {
	if o.newPrompter != nil {
		return o.newPrompter(forceDefaults)
	}
	return prompt.Stdio(forceDefaults)
}

func (o *options) httpClient() *http.Client {
	if o.client != nil {
		return o.client
	}
	return fetch.NewClient()
}

func (o *options) output() io.Writer {
	if o.out != nil {
		return o.out
	}
	return os.Stdout
}

func (o *options) newBootstrap(p *config.Profile, st *state.State, asker setup.Asker) (*setup.Bootstrap, error) {
	b, err := setup.NewBootstrap(o.dir, p, st, asker)
	if err != nil {
		return nil, err
	}
	if o.runner != nil {
		b.Runner = o.runner
	}
	b.Client = o.httpClient()
	b.Out = o.output()
	return b, nil
}

// runBootstrap is the default command: decide on the update, optionally pull
// the profile, then bootstrap the project.
func runBootstrap(ctx context.Context, o *options) error {
	mode, err := updatemode.FromFlags(o.update, o.ci, o.noUpdate)
	if err != nil {
		return err
	}

	// --ci answers every question with its default
	p := o.prompterFor(o.ci)

	profilePath, statePath := o.paths()
	profile, err := config.LoadProfile(profilePath)
	if err != nil {
		return err
	}
	st := state.LoadState(statePath)

	question := "Pull latest setup profile?"
	if profile.SourceURL != "" {
		question = fmt.Sprintf("Pull latest setup profile from %s?", profile.SourceURL)
	}
	logger.Debug("[DEBUG] Update mode: %s\n", mode)
	if updatemode.Resolve(mode, p, question) {
		sync := &setup.ProfileSync{Path: profilePath, Current: profile, State: st, Client: o.httpClient()}
		if profile, err = sync.Run(ctx); err != nil {
			return fmt.Errorf("profile update failed: %w", err)
		}
	}

	b, err := o.newBootstrap(profile, st, p)
	if err != nil {
		return err
	}
	runErr := b.Run(ctx)

	// State is saved even after a failed bootstrap so a fetched profile is recorded.
	if err := state.SaveState(statePath, st); err != nil {
		if runErr == nil {
			return err
		}
		logger.Warn("[WARN] %v\n", err)
	}
	return runErr
}
