// Package cli implements the relattice command line tool.
package cli

import (
	"github.com/coregx/relattice"
	"github.com/coregx/relattice/internal/config"
	"github.com/coregx/relattice/internal/logging"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// app carries state shared by the subcommands of one invocation.
type app struct {
	verbosity  int
	configPath string
	logger     zerolog.Logger
}

// NewRootCmd returns the relattice command with every subcommand attached.
func NewRootCmd() *cobra.Command {
	a := &app{logger: zerolog.Nop()}

	root := &cobra.Command{
		Use:   "relattice",
		Short: "Organise regular expressions by specificity",
		Long: `relattice places regular expressions in a lattice ordered by the
sets of texts they match, and answers which patterns most specifically match
a text.

Pattern sets are read from --config, or from relattice/patterns.toml under the
XDG config directories.`,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			a.logger = logging.SetupLogger(cmd.ErrOrStderr(), a.verbosity)
			a.logger.Debug().Str("command", cmd.Name()).Msg("command started")
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().CountVarP(&a.verbosity, "verbose", "v", "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)")
	root.PersistentFlags().StringVarP(&a.configPath, "config", "c", "", "pattern set file (default: $XDG_CONFIG_HOME/"+config.DefaultFile+")")

	root.AddCommand(
		newMatchCmd(a),
		newRelateCmd(a),
		newExpandCmd(a),
		newDumpCmd(a),
		newGenCmd(a),
		newServeCmd(a),
	)
	return root
}

func (a *app) load() (*config.Config, error) {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return nil, err
	}
	if cfg.Source == "" {
		a.logger.Info().Msg("no pattern set found, using defaults")
	} else {
		a.logger.Info().Str("path", cfg.Source).Int("patterns", len(cfg.Patterns)).Msg("loaded pattern set")
	}
	return cfg, nil
}

func (a *app) build() (*config.Config, *relattice.Lattice, error) {
	cfg, err := a.load()
	if err != nil {
		return nil, nil, err
	}
	l, err := cfg.Build(a.logger)
	if err != nil {
		return nil, nil, errors.Wrap(err, "failed to build lattice")
	}
	return cfg, l, nil
}
