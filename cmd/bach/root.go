package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/karussell/bach/pkg/config"
	"github.com/karussell/bach/pkg/logging"
	"github.com/karussell/bach/pkg/session"
)

var (
	verbosity int

	cfg  *config.Config
	sess *session.Session

	rootCmd = &cobra.Command{
		Use:   "bach",
		Short: "A build-orchestration helper for external developer tools",
		Long: `bach assembles command-line invocations for external developer tools
(compilers, formatters) from structured configuration, executes them
through the most efficient available channel, and fetches auxiliary
tool artifacts with local caching.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			loaded, err := config.Load(".")
			if err != nil {
				return err
			}
			cfg = loaded

			if verbosity == 0 {
				verbosity = cfg.Verbosity
			}
			logging.SetupLogger(verbosity)
			log.Debug().Str("command", cmd.Name()).Msg("Command started")

			sess, err = session.New(session.Options{Config: cfg})
			return err
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
)

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}
	return nil
}

func init() {
	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v", "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)")
}
