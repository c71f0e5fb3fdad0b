package main

import (
	"bookingdesk/internal/infrastructure/config"
	"bookingdesk/pkg/logger"

	"github.com/spf13/cobra"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose bool
	cfg     *config.Config
	log     logger.Logger
}

// NewRootCommand creates the root command for the bookingctl CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:           "bookingctl",
		Short:         "Booking Desk administration",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig()
			if err != nil {
				return err
			}
			opts.cfg = cfg
			level := cfg.LogLevel
			if opts.Verbose {
				level = "debug"
			}
			opts.log = logger.NewLoggerWithLevel(level)
			return nil
		},
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")

	cmd.AddCommand(NewSeedCommand(opts))
	cmd.AddCommand(NewGmailTokenCommand(opts))

	return cmd
}
