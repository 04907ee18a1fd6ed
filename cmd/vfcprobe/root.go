package main

import (
	"fmt"
	"log/slog"

	"github.com/hupe1980/vfcprobe"
	"github.com/spf13/cobra"
)

type rootOptions struct {
	logLevel string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:           "vfcprobe",
		Short:         "Record and inspect floating-point probe exports",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "warn", "log level (debug, info, warn, error)")

	cmd.AddCommand(
		newRecordCmd(opts),
		newInspectCmd(),
		newEncodeCmd(),
		newDecodeCmd(),
	)
	return cmd
}

func (o *rootOptions) logger(cmd *cobra.Command) (*vfcprobe.Logger, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(o.logLevel)); err != nil {
		return nil, fmt.Errorf("invalid --log-level %q: %w", o.logLevel, err)
	}
	return vfcprobe.NewLogger(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level})), nil
}
