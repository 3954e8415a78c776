// Package main provides the streamfmt CLI, which turns Claude stream-json
// output into one readable line per record.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"streamfmt/internal/config"
	"streamfmt/internal/format"
	"streamfmt/internal/logging"
	"streamfmt/internal/pipe"
	"streamfmt/internal/report"
)

var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "streamfmt: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "streamfmt",
		Short: "Summarize Claude stream-json output one line at a time",
		Long: `streamfmt reads newline-delimited stream-json records on stdin and writes
a short annotated line for each assistant message, tool invocation and final
result. Lines it cannot decode are skipped.`,
		Version:       version,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runStream,
	}
	config.RegisterFlags(cmd.Flags())
	return cmd
}

func runStream(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(cmd.Flags())
	if err != nil {
		return err
	}
	if !report.ValidFormat(cfg.StatsFormat) {
		return fmt.Errorf("invalid --stats-format value: %s", cfg.StatsFormat)
	}

	errOut := cmd.ErrOrStderr()
	logger := logging.New(errOut, cfg.Verbose)
	defer logger.Sync() //nolint:errcheck

	out := cmd.OutOrStdout()
	stats, err := pipe.Run(cmd.Context(), cmd.InOrStdin(), out, pipe.Options{
		Formatter: format.New(format.WithColor(cfg.UseColor(out))),
		Logger:    logger,
	})
	if err != nil {
		logger.Debug("stream stopped", zap.Error(err))
	}

	if cfg.Stats {
		if werr := report.WriteStats(errOut, stats, cfg.StatsFormat, report.TerminalWidth(errOut)); werr != nil {
			return werr
		}
	}
	return err
}
