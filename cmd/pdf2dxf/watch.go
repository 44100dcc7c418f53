package main

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/pdf2dxf/internal/config"
	"github.com/jackzampolin/pdf2dxf/internal/svcctx"
	"github.com/jackzampolin/pdf2dxf/internal/watch"
)

var watchCmd = &cobra.Command{
	Use:   "watch <source.pdf> [output.dxf]",
	Short: "Re-convert a PDF every time it changes",
	Long: `Watch converts the source once, then again whenever the file changes or
the config file is edited. Runs until interrupted.

While the source is being rewritten it may be unreadable for a moment;
opening is retried watch.attempts times before the change is given up on.

Examples:
  pdf2dxf watch plan.pdf
  pdf2dxf watch plan.pdf out.dxf --scale 10`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		mgr := svcctx.ConfigFrom(ctx)
		logger := svcctx.LoggerFrom(ctx)
		cfg := mgr.Get()

		w, err := watch.New(watch.Config{
			Path: args[0],
			Run: func(ctx context.Context) error {
				// Rebuilt every run so config edits take effect.
				req, err := buildRequest(cmd, args)
				if err != nil {
					return err
				}
				return runConvert(ctx, req)
			},
			Debounce: time.Duration(cfg.Watch.DebounceMS) * time.Millisecond,
			Attempts: cfg.Watch.Attempts,
			Logger:   logger,
		})
		if err != nil {
			return err
		}

		if mgr.ConfigFile() != "" {
			mgr.OnChange(func(*config.Config) {
				logger.Info("config changed", "file", mgr.ConfigFile())
				w.Trigger()
			})
			mgr.WatchConfig()
		}

		logger.Info("watching", "source", args[0])
		return w.Run(ctx)
	},
}

func init() {
	addConvertFlags(watchCmd)
	rootCmd.AddCommand(watchCmd)
}
