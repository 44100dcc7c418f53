package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/pdf2dxf/internal/config"
	"github.com/jackzampolin/pdf2dxf/internal/home"
	"github.com/jackzampolin/pdf2dxf/internal/output"
	"github.com/jackzampolin/pdf2dxf/internal/svcctx"
	"github.com/jackzampolin/pdf2dxf/version"
)

var (
	cfgFile      string
	homeDir      string
	outputFormat string
	logLevel     string
)

var rootCmd = &cobra.Command{
	Use:   "pdf2dxf",
	Short: "Convert PDF vector drawings to DXF",
	Long: `pdf2dxf converts the vector content of PDF pages into a DXF drawing.

Lines, rectangles, circles, polygons and curves become DXF entities and
text blocks become TEXT labels. Every page is drawn into the same model
space at PDF user-space coordinates multiplied by the scale factor.`,
	Version:           version.GitRelease,
	SilenceUsage:      true,
	PersistentPreRunE: setupServices,
}

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile, "config", "", "config file (default: ./config.yaml or ~/.pdf2dxf/config.yaml)",
	)
	rootCmd.PersistentFlags().StringVar(
		&homeDir, "home", "", "pdf2dxf home directory (default: ~/.pdf2dxf)",
	)
	rootCmd.PersistentFlags().StringVarP(
		&outputFormat, "output", "o", "yaml", "output format: yaml or json",
	)
	rootCmd.PersistentFlags().StringVar(
		&logLevel, "log-level", "", "log level: debug, info, warn, error (default from config)",
	)

	rootCmd.AddCommand(versionCmd)
}

// setupServices loads home, config and logger and attaches them to the
// command context.
func setupServices(cmd *cobra.Command, args []string) error {
	format, err := output.ParseFormat(outputFormat)
	if err != nil {
		return err
	}

	h, err := home.New(homeDir)
	if err != nil {
		return err
	}

	mgr, err := config.NewManager(cfgFile, h.Path())
	if err != nil {
		return err
	}

	level := logLevel
	if level == "" {
		level = mgr.Get().LogLevel
	}
	logger, err := newLogger(level)
	if err != nil {
		return err
	}

	cmd.SetContext(svcctx.WithServices(cmd.Context(), &svcctx.Services{
		Config: mgr,
		Logger: logger,
		Home:   h,
		Output: format,
	}))
	return nil
}

func newLogger(level string) (*slog.Logger, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("invalid log level %q", level)
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: lvl,
	})), nil
}
