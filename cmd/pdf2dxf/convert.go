package main

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/pdf2dxf/internal/convert"
	"github.com/jackzampolin/pdf2dxf/internal/geom"
	"github.com/jackzampolin/pdf2dxf/internal/output"
	"github.com/jackzampolin/pdf2dxf/internal/svcctx"
)

var (
	convertScale    float64
	convertFromDump bool
)

var convertCmd = &cobra.Command{
	Use:   "convert <source.pdf> [output.dxf]",
	Short: "Convert a PDF to DXF",
	Long: `Convert the vector content of every page of a PDF into one DXF file.

The output path defaults to the source path with a .dxf extension. The
output is only written when every page converts.

Examples:
  pdf2dxf convert plan.pdf                 # Writes plan.dxf
  pdf2dxf convert plan.pdf out.dxf -s 2.5  # Scale every coordinate by 2.5
  pdf2dxf convert dump.json --from-dump    # Convert a JSON drawing dump`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		req, err := buildRequest(cmd, args)
		if err != nil {
			return err
		}

		result, err := convert.Convert(ctx, req)
		if err != nil {
			return err
		}
		return output.Write(svcctx.OutputFrom(ctx), result)
	},
}

func init() {
	addConvertFlags(convertCmd)
	rootCmd.AddCommand(convertCmd)
}

func addConvertFlags(cmd *cobra.Command) {
	cmd.Flags().Float64VarP(&convertScale, "scale", "s", 0, "scale factor (default from config)")
	cmd.Flags().BoolVar(&convertFromDump, "from-dump", false, "read the source as a JSON drawing dump")
}

// buildRequest assembles a conversion request from the loaded config and
// the command's flags and arguments.
func buildRequest(cmd *cobra.Command, args []string) (convert.Request, error) {
	ctx := cmd.Context()
	cfg := svcctx.ConfigFrom(ctx).Get()
	h := svcctx.HomeFrom(ctx)

	if err := h.EnsureExists(); err != nil {
		return convert.Request{}, err
	}

	scale := cfg.Scale
	if cmd.Flags().Changed("scale") {
		// Zero means "default" to the driver, so an explicit zero is caught here.
		if convertScale <= 0 {
			return convert.Request{}, fmt.Errorf("%w: %v", convert.ErrInvalidScale, convertScale)
		}
		scale = convertScale
	}

	dxfOpts, err := cfg.DXFOptions()
	if err != nil {
		return convert.Request{}, err
	}

	pdfOpts := cfg.PDFOptions()
	pdfOpts.TempDir = h.TmpPath()

	src := args[0]
	out := defaultOutputPath(src)
	if len(args) > 1 {
		out = args[1]
	}

	return convert.Request{
		SourcePath: src,
		OutputPath: out,
		Scale:      geom.ScaleFactor(scale),
		FromDump:   convertFromDump,
		PDF:        pdfOpts,
		DXF:        dxfOpts,
		Logger:     svcctx.LoggerFrom(ctx),
	}, nil
}

// defaultOutputPath swaps the source extension for .dxf.
func defaultOutputPath(src string) string {
	return strings.TrimSuffix(src, filepath.Ext(src)) + ".dxf"
}

// runConvert converts and logs the result instead of printing it.
func runConvert(ctx context.Context, req convert.Request) error {
	result, err := convert.Convert(ctx, req)
	if err != nil {
		return err
	}
	svcctx.LoggerFrom(ctx).Info("wrote drawing",
		"output", result.OutputPath,
		"entities", result.Stats.Entities,
		"skipped", result.Stats.Skipped,
	)
	return nil
}
