package main

import (
	"github.com/spf13/cobra"

	"github.com/jackzampolin/pdf2dxf/internal/convert"
	"github.com/jackzampolin/pdf2dxf/internal/output"
	"github.com/jackzampolin/pdf2dxf/internal/svcctx"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <source.pdf>",
	Short: "Classify a PDF's drawing commands without writing DXF",
	Long: `Inspect reports, per page, how many drawing commands of each kind the
source contains, how many would be skipped, and how many text blocks it has.

Examples:
  pdf2dxf inspect plan.pdf
  pdf2dxf inspect dump.json --from-dump -o json`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		req, err := buildRequest(cmd, args)
		if err != nil {
			return err
		}

		summaries, err := convert.Inspect(ctx, req)
		if err != nil {
			return err
		}
		return output.Write(svcctx.OutputFrom(ctx), summaries)
	},
}

func init() {
	inspectCmd.Flags().BoolVar(&convertFromDump, "from-dump", false, "read the source as a JSON drawing dump")
	rootCmd.AddCommand(inspectCmd)
}
