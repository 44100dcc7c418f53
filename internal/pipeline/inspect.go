package pipeline

import (
	"context"
	"fmt"

	"github.com/jackzampolin/pdf2dxf/internal/shape"
	"github.com/jackzampolin/pdf2dxf/internal/source"
)

// PageSummary is the classification result for one page.
type PageSummary struct {
	Page  int   `json:"page" yaml:"page"`
	Stats Stats `json:"stats" yaml:"stats"`
}

// Inspect classifies every drawing command and counts text blocks without
// emitting anything. Malformed commands are reported as errors, as Run would.
func Inspect(ctx context.Context, doc source.Document) ([]PageSummary, error) {
	summaries := make([]PageSummary, 0, doc.NumPages())

	for i := 0; i < doc.NumPages(); i++ {
		if err := ctx.Err(); err != nil {
			return summaries, err
		}

		page, err := doc.Page(i)
		if err != nil {
			return summaries, fmt.Errorf("failed to load page %d: %w", i+1, err)
		}

		stats := NewStats()
		stats.Pages = 1

		cmds, err := page.DrawingCommands()
		if err != nil {
			return summaries, fmt.Errorf("page %d: failed to read drawing commands: %w", page.Number(), err)
		}
		for j, cmd := range cmds {
			kind, err := shape.Classify(cmd)
			if err != nil {
				return summaries, fmt.Errorf("page %d item %d: %w", page.Number(), j, err)
			}
			if kind == shape.KindUnknown {
				stats.Skipped++
				continue
			}
			stats.count(kind)
			stats.Entities++
		}

		blocks, err := page.TextBlocks()
		if err != nil {
			return summaries, fmt.Errorf("page %d: failed to read text blocks: %w", page.Number(), err)
		}
		stats.TextLabels = len(blocks)
		stats.Entities += len(blocks)

		summaries = append(summaries, PageSummary{Page: page.Number(), Stats: stats})
	}

	return summaries, nil
}
