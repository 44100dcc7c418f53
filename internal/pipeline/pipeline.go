// Package pipeline drives drawing commands and text blocks from a source
// document through normalization and emission, page by page.
//
// Processing is strictly sequential. Pages run in document order; within a
// page, drawing commands run in paint order followed by text blocks in
// extraction order. The backend is owned by the run for its whole duration.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackzampolin/pdf2dxf/internal/emit"
	"github.com/jackzampolin/pdf2dxf/internal/geom"
	"github.com/jackzampolin/pdf2dxf/internal/shape"
	"github.com/jackzampolin/pdf2dxf/internal/source"
)

// Run processes every page of doc into b. The context is checked between
// pages only; a page, once started, runs to completion or to its first error.
func Run(ctx context.Context, doc source.Document, b emit.Backend, f geom.ScaleFactor, logger *slog.Logger) (Stats, error) {
	if logger == nil {
		logger = slog.Default()
	}

	stats := NewStats()
	total := doc.NumPages()

	for i := 0; i < total; i++ {
		if err := ctx.Err(); err != nil {
			return stats, err
		}

		page, err := doc.Page(i)
		if err != nil {
			return stats, fmt.Errorf("failed to load page %d: %w", i+1, err)
		}

		logger.Info("processing page", "page", page.Number(), "of", total)

		ps, err := RunPage(page, b, f, logger)
		stats.Add(ps)
		if err != nil {
			return stats, err
		}
	}

	return stats, nil
}

// RunPage processes one page into b.
func RunPage(page source.Page, b emit.Backend, f geom.ScaleFactor, logger *slog.Logger) (Stats, error) {
	if logger == nil {
		logger = slog.Default()
	}
	stats := NewStats()
	stats.Pages = 1

	cmds, err := page.DrawingCommands()
	if err != nil {
		return stats, fmt.Errorf("page %d: failed to read drawing commands: %w", page.Number(), err)
	}

	for i, cmd := range cmds {
		s, ok, err := shape.Normalize(cmd, f)
		if err != nil {
			return stats, fmt.Errorf("page %d item %d: %w", page.Number(), i, err)
		}
		if !ok {
			logger.Debug("skipping unrecognized drawing command", "page", page.Number(), "item", i, "kind", cmd.Kind)
			stats.Skipped++
			continue
		}
		if err := emit.Emit(b, s); err != nil {
			return stats, fmt.Errorf("page %d item %d: %w", page.Number(), i, err)
		}
		stats.count(shape.KindOf(s))
		stats.Entities++
	}

	blocks, err := page.TextBlocks()
	if err != nil {
		return stats, fmt.Errorf("page %d: failed to read text blocks: %w", page.Number(), err)
	}

	for _, block := range blocks {
		if err := emit.Emit(b, shape.NormalizeText(block, f)); err != nil {
			return stats, fmt.Errorf("page %d: %w", page.Number(), err)
		}
		stats.TextLabels++
		stats.Entities++
	}

	logger.Debug("page complete",
		"page", page.Number(),
		"entities", stats.Entities,
		"skipped", stats.Skipped,
	)

	return stats, nil
}
