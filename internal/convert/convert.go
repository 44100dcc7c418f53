// Package convert is the conversion driver: it opens a source document, runs
// every page through the pipeline into a fresh DXF document, and saves it.
package convert

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/jackzampolin/pdf2dxf/internal/dxf"
	"github.com/jackzampolin/pdf2dxf/internal/geom"
	"github.com/jackzampolin/pdf2dxf/internal/pipeline"
	"github.com/jackzampolin/pdf2dxf/internal/source"
	"github.com/jackzampolin/pdf2dxf/internal/source/dumpsource"
	"github.com/jackzampolin/pdf2dxf/internal/source/pdfsource"
)

// ErrInvalidScale is returned for a scale factor that is not a positive
// finite number.
var ErrInvalidScale = errors.New("scale factor must be a positive finite number")

// Request contains the parameters for one conversion.
type Request struct {
	SourcePath string           // PDF (or drawing dump) to read
	OutputPath string           // DXF file to write
	Scale      geom.ScaleFactor // Uniform scale; zero means 1.0

	FromDump bool              // Read SourcePath as a JSON drawing dump
	PDF      pdfsource.Options // Decoder options for PDF sources
	DXF      dxf.Options       // Output options; GUID is derived from the source when zero

	// Open overrides how the source is opened. Used by tests.
	Open func(path string) (source.Document, error)

	Logger *slog.Logger // Optional logger for progress updates
}

// Result describes a successful conversion.
type Result struct {
	RunID      string         `json:"run_id" yaml:"run_id"`
	SourcePath string         `json:"source" yaml:"source"`
	OutputPath string         `json:"output" yaml:"output"`
	Scale      float64        `json:"scale" yaml:"scale"`
	Stats      pipeline.Stats `json:"stats" yaml:"stats"`
	Duration   time.Duration  `json:"duration" yaml:"duration"`
}

// Convert runs one conversion. Nothing is written unless every page
// converts; the output file is replaced atomically.
func Convert(ctx context.Context, req Request) (*Result, error) {
	log := req.Logger
	if log == nil {
		log = slog.Default()
	}

	scale := req.Scale
	if scale == 0 {
		scale = geom.DefaultScale
	}
	if !scale.Valid() {
		return nil, fmt.Errorf("%w: %v", ErrInvalidScale, float64(req.Scale))
	}

	srcPath, err := filepath.Abs(req.SourcePath)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve source path: %w", err)
	}
	outPath, err := filepath.Abs(req.OutputPath)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve output path: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	runID := uuid.New().String()
	log = log.With("run_id", runID)
	start := time.Now()

	log.Info("starting conversion", "source", srcPath, "output", outPath, "scale", float64(scale))

	doc, err := openSource(srcPath, req, log)
	if err != nil {
		return nil, err
	}
	defer doc.Close()

	opts := req.DXF
	if opts.GUID == uuid.Nil {
		opts.GUID = uuid.NewSHA1(uuid.NameSpaceURL, []byte(srcPath))
	}
	drawing := dxf.New(opts)

	stats, err := pipeline.Run(ctx, doc, drawing, scale, log)
	if err != nil {
		return nil, fmt.Errorf("conversion failed: %w", err)
	}

	if err := drawing.SaveAs(outPath); err != nil {
		return nil, fmt.Errorf("failed to save %s: %w", outPath, err)
	}

	result := &Result{
		RunID:      runID,
		SourcePath: srcPath,
		OutputPath: outPath,
		Scale:      float64(scale),
		Stats:      stats,
		Duration:   time.Since(start),
	}

	log.Info("conversion complete",
		"pages", stats.Pages,
		"entities", stats.Entities,
		"skipped", stats.Skipped,
		"duration", result.Duration,
	)

	return result, nil
}

// Inspect opens the source the way Convert would and classifies every page
// without writing anything.
func Inspect(ctx context.Context, req Request) ([]pipeline.PageSummary, error) {
	log := req.Logger
	if log == nil {
		log = slog.Default()
	}

	srcPath, err := filepath.Abs(req.SourcePath)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve source path: %w", err)
	}

	doc, err := openSource(srcPath, req, log)
	if err != nil {
		return nil, err
	}
	defer doc.Close()

	return pipeline.Inspect(ctx, doc)
}

func openSource(path string, req Request, log *slog.Logger) (source.Document, error) {
	var (
		doc source.Document
		err error
	)
	switch {
	case req.Open != nil:
		doc, err = req.Open(path)
	case req.FromDump:
		doc, err = dumpsource.Open(path)
	default:
		opts := req.PDF
		if opts.Logger == nil {
			opts.Logger = log
		}
		doc, err = pdfsource.Open(path, opts)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open source: %w", err)
	}
	return doc, nil
}
