// Package pdfsource decodes PDF pages into drawing commands and text blocks.
//
// Vector content comes from interpreting each page's content stream path
// operators; text comes from tabula's fragment extractor grouped by its
// layout block detector. Coordinates are in PDF default user space (origin
// bottom-left, y up).
package pdfsource

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/tsawler/tabula/contentstream"
	"github.com/tsawler/tabula/core"
	"github.com/tsawler/tabula/layout"
	"github.com/tsawler/tabula/pages"
	"github.com/tsawler/tabula/reader"
	"github.com/tsawler/tabula/text"

	"github.com/jackzampolin/pdf2dxf/internal/source"
)

// Options control decoding.
type Options struct {
	// Decrypt writes a decrypted copy of the file before reading it, removing
	// permission restrictions.
	Decrypt bool

	// TempDir holds decrypted copies; empty means the system temp dir.
	TempDir string

	// CircleTolerance is the relative radius deviation allowed when
	// recognizing four-curve circles.
	CircleTolerance float64

	// TextBlocks groups text fragments into layout blocks. When false every
	// fragment becomes its own block.
	TextBlocks bool

	// Block grouping thresholds, as fractions of line height or font size.
	LineHeightTolerance    float64
	VerticalGapThreshold   float64
	HorizontalGapThreshold float64

	Logger *slog.Logger
}

// DefaultOptions returns the options used when nothing is configured.
func DefaultOptions() Options {
	bc := layout.DefaultBlockConfig()
	return Options{
		CircleTolerance:        DefaultCircleTolerance,
		TextBlocks:             true,
		LineHeightTolerance:    bc.LineHeightTolerance,
		VerticalGapThreshold:   bc.VerticalGapThreshold,
		HorizontalGapThreshold: bc.HorizontalGapThreshold,
	}
}

func (o Options) blockConfig() layout.BlockConfig {
	bc := layout.DefaultBlockConfig()
	if o.LineHeightTolerance > 0 {
		bc.LineHeightTolerance = o.LineHeightTolerance
	}
	if o.VerticalGapThreshold > 0 {
		bc.VerticalGapThreshold = o.VerticalGapThreshold
	}
	if o.HorizontalGapThreshold > 0 {
		bc.HorizontalGapThreshold = o.HorizontalGapThreshold
	}
	// Every label in a drawing matters, however small.
	bc.MinBlockWidth = 0
	bc.MinBlockHeight = 0
	return bc
}

// Document is an opened PDF.
type Document struct {
	r       *reader.Reader
	opts    Options
	logger  *slog.Logger
	count   int
	cleanup func()
}

var _ source.Document = (*Document)(nil)

// Open checks the file with pdfcpu, optionally decrypts it, and opens it
// for page-by-page decoding. Failures wrap source.ErrOpen.
func Open(path string, opts Options) (*Document, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	workingPath, count, cleanup, err := Prepare(path, opts)
	if err != nil {
		return nil, err
	}

	r, err := reader.Open(workingPath)
	if err != nil {
		cleanup()
		return nil, fmt.Errorf("%w: %s: %v", source.ErrOpen, path, err)
	}

	logger.Debug("opened pdf", "path", path, "pages", count, "version", r.Version().String())

	return &Document{
		r:       r,
		opts:    opts,
		logger:  logger,
		count:   count,
		cleanup: cleanup,
	}, nil
}

// Prepare validates path as a PDF and reports its page count. With
// opts.Decrypt set it writes a decrypted copy to a temp file and returns that
// path instead; cleanup removes the copy and is always safe to call.
func Prepare(path string, opts Options) (workingPath string, pageCount int, cleanup func(), err error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	cleanup = func() {}
	workingPath = path

	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed

	if opts.Decrypt {
		decrypted, derr := decryptPDF(path, opts.TempDir, conf)
		if derr != nil {
			// Unencrypted files fail to decrypt; read the original.
			logger.Debug("decrypt skipped", "path", path, "error", derr)
		} else {
			workingPath = decrypted
			cleanup = func() { os.Remove(decrypted) }
		}
	}

	f, err := os.Open(workingPath)
	if err != nil {
		cleanup()
		return "", 0, func() {}, fmt.Errorf("%w: %v", source.ErrOpen, err)
	}
	defer f.Close()

	pageCount, err = api.PageCount(f, conf)
	if err != nil {
		cleanup()
		return "", 0, func() {}, fmt.Errorf("%w: failed to read %s: %v", source.ErrOpen, path, err)
	}

	return workingPath, pageCount, cleanup, nil
}

func decryptPDF(path, dir string, conf *model.Configuration) (string, error) {
	tmp, err := os.CreateTemp(dir, "decrypted-*.pdf")
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	tmp.Close()

	if err := api.DecryptFile(path, tmpPath, conf); err != nil {
		os.Remove(tmpPath)
		return "", err
	}
	return tmpPath, nil
}

// NumPages implements source.Document.
func (d *Document) NumPages() int { return d.count }

// Page implements source.Document.
func (d *Document) Page(index int) (source.Page, error) {
	if index < 0 || index >= d.count {
		return nil, fmt.Errorf("page index %d out of range [0, %d)", index, d.count)
	}
	p, err := d.r.GetPage(index)
	if err != nil {
		return nil, fmt.Errorf("failed to load page %d: %w", index+1, err)
	}
	return &Page{doc: d, number: index + 1, page: p}, nil
}

// Close implements source.Document.
func (d *Document) Close() error {
	err := d.r.Close()
	d.cleanup()
	return err
}

// Page is one decoded PDF page.
type Page struct {
	doc    *Document
	number int
	page   *pages.Page
}

// Number implements source.Page.
func (p *Page) Number() int { return p.number }

// DrawingCommands implements source.Page.
func (p *Page) DrawingCommands() ([]source.DrawingCommand, error) {
	data, err := p.content()
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, nil
	}
	// A page without resources still draws; Do operators are then ignored.
	resources, _ := p.page.Resources()
	cmds, err := parseDrawings(data, p.doc.opts.CircleTolerance, resources, p.doc.r, p.doc.logger)
	if err != nil {
		return nil, err
	}
	p.doc.logger.Debug("decoded drawings", "page", p.number, "commands", len(cmds))
	return cmds, nil
}

// content decodes and concatenates the page's content streams.
func (p *Page) content() ([]byte, error) {
	contents, err := p.page.Contents()
	if err != nil {
		return nil, fmt.Errorf("failed to get contents: %w", err)
	}

	var data []byte
	for _, obj := range contents {
		stream, ok := obj.(*core.Stream)
		if !ok {
			continue
		}
		decoded, err := stream.Decode()
		if err != nil {
			return nil, fmt.Errorf("failed to decode content stream: %w", err)
		}
		data = append(data, decoded...)
		data = append(data, '\n')
	}
	return data, nil
}

// ParseDrawings interprets a raw content stream into drawing commands.
// Form XObjects it paints are looked up in resources.
func ParseDrawings(data []byte, circleTol float64, resources core.Dict) ([]source.DrawingCommand, error) {
	return parseDrawings(data, circleTol, resources, nil, nil)
}

func parseDrawings(data []byte, circleTol float64, resources core.Dict, r resolver, logger *slog.Logger) ([]source.DrawingCommand, error) {
	ops, err := contentstream.NewParser(data).Parse()
	if err != nil {
		return nil, fmt.Errorf("failed to parse content stream: %w", err)
	}
	return newInterpreter(circleTol, resources, r, logger).run(ops), nil
}

// TextBlocks implements source.Page.
func (p *Page) TextBlocks() ([]source.TextBlock, error) {
	fragments, err := p.doc.r.ExtractTextFragments(p.page)
	if err != nil {
		return nil, err
	}
	if len(fragments) == 0 {
		return nil, nil
	}

	if !p.doc.opts.TextBlocks {
		return fragmentBlocks(fragments), nil
	}

	width, _ := p.page.Width()
	height, _ := p.page.Height()
	return GroupBlocks(fragments, width, height, p.doc.opts), nil
}

// GroupBlocks runs the layout block detector over fragments and returns the
// blocks in reading order. Each block's origin is its bottom-left corner.
func GroupBlocks(fragments []text.TextFragment, pageWidth, pageHeight float64, opts Options) []source.TextBlock {
	detected := layout.NewBlockDetectorWithConfig(opts.blockConfig()).Detect(fragments, pageWidth, pageHeight)

	blocks := make([]source.TextBlock, 0, len(detected.Blocks))
	for i := range detected.Blocks {
		b := &detected.Blocks[i]
		content := b.GetText()
		if strings.TrimSpace(content) == "" {
			continue
		}
		blocks = append(blocks, source.TextBlock{
			X0:   b.BBox.Left(),
			Y0:   b.BBox.Bottom(),
			X1:   b.BBox.Right(),
			Y1:   b.BBox.Top(),
			Text: content,
		})
	}
	return blocks
}

func fragmentBlocks(fragments []text.TextFragment) []source.TextBlock {
	blocks := make([]source.TextBlock, 0, len(fragments))
	for _, f := range fragments {
		if strings.TrimSpace(f.Text) == "" {
			continue
		}
		blocks = append(blocks, source.TextBlock{
			X0:   f.X,
			Y0:   f.Y,
			X1:   f.X + f.Width,
			Y1:   f.Y + f.Height,
			Text: f.Text,
		})
	}
	return blocks
}
