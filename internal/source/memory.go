package source

import "fmt"

// MemoryPage is a Page whose content is already decoded.
type MemoryPage struct {
	PageNumber int
	Drawings   []DrawingCommand
	Blocks     []TextBlock
}

// Number implements Page.
func (p *MemoryPage) Number() int { return p.PageNumber }

// DrawingCommands implements Page.
func (p *MemoryPage) DrawingCommands() ([]DrawingCommand, error) { return p.Drawings, nil }

// TextBlocks implements Page.
func (p *MemoryPage) TextBlocks() ([]TextBlock, error) { return p.Blocks, nil }

// MemoryDocument is a Document backed by a slice of pages.
type MemoryDocument struct {
	Pages []*MemoryPage
}

// NewMemoryDocument builds a document from pages, numbering them from 1 in
// slice order when a page has no number set.
func NewMemoryDocument(pages ...*MemoryPage) *MemoryDocument {
	for i, p := range pages {
		if p.PageNumber == 0 {
			p.PageNumber = i + 1
		}
	}
	return &MemoryDocument{Pages: pages}
}

// NumPages implements Document.
func (d *MemoryDocument) NumPages() int { return len(d.Pages) }

// Page implements Document.
func (d *MemoryDocument) Page(index int) (Page, error) {
	if index < 0 || index >= len(d.Pages) {
		return nil, fmt.Errorf("page index %d out of range [0, %d)", index, len(d.Pages))
	}
	return d.Pages[index], nil
}

// Close implements Document.
func (d *MemoryDocument) Close() error { return nil }
