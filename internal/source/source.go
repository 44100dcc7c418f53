// Package source defines the boundary between the conversion pipeline and
// the decoders that read page content out of a document.
//
// A decoder produces, per page, an ordered list of raw drawing commands and an
// ordered list of raw text blocks. Both are consumed immediately by the
// pipeline; nothing is buffered across pages.
package source

import (
	"errors"

	"github.com/jackzampolin/pdf2dxf/internal/geom"
)

// ErrOpen is wrapped by decoders when the source file cannot be opened or is
// not a readable document. It is the only error watch mode retries.
var ErrOpen = errors.New("cannot open source")

// Wire tags for drawing commands.
const (
	TagSegment   = "l"
	TagRectangle = "re"
	TagCircle    = "c"
	TagPolygon   = "p"
	TagCurve     = "b"
)

// DrawingCommand is one vector primitive extracted from a page. Kind is a
// wire tag; which payload fields are meaningful depends on it:
//
//	l   Points = [start, end]
//	re  Rect
//	c   Points = [center, point on the circle]
//	p   Points = vertices
//	b   Points = control points
//
// Decoders may emit tags outside this set.
type DrawingCommand struct {
	Kind   string
	Points []geom.Point
	Rect   *geom.Rect
}

// TextBlock is one block of extracted text. (X0, Y0) is the bounding-box
// origin; (X1, Y1) is the far corner.
type TextBlock struct {
	X0, Y0 float64
	X1, Y1 float64
	Text   string
}

// Page gives access to one page's content in paint order.
type Page interface {
	// Number is the 1-based page number.
	Number() int
	DrawingCommands() ([]DrawingCommand, error)
	TextBlocks() ([]TextBlock, error)
}

// Document is an opened source document.
type Document interface {
	NumPages() int
	// Page returns the page at the 0-based index.
	Page(index int) (Page, error)
	Close() error
}
