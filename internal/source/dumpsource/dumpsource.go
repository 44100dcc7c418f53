// Package dumpsource reads pre-extracted page content from a JSON drawing
// dump, so vector data produced by other PDF tools converts without
// re-decoding the PDF.
//
// The format is
//
//	{"pages": [
//	  {"drawings": [{"kind": "l", "points": [[x, y], ...], "rect": [x0, y0, x1, y1]}],
//	   "blocks":   [[x0, y0, x1, y1, "text", ...]]}
//	]}
//
// Blocks may carry extra trailing elements, which are ignored.
package dumpsource

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/jackzampolin/pdf2dxf/internal/geom"
	"github.com/jackzampolin/pdf2dxf/internal/source"
)

// ErrInvalidDump is returned when the input does not match the dump schema.
var ErrInvalidDump = errors.New("invalid drawing dump")

//go:embed schema.json
var schemaJSON []byte

var compileSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("dump.json", bytes.NewReader(schemaJSON)); err != nil {
		return nil, fmt.Errorf("failed to load dump schema: %w", err)
	}
	schema, err := compiler.Compile("dump.json")
	if err != nil {
		return nil, fmt.Errorf("failed to compile dump schema: %w", err)
	}
	return schema, nil
})

type dump struct {
	Pages []dumpPage `json:"pages"`
}

type dumpPage struct {
	Drawings []dumpDrawing `json:"drawings"`
	Blocks   []dumpBlock   `json:"blocks"`
}

type dumpDrawing struct {
	Kind   string       `json:"kind"`
	Points [][2]float64 `json:"points"`
	Rect   *[4]float64  `json:"rect"`
}

type dumpBlock struct {
	X0, Y0, X1, Y1 float64
	Text           string
}

func (b *dumpBlock) UnmarshalJSON(data []byte) error {
	var fields []json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	if len(fields) < 5 {
		return fmt.Errorf("text block needs 5 elements, got %d", len(fields))
	}
	for i, dst := range []*float64{&b.X0, &b.Y0, &b.X1, &b.Y1} {
		if err := json.Unmarshal(fields[i], dst); err != nil {
			return fmt.Errorf("text block element %d: %w", i, err)
		}
	}
	return json.Unmarshal(fields[4], &b.Text)
}

// Open reads and decodes the dump at path. Failing to open the file wraps
// source.ErrOpen; bad content wraps ErrInvalidDump only.
func Open(path string) (*source.MemoryDocument, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", source.ErrOpen, err)
	}
	defer f.Close()

	doc, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}

// Decode validates the dump against its schema and converts it into an
// in-memory document. Pages are numbered from 1 in file order.
func Decode(r io.Reader) (*source.MemoryDocument, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read dump: %w", err)
	}

	schema, err := compileSchema()
	if err != nil {
		return nil, err
	}

	var instance any
	if err := json.Unmarshal(raw, &instance); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDump, err)
	}
	if err := schema.Validate(instance); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDump, err)
	}

	var d dump
	if err := json.Unmarshal(raw, &d); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDump, err)
	}

	pages := make([]*source.MemoryPage, 0, len(d.Pages))
	for _, p := range d.Pages {
		pages = append(pages, convertPage(p))
	}
	return source.NewMemoryDocument(pages...), nil
}

func convertPage(p dumpPage) *source.MemoryPage {
	page := &source.MemoryPage{
		Drawings: make([]source.DrawingCommand, 0, len(p.Drawings)),
		Blocks:   make([]source.TextBlock, 0, len(p.Blocks)),
	}

	for _, d := range p.Drawings {
		cmd := source.DrawingCommand{Kind: d.Kind}
		if len(d.Points) > 0 {
			cmd.Points = make([]geom.Point, len(d.Points))
			for i, xy := range d.Points {
				cmd.Points[i] = geom.Pt(xy[0], xy[1])
			}
		}
		if d.Rect != nil {
			cmd.Rect = &geom.Rect{X0: d.Rect[0], Y0: d.Rect[1], X1: d.Rect[2], Y1: d.Rect[3]}
		}
		page.Drawings = append(page.Drawings, cmd)
	}

	for _, b := range p.Blocks {
		page.Blocks = append(page.Blocks, source.TextBlock{
			X0: b.X0, Y0: b.Y0, X1: b.X1, Y1: b.Y1, Text: b.Text,
		})
	}
	return page
}
