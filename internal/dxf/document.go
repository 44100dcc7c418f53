// Package dxf accumulates CAD entities in memory and writes them as an ASCII
// DXF (AutoCAD 2000, AC1015) file.
package dxf

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/jackzampolin/pdf2dxf/internal/geom"
)

// Drawing units for the $INSUNITS header variable.
const (
	UnitsUnitless   = 0
	UnitsInches     = 1
	UnitsMillimeter = 4
	UnitsCentimeter = 5
	UnitsMeters     = 6
)

var unitNames = map[string]int{
	"":           UnitsUnitless,
	"unitless":   UnitsUnitless,
	"in":         UnitsInches,
	"inches":     UnitsInches,
	"mm":         UnitsMillimeter,
	"millimeter": UnitsMillimeter,
	"cm":         UnitsCentimeter,
	"centimeter": UnitsCentimeter,
	"m":          UnitsMeters,
	"meters":     UnitsMeters,
}

// ParseUnits maps a unit name such as "mm" to its $INSUNITS code.
func ParseUnits(name string) (int, error) {
	u, ok := unitNames[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return 0, fmt.Errorf("unknown drawing units %q", name)
	}
	return u, nil
}

// DefaultLayer is the layer entities go on when none is configured.
const DefaultLayer = "0"

// Options configure a new Document.
type Options struct {
	Layer string    // Layer for every entity (default "0")
	Units int       // $INSUNITS value
	GUID  uuid.UUID // $FINGERPRINTGUID; random when zero
}

// Document is an in-memory DXF drawing. It implements the emit.Backend
// method set. A Document is not safe for concurrent use.
type Document struct {
	opts     Options
	entities []Entity
}

// New creates an empty document.
func New(opts Options) *Document {
	if opts.Layer == "" {
		opts.Layer = DefaultLayer
	}
	if opts.GUID == uuid.Nil {
		opts.GUID = uuid.New()
	}
	return &Document{opts: opts}
}

// AddLine appends a LINE.
func (d *Document) AddLine(start, end geom.Point) {
	d.entities = append(d.entities, Line{Start: start, End: end})
}

// AddPolyline appends an LWPOLYLINE. The vertex slice is copied.
func (d *Document) AddPolyline(vertices []geom.Point, closed bool) {
	d.entities = append(d.entities, Polyline{
		Vertices: append([]geom.Point(nil), vertices...),
		Closed:   closed,
	})
}

// AddCircle appends a CIRCLE.
func (d *Document) AddCircle(center geom.Point, radius float64) {
	d.entities = append(d.entities, Circle{Center: center, Radius: radius})
}

// AddSpline appends a SPLINE using the points as control points. The degree
// is cubic when at least four points are given and lower otherwise.
func (d *Document) AddSpline(controlPoints []geom.Point) {
	d.entities = append(d.entities, Spline{
		ControlPoints: append([]geom.Point(nil), controlPoints...),
		Degree:        splineDegree(len(controlPoints)),
	})
}

// AddText appends a TEXT anchored at position.
func (d *Document) AddText(content string, position geom.Point, height float64) {
	d.entities = append(d.entities, Text{Content: content, Position: position, Height: height})
}

// Entities returns the accumulated entities in insertion order.
func (d *Document) Entities() []Entity {
	return d.entities
}

// Len returns the number of accumulated entities.
func (d *Document) Len() int {
	return len(d.entities)
}

// SaveAs writes the document to path. The file is written to a temporary
// file in the same directory and renamed into place, so a failed save never
// leaves a truncated drawing behind.
func (d *Document) SaveAs(path string) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".pdf2dxf-*.dxf")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	cleanup := func() {
		tmp.Close()
		os.Remove(tmpPath)
	}

	bw := bufio.NewWriter(tmp)
	if _, err := d.WriteTo(bw); err != nil {
		cleanup()
		return fmt.Errorf("failed to write drawing: %w", err)
	}
	if err := bw.Flush(); err != nil {
		cleanup()
		return fmt.Errorf("failed to write drawing: %w", err)
	}
	if err := tmp.Chmod(0o644); err != nil {
		cleanup()
		return fmt.Errorf("failed to set file mode: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to close drawing: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to move drawing into place: %w", err)
	}
	return nil
}

// Bytes renders the document into memory.
func (d *Document) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	if _, err := d.WriteTo(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteTo implements io.WriterTo.
func (d *Document) WriteTo(w io.Writer) (int64, error) {
	g := &groupWriter{w: w}
	l := d.layout()

	d.writeHeader(g, l)
	writeClasses(g)
	d.writeTables(g, l)
	writeBlocks(g, l)
	d.writeEntities(g, l)
	writeObjects(g, l)
	g.str(0, "EOF")

	return g.n, g.err
}

func (d *Document) writeHeader(g *groupWriter, l *layout) {
	lo, hi := d.extents()

	g.str(0, "SECTION")
	g.str(2, "HEADER")
	g.str(9, "$ACADVER")
	g.str(1, "AC1015")
	g.str(9, "$DWGCODEPAGE")
	g.str(3, "ANSI_1252")
	g.str(9, "$HANDSEED")
	g.str(5, hex(l.handseed()))
	g.str(9, "$CLAYER")
	g.str(8, d.opts.Layer)
	g.str(9, "$INSUNITS")
	g.int(70, d.opts.Units)
	g.str(9, "$EXTMIN")
	g.point(10, lo)
	g.str(9, "$EXTMAX")
	g.point(10, hi)
	g.str(9, "$FINGERPRINTGUID")
	g.str(2, "{"+strings.ToUpper(d.opts.GUID.String())+"}")
	g.str(0, "ENDSEC")
}

// writeEntities writes every entity into model space.
func (d *Document) writeEntities(g *groupWriter, l *layout) {
	g.str(0, "SECTION")
	g.str(2, "ENTITIES")
	for i, e := range d.entities {
		g.str(0, e.Type())
		g.handle(l.entities[i])
		g.owner(l.modelSpace.record)
		g.subclass("AcDbEntity")
		g.str(8, d.opts.Layer)
		e.write(g)
	}
	g.str(0, "ENDSEC")
}

// extents returns the bounding box of every entity point, or two zero
// points for an empty drawing.
func (d *Document) extents() (lo, hi geom.Point) {
	lo = geom.Pt(math.Inf(1), math.Inf(1))
	hi = geom.Pt(math.Inf(-1), math.Inf(-1))
	seen := false
	for _, e := range d.entities {
		for _, p := range e.points() {
			lo.X, lo.Y = math.Min(lo.X, p.X), math.Min(lo.Y, p.Y)
			hi.X, hi.Y = math.Max(hi.X, p.X), math.Max(hi.Y, p.Y)
			seen = true
		}
	}
	if !seen {
		return geom.Point{}, geom.Point{}
	}
	return lo, hi
}
