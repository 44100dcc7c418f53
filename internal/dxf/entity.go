package dxf

import "github.com/jackzampolin/pdf2dxf/internal/geom"

// Entity is one drawing entity accumulated in a Document.
type Entity interface {
	// Type is the DXF entity name, e.g. "LINE".
	Type() string
	points() []geom.Point
	write(w *groupWriter)
}

// Line is a LINE entity.
type Line struct {
	Start, End geom.Point
}

// Polyline is an LWPOLYLINE entity.
type Polyline struct {
	Vertices []geom.Point
	Closed   bool
}

// Circle is a CIRCLE entity.
type Circle struct {
	Center geom.Point
	Radius float64
}

// Spline is a SPLINE entity defined by control points with a clamped
// uniform knot vector.
type Spline struct {
	ControlPoints []geom.Point
	Degree        int
}

// Text is a single-line TEXT entity.
type Text struct {
	Content  string
	Position geom.Point
	Height   float64
}

func (Line) Type() string     { return "LINE" }
func (Polyline) Type() string { return "LWPOLYLINE" }
func (Circle) Type() string   { return "CIRCLE" }
func (Spline) Type() string   { return "SPLINE" }
func (Text) Type() string     { return "TEXT" }

func (e Line) points() []geom.Point     { return []geom.Point{e.Start, e.End} }
func (e Polyline) points() []geom.Point { return e.Vertices }
func (e Spline) points() []geom.Point   { return e.ControlPoints }
func (e Text) points() []geom.Point     { return []geom.Point{e.Position} }

func (e Circle) points() []geom.Point {
	return []geom.Point{
		{X: e.Center.X - e.Radius, Y: e.Center.Y - e.Radius},
		{X: e.Center.X + e.Radius, Y: e.Center.Y + e.Radius},
	}
}

func (e Line) write(w *groupWriter) {
	w.subclass("AcDbLine")
	w.point(10, e.Start)
	w.point(11, e.End)
}

func (e Polyline) write(w *groupWriter) {
	w.subclass("AcDbPolyline")
	w.int(90, len(e.Vertices))
	flags := 0
	if e.Closed {
		flags |= 1
	}
	w.int(70, flags)
	w.float(43, 0)
	for _, v := range e.Vertices {
		w.float(10, v.X)
		w.float(20, v.Y)
	}
}

func (e Circle) write(w *groupWriter) {
	w.subclass("AcDbCircle")
	w.point(10, e.Center)
	w.float(40, e.Radius)
}

func (e Spline) write(w *groupWriter) {
	knots := clampedKnots(len(e.ControlPoints), e.Degree)

	w.subclass("AcDbSpline")
	w.float(210, 0)
	w.float(220, 0)
	w.float(230, 1)
	w.int(70, 8) // planar
	w.int(71, e.Degree)
	w.int(72, len(knots))
	w.int(73, len(e.ControlPoints))
	w.int(74, 0)
	w.float(42, 1e-10)
	w.float(43, 1e-10)
	for _, k := range knots {
		w.float(40, k)
	}
	for _, p := range e.ControlPoints {
		w.point(10, p)
	}
}

func (e Text) write(w *groupWriter) {
	w.subclass("AcDbText")
	w.point(10, e.Position)
	w.float(40, e.Height)
	w.str(1, encodeText(e.Content))
	w.subclass("AcDbText")
}

// splineDegree is cubic where the point count allows it.
func splineDegree(n int) int {
	switch {
	case n <= 1:
		return 0
	case n < 4:
		return n - 1
	default:
		return 3
	}
}

// clampedKnots returns n+p+1 knots: p+1 zeros, evenly spaced interior
// knots, then p+1 ones.
func clampedKnots(n, p int) []float64 {
	if n == 0 {
		return nil
	}
	knots := make([]float64, 0, n+p+1)
	for i := 0; i <= p; i++ {
		knots = append(knots, 0)
	}
	interior := n - p - 1
	for i := 1; i <= interior; i++ {
		knots = append(knots, float64(i)/float64(interior+1))
	}
	for i := 0; i <= p; i++ {
		knots = append(knots, 1)
	}
	return knots
}
