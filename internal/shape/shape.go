// Package shape turns raw drawing commands and text blocks into canonical,
// scaled shapes ready for emission.
//
// Shape is a closed sum type: the only implementations are the six types in
// this package. Callers switch on the concrete type.
package shape

import "github.com/jackzampolin/pdf2dxf/internal/geom"

// TextHeight is the fixed height given to every emitted text label. It is a
// drawing attribute and is not affected by the scale factor.
const TextHeight = 2.5

// Shape is a normalized, already-scaled primitive.
type Shape interface {
	isShape()
}

// Segment is a straight line.
type Segment struct {
	Start, End geom.Point
}

// ClosedQuad is a rectangle expanded to its four corners, implicitly closed.
type ClosedQuad struct {
	Corners [4]geom.Point
}

// Circle is a full circle.
type Circle struct {
	Center geom.Point
	Radius float64
}

// ClosedPolygon is an implicitly closed vertex sequence.
type ClosedPolygon struct {
	Vertices []geom.Point
}

// Curve is a smooth curve given by its control points.
type Curve struct {
	ControlPoints []geom.Point
}

// TextLabel is positioned text.
type TextLabel struct {
	Position geom.Point
	Content  string
	Height   float64
}

func (Segment) isShape()       {}
func (ClosedQuad) isShape()    {}
func (Circle) isShape()        {}
func (ClosedPolygon) isShape() {}
func (Curve) isShape()         {}
func (TextLabel) isShape()     {}

// KindOf returns the drawing-command kind a shape was built from. Text labels
// have no drawing-command kind and report KindUnknown.
func KindOf(s Shape) Kind {
	switch s.(type) {
	case Segment:
		return KindSegment
	case ClosedQuad:
		return KindRectangle
	case Circle:
		return KindCircle
	case ClosedPolygon:
		return KindPolygon
	case Curve:
		return KindCurve
	default:
		return KindUnknown
	}
}
