// Package emit maps canonical shapes onto calls against an output document.
package emit

import (
	"fmt"

	"github.com/jackzampolin/pdf2dxf/internal/geom"
	"github.com/jackzampolin/pdf2dxf/internal/shape"
)

// Backend is an accumulating drawing document. Implementations own any
// validation of their own limits (minimum point counts and the like).
type Backend interface {
	AddLine(start, end geom.Point)
	AddPolyline(vertices []geom.Point, closed bool)
	AddCircle(center geom.Point, radius float64)
	AddSpline(controlPoints []geom.Point)
	AddText(content string, position geom.Point, height float64)
}

// Emit issues exactly one backend call for s.
func Emit(b Backend, s shape.Shape) error {
	switch s := s.(type) {
	case shape.Segment:
		b.AddLine(s.Start, s.End)
	case shape.ClosedQuad:
		b.AddPolyline(s.Corners[:], true)
	case shape.ClosedPolygon:
		b.AddPolyline(s.Vertices, true)
	case shape.Circle:
		b.AddCircle(s.Center, s.Radius)
	case shape.Curve:
		b.AddSpline(s.ControlPoints)
	case shape.TextLabel:
		b.AddText(s.Content, s.Position, s.Height)
	default:
		return fmt.Errorf("unsupported shape type %T", s)
	}
	return nil
}
