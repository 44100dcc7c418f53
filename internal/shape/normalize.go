package shape

import (
	"github.com/jackzampolin/pdf2dxf/internal/geom"
	"github.com/jackzampolin/pdf2dxf/internal/source"
)

// Normalize classifies cmd and builds its scaled canonical shape. ok is false
// for commands of unknown kind, which callers skip.
func Normalize(cmd source.DrawingCommand, f geom.ScaleFactor) (s Shape, ok bool, err error) {
	kind, err := Classify(cmd)
	if err != nil {
		return nil, false, err
	}

	switch kind {
	case KindSegment:
		return Segment{
			Start: geom.Scale(cmd.Points[0], f),
			End:   geom.Scale(cmd.Points[1], f),
		}, true, nil

	case KindRectangle:
		var q ClosedQuad
		for i, c := range cmd.Rect.Corners() {
			q.Corners[i] = geom.Scale(c, f)
		}
		return q, true, nil

	case KindCircle:
		// Radius comes from the unscaled pair; distance commutes with a
		// uniform scale.
		center, boundary := cmd.Points[0], cmd.Points[1]
		return Circle{
			Center: geom.Scale(center, f),
			Radius: geom.ScaleLength(center.Distance(boundary), f),
		}, true, nil

	case KindPolygon:
		return ClosedPolygon{Vertices: geom.ScaleAll(cmd.Points, f)}, true, nil

	case KindCurve:
		return Curve{ControlPoints: geom.ScaleAll(cmd.Points, f)}, true, nil

	default:
		return nil, false, nil
	}
}

// NormalizeText anchors a text block at its scaled bounding-box origin. The
// far corner is ignored.
func NormalizeText(block source.TextBlock, f geom.ScaleFactor) TextLabel {
	return TextLabel{
		Position: geom.Scale(geom.Pt(block.X0, block.Y0), f),
		Content:  block.Text,
		Height:   TextHeight,
	}
}
