package shape

import (
	"errors"
	"fmt"

	"github.com/jackzampolin/pdf2dxf/internal/source"
)

// ErrMalformedPayload is returned when a recognized drawing command lacks the
// payload its kind requires.
var ErrMalformedPayload = errors.New("malformed drawing command payload")

// Kind is the classified shape kind of a drawing command.
type Kind int

const (
	// KindUnknown marks a command with an unrecognized tag. Such commands are
	// skipped, not rejected.
	KindUnknown Kind = iota
	KindSegment
	KindRectangle
	KindCircle
	KindPolygon
	KindCurve
)

func (k Kind) String() string {
	switch k {
	case KindSegment:
		return "segment"
	case KindRectangle:
		return "rectangle"
	case KindCircle:
		return "circle"
	case KindPolygon:
		return "polygon"
	case KindCurve:
		return "curve"
	default:
		return "unknown"
	}
}

// Kinds lists the recognized kinds in a stable order.
var Kinds = []Kind{KindSegment, KindRectangle, KindCircle, KindPolygon, KindCurve}

// Classify determines the kind of cmd and checks that the payload fields the
// kind requires are present. Unrecognized tags yield KindUnknown and a nil
// error.
func Classify(cmd source.DrawingCommand) (Kind, error) {
	switch cmd.Kind {
	case source.TagSegment:
		if len(cmd.Points) != 2 {
			return KindSegment, fmt.Errorf("%w: segment needs 2 points, got %d", ErrMalformedPayload, len(cmd.Points))
		}
		return KindSegment, nil
	case source.TagRectangle:
		if cmd.Rect == nil {
			return KindRectangle, fmt.Errorf("%w: rectangle has no corner descriptor", ErrMalformedPayload)
		}
		return KindRectangle, nil
	case source.TagCircle:
		if len(cmd.Points) != 2 {
			return KindCircle, fmt.Errorf("%w: circle needs center and boundary point, got %d points", ErrMalformedPayload, len(cmd.Points))
		}
		return KindCircle, nil
	case source.TagPolygon:
		if len(cmd.Points) == 0 {
			return KindPolygon, fmt.Errorf("%w: polygon has no points", ErrMalformedPayload)
		}
		return KindPolygon, nil
	case source.TagCurve:
		if len(cmd.Points) == 0 {
			return KindCurve, fmt.Errorf("%w: curve has no control points", ErrMalformedPayload)
		}
		return KindCurve, nil
	default:
		return KindUnknown, nil
	}
}
