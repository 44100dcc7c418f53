package pdfsource

import (
	"log/slog"
	"math"

	"github.com/tsawler/tabula/contentstream"
	"github.com/tsawler/tabula/core"

	"github.com/jackzampolin/pdf2dxf/internal/geom"
	"github.com/jackzampolin/pdf2dxf/internal/source"
)

// DefaultCircleTolerance is the relative radius deviation allowed when
// recognizing a four-curve circle.
const DefaultCircleTolerance = 0.02

type segment struct {
	curve bool
	// line: [end]; curve: [c1, c2, end]
	pts []geom.Point
}

type subpath struct {
	start  geom.Point
	segs   []segment
	closed bool
	rect   *geom.Rect
}

func (sp *subpath) current() geom.Point {
	if len(sp.segs) == 0 {
		return sp.start
	}
	s := sp.segs[len(sp.segs)-1]
	return s.pts[len(s.pts)-1]
}

// interpreter turns content stream path operators into drawing commands.
// Coordinates are mapped through the CTM when the path is constructed, so
// commands are in default user space.
type interpreter struct {
	ctm       geom.Matrix
	stack     []geom.Matrix
	path      []*subpath
	circleTol float64
	out       []source.DrawingCommand

	// resources is the current resource dictionary for Do lookups.
	resources core.Dict
	resolve   resolver
	depth     int
	logger    *slog.Logger
}

func newInterpreter(circleTol float64, resources core.Dict, r resolver, logger *slog.Logger) *interpreter {
	if circleTol <= 0 {
		circleTol = DefaultCircleTolerance
	}
	if r == nil {
		r = directResolver{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &interpreter{
		ctm:       geom.Identity,
		circleTol: circleTol,
		resources: resources,
		resolve:   r,
		logger:    logger,
	}
}

// run interprets ops and returns the drawing commands in paint order.
// Operators with the wrong operand count are ignored, as a viewer would.
func (in *interpreter) run(ops []contentstream.Operation) []source.DrawingCommand {
	for _, op := range ops {
		in.apply(op)
	}
	return in.out
}

func (in *interpreter) apply(op contentstream.Operation) {
	switch op.Operator {
	case "q":
		in.stack = append(in.stack, in.ctm)
	case "Q":
		if n := len(in.stack); n > 0 {
			in.ctm = in.stack[n-1]
			in.stack = in.stack[:n-1]
		}
	case "cm":
		if v, ok := operands(op, 6); ok {
			in.ctm = geom.Matrix{v[0], v[1], v[2], v[3], v[4], v[5]}.Mul(in.ctm)
		}

	case "m":
		if v, ok := operands(op, 2); ok {
			in.moveTo(in.pt(v[0], v[1]))
		}
	case "l":
		if v, ok := operands(op, 2); ok {
			in.lineTo(in.pt(v[0], v[1]))
		}
	case "c":
		if v, ok := operands(op, 6); ok {
			in.curveTo(in.pt(v[0], v[1]), in.pt(v[2], v[3]), in.pt(v[4], v[5]))
		}
	case "v":
		if v, ok := operands(op, 4); ok {
			if sp := in.open(); sp != nil {
				in.curveTo(sp.current(), in.pt(v[0], v[1]), in.pt(v[2], v[3]))
			}
		}
	case "y":
		if v, ok := operands(op, 4); ok {
			end := in.pt(v[2], v[3])
			in.curveTo(in.pt(v[0], v[1]), end, end)
		}
	case "h":
		if sp := in.last(); sp != nil {
			sp.closed = true
		}
	case "re":
		if v, ok := operands(op, 4); ok {
			in.rectangle(v[0], v[1], v[2], v[3])
		}

	case "S":
		in.flush(false)
	case "s", "f", "F", "f*", "B", "B*", "b", "b*":
		in.flush(true)
	case "n":
		in.path = nil

	case "Do":
		in.doXObject(op)
	}
}

func (in *interpreter) pt(x, y float64) geom.Point {
	return in.ctm.Apply(geom.Pt(x, y))
}

func (in *interpreter) last() *subpath {
	if len(in.path) == 0 {
		return nil
	}
	return in.path[len(in.path)-1]
}

// open returns the subpath new segments extend. After a close, drawing
// continues from the closed subpath's start in a fresh subpath.
func (in *interpreter) open() *subpath {
	sp := in.last()
	if sp == nil {
		return nil
	}
	if sp.closed || sp.rect != nil {
		next := &subpath{start: sp.start}
		in.path = append(in.path, next)
		return next
	}
	return sp
}

func (in *interpreter) moveTo(p geom.Point) {
	if sp := in.last(); sp != nil && len(sp.segs) == 0 && sp.rect == nil {
		sp.start = p
		return
	}
	in.path = append(in.path, &subpath{start: p})
}

func (in *interpreter) lineTo(p geom.Point) {
	if sp := in.open(); sp != nil {
		sp.segs = append(sp.segs, segment{pts: []geom.Point{p}})
	}
}

func (in *interpreter) curveTo(c1, c2, end geom.Point) {
	if sp := in.open(); sp != nil {
		sp.segs = append(sp.segs, segment{curve: true, pts: []geom.Point{c1, c2, end}})
	}
}

func (in *interpreter) rectangle(x, y, w, h float64) {
	corners := [4]geom.Point{
		in.pt(x, y), in.pt(x+w, y), in.pt(x+w, y+h), in.pt(x, y+h),
	}
	sp := &subpath{start: corners[0], closed: true}
	if in.ctm.AxisAligned() {
		r := geom.Rect{X0: corners[0].X, Y0: corners[0].Y, X1: corners[2].X, Y1: corners[2].Y}.Normalize()
		sp.rect = &r
	} else {
		for _, c := range corners[1:] {
			sp.segs = append(sp.segs, segment{pts: []geom.Point{c}})
		}
	}
	in.path = append(in.path, sp)
}

// flush converts the current path into commands. Filling closes every
// subpath implicitly.
func (in *interpreter) flush(closeAll bool) {
	for _, sp := range in.path {
		in.emit(sp, closeAll || sp.closed)
	}
	in.path = nil
}

func (in *interpreter) emit(sp *subpath, closed bool) {
	if sp.rect != nil {
		r := *sp.rect
		in.out = append(in.out, source.DrawingCommand{Kind: source.TagRectangle, Rect: &r})
		return
	}
	if len(sp.segs) == 0 {
		return
	}

	if closed {
		if c, ok := in.circle(sp); ok {
			in.out = append(in.out, c)
			return
		}
	}

	if !hasCurves(sp) {
		verts := vertices(sp)
		if closed && len(verts) >= 3 {
			in.out = append(in.out, source.DrawingCommand{Kind: source.TagPolygon, Points: verts})
			return
		}
	}

	prev := sp.start
	for _, s := range sp.segs {
		end := s.pts[len(s.pts)-1]
		if s.curve {
			in.out = append(in.out, source.DrawingCommand{
				Kind:   source.TagCurve,
				Points: []geom.Point{prev, s.pts[0], s.pts[1], end},
			})
		} else {
			in.out = append(in.out, source.DrawingCommand{
				Kind:   source.TagSegment,
				Points: []geom.Point{prev, end},
			})
		}
		prev = end
	}
	if closed && prev != sp.start {
		in.out = append(in.out, source.DrawingCommand{
			Kind:   source.TagSegment,
			Points: []geom.Point{prev, sp.start},
		})
	}
}

func hasCurves(sp *subpath) bool {
	for _, s := range sp.segs {
		if s.curve {
			return true
		}
	}
	return false
}

// vertices lists the distinct corners of a line-only subpath, dropping a
// final point that repeats the start.
func vertices(sp *subpath) []geom.Point {
	out := make([]geom.Point, 0, len(sp.segs)+1)
	out = append(out, sp.start)
	for _, s := range sp.segs {
		out = append(out, s.pts[0])
	}
	if len(out) > 1 && out[len(out)-1] == sp.start {
		out = out[:len(out)-1]
	}
	return out
}

// circle recognizes the usual four-Bezier circle approximation. The result
// is a "c" command holding the center and the first on-curve point.
func (in *interpreter) circle(sp *subpath) (source.DrawingCommand, bool) {
	if len(sp.segs) != 4 {
		return source.DrawingCommand{}, false
	}
	for _, s := range sp.segs {
		if !s.curve {
			return source.DrawingCommand{}, false
		}
	}

	onCurve := [4]geom.Point{sp.start, sp.segs[0].pts[2], sp.segs[1].pts[2], sp.segs[2].pts[2]}
	var center geom.Point
	for _, p := range onCurve {
		center.X += p.X / 4
		center.Y += p.Y / 4
	}

	var r float64
	for _, p := range onCurve {
		r += center.Distance(p) / 4
	}
	if r == 0 {
		return source.DrawingCommand{}, false
	}
	tol := in.circleTol * r

	if sp.segs[3].pts[2].Distance(sp.start) > tol {
		return source.DrawingCommand{}, false
	}

	prev := sp.start
	for _, s := range sp.segs {
		end := s.pts[2]
		if math.Abs(center.Distance(end)-r) > tol {
			return source.DrawingCommand{}, false
		}
		mid := geom.Pt(
			(prev.X+3*s.pts[0].X+3*s.pts[1].X+end.X)/8,
			(prev.Y+3*s.pts[0].Y+3*s.pts[1].Y+end.Y)/8,
		)
		if math.Abs(center.Distance(mid)-r) > tol {
			return source.DrawingCommand{}, false
		}
		prev = end
	}

	return source.DrawingCommand{
		Kind:   source.TagCircle,
		Points: []geom.Point{center, sp.start},
	}, true
}

func operands(op contentstream.Operation, n int) ([]float64, bool) {
	if len(op.Operands) != n {
		return nil, false
	}
	out := make([]float64, n)
	for i, o := range op.Operands {
		v, ok := number(o)
		if !ok {
			return nil, false
		}
		out[i] = v
	}
	return out, true
}

func number(o core.Object) (float64, bool) {
	switch v := o.(type) {
	case core.Int:
		return float64(v), true
	case core.Real:
		return float64(v), true
	default:
		return 0, false
	}
}
