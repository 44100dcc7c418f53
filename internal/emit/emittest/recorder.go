// Package emittest provides a Backend that records the calls made against it.
package emittest

import "github.com/jackzampolin/pdf2dxf/internal/geom"

// Call is one recorded backend call.
type Call struct {
	Op      string // "line", "polyline", "circle", "spline" or "text"
	Points  []geom.Point
	Closed  bool
	Radius  float64
	Content string
	Height  float64
}

// Recorder implements emit.Backend by appending every call to Calls.
type Recorder struct {
	Calls []Call
}

func (r *Recorder) AddLine(start, end geom.Point) {
	r.Calls = append(r.Calls, Call{Op: "line", Points: []geom.Point{start, end}})
}

func (r *Recorder) AddPolyline(vertices []geom.Point, closed bool) {
	r.Calls = append(r.Calls, Call{Op: "polyline", Points: clone(vertices), Closed: closed})
}

func (r *Recorder) AddCircle(center geom.Point, radius float64) {
	r.Calls = append(r.Calls, Call{Op: "circle", Points: []geom.Point{center}, Radius: radius})
}

func (r *Recorder) AddSpline(controlPoints []geom.Point) {
	r.Calls = append(r.Calls, Call{Op: "spline", Points: clone(controlPoints)})
}

func (r *Recorder) AddText(content string, position geom.Point, height float64) {
	r.Calls = append(r.Calls, Call{Op: "text", Points: []geom.Point{position}, Content: content, Height: height})
}

// Ops returns the recorded operation names in call order.
func (r *Recorder) Ops() []string {
	ops := make([]string, len(r.Calls))
	for i, c := range r.Calls {
		ops[i] = c.Op
	}
	return ops
}

func clone(pts []geom.Point) []geom.Point {
	return append([]geom.Point(nil), pts...)
}
