// Package geom holds the 2-D value types shared by the conversion pipeline
// and the uniform scale transform applied to them.
package geom

import (
	"fmt"
	"math"
)

// Point is a 2-D coordinate.
type Point struct {
	X, Y float64
}

// Pt is shorthand for Point{X: x, Y: y}.
func Pt(x, y float64) Point {
	return Point{X: x, Y: y}
}

// String formats the point as "(x, y)".
func (p Point) String() string {
	return fmt.Sprintf("(%g, %g)", p.X, p.Y)
}

// Distance returns the Euclidean distance between p and q.
func (p Point) Distance(q Point) float64 {
	return math.Hypot(q.X-p.X, q.Y-p.Y)
}

// Rect is a two-corner rectangle descriptor. (X0, Y0) is the near corner and
// (X1, Y1) the far corner; no ordering between them is implied.
type Rect struct {
	X0, Y0, X1, Y1 float64
}

// Normalize returns r with X0 <= X1 and Y0 <= Y1.
func (r Rect) Normalize() Rect {
	return Rect{
		X0: math.Min(r.X0, r.X1),
		Y0: math.Min(r.Y0, r.Y1),
		X1: math.Max(r.X0, r.X1),
		Y1: math.Max(r.Y0, r.Y1),
	}
}

// Corners expands r into its four corners in the order
// (x0,y0), (x1,y0), (x1,y1), (x0,y1).
func (r Rect) Corners() [4]Point {
	return [4]Point{
		{X: r.X0, Y: r.Y0},
		{X: r.X1, Y: r.Y0},
		{X: r.X1, Y: r.Y1},
		{X: r.X0, Y: r.Y1},
	}
}
