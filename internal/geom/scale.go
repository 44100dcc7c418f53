package geom

import "math"

// ScaleFactor is the run-wide uniform multiplier applied to both axes.
type ScaleFactor float64

// DefaultScale leaves coordinates unchanged.
const DefaultScale ScaleFactor = 1.0

// Valid reports whether f is a usable scale factor: finite and strictly positive.
func (f ScaleFactor) Valid() bool {
	v := float64(f)
	return v > 0 && !math.IsInf(v, 0) && !math.IsNaN(v)
}

// Scale returns (p.X*f, p.Y*f).
func Scale(p Point, f ScaleFactor) Point {
	return Point{X: p.X * float64(f), Y: p.Y * float64(f)}
}

// ScaleAll scales every point of pts into a new slice. The input is never
// modified.
func ScaleAll(pts []Point, f ScaleFactor) []Point {
	out := make([]Point, len(pts))
	for i, p := range pts {
		out[i] = Scale(p, f)
	}
	return out
}

// ScaleLength scales a scalar length such as a radius.
func ScaleLength(v float64, f ScaleFactor) float64 {
	return v * float64(f)
}
