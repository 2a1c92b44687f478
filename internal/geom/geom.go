// Package geom provides the screen-space value types shared by the
// accessibility, hint and pointer packages.
//
// Coordinates use a top-left origin with y growing downward, matching
// the accessibility position attribute.
package geom

import (
	"fmt"
	"math"
)

// Point is a location in screen coordinates.
type Point struct {
	X, Y float64
}

// Pt is shorthand for Point{X: x, Y: y}.
func Pt(x, y float64) Point {
	return Point{X: x, Y: y}
}

// Add returns p translated by q.
func (p Point) Add(q Point) Point {
	return Point{X: p.X + q.X, Y: p.Y + q.Y}
}

// Distance returns the Euclidean distance between p and q.
func (p Point) Distance(q Point) float64 {
	return math.Hypot(p.X-q.X, p.Y-q.Y)
}

// String implements fmt.Stringer.
func (p Point) String() string {
	return fmt.Sprintf("(%g,%g)", p.X, p.Y)
}

// Size is a width and height pair.
type Size struct {
	W, H float64
}

// Rect is an axis-aligned rectangle.
type Rect struct {
	Origin Point
	Size   Size
}

// R builds a Rect from origin and size components.
func R(x, y, w, h float64) Rect {
	return Rect{Origin: Point{X: x, Y: y}, Size: Size{W: w, H: h}}
}

// Unbounded is a sentinel rectangle that never clips anything.
var Unbounded = Rect{
	Origin: Point{X: -math.MaxFloat64 / 2, Y: -math.MaxFloat64 / 2},
	Size:   Size{W: math.MaxFloat64, H: math.MaxFloat64},
}

// MinX returns the left edge.
func (r Rect) MinX() float64 { return r.Origin.X }

// MinY returns the top edge.
func (r Rect) MinY() float64 { return r.Origin.Y }

// MaxX returns the right edge.
func (r Rect) MaxX() float64 { return r.Origin.X + r.Size.W }

// MaxY returns the bottom edge.
func (r Rect) MaxY() float64 { return r.Origin.Y + r.Size.H }

// Width returns the width.
func (r Rect) Width() float64 { return r.Size.W }

// Height returns the height.
func (r Rect) Height() float64 { return r.Size.H }

// Center returns the midpoint of r.
func (r Rect) Center() Point {
	return Point{X: r.Origin.X + r.Size.W/2, Y: r.Origin.Y + r.Size.H/2}
}

// Contains reports whether p lies inside r. The right and bottom edges
// are exclusive.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.MinX() && p.X < r.MaxX() && p.Y >= r.MinY() && p.Y < r.MaxY()
}

// Clamp returns p moved to the nearest point inside r, edges inclusive.
func (r Rect) Clamp(p Point) Point {
	return Point{
		X: math.Max(r.MinX(), math.Min(p.X, r.MaxX())),
		Y: math.Max(r.MinY(), math.Min(p.Y, r.MaxY())),
	}
}

// String implements fmt.Stringer.
func (r Rect) String() string {
	return fmt.Sprintf("{%g,%g %gx%g}", r.Origin.X, r.Origin.Y, r.Size.W, r.Size.H)
}
