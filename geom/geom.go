// SPDX-License-Identifier: Unlicense OR MIT

/*
Package geom is a signed 32-bit integer implementation of points,
vectors and rectangles, together with quarter-turn rotations and
screen sides.

The coordinate space has the origin in the top left corner with the
axes extending right and down. Rectangle sizes may be transiently
negative; Normalize canonicalizes the origin to the top-left corner.
*/
package geom

// A Point is a position in two dimensional space.
type Point struct {
	X, Y int32
}

// A Vec is an offset or size in two dimensional space.
type Vec struct {
	X, Y int32
}

// A Rect is a rectangle described by its origin corner and size.
// The size may be negative; call Normalize to move the origin to
// the top-left corner.
type Rect struct {
	Origin Point
	Size   Vec
}

// Pt is shorthand for Point{X: x, Y: y}.
func Pt(x, y int32) Point {
	return Point{X: x, Y: y}
}

// Sz is shorthand for Vec{X: x, Y: y}.
func Sz(x, y int32) Vec {
	return Vec{X: x, Y: y}
}

// XYWH is shorthand for Rect{Origin: Pt(x, y), Size: Sz(w, h)}.
func XYWH(x, y, w, h int32) Rect {
	return Rect{Origin: Point{X: x, Y: y}, Size: Vec{X: w, Y: h}}
}

// Add returns the point p offset by v.
func (p Point) Add(v Vec) Point {
	return Point{X: p.X + v.X, Y: p.Y + v.Y}
}

// Sub returns the vector from q to p.
func (p Point) Sub(q Point) Vec {
	return Vec{X: p.X - q.X, Y: p.Y - q.Y}
}

// Mul returns p with both components scaled by s.
func (p Point) Mul(s int32) Point {
	return Point{X: p.X * s, Y: p.Y * s}
}

// Vec returns p as an offset from the origin.
func (p Point) Vec() Vec {
	return Vec(p)
}

// Min returns the componentwise minimum of p and q.
func (p Point) Min(q Point) Point {
	if q.X < p.X {
		p.X = q.X
	}
	if q.Y < p.Y {
		p.Y = q.Y
	}
	return p
}

// Max returns the componentwise maximum of p and q.
func (p Point) Max(q Point) Point {
	if q.X > p.X {
		p.X = q.X
	}
	if q.Y > p.Y {
		p.Y = q.Y
	}
	return p
}

// Add returns the vector v+w.
func (v Vec) Add(w Vec) Vec {
	return Vec{X: v.X + w.X, Y: v.Y + w.Y}
}

// Sub returns the vector v-w.
func (v Vec) Sub(w Vec) Vec {
	return Vec{X: v.X - w.X, Y: v.Y - w.Y}
}

// Mul returns v with both components scaled by s.
func (v Vec) Mul(s int32) Vec {
	return Vec{X: v.X * s, Y: v.Y * s}
}

// Div returns v with both components divided by s.
func (v Vec) Div(s int32) Vec {
	return Vec{X: v.X / s, Y: v.Y / s}
}

// Neg returns -v.
func (v Vec) Neg() Vec {
	return Vec{X: -v.X, Y: -v.Y}
}

// Abs returns v with both components non-negative.
func (v Vec) Abs() Vec {
	if v.X < 0 {
		v.X = -v.X
	}
	if v.Y < 0 {
		v.Y = -v.Y
	}
	return v
}

// Swap returns v with its components exchanged.
func (v Vec) Swap() Vec {
	return Vec{X: v.Y, Y: v.X}
}

// Splat returns a vector with both components equal to s.
func Splat(s int32) Vec {
	return Vec{X: s, Y: s}
}

// Point returns v as a position.
func (v Vec) Point() Point {
	return Point(v)
}

// Empty reports whether a rectangle of size v covers no pixels.
func (v Vec) Empty() bool {
	return v.X == 0 || v.Y == 0
}

// Normalize returns r with non-negative size and its origin moved to
// the top-left corner. The set of covered pixels is unchanged.
func (r Rect) Normalize() Rect {
	if r.Size.X < 0 {
		r.Size.X = -r.Size.X
		r.Origin.X -= r.Size.X
	}
	if r.Size.Y < 0 {
		r.Size.Y = -r.Size.Y
		r.Origin.Y -= r.Size.Y
	}
	return r
}

// End returns Origin+Size, the corner diagonally opposite Origin.
func (r Rect) End() Point {
	return r.Origin.Add(r.Size)
}

// TopLeft returns the minimum corner regardless of size sign.
func (r Rect) TopLeft() Point {
	return r.Origin.Min(r.End())
}

// BottomRight returns the maximum corner regardless of size sign.
func (r Rect) BottomRight() Point {
	return r.Origin.Max(r.End())
}

// FromCorners returns the rectangle with the given origin and
// opposite corner.
func FromCorners(origin, end Point) Rect {
	return Rect{Origin: origin, Size: end.Sub(origin)}
}

// Intersect returns the largest rectangle contained by both r and s.
// If r and s are disjoint the result has zero size.
func (r Rect) Intersect(s Rect) Rect {
	tl := r.TopLeft().Max(s.TopLeft())
	br := r.BottomRight().Min(s.BottomRight())
	if br.X < tl.X {
		br.X = tl.X
	}
	if br.Y < tl.Y {
		br.Y = tl.Y
	}
	return FromCorners(tl, br)
}

// Empty reports whether r covers no pixels.
func (r Rect) Empty() bool {
	return r.Size.Empty()
}

// Inset returns r shrunk by n on all four sides.
func (r Rect) Inset(n int32) Rect {
	return Rect{
		Origin: r.Origin.Add(Splat(n)),
		Size:   r.Size.Sub(Splat(2 * n)),
	}
}

// In reports whether p is inside r.
func (p Point) In(r Rect) bool {
	r = r.Normalize()
	return p.X >= r.Origin.X && p.X < r.Origin.X+r.Size.X &&
		p.Y >= r.Origin.Y && p.Y < r.Origin.Y+r.Size.Y
}

// Mul returns r with origin and size scaled by s.
func (r Rect) Mul(s int32) Rect {
	return Rect{Origin: r.Origin.Mul(s), Size: r.Size.Mul(s)}
}
