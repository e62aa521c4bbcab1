// SPDX-License-Identifier: Unlicense OR MIT

package geom

// Rotation is a clockwise quarter-turn rotation.
type Rotation uint8

const (
	RotateNone Rotation = iota
	Rotate90
	Rotate180
	Rotate270
)

// Side identifies one edge of a rectangle or of the screen.
type Side uint8

const (
	Top Side = iota
	Right
	Bottom
	Left
)

// TransformPoint rotates p within a container of the given size. The
// rotation is about the container's local origin: (0, 0) maps to the
// corner that the top-left corner reaches after the turn.
func (r Rotation) TransformPoint(p Point, container Vec) Point {
	switch r {
	case RotateNone:
		return p
	case Rotate90:
		return Point{X: container.X - p.Y, Y: p.X}
	case Rotate180:
		return container.Point().Sub(p).Point()
	case Rotate270:
		return Point{X: p.Y, Y: container.Y - p.X}
	default:
		panic("invalid Rotation")
	}
}

// TransformRect rotates rect within a container of the given size and
// normalizes the result.
func (r Rotation) TransformRect(rect Rect, container Vec) Rect {
	rect.Origin = r.TransformPoint(rect.Origin, container)
	rect.Size = r.TransformPoint(rect.Size.Point(), Vec{}).Vec()
	return rect.Normalize()
}

// TransformSize returns the size of a container after rotation:
// quarter turns exchange width and height.
func (r Rotation) TransformSize(size Vec) Vec {
	switch r {
	case RotateNone, Rotate180:
		return size
	case Rotate90, Rotate270:
		return size.Swap()
	default:
		panic("invalid Rotation")
	}
}

// Inverse returns the rotation that cancels r.
func (r Rotation) Inverse() Rotation {
	switch r {
	case RotateNone:
		return RotateNone
	case Rotate90:
		return Rotate270
	case Rotate180:
		return Rotate180
	case Rotate270:
		return Rotate90
	default:
		panic("invalid Rotation")
	}
}

func (r Rotation) String() string {
	switch r {
	case RotateNone:
		return "None"
	case Rotate90:
		return "Rotate90"
	case Rotate180:
		return "Rotate180"
	case Rotate270:
		return "Rotate270"
	default:
		panic("invalid Rotation")
	}
}

// Rotate advances the side by the given rotation: a clockwise quarter
// turn maps Top to Right.
func (s Side) Rotate(r Rotation) Side {
	return Side((uint8(s) + uint8(r)) % 4)
}

// Take slices an amount-wide band from the s side of *from, leaving
// the remainder in *from and returning the slice.
func (s Side) Take(amount int32, from *Rect) Rect {
	ret := *from
	switch s {
	case Top:
		ret.Size.Y = amount
		from.Size.Y -= amount
		from.Origin.Y += amount
	case Right:
		ret.Origin.X = from.Origin.X + from.Size.X - amount
		ret.Size.X = amount
		from.Size.X -= amount
	case Bottom:
		ret.Origin.Y = from.Origin.Y + from.Size.Y - amount
		ret.Size.Y = amount
		from.Size.Y -= amount
	case Left:
		ret.Size.X = amount
		from.Size.X -= amount
		from.Origin.X += amount
	default:
		panic("invalid Side")
	}
	return ret
}

func (s Side) String() string {
	switch s {
	case Top:
		return "Top"
	case Right:
		return "Right"
	case Bottom:
		return "Bottom"
	case Left:
		return "Left"
	default:
		panic("invalid Side")
	}
}
