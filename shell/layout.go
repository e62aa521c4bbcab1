// SPDX-License-Identifier: Unlicense OR MIT

package shell

import (
	"inkwm.org/geom"
	"inkwm.org/protocol"
)

// A Placement is one surface's computed geometry.
type Placement struct {
	Rect    geom.Rect
	Visible bool
}

// Layout computes every surface's rectangle inside work, in
// traversal order: layers first, then the wallpaper, then the
// container tree. rotation is the global rotation, which decides
// which side container splits are taken from.
//
// visit is called once per surface the shell holds.
func (s *Shell) Layout(work geom.Rect, rotation geom.Rotation, visit func(protocol.SurfaceID, Placement)) {
	for _, l := range s.Layers {
		visit(l.Surface, Placement{
			Rect:    l.Anchor.Take(l.Size, &work),
			Visible: true,
		})
	}
	if s.Wallpaper != 0 {
		visit(s.Wallpaper, Placement{
			Rect: work,
			// The wallpaper shows only while no normal surfaces
			// cover it.
			Visible: s.Root == nil,
		})
	}
	if s.Root != nil {
		layoutContainer(s.Root, work, rotation, visit)
	}
}

func layoutContainer(c *Container, rect geom.Rect, rotation geom.Rotation, visit func(protocol.SurfaceID, Placement)) {
	side := geom.Left
	if c.Kind == Vertical {
		side = geom.Top
	}
	side = side.Rotate(rotation)

	var total int32
	switch side {
	case geom.Left, geom.Right:
		total = rect.Size.X
	default:
		total = rect.Size.Y
	}
	share := total / int32(len(c.Children))

	for i, child := range c.Children {
		var childRect geom.Rect
		if i == len(c.Children)-1 {
			// The last child absorbs the rounding remainder.
			childRect = rect
		} else {
			childRect = side.Take(share, &rect)
		}
		switch n := child.(type) {
		case Surface:
			visit(protocol.SurfaceID(n), Placement{Rect: childRect, Visible: true})
		case *Container:
			layoutContainer(n, childRect, rotation, visit)
		}
	}
}
