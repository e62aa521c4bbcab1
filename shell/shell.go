// SPDX-License-Identifier: Unlicense OR MIT

/*
Package shell holds the window manager's surface arrangement: a stack
of anchored layers, an optional wallpaper, and a tree of split
containers with a focus path.

The shell stores only surface IDs; surface records live in the
manager's maps. Parents are found by path, never by pointer, so the
tree carries no cycles.
*/
package shell

import (
	"golang.org/x/exp/slices"

	"inkwm.org/geom"
	"inkwm.org/protocol"
)

// Kind is a container's split direction.
type Kind uint8

const (
	Horizontal Kind = iota
	Vertical
)

// A Node is either a *Container or a Surface leaf.
type Node interface {
	isNode()
}

// Surface is a leaf node holding a surface ID.
type Surface protocol.SurfaceID

// A Container subdivides its rectangle among its children.
// Invariant: a container in the tree has at least one child; empty
// containers are pruned.
type Container struct {
	Kind     Kind
	Children []Node
}

func (Surface) isNode()    {}
func (*Container) isNode() {}

// A Layer is a surface anchored to one screen side. The anchor is
// stored post-global-rotation.
type Layer struct {
	Anchor  geom.Side
	Size    int32
	Surface protocol.SurfaceID
}

// Shell is the full arrangement.
type Shell struct {
	// Layers claim bands of the screen in declaration order.
	Layers []Layer
	// Wallpaper receives the residual rectangle after layers; zero
	// when absent.
	Wallpaper protocol.SurfaceID
	// Root is the container tree, nil while no normal surfaces
	// exist.
	Root *Container
	// Focus is the path of child indices from Root to the focused
	// surface; nil iff Root is nil.
	Focus []int
}

// AddLayer appends a layer.
func (s *Shell) AddLayer(l Layer) {
	s.Layers = append(s.Layers, l)
}

// SetWallpaper installs id as the wallpaper and returns the surface
// it replaced, if any.
func (s *Shell) SetWallpaper(id protocol.SurfaceID) (replaced protocol.SurfaceID, ok bool) {
	replaced, ok = s.Wallpaper, s.Wallpaper != 0
	s.Wallpaper = id
	return replaced, ok
}

// InsertNormal tiles id next to the focused surface: it is pushed
// into the focused node's parent container, or becomes the sole
// child of a new horizontal root. The focus moves to id.
func (s *Shell) InsertNormal(id protocol.SurfaceID) {
	if s.Root == nil {
		s.Root = &Container{Kind: Horizontal, Children: []Node{Surface(id)}}
		s.Focus = []int{0}
		return
	}
	parent := s.Root
	parentPath := s.Focus[:max(len(s.Focus)-1, 0)]
	for _, i := range parentPath {
		c, ok := parent.Children[i].(*Container)
		if !ok {
			break
		}
		parent = c
	}
	parent.Children = append(parent.Children, Surface(id))
	s.Focus = append(slices.Clone(parentPath), len(parent.Children)-1)
}

// Focused resolves the focus path to a surface.
func (s *Shell) Focused() (protocol.SurfaceID, bool) {
	if s.Root == nil {
		return 0, false
	}
	var node Node = s.Root
	for _, i := range s.Focus {
		c, ok := node.(*Container)
		if !ok || i >= len(c.Children) {
			return 0, false
		}
		node = c.Children[i]
	}
	leaf, ok := node.(Surface)
	return protocol.SurfaceID(leaf), ok
}

// RepairFocus restores the focus path invariant after structural
// changes: indexes are clamped to the new child counts, a path that
// runs into a surface early is truncated, and a path that ends on a
// container is extended with zeros down to its first surface
// descendant.
func (s *Shell) RepairFocus() {
	if s.Root == nil {
		s.Focus = nil
		return
	}
	var repaired []int
	var node Node = s.Root
	for _, i := range s.Focus {
		c, ok := node.(*Container)
		if !ok {
			break
		}
		if i >= len(c.Children) {
			i = len(c.Children) - 1
		}
		repaired = append(repaired, i)
		node = c.Children[i]
	}
	for {
		c, ok := node.(*Container)
		if !ok {
			break
		}
		repaired = append(repaired, 0)
		node = c.Children[0]
	}
	s.Focus = repaired
}

// Remove deletes every structural position id occupies: layer,
// wallpaper, or tree leaf. Containers left empty are pruned upward
// and the focus path is repaired.
func (s *Shell) Remove(id protocol.SurfaceID) {
	s.Layers = slices.DeleteFunc(s.Layers, func(l Layer) bool {
		return l.Surface == id
	})
	if s.Wallpaper == id {
		s.Wallpaper = 0
	}
	if s.Root != nil {
		removeFromContainer(s.Root, id)
		if len(s.Root.Children) == 0 {
			s.Root = nil
		}
	}
	s.RepairFocus()
}

func removeFromContainer(c *Container, id protocol.SurfaceID) {
	for i := 0; i < len(c.Children); {
		switch n := c.Children[i].(type) {
		case Surface:
			if protocol.SurfaceID(n) == id {
				c.Children = slices.Delete(c.Children, i, i+1)
				continue
			}
		case *Container:
			removeFromContainer(n, id)
			if len(n.Children) == 0 {
				c.Children = slices.Delete(c.Children, i, i+1)
				continue
			}
		}
		i++
	}
}

// Contains reports whether id occupies any structural position.
func (s *Shell) Contains(id protocol.SurfaceID) bool {
	for _, l := range s.Layers {
		if l.Surface == id {
			return true
		}
	}
	if s.Wallpaper == id {
		return true
	}
	return s.Root != nil && containerContains(s.Root, id)
}

func containerContains(c *Container, id protocol.SurfaceID) bool {
	for _, n := range c.Children {
		switch n := n.(type) {
		case Surface:
			if protocol.SurfaceID(n) == id {
				return true
			}
		case *Container:
			if containerContains(n, id) {
				return true
			}
		}
	}
	return false
}
