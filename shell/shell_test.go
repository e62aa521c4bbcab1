// SPDX-License-Identifier: Unlicense OR MIT

package shell

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"inkwm.org/geom"
	"inkwm.org/protocol"
)

func layout(s *Shell, work geom.Rect, rot geom.Rotation) map[protocol.SurfaceID]Placement {
	got := map[protocol.SurfaceID]Placement{}
	s.Layout(work, rot, func(id protocol.SurfaceID, p Placement) {
		got[id] = p
	})
	return got
}

var screen = geom.XYWH(0, 0, 1404, 1872)

func TestLayerBand(t *testing.T) {
	var s Shell
	s.AddLayer(Layer{Anchor: geom.Top, Size: 48, Surface: 1})
	got := layout(&s, screen.Inset(4), geom.RotateNone)
	want := map[protocol.SurfaceID]Placement{
		1: {Rect: geom.XYWH(4, 4, 1396, 48), Visible: true},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("layout mismatch (-want +got):\n%s", diff)
	}
}

func TestRootSplit(t *testing.T) {
	var s Shell
	s.AddLayer(Layer{Anchor: geom.Top, Size: 48, Surface: 1})
	s.InsertNormal(2)
	s.InsertNormal(3)

	got := layout(&s, screen.Inset(4), geom.RotateNone)
	layer := got[1].Rect
	a, b := got[2].Rect, got[3].Rect
	if !a.Intersect(b).Empty() {
		t.Errorf("normal surfaces overlap: %v, %v", a, b)
	}
	if !a.Intersect(layer).Empty() || !b.Intersect(layer).Empty() {
		t.Errorf("normal surfaces overlap the layer band")
	}
	if a.Size.Y != 1816 || b.Size.Y != 1816 {
		t.Errorf("split heights = %d, %d; want 1816", a.Size.Y, b.Size.Y)
	}
	if a.Size.X+b.Size.X != 1396 {
		t.Errorf("split widths %d+%d != 1396", a.Size.X, b.Size.X)
	}
}

func TestLastChildAbsorbsRemainder(t *testing.T) {
	var s Shell
	s.InsertNormal(1)
	s.InsertNormal(2)
	s.InsertNormal(3)
	got := layout(&s, geom.XYWH(0, 0, 100, 50), geom.RotateNone)
	var width int32
	for _, p := range got {
		width += p.Rect.Size.X
	}
	if width != 100 {
		t.Errorf("total width = %d, want 100", width)
	}
	if got[3].Rect.Size.X != 100-2*(100/3) {
		t.Errorf("last child width = %d", got[3].Rect.Size.X)
	}
}

func TestRotatedSplit(t *testing.T) {
	var s Shell
	s.InsertNormal(1)
	s.InsertNormal(2)
	// With a 90 degree global rotation a horizontal split is taken
	// from the top.
	got := layout(&s, geom.XYWH(0, 0, 100, 50), geom.Rotate90)
	if got[1].Rect != geom.XYWH(0, 0, 100, 25) {
		t.Errorf("first = %v", got[1].Rect)
	}
	if got[2].Rect != geom.XYWH(0, 25, 100, 25) {
		t.Errorf("second = %v", got[2].Rect)
	}
}

func TestWallpaperVisibility(t *testing.T) {
	var s Shell
	s.SetWallpaper(9)
	got := layout(&s, geom.XYWH(0, 0, 100, 50), geom.RotateNone)
	if p := got[9]; !p.Visible || p.Rect != geom.XYWH(0, 0, 100, 50) {
		t.Errorf("wallpaper = %+v, want full visible rect", p)
	}

	s.InsertNormal(1)
	got = layout(&s, geom.XYWH(0, 0, 100, 50), geom.RotateNone)
	if got[9].Visible {
		t.Error("wallpaper still visible behind a normal surface")
	}
	if got[1].Rect != geom.XYWH(0, 0, 100, 50) {
		t.Errorf("normal surface = %v", got[1].Rect)
	}

	s.Remove(1)
	got = layout(&s, geom.XYWH(0, 0, 100, 50), geom.RotateNone)
	if !got[9].Visible {
		t.Error("wallpaper not visible after last normal surface closed")
	}
}

func TestSetWallpaperReplaces(t *testing.T) {
	var s Shell
	if _, ok := s.SetWallpaper(4); ok {
		t.Fatal("first wallpaper reported a replacement")
	}
	replaced, ok := s.SetWallpaper(5)
	if !ok || replaced != 4 {
		t.Fatalf("replaced = %d, %v; want 4", replaced, ok)
	}
}

func TestFocusFollowsInsert(t *testing.T) {
	var s Shell
	s.InsertNormal(1)
	if id, ok := s.Focused(); !ok || id != 1 {
		t.Fatalf("focused = %d, %v", id, ok)
	}
	s.InsertNormal(2)
	if id, ok := s.Focused(); !ok || id != 2 {
		t.Fatalf("focused = %d, %v", id, ok)
	}
}

func TestRemoveRepairsFocus(t *testing.T) {
	var s Shell
	s.InsertNormal(1)
	s.InsertNormal(2)
	s.InsertNormal(3) // focus on 3

	s.Remove(3)
	if id, ok := s.Focused(); !ok || id != 2 {
		t.Errorf("focused = %d, %v; want 2", id, ok)
	}

	s.Remove(1)
	if id, ok := s.Focused(); !ok || id != 2 {
		t.Errorf("focused = %d, %v; want 2", id, ok)
	}

	s.Remove(2)
	if _, ok := s.Focused(); ok {
		t.Error("focus resolved with empty tree")
	}
	if s.Root != nil || s.Focus != nil {
		t.Errorf("root = %v focus = %v after removing everything", s.Root, s.Focus)
	}
}

func TestRemovePrunesEmptyContainers(t *testing.T) {
	s := Shell{
		Root: &Container{Kind: Horizontal, Children: []Node{
			&Container{Kind: Vertical, Children: []Node{Surface(1)}},
			Surface(2),
		}},
		Focus: []int{0, 0},
	}
	s.Remove(1)
	want := &Container{Kind: Horizontal, Children: []Node{Surface(2)}}
	if diff := cmp.Diff(want, s.Root); diff != "" {
		t.Errorf("tree mismatch (-want +got):\n%s", diff)
	}
	if id, ok := s.Focused(); !ok || id != 2 {
		t.Errorf("focused = %d, %v; want 2", id, ok)
	}
}

func TestRepairFocusDescendsToSurface(t *testing.T) {
	s := Shell{
		Root: &Container{Kind: Horizontal, Children: []Node{
			&Container{Kind: Vertical, Children: []Node{Surface(1), Surface(2)}},
			Surface(3),
		}},
		// Too shallow: ends on the inner container.
		Focus: []int{0},
	}
	s.RepairFocus()
	if id, ok := s.Focused(); !ok || id != 1 {
		t.Errorf("focused = %d, %v; want first surface descendant 1", id, ok)
	}

	// Too deep: runs into a surface.
	s.Focus = []int{1, 0, 0}
	s.RepairFocus()
	if id, ok := s.Focused(); !ok || id != 3 {
		t.Errorf("focused = %d, %v; want 3", id, ok)
	}
}

func TestRemoveLayerSurface(t *testing.T) {
	var s Shell
	s.AddLayer(Layer{Anchor: geom.Top, Size: 48, Surface: 1})
	s.AddLayer(Layer{Anchor: geom.Bottom, Size: 32, Surface: 2})
	s.Remove(1)
	if len(s.Layers) != 1 || s.Layers[0].Surface != 2 {
		t.Errorf("layers = %+v", s.Layers)
	}
	if s.Contains(1) {
		t.Error("removed surface still present")
	}
}
