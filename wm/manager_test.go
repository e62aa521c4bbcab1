// SPDX-License-Identifier: Unlicense OR MIT

package wm

import (
	"net"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"inkwm.org/geom"
	"inkwm.org/io/key"
	"inkwm.org/io/touch"
	"inkwm.org/protocol"
	"inkwm.org/surface"
	"inkwm.org/wire"
)

var testOpts = Options{
	Screen:   geom.XYWH(0, 0, 1404, 1872),
	Rotation: geom.RotateNone,
	Inset:    4,
	Log:      zerolog.Nop(),
}

// testClient is one connected peer, reading events on a goroutine so
// manager sends never stall.
type testClient struct {
	conn   net.Conn
	w      *wire.Writer
	task   *task
	events chan protocol.Event
}

func newClient(m *Manager) *testClient {
	c, s := net.Pipe()
	tc := &testClient{
		conn:   c,
		w:      wire.NewWriter(c),
		task:   m.addTask(s),
		events: make(chan protocol.Event, 16),
	}
	go func() {
		r := wire.NewReader(c)
		for {
			var ev protocol.Event
			if err := r.Next(&ev); err != nil {
				close(tc.events)
				return
			}
			tc.events <- ev
		}
	}()
	return tc
}

func (c *testClient) next(t *testing.T) protocol.Event {
	t.Helper()
	select {
	case ev, ok := <-c.events:
		if !ok {
			t.Fatal("event stream closed")
		}
		return ev
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for event")
	}
	panic("unreachable")
}

func (c *testClient) nextDescription(t *testing.T) (protocol.SurfaceID, surface.Description) {
	t.Helper()
	ev := c.next(t)
	if ev.Surface == nil || ev.Surface.Description == nil {
		t.Fatalf("event %+v is not a description", ev)
	}
	return ev.Surface.ID, *ev.Surface.Description
}

func (c *testClient) expectQuiet(t *testing.T) {
	t.Helper()
	select {
	case ev := <-c.events:
		t.Fatalf("unexpected event %+v", ev)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestLayerBandDescription(t *testing.T) {
	m := New(testOpts)
	c := newClient(m)
	m.createSurface(c.task.id, protocol.SurfaceInit{Kind: protocol.InitLayer, Anchor: geom.Top, Size: 48})

	_, desc := c.nextDescription(t)
	want := surface.Description{
		BaseRect: geom.XYWH(4, 4, 1396, 48),
		Rotation: geom.RotateNone,
		Scale:    1,
		Visible:  true,
	}
	if desc != want {
		t.Errorf("description = %+v, want %+v", desc, want)
	}
}

func TestRootSplitDescriptions(t *testing.T) {
	m := New(testOpts)
	bar := newClient(m)
	m.createSurface(bar.task.id, protocol.SurfaceInit{Kind: protocol.InitLayer, Anchor: geom.Top, Size: 48})
	_, layerDesc := bar.nextDescription(t)

	c := newClient(m)
	m.createSurface(c.task.id, protocol.SurfaceInit{Kind: protocol.InitNormal})
	firstID, first := c.nextDescription(t)
	if first.BaseRect != geom.XYWH(4, 52, 1396, 1816) {
		t.Errorf("sole normal surface = %v", first.BaseRect)
	}

	m.createSurface(c.task.id, protocol.SurfaceInit{Kind: protocol.InitNormal})
	// The first surface shrinks, the second gets the remainder; the
	// two arrive in traversal order.
	id1, d1 := c.nextDescription(t)
	id2, d2 := c.nextDescription(t)
	if id1 != firstID {
		t.Errorf("first update for surface %d, want %d", id1, firstID)
	}
	if !d1.BaseRect.Intersect(d2.BaseRect).Empty() {
		t.Errorf("normal surfaces overlap: %v, %v", d1.BaseRect, d2.BaseRect)
	}
	if !d1.BaseRect.Intersect(layerDesc.BaseRect).Empty() ||
		!d2.BaseRect.Intersect(layerDesc.BaseRect).Empty() {
		t.Error("normal surfaces overlap the layer band")
	}
	if d1.BaseRect.Size.X+d2.BaseRect.Size.X != 1396 {
		t.Errorf("widths %d+%d != 1396", d1.BaseRect.Size.X, d2.BaseRect.Size.X)
	}
	_ = id2
}

func TestCloseFocusedHotkey(t *testing.T) {
	m := New(testOpts)
	c := newClient(m)
	m.createSurface(c.task.id, protocol.SurfaceInit{Kind: protocol.InitNormal})
	firstID, _ := c.nextDescription(t)
	m.createSurface(c.task.id, protocol.SurfaceInit{Kind: protocol.InitNormal})
	c.nextDescription(t)
	c.nextDescription(t)

	m.routeInput(msgInput{ev: key.Event{
		Key:       key.X,
		Kind:      key.Press,
		Modifiers: key.ModOpt | key.ModLeftShift,
	}})

	// The focused (second) surface quits, the survivor regains the
	// whole region.
	ev := c.next(t)
	if ev.Surface == nil || !ev.Surface.Quit {
		t.Fatalf("event %+v, want Quit", ev)
	}
	id, desc := c.nextDescription(t)
	if id != firstID {
		t.Errorf("description for %d, want %d", id, firstID)
	}
	if desc.BaseRect != geom.XYWH(4, 4, 1396, 1864) {
		t.Errorf("survivor rect = %v", desc.BaseRect)
	}
}

func TestReassignIdempotent(t *testing.T) {
	m := New(testOpts)
	c := newClient(m)
	m.createSurface(c.task.id, protocol.SurfaceInit{Kind: protocol.InitNormal})
	c.nextDescription(t)

	m.reassignAreas()
	m.reassignAreas()
	c.expectQuiet(t)
}

func TestWallpaperReplacement(t *testing.T) {
	m := New(testOpts)
	c := newClient(m)
	m.createSurface(c.task.id, protocol.SurfaceInit{Kind: protocol.InitWallpaper})
	oldID, desc := c.nextDescription(t)
	if !desc.Visible {
		t.Error("wallpaper invisible with empty tree")
	}

	m.createSurface(c.task.id, protocol.SurfaceInit{Kind: protocol.InitWallpaper})
	ev := c.next(t)
	if ev.Surface == nil || !ev.Surface.Quit || ev.Surface.ID != oldID {
		t.Fatalf("event %+v, want Quit for %d", ev, oldID)
	}
	id, _ := c.nextDescription(t)
	if id == oldID {
		t.Errorf("new wallpaper reused id %d", id)
	}
}

func TestInputRoutedToFocus(t *testing.T) {
	m := New(testOpts)
	c := newClient(m)
	m.createSurface(c.task.id, protocol.SurfaceInit{Kind: protocol.InitNormal})
	id, _ := c.nextDescription(t)

	m.routeInput(msgInput{ev: key.Event{Scancode: key.ScanA, Key: key.A, Kind: key.Press}})
	m.routeInput(msgInput{ev: key.TextEvent{Text: "a"}})
	st := &touch.State{X: 10, Y: 20}
	m.routeInput(msgInput{ev: touch.Event{ID: 0, Phase: touch.Start}, touchState: st})

	ev := c.next(t)
	if ev.Surface.ID != id || ev.Surface.Input == nil || ev.Surface.Input.Key == nil {
		t.Fatalf("event %+v, want key input for %d", ev, id)
	}
	ev = c.next(t)
	if ev.Surface.Input == nil || ev.Surface.Input.Text == nil || ev.Surface.Input.Text.Text != "a" {
		t.Fatalf("event %+v, want text input", ev)
	}
	ev = c.next(t)
	in := ev.Surface.Input
	if in == nil || in.Touch == nil || in.Touch.State == nil || in.Touch.State.X != 10 {
		t.Fatalf("event %+v, want enriched touch input", ev)
	}
}

func TestInputDroppedWithoutFocus(t *testing.T) {
	m := New(testOpts)
	c := newClient(m)
	m.createSurface(c.task.id, protocol.SurfaceInit{Kind: protocol.InitLayer, Anchor: geom.Top, Size: 48})
	c.nextDescription(t)

	// Layers never take focus, so this has nowhere to go.
	m.routeInput(msgInput{ev: key.TextEvent{Text: "x"}})
	c.expectQuiet(t)
}

// wireClient connects through the control channel and speaks the
// real framed protocol, exercising the task read and write loops.
func wireClient(m *Manager) *testClient {
	c, s := net.Pipe()
	m.ctrl <- msgNewConn{conn: s}
	tc := &testClient{conn: c, w: wire.NewWriter(c), events: make(chan protocol.Event, 16)}
	go func() {
		r := wire.NewReader(c)
		for {
			var ev protocol.Event
			if err := r.Next(&ev); err != nil {
				close(tc.events)
				return
			}
			tc.events <- ev
		}
	}()
	return tc
}

func TestClientDisconnectOverSocket(t *testing.T) {
	m := New(testOpts)
	go m.Run()

	a := wireClient(m)
	b := wireClient(m)

	if err := b.w.Write(protocol.Command{CreateSurface: &protocol.SurfaceInit{Kind: protocol.InitNormal}}); err != nil {
		t.Fatal(err)
	}
	b.nextDescription(t)

	if err := a.w.Write(protocol.Command{CreateSurface: &protocol.SurfaceInit{Kind: protocol.InitNormal}}); err != nil {
		t.Fatal(err)
	}
	a.nextDescription(t)
	b.nextDescription(t)

	// The peer crashing shrinks the tree for the survivor.
	a.conn.Close()
	_, desc := b.nextDescription(t)
	if desc.BaseRect != geom.XYWH(4, 4, 1396, 1864) {
		t.Errorf("survivor rect = %v", desc.BaseRect)
	}
}
