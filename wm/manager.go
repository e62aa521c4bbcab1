// SPDX-License-Identifier: Unlicense OR MIT

/*
Package wm is the window manager core: a single-goroutine actor that
owns every surface and task record, recomputes the shell layout after
structural changes, and routes input to the focused surface.

All mutable state lives behind one control channel. Tasks communicate
with the actor only through messages; the actor communicates with
tasks only through their bounded outbound channels.
*/
package wm

import (
	"os/exec"

	"github.com/rs/zerolog"

	"inkwm.org/geom"
	"inkwm.org/io/event"
	"inkwm.org/io/key"
	"inkwm.org/io/stylus"
	"inkwm.org/io/touch"
	"inkwm.org/protocol"
	"inkwm.org/shell"
	"inkwm.org/surface"
)

// Options configure the manager.
type Options struct {
	// Screen is the framebuffer rectangle the shell lays out into.
	Screen geom.Rect
	// Rotation is the global rotation applied to every surface.
	Rotation geom.Rotation
	// Inset is the border kept free around the screen edge.
	Inset int32
	// SpawnCommand, if set, is started when the spawn hotkey fires.
	SpawnCommand []string
	Log          zerolog.Logger
}

// Manager is the actor. Its methods other than Run and control-
// channel senders must only be called from the Run goroutine.
type Manager struct {
	opts Options
	log  zerolog.Logger

	alloc    protocol.Allocator
	surfaces map[protocol.SurfaceID]*surfaceRec
	tasks    map[protocol.TaskID]*task
	shell    shell.Shell

	ctrl chan ctrlMsg
}

type surfaceRec struct {
	id   protocol.SurfaceID
	desc surface.Description
	task protocol.TaskID
}

// Control messages.
type ctrlMsg interface{ isCtrl() }

type msgNewConn struct{ conn conn }

type msgCommand struct {
	task protocol.TaskID
	cmd  protocol.Command
}

type msgRemoveTask struct{ task protocol.TaskID }

// msgInput carries one semantic input event, with touch and stylus
// snapshots captured at the moment the event left the engine.
type msgInput struct {
	ev          event.Event
	touchState  *touch.State
	stylusState *stylus.State
}

type msgFatal struct{ err error }

func (msgNewConn) isCtrl()    {}
func (msgCommand) isCtrl()    {}
func (msgRemoveTask) isCtrl() {}
func (msgInput) isCtrl()      {}
func (msgFatal) isCtrl()      {}

// New returns a manager ready to Run.
func New(opts Options) *Manager {
	return &Manager{
		opts:     opts,
		log:      opts.Log,
		surfaces: make(map[protocol.SurfaceID]*surfaceRec),
		tasks:    make(map[protocol.TaskID]*task),
		ctrl:     make(chan ctrlMsg),
	}
}

// Run processes control messages until a fatal error arrives.
func (m *Manager) Run() error {
	for msg := range m.ctrl {
		switch msg := msg.(type) {
		case msgFatal:
			return msg.err
		case msgNewConn:
			m.addTask(msg.conn)
		case msgCommand:
			m.handleCommand(msg.task, msg.cmd)
		case msgRemoveTask:
			if m.removeTask(msg.task) {
				m.reassignAreas()
			}
		case msgInput:
			m.routeInput(msg)
		}
	}
	return nil
}

func (m *Manager) handleCommand(taskID protocol.TaskID, cmd protocol.Command) {
	switch {
	case cmd.CreateSurface != nil:
		m.createSurface(taskID, *cmd.CreateSurface)
	default:
		// An empty command decodes cleanly but means nothing; treat
		// it like any other protocol violation.
		m.log.Warn().Uint32("task", uint32(taskID)).Msg("empty command")
		if m.removeTask(taskID) {
			m.reassignAreas()
		}
	}
}

func (m *Manager) createSurface(taskID protocol.TaskID, init protocol.SurfaceInit) {
	if _, ok := m.tasks[taskID]; !ok {
		return
	}
	id := protocol.SurfaceID(m.alloc.Next())
	m.surfaces[id] = &surfaceRec{
		id: id,
		// The placeholder is overwritten by the first layout pass.
		desc: surface.Description{Rotation: m.opts.Rotation, Scale: 1},
		task: taskID,
	}
	m.log.Info().
		Uint32("surface", uint32(id)).
		Uint32("task", uint32(taskID)).
		Msg("surface created")

	switch init.Kind {
	case protocol.InitLayer:
		m.shell.AddLayer(shell.Layer{
			Anchor:  init.Anchor.Rotate(m.opts.Rotation),
			Size:    init.Size,
			Surface: id,
		})
	case protocol.InitNormal:
		m.shell.InsertNormal(id)
	case protocol.InitWallpaper:
		if replaced, ok := m.shell.SetWallpaper(id); ok {
			m.quitSurface(replaced)
		}
	}
	m.reassignAreas()
}

// quitSurface sends Quit and drops the surface record. The caller
// runs the layout pass.
func (m *Manager) quitSurface(id protocol.SurfaceID) {
	rec, ok := m.surfaces[id]
	if !ok {
		return
	}
	if t, ok := m.tasks[rec.task]; ok {
		if !m.send(t, protocol.Event{Surface: &protocol.SurfaceEvent{ID: id, Quit: true}}) {
			m.removeTask(rec.task)
		}
	}
	m.shell.Remove(id)
	delete(m.surfaces, id)
}

// removeTask tears a task down: its socket, its outbound channel and
// every surface it owns. It reports whether the task existed.
func (m *Manager) removeTask(id protocol.TaskID) bool {
	t, ok := m.tasks[id]
	if !ok {
		return false
	}
	delete(m.tasks, id)
	close(t.events)
	t.conn.Close()
	for sid, rec := range m.surfaces {
		if rec.task == id {
			m.shell.Remove(sid)
			delete(m.surfaces, sid)
		}
	}
	m.log.Info().Uint32("task", uint32(id)).Msg("task removed")
	return true
}

// reassignAreas walks the shell, updates every surface whose
// geometry changed, and notifies its owner. A failed send removes
// the owning task, which can delete more surfaces, so the walk
// restarts from scratch until it completes cleanly. Repeating the
// walk with no intervening change sends nothing.
func (m *Manager) reassignAreas() {
	for {
		work := m.opts.Screen.Inset(m.opts.Inset)
		var failed protocol.TaskID
		ok := true
		m.shell.Layout(work, m.opts.Rotation, func(id protocol.SurfaceID, p shell.Placement) {
			if !ok {
				return
			}
			rec := m.surfaces[id]
			desc := surface.Description{
				BaseRect: p.Rect,
				Rotation: m.opts.Rotation,
				Scale:    1,
				Visible:  p.Visible,
			}
			if rec.desc == desc {
				return
			}
			rec.desc = desc
			t := m.tasks[rec.task]
			if !m.send(t, protocol.Event{Surface: &protocol.SurfaceEvent{
				ID:          id,
				Description: &desc,
			}}) {
				failed = rec.task
				ok = false
			}
		})
		if ok {
			return
		}
		m.log.Warn().Uint32("task", uint32(failed)).Msg("dead task during layout, restarting walk")
		m.removeTask(failed)
	}
}

// send delivers an event on a task's bounded channel. It blocks
// while the channel is full, applying backpressure to the whole
// actor, and reports false if the task died instead.
func (m *Manager) send(t *task, ev protocol.Event) bool {
	select {
	case t.events <- ev:
		return true
	case <-t.done:
		return false
	}
}

// Hotkey bindings, checked before routing.
func (m *Manager) hotkey(e key.Event) bool {
	if e.Kind != key.Press {
		return false
	}
	switch {
	case e.Key == key.X && e.Modifiers.Contain(key.ModOpt) && e.Modifiers.Shift(false):
		if id, ok := m.shell.Focused(); ok {
			m.quitSurface(id)
			m.reassignAreas()
		}
		return true
	case e.Key == key.Enter && e.Modifiers.Contain(key.ModOpt):
		m.spawn()
		return true
	}
	return false
}

func (m *Manager) spawn() {
	argv := m.opts.SpawnCommand
	if len(argv) == 0 {
		return
	}
	cmd := exec.Command(argv[0], argv[1:]...)
	if err := cmd.Start(); err != nil {
		m.log.Error().Err(err).Strs("argv", argv).Msg("spawn failed")
		return
	}
	go cmd.Wait()
}

func (m *Manager) routeInput(msg msgInput) {
	var ev protocol.InputEvent
	switch e := msg.ev.(type) {
	case key.Event:
		if m.hotkey(e) {
			return
		}
		ev.Key = &e
	case key.TextEvent:
		ev.Text = &e
	case key.ButtonEvent:
		ev.Button = &e
	case touch.Event:
		// TODO: Route touch to the surface under the contact instead
		// of the keyboard focus.
		ev.Touch = &protocol.TouchEvent{ID: e.ID, Phase: e.Phase, State: msg.touchState}
	case stylus.Event:
		// TODO: Route the stylus by position as well.
		ev.Stylus = &protocol.StylusEvent{Phase: e.Phase, State: msg.stylusState}
	default:
		// Device presence changes concern no surface.
		return
	}

	id, ok := m.shell.Focused()
	if !ok {
		return
	}
	rec := m.surfaces[id]
	t := m.tasks[rec.task]
	if !m.send(t, protocol.Event{Surface: &protocol.SurfaceEvent{ID: id, Input: &ev}}) {
		m.removeTask(rec.task)
		m.reassignAreas()
	}
}
