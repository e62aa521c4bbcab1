// SPDX-License-Identifier: Unlicense OR MIT

package wm

import (
	"io"

	"inkwm.org/protocol"
	"inkwm.org/wire"
)

// conn is the subset of net.Conn a task needs; tests use in-memory
// pipes.
type conn interface {
	io.ReadWriteCloser
}

// taskChannelCap bounds each task's outbound event channel. The
// backpressure is intentional: a client that stops reading slows the
// manager's layout pass instead of growing an unbounded queue.
const taskChannelCap = 2

// task is one connected client. The manager is the sole sender on
// events; the write loop is the sole receiver. done closes when the
// write loop exits, which is how the manager observes a dead peer
// mid-send.
type task struct {
	id     protocol.TaskID
	conn   conn
	events chan protocol.Event
	done   chan struct{}
}

// addTask registers a connection and starts its read and write
// loops.
func (m *Manager) addTask(c conn) *task {
	t := &task{
		id:     protocol.TaskID(m.alloc.Next()),
		conn:   c,
		events: make(chan protocol.Event, taskChannelCap),
		done:   make(chan struct{}),
	}
	m.tasks[t.id] = t
	m.log.Info().Uint32("task", uint32(t.id)).Msg("client connected")
	go t.writeLoop(m)
	go t.readLoop(m)
	return t
}

// writeLoop frames events onto the socket. A write error abandons
// the task; the channel closing means the manager already removed
// it.
func (t *task) writeLoop(m *Manager) {
	w := wire.NewWriter(t.conn)
	var werr error
	for ev := range t.events {
		if werr = w.Write(ev); werr != nil {
			break
		}
	}
	// Unblock the manager before asking it to remove us.
	close(t.done)
	if werr != nil {
		m.log.Warn().Err(werr).Uint32("task", uint32(t.id)).Msg("client write failed")
		m.ctrl <- msgRemoveTask{task: t.id}
	}
}

// readLoop decodes framed commands and forwards them to the actor.
// Any failure, including a clean EOF, retires the task.
func (t *task) readLoop(m *Manager) {
	r := wire.NewReader(t.conn)
	for {
		var cmd protocol.Command
		if err := r.Next(&cmd); err != nil {
			if err != io.EOF {
				m.log.Warn().Err(err).Uint32("task", uint32(t.id)).Msg("client read failed")
			}
			m.ctrl <- msgRemoveTask{task: t.id}
			return
		}
		m.ctrl <- msgCommand{task: t.id, cmd: cmd}
	}
}
