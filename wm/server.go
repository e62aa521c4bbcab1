// SPDX-License-Identifier: Unlicense OR MIT

package wm

import (
	"errors"
	"fmt"
	"net"
	"os"

	"inkwm.org/input"
	"inkwm.org/io/stylus"
	"inkwm.org/io/touch"
)

// SocketEnv is the environment variable clients read to find the
// control socket.
const SocketEnv = "INKWM_SOCKET"

// Server ties the manager to its listening socket and input engine.
type Server struct {
	m   *Manager
	ln  net.Listener
	eng *input.Engine
}

// Listen binds the control socket, replacing any stale file at the
// path, and opens the input engine. Both failures are fatal: the
// server cannot run degraded without either.
func Listen(opts Options, socketPath string) (*Server, error) {
	if err := os.Remove(socketPath); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("remove stale socket: %w", err)
	}
	ln, err := net.Listen("unix", socketPath)
	if err != nil {
		return nil, fmt.Errorf("bind control socket: %w", err)
	}
	eng, err := input.Open(opts.Log, nil)
	if err != nil {
		ln.Close()
		return nil, err
	}
	return &Server{m: New(opts), ln: ln, eng: eng}, nil
}

// Run serves until a fatal error: an accept failure, an input
// watcher failure, or a poll failure. Client- and device-scope
// errors are recovered inside the actor.
func (s *Server) Run() error {
	go s.acceptLoop()
	go s.inputLoop()
	err := s.m.Run()
	s.ln.Close()
	s.eng.Close()
	return err
}

func (s *Server) acceptLoop() {
	for {
		c, err := s.ln.Accept()
		if err != nil {
			s.m.ctrl <- msgFatal{err: fmt.Errorf("accept: %w", err)}
			return
		}
		s.m.ctrl <- msgNewConn{conn: c}
	}
}

// inputLoop pumps engine events into the actor. Touch and stylus
// state snapshots are taken here, before the engine advances, so the
// actor forwards exactly the state that produced each event.
func (s *Server) inputLoop() {
	for {
		ev, err := s.eng.Next()
		if err != nil {
			s.m.ctrl <- msgFatal{err: err}
			return
		}
		msg := msgInput{ev: ev}
		switch e := ev.(type) {
		case touch.Event:
			if e.Phase != touch.End {
				if st, ok := s.eng.TouchState(e.ID); ok {
					msg.touchState = &st
				}
			}
		case stylus.Event:
			if e.Phase != stylus.Leave {
				if st, ok := s.eng.StylusState(); ok {
					msg.stylusState = &st
				}
			}
		}
		s.m.ctrl <- msg
	}
}
