// SPDX-License-Identifier: Unlicense OR MIT

/*
Package client connects an application to the window manager's
control socket and decodes the event stream for its surfaces.
*/
package client

import (
	"fmt"
	"net"
	"os"

	"github.com/rs/zerolog"

	"inkwm.org/protocol"
	"inkwm.org/wire"
	"inkwm.org/wm"
)

// A Client is one control socket connection. Reads and writes are
// each single-threaded: call Next from one goroutine and the command
// methods from one goroutine.
type Client struct {
	conn net.Conn
	r    *wire.Reader
	w    *wire.Writer
	log  zerolog.Logger
}

// Dial connects to the socket named by the INKWM_SOCKET environment
// variable.
func Dial(log zerolog.Logger) (*Client, error) {
	path := os.Getenv(wm.SocketEnv)
	if path == "" {
		return nil, fmt.Errorf("client: %s is not set", wm.SocketEnv)
	}
	return DialPath(log, path)
}

// DialPath connects to an explicit socket path.
func DialPath(log zerolog.Logger, path string) (*Client, error) {
	conn, err := net.Dial("unix", path)
	if err != nil {
		return nil, fmt.Errorf("client: connect: %w", err)
	}
	return &Client{
		conn: conn,
		r:    wire.NewReader(conn),
		w:    wire.NewWriter(conn),
		log:  log,
	}, nil
}

// Close tears the connection down; the window manager reclaims the
// client's surfaces on its next layout pass.
func (c *Client) Close() error {
	return c.conn.Close()
}

// CreateSurface asks the manager for a new surface. The assigned
// geometry arrives as a Description event.
func (c *Client) CreateSurface(init protocol.SurfaceInit) error {
	return c.w.Write(protocol.Command{CreateSurface: &init})
}

// Next blocks for the next surface event. It returns io.EOF when the
// manager closed the connection at a frame boundary.
func (c *Client) Next() (protocol.SurfaceEvent, error) {
	for {
		var ev protocol.Event
		if err := c.r.Next(&ev); err != nil {
			return protocol.SurfaceEvent{}, err
		}
		if ev.Surface == nil {
			// Unknown event kinds from a newer manager are skipped.
			c.log.Debug().Msg("ignoring unknown event")
			continue
		}
		return *ev.Surface, nil
	}
}

// Events runs Next on a new goroutine and delivers surface events on
// the returned channel until the stream ends. Useful for clients
// that select over timers and the event stream.
func (c *Client) Events() <-chan protocol.SurfaceEvent {
	ch := make(chan protocol.SurfaceEvent)
	go func() {
		defer close(ch)
		for {
			ev, err := c.Next()
			if err != nil {
				return
			}
			ch <- ev
		}
	}()
	return ch
}
