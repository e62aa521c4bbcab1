// SPDX-License-Identifier: Unlicense OR MIT

/*
Package wire implements the framed message transport used between the
window manager and its clients. A frame is a little-endian uint32
payload length followed by that many bytes of CBOR.

The Reader accumulates partial frames inside itself, so a read that is
abandoned mid-frame (for example when a select moves on) can be
re-entered later without losing bytes.
*/
package wire

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/fxamacker/cbor/v2"
	"golang.org/x/sys/unix"
)

// MaxFrame bounds the payload length accepted from a peer. Frames
// beyond it are treated as a protocol error rather than an
// allocation request.
const MaxFrame = 1 << 20

// ErrFrameTooLarge is returned when a peer announces a payload larger
// than MaxFrame.
var ErrFrameTooLarge = errors.New("wire: frame exceeds maximum size")

type readState uint8

const (
	// stateStart is accumulating the 4-byte length prefix.
	stateStart readState = iota
	// stateSize is accumulating the payload.
	stateSize
)

// Reader decodes a stream of frames from r.
type Reader struct {
	r     io.Reader
	state readState
	size  int
	buf   []byte
	fill  int
}

// NewReader returns a Reader decoding frames from r.
func NewReader(r io.Reader) *Reader {
	return &Reader{r: r, buf: make([]byte, 4)}
}

// Next reads the next frame and decodes its payload into v.
//
// A clean end of stream at a frame boundary returns io.EOF; this
// includes a connection reset before any length bytes, which is how
// an impatient peer closes. An end of stream inside a frame returns
// io.ErrUnexpectedEOF.
func (r *Reader) Next(v any) error {
	for {
		n, err := r.r.Read(r.buf[r.fill:])
		r.fill += n
		if r.fill < len(r.buf) {
			if err == nil {
				continue
			}
			if err == io.EOF {
				if r.state == stateStart && r.fill == 0 {
					return io.EOF
				}
				return io.ErrUnexpectedEOF
			}
			if r.state == stateStart && r.fill == 0 && errors.Is(err, unix.ECONNRESET) {
				return io.EOF
			}
			return err
		}
		// A full length prefix or payload; a successful Read may also
		// carry a deferred error, which surfaces on the next call.
		switch r.state {
		case stateStart:
			size := binary.LittleEndian.Uint32(r.buf)
			if size > MaxFrame {
				return ErrFrameTooLarge
			}
			r.state = stateSize
			r.size = int(size)
			r.fill = 0
			if cap(r.buf) < r.size {
				r.buf = make([]byte, r.size)
			}
			r.buf = r.buf[:r.size]
		case stateSize:
			payload := r.buf
			r.state = stateStart
			r.fill = 0
			r.buf = r.buf[:cap(r.buf)][:4]
			if err := cbor.Unmarshal(payload, v); err != nil {
				return fmt.Errorf("wire: decode frame: %w", err)
			}
			return nil
		}
	}
}

// Writer encodes frames onto w.
//
// Writes are not interleaved internally; callers serialize access per
// connection.
type Writer struct {
	w   io.Writer
	buf []byte
}

// NewWriter returns a Writer encoding frames onto w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

// Write encodes v as CBOR and writes it as one frame in a single
// underlying write.
func (w *Writer) Write(v any) error {
	payload, err := cbor.Marshal(v)
	if err != nil {
		return fmt.Errorf("wire: encode frame: %w", err)
	}
	if len(payload) > MaxFrame {
		return ErrFrameTooLarge
	}
	w.buf = append(w.buf[:0], 0, 0, 0, 0)
	w.buf = append(w.buf, payload...)
	binary.LittleEndian.PutUint32(w.buf, uint32(len(payload)))
	if _, err := w.w.Write(w.buf); err != nil {
		return err
	}
	return nil
}
