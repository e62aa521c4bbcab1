// SPDX-License-Identifier: Unlicense OR MIT

package fb

import (
	"encoding/binary"
	"fmt"
	"unsafe"

	"github.com/rs/zerolog"
	"golang.org/x/sys/unix"

	"inkwm.org/eink"
	"inkwm.org/geom"
)

// The rm2fb server listens on an XSI message queue with this key.
const queueKey = 0x2257c

// Refresh requests are sent with this message type.
const updateMessageType = 2

// updateRecordLen is the size of the refresh request payload.
const updateRecordLen = 64

// channel is the IPC handle used to ask the display driver to refresh
// regions of the mapped pixel array.
type channel struct {
	id  int
	log zerolog.Logger
}

// openChannel attaches to the existing refresh queue. The queue is
// owned by the driver; it is never created here.
func openChannel(log zerolog.Logger) (*channel, error) {
	id, _, errno := unix.Syscall(unix.SYS_MSGGET, queueKey, 0, 0)
	if errno != 0 {
		return nil, fmt.Errorf("open refresh queue: %w", errno)
	}
	return &channel{id: int(id), log: log}, nil
}

// send writes one message to the queue. Sends block while the queue
// is full; callers that need a non-blocking refresh run sends on a
// separate goroutine.
func (c *channel) send(msgType int64, data []byte) error {
	// struct msgbuf { long mtype; char mtext[]; }
	buf := make([]byte, 8+len(data))
	binary.LittleEndian.PutUint64(buf, uint64(msgType))
	copy(buf[8:], data)
	for {
		_, _, errno := unix.Syscall6(unix.SYS_MSGSND,
			uintptr(c.id), uintptr(unsafe.Pointer(&buf[0])), uintptr(len(data)), 0, 0, 0)
		switch errno {
		case 0:
			return nil
		case unix.EINTR:
			continue
		default:
			return fmt.Errorf("send refresh: %w", errno)
		}
	}
}

func (c *channel) update(area geom.Rect, style eink.Style, depth eink.Depth) error {
	area = area.Normalize().Intersect(Rect)
	if area.Empty() {
		return nil
	}

	c.log.Debug().
		Stringer("style", style).
		Stringer("depth", depth).
		Int32("x", area.Origin.X).Int32("y", area.Origin.Y).
		Int32("w", area.Size.X).Int32("h", area.Size.Y).
		Msg("refresh")

	var waveform uint32
	switch style {
	case eink.StyleInit:
		waveform = 0 // init
	case eink.StyleRGB:
		waveform = 3 // GC16-fast
	case eink.StyleMonochrome:
		waveform = 1 // direct update
	}
	var mode uint32
	if depth == eink.DepthFull {
		mode = 1
	}

	var rec [updateRecordLen]byte
	le := binary.LittleEndian
	le.PutUint32(rec[0:], uint32(area.Origin.Y))  // top
	le.PutUint32(rec[4:], uint32(area.Origin.X))  // left
	le.PutUint32(rec[8:], uint32(area.Size.X))    // width
	le.PutUint32(rec[12:], uint32(area.Size.Y))   // height
	le.PutUint32(rec[16:], waveform)              // waveform_mode
	le.PutUint32(rec[20:], mode)                  // update_mode
	le.PutUint32(rec[24:], 1)                     // update_marker, unused
	le.PutUint32(rec[28:], 0x0018)                // temp: "remarkable draw"
	le.PutUint32(rec[32:], 0)                     // flags
	le.PutUint32(rec[36:], 0)                     // dither_mode: passthrough
	le.PutUint32(rec[40:], 0)                     // quant_bit
	// Remaining words are reserved and stay zero.

	return c.send(updateMessageType, rec[:])
}
