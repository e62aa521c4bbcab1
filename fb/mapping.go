// SPDX-License-Identifier: Unlicense OR MIT

package fb

import (
	"fmt"
	"os"
	"unsafe"

	"golang.org/x/sys/unix"
)

// mappingPath is the shared-memory file exported by the rm2fb server.
const mappingPath = "/dev/shm/swtfb.01"

// mapping is the memory-mapped pixel array of the display.
//
// The mapping is shared and other processes may write to it
// concurrently. It is used here as a write-only sink, so torn reads
// are not a concern in practice.
type mapping struct {
	f    *os.File
	data []byte
	pix  []uint16
}

func openMapping() (*mapping, error) {
	f, err := os.OpenFile(mappingPath, os.O_RDWR, 0)
	if err != nil {
		return nil, fmt.Errorf("open framebuffer: %w", err)
	}
	size := int(Width) * int(Height) * 2
	if err := f.Truncate(int64(size)); err != nil {
		f.Close()
		return nil, fmt.Errorf("size framebuffer: %w", err)
	}
	data, err := unix.Mmap(int(f.Fd()), 0, size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("map framebuffer: %w", err)
	}
	pix := unsafe.Slice((*uint16)(unsafe.Pointer(&data[0])), size/2)
	return &mapping{f: f, data: data, pix: pix}, nil
}

func (m *mapping) close() error {
	err := unix.Munmap(m.data)
	if cerr := m.f.Close(); err == nil {
		err = cerr
	}
	m.data, m.pix = nil, nil
	return err
}

// index converts a point to an offset into pix. The point is not
// bounds-checked.
func index(x, y int32) int {
	return int(y)*int(Width) + int(x)
}
