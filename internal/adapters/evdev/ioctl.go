//go:build linux

package evdev

import (
	"encoding/binary"
	"fmt"
	"unsafe"

	"golang.org/x/sys/unix"
)

// ioctl request encoding from asm-generic/ioctl.h.
const (
	iocRead      = 2
	iocNrShift   = 0
	iocTypeShift = 8
	iocSizeShift = 16
	iocDirShift  = 30

	evdevIoctlType = 'E'
	synDropped     = 0x03
)

// absInfo mirrors struct input_absinfo.
type absInfo struct {
	Value      int32
	Minimum    int32
	Maximum    int32
	Fuzz       int32
	Flat       int32
	Resolution int32
}

// rawEvent is the payload of struct input_event without its timestamp.
type rawEvent struct {
	Type  uint16
	Code  uint16
	Value int32
}

// eventSize is sizeof(struct input_event): a timeval followed by type, code
// and value.
var eventSize = int(unsafe.Sizeof(unix.Timeval{})) + 8

func ioc(dir, typ, nr, size uintptr) uintptr {
	return dir<<iocDirShift | size<<iocSizeShift | typ<<iocTypeShift | nr<<iocNrShift
}

// eviocgbit is EVIOCGBIT(ev, size).
func eviocgbit(ev, size int) uintptr {
	return ioc(iocRead, evdevIoctlType, uintptr(0x20+ev), uintptr(size))
}

// eviocgabs is EVIOCGABS(code).
func eviocgabs(code int) uintptr {
	return ioc(iocRead, evdevIoctlType, uintptr(0x40+code), unsafe.Sizeof(absInfo{}))
}

// eviocgkey is EVIOCGKEY(size), the currently held keys.
func eviocgkey(size int) uintptr {
	return ioc(iocRead, evdevIoctlType, 0x18, uintptr(size))
}

func ioctl(fd int, req uintptr, arg unsafe.Pointer) error {
	_, _, errno := unix.Syscall(unix.SYS_IOCTL, uintptr(fd), req, uintptr(arg))
	if errno != 0 {
		return errno
	}
	return nil
}

// bitsLen is the byte length of a bitmask covering codes 0..maxCode.
func bitsLen(maxCode int) int {
	return maxCode/8 + 1
}

func queryBits(fd int, req uintptr, maxCode int) ([]byte, error) {
	bits := make([]byte, bitsLen(maxCode))
	if err := ioctl(fd, req, unsafe.Pointer(&bits[0])); err != nil {
		return nil, fmt.Errorf("ioctl %#x: %w", req, err)
	}
	return bits, nil
}

func queryAbs(fd, code int) (absInfo, error) {
	var info absInfo
	if err := ioctl(fd, eviocgabs(code), unsafe.Pointer(&info)); err != nil {
		return absInfo{}, fmt.Errorf("EVIOCGABS(%#x): %w", code, err)
	}
	return info, nil
}

func testBit(bits []byte, n int) bool {
	if n < 0 || n/8 >= len(bits) {
		return false
	}
	return bits[n/8]&(1<<(n%8)) != 0
}

// decodeEvents splits a read buffer into events. A trailing partial event is
// dropped; the kernel never returns one.
func decodeEvents(buf []byte) []rawEvent {
	tv := eventSize - 8
	out := make([]rawEvent, 0, len(buf)/eventSize)
	for off := 0; off+eventSize <= len(buf); off += eventSize {
		out = append(out, rawEvent{
			Type:  binary.NativeEndian.Uint16(buf[off+tv:]),
			Code:  binary.NativeEndian.Uint16(buf[off+tv+2:]),
			Value: int32(binary.NativeEndian.Uint32(buf[off+tv+4:])),
		})
	}
	return out
}
