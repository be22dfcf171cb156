//go:build linux

package evdev

import (
	"encoding/binary"

	"golang.org/x/sys/unix"
)

type watchEvent struct {
	Wd   int32
	Mask uint32
	Name string
}

// parseWatchEvents decodes a buffer of struct inotify_event records:
//
//	int32 wd; uint32 mask; uint32 cookie; uint32 len; char name[len]
//
// where name is NUL padded.
func parseWatchEvents(buf []byte) []watchEvent {
	var out []watchEvent
	off := 0
	for off+unix.SizeofInotifyEvent <= len(buf) {
		wd := int32(binary.NativeEndian.Uint32(buf[off : off+4]))
		mask := binary.NativeEndian.Uint32(buf[off+4 : off+8])
		nameLen := int(binary.NativeEndian.Uint32(buf[off+12 : off+16]))
		size := unix.SizeofInotifyEvent + nameLen
		if off+size > len(buf) {
			break
		}
		name := buf[off+unix.SizeofInotifyEvent : off+size]
		for i, b := range name {
			if b == 0 {
				name = name[:i]
				break
			}
		}
		out = append(out, watchEvent{Wd: wd, Mask: mask, Name: string(name)})
		off += size
	}
	return out
}
