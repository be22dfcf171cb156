package devtree

import "errors"

// Sentinel kinds for resolver errors. All of them indicate a host that does
// not look the way the resolver expects and are treated as fatal by callers.
var (
	ErrDeviceTree  = errors.New("read device tree")
	ErrPathPattern = errors.New("joystick entry does not match by-path pattern")
	ErrReadLink    = errors.New("resolve joystick symlink")
)
