package binding

import "errors"

// ErrLoadNames is returned when the candidate worklist cannot be loaded.
var ErrLoadNames = errors.New("load candidate names")
