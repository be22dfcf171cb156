package queue

import "errors"

// Sentinel kinds for queue errors.
var (
	ErrQueueClosed  = errors.New("queue closed")
	ErrBackpressure = errors.New("queue full")
)
