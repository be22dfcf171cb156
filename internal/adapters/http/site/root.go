// Package site serves the operator console: buttons for setup, team count
// and start, plus a live view of the roster.
package site

import (
	"context"
	"net/http"
)

// Register attaches the embedded console to the root of mux.
func Register(_ context.Context, mux *http.ServeMux) {
	if mux == nil {
		panic("mux is nil")
	}
	mux.Handle("/", http.FileServer(FS()))
}
