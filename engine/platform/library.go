//go:build linux

package platform

import (
	"errors"
	"fmt"
	"sync"

	"github.com/hubastard/grove-overlay/engine/ffi"
)

var ErrOpen = errors.New("platform: cannot open graphics library")

// realLibrary opens a system library once and binds a fixed set of entry
// points from it. A failed open is remembered; the caller treats it as fatal.
type realLibrary struct {
	sonames []string

	mu     sync.Mutex
	done   bool
	lib    *ffi.Library
	err    error
	opened int // dlopen calls, for tests
}

type binding struct {
	name string
	fptr any
}

func (r *realLibrary) open(bind func(*ffi.Library) []binding) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.done {
		return r.err
	}
	r.done = true
	r.opened++

	lib, err := ffi.Open(r.sonames...)
	if err != nil {
		r.err = fmt.Errorf("%w: %w", ErrOpen, err)
		return r.err
	}
	for _, b := range bind(lib) {
		if err := lib.Bind(b.fptr, b.name); err != nil {
			r.err = fmt.Errorf("%w: %w", ErrOpen, err)
			return r.err
		}
	}
	r.lib = lib
	return nil
}

func (r *realLibrary) opens() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.opened
}
