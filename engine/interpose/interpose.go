// Package interpose decides which address the dynamic linker hands back for
// a symbol: the genuine one, or one of ours.
package interpose

import "slices"

// Names of the entry points the overlay replaces.
const (
	GLXSwapBuffers       = "glXSwapBuffers"
	GLXGetProcAddress    = "glXGetProcAddress"
	GLXGetProcAddressARB = "glXGetProcAddressARB"
	EGLSwapBuffers       = "eglSwapBuffers"
)

var names = []string{GLXSwapBuffers, GLXGetProcAddress, GLXGetProcAddressARB, EGLSwapBuffers}

// Names returns the fixed set of replaced symbols.
func Names() []string { return slices.Clone(names) }

// Table maps replaced symbol names to hook addresses.
type Table struct {
	hooks map[string]uintptr
}

// NewTable builds a table from hook addresses. Entries for names outside
// Names are ignored, as are zero addresses.
func NewTable(hooks map[string]uintptr) *Table {
	t := &Table{hooks: make(map[string]uintptr, len(names))}
	for _, n := range names {
		if addr := hooks[n]; addr != 0 {
			t.hooks[n] = addr
		}
	}
	return t
}

// Resolve returns the address to give the caller who asked for name and
// would otherwise get genuine. A symbol the platform lacks stays missing.
func (t *Table) Resolve(name string, genuine uintptr) uintptr {
	if genuine == 0 {
		return 0
	}
	if hook, ok := t.hooks[name]; ok {
		return hook
	}
	return genuine
}

// Hook returns our address for name, if name is replaced.
func (t *Table) Hook(name string) (uintptr, bool) {
	addr, ok := t.hooks[name]
	return addr, ok
}
