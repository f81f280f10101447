//go:build linux

// Package ffi is the only place that deals in C strings and raw function
// pointers. Everything above it sees Go strings, uintptr addresses and Go
// funcs bound with purego.
package ffi

/*
#cgo LDFLAGS: -ldl
#define _GNU_SOURCE
#include <dlfcn.h>
#include <stdlib.h>
#include <string.h>

typedef void *(*dlsym_fn)(void *, const char *);

static dlsym_fn grove_dlsym;

// dlvsym is not interposed, so it reaches libc's dlsym even when this
// library exports its own.
static int grove_try_dlsym(const char *version) {
	if (grove_dlsym == NULL)
		grove_dlsym = (dlsym_fn)dlvsym(RTLD_NEXT, "dlsym", version);
	return grove_dlsym != NULL;
}

static void *grove_real_dlsym(void *handle, const char *name) {
	return grove_dlsym(handle, name);
}
*/
import "C"

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"unicode/utf8"
	"unsafe"

	"github.com/ebitengine/purego"
)

var (
	ErrInvalidName    = errors.New("ffi: symbol name is not valid UTF-8")
	ErrSymbolNotFound = errors.New("ffi: symbol not found")
	ErrNoRealDlsym    = errors.New("ffi: libc dlsym not found")
)

// dlsymVersions are the symbol versions libc's dlsym has carried: the
// glibc 2.34 move into libc, then each architecture's baseline.
var dlsymVersions = []string{
	"GLIBC_2.34",
	"GLIBC_2.2.5", // x86_64
	"GLIBC_2.17",  // aarch64, ppc64le
	"GLIBC_2.27",  // riscv64
	"GLIBC_2.36",  // loongarch64
	"GLIBC_2.4",   // arm
	"GLIBC_2.3",   // ppc64
	"GLIBC_2.2",   // s390x
	"GLIBC_2.0",   // i386
}

var realDlsym = sync.OnceValues(func() (string, error) {
	return findVersion(dlsymVersions, func(v string) bool {
		cv := C.CString(v)
		defer C.free(unsafe.Pointer(cv))
		return C.grove_try_dlsym(cv) != 0
	})
})

func findVersion(versions []string, try func(string) bool) (string, error) {
	for _, v := range versions {
		if try(v) {
			return v, nil
		}
	}
	return "", fmt.Errorf("%w under versions %s", ErrNoRealDlsym, strings.Join(versions, ", "))
}

// RealDlsymVersion reports which symbol version libc's dlsym was found
// under.
func RealDlsymVersion() (string, error) { return realDlsym() }

// RealDlsym calls libc's dlsym with a Go string.
func RealDlsym(handle uintptr, name string) (uintptr, error) {
	cname := C.CString(name)
	defer C.free(unsafe.Pointer(cname))
	return RealDlsymC(handle, unsafe.Pointer(cname))
}

// RealDlsymC calls libc's dlsym with a NUL-terminated C string owned by the
// caller. The error is only set when libc's dlsym itself cannot be found.
func RealDlsymC(handle uintptr, name unsafe.Pointer) (uintptr, error) {
	if _, err := realDlsym(); err != nil {
		return 0, err
	}
	return uintptr(C.grove_real_dlsym(unsafe.Pointer(handle), (*C.char)(name))), nil
}

// GoName copies a NUL-terminated C string and checks it is UTF-8.
func GoName(name unsafe.Pointer) (string, error) {
	if name == nil {
		return "", fmt.Errorf("%w: nil", ErrInvalidName)
	}
	n := C.strlen((*C.char)(name))
	return DecodeName(C.GoBytes(name, C.int(n)))
}

func DecodeName(b []byte) (string, error) {
	if !utf8.Valid(b) {
		return "", fmt.Errorf("%w: %q", ErrInvalidName, b)
	}
	return string(b), nil
}

// Library is a dlopen handle. Symbols are looked up with the real dlsym so
// lookups never come back through an interposed one.
type Library struct {
	Name   string
	handle uintptr
}

// Open dlopens the first of names that loads.
func Open(names ...string) (*Library, error) {
	var errs []error
	for _, name := range names {
		h, err := purego.Dlopen(name, purego.RTLD_NOW|purego.RTLD_GLOBAL)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		return &Library{Name: name, handle: h}, nil
	}
	return nil, fmt.Errorf("dlopen %v: %w", names, errors.Join(errs...))
}

// Symbol returns the address of name in l.
func (l *Library) Symbol(name string) (uintptr, error) {
	addr, err := RealDlsym(l.handle, name)
	if err != nil {
		return 0, err
	}
	if addr == 0 {
		return 0, fmt.Errorf("%w: %s in %s", ErrSymbolNotFound, name, l.Name)
	}
	return addr, nil
}

// Bind looks up name and stores a Go func calling it in fptr, which must be
// a pointer to a func variable.
func (l *Library) Bind(fptr any, name string) error {
	addr, err := l.Symbol(name)
	if err != nil {
		return err
	}
	Register(fptr, addr)
	return nil
}

// Register makes fptr call the C function at addr.
func Register(fptr any, addr uintptr) {
	purego.RegisterFunc(fptr, addr)
}

// Pointer turns an address from dlsym into a pointer to hand back to C.
func Pointer(addr uintptr) unsafe.Pointer {
	return *(*unsafe.Pointer)(unsafe.Pointer(&addr))
}
