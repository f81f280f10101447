//go:build linux

package ffi

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeName(t *testing.T) {
	name, err := DecodeName([]byte("glXSwapBuffers"))
	require.NoError(t, err)
	assert.Equal(t, "glXSwapBuffers", name)

	_, err = DecodeName([]byte{'g', 'l', 0xff, 0xfe})
	assert.ErrorIs(t, err, ErrInvalidName)
}

func TestGoNameNil(t *testing.T) {
	_, err := GoName(nil)
	assert.ErrorIs(t, err, ErrInvalidName)
}

func TestRealDlsym(t *testing.T) {
	version, err := RealDlsymVersion()
	require.NoError(t, err)
	assert.Contains(t, dlsymVersions, version)

	addr, err := RealDlsym(0, "strlen")
	require.NoError(t, err)
	assert.NotZero(t, addr)

	addr, err = RealDlsym(0, "grove_no_such_symbol")
	require.NoError(t, err)
	assert.Zero(t, addr)
}

func TestFindVersion(t *testing.T) {
	var tried []string
	version, err := findVersion(dlsymVersions, func(v string) bool {
		tried = append(tried, v)
		return v == "GLIBC_2.17"
	})
	require.NoError(t, err)
	assert.Equal(t, "GLIBC_2.17", version)
	assert.Equal(t, []string{"GLIBC_2.34", "GLIBC_2.2.5", "GLIBC_2.17"}, tried)
}

func TestFindVersionNoneMatch(t *testing.T) {
	_, err := findVersion([]string{"GLIBC_9.1", "GLIBC_9.2"}, func(string) bool { return false })
	assert.ErrorIs(t, err, ErrNoRealDlsym)
	assert.ErrorContains(t, err, "GLIBC_9.1, GLIBC_9.2")
}

func TestOpenAndBind(t *testing.T) {
	lib, err := Open("libgrove-missing.so", "libc.so.6")
	require.NoError(t, err)
	assert.Equal(t, "libc.so.6", lib.Name)

	var strlen func(s string) int
	require.NoError(t, lib.Bind(&strlen, "strlen"))
	assert.Equal(t, 5, strlen("grove"))

	_, err = lib.Symbol("grove_no_such_symbol")
	assert.ErrorIs(t, err, ErrSymbolNotFound)
}

func TestOpenFails(t *testing.T) {
	_, err := Open("libgrove-missing.so", "libgrove-missing.so.1")
	assert.ErrorContains(t, err, "libgrove-missing.so.1")
}

func TestPointer(t *testing.T) {
	addr, err := RealDlsym(0, "strlen")
	require.NoError(t, err)
	assert.Equal(t, addr, uintptr(Pointer(addr)))
	assert.Nil(t, Pointer(0))
}
