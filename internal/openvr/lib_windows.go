//go:build windows

package openvr

import "syscall"

const libraryName = "openvr_api.dll"

func openLibrary() (uintptr, error) {
	h, err := syscall.LoadLibrary(libraryName)
	return uintptr(h), err
}

func lookup(lib uintptr, name string) (uintptr, error) {
	return syscall.GetProcAddress(syscall.Handle(lib), name)
}
