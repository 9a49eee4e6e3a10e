//go:build darwin || linux || freebsd

package openvr

import (
	"runtime"

	"github.com/ebitengine/purego"
)

var libraryName = func() string {
	if runtime.GOOS == "darwin" {
		return "libopenvr_api.dylib"
	}
	return "libopenvr_api.so"
}()

func openLibrary() (uintptr, error) {
	return purego.Dlopen(libraryName, purego.RTLD_NOW|purego.RTLD_GLOBAL)
}

func lookup(lib uintptr, name string) (uintptr, error) {
	return purego.Dlsym(lib, name)
}
