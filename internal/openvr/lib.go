package openvr

import (
	"fmt"
	"sync"
	"unsafe"

	"github.com/ebitengine/purego"
)

// Exported entry points of the runtime client library.
var (
	vrInitInternal2                      func(err *InitError, kind ApplicationType, startupInfo *byte) uintptr
	vrShutdownInternal                   func()
	vrIsHmdPresent                       func() bool
	vrIsRuntimeInstalled                 func() bool
	vrGetGenericInterface                func(version string, err *InitError) uintptr
	vrGetVRInitErrorAsEnglishDescription func(err InitError) string
)

var (
	loadOnce sync.Once
	loadErr  error
	loaded   bool
)

// load opens the runtime client library and resolves its exports. It is safe
// to call repeatedly; only the first call does any work.
func load() error {
	loadOnce.Do(func() {
		lib, err := openLibrary()
		if err != nil {
			loadErr = fmt.Errorf("openvr: load %s: %w", libraryName, err)
			return
		}

		syms := []struct {
			fn   any
			name string
		}{
			{&vrInitInternal2, "VR_InitInternal2"},
			{&vrShutdownInternal, "VR_ShutdownInternal"},
			{&vrIsHmdPresent, "VR_IsHmdPresent"},
			{&vrIsRuntimeInstalled, "VR_IsRuntimeInstalled"},
			{&vrGetGenericInterface, "VR_GetGenericInterface"},
			{&vrGetVRInitErrorAsEnglishDescription, "VR_GetVRInitErrorAsEnglishDescription"},
		}
		for _, s := range syms {
			addr, err := lookup(lib, s.name)
			if err != nil {
				loadErr = fmt.Errorf("openvr: %s: %w", s.name, err)
				return
			}
			purego.RegisterFunc(s.fn, addr)
		}
		loaded = true
		logger().Debug("openvr: runtime library loaded", "library", libraryName)
	})
	return loadErr
}

// describeInitError asks the runtime for an English description of code. It
// returns "" when the library is not loaded.
func describeInitError(code InitError) string {
	if !loaded {
		return ""
	}
	return vrGetVRInitErrorAsEnglishDescription(code)
}

// fnTable is a C struct of function pointers returned by
// VR_GetGenericInterface for a "FnTable:" interface version.
type fnTable uintptr

// entry returns the function pointer in slot i.
func (t fnTable) entry(i int) uintptr {
	return *(*uintptr)(unsafe.Add(unsafe.Pointer(uintptr(t)), i*int(unsafe.Sizeof(uintptr(0)))))
}

// bind registers each Go function pointer in fns against the table slot it
// is keyed by.
func (t fnTable) bind(fns map[int]any) error {
	for slot, fn := range fns {
		addr := t.entry(slot)
		if addr == 0 {
			return fmt.Errorf("openvr: function table slot %d is empty", slot)
		}
		purego.RegisterFunc(fn, addr)
	}
	return nil
}

func genericInterface(version string) (fnTable, error) {
	var code InitError
	table := vrGetGenericInterface(fnTablePrefix+version, &code)
	if code != InitErrorNone {
		return 0, fmt.Errorf("openvr: %s: %w", version, code)
	}
	if table == 0 {
		return 0, fmt.Errorf("openvr: %s: %w", version, InitErrorInterfaceNotFound)
	}
	return fnTable(table), nil
}
