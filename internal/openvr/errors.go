package openvr

import (
	"errors"
	"fmt"
)

// ErrShutdown is returned by System and Compositor calls made after the
// owning Context has been shut down.
var ErrShutdown = errors.New("openvr: runtime context shut down")

// InitError is an EVRInitError code.
type InitError int32

const (
	InitErrorNone                       InitError = 0
	InitErrorUnknown                    InitError = 1
	InitErrorInstallationNotFound       InitError = 100
	InitErrorInstallationCorrupt        InitError = 101
	InitErrorVRClientDLLNotFound        InitError = 102
	InitErrorFileNotFound               InitError = 103
	InitErrorFactoryNotFound            InitError = 104
	InitErrorInterfaceNotFound          InitError = 105
	InitErrorInvalidInterface           InitError = 106
	InitErrorUserConfigDirectoryInvalid InitError = 107
	InitErrorHmdNotFound                InitError = 108
	InitErrorNotInitialized             InitError = 109
	InitErrorPathRegistryNotFound       InitError = 110
	InitErrorNoConfigPath               InitError = 111
	InitErrorNoLogPath                  InitError = 112
	InitErrorPathRegistryNotWritable    InitError = 113
	InitErrorAppInfoInitFailed          InitError = 114
	InitErrorRetry                      InitError = 115
	InitErrorInitCanceledByUser         InitError = 116
	InitErrorAnotherAppLaunching        InitError = 117
	InitErrorSettingsInitFailed         InitError = 118
	InitErrorShuttingDown               InitError = 119
	InitErrorTooManyObjects             InitError = 120
	InitErrorNoServerForBackgroundApp   InitError = 121
	InitErrorNotSupportedWithCompositor InitError = 122
	InitErrorNotAvailableToUtilityApps  InitError = 123
	InitErrorInternal                   InitError = 124
	InitErrorHmdDriverIDIsNone          InitError = 125
	InitErrorHmdNotFoundPresenceFailed  InitError = 126
	InitErrorDriverFailed               InitError = 200
	InitErrorDriverUnknown              InitError = 201
	InitErrorDriverHmdUnknown           InitError = 202
	InitErrorDriverNotLoaded            InitError = 203
	InitErrorDriverRuntimeOutOfDate     InitError = 204
	InitErrorDriverHmdInUse             InitError = 205
	InitErrorDriverNotCalibrated        InitError = 206
	InitErrorDriverCalibrationInvalid   InitError = 207
	InitErrorDriverHmdDisplayNotFound   InitError = 208
)

var initErrorNames = map[InitError]string{
	InitErrorNone:                       "None",
	InitErrorUnknown:                    "Unknown",
	InitErrorInstallationNotFound:       "Init_InstallationNotFound",
	InitErrorInstallationCorrupt:        "Init_InstallationCorrupt",
	InitErrorVRClientDLLNotFound:        "Init_VRClientDLLNotFound",
	InitErrorFileNotFound:               "Init_FileNotFound",
	InitErrorFactoryNotFound:            "Init_FactoryNotFound",
	InitErrorInterfaceNotFound:          "Init_InterfaceNotFound",
	InitErrorInvalidInterface:           "Init_InvalidInterface",
	InitErrorUserConfigDirectoryInvalid: "Init_UserConfigDirectoryInvalid",
	InitErrorHmdNotFound:                "Init_HmdNotFound",
	InitErrorNotInitialized:             "Init_NotInitialized",
	InitErrorPathRegistryNotFound:       "Init_PathRegistryNotFound",
	InitErrorNoConfigPath:               "Init_NoConfigPath",
	InitErrorNoLogPath:                  "Init_NoLogPath",
	InitErrorPathRegistryNotWritable:    "Init_PathRegistryNotWritable",
	InitErrorAppInfoInitFailed:          "Init_AppInfoInitFailed",
	InitErrorRetry:                      "Init_Retry",
	InitErrorInitCanceledByUser:         "Init_InitCanceledByUser",
	InitErrorAnotherAppLaunching:        "Init_AnotherAppLaunching",
	InitErrorSettingsInitFailed:         "Init_SettingsInitFailed",
	InitErrorShuttingDown:               "Init_ShuttingDown",
	InitErrorTooManyObjects:             "Init_TooManyObjects",
	InitErrorNoServerForBackgroundApp:   "Init_NoServerForBackgroundApp",
	InitErrorNotSupportedWithCompositor: "Init_NotSupportedWithCompositor",
	InitErrorNotAvailableToUtilityApps:  "Init_NotAvailableToUtilityApps",
	InitErrorInternal:                   "Init_Internal",
	InitErrorHmdDriverIDIsNone:          "Init_HmdDriverIdIsNone",
	InitErrorHmdNotFoundPresenceFailed:  "Init_HmdNotFoundPresenceFailed",
	InitErrorDriverFailed:               "Driver_Failed",
	InitErrorDriverUnknown:              "Driver_Unknown",
	InitErrorDriverHmdUnknown:           "Driver_HmdUnknown",
	InitErrorDriverNotLoaded:            "Driver_NotLoaded",
	InitErrorDriverRuntimeOutOfDate:     "Driver_RuntimeOutOfDate",
	InitErrorDriverHmdInUse:             "Driver_HmdInUse",
	InitErrorDriverNotCalibrated:        "Driver_NotCalibrated",
	InitErrorDriverCalibrationInvalid:   "Driver_CalibrationInvalid",
	InitErrorDriverHmdDisplayNotFound:   "Driver_HmdDisplayNotFound",
}

// Name returns the symbolic name of the code, such as "Init_HmdNotFound".
func (e InitError) Name() string {
	if name, ok := initErrorNames[e]; ok {
		return name
	}
	return fmt.Sprintf("VRInitError(%d)", int32(e))
}

func (e InitError) Error() string {
	if desc := describeInitError(e); desc != "" {
		return fmt.Sprintf("openvr: init: %s (%s)", e.Name(), desc)
	}
	return "openvr: init: " + e.Name()
}

// CompositorError is an EVRCompositorError code.
type CompositorError int32

const (
	CompositorErrorNone                         CompositorError = 0
	CompositorErrorRequestFailed                CompositorError = 1
	CompositorErrorIncompatibleVersion          CompositorError = 100
	CompositorErrorDoNotHaveFocus               CompositorError = 101
	CompositorErrorInvalidTexture               CompositorError = 102
	CompositorErrorIsNotSceneApplication        CompositorError = 103
	CompositorErrorTextureIsOnWrongDevice       CompositorError = 104
	CompositorErrorTextureUsesUnsupportedFormat CompositorError = 105
	CompositorErrorSharedTexturesNotSupported   CompositorError = 106
	CompositorErrorIndexOutOfRange              CompositorError = 107
	CompositorErrorAlreadySubmitted             CompositorError = 108
	CompositorErrorInvalidBounds                CompositorError = 109
	CompositorErrorAlreadySet                   CompositorError = 110
)

var compositorErrorNames = map[CompositorError]string{
	CompositorErrorNone:                         "None",
	CompositorErrorRequestFailed:                "RequestFailed",
	CompositorErrorIncompatibleVersion:          "IncompatibleVersion",
	CompositorErrorDoNotHaveFocus:               "DoNotHaveFocus",
	CompositorErrorInvalidTexture:               "InvalidTexture",
	CompositorErrorIsNotSceneApplication:        "IsNotSceneApplication",
	CompositorErrorTextureIsOnWrongDevice:       "TextureIsOnWrongDevice",
	CompositorErrorTextureUsesUnsupportedFormat: "TextureUsesUnsupportedFormat",
	CompositorErrorSharedTexturesNotSupported:   "SharedTexturesNotSupported",
	CompositorErrorIndexOutOfRange:              "IndexOutOfRange",
	CompositorErrorAlreadySubmitted:             "AlreadySubmitted",
	CompositorErrorInvalidBounds:                "InvalidBounds",
	CompositorErrorAlreadySet:                   "AlreadySet",
}

func (e CompositorError) Name() string {
	if name, ok := compositorErrorNames[e]; ok {
		return name
	}
	return fmt.Sprintf("VRCompositorError(%d)", int32(e))
}

func (e CompositorError) Error() string {
	return "openvr: compositor: " + e.Name()
}
