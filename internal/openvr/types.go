// Package openvr binds the OpenVR C API through purego. The runtime library
// is loaded on first use; no cgo is involved.
package openvr

// ApplicationType selects how the runtime treats this process.
type ApplicationType int32

const (
	ApplicationOther      ApplicationType = 0
	ApplicationScene      ApplicationType = 1
	ApplicationOverlay    ApplicationType = 2
	ApplicationBackground ApplicationType = 3
	ApplicationUtility    ApplicationType = 4
)

func (a ApplicationType) String() string {
	switch a {
	case ApplicationOther:
		return "Other"
	case ApplicationScene:
		return "Scene"
	case ApplicationOverlay:
		return "Overlay"
	case ApplicationBackground:
		return "Background"
	case ApplicationUtility:
		return "Utility"
	default:
		return "Unknown"
	}
}

// TrackingUniverseOrigin is the reference frame poses are reported in.
type TrackingUniverseOrigin int32

const (
	TrackingUniverseSeated             TrackingUniverseOrigin = 0
	TrackingUniverseStanding           TrackingUniverseOrigin = 1
	TrackingUniverseRawAndUncalibrated TrackingUniverseOrigin = 2
)

func (o TrackingUniverseOrigin) String() string {
	switch o {
	case TrackingUniverseSeated:
		return "Seated"
	case TrackingUniverseStanding:
		return "Standing"
	case TrackingUniverseRawAndUncalibrated:
		return "RawAndUncalibrated"
	default:
		return "Unknown"
	}
}

type Eye int32

const (
	EyeLeft  Eye = 0
	EyeRight Eye = 1
)

func (e Eye) String() string {
	if e == EyeRight {
		return "right"
	}
	return "left"
}

// TextureType identifies the graphics API a texture handle belongs to.
type TextureType int32

const (
	TextureTypeDirectX TextureType = 0
	TextureTypeOpenGL  TextureType = 1
	TextureTypeVulkan  TextureType = 2
)

// ColorSpace tells the compositor how to interpret submitted color values.
type ColorSpace int32

const (
	ColorSpaceAuto   ColorSpace = 0
	ColorSpaceGamma  ColorSpace = 1
	ColorSpaceLinear ColorSpace = 2
)

type SubmitFlags int32

const SubmitDefault SubmitFlags = 0

// Texture mirrors Texture_t. For OpenGL, Handle is the texture name.
type Texture struct {
	Handle     uintptr
	Type       TextureType
	ColorSpace ColorSpace
}

// TextureBounds mirrors VRTextureBounds_t, in normalized texture coordinates.
type TextureBounds struct {
	UMin, VMin float32
	UMax, VMax float32
}

// HmdMatrix34 is a row-major 3x4 rigid transform.
type HmdMatrix34 [3][4]float32

type HmdVector3 [3]float32

// TrackingResult is the tracking state of a device.
type TrackingResult int32

const (
	TrackingResultUninitialized         TrackingResult = 1
	TrackingResultCalibratingInProgress TrackingResult = 100
	TrackingResultCalibratingOutOfRange TrackingResult = 101
	TrackingResultRunningOK             TrackingResult = 200
	TrackingResultRunningOutOfRange     TrackingResult = 201
	TrackingResultFallbackRotationOnly  TrackingResult = 300
)

// TrackedDevicePose mirrors TrackedDevicePose_t (80 bytes).
type TrackedDevicePose struct {
	DeviceToAbsoluteTracking HmdMatrix34
	Velocity                 HmdVector3
	AngularVelocity          HmdVector3
	TrackingResult           TrackingResult
	PoseIsValid              bool
	DeviceIsConnected        bool
	_                        [2]byte
}

// Position returns the translation column of the pose.
func (p TrackedDevicePose) Position() HmdVector3 {
	m := p.DeviceToAbsoluteTracking
	return HmdVector3{m[0][3], m[1][3], m[2][3]}
}

const (
	// MaxTrackedDeviceCount is the size of every pose array the runtime fills.
	MaxTrackedDeviceCount = 64

	// TrackedDeviceIndexHmd is the pose slot of the headset.
	TrackedDeviceIndexHmd = 0
)

// Interface versions requested from VR_GetGenericInterface.
const (
	systemVersion     = "IVRSystem_022"
	compositorVersion = "IVRCompositor_027"
	fnTablePrefix     = "FnTable:"
)
