//go:build linux && !glfw

package window

import (
	"errors"
	"fmt"
	"os"
	"runtime"
	"strconv"
	"strings"
	"unsafe"

	"github.com/ebitengine/purego"
	"github.com/tinyrange/vrharness/internal/gl"
)

const (
	glxDoubleBuffer = 5
	glxRedSize      = 8
	glxGreenSize    = 9
	glxBlueSize     = 10
	glxAlphaSize    = 11
	glxDepthSize    = 12
	glxStencilSize  = 13
	glxXVisualType  = 0x22
	glxTrueColor    = 0x8002
	glxDrawableType = 0x8010
	glxRenderType   = 0x8011
	glxXRenderable  = 0x8012
	glxWindowBit    = 0x1
	glxRGBABit      = 0x1
	glxTrue         = 1
	glxNone         = 0

	// GLX_ARB_create_context, GLX_ARB_create_context_profile and
	// GLX_ARB_create_context_robustness.
	glxContextMajorVersion      = 0x2091
	glxContextMinorVersion      = 0x2092
	glxContextFlags             = 0x2094
	glxContextProfileMask       = 0x9126
	glxContextCoreProfileBit    = 0x1
	glxContextCompatProfileBit  = 0x2
	glxContextRobustAccessBit   = 0x4
	glxContextResetNotification = 0x8256
	glxLoseContextOnReset       = 0x8252

	inputOutput = 1

	exposureMask        = 1 << 15
	structureNotifyMask = 1 << 17
	keyPressMask        = 1 << 0
	keyReleaseMask      = 1 << 1
	buttonPressMask     = 1 << 2
	buttonReleaseMask   = 1 << 3
	pointerMotionMask   = 1 << 6

	keyPress        = 2
	buttonPress     = 4
	buttonRelease   = 5
	destroyNotify   = 17
	configureNotify = 22
	clientMessage   = 33

	xEventSize = 192
)

type XVisualInfo struct {
	Visual       uintptr
	VisualID     uint
	Screen       int32
	Depth        int32
	Class        int32
	RedMask      uint64
	GreenMask    uint64
	BlueMask     uint64
	ColormapSize int32
	BitsPerRGB   int32
	MapEntries   int32
	pad          int32
}

type xclientMessage struct {
	Type        int32
	Serial      uint64
	SendEvent   int32
	Display     uintptr
	Window      uintptr
	MessageType uintptr
	Format      int32
	Data        [5]uint64
}

type xbuttonEvent struct {
	Type       int32
	Serial     uint64
	SendEvent  int32
	Display    uintptr
	Window     uintptr
	Root       uintptr
	Subwindow  uintptr
	Time       uint64
	X          int32
	Y          int32
	XRoot      int32
	YRoot      int32
	State      uint32
	Button     uint32
	SameScreen int32
}

type xconfigureEvent struct {
	Type             int32
	Serial           uint64
	SendEvent        int32
	Display          uintptr
	Event            uintptr
	Window           uintptr
	X                int32
	Y                int32
	Width            int32
	Height           int32
	BorderWidth      int32
	Above            uintptr
	OverrideRedirect int32
}

var (
	x11lib uintptr
	gllib  uintptr

	xOpenDisplay           func(*byte) uintptr
	xDefaultScreen         func(uintptr) int32
	xRootWindow            func(uintptr, int32) uintptr
	xCreateColormap        func(uintptr, uintptr, uintptr, int32) uintptr
	xCreateWindow          func(uintptr, uintptr, int32, int32, uint32, uint32, uint32, int32, uint32, uintptr, uint64, unsafe.Pointer) uintptr
	xMapWindow             func(uintptr, uintptr) int32
	xStoreName             func(uintptr, uintptr, *byte) int32
	xInternAtom            func(uintptr, *byte, int32) uintptr
	xSetWMProtocols        func(uintptr, uintptr, *uintptr, int32) int32
	xSelectInput           func(uintptr, uintptr, int64)
	xPending               func(uintptr) int32
	xNextEvent             func(uintptr, unsafe.Pointer)
	xGetGeometry           func(uintptr, uintptr, *uintptr, *int32, *int32, *uint32, *uint32, *uint32, *uint32) int32
	xDestroyWindow         func(uintptr, uintptr) int32
	xCloseDisplay          func(uintptr) int32
	xDisplayWidth          func(uintptr, int32) int32
	xDisplayWidthMM        func(uintptr, int32) int32
	xResourceManagerString func(uintptr) *byte
	xSync                  func(uintptr, int32) int32
	xFree                  func(unsafe.Pointer) int32
	xSetErrorHandler       func(uintptr) uintptr

	glxChooseFBConfig          func(uintptr, int32, *int32, *int32) unsafe.Pointer
	glxGetVisualFromFBConfig   func(uintptr, uintptr) *XVisualInfo
	glxGetProcAddressARB       func(*byte) uintptr
	glxCreateContextAttribsARB func(uintptr, uintptr, uintptr, int32, *int32) uintptr
	glxMakeCurrent             func(uintptr, uintptr, uintptr) int32
	glxSwapBuffers             func(uintptr, uintptr)
	glxDestroyContext          func(uintptr, uintptr)

	// Set by the X error handler while a context is being negotiated.
	xErrorRaised bool
	xErrorCode   uint8
	xErrorFunc   uintptr
)

type x11Window struct {
	display  uintptr
	window   uintptr
	ctx      uintptr
	wmDelete uintptr
	running  bool
	scale    float32
	version  Version
}

func New(cfg Config) (Window, error) {
	runtime.LockOSThread()
	if err := ensureLibs(); err != nil {
		runtime.UnlockOSThread()
		return nil, err
	}

	dpy := xOpenDisplay(nil)
	if dpy == 0 {
		runtime.UnlockOSThread()
		return nil, errors.New("XOpenDisplay failed")
	}

	screen := xDefaultScreen(dpy)
	root := xRootWindow(dpy, screen)
	scale := calculateScale(dpy, screen)

	fbc, visual, err := chooseFBConfig(dpy, screen)
	if err != nil {
		xCloseDisplay(dpy)
		runtime.UnlockOSThread()
		return nil, err
	}
	defer xFree(unsafe.Pointer(visual))

	cmap := xCreateColormap(dpy, root, visual.Visual, 0)

	var swa xSetWindowAttributes
	swa.Colormap = cmap
	swa.EventMask = exposureMask | structureNotifyMask | keyPressMask | keyReleaseMask | buttonPressMask | buttonReleaseMask | pointerMotionMask

	const (
		cwColormap    = 1 << 13
		cwEventMask   = 1 << 11
		cwBorderPixel = 1 << 3
	)

	width := uint32(float32(cfg.Width) * scale)
	height := uint32(float32(cfg.Height) * scale)
	win := xCreateWindow(
		dpy, root,
		0, 0,
		width, height,
		0,
		visual.Depth,
		inputOutput,
		visual.Visual,
		cwBorderPixel|cwColormap|cwEventMask,
		unsafe.Pointer(&swa),
	)
	if win == 0 {
		xCloseDisplay(dpy)
		runtime.UnlockOSThread()
		return nil, errors.New("XCreateWindow failed")
	}
	xSelectInput(dpy, win, swa.EventMask)

	titleBytes := cString(cfg.Title)
	xStoreName(dpy, win, titleBytes)
	xMapWindow(dpy, win)

	wmDelete := xInternAtom(dpy, cString("WM_DELETE_WINDOW"), 0)
	xSetWMProtocols(dpy, win, &wmDelete, 1)

	ctx, version, err := createContext(dpy, fbc, cfg)
	if err != nil {
		xDestroyWindow(dpy, win)
		xCloseDisplay(dpy)
		runtime.UnlockOSThread()
		return nil, err
	}
	if glxMakeCurrent(dpy, win, ctx) == 0 {
		glxDestroyContext(dpy, ctx)
		xDestroyWindow(dpy, win)
		xCloseDisplay(dpy)
		runtime.UnlockOSThread()
		return nil, errors.New("glXMakeCurrent failed")
	}

	return &x11Window{
		display:  dpy,
		window:   win,
		ctx:      ctx,
		wmDelete: wmDelete,
		running:  true,
		scale:    scale,
		version:  version,
	}, nil
}

func chooseFBConfig(dpy uintptr, screen int32) (uintptr, *XVisualInfo, error) {
	attrs := []int32{
		glxXRenderable, glxTrue,
		glxDrawableType, glxWindowBit,
		glxRenderType, glxRGBABit,
		glxXVisualType, glxTrueColor,
		glxRedSize, 8,
		glxGreenSize, 8,
		glxBlueSize, 8,
		glxAlphaSize, 8,
		glxDepthSize, 24,
		glxStencilSize, 8,
		glxDoubleBuffer, glxTrue,
		glxNone,
	}
	var n int32
	configs := glxChooseFBConfig(dpy, screen, &attrs[0], &n)
	if configs == nil || n == 0 {
		return 0, nil, errors.New("glXChooseFBConfig found no matching framebuffer config")
	}
	defer xFree(configs)

	fbc := *(*uintptr)(configs)
	visual := glxGetVisualFromFBConfig(dpy, fbc)
	if visual == nil {
		return 0, nil, errors.New("glXGetVisualFromFBConfig failed")
	}
	return fbc, visual, nil
}

// createContext tries each requested version in order. Failures surface as X
// protocol errors, which the installed handler records instead of exiting.
func createContext(dpy, fbc uintptr, cfg Config) (uintptr, Version, error) {
	if glxCreateContextAttribsARB == nil {
		return 0, Version{}, noCompatibleContext(cfg.Versions, errors.New("GLX_ARB_create_context unavailable"))
	}

	prev := xSetErrorHandler(xErrorFunc)
	defer xSetErrorHandler(prev)

	var last error
	for _, v := range cfg.Versions {
		xErrorRaised = false
		attrs := contextAttribs(v, cfg.CoreProfile, cfg.Robust)
		ctx := glxCreateContextAttribsARB(dpy, fbc, 0, glxTrue, &attrs[0])
		xSync(dpy, 0)
		if ctx != 0 && !xErrorRaised {
			return ctx, v, nil
		}
		if ctx != 0 {
			glxDestroyContext(dpy, ctx)
		}
		last = fmt.Errorf("X error code %d creating %s context", xErrorCode, v)
	}
	return 0, Version{}, noCompatibleContext(cfg.Versions, last)
}

func contextAttribs(v Version, core, robust bool) []int32 {
	profile := int32(glxContextCompatProfileBit)
	if core {
		profile = glxContextCoreProfileBit
	}
	attrs := []int32{
		glxContextMajorVersion, int32(v.Major),
		glxContextMinorVersion, int32(v.Minor),
		glxContextProfileMask, profile,
	}
	if robust {
		attrs = append(attrs,
			glxContextFlags, glxContextRobustAccessBit,
			glxContextResetNotification, glxLoseContextOnReset,
		)
	}
	return append(attrs, glxNone)
}

func (w *x11Window) GL() (gl.OpenGL, error) {
	return gl.Load(procAddress)
}

func procAddress(name string) uintptr {
	return glxGetProcAddressARB(cString(name))
}

func (w *x11Window) ContextVersion() Version {
	return w.version
}

func (w *x11Window) Close() {
	if w.ctx != 0 {
		glxMakeCurrent(w.display, 0, 0)
		glxDestroyContext(w.display, w.ctx)
		w.ctx = 0
	}
	if w.window != 0 {
		xDestroyWindow(w.display, w.window)
		w.window = 0
	}
	if w.display != 0 {
		xCloseDisplay(w.display)
		w.display = 0
	}
	w.running = false
	runtime.UnlockOSThread()
}

func (w *x11Window) PollEvents(dst []Event) []Event {
	if !w.running {
		return dst
	}

	for xPending(w.display) > 0 {
		var ev [xEventSize]byte
		xNextEvent(w.display, unsafe.Pointer(&ev[0]))
		if e, ok := translateEvent(&ev, w.wmDelete); ok {
			if e.Kind == EventClose {
				w.running = false
			}
			dst = append(dst, e)
		}
	}
	return dst
}

func translateEvent(ev *[xEventSize]byte, wmDelete uintptr) (Event, bool) {
	etype := *(*int32)(unsafe.Pointer(&ev[0]))
	switch etype {
	case clientMessage:
		cm := (*xclientMessage)(unsafe.Pointer(&ev[0]))
		if cm.Format == 32 && cm.Data[0] == uint64(wmDelete) {
			return Event{Kind: EventClose}, true
		}
	case destroyNotify:
		return Event{Kind: EventClose}, true
	case buttonPress, buttonRelease:
		be := (*xbuttonEvent)(unsafe.Pointer(&ev[0]))
		// Buttons 4-7 are the wheel axes.
		if be.Button >= 4 && be.Button <= 7 {
			return Event{Kind: EventScroll}, true
		}
		return Event{
			Kind:    EventMouseButton,
			Button:  x11Button(be.Button),
			Pressed: etype == buttonPress,
		}, true
	case keyPress:
		return Event{Kind: EventKey}, true
	case configureNotify:
		ce := (*xconfigureEvent)(unsafe.Pointer(&ev[0]))
		return Event{Kind: EventResize, Width: int(ce.Width), Height: int(ce.Height)}, true
	}
	return Event{}, false
}

func x11Button(b uint32) Button {
	switch b {
	case 1:
		return ButtonLeft
	case 2:
		return ButtonMiddle
	case 3:
		return ButtonRight
	default:
		return ButtonOther
	}
}

func (w *x11Window) Swap() {
	if w.display != 0 && w.window != 0 {
		glxSwapBuffers(w.display, w.window)
	}
}

func (w *x11Window) BackingSize() (int, int) {
	var root uintptr
	var x, y int32
	var width, height uint32
	var border, depth uint32
	if xGetGeometry(w.display, w.window, &root, &x, &y, &width, &height, &border, &depth) == 0 {
		return 0, 0
	}
	return int(width), int(height)
}

func (w *x11Window) Scale() float32 {
	return w.scale
}

// calculateScale derives the display scale from the desktop's scale
// variables, then Xft.dpi, then the physical screen size, falling back to 1.
func calculateScale(dpy uintptr, screen int32) float32 {
	for _, env := range []string{"GTK_SCALE", "GDK_SCALE", "QT_SCALE_FACTOR"} {
		if v, err := strconv.ParseFloat(os.Getenv(env), 32); err == nil && v > 0 {
			return roundScale(float32(v))
		}
	}

	if xResourceManagerString != nil {
		if dpi := parseXftDPI(gostring(xResourceManagerString(dpy))); dpi > 0 {
			return roundScale(dpi / 96.0)
		}
	}

	widthPx := xDisplayWidth(dpy, screen)
	widthMM := xDisplayWidthMM(dpy, screen)
	if widthMM > 0 && widthPx > 0 {
		dpi := (float32(widthPx) / float32(widthMM)) * 25.4
		if dpi >= 72 && dpi <= 300 {
			return roundScale(dpi / 96.0)
		}
	}
	return 1.0
}

// parseXftDPI extracts the Xft.dpi value from an X resource manager string
// such as "Xft.dpi:\t96\n".
func parseXftDPI(rm string) float32 {
	for _, line := range strings.Split(rm, "\n") {
		value, ok := strings.CutPrefix(line, "Xft.dpi:")
		if !ok {
			continue
		}
		dpi, err := strconv.ParseFloat(strings.TrimSpace(value), 32)
		if err != nil || dpi <= 0 {
			return 0
		}
		return float32(dpi)
	}
	return 0
}

// roundScale snaps to the nearest common scale factor when within 0.1,
// otherwise clamps to [0.5, 4].
func roundScale(scale float32) float32 {
	best := float32(1.0)
	minDiff := float32(1000.0)
	for _, cs := range []float32{0.75, 1.0, 1.25, 1.5, 1.75, 2.0, 2.5, 3.0, 4.0} {
		diff := scale - cs
		if diff < 0 {
			diff = -diff
		}
		if diff < minDiff {
			minDiff = diff
			best = cs
		}
	}
	if minDiff < 0.1 {
		return best
	}
	return min(max(scale, 0.5), 4.0)
}

func gostring(ptr *byte) string {
	if ptr == nil {
		return ""
	}
	var bytes []byte
	for p := ptr; *p != 0; p = (*byte)(unsafe.Pointer(uintptr(unsafe.Pointer(p)) + 1)) {
		bytes = append(bytes, *p)
	}
	return string(bytes)
}

type xSetWindowAttributes struct {
	BackgroundPixmap uintptr
	BackgroundPixel  uint64
	BorderPixmap     uint64
	BorderPixel      uint64
	BitGravity       int32
	WinGravity       int32
	BackingStore     int32
	BackingPlanes    uint64
	BackingPixel     uint64
	SaveUnder        int32
	EventMask        int64
	DoNotPropagate   int64
	OverrideRedirect int32
	Colormap         uintptr
	Cursor           uintptr
}

type xErrorEvent struct {
	Type        int32
	Display     uintptr
	ResourceID  uintptr
	Serial      uint64
	ErrorCode   uint8
	RequestCode uint8
	MinorCode   uint8
}

func ensureLibs() error {
	var err error
	if x11lib == 0 {
		x11lib, err = purego.Dlopen("libX11.so.6", purego.RTLD_LAZY|purego.RTLD_GLOBAL)
		if err != nil {
			return err
		}
		registerX11()
	}
	if gllib == 0 {
		gllib, err = purego.Dlopen("libGL.so.1", purego.RTLD_LAZY|purego.RTLD_GLOBAL)
		if err != nil {
			return err
		}
		registerGLX()
	}
	return nil
}

func registerX11() {
	purego.RegisterLibFunc(&xOpenDisplay, x11lib, "XOpenDisplay")
	purego.RegisterLibFunc(&xDefaultScreen, x11lib, "XDefaultScreen")
	purego.RegisterLibFunc(&xRootWindow, x11lib, "XRootWindow")
	purego.RegisterLibFunc(&xCreateColormap, x11lib, "XCreateColormap")
	purego.RegisterLibFunc(&xCreateWindow, x11lib, "XCreateWindow")
	purego.RegisterLibFunc(&xMapWindow, x11lib, "XMapWindow")
	purego.RegisterLibFunc(&xStoreName, x11lib, "XStoreName")
	purego.RegisterLibFunc(&xInternAtom, x11lib, "XInternAtom")
	purego.RegisterLibFunc(&xSetWMProtocols, x11lib, "XSetWMProtocols")
	purego.RegisterLibFunc(&xSelectInput, x11lib, "XSelectInput")
	purego.RegisterLibFunc(&xPending, x11lib, "XPending")
	purego.RegisterLibFunc(&xNextEvent, x11lib, "XNextEvent")
	purego.RegisterLibFunc(&xGetGeometry, x11lib, "XGetGeometry")
	purego.RegisterLibFunc(&xDestroyWindow, x11lib, "XDestroyWindow")
	purego.RegisterLibFunc(&xCloseDisplay, x11lib, "XCloseDisplay")
	purego.RegisterLibFunc(&xDisplayWidth, x11lib, "XDisplayWidth")
	purego.RegisterLibFunc(&xDisplayWidthMM, x11lib, "XDisplayWidthMM")
	purego.RegisterLibFunc(&xSync, x11lib, "XSync")
	purego.RegisterLibFunc(&xFree, x11lib, "XFree")
	purego.RegisterLibFunc(&xSetErrorHandler, x11lib, "XSetErrorHandler")
	if _, err := purego.Dlsym(x11lib, "XResourceManagerString"); err == nil {
		purego.RegisterLibFunc(&xResourceManagerString, x11lib, "XResourceManagerString")
	}

	xErrorFunc = purego.NewCallback(func(display, event uintptr) uintptr {
		xErrorRaised = true
		xErrorCode = (*xErrorEvent)(unsafe.Pointer(event)).ErrorCode
		return 0
	})
}

func registerGLX() {
	purego.RegisterLibFunc(&glxChooseFBConfig, gllib, "glXChooseFBConfig")
	purego.RegisterLibFunc(&glxGetVisualFromFBConfig, gllib, "glXGetVisualFromFBConfig")
	purego.RegisterLibFunc(&glxGetProcAddressARB, gllib, "glXGetProcAddressARB")
	purego.RegisterLibFunc(&glxMakeCurrent, gllib, "glXMakeCurrent")
	purego.RegisterLibFunc(&glxSwapBuffers, gllib, "glXSwapBuffers")
	purego.RegisterLibFunc(&glxDestroyContext, gllib, "glXDestroyContext")
	if ptr := glxGetProcAddressARB(cString("glXCreateContextAttribsARB")); ptr != 0 {
		purego.RegisterFunc(&glxCreateContextAttribsARB, ptr)
	}
}

func cString(s string) *byte {
	b := append([]byte(s), 0)
	return &b[0]
}
