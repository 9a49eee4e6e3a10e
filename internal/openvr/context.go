package openvr

import "fmt"

// Context is an initialized runtime. The System and Compositor handles it
// hands out borrow from it and stop working once Shutdown is called.
type Context struct {
	token  uintptr
	closed bool

	system     *System
	compositor *Compositor

	shutdown func()
}

// Init loads the runtime library if needed and initializes the runtime for
// the given application type. It fails when no runtime is installed or no
// headset is connected.
func Init(kind ApplicationType) (*Context, error) {
	if err := load(); err != nil {
		return nil, err
	}
	if !vrIsRuntimeInstalled() {
		return nil, InitErrorInstallationNotFound
	}
	if !vrIsHmdPresent() {
		return nil, InitErrorHmdNotFound
	}

	var code InitError
	token := vrInitInternal2(&code, kind, nil)
	if code != InitErrorNone {
		return nil, code
	}
	logger().Info("openvr: runtime initialized", "application", kind.String())
	return &Context{token: token, shutdown: vrShutdownInternal}, nil
}

// System returns the tracking system interface, fetching it on first use.
func (c *Context) System() (*System, error) {
	if c.closed {
		return nil, ErrShutdown
	}
	if c.system != nil {
		return c.system, nil
	}
	table, err := genericInterface(systemVersion)
	if err != nil {
		return nil, err
	}
	s := &System{ctx: c}
	if err := table.bind(map[int]any{
		0:  &s.fn.getRecommendedRenderTargetSize,
		11: &s.fn.getDeviceToAbsoluteTrackingPose,
	}); err != nil {
		return nil, fmt.Errorf("%s: %w", systemVersion, err)
	}
	c.system = s
	return s, nil
}

// Compositor returns the compositor interface, fetching it on first use.
func (c *Context) Compositor() (*Compositor, error) {
	if c.closed {
		return nil, ErrShutdown
	}
	if c.compositor != nil {
		return c.compositor, nil
	}
	table, err := genericInterface(compositorVersion)
	if err != nil {
		return nil, err
	}
	comp := &Compositor{ctx: c}
	if err := table.bind(map[int]any{
		0: &comp.fn.setTrackingSpace,
		2: &comp.fn.waitGetPoses,
		5: &comp.fn.submit,
	}); err != nil {
		return nil, fmt.Errorf("%s: %w", compositorVersion, err)
	}
	c.compositor = comp
	return comp, nil
}

// Shutdown releases the runtime. Handles obtained from c fail with
// ErrShutdown afterwards. Calling Shutdown again returns ErrShutdown.
func (c *Context) Shutdown() error {
	if c.closed {
		return ErrShutdown
	}
	c.closed = true
	c.system = nil
	c.compositor = nil
	c.shutdown()
	logger().Info("openvr: runtime shut down")
	return nil
}
