// Package config gathers the harness's compile-time settings. There are no
// flags, files or environment variables.
package config

import (
	"errors"
	"fmt"

	"github.com/tinyrange/vrharness/internal/frameloop"
	"github.com/tinyrange/vrharness/internal/openvr"
	"github.com/tinyrange/vrharness/internal/render"
	"github.com/tinyrange/vrharness/internal/window"
)

type Config struct {
	Window window.Config
	Render render.Options

	Application       openvr.ApplicationType
	Origin            openvr.TrackingUniverseOrigin
	PredictionSeconds float32

	Loop frameloop.Options
}

// Default returns the harness settings: a 256x256 window with a robust core
// OpenGL 3.2 context (3.1 as fallback), a 512 texel checkerboard on green,
// a Scene application tracking from the standing origin with 5 ms of
// prediction, and latching, fail-fast loop policies.
func Default() Config {
	return Config{
		Window: window.Config{
			Title:  "VR stereo harness",
			Width:  256,
			Height: 256,
			Versions: []window.Version{
				{Major: 3, Minor: 2},
				{Major: 3, Minor: 1},
			},
			CoreProfile: true,
			Robust:      true,
		},
		Render:            render.DefaultOptions(),
		Application:       openvr.ApplicationScene,
		Origin:            openvr.TrackingUniverseStanding,
		PredictionSeconds: 0.005,
		Loop:              frameloop.DefaultOptions(),
	}
}

// Validate reports every invalid setting at once.
func (c Config) Validate() error {
	var errs []error
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		errs = append(errs, fmt.Errorf("window size %dx%d must be positive", c.Window.Width, c.Window.Height))
	}
	if len(c.Window.Versions) == 0 {
		errs = append(errs, errors.New("no OpenGL versions requested"))
	}
	if c.Render.PatternSize <= 0 {
		errs = append(errs, fmt.Errorf("pattern size %d must be positive", c.Render.PatternSize))
	}
	if c.PredictionSeconds < 0 {
		errs = append(errs, fmt.Errorf("prediction %gs must not be negative", c.PredictionSeconds))
	}
	if c.Loop.Failure == frameloop.Tolerant && c.Loop.MaxConsecutiveFailures < 1 {
		errs = append(errs, fmt.Errorf("max consecutive failures %d must be at least 1", c.Loop.MaxConsecutiveFailures))
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}
