package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/tinyrange/vrharness/internal/config"
	"github.com/tinyrange/vrharness/internal/eye"
	"github.com/tinyrange/vrharness/internal/frameloop"
	"github.com/tinyrange/vrharness/internal/graphics"
	"github.com/tinyrange/vrharness/internal/openvr"
	"github.com/tinyrange/vrharness/internal/render"
	"github.com/tinyrange/vrharness/internal/tracking"
)

func init() {
	// The window system and the GL context are bound to the main thread.
	runtime.LockOSThread()
}

func main() {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, nil)))
	openvr.SetLogger(slog.Default())
	frameloop.SetLogger(slog.Default())

	cfg := config.Default()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("%v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		log.Fatalf("%v", err)
	}
}

// run builds the harness, drives the frame loop and tears everything down in
// reverse order: renderer, runtime, then the graphics context together with
// the eye targets it owns.
func run(ctx context.Context, cfg config.Config) error {
	gfx, err := graphics.New(cfg.Window)
	if err != nil {
		return fmt.Errorf("init graphics: %w", err)
	}
	defer gfx.Close()

	info := gfx.Info()
	slog.Info("OpenGL",
		"vendor", info.Vendor,
		"renderer", info.Renderer,
		"version", info.Version,
		"context", info.Context.String())
	slog.Info("Scale", "scale", gfx.Scale())

	dev, err := tracking.Open(cfg.Application)
	if err != nil {
		return fmt.Errorf("init tracking: %w", err)
	}
	defer dev.Close()

	if err := dev.ConfigureOrigin(cfg.Origin, cfg.PredictionSeconds); err != nil {
		return fmt.Errorf("configure origin: %w", err)
	}
	logPose("Predicted head pose", dev.PredictedHeadPose(), true)

	left, right, err := eye.AllocateRecommended(gfx, dev)
	if err != nil {
		return fmt.Errorf("eye targets: %w", err)
	}
	width, height := left.Size()
	slog.Info("Target size", "width", width, "height", height)

	renderer, err := render.New(gfx, cfg.Render)
	if err != nil {
		return fmt.Errorf("renderer: %w", err)
	}
	defer renderer.Close()

	loop, err := frameloop.New(frameloop.Components{
		Poses:      dev,
		Display:    frameloop.ContextDisplay(gfx),
		Renderer:   renderer,
		Compositor: dev.Compositor(),
		Left:       left,
		Right:      right,
	}, cfg.Loop)
	if err != nil {
		return err
	}

	if err := loop.Run(ctx); err != nil {
		return fmt.Errorf("run loop: %w", err)
	}
	pose, ok := dev.HeadPose()
	logPose("Last head pose", pose, ok)
	return nil
}

func logPose(msg string, pose openvr.TrackedDevicePose, ok bool) {
	if !ok || !pose.PoseIsValid {
		slog.Debug(msg, "valid", false)
		return
	}
	p := pose.Position()
	slog.Debug(msg, "valid", true, "x", p[0], "y", p[1], "z", p[2])
}
