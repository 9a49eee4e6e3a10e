package frameloop

import (
	"github.com/tinyrange/vrharness/internal/graphics"
	"github.com/tinyrange/vrharness/internal/window"
)

type contextDisplay struct {
	ctx *graphics.Context
}

// ContextDisplay adapts a graphics context to Display.
func ContextDisplay(ctx *graphics.Context) Display {
	return contextDisplay{ctx: ctx}
}

func (d contextDisplay) BeginFrame() Surface {
	return d.ctx.BeginFrame()
}

func (d contextDisplay) PollEvents(dst []window.Event) []window.Event {
	return d.ctx.PollEvents(dst)
}
