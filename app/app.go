// Copyright (c) 2026, The wgpu-example Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package app runs the harness lifecycle: it pulls platform events,
// drives the Uninitialized / Running / Suspended / Terminated state
// machine, coalesces redraw requests, and hands frames to a renderer.
package app

import (
	"fmt"
	"image"
	"log/slog"
	"time"

	"cogentcore.org/core/base/errors"
	"github.com/cogentcore/webgpu/wgpu"

	"github.com/lemlac/wgpu-example/events"
	"github.com/lemlac/wgpu-example/gpu"
	"github.com/lemlac/wgpu-example/overlay"
)

// Stages is the lifecycle stage of the application.
type Stages int32

const (
	// Uninitialized is the state before the window first becomes
	// visible; no GPU resources exist yet.
	Uninitialized Stages = iota

	// Running renders continuously.
	Running

	// Suspended is a hidden window or tab: the loop still consumes
	// events but renders nothing. GPU resources are kept.
	Suspended

	// Terminated is the final state; the event loop has exited.
	Terminated
)

func (s Stages) String() string {
	switch s {
	case Uninitialized:
		return "Uninitialized"
	case Running:
		return "Running"
	case Suspended:
		return "Suspended"
	case Terminated:
		return "Terminated"
	}
	return fmt.Sprintf("Stages(%d)", int32(s))
}

// Platform abstracts the windowing system: the desktop glfw driver and
// the browser driver both implement it.
type Platform interface {
	// CreateWindowSurface creates the WebGPU surface for the window
	// and returns it with the current drawable size in pixels.
	CreateWindowSurface() (*wgpu.Surface, image.Point, error)

	// NextEvent blocks until the next platform event is available.
	NextEvent() events.Event

	// RequestRedraw schedules exactly one WindowPaint event, paced by
	// the platform (vsync or requestAnimationFrame).
	RequestRedraw()

	// Terminate tears down the windowing system after the event loop
	// has exited.
	Terminate()
}

// FrameRenderer renders frames for the App. The production
// implementation is [Renderer]; tests substitute fakes.
type FrameRenderer interface {
	// Initialize creates the GPU session against the platform's
	// window surface. Called on the first WindowShow.
	Initialize(plat Platform, opts *Options) error

	// Resize propagates a new drawable size.
	Resize(size image.Point)

	// RenderFrame renders one frame at the given elapsed session time.
	RenderFrame(elapsed time.Duration) error

	// Generation identifies the current GPU session; it only changes
	// when the session is rebuilt, not across suspend / resume.
	Generation() uint64

	// Release frees all GPU resources.
	Release()
}

// App owns the event loop. It must be used from the main thread on
// platforms that require it.
type App struct {
	// Opts are the startup options.
	Opts *Options

	// Stage is the current lifecycle stage.
	Stage Stages

	plat    Platform
	rend    FrameRenderer
	overlay overlay.Overlay

	// now is the clock, replaceable in tests.
	now func() time.Time

	// start anchors elapsed session time, set at initialization.
	start time.Time

	// pendingRedraw coalesces redraw requests: at most one WindowPaint
	// is in flight at any time.
	pendingRedraw bool
}

// New returns an App running the given renderer and overlay on the
// given platform.
func New(plat Platform, rend FrameRenderer, ov overlay.Overlay, opts *Options) *App {
	if opts == nil {
		opts = DefaultOptions()
	}
	if ov == nil {
		ov = overlay.Nop{}
	}
	return &App{
		Opts:    opts,
		plat:    plat,
		rend:    rend,
		overlay: ov,
		now:     time.Now,
	}
}

// Run pulls events until the app terminates. It returns an error only
// for fatal initialization failures; per-frame errors are logged and
// skipped.
func (ap *App) Run() error {
	defer ap.plat.Terminate()
	for ap.Stage != Terminated {
		if err := ap.handleEvent(ap.plat.NextEvent()); err != nil {
			return err
		}
	}
	return nil
}

// handleEvent advances the state machine by one event.
func (ap *App) handleEvent(ev events.Event) error {
	if ap.Stage == Terminated {
		return nil
	}
	if ev.IsInput() {
		if ev.Type == events.KeyDown && ev.Code == events.CodeEscape {
			ap.shutdown()
			return nil
		}
		ap.overlay.HandleEvent(ev)
		ap.requestRedraw()
		return nil
	}

	switch ev.Type {
	case events.WindowShow:
		switch ap.Stage {
		case Uninitialized:
			if err := ap.rend.Initialize(ap.plat, ap.Opts); err != nil {
				ap.Stage = Terminated
				return err
			}
			ap.start = ap.now()
			ap.Stage = Running
			ap.requestRedraw()
		case Suspended:
			ap.Stage = Running
			ap.requestRedraw()
		}

	case events.WindowHide:
		if ap.Stage == Running {
			ap.Stage = Suspended
		}

	case events.WindowResize:
		if ap.Stage == Uninitialized {
			return nil
		}
		ap.rend.Resize(ev.Size)
		ap.requestRedraw()

	case events.WindowPaint:
		ap.pendingRedraw = false
		if ap.Stage != Running {
			return nil
		}
		if err := ap.rend.RenderFrame(ap.now().Sub(ap.start)); err != nil {
			switch {
			case gpu.IsFatal(err):
				ap.shutdown()
				return err
			case gpu.IsTransient(err):
				if gpu.Debug {
					slog.Info("app: frame skipped", "err", err)
				}
				if errors.Is(err, gpu.ErrSurfaceDeferred) {
					// Zero drawable size; the next nonzero resize
					// restarts the redraw chain.
					return nil
				}
			default:
				// A recording or validation failure spoils only the
				// frame it happened in.
				slog.Error("app: frame failed", "err", err)
			}
		}
		// Continuous animation: the platform paces the next frame.
		ap.requestRedraw()

	case events.WindowClose:
		ap.shutdown()
	}
	return nil
}

// requestRedraw schedules a paint unless one is already pending.
// Any number of redraw triggers between two paints collapse into one.
func (ap *App) requestRedraw() {
	if ap.pendingRedraw || ap.Stage != Running {
		return
	}
	ap.pendingRedraw = true
	ap.plat.RequestRedraw()
}

// shutdown releases GPU resources and ends the loop. Any WindowPaint
// still queued is discarded unrendered.
func (ap *App) shutdown() {
	if ap.Stage == Terminated {
		return
	}
	wasInit := ap.Stage != Uninitialized
	ap.Stage = Terminated
	ap.pendingRedraw = false
	if wasInit {
		ap.rend.Release()
	}
}
