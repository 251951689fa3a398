// Copyright (c) 2026, The wgpu-example Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build !js

// Package desktop implements the glfw-based platform driver for native
// windows. All glfw calls happen on the main thread; the run loop
// pumps glfw events from NextEvent.
package desktop

import (
	"image"
	"time"

	"cogentcore.org/core/base/errors"
	"cogentcore.org/core/math32"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/go-gl/glfw/v3.3/glfw"

	"github.com/lemlac/wgpu-example/app"
	"github.com/lemlac/wgpu-example/events"
	"github.com/lemlac/wgpu-example/gpu"
)

// Platform is the glfw windowing driver.
type Platform struct {
	window *glfw.Window
	queue  events.Deque

	// scale maps window coordinates to framebuffer pixels.
	scale float32
}

// New initializes glfw, creates the window, and installs the event
// callbacks. It must be called on the main thread.
func New(opts *app.Options) (*Platform, error) {
	if err := gpu.Init(); err != nil {
		return nil, errors.Log(err)
	}
	window, err := glfw.CreateWindow(opts.Size.X, opts.Size.Y, opts.Title, nil, nil)
	if err != nil {
		glfw.Terminate()
		return nil, errors.Log(err)
	}
	p := &Platform{window: window, scale: 1}
	if fb, _ := window.GetFramebufferSize(); fb > 0 && opts.Size.X > 0 {
		p.scale = float32(fb) / float32(opts.Size.X)
	}
	p.connectEvents()

	// glfw windows are visible on creation; the synthetic show event
	// starts GPU initialization from the run loop.
	p.queue.Send(events.Event{Type: events.WindowShow, Time: time.Now()})
	return p, nil
}

// CreateWindowSurface creates the WebGPU surface for the window and
// returns the framebuffer size in pixels.
func (p *Platform) CreateWindowSurface() (*wgpu.Surface, image.Point, error) {
	w, h := p.window.GetFramebufferSize()
	return gpu.GLFWCreateSurface(p.window), image.Pt(w, h), nil
}

// NextEvent pumps glfw until an event is available. glfw delivers its
// callbacks only from PollEvents and WaitEvents, and the paint chain
// keeps the queue non-empty during continuous animation, so the pump
// must run before every queue check or input would starve.
func (p *Platform) NextEvent() events.Event {
	return nextEvent(&p.queue, glfw.PollEvents, glfw.WaitEvents)
}

func nextEvent(queue *events.Deque, poll, wait func()) events.Event {
	for {
		poll()
		if ev, ok := queue.PollEvent(); ok {
			return ev
		}
		wait()
	}
}

// RequestRedraw queues one paint event. Frame pacing comes from the
// presentation mode, not from here.
func (p *Platform) RequestRedraw() {
	p.queue.Send(events.Event{Type: events.WindowPaint, Time: time.Now()})
	glfw.PostEmptyEvent()
}

// Terminate destroys the window and shuts glfw down. Called after the
// run loop has exited, on the main thread.
func (p *Platform) Terminate() {
	if p.window != nil {
		p.window.Destroy()
		p.window = nil
	}
	gpu.Terminate()
}

func (p *Platform) send(ev events.Event) {
	ev.Time = time.Now()
	p.queue.Send(ev)
}

func (p *Platform) connectEvents() {
	w := p.window
	w.SetFramebufferSizeCallback(p.fbSizeEvent)
	w.SetCloseCallback(p.closeEvent)
	w.SetIconifyCallback(p.iconifyEvent)
	w.SetCursorPosCallback(p.cursorPosEvent)
	w.SetMouseButtonCallback(p.mouseButtonEvent)
	w.SetScrollCallback(p.scrollEvent)
	w.SetKeyCallback(p.keyEvent)
}

func (p *Platform) fbSizeEvent(w *glfw.Window, width, height int) {
	if ww, _ := w.GetSize(); ww > 0 && width > 0 {
		p.scale = float32(width) / float32(ww)
	}
	p.send(events.Event{Type: events.WindowResize, Size: image.Pt(width, height)})
}

func (p *Platform) closeEvent(w *glfw.Window) {
	p.send(events.Event{Type: events.WindowClose})
}

func (p *Platform) iconifyEvent(w *glfw.Window, iconified bool) {
	if iconified {
		p.send(events.Event{Type: events.WindowHide})
	} else {
		p.send(events.Event{Type: events.WindowShow})
	}
}

func (p *Platform) cursorPosEvent(w *glfw.Window, x, y float64) {
	p.send(events.Event{
		Type: events.MouseMove,
		Pos:  math32.Vec2(float32(x)*p.scale, float32(y)*p.scale),
	})
}

func (p *Platform) mouseButtonEvent(w *glfw.Window, button glfw.MouseButton, action glfw.Action, mods glfw.ModifierKey) {
	typ := events.MouseDown
	if action == glfw.Release {
		typ = events.MouseUp
	}
	x, y := w.GetCursorPos()
	p.send(events.Event{
		Type:   typ,
		Pos:    math32.Vec2(float32(x)*p.scale, float32(y)*p.scale),
		Button: glfwButton(button),
		Mods:   glfwMods(mods),
	})
}

func (p *Platform) scrollEvent(w *glfw.Window, xoff, yoff float64) {
	x, y := w.GetCursorPos()
	p.send(events.Event{
		Type:  events.Scroll,
		Pos:   math32.Vec2(float32(x)*p.scale, float32(y)*p.scale),
		Delta: math32.Vec2(float32(xoff), float32(yoff)),
	})
}

func (p *Platform) keyEvent(w *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
	typ := events.KeyDown
	if action == glfw.Release {
		typ = events.KeyUp
	}
	p.send(events.Event{
		Type: typ,
		Code: glfwKey(key),
		Mods: glfwMods(mods),
	})
}

// glfwButton converts a glfw mouse button to our button.
func glfwButton(button glfw.MouseButton) events.Buttons {
	switch button {
	case glfw.MouseButtonLeft:
		return events.Left
	case glfw.MouseButtonMiddle:
		return events.Middle
	case glfw.MouseButtonRight:
		return events.Right
	}
	return events.NoButton
}

// glfwMods converts glfw modifier flags to our modifiers.
func glfwMods(mods glfw.ModifierKey) events.Modifiers {
	var m events.Modifiers
	if mods&glfw.ModShift != 0 {
		m |= events.Shift
	}
	if mods&glfw.ModControl != 0 {
		m |= events.Control
	}
	if mods&glfw.ModAlt != 0 {
		m |= events.Alt
	}
	if mods&glfw.ModSuper != 0 {
		m |= events.Meta
	}
	return m
}

// glfwKey converts the keys the harness reacts to; everything else is
// forwarded as CodeUnknown.
func glfwKey(key glfw.Key) events.Codes {
	switch key {
	case glfw.KeyEscape:
		return events.CodeEscape
	case glfw.KeySpace:
		return events.CodeSpace
	case glfw.KeyEnter:
		return events.CodeReturn
	}
	return events.CodeUnknown
}
