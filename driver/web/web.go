// Copyright (c) 2026, The wgpu-example Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build js

// Package web implements the browser platform driver. The canvas fills
// the page, painting is paced by requestAnimationFrame, and DOM events
// are translated into platform events.
package web

import (
	"image"
	"syscall/js"
	"time"

	"cogentcore.org/core/math32"
	"github.com/cogentcore/webgpu/wgpu"

	"github.com/lemlac/wgpu-example/app"
	"github.com/lemlac/wgpu-example/events"
	"github.com/lemlac/wgpu-example/gpu"
)

// Platform is the browser windowing driver.
type Platform struct {
	canvas js.Value
	queue  events.Deque

	// listeners are the installed DOM listeners, detached and released
	// on Terminate.
	listeners []listener

	raf   js.Func
	rafID js.Value
}

// listener records where a js.Func was attached so Terminate can
// detach it before releasing; the browser calling a released func
// panics.
type listener struct {
	target js.Value
	name   string
	fn     js.Func
}

// New attaches to the canvas with id "app", creating one that fills
// the page when it does not exist, and installs the DOM listeners.
func New(opts *app.Options) (*Platform, error) {
	doc := js.Global().Get("document")
	doc.Set("title", opts.Title)
	canvas := doc.Call("getElementById", "app")
	if canvas.IsNull() {
		canvas = doc.Call("createElement", "canvas")
		canvas.Set("id", "app")
		style := canvas.Get("style")
		style.Set("width", "100vw")
		style.Set("height", "100vh")
		style.Set("display", "block")
		doc.Get("body").Call("appendChild", canvas)
	}
	p := &Platform{canvas: canvas}
	p.raf = js.FuncOf(func(this js.Value, args []js.Value) any {
		p.send(events.Event{Type: events.WindowPaint})
		return nil
	})
	p.resizeCanvas()
	p.connectEvents()

	if !doc.Get("hidden").Bool() {
		p.send(events.Event{Type: events.WindowShow})
	}
	return p, nil
}

// CreateWindowSurface creates the surface for the canvas. In the
// browser an empty descriptor selects the page canvas.
func (p *Platform) CreateWindowSurface() (*wgpu.Surface, image.Point, error) {
	return gpu.Instance().CreateSurface(&wgpu.SurfaceDescriptor{}), p.resizeCanvas(), nil
}

// NextEvent blocks this goroutine; DOM callbacks run on others and
// feed the queue.
func (p *Platform) NextEvent() events.Event {
	return p.queue.NextEvent()
}

// RequestRedraw schedules one paint on the next animation frame.
func (p *Platform) RequestRedraw() {
	p.rafID = js.Global().Call("requestAnimationFrame", p.raf)
}

// Terminate detaches the DOM listeners and cancels any pending
// animation frame, then releases the callbacks.
func (p *Platform) Terminate() {
	if !p.rafID.IsUndefined() {
		js.Global().Call("cancelAnimationFrame", p.rafID)
		p.rafID = js.Value{}
	}
	for _, l := range p.listeners {
		l.target.Call("removeEventListener", l.name, l.fn)
		l.fn.Release()
	}
	p.listeners = nil
	p.raf.Release()
}

// devicePixelRatio is the ratio of physical to CSS pixels.
func devicePixelRatio() float32 {
	return float32(js.Global().Get("devicePixelRatio").Float())
}

// resizeCanvas sizes the canvas backing store to its CSS size times
// the device pixel ratio and returns the size in physical pixels.
func (p *Platform) resizeCanvas() image.Point {
	dpr := devicePixelRatio()
	w := int(float32(p.canvas.Get("clientWidth").Float()) * dpr)
	h := int(float32(p.canvas.Get("clientHeight").Float()) * dpr)
	p.canvas.Set("width", w)
	p.canvas.Set("height", h)
	return image.Pt(w, h)
}

func (p *Platform) send(ev events.Event) {
	ev.Time = time.Now()
	p.queue.Send(ev)
}

func (p *Platform) addListener(target js.Value, name string, fn func(ev js.Value)) {
	f := js.FuncOf(func(this js.Value, args []js.Value) any {
		fn(args[0])
		return nil
	})
	p.listeners = append(p.listeners, listener{target: target, name: name, fn: f})
	target.Call("addEventListener", name, f)
}

func (p *Platform) connectEvents() {
	doc := js.Global().Get("document")
	win := js.Global().Get("window")

	p.addListener(win, "resize", func(ev js.Value) {
		p.send(events.Event{Type: events.WindowResize, Size: p.resizeCanvas()})
	})
	p.addListener(doc, "visibilitychange", func(ev js.Value) {
		if doc.Get("hidden").Bool() {
			p.send(events.Event{Type: events.WindowHide})
		} else {
			p.send(events.Event{Type: events.WindowShow})
		}
	})
	p.addListener(win, "beforeunload", func(ev js.Value) {
		p.send(events.Event{Type: events.WindowClose})
	})

	p.addListener(p.canvas, "pointermove", func(ev js.Value) {
		p.send(events.Event{Type: events.MouseMove, Pos: eventPos(ev), Mods: eventMods(ev)})
	})
	p.addListener(p.canvas, "pointerdown", func(ev js.Value) {
		p.send(events.Event{Type: events.MouseDown, Pos: eventPos(ev),
			Button: eventButton(ev), Mods: eventMods(ev)})
	})
	p.addListener(p.canvas, "pointerup", func(ev js.Value) {
		p.send(events.Event{Type: events.MouseUp, Pos: eventPos(ev),
			Button: eventButton(ev), Mods: eventMods(ev)})
	})
	p.addListener(p.canvas, "wheel", func(ev js.Value) {
		ev.Call("preventDefault")
		p.send(events.Event{Type: events.Scroll, Pos: eventPos(ev),
			Delta: math32.Vec2(float32(ev.Get("deltaX").Float()), float32(ev.Get("deltaY").Float())),
			Mods:  eventMods(ev)})
	})
	p.addListener(doc, "keydown", func(ev js.Value) {
		p.send(keyEvent(events.KeyDown, ev))
	})
	p.addListener(doc, "keyup", func(ev js.Value) {
		p.send(keyEvent(events.KeyUp, ev))
	})
}

// eventPos returns the pointer position in physical canvas pixels.
func eventPos(ev js.Value) math32.Vector2 {
	dpr := devicePixelRatio()
	return math32.Vec2(
		float32(ev.Get("clientX").Float())*dpr,
		float32(ev.Get("clientY").Float())*dpr,
	)
}

func eventButton(ev js.Value) events.Buttons {
	switch ev.Get("button").Int() {
	case 0:
		return events.Left
	case 1:
		return events.Middle
	case 2:
		return events.Right
	}
	return events.NoButton
}

func eventMods(ev js.Value) events.Modifiers {
	var m events.Modifiers
	if ev.Get("shiftKey").Bool() {
		m |= events.Shift
	}
	if ev.Get("ctrlKey").Bool() {
		m |= events.Control
	}
	if ev.Get("altKey").Bool() {
		m |= events.Alt
	}
	if ev.Get("metaKey").Bool() {
		m |= events.Meta
	}
	return m
}

func keyEvent(typ events.Types, ev js.Value) events.Event {
	key := ev.Get("key").String()
	out := events.Event{Type: typ, Mods: eventMods(ev)}
	switch key {
	case "Escape":
		out.Code = events.CodeEscape
	case " ":
		out.Code = events.CodeSpace
		out.Rune = ' '
	case "Enter":
		out.Code = events.CodeReturn
	default:
		if len([]rune(key)) == 1 {
			out.Rune = []rune(key)[0]
		}
	}
	return out
}
