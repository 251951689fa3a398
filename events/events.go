// Copyright (c) 2026, The wgpu-example Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package events defines the platform-neutral input and window events
// that the platform drivers produce and the run loop consumes.
// The core never sees glfw or DOM event types directly.
package events

import (
	"fmt"
	"image"
	"time"

	"cogentcore.org/core/math32"
)

// Types is the type of an [Event].
type Types int32

const (
	// UnknownType is an unset event type.
	UnknownType Types = iota

	// MouseMove is a pointer movement with no button pressed.
	MouseMove

	// MouseDown is a pointer button press.
	MouseDown

	// MouseUp is a pointer button release.
	MouseUp

	// Scroll is a mouse wheel or trackpad scroll delta.
	Scroll

	// KeyDown is a key press (including auto-repeat).
	KeyDown

	// KeyUp is a key release.
	KeyUp

	// WindowResize reports a new drawable size in pixels.
	WindowResize

	// WindowPaint requests that exactly one frame be rendered.
	WindowPaint

	// WindowShow reports that the window or tab became visible.
	// The first WindowShow after startup triggers GPU initialization.
	WindowShow

	// WindowHide reports that the window was minimized or the tab hidden.
	WindowHide

	// WindowClose requests orderly shutdown.
	WindowClose
)

func (t Types) String() string {
	switch t {
	case MouseMove:
		return "MouseMove"
	case MouseDown:
		return "MouseDown"
	case MouseUp:
		return "MouseUp"
	case Scroll:
		return "Scroll"
	case KeyDown:
		return "KeyDown"
	case KeyUp:
		return "KeyUp"
	case WindowResize:
		return "WindowResize"
	case WindowPaint:
		return "WindowPaint"
	case WindowShow:
		return "WindowShow"
	case WindowHide:
		return "WindowHide"
	case WindowClose:
		return "WindowClose"
	}
	return fmt.Sprintf("Types(%d)", int32(t))
}

// Buttons is a mouse button.
type Buttons int32

const (
	NoButton Buttons = iota
	Left
	Middle
	Right
)

// Modifiers are the currently pressed modifier keys, as bit flags.
type Modifiers int32

const (
	Shift Modifiers = 1 << iota
	Control
	Alt
	Meta
)

// HasAll returns whether all of the given modifiers are pressed.
func (m Modifiers) HasAll(mods Modifiers) bool {
	return m&mods == mods
}

// Codes is a platform-neutral physical key code.
// Only the keys the harness itself reacts to are named; everything
// else is forwarded to the overlay as CodeUnknown plus the rune.
type Codes int32

const (
	CodeUnknown Codes = iota
	CodeEscape
	CodeSpace
	CodeReturn
)

// Event is one platform event in temporal order. It is a plain value:
// drivers fill in the fields relevant to the Type and the run loop
// forwards a copy to the overlay before acting on it.
type Event struct {
	// Type is the kind of event.
	Type Types

	// Pos is the pointer position in surface pixels, for mouse events.
	Pos math32.Vector2

	// Button is the mouse button, for MouseDown / MouseUp.
	Button Buttons

	// Delta is the scroll delta, for Scroll events.
	Delta math32.Vector2

	// Code is the physical key, for KeyDown / KeyUp.
	Code Codes

	// Rune is the character for key events, if any.
	Rune rune

	// Mods are the modifier keys held at event time.
	Mods Modifiers

	// Size is the new drawable size in pixels, for WindowResize.
	Size image.Point

	// Time is when the driver observed the event.
	Time time.Time
}

// IsInput returns whether this is an input event that should be
// forwarded to the GUI overlay (as opposed to a window event that
// the run loop acts on itself).
func (ev Event) IsInput() bool {
	switch ev.Type {
	case MouseMove, MouseDown, MouseUp, Scroll, KeyDown, KeyUp:
		return true
	}
	return false
}
