// Copyright (c) 2026, The wgpu-example Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package overlay defines the immediate-mode GUI layer that is
// composited over the 3D scene, inside the same render pass. An
// [Overlay] receives every input event and produces tessellated
// triangle meshes each frame; the [Renderer] draws them in screen
// space with alpha blending.
package overlay

import (
	"image"
	"time"

	"cogentcore.org/core/math32"

	"github.com/lemlac/wgpu-example/events"
)

// Overlay is an immediate-mode GUI: it keeps whatever state it wants,
// consumes input events, and re-emits its full geometry every frame.
type Overlay interface {
	// HandleEvent processes one input event. It is called for every
	// input event before the frame that follows it is rendered.
	HandleEvent(ev events.Event)

	// Frame returns the geometry to composite for this frame, given
	// the elapsed session time and the current surface size in pixels.
	// A nil return draws nothing.
	Frame(elapsed time.Duration, size image.Point) *FrameOutput
}

// FrameOutput is one frame of overlay geometry, drawn in order.
type FrameOutput struct {
	Meshes []Mesh
}

// Mesh is a batch of triangles sharing one clip rectangle.
type Mesh struct {
	Vertices []Vertex
	Indices  []uint32

	// Clip is the scissor rectangle in surface pixels.
	// An empty rectangle means no clipping.
	Clip image.Rectangle
}

// Vertex is one overlay vertex: position in surface pixels from the
// top left, texture coordinates, and a straight-alpha color.
type Vertex struct {
	Position math32.Vector2
	UV       math32.Vector2
	Color    [4]float32
}

// Vtx returns a solid-color vertex at the given pixel position,
// pointed at the renderer's white texel.
func Vtx(x, y float32, color [4]float32) Vertex {
	return Vertex{Position: math32.Vec2(x, y), UV: math32.Vec2(0.5, 0.5), Color: color}
}

// Nop is an Overlay that draws nothing.
type Nop struct{}

func (Nop) HandleEvent(ev events.Event) {}

func (Nop) Frame(elapsed time.Duration, size image.Point) *FrameOutput { return nil }
