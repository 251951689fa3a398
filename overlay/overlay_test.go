// Copyright (c) 2026, The wgpu-example Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package overlay

import (
	"image"
	"testing"
	"time"
	"unsafe"

	"cogentcore.org/core/math32"
	"github.com/stretchr/testify/assert"

	"github.com/lemlac/wgpu-example/events"
)

func TestVertexLayout(t *testing.T) {
	// The pipeline's ArrayStride and attribute offsets describe this
	// exact memory layout.
	assert.Equal(t, uintptr(vertexSize), unsafe.Sizeof(Vertex{}))
	assert.Equal(t, uintptr(0), unsafe.Offsetof(Vertex{}.Position))
	assert.Equal(t, uintptr(8), unsafe.Offsetof(Vertex{}.UV))
	assert.Equal(t, uintptr(16), unsafe.Offsetof(Vertex{}.Color))
}

func TestPanelMesh(t *testing.T) {
	m := Panel(image.Rect(10, 20, 110, 70), [4]float32{0, 0, 0, 0.5})
	assert.Len(t, m.Vertices, 4)
	assert.Len(t, m.Indices, 6)
	assert.Equal(t, math32.Vec2(10, 20), m.Vertices[0].Position)
	assert.Equal(t, math32.Vec2(110, 70), m.Vertices[2].Position)
	for _, i := range m.Indices {
		assert.Less(t, int(i), len(m.Vertices))
	}
}

func TestMarkerMesh(t *testing.T) {
	m := Marker(math32.Vec2(50, 60), 5, [4]float32{1, 1, 1, 1})
	assert.Len(t, m.Vertices, 4)
	assert.Len(t, m.Indices, 6)
	assert.Equal(t, math32.Vec2(50, 55), m.Vertices[0].Position)
	assert.Equal(t, math32.Vec2(45, 60), m.Vertices[3].Position)
}

func TestNopOverlay(t *testing.T) {
	var o Overlay = Nop{}
	o.HandleEvent(events.Event{Type: events.MouseMove})
	assert.Nil(t, o.Frame(time.Second, image.Pt(800, 600)))
}
