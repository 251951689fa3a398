// Copyright (c) 2026, The wgpu-example Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build !js

package desktop

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/lemlac/wgpu-example/events"
)

func TestNextEventPumpsBeforeDraining(t *testing.T) {
	// During continuous animation the paint chain keeps the queue
	// non-empty, so a queued paint must not bypass the pump: window
	// system callbacks only fire inside poll.
	var queue events.Deque
	queue.Send(events.Event{Type: events.WindowPaint})

	polls := 0
	poll := func() {
		polls++
		if polls == 1 {
			queue.Send(events.Event{Type: events.MouseMove})
		}
	}
	wait := func() { t.Fatal("waited with a non-empty queue") }

	assert.Equal(t, events.WindowPaint, nextEvent(&queue, poll, wait).Type)
	assert.Equal(t, events.MouseMove, nextEvent(&queue, poll, wait).Type)
	assert.Equal(t, 2, polls)
}

func TestNextEventWaitsWhenIdle(t *testing.T) {
	var queue events.Deque
	waits := 0
	wait := func() {
		waits++
		queue.Send(events.Event{Type: events.WindowClose})
	}
	ev := nextEvent(&queue, func() {}, wait)
	assert.Equal(t, events.WindowClose, ev.Type)
	assert.Equal(t, 1, waits)
}
