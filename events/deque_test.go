// Copyright (c) 2026, The wgpu-example Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package events

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDequeFIFO(t *testing.T) {
	var q Deque
	q.Send(Event{Type: MouseDown})
	q.Send(Event{Type: MouseUp})
	q.Send(Event{Type: WindowPaint})

	assert.Equal(t, MouseDown, q.NextEvent().Type)
	assert.Equal(t, MouseUp, q.NextEvent().Type)
	assert.Equal(t, WindowPaint, q.NextEvent().Type)

	_, ok := q.PollEvent()
	assert.False(t, ok)
}

func TestDequeSendFirst(t *testing.T) {
	var q Deque
	q.Send(Event{Type: MouseMove})
	q.SendFirst(Event{Type: WindowClose})

	assert.Equal(t, WindowClose, q.NextEvent().Type)
	assert.Equal(t, MouseMove, q.NextEvent().Type)
}

func TestDequeBlocks(t *testing.T) {
	var q Deque
	got := make(chan Event, 1)
	go func() {
		got <- q.NextEvent()
	}()

	select {
	case ev := <-got:
		t.Fatalf("NextEvent returned %v before Send", ev)
	case <-time.After(10 * time.Millisecond):
	}

	q.Send(Event{Type: WindowShow})
	select {
	case ev := <-got:
		assert.Equal(t, WindowShow, ev.Type)
	case <-time.After(time.Second):
		t.Fatal("NextEvent did not wake after Send")
	}
}
