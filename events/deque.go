// Copyright (c) 2026, The wgpu-example Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Based on golang.org/x/exp/shiny:
// Copyright 2015 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package events

import "sync"

// Deque is an infinitely buffered double-ended queue of events.
// The zero value is usable, but a Deque value must not be copied.
type Deque struct {
	Back  []Event // FIFO.
	Front []Event // LIFO.

	Mu   sync.Mutex
	Cond sync.Cond // Cond.L is lazily initialized to point to Mu.
}

func (q *Deque) lockAndInit() {
	q.Mu.Lock()
	if q.Cond.L == nil {
		q.Cond.L = &q.Mu
	}
}

// NextEvent returns the next event in the deque.
// It blocks until such an event has been sent.
func (q *Deque) NextEvent() Event {
	q.lockAndInit()
	defer q.Mu.Unlock()

	for {
		if n := len(q.Front); n > 0 {
			ev := q.Front[n-1]
			q.Front[n-1] = Event{}
			q.Front = q.Front[:n-1]
			return ev
		}

		if n := len(q.Back); n > 0 {
			ev := q.Back[0]
			copy(q.Back, q.Back[1:])
			q.Back[n-1] = Event{}
			q.Back = q.Back[:n-1]
			return ev
		}

		q.Cond.Wait()
	}
}

// PollEvent returns the next event in the deque if one is immediately
// available, without blocking.
func (q *Deque) PollEvent() (ev Event, ok bool) {
	q.lockAndInit()
	defer q.Mu.Unlock()

	if n := len(q.Front); n > 0 {
		ev = q.Front[n-1]
		q.Front[n-1] = Event{}
		q.Front = q.Front[:n-1]
		return ev, true
	}
	if n := len(q.Back); n > 0 {
		ev = q.Back[0]
		copy(q.Back, q.Back[1:])
		q.Back[n-1] = Event{}
		q.Back = q.Back[:n-1]
		return ev, true
	}
	return Event{}, false
}

// Send adds an event to the end of the deque.
// They are returned by NextEvent in FIFO order.
func (q *Deque) Send(ev Event) {
	q.lockAndInit()
	defer q.Mu.Unlock()

	q.Back = append(q.Back, ev)
	q.Cond.Signal()
}

// SendFirst adds an event to the start of the deque.
// They are returned by NextEvent in LIFO order,
// and have priority over events sent via Send.
func (q *Deque) SendFirst(ev Event) {
	q.lockAndInit()
	defer q.Mu.Unlock()

	q.Front = append(q.Front, ev)
	q.Cond.Signal()
}
