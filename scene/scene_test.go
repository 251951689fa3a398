// Copyright (c) 2026, The wgpu-example Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package scene

import (
	"image"
	"testing"
	"time"

	"cogentcore.org/core/math32"
	"github.com/stretchr/testify/assert"
)

func TestAngleProportionalToElapsed(t *testing.T) {
	sc := &Scene{AngularVelocity: 1}
	assert.InDelta(t, 0, sc.Angle(0), 1e-6)
	assert.InDelta(t, 0.5, sc.Angle(500*time.Millisecond), 1e-5)
	quarterSec := float64(math32.Pi / 2)
	assert.InDelta(t, math32.Pi/2, sc.Angle(time.Duration(quarterSec*float64(time.Second))), 1e-4)
}

func TestAngleWraps(t *testing.T) {
	sc := &Scene{AngularVelocity: 1}
	fullSec := 2 * math32.Pi * float32(time.Second)
	full := time.Duration(fullSec)
	assert.InDelta(t, 0, sc.Angle(full), 1e-3)
	assert.InDelta(t, 1, sc.Angle(full+time.Second), 1e-3)
}

// Skipped frames must not change the angle at a given absolute time:
// the angle is a function of elapsed time only, never of frame count.
func TestAngleNoDrift(t *testing.T) {
	sc := &Scene{AngularVelocity: DefaultAngularVelocity}
	at10s := sc.Angle(10 * time.Second)

	// Recomputing at the same absolute time gives the identical angle
	// no matter what was computed in between.
	sc.Angle(3 * time.Second)
	sc.Angle(7 * time.Second)
	assert.Equal(t, at10s, sc.Angle(10*time.Second))

	assert.InDelta(t, math32.Mod(10*DefaultAngularVelocity, 2*math32.Pi), at10s, 1e-5)
}

func TestAngleUsesConfiguredVelocity(t *testing.T) {
	slow := &Scene{AngularVelocity: 0.25}
	fast := &Scene{AngularVelocity: 2}
	assert.InDelta(t, 0.25, slow.Angle(time.Second), 1e-6)
	assert.InDelta(t, 2, fast.Angle(time.Second), 1e-6)
}

func TestResizeUpdatesAspect(t *testing.T) {
	sc := &Scene{aspect: 1}
	sc.Resize(image.Pt(800, 600))
	assert.InDelta(t, 800.0/600.0, sc.aspect, 1e-6)

	// A zero size must not poison the aspect ratio.
	sc.Resize(image.Pt(0, 0))
	assert.InDelta(t, 800.0/600.0, sc.aspect, 1e-6)
}
