// Copyright (c) 2026, The wgpu-example Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package app

import (
	"image"
	"os"
	"path/filepath"
	"testing"
	"time"

	"cogentcore.org/core/base/errors"
	"cogentcore.org/core/math32"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lemlac/wgpu-example/events"
	"github.com/lemlac/wgpu-example/gpu"
	"github.com/lemlac/wgpu-example/overlay"
	"github.com/lemlac/wgpu-example/scene"
)

type fakePlatform struct {
	queue      []events.Event
	redraws    int
	terminated bool
}

func (p *fakePlatform) CreateWindowSurface() (*wgpu.Surface, image.Point, error) {
	return nil, image.Pt(800, 600), nil
}

func (p *fakePlatform) NextEvent() events.Event {
	ev := p.queue[0]
	p.queue = p.queue[1:]
	return ev
}

func (p *fakePlatform) RequestRedraw() { p.redraws++ }

func (p *fakePlatform) Terminate() { p.terminated = true }

type fakeRenderer struct {
	initErr  error
	frameErr error

	inits    int
	releases int
	resizes  []image.Point
	elapsed  []time.Duration
	gen      uint64
}

func (r *fakeRenderer) Initialize(plat Platform, opts *Options) error {
	if r.initErr != nil {
		return r.initErr
	}
	r.inits++
	r.gen++
	return nil
}

func (r *fakeRenderer) Resize(size image.Point) { r.resizes = append(r.resizes, size) }

func (r *fakeRenderer) RenderFrame(elapsed time.Duration) error {
	if r.frameErr != nil {
		return r.frameErr
	}
	r.elapsed = append(r.elapsed, elapsed)
	return nil
}

func (r *fakeRenderer) Generation() uint64 { return r.gen }

func (r *fakeRenderer) Release() { r.releases++ }

type recordingOverlay struct {
	overlay.Nop
	events []events.Event
}

func (o *recordingOverlay) HandleEvent(ev events.Event) { o.events = append(o.events, ev) }

func newTestApp() (*App, *fakePlatform, *fakeRenderer) {
	plat := &fakePlatform{}
	rend := &fakeRenderer{}
	ap := New(plat, rend, nil, nil)
	return ap, plat, rend
}

func TestLifecycle(t *testing.T) {
	ap, _, rend := newTestApp()
	assert.Equal(t, Uninitialized, ap.Stage)

	require.NoError(t, ap.handleEvent(events.Event{Type: events.WindowShow}))
	assert.Equal(t, Running, ap.Stage)
	assert.Equal(t, 1, rend.inits)

	require.NoError(t, ap.handleEvent(events.Event{Type: events.WindowHide}))
	assert.Equal(t, Suspended, ap.Stage)

	require.NoError(t, ap.handleEvent(events.Event{Type: events.WindowShow}))
	assert.Equal(t, Running, ap.Stage)
	assert.Equal(t, 1, rend.inits) // resume does not reinitialize

	require.NoError(t, ap.handleEvent(events.Event{Type: events.WindowClose}))
	assert.Equal(t, Terminated, ap.Stage)
	assert.Equal(t, 1, rend.releases)
}

func TestRedrawCoalescing(t *testing.T) {
	ap, plat, rend := newTestApp()
	require.NoError(t, ap.handleEvent(events.Event{Type: events.WindowShow}))
	assert.Equal(t, 1, plat.redraws)

	// Any number of triggers before the paint collapse into it.
	for range 5 {
		require.NoError(t, ap.handleEvent(events.Event{Type: events.MouseMove}))
	}
	assert.Equal(t, 1, plat.redraws)

	require.NoError(t, ap.handleEvent(events.Event{Type: events.WindowPaint}))
	assert.Len(t, rend.elapsed, 1)
	assert.Equal(t, 2, plat.redraws) // next frame scheduled after painting
}

func TestSuspendStopsRendering(t *testing.T) {
	ap, plat, rend := newTestApp()
	require.NoError(t, ap.handleEvent(events.Event{Type: events.WindowShow}))
	require.NoError(t, ap.handleEvent(events.Event{Type: events.WindowPaint}))
	assert.Len(t, rend.elapsed, 1)

	require.NoError(t, ap.handleEvent(events.Event{Type: events.WindowHide}))
	gen := rend.Generation()

	// A paint that was already queued when the window hid is discarded.
	require.NoError(t, ap.handleEvent(events.Event{Type: events.WindowPaint}))
	assert.Len(t, rend.elapsed, 1)

	// Input while suspended does not schedule painting.
	redraws := plat.redraws
	require.NoError(t, ap.handleEvent(events.Event{Type: events.MouseMove}))
	assert.Equal(t, redraws, plat.redraws)

	require.NoError(t, ap.handleEvent(events.Event{Type: events.WindowShow}))
	assert.Equal(t, Running, ap.Stage)
	assert.Equal(t, gen, rend.Generation()) // same GPU session across suspend
}

func TestCloseDiscardsQueuedPaint(t *testing.T) {
	ap, _, rend := newTestApp()
	require.NoError(t, ap.handleEvent(events.Event{Type: events.WindowShow}))
	require.NoError(t, ap.handleEvent(events.Event{Type: events.WindowClose}))
	assert.Equal(t, 1, rend.releases)

	require.NoError(t, ap.handleEvent(events.Event{Type: events.WindowPaint}))
	assert.Empty(t, rend.elapsed)
	assert.Equal(t, 1, rend.releases)
}

func TestEscapeQuits(t *testing.T) {
	ap, _, rend := newTestApp()
	require.NoError(t, ap.handleEvent(events.Event{Type: events.WindowShow}))
	require.NoError(t, ap.handleEvent(events.Event{Type: events.KeyDown, Code: events.CodeEscape}))
	assert.Equal(t, Terminated, ap.Stage)
	assert.Equal(t, 1, rend.releases)
}

func TestResizeForwarded(t *testing.T) {
	ap, _, rend := newTestApp()

	// Resize before initialization is ignored.
	require.NoError(t, ap.handleEvent(events.Event{Type: events.WindowResize, Size: image.Pt(1, 1)}))
	assert.Empty(t, rend.resizes)

	require.NoError(t, ap.handleEvent(events.Event{Type: events.WindowShow}))
	require.NoError(t, ap.handleEvent(events.Event{Type: events.WindowResize, Size: image.Pt(1024, 768)}))
	assert.Equal(t, []image.Point{image.Pt(1024, 768)}, rend.resizes)
}

func TestInputForwardedToOverlay(t *testing.T) {
	plat := &fakePlatform{}
	rend := &fakeRenderer{}
	ov := &recordingOverlay{}
	ap := New(plat, rend, ov, nil)

	require.NoError(t, ap.handleEvent(events.Event{Type: events.WindowShow}))
	move := events.Event{Type: events.MouseMove, Pos: math32.Vec2(10, 20)}
	require.NoError(t, ap.handleEvent(move))
	require.NoError(t, ap.handleEvent(events.Event{Type: events.MouseDown, Button: events.Left}))

	// Window events are not input and never reach the overlay.
	require.NoError(t, ap.handleEvent(events.Event{Type: events.WindowResize, Size: image.Pt(2, 2)}))

	assert.Len(t, ov.events, 2)
	assert.Equal(t, move.Pos, ov.events[0].Pos)
	assert.Equal(t, events.Left, ov.events[1].Button)
}

func TestInitFailureTerminates(t *testing.T) {
	ap, _, rend := newTestApp()
	rend.initErr = gpu.ErrNoAdapter
	err := ap.handleEvent(events.Event{Type: events.WindowShow})
	assert.ErrorIs(t, err, gpu.ErrNoAdapter)
	assert.Equal(t, Terminated, ap.Stage)
}

func TestTransientFrameErrorSkipsFrame(t *testing.T) {
	ap, plat, rend := newTestApp()
	require.NoError(t, ap.handleEvent(events.Event{Type: events.WindowShow}))
	rend.frameErr = gpu.ErrSurfaceLost

	require.NoError(t, ap.handleEvent(events.Event{Type: events.WindowPaint}))
	assert.Equal(t, Running, ap.Stage)
	assert.Equal(t, 2, plat.redraws) // still animating

	rend.frameErr = nil
	require.NoError(t, ap.handleEvent(events.Event{Type: events.WindowPaint}))
	assert.Len(t, rend.elapsed, 1)
}

func TestDeferredSurfaceStopsRedrawChain(t *testing.T) {
	ap, plat, rend := newTestApp()
	require.NoError(t, ap.handleEvent(events.Event{Type: events.WindowShow}))
	rend.frameErr = gpu.ErrSurfaceDeferred

	require.NoError(t, ap.handleEvent(events.Event{Type: events.WindowPaint}))
	assert.Equal(t, Running, ap.Stage)
	assert.Equal(t, 1, plat.redraws) // no self-sustaining paints at zero size

	// The nonzero resize restarts the chain.
	rend.frameErr = nil
	require.NoError(t, ap.handleEvent(events.Event{Type: events.WindowResize, Size: image.Pt(640, 480)}))
	assert.Equal(t, 2, plat.redraws)
}

func TestValidationFrameErrorKeepsRunning(t *testing.T) {
	// A mid-frame recording or validation failure is not one of the
	// initialization sentinels; it spoils one frame and the loop keeps
	// animating instead of terminating.
	ap, plat, rend := newTestApp()
	require.NoError(t, ap.handleEvent(events.Event{Type: events.WindowShow}))
	rend.frameErr = errors.New("validation error: vertex buffer out of range")

	require.NoError(t, ap.handleEvent(events.Event{Type: events.WindowPaint}))
	assert.Equal(t, Running, ap.Stage)
	assert.Equal(t, 0, rend.releases)
	assert.Equal(t, 2, plat.redraws) // still animating

	rend.frameErr = nil
	require.NoError(t, ap.handleEvent(events.Event{Type: events.WindowPaint}))
	assert.Len(t, rend.elapsed, 1)
}

func TestFatalFrameErrorTerminates(t *testing.T) {
	ap, _, rend := newTestApp()
	require.NoError(t, ap.handleEvent(events.Event{Type: events.WindowShow}))
	rend.frameErr = gpu.ErrNoDevice

	err := ap.handleEvent(events.Event{Type: events.WindowPaint})
	assert.ErrorIs(t, err, gpu.ErrNoDevice)
	assert.Equal(t, Terminated, ap.Stage)
	assert.Equal(t, 1, rend.releases)
}

// The rotation angle must come from wall-clock elapsed time, not from
// the number of frames rendered.
func TestFrameTimeDrivesRotation(t *testing.T) {
	ap, _, rend := newTestApp()
	base := time.Now()
	now := base
	ap.now = func() time.Time { return now }

	require.NoError(t, ap.handleEvent(events.Event{Type: events.WindowShow}))

	quarterSec := float64(math32.Pi / 2)
	quarter := time.Duration(quarterSec * float64(time.Second))
	now = base.Add(quarter)
	require.NoError(t, ap.handleEvent(events.Event{Type: events.WindowPaint}))

	require.Len(t, rend.elapsed, 1)
	sc := &scene.Scene{AngularVelocity: 1}
	assert.InDelta(t, math32.Pi/2, sc.Angle(rend.elapsed[0]), 1e-4)

	// Skipping ahead without intermediate frames lands on the same
	// angle a frame-by-frame run would.
	now = base.Add(3 * quarter)
	require.NoError(t, ap.handleEvent(events.Event{Type: events.WindowPaint}))
	require.Len(t, rend.elapsed, 2)
	assert.InDelta(t, 3*math32.Pi/2, sc.Angle(rend.elapsed[1]), 1e-4)
}

func TestRunLoop(t *testing.T) {
	plat := &fakePlatform{queue: []events.Event{
		{Type: events.WindowShow},
		{Type: events.WindowPaint},
		{Type: events.WindowClose},
	}}
	rend := &fakeRenderer{}
	ap := New(plat, rend, nil, nil)

	require.NoError(t, ap.Run())
	assert.Equal(t, Terminated, ap.Stage)
	assert.Len(t, rend.elapsed, 1)
	assert.True(t, plat.terminated)
}

func TestOpenOptions(t *testing.T) {
	dir := t.TempDir()
	fn := filepath.Join(dir, "config.toml")
	require.NoError(t, os.WriteFile(fn, []byte(`
title = "demo"
width = 1280
height = 720
vsync = false
angular-velocity = 1.5
`), 0666))

	opts, err := OpenOptions(fn)
	require.NoError(t, err)
	assert.Equal(t, "demo", opts.Title)
	assert.Equal(t, image.Pt(1280, 720), opts.Size)
	assert.False(t, opts.VSync)
	assert.Equal(t, float32(1.5), opts.AngularVelocity)

	_, err = OpenOptions(filepath.Join(dir, "missing.toml"))
	assert.Error(t, err)
}

func TestDefaultOptions(t *testing.T) {
	opts := DefaultOptions()
	assert.Equal(t, image.Pt(800, 600), opts.Size)
	assert.True(t, opts.VSync)
}
