// Copyright (c) 2026, The wgpu-example Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gpu

import (
	"strings"

	"cogentcore.org/core/base/errors"
)

// Fatal initialization errors. When one of these is returned the
// application cannot render at all and should exit.
var (
	// ErrNoAdapter means no WebGPU adapter compatible with the surface
	// was found on this system.
	ErrNoAdapter = errors.New("gpu: no compatible adapter found")

	// ErrNoDevice means the adapter refused to provide a device with
	// the requested limits.
	ErrNoDevice = errors.New("gpu: adapter failed to provide a device")

	// ErrSurfaceConfig means the surface could not be configured,
	// for example because it has a zero drawable size at startup.
	ErrSurfaceConfig = errors.New("gpu: surface configuration failed")
)

// Transient per-frame errors. These mean the current frame is skipped;
// the run loop keeps going.
var (
	// ErrSurfaceLost means the swapchain was lost or outdated and could
	// not be recovered by reconfiguring once.
	ErrSurfaceLost = errors.New("gpu: surface lost")

	// ErrAcquireTimeout means acquiring the next surface texture timed
	// out. The frame is skipped without reconfiguring.
	ErrAcquireTimeout = errors.New("gpu: surface texture acquisition timed out")

	// ErrSurfaceDeferred means the surface currently has a zero size
	// (minimized window) and rendering is deferred until a nonzero
	// resize arrives.
	ErrSurfaceDeferred = errors.New("gpu: surface has zero size, rendering deferred")
)

// IsFatal returns whether err is an initialization error after which
// the application cannot render at all. Anything else spoils at most
// the current frame.
func IsFatal(err error) bool {
	return errors.Is(err, ErrNoAdapter) ||
		errors.Is(err, ErrNoDevice) ||
		errors.Is(err, ErrSurfaceConfig)
}

// IsTransient returns whether err is one of the surface acquisition
// sentinels: the frame is skipped and the swapchain is expected to
// deliver again without intervention.
func IsTransient(err error) bool {
	return errors.Is(err, ErrSurfaceLost) ||
		errors.Is(err, ErrAcquireTimeout) ||
		errors.Is(err, ErrSurfaceDeferred)
}

// isTimeout reports whether a surface texture acquisition error is a
// timeout. The underlying binding only surfaces a string here.
func isTimeout(err error) bool {
	return err != nil && strings.Contains(strings.ToLower(err.Error()), "timeout")
}
