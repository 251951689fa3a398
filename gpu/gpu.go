// Copyright (c) 2026, The wgpu-example Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package gpu wraps WebGPU instance, adapter, device, and surface
// management for the rendering harness, via the cogentcore webgpu
// bindings, which work both on the desktop and in the browser.
package gpu

import (
	"fmt"
	"log/slog"
	"sync/atomic"

	"cogentcore.org/core/base/errors"
	"github.com/cogentcore/webgpu/wgpu"
)

// Debug enables verbose logging of GPU initialization and per-frame
// recovery events.
var Debug = false

var theInstance *wgpu.Instance

// Instance returns the shared WebGPU instance, creating it on first use.
// All surfaces and adapters are created from this one instance.
func Instance() *wgpu.Instance {
	if theInstance == nil {
		theInstance = wgpu.CreateInstance(nil)
	}
	return theInstance
}

// GPU owns the adapter, device, and queue for the lifetime of one
// rendering session. Suspend followed by resume creates a fresh GPU,
// so the generation number distinguishes sessions.
type GPU struct {
	// Adapter is the physical GPU selected for the compatible surface.
	Adapter *wgpu.Adapter

	// Device is the logical device all resources are created from.
	Device *wgpu.Device

	// Queue is the device's default queue.
	Queue *wgpu.Queue

	// Backend is the backend profile this binary was built for.
	Backend Backends

	// Limits are the limits the device was requested with.
	Limits wgpu.Limits

	// Generation identifies this GPU session. It increases each time a
	// session is created in the process and never repeats, so callers
	// can tell a resumed session from a rebuilt one.
	Generation uint64
}

var sessionGeneration atomic.Uint64

// NewGPU requests an adapter compatible with the given surface and a
// device with the active backend's limits. It returns ErrNoAdapter or
// ErrNoDevice when either step fails; both are fatal.
func NewGPU(compatibleSurface *wgpu.Surface) (*GPU, error) {
	gp := &GPU{
		Backend:    ActiveBackend,
		Limits:     ActiveBackend.Limits(),
		Generation: sessionGeneration.Add(1),
	}

	adapter, err := Instance().RequestAdapter(&wgpu.RequestAdapterOptions{
		CompatibleSurface:    compatibleSurface,
		ForceFallbackAdapter: false,
	})
	if err != nil || adapter == nil {
		if err == nil {
			err = ErrNoAdapter
		} else {
			err = fmt.Errorf("%w: %w", ErrNoAdapter, err)
		}
		return nil, errors.Log(err)
	}
	gp.Adapter = adapter

	device, err := adapter.RequestDevice(&wgpu.DeviceDescriptor{
		Label:          "harness-device",
		RequiredLimits: &wgpu.RequiredLimits{Limits: gp.Limits},
	})
	if err != nil {
		adapter.Release()
		return nil, errors.Log(fmt.Errorf("%w: %w", ErrNoDevice, err))
	}
	gp.Device = device
	gp.Queue = device.GetQueue()

	if Debug {
		slog.Info("gpu: device created", "backend", gp.Backend)
	}
	return gp, nil
}

// Release frees the device and adapter. The GPU must not be used after.
func (gp *GPU) Release() {
	if gp.Device != nil {
		gp.Device.Release()
		gp.Device = nil
		gp.Queue = nil
	}
	if gp.Adapter != nil {
		gp.Adapter.Release()
		gp.Adapter = nil
	}
}
