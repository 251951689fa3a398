// Copyright (c) 2026, The wgpu-example Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package app

import (
	"image"
	"time"

	"cogentcore.org/core/base/errors"
	"github.com/cogentcore/webgpu/wgpu"

	"github.com/lemlac/wgpu-example/gpu"
	"github.com/lemlac/wgpu-example/overlay"
	"github.com/lemlac/wgpu-example/scene"
)

// background is the fixed clear color behind the triangle.
var background = wgpu.Color{R: 0.19, G: 0.24, B: 0.42, A: 1}

// Renderer is the production FrameRenderer: it owns the GPU session,
// the swapchain surface, the triangle scene, and the overlay
// compositor, and renders all of them into a single render pass per
// frame.
type Renderer struct {
	overlay overlay.Overlay

	gp  *gpu.GPU
	sf  *gpu.Surface
	sc  *scene.Scene
	ovr *overlay.Renderer

	size       image.Point
	generation uint64
}

// NewRenderer returns a renderer compositing the given overlay over
// the scene. A nil overlay draws nothing.
func NewRenderer(ov overlay.Overlay) *Renderer {
	if ov == nil {
		ov = overlay.Nop{}
	}
	return &Renderer{overlay: ov}
}

// Initialize creates the window surface, adapter, device, swapchain,
// scene, and overlay pipelines. Initialization order matters: the
// adapter must be requested as compatible with the surface.
func (rd *Renderer) Initialize(plat Platform, opts *Options) error {
	wsurf, size, err := plat.CreateWindowSurface()
	if err != nil {
		return errors.Log(err)
	}
	rd.gp, err = gpu.NewGPU(wsurf)
	if err != nil {
		return err
	}
	rd.sf, err = gpu.NewSurface(rd.gp, wsurf, size, opts.VSync)
	if err != nil {
		rd.Release()
		return err
	}
	rd.sc, err = scene.NewScene(rd.gp, rd.sf, opts.AngularVelocity)
	if err != nil {
		rd.Release()
		return err
	}
	rd.ovr, err = overlay.NewRenderer(rd.gp, rd.sf)
	if err != nil {
		rd.Release()
		return err
	}
	rd.size = size
	rd.generation = rd.gp.Generation
	return nil
}

// Resize propagates a new drawable size to the surface and the scene.
func (rd *Renderer) Resize(size image.Point) {
	if err := rd.sf.SetSize(size); err != nil {
		errors.Log(err)
		return
	}
	rd.sc.Resize(size)
	if size.X > 0 && size.Y > 0 {
		rd.size = size
	}
}

// RenderFrame renders one frame: acquire, update the scene uniforms,
// record scene and overlay into one pass, submit, present. Transient
// acquisition errors are returned for the caller to skip the frame.
func (rd *Renderer) RenderFrame(elapsed time.Duration) error {
	frame, err := rd.sf.AcquireFrame()
	if err != nil {
		return err
	}
	if err := rd.sc.Update(elapsed); err != nil {
		rd.sf.Drop(frame)
		return errors.Log(err)
	}

	encoder, err := rd.gp.Device.CreateCommandEncoder(nil)
	if err != nil {
		rd.sf.Drop(frame)
		return errors.Log(err)
	}
	pass := encoder.BeginRenderPass(&wgpu.RenderPassDescriptor{
		Label: "frame",
		ColorAttachments: []wgpu.RenderPassColorAttachment{{
			View:       frame.View,
			LoadOp:     wgpu.LoadOpClear,
			StoreOp:    wgpu.StoreOpStore,
			ClearValue: background,
		}},
		DepthStencilAttachment: &wgpu.RenderPassDepthStencilAttachment{
			View:            rd.sf.DepthView,
			DepthLoadOp:     wgpu.LoadOpClear,
			DepthStoreOp:    wgpu.StoreOpStore,
			DepthClearValue: 1,
		},
	})
	rd.sc.Render(pass)
	if err := rd.ovr.Render(pass, rd.overlay.Frame(elapsed, rd.size), rd.size); err != nil {
		errors.Log(err)
	}
	pass.End()
	pass.Release()

	cmd, err := encoder.Finish(nil)
	encoder.Release()
	if err != nil {
		rd.sf.Drop(frame)
		return errors.Log(err)
	}
	rd.gp.Queue.Submit(cmd)
	cmd.Release()
	rd.sf.Present(frame)
	return nil
}

// Generation returns the GPU session identifier, which changes only
// when Initialize builds a new session. Suspend and resume preserve it.
func (rd *Renderer) Generation() uint64 {
	return rd.generation
}

// Release frees everything in reverse creation order.
func (rd *Renderer) Release() {
	if rd.ovr != nil {
		rd.ovr.Release()
		rd.ovr = nil
	}
	if rd.sc != nil {
		rd.sc.Release()
		rd.sc = nil
	}
	if rd.sf != nil {
		rd.sf.Release()
		rd.sf = nil
	}
	if rd.gp != nil {
		rd.gp.Release()
		rd.gp = nil
	}
}
