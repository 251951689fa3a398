// Copyright (c) 2026, The wgpu-example Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gpu

import (
	"fmt"
	"image"
	"log/slog"

	"cogentcore.org/core/base/errors"
	"github.com/cogentcore/webgpu/wgpu"
)

// Frame is one acquired swapchain texture, valid for a single render
// pass. It must be finished with either [Surface.Present] or
// [Surface.Drop].
type Frame struct {
	texture *wgpu.Texture

	// View is the texture view to use as the color attachment.
	View *wgpu.TextureView
}

// Surface manages the window swapchain: format and present mode
// negotiation, reconfiguration on resize, the depth buffer, and
// per-frame texture acquisition with loss recovery.
type Surface struct {
	// GPU is the device this surface is configured against.
	GPU *GPU

	// Format is the negotiated swapchain texture format.
	Format wgpu.TextureFormat

	// PresentMode is the negotiated presentation mode.
	PresentMode wgpu.PresentMode

	// Size is the current drawable size in pixels.
	Size image.Point

	surface *wgpu.Surface
	config  wgpu.SurfaceConfiguration

	depthTexture *wgpu.Texture

	// DepthView is the depth attachment view, recreated on every resize.
	DepthView *wgpu.TextureView

	// configure applies config to the underlying surface and recreates
	// the depth buffer. Replaceable in tests.
	configure func() error

	// deferred is set while the drawable size is zero; frames are
	// skipped until a nonzero resize arrives.
	deferred bool
}

// NewSurface configures the given wgpu surface against the GPU's
// adapter and device. The initial size must be nonzero; the swapchain
// format and present mode are negotiated from the surface capabilities.
// vsync selects Fifo presentation; otherwise Immediate is requested,
// falling back to whatever the surface supports.
func NewSurface(gp *GPU, wsurf *wgpu.Surface, size image.Point, vsync bool) (*Surface, error) {
	if size.X <= 0 || size.Y <= 0 {
		return nil, errors.Log(fmt.Errorf("%w: zero initial size %v", ErrSurfaceConfig, size))
	}
	caps := wsurf.GetCapabilities(gp.Adapter)
	if len(caps.Formats) == 0 {
		return nil, errors.Log(fmt.Errorf("%w: surface reports no texture formats", ErrSurfaceConfig))
	}

	sf := &Surface{
		GPU:         gp,
		surface:     wsurf,
		Format:      preferredFormat(caps.Formats),
		PresentMode: preferredPresentMode(caps.PresentModes, vsync),
		Size:        size,
	}

	alphaMode := wgpu.CompositeAlphaModeAuto
	if len(caps.AlphaModes) > 0 {
		alphaMode = caps.AlphaModes[0]
	}
	sf.config = wgpu.SurfaceConfiguration{
		Usage:       wgpu.TextureUsageRenderAttachment,
		Format:      sf.Format,
		Width:       uint32(size.X),
		Height:      uint32(size.Y),
		PresentMode: sf.PresentMode,
		AlphaMode:   alphaMode,
	}
	sf.configure = sf.reconfigure
	if err := sf.configure(); err != nil {
		return nil, errors.Log(fmt.Errorf("%w: %w", ErrSurfaceConfig, err))
	}
	if Debug {
		slog.Info("gpu: surface configured", "format", sf.Format, "presentMode", sf.PresentMode, "size", size)
	}
	return sf, nil
}

// preferredFormat picks a non-sRGB 8-bit format when available, so the
// shaders write linear values the same way on every platform.
func preferredFormat(formats []wgpu.TextureFormat) wgpu.TextureFormat {
	for _, f := range formats {
		if f == wgpu.TextureFormatBGRA8Unorm || f == wgpu.TextureFormatRGBA8Unorm {
			return f
		}
	}
	return formats[0]
}

// preferredPresentMode honors the vsync option when the surface
// supports the corresponding mode, and otherwise falls back to the
// first supported mode with a warning.
func preferredPresentMode(modes []wgpu.PresentMode, vsync bool) wgpu.PresentMode {
	want := wgpu.PresentModeFifo
	if !vsync {
		want = wgpu.PresentModeImmediate
	}
	for _, m := range modes {
		if m == want {
			return m
		}
	}
	if len(modes) == 0 {
		return wgpu.PresentModeFifo // every implementation supports Fifo
	}
	slog.Warn("gpu: requested present mode not supported", "requested", want, "using", modes[0])
	return modes[0]
}

func (sf *Surface) reconfigure() error {
	sf.surface.Configure(sf.GPU.Adapter, sf.GPU.Device, &sf.config)
	return sf.createDepth()
}

func (sf *Surface) createDepth() error {
	sf.releaseDepth()
	tex, err := sf.GPU.Device.CreateTexture(&wgpu.TextureDescriptor{
		Label: "depth-texture",
		Size: wgpu.Extent3D{
			Width:              sf.config.Width,
			Height:             sf.config.Height,
			DepthOrArrayLayers: 1,
		},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     wgpu.TextureDimension2D,
		Format:        wgpu.TextureFormatDepth24Plus,
		Usage:         wgpu.TextureUsageRenderAttachment,
	})
	if err != nil {
		return err
	}
	view, err := tex.CreateView(nil)
	if err != nil {
		tex.Release()
		return err
	}
	sf.depthTexture = tex
	sf.DepthView = view
	return nil
}

func (sf *Surface) releaseDepth() {
	if sf.DepthView != nil {
		sf.DepthView.Release()
		sf.DepthView = nil
	}
	if sf.depthTexture != nil {
		sf.depthTexture.Release()
		sf.depthTexture = nil
	}
}

// SetSize updates the drawable size. A size equal to the current one is
// a no-op. A zero size defers rendering until the next nonzero resize,
// keeping the existing configuration. A nonzero size reconfigures the
// swapchain and recreates the depth buffer.
func (sf *Surface) SetSize(size image.Point) error {
	if size.X <= 0 || size.Y <= 0 {
		sf.deferred = true
		return nil
	}
	if !sf.deferred && size == sf.Size {
		return nil
	}
	sf.Size = size
	sf.config.Width = uint32(size.X)
	sf.config.Height = uint32(size.Y)
	sf.deferred = false
	if err := sf.configure(); err != nil {
		return errors.Log(fmt.Errorf("%w: %w", ErrSurfaceConfig, err))
	}
	return nil
}

// AcquireFrame acquires the next swapchain texture. It returns
// ErrSurfaceDeferred while the drawable size is zero, ErrAcquireTimeout
// when acquisition times out, and ErrSurfaceLost when the swapchain was
// lost and a single reconfigure plus retry did not recover it. All of
// these are transient; the caller skips the frame and continues.
func (sf *Surface) AcquireFrame() (*Frame, error) {
	if sf.deferred {
		return nil, ErrSurfaceDeferred
	}
	return acquireWithRetry(sf.currentFrame, sf.configure)
}

// acquireWithRetry is the swapchain recovery policy: a timeout skips
// the frame without touching the configuration, while any other
// acquisition failure is treated as a lost surface and gets exactly one
// reconfigure and one retry.
func acquireWithRetry(get func() (*Frame, error), reconfigure func() error) (*Frame, error) {
	frame, err := get()
	if err == nil {
		return frame, nil
	}
	if isTimeout(err) {
		return nil, fmt.Errorf("%w: %w", ErrAcquireTimeout, err)
	}
	if Debug {
		slog.Info("gpu: surface lost, reconfiguring", "err", err)
	}
	if rerr := reconfigure(); rerr != nil {
		return nil, fmt.Errorf("%w: %w", ErrSurfaceLost, rerr)
	}
	frame, err = get()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSurfaceLost, err)
	}
	return frame, nil
}

func (sf *Surface) currentFrame() (*Frame, error) {
	tex, err := sf.surface.GetCurrentTexture()
	if err != nil {
		return nil, err
	}
	view, err := tex.CreateView(nil)
	if err != nil {
		tex.Release()
		return nil, err
	}
	return &Frame{texture: tex, View: view}, nil
}

// Present presents the frame to the screen and releases it.
func (sf *Surface) Present(frame *Frame) {
	frame.View.Release()
	sf.surface.Present()
	frame.texture.Release()
}

// Drop releases the frame without presenting it, for when rendering
// failed after acquisition.
func (sf *Surface) Drop(frame *Frame) {
	frame.View.Release()
	frame.texture.Release()
}

// Release frees the depth buffer and the underlying surface.
func (sf *Surface) Release() {
	sf.releaseDepth()
	if sf.surface != nil {
		sf.surface.Release()
		sf.surface = nil
	}
}
