// Copyright (c) 2026, The wgpu-example Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gpu

import (
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"
)

// Backends is the rendering backend profile the harness was built for.
// Native and WebGPU use the full default device limits; WebGL is the
// browser fallback profile and requests downlevel limits so the device
// also works when WebGPU is unavailable and wgpu runs over WebGL2.
type Backends int32

const (
	// Native is a desktop window with a native WebGPU implementation
	// (Vulkan, Metal, or D3D12 underneath).
	Native Backends = iota

	// WebGPU is an HTML canvas with the browser's WebGPU API.
	WebGPU

	// WebGL is an HTML canvas running wgpu over WebGL2,
	// with correspondingly reduced device limits.
	WebGL
)

func (b Backends) String() string {
	switch b {
	case Native:
		return "Native"
	case WebGPU:
		return "WebGPU"
	case WebGL:
		return "WebGL"
	}
	return fmt.Sprintf("Backends(%d)", int32(b))
}

// Limits returns the device limits to request for this backend.
// WebGL gets the downlevel WebGL2 limits; everything else gets
// the WebGPU defaults.
func (b Backends) Limits() wgpu.Limits {
	limits := wgpu.DefaultLimits()
	if b == WebGL {
		limits.MaxTextureDimension1D = 2048
		limits.MaxTextureDimension2D = 2048
		limits.MaxTextureDimension3D = 256
		limits.MaxBindGroups = 4
		limits.MaxUniformBufferBindingSize = 16384
	}
	return limits
}
