// Copyright (c) 2026, The wgpu-example Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build !js

package gpu

import (
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/cogentcore/webgpu/wgpuglfw"
	"github.com/go-gl/glfw/v3.3/glfw"
)

// Init initializes glfw and sets the no-API window hint, required for
// WebGPU-rendered windows. It must be called on the main thread before
// any windows are created.
func Init() error {
	err := glfw.Init()
	if err == nil {
		glfw.WindowHint(glfw.ClientAPI, glfw.NoAPI)
	}
	return err
}

// Terminate terminates glfw. It must be called on the main thread after
// all windows are destroyed.
func Terminate() {
	glfw.Terminate()
}

// GLFWCreateSurface creates a WebGPU surface for the given glfw window.
func GLFWCreateSurface(window *glfw.Window) *wgpu.Surface {
	return Instance().CreateSurface(wgpuglfw.GetSurfaceDescriptor(window))
}
