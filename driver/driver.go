// Copyright (c) 2026, The wgpu-example Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package driver selects the platform windowing driver for the current
// build target: glfw on the desktop, the DOM in the browser.
package driver

import "github.com/lemlac/wgpu-example/app"

// New returns the platform driver for this build target.
func New(opts *app.Options) (app.Platform, error) {
	return newDriver(opts)
}
