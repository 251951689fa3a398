// Copyright (c) 2026, The wgpu-example Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build !js

package driver

import (
	"github.com/lemlac/wgpu-example/app"
	"github.com/lemlac/wgpu-example/driver/desktop"
)

func newDriver(opts *app.Options) (app.Platform, error) {
	return desktop.New(opts)
}
