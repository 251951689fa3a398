// Copyright (c) 2026, The wgpu-example Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build !js

package gpu

// ActiveBackend is the backend profile this binary was built for.
const ActiveBackend = Native
