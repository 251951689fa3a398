// Copyright (c) 2026, The wgpu-example Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package app

import (
	"image"
	"os"

	"cogentcore.org/core/base/errors"
	"github.com/pelletier/go-toml/v2"
)

// Options configure the harness at startup.
type Options struct {
	// Title is the window or browser tab title.
	Title string `toml:"title"`

	// Size is the initial window size in pixels. Ignored in the
	// browser, where the canvas fills the page.
	Size image.Point `toml:"-"`

	// Width and Height feed Size from the config file.
	Width  int `toml:"width"`
	Height int `toml:"height"`

	// VSync selects Fifo presentation; when false, Immediate is
	// requested if the surface supports it.
	VSync bool `toml:"vsync"`

	// AngularVelocity is the triangle rotation speed in radians per
	// second. Zero means the default of 30 degrees per second.
	AngularVelocity float32 `toml:"angular-velocity"`

	// Debug enables verbose GPU logging.
	Debug bool `toml:"debug"`
}

// DefaultOptions returns the options used when no config file is given.
func DefaultOptions() *Options {
	return &Options{
		Title: "wgpu-example",
		Size:  image.Pt(800, 600),
		VSync: true,
	}
}

// OpenOptions loads options from a TOML file, filling unset fields
// with the defaults.
func OpenOptions(filename string) (*Options, error) {
	opts := DefaultOptions()
	b, err := os.ReadFile(filename)
	if err != nil {
		return nil, errors.Log(err)
	}
	if err := toml.Unmarshal(b, opts); err != nil {
		return nil, errors.Log(err)
	}
	if opts.Width > 0 && opts.Height > 0 {
		opts.Size = image.Pt(opts.Width, opts.Height)
	}
	return opts, nil
}
