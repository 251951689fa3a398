// Copyright (c) 2026, The wgpu-example Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package scene renders the rotating triangle: a vertex / index / MVP
// uniform pipeline whose rotation angle is a pure function of elapsed
// time, so the animation never drifts across skipped frames.
package scene

import (
	_ "embed"
	"fmt"
	"image"
	"time"

	"cogentcore.org/core/base/errors"
	"cogentcore.org/core/math32"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/gogpu/naga"

	"github.com/lemlac/wgpu-example/gpu"
)

//go:embed shader.wgsl
var shaderSource string

// DefaultAngularVelocity is the default rotation speed around the
// Y axis, 30 degrees per second.
const DefaultAngularVelocity = math32.Pi / 6

// Vertex is one triangle vertex as laid out in the vertex buffer.
type Vertex struct {
	Position math32.Vector4
	Color    math32.Vector4
}

// triangle vertices, counterclockwise from bottom right.
var vertices = []Vertex{
	{Position: math32.Vec4(1, -1, 0, 1), Color: math32.Vec4(1, 0, 0, 1)},
	{Position: math32.Vec4(-1, -1, 0, 1), Color: math32.Vec4(0, 1, 0, 1)},
	{Position: math32.Vec4(0, 1, 0, 1), Color: math32.Vec4(0, 0, 1, 1)},
}

var indices = []uint32{0, 1, 2}

// Scene owns the triangle's GPU resources and draws it into an open
// render pass. One Scene belongs to one GPU session; suspend / resume
// builds a new one.
type Scene struct {
	// AngularVelocity is the rotation speed in radians per second.
	AngularVelocity float32

	gp            *gpu.GPU
	pipeline      *wgpu.RenderPipeline
	vertexBuffer  *wgpu.Buffer
	indexBuffer   *wgpu.Buffer
	uniformBuffer *wgpu.Buffer
	bindGroup     *wgpu.BindGroup
	aspect        float32
}

// NewScene validates and compiles the triangle shader, uploads the
// vertex and index data, and builds the render pipeline against the
// surface's negotiated color format and the shared depth format.
func NewScene(gp *gpu.GPU, sf *gpu.Surface, angularVelocity float32) (*Scene, error) {
	if angularVelocity == 0 {
		angularVelocity = DefaultAngularVelocity
	}
	sc := &Scene{
		AngularVelocity: angularVelocity,
		gp:              gp,
		aspect:          float32(sf.Size.X) / float32(sf.Size.Y),
	}

	// naga gives real diagnostics at startup instead of an opaque
	// device error when the WGSL is malformed.
	if _, err := naga.Compile(shaderSource); err != nil {
		return nil, errors.Log(fmt.Errorf("scene: shader validation failed: %w", err))
	}

	device := gp.Device
	shader, err := device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label:          "triangle-shader",
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{Code: shaderSource},
	})
	if err != nil {
		return nil, errors.Log(err)
	}
	defer shader.Release()

	sc.vertexBuffer, err = device.CreateBufferInit(&wgpu.BufferInitDescriptor{
		Label:    "triangle-vertices",
		Contents: wgpu.ToBytes(vertices),
		Usage:    wgpu.BufferUsageVertex,
	})
	if err != nil {
		sc.Release()
		return nil, errors.Log(err)
	}
	sc.indexBuffer, err = device.CreateBufferInit(&wgpu.BufferInitDescriptor{
		Label:    "triangle-indices",
		Contents: wgpu.ToBytes(indices),
		Usage:    wgpu.BufferUsageIndex,
	})
	if err != nil {
		sc.Release()
		return nil, errors.Log(err)
	}
	sc.uniformBuffer, err = device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: "triangle-mvp",
		Size:  uint64(len(wgpu.ToBytes([]math32.Matrix4{{}}))),
		Usage: wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		sc.Release()
		return nil, errors.Log(err)
	}

	bgl, err := device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label: "triangle-bind-group-layout",
		Entries: []wgpu.BindGroupLayoutEntry{{
			Binding:    0,
			Visibility: wgpu.ShaderStageVertex,
			Buffer:     wgpu.BufferBindingLayout{Type: wgpu.BufferBindingTypeUniform},
		}},
	})
	if err != nil {
		sc.Release()
		return nil, errors.Log(err)
	}
	defer bgl.Release()

	sc.bindGroup, err = device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  "triangle-bind-group",
		Layout: bgl,
		Entries: []wgpu.BindGroupEntry{{
			Binding: 0,
			Buffer:  sc.uniformBuffer,
			Size:    wgpu.WholeSize,
		}},
	})
	if err != nil {
		sc.Release()
		return nil, errors.Log(err)
	}

	layout, err := device.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		Label:            "triangle-pipeline-layout",
		BindGroupLayouts: []*wgpu.BindGroupLayout{bgl},
	})
	if err != nil {
		sc.Release()
		return nil, errors.Log(err)
	}
	defer layout.Release()

	sc.pipeline, err = device.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
		Label:  "triangle-pipeline",
		Layout: layout,
		Vertex: wgpu.VertexState{
			Module:     shader,
			EntryPoint: "vertex_main",
			Buffers: []wgpu.VertexBufferLayout{{
				ArrayStride: uint64(len(wgpu.ToBytes(vertices[:1]))),
				StepMode:    wgpu.VertexStepModeVertex,
				Attributes: []wgpu.VertexAttribute{
					{Format: wgpu.VertexFormatFloat32x4, Offset: 0, ShaderLocation: 0},
					{Format: wgpu.VertexFormatFloat32x4, Offset: 16, ShaderLocation: 1},
				},
			}},
		},
		Fragment: &wgpu.FragmentState{
			Module:     shader,
			EntryPoint: "fragment_main",
			Targets: []wgpu.ColorTargetState{{
				Format: sf.Format,
				Blend: &wgpu.BlendState{
					Color: wgpu.BlendComponent{
						SrcFactor: wgpu.BlendFactorSrcAlpha,
						DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
						Operation: wgpu.BlendOperationAdd,
					},
					Alpha: wgpu.BlendComponent{
						SrcFactor: wgpu.BlendFactorOne,
						DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
						Operation: wgpu.BlendOperationAdd,
					},
				},
				WriteMask: wgpu.ColorWriteMaskAll,
			}},
		},
		Primitive: wgpu.PrimitiveState{
			Topology:  wgpu.PrimitiveTopologyTriangleList,
			FrontFace: wgpu.FrontFaceCCW,
			CullMode:  wgpu.CullModeNone,
		},
		DepthStencil: &wgpu.DepthStencilState{
			Format:            wgpu.TextureFormatDepth24Plus,
			DepthWriteEnabled: true,
			DepthCompare:      wgpu.CompareFunctionLess,
			StencilFront:      wgpu.StencilFaceState{Compare: wgpu.CompareFunctionAlways},
			StencilBack:       wgpu.StencilFaceState{Compare: wgpu.CompareFunctionAlways},
		},
		Multisample: wgpu.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
	})
	if err != nil {
		sc.Release()
		return nil, errors.Log(err)
	}
	return sc, nil
}

// Angle returns the rotation angle for the given elapsed time since
// the session started, wrapped to [0, 2π). Recomputing from absolute
// elapsed time keeps the animation exact across skipped frames.
func (sc *Scene) Angle(elapsed time.Duration) float32 {
	return math32.Mod(float32(elapsed.Seconds())*sc.AngularVelocity, 2*math32.Pi)
}

// Resize updates the projection aspect ratio for a new drawable size.
func (sc *Scene) Resize(size image.Point) {
	if size.X > 0 && size.Y > 0 {
		sc.aspect = float32(size.X) / float32(size.Y)
	}
}

// Update recomputes the MVP matrix for the given elapsed time and
// uploads it to the uniform buffer.
func (sc *Scene) Update(elapsed time.Duration) error {
	var projection math32.Matrix4
	projection.SetPerspective(80, sc.aspect, 0.1, 1000)
	view := math32.NewLookAt(math32.Vec3(0, 0, 3), math32.Vec3(0, 0, 0), math32.Vec3(0, 1, 0))

	var model math32.Matrix4
	model.SetRotationY(sc.Angle(elapsed))

	var vm, mvp math32.Matrix4
	vm.MulMatrices(view, &model)
	mvp.MulMatrices(&projection, &vm)

	return sc.gp.Queue.WriteBuffer(sc.uniformBuffer, 0, wgpu.ToBytes([]math32.Matrix4{mvp}))
}

// Render records the triangle draw into the given open render pass.
// The pass is left open for the overlay to composite into.
func (sc *Scene) Render(pass *wgpu.RenderPassEncoder) {
	pass.SetPipeline(sc.pipeline)
	pass.SetBindGroup(0, sc.bindGroup, nil)
	pass.SetVertexBuffer(0, sc.vertexBuffer, 0, wgpu.WholeSize)
	pass.SetIndexBuffer(sc.indexBuffer, wgpu.IndexFormatUint32, 0, wgpu.WholeSize)
	pass.DrawIndexed(uint32(len(indices)), 1, 0, 0, 0)
}

// Release frees all GPU resources owned by the scene.
func (sc *Scene) Release() {
	if sc.pipeline != nil {
		sc.pipeline.Release()
		sc.pipeline = nil
	}
	if sc.bindGroup != nil {
		sc.bindGroup.Release()
		sc.bindGroup = nil
	}
	for _, b := range []**wgpu.Buffer{&sc.vertexBuffer, &sc.indexBuffer, &sc.uniformBuffer} {
		if *b != nil {
			(*b).Release()
			*b = nil
		}
	}
}
