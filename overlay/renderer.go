// Copyright (c) 2026, The wgpu-example Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package overlay

import (
	_ "embed"
	"fmt"
	"image"

	"cogentcore.org/core/base/errors"
	"cogentcore.org/core/math32"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/gogpu/naga"

	"github.com/lemlac/wgpu-example/gpu"
)

//go:embed shader.wgsl
var shaderSource string

const vertexSize = 8 * 4 // two vec2 + one vec4 of float32

// Renderer composites overlay meshes into an already-open render pass,
// after the scene has drawn. It owns a screen-space pipeline with
// premultiplied-style alpha blending, a viewport uniform, a 1x1 white
// texture for untextured geometry, and vertex / index buffers that grow
// as needed and are reused across frames.
type Renderer struct {
	gp *gpu.GPU

	pipeline      *wgpu.RenderPipeline
	uniformBuffer *wgpu.Buffer
	whiteTexture  *wgpu.Texture
	whiteView     *wgpu.TextureView
	sampler       *wgpu.Sampler
	bindGroup     *wgpu.BindGroup

	vertexBuffer *wgpu.Buffer
	vertexCap    uint64
	indexBuffer  *wgpu.Buffer
	indexCap     uint64
}

// NewRenderer builds the overlay pipeline against the surface's color
// format. Depth testing is disabled so the overlay always draws over
// the scene, but the pipeline still targets the shared depth format to
// stay compatible with the scene's render pass.
func NewRenderer(gp *gpu.GPU, sf *gpu.Surface) (*Renderer, error) {
	rd := &Renderer{gp: gp}

	if _, err := naga.Compile(shaderSource); err != nil {
		return nil, errors.Log(fmt.Errorf("overlay: shader validation failed: %w", err))
	}

	device := gp.Device
	shader, err := device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label:          "overlay-shader",
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{Code: shaderSource},
	})
	if err != nil {
		return nil, errors.Log(err)
	}
	defer shader.Release()

	rd.uniformBuffer, err = device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: "overlay-viewport",
		Size:  16,
		Usage: wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		rd.Release()
		return nil, errors.Log(err)
	}

	if err := rd.createWhiteTexture(); err != nil {
		rd.Release()
		return nil, errors.Log(err)
	}

	rd.sampler, err = device.CreateSampler(&wgpu.SamplerDescriptor{
		Label:         "overlay-sampler",
		AddressModeU:  wgpu.AddressModeClampToEdge,
		AddressModeV:  wgpu.AddressModeClampToEdge,
		AddressModeW:  wgpu.AddressModeClampToEdge,
		MagFilter:     wgpu.FilterModeLinear,
		MinFilter:     wgpu.FilterModeLinear,
		MipmapFilter:  wgpu.MipmapFilterModeNearest,
		LodMaxClamp:   32,
		MaxAnisotropy: 1,
	})
	if err != nil {
		rd.Release()
		return nil, errors.Log(err)
	}

	bgl, err := device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label: "overlay-bind-group-layout",
		Entries: []wgpu.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: wgpu.ShaderStageVertex,
				Buffer:     wgpu.BufferBindingLayout{Type: wgpu.BufferBindingTypeUniform},
			},
			{
				Binding:    1,
				Visibility: wgpu.ShaderStageFragment,
				Texture: wgpu.TextureBindingLayout{
					SampleType:    wgpu.TextureSampleTypeFloat,
					ViewDimension: wgpu.TextureViewDimension2D,
				},
			},
			{
				Binding:    2,
				Visibility: wgpu.ShaderStageFragment,
				Sampler:    wgpu.SamplerBindingLayout{Type: wgpu.SamplerBindingTypeFiltering},
			},
		},
	})
	if err != nil {
		rd.Release()
		return nil, errors.Log(err)
	}
	defer bgl.Release()

	rd.bindGroup, err = device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  "overlay-bind-group",
		Layout: bgl,
		Entries: []wgpu.BindGroupEntry{
			{Binding: 0, Buffer: rd.uniformBuffer, Size: wgpu.WholeSize},
			{Binding: 1, TextureView: rd.whiteView},
			{Binding: 2, Sampler: rd.sampler},
		},
	})
	if err != nil {
		rd.Release()
		return nil, errors.Log(err)
	}

	layout, err := device.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		Label:            "overlay-pipeline-layout",
		BindGroupLayouts: []*wgpu.BindGroupLayout{bgl},
	})
	if err != nil {
		rd.Release()
		return nil, errors.Log(err)
	}
	defer layout.Release()

	rd.pipeline, err = device.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
		Label:  "overlay-pipeline",
		Layout: layout,
		Vertex: wgpu.VertexState{
			Module:     shader,
			EntryPoint: "vertex_main",
			Buffers: []wgpu.VertexBufferLayout{{
				ArrayStride: vertexSize,
				StepMode:    wgpu.VertexStepModeVertex,
				Attributes: []wgpu.VertexAttribute{
					{Format: wgpu.VertexFormatFloat32x2, Offset: 0, ShaderLocation: 0},
					{Format: wgpu.VertexFormatFloat32x2, Offset: 8, ShaderLocation: 1},
					{Format: wgpu.VertexFormatFloat32x4, Offset: 16, ShaderLocation: 2},
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
			DepthWriteEnabled: false,
			DepthCompare:      wgpu.CompareFunctionAlways,
			StencilFront:      wgpu.StencilFaceState{Compare: wgpu.CompareFunctionAlways},
			StencilBack:       wgpu.StencilFaceState{Compare: wgpu.CompareFunctionAlways},
		},
		Multisample: wgpu.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
	})
	if err != nil {
		rd.Release()
		return nil, errors.Log(err)
	}
	return rd, nil
}

func (rd *Renderer) createWhiteTexture() error {
	device := rd.gp.Device
	tex, err := device.CreateTexture(&wgpu.TextureDescriptor{
		Label:         "overlay-white",
		Size:          wgpu.Extent3D{Width: 1, Height: 1, DepthOrArrayLayers: 1},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     wgpu.TextureDimension2D,
		Format:        wgpu.TextureFormatRGBA8Unorm,
		Usage:         wgpu.TextureUsageTextureBinding | wgpu.TextureUsageCopyDst,
	})
	if err != nil {
		return err
	}
	rd.gp.Queue.WriteTexture(
		&wgpu.ImageCopyTexture{
			Texture:  tex,
			MipLevel: 0,
			Origin:   wgpu.Origin3D{},
			Aspect:   wgpu.TextureAspectAll,
		},
		[]byte{0xff, 0xff, 0xff, 0xff},
		&wgpu.TextureDataLayout{
			Offset:       0,
			BytesPerRow:  4,
			RowsPerImage: 1,
		},
		&wgpu.Extent3D{Width: 1, Height: 1, DepthOrArrayLayers: 1},
	)
	view, err := tex.CreateView(nil)
	if err != nil {
		tex.Release()
		return err
	}
	rd.whiteTexture = tex
	rd.whiteView = view
	return nil
}

// drawRange is one mesh's slice of the combined buffers.
type drawRange struct {
	firstIndex uint32
	indexCount uint32
	baseVertex int32
	clip       image.Rectangle
}

// Render composites one frame of overlay geometry into the open pass.
// The scene must already have drawn; the pass is left open for the
// caller to end.
func (rd *Renderer) Render(pass *wgpu.RenderPassEncoder, out *FrameOutput, size image.Point) error {
	if out == nil || len(out.Meshes) == 0 {
		return nil
	}

	var verts []Vertex
	var idxs []uint32
	ranges := make([]drawRange, 0, len(out.Meshes))
	for _, m := range out.Meshes {
		if len(m.Indices) == 0 {
			continue
		}
		ranges = append(ranges, drawRange{
			firstIndex: uint32(len(idxs)),
			indexCount: uint32(len(m.Indices)),
			baseVertex: int32(len(verts)),
			clip:       m.Clip,
		})
		verts = append(verts, m.Vertices...)
		idxs = append(idxs, m.Indices...)
	}
	if len(ranges) == 0 {
		return nil
	}

	viewport := [4]float32{float32(size.X), float32(size.Y), 0, 0}
	if err := rd.gp.Queue.WriteBuffer(rd.uniformBuffer, 0, wgpu.ToBytes(viewport[:])); err != nil {
		return err
	}

	vbytes := wgpu.ToBytes(verts)
	ibytes := wgpu.ToBytes(idxs)
	var err error
	rd.vertexBuffer, rd.vertexCap, err = rd.ensureBuffer(rd.vertexBuffer, rd.vertexCap,
		uint64(len(vbytes)), "overlay-vertices", wgpu.BufferUsageVertex)
	if err != nil {
		return err
	}
	rd.indexBuffer, rd.indexCap, err = rd.ensureBuffer(rd.indexBuffer, rd.indexCap,
		uint64(len(ibytes)), "overlay-indices", wgpu.BufferUsageIndex)
	if err != nil {
		return err
	}
	if err := rd.gp.Queue.WriteBuffer(rd.vertexBuffer, 0, vbytes); err != nil {
		return err
	}
	if err := rd.gp.Queue.WriteBuffer(rd.indexBuffer, 0, ibytes); err != nil {
		return err
	}

	pass.SetPipeline(rd.pipeline)
	pass.SetBindGroup(0, rd.bindGroup, nil)
	pass.SetVertexBuffer(0, rd.vertexBuffer, 0, wgpu.WholeSize)
	pass.SetIndexBuffer(rd.indexBuffer, wgpu.IndexFormatUint32, 0, wgpu.WholeSize)

	full := image.Rect(0, 0, size.X, size.Y)
	for _, r := range ranges {
		clip := r.clip
		if clip.Empty() {
			clip = full
		} else {
			clip = clip.Intersect(full)
			if clip.Empty() {
				continue
			}
		}
		pass.SetScissorRect(uint32(clip.Min.X), uint32(clip.Min.Y),
			uint32(clip.Dx()), uint32(clip.Dy()))
		pass.DrawIndexed(r.indexCount, 1, r.firstIndex, r.baseVertex, 0)
	}
	pass.SetScissorRect(0, 0, uint32(size.X), uint32(size.Y))
	return nil
}

// ensureBuffer returns a buffer of at least size bytes, reusing the
// existing one when it is big enough and doubling the capacity when
// it is not, to amortize reallocation across frames.
func (rd *Renderer) ensureBuffer(buf *wgpu.Buffer, capacity, size uint64, label string, usage wgpu.BufferUsage) (*wgpu.Buffer, uint64, error) {
	if buf != nil && capacity >= size {
		return buf, capacity, nil
	}
	if buf != nil {
		buf.Release()
	}
	newCap := max(capacity*2, size, 4096)
	nb, err := rd.gp.Device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: label,
		Size:  newCap,
		Usage: usage | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, 0, err
	}
	return nb, newCap, nil
}

// Release frees all GPU resources owned by the renderer.
func (rd *Renderer) Release() {
	for _, b := range []**wgpu.Buffer{&rd.uniformBuffer, &rd.vertexBuffer, &rd.indexBuffer} {
		if *b != nil {
			(*b).Release()
			*b = nil
		}
	}
	if rd.pipeline != nil {
		rd.pipeline.Release()
		rd.pipeline = nil
	}
	if rd.bindGroup != nil {
		rd.bindGroup.Release()
		rd.bindGroup = nil
	}
	if rd.sampler != nil {
		rd.sampler.Release()
		rd.sampler = nil
	}
	if rd.whiteView != nil {
		rd.whiteView.Release()
		rd.whiteView = nil
	}
	if rd.whiteTexture != nil {
		rd.whiteTexture.Release()
		rd.whiteTexture = nil
	}
	rd.vertexCap = 0
	rd.indexCap = 0
}

// Panel returns a mesh for a filled axis-aligned rectangle, a helper
// for simple immediate-mode overlays.
func Panel(r image.Rectangle, color [4]float32) Mesh {
	x0, y0 := float32(r.Min.X), float32(r.Min.Y)
	x1, y1 := float32(r.Max.X), float32(r.Max.Y)
	return Mesh{
		Vertices: []Vertex{
			Vtx(x0, y0, color), Vtx(x1, y0, color),
			Vtx(x1, y1, color), Vtx(x0, y1, color),
		},
		Indices: []uint32{0, 1, 2, 0, 2, 3},
	}
}

// Marker returns a small diamond mesh centered at the given position,
// for pointer feedback.
func Marker(pos math32.Vector2, radius float32, color [4]float32) Mesh {
	return Mesh{
		Vertices: []Vertex{
			Vtx(pos.X, pos.Y-radius, color), Vtx(pos.X+radius, pos.Y, color),
			Vtx(pos.X, pos.Y+radius, color), Vtx(pos.X-radius, pos.Y, color),
		},
		Indices: []uint32{0, 1, 2, 0, 2, 3},
	}
}
