package shadertoy

import (
	"fmt"

	"github.com/gogpu/wgpu"
	"github.com/zokrezyl/yetty/gpu"
	"github.com/zokrezyl/yetty/overlay"
)

// defaultWGSL is used when a mapping entry's shader file cannot be
// read, and by any layer created without an explicit shader payload: a
// self-contained procedural "twirl" effect parameterized only by the
// shared overlay.ShaderGlyphUniforms block, matching the fixture shader
// named in the mapping file's example (twirl.wgsl).
const defaultWGSL = `
struct Uniforms {
  time: f32,
  time_delta: f32,
  frame: u32,
  res_x: f32,
  res_y: f32,
  mouse_x: f32,
  mouse_y: f32,
  codepoint: u32,
  rect_ndc: vec4<f32>,
};

@group(0) @binding(0) var<uniform> u: Uniforms;

struct VSOut {
  @builtin(position) pos: vec4<f32>,
  @location(0) uv: vec2<f32>,
};

@vertex
fn vs_main(@builtin(vertex_index) vid: u32) -> VSOut {
  var out: VSOut;
  var c: vec2<f32>;
  switch vid {
    case 0u, 3u: { c = vec2<f32>(0.0, 0.0); }
    case 1u: { c = vec2<f32>(1.0, 0.0); }
    case 2u, 4u: { c = vec2<f32>(1.0, 1.0); }
    default: { c = vec2<f32>(0.0, 1.0); }
  }
  let x = mix(u.rect_ndc.x, u.rect_ndc.z, c.x);
  let y = mix(u.rect_ndc.y, u.rect_ndc.w, c.y);
  out.pos = vec4<f32>(x, y, 0.0, 1.0);
  out.uv = c;
  return out;
}

@fragment
fn fs_main(in: VSOut) -> @location(0) vec4<f32> {
  let p = in.uv * 2.0 - vec2<f32>(1.0, 1.0);
  let a = atan2(p.y, p.x) + u.time;
  let r = length(p);
  let twirl = sin(a * 6.0 - r * 10.0 + u.time * 2.0) * 0.5 + 0.5;
  let fade = 1.0 - smoothstep(0.6, 1.0, r);
  return vec4<f32>(twirl, 0.3 + 0.3 * twirl, 1.0 - twirl, fade);
}
`

// shaderPipeline is the render pipeline shared by every shadertoy
// layer and glyph instance: one uniform binding, a fullscreen-quad
// vertex stage positioned by rect_ndc, and a caller-supplied fragment
// stage.
type shaderPipeline struct {
	shader   *wgpu.ShaderModule
	bgLayout *wgpu.BindGroupLayout
	layout   *wgpu.PipelineLayout
	rp       *wgpu.RenderPipeline
}

func newShaderPipeline(d *gpu.Device, wgsl string) (*shaderPipeline, error) {
	shader, err := d.CompileWGSL("shadertoy", wgsl)
	if err != nil {
		return nil, err
	}

	bgLayout, err := d.Device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label: "shadertoy-bgl",
		Entries: []wgpu.BindGroupLayoutEntry{
			{Binding: 0, Visibility: wgpu.ShaderStageVertex | wgpu.ShaderStageFragment, Buffer: &wgpu.BufferBindingLayout{Type: wgpu.BufferBindingTypeUniform}},
		},
	})
	if err != nil {
		shader.Release()
		return nil, fmt.Errorf("shadertoy: bind group layout: %w", err)
	}

	layout, err := d.Device.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		Label:            "shadertoy-pipeline-layout",
		BindGroupLayouts: []*wgpu.BindGroupLayout{bgLayout},
	})
	if err != nil {
		bgLayout.Release()
		shader.Release()
		return nil, fmt.Errorf("shadertoy: pipeline layout: %w", err)
	}

	rp, err := d.Device.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
		Label:     "shadertoy-pipeline",
		Layout:    layout,
		Vertex:    wgpu.VertexState{Module: shader, EntryPoint: "vs_main"},
		Primitive: wgpu.PrimitiveState{Topology: wgpu.PrimitiveTopologyTriangleList},
		Fragment: &wgpu.FragmentState{
			Module:     shader,
			EntryPoint: "fs_main",
			Targets: []wgpu.ColorTargetState{{
				Format:    wgpu.TextureFormatRGBA8Unorm,
				WriteMask: wgpu.ColorWriteMaskAll,
			}},
		},
	})
	if err != nil {
		layout.Release()
		bgLayout.Release()
		shader.Release()
		return nil, fmt.Errorf("shadertoy: render pipeline: %w", err)
	}

	return &shaderPipeline{shader: shader, bgLayout: bgLayout, layout: layout, rp: rp}, nil
}

func (p *shaderPipeline) bindGroup(d *gpu.Device, uniform *wgpu.Buffer) (*wgpu.BindGroup, error) {
	return d.Device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  "shadertoy-bindgroup",
		Layout: p.bgLayout,
		Entries: []wgpu.BindGroupEntry{
			{Binding: 0, Buffer: uniform, Size: overlay.ShaderGlyphUniformSize},
		},
	})
}

func (p *shaderPipeline) release() {
	if p == nil {
		return
	}
	if p.rp != nil {
		p.rp.Release()
	}
	if p.layout != nil {
		p.layout.Release()
	}
	if p.bgLayout != nil {
		p.bgLayout.Release()
	}
	if p.shader != nil {
		p.shader.Release()
	}
}

// shaderResources is the lazily-created GPU state shared by Layer and
// GlyphLayer: a pipeline compiled for a specific WGSL source and the
// uniform buffer written before every draw.
type shaderResources struct {
	pipe    *shaderPipeline
	uniform *wgpu.Buffer
}

func (r *shaderResources) ensure(d *gpu.Device, wgsl string) error {
	if r.pipe != nil {
		return nil
	}
	pipe, err := newShaderPipeline(d, wgsl)
	if err != nil {
		return err
	}
	uniform, err := d.CreateUniformBuffer("shadertoy-uniforms", overlay.ShaderGlyphUniformSize)
	if err != nil {
		pipe.release()
		return err
	}
	r.pipe, r.uniform = pipe, uniform
	return nil
}

func (r *shaderResources) release() {
	if r.uniform != nil {
		r.uniform.Release()
		r.uniform = nil
	}
	r.pipe.release()
	r.pipe = nil
}

func (r *shaderResources) ready() bool { return r.pipe != nil && r.uniform != nil }

// draw writes uniforms and records a single self-contained draw:
// its own command encoder, one load-don't-clear render pass against
// targetView, and a submit. Every shadertoy draw targets an already
// up-to-date frame rather than participating in a shared render pass,
// since layers and glyph instances render independently of the text
// grid's own encode step.
func (r *shaderResources) draw(d *gpu.Device, targetView *wgpu.TextureView, uniforms overlay.ShaderGlyphUniforms) error {
	if !r.ready() {
		return fmt.Errorf("shadertoy: draw called before GPU resources are ready")
	}
	if err := d.WriteBuffer(r.uniform, 0, uniforms.Pack()); err != nil {
		return fmt.Errorf("shadertoy: write uniforms: %w", err)
	}
	bg, err := r.pipe.bindGroup(d, r.uniform)
	if err != nil {
		return fmt.Errorf("shadertoy: bind group: %w", err)
	}
	defer bg.Release()

	enc, err := d.Device.CreateCommandEncoder(&wgpu.CommandEncoderDescriptor{Label: "shadertoy"})
	if err != nil {
		return fmt.Errorf("shadertoy: command encoder: %w", err)
	}
	pass, err := enc.BeginRenderPass(&wgpu.RenderPassDescriptor{
		Label: "shadertoy-pass",
		ColorAttachments: []wgpu.RenderPassColorAttachment{{
			View:   targetView,
			LoadOp: wgpu.LoadOpLoad,
		}},
	})
	if err != nil {
		return fmt.Errorf("shadertoy: begin render pass: %w", err)
	}
	pass.SetPipeline(r.pipe.rp)
	pass.SetBindGroup(0, bg, nil)
	pass.Draw(6, 1, 0, 0)
	if err := pass.End(); err != nil {
		return fmt.Errorf("shadertoy: end render pass: %w", err)
	}
	cmd, err := enc.Finish()
	if err != nil {
		return fmt.Errorf("shadertoy: finish command buffer: %w", err)
	}
	if err := d.Queue.Submit(cmd); err != nil {
		return fmt.Errorf("shadertoy: submit: %w", err)
	}
	return nil
}

// rectNDC converts a pixel-space rectangle within a viewportW x
// viewportH target into the [xmin, ymin, xmax, ymax] clip-space
// rectangle the vertex shader mixes against.
func rectNDC(x0, y0, x1, y1, viewportW, viewportH float32) [4]float32 {
	toX := func(px float32) float32 { return (px/viewportW)*2 - 1 }
	toY := func(py float32) float32 { return 1 - (py/viewportH)*2 }
	return [4]float32{toX(x0), toY(y1), toX(x1), toY(y0)}
}
