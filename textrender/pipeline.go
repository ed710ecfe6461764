package textrender

import (
	"fmt"

	"github.com/gogpu/wgpu"
	"github.com/zokrezyl/yetty/gpu"
)

// cellShaderWGSL draws every visible cell as one instanced quad, plus
// one extra trailing instance for the cursor block, reusing the same
// MSDF median-sampling formula documented in text/msdf's package doc.
const cellShaderWGSL = `
struct Uniforms {
  cell_w: f32,
  cell_h: f32,
  scale: f32,
  cols: f32,
  rows: f32,
  cursor_col: f32,
  cursor_row: f32,
  cursor_visible: f32,
};

struct GlyphMetric {
  uv_min: vec2<f32>,
  uv_max: vec2<f32>,
  size: vec2<f32>,
  bearing: vec2<f32>,
  advance: f32,
  _pad: f32,
};

struct VSOut {
  @builtin(position) pos: vec4<f32>,
  @location(0) uv: vec2<f32>,
  @location(1) color_fg: vec4<f32>,
  @location(2) color_bg: vec4<f32>,
  @location(3) is_cursor: f32,
};

@group(0) @binding(0) var<uniform> u: Uniforms;
@group(0) @binding(1) var<storage, read> glyphs: array<u32>;
@group(0) @binding(2) var<storage, read> fg: array<vec4<f32>>;
@group(0) @binding(3) var<storage, read> bg: array<vec4<f32>>;
@group(0) @binding(4) var<storage, read> metrics: array<GlyphMetric>;
@group(0) @binding(5) var atlas_tex: texture_2d<f32>;
@group(0) @binding(6) var atlas_samp: sampler;

fn glyph_at(idx: u32) -> u32 {
  let word = glyphs[idx / 2u];
  if (idx % 2u) == 0u {
    return word & 0xFFFFu;
  }
  return (word >> 16u) & 0xFFFFu;
}

fn quad_corner(vid: u32) -> vec2<f32> {
  switch vid {
    case 0u, 3u: { return vec2<f32>(0.0, 0.0); }
    case 1u: { return vec2<f32>(1.0, 0.0); }
    case 2u, 4u: { return vec2<f32>(1.0, 1.0); }
    default: { return vec2<f32>(0.0, 1.0); }
  }
}

@vertex
fn vs_main(@builtin(vertex_index) vid: u32, @builtin(instance_index) iid: u32) -> VSOut {
  var out: VSOut;
  let ncells = u32(u.cols) * u32(u.rows);

  var col: f32;
  var row: f32;
  var is_cursor: f32 = 0.0;
  var glyph_idx: u32 = 0u;
  var fg_color = vec4<f32>(1.0, 1.0, 1.0, 1.0);
  var bg_color = vec4<f32>(0.0, 0.0, 0.0, 0.0);

  if iid < ncells {
    col = f32(iid % u32(u.cols));
    row = f32(iid / u32(u.cols));
    glyph_idx = glyph_at(iid);
    fg_color = fg[iid];
    bg_color = bg[iid];
  } else {
    col = u.cursor_col;
    row = u.cursor_row;
    is_cursor = u.cursor_visible;
  }

  let corner = quad_corner(vid);
  let px = (col + corner.x) * u.cell_w * u.scale;
  let py = (row + corner.y) * u.cell_h * u.scale;
  let viewport = vec2<f32>(u.cols * u.cell_w * u.scale, u.rows * u.cell_h * u.scale);
  let ndc_x = (px / viewport.x) * 2.0 - 1.0;
  let ndc_y = 1.0 - (py / viewport.y) * 2.0;
  out.pos = vec4<f32>(ndc_x, ndc_y, 0.0, 1.0);

  let m = metrics[glyph_idx];
  out.uv = mix(m.uv_min, m.uv_max, corner);
  out.color_fg = fg_color;
  out.color_bg = bg_color;
  out.is_cursor = is_cursor;
  return out;
}

fn median3(v: vec3<f32>) -> f32 {
  return max(min(v.r, v.g), min(max(v.r, v.g), v.b));
}

@fragment
fn fs_main(in: VSOut) -> @location(0) vec4<f32> {
  if in.is_cursor > 0.5 {
    return vec4<f32>(1.0, 1.0, 1.0, 0.75);
  }
  let msdf = textureSample(atlas_tex, atlas_samp, in.uv).rgb;
  let sd = median3(msdf) - 0.5;
  let alpha = clamp(sd * 8.0 + 0.5, 0.0, 1.0);
  return mix(in.color_bg, in.color_fg, alpha);
}
`

// pipeline owns the render pipeline and bind group layout shared by
// every frame; only the bind group itself (which references the
// current cell buffers and atlas texture) is rebuilt when those
// resources change.
type pipeline struct {
	shader   *wgpu.ShaderModule
	bgLayout *wgpu.BindGroupLayout
	layout   *wgpu.PipelineLayout
	rp       *wgpu.RenderPipeline
}

func newPipeline(d *gpu.Device) (*pipeline, error) {
	shader, err := d.CompileWGSL("textrender-cell", cellShaderWGSL)
	if err != nil {
		return nil, err
	}

	bgLayout, err := d.Device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label: "textrender-bgl",
		Entries: []wgpu.BindGroupLayoutEntry{
			{Binding: 0, Visibility: wgpu.ShaderStageVertex | wgpu.ShaderStageFragment, Buffer: &wgpu.BufferBindingLayout{Type: wgpu.BufferBindingTypeUniform}},
			{Binding: 1, Visibility: wgpu.ShaderStageVertex, Buffer: &wgpu.BufferBindingLayout{Type: wgpu.BufferBindingTypeReadOnlyStorage}},
			{Binding: 2, Visibility: wgpu.ShaderStageVertex, Buffer: &wgpu.BufferBindingLayout{Type: wgpu.BufferBindingTypeReadOnlyStorage}},
			{Binding: 3, Visibility: wgpu.ShaderStageVertex, Buffer: &wgpu.BufferBindingLayout{Type: wgpu.BufferBindingTypeReadOnlyStorage}},
			{Binding: 4, Visibility: wgpu.ShaderStageVertex, Buffer: &wgpu.BufferBindingLayout{Type: wgpu.BufferBindingTypeReadOnlyStorage}},
			{Binding: 5, Visibility: wgpu.ShaderStageFragment, Texture: &wgpu.TextureBindingLayout{SampleType: wgpu.TextureSampleTypeFloat}},
			{Binding: 6, Visibility: wgpu.ShaderStageFragment, Sampler: &wgpu.SamplerBindingLayout{Type: wgpu.SamplerBindingTypeFiltering}},
		},
	})
	if err != nil {
		shader.Release()
		return nil, fmt.Errorf("textrender: bind group layout: %w", err)
	}

	layout, err := d.Device.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		Label:            "textrender-pipeline-layout",
		BindGroupLayouts: []*wgpu.BindGroupLayout{bgLayout},
	})
	if err != nil {
		bgLayout.Release()
		shader.Release()
		return nil, fmt.Errorf("textrender: pipeline layout: %w", err)
	}

	rp, err := d.Device.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
		Label:     "textrender-cell-pipeline",
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
		return nil, fmt.Errorf("textrender: render pipeline: %w", err)
	}

	return &pipeline{shader: shader, bgLayout: bgLayout, layout: layout, rp: rp}, nil
}

func (p *pipeline) bindGroup(d *gpu.Device, uniform, glyphBuf, fgBuf, bgBuf, metrics *wgpu.Buffer, atlasView *wgpu.TextureView, atlasSampler *wgpu.Sampler) (*wgpu.BindGroup, error) {
	return d.Device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  "textrender-bindgroup",
		Layout: p.bgLayout,
		Entries: []wgpu.BindGroupEntry{
			{Binding: 0, Buffer: uniform, Size: uniformsSize},
			{Binding: 1, Buffer: glyphBuf},
			{Binding: 2, Buffer: fgBuf},
			{Binding: 3, Buffer: bgBuf},
			{Binding: 4, Buffer: metrics},
			{Binding: 5, TextureView: atlasView},
			{Binding: 6, Sampler: atlasSampler},
		},
	})
}

func (p *pipeline) release() {
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
