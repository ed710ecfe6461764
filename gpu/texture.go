package gpu

import (
	"fmt"

	"github.com/gogpu/wgpu"
)

// RGBATexture wraps an RGBA8 sampled texture and its default view,
// sized to back an MSDF atlas or a remote-pipeline readback target.
type RGBATexture struct {
	Texture *wgpu.Texture
	View    *wgpu.TextureView
	Width   uint32
	Height  uint32
}

// CreateRGBATexture allocates a Width x Height RGBA8Unorm texture
// usable as both a sample source and a copy destination, plus its
// default view.
func (d *Device) CreateRGBATexture(label string, width, height uint32) (*RGBATexture, error) {
	tex, err := d.Device.CreateTexture(&wgpu.TextureDescriptor{
		Label: label,
		Size: wgpu.Extent3D{
			Width:              width,
			Height:             height,
			DepthOrArrayLayers: 1,
		},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     wgpu.TextureDimension2D,
		Format:        wgpu.TextureFormatRGBA8Unorm,
		Usage:         wgpu.TextureUsageTextureBinding | wgpu.TextureUsageCopyDst | wgpu.TextureUsageCopySrc,
	})
	if err != nil {
		return nil, fmt.Errorf("gpu: create texture %q: %w", label, err)
	}
	view, err := d.Device.CreateTextureView(tex, &wgpu.TextureViewDescriptor{Label: label + ".view"})
	if err != nil {
		tex.Release()
		return nil, fmt.Errorf("gpu: create texture view %q: %w", label, err)
	}
	return &RGBATexture{Texture: tex, View: view, Width: width, Height: height}, nil
}

// Upload writes a tightly-packed RGBA8 image into the texture's full
// extent. data must be exactly Width*Height*4 bytes.
func (d *Device) Upload(t *RGBATexture, data []byte) error {
	want := int(t.Width) * int(t.Height) * 4
	if len(data) != want {
		return fmt.Errorf("gpu: upload %d bytes, want %d", len(data), want)
	}
	err := d.Queue.WriteTexture(
		&wgpu.ImageCopyTexture{Texture: t.Texture},
		data,
		&wgpu.ImageDataLayout{
			Offset:       0,
			BytesPerRow:  t.Width * 4,
			RowsPerImage: t.Height,
		},
		&wgpu.Extent3D{Width: t.Width, Height: t.Height, DepthOrArrayLayers: 1},
	)
	if err != nil {
		return fmt.Errorf("gpu: write texture: %w", err)
	}
	return nil
}

// Release releases the view then the texture.
func (t *RGBATexture) Release() {
	if t == nil {
		return
	}
	if t.View != nil {
		t.View.Release()
	}
	if t.Texture != nil {
		t.Texture.Release()
	}
}

// CreateLinearSampler creates a linearly-filtered, clamp-to-edge
// sampler, the sampling mode used for MSDF atlas lookups.
func (d *Device) CreateLinearSampler(label string) (*wgpu.Sampler, error) {
	s, err := d.Device.CreateSampler(&wgpu.SamplerDescriptor{
		Label:        label,
		AddressModeU: wgpu.AddressModeClampToEdge,
		AddressModeV: wgpu.AddressModeClampToEdge,
		AddressModeW: wgpu.AddressModeClampToEdge,
		MagFilter:    wgpu.FilterModeLinear,
		MinFilter:    wgpu.FilterModeLinear,
	})
	if err != nil {
		return nil, fmt.Errorf("gpu: create sampler %q: %w", label, err)
	}
	return s, nil
}
