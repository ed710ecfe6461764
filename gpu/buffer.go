package gpu

import (
	"fmt"

	"github.com/gogpu/wgpu"
)

// CreateStorageBuffer creates a read/write storage buffer of size
// bytes, suitable for the cell grid's glyph/fg/bg arrays or the atlas
// metrics table.
func (d *Device) CreateStorageBuffer(label string, size uint64) (*wgpu.Buffer, error) {
	return d.Device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: label,
		Size:  size,
		Usage: wgpu.BufferUsageStorage | wgpu.BufferUsageCopyDst,
	})
}

// CreateUniformBuffer creates a uniform buffer of size bytes, e.g. the
// text renderer's per-frame uniforms or a shader-glyph's 64-byte block.
func (d *Device) CreateUniformBuffer(label string, size uint64) (*wgpu.Buffer, error) {
	return d.Device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: label,
		Size:  size,
		Usage: wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst,
	})
}

// CreateReadbackBuffer creates a buffer mappable for CPU read, used by
// the remote pipeline's dirty-flags readback and framebuffer readback.
func (d *Device) CreateReadbackBuffer(label string, size uint64) (*wgpu.Buffer, error) {
	return d.Device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: label,
		Size:  size,
		Usage: wgpu.BufferUsageCopyDst | wgpu.BufferUsageMapRead,
	})
}

// WriteBuffer uploads data into buffer at offset via the device queue.
func (d *Device) WriteBuffer(buf *wgpu.Buffer, offset uint64, data []byte) error {
	if err := d.Queue.WriteBuffer(buf, offset, data); err != nil {
		return fmt.Errorf("gpu: write buffer: %w", err)
	}
	return nil
}

// ReadBuffer reads size bytes starting at offset out of buf.
func (d *Device) ReadBuffer(buf *wgpu.Buffer, offset uint64, size int) ([]byte, error) {
	out := make([]byte, size)
	if err := d.Queue.ReadBuffer(buf, offset, out); err != nil {
		return nil, fmt.Errorf("gpu: read buffer: %w", err)
	}
	return out, nil
}
