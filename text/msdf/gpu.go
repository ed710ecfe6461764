package msdf

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/gogpu/wgpu"
	"github.com/zokrezyl/yetty/gpu"
)

// metricsStride is the byte size of one GlyphMetrics record as packed
// into the GPU-visible metrics storage buffer: uvMin, uvMax, size,
// bearing (4 float32 pairs) plus advance and two float32 of padding
// for 16-byte alignment.
const metricsStride = 4*2*4 + 4 + 8

// gpuResources holds the atlas's GPU-side texture, sampler, and the
// metrics storage buffer indexed by slot.
type gpuResources struct {
	texture *gpu.RGBATexture
	sampler *wgpu.Sampler
	metrics *wgpu.Buffer
	slots   int // slot count the metrics buffer was sized for
}

// CreateGPUResources uploads the full atlas image, creates a sampler,
// and creates a metrics storage buffer sized for the current slot
// count. Call once after the initial Generate.
func (a *Atlas) CreateGPUResources(d *gpu.Device) error {
	a.mu.Lock()
	width, height := a.Width, a.Height
	data := append([]byte(nil), a.Data...)
	slots := len(a.metrics)
	metricsBytes := packMetrics(a.metrics)
	a.mu.Unlock()

	tex, err := d.CreateRGBATexture("msdf-atlas", uint32(width), uint32(height))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrGpuAllocFailed, err)
	}
	if err := d.Upload(tex, data); err != nil {
		tex.Release()
		return fmt.Errorf("%w: %v", ErrGpuAllocFailed, err)
	}

	sampler, err := d.CreateLinearSampler("msdf-atlas-sampler")
	if err != nil {
		tex.Release()
		return fmt.Errorf("%w: %v", ErrGpuAllocFailed, err)
	}

	metrics, err := d.CreateStorageBuffer("msdf-atlas-metrics", uint64(len(metricsBytes)))
	if err != nil {
		sampler.Release()
		tex.Release()
		return fmt.Errorf("%w: %v", ErrGpuAllocFailed, err)
	}
	if err := d.WriteBuffer(metrics, 0, metricsBytes); err != nil {
		metrics.Release()
		sampler.Release()
		tex.Release()
		return fmt.Errorf("%w: %v", ErrGpuAllocFailed, err)
	}

	a.mu.Lock()
	a.gpu = &gpuResources{texture: tex, sampler: sampler, metrics: metrics, slots: slots}
	a.pending = make(map[rune]struct{})
	a.dirty = false
	a.mu.Unlock()
	return nil
}

// UploadPending re-uploads the atlas image and, if new slots were
// added since the metrics buffer was sized, recreates the metrics
// buffer at its new size. Call once per frame when PendingCount > 0.
func (a *Atlas) UploadPending(d *gpu.Device) error {
	a.mu.Lock()
	if a.gpu == nil {
		a.mu.Unlock()
		return ErrNoGPUResources
	}
	if len(a.pending) == 0 {
		a.mu.Unlock()
		return nil
	}
	width, height := a.Width, a.Height
	data := append([]byte(nil), a.Data...)
	slots := len(a.metrics)
	metricsBytes := packMetrics(a.metrics)
	gr := a.gpu
	a.mu.Unlock()

	if uint32(width) != gr.texture.Width || uint32(height) != gr.texture.Height {
		newTex, err := d.CreateRGBATexture("msdf-atlas", uint32(width), uint32(height))
		if err != nil {
			return fmt.Errorf("%w: %v", ErrGpuAllocFailed, err)
		}
		gr.texture.Release()
		gr.texture = newTex
	}
	if err := d.Upload(gr.texture, data); err != nil {
		return fmt.Errorf("%w: %v", ErrGpuAllocFailed, err)
	}

	if slots != gr.slots {
		newMetrics, err := d.CreateStorageBuffer("msdf-atlas-metrics", uint64(len(metricsBytes)))
		if err != nil {
			return fmt.Errorf("%w: %v", ErrGpuAllocFailed, err)
		}
		gr.metrics.Release()
		gr.metrics = newMetrics
		gr.slots = slots
	}
	if err := d.WriteBuffer(gr.metrics, 0, metricsBytes); err != nil {
		return fmt.Errorf("%w: %v", ErrGpuAllocFailed, err)
	}

	a.mu.Lock()
	a.gpu = gr
	a.pending = make(map[rune]struct{})
	a.dirty = false
	a.mu.Unlock()
	return nil
}

// ReleaseGPUResources releases the atlas's metrics buffer, sampler, and
// texture, in that order. Safe to call on an atlas with no GPU
// resources.
func (a *Atlas) ReleaseGPUResources() {
	a.mu.Lock()
	gr := a.gpu
	a.gpu = nil
	a.mu.Unlock()
	if gr == nil {
		return
	}
	if gr.metrics != nil {
		gr.metrics.Release()
	}
	if gr.sampler != nil {
		gr.sampler.Release()
	}
	gr.texture.Release()
}

// TextureView returns the atlas's GPU texture view, or nil if
// CreateGPUResources has not yet been called.
func (a *Atlas) TextureView() *wgpu.TextureView {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.gpu == nil {
		return nil
	}
	return a.gpu.texture.View
}

// Sampler returns the atlas's GPU sampler, or nil if CreateGPUResources
// has not yet been called.
func (a *Atlas) Sampler() *wgpu.Sampler {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.gpu == nil {
		return nil
	}
	return a.gpu.sampler
}

// MetricsBuffer returns the atlas's GPU metrics storage buffer, or nil
// if CreateGPUResources has not yet been called.
func (a *Atlas) MetricsBuffer() *wgpu.Buffer {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.gpu == nil {
		return nil
	}
	return a.gpu.metrics
}

// packMetrics serializes metrics into the shader's std430 layout: one
// metricsStride-byte record per slot, in slot order.
func packMetrics(metrics []GlyphMetrics) []byte {
	out := make([]byte, len(metrics)*metricsStride)
	for i, m := range metrics {
		off := i * metricsStride
		putFloat32(out, off+0, m.UVMin[0])
		putFloat32(out, off+4, m.UVMin[1])
		putFloat32(out, off+8, m.UVMax[0])
		putFloat32(out, off+12, m.UVMax[1])
		putFloat32(out, off+16, m.Size[0])
		putFloat32(out, off+20, m.Size[1])
		putFloat32(out, off+24, m.Bearing[0])
		putFloat32(out, off+28, m.Bearing[1])
		putFloat32(out, off+32, m.Advance)
	}
	return out
}

func putFloat32(b []byte, off int, v float32) {
	binary.LittleEndian.PutUint32(b[off:], math.Float32bits(v))
}
