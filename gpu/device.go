// Package gpu provides RAII wrappers over github.com/gogpu/wgpu used by
// the atlas, text renderer, and remote frame pipeline.
//
// Every wrapper here owns an underlying wgpu handle and exposes a
// single Release method; callers are expected to release resources in
// the inverse of acquisition order, matching the teardown order in
// §5 of the engine's shutdown sequence (overlay layers, then text
// renderer, then atlas, then remote pipeline, then surface).
package gpu

import (
	"fmt"
	"log/slog"

	"github.com/gogpu/wgpu"
	"github.com/zokrezyl/yetty"
)

// Info describes the selected adapter, mirroring what the caller would
// want to log at startup.
type Info struct {
	Name       string
	DeviceType string
	Backend    string
}

func (i Info) String() string {
	return fmt.Sprintf("%s (%s, %s)", i.Name, i.DeviceType, i.Backend)
}

// Device owns an instance, adapter, logical device, and its queue for
// the lifetime of the process (or of a single Engine, in tests).
type Device struct {
	Instance *wgpu.Instance
	Adapter  *wgpu.Adapter
	Device   *wgpu.Device
	Queue    *wgpu.Queue

	log *slog.Logger
}

// Options configures device acquisition.
type Options struct {
	// PowerPreference steers adapter selection. Zero value means "no
	// preference".
	PowerPreference wgpu.PowerPreference

	Logger *slog.Logger
}

// Open creates a wgpu instance, requests an adapter and device, and
// logs the selected GPU. Returns ErrGpuAllocFailed-class errors
// wrapped with context on any failure; callers should treat device
// acquisition failure as FatalStartup.
func Open(opts Options) (*Device, error) {
	log := opts.Logger
	if log == nil {
		log = yetty.Logger()
	}

	inst, err := wgpu.CreateInstance(&wgpu.InstanceDescriptor{})
	if err != nil {
		return nil, fmt.Errorf("gpu: create instance: %w", err)
	}

	adapter, err := inst.RequestAdapter(&wgpu.RequestAdapterOptions{
		PowerPreference: opts.PowerPreference,
	})
	if err != nil {
		inst.Release()
		return nil, fmt.Errorf("gpu: request adapter: %w", err)
	}

	dev, err := adapter.RequestDevice(&wgpu.DeviceDescriptor{
		Label:          "yetty",
		RequiredLimits: wgpu.DefaultLimits(),
	})
	if err != nil {
		adapter.Release()
		inst.Release()
		return nil, fmt.Errorf("gpu: request device: %w", err)
	}

	d := &Device{
		Instance: inst,
		Adapter:  adapter,
		Device:   dev,
		Queue:    dev.Queue(),
		log:      log,
	}
	d.logInfo()
	return d, nil
}

func (d *Device) logInfo() {
	if d.log == nil {
		return
	}
	info := d.Adapter.Info()
	d.log.Info("gpu adapter selected",
		"name", info.Name,
		"vendor", info.Vendor,
		"backend", info.Backend,
	)
}

// Release tears down the device, adapter, and instance in that order.
// Safe to call once; a second call is a no-op.
func (d *Device) Release() {
	if d == nil {
		return
	}
	if d.Device != nil {
		d.Device.Release()
		d.Device = nil
	}
	if d.Adapter != nil {
		d.Adapter.Release()
		d.Adapter = nil
	}
	if d.Instance != nil {
		d.Instance.Release()
		d.Instance = nil
	}
}
