package gpu

import (
	"fmt"

	"github.com/gogpu/naga"
	"github.com/gogpu/wgpu"
)

// CompileWGSL compiles wgslSource to SPIR-V via naga and creates a
// shader module from the result. Every render and compute pipeline in
// this package goes through naga rather than handing WGSL straight to
// the device, matching the compile-ahead-of-time path the rest of the
// ecosystem uses for shader validation.
func (d *Device) CompileWGSL(label, wgslSource string) (*wgpu.ShaderModule, error) {
	spirv, err := compileToSPIRV(wgslSource)
	if err != nil {
		return nil, fmt.Errorf("gpu: compile shader %q: %w", label, err)
	}
	mod, err := d.Device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label: label,
		SPIRV: spirv,
	})
	if err != nil {
		return nil, fmt.Errorf("gpu: create shader module %q: %w", label, err)
	}
	return mod, nil
}

// compileToSPIRV turns WGSL source into little-endian SPIR-V words.
func compileToSPIRV(wgslSource string) ([]uint32, error) {
	spirvBytes, err := naga.Compile(wgslSource)
	if err != nil {
		return nil, err
	}
	words := make([]uint32, len(spirvBytes)/4)
	for i := range words {
		words[i] = uint32(spirvBytes[i*4]) |
			uint32(spirvBytes[i*4+1])<<8 |
			uint32(spirvBytes[i*4+2])<<16 |
			uint32(spirvBytes[i*4+3])<<24
	}
	return words, nil
}
