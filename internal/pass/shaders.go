package pass

import (
	_ "embed"
)

// Embedded WGSL sources of the built-in programs.

//go:embed shaders/mask.wgsl
var maskShaderSource string

//go:embed shaders/blur.wgsl
var blurShaderSource string

//go:embed shaders/tint.wgsl
var tintShaderSource string

//go:embed shaders/composite.wgsl
var compositeShaderSource string

//go:embed shaders/grain.wgsl
var grainShaderSource string

// Names of the built-in programs.
const (
	ProgramMask      = "mask"
	ProgramBlur      = "blur"
	ProgramTint      = "tint"
	ProgramComposite = "composite"
	ProgramGrain     = "grain"
)

// BuiltinSources returns the WGSL source of every built-in program keyed
// by program name. The returned map is a fresh copy.
func BuiltinSources() map[string]string {
	return map[string]string{
		ProgramMask:      maskShaderSource,
		ProgramBlur:      blurShaderSource,
		ProgramTint:      tintShaderSource,
		ProgramComposite: compositeShaderSource,
		ProgramGrain:     grainShaderSource,
	}
}

// builtinOrder is the start-up compile order.
var builtinOrder = []string{ProgramMask, ProgramBlur, ProgramTint, ProgramComposite, ProgramGrain}
