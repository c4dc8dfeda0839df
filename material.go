package rsg

import "github.com/hajimehoshi/ebiten/v2"

// CompareOp is a depth comparison function.
type CompareOp uint8

const (
	CompareNever CompareOp = iota
	CompareLess
	CompareEqual
	CompareLessOrEqual
	CompareGreater
	CompareNotEqual
	CompareGreaterOrEqual
	CompareAlways
)

// CullMode selects which faces are discarded.
type CullMode uint8

const (
	CullNone  CullMode = iota // draw both faces
	CullFront                 // discard front faces
	CullBack                  // discard back faces
)

// FrontFace selects the winding order of front-facing triangles.
type FrontFace uint8

const (
	FrontFaceCCW FrontFace = iota // counter-clockwise
	FrontFaceCW                   // clockwise
)

// ColorMask is a bitmask of writable color channels.
type ColorMask uint8

const (
	ColorMaskR ColorMask = 1 << iota
	ColorMaskG
	ColorMaskB
	ColorMaskA

	ColorMaskAll = ColorMaskR | ColorMaskG | ColorMaskB | ColorMaskA
)

// MaterialBlend controls color blending. Func is only consulted when
// Enabled is true. Factors are expressed with ebiten's blend vocabulary so a
// renderer can hand them straight to the GPU layer.
type MaterialBlend struct {
	ColorWrite ColorMask
	Enabled    bool
	Func       ebiten.Blend
}

// DefaultBlend returns blending disabled with premultiplied-alpha factors
// ready for when it is turned on.
func DefaultBlend() MaterialBlend {
	return MaterialBlend{
		ColorWrite: ColorMaskAll,
		Func:       ebiten.BlendSourceOver,
	}
}

// GraphicsState is the fixed-function pipeline state of a material.
type GraphicsState struct {
	DepthTest  bool
	DepthWrite bool
	DepthOp    CompareOp
	CullMode   CullMode
	FrontFace  FrontFace
	Blend      MaterialBlend
}

// DefaultGraphicsState returns depth test and write on with a less-than
// comparison, back-face culling, CCW front faces and blending off.
func DefaultGraphicsState() GraphicsState {
	return GraphicsState{
		DepthTest:  true,
		DepthWrite: true,
		DepthOp:    CompareLess,
		CullMode:   CullBack,
		FrontFace:  FrontFaceCCW,
		Blend:      DefaultBlend(),
	}
}

// BuiltinValue names a value the renderer supplies to a material property.
type BuiltinValue uint8

const (
	BuiltinNone BuiltinValue = iota // property carries a custom value
	BuiltinModelMatrix
	BuiltinViewMatrix
	BuiltinProjectionMatrix
	BuiltinModelViewMatrix
	BuiltinViewProjectionMatrix
	BuiltinModelViewProjectionMatrix
	BuiltinNormalMatrix
)

// PropertyValue is either a builtin reference or a custom value such as a
// float32, int32 or an mgl32 vector/matrix.
type PropertyValue struct {
	Builtin BuiltinValue
	Custom  any
}

// Builtin returns a property value bound to a renderer-provided builtin.
func Builtin(b BuiltinValue) PropertyValue {
	return PropertyValue{Builtin: b}
}

// Custom returns a property value holding v.
func Custom(v any) PropertyValue {
	return PropertyValue{Custom: v}
}

// ShaderProperty declares a shader input and its default value.
type ShaderProperty struct {
	Name    string
	Default any
}

// ShaderSet is a vertex/fragment shader pair and the properties it declares.
type ShaderSet struct {
	VertexShader   string
	FragmentShader string
	Properties     []ShaderProperty
}

// Material is the authoring payload of a MaterialComponent.
type Material struct {
	ShaderSetID   uint32
	Properties    map[string]PropertyValue
	GraphicsState GraphicsState
}

// NewMaterial returns a material for the given shader set with default
// graphics state and no property values.
func NewMaterial(shaderSetID uint32) Material {
	return Material{
		ShaderSetID:   shaderSetID,
		Properties:    make(map[string]PropertyValue),
		GraphicsState: DefaultGraphicsState(),
	}
}

// EffectiveGraphicsState returns the state to draw with given the node's
// inherited opacity. Transparent geometry never writes depth, and
// semi-transparent geometry without its own blending gets premultiplied
// alpha blending.
func (m *Material) EffectiveGraphicsState(inheritedOpacity float32) GraphicsState {
	state := m.GraphicsState
	if inheritedOpacity < 1 || state.Blend.Enabled {
		state.DepthWrite = false
		if !state.Blend.Enabled {
			state.Blend = DefaultBlend()
			state.Blend.Enabled = true
		}
	}
	return state
}

// MaterialComponent is the per-frame record of a material: the effective
// graphics state last derived for its node.
type MaterialComponent struct {
	Effective GraphicsState
}
