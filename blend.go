package rsg

import "github.com/hajimehoshi/ebiten/v2"

// BlendMode names a blending setup for a material. Each maps to a specific
// ebiten.Blend value.
type BlendMode uint8

const (
	BlendNormal BlendMode = iota // source-over (standard alpha blending)
	BlendAdd                     // additive / lighter
	BlendNone                    // opaque copy (blending disabled)
)

// EbitenBlend returns the ebiten.Blend value corresponding to this BlendMode.
func (b BlendMode) EbitenBlend() ebiten.Blend {
	switch b {
	case BlendAdd:
		return ebiten.BlendLighter
	case BlendNone:
		return ebiten.BlendCopy
	default:
		return ebiten.BlendSourceOver
	}
}

// MaterialBlend returns a blend state for this mode with all color channels
// written. BlendNone yields blending disabled.
func (b BlendMode) MaterialBlend() MaterialBlend {
	return MaterialBlend{
		ColorWrite: ColorMaskAll,
		Enabled:    b != BlendNone,
		Func:       b.EbitenBlend(),
	}
}
