package ebitengpu

import (
	"github.com/hajimehoshi/ebiten/v2"

	"github.com/phanxgames/tessera"
)

var blendFactors = [...]ebiten.BlendFactor{
	tessera.BlendFactorZero:                     ebiten.BlendFactorZero,
	tessera.BlendFactorOne:                      ebiten.BlendFactorOne,
	tessera.BlendFactorSourceColor:              ebiten.BlendFactorSourceColor,
	tessera.BlendFactorOneMinusSourceColor:      ebiten.BlendFactorOneMinusSourceColor,
	tessera.BlendFactorSourceAlpha:              ebiten.BlendFactorSourceAlpha,
	tessera.BlendFactorOneMinusSourceAlpha:      ebiten.BlendFactorOneMinusSourceAlpha,
	tessera.BlendFactorDestinationColor:         ebiten.BlendFactorDestinationColor,
	tessera.BlendFactorOneMinusDestinationColor: ebiten.BlendFactorOneMinusDestinationColor,
	tessera.BlendFactorDestinationAlpha:         ebiten.BlendFactorDestinationAlpha,
	tessera.BlendFactorOneMinusDestinationAlpha: ebiten.BlendFactorOneMinusDestinationAlpha,
}

// Blend converts a tessera blend mode to the equivalent ebiten.Blend.
func Blend(mode tessera.BlendMode) ebiten.Blend {
	f := mode.Func()
	return ebiten.Blend{
		BlendFactorSourceRGB:        blendFactors[f.SrcRGB],
		BlendFactorSourceAlpha:      blendFactors[f.SrcAlpha],
		BlendFactorDestinationRGB:   blendFactors[f.DstRGB],
		BlendFactorDestinationAlpha: blendFactors[f.DstAlpha],
		BlendOperationRGB:           ebiten.BlendOperationAdd,
		BlendOperationAlpha:         ebiten.BlendOperationAdd,
	}
}
