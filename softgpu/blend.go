package softgpu

import (
	"github.com/chewxy/math32"

	"github.com/phanxgames/tessera"
)

// blend applies dst = src*Src + dst*Dst in place, per the factors of fn.
func blend(dst []float32, src [4]float32, fn tessera.BlendFunc) {
	d := [4]float32{dst[0], dst[1], dst[2], dst[3]}
	for ch := 0; ch < 3; ch++ {
		v := src[ch]*factor(fn.SrcRGB, ch, src, d) + d[ch]*factor(fn.DstRGB, ch, src, d)
		dst[ch] = clamp01(v)
	}
	v := src[3]*factor(fn.SrcAlpha, 3, src, d) + d[3]*factor(fn.DstAlpha, 3, src, d)
	dst[3] = clamp01(v)
}

// factor evaluates f for channel ch.
func factor(f tessera.BlendFactor, ch int, src, dst [4]float32) float32 {
	switch f {
	case tessera.BlendFactorZero:
		return 0
	case tessera.BlendFactorOne:
		return 1
	case tessera.BlendFactorSourceColor:
		return src[ch]
	case tessera.BlendFactorOneMinusSourceColor:
		return 1 - src[ch]
	case tessera.BlendFactorSourceAlpha:
		return src[3]
	case tessera.BlendFactorOneMinusSourceAlpha:
		return 1 - src[3]
	case tessera.BlendFactorDestinationColor:
		return dst[ch]
	case tessera.BlendFactorOneMinusDestinationColor:
		return 1 - dst[ch]
	case tessera.BlendFactorDestinationAlpha:
		return dst[3]
	case tessera.BlendFactorOneMinusDestinationAlpha:
		return 1 - dst[3]
	}
	return 0
}

func clamp01(v float32) float32 {
	return math32.Max(0, math32.Min(1, v))
}
