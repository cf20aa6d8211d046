package softgpu

import (
	"image"
	"image/color"

	"github.com/chewxy/math32"

	"github.com/phanxgames/tessera"
)

// Texture is a CPU-resident RGBA texture with float32 channels in [0, 1].
type Texture struct {
	tessera.TextureBase

	w, h          int
	pix           []float32 // 4 per texel, row major
	premultiplied bool
	ready         bool
}

// NewTexture creates a transparent, ready w x h texture.
func NewTexture(w, h int, premultiplied bool) *Texture {
	return &Texture{
		w:             w,
		h:             h,
		pix:           make([]float32, w*h*4),
		premultiplied: premultiplied,
		ready:         true,
	}
}

// NewTextureFromImage copies img into a ready texture. With premultiplied
// the texels hold alpha-multiplied color, otherwise straight color.
func NewTextureFromImage(img image.Image, premultiplied bool) *Texture {
	b := img.Bounds()
	t := NewTexture(b.Dx(), b.Dy(), premultiplied)
	for y := 0; y < t.h; y++ {
		for x := 0; x < t.w; x++ {
			c := img.At(b.Min.X+x, b.Min.Y+y)
			if premultiplied {
				r, g, bl, a := c.RGBA()
				t.set(x, y, [4]float32{unit16(r), unit16(g), unit16(bl), unit16(a)})
			} else {
				n := color.NRGBA64Model.Convert(c).(color.NRGBA64)
				t.set(x, y, [4]float32{unit16(uint32(n.R)), unit16(uint32(n.G)), unit16(uint32(n.B)), unit16(uint32(n.A))})
			}
		}
	}
	return t
}

// NewSolidTexture creates a w x h texture filled with c. For a
// premultiplied texture the RGB channels are multiplied by c.A.
func NewSolidTexture(w, h int, c tessera.Color, premultiplied bool) *Texture {
	t := NewTexture(w, h, premultiplied)
	t.Fill(c)
	return t
}

func unit16(v uint32) float32 { return float32(v) / 0xffff }

// Fill sets every texel to c, premultiplying when the texture is.
func (t *Texture) Fill(c tessera.Color) {
	px := t.encode(c)
	for i := 0; i < len(t.pix); i += 4 {
		copy(t.pix[i:i+4], px[:])
	}
}

// Set stores c at (x, y), premultiplying when the texture is.
func (t *Texture) Set(x, y int, c tessera.Color) {
	t.set(x, y, t.encode(c))
}

func (t *Texture) encode(c tessera.Color) [4]float32 {
	px := [4]float32{float32(c.R), float32(c.G), float32(c.B), float32(c.A)}
	if t.premultiplied {
		px[0] *= px[3]
		px[1] *= px[3]
		px[2] *= px[3]
	}
	return px
}

func (t *Texture) set(x, y int, px [4]float32) {
	if x < 0 || y < 0 || x >= t.w || y >= t.h {
		return
	}
	copy(t.pix[(y*t.w+x)*4:], px[:])
}

// At returns the stored texel at (x, y).
func (t *Texture) At(x, y int) [4]float32 {
	i := (y*t.w + x) * 4
	return [4]float32{t.pix[i], t.pix[i+1], t.pix[i+2], t.pix[i+3]}
}

// sample returns the nearest texel to the normalized coordinate (u, v),
// clamping to the edge.
func (t *Texture) sample(u, v float32) [4]float32 {
	x := clampInt(int(math32.Floor(u*float32(t.w))), 0, t.w-1)
	y := clampInt(int(math32.Floor(v*float32(t.h))), 0, t.h-1)
	return t.At(x, y)
}

// SetReady marks the texture as loaded or not.
func (t *Texture) SetReady(ready bool) { t.ready = ready }

func (t *Texture) Ready() bool              { return t.ready }
func (t *Texture) PremultipliedAlpha() bool { return t.premultiplied }
func (t *Texture) Size() (w, h int)         { return t.w, t.h }

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
