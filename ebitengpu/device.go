// Package ebitengpu implements tessera.Device on top of Ebitengine. Programs
// are Kage shaders; each draw call becomes one DrawTrianglesShader32 on the
// target image.
package ebitengpu

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/phanxgames/tessera"
)

// MaxTextureUnits is the number of source images a Kage shader can read.
const MaxTextureUnits = 4

// Texture wraps an ebiten image. Ebitengine stores premultiplied color.
type Texture struct {
	tessera.TextureBase
	img   *ebiten.Image
	ready bool
}

// NewTexture wraps img as a ready texture.
func NewTexture(img *ebiten.Image) *Texture {
	return &Texture{img: img, ready: true}
}

// Image returns the wrapped image.
func (t *Texture) Image() *ebiten.Image { return t.img }

// SetReady marks the texture as loaded or not.
func (t *Texture) SetReady(ready bool) { t.ready = ready }

func (t *Texture) Ready() bool              { return t.ready && t.img != nil }
func (t *Texture) PremultipliedAlpha() bool { return true }

func (t *Texture) Size() (w, h int) {
	b := t.img.Bounds()
	return b.Dx(), b.Dy()
}

type buffer struct {
	kind tessera.BufferKind
	data []byte
}

func (b *buffer) Kind() tessera.BufferKind { return b.kind }
func (b *buffer) Size() int                { return len(b.data) }

type shader struct {
	units  int
	shader *ebiten.Shader
}

func (s *shader) Units() int { return s.units }

// Device draws on a target image. Set the target each frame before the
// engine flushes.
type Device struct {
	target *ebiten.Image
	images [MaxTextureUnits]*ebiten.Image
	blend  ebiten.Blend

	verts []ebiten.Vertex
	inds  []uint32
}

var _ tessera.Device = (*Device)(nil)

// NewDevice creates a device drawing on target.
func NewDevice(target *ebiten.Image) *Device {
	return &Device{target: target, blend: ebiten.BlendSourceOver}
}

// SetTarget changes the image draw calls render into.
func (d *Device) SetTarget(target *ebiten.Image) { d.target = target }

func (d *Device) MaxTextureUnits() int     { return MaxTextureUnits }
func (d *Device) Dialect() tessera.Dialect { return Kage }

// Lost is always false; Ebitengine restores its own context.
func (d *Device) Lost() bool { return false }

func (d *Device) CreateBuffer(kind tessera.BufferKind, size int) (tessera.Buffer, error) {
	if size <= 0 {
		return nil, fmt.Errorf("ebitengpu: invalid buffer size %d", size)
	}
	return &buffer{kind: kind, data: make([]byte, size)}, nil
}

func (d *Device) BufferSubData(buf tessera.Buffer, offset int, data []byte) error {
	b, ok := buf.(*buffer)
	if !ok {
		return fmt.Errorf("ebitengpu: foreign buffer %T", buf)
	}
	if offset < 0 || offset+len(data) > len(b.data) {
		return fmt.Errorf("ebitengpu: write of %d bytes at %d overflows %d-byte buffer", len(data), offset, len(b.data))
	}
	copy(b.data[offset:], data)
	return nil
}

func (d *Device) CompileShader(units int, source string) (tessera.Shader, error) {
	if units < 1 || units > MaxTextureUnits {
		return nil, fmt.Errorf("ebitengpu: %d texture units unsupported", units)
	}
	sh, err := ebiten.NewShader([]byte(source))
	if err != nil {
		return nil, fmt.Errorf("ebitengpu: compile %d-unit shader: %w", units, err)
	}
	return &shader{units: units, shader: sh}, nil
}

func (d *Device) BindTexture(unit int, tex tessera.Texture) error {
	if unit < 0 || unit >= MaxTextureUnits {
		return fmt.Errorf("ebitengpu: texture unit %d out of range", unit)
	}
	t, ok := tex.(*Texture)
	if !ok {
		return fmt.Errorf("ebitengpu: foreign texture %T", tex)
	}
	d.images[unit] = t.img
	return nil
}

func (d *Device) SetBlendMode(mode tessera.BlendMode) error {
	d.blend = Blend(mode)
	return nil
}

func (d *Device) DrawIndexed(call tessera.DrawCall) error {
	if d.target == nil {
		return errors.New("ebitengpu: no target image")
	}
	sh, ok := call.Shader.(*shader)
	if !ok {
		return fmt.Errorf("ebitengpu: foreign shader %T", call.Shader)
	}
	vb, ok := call.Vertices.(*buffer)
	if !ok {
		return fmt.Errorf("ebitengpu: foreign vertex buffer %T", call.Vertices)
	}
	ib, ok := call.Indices.(*buffer)
	if !ok {
		return fmt.Errorf("ebitengpu: foreign index buffer %T", call.Indices)
	}
	if call.IndexCount == 0 {
		return nil
	}
	end := call.FirstIndex + call.IndexCount
	if end*2 > len(ib.data) {
		return fmt.Errorf("ebitengpu: indices [%d, %d) exceed index buffer", call.FirstIndex, end)
	}

	// Decode the referenced vertex range and rebase the indices onto it.
	lo, hi := int(^uint(0)>>1), -1
	for i := call.FirstIndex; i < end; i++ {
		v := int(binary.LittleEndian.Uint16(ib.data[i*2:]))
		lo = min(lo, v)
		hi = max(hi, v)
	}
	if (hi+1)*tessera.VertexStride > len(vb.data) {
		return fmt.Errorf("ebitengpu: vertex %d outside vertex buffer", hi)
	}
	d.verts = d.verts[:0]
	for v := lo; v <= hi; v++ {
		pv := tessera.UnpackVertex(vb.data[v*tessera.VertexStride:])
		d.verts = append(d.verts, ebiten.Vertex{
			DstX:    pv.X,
			DstY:    pv.Y,
			ColorR:  pv.R,
			ColorG:  pv.G,
			ColorB:  pv.B,
			ColorA:  pv.A,
			Custom0: pv.U,
			Custom1: pv.V,
			Custom2: pv.Slot,
		})
	}
	d.inds = d.inds[:0]
	for i := call.FirstIndex; i < end; i++ {
		d.inds = append(d.inds, uint32(int(binary.LittleEndian.Uint16(ib.data[i*2:]))-lo))
	}

	op := &ebiten.DrawTrianglesShaderOptions{Blend: d.blend}
	copy(op.Images[:sh.units], d.images[:sh.units])
	d.target.DrawTrianglesShader32(d.verts, d.inds, sh.shader, op)
	return nil
}
