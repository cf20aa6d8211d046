package tessera

import (
	"encoding/binary"
	"math"

	"github.com/chewxy/math32"
)

// Vertex layout, little endian, VertexStride bytes per vertex:
//
//	0  x      float32
//	4  y      float32
//	8  uv     uint16 u | uint16 v << 16, unsigned normalized
//	12 color  uint32 A<<24 | B<<16 | G<<8 | R
//	16 slot   float32 texture unit
const (
	VertexStride    = 20
	VerticesPerItem = 4
	IndicesPerItem  = 6
)

// packer writes interleaved vertices for kept items.
type packer struct {
	pixelSnap  bool
	resolution float32
}

// pack writes the group's items into buf starting at vertex group.Start*4.
func (p *packer) pack(items []DrawItem, slots []int, group BatchGroup, buf []byte) {
	off := group.Start * VerticesPerItem * VertexStride
	for i := group.Start; i < group.Start+group.Count; i++ {
		it := &items[i]
		color := PackColor(it.Tint, it.Alpha, it.Texture.PremultipliedAlpha())
		slot := float32(slots[i])
		for v := 0; v < VerticesPerItem; v++ {
			x := float32(it.Quad[v].X)
			y := float32(it.Quad[v].Y)
			if p.pixelSnap {
				x = snap(x, p.resolution)
				y = snap(y, p.resolution)
			}
			dst := buf[off : off+VertexStride]
			binary.LittleEndian.PutUint32(dst[0:], math.Float32bits(x))
			binary.LittleEndian.PutUint32(dst[4:], math.Float32bits(y))
			binary.LittleEndian.PutUint32(dst[8:], PackUV(it.UV[v].X, it.UV[v].Y))
			binary.LittleEndian.PutUint32(dst[12:], color)
			binary.LittleEndian.PutUint32(dst[16:], math.Float32bits(slot))
			off += VertexStride
		}
	}
}

func snap(v, resolution float32) float32 {
	return math32.Floor(v*resolution) / resolution
}

// PackUV quantizes a texture coordinate pair to two 16-bit unorm values.
func PackUV(u, v float64) uint32 {
	return uint32(unorm16(u)) | uint32(unorm16(v))<<16
}

func unorm16(c float64) uint16 {
	if c <= 0 {
		return 0
	}
	if c >= 1 {
		return math.MaxUint16
	}
	return uint16(c*math.MaxUint16 + 0.5)
}

func unorm8(c float64) uint32 {
	if c <= 0 {
		return 0
	}
	if c >= 1 {
		return math.MaxUint8
	}
	return uint32(c*math.MaxUint8 + 0.5)
}

// PackColor packs tint and alpha into one RGBA word. For a premultiplied
// texture drawn with alpha < 1 the RGB channels are scaled by alpha;
// otherwise the tint is stored unmodified.
func PackColor(tint Color, alpha float64, premultiplied bool) uint32 {
	r, g, b := tint.R, tint.G, tint.B
	if premultiplied && alpha < 1 {
		r *= alpha
		g *= alpha
		b *= alpha
	}
	return unorm8(r) | unorm8(g)<<8 | unorm8(b)<<16 | unorm8(alpha)<<24
}

// Vertex is the decoded form of one packed vertex.
type Vertex struct {
	X, Y       float32
	U, V       float32
	R, G, B, A float32 // [0, 1]
	Slot       float32
}

// UnpackVertex decodes the vertex at the start of b.
func UnpackVertex(b []byte) Vertex {
	uv := binary.LittleEndian.Uint32(b[8:])
	c := binary.LittleEndian.Uint32(b[12:])
	return Vertex{
		X:    math.Float32frombits(binary.LittleEndian.Uint32(b[0:])),
		Y:    math.Float32frombits(binary.LittleEndian.Uint32(b[4:])),
		U:    float32(uv&0xffff) / math.MaxUint16,
		V:    float32(uv>>16) / math.MaxUint16,
		R:    float32(c&0xff) / math.MaxUint8,
		G:    float32(c>>8&0xff) / math.MaxUint8,
		B:    float32(c>>16&0xff) / math.MaxUint8,
		A:    float32(c>>24) / math.MaxUint8,
		Slot: math.Float32frombits(binary.LittleEndian.Uint32(b[16:])),
	}
}

// SlotIndex recovers the integer unit from an interpolated slot attribute,
// the way the generated shaders do.
func SlotIndex(slot float32) int {
	return int(math32.Floor(slot + 0.5))
}
