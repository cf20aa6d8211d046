package tessera

import (
	"encoding/binary"
	"math"
	"math/bits"
)

// maxSizeClasses covers item counts up to 1<<14, the largest batch whose
// vertices are addressable by uint16 indices.
const maxSizeClasses = 15

// pooledBuffer is one size class: CPU scratch bytes plus the device buffer
// they are streamed into.
type pooledBuffer struct {
	data []byte
	gpu  Buffer
}

// vertexBufferPool keeps one vertex buffer per power-of-two item count.
// Buffers are created on first use of a size class and reused every flush.
type vertexBufferPool struct {
	classes [maxSizeClasses]pooledBuffer
	count   int
}

// acquire returns the buffer of the size class holding items quads.
func (p *vertexBufferPool) acquire(dev Device, items int) (*pooledBuffer, error) {
	n := nextPowerOfTwo(items)
	class := sizeClass(n)
	b := &p.classes[class]
	if b.gpu != nil {
		return b, nil
	}
	size := n * VerticesPerItem * VertexStride
	buf, err := dev.CreateBuffer(BufferVertex, size)
	if err != nil {
		return nil, err
	}
	b.data = make([]byte, size)
	b.gpu = buf
	p.count++
	return b, nil
}

// reset forgets every buffer; the device objects died with the context.
func (p *vertexBufferPool) reset() {
	p.classes = [maxSizeClasses]pooledBuffer{}
	p.count = 0
}

// nextPowerOfTwo returns the smallest power of two >= n (minimum 1).
func nextPowerOfTwo(n int) int {
	if n <= 1 {
		return 1
	}
	// Use float64 log2 then ceil, convert back.
	return 1 << int(math.Ceil(math.Log2(float64(n))))
}

// sizeClass returns log2 of a power of two.
func sizeClass(pow2 int) int {
	return bits.TrailingZeros(uint(pow2))
}

// quadIndices builds the static index pattern for quads quads: two triangles
// TL-TR-BR and TL-BR-BL per quad, little-endian uint16.
func quadIndices(quads int) []byte {
	out := make([]byte, quads*IndicesPerItem*2)
	for q := 0; q < quads; q++ {
		base := uint16(q * VerticesPerItem)
		o := out[q*IndicesPerItem*2:]
		for i, v := range [IndicesPerItem]uint16{0, 1, 2, 0, 2, 3} {
			binary.LittleEndian.PutUint16(o[i*2:], base+v)
		}
	}
	return out
}
