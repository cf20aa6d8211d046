package softgpu

import (
	"fmt"

	"github.com/chewxy/math32"

	"github.com/phanxgames/tessera"
)

// rasterize fills the pixels whose centers fall inside tri, following the
// top-left rule so triangles sharing an edge never both cover a pixel.
func (d *Device) rasterize(tri *[3]tessera.Vertex, units int, fn tessera.BlendFunc) error {
	a, b, c := &tri[0], &tri[1], &tri[2]
	area := edge(a, b, c.X, c.Y)
	if area == 0 {
		return nil
	}
	if area < 0 {
		b, c = c, b
		area = -area
	}

	minX := clampInt(int(math32.Floor(min(a.X, b.X, c.X))), 0, d.opts.Width-1)
	maxX := clampInt(int(math32.Ceil(max(a.X, b.X, c.X))), 0, d.opts.Width-1)
	minY := clampInt(int(math32.Floor(min(a.Y, b.Y, c.Y))), 0, d.opts.Height-1)
	maxY := clampInt(int(math32.Ceil(max(a.Y, b.Y, c.Y))), 0, d.opts.Height-1)

	tlA := topLeft(b, c)
	tlB := topLeft(c, a)
	tlC := topLeft(a, b)

	for y := minY; y <= maxY; y++ {
		py := float32(y) + 0.5
		for x := minX; x <= maxX; x++ {
			px := float32(x) + 0.5
			wa := edge(b, c, px, py)
			wb := edge(c, a, px, py)
			wc := edge(a, b, px, py)
			if !inside(wa, tlA) || !inside(wb, tlB) || !inside(wc, tlC) {
				continue
			}
			wb /= area
			wc /= area
			lerp := func(fa, fb, fc float32) float32 {
				return fa + wb*(fb-fa) + wc*(fc-fa)
			}

			slot := tessera.SlotIndex(lerp(a.Slot, b.Slot, c.Slot))
			if slot < 0 {
				slot = 0
			}
			// The last branch of the generated chain catches every
			// higher slot.
			if slot >= units {
				slot = units - 1
			}
			tex := d.units[slot]
			if tex == nil {
				return fmt.Errorf("softgpu: sampling empty texture unit %d", slot)
			}
			texel := tex.sample(lerp(a.U, b.U, c.U), lerp(a.V, b.V, c.V))
			src := [4]float32{
				texel[0] * lerp(a.R, b.R, c.R),
				texel[1] * lerp(a.G, b.G, c.G),
				texel[2] * lerp(a.B, b.B, c.B),
				texel[3] * lerp(a.A, b.A, c.A),
			}
			i := (y*d.opts.Width + x) * 4
			blend(d.fb[i:i+4], src, fn)
		}
	}
	return nil
}

// edge is the signed doubled area of (p, q, (x, y)); positive on the
// clockwise side in y-down coordinates.
func edge(p, q *tessera.Vertex, x, y float32) float32 {
	return (q.X-p.X)*(y-p.Y) - (q.Y-p.Y)*(x-p.X)
}

// topLeft reports whether p->q is a top or left edge of a triangle with
// positive area.
func topLeft(p, q *tessera.Vertex) bool {
	dy := q.Y - p.Y
	return (dy == 0 && q.X > p.X) || dy < 0
}

func inside(w float32, tl bool) bool {
	return w > 0 || (w == 0 && tl)
}
