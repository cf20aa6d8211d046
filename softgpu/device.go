// Package softgpu is a CPU implementation of tessera.Device. It rasterizes
// indexed triangles into a float32 framebuffer with the fixed-function blend
// equations of the tessera blend modes, and can validate every generated
// WGSL program with naga.
package softgpu

import (
	"encoding/binary"
	"errors"
	"fmt"
	"image"
	"image/color"

	"github.com/gogpu/naga"

	"github.com/phanxgames/tessera"
)

// DefaultMaxTextureUnits is the texture-unit count reported when Options
// leaves it unset.
const DefaultMaxTextureUnits = 8

// Options configures a Device.
type Options struct {
	Width, Height int
	// MaxTextureUnits is the capability reported before probing.
	MaxTextureUnits int
	// MaxSamplers makes programs addressing more units fail to compile,
	// the way a driver with fewer samplers than advertised does. Zero
	// disables the limit.
	MaxSamplers int
	// ValidateWGSL compiles every program to SPIR-V with naga and reports
	// compile errors.
	ValidateWGSL bool
}

// Counters tracks the calls a Device received.
type Counters struct {
	Compiles     int
	Binds        int
	BlendChanges int
	Draws        int
	Triangles    int
	Uploads      int
	BytesWritten int
}

// Device rasterizes on the CPU. The framebuffer holds premultiplied color.
type Device struct {
	opts  Options
	fb    []float32
	units []*Texture
	blend tessera.BlendMode
	lost  bool
	epoch int

	Counters Counters
}

var _ tessera.Device = (*Device)(nil)

// NewDevice creates a device with a transparent framebuffer.
func NewDevice(opts Options) (*Device, error) {
	if opts.Width <= 0 || opts.Height <= 0 {
		return nil, fmt.Errorf("softgpu: invalid framebuffer size %dx%d", opts.Width, opts.Height)
	}
	if opts.MaxTextureUnits == 0 {
		opts.MaxTextureUnits = DefaultMaxTextureUnits
	}
	return &Device{
		opts:  opts,
		fb:    make([]float32, opts.Width*opts.Height*4),
		units: make([]*Texture, opts.MaxTextureUnits),
	}, nil
}

type buffer struct {
	kind  tessera.BufferKind
	data  []byte
	epoch int
}

func (b *buffer) Kind() tessera.BufferKind { return b.kind }
func (b *buffer) Size() int                { return len(b.data) }

type shader struct {
	units int
	spirv []byte
	epoch int
}

func (s *shader) Units() int { return s.units }

func errLost(op string) error {
	return fmt.Errorf("softgpu: %s: %w", op, tessera.ErrContextLost)
}

func (d *Device) MaxTextureUnits() int     { return d.opts.MaxTextureUnits }
func (d *Device) Dialect() tessera.Dialect { return tessera.WGSL }
func (d *Device) Lost() bool               { return d.lost }

func (d *Device) CreateBuffer(kind tessera.BufferKind, size int) (tessera.Buffer, error) {
	if d.lost {
		return nil, errLost("create buffer")
	}
	if size <= 0 {
		return nil, fmt.Errorf("softgpu: invalid buffer size %d", size)
	}
	return &buffer{kind: kind, data: make([]byte, size), epoch: d.epoch}, nil
}

func (d *Device) BufferSubData(buf tessera.Buffer, offset int, data []byte) error {
	if d.lost {
		return errLost("buffer sub data")
	}
	b, err := d.buffer(buf)
	if err != nil {
		return err
	}
	if offset < 0 || offset+len(data) > len(b.data) {
		return fmt.Errorf("softgpu: write of %d bytes at %d overflows %d-byte buffer", len(data), offset, len(b.data))
	}
	copy(b.data[offset:], data)
	d.Counters.Uploads++
	d.Counters.BytesWritten += len(data)
	return nil
}

func (d *Device) buffer(buf tessera.Buffer) (*buffer, error) {
	b, ok := buf.(*buffer)
	if !ok || b == nil {
		return nil, fmt.Errorf("softgpu: foreign buffer %T", buf)
	}
	if b.epoch != d.epoch {
		return nil, errors.New("softgpu: buffer belongs to a previous context")
	}
	return b, nil
}

func (d *Device) CompileShader(units int, source string) (tessera.Shader, error) {
	if d.lost {
		return nil, errLost("compile shader")
	}
	d.Counters.Compiles++
	if units < 1 || units > d.opts.MaxTextureUnits {
		return nil, fmt.Errorf("softgpu: %d texture units unsupported", units)
	}
	if d.opts.MaxSamplers > 0 && units > d.opts.MaxSamplers {
		return nil, fmt.Errorf("softgpu: program uses %d samplers, driver limit is %d", units, d.opts.MaxSamplers)
	}
	sh := &shader{units: units, epoch: d.epoch}
	if d.opts.ValidateWGSL {
		spirv, err := naga.Compile(source)
		if err != nil {
			return nil, fmt.Errorf("softgpu: compile %d-unit program: %w", units, err)
		}
		sh.spirv = spirv
	}
	return sh, nil
}

func (d *Device) BindTexture(unit int, tex tessera.Texture) error {
	if d.lost {
		return errLost("bind texture")
	}
	if unit < 0 || unit >= len(d.units) {
		return fmt.Errorf("softgpu: texture unit %d out of range", unit)
	}
	t, ok := tex.(*Texture)
	if !ok {
		return fmt.Errorf("softgpu: foreign texture %T", tex)
	}
	d.units[unit] = t
	d.Counters.Binds++
	return nil
}

func (d *Device) SetBlendMode(mode tessera.BlendMode) error {
	if d.lost {
		return errLost("set blend mode")
	}
	d.blend = mode
	d.Counters.BlendChanges++
	return nil
}

func (d *Device) DrawIndexed(call tessera.DrawCall) error {
	if d.lost {
		return errLost("draw")
	}
	sh, ok := call.Shader.(*shader)
	if !ok || sh.epoch != d.epoch {
		return fmt.Errorf("softgpu: invalid program %T", call.Shader)
	}
	vb, err := d.buffer(call.Vertices)
	if err != nil {
		return err
	}
	ib, err := d.buffer(call.Indices)
	if err != nil {
		return err
	}
	if call.IndexCount%3 != 0 {
		return fmt.Errorf("softgpu: index count %d is not a triangle list", call.IndexCount)
	}
	if (call.FirstIndex+call.IndexCount)*2 > len(ib.data) {
		return fmt.Errorf("softgpu: indices [%d, %d) exceed index buffer", call.FirstIndex, call.FirstIndex+call.IndexCount)
	}

	fn := d.blend.Func()
	var tri [3]tessera.Vertex
	for i := 0; i < call.IndexCount; i += 3 {
		for k := 0; k < 3; k++ {
			idx := int(binary.LittleEndian.Uint16(ib.data[(call.FirstIndex+i+k)*2:]))
			off := idx * tessera.VertexStride
			if off+tessera.VertexStride > len(vb.data) {
				return fmt.Errorf("softgpu: vertex %d outside vertex buffer", idx)
			}
			tri[k] = tessera.UnpackVertex(vb.data[off:])
		}
		if err := d.rasterize(&tri, sh.units, fn); err != nil {
			return err
		}
		d.Counters.Triangles++
	}
	d.Counters.Draws++
	return nil
}

// LoseContext simulates a lost context. Every call fails until RestoreContext.
func (d *Device) LoseContext() { d.lost = true }

// RestoreContext recreates the context. Objects created before are invalid
// and the texture units are empty. The framebuffer survives.
func (d *Device) RestoreContext() {
	d.lost = false
	d.epoch++
	clear(d.units)
	d.blend = tessera.BlendNormal
}

// Clear fills the framebuffer with c, premultiplied.
func (d *Device) Clear(c tessera.Color) {
	a := float32(c.A)
	px := [4]float32{float32(c.R) * a, float32(c.G) * a, float32(c.B) * a, a}
	for i := 0; i < len(d.fb); i += 4 {
		copy(d.fb[i:i+4], px[:])
	}
}

// Pixel returns the premultiplied framebuffer color at (x, y).
func (d *Device) Pixel(x, y int) [4]float32 {
	i := (y*d.opts.Width + x) * 4
	return [4]float32{d.fb[i], d.fb[i+1], d.fb[i+2], d.fb[i+3]}
}

// Bounds returns the framebuffer size.
func (d *Device) Bounds() (w, h int) { return d.opts.Width, d.opts.Height }

// Image reads the framebuffer back as an 8-bit premultiplied image.
func (d *Device) Image() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, d.opts.Width, d.opts.Height))
	for y := 0; y < d.opts.Height; y++ {
		for x := 0; x < d.opts.Width; x++ {
			p := d.Pixel(x, y)
			img.SetRGBA(x, y, color.RGBA{R: to8(p[0]), G: to8(p[1]), B: to8(p[2]), A: to8(p[3])})
		}
	}
	return img
}

func to8(v float32) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 1 {
		return 0xff
	}
	return uint8(v*0xff + 0.5)
}
