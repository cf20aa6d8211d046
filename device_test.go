package tessera

import (
	"errors"
	"fmt"
	"strings"
)

type fakeTexture struct {
	TextureBase
	name   string
	ready  bool
	premul bool
	w, h   int
}

func newTex(name string) *fakeTexture {
	return &fakeTexture{name: name, ready: true, premul: true, w: 16, h: 16}
}

func (t *fakeTexture) Ready() bool              { return t.ready }
func (t *fakeTexture) PremultipliedAlpha() bool { return t.premul }
func (t *fakeTexture) Size() (int, int)         { return t.w, t.h }
func (t *fakeTexture) String() string           { return t.name }

type fakeBuffer struct {
	kind BufferKind
	data []byte
}

func (b *fakeBuffer) Kind() BufferKind { return b.kind }
func (b *fakeBuffer) Size() int        { return len(b.data) }

type fakeShader struct{ units int }

func (s *fakeShader) Units() int { return s.units }

type bindCall struct {
	unit int
	tex  Texture
}

// fakeDevice records every call the engine makes.
type fakeDevice struct {
	units     int
	failAbove int // compiles with more units fail; 0 never fails
	failAll   bool
	lost      bool
	loseOn    string // call name that loses the context

	compiled []int
	buffers  []*fakeBuffer
	binds    []bindCall
	blends   []BlendMode
	draws    []DrawCall
	calls    []string
}

func newFakeDevice(units int) *fakeDevice {
	return &fakeDevice{units: units}
}

func (d *fakeDevice) record(name string) error {
	d.calls = append(d.calls, name)
	if d.loseOn == name {
		d.lost = true
	}
	if d.lost {
		return fmt.Errorf("fake %s: %w", name, ErrContextLost)
	}
	return nil
}

func (d *fakeDevice) MaxTextureUnits() int { return d.units }
func (d *fakeDevice) Dialect() Dialect     { return WGSL }
func (d *fakeDevice) Lost() bool           { return d.lost }

func (d *fakeDevice) CreateBuffer(kind BufferKind, size int) (Buffer, error) {
	if err := d.record("create"); err != nil {
		return nil, err
	}
	b := &fakeBuffer{kind: kind, data: make([]byte, size)}
	d.buffers = append(d.buffers, b)
	return b, nil
}

func (d *fakeDevice) BufferSubData(buf Buffer, offset int, data []byte) error {
	if err := d.record("upload"); err != nil {
		return err
	}
	b := buf.(*fakeBuffer)
	if offset+len(data) > len(b.data) {
		return errors.New("fake: overflow")
	}
	copy(b.data[offset:], data)
	return nil
}

func (d *fakeDevice) CompileShader(units int, source string) (Shader, error) {
	if err := d.record("compile"); err != nil {
		return nil, err
	}
	d.compiled = append(d.compiled, units)
	if d.failAll || (d.failAbove > 0 && units > d.failAbove) {
		return nil, fmt.Errorf("fake: too many samplers (%d)", units)
	}
	if !strings.Contains(source, "fs_main") {
		return nil, errors.New("fake: no entry point")
	}
	return &fakeShader{units: units}, nil
}

func (d *fakeDevice) BindTexture(unit int, tex Texture) error {
	if err := d.record("bind"); err != nil {
		return err
	}
	d.binds = append(d.binds, bindCall{unit, tex})
	return nil
}

func (d *fakeDevice) SetBlendMode(mode BlendMode) error {
	if err := d.record("blend"); err != nil {
		return err
	}
	d.blends = append(d.blends, mode)
	return nil
}

func (d *fakeDevice) DrawIndexed(call DrawCall) error {
	if err := d.record("draw"); err != nil {
		return err
	}
	d.draws = append(d.draws, call)
	return nil
}

func (d *fakeDevice) reset() {
	d.compiled = nil
	d.binds = nil
	d.blends = nil
	d.draws = nil
	d.calls = nil
}

// quadItem returns an item covering a w x h rectangle at (x, y).
func quadItem(tex Texture, mode BlendMode, x, y, w, h float64) DrawItem {
	return DrawItem{
		Quad:      [4]Vec2{{x, y}, {x + w, y}, {x + w, y + h}, {x, y + h}},
		UV:        [4]Vec2{{0, 0}, {1, 0}, {1, 1}, {0, 1}},
		Texture:   tex,
		Tint:      ColorWhite,
		Alpha:     1,
		BlendMode: mode,
	}
}

func item(tex Texture, mode BlendMode) DrawItem {
	return quadItem(tex, mode, 0, 0, 1, 1)
}
