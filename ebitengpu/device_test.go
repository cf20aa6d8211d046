package ebitengpu

import (
	"strings"
	"testing"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/phanxgames/tessera"
)

func TestBlendMatchesEbitenPresets(t *testing.T) {
	modes := []struct {
		mode   tessera.BlendMode
		expect ebiten.Blend
	}{
		{tessera.BlendNormal, ebiten.BlendSourceOver},
		{tessera.BlendAdd, ebiten.BlendLighter},
		{tessera.BlendErase, ebiten.BlendDestinationOut},
		{tessera.BlendBelow, ebiten.BlendDestinationOver},
		{tessera.BlendNone, ebiten.BlendCopy},
	}
	for _, tt := range modes {
		t.Run(tt.mode.String(), func(t *testing.T) {
			if got := Blend(tt.mode); got != tt.expect {
				t.Errorf("Blend(%v) = %v, want %v", tt.mode, got, tt.expect)
			}
		})
	}
}

func TestBlendMultiply(t *testing.T) {
	got := Blend(tessera.BlendMultiply)
	if got.BlendFactorSourceRGB != ebiten.BlendFactorDestinationColor {
		t.Errorf("source RGB = %v, want DestinationColor", got.BlendFactorSourceRGB)
	}
	if got.BlendFactorDestinationRGB != ebiten.BlendFactorOneMinusSourceAlpha {
		t.Errorf("destination RGB = %v, want OneMinusSourceAlpha", got.BlendFactorDestinationRGB)
	}
}

func TestKageSource(t *testing.T) {
	src := tessera.FragmentSource(Kage, MaxTextureUnits)
	for _, want := range []string{
		"//kage:unit pixels",
		"package main",
		"func Fragment(dstPos vec4, srcPos vec2, color vec4, custom vec4) vec4 {",
		"slot := int(floor(custom.z + 0.5))",
		"imageSrc3At(imageSrc3Origin() + uv*imageSrc3Size())",
		"return c * color",
	} {
		if !strings.Contains(src, want) {
			t.Errorf("source missing %q", want)
		}
	}
	if strings.Contains(src, "imageSrc4") {
		t.Error("source samples past the last unit")
	}

	one := tessera.FragmentSource(Kage, 1)
	if strings.Contains(one, "slot") {
		t.Error("single-unit source should not declare slot")
	}
}

func TestDeviceRejectsBadUnits(t *testing.T) {
	d := NewDevice(nil)
	if _, err := d.CompileShader(MaxTextureUnits+1, ""); err == nil {
		t.Error("CompileShader accepted too many units")
	}
	if err := d.BindTexture(MaxTextureUnits, &Texture{}); err == nil {
		t.Error("BindTexture accepted unit out of range")
	}
	if err := d.DrawIndexed(tessera.DrawCall{}); err == nil {
		t.Error("DrawIndexed without a target should fail")
	}
}

func TestBufferSubDataBounds(t *testing.T) {
	d := NewDevice(nil)
	buf, err := d.CreateBuffer(tessera.BufferVertex, 8)
	if err != nil {
		t.Fatal(err)
	}
	if err := d.BufferSubData(buf, 4, make([]byte, 8)); err == nil {
		t.Error("overflowing write accepted")
	}
	if err := d.BufferSubData(buf, 0, make([]byte, 8)); err != nil {
		t.Errorf("BufferSubData = %v", err)
	}
}
