package tessera

import (
	"testing"
)

// setupBenchScene creates a scene with n sprites spread over texs.
func setupBenchScene(n int, texs []Texture) *Scene {
	s := NewScene()
	root := s.Root()
	for i := 0; i < n; i++ {
		sp := NewSprite("sp", texs[i%len(texs)], TextureRegion{})
		sp.X = float64(i%100) * 40
		sp.Y = float64(i/100) * 40
		root.AddChild(sp)
	}
	return s
}

func benchTextures(n int) []Texture {
	texs := make([]Texture, n)
	for i := range texs {
		texs[i] = newTex("t")
	}
	return texs
}

func BenchmarkDraw_10000Sprites_Static(b *testing.B) {
	s := setupBenchScene(10000, benchTextures(8))
	e, err := NewEngine(newFakeDevice(8), DefaultConfig())
	if err != nil {
		b.Fatal(err)
	}
	if err := s.Draw(e); err != nil {
		b.Fatal(err)
	}

	b.ReportAllocs()
	for b.Loop() {
		if err := s.Draw(e); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkDraw_10000Sprites_Rotating(b *testing.B) {
	s := setupBenchScene(10000, benchTextures(8))
	e, err := NewEngine(newFakeDevice(8), DefaultConfig())
	if err != nil {
		b.Fatal(err)
	}
	children := s.Root().Children()

	b.ReportAllocs()
	for b.Loop() {
		for _, child := range children {
			child.SetRotation(child.Rotation + 0.01)
		}
		if err := s.Draw(e); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkGroup_4096Items_16Textures(b *testing.B) {
	texs := benchTextures(16)
	items := make([]DrawItem, 4096)
	for i := range items {
		items[i] = item(texs[(i*7)%len(texs)], BlendNormal)
	}
	scratch := make([]DrawItem, len(items))
	g := newGrouper(8)

	b.ReportAllocs()
	for b.Loop() {
		copy(scratch, items)
		g.group(scratch, nil)
	}
}

func BenchmarkPack_4096Items(b *testing.B) {
	tex := newTex("a")
	items := make([]DrawItem, 4096)
	slots := make([]int, len(items))
	for i := range items {
		items[i] = quadItem(tex, BlendNormal, float64(i), 0, 16, 16)
	}
	buf := make([]byte, len(items)*VerticesPerItem*VertexStride)
	p := packer{pixelSnap: true, resolution: 1}
	group := BatchGroup{Count: len(items)}

	b.ReportAllocs()
	for b.Loop() {
		p.pack(items, slots, group, buf)
	}
}
