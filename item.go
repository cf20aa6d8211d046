package tessera

import "sync/atomic"

// Texture is a GPU texture resource as seen by the batcher. Implementations
// embed a TextureBase, which carries the per-texture slot bookkeeping.
type Texture interface {
	// Ready reports whether the texture has finished loading. Items whose
	// texture is not ready are dropped from the frame.
	Ready() bool
	// PremultipliedAlpha reports whether the texel colors are premultiplied.
	PremultipliedAlpha() bool
	// Size returns the texture dimensions in pixels.
	Size() (w, h int)
	// Base returns the embedded bookkeeping record. Its address is the
	// texture's identity for batching.
	Base() *TextureBase
}

// TextureBase holds the batching tags of a texture. Embed it by value in a
// Texture implementation; the zero value is ready to use.
type TextureBase struct {
	gen  uint64 // tick of the last slot assignment
	slot int32  // unit assigned at gen
}

// Base returns b. It satisfies the Base method of Texture for embedders.
func (b *TextureBase) Base() *TextureBase { return b }

// sameTexture compares textures by identity.
func sameTexture(a, b Texture) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Base() == b.Base()
}

// tickSource issues generation ticks for every engine in the process, so a
// texture shared between engines never carries a tag another engine would
// accept as current. Tick 0 is never issued.
var tickSource atomic.Uint64

func nextTick() uint64 {
	return tickSource.Add(1)
}

// DrawItem is one fully-resolved sprite quad submitted to the engine.
// Items are copied on Submit; the caller keeps ownership of the Texture.
type DrawItem struct {
	// Quad holds the world-space corners in winding order TL, TR, BR, BL.
	Quad [4]Vec2
	// UV holds the texture coordinates of the corners, normalized to [0, 1].
	UV        [4]Vec2
	Texture   Texture
	Tint      Color // RGB used; A ignored
	Alpha     float64
	BlendMode BlendMode
}

// blendKey is the blend state the item needs on the GPU.
func (it *DrawItem) blendKey() BlendMode {
	return it.BlendMode.forAlpha(it.Texture.PremultipliedAlpha())
}

// BatchGroup is a contiguous run of items drawn with one draw call.
type BatchGroup struct {
	Start, Count int
	// Textures[i] is the texture bound to unit i while the group draws.
	Textures  []Texture
	BlendMode BlendMode
}
