package tessera

import (
	"time"

	"github.com/rs/zerolog"
)

// FrameStats holds per-frame batching and draw-call metrics. Counters
// accumulate across the flushes of a frame and reset on PreRender.
type FrameStats struct {
	Frame           uint64
	Items           int // submitted
	Dropped         int // texture not ready
	Groups          int
	Unbatched       int // groups without multi-texturing; Debug only
	DrawCalls       int
	TextureBinds    int
	BlendChanges    int
	ShaderSwitches  int
	Flushes         int
	ImplicitFlushes int
	BytesUploaded   int
	FlushTime       time.Duration
}

// MarshalZerologObject lets the stats be logged as one structured field.
func (s FrameStats) MarshalZerologObject(e *zerolog.Event) {
	e.Uint64("frame", s.Frame).
		Int("items", s.Items).
		Int("dropped", s.Dropped).
		Int("groups", s.Groups).
		Int("unbatched_groups", s.Unbatched).
		Int("draw_calls", s.DrawCalls).
		Int("texture_binds", s.TextureBinds).
		Int("blend_changes", s.BlendChanges).
		Int("shader_switches", s.ShaderSwitches).
		Int("flushes", s.Flushes).
		Int("implicit_flushes", s.ImplicitFlushes).
		Int("bytes_uploaded", s.BytesUploaded).
		Dur("flush_time", s.FlushTime)
}

// countGroups counts contiguous runs of items sharing a blend key and a
// texture, the groups an engine without texture units would produce.
func countGroups(items []DrawItem) int {
	count := 0
	var prevTex Texture
	var prevMode BlendMode
	for i := range items {
		it := &items[i]
		if it.Texture == nil || !it.Texture.Ready() {
			continue
		}
		mode := it.blendKey()
		if count == 0 || mode != prevMode || !sameTexture(it.Texture, prevTex) {
			count++
			prevTex = it.Texture
			prevMode = mode
		}
	}
	return count
}
