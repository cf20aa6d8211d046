package tessera

import (
	"encoding/json"
	"errors"
	"fmt"
)

// TextureRegion describes a sub-rectangle of an atlas page in pixels.
// The zero value covers the whole texture.
type TextureRegion struct {
	Page      uint16 // index into Atlas.Pages
	X, Y      uint16 // top-left corner within the page
	Width     uint16 // authored width of the visible rect (trimmed)
	Height    uint16
	OriginalW uint16 // untrimmed size
	OriginalH uint16
	OffsetX   int16 // trim offset of the visible rect inside the untrimmed frame
	OffsetY   int16
	Rotated   bool // stored 90 degrees clockwise in the page
}

// IsZero reports whether r is the zero region.
func (r TextureRegion) IsZero() bool { return r == TextureRegion{} }

// Atlas holds atlas page textures and a map of named regions.
type Atlas struct {
	Pages   []Texture
	regions map[string]TextureRegion
}

// Region returns the named region.
func (a *Atlas) Region(name string) (TextureRegion, bool) {
	r, ok := a.regions[name]
	return r, ok
}

// Len returns the number of regions in the atlas.
func (a *Atlas) Len() int { return len(a.regions) }

// Sprite creates a sprite node for the named region on its page texture.
func (a *Atlas) Sprite(name string) (*Node, error) {
	r, ok := a.regions[name]
	if !ok {
		return nil, fmt.Errorf("tessera: atlas region %q not found", name)
	}
	if int(r.Page) >= len(a.Pages) {
		return nil, fmt.Errorf("tessera: atlas region %q references page %d of %d", name, r.Page, len(a.Pages))
	}
	return NewSprite(name, a.Pages[r.Page], r), nil
}

// LoadAtlas parses TexturePacker JSON and associates the page textures.
// Both the hash format (one "frames" object) and the multi-page array format
// ("textures" list) are accepted.
func LoadAtlas(data []byte, pages []Texture) (*Atlas, error) {
	var probe struct {
		Frames   json.RawMessage `json:"frames"`
		Textures json.RawMessage `json:"textures"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, fmt.Errorf("tessera: parse atlas JSON: %w", err)
	}

	atlas := &Atlas{Pages: pages, regions: make(map[string]TextureRegion)}
	switch {
	case probe.Textures != nil:
		var textures []jsonTexturePage
		if err := json.Unmarshal(probe.Textures, &textures); err != nil {
			return nil, fmt.Errorf("tessera: parse atlas textures: %w", err)
		}
		for i, tex := range textures {
			atlas.addFrames(tex.Frames, uint16(i))
		}
	case probe.Frames != nil:
		var frames map[string]jsonFrame
		if err := json.Unmarshal(probe.Frames, &frames); err != nil {
			return nil, fmt.Errorf("tessera: parse atlas frames: %w", err)
		}
		atlas.addFrames(frames, 0)
	default:
		return nil, errors.New(`tessera: atlas JSON has neither "frames" nor "textures" key`)
	}
	return atlas, nil
}

type jsonRect struct {
	X int `json:"x"`
	Y int `json:"y"`
	W int `json:"w"`
	H int `json:"h"`
}

type jsonSize struct {
	W int `json:"w"`
	H int `json:"h"`
}

type jsonFrame struct {
	Frame            jsonRect `json:"frame"`
	Rotated          bool     `json:"rotated"`
	Trimmed          bool     `json:"trimmed"`
	SpriteSourceSize jsonRect `json:"spriteSourceSize"`
	SourceSize       jsonSize `json:"sourceSize"`
}

type jsonTexturePage struct {
	Image  string               `json:"image"`
	Frames map[string]jsonFrame `json:"frames"`
}

func (a *Atlas) addFrames(frames map[string]jsonFrame, page uint16) {
	for name, f := range frames {
		a.regions[name] = TextureRegion{
			Page:      page,
			X:         uint16(f.Frame.X),
			Y:         uint16(f.Frame.Y),
			Width:     uint16(f.Frame.W),
			Height:    uint16(f.Frame.H),
			OriginalW: uint16(f.SourceSize.W),
			OriginalH: uint16(f.SourceSize.H),
			OffsetX:   int16(f.SpriteSourceSize.X),
			OffsetY:   int16(f.SpriteSourceSize.Y),
			Rotated:   f.Rotated,
		}
	}
}

// regionQuad returns the local corners (TL, TR, BR, BL) and normalized UVs of
// r on a texture of size tw x th.
func regionQuad(r TextureRegion, tw, th int) (local [4]Vec2, uv [4]Vec2) {
	fw, fh := float64(tw), float64(th)
	if r.IsZero() {
		local = [4]Vec2{{0, 0}, {fw, 0}, {fw, fh}, {0, fh}}
		uv = [4]Vec2{{0, 0}, {1, 0}, {1, 1}, {0, 1}}
		return local, uv
	}

	ox, oy := float64(r.OffsetX), float64(r.OffsetY)
	w, h := float64(r.Width), float64(r.Height)
	local = [4]Vec2{{ox, oy}, {ox + w, oy}, {ox + w, oy + h}, {ox, oy + h}}

	x, y := float64(r.X), float64(r.Y)
	if r.Rotated {
		// Stored rect is h wide and w tall; the visual top edge runs down
		// its right side.
		uv = [4]Vec2{{x + h, y}, {x + h, y + w}, {x, y + w}, {x, y}}
	} else {
		uv = [4]Vec2{{x, y}, {x + w, y}, {x + w, y + h}, {x, y + h}}
	}
	for i := range uv {
		uv[i].X /= fw
		uv[i].Y /= fh
	}
	return local, uv
}
