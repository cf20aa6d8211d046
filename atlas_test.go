package tessera

import (
	"strings"
	"testing"
)

const singlePageJSON = `{
  "frames": {
    "hero.png": {
      "frame": {"x": 0, "y": 0, "w": 64, "h": 64},
      "rotated": false,
      "trimmed": false,
      "spriteSourceSize": {"x": 0, "y": 0, "w": 64, "h": 64},
      "sourceSize": {"w": 64, "h": 64}
    },
    "enemy.png": {
      "frame": {"x": 64, "y": 0, "w": 32, "h": 48},
      "rotated": false,
      "trimmed": false,
      "spriteSourceSize": {"x": 0, "y": 0, "w": 32, "h": 48},
      "sourceSize": {"w": 32, "h": 48}
    },
    "trimmed.png": {
      "frame": {"x": 100, "y": 50, "w": 60, "h": 58},
      "rotated": false,
      "trimmed": true,
      "spriteSourceSize": {"x": 2, "y": 3, "w": 60, "h": 58},
      "sourceSize": {"w": 64, "h": 64}
    },
    "rotated.png": {
      "frame": {"x": 200, "y": 0, "w": 48, "h": 32},
      "rotated": true,
      "trimmed": false,
      "spriteSourceSize": {"x": 0, "y": 0, "w": 48, "h": 32},
      "sourceSize": {"w": 32, "h": 48}
    }
  },
  "meta": {
    "image": "atlas.png",
    "size": {"w": 1024, "h": 1024}
  }
}`

const multiPageJSON = `{
  "textures": [
    {
      "image": "atlas-0.png",
      "frames": {
        "page0_sprite.png": {
          "frame": {"x": 0, "y": 0, "w": 64, "h": 64},
          "rotated": false,
          "trimmed": false,
          "spriteSourceSize": {"x": 0, "y": 0, "w": 64, "h": 64},
          "sourceSize": {"w": 64, "h": 64}
        }
      }
    },
    {
      "image": "atlas-1.png",
      "frames": {
        "page1_sprite.png": {
          "frame": {"x": 10, "y": 20, "w": 50, "h": 50},
          "rotated": false,
          "trimmed": false,
          "spriteSourceSize": {"x": 0, "y": 0, "w": 50, "h": 50},
          "sourceSize": {"w": 50, "h": 50}
        }
      }
    }
  ]
}`

func pageTex(name string, w, h int) *fakeTexture {
	t := newTex(name)
	t.w, t.h = w, h
	return t
}

func TestLoadAtlasSinglePage(t *testing.T) {
	atlas, err := LoadAtlas([]byte(singlePageJSON), []Texture{pageTex("atlas", 1024, 1024)})
	if err != nil {
		t.Fatalf("LoadAtlas: %v", err)
	}
	if atlas.Len() != 4 {
		t.Errorf("Len() = %d, want 4", atlas.Len())
	}

	r, ok := atlas.Region("enemy.png")
	if !ok {
		t.Fatal("enemy.png not found")
	}
	if r.X != 64 || r.Y != 0 || r.Width != 32 || r.Height != 48 || r.Page != 0 {
		t.Errorf("enemy.png = %+v", r)
	}

	if _, ok := atlas.Region("missing.png"); ok {
		t.Error("missing region reported as found")
	}
}

func TestLoadAtlasTrimmedAndRotated(t *testing.T) {
	atlas, err := LoadAtlas([]byte(singlePageJSON), []Texture{pageTex("atlas", 1024, 1024)})
	if err != nil {
		t.Fatalf("LoadAtlas: %v", err)
	}

	r, _ := atlas.Region("trimmed.png")
	if r.OffsetX != 2 || r.OffsetY != 3 {
		t.Errorf("trimmed offset = %d/%d, want 2/3", r.OffsetX, r.OffsetY)
	}
	if r.OriginalW != 64 || r.OriginalH != 64 || r.Width != 60 || r.Height != 58 {
		t.Errorf("trimmed sizes = %+v", r)
	}

	r, _ = atlas.Region("rotated.png")
	if !r.Rotated || r.Width != 48 || r.Height != 32 {
		t.Errorf("rotated = %+v", r)
	}
}

func TestLoadAtlasMultiPage(t *testing.T) {
	p0, p1 := pageTex("p0", 512, 512), pageTex("p1", 512, 512)
	atlas, err := LoadAtlas([]byte(multiPageJSON), []Texture{p0, p1})
	if err != nil {
		t.Fatalf("LoadAtlas: %v", err)
	}
	r, ok := atlas.Region("page1_sprite.png")
	if !ok || r.Page != 1 || r.X != 10 || r.Y != 20 {
		t.Errorf("page1_sprite.png = %+v, found %v", r, ok)
	}

	s, err := atlas.Sprite("page1_sprite.png")
	if err != nil {
		t.Fatalf("Sprite: %v", err)
	}
	if s.Texture != p1 || s.Type != NodeTypeSprite {
		t.Error("sprite should draw from page 1")
	}
}

func TestAtlasSpriteErrors(t *testing.T) {
	atlas, err := LoadAtlas([]byte(multiPageJSON), []Texture{pageTex("p0", 512, 512)})
	if err != nil {
		t.Fatalf("LoadAtlas: %v", err)
	}
	if _, err := atlas.Sprite("nope.png"); err == nil {
		t.Error("missing region should fail")
	}
	if _, err := atlas.Sprite("page1_sprite.png"); err == nil {
		t.Error("region on a missing page should fail")
	}
}

func TestLoadAtlasInvalid(t *testing.T) {
	if _, err := LoadAtlas([]byte("{not json"), nil); err == nil || !strings.HasPrefix(err.Error(), "tessera:") {
		t.Errorf("invalid JSON error = %v", err)
	}
	if _, err := LoadAtlas([]byte(`{"meta": {}}`), nil); err == nil {
		t.Error("JSON without frames should fail")
	}
}

func TestRegionQuad(t *testing.T) {
	tests := []struct {
		name   string
		region TextureRegion
		local  [4]Vec2
		uv     [4]Vec2
	}{
		{
			name:  "whole texture",
			local: [4]Vec2{{0, 0}, {100, 0}, {100, 50}, {0, 50}},
			uv:    [4]Vec2{{0, 0}, {1, 0}, {1, 1}, {0, 1}},
		},
		{
			name:   "trimmed",
			region: TextureRegion{X: 10, Y: 5, Width: 20, Height: 10, OffsetX: 2, OffsetY: 3},
			local:  [4]Vec2{{2, 3}, {22, 3}, {22, 13}, {2, 13}},
			uv:     [4]Vec2{{0.1, 0.1}, {0.3, 0.1}, {0.3, 0.3}, {0.1, 0.3}},
		},
		{
			name:   "rotated",
			region: TextureRegion{X: 10, Y: 5, Width: 20, Height: 10, Rotated: true},
			local:  [4]Vec2{{0, 0}, {20, 0}, {20, 10}, {0, 10}},
			uv:     [4]Vec2{{0.2, 0.1}, {0.2, 0.5}, {0.1, 0.5}, {0.1, 0.1}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			local, uv := regionQuad(tt.region, 100, 50)
			for i := range local {
				assertNear(t, "local.x", local[i].X, tt.local[i].X)
				assertNear(t, "local.y", local[i].Y, tt.local[i].Y)
				assertNear(t, "uv.x", uv[i].X, tt.uv[i].X)
				assertNear(t, "uv.y", uv[i].Y, tt.uv[i].Y)
			}
		})
	}
}
