package tessera

import (
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
)

// Dialect produces the fixed parts of a multi-texture fragment program in one
// shading language. The generated branch chain between Prelude and Epilogue
// assigns the sampled texel to a variable named c and, for more than one
// unit, compares an integer variable named slot; Prelude must declare both.
type Dialect interface {
	Name() string
	Prelude(units int) string
	// Sample returns an expression sampling the texture bound to unit.
	Sample(unit int) string
	Epilogue() string
}

// FragmentSource generates the program for units texture units:
//
//	if (slot == 0) { c = sample0; } else if (slot == 1) { ... } else { c = sampleN-1; }
func FragmentSource(d Dialect, units int) string {
	var b strings.Builder
	b.WriteString(d.Prelude(units))
	if units <= 1 {
		fmt.Fprintf(&b, "\tc = %s;\n", d.Sample(0))
	} else {
		for i := 0; i < units-1; i++ {
			if i == 0 {
				fmt.Fprintf(&b, "\tif (slot == %d) {\n", i)
			} else {
				fmt.Fprintf(&b, "\t} else if (slot == %d) {\n", i)
			}
			fmt.Fprintf(&b, "\t\tc = %s;\n", d.Sample(i))
		}
		b.WriteString("\t} else {\n")
		fmt.Fprintf(&b, "\t\tc = %s;\n", d.Sample(units-1))
		b.WriteString("\t}\n")
	}
	b.WriteString(d.Epilogue())
	return b.String()
}

// WGSL is the WebGPU shading language dialect. Vertex positions are in pixels;
// the viewport uniform holds (2/width, 2/height) in its first two lanes.
var WGSL Dialect = wgslDialect{}

type wgslDialect struct{}

func (wgslDialect) Name() string { return "wgsl" }

func (wgslDialect) Prelude(units int) string {
	var b strings.Builder
	b.WriteString(`struct VertexOutput {
	@builtin(position) position: vec4<f32>,
	@location(0) uv: vec2<f32>,
	@location(1) color: vec4<f32>,
	@location(2) slot: f32,
};

struct Viewport {
	scale: vec4<f32>,
};

@group(0) @binding(0) var<uniform> viewport: Viewport;
@group(0) @binding(1) var samp: sampler;
`)
	for i := 0; i < units; i++ {
		fmt.Fprintf(&b, "@group(1) @binding(%d) var tex%d: texture_2d<f32>;\n", i, i)
	}
	b.WriteString(`
@vertex
fn vs_main(@location(0) pos: vec2<f32>, @location(1) uv: vec2<f32>, @location(2) color: vec4<f32>, @location(3) slot: f32) -> VertexOutput {
	var vert: VertexOutput;
	vert.position = vec4<f32>(pos.x * viewport.scale.x - 1.0, 1.0 - pos.y * viewport.scale.y, 0.0, 1.0);
	vert.uv = uv;
	vert.color = color;
	vert.slot = slot;
	return vert;
}

@fragment
fn fs_main(frag: VertexOutput) -> @location(0) vec4<f32> {
`)
	if units > 1 {
		b.WriteString("\tlet slot = i32(floor(frag.slot + 0.5));\n")
	}
	b.WriteString("\tvar c = vec4<f32>(0.0, 0.0, 0.0, 0.0);\n")
	return b.String()
}

func (wgslDialect) Sample(unit int) string {
	return fmt.Sprintf("textureSampleLevel(tex%d, samp, frag.uv, 0.0)", unit)
}

func (wgslDialect) Epilogue() string {
	return "\treturn c * frag.color;\n}\n"
}

// shaderCache probes the device's usable texture-unit count once per context
// and memoizes one program per unit count.
type shaderCache struct {
	dev      Device
	log      zerolog.Logger
	unitCap  int // configured upper bound; 0 means device limit
	limit    int // probed; 0 until probed
	variants []Shader
}

// maxUnits returns the probed unit count, probing on first use.
func (c *shaderCache) maxUnits() (int, error) {
	if c.limit > 0 {
		return c.limit, nil
	}
	n := c.dev.MaxTextureUnits()
	if c.unitCap > 0 && c.unitCap < n {
		n = c.unitCap
	}
	if n < 1 {
		n = 1
	}
	d := c.dev.Dialect()
	for {
		sh, err := c.dev.CompileShader(n, FragmentSource(d, n))
		if err == nil {
			c.limit = n
			c.variants = make([]Shader, n+1)
			c.variants[n] = sh
			c.log.Info().Str("dialect", d.Name()).Int("units", n).Msg("probed texture units")
			return n, nil
		}
		if errors.Is(err, ErrContextLost) {
			return 0, err
		}
		if n == 1 {
			return 0, fmt.Errorf("%w: %w", ErrShaderUnsupported, err)
		}
		c.log.Warn().Err(err).Int("units", n).Msg("shader probe failed, halving")
		n /= 2
	}
}

// get returns the program for units texture units, compiling it on first use.
func (c *shaderCache) get(units int) (Shader, error) {
	limit, err := c.maxUnits()
	if err != nil {
		return nil, err
	}
	if units < 1 {
		units = 1
	}
	if units > limit {
		return nil, fmt.Errorf("tessera: shader with %d units exceeds probed limit %d", units, limit)
	}
	if sh := c.variants[units]; sh != nil {
		return sh, nil
	}
	sh, err := c.dev.CompileShader(units, FragmentSource(c.dev.Dialect(), units))
	if err != nil {
		return nil, fmt.Errorf("tessera: compile %d-unit shader: %w", units, err)
	}
	c.variants[units] = sh
	return sh, nil
}

func (c *shaderCache) reset() {
	c.limit = 0
	c.variants = nil
}
