package tessera

// Color represents an RGBA color with components in [0, 1]. Not premultiplied.
// Premultiplication, where needed, happens when vertices are packed.
type Color struct {
	R, G, B, A float64
}

// ColorWhite is the default tint (no color modification).
var ColorWhite = Color{1, 1, 1, 1}

// Vec2 is a 2D vector used for positions, corners, and texture coordinates.
type Vec2 struct {
	X, Y float64
}

// Rect is an axis-aligned rectangle. The coordinate system has its origin at
// the top-left, with Y increasing downward.
type Rect struct {
	X, Y, Width, Height float64
}

// Contains reports whether the point (x, y) lies inside the rectangle.
// Points on the edge are considered inside.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x <= r.X+r.Width &&
		y >= r.Y && y <= r.Y+r.Height
}

// Intersects reports whether r and o overlap. Touching edges do not count.
func (r Rect) Intersects(o Rect) bool {
	return r.X < o.X+o.Width && r.X+r.Width > o.X &&
		r.Y < o.Y+o.Height && r.Y+r.Height > o.Y
}

// BlendMode selects a compositing operation. Devices translate a mode into
// their native blend state through [BlendMode.Func].
type BlendMode uint8

const (
	BlendNormal   BlendMode = iota // source-over (standard alpha blending)
	BlendAdd                       // additive / lighter
	BlendMultiply                  // multiply (source * destination; only darkens)
	BlendScreen                    // screen (1 - (1-src)*(1-dst); only brightens)
	BlendErase                     // destination-out (punch transparent holes)
	BlendMask                      // clip destination to source alpha
	BlendBelow                     // destination-over (draw behind existing content)
	BlendNone                      // opaque copy (skip blending)

	// Straight-alpha variants. The grouper resolves Normal, Add and Screen to
	// these when the item's texture is not premultiplied.
	BlendNormalNPM
	BlendAddNPM
	BlendScreenNPM
)

var blendModeNames = [...]string{
	BlendNormal:    "normal",
	BlendAdd:       "add",
	BlendMultiply:  "multiply",
	BlendScreen:    "screen",
	BlendErase:     "erase",
	BlendMask:      "mask",
	BlendBelow:     "below",
	BlendNone:      "none",
	BlendNormalNPM: "normal-npm",
	BlendAddNPM:    "add-npm",
	BlendScreenNPM: "screen-npm",
}

func (b BlendMode) String() string {
	if int(b) < len(blendModeNames) {
		return blendModeNames[b]
	}
	return "unknown"
}

// forAlpha resolves b against the alpha encoding of the texture being drawn.
func (b BlendMode) forAlpha(premultiplied bool) BlendMode {
	if premultiplied {
		return b
	}
	switch b {
	case BlendNormal:
		return BlendNormalNPM
	case BlendAdd:
		return BlendAddNPM
	case BlendScreen:
		return BlendScreenNPM
	}
	return b
}

// BlendFactor is a term of the fixed-function blend equation.
type BlendFactor uint8

const (
	BlendFactorZero BlendFactor = iota
	BlendFactorOne
	BlendFactorSourceColor
	BlendFactorOneMinusSourceColor
	BlendFactorSourceAlpha
	BlendFactorOneMinusSourceAlpha
	BlendFactorDestinationColor
	BlendFactorOneMinusDestinationColor
	BlendFactorDestinationAlpha
	BlendFactorOneMinusDestinationAlpha
)

// BlendFunc is the additive blend equation
// out = src*Src + dst*Dst, evaluated separately for RGB and alpha.
type BlendFunc struct {
	SrcRGB, SrcAlpha BlendFactor
	DstRGB, DstAlpha BlendFactor
}

// Func returns the blend equation for the mode.
func (b BlendMode) Func() BlendFunc {
	switch b {
	case BlendNormal:
		return BlendFunc{BlendFactorOne, BlendFactorOne, BlendFactorOneMinusSourceAlpha, BlendFactorOneMinusSourceAlpha}
	case BlendNormalNPM:
		return BlendFunc{BlendFactorSourceAlpha, BlendFactorOne, BlendFactorOneMinusSourceAlpha, BlendFactorOneMinusSourceAlpha}
	case BlendAdd:
		return BlendFunc{BlendFactorOne, BlendFactorOne, BlendFactorOne, BlendFactorOne}
	case BlendAddNPM:
		return BlendFunc{BlendFactorSourceAlpha, BlendFactorOne, BlendFactorOne, BlendFactorOne}
	case BlendMultiply:
		return BlendFunc{BlendFactorDestinationColor, BlendFactorDestinationAlpha, BlendFactorOneMinusSourceAlpha, BlendFactorOneMinusSourceAlpha}
	case BlendScreen:
		return BlendFunc{BlendFactorOne, BlendFactorOne, BlendFactorOneMinusSourceColor, BlendFactorOneMinusSourceAlpha}
	case BlendScreenNPM:
		return BlendFunc{BlendFactorSourceAlpha, BlendFactorOne, BlendFactorOneMinusSourceColor, BlendFactorOneMinusSourceAlpha}
	case BlendErase:
		return BlendFunc{BlendFactorZero, BlendFactorZero, BlendFactorOneMinusSourceAlpha, BlendFactorOneMinusSourceAlpha}
	case BlendMask:
		return BlendFunc{BlendFactorZero, BlendFactorZero, BlendFactorSourceAlpha, BlendFactorSourceAlpha}
	case BlendBelow:
		return BlendFunc{BlendFactorOneMinusDestinationAlpha, BlendFactorOneMinusDestinationAlpha, BlendFactorOne, BlendFactorOne}
	case BlendNone:
		return BlendFunc{BlendFactorOne, BlendFactorOne, BlendFactorZero, BlendFactorZero}
	default:
		return BlendNormal.Func()
	}
}

// NodeType distinguishes rendering behavior for a Node.
type NodeType uint8

const (
	NodeTypeContainer NodeType = iota // group node with no visual output
	NodeTypeSprite                    // renders a TextureRegion of a Texture as one batched quad
	NodeTypeCustom                    // draws directly on the Device outside the batcher
)
