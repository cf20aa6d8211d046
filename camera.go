package tessera

import (
	"math"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// scrollAnim holds active scroll-to tweens for camera X and Y.
type scrollAnim struct {
	tweenX *gween.Tween
	tweenY *gween.Tween
	doneX  bool
	doneY  bool
}

// Camera maps world space to the device's framebuffer: position, zoom,
// rotation, and viewport. Sprites whose screen quad misses the viewport are
// not submitted when CullEnabled is set.
type Camera struct {
	// X and Y are the world-space position the camera centers on.
	X, Y float64
	// Zoom is the scale factor (1.0 = no zoom, >1 = zoom in, <1 = zoom out).
	Zoom float64
	// Rotation is the camera rotation in radians (clockwise).
	Rotation float64
	// Viewport is the framebuffer rectangle the camera centers on.
	Viewport Rect

	CullEnabled bool

	followTarget  *Node
	followOffsetX float64
	followOffsetY float64
	followLerp    float64

	// BoundsEnabled clamps the camera position so the visible area stays
	// within Bounds.
	BoundsEnabled bool
	Bounds        Rect

	viewMatrix    affine
	invViewMatrix affine
	dirty         bool

	scrollTween *scrollAnim
}

// NewCamera creates a Camera centered on the origin with culling enabled.
func NewCamera(viewport Rect) *Camera {
	return &Camera{
		Zoom:        1.0,
		Viewport:    viewport,
		CullEnabled: true,
		dirty:       true,
	}
}

// Follow makes the camera track a target node with the given offset and lerp factor.
// A lerp of 1.0 snaps immediately; lower values give smoother following.
func (c *Camera) Follow(node *Node, offsetX, offsetY, lerp float64) {
	c.followTarget = node
	c.followOffsetX = offsetX
	c.followOffsetY = offsetY
	c.followLerp = lerp
}

// Unfollow stops tracking the current target node.
func (c *Camera) Unfollow() {
	c.followTarget = nil
}

// ScrollTo animates the camera to the given world position over duration seconds.
func (c *Camera) ScrollTo(x, y float64, duration float32, easeFn ease.TweenFunc) {
	c.scrollTween = &scrollAnim{
		tweenX: gween.New(float32(c.X), float32(x), duration, easeFn),
		tweenY: gween.New(float32(c.Y), float32(y), duration, easeFn),
	}
}

// SetBounds enables camera bounds clamping.
func (c *Camera) SetBounds(bounds Rect) {
	c.BoundsEnabled = true
	c.Bounds = bounds
}

// ClearBounds disables camera bounds clamping.
func (c *Camera) ClearBounds() {
	c.BoundsEnabled = false
}

// update advances follow, scroll, and bounds clamping. Called from Scene.Update.
func (c *Camera) update(dt float32) {
	prevX, prevY := c.X, c.Y
	prevZoom, prevRot := c.Zoom, c.Rotation

	if c.followTarget != nil && !c.followTarget.IsDisposed() {
		targetX := c.followTarget.worldTransform[4] + c.followOffsetX
		targetY := c.followTarget.worldTransform[5] + c.followOffsetY
		c.X += (targetX - c.X) * c.followLerp
		c.Y += (targetY - c.Y) * c.followLerp
	}

	if c.scrollTween != nil {
		if !c.scrollTween.doneX {
			val, done := c.scrollTween.tweenX.Update(dt)
			c.X = float64(val)
			c.scrollTween.doneX = done
		}
		if !c.scrollTween.doneY {
			val, done := c.scrollTween.tweenY.Update(dt)
			c.Y = float64(val)
			c.scrollTween.doneY = done
		}
		if c.scrollTween.doneX && c.scrollTween.doneY {
			c.scrollTween = nil
		}
	}

	if c.BoundsEnabled {
		c.clampToBounds()
	}

	if c.X != prevX || c.Y != prevY || c.Zoom != prevZoom || c.Rotation != prevRot {
		c.dirty = true
	}
}

// clampToBounds restricts camera position so the visible area stays within
// Bounds, centering on Bounds when it is smaller than the visible area.
func (c *Camera) clampToBounds() {
	halfW := c.Viewport.Width / (2 * c.Zoom)
	halfH := c.Viewport.Height / (2 * c.Zoom)

	minX := c.Bounds.X + halfW
	maxX := c.Bounds.X + c.Bounds.Width - halfW
	minY := c.Bounds.Y + halfH
	maxY := c.Bounds.Y + c.Bounds.Height - halfH

	if minX > maxX {
		c.X = c.Bounds.X + c.Bounds.Width/2
	} else {
		c.X = math.Max(minX, math.Min(c.X, maxX))
	}
	if minY > maxY {
		c.Y = c.Bounds.Y + c.Bounds.Height/2
	} else {
		c.Y = math.Max(minY, math.Min(c.Y, maxY))
	}
}

// viewTransform returns the cached view matrix, recomputing it when dirty.
//
//	view = Translate(cx, cy) * Scale(zoom) * Rotate(-rotation) * Translate(-X, -Y)
//
// where cx, cy is the viewport center.
func (c *Camera) viewTransform() affine {
	if !c.dirty {
		return c.viewMatrix
	}
	c.dirty = false

	cx := c.Viewport.X + c.Viewport.Width/2
	cy := c.Viewport.Y + c.Viewport.Height/2
	sin, cos := math.Sincos(-c.Rotation)
	z := c.Zoom

	c.viewMatrix = affine{
		z * cos,
		z * sin,
		-z * sin,
		z * cos,
		cx + z*(-cos*c.X+sin*c.Y),
		cy + z*(-sin*c.X-cos*c.Y),
	}
	c.invViewMatrix = invertAffine(c.viewMatrix)
	return c.viewMatrix
}

// WorldToScreen converts world coordinates to framebuffer coordinates.
func (c *Camera) WorldToScreen(wx, wy float64) (sx, sy float64) {
	p := transformPoint(c.viewTransform(), wx, wy)
	return p.X, p.Y
}

// ScreenToWorld converts framebuffer coordinates to world coordinates.
func (c *Camera) ScreenToWorld(sx, sy float64) (wx, wy float64) {
	c.viewTransform()
	p := transformPoint(c.invViewMatrix, sx, sy)
	return p.X, p.Y
}

// VisibleBounds returns the world-space bounding rect of the viewport.
func (c *Camera) VisibleBounds() Rect {
	c.viewTransform()
	v := c.Viewport
	return quadBounds([4]Vec2{
		transformPoint(c.invViewMatrix, v.X, v.Y),
		transformPoint(c.invViewMatrix, v.X+v.Width, v.Y),
		transformPoint(c.invViewMatrix, v.X+v.Width, v.Y+v.Height),
		transformPoint(c.invViewMatrix, v.X, v.Y+v.Height),
	})
}

// MarkDirty forces a recomputation of the view matrix.
func (c *Camera) MarkDirty() {
	c.dirty = true
}

// culls reports whether a screen-space quad misses the viewport.
func (c *Camera) culls(q *[4]Vec2) bool {
	return c.CullEnabled && !quadBounds(*q).Intersects(c.Viewport)
}

// quadBounds returns the axis-aligned bounds of q.
func quadBounds(q [4]Vec2) Rect {
	minX := math.Min(math.Min(q[0].X, q[1].X), math.Min(q[2].X, q[3].X))
	minY := math.Min(math.Min(q[0].Y, q[1].Y), math.Min(q[2].Y, q[3].Y))
	maxX := math.Max(math.Max(q[0].X, q[1].X), math.Max(q[2].X, q[3].X))
	maxY := math.Max(math.Max(q[0].Y, q[1].Y), math.Max(q[2].Y, q[3].Y))
	return Rect{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
}
