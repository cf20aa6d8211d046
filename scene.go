package tessera

import "fmt"

// Scene owns a node tree and the tweens animating it, and draws the tree
// through an Engine, optionally through a Camera.
type Scene struct {
	root   *Node
	tweens []*TweenGroup
	camera *Camera
	culled int
}

// NewScene creates a scene with an empty root container.
func NewScene() *Scene {
	return &Scene{root: NewContainer("root")}
}

// Root returns the scene's root container.
func (s *Scene) Root() *Node { return s.root }

// Animate registers g to be advanced by Update until it is done.
func (s *Scene) Animate(g *TweenGroup) {
	if g != nil && !g.Done {
		s.tweens = append(s.tweens, g)
	}
}

// Tweens returns the number of running tweens.
func (s *Scene) Tweens() int { return len(s.tweens) }

// SetCamera makes c the scene's view. A nil camera draws world coordinates
// unchanged.
func (s *Scene) SetCamera(c *Camera) { s.camera = c }

// Camera returns the scene's camera, or nil.
func (s *Scene) Camera() *Camera { return s.camera }

// Culled returns the number of sprites the camera skipped in the last Draw.
func (s *Scene) Culled() int { return s.culled }

// Update advances registered tweens by dt seconds, drops finished ones,
// refreshes world transforms, and moves the camera.
func (s *Scene) Update(dt float32) {
	live := s.tweens[:0]
	for _, g := range s.tweens {
		g.Update(dt)
		if !g.Done {
			live = append(live, g)
		}
	}
	clear(s.tweens[len(live):])
	s.tweens = live
	updateWorldTransform(s.root, identityTransform, 1, false)
	if s.camera != nil {
		s.camera.update(dt)
	}
}

// Draw starts a frame on e, submits every visible sprite in depth-first
// ZIndex order, runs custom draw nodes between flushes, and flushes the rest.
func (s *Scene) Draw(e *Engine) error {
	e.PreRender()
	s.culled = 0
	updateWorldTransform(s.root, identityTransform, 1, false)
	if err := s.traverse(e, s.root); err != nil {
		return err
	}
	return e.Flush()
}

func (s *Scene) traverse(e *Engine, n *Node) error {
	if !n.Visible {
		return nil
	}
	if n.Renderable {
		switch n.Type {
		case NodeTypeSprite:
			if n.Texture != nil {
				item := spriteItem(n, s.view(n))
				if s.camera != nil && s.camera.culls(&item.Quad) {
					s.culled++
				} else if err := e.Submit(item); err != nil {
					return err
				}
			}
		case NodeTypeCustom:
			if n.CustomDraw != nil {
				if err := e.Flush(); err != nil {
					return err
				}
				if err := n.CustomDraw(e.Device(), s.view(n), n.worldAlpha); err != nil {
					return fmt.Errorf("tessera: custom draw %q: %w", n.Name, err)
				}
				if err := e.InvalidateState(); err != nil {
					return err
				}
			}
		}
	}
	for _, child := range sortedChildrenOf(n) {
		if err := s.traverse(e, child); err != nil {
			return err
		}
	}
	return nil
}

// view returns the matrix mapping n's local space to the framebuffer.
func (s *Scene) view(n *Node) affine {
	if s.camera == nil {
		return n.worldTransform
	}
	return multiplyAffine(s.camera.viewTransform(), n.worldTransform)
}

// spriteItem resolves a sprite node into a DrawItem whose corners are
// transformed by m.
func spriteItem(n *Node, m affine) DrawItem {
	tw, th := n.Texture.Size()
	local, uv := regionQuad(n.TextureRegion, tw, th)
	item := DrawItem{
		UV:        uv,
		Texture:   n.Texture,
		Tint:      n.Color,
		Alpha:     n.Color.A * n.worldAlpha,
		BlendMode: n.BlendMode,
	}
	for i, p := range local {
		item.Quad[i] = transformPoint(m, p.X, p.Y)
	}
	return item
}
