package tessera

import "math"

// affine is a 2D affine matrix [a, b, c, d, tx, ty]:
//
//	| a  c  tx |
//	| b  d  ty |
//	| 0  0   1 |
type affine = [6]float64

var identityTransform = affine{1, 0, 0, 1, 0, 0}

// localTransform builds the node's local matrix in the order
// Translate(-pivot), Scale, Skew, Rotate, Translate(X, Y).
func localTransform(n *Node) affine {
	sx, sy := n.ScaleX, n.ScaleY
	sin, cos := math.Sincos(n.Rotation)

	var kx, ky float64
	if n.SkewX != 0 {
		kx = math.Tan(n.SkewX)
	}
	if n.SkewY != 0 {
		ky = math.Tan(n.SkewY)
	}

	// Scale and skew, pivot folded into the translation.
	a, b := sx, ky*sx
	c, d := kx*sy, sy
	tx := -n.PivotX*sx - kx*n.PivotY*sy
	ty := -ky*n.PivotX*sx - n.PivotY*sy

	return affine{
		cos*a - sin*b,
		sin*a + cos*b,
		cos*c - sin*d,
		sin*c + cos*d,
		cos*tx - sin*ty + n.X,
		sin*tx + cos*ty + n.Y,
	}
}

// multiplyAffine returns p * c.
func multiplyAffine(p, c affine) affine {
	return affine{
		p[0]*c[0] + p[2]*c[1],
		p[1]*c[0] + p[3]*c[1],
		p[0]*c[2] + p[2]*c[3],
		p[1]*c[2] + p[3]*c[3],
		p[0]*c[4] + p[2]*c[5] + p[4],
		p[1]*c[4] + p[3]*c[5] + p[5],
	}
}

// invertAffine returns the inverse of m, or the identity when m is singular.
func invertAffine(m affine) affine {
	det := m[0]*m[3] - m[2]*m[1]
	if math.Abs(det) < 1e-12 {
		return identityTransform
	}
	inv := 1 / det
	a, b := m[3]*inv, -m[1]*inv
	c, d := -m[2]*inv, m[0]*inv
	return affine{a, b, c, d, -(a*m[4] + c*m[5]), -(b*m[4] + d*m[5])}
}

func transformPoint(m affine, x, y float64) Vec2 {
	return Vec2{m[0]*x + m[2]*y + m[4], m[1]*x + m[3]*y + m[5]}
}

// updateWorldTransform refreshes world matrices and alphas below n. A node is
// recomputed when it is dirty or its parent was recomputed this pass.
func updateWorldTransform(n *Node, parent affine, parentAlpha float64, parentChanged bool) {
	changed := n.transformDirty || parentChanged
	if changed {
		n.worldTransform = multiplyAffine(parent, localTransform(n))
		n.worldAlpha = parentAlpha * n.Alpha
		n.transformDirty = false
	}
	for _, child := range n.children {
		updateWorldTransform(child, n.worldTransform, n.worldAlpha, changed)
	}
}

// SetPosition sets the node's local X and Y and marks it dirty.
func (n *Node) SetPosition(x, y float64) {
	n.X, n.Y = x, y
	n.transformDirty = true
}

// SetScale sets the node's ScaleX and ScaleY and marks it dirty.
func (n *Node) SetScale(sx, sy float64) {
	n.ScaleX, n.ScaleY = sx, sy
	n.transformDirty = true
}

// SetRotation sets the rotation in radians and marks the node dirty.
func (n *Node) SetRotation(r float64) {
	n.Rotation = r
	n.transformDirty = true
}

// SetSkew sets the node's SkewX and SkewY and marks it dirty.
func (n *Node) SetSkew(sx, sy float64) {
	n.SkewX, n.SkewY = sx, sy
	n.transformDirty = true
}

// SetPivot sets the node's PivotX and PivotY and marks it dirty.
func (n *Node) SetPivot(px, py float64) {
	n.PivotX, n.PivotY = px, py
	n.transformDirty = true
}

// SetAlpha sets the node's alpha and marks it dirty.
func (n *Node) SetAlpha(a float64) {
	n.Alpha = a
	n.transformDirty = true
}

// MarkDirty forces the world transform to be recomputed on the next draw.
// Call it after assigning transform fields directly.
func (n *Node) MarkDirty() {
	n.transformDirty = true
}

// WorldTransform returns the matrix computed by the last Scene.Update or Scene.Draw.
func (n *Node) WorldTransform() [6]float64 { return n.worldTransform }

// WorldAlpha returns the alpha computed by the last Scene.Update or Scene.Draw.
func (n *Node) WorldAlpha() float64 { return n.worldAlpha }

// WorldToLocal converts a world-space point to this node's local space.
func (n *Node) WorldToLocal(wx, wy float64) (lx, ly float64) {
	p := transformPoint(invertAffine(n.worldTransform), wx, wy)
	return p.X, p.Y
}

// LocalToWorld converts a local-space point to world space.
func (n *Node) LocalToWorld(lx, ly float64) (wx, wy float64) {
	p := transformPoint(n.worldTransform, lx, ly)
	return p.X, p.Y
}
