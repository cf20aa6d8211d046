package tessera

import (
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// TweenGroup animates up to four float64 fields of a Node together. Values
// are written back and the node marked dirty on every Update. A group whose
// node is disposed stops at once.
//
// Groups can be advanced by hand or handed to Scene.Animate.
type TweenGroup struct {
	tweens [4]*gween.Tween
	fields [4]*float64
	count  int
	target *Node
	Done   bool
}

func newTweenGroup(node *Node, duration float32, fn ease.TweenFunc, fields []*float64, to []float64) *TweenGroup {
	g := &TweenGroup{target: node, count: len(fields)}
	for i, f := range fields {
		g.fields[i] = f
		g.tweens[i] = gween.New(float32(*f), float32(to[i]), duration, fn)
	}
	return g
}

// Update advances the group by dt seconds.
func (g *TweenGroup) Update(dt float32) {
	if g.Done {
		return
	}
	if g.target != nil && g.target.IsDisposed() {
		g.Done = true
		return
	}
	done := true
	for i := 0; i < g.count; i++ {
		v, finished := g.tweens[i].Update(dt)
		*g.fields[i] = float64(v)
		done = done && finished
	}
	g.Done = done
	if g.target != nil {
		g.target.MarkDirty()
	}
}

// TweenPosition animates node.X and node.Y.
func TweenPosition(node *Node, toX, toY float64, duration float32, fn ease.TweenFunc) *TweenGroup {
	return newTweenGroup(node, duration, fn, []*float64{&node.X, &node.Y}, []float64{toX, toY})
}

// TweenScale animates node.ScaleX and node.ScaleY.
func TweenScale(node *Node, toSX, toSY float64, duration float32, fn ease.TweenFunc) *TweenGroup {
	return newTweenGroup(node, duration, fn, []*float64{&node.ScaleX, &node.ScaleY}, []float64{toSX, toSY})
}

// TweenColor animates the four components of node.Color. The tint reaches
// the batcher as DrawItem.Tint and its alpha as part of DrawItem.Alpha.
func TweenColor(node *Node, to Color, duration float32, fn ease.TweenFunc) *TweenGroup {
	c := &node.Color
	return newTweenGroup(node, duration, fn,
		[]*float64{&c.R, &c.G, &c.B, &c.A},
		[]float64{to.R, to.G, to.B, to.A})
}

// TweenAlpha animates node.Alpha.
func TweenAlpha(node *Node, to float64, duration float32, fn ease.TweenFunc) *TweenGroup {
	return newTweenGroup(node, duration, fn, []*float64{&node.Alpha}, []float64{to})
}

// TweenRotation animates node.Rotation, in radians.
func TweenRotation(node *Node, to float64, duration float32, fn ease.TweenFunc) *TweenGroup {
	return newTweenGroup(node, duration, fn, []*float64{&node.Rotation}, []float64{to})
}
