package rsg

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// TweenGroup animates up to 4 float32 component fields of one node at once.
// Create one with TweenTranslation or TweenOpacity and call Update each
// cycle while an observer is attached; each step writes the new values and
// marks the node dirty. If the node or the animated component goes away the
// group stops.
type TweenGroup struct {
	tweens [4]*gween.Tween
	count  int
	node   NodeKey
	flags  DirtyFlags
	apply  func(c *Components, links Links, vals []float32) bool
	Done   bool
}

// Update advances all tweens by dt seconds and applies the values.
func (g *TweenGroup) Update(dt float32, s *Scene, c *Components) {
	if g.Done {
		return
	}
	if !s.Contains(g.node) {
		g.Done = true
		return
	}

	var vals [4]float32
	allDone := true
	for i := 0; i < g.count; i++ {
		val, finished := g.tweens[i].Update(dt)
		vals[i] = val
		if !finished {
			allDone = false
		}
	}
	if !g.apply(c, s.ComponentLinks(g.node), vals[:g.count]) {
		g.Done = true
		return
	}
	g.Done = allDone
	s.MarkDirty(g.node, g.flags)
}

// Node returns the animated node.
func (g *TweenGroup) Node() NodeKey {
	return g.node
}

// TweenTranslation animates the translation of node's local transform to
// the given point. Panics if node has no transform component.
func TweenTranslation(s *Scene, c *Components, node NodeKey, to mgl32.Vec3, duration float32, fn ease.TweenFunc) *TweenGroup {
	links := s.ComponentLinks(node)
	if links.Transform.IsNil() {
		panic("rsg: TweenTranslation on node without transform")
	}
	from := c.Transforms.At(links.Transform).Translation()
	g := &TweenGroup{count: 3, node: node, flags: DirtyTransform}
	for i := range 3 {
		g.tweens[i] = gween.New(from[i], to[i], duration, fn)
	}
	g.apply = func(c *Components, links Links, vals []float32) bool {
		if links.Transform.IsNil() {
			return false
		}
		c.Transforms.At(links.Transform).SetTranslation(mgl32.Vec3{vals[0], vals[1], vals[2]})
		return true
	}
	return g
}

// TweenOpacity animates node's own opacity. Panics if node has no opacity
// component.
func TweenOpacity(s *Scene, c *Components, node NodeKey, to float32, duration float32, fn ease.TweenFunc) *TweenGroup {
	links := s.ComponentLinks(node)
	if links.Opacity.IsNil() {
		panic("rsg: TweenOpacity on node without opacity")
	}
	g := &TweenGroup{count: 1, node: node, flags: DirtyOpacity}
	g.tweens[0] = gween.New(c.Opacities.At(links.Opacity).Opacity, to, duration, fn)
	g.apply = func(c *Components, links Links, vals []float32) bool {
		if links.Opacity.IsNil() {
			return false
		}
		c.Opacities.At(links.Opacity).Opacity = vals[0]
		return true
	}
	return g
}
