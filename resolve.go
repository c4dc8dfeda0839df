package rsg

// updateWorldTransforms recomputes world matrices (and camera properties)
// for every transform-owning node under the given roots. Each node's value
// depends only on its nearest transform-owning ancestor, so overlapping or
// repeated roots redo work without changing the result. Roots removed
// since they were marked dirty are skipped.
func updateWorldTransforms(c *Components, s *Scene, roots []NodeKey) {
	for _, root := range roots {
		if !s.Contains(root) {
			continue
		}
		for key := range s.Traverse(root) {
			links := s.ComponentLinks(key)
			if links.Transform.IsNil() {
				continue
			}
			t := c.Transforms.At(links.Transform)
			world := t.Local
			for a := range s.Ancestors(key) {
				if at := s.ComponentLinks(a).Transform; !at.IsNil() {
					world = composeWorld(c.Transforms.At(at).World, t.Local)
					break
				}
			}
			t.World = world
			if !links.Camera.IsNil() {
				c.Cameras.At(links.Camera).update(world)
			}
		}
	}
}

// updateInheritedOpacities recomputes inherited opacity under the given
// roots. It takes the opacity store by value and hands it back so it can
// run on a worker that owns the store exclusively.
func updateInheritedOpacities(opacities SlotMap[OpacityKey, OpacityComponent], s *Scene, roots []NodeKey) SlotMap[OpacityKey, OpacityComponent] {
	for _, root := range roots {
		if !s.Contains(root) {
			continue
		}
		for key := range s.Traverse(root) {
			ok := s.ComponentLinks(key).Opacity
			if ok.IsNil() {
				continue
			}
			o := opacities.At(ok)
			inherited := o.Opacity
			for a := range s.Ancestors(key) {
				if ao := s.ComponentLinks(a).Opacity; !ao.IsNil() {
					inherited *= opacities.At(ao).Inherited
					break
				}
			}
			o.Inherited = inherited
		}
	}
	return opacities
}

// takeOpacities moves the opacity store out of c, leaving it empty.
func (c *Components) takeOpacities() SlotMap[OpacityKey, OpacityComponent] {
	o := c.Opacities
	c.Opacities = SlotMap[OpacityKey, OpacityComponent]{}
	return o
}

// startOpacityPass moves the opacity store onto a pool worker when there is
// anything to resolve. The returned channel delivers the store back; it is
// nil if no work was started.
func startOpacityPass(scope *Scope, c *Components, s *Scene, dirtyOpacity []NodeKey) chan SlotMap[OpacityKey, OpacityComponent] {
	if len(dirtyOpacity) == 0 {
		return nil
	}
	handoff := make(chan SlotMap[OpacityKey, OpacityComponent], 1)
	opacities := c.takeOpacities()
	scope.Execute(func() {
		handoff <- updateInheritedOpacities(opacities, s, dirtyOpacity)
	})
	return handoff
}

// finishOpacityPass moves the opacity store back into c. Call only after
// the scope that ran the pass has joined.
func finishOpacityPass(c *Components, handoff chan SlotMap[OpacityKey, OpacityComponent]) {
	if handoff != nil {
		c.Opacities = <-handoff
	}
}

// UpdateInheritedProperties recomputes world transforms and camera world
// properties under dirtyWorld on the calling goroutine while a pool worker
// recomputes inherited opacity under dirtyOpacity. The opacity store is
// moved to the worker for the duration and is back in c on return.
func UpdateInheritedProperties(c *Components, s *Scene, dirtyWorld, dirtyOpacity []NodeKey, pool *Pool) {
	var handoff chan SlotMap[OpacityKey, OpacityComponent]
	pool.Scoped(func(scope *Scope) {
		handoff = startOpacityPass(scope, c, s, dirtyOpacity)
		updateWorldTransforms(c, s, dirtyWorld)
	})
	finishOpacityPass(c, handoff)
}

// UpdateMaterialStates refreshes the effective graphics state cached in
// every material component under the given roots from its node's current
// inherited opacity. Run it after inherited opacities are up to date.
func UpdateMaterialStates(c *Components, s *Scene, roots ...[]NodeKey) {
	for _, list := range roots {
		for _, root := range list {
			if !s.Contains(root) {
				continue
			}
			for key := range s.Traverse(root) {
				links := s.ComponentLinks(key)
				if links.Material.IsNil() {
					continue
				}
				m, ok := c.MaterialData.Get(links.Material)
				if !ok {
					continue
				}
				c.Materials.At(links.Material).Effective = m.EffectiveGraphicsState(c.InheritedOpacity(links))
			}
		}
	}
}
