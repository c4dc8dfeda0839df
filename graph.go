package rsg

import "time"

// Graph bundles a scene, its component stores, a worker pool and the two
// render lists, and drives the per-cycle sequence: mutate under an attached
// observer (Sync or Update), then recompute derived values (Prepare).
type Graph struct {
	Scene      *Scene
	Components *Components
	Opaque     *RenderList
	Alpha      *RenderList

	pool     *Pool
	ownsPool bool
	observer *SceneObserver
	scan     candidateScan
	tweens   []*TweenGroup
	debug    bool
	frame    uint64
}

// New creates a Graph with a default root (identity transform, opacity 1).
// If pool is nil a pool of cfg.Workers goroutines is created and closed by
// Close; a caller-supplied pool stays owned by the caller.
func New(cfg Config, pool *Pool) *Graph {
	cfg = cfg.withDefaults()
	g := &Graph{
		Scene:      NewSceneWithCapacity(cfg.NodeCapacity),
		Components: NewComponents(cfg.NodeCapacity),
		Opaque:     NewOpaqueList(cfg.RenderListCapacity),
		Alpha:      NewAlphaList(cfg.RenderListCapacity),
		pool:       pool,
		observer:   NewSceneObserver(),
	}
	if g.pool == nil {
		g.pool = NewPool(cfg.Workers)
		g.ownsPool = true
	}
	g.SetDebugMode(cfg.Debug)
	g.Scene.Observe(g.observer, func() {
		g.Components.AddDefaultRoot(g.Scene)
	})
	return g
}

// Root returns the root node.
func (g *Graph) Root() NodeKey {
	return g.Scene.Root()
}

// Pool returns the pool Prepare runs on.
func (g *Graph) Pool() *Pool {
	return g.pool
}

// Observer returns the accumulated dirty state of the current cycle.
func (g *Graph) Observer() *SceneObserver {
	return g.observer
}

// SetDebugMode enables or disables per-cycle stats on stderr and the extra
// invariant checks.
func (g *Graph) SetDebugMode(enabled bool) {
	g.debug = enabled
	g.Scene.debug = enabled
}

// Sync runs fn with the graph's observer attached, so every mutation fn
// makes is picked up by the next Prepare.
func (g *Graph) Sync(fn func(s *Scene, c *Components)) {
	g.Scene.Observe(g.observer, func() {
		fn(g.Scene, g.Components)
	})
}

// AddTween registers a tween group to be advanced by Update. Finished groups
// are dropped automatically.
func (g *Graph) AddTween(t *TweenGroup) {
	g.tweens = append(g.tweens, t)
}

// Update advances registered tweens by dt seconds, runs fn (which may be
// nil) under Sync, then calls Prepare. It reports whether anything was
// recomputed.
func (g *Graph) Update(dt float32, fn func(s *Scene, c *Components)) bool {
	g.Sync(func(s *Scene, c *Components) {
		live := g.tweens[:0]
		for _, t := range g.tweens {
			t.Update(dt, s, c)
			if !t.Done {
				live = append(live, t)
			}
		}
		clear(g.tweens[len(live):])
		g.tweens = live
		if fn != nil {
			fn(s, c)
		}
	})
	return g.Prepare()
}

// Prepare recomputes world transforms, camera properties, inherited
// opacities, effective material states and both render lists from what the
// observer accumulated since the last call, then clears the observer. It
// does nothing and returns false when nothing changed.
func (g *Graph) Prepare() bool {
	o := g.observer
	if !o.Changed {
		return false
	}
	var stats debugStats
	var start time.Time
	if g.debug {
		start = time.Now()
	}

	prepareScene(g.Components, g.Scene, o.DirtyWorldRoots, o.DirtyOpacityRoots,
		g.Opaque, g.Alpha, g.pool, &g.scan)

	if g.debug {
		stats.prepareTime = time.Since(start)
		start = time.Now()
	}

	// Blending depends on inherited opacity, so opacity roots refresh
	// materials too.
	UpdateMaterialStates(g.Components, g.Scene,
		o.DirtyMaterialRoots, o.DirtyMaterialValueRoots, o.DirtyOpacityRoots)

	if g.debug {
		stats.materialTime = time.Since(start)
		stats.dirtyWorld = len(o.DirtyWorldRoots)
		stats.dirtyOpacity = len(o.DirtyOpacityRoots)
		stats.dirtyMaterial = len(o.DirtyMaterialRoots) + len(o.DirtyMaterialValueRoots)
		stats.candidates = len(g.scan.candidates)
		stats.opaqueCount = g.Opaque.Len()
		stats.alphaCount = g.Alpha.Len()
		debugLog(g.frame, stats)
		if o.HierarchyChanged {
			debugCheckTreeDepth(g.Scene)
			debugCheckComponentCounts(g.Components, g.Scene)
		}
	}

	g.frame++
	o.Reset()
	return true
}

// RemoveNode removes a single node under the graph's observer and releases
// its components.
func (g *Graph) RemoveNode(key NodeKey, policy OrphanPolicy) {
	g.Sync(func(s *Scene, c *Components) {
		c.Remove(s.RemoveWithoutChildren(key, policy))
	})
}

// RemoveSubtree removes key with all descendants under the graph's observer
// and releases their components.
func (g *Graph) RemoveSubtree(key NodeKey) {
	g.Sync(func(s *Scene, c *Components) {
		for _, links := range s.RemoveSubtree(key) {
			c.Remove(links)
		}
	})
}

// Close releases the pool if the graph created it.
func (g *Graph) Close() {
	if g.ownsPool {
		g.pool.Close()
	}
}
