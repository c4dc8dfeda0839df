package rsg

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

// viewportBatch is the contiguous run of candidates collected for one
// viewport node.
type viewportBatch struct {
	node     NodeKey
	viewport ViewportKey
	first    int
	count    int
}

// candidateScan is the output of the render candidate scan. Each viewport's
// candidates are appended in a single walk of its subtree, so batches never
// interleave in the flat buffer.
type candidateScan struct {
	batches    []viewportBatch
	candidates []NodeKey
}

func (sc *candidateScan) reset() {
	sc.batches = sc.batches[:0]
	sc.candidates = sc.candidates[:0]
}

// scanRenderCandidates walks the whole tree for viewport nodes and collects,
// per viewport, the nodes of its subtree that own both a mesh and a
// transform. It only reads the scene, so it can run beside passes that
// write component stores. A viewport nested in another viewport's subtree
// panics.
func scanRenderCandidates(s *Scene, sc *candidateScan) {
	sc.reset()
	if s.root.IsNil() {
		return
	}
	for key := range s.Traverse(s.root) {
		vp := s.ComponentLinks(key).Viewport
		if vp.IsNil() {
			continue
		}
		b := viewportBatch{node: key, viewport: vp, first: len(sc.candidates)}
		for d := range s.Traverse(key) {
			links := s.ComponentLinks(d)
			if d != key && !links.Viewport.IsNil() {
				panic(fmt.Sprintf("rsg: nested viewport %v inside viewport %v", d, key))
			}
			if !links.Mesh.IsNil() && !links.Transform.IsNil() {
				sc.candidates = append(sc.candidates, d)
			}
		}
		b.count = len(sc.candidates) - b.first
		sc.batches = append(sc.batches, b)
	}
}

// viewportCamera returns the world properties of the camera assigned to a
// viewport. The second result is false when the viewport has no camera node
// or that node owns no camera component. An assignment to a removed node is
// cleared.
func viewportCamera(c *Components, s *Scene, vk ViewportKey) (CameraWorldProperties, bool) {
	vp := c.Viewports.At(vk)
	if vp.Camera.IsNil() {
		return CameraWorldProperties{}, false
	}
	if !s.Contains(vp.Camera) {
		vp.Camera = NodeKey{}
		return CameraWorldProperties{}, false
	}
	ck := s.ComponentLinks(vp.Camera).Camera
	if ck.IsNil() {
		return CameraWorldProperties{}, false
	}
	return c.Cameras.At(ck).World, true
}

// sortDistance is the signed distance of the world-space bounds center
// along the camera's view direction.
func sortDistance(world mgl32.Mat4, bounds AABB, cam CameraWorldProperties) float32 {
	center := world.Mul4x1(bounds.Center().Vec4(1)).Vec3()
	return center.Sub(cam.Position).Dot(cam.Direction)
}

// buildRenderLists assigns sort distance and viewport to every candidate
// and rebuilds both lists. Candidates of a viewport without a camera get
// their assignment cleared and are left out.
func buildRenderLists(c *Components, s *Scene, sc *candidateScan, opaque, alpha *RenderList) {
	opaque.Reset()
	alpha.Reset()
	for _, b := range sc.batches {
		candidates := sc.candidates[b.first : b.first+b.count]
		cam, ok := viewportCamera(c, s, b.viewport)
		if !ok {
			for _, key := range candidates {
				m := c.Meshes.At(s.ComponentLinks(key).Mesh)
				m.SortDistance = 0
				m.Viewport = NodeKey{}
			}
			continue
		}
		for _, key := range candidates {
			links := s.ComponentLinks(key)
			mesh, _ := c.MeshData.Get(links.Mesh)
			d := sortDistance(c.Transforms.At(links.Transform).World, mesh.Bounds, cam)
			m := c.Meshes.At(links.Mesh)
			m.SortDistance = d
			m.Viewport = b.node
			item := RenderItem{Node: key, Distance: d}
			if c.IsOpaque(links) {
				opaque.Insert(item)
			} else {
				alpha.Insert(item)
			}
		}
	}
}

// PrepareScene runs one update cycle's derived-value work. Three units run
// concurrently: inherited opacity on a pool worker (only when dirtyOpacity
// is non-empty, with the opacity store moved to that worker), the render
// candidate scan on another worker, and world transform / camera resolution
// on the calling goroutine. After the join, opaque is rebuilt front-to-back
// and alpha back-to-front.
func PrepareScene(c *Components, s *Scene, dirtyWorld, dirtyOpacity []NodeKey, opaque, alpha *RenderList, pool *Pool) {
	var sc candidateScan
	prepareScene(c, s, dirtyWorld, dirtyOpacity, opaque, alpha, pool, &sc)
}

func prepareScene(c *Components, s *Scene, dirtyWorld, dirtyOpacity []NodeKey, opaque, alpha *RenderList, pool *Pool, sc *candidateScan) {
	var handoff chan SlotMap[OpacityKey, OpacityComponent]
	pool.Scoped(func(scope *Scope) {
		handoff = startOpacityPass(scope, c, s, dirtyOpacity)
		scope.Execute(func() {
			scanRenderCandidates(s, sc)
		})
		updateWorldTransforms(c, s, dirtyWorld)
	})
	finishOpacityPass(c, handoff)
	buildRenderLists(c, s, sc, opaque, alpha)
}
