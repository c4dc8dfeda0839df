package rsg

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

// setupBenchGraph creates a Graph with a camera, one viewport and n mesh
// nodes laid out on a grid, half of them semi-transparent.
func setupBenchGraph(b *testing.B, n int) (*Graph, []NodeKey) {
	g := New(Config{Workers: 4, NodeCapacity: n + 8, RenderListCapacity: n}, nil)
	b.Cleanup(g.Close)
	meshes := make([]NodeKey, 0, n)
	g.Update(0, func(s *Scene, c *Components) {
		cam := s.Append(g.Root(), NewComponentBuilder(c).
			Transform(mgl32.Translate3D(0, 0, 50)).
			Camera(NewPerspectiveCamera(PerspectiveProjection{AspectRatio: 16.0 / 9.0, FOV: 60, Near: 0.1, Far: 1000})).
			Node())
		vp := s.Append(g.Root(), NewComponentBuilder(c).Viewport(ViewportRect{W: 1280, H: 720}, cam).Node())
		for i := range n {
			opacity := float32(1)
			if i%2 == 1 {
				opacity = 0.5
			}
			meshes = append(meshes, s.Append(vp, NewComponentBuilder(c).
				Transform(mgl32.Translate3D(float32(i%100), float32(i/100), -float32(i%7))).
				Opacity(opacity).
				Mesh(Mesh{Bounds: unitBounds}).
				Node()))
		}
	})
	return g, meshes
}

// --- Update Cycle Benchmarks ---

func BenchmarkPrepare_10000Meshes_Static(b *testing.B) {
	g, _ := setupBenchGraph(b, 10000)

	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		g.Prepare()
	}
}

func BenchmarkPrepare_10000Meshes_Moving(b *testing.B) {
	g, meshes := setupBenchGraph(b, 10000)

	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		g.Update(0, func(s *Scene, c *Components) {
			// Dirty every transform by nudging each mesh.
			for _, k := range meshes {
				t := c.Transforms.At(s.ComponentLinks(k).Transform)
				t.SetTranslation(t.Translation().Add(mgl32.Vec3{0, 0, 0.001}))
				s.MarkDirty(k, DirtyTransform)
			}
		})
	}
}

func BenchmarkPrepare_10000Meshes_RootFade(b *testing.B) {
	g, _ := setupBenchGraph(b, 10000)
	opacity := float32(1)

	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		opacity = 1.5 - opacity
		g.Update(0, func(s *Scene, c *Components) {
			c.Opacities.At(s.ComponentLinks(g.Root()).Opacity).Opacity = opacity
			s.MarkDirty(g.Root(), DirtyOpacity)
		})
	}
}

func BenchmarkTransactionChain_100000(b *testing.B) {
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		s := NewSceneWithCapacity(100001)
		c := NewComponents(100001)
		root := c.AddDefaultRoot(s)
		tx := NewSubtreeTransaction()
		parent := root
		for range 100000 {
			parent = s.AppendWithTransaction(parent, NewComponentBuilder(c).
				Transform(mgl32.Ident4()).Opacity(1).Node(), tx)
		}
		s.Commit(tx)
	}
}
