// Package rsg is a retained-mode 3D scene graph.
//
// It keeps a tree of nodes that own optional components (transform,
// opacity, material, mesh, camera, viewport) and recomputes only what a
// mutation invalidated: world transforms, camera world properties,
// inherited opacity, effective material state, and the depth-sorted render
// lists a renderer draws from.
//
// # Quick start
//
// The simplest way to get started is a [Graph], which owns the scene, the
// component stores, a worker pool and the render lists:
//
//	g := rsg.New(rsg.DefaultConfig(), nil)
//	defer g.Close()
//
//	g.Sync(func(s *rsg.Scene, c *rsg.Components) {
//		links := rsg.NewComponentBuilder(c).
//			Transform(mgl32.Translate3D(1, 2, 3)).
//			Opacity(0.5).
//			Links()
//		s.Append(g.Root(), rsg.Node{Links: links})
//	})
//	g.Prepare()
//
// For full control, use [Scene], [Components], [SceneObserver] and
// [PrepareScene] directly.
//
// # Keys
//
// Nodes and components live in generational arenas ([SlotMap]) and are
// referenced by typed keys such as [NodeKey] and [TransformKey]. A key to a
// removed entry is stale; using it panics. The zero key is the nil key.
//
// # Change tracking
//
// Every structural mutation of a [Scene] is reported to the attached
// [Observer]. Component fields are plain data, so after editing one call
// [Scene.MarkDirty] with the categories that changed. A [SceneObserver]
// collects the roots of stale subtrees per category; [Graph.Prepare]
// resolves them and resets it.
//
// Large subtrees can be inserted through a [SubtreeTransaction] so they are
// reported once, on [Scene.Commit].
//
// # Rendering
//
// A node with a [ViewportComponent] selects a camera node; every node in
// its subtree that owns both a mesh and a transform is a render candidate.
// Opaque candidates go to a front-to-back [RenderList], blended ones to a
// back-to-front list, ordered by distance along the camera's view axis.
//
// # Extras
//
// Tweens (via [gween]) animate translation and opacity, YAML configuration
// is read by [LoadConfig], glTF documents are imported by the gltfscene
// subpackage, and scene events can be forwarded into a [Donburi] world by
// rsg/ecs.
//
// [gween]: https://github.com/tanema/gween
// [Donburi]: https://github.com/yohamta/donburi
package rsg
