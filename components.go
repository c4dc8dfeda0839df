package rsg

import "github.com/go-gl/mathgl/mgl32"

// Links records which components a node owns, one optional key per kind.
// A node has a component kind iff the corresponding key is non-nil.
type Links struct {
	Transform TransformKey
	Opacity   OpacityKey
	Material  MaterialKey
	Mesh      MeshKey
	Camera    CameraKey
	Viewport  ViewportKey
}

// IsEmpty reports whether no component is linked.
func (l Links) IsEmpty() bool {
	return l == Links{}
}

// Components owns one arena per component kind. Material and mesh stores
// keep a small live record in the arena and the authoring payload in a
// secondary map under the same key.
type Components struct {
	Transforms   SlotMap[TransformKey, TransformComponent]
	Opacities    SlotMap[OpacityKey, OpacityComponent]
	Materials    SlotMap[MaterialKey, MaterialComponent]
	MaterialData SecondaryMap[MaterialKey, Material]
	Meshes       SlotMap[MeshKey, MeshComponent]
	MeshData     SecondaryMap[MeshKey, Mesh]
	Cameras      SlotMap[CameraKey, CameraComponent]
	Viewports    SlotMap[ViewportKey, ViewportComponent]
}

// NewComponents returns empty stores. capacity presizes the transform and
// opacity arenas, which nearly every node uses.
func NewComponents(capacity int) *Components {
	return &Components{
		Transforms: NewSlotMap[TransformKey, TransformComponent](capacity),
		Opacities:  NewSlotMap[OpacityKey, OpacityComponent](capacity),
	}
}

// AddDefaultRoot installs a root node with an identity transform and an
// opacity of 1.
func (c *Components) AddDefaultRoot(s *Scene) NodeKey {
	links := NewComponentBuilder(c).Transform(mgl32.Ident4()).Opacity(1).Links()
	return s.SetRoot(Node{Links: links})
}

// Remove releases every component referenced by links. Keys that are nil are
// skipped; keys that are stale panic, since they mean the links were already
// released.
func (c *Components) Remove(links Links) {
	if !links.Transform.IsNil() {
		mustRemove(&c.Transforms, links.Transform)
	}
	if !links.Opacity.IsNil() {
		mustRemove(&c.Opacities, links.Opacity)
	}
	if !links.Material.IsNil() {
		mustRemove(&c.Materials, links.Material)
		c.MaterialData.Delete(links.Material)
	}
	if !links.Mesh.IsNil() {
		mustRemove(&c.Meshes, links.Mesh)
		c.MeshData.Delete(links.Mesh)
	}
	if !links.Camera.IsNil() {
		mustRemove(&c.Cameras, links.Camera)
	}
	if !links.Viewport.IsNil() {
		mustRemove(&c.Viewports, links.Viewport)
	}
}

func mustRemove[K handleKey, V any](m *SlotMap[K, V], k K) {
	if _, ok := m.Remove(k); !ok {
		panic("rsg: releasing stale component " + handle(k).format("key"))
	}
}

// IsOpaque reports whether a node with these links draws in the opaque
// pass: inherited opacity of exactly 1 (or no opacity component) and a
// material without blending (or no material).
func (c *Components) IsOpaque(links Links) bool {
	if !links.Opacity.IsNil() && c.Opacities.At(links.Opacity).Inherited < 1 {
		return false
	}
	if !links.Material.IsNil() {
		if m, ok := c.MaterialData.Get(links.Material); ok && m.GraphicsState.Blend.Enabled {
			return false
		}
	}
	return true
}

// InheritedOpacity returns the node's inherited opacity, or 1 when it has
// no opacity component.
func (c *Components) InheritedOpacity(links Links) float32 {
	if links.Opacity.IsNil() {
		return 1
	}
	return c.Opacities.At(links.Opacity).Inherited
}

// ComponentBuilder creates components and collects their keys into Links.
//
//	links := rsg.NewComponentBuilder(c).
//		Transform(mgl32.Translate3D(1, 2, 3)).
//		Opacity(0.5).
//		Links()
type ComponentBuilder struct {
	links Links
	c     *Components
}

// NewComponentBuilder returns a builder inserting into c.
func NewComponentBuilder(c *Components) *ComponentBuilder {
	return &ComponentBuilder{c: c}
}

// Transform adds a transform component with the given local matrix.
func (b *ComponentBuilder) Transform(local mgl32.Mat4) *ComponentBuilder {
	b.links.Transform = b.c.Transforms.Insert(NewTransformComponent(local))
	return b
}

// Opacity adds an opacity component.
func (b *ComponentBuilder) Opacity(opacity float32) *ComponentBuilder {
	b.links.Opacity = b.c.Opacities.Insert(NewOpacityComponent(opacity))
	return b
}

// Material adds a material component with m as its payload.
func (b *ComponentBuilder) Material(m Material) *ComponentBuilder {
	key := b.c.Materials.Insert(MaterialComponent{Effective: m.GraphicsState})
	b.c.MaterialData.Set(key, m)
	b.links.Material = key
	return b
}

// Mesh adds a mesh component with m as its payload.
func (b *ComponentBuilder) Mesh(m Mesh) *ComponentBuilder {
	key := b.c.Meshes.Insert(MeshComponent{})
	b.c.MeshData.Set(key, m)
	b.links.Mesh = key
	return b
}

// Camera adds a camera component.
func (b *ComponentBuilder) Camera(cam Camera) *ComponentBuilder {
	b.links.Camera = b.c.Cameras.Insert(NewCameraComponent(cam))
	return b
}

// Viewport adds a viewport component rendering through cameraNode.
func (b *ComponentBuilder) Viewport(rect ViewportRect, cameraNode NodeKey) *ComponentBuilder {
	b.links.Viewport = b.c.Viewports.Insert(NewViewportComponent(rect, cameraNode))
	return b
}

// Links returns the keys collected so far.
func (b *ComponentBuilder) Links() Links {
	return b.links
}

// Node returns a Node carrying the collected links.
func (b *ComponentBuilder) Node() Node {
	return Node{Links: b.links}
}
