package gltfscene

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/phanxgames/rsg"
	"github.com/qmuntal/gltf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTarget() (*rsg.Scene, *rsg.Components, rsg.NodeKey) {
	s := rsg.NewScene()
	c := rsg.NewComponents(0)
	root := c.AddDefaultRoot(s)
	return s, c, root
}

// triangleDoc has a camera node and a parent with one translated triangle
// child, plus an unreferenced node outside the scene.
func triangleDoc() *gltf.Document {
	aspect := float32(4.0 / 3.0)
	far := float32(500)
	color := [4]float32{1, 0, 0, 0.5}
	return &gltf.Document{
		Scene:  gltf.Index(0),
		Scenes: []*gltf.Scene{{Nodes: []uint32{0, 1}}},
		Nodes: []*gltf.Node{
			{Name: "cam", Camera: gltf.Index(0), Translation: [3]float32{0, 0, 10}},
			{Name: "group", Translation: [3]float32{1, 2, 3}, Children: []uint32{2}},
			{Name: "tri", Mesh: gltf.Index(0), Translation: [3]float32{0, 0, -1}, Scale: [3]float32{2, 2, 2}},
			{Name: "orphan"},
		},
		Cameras: []*gltf.Camera{{
			Perspective: &gltf.Perspective{AspectRatio: &aspect, Yfov: mgl32.DegToRad(60), Znear: 0.1, Zfar: &far},
		}},
		Meshes: []*gltf.Mesh{{
			Primitives: []*gltf.Primitive{{
				Attributes: map[string]uint32{"POSITION": 0, "TEXCOORD_0": 1},
				Indices:    gltf.Index(2),
				Material:   gltf.Index(0),
			}},
		}},
		Accessors: []*gltf.Accessor{
			{Count: 3, Type: gltf.AccessorVec3, Min: []float32{-1, -1, 0}, Max: []float32{1, 1, 0}},
			{Count: 3, Type: gltf.AccessorVec2},
			{Count: 3, Type: gltf.AccessorScalar, ComponentType: gltf.ComponentUshort},
		},
		Materials: []*gltf.Material{{
			AlphaMode:            gltf.AlphaBlend,
			DoubleSided:          true,
			PBRMetallicRoughness: &gltf.PBRMetallicRoughness{BaseColorFactor: &color},
		}},
	}
}

func TestImport_Hierarchy(t *testing.T) {
	s, c, root := newTarget()
	keys, err := Import(triangleDoc(), s, c, root, Options{})
	require.NoError(t, err)
	require.Len(t, keys, 4)

	assert.Equal(t, root, s.Parent(keys[0]))
	assert.Equal(t, root, s.Parent(keys[1]))
	assert.Equal(t, keys[1], s.Parent(keys[2]))
	assert.True(t, keys[3].IsNil(), "node outside the scene must not be imported")
	assert.Equal(t, 4, s.NodeCount())
	assert.Equal(t, []rsg.NodeKey{keys[0], keys[1]}, s.Children(root))
}

func TestImport_OneEventPerRoot(t *testing.T) {
	s, c, root := newTarget()
	var events []rsg.Event
	s.Observe(rsg.ObserverFunc(func(e rsg.Event) { events = append(events, e) }), func() {
		_, err := Import(triangleDoc(), s, c, root, Options{})
		require.NoError(t, err)
	})
	require.Len(t, events, 2)
	for _, e := range events {
		assert.Equal(t, rsg.EventSubtreeAddedOrReattached, e.Type)
	}
}

func TestImport_Components(t *testing.T) {
	s, c, root := newTarget()
	keys, err := Import(triangleDoc(), s, c, root, Options{ShaderSetID: 7})
	require.NoError(t, err)

	cam := s.ComponentLinks(keys[0])
	require.False(t, cam.Camera.IsNil())
	p := c.Cameras.At(cam.Camera).Camera.Perspective
	assert.InDelta(t, 60, p.FOV, 1e-3)
	assert.InDelta(t, 4.0/3.0, p.AspectRatio, 1e-6)
	assert.Equal(t, float32(500), p.Far)

	tri := s.ComponentLinks(keys[2])
	require.False(t, tri.Mesh.IsNil())
	require.False(t, tri.Material.IsNil())
	mesh, ok := c.MeshData.Get(tri.Mesh)
	require.True(t, ok)
	assert.Equal(t, rsg.AABB{Min: mgl32.Vec3{-1, -1, 0}, Max: mgl32.Vec3{1, 1, 0}}, mesh.Bounds)
	require.Len(t, mesh.SubMeshes, 1)
	sub := mesh.SubMeshes[0]
	assert.Equal(t, uint32(3), sub.VertexCount)
	assert.Equal(t, uint32(3), sub.IndexCount)
	assert.Equal(t, rsg.IndexUint16, sub.IndexType)
	assert.Len(t, sub.Inputs, 2)
	assert.Len(t, mesh.VertexViews, 2)

	mat, ok := c.MaterialData.Get(tri.Material)
	require.True(t, ok)
	assert.Equal(t, uint32(7), mat.ShaderSetID)
	assert.Equal(t, rsg.CullNone, mat.GraphicsState.CullMode)
	assert.True(t, mat.GraphicsState.Blend.Enabled)
	assert.Equal(t, rsg.Custom(mgl32.Vec4{1, 0, 0, 0.5}), mat.Properties["baseColor"])
	assert.False(t, c.IsOpaque(tri), "blended material must not be opaque")
}

func TestImport_WorldTransforms(t *testing.T) {
	s, c, root := newTarget()
	pool := rsg.NewPool(2)
	defer pool.Close()

	obs := rsg.NewSceneObserver()
	var keys []rsg.NodeKey
	s.Observe(obs, func() {
		var err error
		keys, err = Import(triangleDoc(), s, c, root, Options{})
		require.NoError(t, err)
	})
	rsg.UpdateInheritedProperties(c, s, obs.DirtyWorldRoots, obs.DirtyOpacityRoots, pool)

	world := c.Transforms.At(s.ComponentLinks(keys[2]).Transform).WorldTranslation()
	assert.True(t, world.ApproxEqual(mgl32.Vec3{1, 2, 2}), "tri world translation = %v", world)
}

func TestLocalMatrix(t *testing.T) {
	m := mgl32.Translate3D(4, 5, 6)
	n := &gltf.Node{Matrix: [16]float32(m), Translation: [3]float32{1, 1, 1}}
	assert.Equal(t, m, LocalMatrix(n), "explicit matrix wins over TRS")

	n = &gltf.Node{Translation: [3]float32{1, 2, 3}}
	assert.Equal(t, mgl32.Translate3D(1, 2, 3), LocalMatrix(n), "zero rotation and scale read as identity")

	n = &gltf.Node{Scale: [3]float32{2, 3, 4}}
	assert.Equal(t, mgl32.Scale3D(2, 3, 4), LocalMatrix(n))
}

func TestImport_WithoutScenes(t *testing.T) {
	s, c, root := newTarget()
	doc := triangleDoc()
	doc.Scene, doc.Scenes = nil, nil

	keys, err := Import(doc, s, c, root, Options{})
	require.NoError(t, err)

	// cam, group and orphan are nobody's child; tri hangs under group.
	assert.Len(t, s.Children(root), 3)
	assert.Equal(t, keys[1], s.Parent(keys[2]))
	assert.Equal(t, 5, s.NodeCount())
}

func TestImport_Errors(t *testing.T) {
	cases := map[string]func(*gltf.Document){
		"child out of range": func(d *gltf.Document) { d.Nodes[1].Children = []uint32{9} },
		"cycle":              func(d *gltf.Document) { d.Nodes[2].Children = []uint32{1} },
		"scene out of range": func(d *gltf.Document) { d.Scene = gltf.Index(3) },
		"missing position":   func(d *gltf.Document) { delete(d.Meshes[0].Primitives[0].Attributes, "POSITION") },
		"missing bounds":     func(d *gltf.Document) { d.Accessors[0].Min = nil },
		"bad material":       func(d *gltf.Document) { d.Meshes[0].Primitives[0].Material = gltf.Index(5) },
		"empty camera":       func(d *gltf.Document) { d.Cameras[0].Perspective = nil },
		"cycle without scenes": func(d *gltf.Document) {
			d.Scene, d.Scenes = nil, nil
			d.Nodes[2].Children = []uint32{1}
		},
		"only a cycle": func(d *gltf.Document) {
			d.Scene, d.Scenes = nil, nil
			d.Nodes = []*gltf.Node{{Children: []uint32{1}}, {Children: []uint32{0}}}
		},
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			s, c, root := newTarget()
			doc := triangleDoc()
			mutate(doc)
			_, err := Import(doc, s, c, root, Options{})
			assert.Error(t, err)
			assert.Equal(t, 1, s.NodeCount(), "failed import must not insert nodes")
			assert.Equal(t, 1, c.Transforms.Len())
		})
	}
}

func TestImportFile_Missing(t *testing.T) {
	s, c, root := newTarget()
	_, err := ImportFile("testdata/does-not-exist.gltf", s, c, root, Options{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does-not-exist.gltf")
}
