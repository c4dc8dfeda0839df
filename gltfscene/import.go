// Package gltfscene imports glTF 2.0 documents into an rsg scene.
package gltfscene

import (
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/phanxgames/rsg"
	"github.com/pkg/errors"
	"github.com/qmuntal/gltf"
)

// DefaultFar is the far plane used for perspective cameras that declare an
// infinite projection.
const DefaultFar = 1000

const attrPosition = "POSITION"

// Options tunes an import. The zero value is usable.
type Options struct {
	// ShaderSetID is assigned to every imported material.
	ShaderSetID uint32
	// AspectRatio is used for perspective cameras that leave it unset.
	// Zero means 16:9.
	AspectRatio float32
}

// ImportFile opens a .gltf or .glb file and imports its default scene.
func ImportFile(name string, s *rsg.Scene, c *rsg.Components, parent rsg.NodeKey, opts Options) ([]rsg.NodeKey, error) {
	doc, err := gltf.Open(name)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open %q", name)
	}
	keys, err := Import(doc, s, c, parent, opts)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to import %q", name)
	}
	return keys, nil
}

// Import appends the default scene of doc under parent and returns the keys
// of the created nodes in glTF node order (nil entries for nodes outside
// the scene). Without a default scene the first scene is used; without
// scenes every node that is nobody's child becomes a root, and every node
// must be reachable from one.
//
// The document is validated before anything is inserted, and all nodes go
// in through one SubtreeTransaction, so an attached observer sees one event
// per imported root.
func Import(doc *gltf.Document, s *rsg.Scene, c *rsg.Components, parent rsg.NodeKey, opts Options) ([]rsg.NodeKey, error) {
	roots, err := sceneRoots(doc)
	if err != nil {
		return nil, err
	}
	if err := validateHierarchy(doc, roots); err != nil {
		return nil, err
	}
	for i, n := range doc.Nodes {
		if err := validateNode(doc, n); err != nil {
			return nil, errors.Wrapf(err, "node %d", i)
		}
	}

	im := importer{doc: doc, c: c, opts: opts, keys: make([]rsg.NodeKey, len(doc.Nodes))}
	tx := rsg.NewSubtreeTransaction()
	for _, r := range roots {
		im.add(s, tx, parent, r)
	}
	s.Commit(tx)
	return im.keys, nil
}

func sceneRoots(doc *gltf.Document) ([]uint32, error) {
	if len(doc.Scenes) > 0 {
		idx := uint32(0)
		if doc.Scene != nil {
			idx = *doc.Scene
		}
		if int(idx) >= len(doc.Scenes) {
			return nil, errors.Errorf("default scene %d out of range (%d scenes)", idx, len(doc.Scenes))
		}
		return doc.Scenes[idx].Nodes, nil
	}
	isChild := make([]bool, len(doc.Nodes))
	for _, n := range doc.Nodes {
		for _, ch := range n.Children {
			if int(ch) < len(isChild) {
				isChild[ch] = true
			}
		}
	}
	var roots []uint32
	for i := range doc.Nodes {
		if !isChild[i] {
			roots = append(roots, uint32(i))
		}
	}
	// Nodes that are all somebody's child but never reached from a root
	// form a cycle.
	reached := make([]bool, len(doc.Nodes))
	stack := append([]uint32(nil), roots...)
	for len(stack) > 0 {
		idx := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if int(idx) >= len(reached) || reached[idx] {
			continue
		}
		reached[idx] = true
		stack = append(stack, doc.Nodes[idx].Children...)
	}
	for i, ok := range reached {
		if !ok {
			return nil, errors.Errorf("node %d is not reachable from any root node (cycle)", i)
		}
	}
	return roots, nil
}

// validateHierarchy checks that every node reachable from roots exists and
// is reached exactly once, which rules out cycles and shared subtrees.
func validateHierarchy(doc *gltf.Document, roots []uint32) error {
	seen := make([]bool, len(doc.Nodes))
	stack := append([]uint32(nil), roots...)
	for len(stack) > 0 {
		idx := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if int(idx) >= len(doc.Nodes) {
			return errors.Errorf("node index %d out of range (%d nodes)", idx, len(doc.Nodes))
		}
		if seen[idx] {
			return errors.Errorf("node %d is reachable more than once", idx)
		}
		seen[idx] = true
		stack = append(stack, doc.Nodes[idx].Children...)
	}
	return nil
}

func validateNode(doc *gltf.Document, n *gltf.Node) error {
	if n.Camera != nil {
		if int(*n.Camera) >= len(doc.Cameras) {
			return errors.Errorf("camera index %d out of range", *n.Camera)
		}
		cam := doc.Cameras[*n.Camera]
		if cam.Perspective == nil && cam.Orthographic == nil {
			return errors.Errorf("camera %d has no projection", *n.Camera)
		}
	}
	if n.Mesh == nil {
		return nil
	}
	if int(*n.Mesh) >= len(doc.Meshes) {
		return errors.Errorf("mesh index %d out of range", *n.Mesh)
	}
	for i, p := range doc.Meshes[*n.Mesh].Primitives {
		pos, ok := p.Attributes[attrPosition]
		if !ok {
			return errors.Errorf("mesh %d primitive %d has no POSITION attribute", *n.Mesh, i)
		}
		for name, a := range p.Attributes {
			if int(a) >= len(doc.Accessors) {
				return errors.Errorf("mesh %d primitive %d: %s accessor %d out of range", *n.Mesh, i, name, a)
			}
		}
		if acc := doc.Accessors[pos]; len(acc.Min) < 3 || len(acc.Max) < 3 {
			return errors.Errorf("mesh %d primitive %d: POSITION accessor has no bounds", *n.Mesh, i)
		}
		if p.Indices != nil && int(*p.Indices) >= len(doc.Accessors) {
			return errors.Errorf("mesh %d primitive %d: index accessor %d out of range", *n.Mesh, i, *p.Indices)
		}
		if p.Material != nil && int(*p.Material) >= len(doc.Materials) {
			return errors.Errorf("mesh %d primitive %d: material %d out of range", *n.Mesh, i, *p.Material)
		}
	}
	return nil
}

type importer struct {
	doc  *gltf.Document
	c    *rsg.Components
	opts Options
	keys []rsg.NodeKey
}

func (im *importer) add(s *rsg.Scene, tx *rsg.SubtreeTransaction, parent rsg.NodeKey, idx uint32) {
	n := im.doc.Nodes[idx]
	b := rsg.NewComponentBuilder(im.c).
		Transform(LocalMatrix(n)).
		Opacity(1)
	if n.Camera != nil {
		b.Camera(im.camera(im.doc.Cameras[*n.Camera]))
	}
	if n.Mesh != nil {
		m := im.doc.Meshes[*n.Mesh]
		b.Mesh(im.mesh(m))
		if len(m.Primitives) > 0 && m.Primitives[0].Material != nil {
			b.Material(im.material(im.doc.Materials[*m.Primitives[0].Material]))
		}
	}
	key := s.AppendWithTransaction(parent, b.Node(), tx)
	im.keys[idx] = key
	for _, ch := range n.Children {
		im.add(s, tx, key, ch)
	}
}

// LocalMatrix returns the local transform of n. A matrix that is neither
// zero nor identity wins over TRS; a zero rotation or scale (as left by Go
// literals) reads as identity.
func LocalMatrix(n *gltf.Node) mgl32.Mat4 {
	m := mgl32.Mat4(n.Matrix)
	if m != (mgl32.Mat4{}) && m != mgl32.Ident4() {
		return m
	}
	rot := mgl32.QuatIdent()
	if n.Rotation != ([4]float32{}) {
		rot = mgl32.Quat{W: n.Rotation[3], V: mgl32.Vec3{n.Rotation[0], n.Rotation[1], n.Rotation[2]}}.Normalize()
	}
	scale := mgl32.Vec3{1, 1, 1}
	if n.Scale != ([3]float32{}) {
		scale = mgl32.Vec3(n.Scale)
	}
	return rsg.TRS(mgl32.Vec3(n.Translation), rot, scale)
}

func (im *importer) camera(cam *gltf.Camera) rsg.Camera {
	if o := cam.Orthographic; o != nil {
		return rsg.NewOrthographicCamera(rsg.OrthographicProjection{
			XMag: o.Xmag, YMag: o.Ymag, Near: o.Znear, Far: o.Zfar,
		})
	}
	p := cam.Perspective
	aspect := im.opts.AspectRatio
	if p.AspectRatio != nil {
		aspect = *p.AspectRatio
	}
	if aspect == 0 {
		aspect = 16.0 / 9.0
	}
	far := float32(DefaultFar)
	if p.Zfar != nil {
		far = *p.Zfar
	}
	return rsg.NewPerspectiveCamera(rsg.PerspectiveProjection{
		AspectRatio: aspect,
		FOV:         mgl32.RadToDeg(p.Yfov),
		Near:        p.Znear,
		Far:         far,
	})
}

func (im *importer) material(m *gltf.Material) rsg.Material {
	mat := rsg.NewMaterial(im.opts.ShaderSetID)
	mat.Properties["mvp"] = rsg.Builtin(rsg.BuiltinModelViewProjectionMatrix)
	color := mgl32.Vec4{1, 1, 1, 1}
	if pbr := m.PBRMetallicRoughness; pbr != nil && pbr.BaseColorFactor != nil {
		color = mgl32.Vec4(*pbr.BaseColorFactor)
	}
	mat.Properties["baseColor"] = rsg.Custom(color)
	if m.DoubleSided {
		mat.GraphicsState.CullMode = rsg.CullNone
	}
	if m.AlphaMode == gltf.AlphaBlend {
		mat.GraphicsState.Blend = rsg.BlendNormal.MaterialBlend()
	}
	return mat
}

func (im *importer) mesh(m *gltf.Mesh) rsg.Mesh {
	var out rsg.Mesh
	views := make(map[uint32]uint32) // accessor index -> VertexViews index
	first := true
	for _, p := range m.Primitives {
		pos := im.doc.Accessors[p.Attributes[attrPosition]]
		sub := rsg.SubMesh{
			Topology:    topology(p.Mode),
			VertexCount: pos.Count,
		}
		for name, a := range p.Attributes {
			sem, set, ok := semantic(name)
			if !ok {
				continue
			}
			vi, seen := views[a]
			if !seen {
				vi = uint32(len(out.VertexViews))
				views[a] = vi
				out.VertexViews = append(out.VertexViews, im.view(im.doc.Accessors[a]))
			}
			sub.Inputs = append(sub.Inputs, rsg.VertexInput{
				Semantic:  sem,
				Set:       set,
				Type:      inputType(im.doc.Accessors[a].Type),
				ViewIndex: vi,
			})
		}
		if p.Indices != nil {
			idx := im.doc.Accessors[*p.Indices]
			sub.IndexCount = idx.Count
			sub.IndexType = rsg.IndexUint16
			if idx.ComponentType == gltf.ComponentUint {
				sub.IndexType = rsg.IndexUint32
			}
			sub.IndexView = im.view(idx)
		}
		out.SubMeshes = append(out.SubMeshes, sub)

		bounds := rsg.AABB{
			Min: mgl32.Vec3{pos.Min[0], pos.Min[1], pos.Min[2]},
			Max: mgl32.Vec3{pos.Max[0], pos.Max[1], pos.Max[2]},
		}
		if first {
			out.Bounds = bounds
			first = false
		} else {
			out.Bounds = union(out.Bounds, bounds)
		}
	}
	return out
}

func (im *importer) view(acc *gltf.Accessor) rsg.BufferView {
	if acc.BufferView == nil || int(*acc.BufferView) >= len(im.doc.BufferViews) {
		return rsg.BufferView{}
	}
	bv := im.doc.BufferViews[*acc.BufferView]
	return rsg.BufferView{
		BufferID: bv.Buffer,
		Offset:   int(bv.ByteOffset + acc.ByteOffset),
		Size:     int(bv.ByteLength),
		Stride:   int(bv.ByteStride),
	}
}

func union(a, b rsg.AABB) rsg.AABB {
	for i := range 3 {
		a.Min[i] = min(a.Min[i], b.Min[i])
		a.Max[i] = max(a.Max[i], b.Max[i])
	}
	return a
}

func topology(mode gltf.PrimitiveMode) rsg.Topology {
	switch mode {
	case gltf.PrimitivePoints:
		return rsg.TopologyPoints
	case gltf.PrimitiveLines, gltf.PrimitiveLineLoop:
		return rsg.TopologyLines
	case gltf.PrimitiveLineStrip:
		return rsg.TopologyLineStrip
	case gltf.PrimitiveTriangleStrip, gltf.PrimitiveTriangleFan:
		return rsg.TopologyTriangleStrip
	default:
		return rsg.TopologyTriangles
	}
}

// semantic parses attribute names like NORMAL or TEXCOORD_1.
func semantic(name string) (rsg.VertexSemantic, uint32, bool) {
	base, setStr, hasSet := strings.Cut(name, "_")
	var set uint32
	if hasSet {
		n, err := strconv.ParseUint(setStr, 10, 32)
		if err != nil {
			return 0, 0, false
		}
		set = uint32(n)
	}
	switch base {
	case "POSITION":
		return rsg.SemanticPosition, 0, !hasSet
	case "NORMAL":
		return rsg.SemanticNormal, 0, !hasSet
	case "TANGENT":
		return rsg.SemanticTangent, 0, !hasSet
	case "COLOR":
		return rsg.SemanticColor, set, hasSet
	case "TEXCOORD":
		return rsg.SemanticTexCoord, set, hasSet
	}
	return 0, 0, false
}

func inputType(t gltf.AccessorType) rsg.VertexInputType {
	switch t {
	case gltf.AccessorVec2:
		return rsg.InputVec2
	case gltf.AccessorVec3:
		return rsg.InputVec3
	case gltf.AccessorVec4:
		return rsg.InputVec4
	case gltf.AccessorMat2:
		return rsg.InputMat2
	case gltf.AccessorMat3:
		return rsg.InputMat3
	case gltf.AccessorMat4:
		return rsg.InputMat4
	default:
		return rsg.InputFloat
	}
}
