package rsg

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

// AABB is an axis-aligned bounding box in a node's local space.
type AABB struct {
	Min mgl32.Vec3
	Max mgl32.Vec3
}

// Center returns the midpoint of the box.
func (b AABB) Center() mgl32.Vec3 {
	return b.Min.Add(b.Max).Mul(0.5)
}

func (b AABB) String() string {
	return fmt.Sprintf("(min=[%g, %g, %g], max=[%g, %g, %g])",
		b.Min[0], b.Min[1], b.Min[2], b.Max[0], b.Max[1], b.Max[2])
}

// VertexInputType is the data type of a vertex attribute.
type VertexInputType uint8

const (
	InputFloat VertexInputType = iota
	InputVec2
	InputVec3
	InputVec4
	InputInt
	InputInt2
	InputInt3
	InputInt4
	InputMat2
	InputMat3
	InputMat4
)

// VertexSemantic identifies what a vertex attribute carries.
type VertexSemantic uint8

const (
	SemanticPosition VertexSemantic = iota
	SemanticNormal
	SemanticTangent
	SemanticColor
	SemanticTexCoord
)

// VertexInput describes one attribute: where it lives (ViewIndex into
// Mesh.VertexViews plus byte Offset) and how to read it. Set is the color or
// texcoord set number and is ignored for other semantics.
type VertexInput struct {
	Semantic  VertexSemantic
	Set       uint32
	Type      VertexInputType
	ViewIndex uint32
	Offset    int
}

// BufferView is a strided window into an externally owned buffer.
type BufferView struct {
	BufferID uint32
	Offset   int
	Size     int
	Stride   int
}

// IndexType is the integer width of an index buffer.
type IndexType uint8

const (
	IndexUint16 IndexType = iota
	IndexUint32
)

// Topology is the primitive assembly mode of a submesh.
type Topology uint8

const (
	TopologyTriangles Topology = iota
	TopologyTriangleStrip
	TopologyLines
	TopologyLineStrip
	TopologyPoints
)

// SubMesh is one draw of a mesh. IndexCount is zero for non-indexed draws.
type SubMesh struct {
	Topology    Topology
	VertexCount uint32
	Inputs      []VertexInput
	IndexCount  uint32
	IndexType   IndexType
	IndexView   BufferView
}

// Mesh is the authoring payload of a MeshComponent.
type Mesh struct {
	VertexViews []BufferView
	SubMeshes   []SubMesh
	Bounds      AABB
}

// MeshBuffer is raw vertex data referenced by BufferView.BufferID.
type MeshBuffer struct {
	Data   []float32
	Source string
}

// MeshComponent is the per-frame record of a mesh: its signed distance along
// the active camera's view axis and the viewport node it was assigned to.
type MeshComponent struct {
	SortDistance float32
	Viewport     NodeKey
}
