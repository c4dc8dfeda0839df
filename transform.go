package rsg

import "github.com/go-gl/mathgl/mgl32"

// TransformComponent holds a node's local matrix and the world matrix
// derived from it. Matrices use mgl32's column-major, column-vector
// convention: world = ancestorWorld * local.
type TransformComponent struct {
	Local mgl32.Mat4
	World mgl32.Mat4
}

// NewTransformComponent returns a component whose world matrix starts out
// equal to local.
func NewTransformComponent(local mgl32.Mat4) TransformComponent {
	return TransformComponent{Local: local, World: local}
}

// Translation returns the translation column of the local matrix.
func (t *TransformComponent) Translation() mgl32.Vec3 {
	return t.Local.Col(3).Vec3()
}

// WorldTranslation returns the translation column of the world matrix.
func (t *TransformComponent) WorldTranslation() mgl32.Vec3 {
	return t.World.Col(3).Vec3()
}

// SetTranslation replaces the translation column of the local matrix,
// keeping rotation and scale.
func (t *TransformComponent) SetTranslation(v mgl32.Vec3) {
	t.Local.SetCol(3, v.Vec4(1))
}

// TRS builds a local matrix from translation, rotation and scale, applied
// in scale, rotate, translate order.
func TRS(translation mgl32.Vec3, rotation mgl32.Quat, scale mgl32.Vec3) mgl32.Mat4 {
	return mgl32.Translate3D(translation.X(), translation.Y(), translation.Z()).
		Mul4(rotation.Normalize().Mat4()).
		Mul4(mgl32.Scale3D(scale.X(), scale.Y(), scale.Z()))
}

// composeWorld returns the world matrix for a node given the world matrix
// of its nearest transform-owning ancestor. mgl32 matrices act on column
// vectors, so local applies first and the ancestor's world after it: a
// child translated along X under a parent rotated about Z moves along the
// rotated axis.
func composeWorld(ancestorWorld, local mgl32.Mat4) mgl32.Mat4 {
	return ancestorWorld.Mul4(local)
}
