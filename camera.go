package rsg

import "github.com/go-gl/mathgl/mgl32"

// ProjectionType selects which projection a Camera uses.
type ProjectionType uint8

const (
	ProjectionPerspective  ProjectionType = iota // perspective frustum
	ProjectionOrthographic                       // axis-aligned box
)

// PerspectiveProjection describes a symmetric perspective frustum. FOV is
// the vertical field of view in degrees.
type PerspectiveProjection struct {
	AspectRatio float32
	FOV         float32
	Near        float32
	Far         float32
}

// OrthographicProjection describes an orthographic box. XMag and YMag are
// half the width and height of the view volume.
type OrthographicProjection struct {
	XMag float32
	YMag float32
	Near float32
	Far  float32
}

// Camera is the authoring payload of a CameraComponent.
type Camera struct {
	Type         ProjectionType
	Perspective  PerspectiveProjection
	Orthographic OrthographicProjection
}

// NewPerspectiveCamera returns a perspective camera.
func NewPerspectiveCamera(p PerspectiveProjection) Camera {
	return Camera{Type: ProjectionPerspective, Perspective: p}
}

// NewOrthographicCamera returns an orthographic camera.
func NewOrthographicCamera(o OrthographicProjection) Camera {
	return Camera{Type: ProjectionOrthographic, Orthographic: o}
}

// ProjectionMatrix returns the camera's clip-space projection.
func (c Camera) ProjectionMatrix() mgl32.Mat4 {
	switch c.Type {
	case ProjectionOrthographic:
		o := c.Orthographic
		return mgl32.Ortho(-o.XMag, o.XMag, -o.YMag, o.YMag, o.Near, o.Far)
	default:
		p := c.Perspective
		return mgl32.Perspective(mgl32.DegToRad(p.FOV), p.AspectRatio, p.Near, p.Far)
	}
}

// viewDirection is the camera-space direction a camera looks along.
var viewDirection = mgl32.Vec3{0, 0, -1}

// CameraWorldProperties are derived from the world matrix of the camera's node.
type CameraWorldProperties struct {
	Position  mgl32.Vec3
	Direction mgl32.Vec3
}

// CameraComponent pairs a Camera with its derived world-space properties.
type CameraComponent struct {
	Camera Camera
	World  CameraWorldProperties

	view mgl32.Mat4
}

// NewCameraComponent returns a camera at the origin looking down -Z.
func NewCameraComponent(cam Camera) CameraComponent {
	return CameraComponent{
		Camera: cam,
		World:  CameraWorldProperties{Direction: viewDirection},
		view:   mgl32.Ident4(),
	}
}

// ViewMatrix returns the inverse of the camera node's world matrix as of
// the last resolve.
func (c *CameraComponent) ViewMatrix() mgl32.Mat4 {
	return c.view
}

// cameraWorldProperties derives position and view direction from a world
// matrix. The direction goes through the inverse-transpose of the upper 3x3
// block so non-uniform scale does not skew it.
func cameraWorldProperties(world mgl32.Mat4) CameraWorldProperties {
	normal := world.Mat3().Inv().Transpose()
	return CameraWorldProperties{
		Position:  world.Col(3).Vec3(),
		Direction: normal.Mul3x1(viewDirection).Normalize(),
	}
}

func (c *CameraComponent) update(world mgl32.Mat4) {
	c.World = cameraWorldProperties(world)
	c.view = world.Inv()
}
