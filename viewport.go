package rsg

// ViewportRect is a pixel rectangle on the render target.
type ViewportRect struct {
	X, Y, W, H uint32
}

// ViewportComponent marks the root of a renderable subtree. Camera names the
// node whose CameraComponent views it; a nil Camera leaves the viewport's
// meshes out of the render lists.
type ViewportComponent struct {
	Rect    ViewportRect
	HasRect bool
	Camera  NodeKey
}

// NewViewportComponent returns a viewport rendering rect through the camera
// owned by cameraNode.
func NewViewportComponent(rect ViewportRect, cameraNode NodeKey) ViewportComponent {
	return ViewportComponent{Rect: rect, HasRect: true, Camera: cameraNode}
}
