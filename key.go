package rsg

import "fmt"

// handle is the shared layout of every key type: a slot index plus the
// generation the slot had when the key was issued. Generation 0 is never
// issued, so the zero value of any key type means "no key".
type handle struct {
	index      uint32
	generation uint32
}

// handleKey is satisfied by every key type in this package.
type handleKey interface {
	~struct {
		index      uint32
		generation uint32
	}
}

func (h handle) isNil() bool { return h.generation == 0 }

func (h handle) format(kind string) string {
	if h.isNil() {
		return kind + "(nil)"
	}
	return fmt.Sprintf("%s(%dv%d)", kind, h.index, h.generation)
}

// NodeKey identifies a node in a Scene.
type NodeKey handle

// TransformKey identifies a TransformComponent.
type TransformKey handle

// OpacityKey identifies an OpacityComponent.
type OpacityKey handle

// MaterialKey identifies a MaterialComponent and its Material payload.
type MaterialKey handle

// MeshKey identifies a MeshComponent and its Mesh payload.
type MeshKey handle

// CameraKey identifies a CameraComponent.
type CameraKey handle

// ViewportKey identifies a ViewportComponent.
type ViewportKey handle

// IsNil reports whether k is the zero key.
func (k NodeKey) IsNil() bool { return handle(k).isNil() }

// IsNil reports whether k is the zero key.
func (k TransformKey) IsNil() bool { return handle(k).isNil() }

// IsNil reports whether k is the zero key.
func (k OpacityKey) IsNil() bool { return handle(k).isNil() }

// IsNil reports whether k is the zero key.
func (k MaterialKey) IsNil() bool { return handle(k).isNil() }

// IsNil reports whether k is the zero key.
func (k MeshKey) IsNil() bool { return handle(k).isNil() }

// IsNil reports whether k is the zero key.
func (k CameraKey) IsNil() bool { return handle(k).isNil() }

// IsNil reports whether k is the zero key.
func (k ViewportKey) IsNil() bool { return handle(k).isNil() }

func (k NodeKey) String() string      { return handle(k).format("NodeKey") }
func (k TransformKey) String() string { return handle(k).format("TransformKey") }
func (k OpacityKey) String() string   { return handle(k).format("OpacityKey") }
func (k MaterialKey) String() string  { return handle(k).format("MaterialKey") }
func (k MeshKey) String() string      { return handle(k).format("MeshKey") }
func (k CameraKey) String() string    { return handle(k).format("CameraKey") }
func (k ViewportKey) String() string  { return handle(k).format("ViewportKey") }
