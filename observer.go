package rsg

import (
	"fmt"
	"strings"
)

// DirtyFlags is a bitmask of derived-value categories a mutation invalidates.
type DirtyFlags uint8

const (
	DirtyTransform      DirtyFlags = 1 << iota // world transforms and camera properties
	DirtyOpacity                               // inherited opacity
	DirtyMaterial                              // material assignment or shader set
	DirtyMaterialValues                        // material property values
	DirtyMesh                                  // mesh payload

	DirtyAll = DirtyTransform | DirtyOpacity | DirtyMaterial | DirtyMaterialValues | DirtyMesh
)

var dirtyFlagNames = [...]string{"transform", "opacity", "material", "material-values", "mesh"}

func (f DirtyFlags) String() string {
	if f == 0 {
		return "none"
	}
	var parts []string
	for i, name := range dirtyFlagNames {
		if f&(1<<i) != 0 {
			parts = append(parts, name)
		}
	}
	return strings.Join(parts, "|")
}

// EventType identifies the kind of scene change an Event reports.
type EventType uint8

const (
	EventSubtreeAddedOrReattached EventType = iota // a subtree was inserted or moved
	EventSubtreeAboutToBeRemoved                   // a node is about to leave the tree
	EventDirty                                     // a node's component fields changed
)

// Event is a single scene change notification.
type Event struct {
	Type  EventType
	Node  NodeKey
	Flags DirtyFlags // set for EventDirty only
}

func (e Event) String() string {
	switch e.Type {
	case EventSubtreeAddedOrReattached:
		return fmt.Sprintf("SubtreeAddedOrReattached(%v)", e.Node)
	case EventSubtreeAboutToBeRemoved:
		return fmt.Sprintf("SubtreeAboutToBeRemoved(%v)", e.Node)
	default:
		return fmt.Sprintf("Dirty(%v, %v)", e.Node, e.Flags)
	}
}

// Observer receives scene change notifications. A Scene holds at most one
// observer, attached by the caller around a batch of mutations.
type Observer interface {
	Notify(Event)
}

// ObserverFunc adapts a function to the Observer interface.
type ObserverFunc func(Event)

// Notify calls f(e).
func (f ObserverFunc) Notify(e Event) { f(e) }

// MultiObserver forwards every event to each of its observers in order.
type MultiObserver []Observer

// Notify forwards e.
func (m MultiObserver) Notify(e Event) {
	for _, o := range m {
		o.Notify(e)
	}
}

// SceneObserver accumulates the roots of dirty subtrees, one list per
// category. Roots are not deduplicated; resolving a root twice is wasted
// work but yields the same result. A root removed later in the same cycle
// stays listed; the resolve passes skip keys that are no longer live.
type SceneObserver struct {
	Changed          bool
	HierarchyChanged bool

	DirtyWorldRoots         []NodeKey
	DirtyOpacityRoots       []NodeKey
	DirtyMaterialRoots      []NodeKey
	DirtyMaterialValueRoots []NodeKey
	DirtyMeshRoots          []NodeKey
}

// NewSceneObserver returns an empty observer.
func NewSceneObserver() *SceneObserver {
	return &SceneObserver{}
}

// Notify records e. A newly attached subtree is stale in every category.
func (o *SceneObserver) Notify(e Event) {
	o.Changed = true
	switch e.Type {
	case EventSubtreeAddedOrReattached:
		o.HierarchyChanged = true
		o.DirtyWorldRoots = append(o.DirtyWorldRoots, e.Node)
		o.DirtyOpacityRoots = append(o.DirtyOpacityRoots, e.Node)
		o.DirtyMaterialRoots = append(o.DirtyMaterialRoots, e.Node)
		o.DirtyMaterialValueRoots = append(o.DirtyMaterialValueRoots, e.Node)
		o.DirtyMeshRoots = append(o.DirtyMeshRoots, e.Node)
	case EventSubtreeAboutToBeRemoved:
		o.HierarchyChanged = true
	case EventDirty:
		if e.Flags&DirtyTransform != 0 {
			o.DirtyWorldRoots = append(o.DirtyWorldRoots, e.Node)
		}
		if e.Flags&DirtyOpacity != 0 {
			o.DirtyOpacityRoots = append(o.DirtyOpacityRoots, e.Node)
		}
		if e.Flags&DirtyMaterial != 0 {
			o.DirtyMaterialRoots = append(o.DirtyMaterialRoots, e.Node)
		}
		if e.Flags&DirtyMaterialValues != 0 {
			o.DirtyMaterialValueRoots = append(o.DirtyMaterialValueRoots, e.Node)
		}
		if e.Flags&DirtyMesh != 0 {
			o.DirtyMeshRoots = append(o.DirtyMeshRoots, e.Node)
		}
	}
}

// Reset clears all accumulated state, keeping list capacity.
func (o *SceneObserver) Reset() {
	o.Changed = false
	o.HierarchyChanged = false
	o.DirtyWorldRoots = o.DirtyWorldRoots[:0]
	o.DirtyOpacityRoots = o.DirtyOpacityRoots[:0]
	o.DirtyMaterialRoots = o.DirtyMaterialRoots[:0]
	o.DirtyMaterialValueRoots = o.DirtyMaterialValueRoots[:0]
	o.DirtyMeshRoots = o.DirtyMeshRoots[:0]
}
