package rsg

import (
	"fmt"
	"iter"
	"slices"
)

// Node is the insertion payload for a scene node: the component links it
// carries. Hierarchy is established by the Scene method used to insert it.
type Node struct {
	Links Links
}

// OrphanPolicy decides what RemoveWithoutChildren does with the removed
// node's children.
type OrphanPolicy uint8

const (
	// ReparentChildren splices the children into the former parent's child
	// list, in place of the removed node. Each moved child is reported as a
	// reattached subtree.
	ReparentChildren OrphanPolicy = iota
	// RequireLeaf panics if the node still has children.
	RequireLeaf
)

// nodeRecord is the stored form of a node.
type nodeRecord struct {
	parent   NodeKey
	children []NodeKey
	links    Links
	txn      uint32 // id of the uncommitted transaction owning the node, 0 once attached
}

const defaultNodeCap = 1024

// Scene is the node store: an arena of nodes linked into a single rooted
// tree. Operations on a stale NodeKey panic.
//
// A Scene may be read from several goroutines at once (Traverse, Ancestors,
// ComponentLinks) as long as nothing mutates it meanwhile.
type Scene struct {
	nodes    SlotMap[NodeKey, nodeRecord]
	root     NodeKey
	observer Observer
	pending  int    // nodes held by uncommitted transactions
	nextTxn  uint32 // last transaction id handed out
	debug    bool
}

// NewScene creates an empty scene. Call SetRoot (or
// Components.AddDefaultRoot) before inserting anything else.
func NewScene() *Scene {
	return NewSceneWithCapacity(defaultNodeCap)
}

// NewSceneWithCapacity creates an empty scene with room for capacity nodes.
func NewSceneWithCapacity(capacity int) *Scene {
	return &Scene{nodes: NewSlotMap[NodeKey, nodeRecord](capacity)}
}

// --- Observer ---

// SetObserver attaches o. Panics if an observer is already attached.
func (s *Scene) SetObserver(o Observer) {
	if o == nil {
		panic("rsg: SetObserver with nil observer")
	}
	if s.observer != nil {
		panic("rsg: an observer is already attached")
	}
	s.observer = o
}

// TakeObserver detaches and returns the current observer, or nil.
func (s *Scene) TakeObserver() Observer {
	o := s.observer
	s.observer = nil
	return o
}

// Observe attaches o for the duration of fn.
func (s *Scene) Observe(o Observer, fn func()) {
	s.SetObserver(o)
	defer s.TakeObserver()
	fn()
}

func (s *Scene) notify(e Event) {
	if s.observer != nil {
		s.observer.Notify(e)
	}
}

// --- Queries ---

// Root returns the root key, or the nil key if no root was set.
func (s *Scene) Root() NodeKey {
	return s.root
}

// NodeCount returns the number of nodes in the tree. Nodes of uncommitted
// transactions are not counted.
func (s *Scene) NodeCount() int {
	return s.nodes.Len() - s.pending
}

// Contains reports whether key refers to a live node.
func (s *Scene) Contains(key NodeKey) bool {
	return s.nodes.Contains(key)
}

// ComponentLinks returns the component links of key.
func (s *Scene) ComponentLinks(key NodeKey) Links {
	return s.node(key, "ComponentLinks").links
}

// Parent returns the parent of key, or the nil key for the root.
func (s *Scene) Parent(key NodeKey) NodeKey {
	return s.node(key, "Parent").parent
}

// Children returns the ordered children of key. The returned slice MUST NOT
// be mutated and is only valid until the next mutation.
func (s *Scene) Children(key NodeKey) []NodeKey {
	return s.node(key, "Children").children
}

// Traverse returns a pre-order walk of the subtree rooted at root, yielding
// each node with its depth relative to root (root itself is depth 0). Each
// call starts a fresh walk; the scene must not be mutated while iterating.
func (s *Scene) Traverse(root NodeKey) iter.Seq2[NodeKey, int] {
	return func(yield func(NodeKey, int) bool) {
		type frame struct {
			key   NodeKey
			depth int
		}
		s.node(root, "Traverse")
		stack := []frame{{key: root}}
		for len(stack) > 0 {
			f := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			if !yield(f.key, f.depth) {
				return
			}
			children := s.nodes.At(f.key).children
			for i := len(children) - 1; i >= 0; i-- {
				stack = append(stack, frame{key: children[i], depth: f.depth + 1})
			}
		}
	}
}

// Ancestors returns the chain of strict ancestors of key, nearest first,
// ending with the root.
func (s *Scene) Ancestors(key NodeKey) iter.Seq[NodeKey] {
	return func(yield func(NodeKey) bool) {
		for p := s.node(key, "Ancestors").parent; !p.IsNil(); p = s.nodes.At(p).parent {
			if !yield(p) {
				return
			}
		}
	}
}

// --- Mutation ---

// SetRoot inserts n as the root. Panics if the scene already has a root.
func (s *Scene) SetRoot(n Node) NodeKey {
	if !s.root.IsNil() {
		panic("rsg: scene already has a root")
	}
	key := s.nodes.Insert(nodeRecord{links: n.Links})
	s.root = key
	s.notify(Event{Type: EventSubtreeAddedOrReattached, Node: key})
	return key
}

// Append inserts n as the last child of parent.
func (s *Scene) Append(parent NodeKey, n Node) NodeKey {
	s.attached(parent, "Append")
	key := s.nodes.Insert(nodeRecord{parent: parent, links: n.Links})
	p := s.nodes.At(parent)
	p.children = append(p.children, key)
	if s.debug {
		debugCheckChildCount(key, parent, len(p.children))
	}
	s.notify(Event{Type: EventSubtreeAddedOrReattached, Node: key})
	return key
}

// Prepend inserts n as the first child of parent.
func (s *Scene) Prepend(parent NodeKey, n Node) NodeKey {
	s.attached(parent, "Prepend")
	key := s.nodes.Insert(nodeRecord{parent: parent, links: n.Links})
	p := s.nodes.At(parent)
	p.children = slices.Insert(p.children, 0, key)
	if s.debug {
		debugCheckChildCount(key, parent, len(p.children))
	}
	s.notify(Event{Type: EventSubtreeAddedOrReattached, Node: key})
	return key
}

// RemoveWithoutChildren removes a single node and returns its component
// links; releasing those components is the caller's job (see
// Components.Remove). What happens to the node's children is decided by
// policy. Panics when removing the root.
func (s *Scene) RemoveWithoutChildren(key NodeKey, policy OrphanPolicy) Links {
	rec := s.attached(key, "RemoveWithoutChildren")
	if key == s.root {
		panic("rsg: cannot remove the root node")
	}
	if policy == RequireLeaf && len(rec.children) > 0 {
		panic(fmt.Sprintf("rsg: RemoveWithoutChildren(%v, RequireLeaf) on node with %d children", key, len(rec.children)))
	}
	s.notify(Event{Type: EventSubtreeAboutToBeRemoved, Node: key})

	parentKey := rec.parent
	children := rec.children
	links := rec.links

	p := s.nodes.At(parentKey)
	i := slices.Index(p.children, key)
	p.children = slices.Replace(p.children, i, i+1, children...)
	for _, c := range children {
		s.nodes.At(c).parent = parentKey
	}
	s.nodes.Remove(key)

	for _, c := range children {
		s.notify(Event{Type: EventSubtreeAddedOrReattached, Node: c})
	}
	return links
}

// RemoveSubtree removes key and all of its descendants and returns their
// component links in pre-order. Panics when removing the root.
func (s *Scene) RemoveSubtree(key NodeKey) []Links {
	rec := s.attached(key, "RemoveSubtree")
	if key == s.root {
		panic("rsg: cannot remove the root node")
	}
	s.notify(Event{Type: EventSubtreeAboutToBeRemoved, Node: key})

	p := s.nodes.At(rec.parent)
	p.children = slices.DeleteFunc(p.children, func(c NodeKey) bool { return c == key })
	return s.freeSubtree(key)
}

// Reparent moves the subtree rooted at key to the end of newParent's
// children. Panics if key is the root or newParent lies inside the subtree.
func (s *Scene) Reparent(key, newParent NodeKey) {
	rec := s.attached(key, "Reparent")
	s.attached(newParent, "Reparent")
	if key == s.root {
		panic("rsg: cannot reparent the root node")
	}
	if newParent == key {
		panic("rsg: reparenting a node under itself")
	}
	for a := range s.Ancestors(newParent) {
		if a == key {
			panic("rsg: reparenting would create a cycle")
		}
	}
	old := s.nodes.At(rec.parent)
	old.children = slices.DeleteFunc(old.children, func(c NodeKey) bool { return c == key })
	rec.parent = newParent
	np := s.nodes.At(newParent)
	np.children = append(np.children, key)
	s.notify(Event{Type: EventSubtreeAddedOrReattached, Node: key})
}

// MarkDirty reports that fields of key's components changed in the given
// categories, invalidating derived values in its subtree.
func (s *Scene) MarkDirty(key NodeKey, flags DirtyFlags) {
	s.attached(key, "MarkDirty")
	s.notify(Event{Type: EventDirty, Node: key, Flags: flags})
}

// --- Helpers ---

// node returns the record for key, panicking on a stale key.
func (s *Scene) node(key NodeKey, op string) *nodeRecord {
	if !s.nodes.Contains(key) {
		panic(fmt.Sprintf("rsg: %s on stale %v", op, key))
	}
	return s.nodes.At(key)
}

// attached is node plus a check that key is not held by an uncommitted
// transaction.
func (s *Scene) attached(key NodeKey, op string) *nodeRecord {
	rec := s.node(key, op)
	if rec.txn != 0 {
		panic(fmt.Sprintf("rsg: %s on %v, which belongs to an uncommitted transaction", op, key))
	}
	return rec
}

// freeSubtree removes every node of an already-detached subtree.
func (s *Scene) freeSubtree(key NodeKey) []Links {
	var keys []NodeKey
	for k := range s.Traverse(key) {
		keys = append(keys, k)
	}
	links := make([]Links, 0, len(keys))
	for _, k := range keys {
		rec, _ := s.nodes.Remove(k)
		links = append(links, rec.links)
	}
	return links
}
