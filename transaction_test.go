package rsg

import (
	"slices"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestTransaction_SingleEventForChain(t *testing.T) {
	s, c, root := newTestScene()
	anchor := s.Append(root, NewComponentBuilder(c).Transform(mgl32.Ident4()).Node())

	rec := &recorder{}
	const n = 100000
	var first, last NodeKey
	s.Observe(rec, func() {
		tx := NewSubtreeTransaction()
		parent := anchor
		for i := range n {
			parent = s.AppendWithTransaction(parent, NewComponentBuilder(c).
				Transform(mgl32.Translate3D(1, 0, 0)).Node(), tx)
			if i == 0 {
				first = parent
			}
		}
		last = parent

		if s.NodeCount() != 2 {
			t.Errorf("NodeCount before Commit = %d, want 2", s.NodeCount())
		}
		if len(s.Children(anchor)) != 0 {
			t.Errorf("uncommitted root already attached to %v", anchor)
		}
		if tx.Len() != n {
			t.Errorf("tx.Len = %d, want %d", tx.Len(), n)
		}
		s.Commit(tx)
	})

	if want := []Event{{Type: EventSubtreeAddedOrReattached, Node: first}}; !slices.Equal(rec.events, want) {
		t.Fatalf("events = %v, want %v", rec.events, want)
	}
	if s.NodeCount() != n+2 {
		t.Errorf("NodeCount = %d, want %d", s.NodeCount(), n+2)
	}

	UpdateInheritedProperties(c, s, []NodeKey{first}, nil, newTestPool(t))
	got := c.Transforms.At(s.ComponentLinks(last).Transform).WorldTranslation()
	if !got.ApproxEqualThreshold(mgl32.Vec3{n, 0, 0}, 1) {
		t.Errorf("chain tip world translation = %v, want [%d 0 0]", got, n)
	}
}

func TestTransaction_MultipleRoots(t *testing.T) {
	s, _, root := newTestScene()
	a := s.Append(root, Node{})

	tx := NewSubtreeTransaction()
	r1 := s.AppendWithTransaction(root, Node{}, tx)
	r2 := s.AppendWithTransaction(a, Node{}, tx)
	r1c := s.AppendWithTransaction(r1, Node{}, tx)

	rec := &recorder{}
	s.Observe(rec, func() { s.Commit(tx) })

	want := []Event{
		{Type: EventSubtreeAddedOrReattached, Node: r1},
		{Type: EventSubtreeAddedOrReattached, Node: r2},
	}
	if !slices.Equal(rec.events, want) {
		t.Errorf("events = %v, want %v", rec.events, want)
	}
	keys, _ := collect(s, root)
	if want := []NodeKey{root, a, r2, r1, r1c}; !slices.Equal(keys, want) {
		t.Errorf("Traverse = %v, want %v", keys, want)
	}
}

func TestTransaction_EmptyCommitIsNoop(t *testing.T) {
	s, _, _ := newTestScene()
	rec := &recorder{}
	s.Observe(rec, func() { s.Commit(NewSubtreeTransaction()) })
	if len(rec.events) != 0 {
		t.Errorf("events = %v, want none", rec.events)
	}
}

func TestTransaction_UncommittedNodesRejected(t *testing.T) {
	s, _, root := newTestScene()
	tx := NewSubtreeTransaction()
	n := s.AppendWithTransaction(root, Node{}, tx)

	expectPanic(t, "uncommitted", func() { s.Append(n, Node{}) })
	expectPanic(t, "uncommitted", func() { s.MarkDirty(n, DirtyTransform) })

	other := NewSubtreeTransaction()
	expectPanic(t, "another transaction", func() { s.AppendWithTransaction(n, Node{}, other) })
}

func TestTransaction_ReuseAfterCommitPanics(t *testing.T) {
	s, _, root := newTestScene()
	tx := NewSubtreeTransaction()
	s.AppendWithTransaction(root, Node{}, tx)
	s.Commit(tx)
	expectPanic(t, "already committed", func() { s.Commit(tx) })
	expectPanic(t, "finished transaction", func() { s.AppendWithTransaction(root, Node{}, tx) })
}

func TestTransaction_Discard(t *testing.T) {
	s, c, root := newTestScene()
	tx := NewSubtreeTransaction()
	a := s.AppendWithTransaction(root, NewComponentBuilder(c).Transform(mgl32.Ident4()).Node(), tx)
	s.AppendWithTransaction(a, NewComponentBuilder(c).Opacity(1).Node(), tx)

	rec := &recorder{}
	var links []Links
	s.Observe(rec, func() { links = s.Discard(tx) })
	for _, l := range links {
		c.Remove(l)
	}

	if len(rec.events) != 0 {
		t.Errorf("Discard emitted %v", rec.events)
	}
	if s.Contains(a) {
		t.Error("discarded node still contained")
	}
	if s.NodeCount() != 1 || c.Transforms.Len() != 1 || c.Opacities.Len() != 1 {
		t.Errorf("after Discard: %d nodes, %d transforms, %d opacities; want 1 each",
			s.NodeCount(), c.Transforms.Len(), c.Opacities.Len())
	}
}

func TestTransaction_CommitAfterParentRemovedPanics(t *testing.T) {
	s, c, root := newTestScene()
	parent := s.Append(root, Node{})
	tx := NewSubtreeTransaction()
	n := s.AppendWithTransaction(parent, NewComponentBuilder(c).Opacity(1).Node(), tx)
	s.AppendWithTransaction(n, Node{}, tx)
	s.RemoveWithoutChildren(parent, RequireLeaf)

	expectPanic(t, "was removed", func() { s.Commit(tx) })

	// The transaction stays open and can still be discarded.
	for _, l := range s.Discard(tx) {
		c.Remove(l)
	}
	if s.NodeCount() != 1 || c.Opacities.Len() != 1 {
		t.Errorf("nodes %d, opacities %d; want 1, 1", s.NodeCount(), c.Opacities.Len())
	}
}
