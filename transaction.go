package rsg

import "fmt"

// SubtreeTransaction batches node insertions so a whole new subtree is
// announced with one SubtreeAddedOrReattached event instead of one per node.
//
// Nodes appended through a transaction are allocated immediately, so their
// keys can be used as parents for further transactional appends, but the
// subtree stays detached from the tree (not traversed, not counted) until
// Commit.
type SubtreeTransaction struct {
	scene *Scene
	id    uint32
	roots []NodeKey // nodes whose parent was already in the tree
	count int
	done  bool
}

// NewSubtreeTransaction returns an empty transaction. It binds to a scene
// on first use.
func NewSubtreeTransaction() *SubtreeTransaction {
	return &SubtreeTransaction{}
}

// Len returns the number of nodes appended through tx.
func (tx *SubtreeTransaction) Len() int {
	return tx.count
}

// AppendWithTransaction inserts n as the last child of parent as part of
// tx. parent is either a node in the tree or a node appended earlier in the
// same transaction; only that parent is checked. A tree parent must still be
// live at Commit: Commit panics if it was removed in between, leaving tx
// open so it can be discarded.
func (s *Scene) AppendWithTransaction(parent NodeKey, n Node, tx *SubtreeTransaction) NodeKey {
	s.bind(tx, "AppendWithTransaction")
	p := s.node(parent, "AppendWithTransaction")
	inTx := p.txn == tx.id
	if p.txn != 0 && !inTx {
		panic(fmt.Sprintf("rsg: AppendWithTransaction under %v, which belongs to another transaction", parent))
	}
	key := s.nodes.Insert(nodeRecord{parent: parent, links: n.Links, txn: tx.id})
	if inTx {
		p = s.nodes.At(parent)
		p.children = append(p.children, key)
	} else {
		tx.roots = append(tx.roots, key)
	}
	s.pending++
	tx.count++
	return key
}

// Commit attaches the transaction's subtrees to the tree and notifies the
// observer once per transaction root. Every tree parent is checked before
// anything is attached. Committing an empty transaction does nothing. A
// transaction cannot be reused after Commit or Discard.
func (s *Scene) Commit(tx *SubtreeTransaction) {
	if tx.done {
		panic("rsg: transaction already committed or discarded")
	}
	if tx.count == 0 {
		tx.done = true
		return
	}
	if tx.scene != s {
		panic("rsg: transaction belongs to another scene")
	}
	for _, r := range tx.roots {
		if parent := s.nodes.At(r).parent; !s.nodes.Contains(parent) {
			panic(fmt.Sprintf("rsg: Commit: parent %v of transaction root %v was removed", parent, r))
		}
	}
	tx.done = true
	for _, r := range tx.roots {
		parent := s.nodes.At(r).parent
		p := s.attached(parent, "Commit")
		p.children = append(p.children, r)
		if s.debug {
			debugCheckChildCount(r, parent, len(p.children))
		}
	}
	for _, r := range tx.roots {
		for k := range s.Traverse(r) {
			s.nodes.At(k).txn = 0
		}
	}
	s.pending -= tx.count
	for _, r := range tx.roots {
		s.notify(Event{Type: EventSubtreeAddedOrReattached, Node: r})
	}
}

// Discard frees every node of an uncommitted transaction and returns their
// component links for release. No events are emitted.
func (s *Scene) Discard(tx *SubtreeTransaction) []Links {
	if tx.done {
		panic("rsg: transaction already committed or discarded")
	}
	tx.done = true
	if tx.count == 0 {
		return nil
	}
	if tx.scene != s {
		panic("rsg: transaction belongs to another scene")
	}
	links := make([]Links, 0, tx.count)
	for _, r := range tx.roots {
		links = append(links, s.freeSubtree(r)...)
	}
	s.pending -= tx.count
	return links
}

func (s *Scene) bind(tx *SubtreeTransaction, op string) {
	if tx.done {
		panic(fmt.Sprintf("rsg: %s with a finished transaction", op))
	}
	if tx.scene == nil {
		s.nextTxn++
		tx.scene = s
		tx.id = s.nextTxn
		return
	}
	if tx.scene != s {
		panic(fmt.Sprintf("rsg: %s with a transaction of another scene", op))
	}
}
