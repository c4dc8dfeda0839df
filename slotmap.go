package rsg

import "fmt"

// slot holds one arena entry. The generation counts up from 1 every time
// the slot is (re)occupied.
type slot[V any] struct {
	value      V
	generation uint32
	occupied   bool
}

// SlotMap is a generational arena. Keys returned by Insert stay valid until
// the entry is removed; a removed slot is reused with a bumped generation so
// stale keys are detected instead of aliasing the new entry.
//
// The zero SlotMap is empty and ready to use.
type SlotMap[K handleKey, V any] struct {
	slots []slot[V]
	free  []uint32 // stack of vacant slot indices
	len   int
}

// NewSlotMap returns a SlotMap with room for capacity entries before growing.
func NewSlotMap[K handleKey, V any](capacity int) SlotMap[K, V] {
	return SlotMap[K, V]{slots: make([]slot[V], 0, capacity)}
}

// Insert stores v and returns its key.
func (m *SlotMap[K, V]) Insert(v V) K {
	m.len++
	if n := len(m.free); n > 0 {
		idx := m.free[n-1]
		m.free = m.free[:n-1]
		s := &m.slots[idx]
		s.generation++
		s.value = v
		s.occupied = true
		return K(handle{index: idx, generation: s.generation})
	}
	idx := uint32(len(m.slots))
	m.slots = append(m.slots, slot[V]{value: v, generation: 1, occupied: true})
	return K(handle{index: idx, generation: 1})
}

// Remove deletes the entry for k and returns its value. The second result
// is false when k is nil or stale.
func (m *SlotMap[K, V]) Remove(k K) (V, bool) {
	var zero V
	s := m.lookup(handle(k))
	if s == nil {
		return zero, false
	}
	v := s.value
	s.value = zero
	s.occupied = false
	m.free = append(m.free, handle(k).index)
	m.len--
	return v, true
}

// Contains reports whether k refers to a live entry.
func (m *SlotMap[K, V]) Contains(k K) bool {
	return m.lookup(handle(k)) != nil
}

// Get returns the value for k. The second result is false when k is nil or stale.
func (m *SlotMap[K, V]) Get(k K) (V, bool) {
	if s := m.lookup(handle(k)); s != nil {
		return s.value, true
	}
	var zero V
	return zero, false
}

// At returns a pointer to the value for k. It panics on a nil or stale key;
// dereferencing a dead key is a caller bug, not a runtime condition.
// The pointer is valid until the next Insert.
func (m *SlotMap[K, V]) At(k K) *V {
	s := m.lookup(handle(k))
	if s == nil {
		panic(fmt.Sprintf("rsg: stale or nil key %s", handle(k).format(fmt.Sprintf("%T", k))))
	}
	return &s.value
}

// Len returns the number of live entries.
func (m *SlotMap[K, V]) Len() int {
	return m.len
}

// All calls fn for every live entry in slot order, stopping early when fn
// returns false.
func (m *SlotMap[K, V]) All(fn func(K, *V) bool) {
	for i := range m.slots {
		s := &m.slots[i]
		if !s.occupied {
			continue
		}
		if !fn(K(handle{index: uint32(i), generation: s.generation}), &s.value) {
			return
		}
	}
}

func (m *SlotMap[K, V]) lookup(h handle) *slot[V] {
	if h.isNil() || int(h.index) >= len(m.slots) {
		return nil
	}
	s := &m.slots[h.index]
	if !s.occupied || s.generation != h.generation {
		return nil
	}
	return s
}

// SecondaryMap associates sparse extra data with keys issued by a SlotMap.
// An entry whose key went stale is invisible and replaced on the next Set.
type SecondaryMap[K handleKey, V any] struct {
	entries map[uint32]secondaryEntry[V]
}

type secondaryEntry[V any] struct {
	value      V
	generation uint32
}

// Set stores v for k, replacing any previous (possibly stale) entry in the slot.
func (m *SecondaryMap[K, V]) Set(k K, v V) {
	h := handle(k)
	if h.isNil() {
		panic("rsg: SecondaryMap.Set with nil key")
	}
	if m.entries == nil {
		m.entries = make(map[uint32]secondaryEntry[V])
	}
	m.entries[h.index] = secondaryEntry[V]{value: v, generation: h.generation}
}

// Get returns the value for k. The second result is false if there is no
// entry for exactly this key.
func (m *SecondaryMap[K, V]) Get(k K) (V, bool) {
	h := handle(k)
	e, ok := m.entries[h.index]
	if !ok || e.generation != h.generation || h.isNil() {
		var zero V
		return zero, false
	}
	return e.value, true
}

// At returns the value for k, panicking if there is none.
func (m *SecondaryMap[K, V]) At(k K) V {
	v, ok := m.Get(k)
	if !ok {
		panic(fmt.Sprintf("rsg: no secondary entry for %s", handle(k).format(fmt.Sprintf("%T", k))))
	}
	return v
}

// Delete removes the entry for k if it belongs to exactly this key.
func (m *SecondaryMap[K, V]) Delete(k K) {
	h := handle(k)
	if e, ok := m.entries[h.index]; ok && e.generation == h.generation {
		delete(m.entries, h.index)
	}
}

// Len returns the number of stored entries, including stale ones not yet
// overwritten.
func (m *SecondaryMap[K, V]) Len() int {
	return len(m.entries)
}
