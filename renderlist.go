package rsg

import "sort"

// RenderItem is one entry of a render list: a node and its signed distance
// along the view axis of the camera it is drawn with.
type RenderItem struct {
	Node     NodeKey
	Distance float32
}

// SortOrder is the distance ordering a RenderList maintains.
type SortOrder uint8

const (
	FrontToBack SortOrder = iota // ascending distance, for opaque geometry
	BackToFront                  // descending distance, for blended geometry
)

// RenderList keeps its items sorted by distance at all times. Items with
// equal distance keep insertion order.
type RenderList struct {
	Items []RenderItem
	Order SortOrder
}

// NewOpaqueList returns a front-to-back list.
func NewOpaqueList(capacity int) *RenderList {
	return &RenderList{Items: make([]RenderItem, 0, capacity), Order: FrontToBack}
}

// NewAlphaList returns a back-to-front list.
func NewAlphaList(capacity int) *RenderList {
	return &RenderList{Items: make([]RenderItem, 0, capacity), Order: BackToFront}
}

// Len returns the number of items.
func (l *RenderList) Len() int {
	return len(l.Items)
}

// Reset empties the list, keeping its capacity.
func (l *RenderList) Reset() {
	l.Items = l.Items[:0]
}

// Insert places item after every item that sorts before or level with it.
func (l *RenderList) Insert(item RenderItem) {
	var i int
	if l.Order == BackToFront {
		i = sort.Search(len(l.Items), func(j int) bool { return l.Items[j].Distance < item.Distance })
	} else {
		i = sort.Search(len(l.Items), func(j int) bool { return l.Items[j].Distance > item.Distance })
	}
	l.Items = append(l.Items, RenderItem{})
	copy(l.Items[i+1:], l.Items[i:])
	l.Items[i] = item
}

// IsSorted reports whether the list satisfies its ordering.
func (l *RenderList) IsSorted() bool {
	for i := 1; i < len(l.Items); i++ {
		a, b := l.Items[i-1].Distance, l.Items[i].Distance
		if l.Order == FrontToBack && a > b || l.Order == BackToFront && a < b {
			return false
		}
	}
	return true
}
