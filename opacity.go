package rsg

// OpacityComponent holds a node's own opacity and the product of it with
// every opacity-owning ancestor.
type OpacityComponent struct {
	Opacity   float32
	Inherited float32
}

// NewOpacityComponent returns a component whose inherited opacity starts
// out equal to opacity.
func NewOpacityComponent(opacity float32) OpacityComponent {
	return OpacityComponent{Opacity: opacity, Inherited: opacity}
}
