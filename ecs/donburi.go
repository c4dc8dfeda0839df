package ecs

import (
	"github.com/phanxgames/rsg"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
)

// SceneEventType is the Donburi event type for rsg scene events.
var SceneEventType = events.NewEventType[rsg.Event]()

// NodeComponent links an entity to the scene node it mirrors.
var NodeComponent = donburi.NewComponentType[rsg.NodeKey]()

type donburiObserver struct {
	world donburi.World
}

// NewDonburiObserver creates an rsg.Observer backed by a Donburi world.
// Scene events are published to SceneEventType and can be consumed with
// events.Subscribe and ProcessEvents.
func NewDonburiObserver(world donburi.World) rsg.Observer {
	return &donburiObserver{world: world}
}

func (o *donburiObserver) Notify(e rsg.Event) {
	SceneEventType.Publish(o.world, e)
}

// NewNodeEntity creates an entity carrying key in NodeComponent.
func NewNodeEntity(world donburi.World, key rsg.NodeKey) donburi.Entity {
	entity := world.Create(NodeComponent)
	NodeComponent.SetValue(world.Entry(entity), key)
	return entity
}

// NodeOf returns the node linked to entry, or the nil key if it has none.
func NodeOf(entry *donburi.Entry) rsg.NodeKey {
	if !entry.HasComponent(NodeComponent) {
		return rsg.NodeKey{}
	}
	return NodeComponent.GetValue(entry)
}
