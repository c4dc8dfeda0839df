// Package ecs provides ECS adapters for rsg's scene change events.
//
// The primary adapter is [NewDonburiObserver], which bridges scene events
// (subtree added, subtree about to be removed, dirty) into a [Donburi] world
// as typed events. Subscribe to [SceneEventType] in your ECS systems to
// receive them.
//
// Usage:
//
//	obs := ecs.NewDonburiObserver(world)
//	scene.Observe(rsg.MultiObserver{graph.Observer(), obs}, func() {
//		// mutate the scene
//	})
//	ecs.SceneEventType.ProcessEvents(world)
//
// Entities can carry the node they mirror with [NodeComponent].
//
// [Donburi]: https://github.com/yohamta/donburi
package ecs
