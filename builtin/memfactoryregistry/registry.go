// Package memfactoryregistry is a concrete, in-memory implementation of
// types.HandlerFactoryRegistry (spec §6), the dynamic tracker the engine
// subscribes to so it notices a handler factory appearing or disappearing
// at runtime (e.g. a plugin process connecting or dropping off an MQTT
// bus) without needing to poll.
package memfactoryregistry

import (
	"sync"

	"rule/types"
)

type Registry struct {
	mu        sync.RWMutex
	factories map[types.HandlerFactory]struct{}
	listeners map[types.HandlerFactoryListener]struct{}
}

func New() *Registry {
	return &Registry{
		factories: make(map[types.HandlerFactory]struct{}),
		listeners: make(map[types.HandlerFactoryListener]struct{}),
	}
}

var _ types.HandlerFactoryRegistry = (*Registry)(nil)

// Register adds f and notifies every listener of its arrival.
func (r *Registry) Register(f types.HandlerFactory) {
	r.mu.Lock()
	r.factories[f] = struct{}{}
	listeners := r.snapshotListeners()
	r.mu.Unlock()

	for _, l := range listeners {
		l.FactoryAdded(f)
	}
}

// Unregister removes f and notifies every listener of its departure.
func (r *Registry) Unregister(f types.HandlerFactory) {
	r.mu.Lock()
	delete(r.factories, f)
	listeners := r.snapshotListeners()
	r.mu.Unlock()

	for _, l := range listeners {
		l.FactoryRemoved(f)
	}
}

func (r *Registry) snapshotListeners() []types.HandlerFactoryListener {
	out := make([]types.HandlerFactoryListener, 0, len(r.listeners))
	for l := range r.listeners {
		out = append(out, l)
	}
	return out
}

func (r *Registry) AddListener(l types.HandlerFactoryListener) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.listeners[l] = struct{}{}
}

func (r *Registry) RemoveListener(l types.HandlerFactoryListener) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.listeners, l)
}
