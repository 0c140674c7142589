// Package memtyperegistry is a concrete, in-memory implementation of
// types.ModuleTypeRegistry, the engine's external module-type collaborator
// (spec §6). It exists as a reference implementation for tests and the
// runnable example; a real deployment could back the same interface with a
// database or a remote catalog service instead.
package memtyperegistry

import (
	"sync"

	"rule/types"
)

type Registry struct {
	mu        sync.RWMutex
	types_    map[string]types.ModuleType
	listeners map[types.ModuleTypeListener]struct{}
}

func New() *Registry {
	return &Registry{
		types_:    make(map[string]types.ModuleType),
		listeners: make(map[types.ModuleTypeListener]struct{}),
	}
}

var _ types.ModuleTypeRegistry = (*Registry)(nil)

// Put registers or replaces a module type and notifies every listener,
// which is how the engine learns to retry NOT_INITIALIZED rules that
// reference the type, such as a HANDLER_INITIALIZING_ERROR-by-schema-mismatch
// (spec §4.7). Rules stuck on TEMPLATE_MISSING are retried by template
// updates, not by this call.
func (r *Registry) Put(mt types.ModuleType) {
	r.mu.Lock()
	r.types_[mt.UID] = mt
	listeners := make([]types.ModuleTypeListener, 0, len(r.listeners))
	for l := range r.listeners {
		listeners = append(listeners, l)
	}
	r.mu.Unlock()

	for _, l := range listeners {
		l.ModuleTypeUpdated(mt.UID)
	}
}

func (r *Registry) Remove(uid string) {
	r.mu.Lock()
	delete(r.types_, uid)
	r.mu.Unlock()
}

func (r *Registry) GetType(uid string, locale string) (*types.ModuleType, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	mt, ok := r.types_[uid]
	if !ok {
		return nil, false
	}
	cp := mt
	return &cp, true
}

func (r *Registry) GetTypes(filter func(types.ModuleType) bool, locale string) []types.ModuleType {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]types.ModuleType, 0, len(r.types_))
	for _, mt := range r.types_ {
		if filter == nil || filter(mt) {
			out = append(out, mt)
		}
	}
	return out
}

func (r *Registry) AddListener(l types.ModuleTypeListener) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.listeners[l] = struct{}{}
}

func (r *Registry) RemoveListener(l types.ModuleTypeListener) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.listeners, l)
}
