// Package memtemplateregistry is a concrete, in-memory implementation of
// types.TemplateRegistry (spec §6), used by tests and the runnable example.
package memtemplateregistry

import (
	"sync"

	"rule/types"
)

type Registry struct {
	mu        sync.RWMutex
	templates map[string]types.Template
	listeners map[types.TemplateListener]struct{}
}

func New() *Registry {
	return &Registry{
		templates: make(map[string]types.Template),
		listeners: make(map[types.TemplateListener]struct{}),
	}
}

var _ types.TemplateRegistry = (*Registry)(nil)

// Put registers or replaces a template and notifies every listener, which
// is how the engine retries rules stuck on TEMPLATE_MISSING once the
// template they reference finally shows up (spec §4.3, §4.7).
func (r *Registry) Put(tpl types.Template) {
	r.mu.Lock()
	r.templates[tpl.UID] = tpl.Copy()
	listeners := make([]types.TemplateListener, 0, len(r.listeners))
	for l := range r.listeners {
		listeners = append(listeners, l)
	}
	r.mu.Unlock()

	for _, l := range listeners {
		l.TemplateUpdated(tpl.UID)
	}
}

func (r *Registry) Remove(uid string) {
	r.mu.Lock()
	delete(r.templates, uid)
	r.mu.Unlock()
}

func (r *Registry) Get(uid string) (*types.Template, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	tpl, ok := r.templates[uid]
	if !ok {
		return nil, false
	}
	cp := tpl.Copy()
	return &cp, true
}

func (r *Registry) AddListener(l types.TemplateListener) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.listeners[l] = struct{}{}
}

func (r *Registry) RemoveListener(l types.TemplateListener) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.listeners, l)
}
