package engine

import (
	"context"

	"rule/types"
)

// ModuleTypeUpdated re-drives binding for every NOT_INITIALIZED rule that
// references uid, since the registry gives no detail on what changed
// (spec §4.7).
func (m *Manager) ModuleTypeUpdated(uid string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.disposed {
		return
	}
	for ruleUID := range m.typeIndex[uid] {
		entry, ok := m.rules[ruleUID]
		if !ok || entry.status.Status != types.StatusNotInitialized {
			continue
		}
		m.driveInitialization(context.Background(), entry)
	}
}

// TemplateUpdated re-drives binding for every NOT_INITIALIZED rule bound to
// template uid (spec §4.3, §4.7).
func (m *Manager) TemplateUpdated(uid string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.disposed {
		return
	}
	for ruleUID := range m.templateIndex[uid] {
		entry, ok := m.rules[ruleUID]
		if !ok || entry.status.Status != types.StatusNotInitialized {
			continue
		}
		m.driveInitialization(context.Background(), entry)
	}
}

// FactoryAdded registers f's claimed types and retries binding for every
// NOT_INITIALIZED rule that references one of them (spec §4.7).
func (m *Manager) FactoryAdded(f types.HandlerFactory) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.disposed {
		return
	}
	candidates := make(map[string]struct{})
	for _, t := range f.ClaimedTypes() {
		m.factoriesByType[t] = f
		for ruleUID := range m.typeIndex[t] {
			candidates[ruleUID] = struct{}{}
		}
	}
	for ruleUID := range candidates {
		entry, ok := m.rules[ruleUID]
		if !ok || entry.status.Status != types.StatusNotInitialized {
			continue
		}
		m.driveInitialization(context.Background(), entry)
	}
}

// FactoryRemoved unregisters f's claimed types and tears down every rule
// currently bound through one of them, setting HANDLER_MISSING (spec §4.7).
// A rule that is RUNNING cannot be torn down here: the executor reads
// entry.handlers/entry.dataflow without holding m.mu for the duration of a
// firing (spec §5), so mutating them from this goroutine would be an
// unsynchronized concurrent map write. Those rules are instead flagged with
// pendingFactoryTeardown and torn down by the trigger callback once the
// firing returns to IDLE, mirroring disposing/pendingDisable.
func (m *Manager) FactoryRemoved(f types.HandlerFactory) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.disposed {
		return
	}
	affected := make(map[string]struct{})
	for _, t := range f.ClaimedTypes() {
		delete(m.factoriesByType, t)
		for ruleUID := range m.typeIndex[t] {
			affected[ruleUID] = struct{}{}
		}
	}
	for ruleUID := range affected {
		entry, ok := m.rules[ruleUID]
		if !ok {
			continue
		}
		switch entry.status.Status {
		case types.StatusDisabled, types.StatusNotInitialized:
			continue
		case types.StatusRunning:
			entry.pendingFactoryTeardown = true
		default:
			m.releaseHandlers(context.Background(), entry)
			entry.setStatus(types.NotInitialized(types.DetailHandlerMissing, "handler factory removed"))
		}
	}
}
