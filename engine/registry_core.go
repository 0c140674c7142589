package engine

import (
	"context"

	"rule/types"
)

const defaultScope = "default"

// hasBlankTypeUID reports whether any module in rule carries an empty
// TypeUID. A blank type UID is a programmer error, not a binding failure:
// spec §7 requires it to surface at the call site via ErrNilTypeUID before
// any status is touched, rather than being recorded as an ordinary
// HANDLER_INITIALIZING_ERROR.
func hasBlankTypeUID(rule types.Rule) bool {
	for _, t := range rule.Triggers {
		if t.TypeUID == "" {
			return true
		}
	}
	for _, c := range rule.Conditions {
		if c.TypeUID == "" {
			return true
		}
	}
	for _, a := range rule.Actions {
		if a.TypeUID == "" {
			return true
		}
	}
	return false
}

// Add registers rule under the default scope (spec §6).
func (m *Manager) Add(ctx context.Context, rule types.Rule) (string, error) {
	return m.AddWithScope(ctx, rule, defaultScope)
}

// AddWithScope registers rule, assigning it an engine-generated UID if it
// doesn't already carry one, and attempts to bind it immediately
// (spec §4.1, §4.2).
func (m *Manager) AddWithScope(ctx context.Context, rule types.Rule, scope string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.disposed {
		return "", types.ErrEngineStopped
	}
	if hasBlankTypeUID(rule) {
		return "", types.ErrNilTypeUID
	}

	uid := rule.UID
	if uid == "" {
		uid = m.idGen.generate()
	} else if _, exists := m.rules[uid]; exists {
		return "", types.ErrDuplicateUID
	} else {
		m.idGen.observe(uid)
	}

	canonical := rule.Copy()
	canonical.UID = uid
	canonical.Scope = scope
	assignModuleIDs(&canonical)

	entry := newRuleEntry(m, uid, scope, canonical)
	entry.callback = newTriggerCallback(m, uid)
	m.rules[uid] = entry
	m.scopes[scope] = struct{}{}

	m.driveInitialization(ctx, entry)
	return uid, nil
}

// Update replaces rule's body in place, tearing down and rebuilding its
// binding from scratch (spec §4.1).
func (m *Manager) Update(ctx context.Context, rule types.Rule) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.disposed {
		return types.ErrEngineStopped
	}
	if hasBlankTypeUID(rule) {
		return types.ErrNilTypeUID
	}
	entry, ok := m.rules[rule.UID]
	if !ok {
		return types.ErrRuleNotFound
	}

	m.releaseHandlers(ctx, entry)
	canonical := rule.Copy()
	canonical.UID = entry.uid
	canonical.Scope = entry.scope
	assignModuleIDs(&canonical)
	entry.stored = canonical
	entry.expanded = nil
	entry.disabledExplicit = false

	m.driveInitialization(ctx, entry)
	return nil
}

// Remove unregisters ruleUID. If the rule is mid-execution, teardown is
// deferred until the in-flight firing returns to IDLE (spec §5).
func (m *Manager) Remove(ruleUID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	entry, ok := m.rules[ruleUID]
	if !ok {
		return false
	}
	if entry.status.Status == types.StatusRunning {
		entry.disposing = true
		return true
	}
	m.finishRemoval(entry)
	return true
}

// finishRemoval releases entry's handlers and deletes it from every index
// and the rule map. Must be called with m.mu held.
func (m *Manager) finishRemoval(entry *ruleEntry) {
	m.releaseHandlers(context.Background(), entry)
	m.clearRuleIndexes(entry.uid)
	delete(m.rules, entry.uid)
}

// Get returns a defensive copy of the rule exactly as last Add/Update'd.
func (m *Manager) Get(ruleUID string) (types.Rule, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	entry, ok := m.rules[ruleUID]
	if !ok {
		return types.Rule{}, false
	}
	return entry.stored.Copy(), true
}

// GetAll returns defensive copies of every registered rule.
func (m *Manager) GetAll() []types.Rule {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]types.Rule, 0, len(m.rules))
	for _, entry := range m.rules {
		out = append(out, entry.stored.Copy())
	}
	return out
}

// GetByTag returns every rule carrying tag.
func (m *Manager) GetByTag(tag string) []types.Rule {
	return m.GetByTags(types.NewTags(tag))
}

// GetByTags returns every rule carrying at least one of tags.
func (m *Manager) GetByTags(tags types.Tags) []types.Rule {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]types.Rule, 0)
	for _, entry := range m.rules {
		if entry.stored.Tags.HasAny(tags) {
			out = append(out, entry.stored.Copy())
		}
	}
	return out
}

// GetStatus returns ruleUID's current status.
func (m *Manager) GetStatus(ruleUID string) (types.StatusInfo, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	entry, ok := m.rules[ruleUID]
	if !ok {
		return types.StatusInfo{}, false
	}
	return entry.status, true
}

// SetEnabled toggles a rule between DISABLED and its normal lifecycle.
// Disabling a rule tears its binding down without removing it; re-enabling
// attempts a fresh bind (spec §4.1, §4.8).
func (m *Manager) SetEnabled(ruleUID string, enabled bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	entry, ok := m.rules[ruleUID]
	if !ok {
		return types.ErrRuleNotFound
	}

	if !enabled {
		if entry.status.Status == types.StatusDisabled {
			return nil
		}
		if entry.status.Status == types.StatusRunning {
			entry.pendingDisable = true
			return nil
		}
		m.releaseHandlers(context.Background(), entry)
		entry.disabledExplicit = true
		entry.setStatus(types.Disabled())
		return nil
	}

	if entry.status.Status != types.StatusDisabled {
		return nil
	}
	entry.disabledExplicit = false
	entry.setStatus(types.NotInitialized(types.DetailNone, ""))
	m.driveInitialization(context.Background(), entry)
	return nil
}

// GetScopeIdentifiers returns every scope name that has ever had a rule
// added under it.
func (m *Manager) GetScopeIdentifiers() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, 0, len(m.scopes))
	for s := range m.scopes {
		out = append(out, s)
	}
	return out
}
