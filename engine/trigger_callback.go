package engine

import (
	"context"

	"rule/types"
)

// triggerCallback is the per-rule singleton every one of the rule's trigger
// handlers is handed via SetCallback (spec §4.6). It never touches handler
// or rule internals directly; it only asks the Manager to run the rule.
type triggerCallback struct {
	m       *Manager
	ruleUID string
}

func newTriggerCallback(m *Manager, ruleUID string) *triggerCallback {
	return &triggerCallback{m: m, ruleUID: ruleUID}
}

var _ types.TriggerCallback = (*triggerCallback)(nil)

// Triggered is called by a trigger handler's own goroutine whenever it
// fires. It gates on the rule's current status under the engine lock (at
// most one concurrent execution per rule, spec §5), then runs the firing
// outside the lock.
func (tc *triggerCallback) Triggered(ctx context.Context, triggerModuleID string, outputs map[string]any) {
	m := tc.m
	m.mu.Lock()
	entry, ok := m.rules[tc.ruleUID]
	if !ok || entry.status.Status != types.StatusIdle {
		if ok {
			m.logf("rule %s: dropped trigger firing on module %s (status %s)", tc.ruleUID, triggerModuleID, entry.status.Status)
		}
		m.mu.Unlock()
		return
	}
	entry.setStatus(types.Running())
	m.mu.Unlock()

	m.runExecution(ctx, entry, triggerModuleID, outputs)

	m.mu.Lock()
	switch {
	case entry.disposing:
		m.finishRemoval(entry)
	case entry.pendingFactoryTeardown:
		entry.pendingFactoryTeardown = false
		m.releaseHandlers(ctx, entry)
		entry.setStatus(types.NotInitialized(types.DetailHandlerMissing, "handler factory removed"))
	case entry.pendingDisable:
		entry.pendingDisable = false
		m.releaseHandlers(ctx, entry)
		entry.disabledExplicit = true
		entry.setStatus(types.Disabled())
	default:
		entry.setStatus(types.Idle())
	}
	m.mu.Unlock()
}
