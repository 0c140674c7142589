package engine

import (
	"context"
	"time"

	"rule/types"
)

// runExecution is the Rule Executor (spec §4.5). It runs outside the
// engine's mutex: conditions are evaluated in declared order and stop the
// pipeline on the first that is unsatisfied or errors; actions then run in
// declared order and a failing action does not block the rest. A panic
// anywhere in a handler is recovered so the rule is guaranteed to return to
// IDLE.
func (m *Manager) runExecution(ctx context.Context, entry *ruleEntry, triggerModuleID string, outputs map[string]any) {
	start := time.Now()
	outcome := "ok"
	defer func() {
		if r := recover(); r != nil {
			outcome = "panic"
			m.logf("rule %s: recovered panic during execution: %v", entry.uid, r)
		}
		ruleExecutionsTotal.WithLabelValues(entry.uid, outcome).Inc()
		ruleExecutionDuration.WithLabelValues(entry.uid).Observe(time.Since(start).Seconds())
	}()

	entry.execCtx.PublishAll(triggerModuleID, outputs)
	rule := entry.effective()

	for _, cond := range rule.Conditions {
		handler, ok := entry.handlers[cond.ID].(types.ConditionHandler)
		if !ok {
			outcome = "missing_handler"
			return
		}
		refs := resolveConnections(entry, cond.ID, cond.Connections)
		inputs := entry.execCtx.Snapshot(materializeInputs(refs))
		satisfied, err := handler.IsSatisfied(ctx, inputs)
		if err != nil {
			m.logf("rule %s: condition %s errored: %s", entry.uid, cond.ID, (&types.ExecutionError{RuleUID: entry.uid, ModuleID: cond.ID, Err: err}).Error())
			outcome = "condition_error"
			return
		}
		if !satisfied {
			outcome = "condition_blocked"
			return
		}
	}

	for _, act := range rule.Actions {
		handler, ok := entry.handlers[act.ID].(types.ActionHandler)
		if !ok {
			continue
		}
		refs := resolveConnections(entry, act.ID, act.Connections)
		inputs := entry.execCtx.Snapshot(materializeInputs(refs))
		actionOutputs, err := handler.Execute(ctx, inputs)
		if err != nil {
			m.logf("rule %s: action %s errored: %s", entry.uid, act.ID, (&types.ExecutionError{RuleUID: entry.uid, ModuleID: act.ID, Err: err}).Error())
			outcome = "action_error"
			continue
		}
		if actionOutputs != nil {
			entry.execCtx.PublishAll(act.ID, actionOutputs)
		}
	}
}
