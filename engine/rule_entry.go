package engine

import "rule/types"

// ruleEntry is the engine's internal bookkeeping for one registered rule. It
// is never exposed directly; callers only ever see defensive copies of
// entry.stored (spec §3 ownership).
type ruleEntry struct {
	m     *Manager
	uid   string
	scope string

	// stored is the canonical rule as last Add/Update'd by the caller,
	// template reference included. Get/enumerate return copies of this.
	stored types.Rule

	// expanded is the concrete, template-free rule actually bound to
	// handlers. For self-contained rules it is a working copy of stored;
	// for template-bound rules it is produced by the template expander.
	// nil until the first successful expansion; a failed template lookup
	// leaves it unchanged.
	expanded *types.Rule

	status types.StatusInfo

	// handlers maps module ID to the handler bound to it, populated by the
	// binder and released on every teardown.
	handlers map[string]types.Handler

	execCtx *types.ExecutionContext

	// dataflow caches resolved connections per consuming module, populated
	// lazily on first execution (spec §4.4).
	dataflow map[string]map[string]*outputRef

	callback *triggerCallback

	// disabledExplicit distinguishes an explicit SetEnabled(false) from the
	// NOT_INITIALIZED state a rule starts or falls back into.
	disabledExplicit bool

	// disposing is set when Remove observes the rule RUNNING; the in-flight
	// execution's return-to-IDLE step notices this and finishes the
	// teardown instead (spec §5).
	disposing bool

	// pendingDisable is set when SetEnabled(false) observes the rule
	// RUNNING; the in-flight execution's return-to-IDLE step notices this
	// and finishes the disable instead of going back to IDLE.
	pendingDisable bool

	// pendingFactoryTeardown is set when FactoryRemoved observes the rule
	// RUNNING; the in-flight execution's return-to-IDLE step notices this
	// and finishes the teardown (releasing handlers, setting
	// HANDLER_MISSING) instead of going back to IDLE, so FactoryRemoved
	// never mutates entry.handlers/entry.dataflow while the lock-free
	// executor is still reading them (spec §5).
	pendingFactoryTeardown bool
}

func newRuleEntry(m *Manager, uid, scope string, stored types.Rule) *ruleEntry {
	return &ruleEntry{
		m:        m,
		uid:      uid,
		scope:    scope,
		stored:   stored,
		status:   types.NotInitialized(types.DetailNone, ""),
		handlers: make(map[string]types.Handler),
		execCtx:  types.NewExecutionContext(),
		dataflow: make(map[string]map[string]*outputRef),
	}
}

// setStatus updates the entry's status and notifies the configured
// StatusObserver, if any, on every single transition — including a retry
// that lands back on the same NOT_INITIALIZED detail (spec §9 redesign
// flag: the source this engine is modeled on skips the notification when
// a retry doesn't change the detail code, which hides repeated failures
// from observers).
func (e *ruleEntry) setStatus(info types.StatusInfo) {
	e.status = info
	statusTransitionsTotal.WithLabelValues(string(info.Status)).Inc()
	if e.m != nil && e.m.config.Observer != nil {
		e.m.config.Observer.StatusInfoChanged(e.uid, info)
	}
}

// effective returns the rule body that binding/execution should operate on:
// the expanded form if one exists, otherwise the stored form itself (the
// common case for self-contained rules before their first bind attempt).
func (e *ruleEntry) effective() types.Rule {
	if e.expanded != nil {
		return *e.expanded
	}
	return e.stored
}
