package engine

import (
	"context"

	"rule/types"
)

// factoryFor returns the factory responsible for typeUID: the engine's
// composite factory for "T:C" UIDs, or the system factory registered for a
// plain "T" UID (spec §4.2).
func (m *Manager) factoryFor(typeUID string) (types.HandlerFactory, bool) {
	if _, _, composite := types.SplitTypeUID(typeUID); composite {
		return m.compositeFactory, true
	}
	factory, ok := m.factoriesByType[typeUID]
	return factory, ok
}

// bindHandlers attempts to obtain a handler for every module in entry's
// effective rule body, validates declared connections against the module
// type registry, and transitions the rule's status accordingly (spec §4.2).
// Must be called with m.mu held.
func (m *Manager) bindHandlers(ctx context.Context, entry *ruleEntry) {
	rule := entry.effective()
	var errs []*types.BindingError

	for _, t := range rule.Triggers {
		m.indexModuleType(entry.uid, t.TypeUID)
		h, err := m.obtainHandler(ctx, entry.uid, t.ID, t.TypeUID, types.KindTrigger, t.Configuration)
		if err != nil {
			errs = append(errs, &types.BindingError{ModuleID: t.ID, TypeUID: t.TypeUID, Reason: err.Error()})
			continue
		}
		th, ok := h.(types.TriggerHandler)
		if !ok {
			errs = append(errs, &types.BindingError{ModuleID: t.ID, TypeUID: t.TypeUID, Reason: "handler does not implement TriggerHandler"})
			continue
		}
		th.SetCallback(entry.callback)
		entry.handlers[t.ID] = th
	}

	for _, c := range rule.Conditions {
		m.indexModuleType(entry.uid, c.TypeUID)
		if err := m.validateConnections(c.TypeUID, c.Connections, rule); err != nil {
			errs = append(errs, &types.BindingError{ModuleID: c.ID, TypeUID: c.TypeUID, Reason: err.Error()})
			continue
		}
		h, err := m.obtainHandler(ctx, entry.uid, c.ID, c.TypeUID, types.KindCondition, c.Configuration)
		if err != nil {
			errs = append(errs, &types.BindingError{ModuleID: c.ID, TypeUID: c.TypeUID, Reason: err.Error()})
			continue
		}
		ch, ok := h.(types.ConditionHandler)
		if !ok {
			errs = append(errs, &types.BindingError{ModuleID: c.ID, TypeUID: c.TypeUID, Reason: "handler does not implement ConditionHandler"})
			continue
		}
		entry.handlers[c.ID] = ch
	}

	for _, a := range rule.Actions {
		m.indexModuleType(entry.uid, a.TypeUID)
		if err := m.validateConnections(a.TypeUID, a.Connections, rule); err != nil {
			errs = append(errs, &types.BindingError{ModuleID: a.ID, TypeUID: a.TypeUID, Reason: err.Error()})
			continue
		}
		h, err := m.obtainHandler(ctx, entry.uid, a.ID, a.TypeUID, types.KindAction, a.Configuration)
		if err != nil {
			errs = append(errs, &types.BindingError{ModuleID: a.ID, TypeUID: a.TypeUID, Reason: err.Error()})
			continue
		}
		ah, ok := h.(types.ActionHandler)
		if !ok {
			errs = append(errs, &types.BindingError{ModuleID: a.ID, TypeUID: a.TypeUID, Reason: "handler does not implement ActionHandler"})
			continue
		}
		entry.handlers[a.ID] = ah
	}

	if len(errs) > 0 {
		m.releaseHandlers(ctx, entry)
		msg := types.JoinBindingErrors(errs)
		entry.setStatus(types.NotInitialized(types.DetailHandlerInitializingError, msg))
		bindingFailuresTotal.WithLabelValues(entry.uid, string(types.DetailHandlerInitializingError)).Inc()
		return
	}

	entry.setStatus(types.Idle())
}

// obtainHandler looks up the factory for typeUID and asks it for a handler,
// normalizing "no factory" and "factory declined" into a single error so
// every caller can treat them the same way.
func (m *Manager) obtainHandler(ctx context.Context, ruleUID, moduleID, typeUID string, kind types.ModuleKind, cfg types.Configuration) (types.Handler, error) {
	factory, ok := m.factoryFor(typeUID)
	if !ok {
		return nil, errNoHandlerFactory(typeUID)
	}
	ref := types.ModuleRef{RuleUID: ruleUID, ModuleID: moduleID, TypeUID: typeUID, Kind: kind, Configuration: cfg}
	h, err := factory.GetHandler(ctx, ref)
	if err != nil {
		return nil, err
	}
	if h == nil {
		return nil, errNoHandlerFactory(typeUID)
	}
	return h, nil
}

// validateConnections checks that every declared connection's input name is
// accepted by typeUID's own schema, that its source module exists within
// rule and is value-producing (a Trigger or an Action; a Condition has no
// outputs, spec §4.4), and that the source module's own declared type
// actually produces the named output. Module-type lookups are best-effort:
// if the type registry has no schema on file for a UID, that half of the
// check is skipped rather than rejected, since the registry is an external
// collaborator the engine does not own.
func (m *Manager) validateConnections(typeUID string, conns []types.Connection, rule types.Rule) error {
	var mt *types.ModuleType
	var hasType bool
	if m.config.TypeRegistry != nil {
		mt, hasType = m.config.TypeRegistry.GetType(typeUID, "")
	}
	for _, c := range conns {
		if hasType && !mt.HasInput(c.InputName) {
			return &types.BindingError{ModuleID: "", TypeUID: typeUID, Reason: "declared type does not accept input " + c.InputName}
		}

		sourceKind, sourceTypeUID, found := findModule(rule, c.SourceModuleID)
		if !found {
			return &types.BindingError{ModuleID: "", TypeUID: typeUID, Reason: "connection source module " + c.SourceModuleID + " does not exist"}
		}
		if sourceKind == types.KindCondition {
			return &types.BindingError{ModuleID: "", TypeUID: typeUID, Reason: "connection source module " + c.SourceModuleID + " is a condition and has no outputs"}
		}

		if m.config.TypeRegistry != nil {
			if sourceMT, ok := m.config.TypeRegistry.GetType(sourceTypeUID, ""); ok && !sourceMT.HasOutput(c.OutputName) {
				return &types.BindingError{ModuleID: "", TypeUID: typeUID, Reason: "connection source module " + c.SourceModuleID + " does not declare output " + c.OutputName}
			}
		}
	}
	return nil
}

// findModule returns the kind and type UID of the module with the given ID
// within rule, and whether it was found at all.
func findModule(rule types.Rule, moduleID string) (kind types.ModuleKind, typeUID string, found bool) {
	for _, t := range rule.Triggers {
		if t.ID == moduleID {
			return types.KindTrigger, t.TypeUID, true
		}
	}
	for _, c := range rule.Conditions {
		if c.ID == moduleID {
			return types.KindCondition, c.TypeUID, true
		}
	}
	for _, a := range rule.Actions {
		if a.ID == moduleID {
			return types.KindAction, a.TypeUID, true
		}
	}
	return "", "", false
}

// releaseHandlers ungets and clears every handler currently bound to entry,
// used both on a failed bind attempt and on full teardown.
func (m *Manager) releaseHandlers(ctx context.Context, entry *ruleEntry) {
	rule := entry.effective()
	release := func(moduleID, typeUID string) {
		h, ok := entry.handlers[moduleID]
		if !ok {
			return
		}
		factory, ok := m.factoryFor(typeUID)
		ref := types.ModuleRef{RuleUID: entry.uid, ModuleID: moduleID, TypeUID: typeUID}
		if ok {
			factory.UngetHandler(ctx, ref, h)
		} else {
			h.Release()
		}
		delete(entry.handlers, moduleID)
	}
	for _, t := range rule.Triggers {
		release(t.ID, t.TypeUID)
	}
	for _, c := range rule.Conditions {
		release(c.ID, c.TypeUID)
	}
	for _, a := range rule.Actions {
		release(a.ID, a.TypeUID)
	}
	entry.dataflow = make(map[string]map[string]*outputRef)
}

type handlerFactoryError string

func (e handlerFactoryError) Error() string { return string(e) }

func errNoHandlerFactory(typeUID string) error {
	return handlerFactoryError("no handler factory registered for type " + typeUID)
}
