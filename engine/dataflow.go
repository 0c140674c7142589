package engine

import "rule/types"

// outputRef is a lazy pointer to another module's named output within the
// same rule (spec §4.4). It is resolved against the rule's execution context
// at the moment a handler actually needs the value, never eagerly.
type outputRef struct {
	sourceModuleID string
	outputName     string
	execCtx        *types.ExecutionContext
}

func (r *outputRef) resolve() (any, bool) {
	return r.execCtx.Lookup(r.sourceModuleID, r.outputName)
}

// resolveConnections returns the (possibly cached) set of lazy refs feeding
// moduleID's declared inputs, building the cache entry on first use. A
// connection whose source module is not value-producing (a condition has no
// outputs) is skipped rather than turned into a ref that would just never
// resolve (spec §4.4); this should already have been caught at bind time by
// validateConnections, so reaching it here only happens for a rule bound
// before the source module's kind changed underneath it.
func resolveConnections(entry *ruleEntry, moduleID string, conns []types.Connection) map[string]*outputRef {
	if cached, ok := entry.dataflow[moduleID]; ok {
		return cached
	}
	rule := entry.effective()
	refs := make(map[string]*outputRef, len(conns))
	for _, c := range conns {
		kind, _, found := findModule(rule, c.SourceModuleID)
		if !found || kind == types.KindCondition {
			if entry.m != nil {
				entry.m.logf("rule %s: skipping connection into %s.%s: source module %s is not value-producing", entry.uid, moduleID, c.InputName, c.SourceModuleID)
			}
			continue
		}
		refs[c.InputName] = &outputRef{
			sourceModuleID: c.SourceModuleID,
			outputName:     c.OutputName,
			execCtx:        entry.execCtx,
		}
	}
	entry.dataflow[moduleID] = refs
	return refs
}

// materializeInputs dereferences every ref, dropping any whose source hasn't
// produced a value yet. A module with no resolvable inputs still runs; it
// simply sees an empty (or partial) input map.
func materializeInputs(refs map[string]*outputRef) map[string]any {
	inputs := make(map[string]any, len(refs))
	for name, ref := range refs {
		if v, ok := ref.resolve(); ok {
			inputs[name] = v
		}
	}
	return inputs
}
