package types

// Connection is a directed link from a source module's named output to a
// target module's named input, resolved lazily by the dataflow binder
// (spec §4.4).
type Connection struct {
	InputName      string
	SourceModuleID string
	OutputName     string
}

// ModuleBase is the data shared by every module variant: an ID unique
// within its rule, the type UID that selects a handler factory, and a
// configuration map. Trigger/Condition/Action embed it and add their own
// input/output/connection surface, mirroring the way the teacher's
// BaseInfo is embedded by every node kind.
type ModuleBase struct {
	ID            string
	TypeUID       string
	Configuration Configuration
}

func (m ModuleBase) copy() ModuleBase {
	return ModuleBase{ID: m.ID, TypeUID: m.TypeUID, Configuration: m.Configuration.Copy()}
}

// Trigger is a module that produces named outputs when it fires. It has no
// inputs: nothing upstream feeds a trigger within the rule.
type Trigger struct {
	ModuleBase
}

func (t Trigger) Copy() Trigger {
	return Trigger{ModuleBase: t.ModuleBase.copy()}
}

// Condition is a module with named inputs and declared connections; it is
// evaluated in declared order and may stop the pipeline (spec §4.5).
type Condition struct {
	ModuleBase
	Connections []Connection
}

func (c Condition) Copy() Condition {
	conns := make([]Connection, len(c.Connections))
	copy(conns, c.Connections)
	return Condition{ModuleBase: c.ModuleBase.copy(), Connections: conns}
}

// Action is a module with named inputs, named outputs, and declared
// connections; its outputs become visible to later actions in the same
// firing (spec §4.5).
type Action struct {
	ModuleBase
	Connections []Connection
}

func (a Action) Copy() Action {
	conns := make([]Connection, len(a.Connections))
	copy(conns, a.Connections)
	return Action{ModuleBase: a.ModuleBase.copy(), Connections: conns}
}

// Tags is a set of string labels attached to a rule. It may be empty but is
// never nil on a stored rule (spec §3 invariant).
type Tags map[string]struct{}

func NewTags(values ...string) Tags {
	t := make(Tags, len(values))
	for _, v := range values {
		t[v] = struct{}{}
	}
	return t
}

func (t Tags) Has(tag string) bool {
	_, ok := t[tag]
	return ok
}

func (t Tags) HasAny(tags Tags) bool {
	for tag := range tags {
		if t.Has(tag) {
			return true
		}
	}
	return false
}

func (t Tags) Copy() Tags {
	out := make(Tags, len(t))
	for k := range t {
		out[k] = struct{}{}
	}
	return out
}

func (t Tags) List() []string {
	out := make([]string, 0, len(t))
	for k := range t {
		out = append(out, k)
	}
	return out
}

// Rule is the canonical, engine-owned representation of a user-defined
// rule (spec §3). Every cross-boundary exchange (Add/Update/Get) deep-copies
// via Copy so that external callers never share state with the engine's
// stored copy (the defensive-copy law, spec §8).
type Rule struct {
	UID           string
	TemplateUID   string // empty when the rule is self-contained
	Triggers      []Trigger
	Conditions    []Condition
	Actions       []Action
	Configuration Configuration
	Tags          Tags
	Scope         string
}

// Copy returns a deep copy of the rule suitable for handing to a caller or
// for storing as the engine's new canonical copy.
func (r Rule) Copy() Rule {
	out := Rule{
		UID:           r.UID,
		TemplateUID:   r.TemplateUID,
		Configuration: r.Configuration.Copy(),
		Scope:         r.Scope,
	}
	if r.Tags != nil {
		out.Tags = r.Tags.Copy()
	} else {
		out.Tags = NewTags()
	}
	out.Triggers = make([]Trigger, len(r.Triggers))
	for i, t := range r.Triggers {
		out.Triggers[i] = t.Copy()
	}
	out.Conditions = make([]Condition, len(r.Conditions))
	for i, c := range r.Conditions {
		out.Conditions[i] = c.Copy()
	}
	out.Actions = make([]Action, len(r.Actions))
	for i, a := range r.Actions {
		out.Actions[i] = a.Copy()
	}
	return out
}

// IsTemplateBound reports whether this rule's modules are derived on demand
// from a template rather than being self-contained.
func (r Rule) IsTemplateBound() bool {
	return r.TemplateUID != ""
}

// AllModuleTypeUIDs returns the type UIDs referenced by every module in the
// rule, triggers first, then conditions, then actions.
func (r Rule) AllModuleTypeUIDs() []string {
	uids := make([]string, 0, len(r.Triggers)+len(r.Conditions)+len(r.Actions))
	for _, t := range r.Triggers {
		uids = append(uids, t.TypeUID)
	}
	for _, c := range r.Conditions {
		uids = append(uids, c.TypeUID)
	}
	for _, a := range r.Actions {
		uids = append(uids, a.TypeUID)
	}
	return uids
}
