package types

// Template is a named, reusable rule body. Expansion (spec §4.3) substitutes
// "${name}" references in each module's configuration with values from the
// referencing rule's own Configuration map.
type Template struct {
	UID        string
	Triggers   []Trigger
	Conditions []Condition
	Actions    []Action
}

// Copy returns a deep copy, following the same defensive-copy discipline as
// Rule.
func (t Template) Copy() Template {
	out := Template{UID: t.UID}
	out.Triggers = make([]Trigger, len(t.Triggers))
	for i, x := range t.Triggers {
		out.Triggers[i] = x.Copy()
	}
	out.Conditions = make([]Condition, len(t.Conditions))
	for i, x := range t.Conditions {
		out.Conditions[i] = x.Copy()
	}
	out.Actions = make([]Action, len(t.Actions))
	for i, x := range t.Actions {
		out.Actions[i] = x.Copy()
	}
	return out
}
