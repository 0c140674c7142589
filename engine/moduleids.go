package engine

import (
	"github.com/gofrs/uuid/v5"

	"rule/types"
)

// assignModuleIDs fills in a UUID for any module whose author left its ID
// blank, so two modules within the same rule are never mistaken for one
// another by the dataflow binder's connection lookups (spec §3).
func assignModuleIDs(rule *types.Rule) {
	for i := range rule.Triggers {
		if rule.Triggers[i].ID == "" {
			rule.Triggers[i].ID = newModuleID()
		}
	}
	for i := range rule.Conditions {
		if rule.Conditions[i].ID == "" {
			rule.Conditions[i].ID = newModuleID()
		}
	}
	for i := range rule.Actions {
		if rule.Actions[i].ID == "" {
			rule.Actions[i].ID = newModuleID()
		}
	}
}

func newModuleID() string {
	id, err := uuid.NewV4()
	if err != nil {
		return uuid.Nil.String()
	}
	return id.String()
}
