package engine

import (
	"github.com/fatih/structs"

	"rule/types"
)

// ruleSnapshot is a flat, struct-tagged view of a rule used only for
// debug/introspection dumps (e.g. an admin endpoint or a log line), kept
// separate from ruleDSL so the wire format and the dump format can diverge
// without entangling json and structs tags on one type.
type ruleSnapshot struct {
	UID             string `structs:"id"`
	TemplateUID     string `structs:"templateId"`
	TriggerCount    int    `structs:"triggerCount"`
	ConditionCount  int    `structs:"conditionCount"`
	ActionCount     int    `structs:"actionCount"`
	Scope           string `structs:"scope"`
	Tags            []string `structs:"tags"`
}

// DumpRule renders rule as a generic map via fatih/structs, suitable for
// logging or feeding to a template-driven status page.
func DumpRule(rule types.Rule) map[string]interface{} {
	snap := ruleSnapshot{
		UID:            rule.UID,
		TemplateUID:    rule.TemplateUID,
		TriggerCount:   len(rule.Triggers),
		ConditionCount: len(rule.Conditions),
		ActionCount:    len(rule.Actions),
		Scope:          rule.Scope,
		Tags:           rule.Tags.List(),
	}
	return structs.Map(&snap)
}
