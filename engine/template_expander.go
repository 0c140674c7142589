package engine

import (
	"fmt"
	"regexp"

	"rule/types"
)

var templateRefPattern = regexp.MustCompile(`\$\{([A-Za-z0-9_]+)\}`)

// expandTemplate resolves a template-bound rule's modules against the
// referenced template, substituting "${name}" placeholders in each module's
// configuration with values from the rule's own Configuration (spec §4.3).
// On success it sets entry.expanded and returns true; on a missing template
// it sets the TEMPLATE_MISSING status itself and returns false.
func (m *Manager) expandTemplate(entry *ruleEntry) bool {
	tplUID := entry.stored.TemplateUID
	tpl, ok := m.config.TemplateRegistry.Get(tplUID)
	if !ok {
		entry.setStatus(types.NotInitialized(types.DetailTemplateMissing,
			fmt.Sprintf("template %q not found", tplUID)))
		return false
	}

	values := entry.stored.Configuration
	expanded := types.Rule{
		UID:           entry.stored.UID,
		TemplateUID:   tplUID,
		Configuration: entry.stored.Configuration.Copy(),
		Scope:         entry.stored.Scope,
	}
	if entry.stored.Tags != nil {
		expanded.Tags = entry.stored.Tags.Copy()
	} else {
		expanded.Tags = types.NewTags()
	}

	expanded.Triggers = make([]types.Trigger, len(tpl.Triggers))
	for i, t := range tpl.Triggers {
		t = t.Copy()
		t.Configuration = substituteConfig(t.Configuration, values)
		expanded.Triggers[i] = t
	}
	expanded.Conditions = make([]types.Condition, len(tpl.Conditions))
	for i, c := range tpl.Conditions {
		c = c.Copy()
		c.Configuration = substituteConfig(c.Configuration, values)
		expanded.Conditions[i] = c
	}
	expanded.Actions = make([]types.Action, len(tpl.Actions))
	for i, a := range tpl.Actions {
		a = a.Copy()
		a.Configuration = substituteConfig(a.Configuration, values)
		expanded.Actions[i] = a
	}

	entry.expanded = &expanded
	return true
}

// substituteConfig replaces every "${name}" occurrence in cfg's string
// values with the matching entry from values, formatted with fmt.Sprint.
// References to names absent from values are left untouched so a
// mis-templated rule fails loudly downstream rather than silently.
func substituteConfig(cfg types.Configuration, values types.Configuration) types.Configuration {
	out := make(types.Configuration, len(cfg))
	for k, v := range cfg {
		s, ok := v.(string)
		if !ok {
			out[k] = v
			continue
		}
		out[k] = templateRefPattern.ReplaceAllStringFunc(s, func(match string) string {
			name := templateRefPattern.FindStringSubmatch(match)[1]
			if val, ok := values[name]; ok {
				return fmt.Sprint(val)
			}
			return match
		})
	}
	return out
}
