package engine

import (
	"encoding/json"

	"rule/types"
)

// jsonParser is the default types.Parser: rules and templates are exchanged
// as JSON, mirroring the teacher's DSL-over-JSON convention.
type jsonParser struct{}

// NewJSONParser returns the default JSON-backed Parser.
func NewJSONParser() types.Parser {
	return jsonParser{}
}

type ruleDSL struct {
	UID           string              `json:"id"`
	TemplateUID   string              `json:"templateId,omitempty"`
	Triggers      []moduleDSL         `json:"triggers,omitempty"`
	Conditions    []moduleDSL         `json:"conditions,omitempty"`
	Actions       []moduleDSL         `json:"actions,omitempty"`
	Configuration types.Configuration `json:"configuration,omitempty"`
	Tags          []string            `json:"tags,omitempty"`
	Scope         string              `json:"scope,omitempty"`
}

type moduleDSL struct {
	ID            string              `json:"id"`
	Type          string              `json:"type"`
	Configuration types.Configuration `json:"configuration,omitempty"`
	Connections   []connectionDSL     `json:"connections,omitempty"`
}

type connectionDSL struct {
	Input  string `json:"input"`
	Source string `json:"sourceId"`
	Output string `json:"output"`
}

func (jsonParser) DecodeRule(def []byte) (types.Rule, error) {
	var dsl ruleDSL
	if err := json.Unmarshal(def, &dsl); err != nil {
		return types.Rule{}, err
	}
	return dsl.toRule(), nil
}

func (jsonParser) EncodeRule(rule types.Rule) ([]byte, error) {
	return json.Marshal(fromRule(rule))
}

func (jsonParser) DecodeTemplate(def []byte) (types.Template, error) {
	var dsl ruleDSL
	if err := json.Unmarshal(def, &dsl); err != nil {
		return types.Template{}, err
	}
	rule := dsl.toRule()
	return types.Template{
		UID:        dsl.UID,
		Triggers:   rule.Triggers,
		Conditions: rule.Conditions,
		Actions:    rule.Actions,
	}, nil
}

func (jsonParser) EncodeTemplate(tpl types.Template) ([]byte, error) {
	dsl := fromRule(types.Rule{
		UID:        tpl.UID,
		Triggers:   tpl.Triggers,
		Conditions: tpl.Conditions,
		Actions:    tpl.Actions,
	})
	return json.Marshal(dsl)
}

func (d ruleDSL) toRule() types.Rule {
	r := types.Rule{
		UID:           d.UID,
		TemplateUID:   d.TemplateUID,
		Configuration: types.Configuration(d.Configuration).Copy(),
		Tags:          types.NewTags(d.Tags...),
		Scope:         d.Scope,
	}
	for _, t := range d.Triggers {
		r.Triggers = append(r.Triggers, types.Trigger{ModuleBase: t.toBase()})
	}
	for _, c := range d.Conditions {
		r.Conditions = append(r.Conditions, types.Condition{ModuleBase: c.toBase(), Connections: toConnections(c.Connections)})
	}
	for _, a := range d.Actions {
		r.Actions = append(r.Actions, types.Action{ModuleBase: a.toBase(), Connections: toConnections(a.Connections)})
	}
	return r
}

func (d moduleDSL) toBase() types.ModuleBase {
	return types.ModuleBase{ID: d.ID, TypeUID: d.Type, Configuration: types.Configuration(d.Configuration).Copy()}
}

func toConnections(dsl []connectionDSL) []types.Connection {
	out := make([]types.Connection, len(dsl))
	for i, c := range dsl {
		out[i] = types.Connection{InputName: c.Input, SourceModuleID: c.Source, OutputName: c.Output}
	}
	return out
}

func fromRule(r types.Rule) ruleDSL {
	dsl := ruleDSL{
		UID:           r.UID,
		TemplateUID:   r.TemplateUID,
		Configuration: r.Configuration,
		Tags:          r.Tags.List(),
		Scope:         r.Scope,
	}
	for _, t := range r.Triggers {
		dsl.Triggers = append(dsl.Triggers, moduleDSL{ID: t.ID, Type: t.TypeUID, Configuration: t.Configuration})
	}
	for _, c := range r.Conditions {
		dsl.Conditions = append(dsl.Conditions, moduleDSL{ID: c.ID, Type: c.TypeUID, Configuration: c.Configuration, Connections: fromConnections(c.Connections)})
	}
	for _, a := range r.Actions {
		dsl.Actions = append(dsl.Actions, moduleDSL{ID: a.ID, Type: a.TypeUID, Configuration: a.Configuration, Connections: fromConnections(a.Connections)})
	}
	return dsl
}

func fromConnections(conns []types.Connection) []connectionDSL {
	out := make([]connectionDSL, len(conns))
	for i, c := range conns {
		out[i] = connectionDSL{Input: c.InputName, Source: c.SourceModuleID, Output: c.OutputName}
	}
	return out
}
