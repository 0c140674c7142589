package types

import "context"

// Parser converts rule and template definitions to and from a wire format
// (JSON by default). Custom parsers can be supplied via WithParser the same
// way the teacher's rule-chain Parser interface is pluggable.
type Parser interface {
	DecodeRule(def []byte) (Rule, error)
	EncodeRule(rule Rule) ([]byte, error)
	DecodeTemplate(def []byte) (Template, error)
	EncodeTemplate(tpl Template) ([]byte, error)
}

// Engine is the rule-engine public surface (spec §6).
type Engine interface {
	Add(ctx context.Context, rule Rule) (string, error)
	AddWithScope(ctx context.Context, rule Rule, scope string) (string, error)
	Update(ctx context.Context, rule Rule) error
	Remove(ruleUID string) bool

	Get(ruleUID string) (Rule, bool)
	GetAll() []Rule
	GetByTag(tag string) []Rule
	GetByTags(tags Tags) []Rule

	GetStatus(ruleUID string) (StatusInfo, bool)
	SetEnabled(ruleUID string, enabled bool) error

	GetScopeIdentifiers() []string

	Dispose()
}
