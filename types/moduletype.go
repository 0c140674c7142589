package types

import "strings"

// ModuleKind distinguishes the three module-type shapes a type UID can
// describe (spec §3).
type ModuleKind string

const (
	KindTrigger   ModuleKind = "TRIGGER"
	KindCondition ModuleKind = "CONDITION"
	KindAction    ModuleKind = "ACTION"
)

// TypeUIDSeparator splits a composite custom type UID ("T:C") from its
// system parent ("T"). The parent determines which handler factory is
// responsible (spec §4.2).
const TypeUIDSeparator = ":"

// SplitTypeUID returns the system parent half of a type UID and whether the
// UID was composite (had a custom half). For "light:dimmer" it returns
// ("light", "dimmer", true); for "light" it returns ("light", "", false).
func SplitTypeUID(uid string) (system string, custom string, composite bool) {
	if idx := strings.Index(uid, TypeUIDSeparator); idx >= 0 {
		return uid[:idx], uid[idx+1:], true
	}
	return uid, "", false
}

// Field describes one named input, output, or configuration slot on a
// module type.
type Field struct {
	Name string
	Kind string // loosely-typed description, e.g. "number", "string", "bool"
}

// ModuleType is the schema for a module, identified by its type UID. It is
// supplied by the module-type registry (an external collaborator, spec §6);
// the connection validator (spec §4.2) consults it to check that declared
// inputs/outputs exist and are compatible.
type ModuleType struct {
	UID               string
	Kind              ModuleKind
	Inputs            []Field
	Outputs           []Field
	ConfigDescriptors []Field
}

func (mt ModuleType) HasInput(name string) bool {
	for _, f := range mt.Inputs {
		if f.Name == name {
			return true
		}
	}
	return false
}

func (mt ModuleType) HasOutput(name string) bool {
	for _, f := range mt.Outputs {
		if f.Name == name {
			return true
		}
	}
	return false
}
