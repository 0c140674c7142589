package types

import "fmt"

// QualifiedName builds the "<moduleId>.<outputName>" key used throughout the
// execution context (spec §3).
func QualifiedName(moduleID, outputName string) string {
	return fmt.Sprintf("%s.%s", moduleID, outputName)
}

// ExecutionContext accumulates output values across a rule's trigger
// firings. It is owned exclusively by the Rule Executor for the duration of
// one rule's activation and is never shared between rules; no locking is
// needed because at most one firing of a given rule executes at a time
// (spec §5).
type ExecutionContext struct {
	values map[string]any
}

func NewExecutionContext() *ExecutionContext {
	return &ExecutionContext{values: make(map[string]any)}
}

// Publish stores outputName's value for moduleID, making it visible to
// every subsequent resolution within this rule.
func (ec *ExecutionContext) Publish(moduleID, outputName string, value any) {
	ec.values[QualifiedName(moduleID, outputName)] = value
}

// PublishAll is a convenience for staging an entire outputs map at once.
func (ec *ExecutionContext) PublishAll(moduleID string, outputs map[string]any) {
	for name, value := range outputs {
		ec.Publish(moduleID, name, value)
	}
}

// Lookup returns the most recent value published for moduleID.outputName.
func (ec *ExecutionContext) Lookup(moduleID, outputName string) (any, bool) {
	v, ok := ec.values[QualifiedName(moduleID, outputName)]
	return v, ok
}

// Snapshot returns a merged map suitable for handing to a handler: the
// execution context's accumulated values with the module's own resolved
// inputs layered on top (the inputs take precedence on key collision).
func (ec *ExecutionContext) Snapshot(inputs map[string]any) map[string]any {
	merged := make(map[string]any, len(ec.values)+len(inputs))
	for k, v := range ec.values {
		merged[k] = v
	}
	for k, v := range inputs {
		merged[k] = v
	}
	return merged
}
