package types

import "context"

// ModuleRef is the read-only view of a module passed to a handler factory.
// It carries just enough to let the factory build a handler without giving
// it access to the rule's canonical storage.
type ModuleRef struct {
	RuleUID       string
	ModuleID      string
	TypeUID       string
	Kind          ModuleKind
	Configuration Configuration
}

// TriggerCallback is the bridge handed to every trigger handler (spec §4.6).
// A handler calls Triggered whenever it fires; the engine schedules a Rule
// Executor invocation for the owning rule. The callback is a non-owning,
// per-rule singleton: handlers never hold a reference to the engine itself.
type TriggerCallback interface {
	Triggered(ctx context.Context, triggerModuleID string, outputs map[string]any)
}

// Handler is the marker interface every handler variant embeds.
type Handler interface {
	// Release is called exactly once, when the engine tears down the
	// module's binding (via the owning factory's UngetHandler, or directly
	// by the engine when that factory is no longer registered), giving the
	// handler a chance to sever any reference to its TriggerCallback.
	Release()
}

// TriggerHandler drives a Trigger module. SetCallback is invoked once, right
// after the handler is obtained from its factory; it is how the handler
// learns where to report firings.
type TriggerHandler interface {
	Handler
	SetCallback(cb TriggerCallback)
}

// ConditionHandler evaluates a Condition module against a merged input
// snapshot (the module's resolved connections layered on the rule's
// execution context).
type ConditionHandler interface {
	Handler
	IsSatisfied(ctx context.Context, inputs map[string]any) (bool, error)
}

// ActionHandler executes an Action module. A non-nil outputs map is staged
// on the action module and merged into the rule's execution context,
// visible to subsequent actions in the same firing.
type ActionHandler interface {
	Handler
	Execute(ctx context.Context, inputs map[string]any) (outputs map[string]any, err error)
}

// HandlerFactory claims one or more system module-type UIDs and produces
// handlers on demand (spec §6). Implementations must be safe for concurrent
// use: GetHandler/UngetHandler may be called from the engine's lock-holding
// binder and from registry-watcher callbacks.
type HandlerFactory interface {
	// ClaimedTypes returns the system module-type UIDs this factory serves.
	ClaimedTypes() []string
	// GetHandler produces a handler for module within rule ruleUID, or nil
	// if the factory cannot currently produce one.
	GetHandler(ctx context.Context, module ModuleRef) (Handler, error)
	// UngetHandler returns a previously obtained handler to the factory.
	UngetHandler(ctx context.Context, module ModuleRef, h Handler)
}
