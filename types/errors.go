package types

import (
	"errors"
	"fmt"
)

// Programmer-error sentinels (spec §7): these surface at the call site and
// never produce a status update, since they indicate misuse of the API
// rather than a binding-time failure.
var (
	ErrDuplicateUID  = errors.New("rule engine: rule UID already exists")
	ErrNilTypeUID    = errors.New("rule engine: module type UID must not be empty")
	ErrRuleNotFound  = errors.New("rule engine: rule not found")
	ErrEngineStopped = errors.New("rule engine: engine has been disposed")
)

// BindingError describes a single module that failed to bind during the
// handler-binding pass (spec §4.2 / §7). The binder collects one of these
// per failing module and joins them into a single HANDLER_INITIALIZING_ERROR
// status message — never the source's "null + \n + msg" concatenation bug
// (spec §9 redesign flag).
type BindingError struct {
	ModuleID string
	TypeUID  string
	Reason   string
}

func (e *BindingError) Error() string {
	return fmt.Sprintf("module %q (type %q): %s", e.ModuleID, e.TypeUID, e.Reason)
}

// JoinBindingErrors renders a slice of BindingError into the single
// human-readable message stored on a NOT_INITIALIZED status detail.
func JoinBindingErrors(errs []*BindingError) string {
	if len(errs) == 0 {
		return ""
	}
	msg := errs[0].Error()
	for _, e := range errs[1:] {
		msg += "; " + e.Error()
	}
	return msg
}

// ExecutionError wraps a failure that occurred while running a single
// module's handler during a trigger firing. It is logged and does not
// abort the rest of the rule (spec §4.5, §7).
type ExecutionError struct {
	RuleUID  string
	ModuleID string
	Err      error
}

func (e *ExecutionError) Error() string {
	return fmt.Sprintf("rule %q module %q: %s", e.RuleUID, e.ModuleID, e.Err.Error())
}

func (e *ExecutionError) Unwrap() error {
	return e.Err
}
