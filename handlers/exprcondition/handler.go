// Package exprcondition is a Condition handler factory that evaluates an
// expr-lang boolean expression against the module's resolved inputs,
// grounded on the teacher's ExprFilterNode (components/transform in the
// rule-chain engine this repo is modeled on).
package exprcondition

import (
	"context"
	"errors"
	"sync"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"rule/types"
	"rule/utils/maps"
)

// TypeUID is the system module type this factory claims.
const TypeUID = "exprCondition"

type configuration struct {
	Script string `mapstructure:"script"`
}

// Factory produces exprCondition handlers. It is stateless beyond the
// module-configuration cache each handler owns internally, so a single
// Factory instance can be shared by every rule in the engine.
type Factory struct{}

func New() *Factory { return &Factory{} }

var _ types.HandlerFactory = (*Factory)(nil)

func (f *Factory) ClaimedTypes() []string { return []string{TypeUID} }

func (f *Factory) GetHandler(ctx context.Context, module types.ModuleRef) (types.Handler, error) {
	var cfg configuration
	if err := maps.Map2Struct(module.Configuration, &cfg); err != nil {
		return nil, err
	}
	program, err := expr.Compile(cfg.Script, expr.AllowUndefinedVariables(), expr.AsBool())
	if err != nil {
		return nil, err
	}
	return &handler{program: program}, nil
}

func (f *Factory) UngetHandler(ctx context.Context, module types.ModuleRef, h types.Handler) {
	h.Release()
}

type handler struct {
	mu      sync.Mutex
	program *vm.Program
}

var _ types.ConditionHandler = (*handler)(nil)

func (h *handler) IsSatisfied(ctx context.Context, inputs map[string]any) (bool, error) {
	h.mu.Lock()
	program := h.program
	h.mu.Unlock()

	out, err := vm.Run(program, inputs)
	if err != nil {
		return false, err
	}
	result, ok := out.(bool)
	if !ok {
		return false, errors.New("exprCondition: expression did not evaluate to a boolean")
	}
	return result, nil
}

func (h *handler) Release() {}
