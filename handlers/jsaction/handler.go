// Package jsaction is an Action handler factory that runs a user-supplied
// JavaScript "main" function against the module's resolved inputs, grounded
// on the teacher's GojaJsEngine (utils/js in the rule-chain engine this
// repo is modeled on).
package jsaction

import (
	"context"
	"errors"

	"github.com/dop251/goja"

	"rule/types"
	"rule/utils/maps"
)

// TypeUID is the system module type this factory claims. A composite type
// like "jsAction:notify" is routed here by the engine's composite factory;
// the custom half ("notify") selects a built-in script when the module
// supplies no script of its own.
const TypeUID = "jsAction"

const notifyBuiltinScript = `
function main(inputs) {
  return {"notified": true, "message": inputs.message};
}
`

type configuration struct {
	Script string `mapstructure:"script"`
}

// Factory produces jsAction handlers. Each handler owns a private goja
// runtime; runtimes are not safe for concurrent use, but the engine never
// runs a rule's own modules concurrently with each other (spec §5), so one
// runtime per handler is sufficient.
type Factory struct{}

func New() *Factory { return &Factory{} }

var _ types.HandlerFactory = (*Factory)(nil)

func (f *Factory) ClaimedTypes() []string { return []string{TypeUID} }

func (f *Factory) GetHandler(ctx context.Context, module types.ModuleRef) (types.Handler, error) {
	var cfg configuration
	if err := maps.Map2Struct(module.Configuration, &cfg); err != nil {
		return nil, err
	}

	script := cfg.Script
	if script == "" {
		_, custom, composite := types.SplitTypeUID(module.TypeUID)
		if composite && custom == "notify" {
			script = notifyBuiltinScript
		}
	}
	if script == "" {
		return nil, errors.New("jsaction: no script configured")
	}

	vm := goja.New()
	if _, err := vm.RunString(script); err != nil {
		return nil, err
	}
	if _, ok := goja.AssertFunction(vm.Get("main")); !ok {
		return nil, errors.New("jsaction: script does not define a main function")
	}

	return &handler{vm: vm}, nil
}

func (f *Factory) UngetHandler(ctx context.Context, module types.ModuleRef, h types.Handler) {
	h.Release()
}

type handler struct {
	vm *goja.Runtime
}

var _ types.ActionHandler = (*handler)(nil)

func (h *handler) Execute(ctx context.Context, inputs map[string]any) (map[string]any, error) {
	fn, ok := goja.AssertFunction(h.vm.Get("main"))
	if !ok {
		return nil, errors.New("jsaction: main is not a function")
	}
	res, err := fn(goja.Undefined(), h.vm.ToValue(inputs))
	if err != nil {
		return nil, err
	}
	exported := res.Export()
	outputs, ok := exported.(map[string]any)
	if !ok {
		return nil, nil
	}
	return outputs, nil
}

func (h *handler) Release() {}
