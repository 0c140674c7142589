package engine

import (
	"context"

	"rule/types"
)

// fakeTriggerHandler lets a test fire a trigger synchronously via Fire.
type fakeTriggerHandler struct {
	cb       types.TriggerCallback
	released bool
}

func (h *fakeTriggerHandler) SetCallback(cb types.TriggerCallback) { h.cb = cb }
func (h *fakeTriggerHandler) Release()                             { h.released = true }
func (h *fakeTriggerHandler) Fire(ctx context.Context, moduleID string, outputs map[string]any) {
	h.cb.Triggered(ctx, moduleID, outputs)
}

type fakeConditionHandler struct {
	result   bool
	err      error
	released bool
	calls    int
}

func (h *fakeConditionHandler) IsSatisfied(ctx context.Context, inputs map[string]any) (bool, error) {
	h.calls++
	return h.result, h.err
}
func (h *fakeConditionHandler) Release() { h.released = true }

type fakeActionHandler struct {
	outputs  map[string]any
	err      error
	released bool
	calls    int
}

func (h *fakeActionHandler) Execute(ctx context.Context, inputs map[string]any) (map[string]any, error) {
	h.calls++
	return h.outputs, h.err
}
func (h *fakeActionHandler) Release() { h.released = true }

// fakeFactory is a HandlerFactory test double whose produce hook decides
// what GetHandler returns, so tests can simulate success, a declined
// handler, or an error.
type fakeFactory struct {
	claimed []string
	produce func(types.ModuleRef) (types.Handler, error)
	unget   []types.ModuleRef
}

func (f *fakeFactory) ClaimedTypes() []string { return f.claimed }

func (f *fakeFactory) GetHandler(ctx context.Context, module types.ModuleRef) (types.Handler, error) {
	if f.produce == nil {
		return nil, nil
	}
	return f.produce(module)
}

func (f *fakeFactory) UngetHandler(ctx context.Context, module types.ModuleRef, h types.Handler) {
	f.unget = append(f.unget, module)
	h.Release()
}

func singleHandlerFactory(typeUID string, h types.Handler) *fakeFactory {
	return &fakeFactory{
		claimed: []string{typeUID},
		produce: func(types.ModuleRef) (types.Handler, error) { return h, nil },
	}
}
