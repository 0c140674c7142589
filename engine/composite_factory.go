package engine

import (
	"context"

	"rule/types"
)

// compositeHandlerFactory is the engine-owned factory used for every
// composite type UID ("T:C"). It never claims any type itself; the binder
// routes composite modules to it instead of consulting factoriesByType
// directly. It resolves the system parent "T" and delegates, passing the
// module's full composite TypeUID through unchanged so the underlying
// factory can branch on the custom half itself (spec §4.2).
type compositeHandlerFactory struct {
	m *Manager
}

func newCompositeHandlerFactory(m *Manager) *compositeHandlerFactory {
	return &compositeHandlerFactory{m: m}
}

func (f *compositeHandlerFactory) systemFactory(typeUID string) (types.HandlerFactory, bool) {
	system, _, _ := types.SplitTypeUID(typeUID)
	factory, ok := f.m.factoriesByType[system]
	return factory, ok
}

func (f *compositeHandlerFactory) GetHandler(ctx context.Context, module types.ModuleRef) (types.Handler, error) {
	factory, ok := f.systemFactory(module.TypeUID)
	if !ok {
		return nil, nil
	}
	return factory.GetHandler(ctx, module)
}

func (f *compositeHandlerFactory) UngetHandler(ctx context.Context, module types.ModuleRef, h types.Handler) {
	if factory, ok := f.systemFactory(module.TypeUID); ok {
		factory.UngetHandler(ctx, module, h)
	} else {
		h.Release()
	}
}

func (f *compositeHandlerFactory) ClaimedTypes() []string {
	return nil
}
