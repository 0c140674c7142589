package engine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rule/builtin/memtyperegistry"
	"rule/types"
)

func TestAddWithMissingHandlerIsNotInitialized(t *testing.T) {
	m := New()
	defer m.Dispose()

	uid, err := m.Add(context.Background(), simpleRule("unknownType"))
	require.NoError(t, err)

	status, ok := m.GetStatus(uid)
	require.True(t, ok)
	assert.Equal(t, types.StatusNotInitialized, status.Status)
	assert.Equal(t, types.DetailHandlerInitializingError, status.Detail)
}

func TestFactoryAddedRetriesBindingForWaitingRules(t *testing.T) {
	m := New()
	defer m.Dispose()

	uid, err := m.Add(context.Background(), simpleRule("lamp"))
	require.NoError(t, err)
	status, _ := m.GetStatus(uid)
	require.Equal(t, types.StatusNotInitialized, status.Status)

	m.FactoryAdded(singleHandlerFactory("lamp", &fakeTriggerHandler{}))

	status, _ = m.GetStatus(uid)
	assert.Equal(t, types.StatusIdle, status.Status)
}

func TestFactoryRemovedTearsDownBoundRules(t *testing.T) {
	factory := singleHandlerFactory("lamp", &fakeTriggerHandler{})
	m := New()
	defer m.Dispose()
	m.FactoryAdded(factory)

	uid, err := m.Add(context.Background(), simpleRule("lamp"))
	require.NoError(t, err)
	status, _ := m.GetStatus(uid)
	require.Equal(t, types.StatusIdle, status.Status)

	m.FactoryRemoved(factory)

	status, _ = m.GetStatus(uid)
	assert.Equal(t, types.StatusNotInitialized, status.Status)
	assert.Equal(t, types.DetailHandlerMissing, status.Detail)
}

func TestConnectionToUnknownSourceModuleFailsBinding(t *testing.T) {
	m := New()
	defer m.Dispose()
	m.FactoryAdded(singleHandlerFactory("trigger", &fakeTriggerHandler{}))
	m.FactoryAdded(singleHandlerFactory("cond", &fakeConditionHandler{result: true}))

	rule := simpleRule("trigger")
	rule.Conditions = []types.Condition{
		{
			ModuleBase:  types.ModuleBase{ID: "c1", TypeUID: "cond"},
			Connections: []types.Connection{{InputName: "x", SourceModuleID: "ghost", OutputName: "y"}},
		},
	}

	uid, err := m.Add(context.Background(), rule)
	require.NoError(t, err)

	status, _ := m.GetStatus(uid)
	assert.Equal(t, types.StatusNotInitialized, status.Status)
	assert.Equal(t, types.DetailHandlerInitializingError, status.Detail)
}

func TestConnectionFromConditionSourceFailsBinding(t *testing.T) {
	m := New()
	defer m.Dispose()
	m.FactoryAdded(singleHandlerFactory("trigger", &fakeTriggerHandler{}))
	m.FactoryAdded(singleHandlerFactory("cond", &fakeConditionHandler{result: true}))
	m.FactoryAdded(singleHandlerFactory("action", &fakeActionHandler{outputs: map[string]any{}}))

	rule := simpleRule("trigger")
	rule.Conditions = []types.Condition{
		{ModuleBase: types.ModuleBase{ID: "c1", TypeUID: "cond"}},
	}
	rule.Actions = []types.Action{
		{
			ModuleBase:  types.ModuleBase{ID: "a1", TypeUID: "action"},
			Connections: []types.Connection{{InputName: "x", SourceModuleID: "c1", OutputName: "y"}},
		},
	}

	uid, err := m.Add(context.Background(), rule)
	require.NoError(t, err)

	// A condition module has no outputs; binding a connection sourced from
	// one must fail rather than silently resolving to no value at runtime.
	status, _ := m.GetStatus(uid)
	assert.Equal(t, types.StatusNotInitialized, status.Status)
	assert.Equal(t, types.DetailHandlerInitializingError, status.Detail)
}

func TestConnectionWithUnknownOutputFailsBindingAgainstTypeRegistry(t *testing.T) {
	registry := memtyperegistry.New()
	registry.Put(types.ModuleType{
		UID:     "trigger",
		Kind:    types.KindTrigger,
		Outputs: []types.Field{{Name: "temperature"}},
	})
	registry.Put(types.ModuleType{
		UID:    "action",
		Kind:   types.KindAction,
		Inputs: []types.Field{{Name: "x"}},
	})

	m := New(types.WithTypeRegistry(registry))
	defer m.Dispose()
	m.FactoryAdded(singleHandlerFactory("trigger", &fakeTriggerHandler{}))
	m.FactoryAdded(singleHandlerFactory("action", &fakeActionHandler{outputs: map[string]any{}}))

	rule := simpleRule("trigger")
	rule.Actions = []types.Action{
		{
			ModuleBase:  types.ModuleBase{ID: "a1", TypeUID: "action"},
			Connections: []types.Connection{{InputName: "x", SourceModuleID: "t1", OutputName: "notAnOutput"}},
		},
	}

	uid, err := m.Add(context.Background(), rule)
	require.NoError(t, err)

	status, _ := m.GetStatus(uid)
	assert.Equal(t, types.StatusNotInitialized, status.Status)
	assert.Equal(t, types.DetailHandlerInitializingError, status.Detail)
}

func TestCompositeTypeRoutesThroughSystemFactory(t *testing.T) {
	var seenTypeUID string
	factory := &fakeFactory{
		claimed: []string{"jsAction"},
		produce: func(m types.ModuleRef) (types.Handler, error) {
			seenTypeUID = m.TypeUID
			return &fakeActionHandler{outputs: map[string]any{}}, nil
		},
	}
	m := New()
	defer m.Dispose()
	m.FactoryAdded(singleHandlerFactory("trigger", &fakeTriggerHandler{}))
	m.FactoryAdded(factory)

	rule := simpleRule("trigger")
	rule.Actions = []types.Action{
		{ModuleBase: types.ModuleBase{ID: "a1", TypeUID: "jsAction:notify"}},
	}

	uid, err := m.Add(context.Background(), rule)
	require.NoError(t, err)

	status, _ := m.GetStatus(uid)
	assert.Equal(t, types.StatusIdle, status.Status)
	assert.Equal(t, "jsAction:notify", seenTypeUID)
}
