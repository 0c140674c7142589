package engine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rule/types"
)

func simpleRule(triggerType string) types.Rule {
	return types.Rule{
		Triggers: []types.Trigger{
			{ModuleBase: types.ModuleBase{ID: "t1", TypeUID: triggerType}},
		},
		Tags: types.NewTags("demo"),
	}
}

func TestAddGeneratesSequentialUIDs(t *testing.T) {
	m := New()
	defer m.Dispose()

	uid1, err := m.Add(context.Background(), simpleRule("missing"))
	require.NoError(t, err)
	uid2, err := m.Add(context.Background(), simpleRule("missing"))
	require.NoError(t, err)

	assert.Equal(t, "rule_0", uid1)
	assert.Equal(t, "rule_1", uid2)
}

func TestAddWithBlankModuleTypeUIDFails(t *testing.T) {
	m := New()
	defer m.Dispose()

	rule := types.Rule{
		Triggers: []types.Trigger{{ModuleBase: types.ModuleBase{ID: "t1", TypeUID: ""}}},
	}
	_, err := m.Add(context.Background(), rule)
	require.ErrorIs(t, err, types.ErrNilTypeUID)

	// No rule was registered and no status was produced for it.
	assert.Empty(t, m.GetAll())
}

func TestUpdateWithBlankModuleTypeUIDFails(t *testing.T) {
	m := New()
	defer m.Dispose()
	m.FactoryAdded(singleHandlerFactory("trigger", &fakeTriggerHandler{}))

	uid, err := m.Add(context.Background(), simpleRule("trigger"))
	require.NoError(t, err)

	bad := simpleRule("trigger")
	bad.UID = uid
	bad.Actions = []types.Action{{ModuleBase: types.ModuleBase{ID: "a1", TypeUID: ""}}}
	err = m.Update(context.Background(), bad)
	require.ErrorIs(t, err, types.ErrNilTypeUID)

	// The existing binding must be untouched.
	status, _ := m.GetStatus(uid)
	assert.Equal(t, types.StatusIdle, status.Status)
}

func TestAddDuplicateUIDFails(t *testing.T) {
	m := New()
	defer m.Dispose()

	rule := simpleRule("missing")
	rule.UID = "rule_7"
	_, err := m.Add(context.Background(), rule)
	require.NoError(t, err)

	_, err = m.Add(context.Background(), rule)
	assert.ErrorIs(t, err, types.ErrDuplicateUID)
}

func TestGetReturnsDefensiveCopy(t *testing.T) {
	m := New()
	defer m.Dispose()

	uid, err := m.Add(context.Background(), simpleRule("missing"))
	require.NoError(t, err)

	got, ok := m.Get(uid)
	require.True(t, ok)
	got.Tags["mutated"] = struct{}{}

	again, _ := m.Get(uid)
	assert.False(t, again.Tags.Has("mutated"), "mutating a returned copy must not affect stored state")
}

func TestRemoveUnknownRuleReturnsFalse(t *testing.T) {
	m := New()
	defer m.Dispose()
	assert.False(t, m.Remove("nope"))
}

func TestGetByTagFiltersRules(t *testing.T) {
	m := New()
	defer m.Dispose()

	a := simpleRule("missing")
	a.Tags = types.NewTags("kitchen")
	b := simpleRule("missing")
	b.Tags = types.NewTags("bedroom")

	_, err := m.Add(context.Background(), a)
	require.NoError(t, err)
	_, err = m.Add(context.Background(), b)
	require.NoError(t, err)

	kitchen := m.GetByTag("kitchen")
	require.Len(t, kitchen, 1)
	assert.True(t, kitchen[0].Tags.Has("kitchen"))
}

func TestUpdateUnknownRuleFails(t *testing.T) {
	m := New()
	defer m.Dispose()
	err := m.Update(context.Background(), types.Rule{UID: "nope"})
	assert.ErrorIs(t, err, types.ErrRuleNotFound)
}

func TestSetEnabledUnknownRuleFails(t *testing.T) {
	m := New()
	defer m.Dispose()
	err := m.SetEnabled("nope", false)
	assert.ErrorIs(t, err, types.ErrRuleNotFound)
}

func TestSetEnabledDisablesAndReenables(t *testing.T) {
	factory := singleHandlerFactory("trigger", &fakeTriggerHandler{})
	m := New()
	defer m.Dispose()
	m.FactoryAdded(factory)

	uid, err := m.Add(context.Background(), simpleRule("trigger"))
	require.NoError(t, err)
	status, _ := m.GetStatus(uid)
	require.Equal(t, types.StatusIdle, status.Status)

	require.NoError(t, m.SetEnabled(uid, false))
	status, _ = m.GetStatus(uid)
	assert.Equal(t, types.StatusDisabled, status.Status)

	require.NoError(t, m.SetEnabled(uid, true))
	status, _ = m.GetStatus(uid)
	assert.Equal(t, types.StatusIdle, status.Status)
}
