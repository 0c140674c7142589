package engine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rule/builtin/memtemplateregistry"
	"rule/types"
)

func TestTemplateBoundRuleMissingTemplate(t *testing.T) {
	templates := memtemplateregistry.New()
	m := New(types.WithTemplateRegistry(templates))
	defer m.Dispose()

	rule := types.Rule{TemplateUID: "does-not-exist"}
	uid, err := m.Add(context.Background(), rule)
	require.NoError(t, err)

	status, _ := m.GetStatus(uid)
	assert.Equal(t, types.StatusNotInitialized, status.Status)
	assert.Equal(t, types.DetailTemplateMissing, status.Detail)
}

func TestTemplateExpansionSubstitutesConfiguration(t *testing.T) {
	templates := memtemplateregistry.New()
	templates.Put(types.Template{
		UID: "tpl1",
		Triggers: []types.Trigger{
			{ModuleBase: types.ModuleBase{ID: "t1", TypeUID: "trigger", Configuration: types.Configuration{"topic": "${topic}"}}},
		},
	})

	m := New(types.WithTemplateRegistry(templates))
	defer m.Dispose()
	m.FactoryAdded(singleHandlerFactory("trigger", &fakeTriggerHandler{}))

	rule := types.Rule{TemplateUID: "tpl1", Configuration: types.Configuration{"topic": "home/kitchen/temp"}}
	uid, err := m.Add(context.Background(), rule)
	require.NoError(t, err)

	entry := m.rules[uid]
	require.NotNil(t, entry.expanded)
	require.Len(t, entry.expanded.Triggers, 1)
	assert.Equal(t, "home/kitchen/temp", entry.expanded.Triggers[0].Configuration["topic"])

	status, _ := m.GetStatus(uid)
	assert.Equal(t, types.StatusIdle, status.Status)
}

func TestTemplateUpdatedRetriesWaitingRules(t *testing.T) {
	templates := memtemplateregistry.New()
	m := New(types.WithTemplateRegistry(templates))
	defer m.Dispose()
	m.FactoryAdded(singleHandlerFactory("trigger", &fakeTriggerHandler{}))

	uid, err := m.Add(context.Background(), types.Rule{TemplateUID: "tpl1"})
	require.NoError(t, err)
	status, _ := m.GetStatus(uid)
	require.Equal(t, types.DetailTemplateMissing, status.Detail)

	templates.Put(types.Template{
		UID: "tpl1",
		Triggers: []types.Trigger{
			{ModuleBase: types.ModuleBase{ID: "t1", TypeUID: "trigger"}},
		},
	})

	status, _ = m.GetStatus(uid)
	assert.Equal(t, types.StatusIdle, status.Status)
}
