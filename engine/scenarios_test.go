package engine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rule/types"
)

func TestRemoveDuringRunningDefersTeardown(t *testing.T) {
	trigger := &fakeTriggerHandler{}
	action := &blockingActionHandler{entered: make(chan struct{}), release: make(chan struct{})}
	m, uid := buildBoundRule(t, trigger, nil, action)
	defer m.Dispose()

	done := make(chan struct{})
	go func() {
		trigger.Fire(context.Background(), "t1", map[string]any{"temperature": 30})
		close(done)
	}()
	<-action.entered

	require.True(t, m.Remove(uid))
	// Still present until the firing completes.
	_, ok := m.Get(uid)
	assert.True(t, ok)

	close(action.release)
	<-done

	_, ok = m.Get(uid)
	assert.False(t, ok)
}

func TestFactoryRemovedDuringRunningDefersTeardown(t *testing.T) {
	trigger := &fakeTriggerHandler{}
	action := &blockingActionHandler{entered: make(chan struct{}), release: make(chan struct{})}
	m, uid := buildBoundRule(t, trigger, nil, action)
	defer m.Dispose()

	actionFactory := m.factoriesByType["action"]

	done := make(chan struct{})
	go func() {
		trigger.Fire(context.Background(), "t1", map[string]any{"temperature": 30})
		close(done)
	}()
	<-action.entered

	m.FactoryRemoved(actionFactory)

	// Still RUNNING and still bound until the firing completes: the
	// teardown must not touch entry.handlers while the executor is using it.
	status, _ := m.GetStatus(uid)
	assert.Equal(t, types.StatusRunning, status.Status)

	close(action.release)
	<-done

	status, _ = m.GetStatus(uid)
	assert.Equal(t, types.StatusNotInitialized, status.Status)
	assert.Equal(t, types.DetailHandlerMissing, status.Detail)
}

func TestDisposeReleasesEveryHandler(t *testing.T) {
	trigger := &fakeTriggerHandler{}
	m := New()
	m.FactoryAdded(singleHandlerFactory("trigger", trigger))

	_, err := m.Add(context.Background(), simpleRule("trigger"))
	require.NoError(t, err)

	m.Dispose()
	assert.True(t, trigger.released)
}

func TestOperationsAfterDisposeFail(t *testing.T) {
	m := New()
	m.Dispose()

	_, err := m.Add(context.Background(), simpleRule("trigger"))
	assert.ErrorIs(t, err, types.ErrEngineStopped)

	err = m.Update(context.Background(), types.Rule{UID: "rule_0"})
	assert.ErrorIs(t, err, types.ErrEngineStopped)
}
