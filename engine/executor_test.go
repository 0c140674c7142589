package engine

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rule/types"
)

func buildBoundRule(t *testing.T, trigger *fakeTriggerHandler, cond *fakeConditionHandler, action types.ActionHandler) (*Manager, string) {
	t.Helper()
	m := New()
	m.FactoryAdded(singleHandlerFactory("trigger", trigger))
	if cond != nil {
		m.FactoryAdded(singleHandlerFactory("cond", cond))
	}
	m.FactoryAdded(singleHandlerFactory("action", action))

	rule := simpleRule("trigger")
	if cond != nil {
		rule.Conditions = []types.Condition{
			{
				ModuleBase:  types.ModuleBase{ID: "c1", TypeUID: "cond"},
				Connections: []types.Connection{{InputName: "temperature", SourceModuleID: "t1", OutputName: "temperature"}},
			},
		}
	}
	rule.Actions = []types.Action{
		{
			ModuleBase:  types.ModuleBase{ID: "a1", TypeUID: "action"},
			Connections: []types.Connection{{InputName: "temperature", SourceModuleID: "t1", OutputName: "temperature"}},
		},
	}

	uid, err := m.Add(context.Background(), rule)
	require.NoError(t, err)
	status, _ := m.GetStatus(uid)
	require.Equal(t, types.StatusIdle, status.Status)
	return m, uid
}

func TestConditionPassExecutesAction(t *testing.T) {
	trigger := &fakeTriggerHandler{}
	cond := &fakeConditionHandler{result: true}
	action := &fakeActionHandler{outputs: map[string]any{"done": true}}
	m, uid := buildBoundRule(t, trigger, cond, action)
	defer m.Dispose()

	trigger.Fire(context.Background(), "t1", map[string]any{"temperature": 30})

	assert.Equal(t, 1, cond.calls)
	assert.Equal(t, 1, action.calls)
	status, _ := m.GetStatus(uid)
	assert.Equal(t, types.StatusIdle, status.Status)
}

func TestConditionFalseSkipsAction(t *testing.T) {
	trigger := &fakeTriggerHandler{}
	cond := &fakeConditionHandler{result: false}
	action := &fakeActionHandler{}
	m, uid := buildBoundRule(t, trigger, cond, action)
	defer m.Dispose()

	trigger.Fire(context.Background(), "t1", map[string]any{"temperature": 10})

	assert.Equal(t, 1, cond.calls)
	assert.Equal(t, 0, action.calls)
	status, _ := m.GetStatus(uid)
	assert.Equal(t, types.StatusIdle, status.Status)
}

// blockingActionHandler parks inside Execute until release is closed, so a
// test can hold a rule in RUNNING while probing concurrent-trigger behavior.
type blockingActionHandler struct {
	mu      sync.Mutex
	calls   int
	entered chan struct{}
	release chan struct{}
}

func (h *blockingActionHandler) Execute(ctx context.Context, inputs map[string]any) (map[string]any, error) {
	h.mu.Lock()
	h.calls++
	h.mu.Unlock()
	close(h.entered)
	<-h.release
	return nil, nil
}

func (h *blockingActionHandler) Release() {}

func TestConcurrentTriggerFiringIsDropped(t *testing.T) {
	trigger := &fakeTriggerHandler{}
	action := &blockingActionHandler{entered: make(chan struct{}), release: make(chan struct{})}
	m, uid := buildBoundRule(t, trigger, nil, action)
	defer m.Dispose()

	done := make(chan struct{})
	go func() {
		trigger.Fire(context.Background(), "t1", map[string]any{"temperature": 30})
		close(done)
	}()

	select {
	case <-action.entered:
	case <-time.After(time.Second):
		t.Fatal("action never started")
	}

	status, _ := m.GetStatus(uid)
	require.Equal(t, types.StatusRunning, status.Status)

	// Second firing while RUNNING must be dropped, not queued.
	trigger.Fire(context.Background(), "t1", map[string]any{"temperature": 31})

	close(action.release)
	<-done

	action.mu.Lock()
	calls := action.calls
	action.mu.Unlock()
	assert.Equal(t, 1, calls)

	status, _ = m.GetStatus(uid)
	assert.Equal(t, types.StatusIdle, status.Status)
}
