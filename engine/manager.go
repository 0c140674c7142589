package engine

import (
	"context"
	"sync"

	"rule/types"
)

// Manager is the concrete engine (spec §4, §5). A single mutex serializes
// every registry-mutating operation and every registry-watcher callback;
// the body of a rule's execution runs without holding it, bracketed by an
// atomic IDLE→RUNNING→IDLE status transition (spec §5).
type Manager struct {
	mu sync.Mutex

	config types.Config
	idGen  *idGenerator

	rules map[string]*ruleEntry

	// typeIndex maps a system module-type UID to the set of rule UIDs that
	// reference it (directly, or via a composite "T:C" type), so a
	// FactoryAdded/ModuleTypeUpdated event only re-drives the rules it can
	// possibly affect (spec §4.7).
	typeIndex map[string]map[string]struct{}

	// templateIndex maps a template UID to the set of rule UIDs bound to
	// it (spec §4.3, §4.7).
	templateIndex map[string]map[string]struct{}

	factoriesByType  map[string]types.HandlerFactory
	compositeFactory *compositeHandlerFactory

	scopes map[string]struct{}

	disposed bool
}

var _ types.Engine = (*Manager)(nil)

// New builds a Manager from the supplied options and subscribes it to every
// external registry it was given (spec §6).
func New(opts ...types.Option) *Manager {
	cfg := types.NewConfig(opts...)
	m := &Manager{
		config:        cfg,
		idGen:         newIDGenerator(nil),
		rules:         make(map[string]*ruleEntry),
		typeIndex:     make(map[string]map[string]struct{}),
		templateIndex: make(map[string]map[string]struct{}),
		factoriesByType: make(map[string]types.HandlerFactory),
		scopes:        make(map[string]struct{}),
	}
	m.compositeFactory = newCompositeHandlerFactory(m)

	if cfg.TypeRegistry != nil {
		cfg.TypeRegistry.AddListener(m)
	}
	if cfg.TemplateRegistry != nil {
		cfg.TemplateRegistry.AddListener(m)
	}
	if cfg.FactoryRegistry != nil {
		cfg.FactoryRegistry.AddListener(m)
	}
	return m
}

func (m *Manager) logf(format string, args ...any) {
	if m.config.Logger != nil {
		m.config.Logger.Printf(format, args...)
	}
}

// indexModuleType records that ruleUID references typeUID, under both the
// system parent (so a plain factory add/remove reaches composite users too)
// and, if composite, the full UID itself.
func (m *Manager) indexModuleType(ruleUID, typeUID string) {
	system, _, composite := types.SplitTypeUID(typeUID)
	m.addToIndex(m.typeIndex, system, ruleUID)
	if composite {
		m.addToIndex(m.typeIndex, typeUID, ruleUID)
	}
}

func (m *Manager) addToIndex(index map[string]map[string]struct{}, key, ruleUID string) {
	set, ok := index[key]
	if !ok {
		set = make(map[string]struct{})
		index[key] = set
	}
	set[ruleUID] = struct{}{}
}

// clearRuleIndexes drops every index entry for ruleUID, used before
// re-binding (the set of types/templates referenced may change) and on
// removal.
func (m *Manager) clearRuleIndexes(ruleUID string) {
	for _, set := range m.typeIndex {
		delete(set, ruleUID)
	}
	for _, set := range m.templateIndex {
		delete(set, ruleUID)
	}
}

// driveInitialization runs the full bind attempt for entry: template
// expansion (if applicable) followed by handler binding. Must be called
// with m.mu held.
func (m *Manager) driveInitialization(ctx context.Context, entry *ruleEntry) {
	m.clearRuleIndexes(entry.uid)
	if entry.stored.IsTemplateBound() {
		m.addToIndex(m.templateIndex, entry.stored.TemplateUID, entry.uid)
		if !m.expandTemplate(entry) {
			return
		}
	} else {
		cp := entry.stored.Copy()
		entry.expanded = &cp
	}
	m.bindHandlers(ctx, entry)
}

// Dispose tears every rule down and severs this engine's registry
// subscriptions. It is terminal: Add, AddWithScope and Update on a disposed
// Manager return ErrEngineStopped; every rule has been dropped, so Remove
// returns false and SetEnabled returns ErrRuleNotFound (spec §4
// orchestration row).
func (m *Manager) Dispose() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.disposed {
		return
	}
	ctx := context.Background()
	for _, entry := range m.rules {
		m.releaseHandlers(ctx, entry)
	}
	m.rules = make(map[string]*ruleEntry)
	m.typeIndex = make(map[string]map[string]struct{})
	m.templateIndex = make(map[string]map[string]struct{})

	if m.config.TypeRegistry != nil {
		m.config.TypeRegistry.RemoveListener(m)
	}
	if m.config.TemplateRegistry != nil {
		m.config.TemplateRegistry.RemoveListener(m)
	}
	if m.config.FactoryRegistry != nil {
		m.config.FactoryRegistry.RemoveListener(m)
	}
	m.disposed = true
}
