package types

// ModuleTypeRegistry is the external collaborator that owns module-type
// schemas (spec §6). The engine treats it as a narrow contract and
// subscribes to its update events through ModuleTypeListener.
type ModuleTypeRegistry interface {
	GetType(uid string, locale string) (*ModuleType, bool)
	GetTypes(filter func(ModuleType) bool, locale string) []ModuleType
	AddListener(l ModuleTypeListener)
	RemoveListener(l ModuleTypeListener)
}

// ModuleTypeListener is notified when module types are updated; the engine
// only cares about the UID, since it re-drives binding for affected rules
// regardless of what changed (spec §4.7).
type ModuleTypeListener interface {
	ModuleTypeUpdated(uid string)
}

type ModuleTypeListenerFunc func(uid string)

func (f ModuleTypeListenerFunc) ModuleTypeUpdated(uid string) { f(uid) }

// TemplateRegistry is the external collaborator that owns rule templates
// (spec §6).
type TemplateRegistry interface {
	Get(uid string) (*Template, bool)
	AddListener(l TemplateListener)
	RemoveListener(l TemplateListener)
}

type TemplateListener interface {
	TemplateUpdated(uid string)
}

type TemplateListenerFunc func(uid string)

func (f TemplateListenerFunc) TemplateUpdated(uid string) { f(uid) }

// HandlerFactoryRegistry is the dynamic-service tracker the engine
// subscribes to for handler factory appearance/disappearance (spec §6,
// §4.7). It is named separately from HandlerFactory itself because, unlike
// the module-type and template registries, the engine must also react when
// a whole factory vanishes, not just when one of its types changes.
type HandlerFactoryRegistry interface {
	AddListener(l HandlerFactoryListener)
	RemoveListener(l HandlerFactoryListener)
}

type HandlerFactoryListener interface {
	FactoryAdded(f HandlerFactory)
	FactoryRemoved(f HandlerFactory)
}
