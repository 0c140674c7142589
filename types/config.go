package types

// Configuration is the free-form option map carried by a module (and by a
// rule as a whole). Handlers decode it into their own typed struct with
// mapstructure; the engine itself only ever copies or substitutes values.
type Configuration map[string]any

// Copy returns a shallow copy. Values that are themselves reference types
// (maps, slices) are not deep-copied.
func (c Configuration) Copy() Configuration {
	if c == nil {
		return nil
	}
	out := make(Configuration, len(c))
	for k, v := range c {
		out[k] = v
	}
	return out
}

// Config is the engine-wide configuration: the registries it watches, the
// parser used for DSL encode/decode, and the logger. Engines are built with
// NewConfig plus a list of Options, following the functional-options shape
// used throughout this package.
type Config struct {
	TypeRegistry     ModuleTypeRegistry
	TemplateRegistry TemplateRegistry
	FactoryRegistry  HandlerFactoryRegistry
	Parser           Parser
	Logger           Logger
	Observer         StatusObserver
}

// Option mutates a Config during construction.
type Option func(*Config)

// NewConfig builds a Config with sane defaults (a standard-library logger,
// no parser)
// and applies opts in order.
func NewConfig(opts ...Option) Config {
	c := Config{
		Logger: NewStdLogger(),
	}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

func WithTypeRegistry(r ModuleTypeRegistry) Option {
	return func(c *Config) { c.TypeRegistry = r }
}

func WithTemplateRegistry(r TemplateRegistry) Option {
	return func(c *Config) { c.TemplateRegistry = r }
}

func WithParser(p Parser) Option {
	return func(c *Config) { c.Parser = p }
}

func WithLogger(l Logger) Option {
	return func(c *Config) { c.Logger = l }
}

func WithFactoryRegistry(r HandlerFactoryRegistry) Option {
	return func(c *Config) { c.FactoryRegistry = r }
}

func WithObserver(o StatusObserver) Option {
	return func(c *Config) { c.Observer = o }
}
