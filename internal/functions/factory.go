package functions

import (
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/vk/queryfuncs/internal/aliases"
	"github.com/vk/queryfuncs/internal/query"
	"github.com/zclconf/go-cty/cty/function"
)

// FactoryName labels this factory in configuration errors.
const FactoryName = "FunctionFactory"

// Creator builds a resolver for one query. It may read settings and shared
// resources from the query context and may fail.
type Creator func(qctx *query.Context) (ResolverImpl, error)

// SimpleCreator builds a single function for one query.
type SimpleCreator func(qctx *query.Context) (function.Function, error)

// Module is implemented by packages that contribute functions.
type Module interface {
	Register(f *Factory)
}

// ModuleFunc adapts a plain function to the Module interface.
type ModuleFunc func(f *Factory)

// Register calls m(f).
func (m ModuleFunc) Register(f *Factory) { m(f) }

// Factory maps function names to creators. See the package documentation
// for the initialization and lookup rules.
type Factory struct {
	*aliases.Table[Creator]

	functions                map[string]Creator
	caseInsensitiveFunctions map[string]Creator
	names                    []string
	sealed                   atomic.Bool
	logger                   *slog.Logger
}

// Option configures a Factory created by New.
type Option func(*Factory)

// WithLogger sends registration and seal messages to logger instead of
// slog.Default.
func WithLogger(logger *slog.Logger) Option {
	return func(f *Factory) {
		if logger == nil {
			return
		}
		f.logger = logger
		f.Table.SetLogger(logger)
	}
}

// New creates an empty factory in its initialization phase.
func New(opts ...Option) *Factory {
	f := &Factory{
		functions:                make(map[string]Creator),
		caseInsensitiveFunctions: make(map[string]Creator),
		logger:                   slog.Default(),
	}
	f.Table = aliases.NewTable[Creator](f)
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Build creates a factory, lets every module register into it and seals it.
func Build(modules ...Module) *Factory {
	return BuildWith(nil, modules...)
}

// BuildWith is Build for a factory configured with opts.
func BuildWith(opts []Option, modules ...Module) *Factory {
	f := New(opts...)
	for _, m := range modules {
		m.Register(f)
	}
	f.Seal()
	return f
}

// CreatorMap implements aliases.CreatorMaps.
func (f *Factory) CreatorMap() map[string]Creator { return f.functions }

// CaseInsensitiveCreatorMap implements aliases.CreatorMaps.
func (f *Factory) CaseInsensitiveCreatorMap() map[string]Creator {
	return f.caseInsensitiveFunctions
}

// FactoryName implements aliases.CreatorMaps.
func (f *Factory) FactoryName() string { return FactoryName }

// RegisterFunction registers creator under name. With CaseInsensitive the
// normalized name is registered in the case-insensitive map as well.
//
// Registration is not synchronized and must complete before Seal. Any
// conflict is a programming error and panics with *aliases.ConfigurationError.
func (f *Factory) RegisterFunction(name string, creator Creator, cs aliases.CaseSensitivity) {
	if f.sealed.Load() {
		panic(aliases.NewConfigurationError(FactoryName, name, "can't register function '%s' after initialization", name))
	}
	if name == "" {
		panic(aliases.NewConfigurationError(FactoryName, name, "function name must not be empty"))
	}
	if creator == nil {
		panic(aliases.NewConfigurationError(FactoryName, name, "function '%s' has no creator", name))
	}

	lowered := aliases.Normalize(name)
	if f.IsAlias(name) || f.IsAlias(lowered) {
		panic(aliases.NewConfigurationError(FactoryName, name, "the function name '%s' is already registered as alias", name))
	}
	if _, exists := f.functions[name]; exists {
		panic(aliases.NewConfigurationError(FactoryName, name, "the function name '%s' is not unique", name))
	}
	if cs == aliases.CaseInsensitive {
		if _, exists := f.caseInsensitiveFunctions[lowered]; exists {
			panic(aliases.NewConfigurationError(FactoryName, name, "the case insensitive function name '%s' is not unique", name))
		}
		f.caseInsensitiveFunctions[lowered] = creator
	}

	f.functions[name] = creator
	f.names = append(f.names, name)
	f.logger.Debug("Registering function.", "name", name, "case", cs)
}

// RegisterResolver registers a creator of overload resolvers.
func (f *Factory) RegisterResolver(name string, creator Creator, cs aliases.CaseSensitivity) {
	f.RegisterFunction(name, creator, cs)
}

// RegisterSimpleFunction registers a creator of a single function. The
// function is wrapped in a DefaultResolver on every construction.
func (f *Factory) RegisterSimpleFunction(name string, creator SimpleCreator, cs aliases.CaseSensitivity) {
	if creator == nil {
		f.RegisterFunction(name, nil, cs)
		return
	}
	f.RegisterFunction(name, func(qctx *query.Context) (ResolverImpl, error) {
		fn, err := creator(qctx)
		if err != nil {
			return nil, err
		}
		return NewDefaultResolver(name, fn), nil
	}, cs)
}

// RegisterStatic registers a function that does not depend on the query
// context.
func (f *Factory) RegisterStatic(name string, fn function.Function, cs aliases.CaseSensitivity) {
	f.RegisterSimpleFunction(name, func(*query.Context) (function.Function, error) {
		return fn, nil
	}, cs)
}

// Seal ends the initialization phase. Calling it more than once is harmless.
func (f *Factory) Seal() {
	if f.sealed.Swap(true) {
		return
	}
	f.Table.Seal()
	f.logger.Info("Function factory sealed.",
		"functions", len(f.functions),
		"case_insensitive", len(f.caseInsensitiveFunctions),
		"aliases", len(f.AliasNames()),
	)
}

// Sealed reports whether Seal has been called.
func (f *Factory) Sealed() bool {
	return f.sealed.Load()
}

// Get returns the resolver registered under name or an alias of it. An
// unknown name yields *NotFoundError; creator errors are returned unchanged.
func (f *Factory) Get(name string, qctx *query.Context) (*Resolver, error) {
	impl, err := f.GetImpl(name, qctx)
	if err != nil {
		return nil, err
	}
	return NewResolver(impl), nil
}

// TryGet is like Get but returns nil, nil for an unknown name.
func (f *Factory) TryGet(name string, qctx *query.Context) (*Resolver, error) {
	impl, err := f.TryGetImpl(name, qctx)
	if err != nil || impl == nil {
		return nil, err
	}
	return NewResolver(impl), nil
}

// GetImpl is Get without the public handle.
func (f *Factory) GetImpl(name string, qctx *query.Context) (ResolverImpl, error) {
	creator, ok := f.lookup(name)
	if !ok {
		return nil, &NotFoundError{Name: name, Hints: suggest(name, f.hintCandidates())}
	}
	return creator(qctx)
}

// TryGetImpl is TryGet without the public handle.
func (f *Factory) TryGetImpl(name string, qctx *query.Context) (ResolverImpl, error) {
	creator, ok := f.lookup(name)
	if !ok {
		return nil, nil
	}
	return creator(qctx)
}

// AllNames returns every canonical function name in registration order.
func (f *Factory) AllNames() []string {
	names := make([]string, len(f.names))
	copy(names, f.names)
	return names
}

func (f *Factory) lookup(name string) (Creator, bool) {
	if !f.sealed.Load() {
		panic(fmt.Sprintf("%s: lookup of '%s' before initialization is complete", FactoryName, name))
	}

	canonical := f.Resolve(name)
	if creator, ok := f.functions[canonical]; ok {
		return creator, true
	}
	if creator, ok := f.caseInsensitiveFunctions[aliases.Normalize(canonical)]; ok {
		return creator, true
	}
	return nil, false
}

func (f *Factory) hintCandidates() []string {
	return append(f.AllNames(), f.AliasNames()...)
}
