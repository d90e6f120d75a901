package aliases

import (
	"log/slog"
	"sort"
	"strings"
	"sync/atomic"
)

// CaseSensitivity selects the creator map a name is registered in.
type CaseSensitivity int

const (
	// CaseSensitive names are matched exactly.
	CaseSensitive CaseSensitivity = iota
	// CaseInsensitive names are additionally matched after normalization.
	CaseInsensitive
)

// String returns a human-readable name for log output.
func (c CaseSensitivity) String() string {
	if c == CaseInsensitive {
		return "case_insensitive"
	}
	return "case_sensitive"
}

// Normalize is the normalization applied to names of the case-insensitive
// maps. Registration and lookup must both go through it.
func Normalize(name string) string {
	return strings.ToLower(name)
}

// CreatorMaps is the accessor contract a factory implements so the alias
// layer can inspect its registered names without holding a copy of them.
type CreatorMaps[C any] interface {
	// CreatorMap returns the map keyed by exact names.
	CreatorMap() map[string]C
	// CaseInsensitiveCreatorMap returns the map keyed by normalized names.
	CaseInsensitiveCreatorMap() map[string]C
	// FactoryName labels the factory in diagnostics.
	FactoryName() string
}

// Table stores the aliases of one factory.
type Table[C any] struct {
	maps                   CreatorMaps[C]
	aliases                map[string]string
	caseInsensitiveAliases map[string]string
	sealed                 atomic.Bool
	logger                 *slog.Logger
}

// NewTable creates an empty alias table on top of the given factory maps.
func NewTable[C any](maps CreatorMaps[C]) *Table[C] {
	return &Table[C]{
		maps:                   maps,
		aliases:                make(map[string]string),
		caseInsensitiveAliases: make(map[string]string),
		logger:                 slog.Default(),
	}
}

// SetLogger replaces the logger used for registration messages. It belongs
// to the initialization phase like the registrations themselves.
func (t *Table[C]) SetLogger(logger *slog.Logger) {
	if logger != nil {
		t.logger = logger
	}
}

// RegisterAlias makes alias resolve to realName. The real name must already
// be registered with the factory. When it is only known through the
// case-insensitive map, the alias points at its normalized form.
//
// Like factory registration, this must happen before the table is sealed
// and must not run concurrently with lookups.
func (t *Table[C]) RegisterAlias(alias, realName string, cs CaseSensitivity) error {
	factory := t.maps.FactoryName()
	if t.sealed.Load() {
		return NewConfigurationError(factory, alias, "can't create alias '%s' after initialization", alias)
	}
	if alias == "" {
		return NewConfigurationError(factory, alias, "alias name must not be empty")
	}

	var target string
	if _, ok := t.maps.CreatorMap()[realName]; ok {
		target = realName
	} else if lowered := Normalize(realName); t.hasCaseInsensitive(lowered) {
		target = lowered
	} else {
		return NewConfigurationError(factory, alias, "can't create alias '%s', the real name '%s' is not registered", alias, realName)
	}

	lowered := Normalize(alias)
	if _, ok := t.maps.CreatorMap()[alias]; ok || t.hasCaseInsensitive(lowered) {
		return NewConfigurationError(factory, alias, "the alias name '%s' is already registered as real name", alias)
	}

	if cs == CaseInsensitive {
		if _, exists := t.caseInsensitiveAliases[lowered]; exists {
			return NewConfigurationError(factory, alias, "case insensitive alias name '%s' is not unique", alias)
		}
	}
	if _, exists := t.aliases[alias]; exists {
		return NewConfigurationError(factory, alias, "alias name '%s' is not unique", alias)
	}

	if cs == CaseInsensitive {
		t.caseInsensitiveAliases[lowered] = target
	}
	t.aliases[alias] = target
	t.logger.Debug("Registering alias.", "factory", factory, "alias", alias, "target", target, "case", cs)
	return nil
}

// MustRegisterAlias is RegisterAlias for static initialization code: any
// error is a programming error and panics.
func (t *Table[C]) MustRegisterAlias(alias, realName string, cs CaseSensitivity) {
	if err := t.RegisterAlias(alias, realName, cs); err != nil {
		panic(err)
	}
}

// Seal closes the table for registration.
func (t *Table[C]) Seal() {
	t.sealed.Store(true)
}

// Resolve returns the canonical name an alias points at, or name itself when
// it is not an alias. Exact aliases win over case-insensitive ones.
func (t *Table[C]) Resolve(name string) string {
	if target, ok := t.aliases[name]; ok {
		return target
	}
	if target, ok := t.caseInsensitiveAliases[Normalize(name)]; ok {
		return target
	}
	return name
}

// IsAlias reports whether name is a registered alias.
func (t *Table[C]) IsAlias(name string) bool {
	if _, ok := t.aliases[name]; ok {
		return true
	}
	_, ok := t.caseInsensitiveAliases[Normalize(name)]
	return ok
}

// HasNameOrAlias reports whether name is a real name or an alias.
func (t *Table[C]) HasNameOrAlias(name string) bool {
	if _, ok := t.maps.CreatorMap()[name]; ok {
		return true
	}
	return t.hasCaseInsensitive(Normalize(name)) || t.IsAlias(name)
}

// CanonicalName returns the name under which the factory stores name, either
// directly or through an alias.
func (t *Table[C]) CanonicalName(name string) (string, bool) {
	if _, ok := t.maps.CreatorMap()[name]; ok {
		return name, true
	}
	if lowered := Normalize(name); t.hasCaseInsensitive(lowered) {
		return lowered, true
	}
	if t.IsAlias(name) {
		return t.Resolve(name), true
	}
	return "", false
}

// AliasNames returns all exact alias names, sorted.
func (t *Table[C]) AliasNames() []string {
	names := make([]string, 0, len(t.aliases))
	for alias := range t.aliases {
		names = append(names, alias)
	}
	sort.Strings(names)
	return names
}

// Aliases returns a copy of the alias to target mapping.
func (t *Table[C]) Aliases() map[string]string {
	out := make(map[string]string, len(t.aliases))
	for alias, target := range t.aliases {
		out[alias] = target
	}
	return out
}

// AllRegisteredNames returns every real name and alias the factory knows,
// sorted and without duplicates.
func (t *Table[C]) AllRegisteredNames() []string {
	seen := make(map[string]struct{})
	for name := range t.maps.CreatorMap() {
		seen[name] = struct{}{}
	}
	for alias := range t.aliases {
		seen[alias] = struct{}{}
	}

	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (t *Table[C]) hasCaseInsensitive(lowered string) bool {
	_, ok := t.maps.CaseInsensitiveCreatorMap()[lowered]
	return ok
}
