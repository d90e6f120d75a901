package functions_test

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vk/queryfuncs/internal/aliases"
	"github.com/vk/queryfuncs/internal/functions"
	"github.com/vk/queryfuncs/internal/query"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/function"
	"github.com/zclconf/go-cty/cty/function/stdlib"
)

// sentinel is a resolver whose identity is observable through its tag.
type sentinel struct {
	name string
	tag  string
}

func (s *sentinel) Name() string { return s.name }

func (s *sentinel) Resolve([]cty.Type) (function.Function, error) {
	return stdlib.UpperFunc, nil
}

func sentinelCreator(name, tag string) functions.Creator {
	return func(*query.Context) (functions.ResolverImpl, error) {
		return &sentinel{name: name, tag: tag}, nil
	}
}

func tagOf(t *testing.T, r *functions.Resolver) string {
	t.Helper()
	require.NotNil(t, r)
	s, ok := r.Impl().(*sentinel)
	require.True(t, ok, "resolver is not a sentinel: %T", r.Impl())
	return s.tag
}

func newScenarioFactory() *functions.Factory {
	return functions.Build(functions.ModuleFunc(func(f *functions.Factory) {
		f.RegisterFunction("Upper", sentinelCreator("Upper", "A"), aliases.CaseSensitive)
		f.RegisterFunction("lower", sentinelCreator("lower", "B"), aliases.CaseInsensitive)
	}))
}

func TestFactory_Scenario(t *testing.T) {
	t.Parallel()

	f := newScenarioFactory()
	qctx := query.NewContext(query.Settings{})

	r, err := f.Get("Upper", qctx)
	require.NoError(t, err)
	require.Equal(t, "A", tagOf(t, r))

	r, err = f.Get("LOWER", qctx)
	require.NoError(t, err)
	require.Equal(t, "B", tagOf(t, r))

	_, err = f.Get("upper", qctx)
	var notFound *functions.NotFoundError
	require.ErrorAs(t, err, &notFound)
	require.Equal(t, "upper", notFound.Name)

	r, err = f.TryGet("missing", qctx)
	require.NoError(t, err)
	require.Nil(t, r)
}

func TestFactory_CaseInsensitiveVariants(t *testing.T) {
	t.Parallel()

	f := newScenarioFactory()
	qctx := query.NewContext(query.Settings{})

	for _, variant := range []string{"lower", "LOWER", "Lower", "lOwEr"} {
		r, err := f.Get(variant, qctx)
		require.NoError(t, err, variant)
		require.Equal(t, "B", tagOf(t, r), variant)
	}
}

func TestFactory_CaseSensitiveVariantsAreNotFound(t *testing.T) {
	t.Parallel()

	f := newScenarioFactory()
	qctx := query.NewContext(query.Settings{})

	for _, variant := range []string{"upper", "UPPER", "uPPER"} {
		_, err := f.Get(variant, qctx)
		var notFound *functions.NotFoundError
		require.ErrorAs(t, err, &notFound, variant)

		r, err := f.TryGet(variant, qctx)
		require.NoError(t, err, variant)
		require.Nil(t, r, variant)
	}
}

func TestFactory_ExactMatchWinsOverCaseInsensitive(t *testing.T) {
	t.Parallel()

	f := functions.Build(functions.ModuleFunc(func(f *functions.Factory) {
		f.RegisterFunction("lower", sentinelCreator("lower", "ci"), aliases.CaseInsensitive)
		f.RegisterFunction("LOWER", sentinelCreator("LOWER", "exact"), aliases.CaseSensitive)
	}))
	qctx := query.NewContext(query.Settings{})

	r, err := f.Get("LOWER", qctx)
	require.NoError(t, err)
	require.Equal(t, "exact", tagOf(t, r))

	r, err = f.Get("Lower", qctx)
	require.NoError(t, err)
	require.Equal(t, "ci", tagOf(t, r))
}

func TestFactory_Aliases(t *testing.T) {
	t.Parallel()

	f := functions.Build(functions.ModuleFunc(func(f *functions.Factory) {
		f.RegisterFunction("Upper", sentinelCreator("Upper", "A"), aliases.CaseSensitive)
		f.RegisterFunction("lower", sentinelCreator("lower", "B"), aliases.CaseInsensitive)
		f.MustRegisterAlias("ucase", "Upper", aliases.CaseSensitive)
		f.MustRegisterAlias("lcase", "LOWER", aliases.CaseInsensitive)
	}))
	qctx := query.NewContext(query.Settings{})

	testCases := []struct {
		alias    string
		expected string
	}{
		{"ucase", "A"},
		{"lcase", "B"},
		{"LCASE", "B"},
		{"LCase", "B"},
	}
	for _, tc := range testCases {
		r, err := f.Get(tc.alias, qctx)
		require.NoError(t, err, tc.alias)
		require.Equal(t, tc.expected, tagOf(t, r), tc.alias)
	}

	_, err := f.Get("UCASE", qctx)
	require.Error(t, err, "case-sensitive alias must not match other cases")

	require.Equal(t, []string{"Upper", "lower"}, f.AllNames(), "aliases are not canonical names")
}

func TestFactory_NotFoundMessage(t *testing.T) {
	t.Parallel()

	f := functions.Build(functions.ModuleFunc(func(f *functions.Factory) {
		f.RegisterFunction("upper", sentinelCreator("upper", "A"), aliases.CaseInsensitive)
		f.RegisterFunction("concat", sentinelCreator("concat", "B"), aliases.CaseSensitive)
		f.MustRegisterAlias("ucase", "upper", aliases.CaseInsensitive)
	}))
	qctx := query.NewContext(query.Settings{})

	_, err := f.Get("uper", qctx)
	require.EqualError(t, err, "unknown function `uper`. Maybe you meant: `upper`")

	_, err = f.Get("ucas", qctx)
	require.EqualError(t, err, "unknown function `ucas`. Maybe you meant: `ucase`")

	_, err = f.Get("frobnicate", qctx)
	require.EqualError(t, err, "unknown function `frobnicate`")

	_, err = f.GetImpl("frobnicate", qctx)
	var notFound *functions.NotFoundError
	require.ErrorAs(t, err, &notFound)
	require.Empty(t, notFound.Hints)
}

func TestFactory_CreatorErrorsPassThrough(t *testing.T) {
	t.Parallel()

	errBadContext := errors.New("bad context")
	f := functions.Build(functions.ModuleFunc(func(f *functions.Factory) {
		f.RegisterFunction("fails", func(*query.Context) (functions.ResolverImpl, error) {
			return nil, errBadContext
		}, aliases.CaseInsensitive)
	}))
	qctx := query.NewContext(query.Settings{})

	_, err := f.Get("fails", qctx)
	require.Same(t, errBadContext, err)

	_, err = f.TryGet("FAILS", qctx)
	require.Same(t, errBadContext, err)

	_, err = f.GetImpl("fails", qctx)
	require.Same(t, errBadContext, err)

	_, err = f.TryGetImpl("fails", qctx)
	require.Same(t, errBadContext, err)
}

func TestFactory_CreatorReceivesContext(t *testing.T) {
	t.Parallel()

	qctx := query.NewContext(query.Settings{Timezone: "UTC"})
	var seen *query.Context
	f := functions.Build(functions.ModuleFunc(func(f *functions.Factory) {
		f.RegisterSimpleFunction("tz", func(c *query.Context) (function.Function, error) {
			seen = c
			return stdlib.UpperFunc, nil
		}, aliases.CaseSensitive)
	}))

	impl, err := f.GetImpl("tz", qctx)
	require.NoError(t, err)
	require.Same(t, qctx, seen)
	require.Equal(t, "tz", impl.Name())
	require.IsType(t, &functions.DefaultResolver{}, impl)

	impl, err = f.TryGetImpl("nope", qctx)
	require.NoError(t, err)
	require.Nil(t, impl)
}

func TestFactory_DuplicateRegistrationPanics(t *testing.T) {
	t.Parallel()

	creator := sentinelCreator("f", "A")

	testCases := []struct {
		name     string
		register func(f *functions.Factory)
		message  string
	}{
		{
			name: "same creator twice",
			register: func(f *functions.Factory) {
				f.RegisterFunction("f", creator, aliases.CaseSensitive)
				f.RegisterFunction("f", creator, aliases.CaseSensitive)
			},
			message: "FunctionFactory: the function name 'f' is not unique",
		},
		{
			name: "different creators",
			register: func(f *functions.Factory) {
				f.RegisterFunction("f", creator, aliases.CaseSensitive)
				f.RegisterFunction("f", sentinelCreator("f", "B"), aliases.CaseInsensitive)
			},
			message: "FunctionFactory: the function name 'f' is not unique",
		},
		{
			name: "case-insensitive collision",
			register: func(f *functions.Factory) {
				f.RegisterFunction("Foo", creator, aliases.CaseInsensitive)
				f.RegisterFunction("FOO", creator, aliases.CaseInsensitive)
			},
			message: "FunctionFactory: the case insensitive function name 'FOO' is not unique",
		},
		{
			name: "name already used as alias",
			register: func(f *functions.Factory) {
				f.RegisterFunction("f", creator, aliases.CaseSensitive)
				f.MustRegisterAlias("g", "f", aliases.CaseInsensitive)
				f.RegisterFunction("G", creator, aliases.CaseSensitive)
			},
			message: "FunctionFactory: the function name 'G' is already registered as alias",
		},
		{
			name: "empty name",
			register: func(f *functions.Factory) {
				f.RegisterFunction("", creator, aliases.CaseSensitive)
			},
			message: "FunctionFactory: function name must not be empty",
		},
		{
			name: "nil creator",
			register: func(f *functions.Factory) {
				f.RegisterSimpleFunction("f", nil, aliases.CaseSensitive)
			},
			message: "FunctionFactory: function 'f' has no creator",
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			require.PanicsWithError(t, tc.message, func() {
				tc.register(functions.New())
			})
		})
	}
}

func TestFactory_CaseSensitiveAndInsensitiveSameLetters(t *testing.T) {
	t.Parallel()

	// A case-sensitive "Foo" next to a case-insensitive "foo" is allowed:
	// they are different canonical names in different maps.
	f := functions.Build(functions.ModuleFunc(func(f *functions.Factory) {
		f.RegisterFunction("foo", sentinelCreator("foo", "ci"), aliases.CaseInsensitive)
		f.RegisterFunction("Foo", sentinelCreator("Foo", "cs"), aliases.CaseSensitive)
	}))

	names := f.AllNames()
	require.Equal(t, []string{"foo", "Foo"}, names)
}

func TestFactory_Phases(t *testing.T) {
	t.Parallel()

	f := functions.New()
	f.RegisterFunction("f", sentinelCreator("f", "A"), aliases.CaseSensitive)
	require.False(t, f.Sealed())

	qctx := query.NewContext(query.Settings{})
	require.Panics(t, func() { _, _ = f.Get("f", qctx) }, "lookup before Seal")
	require.Panics(t, func() { _, _ = f.TryGet("f", qctx) }, "lookup before Seal")

	f.Seal()
	f.Seal()
	require.True(t, f.Sealed())

	require.PanicsWithError(t, "FunctionFactory: can't register function 'g' after initialization", func() {
		f.RegisterFunction("g", sentinelCreator("g", "B"), aliases.CaseSensitive)
	})
	require.Error(t, f.RegisterAlias("h", "f", aliases.CaseSensitive))

	r, err := f.Get("f", qctx)
	require.NoError(t, err)
	require.Equal(t, "A", tagOf(t, r))
}

func TestFactory_AllNames(t *testing.T) {
	t.Parallel()

	names := []string{"zeta", "Alpha", "mid", "omega"}
	f := functions.Build(functions.ModuleFunc(func(f *functions.Factory) {
		for i, n := range names {
			cs := aliases.CaseSensitive
			if i%2 == 0 {
				cs = aliases.CaseInsensitive
			}
			f.RegisterFunction(n, sentinelCreator(n, n), cs)
		}
		f.MustRegisterAlias("z", "zeta", aliases.CaseSensitive)
	}))

	require.Equal(t, names, f.AllNames())
	require.Equal(t, names, f.AllNames(), "order is stable")

	// The returned slice is a copy.
	got := f.AllNames()
	got[0] = "changed"
	require.Equal(t, "zeta", f.AllNames()[0])

	require.Len(t, f.CreatorMap(), 4)
	require.Len(t, f.CaseInsensitiveCreatorMap(), 2)
	require.Equal(t, "FunctionFactory", f.FactoryName())
}

func TestFactory_ConcurrentLookups(t *testing.T) {
	t.Parallel()

	f := functions.Build(functions.ModuleFunc(func(f *functions.Factory) {
		for i := 0; i < 50; i++ {
			name := fmt.Sprintf("fn%d", i)
			f.RegisterFunction(name, sentinelCreator(name, name), aliases.CaseInsensitive)
		}
		f.MustRegisterAlias("first", "fn0", aliases.CaseInsensitive)
	}))
	qctx := query.NewContext(query.Settings{})

	var wg sync.WaitGroup
	numGoroutines := 64
	wg.Add(numGoroutines)
	for i := 0; i < numGoroutines; i++ {
		i := i
		go func() {
			defer wg.Done()
			name := fmt.Sprintf("FN%d", i%50)
			r, err := f.Get(name, qctx)
			if err != nil || r.Name() != fmt.Sprintf("fn%d", i%50) {
				t.Errorf("lookup of %s failed: %v", name, err)
			}
			if r, _ := f.TryGet("FIRST", qctx); r == nil || r.Name() != "fn0" {
				t.Errorf("alias lookup failed")
			}
			_ = f.AllNames()
		}()
	}
	wg.Wait()
}

func TestFactory_WithLogger(t *testing.T) {
	t.Parallel()

	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))

	functions.BuildWith([]functions.Option{functions.WithLogger(logger)}, functions.ModuleFunc(func(f *functions.Factory) {
		f.RegisterStatic("upper", stdlib.UpperFunc, aliases.CaseInsensitive)
		f.MustRegisterAlias("ucase", "upper", aliases.CaseSensitive)
	}))

	out := logs.String()
	require.Contains(t, out, `msg="Registering function." name=upper case=case_insensitive`)
	require.Contains(t, out, `msg="Registering alias."`)
	require.Contains(t, out, `msg="Function factory sealed." functions=1`)
}
