// Package dictionary registers functions reading the shared dictionaries
// attached to the query context.
package dictionary

import (
	"errors"

	"github.com/vk/queryfuncs/internal/aliases"
	"github.com/vk/queryfuncs/internal/functions"
	"github.com/vk/queryfuncs/internal/query"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/function"
)

// Module implements the functions.Module interface for this package.
type Module struct{}

// ErrNoDictionaries is returned when a dictionary function is requested for
// a query whose context carries no dictionaries.
var ErrNoDictionaries = errors.New("no dictionaries are configured")

var lookupParams = []function.Parameter{
	{Name: "dictionary", Type: cty.String},
	{Name: "key", Type: cty.String},
}

// dictionaries captures the context dictionaries when the function is built.
func dictionaries(qctx *query.Context) (map[string]query.Dictionary, error) {
	dicts := qctx.Dictionaries()
	if len(dicts) == 0 {
		return nil, ErrNoDictionaries
	}
	return dicts, nil
}

func find(dicts map[string]query.Dictionary, args []cty.Value) (cty.Value, bool, error) {
	name := args[0].AsString()
	dict, ok := dicts[name]
	if !ok {
		return cty.NilVal, false, function.NewArgErrorf(0, "unknown dictionary %q", name)
	}
	val, ok := dict[args[1].AsString()]
	return val, ok, nil
}

func newDictGet(qctx *query.Context) (function.Function, error) {
	dicts, err := dictionaries(qctx)
	if err != nil {
		return function.Function{}, err
	}
	return function.New(&function.Spec{
		Description: "Returns the value stored under key in a dictionary.",
		Params:      lookupParams,
		Type:        function.StaticReturnType(cty.DynamicPseudoType),
		Impl: func(args []cty.Value, _ cty.Type) (cty.Value, error) {
			val, ok, err := find(dicts, args)
			if err != nil {
				return cty.NilVal, err
			}
			if !ok {
				return cty.NilVal, function.NewArgErrorf(1, "key %q not found in dictionary %q", args[1].AsString(), args[0].AsString())
			}
			return val, nil
		},
	}), nil
}

func newDictGetOrDefault(qctx *query.Context) (function.Function, error) {
	dicts, err := dictionaries(qctx)
	if err != nil {
		return function.Function{}, err
	}
	return function.New(&function.Spec{
		Description: "Returns the value stored under key in a dictionary, or the default.",
		Params: append(lookupParams[:2:2], function.Parameter{
			Name:             "default",
			Type:             cty.DynamicPseudoType,
			AllowNull:        true,
			AllowDynamicType: true,
		}),
		Type: function.StaticReturnType(cty.DynamicPseudoType),
		Impl: func(args []cty.Value, _ cty.Type) (cty.Value, error) {
			val, ok, err := find(dicts, args)
			if err != nil {
				return cty.NilVal, err
			}
			if !ok {
				return args[2], nil
			}
			return val, nil
		},
	}), nil
}

func newDictHas(qctx *query.Context) (function.Function, error) {
	dicts, err := dictionaries(qctx)
	if err != nil {
		return function.Function{}, err
	}
	return function.New(&function.Spec{
		Description: "Reports whether a dictionary holds key.",
		Params:      lookupParams,
		Type:        function.StaticReturnType(cty.Bool),
		Impl: func(args []cty.Value, _ cty.Type) (cty.Value, error) {
			_, ok, err := find(dicts, args)
			if err != nil {
				return cty.NilVal, err
			}
			return cty.BoolVal(ok), nil
		},
	}), nil
}

// Register registers the dictionary functions and their aliases.
func (m *Module) Register(f *functions.Factory) {
	f.RegisterSimpleFunction("dictGet", newDictGet, aliases.CaseSensitive)
	f.RegisterSimpleFunction("dictGetOrDefault", newDictGetOrDefault, aliases.CaseSensitive)
	f.RegisterSimpleFunction("dictHas", newDictHas, aliases.CaseSensitive)

	f.MustRegisterAlias("dict_get", "dictGet", aliases.CaseInsensitive)
	f.MustRegisterAlias("dict_has", "dictHas", aliases.CaseInsensitive)
}
