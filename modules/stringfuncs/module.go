// Package stringfuncs registers the built-in string functions.
package stringfuncs

import (
	"strings"

	"github.com/vk/queryfuncs/internal/aliases"
	"github.com/vk/queryfuncs/internal/functions"
	"github.com/vk/queryfuncs/internal/query"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/function"
	"github.com/zclconf/go-cty/cty/function/stdlib"
)

// Module implements the functions.Module interface for this package.
type Module struct{}

// ConcatFunc joins all of its string arguments without a separator.
var ConcatFunc = function.New(&function.Spec{
	Description: "Concatenates strings.",
	VarParam: &function.Parameter{
		Name: "strings",
		Type: cty.String,
	},
	Type: function.StaticReturnType(cty.String),
	Impl: func(args []cty.Value, _ cty.Type) (cty.Value, error) {
		var b strings.Builder
		for _, arg := range args {
			b.WriteString(arg.AsString())
		}
		return cty.StringVal(b.String()), nil
	},
})

func isString(ty cty.Type) bool {
	return ty.Equals(cty.String)
}

func isSequence(ty cty.Type) bool {
	return ty.IsListType() || ty.IsTupleType()
}

func isCollection(ty cty.Type) bool {
	return ty.IsCollectionType() || ty.IsTupleType() || ty.Equals(cty.DynamicPseudoType)
}

func lengthResolver(*query.Context) (functions.ResolverImpl, error) {
	return functions.NewOverloadResolver("length",
		functions.Overload{Match: functions.UnaryMatch(isString), Fn: stdlib.StrlenFunc},
		functions.Overload{Match: functions.UnaryMatch(isCollection), Fn: stdlib.LengthFunc},
	), nil
}

func reverseResolver(*query.Context) (functions.ResolverImpl, error) {
	return functions.NewOverloadResolver("reverse",
		functions.Overload{Match: functions.UnaryMatch(isString), Fn: stdlib.ReverseFunc},
		functions.Overload{Match: functions.UnaryMatch(isSequence), Fn: stdlib.ReverseListFunc},
	), nil
}

// Register registers the string functions and their aliases.
func (m *Module) Register(f *functions.Factory) {
	f.RegisterStatic("upper", stdlib.UpperFunc, aliases.CaseInsensitive)
	f.RegisterStatic("lower", stdlib.LowerFunc, aliases.CaseInsensitive)
	f.RegisterStatic("concat", ConcatFunc, aliases.CaseSensitive)
	f.RegisterStatic("format", stdlib.FormatFunc, aliases.CaseSensitive)
	f.RegisterStatic("join", stdlib.JoinFunc, aliases.CaseSensitive)
	f.RegisterStatic("split", stdlib.SplitFunc, aliases.CaseSensitive)
	f.RegisterStatic("substr", stdlib.SubstrFunc, aliases.CaseSensitive)
	f.RegisterStatic("replace", stdlib.ReplaceFunc, aliases.CaseSensitive)
	f.RegisterStatic("trim", stdlib.TrimSpaceFunc, aliases.CaseSensitive)
	f.RegisterResolver("length", lengthResolver, aliases.CaseInsensitive)
	f.RegisterResolver("reverse", reverseResolver, aliases.CaseInsensitive)

	f.MustRegisterAlias("ucase", "upper", aliases.CaseInsensitive)
	f.MustRegisterAlias("lcase", "lower", aliases.CaseInsensitive)
	f.MustRegisterAlias("len", "length", aliases.CaseInsensitive)
	f.MustRegisterAlias("char_length", "length", aliases.CaseInsensitive)
	f.MustRegisterAlias("substring", "substr", aliases.CaseSensitive)
}
