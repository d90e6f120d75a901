package functions

import (
	"fmt"
	"strings"

	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/function"
)

// ResolverImpl is the developer-facing side of a resolver. It picks the
// concrete function to run for a given list of argument types.
type ResolverImpl interface {
	Name() string
	Resolve(argTypes []cty.Type) (function.Function, error)
}

// DefaultResolver wraps a single function that accepts every argument list
// it is resolved for. Argument checking is left to the function itself.
type DefaultResolver struct {
	name string
	fn   function.Function
}

// NewDefaultResolver adapts fn to the ResolverImpl interface.
func NewDefaultResolver(name string, fn function.Function) *DefaultResolver {
	return &DefaultResolver{name: name, fn: fn}
}

// Name returns the name the function was registered under.
func (d *DefaultResolver) Name() string { return d.name }

// Resolve returns the wrapped function.
func (d *DefaultResolver) Resolve([]cty.Type) (function.Function, error) {
	return d.fn, nil
}

// Overload is one candidate of an OverloadResolver.
type Overload struct {
	Match func(argTypes []cty.Type) bool
	Fn    function.Function
}

// UnaryMatch matches argument lists of exactly one argument accepted by pred.
func UnaryMatch(pred func(cty.Type) bool) func([]cty.Type) bool {
	return func(argTypes []cty.Type) bool {
		return len(argTypes) == 1 && pred(argTypes[0])
	}
}

// OverloadResolver picks the first overload whose Match accepts the
// argument types.
type OverloadResolver struct {
	name      string
	overloads []Overload
}

// NewOverloadResolver creates a resolver trying overloads in order.
func NewOverloadResolver(name string, overloads ...Overload) *OverloadResolver {
	return &OverloadResolver{name: name, overloads: overloads}
}

// Name returns the name the resolver was registered under.
func (o *OverloadResolver) Name() string { return o.name }

// Resolve returns the first matching overload.
func (o *OverloadResolver) Resolve(argTypes []cty.Type) (function.Function, error) {
	for _, ov := range o.overloads {
		if ov.Match(argTypes) {
			return ov.Fn, nil
		}
	}
	return function.Function{}, fmt.Errorf("no overload of function `%s` accepts arguments (%s)", o.name, friendlyTypes(argTypes))
}

// Resolver is the handle returned to query analysis. It is a thin adaptor
// over a ResolverImpl.
type Resolver struct {
	impl ResolverImpl
}

// NewResolver wraps impl in a public handle.
func NewResolver(impl ResolverImpl) *Resolver {
	return &Resolver{impl: impl}
}

// Name returns the name of the underlying resolver.
func (r *Resolver) Name() string { return r.impl.Name() }

// Impl exposes the wrapped developer-facing resolver.
func (r *Resolver) Impl() ResolverImpl { return r.impl }

// Build resolves the concrete function for argTypes.
func (r *Resolver) Build(argTypes []cty.Type) (function.Function, error) {
	return r.impl.Resolve(argTypes)
}

// Function returns a single function that resolves the concrete overload
// on every call from the actual argument types. The result can be placed
// directly into an hcl.EvalContext.
func (r *Resolver) Function() function.Function {
	return function.New(&function.Spec{
		Description: fmt.Sprintf("Resolves %s by argument types.", r.Name()),
		VarParam: &function.Parameter{
			Name:             "args",
			Type:             cty.DynamicPseudoType,
			AllowNull:        true,
			AllowUnknown:     true,
			AllowDynamicType: true,
		},
		Type: func(args []cty.Value) (cty.Type, error) {
			fn, err := r.Build(typesOf(args))
			if err != nil {
				return cty.NilType, err
			}
			return fn.ReturnTypeForValues(args)
		},
		Impl: func(args []cty.Value, _ cty.Type) (cty.Value, error) {
			fn, err := r.Build(typesOf(args))
			if err != nil {
				return cty.NilVal, err
			}
			return fn.Call(args)
		},
	})
}

func typesOf(args []cty.Value) []cty.Type {
	types := make([]cty.Type, len(args))
	for i, arg := range args {
		types[i] = arg.Type()
	}
	return types
}

func friendlyTypes(types []cty.Type) string {
	names := make([]string, len(types))
	for i, ty := range types {
		names[i] = ty.FriendlyName()
	}
	return strings.Join(names, ", ")
}
