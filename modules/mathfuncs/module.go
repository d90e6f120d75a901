// Package mathfuncs registers the built-in numeric functions. All of them
// are matched case-insensitively.
package mathfuncs

import (
	"github.com/vk/queryfuncs/internal/aliases"
	"github.com/vk/queryfuncs/internal/functions"
	"github.com/zclconf/go-cty/cty/function"
	"github.com/zclconf/go-cty/cty/function/stdlib"
)

// Module implements the functions.Module interface for this package.
type Module struct{}

var builtins = []struct {
	name string
	fn   function.Function
}{
	{"abs", stdlib.AbsoluteFunc},
	{"ceil", stdlib.CeilFunc},
	{"floor", stdlib.FloorFunc},
	{"max", stdlib.MaxFunc},
	{"min", stdlib.MinFunc},
	{"pow", stdlib.PowFunc},
	{"log", stdlib.LogFunc},
	{"modulo", stdlib.ModuloFunc},
	{"signum", stdlib.SignumFunc},
	{"parseint", stdlib.ParseIntFunc},
}

// Register registers the numeric functions and their aliases.
func (m *Module) Register(f *functions.Factory) {
	for _, b := range builtins {
		f.RegisterStatic(b.name, b.fn, aliases.CaseInsensitive)
	}

	f.MustRegisterAlias("greatest", "max", aliases.CaseInsensitive)
	f.MustRegisterAlias("least", "min", aliases.CaseInsensitive)
	f.MustRegisterAlias("mod", "modulo", aliases.CaseInsensitive)
	f.MustRegisterAlias("sign", "signum", aliases.CaseInsensitive)
}
