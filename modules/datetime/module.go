// Package datetime registers time functions. The current time and the
// timezone come from the query context, so these functions are built per
// query and fail to build when the configured timezone is unknown.
package datetime

import (
	"fmt"
	"time"

	"github.com/vk/queryfuncs/internal/aliases"
	"github.com/vk/queryfuncs/internal/functions"
	"github.com/vk/queryfuncs/internal/query"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/function"
	"github.com/zclconf/go-cty/cty/function/stdlib"
)

// Module implements the functions.Module interface for this package.
type Module struct{}

func location(qctx *query.Context) (*time.Location, error) {
	loc, err := qctx.Location()
	if err != nil {
		return nil, fmt.Errorf("invalid timezone setting %q: %w", qctx.Settings().Timezone, err)
	}
	return loc, nil
}

// newNow builds now(), which returns the query time as an RFC 3339
// timestamp in the query timezone. The time is read once per query so that
// every call within the query agrees.
func newNow(qctx *query.Context) (function.Function, error) {
	loc, err := location(qctx)
	if err != nil {
		return function.Function{}, err
	}
	ts := cty.StringVal(qctx.Now().In(loc).Format(time.RFC3339))

	return function.New(&function.Spec{
		Description: "Returns the query time as an RFC 3339 timestamp.",
		Params:      []function.Parameter{},
		Type:        function.StaticReturnType(cty.String),
		Impl: func([]cty.Value, cty.Type) (cty.Value, error) {
			return ts, nil
		},
	}), nil
}

func newTimezone(qctx *query.Context) (function.Function, error) {
	loc, err := location(qctx)
	if err != nil {
		return function.Function{}, err
	}
	name := cty.StringVal(loc.String())

	return function.New(&function.Spec{
		Description: "Returns the query timezone.",
		Params:      []function.Parameter{},
		Type:        function.StaticReturnType(cty.String),
		Impl: func([]cty.Value, cty.Type) (cty.Value, error) {
			return name, nil
		},
	}), nil
}

// Register registers the time functions and their aliases.
func (m *Module) Register(f *functions.Factory) {
	f.RegisterSimpleFunction("now", newNow, aliases.CaseInsensitive)
	f.RegisterSimpleFunction("timezone", newTimezone, aliases.CaseInsensitive)
	f.RegisterStatic("formatdate", stdlib.FormatDateFunc, aliases.CaseInsensitive)
	f.RegisterStatic("timeadd", stdlib.TimeAddFunc, aliases.CaseInsensitive)

	f.MustRegisterAlias("current_timestamp", "now", aliases.CaseInsensitive)
	f.MustRegisterAlias("tz", "timezone", aliases.CaseSensitive)
}
