package app

import (
	"context"
	"fmt"

	"github.com/vk/queryfuncs/internal/analyzer"
	"github.com/vk/queryfuncs/internal/ctxlog"
	"github.com/vk/queryfuncs/internal/query"
	ctyjson "github.com/zclconf/go-cty/cty/json"
)

// Run lists the registered functions and evaluates the configured
// expressions, writing results to the app's output.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")

	if a.config.ListFunctions {
		a.listFunctions()
	}

	qctx := query.NewContext(a.model.Settings, query.WithDictionaries(a.model.QueryDictionaries()))
	for i, src := range a.config.Expressions {
		exprCtx := ctxlog.With(ctx, "expression", i)

		q, err := analyzer.Analyze(exprCtx, a.factory, qctx, src)
		if err != nil {
			return err
		}
		val, err := q.Evaluate(nil)
		if err != nil {
			return fmt.Errorf("failed to evaluate query: %w", err)
		}

		out, err := ctyjson.SimpleJSONValue{Value: val}.MarshalJSON()
		if err != nil {
			return fmt.Errorf("failed to render result: %w", err)
		}
		fmt.Fprintln(a.outW, string(out))
		ctxlog.FromContext(exprCtx).Debug("Expression evaluated.", "functions", q.Functions())
	}

	a.logger.Debug("App.Run method finished.")
	return nil
}

// listFunctions prints canonical names in registration order, followed by
// the aliases and the names they resolve to.
func (a *App) listFunctions() {
	for _, name := range a.factory.AllNames() {
		fmt.Fprintln(a.outW, name)
	}
	targets := a.factory.Aliases()
	for _, alias := range a.factory.AliasNames() {
		fmt.Fprintf(a.outW, "%s -> %s\n", alias, targets[alias])
	}
}
