// Package analyzer prepares query expressions for evaluation. It parses an
// expression, finds every function it calls and resolves each of them by
// name through the function factory.
package analyzer

import (
	"context"
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/vk/queryfuncs/internal/ctxlog"
	"github.com/vk/queryfuncs/internal/functions"
	"github.com/vk/queryfuncs/internal/query"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/function"
)

// Resolver is the part of the function factory the analyzer needs.
type Resolver interface {
	Get(name string, qctx *query.Context) (*functions.Resolver, error)
}

// Query is an analyzed expression with its functions resolved.
type Query struct {
	source    string
	expr      hclsyntax.Expression
	called    []string
	functions map[string]function.Function
}

// Analyze parses src and resolves every function it calls. Parse failures
// are returned as hcl.Diagnostics; an unknown function yields an error
// wrapping *functions.NotFoundError.
func Analyze(ctx context.Context, resolver Resolver, qctx *query.Context, src string) (*Query, error) {
	logger := ctxlog.FromContext(ctx)

	expr, diags := hclsyntax.ParseExpression([]byte(src), "query", hcl.Pos{Line: 1, Column: 1})
	if diags.HasErrors() {
		return nil, diags
	}

	called := calledFunctions(expr)
	logger.Debug("Expression parsed.", "functions", called)

	resolved := make(map[string]function.Function, len(called))
	for _, name := range called {
		r, err := resolver.Get(name, qctx)
		if err != nil {
			return nil, fmt.Errorf("failed to analyze query: %w", err)
		}
		resolved[name] = r.Function()
		logger.Debug("Function resolved.", "name", name, "resolver", r.Name())
	}

	return &Query{
		source:    src,
		expr:      expr,
		called:    called,
		functions: resolved,
	}, nil
}

// Source returns the expression text.
func (q *Query) Source() string {
	return q.source
}

// Functions returns the names of the called functions as written, sorted.
func (q *Query) Functions() []string {
	out := make([]string, len(q.called))
	copy(out, q.called)
	return out
}

// Evaluate computes the expression. vars become top-level variables.
func (q *Query) Evaluate(vars map[string]cty.Value) (cty.Value, error) {
	evalCtx := &hcl.EvalContext{
		Variables: vars,
		Functions: q.functions,
	}
	val, diags := q.expr.Value(evalCtx)
	if diags.HasErrors() {
		return cty.NilVal, diags
	}
	return val, nil
}
