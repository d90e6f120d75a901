package analyzer

import (
	"sort"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
)

// calledFunctions returns the names of all functions called anywhere in
// expr, sorted and without duplicates. Names are kept as written.
func calledFunctions(expr hclsyntax.Expression) []string {
	seen := make(map[string]struct{})
	hclsyntax.VisitAll(expr, func(node hclsyntax.Node) hcl.Diagnostics {
		if call, ok := node.(*hclsyntax.FunctionCallExpr); ok {
			seen[call.Name] = struct{}{}
		}
		return nil
	})

	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
