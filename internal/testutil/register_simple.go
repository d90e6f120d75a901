package testutil

import (
	"github.com/vk/queryfuncs/internal/aliases"
	"github.com/vk/queryfuncs/internal/functions"
	"github.com/zclconf/go-cty/cty/function"
)

// SimpleModule is a test helper for easily creating a mock module that
// registers a single function and, optionally, one alias for it.
type SimpleModule struct {
	Name            string
	Fn              function.Function
	CaseSensitivity aliases.CaseSensitivity

	Alias                string
	AliasCaseSensitivity aliases.CaseSensitivity
}

// Register implements the functions.Module interface.
func (m *SimpleModule) Register(f *functions.Factory) {
	f.RegisterStatic(m.Name, m.Fn, m.CaseSensitivity)
	if m.Alias != "" {
		f.MustRegisterAlias(m.Alias, m.Name, m.AliasCaseSensitivity)
	}
}
