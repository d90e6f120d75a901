package config

import (
	"github.com/vk/queryfuncs/internal/query"
	"github.com/zclconf/go-cty/cty"
)

// Model is the unified representation of the configuration files.
type Model struct {
	Settings     query.Settings
	Aliases      []*Alias
	Dictionaries map[string]map[string]cty.Value
}

// NewModel returns an empty model.
func NewModel() *Model {
	return &Model{
		Dictionaries: make(map[string]map[string]cty.Value),
	}
}

// Alias is a user-defined alternate name for a registered function.
type Alias struct {
	Name            string
	Target          string
	CaseInsensitive bool
	// Source locates the definition for error messages.
	Source string
}

// QueryDictionaries converts the configured dictionaries for use in a
// query context.
func (m *Model) QueryDictionaries() map[string]query.Dictionary {
	if len(m.Dictionaries) == 0 {
		return nil
	}
	out := make(map[string]query.Dictionary, len(m.Dictionaries))
	for name, entries := range m.Dictionaries {
		out[name] = query.Dictionary(entries)
	}
	return out
}
