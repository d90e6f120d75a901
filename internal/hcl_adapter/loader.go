// Package hcl_adapter loads the application configuration from HCL files
// into the format-agnostic config.Model.
package hcl_adapter

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/vk/queryfuncs/internal/config"
	"github.com/vk/queryfuncs/internal/ctxlog"
	"github.com/vk/queryfuncs/internal/dictsource"
	"github.com/vk/queryfuncs/internal/fsutil"
	"github.com/zclconf/go-cty/cty"
)

// Loader is the HCL-specific implementation of the config.Loader interface.
type Loader struct{}

// NewLoader creates a new HCL configuration loader.
func NewLoader() *Loader {
	return &Loader{}
}

// fileRoot is a struct used to decode all possible top-level blocks from any file.
type fileRoot struct {
	Settings     []*settingsBlock   `hcl:"settings,block"`
	Aliases      []*aliasBlock      `hcl:"alias,block"`
	Dictionaries []*dictionaryBlock `hcl:"dictionary,block"`
}

type settingsBlock struct {
	Timezone *string `hcl:"timezone,optional"`
}

type aliasBlock struct {
	Name            string `hcl:"name,label"`
	Target          string `hcl:"target"`
	CaseInsensitive *bool  `hcl:"case_insensitive,optional"`
}

type dictionaryBlock struct {
	Name    string         `hcl:"name,label"`
	Entries hcl.Expression `hcl:"entries,optional"`
	Source  *string        `hcl:"source,optional"`
}

// Load parses every .hcl file found under paths and merges the blocks into
// one model. Settings from later files override earlier ones.
func (l *Loader) Load(ctx context.Context, paths ...string) (*config.Model, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("HCL loader started.", "path_count", len(paths))

	files, err := fsutil.FindFilesByExtension(".hcl", paths...)
	if err != nil {
		return nil, fmt.Errorf("failed to find configuration files: %w", err)
	}
	logger.Debug("Discovered HCL files.", "count", len(files))

	model := config.NewModel()
	parser := hclparse.NewParser()

	for _, file := range files {
		hclFile, diags := parser.ParseHCLFile(file)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to parse HCL file %s: %w", file, diags)
		}

		var root fileRoot
		diags = gohcl.DecodeBody(hclFile.Body, nil, &root)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to decode HCL file %s: %w", file, diags)
		}

		if len(root.Settings) > 1 {
			return nil, fmt.Errorf("failed to decode HCL file %s: only one \"settings\" block is allowed", file)
		}
		for _, s := range root.Settings {
			if s.Timezone != nil {
				model.Settings.Timezone = *s.Timezone
			}
		}

		for _, a := range root.Aliases {
			model.Aliases = append(model.Aliases, &config.Alias{
				Name:            a.Name,
				Target:          a.Target,
				CaseInsensitive: a.CaseInsensitive != nil && *a.CaseInsensitive,
				Source:          file,
			})
		}

		for _, d := range root.Dictionaries {
			if _, exists := model.Dictionaries[d.Name]; exists {
				return nil, fmt.Errorf("failed to decode HCL file %s: dictionary %q is defined more than once", file, d.Name)
			}
			entries, err := loadDictionary(file, d)
			if err != nil {
				return nil, fmt.Errorf("failed to decode dictionary %q in %s: %w", d.Name, file, err)
			}
			model.Dictionaries[d.Name] = entries
		}
	}

	logger.Debug("HCL loading complete.", "aliases", len(model.Aliases), "dictionaries", len(model.Dictionaries))
	return model, nil
}

// loadDictionary returns the inline entries of d or reads them from its
// source file. A relative source is resolved against the directory of the
// declaring file.
func loadDictionary(file string, d *dictionaryBlock) (map[string]cty.Value, error) {
	inline := !isAbsent(d.Entries)
	if inline == (d.Source != nil) {
		return nil, fmt.Errorf("exactly one of \"entries\" or \"source\" must be set")
	}
	if d.Source != nil {
		path := *d.Source
		if !filepath.IsAbs(path) {
			path = filepath.Join(filepath.Dir(file), path)
		}
		return dictsource.Load(path)
	}

	entries, diags := decodeEntries(d.Entries)
	if diags.HasErrors() {
		return nil, diags
	}
	return entries, nil
}

// isAbsent reports whether an optional expression attribute was omitted or
// set to null.
func isAbsent(expr hcl.Expression) bool {
	if expr == nil {
		return true
	}
	val, diags := expr.Value(nil)
	return !diags.HasErrors() && val.IsNull()
}

// decodeEntries evaluates a constant object or map expression into its
// entries.
func decodeEntries(expr hcl.Expression) (map[string]cty.Value, hcl.Diagnostics) {
	val, diags := expr.Value(nil)
	if diags.HasErrors() {
		return nil, diags
	}

	ty := val.Type()
	if val.IsNull() || !val.IsKnown() || !(ty.IsObjectType() || ty.IsMapType()) {
		return nil, hcl.Diagnostics{{
			Severity: hcl.DiagError,
			Summary:  "Invalid dictionary entries",
			Detail:   "The \"entries\" attribute must be an object of constant values.",
			Subject:  expr.Range().Ptr(),
		}}
	}

	entries := make(map[string]cty.Value, val.LengthInt())
	for it := val.ElementIterator(); it.Next(); {
		k, v := it.Element()
		entries[k.AsString()] = v
	}
	return entries, diags
}
