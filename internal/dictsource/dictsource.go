// Package dictsource reads dictionary entries from YAML and TOML files so
// that large dictionaries can live outside the HCL configuration.
package dictsource

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/zclconf/go-cty/cty"
	"gopkg.in/yaml.v3"
)

// Format is the encoding of a dictionary file.
type Format int

const (
	FormatYAML Format = iota
	FormatTOML
)

func (f Format) String() string {
	if f == FormatTOML {
		return "toml"
	}
	return "yaml"
}

// DetectFormat determines the format from the file extension.
func DetectFormat(path string) (Format, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".toml":
		return FormatTOML, nil
	default:
		return 0, fmt.Errorf("unsupported dictionary file extension %q", ext)
	}
}

// Load reads the dictionary file at path.
func Load(path string) (map[string]cty.Value, error) {
	format, err := DetectFormat(path)
	if err != nil {
		return nil, err
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read dictionary file %s: %w", path, err)
	}
	entries, err := Decode(content, format)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s file %s: %w", format, path, err)
	}
	return entries, nil
}

// Decode parses content as a top-level mapping of keys to values.
func Decode(content []byte, format Format) (map[string]cty.Value, error) {
	var data map[string]any
	switch format {
	case FormatTOML:
		if err := toml.Unmarshal(content, &data); err != nil {
			return nil, err
		}
	case FormatYAML:
		if err := yaml.Unmarshal(content, &data); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unsupported format: %d", format)
	}

	entries := make(map[string]cty.Value, len(data))
	for k, raw := range data {
		v, err := toValue(raw)
		if err != nil {
			return nil, fmt.Errorf("key %q: %w", k, err)
		}
		entries[k] = v
	}
	return entries, nil
}

// toValue converts a decoded YAML or TOML value. Sequences become tuples and
// mappings become objects since element types may differ.
func toValue(raw any) (cty.Value, error) {
	switch v := raw.(type) {
	case nil:
		return cty.NullVal(cty.DynamicPseudoType), nil
	case string:
		return cty.StringVal(v), nil
	case bool:
		return cty.BoolVal(v), nil
	case int:
		return cty.NumberIntVal(int64(v)), nil
	case int64:
		return cty.NumberIntVal(v), nil
	case uint64:
		return cty.NumberUIntVal(v), nil
	case float64:
		if math.IsNaN(v) {
			return cty.NilVal, fmt.Errorf("NaN is not a valid number")
		}
		return cty.NumberFloatVal(v), nil
	case time.Time:
		return cty.StringVal(v.Format(time.RFC3339)), nil
	case []any:
		if len(v) == 0 {
			return cty.EmptyTupleVal, nil
		}
		elems := make([]cty.Value, len(v))
		for i, e := range v {
			ev, err := toValue(e)
			if err != nil {
				return cty.NilVal, fmt.Errorf("index %d: %w", i, err)
			}
			elems[i] = ev
		}
		return cty.TupleVal(elems), nil
	case []map[string]any:
		if len(v) == 0 {
			return cty.EmptyTupleVal, nil
		}
		elems := make([]cty.Value, len(v))
		for i, e := range v {
			ev, err := objectValue(e)
			if err != nil {
				return cty.NilVal, fmt.Errorf("index %d: %w", i, err)
			}
			elems[i] = ev
		}
		return cty.TupleVal(elems), nil
	case map[string]any:
		return objectValue(v)
	case map[any]any:
		m := make(map[string]any, len(v))
		for k, e := range v {
			m[fmt.Sprint(k)] = e
		}
		return objectValue(m)
	default:
		return cty.NilVal, fmt.Errorf("unsupported value of type %T", raw)
	}
}

func objectValue(m map[string]any) (cty.Value, error) {
	if len(m) == 0 {
		return cty.EmptyObjectVal, nil
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	attrs := make(map[string]cty.Value, len(m))
	for _, k := range keys {
		v, err := toValue(m[k])
		if err != nil {
			return cty.NilVal, fmt.Errorf("key %q: %w", k, err)
		}
		attrs[k] = v
	}
	return cty.ObjectVal(attrs), nil
}
