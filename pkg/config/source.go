package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/go-ini/ini"
	"gopkg.in/yaml.v3"
)

// Source yields raw string values by section and key. Lists are rendered as
// list literals ("[1, 2]") or comma-separated text, exactly as they would
// appear in an INI file.
type Source interface {
	// Lookup returns the raw value and whether the key exists.
	Lookup(section, key string) (string, bool)

	// Name describes where values come from, for diagnostics.
	Name() string
}

// Format is an on-disk configuration layout.
type Format string

const (
	FormatINI  Format = "ini"
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// FormatFromPath picks the layout from the file extension. Anything that is
// not YAML or TOML is read as INI, which covers the legacy ".config" files.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	case ".toml":
		return FormatTOML
	default:
		return FormatINI
	}
}

// OpenSource reads the file at path in the layout implied by its extension.
func OpenSource(path string) (Source, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &FieldError{Kind: KindResourceNotFound, Field: "config", Message: fmt.Sprintf("unable to open the configuration file %q", path), Err: err}
		}
		return nil, fmt.Errorf("failed to read configuration file %q: %w", path, err)
	}
	return ParseSource(FormatFromPath(path), path, data)
}

// ParseSource decodes data in the given layout. name is only used in diagnostics.
func ParseSource(format Format, name string, data []byte) (Source, error) {
	switch format {
	case FormatYAML:
		var sections map[string]map[string]any
		if err := yaml.Unmarshal(data, &sections); err != nil {
			return nil, &FieldError{Kind: KindParse, Field: "config", Message: fmt.Sprintf("malformed YAML in %q", name), Err: err}
		}
		return newMapSource(name, sections), nil
	case FormatTOML:
		var sections map[string]map[string]any
		if _, err := toml.Decode(string(data), &sections); err != nil {
			return nil, &FieldError{Kind: KindParse, Field: "config", Message: fmt.Sprintf("malformed TOML in %q", name), Err: err}
		}
		return newMapSource(name, sections), nil
	default:
		file, err := ini.LoadSources(ini.LoadOptions{InsensitiveKeys: true, IgnoreInlineComment: true}, data)
		if err != nil {
			return nil, &FieldError{Kind: KindParse, Field: "config", Message: fmt.Sprintf("malformed INI in %q", name), Err: err}
		}
		return &iniSource{name: name, file: file}, nil
	}
}

type iniSource struct {
	name string
	file *ini.File
}

func (s *iniSource) Lookup(section, key string) (string, bool) {
	sec, err := s.file.GetSection(section)
	if err != nil {
		return "", false
	}
	k, err := sec.GetKey(key)
	if err != nil {
		return "", false
	}
	return k.String(), true
}

func (s *iniSource) Name() string { return s.name }

// Sections returns every section with its raw key/value pairs, skipping the
// implicit default section when it is empty.
func (s *iniSource) Sections() map[string]map[string]string {
	out := make(map[string]map[string]string)
	for _, sec := range s.file.Sections() {
		if sec.Name() == ini.DefaultSection && len(sec.Keys()) == 0 {
			continue
		}
		out[sec.Name()] = sec.KeysHash()
	}
	return out
}

// mapSource serves YAML and TOML documents that use the same section/key
// layout as the INI files.
type mapSource struct {
	name     string
	sections map[string]map[string]string
}

func newMapSource(name string, raw map[string]map[string]any) *mapSource {
	sections := make(map[string]map[string]string, len(raw))
	for section, keys := range raw {
		rendered := make(map[string]string, len(keys))
		for key, v := range keys {
			rendered[key] = renderValue(v)
		}
		sections[section] = rendered
	}
	return &mapSource{name: name, sections: sections}
}

func (s *mapSource) Lookup(section, key string) (string, bool) {
	keys, ok := s.sections[section]
	if !ok {
		return "", false
	}
	if v, ok := keys[key]; ok {
		return v, true
	}
	for k, v := range keys {
		if strings.EqualFold(k, key) {
			return v, true
		}
	}
	return "", false
}

func (s *mapSource) Name() string { return s.name }

// Sections returns a copy of the rendered document.
func (s *mapSource) Sections() map[string]map[string]string {
	out := make(map[string]map[string]string, len(s.sections))
	for section, keys := range s.sections {
		cp := make(map[string]string, len(keys))
		for k, v := range keys {
			cp[k] = v
		}
		out[section] = cp
	}
	return out
}

// renderValue turns a decoded YAML/TOML value back into INI text.
func renderValue(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case []any, []string, []int, []int64:
		b, err := json.Marshal(t)
		if err != nil {
			return fmt.Sprint(t)
		}
		return string(b)
	default:
		return fmt.Sprint(t)
	}
}

// Sectioned is implemented by sources that can enumerate their contents.
type Sectioned interface {
	Sections() map[string]map[string]string
}

// EnvPrefix prefixes every environment override variable.
const EnvPrefix = "FORCING"

// EnvKey returns the environment variable that overrides section.key,
// e.g. FORCING_OUTPUT_OUTPUTFREQUENCY.
func EnvKey(section, key string) string {
	return strings.ToUpper(EnvPrefix + "_" + section + "_" + key)
}

type envSource struct {
	base      Source
	lookupEnv func(string) (string, bool)
}

// WithEnvOverrides layers FORCING_<SECTION>_<KEY> environment variables over
// base. Environment variables always take precedence over file values.
func WithEnvOverrides(base Source) Source {
	return &envSource{base: base, lookupEnv: os.LookupEnv}
}

func (s *envSource) Lookup(section, key string) (string, bool) {
	if v, ok := s.lookupEnv(EnvKey(section, key)); ok {
		return v, true
	}
	return s.base.Lookup(section, key)
}

func (s *envSource) Name() string { return s.base.Name() + "+env" }

func (s *envSource) Sections() map[string]map[string]string {
	sectioned, ok := s.base.(Sectioned)
	if !ok {
		return nil
	}
	out := sectioned.Sections()
	for section, keys := range out {
		for key := range keys {
			if v, ok := s.lookupEnv(EnvKey(section, key)); ok {
				keys[key] = v
			}
		}
	}
	return out
}

// MapSource builds a Source from literal values. It is mostly useful in tests
// and for programmatic configuration.
func MapSource(name string, sections map[string]map[string]string) Source {
	cp := make(map[string]map[string]string, len(sections))
	for section, keys := range sections {
		inner := make(map[string]string, len(keys))
		for k, v := range keys {
			inner[k] = v
		}
		cp[section] = inner
	}
	return &mapSource{name: name, sections: cp}
}

// SortedKeys returns the keys of m in lexical order.
func SortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
