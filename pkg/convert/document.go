package convert

import (
	"errors"
	"sort"
	"strings"

	"hydroforce/forcing/pkg/config"
)

// ErrNotSectioned is returned for sources that cannot list their keys.
var ErrNotSectioned = errors.New("source cannot enumerate its sections")

// Entry is one key and its raw INI-style value.
type Entry struct {
	Key   string
	Value string
}

// Section is an ordered group of entries.
type Section struct {
	Name    string
	Entries []Entry
}

// Document is a configuration in canonical order: documented sections
// first, in configuration order, then any others alphabetically. Keys
// use their documented spelling.
type Document struct {
	Sections []Section
}

// Read builds a Document from src.
func Read(src config.Source) (*Document, error) {
	sectioned, ok := src.(config.Sectioned)
	if !ok {
		return nil, ErrNotSectioned
	}
	raw := sectioned.Sections()

	names := make([]string, 0, len(raw))
	for _, name := range config.Sections {
		if _, ok := lookupSection(raw, name); ok {
			names = append(names, name)
		}
	}
	for _, name := range config.SortedKeys(raw) {
		if !containsFold(names, name) {
			names = append(names, name)
		}
	}

	doc := &Document{}
	for _, name := range names {
		keys, _ := lookupSection(raw, name)
		sec := Section{Name: name}
		for _, k := range config.SortedKeys(keys) {
			sec.Entries = append(sec.Entries, Entry{Key: config.CanonicalKey(name, k), Value: keys[k]})
		}
		sort.SliceStable(sec.Entries, func(i, j int) bool {
			oi, oj := config.KeyOrder(name, sec.Entries[i].Key), config.KeyOrder(name, sec.Entries[j].Key)
			if oi < 0 || oj < 0 {
				// Unknown keys follow documented ones.
				return oi >= 0 && oj < 0
			}
			return oi < oj
		})
		doc.Sections = append(doc.Sections, sec)
	}
	return doc, nil
}

// lookupSection finds a section by name, ignoring case.
func lookupSection(raw map[string]map[string]string, name string) (map[string]string, bool) {
	if keys, ok := raw[name]; ok {
		return keys, true
	}
	for k, keys := range raw {
		if strings.EqualFold(k, name) {
			return keys, true
		}
	}
	return nil, false
}

func containsFold(list []string, s string) bool {
	for _, v := range list {
		if strings.EqualFold(v, s) {
			return true
		}
	}
	return false
}
