package convert

import (
	"fmt"
	"io"

	"github.com/BurntSushi/toml"
	"github.com/go-ini/ini"
	"gopkg.in/yaml.v3"

	"hydroforce/forcing/pkg/config"
)

// Write renders doc to w in the given layout.
func Write(w io.Writer, doc *Document, format config.Format) error {
	switch format {
	case config.FormatINI:
		return writeINI(w, doc)
	case config.FormatYAML:
		return writeYAML(w, doc)
	case config.FormatTOML:
		return writeTOML(w, doc)
	default:
		return fmt.Errorf("unsupported configuration format %q", format)
	}
}

// Convert reads src and writes it to w in the given layout.
func Convert(w io.Writer, src config.Source, format config.Format) error {
	doc, err := Read(src)
	if err != nil {
		return err
	}
	return Write(w, doc, format)
}

func writeINI(w io.Writer, doc *Document) error {
	file := ini.Empty(ini.LoadOptions{IgnoreInlineComment: true})
	for _, sec := range doc.Sections {
		section, err := file.NewSection(sec.Name)
		if err != nil {
			return fmt.Errorf("section %s: %w", sec.Name, err)
		}
		for _, e := range sec.Entries {
			if _, err := section.NewKey(e.Key, iniValue(e.Key, e.Value)); err != nil {
				return fmt.Errorf("key %s.%s: %w", sec.Name, e.Key, err)
			}
		}
	}
	_, err := file.WriteTo(w)
	return err
}

// writeYAML builds the node tree by hand so sections and keys keep their
// configuration order.
func writeYAML(w io.Writer, doc *Document) error {
	root := &yaml.Node{Kind: yaml.MappingNode}
	for _, sec := range doc.Sections {
		keys := &yaml.Node{Kind: yaml.MappingNode}
		for _, e := range sec.Entries {
			var value yaml.Node
			if err := value.Encode(typed(e.Key, e.Value)); err != nil {
				return fmt.Errorf("key %s.%s: %w", sec.Name, e.Key, err)
			}
			if value.Kind == yaml.SequenceNode {
				value.Style = yaml.FlowStyle
			}
			keys.Content = append(keys.Content, scalar(e.Key), &value)
		}
		root.Content = append(root.Content, scalar(sec.Name), keys)
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(&yaml.Node{Kind: yaml.DocumentNode, Content: []*yaml.Node{root}}); err != nil {
		return err
	}
	return enc.Close()
}

func scalar(s string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: s}
}

// writeTOML encodes one table per section. The TOML encoder orders keys
// alphabetically.
func writeTOML(w io.Writer, doc *Document) error {
	tables := make(map[string]map[string]any, len(doc.Sections))
	for _, sec := range doc.Sections {
		table := make(map[string]any, len(sec.Entries))
		for _, e := range sec.Entries {
			table[e.Key] = typed(e.Key, e.Value)
		}
		tables[sec.Name] = table
	}
	return toml.NewEncoder(w).Encode(tables)
}
