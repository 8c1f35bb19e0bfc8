package export

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/shcv/nccl"
)

// Format is an output encoding for a tree.
type Format int

const (
	FormatNCCL Format = iota
	FormatJSON
	FormatYAML
	FormatTOML
)

var formats = map[string]Format{
	"nccl": FormatNCCL,
	"json": FormatJSON,
	"yaml": FormatYAML,
	"yml":  FormatYAML,
	"toml": FormatTOML,
}

func (f Format) String() string {
	switch f {
	case FormatNCCL:
		return "nccl"
	case FormatJSON:
		return "json"
	case FormatYAML:
		return "yaml"
	case FormatTOML:
		return "toml"
	default:
		return fmt.Sprintf("Format(%d)", int(f))
	}
}

// ParseFormat returns the Format with the given name, ignoring case.
func ParseFormat(s string) (Format, error) {
	if f, ok := formats[strings.ToLower(s)]; ok {
		return f, nil
	}
	return 0, fmt.Errorf("unknown format %q", s)
}

// Encode writes c to w in the given format. JSON, YAML and TOML output uses
// the compacted form, see Compact.
func Encode(w io.Writer, c *nccl.Config, f Format) error {
	switch f {
	case FormatNCCL:
		_, err := io.WriteString(w, c.PrettyPrint())
		return err
	case FormatJSON:
		v, err := Compact(c)
		if err != nil {
			return err
		}

		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case FormatYAML:
		node, err := yamlNode(c)
		if err != nil {
			return err
		}

		enc := yaml.NewEncoder(w)
		enc.SetIndent(4)

		if err := enc.Encode(node); err != nil {
			return err
		}
		return enc.Close()
	case FormatTOML:
		v, err := Compact(c)
		if err != nil {
			return err
		}

		// A TOML document is always a table.
		if _, ok := v.(map[string]any); !ok {
			v = map[string]any{"value": v}
		}
		return toml.NewEncoder(w).Encode(v)
	}
	return fmt.Errorf("unknown format %s", f)
}

// yamlNode builds the compacted form of c as a YAML node tree, which keeps
// insertion order where a map would not.
func yamlNode(c *nccl.Config) (*yaml.Node, error) {
	if isLeaf(c) {
		return &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}, nil
	}

	children := c.Children()

	if allChildrenLeaves(c) {
		if len(children) == 1 {
			return yamlScalar(children[0])
		}

		seq := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}

		for _, child := range children {
			item, err := yamlScalar(child)
			if err != nil {
				return nil, err
			}
			seq.Content = append(seq.Content, item)
		}
		return seq, nil
	}

	m := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}

	for _, child := range children {
		key, err := yamlScalar(child)
		if err != nil {
			return nil, err
		}

		value, err := yamlNode(child)
		if err != nil {
			return nil, err
		}
		m.Content = append(m.Content, key, value)
	}
	return m, nil
}

// yamlScalar encodes the node's text as a string scalar, quoted where YAML
// would otherwise read it as another type.
func yamlScalar(n *nccl.Config) (*yaml.Node, error) {
	s, err := text(n)
	if err != nil {
		return nil, err
	}

	node := &yaml.Node{}

	if err := node.Encode(s); err != nil {
		return nil, err
	}
	return node, nil
}
