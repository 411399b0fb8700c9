// Package preset reads and writes pipeline presets as YAML.
//
// A preset is the node list of a pipeline. Each node is stored as its
// kind, its common flags and its settings as text under their canonical
// keys:
//
//	version: 1
//	nodes:
//	  - kind: halation
//	    params:
//	      amount: "0.6"
//	      radius: "40"
//	  - kind: grain
//	    enabled: false
//	    params:
//	      seed: "17"
//
// Settings missing from a preset keep their defaults, and out-of-range
// values are clamped on load, so presets written by older versions still
// load.
package preset

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/gogpu/halation/effect"
	"gopkg.in/yaml.v3"
)

// Version is the preset format version written by Encode.
const Version = 1

// Errors returned while decoding presets.
var (
	// ErrVersion is returned for a preset written by a newer format.
	ErrVersion = errors.New("preset: unsupported version")

	// ErrInvalid is returned for a preset that is not a node list.
	ErrInvalid = errors.New("preset: invalid preset")
)

// file is the YAML document.
type file struct {
	Version int     `yaml:"version"`
	Nodes   []entry `yaml:"nodes"`
}

type entry struct {
	Kind      string `yaml:"kind"`
	Enabled   *bool  `yaml:"enabled,omitempty"`
	Before    bool   `yaml:"before,omitempty"`
	Collapsed bool   `yaml:"collapsed,omitempty"`
	Params    params `yaml:"params,omitempty"`
}

// params keeps settings in their canonical order when encoded.
type params []effect.Param

// MarshalYAML implements yaml.Marshaler.
func (p params) MarshalYAML() (any, error) {
	n := &yaml.Node{Kind: yaml.MappingNode}
	for _, kv := range p {
		n.Content = append(n.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Value: kv.Key},
			&yaml.Node{Kind: yaml.ScalarNode, Style: yaml.DoubleQuotedStyle, Value: kv.Value},
		)
	}
	return n, nil
}

// UnmarshalYAML implements yaml.Unmarshaler. Values may be written as any
// scalar; they are parsed by the node.
func (p *params) UnmarshalYAML(n *yaml.Node) error {
	if n.Kind != yaml.MappingNode {
		return fmt.Errorf("%w: line %d: params must be a mapping", ErrInvalid, n.Line)
	}
	out := make(params, 0, len(n.Content)/2)
	for i := 0; i+1 < len(n.Content); i += 2 {
		k, v := n.Content[i], n.Content[i+1]
		if v.Kind != yaml.ScalarNode {
			return fmt.Errorf("%w: line %d: %q must be a scalar", ErrInvalid, v.Line, k.Value)
		}
		out = append(out, effect.Param{Key: k.Value, Value: v.Value})
	}
	*p = out
	return nil
}

// Decode reads a preset and returns its nodes, normalized.
func Decode(r io.Reader) ([]effect.Node, error) {
	var f file
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: empty document", ErrInvalid)
		}
		return nil, fmt.Errorf("preset: %w", err)
	}
	if f.Version > Version {
		return nil, fmt.Errorf("%w: %d (newest is %d)", ErrVersion, f.Version, Version)
	}

	nodes := make([]effect.Node, 0, len(f.Nodes))
	for i, e := range f.Nodes {
		n, err := e.node()
		if err != nil {
			return nil, fmt.Errorf("preset: node %d: %w", i, err)
		}
		nodes = append(nodes, n)
	}
	return nodes, nil
}

func (e entry) node() (effect.Node, error) {
	kind, err := effect.ParseKind(e.Kind)
	if err != nil {
		return effect.Node{}, err
	}
	n, err := effect.Defaults(kind)
	if err != nil {
		return effect.Node{}, err
	}
	for _, p := range e.Params {
		if n, err = n.Set(p.Key, p.Value); err != nil {
			return effect.Node{}, err
		}
	}
	n.Enabled = e.Enabled == nil || *e.Enabled
	n.Before = e.Before
	n.Collapsed = e.Collapsed
	return n, nil
}

// Encode writes nodes as a preset.
func Encode(w io.Writer, nodes []effect.Node) error {
	f := file{Version: Version, Nodes: make([]entry, 0, len(nodes))}
	for i, n := range nodes {
		if n.Settings == nil {
			return fmt.Errorf("preset: node %d: %w", i, effect.ErrUnknownKind)
		}
		e := entry{
			Kind:      strings.ToLower(n.Kind().String()),
			Before:    n.Before,
			Collapsed: n.Collapsed,
			Params:    n.Params(),
		}
		if !n.Enabled {
			e.Enabled = new(bool)
		}
		f.Nodes = append(f.Nodes, e)
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(&f); err != nil {
		return fmt.Errorf("preset: %w", err)
	}
	return enc.Close()
}

// Load reads the preset at path.
func Load(path string) ([]effect.Node, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("preset: %w", err)
	}
	return Decode(bytes.NewReader(data))
}

// Save writes nodes to path as a preset.
func Save(path string, nodes []effect.Node) error {
	var buf bytes.Buffer
	if err := Encode(&buf, nodes); err != nil {
		return err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("preset: %w", err)
	}
	return nil
}
