package common

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// LoadYAML reads a YAML file from the given path and unmarshals it into a *yaml.Node
func LoadYAML(path string) (*yaml.Node, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}
	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return nil, fmt.Errorf("unmarshal to node: %w", err)
	}
	return &node, nil
}

// EncodeYAML renders a node with the project's two-space indent
func EncodeYAML(node *yaml.Node) ([]byte, error) {
	buf := &bytes.Buffer{}
	enc := yaml.NewEncoder(buf)
	enc.SetIndent(2)
	if err := enc.Encode(node); err != nil {
		return nil, fmt.Errorf("encode yaml: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("encode yaml: %w", err)
	}
	return buf.Bytes(), nil
}

// WriteYAML encodes a *yaml.Node to YAML and writes it to the specified file path
func WriteYAML(path string, node *yaml.Node) error {
	data, err := EncodeYAML(node)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// YamlToMap unmarshals YAML into interface{}, normalizes all maps, and returns the top-level map[string]interface{}
func YamlToMap(b []byte) (map[string]interface{}, error) {
	var raw interface{}
	if err := yaml.Unmarshal(b, &raw); err != nil {
		return nil, err
	}
	norm := Normalize(raw)
	if m, ok := norm.(map[string]interface{}); ok {
		return m, nil
	}
	return nil, fmt.Errorf("expected top-level map, got %T", norm)
}

// Normalize will walk any nested map[interface{}]interface{} -> map[string]interface{}, and also recurse into []interface{}
func Normalize(i interface{}) interface{} {
	switch v := i.(type) {
	case map[interface{}]interface{}:
		m2 := make(map[string]interface{}, len(v))
		for key, val := range v {
			m2[fmt.Sprint(key)] = Normalize(val)
		}
		return m2
	case map[string]interface{}:
		for key, val := range v {
			v[key] = Normalize(val)
		}
		return v
	case []interface{}:
		for idx, elem := range v {
			v[idx] = Normalize(elem)
		}
		return v
	default:
		return v
	}
}

// GetChildByKey returns the value node associated with the given key from a MappingNode
func GetChildByKey(node *yaml.Node, key string) *yaml.Node {
	if node == nil || node.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		if node.Content[i].Value == key {
			return node.Content[i+1]
		}
	}
	return nil
}

// CloneNode performs a deep copy of a *yaml.Node, including its content and comments
func CloneNode(n *yaml.Node) *yaml.Node {
	if n == nil {
		return nil
	}
	c := *n
	if n.Content != nil {
		c.Content = make([]*yaml.Node, len(n.Content))
		for i, child := range n.Content {
			c.Content[i] = CloneNode(child)
		}
	}
	return &c
}

// SetMappingValue sets mapNode[key] = valNode, replacing existing or appending if missing.
func SetMappingValue(mapNode *yaml.Node, key string, valNode *yaml.Node) {
	if mapNode.Kind != yaml.MappingNode {
		return
	}
	for i := 0; i+1 < len(mapNode.Content); i += 2 {
		if mapNode.Content[i].Value == key {
			mapNode.Content[i+1] = valNode
			return
		}
	}
	mapNode.Content = append(mapNode.Content,
		&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: key},
		valNode,
	)
}

// ListYaml writes the contents of a YAML file to w, preserving order and comments.
// It rejects non-.yaml/.yml extensions and surfaces precise errors.
func ListYaml(filePath string, w io.Writer) error {
	info, err := os.Stat(filePath)
	if err != nil {
		return fmt.Errorf("cannot stat %s: %w", filePath, err)
	}
	if !info.Mode().IsRegular() {
		return fmt.Errorf("%s is not a regular file", filePath)
	}

	ext := strings.ToLower(filepath.Ext(filePath))
	if ext != ".yaml" && ext != ".yml" {
		return fmt.Errorf("unsupported extension %q: only .yaml/.yml allowed", ext)
	}

	// load the raw YAML node tree so we preserve ordering
	rootNode, err := LoadYAML(filePath)
	if err != nil {
		return fmt.Errorf("failed to read or parse %s: %w", filePath, err)
	}

	data, err := EncodeYAML(rootNode)
	if err != nil {
		return fmt.Errorf("failed to emit %s: %w", filePath, err)
	}
	_, err = w.Write(data)
	return err
}

// WriteToPath sets or overwrites a scalar in the YAML mapping tree at the
// given key path, creating intermediate mappings as needed.
func WriteToPath(root *yaml.Node, path []string, val string) (*yaml.Node, error) {
	if len(path) == 0 {
		return nil, fmt.Errorf("empty key path")
	}
	if root.Kind == yaml.DocumentNode && len(root.Content) > 0 {
		root = root.Content[0]
	}

	// Ensure the provided value is clean
	val = sanitizeValue(val)

	working := root
	for i, seg := range path {
		if seg == "" {
			return nil, fmt.Errorf("empty segment in key path %q", strings.Join(path, "."))
		}
		if working.Kind != yaml.MappingNode {
			return nil, fmt.Errorf("%s is not a mapping", strings.Join(path[:i], "."))
		}
		last := i == len(path)-1
		child := GetChildByKey(working, seg)

		if last {
			if child == nil {
				child = &yaml.Node{}
				SetMappingValue(working, seg, child)
			} else if child.Kind != yaml.ScalarNode {
				return nil, fmt.Errorf("%s is a %s, not a scalar", strings.Join(path, "."), kindName(child.Kind))
			}
			writeScalar(child, val)
			return root, nil
		}

		if child == nil {
			child = &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
			SetMappingValue(working, seg, child)
		}
		working = child
	}
	return root, nil
}

// sanitizeValue trims quotes from user input
func sanitizeValue(val string) string {
	return strings.Trim(val, `"'`)
}

// writeScalar overwrites a node with a scalar value, preserving int and bool vs string
func writeScalar(node *yaml.Node, val string) {
	node.Kind = yaml.ScalarNode
	node.Content = nil
	node.Style = 0
	switch {
	case isInteger(val):
		node.Tag = "!!int"
	case val == "true" || val == "false":
		node.Tag = "!!bool"
	default:
		node.Tag = "!!str"
		node.Style = yaml.DoubleQuotedStyle
	}
	node.Value = val
}

func isInteger(val string) bool {
	_, err := strconv.ParseInt(val, 10, 64)
	return err == nil
}

func kindName(k yaml.Kind) string {
	switch k {
	case yaml.MappingNode:
		return "mapping"
	case yaml.SequenceNode:
		return "sequence"
	case yaml.AliasNode:
		return "alias"
	default:
		return "scalar"
	}
}
