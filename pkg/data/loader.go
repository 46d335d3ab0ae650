package data

import (
	"bytes"
	"fmt"
	"io"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"
)

// Load decodes a JSON or YAML document. Mappings become *Object values so the
// key order of the source survives, sequences become []any and scalars keep
// their YAML type (string, int, float64, bool or nil).
func Load(r io.Reader) (any, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("data: read: %w", err)
	}
	return parseDocument(raw, "input")
}

// LoadFile reads and decodes the data file at path.
func LoadFile(path string) (any, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("data: read %s: %w", path, err)
	}
	return parseDocument(raw, path)
}

// LoadFS reads and decodes path from fsys.
func LoadFS(fsys fs.FS, path string) (any, error) {
	if fsys == nil {
		return nil, fmt.Errorf("data: filesystem is required")
	}
	raw, err := fs.ReadFile(fsys, path)
	if err != nil {
		return nil, fmt.Errorf("data: read %s: %w", path, err)
	}
	return parseDocument(raw, path)
}

func parseDocument(raw []byte, source string) (any, error) {
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, fmt.Errorf("data: file %s is empty", source)
	}

	// JSON documents are valid YAML, so one decoder serves both.
	var doc yaml.Node
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("data: parse %s: invalid JSON or YAML: %w", source, err)
	}
	value, err := convertNode(&doc)
	if err != nil {
		return nil, fmt.Errorf("data: parse %s: %w", source, err)
	}
	return value, nil
}

func convertNode(node *yaml.Node) (any, error) {
	switch node.Kind {
	case yaml.DocumentNode:
		if len(node.Content) == 0 {
			return nil, nil
		}
		return convertNode(node.Content[0])
	case yaml.AliasNode:
		if node.Alias == nil {
			return nil, nil
		}
		return convertNode(node.Alias)
	case yaml.MappingNode:
		obj := NewObject()
		for i := 0; i+1 < len(node.Content); i += 2 {
			keyNode, valueNode := node.Content[i], node.Content[i+1]
			if keyNode.Kind != yaml.ScalarNode {
				return nil, fmt.Errorf("line %d: mapping keys must be scalars", keyNode.Line)
			}
			value, err := convertNode(valueNode)
			if err != nil {
				return nil, err
			}
			obj.Set(keyNode.Value, value)
		}
		return obj, nil
	case yaml.SequenceNode:
		out := make([]any, 0, len(node.Content))
		for _, item := range node.Content {
			value, err := convertNode(item)
			if err != nil {
				return nil, err
			}
			out = append(out, value)
		}
		return out, nil
	case yaml.ScalarNode:
		var value any
		if err := node.Decode(&value); err != nil {
			return nil, fmt.Errorf("line %d: %w", node.Line, err)
		}
		return value, nil
	default:
		return nil, fmt.Errorf("line %d: unsupported node kind %d", node.Line, node.Kind)
	}
}
