package todo

import (
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

// RootKey is the single top-level key of a todo document.
const RootKey = "todo_list"

// Node returns the item as a YAML mapping node. Keys are emitted in a stable
// order so saved files diff cleanly.
func (it *Item) Node() *yaml.Node {
	node := mappingNode()
	for _, key := range it.Keys() {
		node.Content = append(node.Content, strNode(key), strNode(it.value(key)))
	}
	return node
}

// MarshalYAML implements yaml.Marshaler.
func (it *Item) MarshalYAML() (any, error) {
	return it.Node(), nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (it *Item) UnmarshalYAML(node *yaml.Node) error {
	parsed, err := ParseItem(node)
	if err != nil {
		return err
	}
	*it = *parsed
	return nil
}

// ParseItem builds an item from a decoded mapping node. The node must carry a
// known "type" and every key that kind requires. Absent status, reason and
// info keys get their defaults.
func ParseItem(node *yaml.Node) (*Item, error) {
	return parseItem(node, "")
}

func parseItem(node *yaml.Node, path string) (*Item, error) {
	node = resolve(node)
	if node == nil || node.Kind != yaml.MappingNode {
		return nil, &ParseError{Path: path, Line: lineOf(node), Err: fmt.Errorf("expected a mapping, got %s", kindName(node))}
	}

	fields := make(map[string]string, len(node.Content)/2)
	order := make([]string, 0, len(node.Content)/2)

	for i := 0; i+1 < len(node.Content); i += 2 {
		keyNode, valueNode := resolve(node.Content[i]), resolve(node.Content[i+1])
		if keyNode == nil || keyNode.Kind != yaml.ScalarNode {
			return nil, &ParseError{Path: path, Line: lineOf(keyNode), Err: errors.New("keys must be strings")}
		}

		key := keyNode.Value
		value, err := scalarValue(valueNode)
		if err != nil {
			return nil, &ParseError{Path: joinPath(path, key), Line: lineOf(valueNode), Err: err}
		}

		if _, seen := fields[key]; !seen {
			order = append(order, key)
		}
		fields[key] = value
	}

	typeName, ok := fields[FieldType]
	if !ok {
		return nil, &ValidationError{Missing: []string{FieldType}, Err: errors.New("missing type")}
	}

	k, err := ParseKind(typeName)
	if err != nil {
		return nil, err
	}

	item := newDefaultItem(k)
	for _, key := range order {
		if key == FieldType {
			continue
		}
		item.set(key, fields[key])
	}

	if err := item.Validate(); err != nil {
		return nil, err
	}
	return item, nil
}

// Node returns the list as a YAML mapping with a single todo_list key. GUIDs
// are emitted in sorted order.
func (l *List) Node() *yaml.Node {
	items := mappingNode()
	for _, e := range l.Entries() {
		items.Content = append(items.Content, strNode(e.GUID), e.Item.Node())
	}

	root := mappingNode()
	root.Content = append(root.Content, strNode(RootKey), items)
	return root
}

// MarshalYAML implements yaml.Marshaler.
func (l *List) MarshalYAML() (any, error) {
	return l.Node(), nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (l *List) UnmarshalYAML(node *yaml.Node) error {
	parsed, err := ParseList(node)
	if err != nil {
		return err
	}
	l.items = parsed.items
	return nil
}

// ParseList builds a list from a decoded document. The root must be a mapping
// holding a todo_list mapping; each entry is parsed with ParseItem and a
// failure is reported with its GUID attached.
func ParseList(node *yaml.Node) (*List, error) {
	root := resolve(node)
	if root == nil || root.Kind == 0 {
		return nil, &ParseError{Err: errors.New("empty document")}
	}
	if root.Kind != yaml.MappingNode {
		return nil, &ParseError{Line: root.Line, Err: fmt.Errorf("expected a mapping at the root, got %s", kindName(root))}
	}

	var items *yaml.Node
	for i := 0; i+1 < len(root.Content); i += 2 {
		if k := resolve(root.Content[i]); k != nil && k.Kind == yaml.ScalarNode && k.Value == RootKey {
			items = resolve(root.Content[i+1])
		}
	}

	if items == nil {
		return nil, &ParseError{Path: RootKey, Line: root.Line, Err: fmt.Errorf("missing %s key", RootKey)}
	}

	list := NewList()
	if isNull(items) {
		return list, nil
	}
	if items.Kind != yaml.MappingNode {
		return nil, &ParseError{Path: RootKey, Line: items.Line, Err: fmt.Errorf("expected a mapping, got %s", kindName(items))}
	}

	for i := 0; i+1 < len(items.Content); i += 2 {
		guidNode := resolve(items.Content[i])
		if guidNode == nil || guidNode.Kind != yaml.ScalarNode {
			return nil, &ParseError{Path: RootKey, Line: lineOf(guidNode), Err: errors.New("GUID keys must be strings")}
		}

		guid := guidNode.Value
		item, err := parseItem(items.Content[i+1], joinPath(RootKey, guid))
		if err != nil {
			var verr *ValidationError
			if errors.As(err, &verr) {
				verr.GUID = guid
			}
			return nil, err
		}

		list.Insert(guid, item)
	}

	return list, nil
}

func mappingNode() *yaml.Node {
	return &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
}

func strNode(v string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: v}
}

// resolve unwraps document and alias nodes.
func resolve(node *yaml.Node) *yaml.Node {
	for node != nil {
		switch {
		case node.Kind == yaml.DocumentNode:
			if len(node.Content) == 0 {
				return nil
			}
			node = node.Content[0]
		case node.Kind == yaml.AliasNode && node.Alias != nil:
			node = node.Alias
		default:
			return node
		}
	}
	return nil
}

func isNull(node *yaml.Node) bool {
	return node.Kind == yaml.ScalarNode && node.ShortTag() == "!!null"
}

// scalarValue returns the string form of a scalar. Null becomes "".
func scalarValue(node *yaml.Node) (string, error) {
	if node == nil {
		return "", nil
	}
	if node.Kind != yaml.ScalarNode {
		return "", fmt.Errorf("expected a scalar value, got %s", kindName(node))
	}
	if isNull(node) {
		return "", nil
	}
	return node.Value, nil
}

func kindName(node *yaml.Node) string {
	if node == nil {
		return "nothing"
	}
	switch node.Kind {
	case yaml.DocumentNode:
		return "document"
	case yaml.SequenceNode:
		return "sequence"
	case yaml.MappingNode:
		return "mapping"
	case yaml.ScalarNode:
		if isNull(node) {
			return "null"
		}
		return "scalar"
	case yaml.AliasNode:
		return "alias"
	default:
		return "nothing"
	}
}

func lineOf(node *yaml.Node) int {
	if node == nil {
		return 0
	}
	return node.Line
}

func joinPath(path, key string) string {
	if path == "" {
		return key
	}
	return path + "." + key
}
