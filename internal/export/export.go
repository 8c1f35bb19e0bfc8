// Package export converts parsed nccl trees into plain Go values and encodes
// them as JSON, YAML, or TOML.
package export

import (
	"github.com/shcv/nccl"
)

// text returns the node's text with quoting resolved.
func text(n *nccl.Config) (string, error) {
	return n.ParseQuoted()
}

// isLeaf reports whether n has no children.
func isLeaf(n *nccl.Config) bool {
	return n.Len() == 0
}

// allChildrenLeaves returns true if every child of n has no children.
func allChildrenLeaves(n *nccl.Config) bool {
	for _, child := range n.Children() {
		if !isLeaf(child) {
			return false
		}
	}
	return true
}

// ToMap converts the children of c to a categorical map[string]any.
// Every leaf becomes an empty map[string]any{}.
func ToMap(c *nccl.Config) (map[string]any, error) {
	children := c.Children()
	result := make(map[string]any, len(children))

	for _, child := range children {
		key, err := text(child)
		if err != nil {
			return nil, err
		}

		if isLeaf(child) {
			result[key] = map[string]any{}
			continue
		}

		m, err := ToMap(child)
		if err != nil {
			return nil, err
		}
		result[key] = m
	}
	return result, nil
}

// Compact converts the children of c to a user-friendly form.
//
// Compaction rules (applied recursively):
//  1. No children -> map[string]any{}
//  2. All children are leaves, 1 child -> string (its text)
//  3. All children are leaves, N>1 children -> []string (insertion order)
//  4. Otherwise -> map[string]any, recurse into each child
func Compact(c *nccl.Config) (any, error) {
	if isLeaf(c) {
		return map[string]any{}, nil
	}

	children := c.Children()

	if allChildrenLeaves(c) {
		values := make([]string, len(children))

		for i, child := range children {
			s, err := text(child)
			if err != nil {
				return nil, err
			}
			values[i] = s
		}

		if len(values) == 1 {
			return values[0], nil
		}
		return values, nil
	}

	result := make(map[string]any, len(children))

	for _, child := range children {
		key, err := text(child)
		if err != nil {
			return nil, err
		}

		v, err := Compact(child)
		if err != nil {
			return nil, err
		}
		result[key] = v
	}
	return result, nil
}
