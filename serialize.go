package nccl

import (
	"strings"
)

// PrettyPrint serializes the tree below c with one tab per level. Quoted
// keys are written between their original quote characters exactly as they
// were scanned, so escapes are reproduced rather than re-encoded. For a node
// other than the root the node itself is the first line.
func (c *Config) PrettyPrint() string {
	var b strings.Builder

	if c.IsRoot() {
		for _, child := range c.children {
			writeNode(&b, child, 0)
		}
		return b.String()
	}

	writeNode(&b, c, 0)
	return b.String()
}

// String returns PrettyPrint.
func (c *Config) String() string {
	return c.PrettyPrint()
}

// writeNode writes a node and its children at the given depth.
func writeNode(b *strings.Builder, n *Config, depth int) {
	b.WriteString(strings.Repeat("\t", depth))

	if q := n.quote.Char(); q != 0 {
		b.WriteByte(q)
		b.WriteString(n.key)
		b.WriteByte(q)
	} else {
		b.WriteString(n.key)
	}
	b.WriteString("\n")

	for _, child := range n.children {
		writeNode(b, child, depth+1)
	}
}
