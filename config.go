package nccl

// RootKey is the key of the root node of every parsed tree. It contains a
// line feed next to both quote characters, which no token can produce.
const RootKey = "\n\"'root'\"\n"

// Config is one node of a parsed configuration: a key and its ordered
// children. There is no distinction between keys and values, a leaf's key
// is its value.
//
// Children are unique by key and kept in insertion order. The order matters:
// Value returns the first child, and when one configuration is parsed on top
// of another the earlier tree's values come first.
type Config struct {
	key   string
	quote QuoteKind
	span  Span

	children []*Config
	index    map[string]int // key -> position in children
}

// New returns a root node with no children.
func New() *Config {
	return newConfig(RootKey, QuoteNone, Span{})
}

func newConfig(key string, quote QuoteKind, span Span) *Config {
	return &Config{
		key:   key,
		quote: quote,
		span:  span,
		index: map[string]int{},
	}
}

// NewNode returns a detached node for the given key, for building trees by
// hand. The key of a quoted node is its raw text without the quotes.
func NewNode(key string, quote QuoteKind) *Config {
	return newConfig(key, quote, Span{})
}

// Key returns the node's own text. For a quoted node this is the raw text
// between the quotes, see ParseQuoted.
func (c *Config) Key() string { return c.key }

// Quote returns the quote character the node was written with.
func (c *Config) Quote() QuoteKind { return c.quote }

// Span returns the position of the token the node was first created from.
func (c *Config) Span() Span { return c.span }

// IsRoot reports whether c is the root of a parsed tree.
func (c *Config) IsRoot() bool { return c.key == RootKey }

// Len returns the number of immediate children.
func (c *Config) Len() int { return len(c.children) }

// HasValue reports whether an immediate child has exactly the given key.
func (c *Config) HasValue(key string) bool {
	_, ok := c.index[key]
	return ok
}

// Children returns the immediate children in insertion order.
func (c *Config) Children() []*Config {
	children := make([]*Config, len(c.children))
	copy(children, c.children)
	return children
}

// Child returns the first child, or nil for a leaf.
func (c *Config) Child() *Config {
	if len(c.children) == 0 {
		return nil
	}
	return c.children[0]
}

// Values returns the keys of the immediate children in insertion order.
func (c *Config) Values() []string {
	values := make([]string, len(c.children))
	for i, child := range c.children {
		values[i] = child.key
	}
	return values
}

// Value returns the key of the first child. The boolean is false for a leaf.
func (c *Config) Value() (string, bool) {
	if len(c.children) == 0 {
		return "", false
	}
	return c.children[0].key, true
}

// Get returns the immediate child with the given key.
func (c *Config) Get(key string) (*Config, error) {
	child := c.lookup(key)

	if child == nil {
		return nil, &KeyNotFoundError{Key: key}
	}
	return child, nil
}

// At follows a path of keys from c, one level per key.
func (c *Config) At(keys ...string) (*Config, error) {
	n := c

	for _, key := range keys {
		child, err := n.Get(key)
		if err != nil {
			return nil, err
		}
		n = child
	}
	return n, nil
}

func (c *Config) lookup(key string) *Config {
	if i, ok := c.index[key]; ok {
		return c.children[i]
	}
	return nil
}

// AddChild inserts child under c. If c already has a child with the same
// key, child's own children are merged into that existing node instead,
// recursively, so nothing already present is shadowed or dropped.
func (c *Config) AddChild(child *Config) {
	existing := c.lookup(child.key)

	if existing == nil {
		if c.index == nil {
			c.index = map[string]int{}
		}
		c.index[child.key] = len(c.children)
		c.children = append(c.children, child)
		return
	}

	for _, grandchild := range child.children {
		existing.AddChild(grandchild)
	}
}

// Clone returns a deep copy of c. Keys are shared, they are immutable.
func (c *Config) Clone() *Config {
	clone := &Config{
		key:      c.key,
		quote:    c.quote,
		span:     c.span,
		children: make([]*Config, len(c.children)),
		index:    make(map[string]int, len(c.children)),
	}

	for i, child := range c.children {
		clone.children[i] = child.Clone()
		clone.index[child.key] = i
	}
	return clone
}

// Equal reports whether c and other have the same keys, quote kinds, and
// children in the same order. Spans are not compared.
func (c *Config) Equal(other *Config) bool {
	if c == nil || other == nil {
		return c == other
	}

	if c.key != other.key || c.quote != other.quote || len(c.children) != len(other.children) {
		return false
	}

	for i := range c.children {
		if !c.children[i].Equal(other.children[i]) {
			return false
		}
	}
	return true
}

// Walk visits every node below c depth first, in insertion order. Returning
// false from fn skips the node's children.
func (c *Config) Walk(fn func(n *Config, depth int) bool) {
	c.walk(fn, 0)
}

func (c *Config) walk(fn func(*Config, int) bool, depth int) {
	for _, child := range c.children {
		if fn(child, depth) {
			child.walk(fn, depth+1)
		}
	}
}
