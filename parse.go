package nccl

// indentStyle is the indentation a branch has committed to.
type indentStyle int

const (
	indentTop indentStyle = iota
	indentTabs
	indentSpaces
)

// indent describes the indentation expected for the children of a node.
// Each branch infers its own style: the first indented child under a top
// level key fixes tabs, or spaces of a given width, for everything below it.
type indent struct {
	style indentStyle
	width int // spaces per level, indentSpaces only
	level int
}

// matches reports whether tok is exactly the indentation of i.
func (i indent) matches(tok Token) bool {
	switch i.style {
	case indentTabs:
		return tok.Kind == TokenTabs && tok.Count() == i.level
	case indentSpaces:
		return tok.Kind == TokenSpaces && tok.Count() == i.width*i.level
	}
	return false
}

// descend returns the indentation one level below i if tok opens it.
func (i indent) descend(tok Token) (indent, bool) {
	var next indent

	switch {
	case tok.Kind == TokenTabs && (i.style == indentTop || i.style == indentTabs):
		next = indent{style: indentTabs, level: i.level + 1}
	case tok.Kind == TokenSpaces && i.style == indentTop:
		next = indent{style: indentSpaces, width: tok.Count(), level: 1}
	case tok.Kind == TokenSpaces && i.style == indentSpaces:
		next = indent{style: indentSpaces, width: i.width, level: i.level + 1}
	default:
		return indent{}, false
	}
	return next, next.matches(tok)
}

type parser struct {
	sc *scanner
}

// parseInto parses text onto root, which it modifies.
func parseInto(root *Config, text string) (*Config, error) {
	p := parser{
		sc: newScanner(text),
	}

	for {
		tok, err := p.sc.Peek(0)
		if err != nil {
			return nil, err
		}

		if tok.Kind == TokenEOF {
			return root, nil
		}

		if err := p.parse(root, indent{}); err != nil {
			return nil, err
		}
	}
}

// parse reads one key and, recursively, everything indented beneath it.
//
// A key equal to one parent already has extends that child in place rather
// than replacing it; this is how repeated keys accumulate values and how a
// second file layers onto a first. Indentation that is not exactly one level
// deeper in the branch's style ends the node; it is left for an enclosing
// call to claim.
func (p *parser) parse(parent *Config, ind indent) error {
	tok, err := p.sc.Next()
	if err != nil {
		return err
	}

	if tok.Kind != TokenValue && tok.Kind != TokenQuotedValue {
		return &UnexpectedTokenError{
			Span:     tok.Span,
			Expected: "value",
			Got:      tok,
		}
	}

	node := parent.lookup(tok.Lexeme)
	fresh := node == nil

	if fresh {
		node = newConfig(tok.Lexeme, tok.Quote, tok.Span)
	}

	var (
		sub       indent
		committed bool
	)

	for {
		next, err := p.sc.Peek(0)
		if err != nil {
			return err
		}

		if !next.Kind.isIndent() {
			break
		}

		if !committed {
			var ok bool

			if sub, ok = ind.descend(next); !ok {
				break
			}
			committed = true
		} else if !sub.matches(next) {
			break
		}

		if _, err := p.sc.Next(); err != nil {
			return err
		}

		if err := p.parse(node, sub); err != nil {
			return err
		}
	}

	if fresh {
		parent.AddChild(node)
	}
	return nil
}
