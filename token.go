package nccl

import "fmt"

// TokenKind identifies the lexical class of a Token.
type TokenKind int

const (
	TokenEOF         TokenKind = iota
	TokenValue                 // Unquoted content running to end of line.
	TokenQuotedValue           // Raw text between a pair of quotes.
	TokenTabs                  // Leading run of tab characters.
	TokenSpaces                // Leading run of space characters.
)

func (k TokenKind) String() string {
	switch k {
	case TokenEOF:
		return "eof"
	case TokenValue:
		return "value"
	case TokenQuotedValue:
		return "quoted value"
	case TokenTabs:
		return "tabs"
	case TokenSpaces:
		return "spaces"
	default:
		return fmt.Sprintf("TokenKind(%d)", int(k))
	}
}

// isIndent reports whether the kind is one of the indentation kinds.
func (k TokenKind) isIndent() bool {
	return k == TokenTabs || k == TokenSpaces
}

// QuoteKind records which quote character wrapped a value, if any.
type QuoteKind int

const (
	QuoteNone QuoteKind = iota
	QuoteSingle
	QuoteDouble
)

// quoteKindOf maps a quote character to its QuoteKind.
func quoteKindOf(c byte) QuoteKind {
	switch c {
	case '\'':
		return QuoteSingle
	case '"':
		return QuoteDouble
	}
	return QuoteNone
}

// Char returns the quote character, or 0 for QuoteNone.
func (q QuoteKind) Char() byte {
	switch q {
	case QuoteSingle:
		return '\''
	case QuoteDouble:
		return '"'
	}
	return 0
}

func (q QuoteKind) String() string {
	switch q {
	case QuoteNone:
		return "none"
	case QuoteSingle:
		return "single"
	case QuoteDouble:
		return "double"
	default:
		return fmt.Sprintf("QuoteKind(%d)", int(q))
	}
}

// Span is the 1-based source position of a token. Column is a byte offset
// within the line.
type Span struct {
	Line   int
	Column int
}

func (s Span) String() string {
	return fmt.Sprintf("%d:%d", s.Line, s.Column)
}

// Token is a single lexical unit produced by the scanner. Lexeme is a
// substring of the scanned text and is never copied.
type Token struct {
	Kind   TokenKind
	Quote  QuoteKind
	Lexeme string
	Span   Span
}

// Count returns the width of an indentation token. It is zero for every
// other kind.
func (t Token) Count() int {
	if !t.Kind.isIndent() {
		return 0
	}
	return len(t.Lexeme)
}

func (t Token) String() string {
	switch t.Kind {
	case TokenTabs, TokenSpaces:
		return fmt.Sprintf("%s(%d)", t.Kind, t.Count())
	case TokenValue, TokenQuotedValue:
		return fmt.Sprintf("%s(%q)", t.Kind, t.Lexeme)
	default:
		return t.Kind.String()
	}
}
