package nccl

import (
	"strings"
	"unicode/utf8"
)

// scanner turns source text into tokens on demand. Tokens are buffered for
// lookahead and never rescanned. The first error is sticky.
type scanner struct {
	src string
	pos int

	line      int
	lineStart int  // offset of the first byte of the current line
	bol       bool // at the beginning of a logical line

	buf []Token
	err error
}

func newScanner(src string) *scanner {
	return &scanner{
		src:  src,
		line: 1,
		bol:  true,
	}
}

// Peek returns the k-th unconsumed token, scanning ahead as needed.
func (s *scanner) Peek(k int) (Token, error) {
	for len(s.buf) <= k {
		if s.err != nil {
			return Token{}, s.err
		}

		tok, err := s.scan()
		if err != nil {
			s.err = err
			return Token{}, err
		}
		s.buf = append(s.buf, tok)
	}
	return s.buf[k], nil
}

// Next consumes and returns the next token. Once the end of input is
// reached every call returns an EOF token.
func (s *scanner) Next() (Token, error) {
	tok, err := s.Peek(0)
	if err != nil {
		return Token{}, err
	}
	s.buf = s.buf[1:]
	return tok, nil
}

func (s *scanner) span(pos int) Span {
	return Span{
		Line:   s.line,
		Column: pos - s.lineStart + 1,
	}
}

// newline records that s.pos is the first byte of a new line.
func (s *scanner) newline() {
	s.line++
	s.lineStart = s.pos
}

func (s *scanner) scan() (Token, error) {
	for {
		if s.pos >= len(s.src) {
			return Token{Kind: TokenEOF, Span: s.span(s.pos)}, nil
		}

		if s.bol {
			// Blank and comment-only lines carry no tokens, so they never
			// take part in indentation tracking.
			if s.blankLine() {
				s.skipLine()
				continue
			}

			s.bol = false

			if c := s.src[s.pos]; c == '\t' || c == ' ' {
				return s.indent(c), nil
			}
		}

		if c := s.src[s.pos]; c == '"' || c == '\'' {
			return s.quoted()
		}
		return s.value(), nil
	}
}

// blankLine reports whether the rest of the current line is whitespace or a
// comment.
func (s *scanner) blankLine() bool {
	i := s.pos

	for i < len(s.src) && (s.src[i] == ' ' || s.src[i] == '\t' || s.src[i] == '\r') {
		i++
	}
	return i >= len(s.src) || s.src[i] == '\n' || s.src[i] == '#'
}

// skipLine discards everything up to and including the next line feed.
func (s *scanner) skipLine() {
	i := strings.IndexByte(s.src[s.pos:], '\n')

	if i < 0 {
		s.pos = len(s.src)
		return
	}

	s.pos += i + 1
	s.newline()
	s.bol = true
}

func (s *scanner) indent(c byte) Token {
	start := s.pos

	for s.pos < len(s.src) && s.src[s.pos] == c {
		s.pos++
	}

	kind := TokenSpaces
	if c == '\t' {
		kind = TokenTabs
	}

	return Token{
		Kind:   kind,
		Lexeme: s.src[start:s.pos],
		Span:   s.span(start),
	}
}

// value scans the rest of the line verbatim. A '#' inside an unquoted value
// is part of the value.
func (s *scanner) value() Token {
	start := s.pos
	end := len(s.src)

	if i := strings.IndexByte(s.src[start:], '\n'); i >= 0 {
		end = start + i
	}

	tok := Token{
		Kind:   TokenValue,
		Lexeme: strings.TrimSuffix(s.src[start:end], "\r"),
		Span:   s.span(start),
	}

	s.pos = end

	if s.pos < len(s.src) {
		s.pos++
		s.newline()
		s.bol = true
	}
	return tok
}

// quoted scans a quoted value. The lexeme is the raw text between the
// quotes with escapes left undecoded.
func (s *scanner) quoted() (Token, error) {
	q := s.src[s.pos]
	open := s.span(s.pos)

	s.pos++
	start := s.pos

	for {
		if s.pos >= len(s.src) {
			return Token{}, &UnterminatedStringError{Line: open.Line}
		}

		switch c := s.src[s.pos]; c {
		case q:
			tok := Token{
				Kind:   TokenQuotedValue,
				Quote:  quoteKindOf(q),
				Lexeme: s.src[start:s.pos],
				Span:   open,
			}

			s.pos++

			if err := s.trailing(); err != nil {
				return Token{}, err
			}
			return tok, nil
		case '\\':
			if err := s.escape(q, open.Line); err != nil {
				return Token{}, err
			}
		case '\n':
			s.pos++
			s.newline()
		default:
			s.pos++
		}
	}
}

// escape validates the escape sequence at s.pos and steps over it.
func (s *scanner) escape(q byte, openLine int) error {
	if s.pos+1 >= len(s.src) {
		return &UnterminatedStringError{Line: openLine}
	}

	switch e := s.src[s.pos+1]; e {
	case 'n', 'r', '\\', q:
		s.pos += 2
	case '\n':
		s.pos += 2
		s.newline()
		s.skipHorizontal()
	case '\r':
		s.pos += 2

		if s.pos < len(s.src) && s.src[s.pos] == '\n' {
			s.pos++
			s.newline()
		}
		s.skipHorizontal()
	default:
		r, _ := utf8.DecodeRuneInString(s.src[s.pos+1:])

		return &ScanUnknownEscapeError{
			Line:   s.line,
			Column: s.pos - s.lineStart + 1,
			Escape: r,
		}
	}
	return nil
}

func (s *scanner) skipHorizontal() {
	for s.pos < len(s.src) && (s.src[s.pos] == ' ' || s.src[s.pos] == '\t') {
		s.pos++
	}
}

// trailing checks that only whitespace or a comment follows a closing quote,
// and moves to the start of the next line.
func (s *scanner) trailing() error {
	s.skipHorizontal()

	if s.pos >= len(s.src) {
		return nil
	}

	switch s.src[s.pos] {
	case '#':
		s.skipLine()
		return nil
	case '\r':
		if s.pos+1 < len(s.src) && s.src[s.pos+1] == '\n' {
			s.pos++
			s.skipLine()
			return nil
		}
		if s.pos+1 == len(s.src) {
			s.pos++
			return nil
		}
	case '\n':
		s.skipLine()
		return nil
	}
	return &TrailingCharactersError{Line: s.line}
}
