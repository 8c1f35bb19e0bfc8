package nccl

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// ParseQuoted returns the node's text with escape sequences resolved if the
// node was quoted, and its key unchanged otherwise.
//
// The escapes are \n, \r, \\, the node's own quote character, and a
// backslash at the end of a line, which joins the next line onto this one
// and drops the spaces and tabs that start it.
func (c *Config) ParseQuoted() (string, error) {
	if c.quote == QuoteNone {
		return c.key, nil
	}
	return unescape(c.key, c.quote.Char())
}

func unescape(raw string, q byte) (string, error) {
	if strings.IndexByte(raw, '\\') < 0 {
		return raw, checkEncoding(raw)
	}

	var b strings.Builder
	b.Grow(len(raw))

	for i := 0; i < len(raw); i++ {
		c := raw[i]

		if c != '\\' {
			b.WriteByte(c)
			continue
		}

		i++

		if i >= len(raw) {
			return "", &ParseUnknownEscapeError{}
		}

		switch e := raw[i]; e {
		case 'n':
			b.WriteByte('\n')
		case 'r':
			b.WriteByte('\r')
		case '\\', q:
			b.WriteByte(e)
		case '\r', '\n':
			if e == '\r' && i+1 < len(raw) && raw[i+1] == '\n' {
				i++
			}
			for i+1 < len(raw) && (raw[i+1] == ' ' || raw[i+1] == '\t') {
				i++
			}
		default:
			r, _ := utf8.DecodeRuneInString(raw[i:])
			return "", &ParseUnknownEscapeError{Escape: r}
		}
	}

	s := b.String()
	return s, checkEncoding(s)
}

func checkEncoding(s string) error {
	if utf8.ValidString(s) {
		return nil
	}

	for i := 0; i < len(s); {
		r, w := utf8.DecodeRuneInString(s[i:])

		if r == utf8.RuneError && w == 1 {
			return &InvalidEncodingError{
				Cause: fmt.Errorf("invalid UTF-8 sequence at byte %d", i),
			}
		}
		i += w
	}
	return nil
}
