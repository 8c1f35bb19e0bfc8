package nccl

import "fmt"

// UnexpectedTokenError is returned when the parser requires one kind of
// token and the scanner produced another.
type UnexpectedTokenError struct {
	Span     Span
	Expected string
	Got      Token
}

func (e *UnexpectedTokenError) Error() string {
	return fmt.Sprintf("line %d, column %d: expected %s, got %s", e.Span.Line, e.Span.Column, e.Expected, e.Got)
}

// UnterminatedStringError is returned when a quoted value is still open at
// the end of input. Line is the line of the opening quote.
type UnterminatedStringError struct {
	Line int
}

func (e *UnterminatedStringError) Error() string {
	return fmt.Sprintf("line %d: unterminated string", e.Line)
}

// TrailingCharactersError is returned when something other than whitespace
// or a comment follows a closing quote.
type TrailingCharactersError struct {
	Line int
}

func (e *TrailingCharactersError) Error() string {
	return fmt.Sprintf("line %d: trailing characters after closing quote", e.Line)
}

// ScanUnknownEscapeError is returned when a quoted value contains an escape
// sequence outside the escape alphabet.
type ScanUnknownEscapeError struct {
	Line   int
	Column int
	Escape rune
}

func (e *ScanUnknownEscapeError) Error() string {
	return fmt.Sprintf("line %d, column %d: unknown escape sequence \\%c", e.Line, e.Column, e.Escape)
}

// ParseUnknownEscapeError is returned by Config.ParseQuoted for an escape
// sequence outside the escape alphabet.
type ParseUnknownEscapeError struct {
	Escape rune
}

func (e *ParseUnknownEscapeError) Error() string {
	return fmt.Sprintf("unknown escape sequence \\%c", e.Escape)
}

// InvalidEncodingError is returned when decoded quoted content is not valid
// UTF-8.
type InvalidEncodingError struct {
	Cause error
}

func (e *InvalidEncodingError) Error() string {
	return "invalid encoding: " + e.Cause.Error()
}

func (e *InvalidEncodingError) Unwrap() error {
	return e.Cause
}

// KeyNotFoundError is returned by Config.Get when no immediate child has the
// requested key.
type KeyNotFoundError struct {
	Key string
}

func (e *KeyNotFoundError) Error() string {
	return fmt.Sprintf("key not found: %q", e.Key)
}
