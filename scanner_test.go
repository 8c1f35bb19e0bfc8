package nccl

import (
	"errors"
	"testing"
)

func scanAll(t *testing.T, src string) []Token {
	t.Helper()

	sc := newScanner(src)
	toks := make([]Token, 0)

	for {
		tok, err := sc.Next()
		if err != nil {
			t.Fatalf("scan error: %v", err)
		}
		toks = append(toks, tok)

		if tok.Kind == TokenEOF {
			return toks
		}
	}
}

func TestScannerTokens(t *testing.T) {
	src := "a\n\tb # not a comment\n# comment\n    \n  'q'   # comment\n"

	expected := []Token{
		{Kind: TokenValue, Lexeme: "a", Span: Span{1, 1}},
		{Kind: TokenTabs, Lexeme: "\t", Span: Span{2, 1}},
		{Kind: TokenValue, Lexeme: "b # not a comment", Span: Span{2, 2}},
		{Kind: TokenSpaces, Lexeme: "  ", Span: Span{5, 1}},
		{Kind: TokenQuotedValue, Quote: QuoteSingle, Lexeme: "q", Span: Span{5, 3}},
		{Kind: TokenEOF, Span: Span{6, 1}},
	}

	toks := scanAll(t, src)

	if len(toks) != len(expected) {
		t.Fatalf("unexpected token count, got %d, want %d: %v", len(toks), len(expected), toks)
	}

	for i, tok := range toks {
		if tok != expected[i] {
			t.Errorf("token %d: got %v at %s, want %v at %s", i, tok, tok.Span, expected[i], expected[i].Span)
		}
	}
}

func TestScannerIndentCount(t *testing.T) {
	toks := scanAll(t, "a\n\t\t\tb\n      c\n")

	if n := toks[1].Count(); toks[1].Kind != TokenTabs || n != 3 {
		t.Errorf("got %v, want tabs(3)", toks[1])
	}
	if n := toks[3].Count(); toks[3].Kind != TokenSpaces || n != 6 {
		t.Errorf("got %v, want spaces(6)", toks[3])
	}
	if n := toks[0].Count(); n != 0 {
		t.Errorf("value count: got %d, want 0", n)
	}
}

func TestScannerPeek(t *testing.T) {
	sc := newScanner("a\n\tb\n")

	third, err := sc.Peek(2)
	if err != nil {
		t.Fatalf("peek error: %v", err)
	}
	if third.Lexeme != "b" {
		t.Errorf("peek(2): got %v, want value(\"b\")", third)
	}

	for i := 0; i < 2; i++ {
		tok, err := sc.Peek(0)
		if err != nil {
			t.Fatalf("peek error: %v", err)
		}
		if tok.Lexeme != "a" {
			t.Errorf("peek(0): got %v, want value(\"a\")", tok)
		}
	}

	tok, err := sc.Next()
	if err != nil {
		t.Fatalf("next error: %v", err)
	}
	if tok.Lexeme != "a" {
		t.Errorf("next: got %v, want value(\"a\")", tok)
	}

	tok, _ = sc.Peek(0)
	if tok.Kind != TokenTabs {
		t.Errorf("peek after next: got %v, want tabs(1)", tok)
	}
}

func TestScannerEOFRepeats(t *testing.T) {
	sc := newScanner("a")

	if _, err := sc.Next(); err != nil {
		t.Fatalf("next error: %v", err)
	}

	for i := 0; i < 3; i++ {
		tok, err := sc.Next()
		if err != nil {
			t.Fatalf("next error: %v", err)
		}
		if tok.Kind != TokenEOF {
			t.Errorf("call %d: got %v, want eof", i, tok)
		}
	}
}

func TestScannerQuotedMultiline(t *testing.T) {
	toks := scanAll(t, "'a\nb'\nc\n")

	if toks[0].Kind != TokenQuotedValue || toks[0].Lexeme != "a\nb" {
		t.Errorf("got %v, want quoted value(\"a\\nb\")", toks[0])
	}
	if toks[1].Lexeme != "c" || toks[1].Span != (Span{3, 1}) {
		t.Errorf("got %v at %s, want value(\"c\") at 3:1", toks[1], toks[1].Span)
	}
}

func TestScannerContinuation(t *testing.T) {
	toks := scanAll(t, "'hello\\\n   world'\nnext\n")

	if toks[0].Lexeme != "hello\\\n   world" {
		t.Errorf("got %q, want raw continuation", toks[0].Lexeme)
	}
	if toks[1].Span.Line != 3 {
		t.Errorf("line after continuation: got %d, want 3", toks[1].Span.Line)
	}
}

func TestScannerEscapes(t *testing.T) {
	toks := scanAll(t, `"a\nb\r\\ \"q\""` + "\n" + `'it\'s'`)

	if toks[0].Lexeme != `a\nb\r\\ \"q\"` {
		t.Errorf("got %q, escapes must stay undecoded", toks[0].Lexeme)
	}
	if toks[1].Quote != QuoteSingle || toks[1].Lexeme != `it\'s` {
		t.Errorf("got %v, want quoted value(%q)", toks[1], `it\'s`)
	}
}

func TestScannerCRLF(t *testing.T) {
	toks := scanAll(t, "a\r\n\tb\r\n\t'c'\r\n")

	expected := []string{"a", "\t", "b", "\t", "c", ""}

	for i, lexeme := range expected {
		if toks[i].Lexeme != lexeme {
			t.Errorf("token %d: got %q, want %q", i, toks[i].Lexeme, lexeme)
		}
	}
}

func TestScannerErrors(t *testing.T) {
	t.Run("unterminated", func(t *testing.T) {
		_, err := newScanner("a\n\t\"abc\n\n").Peek(2)

		var target *UnterminatedStringError
		if !errors.As(err, &target) {
			t.Fatalf("got %v, want UnterminatedStringError", err)
		}
		if target.Line != 2 {
			t.Errorf("line: got %d, want 2", target.Line)
		}
	})

	t.Run("unterminated escape", func(t *testing.T) {
		_, err := newScanner(`'abc\`).Next()

		var target *UnterminatedStringError
		if !errors.As(err, &target) {
			t.Fatalf("got %v, want UnterminatedStringError", err)
		}
	})

	t.Run("unknown escape", func(t *testing.T) {
		_, err := newScanner("x\n'abc\\q'").Peek(1)

		var target *ScanUnknownEscapeError
		if !errors.As(err, &target) {
			t.Fatalf("got %v, want ScanUnknownEscapeError", err)
		}
		if target.Line != 2 || target.Column != 5 || target.Escape != 'q' {
			t.Errorf("got %d:%d %q, want 2:5 'q'", target.Line, target.Column, target.Escape)
		}
	})

	t.Run("other quote escaped", func(t *testing.T) {
		_, err := newScanner(`'a\"b'`).Next()

		var target *ScanUnknownEscapeError
		if !errors.As(err, &target) {
			t.Fatalf("got %v, want ScanUnknownEscapeError", err)
		}
		if target.Escape != '"' {
			t.Errorf("escape: got %q, want '\"'", target.Escape)
		}
	})

	t.Run("trailing characters", func(t *testing.T) {
		_, err := newScanner("a\n\t\"b\" c\n").Peek(2)

		var target *TrailingCharactersError
		if !errors.As(err, &target) {
			t.Fatalf("got %v, want TrailingCharactersError", err)
		}
		if target.Line != 2 {
			t.Errorf("line: got %d, want 2", target.Line)
		}
	})

	t.Run("sticky", func(t *testing.T) {
		sc := newScanner(`"open`)

		_, first := sc.Next()
		_, second := sc.Peek(0)

		if first == nil || first != second {
			t.Errorf("got %v then %v, want the same error twice", first, second)
		}
	})
}
