package nccl

import (
	"strconv"
	"strings"
	"testing"
)

// bigDocument returns a document with fanout children per node, depth levels
// deep, and the number of nodes in it.
func bigDocument(fanout, depth int) (string, int) {
	var b strings.Builder

	var write func(level int) int
	write = func(level int) int {
		if level == depth {
			return 0
		}

		n := 0
		for i := 0; i < fanout; i++ {
			b.WriteString(strings.Repeat("    ", level))
			b.WriteString("key ")
			b.WriteString(strconv.Itoa(i))
			b.WriteString("\n")
			n += 1 + write(level+1)
		}
		return n
	}
	n := write(0)
	return b.String(), n
}

func countNodes(cfg *Config) int {
	n := 0
	cfg.Walk(func(*Config, int) bool {
		n++
		return true
	})
	return n
}

func TestBigDocument(t *testing.T) {
	text, expected := bigDocument(8, 4)
	cfg := mustParse(t, text)

	if n := countNodes(cfg); n != expected {
		t.Errorf("got %d nodes, want %d", n, expected)
	}
}

func BenchmarkParse(b *testing.B) {
	text, _ := bigDocument(16, 4)

	b.SetBytes(int64(len(text)))
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		if _, err := Parse(text); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkParseWith(b *testing.B) {
	text, _ := bigDocument(16, 3)

	seed, err := Parse(text)
	if err != nil {
		b.Fatal(err)
	}

	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		if _, err := ParseWith(seed, text); err != nil {
			b.Fatal(err)
		}
	}
}

func FuzzParse(f *testing.F) {
	seeds := []string{
		"a\n\tb\n",
		"a\n    b\n        c\n",
		"'hello\\\n   world'\n",
		"\"a\\nb\" # comment\n",
		"x # y\n  z\n",
		"'open",
		"\"\\q\"",
	}

	for _, s := range seeds {
		f.Add(s)
	}

	f.Fuzz(func(t *testing.T, text string) {
		cfg, err := Parse(text)
		if err != nil {
			if cfg != nil {
				t.Fatalf("tree returned with error %v", err)
			}
			return
		}

		cfg.Walk(func(n *Config, _ int) bool {
			_, _ = n.ParseQuoted()
			return true
		})
	})
}

// printable reports whether every key below cfg survives PrettyPrint. A key
// that starts with a tab, or still ends in a carriage return after the one
// the scanner trims, is rewritten by printing.
func printable(cfg *Config) bool {
	ok := true

	cfg.Walk(func(n *Config, _ int) bool {
		if n.quote == QuoteNone && (strings.HasPrefix(n.key, "\t") || strings.HasSuffix(n.key, "\r")) {
			ok = false
		}
		return ok
	})
	return ok
}

func FuzzRoundTrip(f *testing.F) {
	seeds := []string{
		"a\n\tb\n",
		"a\n    b\n        c\n",
		"'hello\\\n   world'\n",
		"x # y\n  z\n",
		"r\n\ta\nr\n\tb\n",
		"0\n \t0",
		"0\r\r",
	}

	for _, s := range seeds {
		f.Add(s)
	}

	f.Fuzz(func(t *testing.T, text string) {
		cfg, err := Parse(text)
		if err != nil || !printable(cfg) {
			return
		}

		out := cfg.PrettyPrint()

		again, err := Parse(out)
		if err != nil {
			t.Fatalf("reparse of %q: %v", out, err)
		}

		if !again.Equal(cfg) {
			t.Fatalf("round trip of %q changed the tree:\n%s", text, again)
		}
	})
}
