// Package nccl implements the nccl configuration format.
//
// nccl is a typeless, indentation based format. Every line holds one key and
// keys indented beneath it are its children:
//
//	server
//	    domain
//	        example.com
//	        www.example.com
//	    root
//	        /var/www/html
//
// There are no data types. A leaf is just a key with no children, and the
// "value" of a key is the key of its first child, so Value on server/root
// above returns "/var/www/html". Interpreting text as numbers or booleans is
// left to callers.
//
// Children may be indented with tabs or with spaces. The style, and for
// spaces the width, is inferred per top level key from its first indented
// child. A '#' starts a comment only on an otherwise blank line or after a
// closing quote; in an unquoted key it is literal text. Keys may be single
// or double quoted to hold escapes (\n, \r, \\, the quote character, and a
// trailing backslash to continue onto the next line), see
// Config.ParseQuoted.
//
// Repeating a key merges into the existing one, and ParseWith uses the same
// rule to layer one file over another:
//
//	user, _ := nccl.Parse(userText)
//	cfg, _ := nccl.ParseWith(user, defaultText)
//
// Every key the user declared keeps its values first, defaults are appended
// after them, and keys only present in the defaults are added.
//
// A parsed tree holds substrings of the text it was parsed from and is never
// modified by this package after it is returned, so it may be read from
// multiple goroutines.
package nccl

// Parse parses text into a new tree rooted at RootKey. Parsing stops at the
// first error and no tree is returned.
func Parse(text string) (*Config, error) {
	return parseInto(New(), text)
}

// ParseBytes is Parse for a byte slice. The bytes are copied once.
func ParseBytes(b []byte) (*Config, error) {
	return Parse(string(b))
}

// ParseWith parses text on top of a copy of seed. Keys already in seed are
// extended with the new values after their existing ones, new keys are
// appended. seed itself is not modified; a nil seed is the same as Parse.
func ParseWith(seed *Config, text string) (*Config, error) {
	if seed == nil {
		return Parse(text)
	}
	return parseInto(seed.Clone(), text)
}
