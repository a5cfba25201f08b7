// Package ident provides the supporting utilities the output assembler
// (C8) needs to turn a Record's suggested name into a legal, collision-free
// JavaScript identifier (C9): legality checking, a readable sanitizer, and
// a short-first mangler.
package ident

import (
	"strings"
	"unicode"

	"github.com/mna/jsrevive/lang/token"
)

// Mode selects how Assigner.Next turns a suggested name into a final one.
type Mode uint8

const (
	// Readable sanitizes the suggested name, falling back to "v" when the
	// suggestion is empty.
	Readable Mode = iota
	// ShortFirst ignores suggested names and hands out a, b, ..., z, aa, ...
	ShortFirst
	// None keeps every record's original suggested name unless it collides,
	// in which case a numeric suffix is appended (§4 supplemented feature).
	None
)

// IsLegal reports whether s is a syntactically legal JS identifier in this
// engine's grammar: not empty, not a reserved word, first rune an
// identifier-start rune and the rest identifier-part runes.
func IsLegal(s string) bool {
	if s == "" || token.IsReserved(s) {
		return false
	}
	for i, r := range s {
		if i == 0 {
			if !isIdentStart(r) {
				return false
			}
			continue
		}
		if !isIdentPart(r) {
			return false
		}
	}
	return true
}

func isIdentStart(r rune) bool {
	return r == '_' || r == '$' || unicode.IsLetter(r)
}

func isIdentPart(r rune) bool {
	return isIdentStart(r) || unicode.IsDigit(r)
}

// Sanitize rewrites s into a legal identifier: illegal runes become '_',
// a leading digit is prefixed with '_', an empty result becomes "v", and a
// result that is a reserved word is prefixed with "v".
func Sanitize(s string) string {
	var sb strings.Builder
	for i, r := range s {
		switch {
		case i == 0 && isIdentStart(r):
			sb.WriteRune(r)
		case i > 0 && isIdentPart(r):
			sb.WriteRune(r)
		case i == 0 && unicode.IsDigit(r):
			sb.WriteByte('_')
			sb.WriteRune(r)
		default:
			sb.WriteByte('_')
		}
	}
	out := sb.String()
	if out == "" || token.IsReserved(out) {
		return "v" + out
	}
	return out
}

// Assigner hands out unique, legal identifiers for a serialization run. It
// must avoid every name in reserved (globalVarNames carried from every
// FunctionDef, per §4.8 step 3) as well as every name it has already handed
// out.
type Assigner struct {
	mode     Mode
	reserved map[string]bool
	used     map[string]bool
	next     []rune // short-first mangler cursor
}

// NewAssigner builds an Assigner that never hands out a name in reserved.
func NewAssigner(mode Mode, reserved map[string]bool) *Assigner {
	r := make(map[string]bool, len(reserved))
	for k := range reserved {
		r[k] = true
	}
	return &Assigner{
		mode:     mode,
		reserved: r,
		used:     make(map[string]bool),
		next:     []rune{'a'},
	}
}

// Next returns a fresh identifier for a record whose suggested name is
// suggestion (may be empty).
func (a *Assigner) Next(suggestion string) string {
	var base string
	switch a.mode {
	case ShortFirst:
		return a.nextShort()
	case None:
		base = suggestion
		if base == "" || !IsLegal(base) {
			base = Sanitize(suggestion)
		}
	default: // Readable
		base = Sanitize(suggestion)
		if base == "" {
			base = "v"
		}
	}
	name := base
	for n := 1; a.reserved[name] || a.used[name]; n++ {
		name = base + itoa(n)
	}
	a.used[name] = true
	return name
}

func (a *Assigner) nextShort() string {
	for {
		name := string(a.next)
		a.advanceShort()
		if !a.reserved[name] && !a.used[name] && !token.IsReserved(name) {
			a.used[name] = true
			return name
		}
	}
}

// advanceShort implements the a, b, ..., z, aa, ab, ... sequence: base-26
// over lowercase letters, incrementing the last rune and carrying.
func (a *Assigner) advanceShort() {
	for i := len(a.next) - 1; i >= 0; i-- {
		if a.next[i] < 'z' {
			a.next[i]++
			return
		}
		a.next[i] = 'a'
	}
	a.next = append([]rune{'a'}, a.next...)
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}
