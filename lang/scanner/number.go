package scanner

import "github.com/mna/jsrevive/lang/token"

// number scans a numeric literal: decimal, hex/octal/binary integers,
// floats with an exponent, and the trailing "n" BigInt suffix. The engine
// never evaluates the literal itself (that is the embedded runtime's job);
// it only needs to preserve enough of the raw text to re-emit it and to
// classify the token.
func (s *Scanner) number() (token.Token, string) {
	start := s.off
	tok := token.NUMBER

	if s.cur == '0' && (lower(rune(s.peek())) == 'x' || lower(rune(s.peek())) == 'o' || lower(rune(s.peek())) == 'b') {
		s.advance() // '0'
		s.advance() // x/o/b
		s.digitsWithSeparators(isHex)
		if s.cur == 'n' {
			s.advance()
		}
		return tok, string(s.src[start:s.off])
	}

	s.digitsWithSeparators(isDecimal)

	if s.cur == '.' {
		s.advance()
		s.digitsWithSeparators(isDecimal)
	}

	if lower(s.cur) == 'e' {
		s.advance()
		if s.cur == '+' || s.cur == '-' {
			s.advance()
		}
		s.digitsWithSeparators(isDecimal)
	}

	if s.cur == 'n' {
		s.advance()
		return tok, string(s.src[start:s.off])
	}

	return tok, string(s.src[start:s.off])
}

func (s *Scanner) digitsWithSeparators(accept func(rune) bool) {
	for accept(s.cur) || s.cur == '_' {
		s.advance()
	}
}

func lower(r rune) rune { return ('a' - 'A') | r }
