package scanner

import "strings"

const sourceMappingPrefix = "# sourceMappingURL="

// SourceMapURL returns the last "//# sourceMappingURL=..." pragma seen
// while skipping comments, or "" if none was found. The parser reads this
// once after scanning completes to populate ast.Program.SourceMap.
func (s *Scanner) SourceMapURL() string { return s.sourceMapURL }

func (s *Scanner) lineComment() {
	start := s.off
	s.advance() // first '/'
	s.advance() // second '/'
	textStart := s.off
	for s.cur != '\n' && s.cur != -1 {
		s.advance()
	}
	text := string(s.src[textStart:s.off])
	if strings.HasPrefix(text, sourceMappingPrefix) {
		s.sourceMapURL = strings.TrimSpace(strings.TrimPrefix(text, sourceMappingPrefix))
	}
	_ = start
}

// blockComment consumes a /* ... */ comment and reports whether it spans
// at least one line terminator (callers use this for ASI purposes, since a
// multi-line block comment counts as a newline for automatic semicolon
// insertion).
func (s *Scanner) blockComment() (multiline bool) {
	s.advance() // '/'
	s.advance() // '*'
	for {
		if s.cur == -1 {
			s.error(s.off, "comment not terminated")
			return multiline
		}
		if s.cur == '\n' {
			multiline = true
		}
		if s.cur == '*' && s.peek() == '/' {
			s.advance()
			s.advance()
			return multiline
		}
		s.advance()
	}
}
