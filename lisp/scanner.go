package lisp

import (
	"fmt"
	"strings"
)

type tokenType uint8

const (
	tokenLeftParen tokenType = iota
	tokenRightParen
	tokenLeftBox
	tokenRightBox
	tokenBacktick
	tokenApostrophe
	tokenComma
	tokenDot
	tokenTrue
	tokenFalse
	tokenIdentifier
	tokenString
	tokenNumber
	tokenEOF
)

type token struct {
	typ  tokenType
	text string
	line int
}

type scanner struct {
	src   string
	start int
	cur   int
	line  int
}

func newScanner(src string) *scanner {
	return &scanner{src: src, line: 1}
}

func (s *scanner) next() (token, error) {
	if err := s.skipWhitespace(); err != nil {
		return token{}, err
	}
	s.start = s.cur
	if s.atEnd() {
		return s.token(tokenEOF), nil
	}
	c := s.advance()
	switch c {
	case '(':
		return s.token(tokenLeftParen), nil
	case ')':
		return s.token(tokenRightParen), nil
	case '[':
		return s.token(tokenLeftBox), nil
	case ']':
		return s.token(tokenRightBox), nil
	case '`':
		return s.token(tokenBacktick), nil
	case '\'':
		return s.token(tokenApostrophe), nil
	case ',':
		return s.token(tokenComma), nil
	case '.':
		if isDelimiter(s.peek()) {
			return s.token(tokenDot), nil
		}
		if isDigit(s.peek()) {
			return s.number()
		}
		return s.identifier()
	case '#':
		return s.hash()
	case '"':
		return s.str()
	case '+', '-':
		if isDelimiter(s.peek()) {
			return s.token(tokenIdentifier), nil
		}
		if isDigit(s.peek()) || s.peek() == '.' {
			return s.number()
		}
		return s.identifier()
	}
	if isDigit(c) {
		return s.number()
	}
	if isSymbolInitial(c) {
		return s.identifier()
	}
	return token{}, s.errorf("unexpected character '%c'", c)
}

func (s *scanner) token(typ tokenType) token {
	return token{typ: typ, text: s.src[s.start:s.cur], line: s.line}
}

func (s *scanner) errorf(format string, args ...interface{}) error {
	return &ScanError{Line: s.line, Msg: fmt.Sprintf(format, args...)}
}

func (s *scanner) atEnd() bool {
	return s.cur >= len(s.src)
}

func (s *scanner) advance() byte {
	c := s.src[s.cur]
	s.cur++
	return c
}

// peek returns 0 at the end of input.
func (s *scanner) peek() byte {
	if s.atEnd() {
		return 0
	}
	return s.src[s.cur]
}

// skipWhitespace also skips line comments and #| block comments |#.
func (s *scanner) skipWhitespace() error {
	for !s.atEnd() {
		switch s.peek() {
		case ' ', '\r', '\t':
			s.cur++
		case '\n':
			s.line++
			s.cur++
		case ';':
			for !s.atEnd() && s.peek() != '\n' {
				s.cur++
			}
		case '#':
			if !strings.HasPrefix(s.src[s.cur:], "#|") {
				return nil
			}
			line := s.line
			end := strings.Index(s.src[s.cur+2:], "|#")
			if end < 0 {
				s.cur = len(s.src)
				return &ScanError{Line: line, Msg: "missing matching comment end |#", Incomplete: true}
			}
			comment := s.src[s.cur : s.cur+2+end+2]
			s.line += strings.Count(comment, "\n")
			s.cur += len(comment)
		default:
			return nil
		}
	}
	return nil
}

func (s *scanner) hash() (token, error) {
	switch s.peek() {
	case 't', 'T':
		s.cur++
		if isDelimiter(s.peek()) {
			return s.token(tokenTrue), nil
		}
	case 'f', 'F':
		s.cur++
		if isDelimiter(s.peek()) {
			return s.token(tokenFalse), nil
		}
	}
	return token{}, &ScanError{Line: s.line, Msg: "unexpected character after '#'"}
}

// str scans a string literal. The token text is the unescaped content.
func (s *scanner) str() (token, error) {
	var b strings.Builder
	line := s.line
	for !s.atEnd() {
		c := s.advance()
		switch c {
		case '"':
			return token{typ: tokenString, text: b.String(), line: line}, nil
		case '\\':
			if s.atEnd() {
				break
			}
			switch e := s.advance(); e {
			case 'n':
				b.WriteByte('\n')
			case 't':
				b.WriteByte('\t')
			default:
				b.WriteByte(e)
			}
		case '\n':
			s.line++
			b.WriteByte(c)
		default:
			b.WriteByte(c)
		}
	}
	return token{}, &ScanError{Line: line, Msg: "unterminated string", Incomplete: true}
}

func (s *scanner) number() (token, error) {
	for isDigit(s.peek()) {
		s.cur++
	}
	if s.peek() == '.' {
		s.cur++
		for isDigit(s.peek()) {
			s.cur++
		}
	}
	if c := s.peek(); c == 'e' || c == 'E' {
		s.cur++
		if c := s.peek(); c == '+' || c == '-' {
			s.cur++
		}
		for isDigit(s.peek()) {
			s.cur++
		}
	}
	if !isDelimiter(s.peek()) {
		for !isDelimiter(s.peek()) {
			s.cur++
		}
		return token{}, &ScanError{Line: s.line, Msg: "malformed number " + s.src[s.start:s.cur]}
	}
	return s.token(tokenNumber), nil
}

func (s *scanner) identifier() (token, error) {
	for isSymbolSubsequent(s.peek()) {
		s.cur++
	}
	if !isDelimiter(s.peek()) {
		return token{}, s.errorf("unexpected character '%c' in identifier", s.peek())
	}
	if _, ok := nonFinite[s.src[s.start:s.cur]]; ok {
		return s.token(tokenNumber), nil
	}
	return s.token(tokenIdentifier), nil
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isSymbolInitial(c byte) bool {
	return isLetter(c) || strings.IndexByte("!$%&*/:<=>?~_^", c) >= 0
}

func isSymbolSubsequent(c byte) bool {
	return isSymbolInitial(c) || isDigit(c) || strings.IndexByte(".+@-", c) >= 0
}

func isDelimiter(c byte) bool {
	return c == 0 || strings.IndexByte(" \r\t\n()[]\";'`,", c) >= 0
}
