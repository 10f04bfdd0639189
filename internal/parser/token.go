package parser

import (
	"sigil/internal/source"
)

type tokenKind uint8

const (
	tokEOF tokenKind = iota
	tokIdent
	tokInt
	tokFloat
	tokString
	tokSymbol
	tokDot
	tokComma
	tokColon
	tokColonColon
	tokLParen
	tokRParen
	tokLBracket
	tokRBracket
	tokInvalid
)

func (k tokenKind) String() string {
	switch k {
	case tokEOF:
		return "end of input"
	case tokIdent:
		return "identifier"
	case tokInt:
		return "integer"
	case tokFloat:
		return "float"
	case tokString:
		return "string"
	case tokSymbol:
		return "symbol"
	case tokDot:
		return "'.'"
	case tokComma:
		return "','"
	case tokColon:
		return "':'"
	case tokColonColon:
		return "'::'"
	case tokLParen:
		return "'('"
	case tokRParen:
		return "')'"
	case tokLBracket:
		return "'['"
	case tokRBracket:
		return "']'"
	}
	return "invalid token"
}

type token struct {
	Kind tokenKind
	Span source.Span
	Text string
}

// scanner walks one annotation line. The grammar is tiny, so trivia
// handling from the full language front end is not carried over.
type scanner struct {
	file FileRef
	src  []byte
	pos  uint32

	// предыдущий токен: нужен, чтобы отличить ключ `x:Integer`
	// от символа `:Integer`.
	prevKind tokenKind
	prevEnd  uint32
}

// FileRef ties scanned spans to a FileSet entry with a byte offset, so one
// file can hold many line-oriented annotations.
type FileRef struct {
	File source.FileID
	Base uint32
}

func newScanner(ref FileRef, src []byte) *scanner {
	return &scanner{file: ref, src: src}
}

func (s *scanner) span(start uint32) source.Span {
	return source.Span{File: s.file.File, Start: s.file.Base + start, End: s.file.Base + s.pos}
}

func (s *scanner) peek() byte {
	if int(s.pos) >= len(s.src) {
		return 0
	}
	return s.src[s.pos]
}

func (s *scanner) peekAt(off uint32) byte {
	if int(s.pos+off) >= len(s.src) {
		return 0
	}
	return s.src[s.pos+off]
}

func (s *scanner) next() token {
	tok := s.scan()
	s.prevKind = tok.Kind
	s.prevEnd = s.pos
	return tok
}

func (s *scanner) scan() token {
	for int(s.pos) < len(s.src) && (s.src[s.pos] == ' ' || s.src[s.pos] == '\t') {
		s.pos++
	}
	start := s.pos
	if int(s.pos) >= len(s.src) || s.src[s.pos] == '#' {
		s.pos = uint32(len(s.src))
		return token{Kind: tokEOF, Span: s.span(start)}
	}
	ch := s.src[s.pos]
	switch {
	case ch == '.':
		s.pos++
		return token{Kind: tokDot, Span: s.span(start)}
	case ch == ',':
		s.pos++
		return token{Kind: tokComma, Span: s.span(start)}
	case ch == '(':
		s.pos++
		return token{Kind: tokLParen, Span: s.span(start)}
	case ch == ')':
		s.pos++
		return token{Kind: tokRParen, Span: s.span(start)}
	case ch == '[':
		s.pos++
		return token{Kind: tokLBracket, Span: s.span(start)}
	case ch == ']':
		s.pos++
		return token{Kind: tokRBracket, Span: s.span(start)}
	case ch == ':':
		if s.peekAt(1) == ':' {
			s.pos += 2
			return token{Kind: tokColonColon, Span: s.span(start)}
		}
		// Двоеточие вплотную к идентификатору — это ключ `x:Integer`,
		// а не символ `:Integer`.
		if s.prevKind == tokIdent && start == s.prevEnd {
			s.pos++
			return token{Kind: tokColon, Span: s.span(start)}
		}
		if isNameByte(s.peekAt(1)) {
			s.pos++
			nameStart := s.pos
			for isNameByte(s.peek()) {
				s.pos++
			}
			return token{Kind: tokSymbol, Span: s.span(start), Text: string(s.src[nameStart:s.pos])}
		}
		s.pos++
		return token{Kind: tokColon, Span: s.span(start)}
	case ch == '"':
		s.pos++
		textStart := s.pos
		for int(s.pos) < len(s.src) && s.src[s.pos] != '"' {
			s.pos++
		}
		if int(s.pos) >= len(s.src) {
			return token{Kind: tokInvalid, Span: s.span(start), Text: "unterminated string"}
		}
		text := string(s.src[textStart:s.pos])
		s.pos++
		return token{Kind: tokString, Span: s.span(start), Text: text}
	case ch >= '0' && ch <= '9':
		for isDigit(s.peek()) {
			s.pos++
		}
		if s.peek() == '.' && isDigit(s.peekAt(1)) {
			s.pos++
			for isDigit(s.peek()) {
				s.pos++
			}
			return token{Kind: tokFloat, Span: s.span(start), Text: string(s.src[start:s.pos])}
		}
		return token{Kind: tokInt, Span: s.span(start), Text: string(s.src[start:s.pos])}
	case isNameByte(ch):
		for isNameByte(s.peek()) {
			s.pos++
		}
		return token{Kind: tokIdent, Span: s.span(start), Text: string(s.src[start:s.pos])}
	default:
		s.pos++
		return token{Kind: tokInvalid, Span: s.span(start), Text: string(ch)}
	}
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }

func isNameByte(b byte) bool {
	return b == '_' || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || isDigit(b)
}
