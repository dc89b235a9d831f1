package filter

import (
	"strings"
	"unicode"
)

// TokenKind is the type of a lexical token.
type TokenKind int

const (
	TokIdent TokenKind = iota
	TokString
	TokNumber
	TokTrue
	TokFalse
	TokAnd
	TokOr
	TokNot
	TokLParen
	TokRParen
	TokComma
	TokEq
	TokNe
	TokLt
	TokLte
	TokGt
	TokGte
	TokEOF
)

func (k TokenKind) String() string {
	switch k {
	case TokIdent:
		return "identifier"
	case TokString:
		return "string"
	case TokNumber:
		return "number"
	case TokTrue, TokFalse:
		return "boolean"
	case TokAnd:
		return "'and'"
	case TokOr:
		return "'or'"
	case TokNot:
		return "'not'"
	case TokLParen:
		return "'('"
	case TokRParen:
		return "')'"
	case TokComma:
		return "','"
	case TokEq, TokNe, TokLt, TokLte, TokGt, TokGte:
		return "operator"
	case TokEOF:
		return "end of input"
	default:
		return "unknown"
	}
}

// Token is a lexical token with its source position.
type Token struct {
	Kind TokenKind

	// Text is the raw source text; for strings it is the unquoted value.
	Text string

	// Pos is the character offset of the first character.
	Pos int
}

// Lexer tokenizes filter and order text.
type Lexer struct {
	input []rune
	pos   int
}

// NewLexer creates a lexer over input.
func NewLexer(input string) *Lexer {
	return &Lexer{input: []rune(input)}
}

// Lex tokenizes the whole input. The last token is always TokEOF.
func Lex(input string) ([]Token, error) {
	l := NewLexer(input)
	var tokens []Token
	for {
		tok, err := l.Next()
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, tok)
		if tok.Kind == TokEOF {
			return tokens, nil
		}
	}
}

// Next returns the next token.
func (l *Lexer) Next() (Token, error) {
	l.skipWhitespace()

	start := l.pos
	if l.pos >= len(l.input) {
		return Token{Kind: TokEOF, Pos: start}, nil
	}

	ch := l.input[l.pos]
	switch ch {
	case '(':
		l.pos++
		return Token{Kind: TokLParen, Text: "(", Pos: start}, nil
	case ')':
		l.pos++
		return Token{Kind: TokRParen, Text: ")", Pos: start}, nil
	case ',':
		l.pos++
		return Token{Kind: TokComma, Text: ",", Pos: start}, nil
	case '=':
		if l.peek(1) == '=' {
			return l.emit(TokEq, 2), nil
		}
		return l.emit(TokEq, 1), nil
	case '!':
		if l.peek(1) == '=' {
			return l.emit(TokNe, 2), nil
		}
		return l.emit(TokNot, 1), nil
	case '<':
		switch l.peek(1) {
		case '=':
			return l.emit(TokLte, 2), nil
		case '>':
			return l.emit(TokNe, 2), nil
		}
		return l.emit(TokLt, 1), nil
	case '>':
		if l.peek(1) == '=' {
			return l.emit(TokGte, 2), nil
		}
		return l.emit(TokGt, 1), nil
	case '&':
		if l.peek(1) == '&' {
			return l.emit(TokAnd, 2), nil
		}
	case '|':
		if l.peek(1) == '|' {
			return l.emit(TokOr, 2), nil
		}
	case '"':
		return l.scanString()
	}

	if unicode.IsDigit(ch) || (ch == '-' && unicode.IsDigit(l.peek(1))) || (ch == '.' && unicode.IsDigit(l.peek(1))) {
		return l.scanNumber()
	}

	if isIdentStart(ch) {
		return l.scanIdent(), nil
	}

	return Token{}, &ParseError{
		Message: "unexpected character",
		Offset:  start,
		Token:   string(ch),
	}
}

func (l *Lexer) emit(kind TokenKind, width int) Token {
	tok := Token{Kind: kind, Text: string(l.input[l.pos : l.pos+width]), Pos: l.pos}
	l.pos += width
	return tok
}

func (l *Lexer) skipWhitespace() {
	for l.pos < len(l.input) && unicode.IsSpace(l.input[l.pos]) {
		l.pos++
	}
}

func (l *Lexer) peek(offset int) rune {
	pos := l.pos + offset
	if pos < len(l.input) {
		return l.input[pos]
	}
	return 0
}

func (l *Lexer) scanString() (Token, error) {
	start := l.pos
	l.pos++ // opening quote
	var sb strings.Builder

	for l.pos < len(l.input) {
		ch := l.input[l.pos]
		if ch == '"' {
			l.pos++
			return Token{Kind: TokString, Text: sb.String(), Pos: start}, nil
		}
		if ch == '\\' && l.pos+1 < len(l.input) {
			l.pos++
			switch l.input[l.pos] {
			case 'n':
				sb.WriteRune('\n')
			case 't':
				sb.WriteRune('\t')
			case 'r':
				sb.WriteRune('\r')
			default:
				sb.WriteRune(l.input[l.pos])
			}
			l.pos++
			continue
		}
		sb.WriteRune(ch)
		l.pos++
	}

	return Token{}, &ParseError{Message: "unterminated string literal", Offset: start, Token: `"`}
}

func (l *Lexer) scanNumber() (Token, error) {
	start := l.pos
	if l.input[l.pos] == '-' {
		l.pos++
	}

	digits := 0
	for l.pos < len(l.input) && unicode.IsDigit(l.input[l.pos]) {
		l.pos++
		digits++
	}
	if l.pos < len(l.input) && l.input[l.pos] == '.' {
		l.pos++
		for l.pos < len(l.input) && unicode.IsDigit(l.input[l.pos]) {
			l.pos++
			digits++
		}
	}

	text := string(l.input[start:l.pos])
	// "12abc" and "1.2.3" are malformed rather than two tokens.
	if digits == 0 || (l.pos < len(l.input) && (isIdentChar(l.input[l.pos]) || l.input[l.pos] == '.')) {
		for l.pos < len(l.input) && (isIdentChar(l.input[l.pos]) || l.input[l.pos] == '.') {
			l.pos++
		}
		return Token{}, &ParseError{
			Message: "invalid number",
			Offset:  start,
			Token:   string(l.input[start:l.pos]),
		}
	}

	return Token{Kind: TokNumber, Text: text, Pos: start}, nil
}

func (l *Lexer) scanIdent() Token {
	start := l.pos
	for l.pos < len(l.input) && isIdentChar(l.input[l.pos]) {
		l.pos++
	}

	text := string(l.input[start:l.pos])
	kind := TokIdent
	switch strings.ToLower(text) {
	case "and":
		kind = TokAnd
	case "or":
		kind = TokOr
	case "not":
		kind = TokNot
	case "true":
		kind = TokTrue
	case "false":
		kind = TokFalse
	}
	return Token{Kind: kind, Text: text, Pos: start}
}

func isIdentStart(ch rune) bool {
	return unicode.IsLetter(ch) || ch == '_'
}

func isIdentChar(ch rune) bool {
	return unicode.IsLetter(ch) || unicode.IsDigit(ch) || ch == '_'
}
