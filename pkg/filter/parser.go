package filter

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	// MaxDepth bounds nesting of parentheses and negations.
	MaxDepth = 64

	// MaxComparisons bounds the number of comparisons in one filter.
	MaxComparisons = 256
)

// Parse parses filter text against schema. Empty or blank input yields a nil
// expression, which matches every record.
func Parse(input string, schema *Schema) (Expr, error) {
	tokens, err := Lex(input)
	if err != nil {
		return nil, err
	}
	if len(tokens) == 1 {
		return nil, nil
	}

	p := &parser{tokens: tokens, schema: schema}
	expr, err := p.parseOr()
	if err != nil {
		return nil, err
	}
	if !p.match(TokEOF) {
		tok := p.current()
		if tok.Kind == TokRParen {
			return nil, errorAt(tok, "unbalanced parentheses: unexpected ')'")
		}
		return nil, errorAt(tok, "unexpected %s", tok.Kind)
	}
	return expr, nil
}

type parser struct {
	tokens      []Token
	pos         int
	schema      *Schema
	depth       int
	comparisons int
}

func (p *parser) parseOr() (Expr, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for p.match(TokOr) {
		p.advance()
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		left = Or{Left: left, Right: right}
	}
	return left, nil
}

func (p *parser) parseAnd() (Expr, error) {
	left, err := p.parseNot()
	if err != nil {
		return nil, err
	}
	for p.match(TokAnd) {
		p.advance()
		right, err := p.parseNot()
		if err != nil {
			return nil, err
		}
		left = And{Left: left, Right: right}
	}
	return left, nil
}

func (p *parser) parseNot() (Expr, error) {
	if !p.match(TokNot) {
		return p.parsePrimary()
	}

	tok := p.current()
	p.advance()
	if err := p.enter(tok); err != nil {
		return nil, err
	}
	inner, err := p.parseNot()
	p.depth--
	if err != nil {
		return nil, err
	}
	return Not{Inner: inner}, nil
}

func (p *parser) parsePrimary() (Expr, error) {
	tok := p.current()
	switch tok.Kind {
	case TokLParen:
		p.advance()
		if err := p.enter(tok); err != nil {
			return nil, err
		}
		expr, err := p.parseOr()
		p.depth--
		if err != nil {
			return nil, err
		}
		if !p.match(TokRParen) {
			return nil, errorAt(p.current(), "unbalanced parentheses: expected ')'")
		}
		p.advance()
		return expr, nil

	case TokIdent:
		return p.parseComparison()

	case TokRParen:
		return nil, errorAt(tok, "unbalanced parentheses: unexpected ')'")

	case TokEOF:
		return nil, errorAt(tok, "unexpected end of filter")

	default:
		return nil, errorAt(tok, "expected field name, got %s", tok.Kind)
	}
}

func (p *parser) parseComparison() (Expr, error) {
	fieldTok := p.current()
	field, ok := p.schema.Lookup(fieldTok.Text)
	if !ok {
		return nil, errorAt(fieldTok, "unknown field '%s'", fieldTok.Text)
	}
	p.advance()

	p.comparisons++
	if p.comparisons > MaxComparisons {
		return nil, errorAt(fieldTok, "filter has more than %d comparisons", MaxComparisons)
	}

	opTok := p.current()
	op, isOp := tokenOp(opTok.Kind)
	if !isOp {
		// A bare boolean field reads as "field == true".
		if field.Type == TypeBool {
			return Compare{Field: field, Op: OpEq, Value: Bool(true)}, nil
		}
		return nil, errorAt(opTok, "expected comparison operator after '%s'", fieldTok.Text)
	}
	p.advance()

	if op.Ordering() && field.Type == TypeBool {
		return nil, errorAt(opTok, "operator %s is not valid for %s field '%s'", op, field.Type, field.Name)
	}

	litTok := p.current()
	value, err := literalFor(field, litTok)
	if err != nil {
		return nil, err
	}
	p.advance()

	return Compare{Field: field, Op: op, Value: value}, nil
}

// literalFor converts a literal token to the field's type. Numbers widen
// into any numeric field; nothing else is coerced.
func literalFor(field Field, tok Token) (Literal, error) {
	switch tok.Kind {
	case TokString, TokNumber, TokTrue, TokFalse:
	case TokEOF:
		return Literal{}, errorAt(tok, "expected literal after operator")
	default:
		return Literal{}, errorAt(tok, "expected literal, got %s", tok.Kind)
	}

	mismatch := func() (Literal, error) {
		return Literal{}, errorAt(tok, "%s literal is not compatible with %s field '%s'", tok.Kind, field.Type, field.Name)
	}

	switch field.Type {
	case TypeString:
		if tok.Kind != TokString {
			return mismatch()
		}
		return String(tok.Text), nil

	case TypeUUID:
		if tok.Kind != TokString {
			return mismatch()
		}
		id, err := uuid.Parse(tok.Text)
		if err != nil {
			return Literal{}, errorAt(tok, "invalid identifier for field '%s'", field.Name)
		}
		return String(id.String()), nil

	case TypeDecimal, TypeNumber:
		if tok.Kind != TokNumber {
			return mismatch()
		}
		d, err := decimal.NewFromString(tok.Text)
		if err != nil {
			return Literal{}, errorAt(tok, "invalid number")
		}
		return Number(d), nil

	case TypeBool:
		if tok.Kind != TokTrue && tok.Kind != TokFalse {
			return mismatch()
		}
		return Bool(tok.Kind == TokTrue), nil

	case TypeTime:
		if tok.Kind != TokString {
			return mismatch()
		}
		t, err := parseTimestamp(tok.Text)
		if err != nil {
			return Literal{}, errorAt(tok, "invalid timestamp for field '%s' (want YYYY-MM-DD or RFC 3339)", field.Name)
		}
		return Time(t), nil
	}

	return mismatch()
}

func parseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339Nano, s)
}

func tokenOp(kind TokenKind) (Op, bool) {
	switch kind {
	case TokEq:
		return OpEq, true
	case TokNe:
		return OpNe, true
	case TokLt:
		return OpLt, true
	case TokLte:
		return OpLte, true
	case TokGt:
		return OpGt, true
	case TokGte:
		return OpGte, true
	default:
		return 0, false
	}
}

func (p *parser) enter(tok Token) error {
	p.depth++
	if p.depth > MaxDepth {
		return errorAt(tok, "filter nesting exceeds depth %d", MaxDepth)
	}
	return nil
}

func (p *parser) current() Token {
	if p.pos < len(p.tokens) {
		return p.tokens[p.pos]
	}
	return p.tokens[len(p.tokens)-1]
}

func (p *parser) advance() {
	if p.pos < len(p.tokens)-1 {
		p.pos++
	}
}

func (p *parser) match(kind TokenKind) bool {
	return p.current().Kind == kind
}
