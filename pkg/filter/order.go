package filter

import (
	"strings"
)

// OrderTerm sorts by one field.
type OrderTerm struct {
	Field Field
	Desc  bool
}

func (t OrderTerm) String() string {
	if t.Desc {
		return t.Field.Name + " desc"
	}
	return t.Field.Name + " asc"
}

// ParseOrder parses a comma-separated list of "field [asc|desc]" terms.
// Empty or blank input yields no terms.
func ParseOrder(input string, schema *Schema) ([]OrderTerm, error) {
	tokens, err := Lex(input)
	if err != nil {
		return nil, err
	}

	var terms []OrderTerm
	seen := make(map[string]bool)
	p := &parser{tokens: tokens, schema: schema}

	for !p.match(TokEOF) {
		tok := p.current()
		if tok.Kind != TokIdent {
			return nil, errorAt(tok, "expected field name in order clause, got %s", tok.Kind)
		}
		field, ok := schema.Lookup(tok.Text)
		if !ok {
			return nil, errorAt(tok, "unknown field '%s'", tok.Text)
		}
		if !field.Sortable {
			return nil, errorAt(tok, "field '%s' is not sortable", field.Name)
		}
		if seen[field.Name] {
			return nil, errorAt(tok, "field '%s' appears more than once in order clause", field.Name)
		}
		seen[field.Name] = true
		p.advance()

		term := OrderTerm{Field: field}
		if dir := p.current(); dir.Kind == TokIdent {
			switch strings.ToLower(dir.Text) {
			case "asc", "ascending":
			case "desc", "descending":
				term.Desc = true
			default:
				return nil, errorAt(dir, "invalid sort direction '%s' (want asc or desc)", dir.Text)
			}
			p.advance()
		}
		terms = append(terms, term)

		switch next := p.current(); next.Kind {
		case TokComma:
			p.advance()
			if p.match(TokEOF) {
				return nil, errorAt(next, "trailing ',' in order clause")
			}
		case TokEOF:
		default:
			return nil, errorAt(next, "unexpected %s in order clause", next.Kind)
		}
	}

	return terms, nil
}
