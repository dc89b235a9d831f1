package filter

import (
	"errors"
	"strings"
	"testing"
)

func TestParseEmpty(t *testing.T) {
	for _, input := range []string{"", "   ", "\t\n"} {
		expr, err := Parse(input, testSchema)
		if err != nil {
			t.Fatalf("Parse(%q): unexpected error: %v", input, err)
		}
		if expr != nil {
			t.Errorf("Parse(%q) = %#v, want nil", input, expr)
		}
	}
}

func TestParseComparison(t *testing.T) {
	expr, err := Parse(`Price > 10`, testSchema)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	cmp, ok := expr.(Compare)
	if !ok {
		t.Fatalf("expected Compare, got %T", expr)
	}
	if cmp.Field.Name != "price" {
		t.Errorf("field = %q, want canonical name price", cmp.Field.Name)
	}
	if cmp.Op != OpGt {
		t.Errorf("op = %v, want >", cmp.Op)
	}
	if cmp.Value.Kind != KindNumber || cmp.Value.Num.String() != "10" {
		t.Errorf("value = %v, want 10", cmp.Value)
	}
}

func TestParsePrecedence(t *testing.T) {
	// not > and > or
	expr, err := Parse(`name == "a" or not isActive and price < 5`, testSchema)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	or, ok := expr.(Or)
	if !ok {
		t.Fatalf("expected Or at root, got %T", expr)
	}
	and, ok := or.Right.(And)
	if !ok {
		t.Fatalf("expected And on the right, got %T", or.Right)
	}
	if _, ok := and.Left.(Not); !ok {
		t.Errorf("expected Not inside And, got %T", and.Left)
	}
}

func TestParseParenthesesOverride(t *testing.T) {
	expr, err := Parse(`(name == "a" || name == "b") && price >= 1`, testSchema)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	and, ok := expr.(And)
	if !ok {
		t.Fatalf("expected And at root, got %T", expr)
	}
	if _, ok := and.Left.(Or); !ok {
		t.Errorf("expected Or on the left, got %T", and.Left)
	}
}

func TestParseBareBoolean(t *testing.T) {
	expr, err := Parse(`!isActive`, testSchema)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	not, ok := expr.(Not)
	if !ok {
		t.Fatalf("expected Not, got %T", expr)
	}
	cmp := not.Inner.(Compare)
	if cmp.Field.Name != "isActive" || cmp.Op != OpEq || !cmp.Value.Bool {
		t.Errorf("got %+v, want isActive == true", cmp)
	}
}

func TestParseLiteralTypes(t *testing.T) {
	tests := []struct {
		input string
		kind  LiteralKind
	}{
		{`price == 15`, KindNumber},
		{`price == 15.99`, KindNumber},
		{`weightKg <= -0.5`, KindNumber},
		{`currency != "EUR"`, KindString},
		{`isActive == false`, KindBool},
		{`createdAt >= "2024-01-31"`, KindTime},
		{`createdAt < "2024-01-31T10:00:00Z"`, KindTime},
		{`id == "0B3A7C39-1B6C-4E8A-9E2F-0A4E4F9B6C11"`, KindString},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			expr, err := Parse(tt.input, testSchema)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got := expr.(Compare).Value.Kind; got != tt.kind {
				t.Errorf("literal kind = %v, want %v", got, tt.kind)
			}
		})
	}
}

func TestParseNormalizesUUID(t *testing.T) {
	expr, err := Parse(`id == "0B3A7C39-1B6C-4E8A-9E2F-0A4E4F9B6C11"`, testSchema)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := expr.(Compare).Value.Str; got != "0b3a7c39-1b6c-4e8a-9e2f-0a4e4f9b6c11" {
		t.Errorf("uuid literal = %q, want lower-case form", got)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		message string
	}{
		{"bare words", `THIS IS INVALID`, "unknown field 'THIS'"},
		{"unknown field", `color == "red"`, "unknown field 'color'"},
		{"missing close paren", `(price > 1`, "unbalanced parentheses"},
		{"extra close paren", `price > 1)`, "unbalanced parentheses"},
		{"lone close paren", `)`, "unbalanced parentheses"},
		{"missing operator", `price 10`, "expected comparison operator"},
		{"missing literal", `price >`, "expected literal"},
		{"string for number", `price > "10"`, "not compatible with decimal field 'price'"},
		{"number for string", `currency == 1`, "not compatible with string field 'currency'"},
		{"number for bool", `isActive == 1`, "not compatible with bool field 'isActive'"},
		{"ordering on bool", `isActive > true`, "not valid for bool field"},
		{"bad timestamp", `createdAt > "yesterday"`, "invalid timestamp"},
		{"bad uuid", `id == "abc"`, "invalid identifier"},
		{"dangling and", `price > 1 and`, "unexpected end of filter"},
		{"two comparisons", `price > 1 price < 2`, "unexpected identifier"},
		{"field compared to field", `price > weightKg`, "expected literal"},
		{"unknown token", `price ~ 1`, "unexpected character"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.input, testSchema)
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			var pe *ParseError
			if !errors.As(err, &pe) {
				t.Fatalf("expected *ParseError, got %T: %v", err, err)
			}
			if !strings.Contains(pe.Error(), tt.message) {
				t.Errorf("error %q does not contain %q", pe.Error(), tt.message)
			}
		})
	}
}

func TestParseDepthLimit(t *testing.T) {
	ok := strings.Repeat("(", MaxDepth) + "price > 1" + strings.Repeat(")", MaxDepth)
	if _, err := Parse(ok, testSchema); err != nil {
		t.Fatalf("depth %d should parse: %v", MaxDepth, err)
	}

	deep := strings.Repeat("(", MaxDepth+1) + "price > 1" + strings.Repeat(")", MaxDepth+1)
	if _, err := Parse(deep, testSchema); err == nil {
		t.Error("expected depth error")
	}

	nots := strings.Repeat("not ", 10000) + "isActive"
	if _, err := Parse(nots, testSchema); err == nil {
		t.Error("expected depth error for repeated not")
	}
}

func TestParseComparisonLimit(t *testing.T) {
	parts := make([]string, MaxComparisons+1)
	for i := range parts {
		parts[i] = "price > 1"
	}
	if _, err := Parse(strings.Join(parts[:MaxComparisons], " or "), testSchema); err != nil {
		t.Fatalf("%d comparisons should parse: %v", MaxComparisons, err)
	}
	if _, err := Parse(strings.Join(parts, " or "), testSchema); err == nil {
		t.Error("expected comparison limit error")
	}
}

func TestParseErrorOffset(t *testing.T) {
	_, err := Parse(`price > 1 and colour == "red"`, testSchema)
	var pe *ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("expected *ParseError, got %v", err)
	}
	if pe.Offset != 14 || pe.Token != "colour" {
		t.Errorf("offset/token = %d/%q, want 14/colour", pe.Offset, pe.Token)
	}
}

func FuzzParse(f *testing.F) {
	for _, seed := range []string{
		`price > 10 and currency == "USD"`,
		`not (isActive) or weightKg <= 2`,
		`((((`,
		`"unterminated`,
		`THIS IS INVALID`,
	} {
		f.Add(seed)
	}
	f.Fuzz(func(t *testing.T, input string) {
		expr, err := Parse(input, testSchema)
		if err != nil {
			var pe *ParseError
			if !errors.As(err, &pe) {
				t.Fatalf("non-ParseError for %q: %T %v", input, err, err)
			}
			return
		}
		// Anything that parses must evaluate without panicking.
		Eval(expr, mapRecord{})
	})
}
