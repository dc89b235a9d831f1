package query

import (
	"fmt"

	"github.com/Sternrassler/catalog-service/pkg/filter"
)

// Compile translates expr into a SQL boolean expression over the table
// aliased as alias. Literals are bound through b. A nil expression compiles
// to an always-true condition.
func Compile(expr filter.Expr, d Dialect, b *Builder, alias string) (string, error) {
	switch e := expr.(type) {
	case nil:
		return "1 = 1", nil

	case filter.And:
		left, err := Compile(e.Left, d, b, alias)
		if err != nil {
			return "", err
		}
		right, err := Compile(e.Right, d, b, alias)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("(%s AND %s)", left, right), nil

	case filter.Or:
		left, err := Compile(e.Left, d, b, alias)
		if err != nil {
			return "", err
		}
		right, err := Compile(e.Right, d, b, alias)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("(%s OR %s)", left, right), nil

	case filter.Not:
		inner, err := Compile(e.Inner, d, b, alias)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("(NOT %s)", inner), nil

	case filter.Compare:
		return compileCompare(e, d, b, alias)

	default:
		return "", fmt.Errorf("unknown expression type: %T", expr)
	}
}

func compileCompare(c filter.Compare, d Dialect, b *Builder, alias string) (string, error) {
	op, err := sqlOp(c.Op)
	if err != nil {
		return "", err
	}
	if c.Op.Ordering() && c.Field.Type == filter.TypeBool {
		return "", fmt.Errorf("operator %s is not valid for bool field %s", c.Op, c.Field.Name)
	}
	if err := checkLiteral(c.Field, c.Value); err != nil {
		return "", err
	}

	col := d.column(alias, c.Field)
	ph := b.Arg(d.literalValue(c.Value))

	if !c.Field.Nullable {
		return fmt.Sprintf("%s %s %s", col, op, ph), nil
	}

	// Keep SQL two-valued so NOT behaves like filter.Eval on null fields.
	raw := alias + "." + c.Field.Column
	if c.Op == filter.OpNe {
		return fmt.Sprintf("(%s IS NULL OR %s %s %s)", raw, col, op, ph), nil
	}
	return fmt.Sprintf("(%s IS NOT NULL AND %s %s %s)", raw, col, op, ph), nil
}

func sqlOp(op filter.Op) (string, error) {
	switch op {
	case filter.OpEq:
		return "=", nil
	case filter.OpNe:
		return "<>", nil
	case filter.OpLt:
		return "<", nil
	case filter.OpLte:
		return "<=", nil
	case filter.OpGt:
		return ">", nil
	case filter.OpGte:
		return ">=", nil
	default:
		return "", fmt.Errorf("unknown operator %d", op)
	}
}

func checkLiteral(f filter.Field, l filter.Literal) error {
	var want filter.LiteralKind
	switch f.Type {
	case filter.TypeString, filter.TypeUUID:
		want = filter.KindString
	case filter.TypeDecimal, filter.TypeNumber:
		want = filter.KindNumber
	case filter.TypeBool:
		want = filter.KindBool
	case filter.TypeTime:
		want = filter.KindTime
	default:
		return fmt.Errorf("field %s has unknown type", f.Name)
	}
	if l.Kind != want {
		return fmt.Errorf("%s literal is not compatible with %s field %s", l.Kind, f.Type, f.Name)
	}
	return nil
}
