package filter

import (
	"fmt"
	"strings"
)

// Record exposes field values to Eval. A missing value (ok == false) is null.
type Record interface {
	FieldValue(name string) (Literal, bool)
}

// Eval evaluates expr against a single record. A nil expression is true.
//
// Null handling is two-valued: against a null field, == and the ordering
// operators are false and != is true.
func Eval(expr Expr, rec Record) bool {
	switch e := expr.(type) {
	case nil:
		return true
	case And:
		return Eval(e.Left, rec) && Eval(e.Right, rec)
	case Or:
		return Eval(e.Left, rec) || Eval(e.Right, rec)
	case Not:
		return !Eval(e.Inner, rec)
	case Compare:
		v, ok := rec.FieldValue(e.Field.Name)
		if !ok {
			return e.Op == OpNe
		}
		c, err := CompareLiterals(v, e.Value)
		if err != nil {
			return false
		}
		return e.Op.holds(c)
	default:
		panic(fmt.Sprintf("filter: unknown expression type %T", expr))
	}
}

func (op Op) holds(c int) bool {
	switch op {
	case OpEq:
		return c == 0
	case OpNe:
		return c != 0
	case OpLt:
		return c < 0
	case OpLte:
		return c <= 0
	case OpGt:
		return c > 0
	case OpGte:
		return c >= 0
	default:
		return false
	}
}

// CompareLiterals orders two literals of the same kind. Strings compare
// byte-wise, false sorts before true.
func CompareLiterals(a, b Literal) (int, error) {
	if a.Kind != b.Kind {
		return 0, fmt.Errorf("cannot compare %s with %s", a.Kind, b.Kind)
	}
	switch a.Kind {
	case KindString:
		return strings.Compare(a.Str, b.Str), nil
	case KindNumber:
		return a.Num.Cmp(b.Num), nil
	case KindBool:
		switch {
		case a.Bool == b.Bool:
			return 0, nil
		case !a.Bool:
			return -1, nil
		default:
			return 1, nil
		}
	case KindTime:
		return a.Time.Compare(b.Time), nil
	default:
		return 0, fmt.Errorf("unknown literal kind %d", a.Kind)
	}
}
