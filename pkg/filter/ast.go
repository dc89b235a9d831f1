package filter

import (
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

// Expr is a node of the filter AST.
type Expr interface {
	isExpr()
}

// And is the conjunction of two expressions.
type And struct {
	Left  Expr
	Right Expr
}

func (And) isExpr() {}

// Or is the disjunction of two expressions.
type Or struct {
	Left  Expr
	Right Expr
}

func (Or) isExpr() {}

// Not negates an expression.
type Not struct {
	Inner Expr
}

func (Not) isExpr() {}

// Compare tests a field against a literal. The literal kind always matches
// the field type once the node has come out of Parse.
type Compare struct {
	Field Field
	Op    Op
	Value Literal
}

func (Compare) isExpr() {}

// Op is a comparison operator.
type Op int

const (
	OpEq Op = iota
	OpNe
	OpLt
	OpLte
	OpGt
	OpGte
)

func (op Op) String() string {
	switch op {
	case OpEq:
		return "=="
	case OpNe:
		return "!="
	case OpLt:
		return "<"
	case OpLte:
		return "<="
	case OpGt:
		return ">"
	case OpGte:
		return ">="
	default:
		return "?"
	}
}

// Ordering reports whether the operator needs an ordered type.
func (op Op) Ordering() bool {
	return op == OpLt || op == OpLte || op == OpGt || op == OpGte
}

// LiteralKind is the kind of value a Literal holds.
type LiteralKind int

const (
	KindString LiteralKind = iota
	KindNumber
	KindBool
	KindTime
)

func (k LiteralKind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	case KindBool:
		return "boolean"
	case KindTime:
		return "timestamp"
	default:
		return "unknown"
	}
}

// Literal is a typed constant. Only the member matching Kind is meaningful.
type Literal struct {
	Kind LiteralKind
	Str  string
	Num  decimal.Decimal
	Bool bool
	Time time.Time
}

// String returns a literal from a Go string.
func String(s string) Literal { return Literal{Kind: KindString, Str: s} }

// Number returns a numeric literal.
func Number(d decimal.Decimal) Literal { return Literal{Kind: KindNumber, Num: d} }

// Bool returns a boolean literal.
func Bool(b bool) Literal { return Literal{Kind: KindBool, Bool: b} }

// Time returns a timestamp literal normalized to UTC.
func Time(t time.Time) Literal { return Literal{Kind: KindTime, Time: t.UTC()} }

func (l Literal) String() string {
	switch l.Kind {
	case KindString:
		return strconv.Quote(l.Str)
	case KindNumber:
		return l.Num.String()
	case KindBool:
		return strconv.FormatBool(l.Bool)
	case KindTime:
		return strconv.Quote(l.Time.Format(time.RFC3339Nano))
	default:
		return "?"
	}
}

// Conjoin returns And{left, right}, dropping nil operands.
func Conjoin(left, right Expr) Expr {
	switch {
	case left == nil:
		return right
	case right == nil:
		return left
	default:
		return And{Left: left, Right: right}
	}
}
