package query

import (
	"time"

	"github.com/Sternrassler/catalog-service/pkg/filter"
)

// TimeLayout is the fixed-width text form of timestamps in stores without a
// native timestamp type. Values are always UTC, so text order is time order.
const TimeLayout = "2006-01-02T15:04:05.000000000Z"

// Dialect captures the SQL differences between supported stores.
type Dialect struct {
	Name        string
	Placeholder PlaceholderStyle

	// StringCollation is appended to string columns so comparison and
	// ordering are byte-wise.
	StringCollation string

	// NativeTime stores bind time.Time; others bind TimeLayout text.
	NativeTime bool
}

var (
	SQLite = Dialect{
		Name:        "sqlite",
		Placeholder: PlaceholderQuestion,
	}

	Postgres = Dialect{
		Name:            "postgres",
		Placeholder:     PlaceholderDollar,
		StringCollation: `COLLATE "C"`,
		NativeTime:      true,
	}
)

// FormatTime renders t in TimeLayout.
func FormatTime(t time.Time) string {
	return t.UTC().Format(TimeLayout)
}

// TimeValue converts t to the dialect's bound representation.
func (d Dialect) TimeValue(t time.Time) any {
	if d.NativeTime {
		return t.UTC()
	}
	return FormatTime(t)
}

func (d Dialect) literalValue(l filter.Literal) any {
	switch l.Kind {
	case filter.KindString:
		return l.Str
	case filter.KindNumber:
		return l.Num.String()
	case filter.KindBool:
		return l.Bool
	case filter.KindTime:
		return d.TimeValue(l.Time)
	default:
		return nil
	}
}

func (d Dialect) column(alias string, f filter.Field) string {
	col := alias + "." + f.Column
	if f.Type == filter.TypeString && d.StringCollation != "" {
		col += " " + d.StringCollation
	}
	return col
}
