// Package filter implements the catalog filter language.
//
// A filter is a boolean expression over a fixed field schema:
//
//	price > 10 and currency == "USD"
//	not (name == "Widget" or weightKg >= 2.5)
//	isActive && createdAt >= "2024-01-01"
//
// Comparisons take the form "field operator literal" where the operator is one of
// <, >, <=, >=, == (alias =) and != (alias <>). Comparisons combine with and/&&,
// or/|| and not/!, with parentheses overriding the usual precedence
// (not binds tighter than and, which binds tighter than or).
//
// Parse validates every field name and literal type against a Schema and returns
// a typed AST. The AST is never evaluated by a general-purpose interpreter: stores
// either compile it (see package query) or evaluate it with Eval, which defines the
// reference semantics for a single record.
//
// ParseOrder parses ordering clauses of the form "price desc, name".
package filter
