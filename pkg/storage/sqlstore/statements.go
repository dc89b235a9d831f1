package sqlstore

import (
	"strconv"
	"strings"

	"github.com/Sternrassler/catalog-service/pkg/query"
)

// productColumns is the select list for products joined with categories
// as "p" and "c".
var productColumns = []string{
	"p.id", "p.name", "p.description", "p.price", "p.currency", "p.category_id",
	"p.is_active", "p.created_at", "p.updated_at",
	"p.weight_kg", "p.width_cm", "p.height_cm", "p.depth_cm",
	"c.id", "c.name",
}

var productSelection = query.Selection{
	From:    "products p LEFT JOIN categories c ON c.id = p.category_id",
	Alias:   "p",
	Columns: productColumns,
}

type statements struct {
	insertCategory     string
	getCategory        string
	findCategoryByName string
	listCategories     string
	updateCategory     string
	deleteCategory     string
	insertProduct      string
	getProduct         string
	listProducts       string
	updateProduct      string
	deleteProduct      string
}

func newStatements(d query.Dialect) statements {
	nameMatch := "name = ? COLLATE NOCASE"
	nameOrder := "name, id"
	if d.Name == DriverPostgres {
		nameMatch = "lower(name) = lower(?)"
		nameOrder = `name COLLATE "C", id`
	}

	return statements{
		insertCategory:     rebind(d, "INSERT INTO categories (id, name) VALUES (?, ?)"),
		getCategory:        rebind(d, "SELECT id, name FROM categories WHERE id = ?"),
		findCategoryByName: rebind(d, "SELECT id, name FROM categories WHERE "+nameMatch+" LIMIT 1"),
		listCategories:     "SELECT id, name FROM categories ORDER BY " + nameOrder,
		updateCategory:     rebind(d, "UPDATE categories SET name = ? WHERE id = ?"),
		deleteCategory:     rebind(d, "DELETE FROM categories WHERE id = ?"),
		insertProduct: rebind(d, `INSERT INTO products (
			id, name, description, price, currency, category_id, is_active,
			created_at, updated_at, weight_kg, width_cm, height_cm, depth_cm
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`),
		getProduct: rebind(d, "SELECT "+strings.Join(productColumns, ", ")+
			" FROM "+productSelection.From+" WHERE p.id = ?"),
		listProducts: "SELECT " + strings.Join(productColumns, ", ") +
			" FROM " + productSelection.From + " ORDER BY p.id",
		updateProduct: rebind(d, `UPDATE products SET
			name = ?, description = ?, price = ?, currency = ?, category_id = ?, is_active = ?,
			created_at = ?, updated_at = ?, weight_kg = ?, width_cm = ?, height_cm = ?, depth_cm = ?
		WHERE id = ?`),
		deleteProduct: rebind(d, "DELETE FROM products WHERE id = ?"),
	}
}

// rebind rewrites "?" placeholders into the dialect's style. Statements
// passed here contain no string literals.
func rebind(d query.Dialect, q string) string {
	if d.Placeholder != query.PlaceholderDollar {
		return q
	}
	var sb strings.Builder
	n := 0
	for _, r := range q {
		if r == '?' {
			n++
			sb.WriteByte('$')
			sb.WriteString(strconv.Itoa(n))
			continue
		}
		sb.WriteRune(r)
	}
	return sb.String()
}
