// filepath: internal/migrator/layout.go
package migrator

import (
	"fmt"
	"sort"
	"strings"
)

const (
	productsTable    = "products"
	productsNewTable = "products_new"
	barcodeIndex     = "ux_products_barcode"
)

// column is one column of the expected products layout.
type column struct {
	Name       string
	Definition string
}

// productColumns is the current products layout, in table order.
// Must match db/migrations.
var productColumns = []column{
	{Name: "id", Definition: "INTEGER PRIMARY KEY"},
	{Name: "name", Definition: "TEXT NOT NULL UNIQUE"},
	{Name: "url", Definition: "TEXT NOT NULL"},
	{Name: "category_id", Definition: "INTEGER NOT NULL"},
	{Name: "barcode", Definition: "TEXT DEFAULT NULL"},
	{Name: "image_front_small_url", Definition: "TEXT DEFAULT NULL"},
}

const productsForeignKey = "FOREIGN KEY (category_id) REFERENCES categories (id)"

// Tables created additively next to a rebuilt products table.
const siblingTablesDDL = `
	CREATE TABLE IF NOT EXISTS categories (
		id INTEGER PRIMARY KEY,
		name TEXT NOT NULL UNIQUE
	);
	CREATE TABLE IF NOT EXISTS counts (
		id INTEGER PRIMARY KEY,
		product_id INTEGER NOT NULL UNIQUE,
		count INTEGER NOT NULL DEFAULT 0,
		FOREIGN KEY (product_id) REFERENCES products (id)
	);
`

// ExpectedProductColumns returns the column names of the current layout.
func ExpectedProductColumns() []string {
	names := make([]string, len(productColumns))
	for i, c := range productColumns {
		names[i] = c.Name
	}
	return names
}

// createProductsTableSQL renders the CREATE TABLE statement for the expected layout.
func createProductsTableSQL(table string) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("CREATE TABLE \"%s\" (", table))
	for _, c := range productColumns {
		sb.WriteString(fmt.Sprintf("\n\t\"%s\" %s,", c.Name, c.Definition))
	}
	sb.WriteString("\n\t" + productsForeignKey + "\n);")
	return sb.String()
}

// copyRowsSQL renders the INSERT ... SELECT that carries rows into the rebuilt
// table. Columns the source does not have are filled with NULL.
func copyRowsSQL(from, to string, existing map[string]bool) string {
	targets := make([]string, len(productColumns))
	sources := make([]string, len(productColumns))
	for i, c := range productColumns {
		targets[i] = fmt.Sprintf("\"%s\"", c.Name)
		if existing[c.Name] {
			sources[i] = fmt.Sprintf("\"%s\"", c.Name)
		} else {
			sources[i] = "NULL"
		}
	}
	return fmt.Sprintf("INSERT INTO \"%s\" (%s) SELECT %s FROM \"%s\";",
		to, strings.Join(targets, ", "), strings.Join(sources, ", "), from)
}

// missingColumns returns expected columns absent from existing, in layout order.
func missingColumns(existing map[string]bool) []string {
	var missing []string
	for _, c := range productColumns {
		if !existing[c.Name] {
			missing = append(missing, c.Name)
		}
	}
	return missing
}

// extraColumns returns columns present in existing but not part of the layout.
func extraColumns(existing map[string]bool) []string {
	expected := make(map[string]bool, len(productColumns))
	for _, c := range productColumns {
		expected[c.Name] = true
	}
	var extra []string
	for name := range existing {
		if !expected[name] {
			extra = append(extra, name)
		}
	}
	sort.Strings(extra)
	return extra
}
