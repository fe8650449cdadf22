package migrate

import (
	"fmt"
	"regexp"
	"strings"
)

// Migration names start with the kind of change they make, e.g.
// 20250101000300_create_cart_items_table.sql or
// 20250301120000_add_products_brand_column.sql.
var migrationVerbs = []string{"create", "add", "alter", "drop", "enable", "backfill"}

var (
	nameSanitizeRe = regexp.MustCompile(`[^a-z0-9_]+`)
	sqlFileRe      = regexp.MustCompile(`^(\d{14})_((?:` + strings.Join(migrationVerbs, "|") + `)_[a-z0-9_]+)\.sql$`)
	createTableRe  = regexp.MustCompile(`^create_([a-z0-9_]+?)_tables?$`)
)

func sanitizeName(name string) string {
	safe := strings.ToLower(strings.TrimSpace(name))
	safe = strings.ReplaceAll(safe, " ", "_")
	safe = nameSanitizeRe.ReplaceAllString(safe, "_")
	return strings.Trim(safe, "_")
}

func checkVerb(name string) error {
	for _, verb := range migrationVerbs {
		if strings.HasPrefix(name, verb+"_") {
			return nil
		}
	}
	return fmt.Errorf("migration name %q must start with one of: %s", name, strings.Join(migrationVerbs, ", "))
}

// createdTable returns the table a create_<table>_table migration introduces.
func createdTable(name string) (string, bool) {
	m := createTableRe.FindStringSubmatch(name)
	if m == nil {
		return "", false
	}
	return m[1], true
}
