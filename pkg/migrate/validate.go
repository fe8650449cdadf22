package migrate

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ValidateDir lints migration files before they reach goose: names follow
// <version>_<verb>_<what>.sql, versions are unique, Up and Down sections are
// present with balanced statement blocks, and table-creating migrations drop
// their table on the way down.
func ValidateDir(dir string) error {
	if dir == "" {
		return fmt.Errorf("dir is required")
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("read dir %q: %w", dir, err)
	}

	seen := map[string]string{}
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".sql") {
			continue
		}
		name := e.Name()

		m := sqlFileRe.FindStringSubmatch(name)
		if m == nil {
			return fmt.Errorf("invalid migration filename %q (expected YYYYMMDDHHMMSS_<%s>_name.sql)",
				name, strings.Join(migrationVerbs, "|"))
		}
		version, base := m[1], m[2]
		if prev, ok := seen[version]; ok {
			return fmt.Errorf("duplicate migration version %s in %q and %q", version, prev, name)
		}
		seen[version] = name

		full := filepath.Join(dir, name)
		b, err := os.ReadFile(full)
		if err != nil {
			return fmt.Errorf("read file %q: %w", full, err)
		}
		if err := checkBody(name, base, string(b)); err != nil {
			return err
		}
	}
	return nil
}

func checkBody(file, base, txt string) error {
	upAt := strings.Index(txt, "-- +goose Up")
	if upAt < 0 {
		return fmt.Errorf("migration %q missing \"-- +goose Up\"", file)
	}
	downAt := strings.Index(txt, "-- +goose Down")
	if downAt < 0 {
		return fmt.Errorf("migration %q missing \"-- +goose Down\"", file)
	}
	if downAt < upAt {
		return fmt.Errorf("migration %q has Down before Up", file)
	}

	begins := strings.Count(txt, "-- +goose StatementBegin")
	ends := strings.Count(txt, "-- +goose StatementEnd")
	if begins != ends {
		return fmt.Errorf("migration %q has %d StatementBegin but %d StatementEnd", file, begins, ends)
	}

	if table, ok := createdTable(base); ok {
		down := strings.ToUpper(txt[downAt:])
		if !strings.Contains(down, "DROP TABLE") {
			return fmt.Errorf("migration %q creates %s but its Down section does not drop it", file, table)
		}
	}
	return nil
}
