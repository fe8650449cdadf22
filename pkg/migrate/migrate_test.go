package migrate

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/marketplace-backend/pkg/config"
	"github.com/angelmondragon/marketplace-backend/pkg/db"
	"github.com/angelmondragon/marketplace-backend/pkg/db/dbtest"
	"github.com/angelmondragon/marketplace-backend/pkg/logger"
)

const migrationsDir = "migrations"

func readMigration(t *testing.T, suffix string) string {
	t.Helper()

	entries, err := os.ReadDir(migrationsDir)
	require.NoError(t, err)
	for _, e := range entries {
		if strings.HasSuffix(e.Name(), suffix) {
			b, err := os.ReadFile(filepath.Join(migrationsDir, e.Name()))
			require.NoError(t, err)
			return string(b)
		}
	}
	t.Fatalf("migration %q not found", suffix)
	return ""
}

func TestValidateDirAcceptsShippedMigrations(t *testing.T) {
	require.NoError(t, ValidateDir(migrationsDir))
}

func TestValidateDirRejectsBadFilename(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "001_users.sql"), []byte("-- +goose Up\n-- +goose Down\n"), 0o644))

	err := ValidateDir(dir)
	require.Error(t, err)
	require.Contains(t, err.Error(), "invalid migration filename")
}

func TestValidateDirRejectsDuplicateVersion(t *testing.T) {
	dir := t.TempDir()
	body := []byte("-- +goose Up\n-- +goose Down\n")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "20250101000000_add_a.sql"), body, 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "20250101000000_add_b.sql"), body, 0o644))

	err := ValidateDir(dir)
	require.Error(t, err)
	require.Contains(t, err.Error(), "duplicate migration version")
}

func TestValidateDirRequiresDownSection(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "20250101000000_add_a.sql"), []byte("-- +goose Up\nSELECT 1;\n"), 0o644))

	err := ValidateDir(dir)
	require.Error(t, err)
	require.Contains(t, err.Error(), "+goose Down")
}

func TestValidateDirRequiresVerbPrefix(t *testing.T) {
	dir := t.TempDir()
	body := []byte("-- +goose Up\n-- +goose Down\n")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "20250101000000_orders_index.sql"), body, 0o644))

	err := ValidateDir(dir)
	require.Error(t, err)
	require.Contains(t, err.Error(), "invalid migration filename")
}

func TestValidateDirRequiresBalancedStatements(t *testing.T) {
	dir := t.TempDir()
	body := []byte("-- +goose Up\n-- +goose StatementBegin\nSELECT 1;\n\n-- +goose Down\n")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "20250101000000_add_a.sql"), body, 0o644))

	err := ValidateDir(dir)
	require.Error(t, err)
	require.Contains(t, err.Error(), "1 StatementBegin but 0 StatementEnd")
}

func TestValidateDirRequiresCreatedTableDropped(t *testing.T) {
	dir := t.TempDir()
	body := []byte("-- +goose Up\nCREATE TABLE reviews (id uuid);\n-- +goose Down\nSELECT 1;\n")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "20250101000000_create_reviews_table.sql"), body, 0o644))

	err := ValidateDir(dir)
	require.Error(t, err)
	require.Contains(t, err.Error(), "creates reviews")
}

func TestCreateSQLMigrationScaffoldsTable(t *testing.T) {
	dir := t.TempDir()

	path, err := CreateSQLMigration(dir, "Create Reviews Table")
	require.NoError(t, err)
	require.True(t, strings.HasSuffix(path, "_create_reviews_table.sql"), path)

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(b), "CREATE TABLE IF NOT EXISTS reviews (")
	require.Contains(t, string(b), "DROP TABLE IF EXISTS reviews;")
	require.NoError(t, ValidateDir(dir))
}

func TestCreateSQLMigrationRequiresVerb(t *testing.T) {
	_, err := CreateSQLMigration(t.TempDir(), "orders index")
	require.Error(t, err)
	require.Contains(t, err.Error(), "must start with one of")
}

func TestRunRejectsInvalidDirBeforeTouchingDB(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "001_users.sql"), []byte("-- +goose Up\n-- +goose Down\n"), 0o644))

	conn := dbtest.Open(t)
	sqlDB, err := conn.DB()
	require.NoError(t, err)

	err = Run(context.Background(), sqlDB, dir, "up")
	require.Error(t, err)
	require.Contains(t, err.Error(), "validate migrations")
}

func TestCreateSQLMigrationSanitizesName(t *testing.T) {
	dir := t.TempDir()

	path, err := CreateSQLMigration(dir, "  Add Orders Index!! ")
	require.NoError(t, err)
	require.True(t, strings.HasSuffix(path, "_add_orders_index.sql"), path)
	require.NoError(t, ValidateDir(dir))

	_, err = CreateSQLMigration(dir, "!!!")
	require.Error(t, err)
}

func TestCartItemsMigrationKeysOnUserAndProduct(t *testing.T) {
	sql := readMigration(t, "_create_cart_items_table.sql")

	require.Contains(t, sql, "PRIMARY KEY (user_id, product_id)")
	require.Contains(t, sql, "REFERENCES products(id) ON DELETE CASCADE")
	require.Contains(t, sql, "CHECK (quantity >= 1)")
}

func TestOrderItemsMigrationKeepsSnapshotWhenProductDeleted(t *testing.T) {
	sql := readMigration(t, "_create_orders_tables.sql")

	require.Contains(t, sql, "product_id uuid,")
	require.Contains(t, sql, "REFERENCES products(id) ON DELETE SET NULL")
	require.Contains(t, sql, "REFERENCES orders(id) ON DELETE CASCADE")
}

func TestProductsMigrationEnforcesPositivePrice(t *testing.T) {
	sql := readMigration(t, "_create_products_table.sql")

	require.Contains(t, sql, "CHECK (price > 0)")
	require.Contains(t, sql, "idx_products_created_at_id")
}

func TestMaybeRunDevSkipsOutsideDev(t *testing.T) {
	cfg := &config.Config{
		App:          config.AppConfig{Env: config.AppEnvProd},
		FeatureFlags: config.FeatureFlagsConfig{AutoMigrate: true},
	}
	logg := logger.New(logger.Options{ServiceName: "test", Output: &bytes.Buffer{}})

	// a nil client would panic if MaybeRunDev touched it
	require.NoError(t, MaybeRunDev(context.Background(), cfg, logg, nil))
}

func TestMaybeRunDevAppliesSQLiteSchema(t *testing.T) {
	conn := dbtest.Open(t)
	require.NoError(t, conn.Exec("DROP TABLE outbox_events").Error)

	cfg := &config.Config{
		App:          config.AppConfig{Env: config.AppEnvDev},
		FeatureFlags: config.FeatureFlagsConfig{AutoMigrate: true},
	}
	logg := logger.New(logger.Options{ServiceName: "test", Output: &bytes.Buffer{}})

	require.NoError(t, MaybeRunDev(context.Background(), cfg, logg, db.NewFromGorm(conn)))
	require.True(t, conn.Migrator().HasTable("outbox_events"))
}
