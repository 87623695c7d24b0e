package database

import (
	"io/fs"
	"strings"
	"testing"
)

func readMigration(t *testing.T, name string) string {
	t.Helper()
	content, err := fs.ReadFile(migrationsFS, MigrationsDir+"/"+name)
	if err != nil {
		t.Fatalf("Failed to read migration %s: %v", name, err)
	}
	return string(content)
}

func TestMigrationFilesExist(t *testing.T) {
	expectedMigrations := []string{
		"00001_create_users_table.sql",
		"00002_create_products_table.sql",
		"00003_create_orders_table.sql",
		"00004_create_order_items_table.sql",
		"00005_create_updated_at_trigger.sql",
	}

	for _, migration := range expectedMigrations {
		if _, err := fs.Stat(migrationsFS, MigrationsDir+"/"+migration); err != nil {
			t.Errorf("Migration file %s is not embedded: %v", migration, err)
		}
	}
}

func TestMigrationFilesHaveUpAndDown(t *testing.T) {
	files, err := fs.ReadDir(migrationsFS, MigrationsDir)
	if err != nil {
		t.Fatalf("Failed to read migrations directory: %v", err)
	}

	sqlFileCount := 0
	for _, file := range files {
		if file.IsDir() || !strings.HasSuffix(file.Name(), ".sql") {
			continue
		}

		sqlFileCount++
		contentStr := readMigration(t, file.Name())

		for _, directive := range []string{
			"-- +goose Up",
			"-- +goose Down",
			"-- +goose StatementBegin",
			"-- +goose StatementEnd",
		} {
			if !strings.Contains(contentStr, directive) {
				t.Errorf("Migration file %s missing '%s' directive", file.Name(), directive)
			}
		}
	}

	if sqlFileCount == 0 {
		t.Error("No SQL migration files found")
	}
}

func TestMigrationFilesCreateExpectedTables(t *testing.T) {
	expectedTables := map[string]string{
		"users":       "00001_create_users_table.sql",
		"products":    "00002_create_products_table.sql",
		"orders":      "00003_create_orders_table.sql",
		"order_items": "00004_create_order_items_table.sql",
	}

	for tableName, migrationFile := range expectedTables {
		contentStr := readMigration(t, migrationFile)

		if !strings.Contains(contentStr, "CREATE TABLE IF NOT EXISTS "+tableName) {
			t.Errorf("Migration file %s does not create table %s", migrationFile, tableName)
		}
		if !strings.Contains(contentStr, "DROP TABLE IF EXISTS "+tableName) {
			t.Errorf("Migration file %s does not drop table %s in down section", migrationFile, tableName)
		}
	}
}

func TestProductsTableGuardsStock(t *testing.T) {
	contentStr := readMigration(t, "00002_create_products_table.sql")

	requiredColumns := []string{
		"id UUID PRIMARY KEY",
		"name VARCHAR",
		"description TEXT",
		"price DECIMAL",
		"image VARCHAR",
		"stock INTEGER",
		"CHECK (stock >= 0)",
		"CHECK (price > 0)",
	}
	for _, column := range requiredColumns {
		if !strings.Contains(contentStr, column) {
			t.Errorf("Products table missing definition: %s", column)
		}
	}
}

func TestOrdersTableHasStatusConstraint(t *testing.T) {
	contentStr := readMigration(t, "00003_create_orders_table.sql")

	for _, status := range []string{"pending", "processing", "shipped", "delivered", "cancelled"} {
		if !strings.Contains(contentStr, "'"+status+"'") {
			t.Errorf("Orders table status constraint missing value: %s", status)
		}
	}
}

func TestOrderItemsReferenceOrdersAndProducts(t *testing.T) {
	contentStr := readMigration(t, "00004_create_order_items_table.sql")

	if !strings.Contains(contentStr, "FOREIGN KEY (order_id) REFERENCES orders(id)") {
		t.Error("order_items missing foreign key to orders")
	}
	if !strings.Contains(contentStr, "FOREIGN KEY (product_id) REFERENCES products(id)") {
		t.Error("order_items missing foreign key to products")
	}
}
