package migrate_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/angelmondragon/autoshop-backend/pkg/migrate"
)

func readMigration(t *testing.T, suffix string) string {
	t.Helper()
	matches, err := filepath.Glob(filepath.Join("migrations", "*_"+suffix+".sql"))
	if err != nil {
		t.Fatalf("glob migrations: %v", err)
	}
	if len(matches) == 0 {
		t.Fatalf("no %s migration file found", suffix)
	}
	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read migration file: %v", err)
	}
	return string(data)
}

func assertContains(t *testing.T, content string, checks []string) {
	t.Helper()
	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}

func TestPartsMigrationKeysParts(t *testing.T) {
	content := readMigration(t, "create_parts")
	assertContains(t, content, []string{
		"CREATE TABLE IF NOT EXISTS parts",
		"CONSTRAINT ux_parts_name_brand UNIQUE (part_name, brand_name)",
		"qty_left integer NOT NULL DEFAULT 0",
		"DROP TABLE IF EXISTS parts",
	})
	// withdrawing a purchase whose units were already used leaves qty_left negative.
	if strings.Contains(content, "qty_left >= 0") {
		t.Error("parts.qty_left must not be constrained to non-negative values")
	}
}

func TestProcurementsMigrationReferencesPartAndCreator(t *testing.T) {
	assertContains(t, readMigration(t, "create_procurements"), []string{
		"CREATE TABLE IF NOT EXISTS procurements",
		"FOREIGN KEY (part_id) REFERENCES parts(id) ON DELETE RESTRICT",
		"FOREIGN KEY (creator_id) REFERENCES users(id) ON DELETE RESTRICT",
		"CHECK (quantity_bought > 0)",
		"amount numeric(14,2)",
		"DROP TABLE IF EXISTS procurements",
	})
}

func TestDeploymentsMigrationConstraints(t *testing.T) {
	assertContains(t, readMigration(t, "create_deployments"), []string{
		"CREATE TABLE IF NOT EXISTS deployments",
		"CONSTRAINT ux_deployments_track_code UNIQUE (track_code)",
		"CHECK (release_status = false OR repair_status = 'Repaired')",
		"CREATE TABLE IF NOT EXISTS deployment_lines",
		"CONSTRAINT ux_deployment_lines_part UNIQUE (deployment_id, part_id)",
		"FOREIGN KEY (deployment_id) REFERENCES deployments(id) ON DELETE CASCADE",
		"CHECK (quantity_used > 0)",
		"DROP TABLE IF EXISTS deployment_lines",
		"DROP TABLE IF EXISTS deployments",
	})
}

func TestOutboxMigrationIndexesUnpublished(t *testing.T) {
	assertContains(t, readMigration(t, "create_outbox"), []string{
		"CREATE TABLE IF NOT EXISTS outbox_events",
		"WHERE published_at IS NULL",
		"CREATE TABLE IF NOT EXISTS outbox_dlq",
		"payload_json jsonb NOT NULL",
	})
}

func TestMigrationsDirIsValid(t *testing.T) {
	if err := migrate.ValidateDir("migrations"); err != nil {
		t.Fatalf("validate migrations: %v", err)
	}
}

func TestValidateDirRejectsBadFilename(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "add_parts.sql"), []byte("-- +goose Up\n-- +goose Down\n"), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	if err := migrate.ValidateDir(dir); err == nil {
		t.Fatal("expected filename validation error")
	}
}

func TestCreateSQLMigrationSanitizesName(t *testing.T) {
	dir := t.TempDir()
	path, err := migrate.CreateSQLMigration(dir, "Add Part Notes!")
	if err != nil {
		t.Fatalf("create migration: %v", err)
	}
	if !strings.HasSuffix(path, "_add_part_notes.sql") {
		t.Fatalf("unexpected migration path %q", path)
	}
	if err := migrate.ValidateDir(dir); err != nil {
		t.Fatalf("generated migration should validate: %v", err)
	}
}
