package tenantstore

import (
	"context"
	"path/filepath"
	"reflect"
	"sort"
	"testing"

	"github.com/jmoiron/sqlx"

	"github.com/veldran/kingdom-manager/internal/platform/logging"
)

func openTestStore(t *testing.T) *sqlx.DB {
	t.Helper()

	db, err := openStore(filepath.Join(t.TempDir(), "tenant.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Errorf("close store: %v", err)
		}
	})

	return db
}

func tableColumns(t *testing.T, db *sqlx.DB, table string) []string {
	t.Helper()

	var columns []string
	if err := db.SelectContext(context.Background(), &columns,
		`SELECT name FROM pragma_table_info(?) ORDER BY name`, table,
	); err != nil {
		t.Fatalf("introspect %s: %v", table, err)
	}

	return columns
}

func TestProvisionTenant_CreatesFullSchema(t *testing.T) {
	ctx := context.Background()
	db := openTestStore(t)

	if err := ProvisionTenant(ctx, db, logging.NewNop()); err != nil {
		t.Fatalf("provision: %v", err)
	}

	want := map[string][]string{
		"players":         {"created_at", "description", "id", "is_on_holidays", "last_mvp_date", "mvp_count", "name", "role"},
		"events":          {"created_at", "id", "mvp_player_id", "name"},
		"alliances":       {"created_at", "description", "id", "is_blacklisted", "name"},
		"event_alliances": {"alliance_id", "created_at", "event_id", "id"},
	}
	for table, columns := range want {
		got := tableColumns(t, db, table)
		sort.Strings(got)
		if !reflect.DeepEqual(got, columns) {
			t.Fatalf("table %s columns = %v, want %v", table, got, columns)
		}
	}
}

func TestProvisionTenant_Idempotent(t *testing.T) {
	ctx := context.Background()
	db := openTestStore(t)

	if err := ProvisionTenant(ctx, db, logging.NewNop()); err != nil {
		t.Fatalf("first provision: %v", err)
	}
	first := tableColumns(t, db, "players")

	if err := ProvisionTenant(ctx, db, logging.NewNop()); err != nil {
		t.Fatalf("second provision: %v", err)
	}
	second := tableColumns(t, db, "players")

	if !reflect.DeepEqual(first, second) {
		t.Fatalf("column set changed on re-provision: %v vs %v", first, second)
	}
}

func TestProvisionTenant_UpgradesLegacyStore(t *testing.T) {
	ctx := context.Background()
	db := openTestStore(t)

	// A store created before the profile columns existed.
	legacy := []string{
		`CREATE TABLE players (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL,
			mvp_count INTEGER DEFAULT 0,
			last_mvp_date DATETIME,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE alliances (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,
	}
	for _, stmt := range legacy {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			t.Fatalf("seed legacy schema: %v", err)
		}
	}
	if _, err := db.ExecContext(ctx, `INSERT INTO players (name) VALUES (?)`, "Borin"); err != nil {
		t.Fatalf("seed legacy row: %v", err)
	}

	if err := ProvisionTenant(ctx, db, logging.NewNop()); err != nil {
		t.Fatalf("provision legacy store: %v", err)
	}

	for _, column := range []string{"description", "role", "is_on_holidays"} {
		exists, err := hasColumn(ctx, db, "players", column)
		if err != nil {
			t.Fatalf("introspect players.%s: %v", column, err)
		}
		if !exists {
			t.Fatalf("expected players.%s after upgrade", column)
		}
	}
	for _, column := range []string{"description", "is_blacklisted"} {
		exists, err := hasColumn(ctx, db, "alliances", column)
		if err != nil {
			t.Fatalf("introspect alliances.%s: %v", column, err)
		}
		if !exists {
			t.Fatalf("expected alliances.%s after upgrade", column)
		}
	}

	// Existing rows survive and pick up defaults.
	var role string
	if err := db.GetContext(ctx, &role, `SELECT COALESCE(role, 'normal') FROM players WHERE name = ?`, "Borin"); err != nil {
		t.Fatalf("read upgraded row: %v", err)
	}
	if role != "normal" {
		t.Fatalf("expected default role, got %q", role)
	}
}
