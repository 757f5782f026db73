package tenantstore

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/veldran/kingdom-manager/internal/platform/logging"
)

// Base tables for one tenant store. Creation is idempotent so the
// provisioner can run on every store open.
var tenantTables = []string{
	`CREATE TABLE IF NOT EXISTS players (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		description TEXT,
		role TEXT DEFAULT 'normal',
		is_on_holidays INTEGER DEFAULT 0,
		mvp_count INTEGER DEFAULT 0,
		last_mvp_date DATETIME,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS events (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		mvp_player_id INTEGER,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		FOREIGN KEY (mvp_player_id) REFERENCES players (id)
	)`,
	`CREATE TABLE IF NOT EXISTS alliances (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		description TEXT,
		is_blacklisted INTEGER DEFAULT 0,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS event_alliances (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		event_id INTEGER NOT NULL,
		alliance_id INTEGER NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		FOREIGN KEY (event_id) REFERENCES events (id),
		FOREIGN KEY (alliance_id) REFERENCES alliances (id)
	)`,
}

// Additive column migrations for stores created by earlier schema
// revisions. Applied only when introspection shows the column is absent,
// so re-running never errors.
type columnMigration struct {
	table  string
	column string
	ddl    string
}

var tenantColumnMigrations = []columnMigration{
	{table: "players", column: "description", ddl: `ALTER TABLE players ADD COLUMN description TEXT`},
	{table: "players", column: "role", ddl: `ALTER TABLE players ADD COLUMN role TEXT DEFAULT 'normal'`},
	{table: "players", column: "is_on_holidays", ddl: `ALTER TABLE players ADD COLUMN is_on_holidays INTEGER DEFAULT 0`},
	{table: "alliances", column: "description", ddl: `ALTER TABLE alliances ADD COLUMN description TEXT`},
	{table: "alliances", column: "is_blacklisted", ddl: `ALTER TABLE alliances ADD COLUMN is_blacklisted INTEGER DEFAULT 0`},
}

// Shared-store schema: accounts, tenant mappings, feedback.
var sharedTables = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		username TEXT UNIQUE NOT NULL,
		password TEXT NOT NULL,
		is_admin BOOLEAN DEFAULT 0,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS user_databases (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id INTEGER NOT NULL,
		database_name TEXT NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		FOREIGN KEY (user_id) REFERENCES users (id)
	)`,
	`CREATE TABLE IF NOT EXISTS feedback (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT,
		email TEXT,
		subject TEXT,
		message TEXT NOT NULL,
		feedback_type TEXT NOT NULL DEFAULT 'general',
		donation_amount DECIMAL(10,2),
		status TEXT DEFAULT 'new',
		admin_notes TEXT,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME
	)`,
}

// ProvisionTenant ensures a tenant store has the full table and column
// set. Base tables are created before column migrations run because the
// migrations reference them.
func ProvisionTenant(ctx context.Context, db *sqlx.DB, logger *logging.Logger) error {
	for _, stmt := range tenantTables {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("create tenant table: %w", err)
		}
	}

	for _, m := range tenantColumnMigrations {
		exists, err := hasColumn(ctx, db, m.table, m.column)
		if err != nil {
			return fmt.Errorf("inspect %s.%s: %w", m.table, m.column, err)
		}
		if exists {
			continue
		}
		if _, err := db.ExecContext(ctx, m.ddl); err != nil {
			// A concurrent open may have added the column between the
			// introspection and the ALTER. Treat as drift and move on.
			logger.WarnContext(ctx, "tenant column migration skipped",
				"table", m.table,
				"column", m.column,
				"error", err,
			)
		}
	}

	return nil
}

// ProvisionShared ensures the shared store has the users, user_databases
// and feedback tables.
func ProvisionShared(ctx context.Context, db *sqlx.DB) error {
	for _, stmt := range sharedTables {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("create shared table: %w", err)
		}
	}

	return nil
}

func hasColumn(ctx context.Context, db *sqlx.DB, table, column string) (bool, error) {
	var count int
	query := `SELECT COUNT(*) FROM pragma_table_info(?) WHERE name = ?`
	if err := db.GetContext(ctx, &count, query, table, column); err != nil {
		return false, err
	}

	return count > 0, nil
}
