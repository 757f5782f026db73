package tenantstore

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
)

// StoreFiles lists every per-user store file under the data directory.
// Paths are returned sorted, relative globbing order from the filesystem.
func (r *Registry) StoreFiles(_ context.Context) ([]string, error) {
	files, err := filepath.Glob(filepath.Join(r.dataDir, "user_*.db"))
	if err != nil {
		return nil, fmt.Errorf("list store files: %w", err)
	}
	return files, nil
}

// RepairSequence realigns the players autoincrement sequence of a single
// store file with the highest identifier currently in the table. Stores
// without a players table are left untouched.
func (r *Registry) RepairSequence(ctx context.Context, file string) error {
	db, err := openStore(file)
	if err != nil {
		return fmt.Errorf("open store %s: %w", filepath.Base(file), err)
	}
	defer db.Close()

	var tables int
	err = db.GetContext(ctx, &tables,
		`SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = 'players'`)
	if err != nil {
		return fmt.Errorf("inspect store %s: %w", filepath.Base(file), err)
	}
	if tables == 0 {
		return nil
	}

	var maxID sql.NullInt64
	if err := db.GetContext(ctx, &maxID, `SELECT MAX(id) FROM players`); err != nil {
		return fmt.Errorf("read max player id in %s: %w", filepath.Base(file), err)
	}

	if !maxID.Valid {
		if _, err := db.ExecContext(ctx,
			`DELETE FROM sqlite_sequence WHERE name = 'players'`); err != nil {
			return fmt.Errorf("clear players sequence in %s: %w", filepath.Base(file), err)
		}
		return nil
	}

	if _, err := db.ExecContext(ctx,
		`INSERT OR REPLACE INTO sqlite_sequence (name, seq) VALUES ('players', ?)`,
		maxID.Int64); err != nil {
		return fmt.Errorf("realign players sequence in %s: %w", filepath.Base(file), err)
	}

	return nil
}
