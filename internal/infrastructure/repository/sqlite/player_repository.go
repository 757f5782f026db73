package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/veldran/kingdom-manager/internal/domain/player"
	"github.com/veldran/kingdom-manager/internal/infrastructure/tenantstore"
	"github.com/veldran/kingdom-manager/internal/platform/logging"
	qb "github.com/veldran/kingdom-manager/internal/platform/querybuilder"
)

type PlayerRepository struct {
	registry *tenantstore.Registry
	logger   *logging.Logger
}

var playerSelectColumns = []string{
	"id",
	"name",
	"description",
	"role",
	"is_on_holidays",
	"mvp_count",
	"last_mvp_date",
	"created_at",
}

// One row per (player, linked event) pair; players crowned on several
// events repeat and are collapsed in Go, first match winning.
const listPlayersWithStatusQuery = `
SELECT p.id, p.name, p.description, p.role, p.is_on_holidays,
       p.mvp_count, p.last_mvp_date, p.created_at,
       CASE WHEN e.mvp_player_id IS NOT NULL THEN 1 ELSE 0 END AS is_mvp,
       e.name AS mvp_event
FROM players p
LEFT JOIN events e ON p.id = e.mvp_player_id
ORDER BY p.created_at DESC, p.id DESC`

func NewPlayerRepository(registry *tenantstore.Registry, logger *logging.Logger) *PlayerRepository {
	return &PlayerRepository{registry: registry, logger: logger}
}

func (r *PlayerRepository) List(ctx context.Context, userID int64) ([]player.WithStatus, error) {
	db, err := r.registry.Tenant(ctx, userID)
	if err != nil {
		return nil, err
	}

	var rows []playerWithStatusModel
	if err := db.SelectContext(ctx, &rows, listPlayersWithStatusQuery); err != nil {
		return nil, fmt.Errorf("select players with mvp status: %w", err)
	}

	seen := make(map[int64]struct{}, len(rows))
	out := make([]player.WithStatus, 0, len(rows))
	for _, row := range rows {
		if _, ok := seen[row.ID]; ok {
			continue
		}
		seen[row.ID] = struct{}{}
		out = append(out, player.WithStatus{
			Player:   row.toDomain(),
			IsMvp:    row.IsMvp != 0,
			MvpEvent: nullStringToString(row.MvpEvent),
		})
	}

	return out, nil
}

func (r *PlayerRepository) GetByID(ctx context.Context, userID, playerID int64) (player.Player, bool, error) {
	db, err := r.registry.Tenant(ctx, userID)
	if err != nil {
		return player.Player{}, false, err
	}

	query, args, err := qb.Select(playerSelectColumns...).From("players").
		Where(qb.Eq("id", playerID)).
		ToSQL()
	if err != nil {
		return player.Player{}, false, fmt.Errorf("build get player query: %w", err)
	}

	var row playerTableModel
	if err := db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return player.Player{}, false, nil
		}
		return player.Player{}, false, fmt.Errorf("get player by id: %w", err)
	}

	return row.toDomain(), true, nil
}

// Create repairs the players auto-increment sequence before inserting so
// ids stay monotonic even after the table was emptied or edited outside
// the application. The repair is best-effort and never fails the insert;
// the authoritative id comes from re-reading the inserted row.
func (r *PlayerRepository) Create(ctx context.Context, userID int64, name string) (player.Player, error) {
	db, err := r.registry.Tenant(ctx, userID)
	if err != nil {
		return player.Player{}, err
	}

	r.repairSequence(ctx, db)

	query, args, err := qb.InsertInto("players").
		Columns("name").
		Values(name).
		ToSQL()
	if err != nil {
		return player.Player{}, fmt.Errorf("build insert player query: %w", err)
	}

	result, err := db.ExecContext(ctx, query, args...)
	if err != nil {
		return player.Player{}, fmt.Errorf("insert player: %w", err)
	}

	return r.resolveInserted(ctx, db, result, name)
}

func (r *PlayerRepository) Update(ctx context.Context, userID int64, p player.Player) (bool, error) {
	db, err := r.registry.Tenant(ctx, userID)
	if err != nil {
		return false, err
	}

	role := p.Role
	if role == "" {
		role = player.RoleNormal
	}

	query, args, err := qb.Update("players").
		Set("name", p.Name).
		Set("description", p.Description).
		Set("role", string(role)).
		Set("is_on_holidays", boolToInt(p.IsOnHolidays)).
		Where(qb.Eq("id", p.ID)).
		ToSQL()
	if err != nil {
		return false, fmt.Errorf("build update player query: %w", err)
	}

	result, err := db.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("update player: %w", err)
	}

	return rowsAffected(result), nil
}

func (r *PlayerRepository) Delete(ctx context.Context, userID, playerID int64) (bool, error) {
	db, err := r.registry.Tenant(ctx, userID)
	if err != nil {
		return false, err
	}

	// Events keep their mvp_player_id pointing at the removed player;
	// status reads join against live rows and simply stop matching.
	query, args, err := qb.DeleteFrom("players").
		Where(qb.Eq("id", playerID)).
		ToSQL()
	if err != nil {
		return false, fmt.Errorf("build delete player query: %w", err)
	}

	result, err := db.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("delete player: %w", err)
	}

	return rowsAffected(result), nil
}

func (r *PlayerRepository) IncrementMvp(ctx context.Context, userID, playerID int64, at time.Time) (bool, error) {
	db, err := r.registry.Tenant(ctx, userID)
	if err != nil {
		return false, err
	}

	query, args, err := qb.Update("players").
		SetExpr("mvp_count", "mvp_count + 1").
		Set("last_mvp_date", formatTimestamp(at)).
		Where(qb.Eq("id", playerID)).
		ToSQL()
	if err != nil {
		return false, fmt.Errorf("build increment mvp query: %w", err)
	}

	result, err := db.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("increment mvp count: %w", err)
	}

	return rowsAffected(result), nil
}

func (r *PlayerRepository) ListRotation(ctx context.Context, userID int64) ([]player.Player, error) {
	db, err := r.registry.Tenant(ctx, userID)
	if err != nil {
		return nil, err
	}

	query, args, err := qb.Select(playerSelectColumns...).From("players").
		OrderBy("mvp_count ASC", "last_mvp_date ASC").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build rotation query: %w", err)
	}

	var rows []playerTableModel
	if err := db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select rotation order: %w", err)
	}

	out := make([]player.Player, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}

	return out, nil
}

func (r *PlayerRepository) ResetRotation(ctx context.Context, userID int64) error {
	db, err := r.registry.Tenant(ctx, userID)
	if err != nil {
		return err
	}

	query, args, err := qb.Update("players").
		Set("mvp_count", 0).
		Set("last_mvp_date", nil).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build reset rotation query: %w", err)
	}

	if _, err := db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("reset rotation: %w", err)
	}

	return nil
}

// repairSequence pins the sqlite_sequence row for players to the current
// max id, or clears it when the table is empty. Each step swallows its
// own error: the guard tolerates stores mutated by external tooling and
// must never block the insert that follows.
func (r *PlayerRepository) repairSequence(ctx context.Context, db *sqlx.DB) {
	var maxID sql.NullInt64
	if err := db.GetContext(ctx, &maxID, `SELECT MAX(id) FROM players`); err != nil {
		r.logger.WarnContext(ctx, "player sequence inspection failed", "error", err)
		return
	}

	if !maxID.Valid {
		if _, err := db.ExecContext(ctx, `DELETE FROM sqlite_sequence WHERE name = 'players'`); err != nil {
			r.logger.WarnContext(ctx, "player sequence reset failed", "error", err)
		}
		return
	}

	if _, err := db.ExecContext(ctx,
		`INSERT OR REPLACE INTO sqlite_sequence (name, seq) VALUES ('players', ?)`, maxID.Int64,
	); err != nil {
		r.logger.WarnContext(ctx, "player sequence repair failed", "error", err)
	}
}

func (r *PlayerRepository) resolveInserted(ctx context.Context, db *sqlx.DB, result sql.Result, name string) (player.Player, error) {
	rowID, err := result.LastInsertId()
	if err == nil {
		var row playerTableModel
		err = db.GetContext(ctx, &row,
			`SELECT id, name, description, role, is_on_holidays, mvp_count, last_mvp_date, created_at
			 FROM players WHERE rowid = ?`, rowID,
		)
		if err == nil {
			return row.toDomain(), nil
		}
		r.logger.WarnContext(ctx, "player lookup by rowid failed, falling back to name", "error", err)
	}

	var row playerTableModel
	if err := db.GetContext(ctx, &row,
		`SELECT id, name, description, role, is_on_holidays, mvp_count, last_mvp_date, created_at
		 FROM players WHERE name = ? ORDER BY created_at DESC, id DESC LIMIT 1`, name,
	); err != nil {
		return player.Player{}, fmt.Errorf("resolve inserted player: %w", err)
	}

	return row.toDomain(), nil
}

func rowsAffected(result sql.Result) bool {
	affected, err := result.RowsAffected()
	if err != nil {
		return false
	}
	return affected > 0
}
