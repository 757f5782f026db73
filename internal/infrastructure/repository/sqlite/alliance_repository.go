package sqlite

import (
	"context"
	"fmt"

	"github.com/veldran/kingdom-manager/internal/domain/alliance"
	"github.com/veldran/kingdom-manager/internal/infrastructure/tenantstore"
	qb "github.com/veldran/kingdom-manager/internal/platform/querybuilder"
)

type AllianceRepository struct {
	registry *tenantstore.Registry
}

var allianceSelectColumns = []string{
	"id",
	"name",
	"description",
	"is_blacklisted",
	"created_at",
}

// One row per (alliance, event link) pair, newest link first; collapsed
// in Go so each alliance carries its most recent link only.
const listAlliancesQuery = `
SELECT a.id, a.name, a.description, a.is_blacklisted, a.created_at,
       e.name AS event_name, ea.created_at AS assigned_at
FROM alliances a
LEFT JOIN event_alliances ea ON a.id = ea.alliance_id
LEFT JOIN events e ON ea.event_id = e.id
ORDER BY a.created_at DESC, a.id DESC, ea.created_at DESC`

func NewAllianceRepository(registry *tenantstore.Registry) *AllianceRepository {
	return &AllianceRepository{registry: registry}
}

func (r *AllianceRepository) List(ctx context.Context, userID int64) ([]alliance.WithEvent, error) {
	db, err := r.registry.Tenant(ctx, userID)
	if err != nil {
		return nil, err
	}

	var rows []allianceWithEventModel
	if err := db.SelectContext(ctx, &rows, listAlliancesQuery); err != nil {
		return nil, fmt.Errorf("select alliances: %w", err)
	}

	seen := make(map[int64]struct{}, len(rows))
	out := make([]alliance.WithEvent, 0, len(rows))
	for _, row := range rows {
		if _, ok := seen[row.ID]; ok {
			continue
		}
		seen[row.ID] = struct{}{}
		out = append(out, row.toDomain())
	}

	return out, nil
}

func (r *AllianceRepository) GetByID(ctx context.Context, userID, allianceID int64) (alliance.Alliance, bool, error) {
	db, err := r.registry.Tenant(ctx, userID)
	if err != nil {
		return alliance.Alliance{}, false, err
	}

	query, args, err := qb.Select(allianceSelectColumns...).From("alliances").
		Where(qb.Eq("id", allianceID)).
		ToSQL()
	if err != nil {
		return alliance.Alliance{}, false, fmt.Errorf("build get alliance query: %w", err)
	}

	var row allianceTableModel
	if err := db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return alliance.Alliance{}, false, nil
		}
		return alliance.Alliance{}, false, fmt.Errorf("get alliance by id: %w", err)
	}

	return row.toDomain(), true, nil
}

func (r *AllianceRepository) Create(ctx context.Context, userID int64, a alliance.Alliance) (alliance.Alliance, error) {
	db, err := r.registry.Tenant(ctx, userID)
	if err != nil {
		return alliance.Alliance{}, err
	}

	query, args, err := qb.InsertInto("alliances").
		Columns("name", "description").
		Values(a.Name, a.Description).
		ToSQL()
	if err != nil {
		return alliance.Alliance{}, fmt.Errorf("build insert alliance query: %w", err)
	}

	result, err := db.ExecContext(ctx, query, args...)
	if err != nil {
		return alliance.Alliance{}, fmt.Errorf("insert alliance: %w", err)
	}

	rowID, err := result.LastInsertId()
	if err != nil {
		return alliance.Alliance{}, fmt.Errorf("resolve inserted alliance id: %w", err)
	}

	var row allianceTableModel
	if err := db.GetContext(ctx, &row,
		`SELECT id, name, description, is_blacklisted, created_at FROM alliances WHERE rowid = ?`, rowID,
	); err != nil {
		return alliance.Alliance{}, fmt.Errorf("read inserted alliance: %w", err)
	}

	return row.toDomain(), nil
}

func (r *AllianceRepository) Update(ctx context.Context, userID int64, a alliance.Alliance) (bool, error) {
	db, err := r.registry.Tenant(ctx, userID)
	if err != nil {
		return false, err
	}

	query, args, err := qb.Update("alliances").
		Set("name", a.Name).
		Set("description", a.Description).
		Where(qb.Eq("id", a.ID)).
		ToSQL()
	if err != nil {
		return false, fmt.Errorf("build update alliance query: %w", err)
	}

	result, err := db.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("update alliance: %w", err)
	}

	return rowsAffected(result), nil
}

// Delete removes the alliance's junction rows and the alliance itself in
// one transaction.
func (r *AllianceRepository) Delete(ctx context.Context, userID, allianceID int64) (bool, error) {
	db, err := r.registry.Tenant(ctx, userID)
	if err != nil {
		return false, err
	}

	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("begin delete alliance tx: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM event_alliances WHERE alliance_id = ?`, allianceID,
	); err != nil {
		_ = tx.Rollback()
		return false, fmt.Errorf("delete alliance links: %w", err)
	}

	result, err := tx.ExecContext(ctx, `DELETE FROM alliances WHERE id = ?`, allianceID)
	if err != nil {
		_ = tx.Rollback()
		return false, fmt.Errorf("delete alliance: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("commit delete alliance tx: %w", err)
	}

	return rowsAffected(result), nil
}

func (r *AllianceRepository) SetBlacklisted(ctx context.Context, userID, allianceID int64, blacklisted bool) (bool, error) {
	db, err := r.registry.Tenant(ctx, userID)
	if err != nil {
		return false, err
	}

	query, args, err := qb.Update("alliances").
		Set("is_blacklisted", boolToInt(blacklisted)).
		Where(qb.Eq("id", allianceID)).
		ToSQL()
	if err != nil {
		return false, fmt.Errorf("build blacklist query: %w", err)
	}

	result, err := db.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("set alliance blacklist: %w", err)
	}

	return rowsAffected(result), nil
}
