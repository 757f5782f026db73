package sqlite

import (
	"context"
	"fmt"

	"github.com/veldran/kingdom-manager/internal/domain/alliance"
	"github.com/veldran/kingdom-manager/internal/domain/event"
	"github.com/veldran/kingdom-manager/internal/domain/player"
	"github.com/veldran/kingdom-manager/internal/infrastructure/tenantstore"
	qb "github.com/veldran/kingdom-manager/internal/platform/querybuilder"
)

// DashboardRepository serves the per-tenant overview queries. Counts and
// recent-activity lists are independent reads so the service layer can
// fan them out concurrently.
type DashboardRepository struct {
	registry *tenantstore.Registry
}

const recentMvpPlayersQuery = `
SELECT DISTINCT p.id, p.name, p.description, p.role, p.is_on_holidays,
       p.mvp_count, p.last_mvp_date, p.created_at,
       1 AS is_mvp,
       e.name AS mvp_event
FROM players p
INNER JOIN events e ON p.id = e.mvp_player_id
ORDER BY e.created_at DESC
LIMIT 5`

const recentEventsQuery = `
SELECT e.id, e.name, e.mvp_player_id, e.created_at,
       p.name AS mvp_player_name
FROM events e
LEFT JOIN players p ON e.mvp_player_id = p.id
ORDER BY e.created_at DESC, e.id DESC
LIMIT 5`

const recentAlliancesQuery = `
SELECT a.id, a.name, a.description, a.is_blacklisted, a.created_at,
       e.name AS event_name, ea.created_at AS assigned_at
FROM alliances a
LEFT JOIN event_alliances ea ON a.id = ea.alliance_id
LEFT JOIN events e ON ea.event_id = e.id
ORDER BY a.created_at DESC, a.id DESC, ea.created_at DESC
LIMIT 5`

func NewDashboardRepository(registry *tenantstore.Registry) *DashboardRepository {
	return &DashboardRepository{registry: registry}
}

func (r *DashboardRepository) CountRows(ctx context.Context, userID int64, table string) (int64, error) {
	db, err := r.registry.Tenant(ctx, userID)
	if err != nil {
		return 0, err
	}

	query, args, err := qb.Select("COUNT(*)").From(table).ToSQL()
	if err != nil {
		return 0, fmt.Errorf("build count query: %w", err)
	}

	var count int64
	if err := db.GetContext(ctx, &count, query, args...); err != nil {
		return 0, fmt.Errorf("count %s: %w", table, err)
	}

	return count, nil
}

func (r *DashboardRepository) RecentMvpPlayers(ctx context.Context, userID int64) ([]player.WithStatus, error) {
	db, err := r.registry.Tenant(ctx, userID)
	if err != nil {
		return nil, err
	}

	var rows []playerWithStatusModel
	if err := db.SelectContext(ctx, &rows, recentMvpPlayersQuery); err != nil {
		return nil, fmt.Errorf("select recent mvp players: %w", err)
	}

	out := make([]player.WithStatus, 0, len(rows))
	for _, row := range rows {
		out = append(out, player.WithStatus{
			Player:   row.toDomain(),
			IsMvp:    true,
			MvpEvent: nullStringToString(row.MvpEvent),
		})
	}

	return out, nil
}

func (r *DashboardRepository) RecentEvents(ctx context.Context, userID int64) ([]event.WithMvpName, error) {
	db, err := r.registry.Tenant(ctx, userID)
	if err != nil {
		return nil, err
	}

	var rows []eventWithMvpNameModel
	if err := db.SelectContext(ctx, &rows, recentEventsQuery); err != nil {
		return nil, fmt.Errorf("select recent events: %w", err)
	}

	out := make([]event.WithMvpName, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}

	return out, nil
}

func (r *DashboardRepository) RecentAlliances(ctx context.Context, userID int64) ([]alliance.WithEvent, error) {
	db, err := r.registry.Tenant(ctx, userID)
	if err != nil {
		return nil, err
	}

	var rows []allianceWithEventModel
	if err := db.SelectContext(ctx, &rows, recentAlliancesQuery); err != nil {
		return nil, fmt.Errorf("select recent alliances: %w", err)
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
