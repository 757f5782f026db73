package sqlite

import (
	"context"
	"fmt"

	"github.com/veldran/kingdom-manager/internal/domain/alliance"
	"github.com/veldran/kingdom-manager/internal/domain/event"
	"github.com/veldran/kingdom-manager/internal/infrastructure/tenantstore"
	qb "github.com/veldran/kingdom-manager/internal/platform/querybuilder"
)

type EventRepository struct {
	registry *tenantstore.Registry
}

var eventSelectColumns = []string{
	"id",
	"name",
	"mvp_player_id",
	"created_at",
}

const listEventsQuery = `
SELECT e.id, e.name, e.mvp_player_id, e.created_at,
       p.name AS mvp_player_name
FROM events e
LEFT JOIN players p ON e.mvp_player_id = p.id
ORDER BY e.created_at DESC, e.id DESC`

const listEventsByAllianceQuery = `
SELECT e.id, e.name, e.mvp_player_id, e.created_at,
       p.name AS mvp_player_name
FROM events e
INNER JOIN event_alliances ea ON e.id = ea.event_id
LEFT JOIN players p ON e.mvp_player_id = p.id
WHERE ea.alliance_id = ?
ORDER BY e.created_at DESC, e.id DESC`

const listAlliancesOfEventQuery = `
SELECT a.id, a.name, a.description, a.is_blacklisted, a.created_at
FROM alliances a
INNER JOIN event_alliances ea ON a.id = ea.alliance_id
WHERE ea.event_id = ?
ORDER BY ea.created_at DESC, a.id DESC`

func NewEventRepository(registry *tenantstore.Registry) *EventRepository {
	return &EventRepository{registry: registry}
}

func (r *EventRepository) List(ctx context.Context, userID int64) ([]event.WithMvpName, error) {
	db, err := r.registry.Tenant(ctx, userID)
	if err != nil {
		return nil, err
	}

	var rows []eventWithMvpNameModel
	if err := db.SelectContext(ctx, &rows, listEventsQuery); err != nil {
		return nil, fmt.Errorf("select events: %w", err)
	}

	out := make([]event.WithMvpName, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}

	return out, nil
}

func (r *EventRepository) GetByID(ctx context.Context, userID, eventID int64) (event.Event, bool, error) {
	db, err := r.registry.Tenant(ctx, userID)
	if err != nil {
		return event.Event{}, false, err
	}

	query, args, err := qb.Select(eventSelectColumns...).From("events").
		Where(qb.Eq("id", eventID)).
		ToSQL()
	if err != nil {
		return event.Event{}, false, fmt.Errorf("build get event query: %w", err)
	}

	var row eventTableModel
	if err := db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return event.Event{}, false, nil
		}
		return event.Event{}, false, fmt.Errorf("get event by id: %w", err)
	}

	return row.toDomain(), true, nil
}

func (r *EventRepository) Create(ctx context.Context, userID int64, e event.Event) (event.Event, error) {
	db, err := r.registry.Tenant(ctx, userID)
	if err != nil {
		return event.Event{}, err
	}

	query, args, err := qb.InsertInto("events").
		Columns("name", "mvp_player_id").
		Values(e.Name, ptrToAny(e.MvpPlayerID)).
		ToSQL()
	if err != nil {
		return event.Event{}, fmt.Errorf("build insert event query: %w", err)
	}

	result, err := db.ExecContext(ctx, query, args...)
	if err != nil {
		return event.Event{}, fmt.Errorf("insert event: %w", err)
	}

	rowID, err := result.LastInsertId()
	if err != nil {
		return event.Event{}, fmt.Errorf("resolve inserted event id: %w", err)
	}

	var row eventTableModel
	if err := db.GetContext(ctx, &row,
		`SELECT id, name, mvp_player_id, created_at FROM events WHERE rowid = ?`, rowID,
	); err != nil {
		return event.Event{}, fmt.Errorf("read inserted event: %w", err)
	}

	return row.toDomain(), nil
}

func (r *EventRepository) Update(ctx context.Context, userID int64, e event.Event) (bool, error) {
	db, err := r.registry.Tenant(ctx, userID)
	if err != nil {
		return false, err
	}

	query, args, err := qb.Update("events").
		Set("name", e.Name).
		Set("mvp_player_id", ptrToAny(e.MvpPlayerID)).
		Where(qb.Eq("id", e.ID)).
		ToSQL()
	if err != nil {
		return false, fmt.Errorf("build update event query: %w", err)
	}

	result, err := db.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("update event: %w", err)
	}

	return rowsAffected(result), nil
}

// Delete removes the event's junction rows and the event itself in one
// transaction so concurrent readers never observe a half-deleted event.
func (r *EventRepository) Delete(ctx context.Context, userID, eventID int64) (bool, error) {
	db, err := r.registry.Tenant(ctx, userID)
	if err != nil {
		return false, err
	}

	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("begin delete event tx: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM event_alliances WHERE event_id = ?`, eventID,
	); err != nil {
		_ = tx.Rollback()
		return false, fmt.Errorf("delete event alliance links: %w", err)
	}

	result, err := tx.ExecContext(ctx, `DELETE FROM events WHERE id = ?`, eventID)
	if err != nil {
		_ = tx.Rollback()
		return false, fmt.Errorf("delete event: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("commit delete event tx: %w", err)
	}

	return rowsAffected(result), nil
}

func (r *EventRepository) SetMvpPlayer(ctx context.Context, userID, eventID, playerID int64) (bool, error) {
	db, err := r.registry.Tenant(ctx, userID)
	if err != nil {
		return false, err
	}

	query, args, err := qb.Update("events").
		Set("mvp_player_id", playerID).
		Where(qb.Eq("id", eventID)).
		ToSQL()
	if err != nil {
		return false, fmt.Errorf("build set event mvp query: %w", err)
	}

	result, err := db.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("set event mvp: %w", err)
	}

	return rowsAffected(result), nil
}

func (r *EventRepository) ListByMvpPlayer(ctx context.Context, userID, playerID int64) ([]event.Event, error) {
	db, err := r.registry.Tenant(ctx, userID)
	if err != nil {
		return nil, err
	}

	query, args, err := qb.Select(eventSelectColumns...).From("events").
		Where(qb.Eq("mvp_player_id", playerID)).
		OrderBy("created_at DESC", "id DESC").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build mvp history query: %w", err)
	}

	var rows []eventTableModel
	if err := db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select events by mvp player: %w", err)
	}

	out := make([]event.Event, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}

	return out, nil
}

func (r *EventRepository) LinkAlliance(ctx context.Context, userID, eventID, allianceID int64) (event.AllianceLink, bool, error) {
	db, err := r.registry.Tenant(ctx, userID)
	if err != nil {
		return event.AllianceLink{}, false, err
	}

	var existing int64
	err = db.GetContext(ctx, &existing,
		`SELECT id FROM event_alliances WHERE event_id = ? AND alliance_id = ?`, eventID, allianceID,
	)
	if err == nil {
		return event.AllianceLink{}, true, nil
	}
	if !isNotFound(err) {
		return event.AllianceLink{}, false, fmt.Errorf("check alliance link: %w", err)
	}

	query, args, err := qb.InsertInto("event_alliances").
		Columns("event_id", "alliance_id").
		Values(eventID, allianceID).
		ToSQL()
	if err != nil {
		return event.AllianceLink{}, false, fmt.Errorf("build insert alliance link query: %w", err)
	}

	result, err := db.ExecContext(ctx, query, args...)
	if err != nil {
		return event.AllianceLink{}, false, fmt.Errorf("insert alliance link: %w", err)
	}

	rowID, err := result.LastInsertId()
	if err != nil {
		return event.AllianceLink{}, false, fmt.Errorf("resolve inserted link id: %w", err)
	}

	var row allianceLinkTableModel
	if err := db.GetContext(ctx, &row,
		`SELECT id, event_id, alliance_id, created_at FROM event_alliances WHERE rowid = ?`, rowID,
	); err != nil {
		return event.AllianceLink{}, false, fmt.Errorf("read inserted link: %w", err)
	}

	return row.toDomain(), false, nil
}

func (r *EventRepository) UnlinkAlliance(ctx context.Context, userID, eventID, allianceID int64) (bool, error) {
	db, err := r.registry.Tenant(ctx, userID)
	if err != nil {
		return false, err
	}

	query, args, err := qb.DeleteFrom("event_alliances").
		Where(
			qb.Eq("event_id", eventID),
			qb.Eq("alliance_id", allianceID),
		).
		ToSQL()
	if err != nil {
		return false, fmt.Errorf("build delete alliance link query: %w", err)
	}

	result, err := db.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("delete alliance link: %w", err)
	}

	return rowsAffected(result), nil
}

func (r *EventRepository) ListAlliances(ctx context.Context, userID, eventID int64) ([]alliance.Alliance, error) {
	db, err := r.registry.Tenant(ctx, userID)
	if err != nil {
		return nil, err
	}

	var rows []allianceTableModel
	if err := db.SelectContext(ctx, &rows, listAlliancesOfEventQuery, eventID); err != nil {
		return nil, fmt.Errorf("select alliances of event: %w", err)
	}

	out := make([]alliance.Alliance, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}

	return out, nil
}

func (r *EventRepository) ListByAlliance(ctx context.Context, userID, allianceID int64) ([]event.WithMvpName, error) {
	db, err := r.registry.Tenant(ctx, userID)
	if err != nil {
		return nil, err
	}

	var rows []eventWithMvpNameModel
	if err := db.SelectContext(ctx, &rows, listEventsByAllianceQuery, allianceID); err != nil {
		return nil, fmt.Errorf("select events of alliance: %w", err)
	}

	out := make([]event.WithMvpName, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}

	return out, nil
}
