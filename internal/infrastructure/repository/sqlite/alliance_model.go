package sqlite

import (
	"database/sql"

	"github.com/veldran/kingdom-manager/internal/domain/alliance"
)

type allianceTableModel struct {
	ID            int64          `db:"id"`
	Name          string         `db:"name"`
	Description   sql.NullString `db:"description"`
	IsBlacklisted sql.NullInt64  `db:"is_blacklisted"`
	CreatedAt     string         `db:"created_at"`
}

type allianceWithEventModel struct {
	allianceTableModel
	EventName  sql.NullString `db:"event_name"`
	AssignedAt sql.NullString `db:"assigned_at"`
}

func (m allianceTableModel) toDomain() alliance.Alliance {
	return alliance.Alliance{
		ID:            m.ID,
		Name:          m.Name,
		Description:   nullStringToString(m.Description),
		IsBlacklisted: m.IsBlacklisted.Valid && m.IsBlacklisted.Int64 != 0,
		CreatedAt:     parseTimestamp(m.CreatedAt),
	}
}

func (m allianceWithEventModel) toDomain() alliance.WithEvent {
	return alliance.WithEvent{
		Alliance:   m.allianceTableModel.toDomain(),
		EventName:  nullStringToPtr(m.EventName),
		AssignedAt: nullTimestampToPtr(m.AssignedAt),
	}
}
