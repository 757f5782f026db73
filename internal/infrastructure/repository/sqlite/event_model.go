package sqlite

import (
	"database/sql"

	"github.com/veldran/kingdom-manager/internal/domain/event"
)

type eventTableModel struct {
	ID          int64         `db:"id"`
	Name        string        `db:"name"`
	MvpPlayerID sql.NullInt64 `db:"mvp_player_id"`
	CreatedAt   string        `db:"created_at"`
}

type eventWithMvpNameModel struct {
	eventTableModel
	MvpPlayerName sql.NullString `db:"mvp_player_name"`
}

type allianceLinkTableModel struct {
	ID         int64  `db:"id"`
	EventID    int64  `db:"event_id"`
	AllianceID int64  `db:"alliance_id"`
	CreatedAt  string `db:"created_at"`
}

func (m eventTableModel) toDomain() event.Event {
	return event.Event{
		ID:          m.ID,
		Name:        m.Name,
		MvpPlayerID: nullInt64ToPtr(m.MvpPlayerID),
		CreatedAt:   parseTimestamp(m.CreatedAt),
	}
}

func (m eventWithMvpNameModel) toDomain() event.WithMvpName {
	return event.WithMvpName{
		Event:         m.eventTableModel.toDomain(),
		MvpPlayerName: nullStringToPtr(m.MvpPlayerName),
	}
}

func (m allianceLinkTableModel) toDomain() event.AllianceLink {
	return event.AllianceLink{
		ID:         m.ID,
		EventID:    m.EventID,
		AllianceID: m.AllianceID,
		CreatedAt:  parseTimestamp(m.CreatedAt),
	}
}
