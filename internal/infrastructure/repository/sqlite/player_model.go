package sqlite

import (
	"database/sql"

	"github.com/veldran/kingdom-manager/internal/domain/player"
)

type playerTableModel struct {
	ID           int64          `db:"id"`
	Name         string         `db:"name"`
	Description  sql.NullString `db:"description"`
	Role         sql.NullString `db:"role"`
	IsOnHolidays sql.NullInt64  `db:"is_on_holidays"`
	MvpCount     int64          `db:"mvp_count"`
	LastMvpDate  sql.NullString `db:"last_mvp_date"`
	CreatedAt    string         `db:"created_at"`
}

type playerWithStatusModel struct {
	playerTableModel
	IsMvp    int            `db:"is_mvp"`
	MvpEvent sql.NullString `db:"mvp_event"`
}

func (m playerTableModel) toDomain() player.Player {
	role := player.RoleNormal
	if m.Role.Valid && m.Role.String != "" {
		role = player.Role(m.Role.String)
	}

	return player.Player{
		ID:           m.ID,
		Name:         m.Name,
		Description:  nullStringToString(m.Description),
		Role:         role,
		IsOnHolidays: m.IsOnHolidays.Valid && m.IsOnHolidays.Int64 != 0,
		MvpCount:     m.MvpCount,
		LastMvpDate:  nullTimestampToPtr(m.LastMvpDate),
		CreatedAt:    parseTimestamp(m.CreatedAt),
	}
}
