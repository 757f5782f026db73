package sqlite

import (
	"database/sql"

	"github.com/veldran/kingdom-manager/internal/domain/user"
)

type userTableModel struct {
	ID        int64  `db:"id"`
	Username  string `db:"username"`
	Password  string `db:"password"`
	IsAdmin   bool   `db:"is_admin"`
	CreatedAt string `db:"created_at"`
}

type userWithDatabaseModel struct {
	userTableModel
	DatabaseName sql.NullString `db:"database_name"`
}

func (m userTableModel) toDomain() user.User {
	return user.User{
		ID:           m.ID,
		Username:     m.Username,
		PasswordHash: m.Password,
		IsAdmin:      m.IsAdmin,
		CreatedAt:    parseTimestamp(m.CreatedAt),
	}
}
