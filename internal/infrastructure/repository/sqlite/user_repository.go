package sqlite

import (
	"context"
	"fmt"

	"github.com/veldran/kingdom-manager/internal/domain/user"
	"github.com/veldran/kingdom-manager/internal/infrastructure/tenantstore"
	qb "github.com/veldran/kingdom-manager/internal/platform/querybuilder"
)

// UserRepository works against the shared store, never a tenant store.
type UserRepository struct {
	registry *tenantstore.Registry
}

var userSelectColumns = []string{
	"id",
	"username",
	"password",
	"is_admin",
	"created_at",
}

const listUsersQuery = `
SELECT u.id, u.username, u.password, u.is_admin, u.created_at,
       ud.database_name
FROM users u
LEFT JOIN user_databases ud ON u.id = ud.user_id
ORDER BY u.created_at DESC, u.id DESC`

func NewUserRepository(registry *tenantstore.Registry) *UserRepository {
	return &UserRepository{registry: registry}
}

func (r *UserRepository) List(ctx context.Context) ([]user.WithDatabase, error) {
	var rows []userWithDatabaseModel
	if err := r.registry.Shared().SelectContext(ctx, &rows, listUsersQuery); err != nil {
		return nil, fmt.Errorf("select users: %w", err)
	}

	out := make([]user.WithDatabase, 0, len(rows))
	for _, row := range rows {
		out = append(out, user.WithDatabase{
			User:         row.toDomain(),
			DatabaseName: nullStringToPtr(row.DatabaseName),
		})
	}

	return out, nil
}

func (r *UserRepository) GetByID(ctx context.Context, userID int64) (user.User, bool, error) {
	query, args, err := qb.Select(userSelectColumns...).From("users").
		Where(qb.Eq("id", userID)).
		ToSQL()
	if err != nil {
		return user.User{}, false, fmt.Errorf("build get user query: %w", err)
	}

	var row userTableModel
	if err := r.registry.Shared().GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return user.User{}, false, nil
		}
		return user.User{}, false, fmt.Errorf("get user by id: %w", err)
	}

	return row.toDomain(), true, nil
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (user.User, bool, error) {
	query, args, err := qb.Select(userSelectColumns...).From("users").
		Where(qb.Eq("username", username)).
		ToSQL()
	if err != nil {
		return user.User{}, false, fmt.Errorf("build get user by username query: %w", err)
	}

	var row userTableModel
	if err := r.registry.Shared().GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return user.User{}, false, nil
		}
		return user.User{}, false, fmt.Errorf("get user by username: %w", err)
	}

	return row.toDomain(), true, nil
}

func (r *UserRepository) Create(ctx context.Context, u user.User) (user.User, error) {
	query, args, err := qb.InsertInto("users").
		Columns("username", "password", "is_admin").
		Values(u.Username, u.PasswordHash, boolToInt(u.IsAdmin)).
		ToSQL()
	if err != nil {
		return user.User{}, fmt.Errorf("build insert user query: %w", err)
	}

	result, err := r.registry.Shared().ExecContext(ctx, query, args...)
	if err != nil {
		return user.User{}, fmt.Errorf("insert user: %w", err)
	}

	rowID, err := result.LastInsertId()
	if err != nil {
		return user.User{}, fmt.Errorf("resolve inserted user id: %w", err)
	}

	var row userTableModel
	if err := r.registry.Shared().GetContext(ctx, &row,
		`SELECT id, username, password, is_admin, created_at FROM users WHERE rowid = ?`, rowID,
	); err != nil {
		return user.User{}, fmt.Errorf("read inserted user: %w", err)
	}

	return row.toDomain(), nil
}

func (r *UserRepository) Update(ctx context.Context, u user.User) (bool, error) {
	builder := qb.Update("users").Set("username", u.Username)
	if u.PasswordHash != "" {
		builder = builder.Set("password", u.PasswordHash)
	}
	query, args, err := builder.Where(qb.Eq("id", u.ID)).ToSQL()
	if err != nil {
		return false, fmt.Errorf("build update user query: %w", err)
	}

	result, err := r.registry.Shared().ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("update user: %w", err)
	}

	return rowsAffected(result), nil
}

func (r *UserRepository) Delete(ctx context.Context, userID int64) (bool, error) {
	query, args, err := qb.DeleteFrom("users").
		Where(qb.Eq("id", userID)).
		ToSQL()
	if err != nil {
		return false, fmt.Errorf("build delete user query: %w", err)
	}

	result, err := r.registry.Shared().ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("delete user: %w", err)
	}

	return rowsAffected(result), nil
}

func (r *UserRepository) CountAdmins(ctx context.Context) (int64, error) {
	query, args, err := qb.Select("COUNT(*)").From("users").
		Where(qb.Eq("is_admin", 1)).
		ToSQL()
	if err != nil {
		return 0, fmt.Errorf("build count admins query: %w", err)
	}

	var count int64
	if err := r.registry.Shared().GetContext(ctx, &count, query, args...); err != nil {
		return 0, fmt.Errorf("count admins: %w", err)
	}

	return count, nil
}
