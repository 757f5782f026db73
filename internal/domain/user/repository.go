package user

import "context"

// Repository describes account persistence against the shared store.
// Lookups report whether the account existed; mutations do the same.
type Repository interface {
	List(ctx context.Context) ([]WithDatabase, error)
	GetByID(ctx context.Context, userID int64) (User, bool, error)
	GetByUsername(ctx context.Context, username string) (User, bool, error)
	Create(ctx context.Context, u User) (User, error)
	Update(ctx context.Context, u User) (bool, error)
	Delete(ctx context.Context, userID int64) (bool, error)
	CountAdmins(ctx context.Context) (int64, error)
}
