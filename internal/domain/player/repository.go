package player

import (
	"context"
	"time"
)

// Repository describes player persistence needs from use cases. Every
// method is scoped to one tenant by userID. Mutations report whether the
// target row existed so callers can classify misses.
type Repository interface {
	List(ctx context.Context, userID int64) ([]WithStatus, error)
	GetByID(ctx context.Context, userID, playerID int64) (Player, bool, error)
	Create(ctx context.Context, userID int64, name string) (Player, error)
	Update(ctx context.Context, userID int64, p Player) (bool, error)
	Delete(ctx context.Context, userID, playerID int64) (bool, error)
	IncrementMvp(ctx context.Context, userID, playerID int64, at time.Time) (bool, error)
	ListRotation(ctx context.Context, userID int64) ([]Player, error)
	ResetRotation(ctx context.Context, userID int64) error
}
