package alliance

import "context"

// Repository describes alliance persistence needs from use cases. Every
// method is scoped to one tenant by userID. Mutations report whether the
// target row existed.
type Repository interface {
	List(ctx context.Context, userID int64) ([]WithEvent, error)
	GetByID(ctx context.Context, userID, allianceID int64) (Alliance, bool, error)
	Create(ctx context.Context, userID int64, a Alliance) (Alliance, error)
	Update(ctx context.Context, userID int64, a Alliance) (bool, error)
	Delete(ctx context.Context, userID, allianceID int64) (bool, error)
	SetBlacklisted(ctx context.Context, userID, allianceID int64, blacklisted bool) (bool, error)
}
