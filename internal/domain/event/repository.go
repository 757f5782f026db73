package event

import (
	"context"

	"github.com/veldran/kingdom-manager/internal/domain/alliance"
)

// Repository describes event persistence needs from use cases, including
// the event/alliance junction. Every method is scoped to one tenant.
// Mutations report whether the target row existed.
type Repository interface {
	List(ctx context.Context, userID int64) ([]WithMvpName, error)
	GetByID(ctx context.Context, userID, eventID int64) (Event, bool, error)
	Create(ctx context.Context, userID int64, e Event) (Event, error)
	Update(ctx context.Context, userID int64, e Event) (bool, error)
	Delete(ctx context.Context, userID, eventID int64) (bool, error)

	// SetMvpPlayer overwrites the event's MVP link unconditionally.
	SetMvpPlayer(ctx context.Context, userID, eventID, playerID int64) (bool, error)
	// ListByMvpPlayer returns events currently linked to the player,
	// newest first.
	ListByMvpPlayer(ctx context.Context, userID, playerID int64) ([]Event, error)

	// LinkAlliance reports alreadyLinked=true without inserting when the
	// pair exists.
	LinkAlliance(ctx context.Context, userID, eventID, allianceID int64) (link AllianceLink, alreadyLinked bool, err error)
	UnlinkAlliance(ctx context.Context, userID, eventID, allianceID int64) (bool, error)
	ListAlliances(ctx context.Context, userID, eventID int64) ([]alliance.Alliance, error)
	ListByAlliance(ctx context.Context, userID, allianceID int64) ([]WithMvpName, error)
}
