package event

import (
	"fmt"
	"time"
)

// Event is a battle record. MvpPlayerID is a single overwritable link:
// assigning a new MVP replaces the previous one without trace.
type Event struct {
	ID          int64
	Name        string
	MvpPlayerID *int64
	CreatedAt   time.Time
}

func (e Event) Validate() error {
	if e.Name == "" {
		return fmt.Errorf("event name is required")
	}

	return nil
}

// WithMvpName decorates an event with the linked player's display name.
type WithMvpName struct {
	Event
	MvpPlayerName *string
}

// AllianceLink is one row of the event/alliance junction. A given
// (EventID, AllianceID) pair exists at most once.
type AllianceLink struct {
	ID         int64
	EventID    int64
	AllianceID int64
	CreatedAt  time.Time
}
