package alliance

import (
	"fmt"
	"time"
)

// Alliance is an allied or blacklisted kingdom.
type Alliance struct {
	ID            int64
	Name          string
	Description   string
	IsBlacklisted bool
	CreatedAt     time.Time
}

func (a Alliance) Validate() error {
	if a.Name == "" {
		return fmt.Errorf("alliance name is required")
	}

	return nil
}

// WithEvent decorates an alliance with its most recent event link, when
// one exists.
type WithEvent struct {
	Alliance
	EventName  *string
	AssignedAt *time.Time
}
