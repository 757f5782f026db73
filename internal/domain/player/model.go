package player

import (
	"fmt"
	"time"
)

// Role ranks a warrior inside the kingdom.
type Role string

const (
	RoleLeader   Role = "leader"
	RoleCoLeader Role = "co-leader"
	RoleElite    Role = "elite"
	RoleNormal   Role = "normal"
)

var AllRoles = map[Role]struct{}{
	RoleLeader:   {},
	RoleCoLeader: {},
	RoleElite:    {},
	RoleNormal:   {},
}

// Player is a warrior tracked inside one tenant store. MvpCount and
// LastMvpDate move only through MVP assignment and rotation resets,
// never through profile edits.
type Player struct {
	ID           int64
	Name         string
	Description  string
	Role         Role
	IsOnHolidays bool
	MvpCount     int64
	LastMvpDate  *time.Time
	CreatedAt    time.Time
}

func (p Player) Validate() error {
	if p.Name == "" {
		return fmt.Errorf("player name is required")
	}
	if p.Role != "" {
		if _, ok := AllRoles[p.Role]; !ok {
			return fmt.Errorf("invalid player role: %s", p.Role)
		}
	}

	return nil
}

// WithStatus decorates a player with its derived MVP state. IsMvp is
// computed from event links at read time and is never stored.
type WithStatus struct {
	Player
	IsMvp    bool
	MvpEvent string
}

// MvpHistoryEntry is one event where the player currently holds MVP.
type MvpHistoryEntry struct {
	EventName    string
	AssignedDate time.Time
}

// RotationStatus summarizes how due each player is for the next crowning.
type RotationStatus struct {
	Players        []Player
	TotalPlayers   int
	PlayersWithMvp int
	NeedsReset     bool
	NextMvp        *Player
}
