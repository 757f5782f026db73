package user

import (
	"fmt"
	"time"
)

// User is an account in the shared store. PasswordHash is never exposed
// through the API layer.
type User struct {
	ID           int64
	Username     string
	PasswordHash string
	IsAdmin      bool
	CreatedAt    time.Time
}

func (u User) Validate() error {
	if u.Username == "" {
		return fmt.Errorf("username is required")
	}

	return nil
}

// Principal is the authenticated identity attached to a request.
type Principal struct {
	UserID   int64
	Username string
	IsAdmin  bool
}

// WithDatabase decorates a user with the name of its tenant store, when
// a mapping exists.
type WithDatabase struct {
	User
	DatabaseName *string
}
