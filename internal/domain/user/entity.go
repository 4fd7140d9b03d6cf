package user

import (
	"time"

	"teamchat/internal/domain"
)

// User represents the users table. Users are owned by the identity provider;
// this service only reads them (and mirrors them in for development seeds).
type User struct {
	ID        domain.UserID
	Name      *string
	Email     *string
	Image     *string
	CreatedAt time.Time
}

// DisplayName returns the name or an empty string.
func (u User) DisplayName() string {
	if u.Name == nil {
		return ""
	}
	return *u.Name
}
