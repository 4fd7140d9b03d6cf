package httpdto

import (
	"teamchat/internal/domain"
	"teamchat/internal/domain/user"
)

type User struct {
	ID    domain.UserID `json:"id"`
	Name  *string       `json:"name"`
	Email *string       `json:"email,omitempty"`
	Image *string       `json:"image"`
}

func NewUser(u user.User) User {
	return User{ID: u.ID, Name: u.Name, Email: u.Email, Image: u.Image}
}
