package domain

import "time"

// Account is a sign-in identity held by the development backend.
type Account struct {
	ID           string
	Username     string
	Name         string
	Email        string
	Role         Role
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// User returns the public profile of the account.
func (a *Account) User() *User {
	if a == nil {
		return nil
	}
	return &User{ID: a.ID, Name: a.Name, Email: a.Email, Role: a.Role}
}
