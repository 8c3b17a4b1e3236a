package dto

import "github.com/medicare-pro/admin-console/internal/domain"

// LoginRequest is the sign-in payload, accepted as a form or JSON.
type LoginRequest struct {
	Username string `json:"username" form:"username"`
	Password string `json:"password" form:"password"`
	From     string `json:"from" form:"from"`
}

// UserResponse is the public view of the signed-in user.
type UserResponse struct {
	ID    string      `json:"id"`
	Name  string      `json:"name"`
	Email string      `json:"email,omitempty"`
	Role  domain.Role `json:"role"`
}

// SessionResponse reports the session without its token.
type SessionResponse struct {
	Status  domain.Status `json:"status"`
	User    *UserResponse `json:"user,omitempty"`
	Version uint64        `json:"version"`
}

// LoginResponse is returned to JSON callers after a successful sign-in.
type LoginResponse struct {
	User     UserResponse `json:"user"`
	Redirect string       `json:"redirect"`
}

// ThemeResponse reports the active theme.
type ThemeResponse struct {
	Theme domain.Theme `json:"theme"`
}

// NewUserResponse maps a domain user.
func NewUserResponse(u *domain.User) *UserResponse {
	if u == nil {
		return nil
	}
	return &UserResponse{ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role}
}

// NewSessionResponse maps a snapshot.
func NewSessionResponse(s domain.Snapshot) SessionResponse {
	return SessionResponse{Status: s.Status, User: NewUserResponse(s.User), Version: s.Version}
}
