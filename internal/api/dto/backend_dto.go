package dto

import "github.com/medicare-pro/admin-console/internal/domain"

// BackendLoginRequest is the body of the backend sign-in endpoint.
type BackendLoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// TokenResponse is returned by the backend for valid credentials.
type TokenResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

// UserEnvelope is returned by the token validation endpoint.
type UserEnvelope struct {
	User UserResponse `json:"user"`
}

// AccountResponse lists an account without its secret.
type AccountResponse struct {
	ID       string      `json:"id"`
	Username string      `json:"username"`
	Name     string      `json:"name"`
	Role     domain.Role `json:"role"`
}

// NewAccountResponse maps a domain account.
func NewAccountResponse(a domain.Account) AccountResponse {
	return AccountResponse{ID: a.ID, Username: a.Username, Name: a.Name, Role: a.Role}
}
