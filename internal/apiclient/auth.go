package apiclient

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/medicare-pro/admin-console/internal/domain"
)

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type authEnvelope struct {
	Token string          `json:"token"`
	User  json.RawMessage `json:"user"`
}

// LoginResult is what the backend issues for valid credentials.
type LoginResult struct {
	Token string
	User  *domain.User
}

// Login posts credentials to the authentication endpoint.
func (c *Client) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	var env authEnvelope
	err := c.Do(ctx, http.MethodPost, c.paths.LoginPath,
		loginRequest{Username: username, Password: password}, &env)
	if err != nil {
		return nil, err
	}
	if env.Token == "" {
		return nil, fmt.Errorf("%w: login response has no token", ErrMalformedResponse)
	}
	user, err := decodeUser(env.User)
	if err != nil {
		return nil, err
	}
	return &LoginResult{Token: env.Token, User: user}, nil
}

// ValidateToken asks the backend who owns token.
func (c *Client) ValidateToken(ctx context.Context, token string) (*domain.User, error) {
	var env authEnvelope
	if err := c.Do(ctx, http.MethodGet, c.paths.ValidatePath, nil, &env, WithBearer(token)); err != nil {
		return nil, err
	}
	return decodeUser(env.User)
}

// Logout tells the backend to forget token. Callers treat it as best effort.
func (c *Client) Logout(ctx context.Context, token string) error {
	return c.Do(ctx, http.MethodPost, c.paths.LogoutPath, nil, nil, WithBearer(token))
}

var knownUserFields = map[string]struct{}{
	"id": {}, "_id": {}, "name": {}, "fullName": {}, "username": {}, "email": {}, "role": {},
}

// decodeUser accepts the loose identity shapes the backend has shipped over
// time: id or _id, numeric ids, and name/username/fullName.
func decodeUser(raw json.RawMessage) (*domain.User, error) {
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" || trimmed == "null" {
		return nil, fmt.Errorf("%w: response has no user", ErrMalformedResponse)
	}

	var fields map[string]any
	dec := json.NewDecoder(strings.NewReader(trimmed))
	dec.UseNumber()
	if err := dec.Decode(&fields); err != nil {
		return nil, fmt.Errorf("%w: user: %v", ErrMalformedResponse, err)
	}

	user := &domain.User{
		ID:    firstString(fields, "id", "_id"),
		Name:  firstString(fields, "name", "fullName", "username"),
		Email: firstString(fields, "email"),
		Role:  domain.Role(firstString(fields, "role")),
	}
	for key, val := range fields {
		if _, known := knownUserFields[key]; known {
			continue
		}
		if user.Extra == nil {
			user.Extra = make(map[string]any)
		}
		user.Extra[key] = val
	}
	return user, nil
}

func firstString(fields map[string]any, keys ...string) string {
	for _, key := range keys {
		switch val := fields[key].(type) {
		case string:
			if val != "" {
				return val
			}
		case json.Number:
			return val.String()
		}
	}
	return ""
}
