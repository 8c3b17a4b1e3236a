package domain

import "strings"

// Role is a coarse-grained authorization tag carried by a console user.
type Role string

const (
	RoleAdmin        Role = "Admin"
	RoleDoctor       Role = "Doctor"
	RoleNurse        Role = "Nurse"
	RoleReceptionist Role = "Receptionist"
	RolePharmacist   Role = "Pharmacist"
	RoleLabTech      Role = "Lab Tech"
	RoleAnalyst      Role = "Analyst"
)

// Is reports whether two roles name the same tag, ignoring case and padding.
func (r Role) Is(other Role) bool {
	return strings.EqualFold(strings.TrimSpace(string(r)), strings.TrimSpace(string(other)))
}

// User is the identity the backend returns for a valid token.
type User struct {
	ID    string         `json:"id"`
	Name  string         `json:"name"`
	Email string         `json:"email,omitempty"`
	Role  Role           `json:"role"`
	Extra map[string]any `json:"-"`
}

// HasRole reports whether the user carries any of the required roles.
// No required roles means any authenticated user qualifies.
func HasRole(user *User, required ...Role) bool {
	if user == nil {
		return false
	}
	if len(required) == 0 {
		return true
	}
	for _, role := range required {
		if role == "" {
			continue
		}
		if user.Role.Is(role) {
			return true
		}
	}
	return allBlank(required)
}

func allBlank(roles []Role) bool {
	for _, role := range roles {
		if strings.TrimSpace(string(role)) != "" {
			return false
		}
	}
	return true
}

// Clone returns a deep copy safe to hand to other goroutines.
func (u *User) Clone() *User {
	if u == nil {
		return nil
	}
	out := *u
	if u.Extra != nil {
		out.Extra = make(map[string]any, len(u.Extra))
		for k, v := range u.Extra {
			out.Extra[k] = v
		}
	}
	return &out
}
