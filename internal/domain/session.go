package domain

// Status is the lifecycle state of the console session.
type Status string

const (
	StatusLoading         Status = "loading"
	StatusAuthenticated   Status = "authenticated"
	StatusUnauthenticated Status = "unauthenticated"
)

// Snapshot is an immutable view of the session handed to readers.
type Snapshot struct {
	Status  Status `json:"status"`
	User    *User  `json:"user,omitempty"`
	Version uint64 `json:"version"`
}

// Authenticated reports whether the snapshot carries a confirmed user.
func (s Snapshot) Authenticated() bool {
	return s.Status == StatusAuthenticated && s.User != nil
}

// Theme is the operator's colour scheme preference.
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// ParseTheme maps a stored value to a theme, falling back when unknown.
func ParseTheme(value string, fallback Theme) Theme {
	switch Theme(value) {
	case ThemeLight, ThemeDark:
		return Theme(value)
	default:
		return fallback
	}
}

// Toggle flips between light and dark.
func (t Theme) Toggle() Theme {
	if t == ThemeDark {
		return ThemeLight
	}
	return ThemeDark
}
