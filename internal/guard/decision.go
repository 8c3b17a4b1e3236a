package guard

import (
	"net/url"
	"strings"

	"github.com/medicare-pro/admin-console/internal/domain"
)

// Decision is what the guard does with a request for a protected view.
type Decision int

const (
	ShowLoadingPlaceholder Decision = iota
	RedirectToLogin
	ShowAccessDenied
	RenderChildren
)

func (d Decision) String() string {
	switch d {
	case ShowLoadingPlaceholder:
		return "loading_placeholder"
	case RedirectToLogin:
		return "redirect_to_login"
	case ShowAccessDenied:
		return "access_denied"
	case RenderChildren:
		return "render"
	default:
		return "unknown"
	}
}

// Decide maps the session and the route's role requirement to a decision.
// It is pure and recomputed for every request.
func Decide(snap domain.Snapshot, required ...domain.Role) Decision {
	switch snap.Status {
	case domain.StatusLoading:
		return ShowLoadingPlaceholder
	case domain.StatusAuthenticated:
		if snap.User == nil {
			return RedirectToLogin
		}
		if !domain.HasRole(snap.User, required...) {
			return ShowAccessDenied
		}
		return RenderChildren
	default:
		return RedirectToLogin
	}
}

// LoginTarget builds the login URL carrying the requested location as the
// "from" hint.
func LoginTarget(loginPath, requested string) string {
	if requested == "" {
		return loginPath
	}
	return loginPath + "?from=" + strings.ReplaceAll(url.QueryEscape(requested), "%2F", "/")
}

// SafeReturnPath validates a "from" hint. Only local absolute paths are
// accepted; anything else falls back to "/".
func SafeReturnPath(from string) string {
	if from == "" || !strings.HasPrefix(from, "/") || strings.HasPrefix(from, "//") || strings.HasPrefix(from, "/\\") {
		return "/"
	}
	parsed, err := url.Parse(from)
	if err != nil || parsed.Scheme != "" || parsed.Host != "" {
		return "/"
	}
	return from
}
