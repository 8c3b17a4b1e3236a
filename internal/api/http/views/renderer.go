package views

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"

	"github.com/gofiber/fiber/v2"

	"github.com/medicare-pro/admin-console/internal/domain"
	"github.com/medicare-pro/admin-console/internal/guard"
)

//go:embed templates/*.html
var templateFS embed.FS

const (
	PageLogin       = "login"
	PageDashboard   = "dashboard"
	PageResource    = "resource"
	PagePlaceholder = "placeholder"
	PageDenied      = "denied"
	PageFault       = "fault"
)

var pageNames = []string{PageLogin, PageDashboard, PageResource, PagePlaceholder, PageDenied, PageFault}

// ThemeSource yields the current theme for a request.
type ThemeSource interface {
	Current(ctx context.Context) domain.Theme
}

// Page is the data every template receives.
type Page struct {
	AppTitle string
	Title    string
	Theme    string
	User     *domain.User
	Nav      []NavItem
	Content  any

	// AutoRefresh reloads the page every second until the session resolves.
	AutoRefresh bool
}

// LoginContent backs the sign-in form.
type LoginContent struct {
	From     string
	Username string
	Error    string
}

// DeniedContent backs the access denied notice.
type DeniedContent struct {
	Role     domain.Role
	Required []domain.Role
}

// ResourceContent backs a resource list view.
type ResourceContent struct {
	Columns []string
	Rows    [][]string
	Error   string
}

// Renderer draws console pages inside the shared layout.
type Renderer struct {
	appTitle string
	theme    ThemeSource
	pages    map[string]*template.Template
}

// NewRenderer parses the embedded templates.
func NewRenderer(appTitle string, theme ThemeSource) (*Renderer, error) {
	base, err := template.ParseFS(templateFS, "templates/layout.html")
	if err != nil {
		return nil, fmt.Errorf("parse layout: %w", err)
	}
	pages := make(map[string]*template.Template, len(pageNames))
	for _, name := range pageNames {
		layout, err := base.Clone()
		if err != nil {
			return nil, err
		}
		tmpl, err := layout.ParseFS(templateFS, "templates/"+name+".html")
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", name, err)
		}
		pages[name] = tmpl
	}
	return &Renderer{appTitle: appTitle, theme: theme, pages: pages}, nil
}

// Render writes the named page. The response status is left as set by the caller.
func (r *Renderer) Render(c *fiber.Ctx, name string, page Page) error {
	tmpl, ok := r.pages[name]
	if !ok {
		return fmt.Errorf("unknown page %q", name)
	}
	page.AppTitle = r.appTitle
	if page.Theme == "" && r.theme != nil {
		page.Theme = string(r.theme.Current(c.UserContext()))
	}
	if page.Theme == "" {
		page.Theme = string(domain.ThemeLight)
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "layout", page); err != nil {
		return fmt.Errorf("render %s: %w", name, err)
	}
	c.Type("html", "utf-8")
	return c.Send(buf.Bytes())
}

// Placeholder renders the Authenticating notice shown while the session loads.
func (r *Renderer) Placeholder(c *fiber.Ctx) error {
	return r.Render(c, PagePlaceholder, Page{Title: "Authenticating", AutoRefresh: true})
}

// AccessDenied renders the in-place denial for a signed-in user lacking the role.
func (r *Renderer) AccessDenied(c *fiber.Ctx, user *domain.User, required []domain.Role) error {
	content := DeniedContent{Required: required}
	if user != nil {
		content.Role = user.Role
	}
	return r.Render(c, PageDenied, Page{
		Title:   "Access Denied",
		User:    user,
		Nav:     Navigation(user, c.Path()),
		Content: content,
	})
}

// Fault renders the fallback notice in place of a failed view while keeping
// the layout. The error itself is never shown.
func (r *Renderer) Fault(c *fiber.Ctx, _ error) error {
	user, _ := guard.UserFromContext(c)
	return r.Render(c, PageFault, Page{
		Title: "Error",
		User:  user,
		Nav:   Navigation(user, c.Path()),
	})
}
