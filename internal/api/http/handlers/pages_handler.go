package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/medicare-pro/admin-console/internal/api/http/views"
	"github.com/medicare-pro/admin-console/internal/apiclient"
	"github.com/medicare-pro/admin-console/internal/guard"
)

const msgResourceUnavailable = "Could not load records from the server."

// ResourceLister fetches a backend collection.
type ResourceLister interface {
	ListResource(ctx context.Context, resourcePath string) ([]apiclient.Record, error)
}

// PagesHandler renders the guarded console views.
type PagesHandler struct {
	resources ResourceLister
	views     *views.Renderer
	logger    *zap.Logger
}

// NewPagesHandler constructs handler.
func NewPagesHandler(resources ResourceLister, renderer *views.Renderer, logger *zap.Logger) *PagesHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PagesHandler{resources: resources, views: renderer, logger: logger.Named("pages_handler")}
}

// Dashboard handles GET /.
func (h *PagesHandler) Dashboard(c *fiber.Ctx) error {
	user, _ := guard.UserFromContext(c)
	return h.views.Render(c, views.PageDashboard, views.Page{
		Title: "Dashboard",
		User:  user,
		Nav:   views.Navigation(user, c.Path()),
	})
}

// Section returns the handler listing one backend collection.
func (h *PagesHandler) Section(section views.Section) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, _ := guard.UserFromContext(c)
		content := views.ResourceContent{Columns: section.Columns}

		records, err := h.resources.ListResource(c.UserContext(), section.Resource)
		if err != nil {
			h.logger.Warn("list resource failed",
				zap.String("resource", section.Resource),
				zap.Error(err),
			)
			content.Error = msgResourceUnavailable
		} else {
			content.Rows = tableRows(records, section.Columns)
		}

		return h.views.Render(c, views.PageResource, views.Page{
			Title:   section.Title,
			User:    user,
			Nav:     views.Navigation(user, section.Path),
			Content: content,
		})
	}
}

func tableRows(records []apiclient.Record, columns []string) [][]string {
	rows := make([][]string, 0, len(records))
	for _, rec := range records {
		row := make([]string, len(columns))
		for i, col := range columns {
			row[i] = cellText(rec[col])
		}
		rows = append(rows, row)
	}
	return rows
}

func cellText(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case json.Number:
		return val.String()
	case bool:
		if val {
			return "yes"
		}
		return "no"
	case map[string]any:
		if name, ok := val["name"].(string); ok {
			return name
		}
		raw, _ := json.Marshal(val)
		return string(raw)
	case []any:
		parts := make([]string, 0, len(val))
		for _, item := range val {
			parts = append(parts, cellText(item))
		}
		return strings.Join(parts, ", ")
	default:
		return fmt.Sprint(val)
	}
}
