package handler

import (
	"net/http"

	"github.com/templui/authgate/internal/ctxkeys"
	"github.com/templui/authgate/internal/ui"
	"github.com/templui/authgate/internal/ui/pages"
)

type DashboardHandler struct{}

func NewDashboardHandler() *DashboardHandler {
	return &DashboardHandler{}
}

// DashboardPage sits behind RouteGuard, so a session is always present.
func (h *DashboardHandler) DashboardPage(w http.ResponseWriter, r *http.Request) {
	ui.Render(w, r, pages.Dashboard(ctxkeys.Session(r.Context())))
}

func (h *DashboardHandler) AdminPage(w http.ResponseWriter, r *http.Request) {
	ui.Render(w, r, pages.Admin(ctxkeys.Session(r.Context())))
}

// NotAdminPage is the denial rendered by RequireRole.
func (h *DashboardHandler) NotAdminPage(w http.ResponseWriter, r *http.Request) {
	ui.RenderStatus(w, r, http.StatusForbidden, pages.NotAdmin())
}
