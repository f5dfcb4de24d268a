package pages

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/a-h/templ"
	"github.com/templui/authgate/internal/model"
	"github.com/templui/authgate/internal/ui/components"
	"github.com/templui/authgate/internal/ui/layouts"
)

// Dashboard shows the signed-in session as JSON.
func Dashboard(session *model.Session) templ.Component {
	return layouts.Base("Dashboard", components.Group(
		components.Text("h1", "mb-4 text-2xl font-bold", "Dashboard"),
		components.Text("p", "mb-4 text-gray-600", "Signed in as "+session.Email+" ("+layouts.RoleLabel(session.Role)+")"),
		sessionJSON(session),
	))
}

func Admin(session *model.Session) templ.Component {
	return layouts.Base("Admin", components.Group(
		components.Text("h1", "mb-4 text-2xl font-bold", "Admin"),
		components.Text("p", "mb-4 text-gray-600", "Only administrators can see this page."),
		sessionJSON(session),
	))
}

// NotAdmin is the in-page denial for role-gated pages.
func NotAdmin() templ.Component {
	return layouts.Base("Forbidden", components.Group(
		components.Text("h1", "mb-4 text-2xl font-bold", "Forbidden"),
		components.Alert(components.AlertError, "You are not admin"),
		components.LinkButton("/dashboard", "Back to dashboard", components.ButtonOutline),
	))
}

func sessionJSON(session *model.Session) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		data, err := json.MarshalIndent(session, "", "  ")
		if err != nil {
			return err
		}
		_, err = fmt.Fprintf(w, `<pre class="overflow-x-auto rounded-md bg-gray-900 p-4 text-sm text-gray-100">%s</pre>`,
			templ.EscapeString(string(data)))
		return err
	})
}
