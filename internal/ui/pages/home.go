package pages

import (
	"github.com/a-h/templ"
	"github.com/templui/authgate/internal/ui/components"
	"github.com/templui/authgate/internal/ui/layouts"
)

func Home() templ.Component {
	return layouts.Base("", components.Group(
		components.Text("h1", "mb-4 text-2xl font-bold", "Welcome"),
		components.Text("p", "mb-6 text-gray-600", "Sign in with your email and password, or with Google or GitHub."),
		components.LinkButton("/login", "Log in", components.ButtonPrimary),
	))
}

func NotFound() templ.Component {
	return layouts.Base("Not found", components.Group(
		components.Text("h1", "mb-4 text-2xl font-bold", "Page not found"),
		components.LinkButton("/", "Back home", components.ButtonOutline),
	))
}
