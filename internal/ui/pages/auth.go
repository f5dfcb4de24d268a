package pages

import (
	"context"
	"fmt"
	"io"

	"github.com/a-h/templ"
	"github.com/templui/authgate/internal/ui/components"
	"github.com/templui/authgate/internal/ui/layouts"
)

type LoginProps struct {
	Email         string
	Error         string
	EmailError    string
	PasswordError string
	Notice        string
	Verified      bool
	GoogleEnabled bool
	GitHubEnabled bool
}

func Login(props LoginProps) templ.Component {
	var verified templ.Component
	if props.Verified {
		verified = components.Alert(components.AlertSuccess, "Your email has been verified. You can now log in.")
	}

	return layouts.Base("Log in", components.Group(
		components.Text("h1", "mb-6 text-2xl font-bold", "Log in"),
		verified,
		components.Alert(components.AlertInfo, props.Notice),
		components.Alert(components.AlertError, props.Error),
		components.Form("/login",
			components.Input(components.InputProps{
				Name:         "email",
				Type:         "email",
				Label:        "Email",
				Value:        props.Email,
				Autocomplete: "email",
				Error:        props.EmailError,
				Required:     true,
			}),
			components.Input(components.InputProps{
				Name:         "password",
				Type:         "password",
				Label:        "Password",
				Autocomplete: "current-password",
				Error:        props.PasswordError,
				Required:     true,
			}),
			components.SubmitButton("Log in", components.ButtonPrimary, "w-full"),
		),
		oauthButtons(props.GoogleEnabled, props.GitHubEnabled),
		components.LinkButton("/register", "Create an account", components.ButtonLink),
	))
}

type RegisterProps struct {
	Email         string
	Error         string
	EmailError    string
	PasswordError string
}

func Register(props RegisterProps) templ.Component {
	return layouts.Base("Register", components.Group(
		components.Text("h1", "mb-6 text-2xl font-bold", "Create an account"),
		components.Alert(components.AlertError, props.Error),
		components.Form("/register",
			components.Input(components.InputProps{
				Name:         "email",
				Type:         "email",
				Label:        "Email",
				Value:        props.Email,
				Autocomplete: "email",
				Error:        props.EmailError,
				Required:     true,
			}),
			components.Input(components.InputProps{
				Name:         "password",
				Type:         "password",
				Label:        "Password",
				Autocomplete: "new-password",
				Error:        props.PasswordError,
				Required:     true,
			}),
			components.SubmitButton("Register", components.ButtonPrimary, "w-full"),
		),
		components.LinkButton("/login", "Already have an account? Log in", components.ButtonLink),
	))
}

// AuthError is shown when an OAuth handshake fails.
func AuthError(message string) templ.Component {
	return layouts.Base("Sign-in failed", components.Group(
		components.Alert(components.AlertError, message),
		components.LinkButton("/login", "Back to log in", components.ButtonOutline),
	))
}

func oauthButtons(google, github bool) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if !google && !github {
			return nil
		}
		_, err := io.WriteString(w, `<div class="my-6 flex flex-col gap-2">`)
		if err != nil {
			return err
		}
		providers := []struct {
			enabled bool
			id      string
			label   string
		}{
			{google, "google", "Continue with Google"},
			{github, "github", "Continue with GitHub"},
		}
		for _, p := range providers {
			if !p.enabled {
				continue
			}
			_, err = fmt.Fprintf(w, `<a href="/auth/%s" class="%s">%s</a>`,
				p.id,
				templ.EscapeString(components.ButtonClass(components.ButtonOutline, "w-full")),
				templ.EscapeString(p.label),
			)
			if err != nil {
				return err
			}
		}
		_, err = io.WriteString(w, `</div>`)
		return err
	})
}
