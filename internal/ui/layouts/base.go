package layouts

import (
	"context"
	"fmt"
	"io"

	"github.com/a-h/templ"
	twmerge "github.com/Oudwins/tailwind-merge-go"
	"github.com/templui/authgate/internal/ctxkeys"
	"github.com/templui/authgate/internal/model"
	"github.com/templui/authgate/internal/ui/components"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const defaultAppName = "authgate"

type navLink struct {
	href  string
	label string
}

// Base is the page shell: head, navigation reflecting the session, and body.
func Base(title string, body templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		appName := defaultAppName
		if cfg := ctxkeys.Config(ctx); cfg != nil && cfg.AppName != "" {
			appName = cfg.AppName
		}
		pageTitle := appName
		if title != "" {
			pageTitle = title + " | " + appName
		}

		_, err := fmt.Fprintf(w,
			`<!DOCTYPE html><html lang="en"><head><meta charset="utf-8"><meta name="viewport" content="width=device-width, initial-scale=1"><title>%s</title><link rel="stylesheet" href="/assets/css/app.css"><script src="/assets/js/app.js" nonce="%s" defer></script></head><body class="min-h-screen bg-gray-50 text-gray-900">`,
			templ.EscapeString(pageTitle),
			templ.EscapeString(templ.GetNonce(ctx)),
		)
		if err != nil {
			return err
		}

		err = nav(appName).Render(ctx, w)
		if err != nil {
			return err
		}

		_, err = io.WriteString(w, `<main class="mx-auto max-w-3xl px-4 py-8">`)
		if err != nil {
			return err
		}
		err = body.Render(ctx, w)
		if err != nil {
			return err
		}
		_, err = io.WriteString(w, `</main></body></html>`)
		return err
	})
}

func nav(appName string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		session := ctxkeys.Session(ctx)
		current := ctxkeys.URLPath(ctx)

		links := []navLink{{href: "/", label: "Home"}}
		if session != nil {
			links = append(links, navLink{href: "/dashboard", label: "Dashboard"})
			if session.HasRole(model.RoleAdmin) {
				links = append(links, navLink{href: "/admin", label: "Admin"})
			}
		} else {
			links = append(links, navLink{href: "/login", label: "Log in"}, navLink{href: "/register", label: "Register"})
		}

		_, err := fmt.Fprintf(w, `<nav class="border-b bg-white"><div class="mx-auto flex max-w-3xl items-center gap-4 px-4 py-3"><a href="/" class="font-semibold">%s</a>`,
			templ.EscapeString(appName))
		if err != nil {
			return err
		}

		for _, link := range links {
			class := "text-sm text-gray-600 hover:text-gray-900"
			if link.href == current {
				class = twmerge.Merge(class, "text-gray-900 font-medium")
			}
			_, err = fmt.Fprintf(w, `<a href="%s" class="%s">%s</a>`,
				templ.EscapeString(link.href),
				templ.EscapeString(class),
				templ.EscapeString(link.label),
			)
			if err != nil {
				return err
			}
		}

		if session != nil {
			_, err = fmt.Fprintf(w, `<span class="ml-auto text-sm text-gray-600">%s <span class="rounded bg-gray-100 px-2 py-0.5 text-xs">%s</span></span>`,
				templ.EscapeString(session.Email),
				templ.EscapeString(RoleLabel(session.Role)),
			)
			if err != nil {
				return err
			}
			err = components.Form("/auth/logout",
				components.SubmitButton("Log out", components.ButtonLink, "text-sm"),
			).Render(ctx, w)
			if err != nil {
				return err
			}
		}

		_, err = io.WriteString(w, `</div></nav>`)
		return err
	})
}

// RoleLabel is the display form of a role name.
func RoleLabel(role string) string {
	return cases.Title(language.English).String(role)
}
