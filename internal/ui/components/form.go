package components

import (
	"context"
	"fmt"
	"io"

	"github.com/a-h/templ"
	twmerge "github.com/Oudwins/tailwind-merge-go"
	"github.com/templui/authgate/internal/ctxkeys"
)

// csrfFormField must match middleware.CSRFFormField.
const csrfFormField = "csrf_token"

type InputProps struct {
	ID           string
	Name         string
	Type         string
	Label        string
	Value        string
	Autocomplete string
	Error        string
	Required     bool
}

func Input(props InputProps) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		id := props.ID
		if id == "" {
			id = props.Name
		}
		inputType := props.Type
		if inputType == "" {
			inputType = "text"
		}

		classes := "mt-1 block w-full rounded-md border border-gray-300 px-3 py-2"
		if props.Error != "" {
			classes = twmerge.Merge(classes, "border-red-500")
		}

		required := ""
		if props.Required {
			required = " required"
		}

		_, err := fmt.Fprintf(w,
			`<div class="mb-4"><label for="%s" class="block text-sm font-medium">%s</label><input id="%s" name="%s" type="%s" value="%s" autocomplete="%s" class="%s"%s>`,
			templ.EscapeString(id),
			templ.EscapeString(props.Label),
			templ.EscapeString(id),
			templ.EscapeString(props.Name),
			templ.EscapeString(inputType),
			templ.EscapeString(props.Value),
			templ.EscapeString(props.Autocomplete),
			templ.EscapeString(classes),
			required,
		)
		if err != nil {
			return err
		}
		if props.Error != "" {
			_, err = fmt.Fprintf(w, `<p class="mt-1 text-sm text-red-600">%s</p>`, templ.EscapeString(props.Error))
			if err != nil {
				return err
			}
		}
		_, err = io.WriteString(w, `</div>`)
		return err
	})
}

type ButtonVariant string

const (
	ButtonPrimary ButtonVariant = "primary"
	ButtonOutline ButtonVariant = "outline"
	ButtonLink    ButtonVariant = "link"
)

var buttonVariants = map[ButtonVariant]string{
	ButtonPrimary: "bg-gray-900 text-white hover:bg-gray-700",
	ButtonOutline: "border border-gray-300 bg-white hover:bg-gray-50",
	ButtonLink:    "px-0 py-0 underline",
}

// ButtonClass merges the base, variant and caller classes.
func ButtonClass(variant ButtonVariant, class ...string) string {
	return twmerge.Merge(append([]string{
		"inline-flex items-center justify-center rounded-md px-4 py-2 text-sm font-medium",
		buttonVariants[variant],
	}, class...)...)
}

func SubmitButton(label string, variant ButtonVariant, class ...string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := fmt.Fprintf(w, `<button type="submit" class="%s">%s</button>`,
			templ.EscapeString(ButtonClass(variant, class...)),
			templ.EscapeString(label),
		)
		return err
	})
}

func LinkButton(href, label string, variant ButtonVariant) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := fmt.Fprintf(w, `<a href="%s" class="%s">%s</a>`,
			templ.EscapeString(href),
			templ.EscapeString(ButtonClass(variant)),
			templ.EscapeString(label),
		)
		return err
	})
}

// Form wraps children in a POST form carrying the request's CSRF token.
func Form(action string, children ...templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := fmt.Fprintf(w, `<form method="post" action="%s"><input type="hidden" name="%s" value="%s">`,
			templ.EscapeString(action),
			csrfFormField,
			templ.EscapeString(ctxkeys.CSRFToken(ctx)),
		)
		if err != nil {
			return err
		}
		err = Group(children...).Render(ctx, w)
		if err != nil {
			return err
		}
		_, err = io.WriteString(w, `</form>`)
		return err
	})
}

// Group renders components in order.
func Group(children ...templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		for _, c := range children {
			if c == nil {
				continue
			}
			err := c.Render(ctx, w)
			if err != nil {
				return err
			}
		}
		return nil
	})
}

// Text writes escaped text inside an element with the given tag and classes.
func Text(tag, class, text string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := fmt.Fprintf(w, `<%s class="%s">%s</%s>`, tag, templ.EscapeString(class), templ.EscapeString(text), tag)
		return err
	})
}
