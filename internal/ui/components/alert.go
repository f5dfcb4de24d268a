package components

import (
	"context"
	"fmt"
	"io"

	"github.com/a-h/templ"
	twmerge "github.com/Oudwins/tailwind-merge-go"
)

type AlertVariant string

const (
	AlertInfo    AlertVariant = "info"
	AlertSuccess AlertVariant = "success"
	AlertError   AlertVariant = "error"
)

var alertVariants = map[AlertVariant]string{
	AlertInfo:    "border-blue-200 bg-blue-50 text-blue-800",
	AlertSuccess: "border-green-200 bg-green-50 text-green-800",
	AlertError:   "border-red-200 bg-red-50 text-red-800",
}

// Alert renders a status banner. Extra classes override the variant's.
func Alert(variant AlertVariant, message string, class ...string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if message == "" {
			return nil
		}
		classes := twmerge.Merge(append([]string{
			"mb-4 rounded-md border px-4 py-3 text-sm",
			alertVariants[variant],
		}, class...)...)
		_, err := fmt.Fprintf(w, `<div role="alert" data-variant="%s" class="%s">%s</div>`,
			templ.EscapeString(string(variant)),
			templ.EscapeString(classes),
			templ.EscapeString(message),
		)
		return err
	})
}
