package service

import (
	"bytes"
	"embed"
	"fmt"
	"text/template"
	"time"

	"github.com/templui/authgate/internal/markdown"
)

//go:embed emails/*.md
var emailsFS embed.FS

var emailTemplates = template.Must(template.ParseFS(emailsFS, "emails/*.md"))

type renderedEmail struct {
	Subject string
	HTML    string
	Text    string
}

type verifyEmailData struct {
	AppName   string
	URL       string
	ExpiresIn string
}

// renderEmail executes a markdown template and converts it to HTML.
// The subject comes from the template's frontmatter.
func renderEmail(parser *markdown.Parser, name string, data any) (*renderedEmail, error) {
	var src bytes.Buffer
	err := emailTemplates.ExecuteTemplate(&src, name, data)
	if err != nil {
		return nil, fmt.Errorf("execute email template %s: %w", name, err)
	}

	html, meta, err := parser.ParseWithFrontmatter(src.Bytes())
	if err != nil {
		return nil, fmt.Errorf("render email template %s: %w", name, err)
	}

	subject, _ := meta["subject"].(string)
	if subject == "" {
		return nil, fmt.Errorf("email template %s has no subject", name)
	}

	return &renderedEmail{
		Subject: subject,
		HTML:    string(html),
		Text:    string(markdown.Body(src.Bytes())),
	}, nil
}

// humanDuration formats whole hours and minutes for email copy.
func humanDuration(d time.Duration) string {
	switch {
	case d >= time.Hour && d%time.Hour == 0:
		hours := int(d / time.Hour)
		if hours == 1 {
			return "1 hour"
		}
		return fmt.Sprintf("%d hours", hours)
	case d >= time.Minute && d%time.Minute == 0:
		minutes := int(d / time.Minute)
		if minutes == 1 {
			return "1 minute"
		}
		return fmt.Sprintf("%d minutes", minutes)
	default:
		return d.String()
	}
}
