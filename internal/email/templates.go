package email

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"

	"salon_portal_backend/internal/reconcile/domain"
)

//go:embed templates/*.html
var templateFS embed.FS

type baseEmailData struct {
	Title      string
	Heading    string
	Subheading string
}

type pendingAlertEmailData struct {
	baseEmailData
	Subject   string
	Reason    string
	Detail    string
	MessageID string
	CreatedAt string
}

type pendingDigestItem struct {
	Subject   string
	Reason    string
	Detail    string
	CreatedAt string
}

type pendingDigestEmailData struct {
	baseEmailData
	SalonID string
	Count   int
	Items   []pendingDigestItem
}

func renderEmailTemplate(name string, data any) (string, error) {
	templates := []string{"templates/base.html", "templates/" + name}
	tmpl, err := template.New("base.html").ParseFS(templateFS, templates...)
	if err != nil {
		return "", fmt.Errorf("parse email template %s: %w", name, err)
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "email", data); err != nil {
		return "", fmt.Errorf("execute email template %s: %w", name, err)
	}
	return buf.String(), nil
}

// reasonLabel renders failure reasons in the operator's language.
func reasonLabel(reason domain.FailureReason) string {
	switch reason {
	case domain.ReasonParseFailed:
		return "Nieczytelna wiadomość"
	case domain.ReasonServiceNotFound:
		return "Nieznana usługa"
	case domain.ReasonEmployeeNotFound:
		return "Nieznany pracownik"
	case domain.ReasonBookingNotFound:
		return "Nie znaleziono rezerwacji"
	default:
		return "Inny problem"
	}
}
