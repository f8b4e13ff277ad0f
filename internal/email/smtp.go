package email

import (
	"context"
	"fmt"
	"net"
	"time"

	"salon_portal_backend/internal/reconcile/repository"

	"github.com/google/uuid"
	gomail "github.com/wneessen/go-mail"
)

// SMTPSender implements the Sender interface using a direct SMTP connection via go-mail.
type SMTPSender struct {
	host          string
	port          int
	username      string
	password      string
	fromName      string
	fromEmail     string
	operatorEmail string
}

// NewSMTPSender creates a new SMTPSender with the given SMTP credentials.
// Notifications go to operatorEmail.
func NewSMTPSender(host string, port int, username, password, fromEmail, fromName, operatorEmail string) *SMTPSender {
	return &SMTPSender{
		host:          host,
		port:          port,
		username:      username,
		password:      password,
		fromName:      fromName,
		fromEmail:     fromEmail,
		operatorEmail: operatorEmail,
	}
}

var _ Sender = (*SMTPSender)(nil)

func (s *SMTPSender) send(ctx context.Context, toEmail, subject, htmlContent string) error {
	msg := gomail.NewMsg()
	if err := msg.FromFormat(s.fromName, s.fromEmail); err != nil {
		return fmt.Errorf("smtp from: %w", err)
	}
	if err := msg.To(toEmail); err != nil {
		return fmt.Errorf("smtp to: %w", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(gomail.TypeTextHTML, htmlContent)

	client, err := gomail.NewClient(s.host,
		gomail.WithPort(s.port),
		gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
		gomail.WithUsername(s.username),
		gomail.WithPassword(s.password),
		gomail.WithTLSPortPolicy(gomail.TLSOpportunistic),
		gomail.WithTimeout(15*time.Second),
		gomail.WithDialContextFunc(func(dctx context.Context, _ string, addr string) (net.Conn, error) {
			return (&net.Dialer{}).DialContext(dctx, "tcp4", addr)
		}),
	)
	if err != nil {
		return fmt.Errorf("smtp client: %w", err)
	}

	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}

	return nil
}

func (s *SMTPSender) SendPendingAlert(ctx context.Context, pending *repository.PendingEvent) error {
	content, err := renderEmailTemplate("pending_alert.html", pendingAlertEmailData{
		baseEmailData: baseEmailData{
			Title:   "Zdarzenie wymaga weryfikacji",
			Heading: "Zdarzenie wymaga weryfikacji",
		},
		Subject:   pending.Subject,
		Reason:    reasonLabel(pending.Reason),
		Detail:    pending.Detail,
		MessageID: pending.MessageID,
		CreatedAt: pending.CreatedAt.Format("2006-01-02 15:04"),
	})
	if err != nil {
		return err
	}
	return s.send(ctx, s.operatorEmail, subjectPendingAlert, content)
}

func (s *SMTPSender) SendPendingDigest(ctx context.Context, salonID uuid.UUID, pending []repository.PendingEvent) error {
	items := make([]pendingDigestItem, 0, len(pending))
	for i := range pending {
		p := &pending[i]
		items = append(items, pendingDigestItem{
			Subject:   p.Subject,
			Reason:    reasonLabel(p.Reason),
			Detail:    p.Detail,
			CreatedAt: p.CreatedAt.Format("2006-01-02 15:04"),
		})
	}

	content, err := renderEmailTemplate("pending_digest.html", pendingDigestEmailData{
		baseEmailData: baseEmailData{
			Title:   "Oczekujące zdarzenia rezerwacji",
			Heading: "Oczekujące zdarzenia rezerwacji",
		},
		SalonID: salonID.String(),
		Count:   len(items),
		Items:   items,
	})
	if err != nil {
		return err
	}
	return s.send(ctx, s.operatorEmail, fmt.Sprintf(subjectPendingDigestFmt, len(items)), content)
}
