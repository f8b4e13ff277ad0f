// Package mailbox polls an IMAP inbox for booking-platform notification
// mails and feeds them through the reconciliation pipeline. Polling is
// driven by the scheduler; each run drains the folder's unseen messages.
package mailbox

import (
	"context"
	"fmt"

	"salon_portal_backend/internal/reconcile/service"
	"salon_portal_backend/platform/config"
	"salon_portal_backend/platform/logger"
	"salon_portal_backend/platform/sanitize"

	imap "github.com/BrianLeishman/go-imap"
	"github.com/google/uuid"
)

// EventProcessor runs the reconciliation pipeline for one notification.
type EventProcessor interface {
	ProcessEvent(ctx context.Context, salonID uuid.UUID, in service.Inbound) (service.Result, error)
}

type Poller struct {
	cfg       config.MailboxConfig
	salonID   uuid.UUID
	processor EventProcessor
	logger    *logger.Logger
}

func NewPoller(cfg config.MailboxConfig, processor EventProcessor, log *logger.Logger) (*Poller, error) {
	salonID, err := uuid.Parse(cfg.GetMailboxSalonID())
	if err != nil {
		return nil, fmt.Errorf("invalid mailbox salon id: %w", err)
	}
	return &Poller{
		cfg:       cfg,
		salonID:   salonID,
		processor: processor,
		logger:    log,
	}, nil
}

// Poll connects to the inbox and processes every unseen message. Messages
// whose pipeline run reaches a business outcome are marked seen; messages
// that hit an infrastructure error stay unseen and are retried next run.
func (p *Poller) Poll(ctx context.Context) error {
	dialer, err := imap.New(
		p.cfg.GetIMAPUsername(),
		p.cfg.GetIMAPPassword(),
		p.cfg.GetIMAPHost(),
		p.cfg.GetIMAPPort(),
	)
	if err != nil {
		return fmt.Errorf("connect to mailbox: %w", err)
	}
	defer dialer.Close()

	if err := dialer.SelectFolder(p.cfg.GetIMAPFolder()); err != nil {
		return fmt.Errorf("select folder %q: %w", p.cfg.GetIMAPFolder(), err)
	}

	uids, err := dialer.GetUIDs("UNSEEN")
	if err != nil {
		return fmt.Errorf("search unseen messages: %w", err)
	}
	if len(uids) == 0 {
		return nil
	}
	p.logger.MailboxEvent("unseen_messages", len(uids))

	emails, err := dialer.GetEmails(uids...)
	if err != nil {
		return fmt.Errorf("fetch messages: %w", err)
	}

	var processed int
	for uid, email := range emails {
		if err := ctx.Err(); err != nil {
			return err
		}

		in := service.Inbound{
			Subject:   email.Subject,
			Body:      email.Text,
			MessageID: email.MessageID,
		}
		if in.Body == "" && email.HTML != "" {
			in.Body = sanitize.StripHTML(email.HTML)
		}

		if _, err := p.processor.ProcessEvent(ctx, p.salonID, in); err != nil {
			p.logger.PipelineError("mailbox", in.MessageID, err)
			continue
		}
		if err := dialer.MarkSeen(uid); err != nil {
			p.logger.PipelineError("mark_seen", in.MessageID, err)
			continue
		}
		processed++
	}

	p.logger.MailboxEvent("processed_messages", processed)
	return nil
}
