package mail

import (
	"context"
	"errors"
	"fmt"

	gomail "github.com/wneessen/go-mail"

	"github.com/chopnowhq/chopnow-backend/pkg/config"
)

// Message is a single outbound email.
type Message struct {
	From    string
	To      string
	Subject string
	HTML    string
}

// Sender delivers a message using the given mailbox credentials.
type Sender interface {
	Send(ctx context.Context, box config.Mailbox, msg Message) error
}

// SMTPMailer sends through the configured SMTP relay, authenticating as the
// per-branch mailbox.
type SMTPMailer struct {
	host string
	port int
}

// NewSMTPMailer validates the transport settings.
func NewSMTPMailer(cfg config.Mail) (*SMTPMailer, error) {
	if cfg.SMTPHost == "" {
		return nil, errors.New("smtp host is required")
	}
	if cfg.SMTPPort <= 0 {
		return nil, errors.New("smtp port must be positive")
	}
	return &SMTPMailer{host: cfg.SMTPHost, port: cfg.SMTPPort}, nil
}

// Send delivers one message. Each call dials a fresh connection; volumes are
// low enough that pooling is not worth the complexity.
func (m *SMTPMailer) Send(ctx context.Context, box config.Mailbox, msg Message) error {
	if box.Email == "" {
		return errors.New("mailbox email is required")
	}
	if msg.To == "" {
		return errors.New("recipient is required")
	}

	out := gomail.NewMsg()
	from := msg.From
	if from == "" {
		from = box.Email
	}
	if err := out.From(from); err != nil {
		return fmt.Errorf("set from: %w", err)
	}
	if err := out.To(msg.To); err != nil {
		return fmt.Errorf("set to: %w", err)
	}
	out.Subject(msg.Subject)
	out.SetBodyString(gomail.TypeTextHTML, msg.HTML)

	client, err := gomail.NewClient(m.host,
		gomail.WithPort(m.port),
		gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
		gomail.WithUsername(box.Email),
		gomail.WithPassword(box.Password),
		gomail.WithTLSPortPolicy(gomail.TLSOpportunistic),
	)
	if err != nil {
		return fmt.Errorf("build smtp client: %w", err)
	}

	if err := client.DialAndSendWithContext(ctx, out); err != nil {
		return fmt.Errorf("send mail: %w", err)
	}
	return nil
}
