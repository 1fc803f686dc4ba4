package report

import (
	"bytes"
	"context"
	"fmt"

	"github.com/wneessen/go-mail"
)

// Mailer sends report mail over authenticated SMTP.
type Mailer struct {
	host string
	port int
	user string
	pass string
	from string
	to   string
}

func NewMailer(host string, port int, user, pass, from, to string) *Mailer {
	return &Mailer{host: host, port: port, user: user, pass: pass, from: from, to: to}
}

// Send delivers a plain-text message with the CSV report attached.
// attachment may be empty, in which case only the body is sent.
func (m *Mailer) Send(ctx context.Context, subject, body string, attachment []byte) error {
	msg := mail.NewMsg()
	if err := msg.From(m.from); err != nil {
		return fmt.Errorf("set from address: %w", err)
	}
	if err := msg.To(m.to); err != nil {
		return fmt.Errorf("set to address: %w", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextPlain, body)
	if len(attachment) > 0 {
		if err := msg.AttachReader("coverage.csv", bytes.NewReader(attachment)); err != nil {
			return fmt.Errorf("attach report: %w", err)
		}
	}

	client, err := mail.NewClient(m.host,
		mail.WithPort(m.port),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(m.user),
		mail.WithPassword(m.pass),
	)
	if err != nil {
		return fmt.Errorf("smtp client: %w", err)
	}
	return client.DialAndSendWithContext(ctx, msg)
}
