// Package mailer sends transactional email over SMTP.
package mailer

import (
	"bytes"
	"fmt"
	"io"

	"github.com/roamly/api/internal/config"
	"gopkg.in/gomail.v2"
)

type Attachment struct {
	Filename    string
	ContentType string
	Content     []byte
}

type Message struct {
	To          string
	Subject     string
	HTMLBody    string
	Attachments []Attachment
}

type Mailer struct {
	from   string
	dialer *gomail.Dialer
}

// New returns nil when SMTP is not configured, callers treat a nil mailer
// as "email disabled".
func New(cfg config.SMTPConfig) *Mailer {
	if cfg.Host == "" {
		return nil
	}
	return &Mailer{
		from:   cfg.From,
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Pass),
	}
}

func (m *Mailer) Send(msg Message) error {
	if m == nil {
		return nil
	}

	gm := gomail.NewMessage()
	gm.SetHeader("From", m.from)
	gm.SetHeader("To", msg.To)
	gm.SetHeader("Subject", msg.Subject)
	gm.SetBody("text/html", msg.HTMLBody)

	for _, att := range msg.Attachments {
		content := att.Content
		gm.Attach(att.Filename,
			gomail.SetCopyFunc(func(w io.Writer) error {
				_, err := io.Copy(w, bytes.NewReader(content))
				return err
			}),
			gomail.SetHeader(map[string][]string{"Content-Type": {att.ContentType}}),
		)
	}

	if err := m.dialer.DialAndSend(gm); err != nil {
		return fmt.Errorf("failed to send email to %s: %v", msg.To, err)
	}
	return nil
}

// PaymentConfirmationBody renders the email sent after a successful payment.
func PaymentConfirmationBody(userName, tourTitle, transactionID string, amount float64) string {
	return fmt.Sprintf(`
		<div style="font-family: sans-serif; max-width: 560px; margin: 0 auto;">
			<h2>Payment received</h2>
			<p>Hi %s,</p>
			<p>Your payment for <strong>%s</strong> has been confirmed.</p>
			<p>Transaction <code>%s</code> &middot; BDT %.2f</p>
			<p>Your invoice is attached. See you on the trail!</p>
			<p>The Roamly team</p>
		</div>`,
		userName, tourTitle, transactionID, amount)
}
