// Package alert notifies operators when a retrieval dependency degrades,
// such as a circuit breaker opening against the search index or the LLM.
package alert

import (
	"fmt"
	"net/smtp"
	"strings"
	"time"

	"github.com/polisearch/polisearch/pkg/config"
)

// subjectPrefix tags operator mail so inbox rules can route it.
const subjectPrefix = "[polisearch]"

// Alerter defines an interface for sending alerts
type Alerter interface {
	Alert(subject, message string) error
}

// EmailAlerter implements Alerter using SMTP
type EmailAlerter struct {
	cfg config.AlertConfig
	now func() time.Time
}

// NewEmailAlerter creates a new email alerter
func NewEmailAlerter(cfg config.AlertConfig) *EmailAlerter {
	return &EmailAlerter{
		cfg: cfg,
		now: time.Now,
	}
}

// Alert sends an email with the given subject and message
func (a *EmailAlerter) Alert(subject, message string) error {
	if !a.cfg.Enabled {
		return nil
	}

	auth := smtp.PlainAuth("", a.cfg.Username, a.cfg.Password, a.cfg.SMTPHost)
	addr := fmt.Sprintf("%s:%d", a.cfg.SMTPHost, a.cfg.SMTPPort)

	err := smtp.SendMail(addr, auth, a.cfg.From, a.cfg.To, a.formatMessage(subject, message))
	if err != nil {
		return fmt.Errorf("failed to send alert email: %w", err)
	}

	return nil
}

// formatMessage renders the mail body. The timestamp is included in the body
// because degraded-dependency mail is often read long after delivery.
func (a *EmailAlerter) formatMessage(subject, message string) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", a.cfg.From)
	fmt.Fprintf(&b, "To: %s\r\n", strings.Join(a.cfg.To, ","))
	fmt.Fprintf(&b, "Subject: %s %s\r\n", subjectPrefix, subject)
	b.WriteString("\r\n")
	fmt.Fprintf(&b, "Time: %s\r\n\r\n", a.now().UTC().Format(time.RFC3339))
	fmt.Fprintf(&b, "%s\r\n", message)
	return []byte(b.String())
}

// NoOpAlerter is a dummy alerter for when alerting is disabled
type NoOpAlerter struct{}

func (n *NoOpAlerter) Alert(subject, message string) error {
	return nil
}
