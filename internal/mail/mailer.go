package mail

import (
	"fmt"

	log "github.com/sirupsen/logrus"
	gomail "gopkg.in/gomail.v2"

	"github.com/fidelizaa/loyalty/internal/config"
)

// Mailer sends transactional notifications over SMTP. A nil *Mailer is
// valid and drops messages, mirroring how the service runs without mail
// credentials configured.
type Mailer struct {
	dialer *gomail.Dialer
	from   string
	leadTo string
}

// New constructs a Mailer, or nil when no SMTP host is configured.
func New(cfg config.MailConfig) *Mailer {
	if cfg.Host == "" {
		log.Warn("mail credentials not configured, notifications disabled")
		return nil
	}
	return &Mailer{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:   cfg.From,
		leadTo: cfg.LeadTo,
	}
}

// SendLeadNotification notifies the sales inbox about a new lead.
func (m *Mailer) SendLeadNotification(name, email, phone, company, message string) {
	if m == nil || m.leadTo == "" {
		return
	}
	body := fmt.Sprintf(
		"New lead captured.\n\nName: %s\nEmail: %s\nPhone: %s\nCompany: %s\n\n%s\n",
		name, email, phone, company, message,
	)
	m.send(m.leadTo, "New lead: "+name, body)
}

// SendStoreWelcome delivers initial credentials to a provisioned store owner.
func (m *Mailer) SendStoreWelcome(ownerEmail, storeName, customURL, password string) {
	if m == nil {
		return
	}
	body := fmt.Sprintf(
		"Your store %q is ready.\n\nStore page: %s\nLogin: %s\nTemporary password: %s\n\nPlease change the password after the first login.\n",
		storeName, customURL, ownerEmail, password,
	)
	m.send(ownerEmail, "Welcome to your loyalty program", body)
}

// send delivers one message, logging failures. Notification mail is
// best-effort and never blocks the calling request's outcome.
func (m *Mailer) send(to, subject, body string) {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)

	if err := m.dialer.DialAndSend(msg); err != nil {
		log.Errorf("send mail to %s failed: %v", to, err)
	}
}
