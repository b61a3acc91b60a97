package email

import (
	"gopkg.in/gomail.v2"

	"github.com/yourusername/intakeserver/internal/config"
)

// Message is one outgoing email.
type Message struct {
	To      string
	From    string
	Subject string
	Text    string
}

// OutboundService sends mail through the configured authenticated relay.
// Delivery routing, DKIM signing and the rest of the transport story
// belong to the relay, not to this process.
type OutboundService struct {
	relay config.RelayConfig
}

// NewOutboundService creates a new outbound email service
func NewOutboundService(relay config.RelayConfig) *OutboundService {
	return &OutboundService{relay: relay}
}

// Send delivers a single plain-text message via the relay.
func (s *OutboundService) Send(msg Message) error {
	m := gomail.NewMessage()
	m.SetHeader("From", msg.From)
	m.SetHeader("To", msg.To)
	m.SetHeader("Subject", msg.Subject)
	m.SetBody("text/plain", msg.Text)

	d := gomail.NewDialer(s.relay.Host, s.relay.Port, s.relay.User, s.relay.Password)

	return d.DialAndSend(m)
}
