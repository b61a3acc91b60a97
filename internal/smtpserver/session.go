package smtpserver

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/emersion/go-smtp"
	"github.com/google/uuid"

	"github.com/yourusername/intakeserver/internal/models"
	"github.com/yourusername/intakeserver/internal/utils"
)

/* ------------------------------------------------------------------
   Session stores a reference to AppAPI (defined in backend.go)
-------------------------------------------------------------------*/

type Session struct {
	app  AppAPI
	from string
	to   []string
	data []byte
}

func NewSession(a AppAPI) *Session { return &Session{app: a} }

/* ======================  AUTH PLAIN  ============================= */

// Newsletter senders are external and unauthenticated; the receiver
// gates on registered intake addresses instead.
func (s *Session) AuthPlain(username, password string) error {
	return errors.New("authentication not supported")
}

/* ======================  ENVELOPE  =============================== */

func (s *Session) Mail(from string, _ *smtp.MailOptions) error {
	s.from = from
	return nil
}

func (s *Session) Rcpt(to string) error {
	cfg := s.app.GetConfig()

	if !strings.HasSuffix(strings.ToLower(to), "@"+cfg.Domain) {
		return errors.New("recipient domain not served by this server")
	}

	if _, err := s.app.GetStorage().GetSubscriptionByAddressAnyUser(to); err != nil {
		return errors.New("recipient not found")
	}

	s.to = append(s.to, to)
	return nil
}

/* ======================  DATA  =================================== */

func (s *Session) Data(r io.Reader) error {
	if len(s.to) == 0 {
		return errors.New("no recipients specified")
	}

	buf, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	s.data = buf

	msg, err := parseMessage(s.data)
	if err != nil {
		return fmt.Errorf("unreadable message: %w", err)
	}

	for _, rcpt := range s.to {
		if err := s.storeEmail(rcpt, msg); err != nil {
			s.app.GetLog().WithError(err).
				Errorf("storing email to %s", rcpt)
		}
	}
	return nil
}

/* ======================  STORE EMAIL  ============================ */

func (s *Session) storeEmail(recipient string, msg parsedMessage) error {
	sub, err := s.app.GetStorage().GetSubscriptionByAddressAnyUser(recipient)
	if err != nil {
		return fmt.Errorf("subscription not found: %w", err)
	}

	from := msg.From
	if from == "" {
		from = s.from
	}

	replyTo := ""
	if msg.ReplyTo != "" {
		replyTo = utils.ParseEmailAddress(msg.ReplyTo).Address
	}

	id := uuid.New().String()
	if err := s.app.GetFiles().SaveRaw(id, s.data); err != nil {
		return fmt.Errorf("save raw: %w", err)
	}

	err = s.app.GetStorage().CreateReceivedEmail(models.ReceivedEmail{
		ID:        id,
		UserID:    sub.UserID,
		From:      from,
		To:        recipient,
		ReplyTo:   replyTo,
		Subject:   msg.Subject,
		HTML:      msg.HTML,
		Type:      models.EmailTypeNonArticle,
		CreatedAt: time.Now(),
	})
	if err != nil {
		_ = s.app.GetFiles().DeleteRaw(id)
		return fmt.Errorf("save metadata: %w", err)
	}

	s.app.GetLog().Infof("email from %s to %s stored", from, recipient)
	return nil
}

/* ======================  SESSION CLEANUP  ======================= */

func (s *Session) Reset() {
	s.from, s.to, s.data = "", nil, nil
}

func (s *Session) Logout() error { return nil }

var _ smtp.Session = (*Session)(nil)
