package intake

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/intakeserver/internal/config"
	"github.com/yourusername/intakeserver/internal/email"
	"github.com/yourusername/intakeserver/internal/models"
	"github.com/yourusername/intakeserver/internal/storage"
	"github.com/yourusername/intakeserver/internal/utils"
)

// Failure outcomes of the promotion and reply pipelines. Handlers map
// these to protocol error codes; nothing here panics past its boundary.
var (
	// ErrUnauthorized: the email does not exist, is not owned by the
	// caller, or (for promotion) has already been promoted.
	ErrUnauthorized = errors.New("email not found for user")
	// ErrNoSubscription: no registered intake address matches the
	// email's recipient address.
	ErrNoSubscription = errors.New("no subscription for recipient address")
	// ErrItemNotSaved: the library store refused the promoted item.
	ErrItemNotSaved = errors.New("library item not saved")
)

const (
	// RecentEmailsLimit caps the recent-emails listing.
	RecentEmailsLimit = 20

	replyText = "Okay"

	notificationSubject = "A recent email marked as a library item"
)

// Store is the persistence surface the pipeline needs. Every lookup
// and mutation is scoped to a user where ownership matters.
type Store interface {
	ListRecentReceivedEmails(userID string, limit int) ([]models.ReceivedEmail, error)
	GetReceivedEmailByID(id, userID string) (models.ReceivedEmail, error)
	GetPromotableEmail(id, userID string) (models.ReceivedEmail, error)
	GetSubscriptionByAddress(userID, address string) (models.Subscription, error)
	CreateLibraryItem(item models.LibraryItem) (bool, error)
	MarkReceivedEmailAsItem(id, userID string) (bool, error)
	UpdateReceivedEmailReply(id, reply string) error
}

// Mailer delivers outgoing messages. Send failures are reported as
// errors, never as panics.
type Mailer interface {
	Send(msg email.Message) error
}

// Service implements the email-to-item promotion pipeline: matching a
// received email to a registered intake address, persisting it as a
// library item exactly once, flipping the email's state, and firing
// the operator notification.
type Service struct {
	store  Store
	mailer Mailer
	notify config.NotifyConfig
	log    *logrus.Logger
}

// NewService creates a new intake service
func NewService(store Store, mailer Mailer, notify config.NotifyConfig, log *logrus.Logger) *Service {
	return &Service{
		store:  store,
		mailer: mailer,
		notify: notify,
		log:    log,
	}
}

// RecentEmails returns up to RecentEmailsLimit of the user's received
// emails, newest first.
func (s *Service) RecentEmails(userID string) ([]models.ReceivedEmail, error) {
	return s.store.ListRecentReceivedEmails(userID, RecentEmailsLimit)
}

// MarkEmailAsItem promotes a received email into a library item.
//
// The lookup is scoped to the calling user and to emails still typed
// non-article, so a foreign or already-promoted email surfaces as
// ErrUnauthorized. The recipient address must match one of the user's
// registered intake addresses (case-insensitive) or the promotion
// fails with ErrNoSubscription. Persistence failure aborts before any
// state change. Only after the item is saved is the email's type
// flipped, and only then is the operator notified.
func (s *Service) MarkEmailAsItem(userID, emailID string) error {
	recentEmail, err := s.store.GetPromotableEmail(emailID, userID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			s.log.WithFields(logrus.Fields{"email_id": emailID, "user_id": userID}).
				Info("no recent email")
			return ErrUnauthorized
		}
		return fmt.Errorf("looking up email: %w", err)
	}

	subscription, err := s.store.GetSubscriptionByAddress(userID, recentEmail.To)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			s.log.WithFields(logrus.Fields{
				"email_id": recentEmail.ID,
				"to":       recentEmail.To,
				"from":     recentEmail.From,
			}).Info("no subscription for email")
			return ErrNoSubscription
		}
		return fmt.Errorf("looking up subscription: %w", err)
	}

	sender := utils.ParseEmailAddress(recentEmail.From)
	item := models.LibraryItem{
		ID:              uuid.New().String(),
		UserID:          subscription.UserID,
		From:            recentEmail.From,
		Email:           recentEmail.To,
		Title:           recentEmail.Subject,
		Content:         recentEmail.HTML,
		URL:             utils.GenerateItemURL(),
		Author:          sender.Name,
		ReceivedEmailID: recentEmail.ID,
		CreatedAt:       time.Now(),
	}

	saved, err := s.store.CreateLibraryItem(item)
	if err != nil || !saved {
		s.log.WithField("email_id", recentEmail.ID).WithError(err).
			Info("library item not created")
		return ErrItemNotSaved
	}

	if _, err := s.store.MarkReceivedEmailAsItem(recentEmail.ID, userID); err != nil {
		return fmt.Errorf("updating email type: %w", err)
	}

	s.notifyPromotion(userID, recentEmail)

	return nil
}

// ReplyToEmail sends the canned acknowledgement for a received email.
//
// The reply goes to the Reply-To address when one is present, else to
// the sender, and goes out from the address the original was sent to,
// keeping the conversation's address pair symmetric. The returned bool
// is the send outcome: a transport failure is not an error, and a
// failed send leaves the email's reply field untouched.
func (s *Service) ReplyToEmail(userID, emailID string) (bool, error) {
	recentEmail, err := s.store.GetReceivedEmailByID(emailID, userID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			s.log.WithFields(logrus.Fields{"email_id": emailID, "user_id": userID}).
				Info("no recent email")
			return false, ErrUnauthorized
		}
		return false, fmt.Errorf("looking up email: %w", err)
	}

	to := recentEmail.ReplyTo
	if to == "" {
		to = recentEmail.From
	}

	err = s.mailer.Send(email.Message{
		To:      to,
		From:    recentEmail.To,
		Subject: "Re: " + recentEmail.Subject,
		Text:    replyText,
	})
	if err != nil {
		s.log.WithFields(logrus.Fields{"email_id": recentEmail.ID, "to": to}).
			WithError(err).Warn("reply send failed")
		return false, nil
	}

	if err := s.store.UpdateReceivedEmailReply(recentEmail.ID, replyText); err != nil {
		return false, fmt.Errorf("recording reply: %w", err)
	}

	return true, nil
}

// notifyPromotion tells the operations mailbox that a user manually
// promoted an email. Best-effort: the promotion already happened, so a
// delivery failure is only logged.
func (s *Service) notifyPromotion(userID string, recentEmail models.ReceivedEmail) {
	if s.notify.Operator == "" {
		return
	}

	text := fmt.Sprintf("A recent email marked as a library item\nby: %s\nfrom: %s\nsubject: %s",
		userID, recentEmail.From, recentEmail.Subject)

	err := s.mailer.Send(email.Message{
		To:      s.notify.Operator,
		From:    s.notify.Sender,
		Subject: notificationSubject,
		Text:    text,
	})
	if err != nil {
		s.log.WithField("email_id", recentEmail.ID).WithError(err).
			Warn("promotion notification failed")
	}
}
