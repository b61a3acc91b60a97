package smtpserver

import (
	"github.com/emersion/go-smtp"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/intakeserver/internal/config"
	"github.com/yourusername/intakeserver/internal/storage"
)

// AppAPI is the slice of the running application the intake receiver needs.
type AppAPI interface {
	GetStorage() *storage.Database
	GetFiles() *storage.FileStorage
	GetConfig() config.Config
	GetLog() *logrus.Logger
}

type Backend struct{ app AppAPI }

func NewBackend(a AppAPI) *Backend { return &Backend{app: a} }

func (b *Backend) NewSession(*smtp.Conn) (smtp.Session, error) {
	return NewSession(b.app), nil
}
