package app

import (
	"fmt"
	"time"

	"github.com/emersion/go-smtp"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/intakeserver/internal/auth"
	"github.com/yourusername/intakeserver/internal/config"
	"github.com/yourusername/intakeserver/internal/email"
	"github.com/yourusername/intakeserver/internal/intake"
	"github.com/yourusername/intakeserver/internal/logging"
	"github.com/yourusername/intakeserver/internal/smtpserver"
	"github.com/yourusername/intakeserver/internal/storage"
)

/* ------------------------------------------------------------------
   App struct — runtime container
-------------------------------------------------------------------*/

type App struct {
	// configuration & infrastructure
	cfg        config.Config
	log        *logrus.Logger
	storage    *storage.Database
	files      *storage.FileStorage
	smtpServer *smtp.Server
	webRouter  *gin.Engine

	// services
	authService   *auth.Service
	intakeService *intake.Service
}

/* ------------------------------------------------------------------
   Public getters (required by api handlers and smtpserver.AppAPI)
-------------------------------------------------------------------*/

func (a *App) GetConfig() config.Config       { return a.cfg }
func (a *App) GetLog() *logrus.Logger         { return a.log }
func (a *App) GetStorage() *storage.Database  { return a.storage }
func (a *App) GetFiles() *storage.FileStorage { return a.files }
func (a *App) GetAuth() *auth.Service         { return a.authService }
func (a *App) GetIntake() *intake.Service     { return a.intakeService }
func (a *App) SetWebRouter(r *gin.Engine)     { a.webRouter = r }

/* ------------------------------------------------------------------
   Init / Run / Close lifecycle
-------------------------------------------------------------------*/

func (a *App) Init() error {
	/* 1. configuration */
	c, err := config.Load()
	if err != nil {
		return err
	}
	a.cfg = c

	/* 2. logging */
	a.log = logging.New(c.LogLevel)

	/* 3. storage */
	a.storage, err = storage.NewDatabase(c.DB)
	if err != nil {
		return err
	}
	a.files, err = storage.NewFileStorage(c.EmailStoragePath)
	if err != nil {
		return err
	}

	/* 4. services */
	a.authService = auth.NewService(c.JWTSecret)
	mailer := email.NewOutboundService(c.Relay)
	a.intakeService = intake.NewService(a.storage, mailer, c.Notify, a.log)

	/* 5. SMTP intake receiver */
	a.initSMTP()
	return nil
}

func (a *App) Run() error {
	go func() {
		a.log.Infof("SMTP listening on %s", a.smtpServer.Addr)
		if err := a.smtpServer.ListenAndServe(); err != nil {
			a.log.Fatalf("smtp: %v", err)
		}
	}()
	return nil
}

func (a *App) Close() error {
	_ = a.smtpServer.Close()
	return a.storage.Close()
}

/* ------------------------------------------------------------------
   internal helpers
-------------------------------------------------------------------*/

func (a *App) initSMTP() {
	be := smtpserver.NewBackend(a)
	s := smtp.NewServer(be)
	s.Addr = fmt.Sprintf("%s:%d", a.cfg.SMTPHost, a.cfg.SMTPPort)
	s.Domain = a.cfg.Domain
	s.ReadTimeout, s.WriteTimeout = 10*time.Second, 10*time.Second
	s.MaxMessageBytes, s.MaxRecipients = 1<<20, 50

	a.smtpServer = s
}
