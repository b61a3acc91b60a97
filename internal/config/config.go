package config

import (
	"fmt"
	"os"

	"github.com/spf13/viper"
)

/* ---------- raw structs ---------- */

type DBConfig struct {
	Host, User, Password, DBName, SSLMode string
	Port                                  int
}

// RelayConfig is the authenticated SMTP relay used for outgoing mail
// (reply acknowledgements and operator notifications).
type RelayConfig struct {
	Host, User, Password string
	Port                 int
}

// NotifyConfig holds the addresses for out-of-band operator notices.
// Operator is the operations mailbox, Sender the system from-address.
type NotifyConfig struct {
	Operator string
	Sender   string
}

type Config struct {
	SMTPHost, WebHost, Domain, JWTSecret, LogLevel, EmailStoragePath string
	SMTPPort, WebPort                                                int
	DB                                                               DBConfig
	Relay                                                            RelayConfig
	Notify                                                           NotifyConfig
}

/* ---------- loader ---------- */

func Load() (Config, error) {

	viper.SetDefault("smtp.host", "0.0.0.0")
	viper.SetDefault("smtp.port", 25)
	viper.SetDefault("web.host", "0.0.0.0")
	viper.SetDefault("web.port", 8080)
	viper.SetDefault("domain", "example.com")
	viper.SetDefault("db.sslmode", "disable")
	viper.SetDefault("relay.port", 587)
	viper.SetDefault("log_level", "info")
	viper.SetDefault("email_storage_path", "./emails")

	_ = viper.ReadInConfig() // ignore missing config file

	c := Config{
		SMTPHost: viper.GetString("smtp.host"),
		SMTPPort: viper.GetInt("smtp.port"),
		WebHost:  viper.GetString("web.host"),
		WebPort:  viper.GetInt("web.port"),
		Domain:   viper.GetString("domain"),
		DB: DBConfig{
			Host:     viper.GetString("db.host"),
			Port:     viper.GetInt("db.port"),
			User:     viper.GetString("db.user"),
			Password: viper.GetString("db.password"),
			DBName:   viper.GetString("db.name"),
			SSLMode:  viper.GetString("db.sslmode"),
		},
		Relay: RelayConfig{
			Host:     viper.GetString("relay.host"),
			Port:     viper.GetInt("relay.port"),
			User:     viper.GetString("relay.user"),
			Password: viper.GetString("relay.password"),
		},
		Notify: NotifyConfig{
			Operator: viper.GetString("notify.operator"),
			Sender:   viper.GetString("notify.sender"),
		},
		JWTSecret:        viper.GetString("jwt_secret"),
		LogLevel:         viper.GetString("log_level"),
		EmailStoragePath: viper.GetString("email_storage_path"),
	}

	// ---- OVERRIDE WITH ENV VARS (STRICT) ----
	if v := os.Getenv("INTAKESERVER_DB_HOST"); v != "" {
		c.DB.Host = v
	}
	if v := os.Getenv("INTAKESERVER_DB_PORT"); v != "" {
		fmt.Sscanf(v, "%d", &c.DB.Port)
	}
	if v := os.Getenv("INTAKESERVER_DB_USER"); v != "" {
		c.DB.User = v
	}
	if v := os.Getenv("INTAKESERVER_DB_PASSWORD"); v != "" {
		c.DB.Password = v
	}
	if v := os.Getenv("INTAKESERVER_DB_NAME"); v != "" {
		c.DB.DBName = v
	}
	if v := os.Getenv("INTAKESERVER_DOMAIN"); v != "" {
		c.Domain = v
	}
	if v := os.Getenv("INTAKESERVER_JWT_SECRET"); v != "" {
		c.JWTSecret = v
	}
	if v := os.Getenv("INTAKESERVER_RELAY_HOST"); v != "" {
		c.Relay.Host = v
	}
	if v := os.Getenv("INTAKESERVER_RELAY_PASSWORD"); v != "" {
		c.Relay.Password = v
	}
	if v := os.Getenv("INTAKESERVER_NOTIFY_OPERATOR"); v != "" {
		c.Notify.Operator = v
	}
	if v := os.Getenv("INTAKESERVER_NOTIFY_SENDER"); v != "" {
		c.Notify.Sender = v
	}

	// sensible fallback: system notices come from a fixed mailbox on our domain
	if c.Notify.Sender == "" {
		c.Notify.Sender = "system@" + c.Domain
	}

	// ---- CREATE STORAGE PATH DIR ----
	if err := os.MkdirAll(c.EmailStoragePath, 0o755); err != nil {
		return Config{}, fmt.Errorf("mkdir email storage: %w", err)
	}

	return c, nil
}
