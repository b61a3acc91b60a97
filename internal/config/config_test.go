package config

import (
	"testing"

	"github.com/spf13/viper"
)

func TestLoadDefaults(t *testing.T) {
	viper.Reset()
	viper.Set("email_storage_path", t.TempDir())

	c, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if c.WebPort != 8080 {
		t.Errorf("WebPort = %d, want 8080", c.WebPort)
	}
	if c.SMTPPort != 25 {
		t.Errorf("SMTPPort = %d, want 25", c.SMTPPort)
	}
	if c.Domain != "example.com" {
		t.Errorf("Domain = %q, want example.com", c.Domain)
	}
	if c.Relay.Port != 587 {
		t.Errorf("Relay.Port = %d, want 587", c.Relay.Port)
	}

	// system sender falls back to a fixed mailbox on the served domain
	if c.Notify.Sender != "system@example.com" {
		t.Errorf("Notify.Sender = %q, want system@example.com", c.Notify.Sender)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	viper.Reset()
	viper.Set("email_storage_path", t.TempDir())

	t.Setenv("INTAKESERVER_DOMAIN", "intake.example")
	t.Setenv("INTAKESERVER_JWT_SECRET", "sekrit")
	t.Setenv("INTAKESERVER_NOTIFY_OPERATOR", "ops@intake.example")

	c, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if c.Domain != "intake.example" {
		t.Errorf("Domain = %q, want intake.example", c.Domain)
	}
	if c.JWTSecret != "sekrit" {
		t.Errorf("JWTSecret = %q, want sekrit", c.JWTSecret)
	}
	if c.Notify.Operator != "ops@intake.example" {
		t.Errorf("Notify.Operator = %q, want ops@intake.example", c.Notify.Operator)
	}
	if c.Notify.Sender != "system@intake.example" {
		t.Errorf("Notify.Sender = %q, want system@intake.example", c.Notify.Sender)
	}
}
