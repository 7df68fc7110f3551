package config

import (
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/carebase_test")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Port != "8000" {
		t.Errorf("expected default port 8000, got %s", cfg.Port)
	}
	if !cfg.IsDev() {
		t.Errorf("expected development default, got %s", cfg.Env)
	}
	if cfg.CheckoutPIN != "2012" {
		t.Errorf("expected legacy default PIN, got %s", cfg.CheckoutPIN)
	}
	if cfg.SessionTTLMinutes != 720 {
		t.Errorf("expected 720 minute session default, got %d", cfg.SessionTTLMinutes)
	}
}

func TestLoadRequiresDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")

	if _, err := Load(); err == nil {
		t.Error("expected error when DATABASE_URL is unset")
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/carebase_test")
	t.Setenv("PORT", "9000")
	t.Setenv("ENV", "production")
	t.Setenv("CHECKOUT_PIN", "7781")
	t.Setenv("SESSION_SIGNING_KEY", "k")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Port != "9000" || !cfg.IsProduction() || cfg.CheckoutPIN != "7781" {
		t.Errorf("overrides not applied: %+v", cfg)
	}
}

func TestValidate(t *testing.T) {
	base := Config{
		Env:               "development",
		CheckoutPIN:       "2012",
		SessionTTLMinutes: 720,
	}
	if err := base.Validate(); err != nil {
		t.Errorf("dev config with defaults should validate: %v", err)
	}

	noPIN := base
	noPIN.CheckoutPIN = ""
	if err := noPIN.Validate(); err == nil {
		t.Error("expected empty PIN to be rejected")
	}

	badTTL := base
	badTTL.SessionTTLMinutes = 0
	if err := badTTL.Validate(); err == nil {
		t.Error("expected non-positive TTL to be rejected")
	}

	prodLegacy := base
	prodLegacy.Env = "production"
	prodLegacy.SessionSigningKey = "k"
	if err := prodLegacy.Validate(); err == nil {
		t.Error("expected legacy PIN to be rejected in production")
	}

	prodNoKey := base
	prodNoKey.Env = "production"
	prodNoKey.CheckoutPIN = "7781"
	if err := prodNoKey.Validate(); err == nil {
		t.Error("expected missing signing key to be rejected in production")
	}

	prodOK := base
	prodOK.Env = "production"
	prodOK.CheckoutPIN = "7781"
	prodOK.SessionSigningKey = "k"
	if err := prodOK.Validate(); err != nil {
		t.Errorf("valid production config rejected: %v", err)
	}
}
