package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyDefaults(t *testing.T) {
	cfg := &Config{}
	applyDefaults(cfg)

	assert.Equal(t, "outvoice-backend", cfg.App.Name)
	assert.Equal(t, "development", cfg.App.Env)
	assert.Equal(t, "8080", cfg.App.Port)
	assert.Equal(t, 15*time.Second, cfg.HTTP.ReadTimeout)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "addresses.db", cfg.Database.Path)
	assert.Equal(t, "resources", cfg.Resources.Dir)
	assert.Equal(t, "templates/invoice.pdf", cfg.Resources.TemplateFile)
	assert.Equal(t, "invoices", cfg.Resources.OutputDir)
	assert.Equal(t, "eu-west-2", cfg.Mail.Region)
	assert.Equal(t, "lp", cfg.Printing.Binary)
	assert.Equal(t, 30*time.Second, cfg.Printing.Timeout)
}

func TestApplyDefaultsPreservesExplicitValues(t *testing.T) {
	cfg := &Config{
		App:       AppConfig{Port: "9090"},
		Database:  DatabaseConfig{Path: "/var/lib/outvoice/book.db"},
		Resources: ResourcesConfig{OutputDir: "/srv/invoices"},
	}
	applyDefaults(cfg)

	assert.Equal(t, "9090", cfg.App.Port)
	assert.Equal(t, "/var/lib/outvoice/book.db", cfg.Database.Path)
	assert.Equal(t, "/srv/invoices", cfg.Resources.OutputDir)
}

func TestValidateRejectsWildcardCORSInProduction(t *testing.T) {
	cfg := &Config{
		App:  AppConfig{Env: "production"},
		HTTP: HTTPConfig{CORSAllowOrigins: []string{"*"}},
	}
	applyDefaults(cfg)

	err := cfg.validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cors_allow_origins")
}

func TestValidateAcceptsDefaults(t *testing.T) {
	cfg := &Config{}
	applyDefaults(cfg)

	require.NoError(t, cfg.validate())
}
