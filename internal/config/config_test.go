package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Setenv("JWT_SECRET", "unit-test-secret")
	t.Setenv("ADMIN_REGISTRATION_CODE", "BAKER2024")
}

func TestLoadDefaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "development", cfg.Server.Env)
	assert.False(t, cfg.Server.Production())
	assert.Equal(t, "mongodb://localhost:27017", cfg.MongoDB.URI)
	assert.Equal(t, "bakery", cfg.MongoDB.DBName)
	assert.Equal(t, 720, cfg.Auth.TokenTTL)
	assert.Equal(t, TxModeBestEffort, cfg.Orders.TxMode)
	assert.Equal(t, "0 20 * * *", cfg.Reporting.CronSchedule)
	assert.False(t, cfg.Sheets.Enabled())
}

func TestLoadOverrides(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("APP_PORT", "9000")
	t.Setenv("APP_ENV", "production")
	t.Setenv("ORDER_TX_MODE", TxModeRequired)
	t.Setenv("JWT_TTL_HOURS", "24")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.Server.Port)
	assert.True(t, cfg.Server.Production())
	assert.Equal(t, TxModeRequired, cfg.Orders.TxMode)
	assert.Equal(t, 24, cfg.Auth.TokenTTL)
}

func TestLoadRejectsMissingSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	t.Setenv("ADMIN_REGISTRATION_CODE", "BAKER2024")

	_, err := Load("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET")
}

func TestLoadRejectsUnknownTxMode(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("ORDER_TX_MODE", "sometimes")

	_, err := Load("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ORDER_TX_MODE")
}

func TestLoadRejectsBadTTL(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("JWT_TTL_HOURS", "soon")

	_, err := Load("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_TTL_HOURS")
}

func TestSheetsEnabled(t *testing.T) {
	assert.False(t, SheetsConfig{CredentialsPath: "creds.json"}.Enabled())
	assert.False(t, SheetsConfig{SpreadsheetID: "sheet-id"}.Enabled())
	assert.True(t, SheetsConfig{CredentialsPath: "creds.json", SpreadsheetID: "sheet-id"}.Enabled())
}
