package app

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	require.Equal(t, 8000, cfg.Server.Port)
	require.Equal(t, "info", cfg.Server.LogLevel)
	require.Equal(t, "sqlite", cfg.Database.Driver)
	require.Equal(t, 24*time.Hour, cfg.Auth.JWT.TTL)
	require.False(t, cfg.Email.SMTP.Enabled)
	require.False(t, cfg.SMS.SNS.Enabled)
	require.Equal(t, 90, cfg.Retention.DeliveryLogDays)
	require.Equal(t, "@daily", cfg.Retention.Schedule)
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	t.Setenv("HIREBRIDGE_SERVER_PORT", "9100")
	t.Setenv("HIREBRIDGE_AUTH_JWT_SECRET", "env-secret")
	t.Setenv("HIREBRIDGE_AUTH_JWT_TOKEN_TTL", "48h")
	t.Setenv("HIREBRIDGE_SMS_SNS_REGION", "eu-west-1")

	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	require.Equal(t, 9100, cfg.Server.Port)
	require.Equal(t, "env-secret", cfg.Auth.JWT.Secret)
	require.Equal(t, 48*time.Hour, cfg.Auth.JWT.TTL)
	require.Equal(t, "eu-west-1", cfg.SMS.SNS.Region)
}
