package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadConfig_DefaultsAndFile(t *testing.T) {
	path := writeConfig(t, `
jwt:
  secret: "s3cret"
server:
  port: "9090"
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, "storage/public", cfg.Server.StoragePath)
	assert.Equal(t, "Asia/Manila", cfg.Analytics.Timezone)
	assert.Equal(t, 10, cfg.Analytics.TrendYears)
	assert.Equal(t, "Asia/Manila", cfg.Location().String())
}

func TestLoadConfig_EnvOverridesFile(t *testing.T) {
	path := writeConfig(t, `
jwt:
  secret: "from-file"
`)
	t.Setenv("JWT_SECRET", "from-env")
	t.Setenv("ANALYTICS_TIMEZONE", "UTC")
	t.Setenv("ANALYTICS_LOGIN_TRAFFIC_DAYS", "14")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "from-env", cfg.JWT.Secret)
	assert.Equal(t, "UTC", cfg.Location().String())
	assert.Equal(t, 14, cfg.Analytics.LoginTrafficDays)
}

func TestLoadConfig_Invalid(t *testing.T) {
	tests := []struct {
		name string
		body string
		env  map[string]string
	}{
		{name: "missing secret", body: "server:\n  port: \"1\"\n"},
		{name: "bad timezone", body: "jwt:\n  secret: x\nanalytics:\n  timezone: Mars/Olympus\n"},
		{name: "bad expiration", body: "jwt:\n  secret: x\n  access_token_expiration: soon\n"},
		{name: "bad int env", body: "jwt:\n  secret: x\n", env: map[string]string{"DB_MAX_OPEN_CONNS": "many"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := LoadConfig(writeConfig(t, tt.body))
			assert.Error(t, err)
		})
	}
}

func TestAllowedOrigins(t *testing.T) {
	cfg := &Config{}
	cfg.CORS.AllowedOrigins = " http://a.test , ,http://b.test"
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.AllowedOrigins())
}

func TestParseBool(t *testing.T) {
	for _, in := range []string{"1", "true", "ON", "yes"} {
		v, ok := ParseBool(in)
		assert.True(t, ok, in)
		assert.True(t, v, in)
	}
	for _, in := range []string{"0", "false", "off", "No"} {
		v, ok := ParseBool(in)
		assert.True(t, ok, in)
		assert.False(t, v, in)
	}
	_, ok := ParseBool("maybe")
	assert.False(t, ok)
}
