package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfig_Defaults(t *testing.T) {
	viper.Reset()
	t.Setenv("SFMC_SUBDOMAIN", "mc563885gzs27c5t9-63k636ttgm")

	cfg, err := NewConfig()
	require.NoError(t, err)

	assert.Equal(t, "8000", cfg.Server.Port)
	assert.Equal(t, 5*time.Minute, cfg.SFMC.TokenSafetyMargin)
	assert.Equal(t, 24*time.Hour, cfg.SFMC.ManualTokenTTL)
	assert.Equal(t, 15*time.Second, cfg.SFMC.RequestTimeout)
	assert.Equal(t, 45*time.Second, cfg.Probe.Budget)
	assert.Equal(t, 50, cfg.Probe.PageSize)
	assert.Empty(t, cfg.Probe.ExtraSendEndpoints)
	assert.False(t, cfg.TokenWarmup.Enabled)
	assert.Equal(t, []string{"http://localhost:3000", "http://localhost:5173"}, cfg.Cors.AllowedOrigins)

	assert.Equal(t, "https://mc563885gzs27c5t9-63k636ttgm.auth.marketingcloudapis.com/v2/token", cfg.SFMC.AuthURL)
	assert.Equal(t, "https://mc563885gzs27c5t9-63k636ttgm.rest.marketingcloudapis.com", cfg.SFMC.RestURL)
}

func TestNewConfig_EnvironmentOverrides(t *testing.T) {
	viper.Reset()
	t.Setenv("SFMC_CLIENT_ID", "client")
	t.Setenv("SFMC_CLIENT_SECRET", "secret")
	t.Setenv("SFMC_REST_URL", "http://127.0.0.1:9999/")
	t.Setenv("SFMC_AUTH_URL", "http://127.0.0.1:9999/v2/token")
	t.Setenv("SFMC_PROBE_BUDGET", "10s")
	t.Setenv("SFMC_EXTRA_SEND_ENDPOINTS", "/custom/v1/sends, /custom/v2/sends")
	t.Setenv("SFMC_TOKEN_WARMUP_ENABLED", "true")

	cfg, err := NewConfig()
	require.NoError(t, err)

	assert.Equal(t, "http://127.0.0.1:9999", cfg.SFMC.RestURL)
	assert.Equal(t, 10*time.Second, cfg.Probe.Budget)
	assert.Equal(t, []string{"/custom/v1/sends", "/custom/v2/sends"}, cfg.Probe.ExtraSendEndpoints)
	assert.True(t, cfg.TokenWarmup.Enabled)
	assert.True(t, cfg.SFMC.Configured())
	assert.Empty(t, cfg.SFMC.MissingSettings())
}

func TestSFMC_MissingSettings(t *testing.T) {
	tests := []struct {
		name     string
		sfmc     SFMC
		expected []string
	}{
		{
			name:     "nothing configured",
			sfmc:     SFMC{},
			expected: []string{"SFMC_SUBDOMAIN", "SFMC_CLIENT_ID", "SFMC_CLIENT_SECRET"},
		},
		{
			name:     "manual token without tenant",
			sfmc:     SFMC{AccessToken: "token"},
			expected: []string{"SFMC_SUBDOMAIN"},
		},
		{
			name: "manual token with tenant",
			sfmc: SFMC{AccessToken: "token", Subdomain: "tenant", RestURL: "https://tenant.rest.marketingcloudapis.com"},
		},
		{
			name:     "secret missing",
			sfmc:     SFMC{ClientID: "id", Subdomain: "tenant", RestURL: "https://x", AuthURL: "https://y"},
			expected: []string{"SFMC_CLIENT_SECRET"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.sfmc.MissingSettings())
		})
	}
}
