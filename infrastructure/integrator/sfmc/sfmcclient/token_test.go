package sfmcclient

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClientCredentialsExchanger_Exchange(t *testing.T) {
	tests := []struct {
		name     string
		handler  http.HandlerFunc
		validate func(t *testing.T, token string, expiresIn time.Duration, err error)
	}{
		{
			name: "successful grant",
			handler: func(w http.ResponseWriter, r *http.Request) {
				require.NoError(t, r.ParseForm())
				assert.Equal(t, http.MethodPost, r.Method)
				assert.Equal(t, "client_credentials", r.PostForm.Get("grant_type"))
				assert.Equal(t, "client", r.PostForm.Get("client_id"))
				assert.Equal(t, "secret", r.PostForm.Get("client_secret"))
				assert.Equal(t, "514009999", r.PostForm.Get("account_id"))

				w.Header().Set("Content-Type", "application/json")
				_, _ = w.Write([]byte(`{"access_token":"abc","token_type":"Bearer","expires_in":1080,"rest_instance_url":"https://tenant.rest.marketingcloudapis.com/"}`))
			},
			validate: func(t *testing.T, token string, expiresIn time.Duration, err error) {
				require.NoError(t, err)
				assert.Equal(t, "abc", token)
				assert.Equal(t, 1080*time.Second, expiresIn)
			},
		},
		{
			name: "server error is an authentication error carrying the status",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusInternalServerError)
				_, _ = w.Write([]byte(`{"error":"server_error"}`))
			},
			validate: func(t *testing.T, token string, expiresIn time.Duration, err error) {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrAuthentication))
				assert.Contains(t, err.Error(), "500")
			},
		},
		{
			name: "bad credentials",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				_, _ = w.Write([]byte(`{"error":"invalid_client","error_description":"Client authentication failed."}`))
			},
			validate: func(t *testing.T, token string, expiresIn time.Duration, err error) {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrAuthentication))
				assert.Contains(t, err.Error(), "invalid_client")
			},
		},
		{
			name: "malformed body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				_, _ = w.Write([]byte(`{"access_token":`))
			},
			validate: func(t *testing.T, token string, expiresIn time.Duration, err error) {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrAuthentication))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(tt.handler)
			defer server.Close()

			cfg := credentialsConfig()
			cfg.AuthURL = server.URL + "/v2/token"
			cfg.AccountID = "514009999"

			issued, err := NewClientCredentialsExchanger(cfg, server.Client()).Exchange(context.Background())

			var token string
			var expiresIn time.Duration
			if issued != nil {
				token, expiresIn = issued.AccessToken, issued.ExpiresIn
			}
			tt.validate(t, token, expiresIn, err)
		})
	}
}

func TestInspectManualToken(t *testing.T) {
	now := time.Now()
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"exp": now.Add(time.Hour).Unix(),
	}).SignedString([]byte("test"))
	require.NoError(t, err)

	assert.NotPanics(t, func() { inspectManualToken(signed, now.Add(24*time.Hour)) })
	assert.NotPanics(t, func() { inspectManualToken("opaque-token", now.Add(24*time.Hour)) })
}

func TestFormatDuration(t *testing.T) {
	assert.Equal(t, "18m 0s", FormatDuration(1080*time.Second))
	assert.Equal(t, "24h 0m", FormatDuration(24*time.Hour))
	assert.Equal(t, "1h 30m", FormatDuration(90*time.Minute))
}
