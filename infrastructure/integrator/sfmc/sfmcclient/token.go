package sfmcclient

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"

	sfmcdomain "github.com/vfg2006/campaign-dashboard-api/infrastructure/integrator/sfmc/domain"
	"github.com/vfg2006/campaign-dashboard-api/internal/config"
)

// Marketing Cloud issues 18 minute tokens; used when the response omits expires_in.
const defaultTokenLifetime = 1080 * time.Second

// TokenExchanger performs one client-credentials grant.
type TokenExchanger interface {
	Exchange(ctx context.Context) (*sfmcdomain.IssuedToken, error)
}

type clientCredentialsExchanger struct {
	oauth      *clientcredentials.Config
	httpClient *http.Client
}

// NewClientCredentialsExchanger posts client_id, client_secret and the
// optional account_id to the tenant auth endpoint.
func NewClientCredentialsExchanger(cfg config.SFMC, httpClient *http.Client) TokenExchanger {
	params := url.Values{}
	if cfg.AccountID != "" {
		params.Set("account_id", cfg.AccountID)
	}

	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.RequestTimeout}
	}

	return &clientCredentialsExchanger{
		oauth: &clientcredentials.Config{
			ClientID:       cfg.ClientID,
			ClientSecret:   cfg.ClientSecret,
			TokenURL:       cfg.AuthURL,
			AuthStyle:      oauth2.AuthStyleInParams,
			EndpointParams: params,
		},
		httpClient: httpClient,
	}
}

func (e *clientCredentialsExchanger) Exchange(ctx context.Context) (*sfmcdomain.IssuedToken, error) {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, e.httpClient)

	tok, err := e.oauth.Token(ctx)
	if err != nil {
		var retrieveErr *oauth2.RetrieveError
		if errors.As(err, &retrieveErr) && retrieveErr.Response != nil {
			logrus.WithFields(logrus.Fields{
				"status_code": retrieveErr.Response.StatusCode,
				"body":        string(retrieveErr.Body),
				"auth_url":    e.oauth.TokenURL,
			}).Error("sfmc: token endpoint rejected the client credentials")
			return nil, errors.Wrapf(ErrAuthentication, "token endpoint returned status %d: %s",
				retrieveErr.Response.StatusCode, truncate(string(retrieveErr.Body), 200))
		}

		logrus.WithFields(logrus.Fields{
			"auth_url": e.oauth.TokenURL,
			"error":    err.Error(),
		}).Error("sfmc: token request failed")
		return nil, errors.Wrap(ErrAuthentication, err.Error())
	}

	issued := &sfmcdomain.IssuedToken{
		AccessToken: tok.AccessToken,
		TokenType:   tok.TokenType,
		ExpiresIn:   lifetimeOf(tok),
	}
	if v, ok := tok.Extra("scope").(string); ok {
		issued.Scope = v
	}

	logrus.WithFields(logrus.Fields{
		"expires_in": FormatDuration(issued.ExpiresIn),
		"token_type": issued.TokenType,
		"scope":      issued.Scope,
	}).Info("sfmc: access token obtained")

	return issued, nil
}

func lifetimeOf(tok *oauth2.Token) time.Duration {
	switch v := tok.Extra("expires_in").(type) {
	case float64:
		if v > 0 {
			return time.Duration(v) * time.Second
		}
	case string:
		if n, err := strconv.ParseInt(v, 10, 64); err == nil && n > 0 {
			return time.Duration(n) * time.Second
		}
	}

	if !tok.Expiry.IsZero() {
		if d := time.Until(tok.Expiry); d > 0 {
			return d
		}
	}
	return defaultTokenLifetime
}

// inspectManualToken warns when a pre-provisioned JWT expires before the
// window it is going to be trusted for. Opaque tokens are accepted silently.
func inspectManualToken(raw string, trustedUntil time.Time) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(raw, claims); err != nil {
		logrus.Debug("sfmc: manual token is not a JWT, expiry unknown")
		return
	}

	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return
	}

	if exp.Before(trustedUntil) {
		logrus.WithFields(logrus.Fields{
			"token_exp":     exp.Format(time.RFC3339),
			"trusted_until": trustedUntil.Format(time.RFC3339),
		}).Warn("sfmc: manual access token expires before its configured validity window")
	}
}

// FormatDuration renders a token lifetime for logs.
func FormatDuration(d time.Duration) string {
	hours := d / time.Hour
	minutes := (d % time.Hour) / time.Minute
	seconds := (d % time.Minute) / time.Second

	if hours > 0 {
		return fmt.Sprintf("%dh %dm", hours, minutes)
	}
	return fmt.Sprintf("%dm %ds", minutes, seconds)
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
