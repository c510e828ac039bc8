package sfmcclient

import (
	"context"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"

	sfmcdomain "github.com/vfg2006/campaign-dashboard-api/infrastructure/integrator/sfmc/domain"
	"github.com/vfg2006/campaign-dashboard-api/internal/config"
)

const defaultExchangeTimeout = 15 * time.Second

// TokenStatus is a snapshot of the token manager for diagnostics.
type TokenStatus struct {
	Configured    bool
	Manual        bool
	Authenticated bool
	ExpiresAt     time.Time
	LastAuthAt    time.Time
	LastAuthError string
}

// TokenManager obtains and caches the bearer token used for every REST call.
type TokenManager struct {
	cfg       config.SFMC
	cache     *TokenCache
	exchanger TokenExchanger
	now       func() time.Time

	group singleflight.Group

	mu            sync.RWMutex
	lastAuthErr   error
	lastAuthAt    time.Time
	notConfigured sync.Once
	manualChecked sync.Once
}

type TokenManagerOption func(*TokenManager)

// WithClock replaces time.Now, mostly for tests.
func WithClock(now func() time.Time) TokenManagerOption {
	return func(tm *TokenManager) {
		tm.now = now
	}
}

func NewTokenManager(cfg config.SFMC, cache *TokenCache, exchanger TokenExchanger, opts ...TokenManagerOption) *TokenManager {
	if cache == nil {
		cache = NewTokenCache()
	}

	tm := &TokenManager{
		cfg:       cfg,
		cache:     cache,
		exchanger: exchanger,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(tm)
	}
	return tm
}

// EnsureAuthenticated reports whether a usable token is available, fetching
// a new one when the cached token is missing or inside the safety margin.
// Failures are recorded for diagnostics and never returned.
func (tm *TokenManager) EnsureAuthenticated(ctx context.Context) bool {
	_, err := tm.Token(ctx)
	return err == nil
}

// Token returns a valid bearer token.
func (tm *TokenManager) Token(ctx context.Context) (string, error) {
	// A token is useless without a REST base URL to send it to.
	if !tm.cfg.Configured() {
		tm.notConfigured.Do(func() {
			logrus.WithField("missing", tm.cfg.MissingSettings()).
				Warn("sfmc: tenant not configured, serving demo data only")
		})
		tm.recordFailure(ErrNotConfigured)
		return "", ErrNotConfigured
	}

	if tm.cfg.HasManualToken() {
		return tm.manualToken(), nil
	}

	if token, ok := tm.cachedToken(); ok {
		return token.Value, nil
	}

	// The exchange is shared by every caller joining the group, so it runs
	// detached from this caller's cancellation with its own timeout.
	results := tm.group.DoChan("token", func() (any, error) {
		// Another caller may have refreshed while we waited on the group.
		if token, ok := tm.cachedToken(); ok {
			return token.Value, nil
		}
		exchangeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), tm.exchangeTimeout())
		defer cancel()
		return tm.authenticate(exchangeCtx)
	})

	select {
	case <-ctx.Done():
		return "", errors.Wrap(ctx.Err(), "waiting for access token")
	case res := <-results:
		if res.Shared {
			logrus.Debug("sfmc: joined in-flight authentication")
		}
		if res.Err != nil {
			return "", res.Err
		}
		return res.Val.(string), nil
	}
}

func (tm *TokenManager) exchangeTimeout() time.Duration {
	if tm.cfg.RequestTimeout > 0 {
		return tm.cfg.RequestTimeout
	}
	return defaultExchangeTimeout
}

func (tm *TokenManager) authenticate(ctx context.Context) (string, error) {
	logrus.WithField("auth_url", tm.cfg.AuthURL).Debug("sfmc: requesting access token")

	issued, err := tm.exchanger.Exchange(ctx)
	if err == nil && (issued == nil || issued.AccessToken == "") {
		err = errors.Wrap(ErrAuthentication, "token endpoint returned an empty access token")
	}
	if err != nil {
		tm.recordFailure(err)
		return "", err
	}

	lifetime := issued.ExpiresIn
	if lifetime <= 0 {
		lifetime = defaultTokenLifetime
	}

	now := tm.now()
	token := sfmcdomain.AccessToken{
		Value:     issued.AccessToken,
		ExpiresAt: now.Add(lifetime - tm.cfg.TokenSafetyMargin),
	}
	tm.cache.Set(token)

	tm.mu.Lock()
	tm.lastAuthErr = nil
	tm.lastAuthAt = now
	tm.mu.Unlock()

	logrus.WithFields(logrus.Fields{
		"expires_at": token.ExpiresAt.Format(time.RFC3339),
		"lifetime":   FormatDuration(lifetime),
	}).Info("sfmc: authenticated with client credentials")

	return token.Value, nil
}

func (tm *TokenManager) manualToken() string {
	if token, ok := tm.cachedToken(); ok && token.Manual {
		return token.Value
	}

	now := tm.now()
	token := sfmcdomain.AccessToken{
		Value:     tm.cfg.AccessToken,
		ExpiresAt: now.Add(tm.cfg.ManualTokenTTL),
		Manual:    true,
	}
	tm.cache.Set(token)

	tm.mu.Lock()
	tm.lastAuthErr = nil
	tm.lastAuthAt = now
	tm.mu.Unlock()

	tm.manualChecked.Do(func() {
		logrus.Info("sfmc: using manually configured access token, client credentials flow skipped")
		inspectManualToken(token.Value, token.ExpiresAt)
	})

	return token.Value
}

// cachedToken returns the cached token when it is outside the safety margin.
func (tm *TokenManager) cachedToken() (sfmcdomain.AccessToken, bool) {
	token, ok := tm.cache.Get()
	if !ok || token.Value == "" {
		return sfmcdomain.AccessToken{}, false
	}
	if !tm.now().Add(tm.cfg.TokenSafetyMargin).Before(token.ExpiresAt) {
		return sfmcdomain.AccessToken{}, false
	}
	return token, true
}

// Invalidate drops the cached token so the next call re-authenticates.
func (tm *TokenManager) Invalidate() {
	tm.cache.Clear()
	logrus.Info("sfmc: cached access token invalidated")
}

// IsAuthenticated reports whether a valid token is cached. It never calls
// the auth endpoint.
func (tm *TokenManager) IsAuthenticated() bool {
	if !tm.cfg.Configured() {
		return false
	}
	if tm.cfg.HasManualToken() {
		return true
	}
	_, ok := tm.cachedToken()
	return ok
}

// UsesManualToken reports whether the OAuth flow is bypassed.
func (tm *TokenManager) UsesManualToken() bool {
	return tm.cfg.HasManualToken()
}

func (tm *TokenManager) LastAuthError() error {
	tm.mu.RLock()
	defer tm.mu.RUnlock()

	return tm.lastAuthErr
}

func (tm *TokenManager) Status() TokenStatus {
	tm.mu.RLock()
	status := TokenStatus{
		Configured: tm.cfg.Configured(),
		Manual:     tm.cfg.HasManualToken(),
		LastAuthAt: tm.lastAuthAt,
	}
	if tm.lastAuthErr != nil {
		status.LastAuthError = tm.lastAuthErr.Error()
	}
	tm.mu.RUnlock()

	if token, ok := tm.cachedToken(); ok && status.Configured {
		status.Authenticated = true
		status.ExpiresAt = token.ExpiresAt
	} else if status.Manual && status.Configured {
		status.Authenticated = true
	}
	return status
}

func (tm *TokenManager) recordFailure(err error) {
	tm.mu.Lock()
	defer tm.mu.Unlock()

	tm.lastAuthErr = err
}
