package sfmcclient

import (
	"sync"

	sfmcdomain "github.com/vfg2006/campaign-dashboard-api/infrastructure/integrator/sfmc/domain"
)

// TokenCache holds the process-wide access token. One instance is shared by
// the token manager and everything that needs to inspect the token.
type TokenCache struct {
	mu    sync.RWMutex
	token *sfmcdomain.AccessToken
}

func NewTokenCache() *TokenCache {
	return &TokenCache{}
}

func (c *TokenCache) Get() (sfmcdomain.AccessToken, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.token == nil {
		return sfmcdomain.AccessToken{}, false
	}
	return *c.token, true
}

func (c *TokenCache) Set(token sfmcdomain.AccessToken) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.token = &token
}

func (c *TokenCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.token = nil
}
