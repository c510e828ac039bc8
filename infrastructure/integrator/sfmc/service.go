package sfmc

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"sync"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/vfg2006/campaign-dashboard-api/infrastructure/integrator/sfmc/sfmcclient"
	"github.com/vfg2006/campaign-dashboard-api/internal/config"
	"github.com/vfg2006/campaign-dashboard-api/internal/domain"
)

type SFMCIntegrator interface {
	Authenticate(ctx context.Context) domain.AuthResult
	FetchCampaignData(ctx context.Context, period domain.Period) domain.ProbeResults
	IsAuthenticated() bool
	Invalidate()
	Diagnostics() domain.ConnectionDiagnostics
}

type SFMCService struct {
	cfg    config.SFMC
	tokens *sfmcclient.TokenManager
	prober *sfmcclient.Prober

	mu         sync.RWMutex
	lastProbes map[domain.Category]*domain.ProbeReport
}

func New(cfg config.SFMC, tokens *sfmcclient.TokenManager, prober *sfmcclient.Prober) *SFMCService {
	return &SFMCService{
		cfg:        cfg,
		tokens:     tokens,
		prober:     prober,
		lastProbes: make(map[domain.Category]*domain.ProbeReport),
	}
}

// NewFromConfig wires the token manager, REST client and prober for the
// configured tenant. httpClient may be nil.
func NewFromConfig(cfg *config.Config, httpClient *http.Client) *SFMCService {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.SFMC.RequestTimeout}
	}

	tokens := sfmcclient.NewTokenManager(
		cfg.SFMC,
		sfmcclient.NewTokenCache(),
		sfmcclient.NewClientCredentialsExchanger(cfg.SFMC, httpClient),
	)
	client := sfmcclient.NewClient(cfg.SFMC, tokens, httpClient)
	prober := sfmcclient.NewProber(client, sfmcclient.DefaultCatalog(cfg.Probe), cfg)

	return New(cfg.SFMC, tokens, prober)
}

func (s *SFMCService) Authenticate(ctx context.Context) domain.AuthResult {
	result := domain.AuthResult{ManualToken: s.tokens.UsesManualToken()}

	if s.tokens.EnsureAuthenticated(ctx) {
		result.Authenticated = true
		return result
	}

	result.Reason = s.failureReason(s.tokens.LastAuthError())
	return result
}

func (s *SFMCService) failureReason(err error) string {
	switch {
	case err == nil:
		return "Marketing Cloud authentication failed"
	case errors.Is(err, sfmcclient.ErrNotConfigured):
		return fmt.Sprintf("Marketing Cloud tenant not configured (missing %s)",
			strings.Join(s.cfg.MissingSettings(), ", "))
	}
	return "Marketing Cloud authentication failed: " + err.Error()
}

// FetchCampaignData probes the send and tracking categories concurrently.
func (s *SFMCService) FetchCampaignData(ctx context.Context, period domain.Period) domain.ProbeResults {
	var results domain.ProbeResults

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		results.Sends = s.prober.FetchCategory(gctx, domain.CategoryEmailSends, period)
		return nil
	})
	g.Go(func() error {
		results.Tracking = s.prober.FetchCategory(gctx, domain.CategoryTrackingEvents, period)
		return nil
	})
	_ = g.Wait() // probes never fail, they report

	s.mu.Lock()
	s.lastProbes[domain.CategoryEmailSends] = results.Sends
	s.lastProbes[domain.CategoryTrackingEvents] = results.Tracking
	s.mu.Unlock()

	return results
}

func (s *SFMCService) IsAuthenticated() bool {
	return s.tokens.IsAuthenticated()
}

func (s *SFMCService) Invalidate() {
	s.tokens.Invalidate()
}

func (s *SFMCService) Diagnostics() domain.ConnectionDiagnostics {
	status := s.tokens.Status()

	diag := domain.ConnectionDiagnostics{
		Configured:     status.Configured,
		MissingConfig:  s.cfg.MissingSettings(),
		ManualToken:    status.Manual,
		Authenticated:  status.Authenticated,
		LastAuthError:  status.LastAuthError,
		CatalogVersion: s.prober.Catalog().Version,
		LastProbes:     make(map[domain.Category]*domain.ProbeReport),
	}
	if !status.ExpiresAt.IsZero() {
		expiresAt := status.ExpiresAt
		diag.TokenExpiresAt = &expiresAt
	}
	if !status.LastAuthAt.IsZero() {
		lastAuthAt := status.LastAuthAt
		diag.LastAuthAt = &lastAuthAt
	}

	s.mu.RLock()
	for category, report := range s.lastProbes {
		diag.LastProbes[category] = report
	}
	s.mu.RUnlock()

	return diag
}
