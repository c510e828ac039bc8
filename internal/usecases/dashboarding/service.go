package dashboarding

import (
	"context"
	"fmt"
	"time"

	"github.com/vfg2006/campaign-dashboard-api/infrastructure/integrator/sfmc"
	"github.com/vfg2006/campaign-dashboard-api/internal/domain"
	"github.com/vfg2006/campaign-dashboard-api/pkg/log"
)

// Dashboarder serves dashboard payloads. None of its methods fail: every
// problem ends up in the payload's flags and error text.
type Dashboarder interface {
	GetDashboard(ctx context.Context, period domain.Period) *domain.DashboardPayload
	MergeUploaded(ctx context.Context, uploaded *domain.UploadedData) *domain.DashboardPayload
	IsAuthenticated() bool
	Diagnostics() domain.ConnectionDiagnostics
}

type Service struct {
	sfmc     sfmc.SFMCIntegrator
	synth    *Synthesizer
	composer *Composer
}

func NewService(sfmcService sfmc.SFMCIntegrator, synth *Synthesizer) *Service {
	if synth == nil {
		synth = NewSynthesizer(nil, nil)
	}
	return &Service{
		sfmc:     sfmcService,
		synth:    synth,
		composer: NewComposer(synth),
	}
}

func (s *Service) GetDashboard(ctx context.Context, period domain.Period) (payload *domain.DashboardPayload) {
	logger := log.ForContext(ctx).WithField("period", period.Days())
	started := time.Now()

	defer func() {
		if r := recover(); r != nil {
			logger.WithField("error", fmt.Sprint(r)).Error("dashboard: recovered from panic, serving demo data")
			payload = s.synth.Synthesize(period)
			payload.Error = fmt.Sprintf("%s (internal error while loading live data)", DemoDataMessage)
		}
	}()

	auth := s.sfmc.Authenticate(ctx)

	var probes domain.ProbeResults
	if auth.Authenticated {
		probes = s.sfmc.FetchCampaignData(ctx, period)
	}

	state := StateOf(auth, probes)
	payload = s.composer.Compose(auth, probes, period)

	entry := logger.WithFields(log.Fields{
		"state":       state,
		"duration_ms": time.Since(started).Milliseconds(),
	})
	if state == StateAuthFailed {
		entry.WithField("error", auth.Reason).Warn("dashboard: serving demo data")
	} else {
		entry.Info("dashboard: payload composed")
	}

	return payload
}

// MergeUploaded merges uploaded records into a fresh demo payload. Nothing
// is kept between requests.
func (s *Service) MergeUploaded(ctx context.Context, uploaded *domain.UploadedData) *domain.DashboardPayload {
	merged := MergeUploaded(s.synth.Synthesize(domain.DefaultPeriod), uploaded)

	log.ForContext(ctx).WithFields(log.Fields{
		"records": uploaded.RecordCount(),
		"state":   merged.ConnectionStatus,
	}).Info("dashboard: uploaded data merged")

	return merged
}

func (s *Service) IsAuthenticated() bool {
	return s.sfmc.IsAuthenticated()
}

func (s *Service) Diagnostics() domain.ConnectionDiagnostics {
	return s.sfmc.Diagnostics()
}
