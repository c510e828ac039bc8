package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/vfg2006/campaign-dashboard-api/internal/config"
	"github.com/vfg2006/campaign-dashboard-api/internal/domain"
	"github.com/vfg2006/campaign-dashboard-api/pkg/utils"
)

// warmupTimeout bounds a single token exchange started by the scheduler.
const warmupTimeout = 30 * time.Second

// TokenWarmer is the part of the Marketing Cloud integration the warm-up job needs.
type TokenWarmer interface {
	Authenticate(ctx context.Context) domain.AuthResult
	Invalidate()
}

// TokenWarmupService keeps the cached access token fresh so the first
// dashboard request after an expiry does not pay for the exchange.
type TokenWarmupService struct {
	scheduler *gocron.Scheduler
	config    config.TokenWarmup
	warmer    TokenWarmer

	mu              sync.Mutex
	running         bool
	lastStartedAt   time.Time
	lastCompletedAt time.Time
	lastResult      *domain.AuthResult
}

func NewTokenWarmupService(warmer TokenWarmer, appConfig *config.Config) *TokenWarmupService {
	logrus.WithFields(logrus.Fields{
		"cron_schedule":  appConfig.TokenWarmup.CronSchedule,
		"warmup_enabled": appConfig.TokenWarmup.Enabled,
	}).Info("scheduler: token warm-up configuration loaded")

	return &TokenWarmupService{
		scheduler: gocron.NewScheduler(time.UTC),
		config:    appConfig.TokenWarmup,
		warmer:    warmer,
	}
}

// Start schedules the warm-up job. The scheduler stops when ctx is cancelled.
func (s *TokenWarmupService) Start(ctx context.Context) error {
	if !s.config.Enabled {
		logrus.Info("scheduler: token warm-up disabled by configuration")
		return nil
	}

	logrus.WithField("cron", s.config.CronSchedule).Info("scheduler: starting token warm-up")

	_, err := s.scheduler.Cron(s.config.CronSchedule).Do(func() {
		s.warmup(ctx)
	})
	if err != nil {
		return errors.Wrapf(err, "scheduling token warm-up with cron %q", s.config.CronSchedule)
	}

	s.scheduler.StartAsync()

	go func() {
		<-ctx.Done()
		s.Stop()
	}()

	return nil
}

func (s *TokenWarmupService) Stop() {
	if s.scheduler.IsRunning() {
		logrus.Info("scheduler: stopping token warm-up")
		s.scheduler.Stop()
	}
}

// warmup runs one authentication. Overlapping runs are skipped.
func (s *TokenWarmupService) warmup(ctx context.Context) *domain.AuthResult {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		logrus.Info("scheduler: token warm-up already running, skipping")
		return nil
	}
	s.running = true
	s.lastStartedAt = time.Now()
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.running = false
		s.mu.Unlock()
	}()

	ctx, cancel := context.WithTimeout(ctx, warmupTimeout)
	defer cancel()

	started := time.Now()
	result := s.warmer.Authenticate(ctx)

	entry := logrus.WithFields(logrus.Fields{
		"authenticated": result.Authenticated,
		"manual_token":  result.ManualToken,
		"duration":      time.Since(started).String(),
	})
	if result.Authenticated {
		entry.Info("scheduler: token warm-up completed")
	} else {
		entry.WithField("reason", result.Reason).Warn("scheduler: token warm-up failed")
	}

	s.mu.Lock()
	s.lastCompletedAt = time.Now()
	s.lastResult = &result
	s.mu.Unlock()

	if logrus.IsLevelEnabled(logrus.DebugLevel) {
		logrus.Debugf("scheduler: warm-up status %s", utils.PrettyJson(s.GetStatus()))
	}

	return &result
}

// TriggerManualSync drops the cached token and authenticates again right
// away. It returns nil when a warm-up is already in progress.
func (s *TokenWarmupService) TriggerManualSync(ctx context.Context) *domain.AuthResult {
	s.mu.Lock()
	running := s.running
	s.mu.Unlock()
	if running {
		logrus.Info("scheduler: token warm-up already running, ignoring manual request")
		return nil
	}

	logrus.Info("scheduler: manual token refresh requested")
	s.warmer.Invalidate()
	return s.warmup(ctx)
}

func (s *TokenWarmupService) GetStatus() map[string]any {
	s.mu.Lock()
	defer s.mu.Unlock()

	status := map[string]any{
		"warmup_enabled":           s.config.Enabled,
		"warmup_cron":              s.config.CronSchedule,
		"running":                  s.running,
		"last_warmup_started_at":   s.lastStartedAt,
		"last_warmup_completed_at": s.lastCompletedAt,
	}
	if s.lastResult != nil {
		status["last_authenticated"] = s.lastResult.Authenticated
		if s.lastResult.Reason != "" {
			status["last_error"] = s.lastResult.Reason
		}
	}
	return status
}
