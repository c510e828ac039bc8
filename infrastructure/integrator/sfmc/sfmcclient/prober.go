package sfmcclient

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/vfg2006/campaign-dashboard-api/internal/config"
	"github.com/vfg2006/campaign-dashboard-api/internal/domain"
)

// Prober walks a category's candidate endpoints in order and stops at the
// first usable response.
type Prober struct {
	client         Client
	catalog        Catalog
	budget         time.Duration
	requestTimeout time.Duration
	pageSize       int
	now            func() time.Time
}

type ProberOption func(*Prober)

func WithProberClock(now func() time.Time) ProberOption {
	return func(p *Prober) {
		p.now = now
	}
}

func NewProber(client Client, catalog Catalog, cfg *config.Config, opts ...ProberOption) *Prober {
	p := &Prober{
		client:         client,
		catalog:        catalog,
		budget:         cfg.Probe.Budget,
		requestTimeout: cfg.SFMC.RequestTimeout,
		pageSize:       cfg.Probe.PageSize,
		now:            time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *Prober) Catalog() Catalog {
	return p.catalog
}

// FetchCategory tries every candidate of the category until one returns a
// 2xx, well-formed, non-empty body. report.Hit is nil when none did. The
// whole sequence shares the probe budget.
func (p *Prober) FetchCategory(ctx context.Context, category domain.Category, period domain.Period) *domain.ProbeReport {
	started := time.Now()
	report := &domain.ProbeReport{
		Category:  category,
		StartedAt: p.now(),
		Attempts:  []domain.ProbeAttempt{},
	}

	if p.budget > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.budget)
		defer cancel()
	}

	candidates := p.catalog.Candidates(category)
	from, to := period.Range(p.now())

	for i, candidate := range candidates {
		if ctx.Err() != nil {
			for _, skipped := range candidates[i:] {
				report.Attempts = append(report.Attempts, domain.ProbeAttempt{
					Description: skipped.Description,
					URL:         skipped.Path,
					Outcome:     domain.ProbeSkipped,
					Error:       ctx.Err().Error(),
				})
			}
			logrus.WithFields(logrus.Fields{
				"category": category,
				"skipped":  len(candidates) - i,
			}).Warn("sfmc: probe budget exhausted")
			break
		}

		attempt, hit := p.try(ctx, candidate, len(candidates)-i, from, to)
		report.Attempts = append(report.Attempts, attempt)
		if hit != nil {
			hit.Category = category
			report.Hit = hit
			break
		}
	}

	report.Duration = time.Since(started)

	fields := logrus.Fields{
		"category": category,
		"period":   period.Days(),
		"attempts": len(report.Attempts),
		"duration": report.Duration.String(),
	}
	if report.Hit != nil {
		fields["endpoint"] = report.Hit.Description
		fields["items"] = report.Hit.ItemCount
		logrus.WithFields(fields).Info("sfmc: probe found data")
	} else {
		logrus.WithFields(fields).Warn("sfmc: no candidate endpoint returned data")
	}

	return report
}

func (p *Prober) try(ctx context.Context, candidate EndpointCandidate, left int, from, to time.Time) (domain.ProbeAttempt, *domain.ProbeHit) {
	attempt := domain.ProbeAttempt{
		Description: candidate.Description,
		URL:         candidate.Path,
	}

	ctx, cancel := context.WithTimeout(ctx, p.candidateTimeout(ctx, left))
	defer cancel()

	started := time.Now()
	resp, err := p.client.Get(ctx, candidate.Path, candidate.query(p.pageSize, from, to))
	attempt.Duration = time.Since(started)
	if resp != nil {
		attempt.URL = resp.URL
		attempt.StatusCode = resp.StatusCode
	}

	logger := logrus.WithFields(logrus.Fields{
		"endpoint": candidate.Description,
		"url":      attempt.URL,
	})

	switch {
	case err != nil && (errors.Is(err, ErrUnauthorized) || errors.Is(err, ErrAuthentication) || errors.Is(err, ErrNotConfigured)):
		attempt.Outcome = domain.ProbeUnauthorized
		attempt.Error = err.Error()
		logger.WithError(err).Warn("sfmc: candidate rejected credentials")
		return attempt, nil
	case err != nil:
		attempt.Outcome = domain.ProbeNetworkError
		attempt.Error = err.Error()
		logger.WithError(err).Debug("sfmc: candidate request failed")
		return attempt, nil
	case !resp.OK():
		attempt.Outcome = domain.ProbeHTTPError
		attempt.Error = describeFailure(resp)
		logger.WithField("status_code", resp.StatusCode).Debug("sfmc: candidate returned an error status")
		return attempt, nil
	}

	var body any
	if err := json.Unmarshal(resp.Body, &body); err != nil {
		attempt.Outcome = domain.ProbeMalformed
		attempt.Error = err.Error()
		logger.WithError(err).Debug("sfmc: candidate returned malformed JSON")
		return attempt, nil
	}

	items, ok := candidate.matcher()(body)
	if !ok {
		attempt.Outcome = domain.ProbeEmpty
		logger.Debug("sfmc: candidate returned no items")
		return attempt, nil
	}

	attempt.Outcome = domain.ProbeOutcomeHit
	return attempt, &domain.ProbeHit{
		Description: candidate.Description,
		URL:         resp.URL,
		ItemCount:   items,
		Body:        candidate.transform()(body),
	}
}

// candidateTimeout gives each remaining candidate an equal share of what is
// left of the budget, capped by the per-request timeout.
func (p *Prober) candidateTimeout(ctx context.Context, left int) time.Duration {
	timeout := p.requestTimeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	deadline, ok := ctx.Deadline()
	if !ok || left <= 0 {
		return timeout
	}
	if share := time.Until(deadline) / time.Duration(left); share < timeout {
		return share
	}
	return timeout
}

func describeFailure(resp *Response) string {
	if errResp, err := ParseErrorResponse(resp.Body); err == nil {
		if msg := errResp.String(); msg != "" {
			return msg
		}
	}
	return truncate(string(resp.Body), 200)
}
