package dashboarding

import (
	"math"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vfg2006/campaign-dashboard-api/internal/domain"
)

var referenceNow = time.Date(2024, 6, 30, 14, 30, 0, 0, time.UTC)

func seededSynthesizer(seed uint64) *Synthesizer {
	return NewSynthesizer(rand.New(rand.NewPCG(seed, seed+1)), func() time.Time { return referenceNow })
}

func TestSynthesizer_TrendsCoverEveryDayOfThePeriod(t *testing.T) {
	for _, period := range []domain.Period{domain.PeriodWeek, domain.PeriodMonth, domain.PeriodQuarter} {
		t.Run(period.String(), func(t *testing.T) {
			payload := NewSynthesizer(nil, func() time.Time { return referenceNow }).Synthesize(period)

			require.Len(t, payload.Trends, period.Days())

			m := period.Multiplier()
			minOpens, maxOpens := int(math.Floor(trendOpensMin*m)), int(math.Ceil((trendOpensMin+trendOpensSpread)*m))
			minClicks, maxClicks := int(math.Floor(trendClicksMin*m)), int(math.Ceil((trendClicksMin+trendClicksSpread)*m))

			for i, point := range payload.Trends {
				if i > 0 {
					assert.Less(t, payload.Trends[i-1].Date, point.Date, "trends must be ascending")
				}
				assert.GreaterOrEqual(t, point.Opens, minOpens)
				assert.LessOrEqual(t, point.Opens, maxOpens)
				assert.GreaterOrEqual(t, point.Clicks, minClicks)
				assert.LessOrEqual(t, point.Clicks, maxClicks)
			}

			assert.Equal(t, "2024-06-30", payload.Trends[len(payload.Trends)-1].Date)
			first := referenceNow.AddDate(0, 0, -(period.Days() - 1)).Format(time.DateOnly)
			assert.Equal(t, first, payload.Trends[0].Date)
		})
	}
}

func TestSynthesizer_OverviewScalesWithPeriod(t *testing.T) {
	s := seededSynthesizer(1)

	week := s.Synthesize(domain.PeriodWeek).Overview
	month := s.Synthesize(domain.PeriodMonth).Overview
	quarter := s.Synthesize(domain.PeriodQuarter).Overview

	assert.Equal(t, baselineOverview, month)
	assert.Equal(t, 3*month.TotalSent, quarter.TotalSent)
	assert.InDelta(t, float64(month.TotalSent)*7/30, float64(week.TotalSent), 1)
	assert.InDelta(t, float64(month.Opened)*7/30, float64(week.Opened), 1)
}

func TestSynthesizer_SeededSourceIsReproducible(t *testing.T) {
	a := seededSynthesizer(42).Synthesize(domain.PeriodMonth)
	b := seededSynthesizer(42).Synthesize(domain.PeriodMonth)
	c := seededSynthesizer(7).Synthesize(domain.PeriodMonth)

	assert.Equal(t, a.Trends, b.Trends)
	assert.NotEqual(t, a.Trends, c.Trends)
}

func TestSynthesizer_DemoFlagsAndCampaigns(t *testing.T) {
	payload := seededSynthesizer(3).Synthesize(domain.PeriodMonth)

	assert.False(t, payload.IsRealData)
	assert.False(t, payload.SFMCConnected)
	assert.NotEmpty(t, payload.Error)

	require.Len(t, payload.Campaigns, len(demoCampaigns))

	today := referenceNow.Format(time.DateOnly)
	scheduled := 0
	for _, c := range payload.Campaigns {
		assert.NotEmpty(t, c.ID)
		switch c.Status {
		case domain.CampaignScheduled:
			scheduled++
			assert.Greater(t, c.Date, today)
			assert.Zero(t, c.Sent)
			assert.Zero(t, c.Opened)
			assert.Zero(t, c.Clicked)
		default:
			assert.LessOrEqual(t, c.Date, today)
			assert.Positive(t, c.Sent)
		}
	}
	assert.Equal(t, 1, scheduled)
}

func TestSynthesizer_InvalidPeriodFallsBackToMonth(t *testing.T) {
	payload := seededSynthesizer(5).Synthesize(domain.Period(12))

	assert.Len(t, payload.Trends, 30)
	assert.Equal(t, baselineOverview.TotalSent, payload.Overview.TotalSent)
}
