package dashboarding

import (
	"math/rand/v2"
	"strconv"
	"time"

	"github.com/vfg2006/campaign-dashboard-api/internal/domain"
	"github.com/vfg2006/campaign-dashboard-api/pkg/utils"
)

const DemoDataMessage = "Showing demo data: live Marketing Cloud data is not available"

// RandomSource is the randomness the synthesizer draws from. *rand.Rand
// satisfies it, so tests can pass a seeded generator.
type RandomSource interface {
	IntN(n int) int
}

type globalRandom struct{}

func (globalRandom) IntN(n int) int {
	return rand.IntN(n)
}

// Baseline 30 day figures the demo overview is scaled from.
var baselineOverview = domain.Overview{
	TotalSent: 125000,
	Delivered: 122500,
	Opened:    30625,
	Clicked:   6125,
	Bounced:   2500,
}

// Daily trend ranges for a 30 day period, [min, min+spread).
const (
	trendOpensMin     = 800
	trendOpensSpread  = 600
	trendClicksMin    = 120
	trendClicksSpread = 200
)

type demoCampaign struct {
	name      string
	dayOffset int
	status    domain.CampaignStatus
	sent      int
	opened    int
	clicked   int
	bounced   int
}

var demoCampaigns = []demoCampaign{
	{name: "Summer Sale Announcement", dayOffset: -2, status: domain.CampaignCompleted, sent: 25000, opened: 6250, clicked: 1250, bounced: 500},
	{name: "Weekly Newsletter", dayOffset: 0, status: domain.CampaignActive, sent: 18500, opened: 4440, clicked: 740, bounced: 370},
	{name: "Product Launch: New Collection", dayOffset: -6, status: domain.CampaignCompleted, sent: 45000, opened: 11700, clicked: 2700, bounced: 900},
	{name: "Customer Re-engagement", dayOffset: -13, status: domain.CampaignCompleted, sent: 15000, opened: 2250, clicked: 300, bounced: 450},
	{name: "Holiday Preview", dayOffset: 5, status: domain.CampaignScheduled},
}

// Synthesizer produces demo dashboard data. It does no I/O.
type Synthesizer struct {
	rng RandomSource
	now func() time.Time
}

func NewSynthesizer(rng RandomSource, now func() time.Time) *Synthesizer {
	if rng == nil {
		rng = globalRandom{}
	}
	if now == nil {
		now = time.Now
	}
	return &Synthesizer{rng: rng, now: now}
}

// Synthesize builds a demo payload for the period: the baseline overview
// scaled by period/30, one random trend point per day ending today and the
// fixed campaign catalog.
func (s *Synthesizer) Synthesize(period domain.Period) *domain.DashboardPayload {
	if !period.Valid() {
		period = domain.DefaultPeriod
	}
	m := period.Multiplier()

	payload := domain.NewEmptyPayload()
	payload.Overview = domain.Overview{
		TotalSent: utils.ScaleInt(baselineOverview.TotalSent, m),
		Delivered: utils.ScaleInt(baselineOverview.Delivered, m),
		Opened:    utils.ScaleInt(baselineOverview.Opened, m),
		Clicked:   utils.ScaleInt(baselineOverview.Clicked, m),
		Bounced:   utils.ScaleInt(baselineOverview.Bounced, m),
	}
	payload.Trends = s.trends(period, m)
	payload.Campaigns = s.campaigns()
	payload.IsRealData = false
	payload.SFMCConnected = false
	payload.ConnectionStatus = "Demo data"
	payload.Error = DemoDataMessage

	return payload
}

func (s *Synthesizer) trends(period domain.Period, m float64) []domain.TrendPoint {
	today := utils.StartOfDay(s.now())
	days := period.Days()

	trends := make([]domain.TrendPoint, 0, days)
	for i := days - 1; i >= 0; i-- {
		trends = append(trends, domain.TrendPoint{
			Date:   utils.FormatDate(today.AddDate(0, 0, -i)),
			Opens:  utils.ScaleInt(trendOpensMin+s.rng.IntN(trendOpensSpread), m),
			Clicks: utils.ScaleInt(trendClicksMin+s.rng.IntN(trendClicksSpread), m),
		})
	}
	return trends
}

func (s *Synthesizer) campaigns() []domain.Campaign {
	today := utils.StartOfDay(s.now())

	campaigns := make([]domain.Campaign, 0, len(demoCampaigns))
	for i, c := range demoCampaigns {
		campaigns = append(campaigns, domain.Campaign{
			ID:      demoID(i),
			Name:    c.name,
			Date:    utils.FormatDate(today.AddDate(0, 0, c.dayOffset)),
			Status:  c.status,
			Sent:    c.sent,
			Opened:  c.opened,
			Clicked: c.clicked,
			Bounced: c.bounced,
		})
	}
	return campaigns
}

func demoID(i int) string {
	return "demo-" + strconv.Itoa(i+1)
}
