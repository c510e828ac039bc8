package sfmcclient

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vfg2006/campaign-dashboard-api/internal/config"
	"github.com/vfg2006/campaign-dashboard-api/internal/domain"
)

type fakeAuthenticator struct {
	mu          sync.Mutex
	tokens      []string
	invalidated int
}

func (f *fakeAuthenticator) Token(ctx context.Context) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	idx := f.invalidated
	if idx >= len(f.tokens) {
		idx = len(f.tokens) - 1
	}
	return f.tokens[idx], nil
}

func (f *fakeAuthenticator) Invalidate() {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.invalidated++
}

type upstream struct {
	server *httptest.Server
	mu     sync.Mutex
	calls  []string
	total  atomic.Int32
}

func newUpstream(t *testing.T, routes map[string]http.HandlerFunc) *upstream {
	t.Helper()

	u := &upstream{}
	u.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u.total.Add(1)
		u.mu.Lock()
		u.calls = append(u.calls, r.URL.Path)
		u.mu.Unlock()

		handler, ok := routes[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		handler(w, r)
	}))
	t.Cleanup(u.server.Close)
	return u
}

func jsonHandler(status int, body string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}
}

func testConfig(restURL string) *config.Config {
	return &config.Config{
		SFMC: config.SFMC{
			RestURL:           restURL,
			RequestTimeout:    2 * time.Second,
			TokenSafetyMargin: 5 * time.Minute,
		},
		Probe: config.Probe{
			Budget:   10 * time.Second,
			PageSize: 50,
		},
	}
}

func candidates(paths ...string) []EndpointCandidate {
	out := make([]EndpointCandidate, 0, len(paths))
	for _, p := range paths {
		out = append(out, EndpointCandidate{Path: p, PageSizeParam: "$pageSize", Description: "candidate " + p})
	}
	return out
}

func newTestProber(cfg *config.Config, auth Authenticator, sends []EndpointCandidate, opts ...ProberOption) *Prober {
	client := NewClient(cfg.SFMC, auth, nil)
	return NewProber(client, Catalog{Version: "test", Sends: sends}, cfg, opts...)
}

func TestProber_FirstSuccessWins(t *testing.T) {
	tests := []struct {
		name          string
		routes        map[string]http.HandlerFunc
		paths         []string
		expectedCalls int32
		expectedBody  map[string]any
		expectedItems int
	}{
		{
			name: "first candidate succeeds",
			routes: map[string]http.HandlerFunc{
				"/c1": jsonHandler(http.StatusOK, `{"count":1,"items":[{"id":"a"}]}`),
				"/c2": jsonHandler(http.StatusOK, `{"items":[{"id":"b"}]}`),
			},
			paths:         []string{"/c1", "/c2"},
			expectedCalls: 1,
			expectedBody:  map[string]any{"count": float64(1), "items": []any{map[string]any{"id": "a"}}},
			expectedItems: 1,
		},
		{
			name: "third candidate is the first usable one",
			routes: map[string]http.HandlerFunc{
				"/c1": jsonHandler(http.StatusInternalServerError, `{"message":"boom","errorcode":0}`),
				"/c2": jsonHandler(http.StatusOK, `{"items":[`),
				"/c3": jsonHandler(http.StatusOK, `{"items":[{"id":"c"},{"id":"d"}]}`),
				"/c4": jsonHandler(http.StatusOK, `{"items":[{"id":"e"}]}`),
			},
			paths:         []string{"/c1", "/c2", "/c3", "/c4"},
			expectedCalls: 3,
			expectedBody:  map[string]any{"items": []any{map[string]any{"id": "c"}, map[string]any{"id": "d"}}},
			expectedItems: 2,
		},
		{
			name: "empty collection is skipped and a bare object wins",
			routes: map[string]http.HandlerFunc{
				"/c1": jsonHandler(http.StatusOK, `{"count":0,"items":[]}`),
				"/c2": jsonHandler(http.StatusOK, `{"emailName":"Welcome"}`),
			},
			paths:         []string{"/c1", "/c2"},
			expectedCalls: 2,
			expectedBody:  map[string]any{"emailName": "Welcome"},
			expectedItems: 1,
		},
		{
			name: "bare array is wrapped under items",
			routes: map[string]http.HandlerFunc{
				"/c1": jsonHandler(http.StatusNotFound, `{}`),
				"/c2": jsonHandler(http.StatusOK, `[{"id":1}]`),
			},
			paths:         []string{"/c1", "/c2"},
			expectedCalls: 2,
			expectedBody:  map[string]any{"items": []any{map[string]any{"id": float64(1)}}},
			expectedItems: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			up := newUpstream(t, tt.routes)
			prober := newTestProber(testConfig(up.server.URL), &fakeAuthenticator{tokens: []string{"token"}}, candidates(tt.paths...))

			report := prober.FetchCategory(context.Background(), domain.CategoryEmailSends, domain.PeriodMonth)

			require.NotNil(t, report.Hit)
			assert.Equal(t, tt.expectedCalls, up.total.Load())
			assert.Equal(t, tt.expectedBody, report.Hit.Body)
			assert.Equal(t, tt.expectedItems, report.Hit.ItemCount)
			assert.Equal(t, domain.CategoryEmailSends, report.Hit.Category)
			assert.Len(t, report.Attempts, int(tt.expectedCalls))
			assert.Equal(t, domain.ProbeOutcomeHit, report.Attempts[len(report.Attempts)-1].Outcome)
		})
	}
}

func TestProber_AllCandidatesFail(t *testing.T) {
	up := newUpstream(t, map[string]http.HandlerFunc{
		"/server-error": jsonHandler(http.StatusInternalServerError, `{"message":"Internal error"}`),
		"/malformed":    jsonHandler(http.StatusOK, `<html>not json</html>`),
		"/empty":        jsonHandler(http.StatusOK, `{"items":[]}`),
		"/empty-object": jsonHandler(http.StatusOK, `{}`),
	})

	sends := candidates("/server-error", "/malformed", "/empty", "/empty-object", "/missing")
	sends = append(sends, EndpointCandidate{Path: "http://127.0.0.1:1/unreachable", Description: "unreachable"})

	prober := newTestProber(testConfig(up.server.URL), &fakeAuthenticator{tokens: []string{"token"}}, sends)

	var report *domain.ProbeReport
	require.NotPanics(t, func() {
		report = prober.FetchCategory(context.Background(), domain.CategoryEmailSends, domain.PeriodWeek)
	})

	assert.Nil(t, report.Hit)
	require.Len(t, report.Attempts, 6)

	outcomes := make([]domain.ProbeOutcome, 0, len(report.Attempts))
	for _, a := range report.Attempts {
		outcomes = append(outcomes, a.Outcome)
	}
	assert.Equal(t, []domain.ProbeOutcome{
		domain.ProbeHTTPError,
		domain.ProbeMalformed,
		domain.ProbeEmpty,
		domain.ProbeEmpty,
		domain.ProbeHTTPError,
		domain.ProbeNetworkError,
	}, outcomes)
	assert.Equal(t, "Internal error", report.Attempts[0].Error)
	assert.Equal(t, int32(5), up.total.Load())
}

func TestProber_UnknownCategoryReturnsEmptyReport(t *testing.T) {
	prober := newTestProber(testConfig("http://127.0.0.1:1"), &fakeAuthenticator{tokens: []string{"token"}}, nil)

	report := prober.FetchCategory(context.Background(), domain.CategoryTrackingEvents, domain.PeriodMonth)

	assert.Nil(t, report.Hit)
	assert.Empty(t, report.Attempts)
}

func TestProber_RetriesOnceAfterUnauthorized(t *testing.T) {
	up := newUpstream(t, map[string]http.HandlerFunc{
		"/sends": func(w http.ResponseWriter, r *http.Request) {
			if r.Header.Get("Authorization") != "Bearer renewed" {
				jsonHandler(http.StatusUnauthorized, `{"message":"Not Authorized","errorcode":0}`)(w, r)
				return
			}
			jsonHandler(http.StatusOK, `{"items":[{"id":"x"}]}`)(w, r)
		},
	})

	auth := &fakeAuthenticator{tokens: []string{"stale", "renewed"}}
	prober := newTestProber(testConfig(up.server.URL), auth, candidates("/sends"))

	report := prober.FetchCategory(context.Background(), domain.CategoryEmailSends, domain.PeriodMonth)

	require.NotNil(t, report.Hit)
	assert.Equal(t, 1, auth.invalidated)
	assert.Equal(t, int32(2), up.total.Load())
}

func TestProber_GivesUpAfterSecondUnauthorized(t *testing.T) {
	up := newUpstream(t, map[string]http.HandlerFunc{
		"/sends":    jsonHandler(http.StatusUnauthorized, `{"message":"Not Authorized"}`),
		"/fallback": jsonHandler(http.StatusOK, `{"items":[{"id":"x"}]}`),
	})

	auth := &fakeAuthenticator{tokens: []string{"stale"}}
	prober := newTestProber(testConfig(up.server.URL), auth, candidates("/sends", "/fallback"))

	report := prober.FetchCategory(context.Background(), domain.CategoryEmailSends, domain.PeriodMonth)

	require.NotNil(t, report.Hit)
	assert.Equal(t, domain.ProbeUnauthorized, report.Attempts[0].Outcome)
	assert.Equal(t, http.StatusUnauthorized, report.Attempts[0].StatusCode)
	assert.Equal(t, 1, auth.invalidated)
	assert.Equal(t, int32(3), up.total.Load())
}

func TestProber_SendsPageSizeAndDateRange(t *testing.T) {
	now := time.Date(2024, 6, 30, 15, 0, 0, 0, time.UTC)

	var captured url.Values
	up := newUpstream(t, map[string]http.HandlerFunc{
		"/rowset": func(w http.ResponseWriter, r *http.Request) {
			captured = r.URL.Query()
			assert.Equal(t, "Bearer token", r.Header.Get("Authorization"))
			jsonHandler(http.StatusOK, `{"items":[{"EventDate":"2024-06-29"}]}`)(w, r)
		},
	})

	sends := []EndpointCandidate{{
		Path:          "/rowset",
		PageSizeParam: "$pageSize",
		DateFilter:    odataDateFilter("EventDate"),
		Description:   "rowset",
	}}
	prober := newTestProber(testConfig(up.server.URL), &fakeAuthenticator{tokens: []string{"token"}}, sends, WithProberClock(func() time.Time { return now }))

	report := prober.FetchCategory(context.Background(), domain.CategoryEmailSends, domain.PeriodWeek)

	require.NotNil(t, report.Hit)
	assert.Equal(t, "50", captured.Get("$pageSize"))
	assert.Equal(t, "EventDate gte '2024-06-23' and EventDate lte '2024-06-30'", captured.Get("$filter"))
}

func TestProber_BudgetBoundsTheSequence(t *testing.T) {
	slow := func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}
	up := newUpstream(t, map[string]http.HandlerFunc{"/a": slow, "/b": slow, "/c": slow})

	cfg := testConfig(up.server.URL)
	cfg.Probe.Budget = 150 * time.Millisecond
	prober := newTestProber(cfg, &fakeAuthenticator{tokens: []string{"token"}}, candidates("/a", "/b", "/c"))

	started := time.Now()
	report := prober.FetchCategory(context.Background(), domain.CategoryEmailSends, domain.PeriodMonth)

	assert.Nil(t, report.Hit)
	assert.Less(t, time.Since(started), time.Second)
	assert.Len(t, report.Attempts, 3)
	for _, a := range report.Attempts {
		assert.Contains(t, []domain.ProbeOutcome{domain.ProbeNetworkError, domain.ProbeSkipped}, a.Outcome)
	}
}

func TestEndpointCandidate_QueryMergesStaticFilter(t *testing.T) {
	c := EndpointCandidate{
		Query:         url.Values{"$filter": {"assetType.name eq 'htmlemail'"}},
		PageSizeParam: "$pageSize",
		DateFilter:    odataDateFilter("modifiedDate"),
	}
	from := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC)

	q := c.query(25, from, to)

	assert.Equal(t, "25", q.Get("$pageSize"))
	assert.True(t, strings.HasPrefix(q.Get("$filter"), "assetType.name eq 'htmlemail' and modifiedDate gte '2024-06-01'"))
	assert.Equal(t, []string{"assetType.name eq 'htmlemail'"}, c.Query["$filter"])
}
