package sfmcclient

import (
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/vfg2006/campaign-dashboard-api/internal/config"
	"github.com/vfg2006/campaign-dashboard-api/internal/domain"
)

// CatalogVersion changes whenever the default candidate lists change.
const CatalogVersion = "2024.06-1"

// Matcher decides whether a decoded 2xx body is usable and how many items it holds.
type Matcher func(body any) (items int, ok bool)

// Transform turns a matched body into the payload kept on the probe hit.
type Transform func(body any) map[string]any

// DateFilter adds the query parameters that restrict a candidate to [from, to].
type DateFilter func(from, to time.Time) url.Values

// EndpointCandidate is one guess at where a tenant exposes a data category.
type EndpointCandidate struct {
	Path          string
	Query         url.Values
	PageSizeParam string
	DateFilter    DateFilter
	Description   string
	Match         Matcher
	Transform     Transform
}

// Catalog is the versioned, ordered list of candidates per category.
type Catalog struct {
	Version  string
	Sends    []EndpointCandidate
	Tracking []EndpointCandidate
}

func (c Catalog) Candidates(category domain.Category) []EndpointCandidate {
	switch category {
	case domain.CategoryEmailSends:
		return c.Sends
	case domain.CategoryTrackingEvents:
		return c.Tracking
	}
	return nil
}

// DefaultCatalog returns the built-in candidates, with any configured extra
// paths tried first.
func DefaultCatalog(probe config.Probe) Catalog {
	return Catalog{
		Version:  CatalogVersion,
		Sends:    append(extraCandidates(probe.ExtraSendEndpoints), defaultSendCandidates()...),
		Tracking: append(extraCandidates(probe.ExtraTrackingEndpoints), defaultTrackingCandidates()...),
	}
}

func defaultSendCandidates() []EndpointCandidate {
	return []EndpointCandidate{
		{
			Path:          "/data/v1/customobjectdata/key/_Sent/rowset",
			PageSizeParam: "$pageSize",
			DateFilter:    odataDateFilter("EventDate"),
			Description:   "Sent data view rowset",
		},
		{
			Path:          "/messaging/v1/email/definitions",
			PageSizeParam: "$pageSize",
			Description:   "Transactional email send definitions",
		},
		{
			Path:          "/asset/v1/content/assets",
			Query:         url.Values{"$filter": {"assetType.name eq 'htmlemail'"}},
			PageSizeParam: "$pageSize",
			Description:   "Content Builder email assets",
		},
		{
			Path:          "/guide/v1/emails",
			PageSizeParam: "$pageSize",
			Description:   "Legacy guide emails",
		},
		{
			Path:          "/interaction/v1/interactions",
			PageSizeParam: "$pageSize",
			Description:   "Journey Builder interactions",
		},
	}
}

func defaultTrackingCandidates() []EndpointCandidate {
	return []EndpointCandidate{
		{
			Path:          "/data/v1/customobjectdata/key/_Open/rowset",
			PageSizeParam: "$pageSize",
			DateFilter:    odataDateFilter("EventDate"),
			Description:   "Open data view rowset",
		},
		{
			Path:          "/data/v1/customobjectdata/key/_Click/rowset",
			PageSizeParam: "$pageSize",
			DateFilter:    odataDateFilter("EventDate"),
			Description:   "Click data view rowset",
		},
		{
			Path:          "/data/v1/customobjectdata/key/_Bounce/rowset",
			PageSizeParam: "$pageSize",
			DateFilter:    odataDateFilter("EventDate"),
			Description:   "Bounce data view rowset",
		},
		{
			Path:          "/interaction/v1/interactions/journeyhistory",
			PageSizeParam: "$pageSize",
			DateFilter:    rangeDateFilter("start", "end"),
			Description:   "Journey history events",
		},
	}
}

func extraCandidates(paths []string) []EndpointCandidate {
	out := make([]EndpointCandidate, 0, len(paths))
	for _, p := range paths {
		out = append(out, EndpointCandidate{
			Path:          p,
			PageSizeParam: "$pageSize",
			Description:   "Configured endpoint " + p,
		})
	}
	return out
}

func odataDateFilter(field string) DateFilter {
	return func(from, to time.Time) url.Values {
		return url.Values{
			"$filter": {fmt.Sprintf("%s gte '%s' and %s lte '%s'",
				field, from.Format(time.DateOnly), field, to.Format(time.DateOnly))},
		}
	}
}

func rangeDateFilter(fromParam, toParam string) DateFilter {
	return func(from, to time.Time) url.Values {
		return url.Values{
			fromParam: {from.UTC().Format(time.RFC3339)},
			toParam:   {to.UTC().Format(time.RFC3339)},
		}
	}
}

// query merges the static parameters, page size and date range.
func (c EndpointCandidate) query(pageSize int, from, to time.Time) url.Values {
	q := url.Values{}
	for k, vs := range c.Query {
		q[k] = append([]string(nil), vs...)
	}
	if c.PageSizeParam != "" && pageSize > 0 {
		q.Set(c.PageSizeParam, strconv.Itoa(pageSize))
	}
	if c.DateFilter != nil {
		for k, vs := range c.DateFilter(from, to) {
			// $filter from the date range is combined with any static one.
			if existing := q.Get(k); existing != "" && len(vs) > 0 {
				q.Set(k, existing+" and "+vs[0])
				continue
			}
			q[k] = vs
		}
	}
	return q
}

func (c EndpointCandidate) matcher() Matcher {
	if c.Match != nil {
		return c.Match
	}
	return MatchNonEmpty
}

func (c EndpointCandidate) transform() Transform {
	if c.Transform != nil {
		return c.Transform
	}
	return PassThrough
}

// Keys Marketing Cloud uses for the item collection of a list response.
var collectionKeys = []string{"items", "entities", "data", "rows", "results", "definitions"}

// MatchNonEmpty accepts a non-empty array, an object whose item collection
// is non-empty, or any non-empty object without a known collection key.
func MatchNonEmpty(body any) (int, bool) {
	switch v := body.(type) {
	case []any:
		return len(v), len(v) > 0
	case map[string]any:
		for _, key := range collectionKeys {
			raw, ok := v[key]
			if !ok {
				continue
			}
			items, isSlice := raw.([]any)
			if !isSlice {
				continue
			}
			return len(items), len(items) > 0
		}
		if len(v) > 0 {
			return 1, true
		}
	}
	return 0, false
}

// PassThrough keeps the body as is, wrapping a bare array under "items".
func PassThrough(body any) map[string]any {
	switch v := body.(type) {
	case map[string]any:
		return v
	case []any:
		return map[string]any{"items": v}
	}
	return map[string]any{"value": body}
}
