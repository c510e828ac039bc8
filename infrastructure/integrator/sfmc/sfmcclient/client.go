package sfmcclient

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"

	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	sfmcdomain "github.com/vfg2006/campaign-dashboard-api/infrastructure/integrator/sfmc/domain"
	"github.com/vfg2006/campaign-dashboard-api/internal/config"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Bodies beyond this are not read; a dashboard page never needs more.
const maxResponseBytes = 8 << 20

type Response struct {
	URL        string
	StatusCode int
	Body       []byte
}

func (r *Response) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// Client issues authenticated GETs against the tenant REST API.
type Client interface {
	Get(ctx context.Context, path string, query url.Values) (*Response, error)
}

// Authenticator is the part of the token manager the REST client relies on.
type Authenticator interface {
	Token(ctx context.Context) (string, error)
	Invalidate()
}

type MarketingCloudClient struct {
	baseURL    string
	auth       Authenticator
	httpClient *http.Client
}

func NewClient(cfg config.SFMC, auth Authenticator, httpClient *http.Client) *MarketingCloudClient {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.RequestTimeout}
	}

	return &MarketingCloudClient{
		baseURL:    strings.TrimRight(cfg.RestURL, "/"),
		auth:       auth,
		httpClient: httpClient,
	}
}

// Get sends the request with the current bearer token. A rejected token is
// invalidated and the request retried once with a fresh one; a second
// rejection returns ErrUnauthorized along with the response.
func (c *MarketingCloudClient) Get(ctx context.Context, path string, query url.Values) (*Response, error) {
	requestURL := c.buildURL(path, query)

	resp, err := c.do(ctx, requestURL)
	if err != nil {
		return nil, err
	}
	if !rejectsToken(resp) {
		return resp, nil
	}

	logrus.WithFields(logrus.Fields{
		"url":         requestURL,
		"status_code": resp.StatusCode,
	}).Warn("sfmc: access token rejected, re-authenticating once")

	c.auth.Invalidate()

	resp, err = c.do(ctx, requestURL)
	if err != nil {
		return nil, err
	}
	if rejectsToken(resp) {
		return resp, errors.Wrapf(ErrUnauthorized, "GET %s", requestURL)
	}
	return resp, nil
}

func (c *MarketingCloudClient) do(ctx context.Context, requestURL string) (*Response, error) {
	token, err := c.auth.Token(ctx)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return nil, errors.Wrap(err, "creating request")
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrapf(err, "GET %s", requestURL)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, errors.Wrapf(err, "reading response from %s", requestURL)
	}

	return &Response{
		URL:        requestURL,
		StatusCode: resp.StatusCode,
		Body:       body,
	}, nil
}

func (c *MarketingCloudClient) buildURL(path string, query url.Values) string {
	u := path
	if !strings.HasPrefix(path, "http://") && !strings.HasPrefix(path, "https://") {
		u = c.baseURL + "/" + strings.TrimLeft(path, "/")
	}
	if len(query) > 0 {
		sep := "?"
		if strings.Contains(u, "?") {
			sep = "&"
		}
		u += sep + query.Encode()
	}
	return u
}

// rejectsToken treats 401 as a token rejection, plus the 400 invalid_token
// answer some Marketing Cloud stacks send for expired tokens.
func rejectsToken(resp *Response) bool {
	if resp.StatusCode == http.StatusUnauthorized {
		return true
	}
	if resp.StatusCode != http.StatusBadRequest {
		return false
	}

	var errResp sfmcdomain.ErrorResponse
	if err := json.Unmarshal(resp.Body, &errResp); err != nil {
		return false
	}
	return errResp.IsInvalidToken()
}

// ParseErrorResponse decodes a Marketing Cloud error body.
func ParseErrorResponse(body []byte) (*sfmcdomain.ErrorResponse, error) {
	var errResp sfmcdomain.ErrorResponse
	if err := json.Unmarshal(body, &errResp); err != nil {
		return nil, err
	}
	return &errResp, nil
}
