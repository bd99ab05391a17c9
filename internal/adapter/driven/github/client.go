// Package github implements the RepositoryFetcher port using the go-github library.
package github

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	gh "github.com/google/go-github/v82/github"
	"github.com/gregjones/httpcache"

	"github.com/gofri/go-github-ratelimit/v2/github_ratelimit"

	"github.com/ericfisherdev/repobrowser/internal/domain/model"
	"github.com/ericfisherdev/repobrowser/internal/domain/port/driven"
)

// DefaultBaseURL is the users collection of the public GitHub REST API.
const DefaultBaseURL = "https://api.github.com/users"

// Compile-time interface satisfaction check.
var _ driven.RepositoryFetcher = (*Client)(nil)

// Client implements the driven.RepositoryFetcher port using the go-github library.
type Client struct {
	gh      *gh.Client
	baseURL string
}

// Option configures the transport stack built by NewClient.
type Option func(*transportOptions)

type transportOptions struct {
	base      http.RoundTripper
	cache     bool
	rateLimit bool
}

// WithTransport sets the innermost RoundTripper. The default is
// http.DefaultTransport.
func WithTransport(rt http.RoundTripper) Option {
	return func(o *transportOptions) { o.base = rt }
}

// WithHTTPCache enables ETag-based conditional request caching.
func WithHTTPCache() Option {
	return func(o *transportOptions) { o.cache = true }
}

// WithRateLimit enables the secondary rate limit middleware, which sleeps
// when GitHub answers 429.
func WithRateLimit() Option {
	return func(o *transportOptions) { o.rateLimit = true }
}

// NewClient creates a new GitHub API client. By default the platform HTTP
// transport is used directly. Options stack, from the innermost layer:
//  1. base transport (WithTransport)
//  2. httpcache (ETag-based conditional request caching)
//  3. go-github-ratelimit (secondary rate limit middleware, sleeps on 429)
//  4. go-github (request building)
func NewClient(baseURL string, opts ...Option) *Client {
	o := transportOptions{base: http.DefaultTransport}
	for _, opt := range opts {
		opt(&o)
	}

	transport := o.base
	if o.cache {
		cacheTransport := httpcache.NewMemoryCacheTransport()
		cacheTransport.Transport = transport
		transport = cacheTransport
	}

	httpClient := &http.Client{Transport: transport}
	if o.rateLimit {
		httpClient = github_ratelimit.NewClient(transport)
	}

	return NewClientWithHTTPClient(httpClient, baseURL)
}

// NewClientWithHTTPClient creates a Client with a custom http.Client.
// Tests inject a fake transport through it.
func NewClientWithHTTPClient(httpClient *http.Client, baseURL string) *Client {
	return &Client{
		gh:      gh.NewClient(httpClient),
		baseURL: baseURL,
	}
}

// FetchRepositories retrieves the repositories of user with a single GET to
// {baseURL}/{user}/repos. Every failure is returned as a model.FetchError.
func (c *Client) FetchRepositories(ctx context.Context, user string) ([]model.Repository, error) {
	if user == "" {
		return nil, model.ErrInvalidInput
	}

	endpoint, ok := repositoriesURL(c.baseURL, user)
	if !ok {
		return nil, model.ErrInvalidAddress
	}

	req, err := c.gh.NewRequest(http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, model.UnknownFetchError(err.Error())
	}

	// One invocation is one request: never answer from go-github's
	// remembered rate limit state.
	ctx = context.WithValue(ctx, gh.BypassRateLimitCheck, true)

	resp, err := c.gh.BareDo(ctx, req)
	logRateLimit(resp, endpoint)

	body, err := responseBody(resp, err)
	if err != nil {
		return nil, model.UnknownFetchError(err.Error())
	}

	repos, err := decodeRepositories(body)
	if err != nil {
		slog.Debug("github response rejected", "endpoint", endpoint, "error", err)
		return nil, model.ErrDecodingFailed
	}

	slog.Debug("github repositories fetched", "user", user, "count", len(repos))

	return repos, nil
}

// repositoriesURL joins base, user and the repos suffix. The result must be
// an absolute URL with a host.
func repositoriesURL(base, user string) (string, bool) {
	raw := base + "/" + user + "/repos"

	u, err := url.Parse(raw)
	if err != nil || !u.IsAbs() || u.Host == "" {
		return "", false
	}

	return raw, true
}

// responseBody returns the body of any response the server sent, whatever
// its status. go-github reports non-2xx statuses as errors but keeps the body
// readable, so only a missing response is a transport failure.
func responseBody(resp *gh.Response, err error) ([]byte, error) {
	var accepted *gh.AcceptedError
	if errors.As(err, &accepted) {
		return accepted.Raw, nil
	}

	var urlErr *url.Error
	if errors.As(err, &urlErr) || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return nil, err
	}

	if resp == nil || resp.Response == nil || resp.Body == nil {
		if err == nil {
			err = errors.New("no response")
		}
		return nil, err
	}
	defer resp.Body.Close()

	body, readErr := io.ReadAll(resp.Body)
	if readErr != nil {
		return nil, fmt.Errorf("read response body: %w", readErr)
	}

	if err != nil {
		slog.Debug("github error status, decoding body anyway", "status", resp.Status, "error", err)
	}

	return body, nil
}

// logRateLimit logs the GitHub API rate limit status after each call.
func logRateLimit(resp *gh.Response, endpoint string) {
	if resp == nil {
		return
	}

	slog.Debug("github api call",
		"endpoint", endpoint,
		"status", resp.StatusCode,
		"rate_remaining", resp.Rate.Remaining,
		"rate_limit", resp.Rate.Limit,
	)

	if resp.Rate.Limit > 0 && resp.Rate.Remaining < 10 {
		slog.Warn("github rate limit low",
			"remaining", resp.Rate.Remaining,
			"reset_in", time.Until(resp.Rate.Reset.Time).Round(time.Second),
		)
	}
}
