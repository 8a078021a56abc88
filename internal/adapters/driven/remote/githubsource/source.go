package githubsource

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	gh "github.com/google/go-github/v80/github"
	"golang.org/x/oauth2"

	"github.com/custodia-labs/architips/internal/core/domain"
	"github.com/custodia-labs/architips/internal/core/ports/driven"
	"github.com/custodia-labs/architips/internal/logger"
)

// DefaultTimeout bounds a whole API request including the body.
const DefaultTimeout = 30 * time.Second

// Ensure Source implements the interface.
var _ driven.RemoteSource = (*Source)(nil)

// Config locates the content inside a repository.
type Config struct {
	Owner       string
	Repo        string
	Path        string
	VersionPath string
	Ref         string

	// Token is an optional personal access token.
	Token string

	// BaseURL overrides the API endpoint, e.g. for GitHub Enterprise.
	BaseURL string

	ConnectTimeout time.Duration
	ReadTimeout    time.Duration
}

// ConfigFromSettings builds a Config from sync settings.
func ConfigFromSettings(s domain.SyncSettings) Config {
	return Config{
		Owner:          s.GitHub.Owner,
		Repo:           s.GitHub.Repo,
		Path:           s.GitHub.Path,
		VersionPath:    s.GitHub.VersionPath,
		Ref:            s.GitHub.Ref,
		Token:          s.GitHub.Token,
		ConnectTimeout: s.Update.ConnectTimeout,
		ReadTimeout:    s.Update.ReadTimeout,
	}
}

// Source is a RemoteSource backed by the GitHub contents API.
type Source struct {
	cfg         Config
	gh          *gh.Client
	rateLimiter *RateLimiter
}

// New creates a GitHub source.
func New(cfg Config) (*Source, error) {
	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   cfg.ConnectTimeout,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		TLSHandshakeTimeout:   cfg.ConnectTimeout,
		ResponseHeaderTimeout: cfg.ReadTimeout,
	}
	httpClient := &http.Client{Transport: transport, Timeout: DefaultTimeout}

	if cfg.Token != "" {
		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: cfg.Token})
		ctx := context.WithValue(context.Background(), oauth2.HTTPClient, httpClient)
		httpClient = oauth2.NewClient(ctx, ts)
		httpClient.Timeout = DefaultTimeout
	}

	client := gh.NewClient(httpClient)
	if cfg.BaseURL != "" {
		base, err := url.Parse(strings.TrimSuffix(cfg.BaseURL, "/") + "/")
		if err != nil {
			return nil, fmt.Errorf("%w: github base url: %w", domain.ErrInvalidInput, err)
		}
		client.BaseURL = base
	}

	return &Source{
		cfg:         cfg,
		gh:          client,
		rateLimiter: NewRateLimiter(),
	}, nil
}

// Name identifies the source in logs.
func (s *Source) Name() string {
	return "github:" + s.cfg.Owner + "/" + s.cfg.Repo
}

// FetchVersion returns the trimmed contents of the version file.
func (s *Source) FetchVersion(ctx context.Context) (string, error) {
	body, _, err := s.open(ctx, s.cfg.VersionPath)
	if err != nil {
		return "", err
	}
	defer body.Close()

	data, err := io.ReadAll(io.LimitReader(body, 1024))
	if err != nil {
		return "", s.wrapError(ctx, err, "read version")
	}
	return strings.TrimSpace(string(data)), nil
}

// OpenContent opens the content file. Files the API cannot inline are
// streamed through DownloadContents.
func (s *Source) OpenContent(ctx context.Context) (io.ReadCloser, int64, error) {
	return s.open(ctx, s.cfg.Path)
}

func (s *Source) open(ctx context.Context, path string) (io.ReadCloser, int64, error) {
	if err := s.rateLimiter.Wait(ctx); err != nil {
		return nil, 0, fmt.Errorf("rate limit wait: %w", err)
	}

	opts := &gh.RepositoryContentGetOptions{Ref: s.cfg.Ref}
	file, _, resp, err := s.gh.Repositories.GetContents(ctx, s.cfg.Owner, s.cfg.Repo, path, opts)
	s.updateRateLimit(resp)
	if err != nil {
		return nil, 0, s.wrapError(ctx, err, "get contents")
	}
	if file == nil {
		return nil, 0, fmt.Errorf("%w: %s is a directory, not a file", domain.ErrParse, path)
	}

	if content, err := file.GetContent(); err == nil && content != "" {
		return io.NopCloser(strings.NewReader(content)), int64(len(content)), nil
	}

	logger.Debug("remote: %s is not inlined, downloading", path)
	if err := s.rateLimiter.Wait(ctx); err != nil {
		return nil, 0, fmt.Errorf("rate limit wait: %w", err)
	}
	rc, resp, err := s.gh.Repositories.DownloadContents(ctx, s.cfg.Owner, s.cfg.Repo, path, opts)
	s.updateRateLimit(resp)
	if err != nil {
		return nil, 0, s.wrapError(ctx, err, "download contents")
	}

	size := int64(file.GetSize())
	if size <= 0 {
		size = -1
	}
	return rc, size, nil
}

func (s *Source) updateRateLimit(resp *gh.Response) {
	if resp == nil || resp.Response == nil {
		return
	}
	s.rateLimiter.UpdateFromResponse(resp.Response)
}

// wrapError maps go-github errors onto domain errors.
func (s *Source) wrapError(ctx context.Context, err error, operation string) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}

	var rateLimitErr *gh.RateLimitError
	if errors.As(err, &rateLimitErr) {
		return fmt.Errorf("%w: github rate limit exceeded, resets at %s",
			domain.ErrTransport, rateLimitErr.Rate.Reset.Format(time.RFC3339))
	}

	var abuseErr *gh.AbuseRateLimitError
	if errors.As(err, &abuseErr) {
		return fmt.Errorf("%w: github secondary rate limit: %s", domain.ErrTransport, abuseErr.Message)
	}

	var ghErr *gh.ErrorResponse
	if errors.As(err, &ghErr) && ghErr.Response != nil {
		statusErr := &domain.HTTPStatusError{StatusCode: ghErr.Response.StatusCode}
		if ghErr.Response.Request != nil {
			statusErr.URL = ghErr.Response.Request.URL.String()
		}
		return statusErr
	}

	return fmt.Errorf("%w: %s: %w", domain.ErrTransport, operation, err)
}
