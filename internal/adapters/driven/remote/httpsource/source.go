package httpsource

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"

	"github.com/custodia-labs/architips/internal/core/domain"
	"github.com/custodia-labs/architips/internal/core/ports/driven"
	"github.com/custodia-labs/architips/internal/logger"
)

const (
	// DefaultBreakerFailures is how many consecutive failures open the breaker.
	DefaultBreakerFailures = 5

	// DefaultBreakerCooldown is how long the breaker stays open.
	DefaultBreakerCooldown = 30 * time.Second

	// maxVersionBytes caps the version response body.
	maxVersionBytes = 1024

	userAgent = "architips"
)

// Ensure Source implements the interface.
var _ driven.RemoteSource = (*Source)(nil)

// Config configures an HTTP source.
type Config struct {
	ContentURL string
	VersionURL string

	// ConnectTimeout bounds dialing and the TLS handshake.
	ConnectTimeout time.Duration

	// ReadTimeout bounds the wait for response headers and for each body read.
	ReadTimeout time.Duration

	// CheckInterval is the minimum spacing between version checks.
	// Zero disables throttling.
	CheckInterval time.Duration

	BreakerFailures uint32
	BreakerCooldown time.Duration
}

// ConfigFromSettings builds a Config from sync settings.
func ConfigFromSettings(s domain.SyncSettings) Config {
	return Config{
		ContentURL:     s.Content.URL,
		VersionURL:     s.Content.VersionURL,
		ConnectTimeout: s.Update.ConnectTimeout,
		ReadTimeout:    s.Update.ReadTimeout,
		CheckInterval:  s.Update.CheckInterval,
	}
}

// Source is a RemoteSource over plain URLs.
type Source struct {
	cfg     Config
	client  *http.Client
	breaker *gobreaker.CircuitBreaker
	limiter *rate.Limiter
}

// New creates an HTTP source.
func New(cfg Config) *Source {
	if cfg.BreakerFailures == 0 {
		cfg.BreakerFailures = DefaultBreakerFailures
	}
	if cfg.BreakerCooldown <= 0 {
		cfg.BreakerCooldown = DefaultBreakerCooldown
	}

	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   cfg.ConnectTimeout,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		TLSHandshakeTimeout:   cfg.ConnectTimeout,
		ResponseHeaderTimeout: cfg.ReadTimeout,
		MaxIdleConns:          4,
		IdleConnTimeout:       90 * time.Second,
	}

	limit := rate.Inf
	if cfg.CheckInterval > 0 {
		limit = rate.Every(cfg.CheckInterval)
	}

	failures := cfg.BreakerFailures
	return &Source{
		cfg:    cfg,
		client: &http.Client{Transport: transport},
		breaker: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:    "content-source",
			Timeout: cfg.BreakerCooldown,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= failures
			},
			OnStateChange: func(name string, from, to gobreaker.State) {
				logger.Warn("remote: circuit breaker %s changed from %s to %s", name, from, to)
			},
			IsSuccessful: isSuccessful,
		}),
		limiter: rate.NewLimiter(limit, 1),
	}
}

// isSuccessful keeps cancellations and client errors from tripping the breaker.
func isSuccessful(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) {
		return true
	}
	var statusErr *domain.HTTPStatusError
	if errors.As(err, &statusErr) {
		return statusErr.StatusCode < http.StatusInternalServerError
	}
	return false
}

// Name identifies the source in logs.
func (s *Source) Name() string { return "http" }

// FetchVersion returns the trimmed body of the version URL.
func (s *Source) FetchVersion(ctx context.Context) (string, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", ctxErr
		}
		return "", fmt.Errorf("version check throttled: %w", err)
	}

	body, _, err := s.open(ctx, s.cfg.VersionURL)
	if err != nil {
		return "", err
	}
	defer body.Close()

	data, err := io.ReadAll(io.LimitReader(body, maxVersionBytes))
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", ctxErr
		}
		if !errors.Is(err, domain.ErrTransport) {
			err = fmt.Errorf("%w: %w", domain.ErrTransport, err)
		}
		return "", fmt.Errorf("reading version: %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}

// OpenContent starts the content download. The size is -1 when the server
// does not declare a length.
func (s *Source) OpenContent(ctx context.Context) (io.ReadCloser, int64, error) {
	return s.open(ctx, s.cfg.ContentURL)
}

func (s *Source) open(ctx context.Context, url string) (io.ReadCloser, int64, error) {
	result, err := s.breaker.Execute(func() (any, error) {
		return s.get(ctx, url)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, 0, fmt.Errorf("%w: %w", domain.ErrCircuitOpen, err)
		}
		return nil, 0, err
	}

	body := result.(*idleTimeoutBody)
	return body, body.size, nil
}

func (s *Source) get(ctx context.Context, url string) (*idleTimeoutBody, error) {
	reqCtx, cancel := context.WithCancel(ctx)

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, url, nil)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("%w: building request: %w", domain.ErrTransport, err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		cancel()
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, fmt.Errorf("%w: %w", domain.ErrTransport, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_ = resp.Body.Close()
		cancel()
		return nil, &domain.HTTPStatusError{StatusCode: resp.StatusCode, URL: url}
	}

	logger.Debug("remote: GET %s -> %d (%d bytes)", url, resp.StatusCode, resp.ContentLength)
	return newIdleTimeoutBody(resp.Body, resp.ContentLength, s.cfg.ReadTimeout, cancel), nil
}
