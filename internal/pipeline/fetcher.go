package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/ppiankov/pmtable/internal/cache"
	"github.com/ppiankov/pmtable/internal/model"
	"github.com/ppiankov/pmtable/internal/util"
	"go.uber.org/zap"
)

// Fetcher retrieves the source page and keeps a verbatim copy on disk
type Fetcher struct {
	httpClient *http.Client
	userAgent  string
	maxBytes   int64
	robots     *util.RobotsChecker // nil when robots.txt is ignored
	limiter    *util.Limiter
	cache      *cache.DiskCache    // nil when caching is disabled
	refresh    bool
	logger     *zap.Logger
}

// NewFetcher creates a Fetcher from the HTTP and cache settings
func NewFetcher(cfg *model.Config, logger *zap.Logger) *Fetcher {
	transport := util.NewTransport(cfg.HTTP.HTTPProxy, cfg.HTTP.HTTPSProxy)

	f := &Fetcher{
		userAgent: cfg.HTTP.UserAgent,
		maxBytes:  cfg.HTTP.MaxBodyBytes,
		limiter:   util.NewLimiter(cfg.HTTP.RequestsPerSecond, cfg.HTTP.Burst),
		refresh:   cfg.Cache.Refresh,
		logger:    logger,
	}
	f.httpClient = &http.Client{
		Timeout:       cfg.HTTP.Timeout,
		Transport:     transport,
		CheckRedirect: f.checkRedirect,
	}
	if cfg.HTTP.RespectRobots {
		// robots.txt gets its own client: its redirects must not re-enter the checker
		robotsClient := &http.Client{Timeout: cfg.HTTP.Timeout, Transport: transport}
		f.robots = util.NewRobotsChecker(robotsClient, cfg.HTTP.UserAgent, f.limiter, cfg.HTTP.RobotsTTL)
	}
	if cfg.Cache.Enabled {
		f.cache = cache.NewDiskCache(cfg.Cache.Dir, cfg.Cache.TTL)
	}
	return f
}

// checkRedirect caps the redirect chain and applies robots.txt and pacing to every hop
func (f *Fetcher) checkRedirect(req *http.Request, via []*http.Request) error {
	if len(via) >= 3 {
		return fmt.Errorf("stopped after 3 redirects")
	}

	target := req.URL.String()
	if f.robots != nil {
		allowed, err := f.robots.Allowed(req.Context(), target)
		if err != nil {
			return err
		}
		if !allowed {
			return fmt.Errorf("redirect to %s: %w", target, ErrDisallowed)
		}
	}
	return f.limiter.Wait(req.Context(), target)
}

// FetchResult contains the fetched HTML and metadata
type FetchResult struct {
	HTML     string
	FinalURL string
	Meta     model.FetchMeta
}

// Fetch returns the page at rawURL, from the cache when possible
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (*FetchResult, error) {
	key := cache.Key(rawURL)

	if f.cache != nil && f.refresh {
		if err := f.cache.Delete(key); err != nil {
			return nil, &FetchError{URL: rawURL, Message: "drop cached copy", Cause: err}
		}
		f.logger.Debug("dropped cached source", zap.String("path", f.cache.Path(key)))
	}

	if f.cache != nil && !f.refresh {
		if data, found := f.cache.Get(key); found {
			f.logger.Debug("serving source from cache", zap.String("url", rawURL), zap.String("path", f.cache.Path(key)))
			return &FetchResult{
				HTML:     string(data),
				FinalURL: rawURL,
				Meta: model.FetchMeta{
					FromCache: true,
					CachePath: f.cache.Path(key),
					Bytes:     len(data),
				},
			}, nil
		}
	}

	result, err := f.download(ctx, rawURL)
	if err != nil {
		return nil, err
	}

	if f.cache != nil {
		if err := f.cache.Set(key, []byte(result.HTML)); err != nil {
			return nil, &FetchError{URL: rawURL, Message: "persist cache", Cause: err}
		}
		result.Meta.CachePath = f.cache.Path(key)
		f.logger.Debug("cached source", zap.String("path", result.Meta.CachePath))
	}

	return result, nil
}

func (f *Fetcher) download(ctx context.Context, rawURL string) (*FetchResult, error) {
	if f.robots != nil {
		allowed, err := f.robots.Allowed(ctx, rawURL)
		if err != nil {
			return nil, &FetchError{URL: rawURL, Message: "check robots.txt", Cause: err}
		}
		if !allowed {
			return nil, &FetchError{URL: rawURL, Message: "refusing to fetch", Cause: ErrDisallowed}
		}
	}

	if err := f.limiter.Wait(ctx, rawURL); err != nil {
		return nil, &FetchError{URL: rawURL, Message: "rate limit", Cause: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, &FetchError{URL: rawURL, Message: "create request", Cause: err}
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	f.logger.Debug("fetching source", zap.String("url", rawURL))

	resp, err := f.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, ErrDisallowed) {
			return nil, &FetchError{URL: rawURL, Message: "refusing to fetch", Cause: err}
		}
		return nil, &FetchError{URL: rawURL, Message: "request failed", Cause: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &FetchError{URL: rawURL, Message: fmt.Sprintf("unexpected status: %s", resp.Status)}
	}

	// one byte past the limit tells a full page from a cut-off one
	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBytes+1))
	if err != nil {
		return nil, &FetchError{URL: rawURL, Message: "read body", Cause: err}
	}
	if int64(len(body)) > f.maxBytes {
		return nil, &FetchError{URL: rawURL, Message: "body exceeds max bytes", Cause: ErrTooLarge}
	}
	if len(body) == 0 {
		return nil, &FetchError{URL: rawURL, Message: "no content", Cause: ErrEmptyBody}
	}

	f.logger.Info("fetched source",
		zap.String("url", rawURL),
		zap.Int("status", resp.StatusCode),
		zap.Int("bytes", len(body)))

	return &FetchResult{
		HTML:     string(body),
		FinalURL: resp.Request.URL.String(),
		Meta: model.FetchMeta{
			StatusCode:  resp.StatusCode,
			ContentType: resp.Header.Get("Content-Type"),
			Bytes:       len(body),
		},
	}, nil
}
