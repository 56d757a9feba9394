package util

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/temoto/robotstxt"
)

// RobotsChecker answers whether a URL may be fetched, remembering robots.txt per host
type RobotsChecker struct {
	client    *http.Client
	userAgent string
	limiter   *Limiter // nil disables pacing of robots.txt requests

	mu    sync.Mutex
	hosts *gocache.Cache
}

// NewRobotsChecker creates a checker that fetches robots.txt with client,
// pacing requests through limiter. Rules are kept for ttl; a non-positive ttl
// keeps them for the life of the checker.
func NewRobotsChecker(client *http.Client, userAgent string, limiter *Limiter, ttl time.Duration) *RobotsChecker {
	if ttl <= 0 {
		ttl = gocache.NoExpiration
	}
	return &RobotsChecker{
		client:    client,
		userAgent: userAgent,
		limiter:   limiter,
		hosts:     gocache.New(ttl, 10*time.Minute),
	}
}

// Allowed reports whether rawURL may be fetched. An unreachable robots.txt
// is treated as allow-all.
func (r *RobotsChecker) Allowed(ctx context.Context, rawURL string) (bool, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return false, fmt.Errorf("parse URL: %w", err)
	}

	data, err := r.robots(ctx, parsed)
	if err != nil {
		return false, err
	}
	if data == nil {
		return true, nil
	}

	p := parsed.EscapedPath()
	if p == "" {
		p = "/"
	}
	return data.TestAgent(p, ProductToken(r.userAgent)), nil
}

// robots returns the rules for target's host, or nil when robots.txt cannot
// be read. Only a cancelled pacing wait is an error.
func (r *RobotsChecker) robots(ctx context.Context, target *url.URL) (*robotstxt.RobotsData, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if cached, found := r.hosts.Get(target.Host); found {
		return cached.(*robotstxt.RobotsData), nil
	}

	robotsURL := (&url.URL{Scheme: target.Scheme, Host: target.Host, Path: "/robots.txt"}).String()
	if r.limiter != nil {
		if err := r.limiter.Wait(ctx, robotsURL); err != nil {
			return nil, fmt.Errorf("rate limit: %w", err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, robotsURL, nil)
	if err != nil {
		return nil, nil
	}
	req.Header.Set("User-Agent", r.userAgent)

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, nil
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := robotstxt.FromResponse(resp)
	if err != nil {
		return nil, nil
	}

	r.hosts.SetDefault(target.Host, data)
	return data, nil
}

// ProductToken returns the product name of a User-Agent ("pmtable/0.1 (+url)" -> "pmtable")
func ProductToken(ua string) string {
	parts := strings.Fields(ua)
	if len(parts) == 0 {
		return ua
	}
	return strings.Split(parts[0], "/")[0]
}
