package util

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProductToken(t *testing.T) {
	assert.Equal(t, "pmtable", ProductToken("pmtable/0.1 (+https://github.com/ppiankov/pmtable)"))
	assert.Equal(t, "curl", ProductToken("curl"))
	assert.Equal(t, "", ProductToken(""))
}

func TestRobotsChecker(t *testing.T) {
	var robotsHits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/robots.txt" {
			robotsHits.Add(1)
			_, _ = fmt.Fprint(w, "User-agent: pmtable\nDisallow: /private/\n\nUser-agent: *\nDisallow:\n")
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	rc := NewRobotsChecker(server.Client(), "pmtable/0.1", nil, 0)

	ok, err := rc.Allowed(context.Background(), server.URL+"/wiki/List")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = rc.Allowed(context.Background(), server.URL+"/private/page")
	require.NoError(t, err)
	assert.False(t, ok)

	assert.Equal(t, int32(1), robotsHits.Load(), "robots.txt should be fetched once per host")
}

func TestRobotsChecker_ExpiresRules(t *testing.T) {
	var robotsHits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		robotsHits.Add(1)
		_, _ = fmt.Fprint(w, "User-agent: *\nDisallow:\n")
	}))
	defer server.Close()

	rc := NewRobotsChecker(server.Client(), "pmtable/0.1", nil, 20*time.Millisecond)

	_, err := rc.Allowed(context.Background(), server.URL+"/a")
	require.NoError(t, err)
	_, err = rc.Allowed(context.Background(), server.URL+"/b")
	require.NoError(t, err)
	assert.Equal(t, int32(1), robotsHits.Load())

	time.Sleep(50 * time.Millisecond)
	_, err = rc.Allowed(context.Background(), server.URL+"/c")
	require.NoError(t, err)
	assert.Equal(t, int32(2), robotsHits.Load(), "expired rules are fetched again")
}

func TestRobotsChecker_SharesHostBudget(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = fmt.Fprint(w, "User-agent: *\nDisallow:\n")
	}))
	defer server.Close()

	// the robots.txt request spends the host's only token
	limiter := NewLimiter(0.001, 1)
	rc := NewRobotsChecker(server.Client(), "pmtable/0.1", limiter, 0)

	ok, err := rc.Allowed(context.Background(), server.URL+"/wiki/List")
	require.NoError(t, err)
	assert.True(t, ok)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	assert.Error(t, limiter.Wait(ctx, server.URL+"/wiki/List"), "page request must wait behind robots.txt")
}

func TestRobotsChecker_CancelledWait(t *testing.T) {
	var robotsHits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		robotsHits.Add(1)
	}))
	defer server.Close()

	limiter := NewLimiter(0.001, 1)
	require.NoError(t, limiter.Wait(context.Background(), server.URL))

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	rc := NewRobotsChecker(server.Client(), "pmtable/0.1", limiter, 0)
	_, err := rc.Allowed(ctx, server.URL+"/wiki/List")
	assert.ErrorContains(t, err, "rate limit")
	assert.Equal(t, int32(0), robotsHits.Load())
}

func TestRobotsChecker_MissingRobotsAllows(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	defer server.Close()

	rc := NewRobotsChecker(server.Client(), "pmtable/0.1", nil, 0)
	ok, err := rc.Allowed(context.Background(), server.URL+"/anything")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestRobotsChecker_UnreachableAllows(t *testing.T) {
	rc := NewRobotsChecker(&http.Client{Timeout: time.Second}, "pmtable/0.1", nil, 0)
	ok, err := rc.Allowed(context.Background(), "http://127.0.0.1:1/page")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestNewProxyFunc(t *testing.T) {
	fn := NewProxyFunc("http://plain:8080", "http://secure:8443")

	req, _ := http.NewRequest(http.MethodGet, "https://en.wikipedia.org/", nil)
	u, err := fn(req)
	require.NoError(t, err)
	assert.Equal(t, "secure:8443", u.Host)

	req, _ = http.NewRequest(http.MethodGet, "http://example.com/", nil)
	u, err = fn(req)
	require.NoError(t, err)
	assert.Equal(t, "plain:8080", u.Host)
}

func TestLimiter_Unlimited(t *testing.T) {
	l := NewLimiter(0, 0)
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	for i := 0; i < 10; i++ {
		require.NoError(t, l.Wait(ctx, "https://en.wikipedia.org/wiki/A"))
	}
}

func TestLimiter_RespectsContext(t *testing.T) {
	l := NewLimiter(0.001, 1)
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	require.NoError(t, l.Wait(ctx, "https://en.wikipedia.org/wiki/A"))
	assert.Error(t, l.Wait(ctx, "https://en.wikipedia.org/wiki/B"))

	// other hosts have their own budget
	require.NoError(t, l.Wait(ctx, "https://example.com/"))
}
