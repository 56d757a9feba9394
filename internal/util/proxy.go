package util

import (
	"net/http"
	"net/url"
)

// NewProxyFunc picks the configured proxy for the request scheme.
// With no proxies configured it defers to HTTP_PROXY/HTTPS_PROXY/NO_PROXY.
func NewProxyFunc(httpProxy, httpsProxy string) func(*http.Request) (*url.URL, error) {
	if httpProxy == "" && httpsProxy == "" {
		return http.ProxyFromEnvironment
	}

	return func(req *http.Request) (*url.URL, error) {
		if req.URL.Scheme == "https" && httpsProxy != "" {
			return url.Parse(httpsProxy)
		}
		if httpProxy != "" {
			return url.Parse(httpProxy)
		}
		return http.ProxyFromEnvironment(req)
	}
}

// NewTransport returns a cloned default transport using the given proxies
func NewTransport(httpProxy, httpsProxy string) *http.Transport {
	t := http.DefaultTransport.(*http.Transport).Clone()
	t.Proxy = NewProxyFunc(httpProxy, httpsProxy)
	return t
}
