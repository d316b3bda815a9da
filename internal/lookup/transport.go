package lookup

import (
	"net/http"
	"net/url"
	"strings"
)

// proxyFunc returns the outbound proxy selector. Explicit proxies win,
// hosts listed in noProxy bypass them, and the environment is the fallback.
func proxyFunc(httpProxy, httpsProxy, noProxy string) func(*http.Request) (*url.URL, error) {
	if httpProxy == "" && httpsProxy == "" {
		return http.ProxyFromEnvironment
	}

	bypass := make(map[string]bool)
	for _, host := range strings.Split(noProxy, ",") {
		if host = strings.TrimSpace(host); host != "" {
			bypass[strings.ToLower(host)] = true
		}
	}

	return func(req *http.Request) (*url.URL, error) {
		if bypass[strings.ToLower(req.URL.Hostname())] {
			return nil, nil
		}
		if req.URL.Scheme == "https" && httpsProxy != "" {
			return url.Parse(httpsProxy)
		}
		if httpProxy != "" {
			return url.Parse(httpProxy)
		}
		return http.ProxyFromEnvironment(req)
	}
}
