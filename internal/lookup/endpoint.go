package lookup

import (
	"fmt"
	"net/url"
)

// Endpoint describes where lookups are sent. When Proxy is set the
// escaped target URL is appended to it, the way CORS relays expect.
type Endpoint struct {
	BaseURL string
	Proxy   string
}

// ParseEndpoint validates base and proxy
func ParseEndpoint(base, proxy string) (Endpoint, error) {
	if err := checkURL(base); err != nil {
		return Endpoint{}, fmt.Errorf("base url: %w", err)
	}
	if proxy != "" {
		if err := checkURL(proxy); err != nil {
			return Endpoint{}, fmt.Errorf("proxy: %w", err)
		}
	}
	return Endpoint{BaseURL: base, Proxy: proxy}, nil
}

// URL builds the request URL for the given query
func (e Endpoint) URL(params url.Values) string {
	target := e.BaseURL
	if q := params.Encode(); q != "" {
		target += "?" + q
	}
	if e.Proxy == "" {
		return target
	}
	return e.Proxy + url.QueryEscape(target)
}

func checkURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return err
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("unsupported scheme %q in %s", u.Scheme, raw)
	}
	if u.Host == "" {
		return fmt.Errorf("missing host in %s", raw)
	}
	return nil
}
