package lookup

import (
	"net/url"
	"testing"
)

func TestEndpoint_URL(t *testing.T) {
	params := url.Values{}
	params.Set("num", "79123456789")

	direct := Endpoint{BaseURL: "https://num.voxlink.ru/get/"}
	if got := direct.URL(params); got != "https://num.voxlink.ru/get/?num=79123456789" {
		t.Errorf("unexpected direct URL %s", got)
	}

	proxied := Endpoint{BaseURL: "https://num.voxlink.ru/get/", Proxy: "https://corsproxy.io/?"}
	want := "https://corsproxy.io/?https%3A%2F%2Fnum.voxlink.ru%2Fget%2F%3Fnum%3D79123456789"
	if got := proxied.URL(params); got != want {
		t.Errorf("unexpected proxied URL %s", got)
	}

	if got := direct.URL(url.Values{}); got != "https://num.voxlink.ru/get/" {
		t.Errorf("expected no query for empty params, got %s", got)
	}
}

func TestParseEndpoint(t *testing.T) {
	if _, err := ParseEndpoint("https://num.voxlink.ru/get/", ""); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if _, err := ParseEndpoint("ftp://example.com", ""); err == nil {
		t.Error("expected error for unsupported scheme")
	}
	if _, err := ParseEndpoint("https://num.voxlink.ru/get/", "not a url"); err == nil {
		t.Error("expected error for invalid proxy")
	}
	if _, err := ParseEndpoint("https:///nohost", ""); err == nil {
		t.Error("expected error for missing host")
	}
}
