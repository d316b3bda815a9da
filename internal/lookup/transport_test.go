package lookup

import (
	"net/http"
	"testing"
)

func TestProxyFunc(t *testing.T) {
	fn := proxyFunc("http://proxy:3128", "http://secure-proxy:3128", "localhost, internal.example")

	req, _ := http.NewRequest(http.MethodGet, "https://num.voxlink.ru/get/", nil)
	u, err := fn(req)
	if err != nil || u.Host != "secure-proxy:3128" {
		t.Errorf("expected https proxy, got %v %v", u, err)
	}

	req, _ = http.NewRequest(http.MethodGet, "http://num.voxlink.ru/get/", nil)
	u, err = fn(req)
	if err != nil || u.Host != "proxy:3128" {
		t.Errorf("expected http proxy, got %v %v", u, err)
	}

	req, _ = http.NewRequest(http.MethodGet, "http://internal.example/get/", nil)
	u, err = fn(req)
	if err != nil || u != nil {
		t.Errorf("expected bypass for no-proxy host, got %v %v", u, err)
	}
}
