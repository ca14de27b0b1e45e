package mcp

import (
	"net/url"
	"testing"
)

func MustURL(t *testing.T, uri string) *url.URL {
	t.Helper()
	v, err := url.Parse(uri)
	if err != nil {
		t.Fatalf("failed to parse URL: %v", err)
	}
	return v
}

func noopResourceHandler(ResourceContext) error { return nil }
