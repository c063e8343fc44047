package registry

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

type stubSource struct {
	url   string
	err   error
	calls int
}

func (s *stubSource) ProjectURL(ctx context.Context, name string) (string, error) {
	s.calls++
	return s.url, s.err
}

func TestFallbackURL(t *testing.T) {
	if got := FallbackURL("requests"); got != "https://pypi.org/project/requests/" {
		t.Errorf("FallbackURL() = %q", got)
	}
}

func TestResolverFirstUsableWins(t *testing.T) {
	failing := &stubSource{err: errors.New("boom")}
	empty := &stubSource{url: ""}
	good := &stubSource{url: "https://example.com/requests"}
	unused := &stubSource{url: "https://example.com/other"}

	r := NewResolver(failing, empty, good, unused)
	if got := r.LookupURL(context.Background(), "requests"); got != "https://example.com/requests" {
		t.Errorf("LookupURL() = %q", got)
	}
	if unused.calls != 0 {
		t.Error("sources after the first usable one should not be called")
	}
}

func TestResolverFallback(t *testing.T) {
	r := NewResolver(&stubSource{err: errors.New("boom")}, &stubSource{url: "not-a-url"})
	if got := r.LookupURL(context.Background(), "flask"); got != FallbackURL("flask") {
		t.Errorf("LookupURL() = %q, want fallback", got)
	}

	if got := NewResolver().LookupURL(context.Background(), "flask"); got != FallbackURL("flask") {
		t.Errorf("LookupURL() with no sources = %q, want fallback", got)
	}
}

func TestResolverLooksUpEveryCall(t *testing.T) {
	src := &stubSource{url: "https://example.com"}
	r := NewResolver(src)

	r.LookupURL(context.Background(), "a")
	r.LookupURL(context.Background(), "a")

	if src.calls != 2 {
		t.Errorf("source called %d times, want 2 (no caching)", src.calls)
	}
}

func TestPyPIClientProjectURL(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/pypi/requests/json":
			_, _ = w.Write([]byte(`{"info": {"name": "requests", "home_page": "https://requests.readthedocs.io",
				"project_urls": {"Source": "https://github.com/psf/requests", "Changelog": "https://github.com/psf/requests/blob/main/HISTORY.md"}}}`))
		case "/pypi/plain/json":
			_, _ = w.Write([]byte(`{"info": {"name": "plain", "home_page": "https://plain.example.com", "project_urls": null}}`))
		case "/pypi/bare/json":
			_, _ = w.Write([]byte(`{"info": {"name": "bare", "home_page": ""}}`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	client := NewPyPIClient(server.URL + "/")

	tests := []struct {
		name    string
		pkg     string
		want    string
		wantErr bool
	}{
		{"changelog preferred", "requests", "https://github.com/psf/requests/blob/main/HISTORY.md", false},
		{"home page", "plain", "https://plain.example.com", false},
		{"nothing usable", "bare", "", false},
		{"not found", "missing", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := client.ProjectURL(context.Background(), tt.pkg)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ProjectURL() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ProjectURL() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNewPyPIClientDefault(t *testing.T) {
	c := NewPyPIClient("")
	if c.baseURL != DefaultBaseURL {
		t.Errorf("baseURL = %s, want %s", c.baseURL, DefaultBaseURL)
	}
}
