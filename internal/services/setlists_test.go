package services

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/desertthunder/setlistr/internal/scraper"
	"github.com/desertthunder/setlistr/internal/shared"
)

func scraperFixture(t *testing.T, name string) []byte {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("..", "scraper", "testdata", name))
	if err != nil {
		t.Fatalf("failed to read fixture %s: %v", name, err)
	}
	return data
}

func newTestSetlists(t *testing.T, rateLimit float64, handler http.HandlerFunc) (*SetlistService, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	cfg := shared.ScraperConfig{BaseURL: server.URL, UserAgent: "setlistr-test", RateLimit: rateLimit}
	srv, err := NewSetlistService(cfg, server.Client(), nil)
	if err != nil {
		t.Fatalf("failed to create service: %v", err)
	}
	return srv, server
}

func TestSetlistService(t *testing.T) {
	t.Run("NewSetlistService", func(t *testing.T) {
		t.Run("defaults", func(t *testing.T) {
			srv, err := NewSetlistService(shared.ScraperConfig{}, nil, nil)
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if srv.baseURL.String() != setlistBaseURL {
				t.Errorf("expected default base url, got %s", srv.baseURL)
			}
			if srv.userAgent != defaultUserAgent {
				t.Errorf("expected default user agent, got %s", srv.userAgent)
			}
		})

		t.Run("invalid base url", func(t *testing.T) {
			_, err := NewSetlistService(shared.ScraperConfig{BaseURL: "not a url"}, nil, nil)
			if !errors.Is(err, shared.ErrInvalidConfig) {
				t.Errorf("expected ErrInvalidConfig, got %v", err)
			}
		})
	})

	t.Run("Search", func(t *testing.T) {
		t.Run("extracts results", func(t *testing.T) {
			srv, server := newTestSetlists(t, 0, func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != "/search" {
					t.Errorf("unexpected path %s", r.URL.Path)
				}
				if q := r.URL.Query().Get("query"); q != "Sigur Rós & friends" {
					t.Errorf("unexpected query %q", q)
				}
				if ua := r.Header.Get("User-Agent"); ua != "setlistr-test" {
					t.Errorf("unexpected user agent %q", ua)
				}
				w.Write(scraperFixture(t, "search.html"))
			})

			got, err := srv.Search(context.Background(), "  Sigur Rós & friends ")
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if len(got) != 3 {
				t.Fatalf("expected 3 summaries, got %d", len(got))
			}
			wantURL := server.URL + "/setlist/radiohead/2017/worthy-farm-pilton-england-7bc1a2d4.html"
			if got[1].SourceURL != wantURL {
				t.Errorf("expected link resolved against the server, got %s", got[1].SourceURL)
			}
		})

		t.Run("no results", func(t *testing.T) {
			srv, _ := newTestSetlists(t, 0, func(w http.ResponseWriter, r *http.Request) {
				w.Write(scraperFixture(t, "search_empty.html"))
			})

			got, err := srv.Search(context.Background(), "nobody")
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if len(got) != 0 {
				t.Errorf("expected no results, got %d", len(got))
			}
		})

		t.Run("blank query", func(t *testing.T) {
			srv, _ := newTestSetlists(t, 0, func(w http.ResponseWriter, r *http.Request) {
				t.Error("no request expected for a blank query")
			})
			if _, err := srv.Search(context.Background(), "   "); !errors.Is(err, shared.ErrInvalidInput) {
				t.Errorf("expected ErrInvalidInput, got %v", err)
			}
		})

		t.Run("server error", func(t *testing.T) {
			srv, _ := newTestSetlists(t, 0, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusServiceUnavailable)
			})

			_, err := srv.Search(context.Background(), "radiohead")
			var fetchErr *FetchError
			if !errors.As(err, &fetchErr) {
				t.Fatalf("expected *FetchError, got %v", err)
			}
			if fetchErr.StatusCode != http.StatusServiceUnavailable {
				t.Errorf("expected 503, got %d", fetchErr.StatusCode)
			}
			if !errors.Is(err, shared.ErrFetch) {
				t.Error("FetchError should match ErrFetch")
			}
		})
	})

	t.Run("FetchDetail", func(t *testing.T) {
		t.Run("extracts setlist", func(t *testing.T) {
			srv, server := newTestSetlists(t, 0, func(w http.ResponseWriter, r *http.Request) {
				w.Write(scraperFixture(t, "setlist.html"))
			})

			pageURL := server.URL + "/setlist/radiohead/1998/roseland.html"
			detail, err := srv.FetchDetail(context.Background(), pageURL)
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if detail.SourceURL != pageURL {
				t.Errorf("expected source url %s, got %s", pageURL, detail.SourceURL)
			}
			if len(detail.Songs) != 3 || detail.Songs[0].Name != "Airbag" {
				t.Errorf("unexpected songs %+v", detail.Songs)
			}
		})

		t.Run("unrecognized page", func(t *testing.T) {
			srv, server := newTestSetlists(t, 0, func(w http.ResponseWriter, r *http.Request) {
				w.Write(scraperFixture(t, "error_page.html"))
			})

			_, err := srv.FetchDetail(context.Background(), server.URL+"/setlist/x.html")
			var parseErr *scraper.ParseError
			if !errors.As(err, &parseErr) {
				t.Errorf("expected *scraper.ParseError, got %v", err)
			}
		})

		t.Run("missing link", func(t *testing.T) {
			srv, _ := newTestSetlists(t, 0, func(w http.ResponseWriter, r *http.Request) {
				t.Error("no request expected without a link")
			})
			if _, err := srv.FetchDetail(context.Background(), ""); !errors.Is(err, shared.ErrInvalidInput) {
				t.Errorf("expected ErrInvalidInput, got %v", err)
			}
		})

		t.Run("unreachable host", func(t *testing.T) {
			server := httptest.NewServer(http.NotFoundHandler())
			pageURL := server.URL + "/setlist/x.html"
			server.Close()

			srv, err := NewSetlistService(shared.ScraperConfig{}, nil, nil)
			if err != nil {
				t.Fatalf("failed to create service: %v", err)
			}

			_, err = srv.FetchDetail(context.Background(), pageURL)
			var fetchErr *FetchError
			if !errors.As(err, &fetchErr) || fetchErr.Err == nil {
				t.Errorf("expected transport FetchError, got %v", err)
			}
		})
	})

	t.Run("rate limit", func(t *testing.T) {
		t.Run("paces requests", func(t *testing.T) {
			srv, _ := newTestSetlists(t, 20, func(w http.ResponseWriter, r *http.Request) {
				w.Write(scraperFixture(t, "search_empty.html"))
			})

			start := time.Now()
			for range 3 {
				if _, err := srv.Search(context.Background(), "radiohead"); err != nil {
					t.Fatalf("expected no error, got %v", err)
				}
			}
			// burst of one, then two waits of 50ms each
			if elapsed := time.Since(start); elapsed < 90*time.Millisecond {
				t.Errorf("expected requests to be paced, took %v", elapsed)
			}
		})

		t.Run("cancelled wait", func(t *testing.T) {
			srv, _ := newTestSetlists(t, 0.001, func(w http.ResponseWriter, r *http.Request) {
				w.Write(scraperFixture(t, "search_empty.html"))
			})
			if _, err := srv.Search(context.Background(), "radiohead"); err != nil {
				t.Fatalf("first request should use the burst: %v", err)
			}

			ctx, cancel := context.WithCancel(context.Background())
			cancel()
			_, err := srv.Search(ctx, "radiohead")
			if !errors.Is(err, shared.ErrFetch) {
				t.Errorf("expected ErrFetch, got %v", err)
			}
			if !strings.Contains(err.Error(), "search") {
				t.Errorf("expected url in error, got %q", err.Error())
			}
		})
	})
}
