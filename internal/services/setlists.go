// setlist.fm page fetching for [SetlistSource]
package services

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/setlistr/internal/models"
	"github.com/desertthunder/setlistr/internal/scraper"
	"github.com/desertthunder/setlistr/internal/shared"
	"golang.org/x/time/rate"
)

const (
	setlistBaseURL   = "https://www.setlist.fm"
	defaultUserAgent = "setlistr/1.0 (+https://github.com/desertthunder/setlistr)"
	maxPageSize      = 4 << 20
)

// SetlistService fetches setlist.fm pages and extracts setlists from them.
type SetlistService struct {
	baseURL    *url.URL
	userAgent  string
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *log.Logger
}

// NewSetlistService creates a page fetcher from scraper settings.
//
// A non-positive rate limit disables pacing.
func NewSetlistService(cfg shared.ScraperConfig, client *http.Client, logger *log.Logger) (*SetlistService, error) {
	base, err := url.Parse(strings.TrimRight(valueOr(cfg.BaseURL, setlistBaseURL), "/"))
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("%w: scraper.base_url %q", shared.ErrInvalidConfig, cfg.BaseURL)
	}

	limit := rate.Inf
	if cfg.RateLimit > 0 {
		limit = rate.Limit(cfg.RateLimit)
	}

	if client == nil {
		client = http.DefaultClient
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}

	return &SetlistService{
		baseURL:    base,
		userAgent:  valueOr(cfg.UserAgent, defaultUserAgent),
		httpClient: client,
		limiter:    rate.NewLimiter(limit, 1),
		logger:     shared.WithLogger(logger, "service", "setlistfm"),
	}, nil
}

// Search returns the first page of results for an artist query.
func (s *SetlistService) Search(ctx context.Context, query string) ([]models.SetlistSummary, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("%w: search query is empty", shared.ErrInvalidInput)
	}

	searchURL := s.baseURL.JoinPath("search")
	searchURL.RawQuery = url.Values{"query": {query}}.Encode()

	body, err := s.fetch(ctx, searchURL.String())
	if err != nil {
		return nil, err
	}

	summaries, err := scraper.ExtractSummaries(bytes.NewReader(body), searchURL)
	if err != nil {
		return nil, err
	}

	s.logger.Info("searched setlists", "query", query, "results", len(summaries))
	return summaries, nil
}

// FetchDetail loads one event page and returns its setlist.
func (s *SetlistService) FetchDetail(ctx context.Context, sourceURL string) (*models.SetlistDetail, error) {
	if strings.TrimSpace(sourceURL) == "" {
		return nil, fmt.Errorf("%w: setlist has no link", shared.ErrInvalidInput)
	}

	body, err := s.fetch(ctx, sourceURL)
	if err != nil {
		return nil, err
	}

	detail, err := scraper.ExtractDetail(bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	detail.SourceURL = sourceURL

	s.logger.Info("loaded setlist", "artist", detail.ArtistName, "songs", len(detail.Songs))
	return detail, nil
}

// fetch waits for the limiter, then GETs pageURL and returns the body.
func (s *SetlistService) fetch(ctx context.Context, pageURL string) ([]byte, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, &FetchError{URL: pageURL, Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, &FetchError{URL: pageURL, Err: err}
	}
	req.Header.Set("User-Agent", s.userAgent)
	req.Header.Set("Accept", "text/html")

	s.logger.Debug("fetching page", "url", pageURL)
	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, &FetchError{URL: pageURL, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &FetchError{URL: pageURL, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxPageSize))
	if err != nil {
		return nil, &FetchError{URL: pageURL, StatusCode: resp.StatusCode, Err: fmt.Errorf("failed to read response: %w", err)}
	}
	return body, nil
}
