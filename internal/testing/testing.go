// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"sync"
	"testing"

	"github.com/desertthunder/setlistr/internal/models"
)

// CreatedPlaylist records one CreatePlaylist call.
type CreatedPlaylist struct {
	UserID      string
	Name        string
	Description string
}

// MockProvider is a test double for [services.Provider].
//
// Matches is keyed by song name; a song without an entry has no match. SearchErrs and AddErrs (keyed by batch index)
// inject failures. Calls are recorded for assertions.
type MockProvider struct {
	AuthURL       string
	Token         string
	ExchangeErr   error
	Profile       *models.UserProfile
	ProfileErr    error
	PlaylistCount int
	Matches       map[string]*models.Track
	SearchErrs    map[string]error
	PlaylistID    string
	CreateErr     error
	AddErrs       map[int]error

	mu       sync.Mutex
	Codes    []string
	Searches []models.Song
	Created  []CreatedPlaylist
	Batches  [][]string
}

func (m *MockProvider) AuthCodeURL(state string) string {
	return m.AuthURL + "?state=" + state
}

func (m *MockProvider) Exchange(ctx context.Context, code string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Codes = append(m.Codes, code)
	if m.ExchangeErr != nil {
		return "", m.ExchangeErr
	}
	return m.Token, nil
}

func (m *MockProvider) FetchProfile(ctx context.Context, token string) (*models.UserProfile, error) {
	if m.ProfileErr != nil {
		return nil, m.ProfileErr
	}
	return m.Profile, nil
}

func (m *MockProvider) CountPlaylists(ctx context.Context, token string) int {
	return m.PlaylistCount
}

func (m *MockProvider) SearchTrack(ctx context.Context, token string, song models.Song) (*models.Track, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Searches = append(m.Searches, song)
	if err := m.SearchErrs[song.Name]; err != nil {
		return nil, err
	}
	return m.Matches[song.Name], nil
}

func (m *MockProvider) CreatePlaylist(ctx context.Context, token, userID, name, description string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Created = append(m.Created, CreatedPlaylist{UserID: userID, Name: name, Description: description})
	if m.CreateErr != nil {
		return "", m.CreateErr
	}
	return m.PlaylistID, nil
}

func (m *MockProvider) AddTracks(ctx context.Context, token, playlistID string, uris []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	batch := len(m.Batches)
	m.Batches = append(m.Batches, append([]string(nil), uris...))
	return m.AddErrs[batch]
}

// MockSetlistSource is a test double for [services.SetlistSource].
type MockSetlistSource struct {
	Summaries []models.SetlistSummary
	SearchErr error
	Details   map[string]*models.SetlistDetail // keyed by source URL
	DetailErr error

	Queries []string
	Fetched []string
}

func (m *MockSetlistSource) Search(ctx context.Context, query string) ([]models.SetlistSummary, error) {
	m.Queries = append(m.Queries, query)
	if m.SearchErr != nil {
		return nil, m.SearchErr
	}
	return m.Summaries, nil
}

func (m *MockSetlistSource) FetchDetail(ctx context.Context, sourceURL string) (*models.SetlistDetail, error) {
	m.Fetched = append(m.Fetched, sourceURL)
	if m.DetailErr != nil {
		return nil, m.DetailErr
	}
	if d, ok := m.Details[sourceURL]; ok {
		return d, nil
	}
	return nil, errors.New("no such setlist")
}

// Track builds a match for id.
func Track(id, name string) *models.Track {
	return &models.Track{ID: models.TrackID(id), Name: name, URI: models.TrackID(id).URI()}
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	response *http.Response
	err      error
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return m.response, m.err
}

// FreeAddr returns a loopback address with a port that was free a moment ago.
func FreeAddr(t *testing.T) string {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("Failed to find a free port: %v", err)
	}
	addr := ln.Addr().String()
	ln.Close()
	return addr
}

func MustChdir(t *testing.T, dir string) {
	t.Helper()
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("Failed to change directory to %s: %v", dir, err)
	}
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}
